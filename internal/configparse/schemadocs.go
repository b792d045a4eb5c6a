// Copyright 2026 The Repo Roller Authors

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package configparse

import (
	"encoding/json"
	"fmt"

	"sigs.k8s.io/yaml"
)

// SchemaDoc is one descriptive document from a metadata repository's
// optional schemas/ directory: human-facing field documentation
// shown to operators editing a layer's TOML, opaque to the merge and
// validation pipeline itself. It is never consulted to resolve a field
// or reject a document; ParseSchemaDoc only checks that the document is
// well-formed YAML.
type SchemaDoc struct {
	FieldPath   string `json:"field_path"`
	Description string `json:"description"`
	Example     string `json:"example,omitempty"`
}

// ParseSchemaDoc reads one schemas/ directory entry, written as YAML
// rather than TOML since it is prose, not an override document. Unknown
// fields are accepted rather than rejected: these documents describe the
// schema, they do not need to conform to one.
func ParseSchemaDoc(data []byte) (*SchemaDoc, error) {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("converting schema doc from yaml: %w", err)
	}
	var doc SchemaDoc
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("decoding schema doc: %w", err)
	}
	return &doc, nil
}
