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
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

// TemplateBase reports the base template repository a template document
// inherits from via its top-level base_template key, or "" when the
// document stands alone. Decode errors are deliberately swallowed here:
// the full ParseTemplateConfig run on the same bytes reports them with
// proper Issue records.
func TemplateBase(data []byte) string {
	var p struct {
		BaseTemplate string `toml:"base_template"`
	}
	_, _ = toml.Decode(string(data), &p)
	return p.BaseTemplate
}

// MergeBaseDocument layers a template document over a shared base
// document: the result is base with every field override sets replacing
// base's, computed as an RFC 7396 JSON merge patch. Both inputs and the
// output are TOML bytes, so the result can be handed straight to the
// usual Parse* functions.
func MergeBaseDocument(base, override []byte) ([]byte, error) {
	baseJSON, err := tomlToJSON(base)
	if err != nil {
		return nil, fmt.Errorf("converting base document: %w", err)
	}
	overrideJSON, err := tomlToJSON(override)
	if err != nil {
		return nil, fmt.Errorf("converting override document: %w", err)
	}
	merged, err := jsonpatch.MergePatch(baseJSON, overrideJSON)
	if err != nil {
		return nil, fmt.Errorf("applying merge patch: %w", err)
	}
	return jsonToTOML(merged)
}

func tomlToJSON(data []byte) ([]byte, error) {
	var v map[string]interface{}
	if _, err := toml.Decode(string(data), &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func jsonToTOML(data []byte) ([]byte, error) {
	var v map[string]interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
