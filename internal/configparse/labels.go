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
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/pvandervelde/repo-roller/internal/configmodel"
)

type rawLabelsFile struct {
	Labels []rawLabel `toml:"labels"`
}

// ParseStandardLabels parses the optional global/labels.toml document into
// a name-keyed map of standard labels.
func ParseStandardLabels(data []byte, filePath, repoContext string) *Result[map[string]configmodel.LabelConfig] {
	res := &Result[map[string]configmodel.LabelConfig]{Metadata: Metadata{FilePath: filePath, RepoContext: repoContext}}

	var raw rawLabelsFile
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		res.addError("", fmt.Sprintf("failed to parse TOML: %v", err), "")
		return res
	}
	for _, key := range meta.Undecoded() {
		field := key[len(key)-1]
		res.addError(key.String(), fmt.Sprintf("unknown field %q", field), suggestField(field, knownFieldNames))
	}
	if len(res.Errors) > 0 {
		return res
	}

	out := make(map[string]configmodel.LabelConfig, len(raw.Labels))
	for i, l := range raw.Labels {
		if !labelColorPattern.MatchString(l.Color) {
			res.addError(fmt.Sprintf("labels[%d].color", i), fmt.Sprintf("label color %q must be exactly 6 hex digits", l.Color), "")
			continue
		}
		out[l.Name] = configmodel.LabelConfig{Name: l.Name, Color: l.Color, Description: l.Description}
	}
	if len(res.Errors) > 0 {
		return res
	}
	res.Config = &out
	res.Metadata.FieldsParsed = len(meta.Keys())
	return res
}
