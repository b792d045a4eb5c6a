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

import "testing"

func TestParseStandardLabels(t *testing.T) {
	doc := `
[[labels]]
name = "bug"
color = "d73a4a"
description = "Something broke"

[[labels]]
name = "enhancement"
color = "a2eeef"
`
	res := ParseStandardLabels([]byte(doc), "global/labels.toml", "acme-config")
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", res.Errors)
	}
	labels := *res.Config
	if len(labels) != 2 {
		t.Fatalf("labels = %+v, want 2 entries", labels)
	}
	if labels["bug"].Color != "d73a4a" {
		t.Errorf("labels[bug].Color = %q", labels["bug"].Color)
	}
}

func TestParseStandardLabelsInvalidColor(t *testing.T) {
	res := ParseStandardLabels([]byte("[[labels]]\nname = \"bug\"\ncolor = \"D73A4A\"\n"), "global/labels.toml", "acme-config")
	if len(res.Errors) == 0 {
		t.Fatal("expected an error for an uppercase color")
	}
}

func TestSuggestField(t *testing.T) {
	if got := suggestField("has_wkii", knownFieldNames); got != "has_wiki" {
		t.Errorf("suggestField(has_wkii) = %q, want has_wiki", got)
	}
	if got := suggestField("completely_unrelated_key_zzz", knownFieldNames); got != "" {
		t.Errorf("suggestField(unrelated) = %q, want empty", got)
	}
}

func TestMergeBaseDocument(t *testing.T) {
	base := []byte(`
[template]
name = "base"
author = "platform"

[repository_type]
type_name = "service"
policy = "preferable"

[repository]
has_wiki = { value = true, override_allowed = true }
`)
	override := []byte(`
[template]
name = "derived"

[repository]
has_wiki = { value = false, override_allowed = true }
`)
	merged, err := MergeBaseDocument(base, override)
	if err != nil {
		t.Fatalf("MergeBaseDocument() error = %v", err)
	}
	res := ParseTemplateConfig(merged, "config.toml", "derived", true)
	// Author inherits from base, name is overridden; description is still
	// missing so exactly that one error remains.
	if len(res.Errors) != 1 || res.Errors[0].FieldPath != "template.description" {
		t.Fatalf("errors = %+v, want only the missing description", res.Errors)
	}
}
