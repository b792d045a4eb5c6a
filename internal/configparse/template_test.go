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
	"testing"

	"github.com/pvandervelde/repo-roller/internal/configmodel"
)

const sampleTemplate = `
[template]
name = "go-service"
description = "Standard service layout"
author = "platform-team"
tags = ["go", "service"]

[repository_type]
type_name = "service"
policy = "fixed"

[variables.service_name]
description = "Name used in rendered manifests."
example = "billing"
required = true

[variables.port]
description = "Port the service listens on."
default = "8080"

[repository]
has_wiki = { value = false, override_allowed = true }
`

func TestParseTemplateConfigHappyPath(t *testing.T) {
	res := ParseTemplateConfig([]byte(sampleTemplate), "config.toml", "go-service", true)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", res.Errors)
	}
	cfg := res.Config
	if cfg.Metadata.Name != "go-service" || cfg.Metadata.Author != "platform-team" {
		t.Errorf("metadata = %+v", cfg.Metadata)
	}
	if cfg.Selector.TypeName != "service" || cfg.Selector.Policy != configmodel.RepositoryTypeFixed {
		t.Errorf("selector = %+v", cfg.Selector)
	}
	if v, ok := cfg.Variables["service_name"]; !ok || !v.Required {
		t.Errorf("variables[service_name] = %+v, ok=%v", v, ok)
	}
	if cfg.Variables["port"].Default != "8080" {
		t.Errorf("variables[port].Default = %q", cfg.Variables["port"].Default)
	}
}

func TestParseTemplateConfigMissingMetadata(t *testing.T) {
	doc := `
[template]
name = "go-service"

[repository_type]
type_name = "service"
policy = "fixed"
`
	res := ParseTemplateConfig([]byte(doc), "config.toml", "go-service", true)
	if len(res.Errors) != 2 {
		t.Fatalf("errors = %+v, want missing description and author", res.Errors)
	}
	if res.Config != nil {
		t.Error("expected no config on error")
	}
}

func TestParseTemplateConfigInvalidPolicy(t *testing.T) {
	doc := `
[template]
name = "t"
description = "d"
author = "a"

[repository_type]
type_name = "service"
policy = "mandatory"
`
	res := ParseTemplateConfig([]byte(doc), "config.toml", "t", true)
	if len(res.Errors) == 0 {
		t.Fatal("expected an invalid-policy error")
	}
	if res.Errors[0].FieldPath != "repository_type.policy" {
		t.Errorf("FieldPath = %q", res.Errors[0].FieldPath)
	}
}

func TestParseTemplateConfigVariableWithoutDescription(t *testing.T) {
	doc := `
[template]
name = "t"
description = "d"
author = "a"

[repository_type]
type_name = "service"
policy = "preferable"

[variables.service_name]
example = "billing"
`
	res := ParseTemplateConfig([]byte(doc), "config.toml", "t", true)
	if len(res.Errors) == 0 {
		t.Fatal("expected an error for the description-less variable")
	}
}

func TestTemplateBase(t *testing.T) {
	if got := TemplateBase([]byte("base_template = \"shared-go\"\n\n[template]\nname = \"t\"\n")); got != "shared-go" {
		t.Errorf("TemplateBase() = %q, want shared-go", got)
	}
	if got := TemplateBase([]byte("[template]\nname = \"t\"\n")); got != "" {
		t.Errorf("TemplateBase() = %q, want empty for a standalone document", got)
	}
}
