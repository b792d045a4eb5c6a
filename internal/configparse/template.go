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

type rawTemplateMetadata struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Author      string   `toml:"author"`
	Tags        []string `toml:"tags"`
}

type rawSelector struct {
	TypeName string `toml:"type_name"`
	Policy   string `toml:"policy"`
}

type rawTemplateVariable struct {
	Description string `toml:"description"`
	Example     string `toml:"example"`
	Default     string `toml:"default"`
	Required    bool   `toml:"required"`
}

type rawTemplateConfig struct {
	rawSubRecords
	rawCollections
	// BaseTemplate is consumed by the loader (TemplateBase +
	// MergeBaseDocument) before this parse runs; it is declared here only
	// so the unknown-field check accepts it.
	BaseTemplate   string                         `toml:"base_template"`
	Template       rawTemplateMetadata            `toml:"template"`
	RepositoryType rawSelector                    `toml:"repository_type"`
	Variables      map[string]rawTemplateVariable `toml:"variables"`
}

// ParseTemplateConfig parses a template configuration document. Template
// metadata and the repository-type selector are required.
func ParseTemplateConfig(data []byte, filePath, repoContext string, strictSecurity bool) *Result[configmodel.TemplateConfig] {
	res := &Result[configmodel.TemplateConfig]{Metadata: Metadata{FilePath: filePath, RepoContext: repoContext}}

	var raw rawTemplateConfig
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

	var sink issueSink

	if raw.Template.Name == "" {
		sink.addError("template.name", "template.name must not be empty")
	}
	if raw.Template.Description == "" {
		sink.addError("template.description", "template.description must not be empty")
	}
	if raw.Template.Author == "" {
		sink.addError("template.author", "template.author must not be empty")
	}

	policy := configmodel.RepositoryTypePolicy(raw.RepositoryType.Policy)
	if policy != configmodel.RepositoryTypeFixed && policy != configmodel.RepositoryTypePreferable {
		sink.addError("repository_type.policy", fmt.Sprintf("invalid repository-type policy %q", raw.RepositoryType.Policy))
	}

	variables := make(map[string]configmodel.TemplateVariable, len(raw.Variables))
	for name, v := range raw.Variables {
		if v.Description == "" {
			sink.addError(fmt.Sprintf("variables.%s.description", name), "template variable description must not be empty")
			continue
		}
		variables[name] = configmodel.TemplateVariable{
			Description: v.Description, Example: v.Example, Default: v.Default, Required: v.Required,
		}
	}

	rep, pr, bp, push, act := convertSubRecords(raw.rawSubRecords, &sink)
	labels, webhooks, apps, props, envs, notifications := convertCollections(raw.rawCollections, strictSecurity, &sink)
	res.Errors = append(res.Errors, sink.errors...)
	res.Warnings = append(res.Warnings, sink.warnings...)
	res.Metadata.HasDeprecatedSyntax = sink.deprecated
	if len(res.Errors) > 0 {
		return res
	}

	cfg := configmodel.TemplateConfig{
		Metadata: configmodel.TemplateMetadata{
			Name: raw.Template.Name, Description: raw.Template.Description,
			Author: raw.Template.Author, Tags: raw.Template.Tags,
		},
		Selector:  configmodel.RepositoryTypeSelector{TypeName: raw.RepositoryType.TypeName, Policy: policy},
		Variables: variables,
		Repository: rep, PullRequests: pr, BranchProtection: bp, Push: push, Actions: act,
		Labels: labels, Webhooks: webhooks, RequiredApps: apps, CustomProperties: props, Environments: envs, Notifications: notifications,
	}
	res.Config = &cfg
	res.Metadata.FieldsParsed = len(meta.Keys())
	return res
}
