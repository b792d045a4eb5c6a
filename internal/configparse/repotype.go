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

type rawRepositoryTypeConfig struct {
	rawSubRecords
	rawCollections
}

// ParseRepositoryTypeConfig parses a types/{type}/config.toml document.
// typeName is the directory name the metadata provider discovered this
// document under, not a field inside the file.
func ParseRepositoryTypeConfig(data []byte, filePath, repoContext, typeName string, strictSecurity bool) *Result[configmodel.RepositoryTypeConfig] {
	res := &Result[configmodel.RepositoryTypeConfig]{Metadata: Metadata{FilePath: filePath, RepoContext: repoContext}}

	var raw rawRepositoryTypeConfig
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
	rep, pr, bp, push, act := convertSubRecords(raw.rawSubRecords, &sink)
	labels, webhooks, apps, props, envs, notifications := convertCollections(raw.rawCollections, strictSecurity, &sink)
	res.Errors = append(res.Errors, sink.errors...)
	res.Warnings = append(res.Warnings, sink.warnings...)
	res.Metadata.HasDeprecatedSyntax = sink.deprecated
	if len(res.Errors) > 0 {
		return res
	}

	cfg := configmodel.RepositoryTypeConfig{
		TypeName:   typeName,
		Repository: rep, PullRequests: pr, BranchProtection: bp, Push: push, Actions: act,
		Labels: labels, Webhooks: webhooks, RequiredApps: apps, CustomProperties: props, Environments: envs, Notifications: notifications,
	}
	res.Config = &cfg
	res.Metadata.FieldsParsed = len(meta.Keys())
	return res
}
