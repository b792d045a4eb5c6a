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

// Package merge implements the hierarchical merger: it applies
// global, repository-type, team, and template documents in precedence
// order, enforces each field's override policy, and produces a resolved
// MergedConfiguration together with a source-of-origin trace. Stateless
// and never suspends.
package merge

import (
	"fmt"

	"github.com/pvandervelde/repo-roller/internal/configmodel"
)

// OverrideNotPermittedError reports a higher-precedence layer attempting to
// change a field a lower layer marked non-overridable.
type OverrideNotPermittedError struct {
	Setting     string
	AttemptedBy configmodel.SourceTag
	FixedBy     configmodel.SourceTag
	Reason      string
}

func (e *OverrideNotPermittedError) Error() string {
	return fmt.Sprintf("override not permitted for %q: %s attempted to change a value %s fixed (%s)",
		e.Setting, e.AttemptedBy, e.FixedBy, e.Reason)
}

// RepositoryTypeMismatchError reports a template's Fixed selector
// disagreeing with the orchestrator's requested repository type.
type RepositoryTypeMismatchError struct {
	Requested string
	Required  string
}

func (e *RepositoryTypeMismatchError) Error() string {
	return fmt.Sprintf("requested repository type %q does not match the template's fixed selector %q", e.Requested, e.Required)
}
