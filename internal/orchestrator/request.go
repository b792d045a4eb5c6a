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

package orchestrator

import "github.com/pvandervelde/repo-roller/internal/configmodel"

// ContentStrategy selects how the new repository's initial tree is
// seeded.
type ContentStrategy = configmodel.ContentStrategy

const (
	ContentEmpty      = configmodel.ContentStrategyEmpty
	ContentTemplate   = configmodel.ContentStrategyTemplate
	ContentCustomInit = configmodel.ContentStrategyCustomInit
)

// CustomInitOptions controls file seeding under ContentCustomInit.
type CustomInitOptions struct {
	IncludeReadme    bool
	IncludeGitignore bool
}

// Request is the creation request the caller hands to the orchestrator.
type Request struct {
	Name                    string
	Owner                   string
	Team                    string
	Template                string
	Variables               map[string]string
	Visibility              string
	ContentStrategy         ContentStrategy
	CustomInit              CustomInitOptions
	RequestedRepositoryType string
	CreatedBy               string
	Description             string
}

// StepOutcome is the result category of one pipeline step.
type StepOutcome string

const (
	OutcomeOK        StepOutcome = "ok"
	OutcomeSkipped   StepOutcome = "skipped"
	OutcomeWarning   StepOutcome = "warning"
	OutcomeFailed    StepOutcome = "failed"
	OutcomeCancelled StepOutcome = "cancelled"
)

// StepResult records one pipeline step's outcome.
type StepResult struct {
	Name       string
	Outcome    StepOutcome
	Message    string
	DurationMs int64
}

// Failure describes why the overall request did not succeed.
type Failure struct {
	Step              string
	Category          FailureCategory
	Message           string
	RollbackPerformed bool
}

// Result is the orchestrator's outcome record.
type Result struct {
	RepositoryURL string
	RepositoryID  int64
	CreatedAt     string
	DefaultBranch string
	Steps         []StepResult
	Success       bool
	Failure       *Failure
	// SourceTrace is the resolved configuration's per-field provenance,
	// carried on the result so a caller can hand it to
	// internal/policyhistory without re-running the merge.
	SourceTrace configmodel.SourceTrace
}
