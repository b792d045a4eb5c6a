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

import (
	"context"
	"time"

	"github.com/pvandervelde/repo-roller/internal/configmodel"
	"github.com/pvandervelde/repo-roller/internal/forge"
	"github.com/pvandervelde/repo-roller/internal/merge"
	"github.com/pvandervelde/repo-roller/internal/metadata"
	"github.com/pvandervelde/repo-roller/internal/schema"
	"github.com/rs/zerolog/log"
)

// TemplateRenderer is the external collaborator that clones a template's
// source tree, substitutes variables, and pushes the initial commit. The
// orchestrator only observes success or failure.
type TemplateRenderer interface {
	Render(ctx context.Context, templateRepo, org, repo, defaultBranch string, variables map[string]string) error
}

// EventPublisher is the narrow surface the final publish step needs.
type EventPublisher interface {
	PublishRepositoryCreated(ctx context.Context, evt PublishInput) error
}

// PublishInput carries what the orchestrator knows at step 11; the
// eventpublisher package turns it into the canonical event document.
type PublishInput struct {
	Organization     string
	RepositoryName   string
	RepositoryURL    string
	RepositoryID     int64
	CreatedBy        string
	ContentStrategy  string
	Visibility       string
	RepositoryType   string
	TemplateName     string
	Team             string
	Description      string
	CustomProperties map[string]string
	AppliedSettings  map[string]bool
	// Endpoints is the deduped set of event-publisher subscriber endpoints
	// the merged configuration contributed; the orchestrator
	// never inspects them itself, only forwards them to the publisher.
	Endpoints []configmodel.NotificationEndpoint
}

// Orchestrator runs CreateRepository. Stateless aside from its
// collaborators; safe for concurrent use across independent requests.
type Orchestrator struct {
	provider  *metadata.Provider
	creator   forge.RepositoryCreator
	merger    *merge.Merger
	validator *schema.Validator
	renderer  TemplateRenderer
	publisher EventPublisher
}

// New constructs an Orchestrator from its collaborators.
func New(provider *metadata.Provider, creator forge.RepositoryCreator, validator *schema.Validator, renderer TemplateRenderer, publisher EventPublisher) *Orchestrator {
	return &Orchestrator{
		provider:  provider,
		creator:   creator,
		merger:    merge.New(),
		validator: validator,
		renderer:  renderer,
		publisher: publisher,
	}
}

// now is a package variable seam; tests stub it to get deterministic
// durations and timestamps without depending on wall-clock time.
var now = time.Now

// CreateRepository runs the eleven pipeline steps strictly in order.
// Exactly one of three terminal outcomes is produced: success, partial
// success (soft-failed steps recorded as warnings), or a typed failure with
// the rollback state on the result.
func (o *Orchestrator) CreateRepository(ctx context.Context, req Request) (*Result, error) {
	result := &Result{}
	runner := &stepRunner{ctx: ctx, req: req, orch: o, result: result}

	merged, ok := runner.resolveConfiguration()
	if !ok {
		return result, runner.abortErr
	}
	result.SourceTrace = merged.merged.Source

	if !runner.createRepository() {
		return result, runner.abortErr
	}

	runner.seedContent(merged)
	runner.applyRepositoryFeatures(merged)
	runner.applyPullRequestSettings(merged)
	runner.applyBranchProtection(merged)

	runner.createLabels(merged)
	runner.registerWebhooks(merged)
	runner.installApps(merged)
	runner.setCustomProperties(merged)

	// The request may have been cancelled during a soft step without any
	// step noticing; the repository exists, so the cancellation contract
	// still demands the compensating rollback.
	runner.checkCancelled()

	if result.Failure != nil {
		// A fatal mutation step (3-6) failed, or the request was
		// cancelled; rollback already ran.
		return result, runner.abortErr
	}

	result.Success = true
	runner.publishEvent(merged)

	return result, nil
}

func (r *stepRunner) record(name string, outcome StepOutcome, message string, start time.Time) {
	r.result.Steps = append(r.result.Steps, StepResult{
		Name:       name,
		Outcome:    outcome,
		Message:    message,
		DurationMs: now().Sub(start).Milliseconds(),
	})
}

func (r *stepRunner) logStep(name string, err error) {
	if err == nil {
		log.Debug().Str("step", name).Str("repo", r.req.Name).Msg("step completed")
		return
	}
	log.Warn().Str("step", name).Str("repo", r.req.Name).Err(err).Msg("step failed")
}

// resolvedConfig bundles the merged configuration with data steps 2+
// need but that configmodel.MergedConfiguration does not itself carry.
type resolvedConfig struct {
	merged         *configmodel.MergedConfiguration
	templateConfig *configmodel.TemplateConfig
}
