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
	"fmt"

	"github.com/pvandervelde/repo-roller/internal/configmodel"
	"github.com/pvandervelde/repo-roller/internal/configparse"
	"github.com/pvandervelde/repo-roller/internal/forge"
	"github.com/pvandervelde/repo-roller/internal/merge"
	"github.com/pvandervelde/repo-roller/internal/metadata"
	"golang.org/x/sync/errgroup"
)

// stepRunner carries per-request state across the eleven steps. It is
// created fresh for every CreateRepository call; nothing on it is shared
// across requests.
type stepRunner struct {
	ctx    context.Context
	req    Request
	orch   *Orchestrator
	result *Result

	abortErr error
}

// resolveConfiguration is step 1: discover the metadata repository, load
// and parse its documents, merge them, and validate the result. Any
// parse/merge/validation error is a Preflight failure — abort, nothing
// created yet.
func (r *stepRunner) resolveConfiguration() (*resolvedConfig, bool) {
	start := now()
	const step = "resolve_configuration"

	cfg, err := r.loadAndMerge()
	if err != nil {
		r.result.Failure = &Failure{Step: step, Category: classify(err), Message: err.Error()}
		r.record(step, OutcomeFailed, err.Error(), start)
		r.abortErr = err
		return nil, false
	}

	validation := r.orch.validator.Validate(cfg.merged)
	if !validation.Valid() {
		msg := fmt.Sprintf("configuration failed validation: %d error(s)", len(validation.Issues))
		r.result.Failure = &Failure{Step: step, Category: CategoryConfiguration, Message: msg}
		r.record(step, OutcomeFailed, msg, start)
		r.abortErr = fmt.Errorf("%s", msg)
		return nil, false
	}
	if len(validation.Issues) > 0 {
		r.record(step, OutcomeWarning, fmt.Sprintf("%d validation warning(s)", len(validation.Issues)), start)
	} else {
		r.record(step, OutcomeOK, "", start)
	}
	return cfg, true
}

func (r *stepRunner) loadAndMerge() (*resolvedConfig, error) {
	ctx := r.ctx
	repo, err := r.orch.provider.Discover(ctx, r.req.Owner)
	if err != nil {
		return nil, err
	}

	globalRaw, err := r.orch.provider.LoadGlobalDefaults(ctx, repo)
	if err != nil {
		return nil, err
	}
	globalResult := configparse.ParseGlobalDefaults([]byte(globalRaw), "global/defaults.toml", repo.RepoName, true)
	if len(globalResult.Errors) > 0 {
		return nil, parseFailure(repo.RepoName, globalResult.Metadata.FilePath, globalResult.Errors[0])
	}

	var repoType *configmodel.RepositoryTypeConfig
	if r.req.RequestedRepositoryType != "" {
		content, ok, err := r.orch.provider.LoadRepositoryTypeConfiguration(ctx, repo, r.req.RequestedRepositoryType)
		if err != nil {
			return nil, err
		}
		if ok {
			res := configparse.ParseRepositoryTypeConfig([]byte(content), "types/"+r.req.RequestedRepositoryType+"/config.toml", repo.RepoName, r.req.RequestedRepositoryType, true)
			if len(res.Errors) > 0 {
				return nil, parseFailure(repo.RepoName, res.Metadata.FilePath, res.Errors[0])
			}
			repoType = res.Config
		}
	}

	var team *configmodel.TeamConfig
	if r.req.Team != "" {
		content, ok, err := r.orch.provider.LoadTeamConfiguration(ctx, repo, r.req.Team)
		if err != nil {
			return nil, err
		}
		if ok {
			res := configparse.ParseTeamConfig([]byte(content), "teams/"+r.req.Team+"/config.toml", repo.RepoName, r.req.Team, true)
			if len(res.Errors) > 0 {
				return nil, parseFailure(repo.RepoName, res.Metadata.FilePath, res.Errors[0])
			}
			team = res.Config
		}
	}

	var template configmodel.TemplateConfig
	if r.req.Template != "" {
		content, ok, err := r.orch.provider.LoadTemplateConfiguration(ctx, r.req.Owner, r.req.Template)
		if err != nil {
			return nil, err
		}
		if ok {
			data, err := r.resolveTemplateDocument(ctx, []byte(content))
			if err != nil {
				return nil, err
			}
			res := configparse.ParseTemplateConfig(data, "config.toml", r.req.Template, true)
			if len(res.Errors) > 0 {
				return nil, parseFailure(r.req.Template, res.Metadata.FilePath, res.Errors[0])
			}
			template = *res.Config
		}
	}

	merged, err := r.orch.merger.Merge(merge.Input{
		Global:                  *globalResult.Config,
		RepositoryType:          repoType,
		Team:                    team,
		Template:                template,
		RequestedRepositoryType: r.req.RequestedRepositoryType,
	})
	if err != nil {
		return nil, err
	}

	return &resolvedConfig{merged: merged, templateConfig: &template}, nil
}

// resolveTemplateDocument applies a template document's base_template
// inheritance: when the document names a base, the base template's own
// config.toml is loaded and the document is layered over it as a merge
// patch. Inheritance is a single hop; a base's own base_template is not
// followed.
func (r *stepRunner) resolveTemplateDocument(ctx context.Context, data []byte) ([]byte, error) {
	base := configparse.TemplateBase(data)
	if base == "" {
		return data, nil
	}
	baseContent, ok, err := r.orch.provider.LoadTemplateConfiguration(ctx, r.req.Owner, base)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &metadata.Error{
			Type:      metadata.ErrorFileNotFound,
			Operation: "load base template",
			Message:   fmt.Sprintf("template %q inherits from %q, which has no config.toml", r.req.Template, base),
		}
	}
	merged, err := configparse.MergeBaseDocument([]byte(baseContent), data)
	if err != nil {
		return nil, &metadata.Error{
			Type:      metadata.ErrorParseError,
			Operation: "merge base template",
			Message:   fmt.Sprintf("layering template %q over base %q: %v", r.req.Template, base, err),
		}
	}
	return merged, nil
}

// parseFailure turns a parser Issue into the ParseError of the shared
// error taxonomy, pinned to the file and repository it came from.
func parseFailure(repository, filePath string, issue configparse.Issue) error {
	msg := issue.Message
	if issue.FieldPath != "" {
		msg = issue.FieldPath + ": " + msg
	}
	if issue.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", issue.Suggestion)
	}
	return &metadata.Error{
		Type:      metadata.ErrorParseError,
		Operation: "parse " + filePath,
		Message:   fmt.Sprintf("%s: %s", repository, msg),
	}
}

// createRepository is step 2: Core-create. Failure aborts without
// rollback since nothing else has been created.
func (r *stepRunner) createRepository() bool {
	start := now()
	const step = "create_repository"

	visibility := r.req.Visibility
	private := visibility == string(configmodel.VisibilityPrivate) || visibility == string(configmodel.VisibilityInternal)

	var info *forge.RepositoryInfo
	err := withRetry(r.ctx, func() error {
		var createErr error
		info, createErr = r.orch.creator.CreateOrgRepository(r.ctx, r.req.Owner, forge.RepositoryRequest{
			Name:       r.req.Name,
			Private:    &private,
			Visibility: &visibility,
		})
		return createErr
	})
	if err != nil {
		r.result.Failure = &Failure{Step: step, Category: classify(err), Message: err.Error()}
		r.record(step, OutcomeFailed, err.Error(), start)
		r.abortErr = err
		return false
	}

	r.result.RepositoryID = info.ID
	r.result.RepositoryURL = info.HTMLURL
	r.result.DefaultBranch = info.DefaultBranch
	r.result.CreatedAt = info.CreatedAt
	r.record(step, OutcomeOK, "", start)
	return true
}

// checkCancelled is the cooperative cancellation checkpoint: in-flight
// forge calls always run to completion, and between steps the runner
// observes the context. When the deadline fired after the repository was
// created, a terminal cancelled step is recorded and the compensating
// rollback runs, exactly as for a fatal step failure.
func (r *stepRunner) checkCancelled() bool {
	if r.result.Failure != nil {
		return true // already terminal; cancellation has nothing to add
	}
	if r.ctx.Err() == nil {
		return false
	}
	start := now()
	cause := r.ctx.Err()
	r.record("cancelled", OutcomeCancelled, cause.Error(), start)
	r.rollbackCancelled(cause)
	return true
}

func (r *stepRunner) rollbackCancelled(cause error) {
	rollbackStart := now()
	// The cancelled context can no longer carry the delete call; rollback
	// runs on its own context so the compensation is still attempted.
	rollbackErr := r.orch.creator.DeleteRepository(context.WithoutCancel(r.ctx), r.req.Owner, r.req.Name)
	r.record("rollback", outcomeFor(rollbackErr), messageFor(rollbackErr), rollbackStart)
	r.result.Failure = &Failure{
		Step:              "cancelled",
		Category:          CategoryCancelled,
		Message:           cause.Error(),
		RollbackPerformed: rollbackErr == nil,
	}
	r.abortErr = &StepError{Step: "cancelled", Category: CategoryCancelled, Cause: cause}
}

// fatalMutation runs a step-3-through-6 operation. On failure it marks
// success=false, records the step as failed, and triggers the
// compensating rollback.
func (r *stepRunner) fatalMutation(step string, op func() error) bool {
	if r.result.Failure != nil {
		return false // an earlier fatal step already aborted the pipeline
	}
	if r.checkCancelled() {
		return false
	}
	start := now()
	err := withRetry(r.ctx, op)
	if err != nil {
		r.record(step, OutcomeFailed, err.Error(), start)
		if r.ctx.Err() != nil {
			// The step failed because the request was cancelled while it
			// was in flight; report cancellation, not a step failure.
			r.record("cancelled", OutcomeCancelled, r.ctx.Err().Error(), now())
			r.rollbackCancelled(r.ctx.Err())
			return false
		}
		r.rollback(step, classify(err), err)
		return false
	}
	r.record(step, OutcomeOK, "", start)
	return true
}

func (r *stepRunner) rollback(step string, category FailureCategory, cause error) {
	rollbackStart := now()
	rollbackErr := r.orch.creator.DeleteRepository(r.ctx, r.req.Owner, r.req.Name)
	r.record("rollback", outcomeFor(rollbackErr), messageFor(rollbackErr), rollbackStart)
	r.result.Failure = &Failure{
		Step:              step,
		Category:          category,
		Message:           cause.Error(),
		RollbackPerformed: rollbackErr == nil,
	}
	r.abortErr = &StepError{Step: step, Category: category, Cause: cause}
}

func outcomeFor(err error) StepOutcome {
	if err == nil {
		return OutcomeOK
	}
	return OutcomeFailed
}

func messageFor(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// softMutation runs a step-7-through-10 operation. Failure is recorded
// but never aborts the pipeline or flips success.
func (r *stepRunner) softMutation(step string, op func() error) {
	if r.result.Failure != nil || r.checkCancelled() {
		return
	}
	start := now()
	err := withRetry(r.ctx, op)
	if err != nil {
		r.record(step, OutcomeWarning, err.Error(), start)
		r.logStep(step, err)
		return
	}
	r.record(step, OutcomeOK, "", start)
}

// seedContent is step 3.
func (r *stepRunner) seedContent(cfg *resolvedConfig) {
	switch r.req.ContentStrategy {
	case ContentEmpty, "":
		if r.result.Failure == nil {
			r.record("seed_content", OutcomeSkipped, "", now())
		}
	case ContentTemplate:
		r.fatalMutation("seed_content", func() error {
			variables, err := resolveTemplateVariables(cfg.templateConfig, r.req.Variables)
			if err != nil {
				return err
			}
			return r.orch.renderer.Render(r.ctx, r.req.Template, r.req.Owner, r.req.Name, r.result.DefaultBranch, variables)
		})
	case ContentCustomInit:
		r.fatalMutation("seed_content", func() error {
			if r.req.CustomInit.IncludeReadme {
				if err := r.orch.creator.CreateFile(r.ctx, r.req.Owner, r.req.Name, "README.md", r.result.DefaultBranch, "# "+r.req.Name+"\n", "Add README"); err != nil {
					return err
				}
			}
			if r.req.CustomInit.IncludeGitignore {
				if err := r.orch.creator.CreateFile(r.ctx, r.req.Owner, r.req.Name, ".gitignore", r.result.DefaultBranch, "", "Add .gitignore"); err != nil {
					return err
				}
			}
			return nil
		})
	}
}

// resolveTemplateVariables overlays the caller's variables on the
// template's declared defaults and rejects a missing required variable
// before any rendering starts.
func resolveTemplateVariables(tpl *configmodel.TemplateConfig, provided map[string]string) (map[string]string, error) {
	resolved := map[string]string{}
	if tpl != nil {
		for name, v := range tpl.Variables {
			if v.Default != "" {
				resolved[name] = v.Default
			}
		}
	}
	for name, value := range provided {
		resolved[name] = value
	}
	if tpl != nil {
		for name, v := range tpl.Variables {
			if v.Required && resolved[name] == "" {
				return nil, fmt.Errorf("template variable %q is required: %s", name, v.Description)
			}
		}
	}
	return resolved, nil
}

// applyRepositoryFeatures is step 4.
func (r *stepRunner) applyRepositoryFeatures(cfg *resolvedConfig) {
	r.fatalMutation("apply_repository_features", func() error {
		rf := cfg.merged.Repository
		return r.orch.creator.UpdateRepositorySettings(r.ctx, r.req.Owner, r.req.Name, forge.RepositoryRequest{
			Name:           r.req.Name,
			HasIssues:      rf.HasIssues,
			HasWiki:        rf.HasWiki,
			HasProjects:    rf.HasProjects,
			HasDiscussions: rf.HasDiscussions,
		})
	})
}

// applyPullRequestSettings is step 5.
func (r *stepRunner) applyPullRequestSettings(cfg *resolvedConfig) {
	r.fatalMutation("apply_pull_request_settings", func() error {
		pr := cfg.merged.PullRequests
		req := forge.RepositoryRequest{
			Name:                r.req.Name,
			AllowMergeCommit:    pr.AllowMergeCommit,
			AllowSquashMerge:    pr.AllowSquashMerge,
			AllowRebaseMerge:    pr.AllowRebaseMerge,
			AllowAutoMerge:      pr.AllowAutoMerge,
			DeleteBranchOnMerge: pr.DeleteBranchOnMerge,
		}
		if pr.SquashMergeCommitMessage != nil {
			s := string(*pr.SquashMergeCommitMessage)
			req.SquashMergeCommitMessage = &s
		}
		if pr.MergeCommitMessage != nil {
			s := string(*pr.MergeCommitMessage)
			req.MergeCommitMessage = &s
		}
		return r.orch.creator.UpdateRepositorySettings(r.ctx, r.req.Owner, r.req.Name, req)
	})
}

// applyBranchProtection is step 6.
func (r *stepRunner) applyBranchProtection(cfg *resolvedConfig) {
	bp := cfg.merged.BranchProtection
	if bp.Enabled != nil && !*bp.Enabled {
		if r.result.Failure == nil {
			r.record("apply_branch_protection", OutcomeSkipped, "", now())
		}
		return
	}
	r.fatalMutation("apply_branch_protection", func() error {
		return r.orch.creator.SetBranchProtection(r.ctx, r.req.Owner, r.req.Name, r.result.DefaultBranch, forge.BranchProtectionRequest{
			RequiredApprovingReviewCount: intOr(bp.RequiredApprovingReviewCount, 0),
			RequireCodeOwnerReview:       boolOr(bp.RequireCodeOwnerReview, false),
			DismissStaleReviews:          boolOr(bp.DismissStaleReviews, false),
			RequireStatusChecksToPass:    boolOr(bp.RequireStatusChecksToPass, false),
			RequireBranchUpToDate:        boolOr(bp.RequireBranchUpToDate, false),
			RequireLinearHistory:         boolOr(bp.RequireLinearHistory, false),
			AllowForcePushes:             boolOr(bp.AllowForcePushes, false),
			AllowDeletions:               boolOr(bp.AllowDeletions, false),
		})
	})
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// createLabels is step 7.
func (r *stepRunner) createLabels(cfg *resolvedConfig) {
	r.softMutation("create_labels", func() error {
		for _, l := range cfg.merged.Labels {
			if err := r.orch.creator.CreateOrUpdateLabel(r.ctx, r.req.Owner, r.req.Name, l.Name, l.Color, l.Description); err != nil {
				return err
			}
		}
		return nil
	})
}

// registerWebhooks is step 8: per-webhook calls run concurrently, each
// with its own retry budget, under a small concurrency bound.
func (r *stepRunner) registerWebhooks(cfg *resolvedConfig) {
	if r.result.Failure != nil || r.checkCancelled() {
		return
	}
	start := now()
	// Deliberately not errgroup.WithContext: one webhook failing must not
	// cancel its siblings, each registration is isolated.
	var g errgroup.Group
	g.SetLimit(5)

	for _, w := range cfg.merged.Webhooks {
		w := w
		g.Go(func() error {
			events := make([]string, len(w.Events))
			for i, e := range w.Events {
				events[i] = string(e)
			}
			err := withRetry(r.ctx, func() error {
				return r.orch.creator.CreateWebhook(r.ctx, r.req.Owner, r.req.Name, forge.WebhookRequest{
					URL: w.URL, Events: events, Secret: w.Secret, Active: w.Active,
				})
			})
			if err != nil {
				return fmt.Errorf("registering webhook %s: %w", w.URL, err)
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		r.record("register_webhooks", OutcomeWarning, err.Error(), start)
		r.logStep("register_webhooks", err)
		return
	}
	r.record("register_webhooks", OutcomeOK, "", start)
}

// installApps is step 9.
func (r *stepRunner) installApps(cfg *resolvedConfig) {
	r.softMutation("install_apps", func() error {
		for _, a := range cfg.merged.GitHubApps {
			if err := r.orch.creator.InstallApp(r.ctx, r.req.Owner, r.req.Name, a.Slug); err != nil {
				return err
			}
		}
		return nil
	})
}

// setCustomProperties is step 10, batched into a single call.
func (r *stepRunner) setCustomProperties(cfg *resolvedConfig) {
	if len(cfg.merged.CustomProperties) == 0 {
		if r.result.Failure == nil {
			r.record("set_custom_properties", OutcomeSkipped, "", now())
		}
		return
	}
	r.softMutation("set_custom_properties", func() error {
		props := make(map[string]string, len(cfg.merged.CustomProperties))
		for name, p := range cfg.merged.CustomProperties {
			props[name] = p.Value
		}
		return r.orch.creator.SetCustomProperties(r.ctx, r.req.Owner, r.req.Name, props)
	})
}

// publishEvent is step 11: best-effort, never affects success.
func (r *stepRunner) publishEvent(cfg *resolvedConfig) {
	start := now()
	if r.orch.publisher == nil {
		r.record("publish_event", OutcomeSkipped, "", start)
		return
	}

	appliedSettings := map[string]bool{}
	if cfg.merged.Repository.HasIssues != nil {
		appliedSettings["has_issues"] = *cfg.merged.Repository.HasIssues
	}
	if cfg.merged.Repository.HasWiki != nil {
		appliedSettings["has_wiki"] = *cfg.merged.Repository.HasWiki
	}
	if cfg.merged.Repository.HasProjects != nil {
		appliedSettings["has_projects"] = *cfg.merged.Repository.HasProjects
	}
	if cfg.merged.Repository.HasDiscussions != nil {
		appliedSettings["has_discussions"] = *cfg.merged.Repository.HasDiscussions
	}

	props := make(map[string]string, len(cfg.merged.CustomProperties))
	for name, p := range cfg.merged.CustomProperties {
		props[name] = p.Value
	}

	err := r.orch.publisher.PublishRepositoryCreated(r.ctx, PublishInput{
		Organization:     r.req.Owner,
		RepositoryName:   r.req.Name,
		RepositoryURL:    r.result.RepositoryURL,
		RepositoryID:     r.result.RepositoryID,
		CreatedBy:        r.req.CreatedBy,
		ContentStrategy:  string(r.req.ContentStrategy),
		Visibility:       r.req.Visibility,
		RepositoryType:   cfg.merged.RepositoryType,
		TemplateName:     r.req.Template,
		Team:             r.req.Team,
		Description:      r.req.Description,
		CustomProperties: props,
		AppliedSettings:  appliedSettings,
		Endpoints:        cfg.merged.Notifications,
	})
	if err != nil {
		r.record("publish_event", OutcomeWarning, err.Error(), start)
		r.logStep("publish_event", err)
		return
	}
	r.record("publish_event", OutcomeOK, "", start)
}
