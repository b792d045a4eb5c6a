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
	"regexp"

	"github.com/pvandervelde/repo-roller/internal/configmodel"
	"github.com/pvandervelde/repo-roller/internal/overridable"
)

var labelColorPattern = regexp.MustCompile(`^[0-9a-f]{6}$`)

// knownFieldNames feeds the "did you mean" suggestion for unknown-field
// errors across every document kind.
var knownFieldNames = []string{
	"repository", "pull_requests", "branch_protection", "push", "actions",
	"labels", "webhooks", "required_apps", "custom_properties", "environments",
	"has_issues", "has_wiki", "has_projects", "has_discussions",
	"auto_close_issues", "security_advisories_enabled",
	"vulnerability_reporting_enabled", "pages_enabled",
	"allow_merge_commit", "allow_squash_merge", "allow_rebase_merge",
	"allow_auto_merge", "delete_branch_on_merge",
	"require_conversation_resolution", "squash_merge_commit_message",
	"merge_commit_message",
	"enabled", "required_approving_review_count", "require_code_owner_review",
	"dismiss_stale_reviews", "require_status_checks_to_pass",
	"require_branch_up_to_date", "require_linear_history",
	"allow_force_pushes", "allow_deletions", "require_signed_commits",
	"default_workflow_permission", "allow_fork_pr_approval_required",
	"name", "color", "description", "url", "events", "secret", "active",
	"timeout_seconds", "slug", "permissions", "value", "override_allowed",
	"required_reviewers", "wait_timer_minutes", "deployment_branches",
	"template", "repository_type", "variables", "author", "tags",
	"type_name", "policy", "example", "default", "required", "notifications",
	"base_template",
}

type rawRepository struct {
	HasIssues                     rawOB `toml:"has_issues"`
	HasWiki                       rawOB `toml:"has_wiki"`
	HasProjects                   rawOB `toml:"has_projects"`
	HasDiscussions                rawOB `toml:"has_discussions"`
	AutoCloseIssues               rawOB `toml:"auto_close_issues"`
	SecurityAdvisoriesEnabled     rawOB `toml:"security_advisories_enabled"`
	VulnerabilityReportingEnabled rawOB `toml:"vulnerability_reporting_enabled"`
	PagesEnabled                  rawOB `toml:"pages_enabled"`
}

type rawPullRequests struct {
	AllowMergeCommit               rawOB `toml:"allow_merge_commit"`
	AllowSquashMerge               rawOB `toml:"allow_squash_merge"`
	AllowRebaseMerge               rawOB `toml:"allow_rebase_merge"`
	AllowAutoMerge                 rawOB `toml:"allow_auto_merge"`
	DeleteBranchOnMerge            rawOB `toml:"delete_branch_on_merge"`
	RequireConversationResolution  rawOB `toml:"require_conversation_resolution"`
	SquashMergeCommitMessage       rawOB `toml:"squash_merge_commit_message"`
	MergeCommitMessage             rawOB `toml:"merge_commit_message"`
}

type rawBranchProtection struct {
	Enabled                      rawOB `toml:"enabled"`
	RequiredApprovingReviewCount rawOB `toml:"required_approving_review_count"`
	RequireCodeOwnerReview       rawOB `toml:"require_code_owner_review"`
	DismissStaleReviews          rawOB `toml:"dismiss_stale_reviews"`
	RequireStatusChecksToPass    rawOB `toml:"require_status_checks_to_pass"`
	RequireBranchUpToDate        rawOB `toml:"require_branch_up_to_date"`
	RequireLinearHistory         rawOB `toml:"require_linear_history"`
	AllowForcePushes             rawOB `toml:"allow_force_pushes"`
	AllowDeletions               rawOB `toml:"allow_deletions"`
}

type rawPush struct {
	RequireSignedCommits rawOB `toml:"require_signed_commits"`
}

type rawActions struct {
	Enabled                     rawOB `toml:"enabled"`
	DefaultWorkflowPermission   rawOB `toml:"default_workflow_permission"`
	AllowForkPRApprovalRequired rawOB `toml:"allow_fork_pr_approval_required"`
}

type rawLabel struct {
	Name        string `toml:"name"`
	Color       string `toml:"color"`
	Description string `toml:"description"`
}

type rawWebhook struct {
	URL            string   `toml:"url"`
	Events         []string `toml:"events"`
	Secret         string   `toml:"secret"`
	Active         bool     `toml:"active"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	Description    string   `toml:"description"`
}

type rawApp struct {
	Slug        string            `toml:"slug"`
	Permissions map[string]string `toml:"permissions"`
}

type rawEnvironment struct {
	Name               string   `toml:"name"`
	RequiredReviewers  []string `toml:"required_reviewers"`
	WaitTimerMinutes   int      `toml:"wait_timer_minutes"`
	DeploymentBranches []string `toml:"deployment_branches"`
}

type rawCustomProperty struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
}

// rawNotification is the on-disk shape of an event-publisher endpoint,
// distinct from rawWebhook: its events are repo-roller event type
// strings, not members of the forge's closed webhook-event set.
type rawNotification struct {
	URL            string   `toml:"url"`
	Events         []string `toml:"events"`
	Secret         string   `toml:"secret"`
	Active         bool     `toml:"active"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	Description    string   `toml:"description"`
}

type rawCollections struct {
	Labels           []rawLabel          `toml:"labels"`
	Webhooks         []rawWebhook        `toml:"webhooks"`
	RequiredApps     []rawApp            `toml:"required_apps"`
	CustomProperties []rawCustomProperty `toml:"custom_properties"`
	Environments     []rawEnvironment    `toml:"environments"`
	Notifications    []rawNotification   `toml:"notifications"`
}

type rawSubRecords struct {
	Repository       rawRepository       `toml:"repository"`
	PullRequests     rawPullRequests     `toml:"pull_requests"`
	BranchProtection rawBranchProtection `toml:"branch_protection"`
	Push             rawPush             `toml:"push"`
	Actions          rawActions          `toml:"actions"`
}

// issueSink accumulates conversion issues independent of the document kind
// being built. noteLegacy records the deprecated bare-scalar form:
// accepted with a warning, and surfaced through Metadata.HasDeprecatedSyntax.
type issueSink struct {
	errors     []Issue
	warnings   []Issue
	deprecated bool
}

func (s *issueSink) addError(fieldPath, message string) {
	s.errors = append(s.errors, Issue{FieldPath: fieldPath, Message: message})
}

func (s *issueSink) noteLegacy(r rawOB, fieldPath string) {
	if !r.legacy {
		return
	}
	s.deprecated = true
	s.warnings = append(s.warnings, Issue{
		FieldPath:  fieldPath,
		Message:    "bare scalar form is deprecated",
		Suggestion: "write { value = ..., override_allowed = ... }",
	})
}

func obBoolPtr(r rawOB, fieldPath string, sink *issueSink) *overridable.Value[bool] {
	if !r.set {
		return nil
	}
	sink.noteLegacy(r, fieldPath)
	b, err := r.asBool()
	if err != nil {
		sink.addError(fieldPath, err.Error())
		return nil
	}
	v := overridable.New(b, r.overrideAllowed)
	return &v
}

func obIntPtr(r rawOB, fieldPath string, sink *issueSink) *overridable.Value[int] {
	if !r.set {
		return nil
	}
	sink.noteLegacy(r, fieldPath)
	n, err := r.asInt()
	if err != nil {
		sink.addError(fieldPath, err.Error())
		return nil
	}
	v := overridable.New(n, r.overrideAllowed)
	return &v
}

func obCommitMsgPtr(r rawOB, fieldPath string, sink *issueSink) *overridable.Value[configmodel.CommitMessageOption] {
	if !r.set {
		return nil
	}
	sink.noteLegacy(r, fieldPath)
	s, err := r.asString()
	if err != nil {
		sink.addError(fieldPath, err.Error())
		return nil
	}
	opt := configmodel.CommitMessageOption(s)
	switch opt {
	case configmodel.CommitMessageDefault, configmodel.CommitMessagePRTitle,
		configmodel.CommitMessagePRTitleAndDescription, configmodel.CommitMessagePRTitleAndCommitDetails:
	default:
		sink.addError(fieldPath, fmt.Sprintf("invalid commit message option %q", s))
		return nil
	}
	v := overridable.New(opt, r.overrideAllowed)
	return &v
}

func obWorkflowPermPtr(r rawOB, fieldPath string, sink *issueSink) *overridable.Value[configmodel.WorkflowPermission] {
	if !r.set {
		return nil
	}
	sink.noteLegacy(r, fieldPath)
	s, err := r.asString()
	if err != nil {
		sink.addError(fieldPath, err.Error())
		return nil
	}
	perm := configmodel.WorkflowPermission(s)
	switch perm {
	case configmodel.WorkflowPermissionNone, configmodel.WorkflowPermissionRead, configmodel.WorkflowPermissionWrite:
	default:
		sink.addError(fieldPath, fmt.Sprintf("invalid workflow permission %q", s))
		return nil
	}
	v := overridable.New(perm, r.overrideAllowed)
	return &v
}

func convertSubRecords(r rawSubRecords, sink *issueSink) (
	configmodel.RepositoryFeatures, configmodel.PullRequestSettings,
	configmodel.BranchProtectionSettings, configmodel.PushSettings, configmodel.ActionsSettings,
) {
	rep := configmodel.RepositoryFeatures{
		HasIssues:                     obBoolPtr(r.Repository.HasIssues, "repository.has_issues", sink),
		HasWiki:                       obBoolPtr(r.Repository.HasWiki, "repository.has_wiki", sink),
		HasProjects:                   obBoolPtr(r.Repository.HasProjects, "repository.has_projects", sink),
		HasDiscussions:                obBoolPtr(r.Repository.HasDiscussions, "repository.has_discussions", sink),
		AutoCloseIssues:               obBoolPtr(r.Repository.AutoCloseIssues, "repository.auto_close_issues", sink),
		SecurityAdvisoriesEnabled:     obBoolPtr(r.Repository.SecurityAdvisoriesEnabled, "repository.security_advisories_enabled", sink),
		VulnerabilityReportingEnabled: obBoolPtr(r.Repository.VulnerabilityReportingEnabled, "repository.vulnerability_reporting_enabled", sink),
		PagesEnabled:                  obBoolPtr(r.Repository.PagesEnabled, "repository.pages_enabled", sink),
	}
	pr := configmodel.PullRequestSettings{
		AllowMergeCommit:              obBoolPtr(r.PullRequests.AllowMergeCommit, "pull_requests.allow_merge_commit", sink),
		AllowSquashMerge:              obBoolPtr(r.PullRequests.AllowSquashMerge, "pull_requests.allow_squash_merge", sink),
		AllowRebaseMerge:              obBoolPtr(r.PullRequests.AllowRebaseMerge, "pull_requests.allow_rebase_merge", sink),
		AllowAutoMerge:                obBoolPtr(r.PullRequests.AllowAutoMerge, "pull_requests.allow_auto_merge", sink),
		DeleteBranchOnMerge:           obBoolPtr(r.PullRequests.DeleteBranchOnMerge, "pull_requests.delete_branch_on_merge", sink),
		RequireConversationResolution: obBoolPtr(r.PullRequests.RequireConversationResolution, "pull_requests.require_conversation_resolution", sink),
		SquashMergeCommitMessage:      obCommitMsgPtr(r.PullRequests.SquashMergeCommitMessage, "pull_requests.squash_merge_commit_message", sink),
		MergeCommitMessage:            obCommitMsgPtr(r.PullRequests.MergeCommitMessage, "pull_requests.merge_commit_message", sink),
	}
	bp := configmodel.BranchProtectionSettings{
		Enabled:                      obBoolPtr(r.BranchProtection.Enabled, "branch_protection.enabled", sink),
		RequiredApprovingReviewCount: obIntPtr(r.BranchProtection.RequiredApprovingReviewCount, "branch_protection.required_approving_review_count", sink),
		RequireCodeOwnerReview:       obBoolPtr(r.BranchProtection.RequireCodeOwnerReview, "branch_protection.require_code_owner_review", sink),
		DismissStaleReviews:          obBoolPtr(r.BranchProtection.DismissStaleReviews, "branch_protection.dismiss_stale_reviews", sink),
		RequireStatusChecksToPass:    obBoolPtr(r.BranchProtection.RequireStatusChecksToPass, "branch_protection.require_status_checks_to_pass", sink),
		RequireBranchUpToDate:        obBoolPtr(r.BranchProtection.RequireBranchUpToDate, "branch_protection.require_branch_up_to_date", sink),
		RequireLinearHistory:         obBoolPtr(r.BranchProtection.RequireLinearHistory, "branch_protection.require_linear_history", sink),
		AllowForcePushes:             obBoolPtr(r.BranchProtection.AllowForcePushes, "branch_protection.allow_force_pushes", sink),
		AllowDeletions:               obBoolPtr(r.BranchProtection.AllowDeletions, "branch_protection.allow_deletions", sink),
	}
	push := configmodel.PushSettings{
		RequireSignedCommits: obBoolPtr(r.Push.RequireSignedCommits, "push.require_signed_commits", sink),
	}
	act := configmodel.ActionsSettings{
		Enabled:                     obBoolPtr(r.Actions.Enabled, "actions.enabled", sink),
		DefaultWorkflowPermission:   obWorkflowPermPtr(r.Actions.DefaultWorkflowPermission, "actions.default_workflow_permission", sink),
		AllowForkPRApprovalRequired: obBoolPtr(r.Actions.AllowForkPRApprovalRequired, "actions.allow_fork_pr_approval_required", sink),
	}
	return rep, pr, bp, push, act
}

func convertCollections(r rawCollections, strictSecurity bool, sink *issueSink) (
	[]configmodel.LabelConfig, []configmodel.WebhookConfig, []configmodel.GitHubAppConfig,
	[]configmodel.CustomPropertyConfig, []configmodel.EnvironmentConfig, []configmodel.NotificationEndpoint,
) {
	var labels []configmodel.LabelConfig
	for i, l := range r.Labels {
		if !labelColorPattern.MatchString(l.Color) {
			sink.addError(fmt.Sprintf("labels[%d].color", i), fmt.Sprintf("label color %q must be exactly 6 hex digits", l.Color))
			continue
		}
		labels = append(labels, configmodel.LabelConfig{Name: l.Name, Color: l.Color, Description: l.Description})
	}

	var webhooks []configmodel.WebhookConfig
	for i, w := range r.Webhooks {
		fieldPath := fmt.Sprintf("webhooks[%d].url", i)
		if len(w.URL) < 8 || w.URL[:8] != "https://" {
			if strictSecurity {
				sink.addError(fieldPath, fmt.Sprintf("webhook url %q must use https", w.URL))
				continue
			}
			sink.warnings = append(sink.warnings, Issue{FieldPath: fieldPath, Message: fmt.Sprintf("webhook url %q does not use https", w.URL)})
		}
		events := make([]configmodel.WebhookEvent, 0, len(w.Events))
		badEvent := false
		for j, e := range w.Events {
			evt := configmodel.WebhookEvent(e)
			if !configmodel.ValidWebhookEvents[evt] {
				sink.addError(fmt.Sprintf("webhooks[%d].events[%d]", i, j), fmt.Sprintf("unknown webhook event %q", e))
				badEvent = true
				continue
			}
			events = append(events, evt)
		}
		if badEvent {
			continue
		}
		timeout := w.TimeoutSeconds
		if timeout == 0 {
			timeout = 10
		}
		webhooks = append(webhooks, configmodel.WebhookConfig{
			URL: w.URL, Events: events, Secret: w.Secret, Active: w.Active,
			TimeoutSeconds: timeout, Description: w.Description,
		})
	}

	var apps []configmodel.GitHubAppConfig
	for _, a := range r.RequiredApps {
		apps = append(apps, configmodel.GitHubAppConfig{Slug: a.Slug, Permissions: a.Permissions})
	}

	var props []configmodel.CustomPropertyConfig
	for _, p := range r.CustomProperties {
		props = append(props, configmodel.CustomPropertyConfig{Name: p.Name, Value: p.Value})
	}

	var envs []configmodel.EnvironmentConfig
	for i, e := range r.Environments {
		if e.Name == "" {
			sink.addError(fmt.Sprintf("environments[%d].name", i), "environment name must not be empty")
			continue
		}
		envs = append(envs, configmodel.EnvironmentConfig{
			Name: e.Name, RequiredReviewers: e.RequiredReviewers,
			WaitTimerMinutes: e.WaitTimerMinutes, DeploymentBranches: e.DeploymentBranches,
		})
	}

	var notifications []configmodel.NotificationEndpoint
	for i, n := range r.Notifications {
		fieldPath := fmt.Sprintf("notifications[%d].url", i)
		if len(n.URL) < 8 || n.URL[:8] != "https://" {
			if strictSecurity {
				sink.addError(fieldPath, fmt.Sprintf("notification endpoint url %q must use https", n.URL))
				continue
			}
			sink.warnings = append(sink.warnings, Issue{FieldPath: fieldPath, Message: fmt.Sprintf("notification endpoint url %q does not use https", n.URL)})
		}
		timeout := n.TimeoutSeconds
		if timeout == 0 {
			timeout = 10
		}
		notifications = append(notifications, configmodel.NotificationEndpoint{
			URL: n.URL, Events: n.Events, Secret: n.Secret, Active: n.Active,
			TimeoutSeconds: timeout, Description: n.Description,
		})
	}

	return labels, webhooks, apps, props, envs, notifications
}
