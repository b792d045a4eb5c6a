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

package configmodel

import "github.com/pvandervelde/repo-roller/internal/overridable"

// RepositoryFeatures is the repository-features sub-record.
type RepositoryFeatures struct {
	HasIssues                     *overridable.Value[bool]
	HasWiki                       *overridable.Value[bool]
	HasProjects                   *overridable.Value[bool]
	HasDiscussions                *overridable.Value[bool]
	AutoCloseIssues               *overridable.Value[bool]
	SecurityAdvisoriesEnabled     *overridable.Value[bool]
	VulnerabilityReportingEnabled *overridable.Value[bool]
	PagesEnabled                  *overridable.Value[bool]
}

// PullRequestSettings is the pull-request policy sub-record.
type PullRequestSettings struct {
	AllowMergeCommit              *overridable.Value[bool]
	AllowSquashMerge              *overridable.Value[bool]
	AllowRebaseMerge              *overridable.Value[bool]
	AllowAutoMerge                *overridable.Value[bool]
	DeleteBranchOnMerge           *overridable.Value[bool]
	RequireConversationResolution *overridable.Value[bool]
	SquashMergeCommitMessage      *overridable.Value[CommitMessageOption]
	MergeCommitMessage            *overridable.Value[CommitMessageOption]
}

// BranchProtectionSettings is the branch-protection policy sub-record.
type BranchProtectionSettings struct {
	Enabled                      *overridable.Value[bool]
	RequiredApprovingReviewCount *overridable.Value[int]
	RequireCodeOwnerReview       *overridable.Value[bool]
	DismissStaleReviews          *overridable.Value[bool]
	RequireStatusChecksToPass    *overridable.Value[bool]
	RequireBranchUpToDate        *overridable.Value[bool]
	RequireLinearHistory         *overridable.Value[bool]
	AllowForcePushes             *overridable.Value[bool]
	AllowDeletions               *overridable.Value[bool]
}

// PushSettings is the push-policy sub-record.
type PushSettings struct {
	RequireSignedCommits *overridable.Value[bool]
}

// ActionsSettings is the Actions-policy sub-record.
type ActionsSettings struct {
	Enabled                     *overridable.Value[bool]
	DefaultWorkflowPermission   *overridable.Value[WorkflowPermission]
	AllowForkPRApprovalRequired *overridable.Value[bool]
}

// LabelConfig is a single label definition.
type LabelConfig struct {
	Name        string
	Color       string
	Description string
}

// WebhookConfig is a single webhook definition contributed by a layer.
type WebhookConfig struct {
	URL            string
	Events         []WebhookEvent
	Secret         string
	Active         bool
	TimeoutSeconds int
	Description    string
}

// GitHubAppConfig is a required installed app, keyed by slug at merge time.
type GitHubAppConfig struct {
	Slug        string
	Permissions map[string]string
}

// EnvironmentConfig is a deployment environment, keyed by name.
type EnvironmentConfig struct {
	Name               string
	RequiredReviewers  []string
	WaitTimerMinutes   int
	DeploymentBranches []string
}

// CustomPropertyConfig is a single forge custom-property assignment, keyed
// by property name.
type CustomPropertyConfig struct {
	Name  string
	Value string
}

// NotificationEndpoint is an outbound subscriber a configuration layer
// contributes for the event publisher, distinct from the per-repository
// webhooks the orchestrator registers on the forge: its Events are
// repo-roller event types ("repository.created"), not the forge's closed
// webhook-event vocabulary.
type NotificationEndpoint struct {
	URL            string
	Events         []string
	Secret         string
	Active         bool
	TimeoutSeconds int
	Description    string
}

// GlobalDefaults is the organization baseline document.
type GlobalDefaults struct {
	Repository       RepositoryFeatures
	PullRequests     PullRequestSettings
	BranchProtection BranchProtectionSettings
	Push             PushSettings
	Actions          ActionsSettings

	Labels           []LabelConfig
	Webhooks         []WebhookConfig
	RequiredApps     []GitHubAppConfig
	CustomProperties []CustomPropertyConfig
	Environments     []EnvironmentConfig
	Notifications    []NotificationEndpoint
}

// RepositoryTypeConfig has the same shape as GlobalDefaults, indexed by a
// type name (e.g. "library", "service"), minus organization-wide metadata.
type RepositoryTypeConfig struct {
	TypeName string

	Repository       RepositoryFeatures
	PullRequests     PullRequestSettings
	BranchProtection BranchProtectionSettings
	Push             PushSettings
	Actions          ActionsSettings

	Labels           []LabelConfig
	Webhooks         []WebhookConfig
	RequiredApps     []GitHubAppConfig
	CustomProperties []CustomPropertyConfig
	Environments     []EnvironmentConfig
	Notifications    []NotificationEndpoint
}

// TeamConfig is a restricted document: it may only override the scalar
// subset global marked overridable, and is additive-only for collections.
type TeamConfig struct {
	TeamName string

	Repository       RepositoryFeatures
	PullRequests     PullRequestSettings
	BranchProtection BranchProtectionSettings
	Push             PushSettings
	Actions          ActionsSettings

	Labels           []LabelConfig
	Webhooks         []WebhookConfig
	RequiredApps     []GitHubAppConfig
	CustomProperties []CustomPropertyConfig
	Environments     []EnvironmentConfig
	Notifications    []NotificationEndpoint
}

// TemplateMetadata is the template's self-description.
type TemplateMetadata struct {
	Name        string
	Description string
	Author      string
	Tags        []string
}

// RepositoryTypeSelector lets a template pin or merely suggest a repository
// type.
type RepositoryTypeSelector struct {
	TypeName string
	Policy   RepositoryTypePolicy
}

// TemplateVariable describes one substitution variable a template exposes.
type TemplateVariable struct {
	Description string
	Example     string
	Default     string
	Required    bool
}

// TemplateConfig has everything RepositoryTypeConfig has, plus template
// metadata, a repository-type selector, and named template variables.
type TemplateConfig struct {
	Metadata  TemplateMetadata
	Selector  RepositoryTypeSelector
	Variables map[string]TemplateVariable

	Repository       RepositoryFeatures
	PullRequests     PullRequestSettings
	BranchProtection BranchProtectionSettings
	Push             PushSettings
	Actions          ActionsSettings

	Labels           []LabelConfig
	Webhooks         []WebhookConfig
	RequiredApps     []GitHubAppConfig
	CustomProperties []CustomPropertyConfig
	Environments     []EnvironmentConfig
	Notifications    []NotificationEndpoint
}
