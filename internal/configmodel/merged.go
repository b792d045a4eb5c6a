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

// ResolvedRepositoryFeatures is RepositoryFeatures with Overridable wrappers
// stripped; every field is either set or nil ("no unknown third state").
type ResolvedRepositoryFeatures struct {
	HasIssues                     *bool
	HasWiki                       *bool
	HasProjects                   *bool
	HasDiscussions                *bool
	AutoCloseIssues               *bool
	SecurityAdvisoriesEnabled     *bool
	VulnerabilityReportingEnabled *bool
	PagesEnabled                  *bool
}

// ResolvedPullRequestSettings is PullRequestSettings with wrappers stripped.
type ResolvedPullRequestSettings struct {
	AllowMergeCommit              *bool
	AllowSquashMerge              *bool
	AllowRebaseMerge              *bool
	AllowAutoMerge                *bool
	DeleteBranchOnMerge           *bool
	RequireConversationResolution *bool
	SquashMergeCommitMessage      *CommitMessageOption
	MergeCommitMessage            *CommitMessageOption
}

// ResolvedBranchProtectionSettings is BranchProtectionSettings with wrappers
// stripped.
type ResolvedBranchProtectionSettings struct {
	Enabled                      *bool
	RequiredApprovingReviewCount *int
	RequireCodeOwnerReview       *bool
	DismissStaleReviews          *bool
	RequireStatusChecksToPass    *bool
	RequireBranchUpToDate        *bool
	RequireLinearHistory         *bool
	AllowForcePushes             *bool
	AllowDeletions               *bool
}

// ResolvedPushSettings is PushSettings with wrappers stripped.
type ResolvedPushSettings struct {
	RequireSignedCommits *bool
}

// ResolvedActionsSettings is ActionsSettings with wrappers stripped.
type ResolvedActionsSettings struct {
	Enabled                     *bool
	DefaultWorkflowPermission   *WorkflowPermission
	AllowForkPRApprovalRequired *bool
}

// SourceTrace maps a dotted field path (e.g. "pull_requests.allow_squash_merge",
// "labels.bug", "webhooks.https://...") to the layer that last legitimately
// set it.
type SourceTrace map[string]SourceTag

// MergedConfiguration is the fully resolved record the orchestrator
// consumes: resolved scalars, collapsed collections, and a source trace.
type MergedConfiguration struct {
	Repository       ResolvedRepositoryFeatures
	PullRequests     ResolvedPullRequestSettings
	BranchProtection ResolvedBranchProtectionSettings
	Push             ResolvedPushSettings
	Actions          ResolvedActionsSettings

	// Labels is keyed by name.
	Labels map[string]LabelConfig
	// Webhooks, GitHubApps, and Environments are ordered sequences,
	// ordered by first accumulation order after dedup.
	Webhooks     []WebhookConfig
	GitHubApps   []GitHubAppConfig
	Environments []EnvironmentConfig
	// CustomProperties is keyed by property name.
	CustomProperties map[string]CustomPropertyConfig
	// Notifications is the deduped set of event-publisher endpoints
	// contributed by global/repository-type/team/template layers.
	Notifications []NotificationEndpoint

	RepositoryType string

	Source SourceTrace
}

// NewMergedConfiguration returns an empty MergedConfiguration ready for the
// merger to populate.
func NewMergedConfiguration() *MergedConfiguration {
	return &MergedConfiguration{
		Labels:           map[string]LabelConfig{},
		CustomProperties: map[string]CustomPropertyConfig{},
		Source:           SourceTrace{},
	}
}
