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

func copyOB[T comparable](v *overridable.Value[T]) *overridable.Value[T] {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func copyRepositoryFeatures(r RepositoryFeatures) RepositoryFeatures {
	return RepositoryFeatures{
		HasIssues:                     copyOB(r.HasIssues),
		HasWiki:                       copyOB(r.HasWiki),
		HasProjects:                   copyOB(r.HasProjects),
		HasDiscussions:                copyOB(r.HasDiscussions),
		AutoCloseIssues:               copyOB(r.AutoCloseIssues),
		SecurityAdvisoriesEnabled:     copyOB(r.SecurityAdvisoriesEnabled),
		VulnerabilityReportingEnabled: copyOB(r.VulnerabilityReportingEnabled),
		PagesEnabled:                  copyOB(r.PagesEnabled),
	}
}

func copyPullRequestSettings(p PullRequestSettings) PullRequestSettings {
	return PullRequestSettings{
		AllowMergeCommit:              copyOB(p.AllowMergeCommit),
		AllowSquashMerge:              copyOB(p.AllowSquashMerge),
		AllowRebaseMerge:              copyOB(p.AllowRebaseMerge),
		AllowAutoMerge:                copyOB(p.AllowAutoMerge),
		DeleteBranchOnMerge:           copyOB(p.DeleteBranchOnMerge),
		RequireConversationResolution: copyOB(p.RequireConversationResolution),
		SquashMergeCommitMessage:      copyOB(p.SquashMergeCommitMessage),
		MergeCommitMessage:            copyOB(p.MergeCommitMessage),
	}
}

func copyBranchProtectionSettings(b BranchProtectionSettings) BranchProtectionSettings {
	return BranchProtectionSettings{
		Enabled:                      copyOB(b.Enabled),
		RequiredApprovingReviewCount: copyOB(b.RequiredApprovingReviewCount),
		RequireCodeOwnerReview:       copyOB(b.RequireCodeOwnerReview),
		DismissStaleReviews:          copyOB(b.DismissStaleReviews),
		RequireStatusChecksToPass:    copyOB(b.RequireStatusChecksToPass),
		RequireBranchUpToDate:        copyOB(b.RequireBranchUpToDate),
		RequireLinearHistory:         copyOB(b.RequireLinearHistory),
		AllowForcePushes:             copyOB(b.AllowForcePushes),
		AllowDeletions:               copyOB(b.AllowDeletions),
	}
}

func copyPushSettings(p PushSettings) PushSettings {
	return PushSettings{RequireSignedCommits: copyOB(p.RequireSignedCommits)}
}

func copyActionsSettings(a ActionsSettings) ActionsSettings {
	return ActionsSettings{
		Enabled:                     copyOB(a.Enabled),
		DefaultWorkflowPermission:   copyOB(a.DefaultWorkflowPermission),
		AllowForkPRApprovalRequired: copyOB(a.AllowForkPRApprovalRequired),
	}
}

func copyLabels(in []LabelConfig) []LabelConfig {
	if in == nil {
		return nil
	}
	out := make([]LabelConfig, len(in))
	copy(out, in)
	return out
}

func copyWebhooks(in []WebhookConfig) []WebhookConfig {
	if in == nil {
		return nil
	}
	out := make([]WebhookConfig, len(in))
	for i, w := range in {
		w.Events = append([]WebhookEvent(nil), w.Events...)
		out[i] = w
	}
	return out
}

func copyApps(in []GitHubAppConfig) []GitHubAppConfig {
	if in == nil {
		return nil
	}
	out := make([]GitHubAppConfig, len(in))
	for i, a := range in {
		perms := make(map[string]string, len(a.Permissions))
		for k, v := range a.Permissions {
			perms[k] = v
		}
		a.Permissions = perms
		out[i] = a
	}
	return out
}

func copyEnvironments(in []EnvironmentConfig) []EnvironmentConfig {
	if in == nil {
		return nil
	}
	out := make([]EnvironmentConfig, len(in))
	for i, e := range in {
		e.RequiredReviewers = append([]string(nil), e.RequiredReviewers...)
		e.DeploymentBranches = append([]string(nil), e.DeploymentBranches...)
		out[i] = e
	}
	return out
}

func copyCustomProperties(in []CustomPropertyConfig) []CustomPropertyConfig {
	if in == nil {
		return nil
	}
	out := make([]CustomPropertyConfig, len(in))
	copy(out, in)
	return out
}

func copyNotifications(in []NotificationEndpoint) []NotificationEndpoint {
	if in == nil {
		return nil
	}
	out := make([]NotificationEndpoint, len(in))
	for i, n := range in {
		n.Events = append([]string(nil), n.Events...)
		out[i] = n
	}
	return out
}

// DeepCopy returns an independent copy of g.
func (g GlobalDefaults) DeepCopy() GlobalDefaults {
	return GlobalDefaults{
		Repository:       copyRepositoryFeatures(g.Repository),
		PullRequests:     copyPullRequestSettings(g.PullRequests),
		BranchProtection: copyBranchProtectionSettings(g.BranchProtection),
		Push:             copyPushSettings(g.Push),
		Actions:          copyActionsSettings(g.Actions),
		Labels:           copyLabels(g.Labels),
		Webhooks:         copyWebhooks(g.Webhooks),
		RequiredApps:     copyApps(g.RequiredApps),
		CustomProperties: copyCustomProperties(g.CustomProperties),
		Environments:     copyEnvironments(g.Environments),
		Notifications:    copyNotifications(g.Notifications),
	}
}

// DeepCopy returns an independent copy of r.
func (r RepositoryTypeConfig) DeepCopy() RepositoryTypeConfig {
	return RepositoryTypeConfig{
		TypeName:         r.TypeName,
		Repository:       copyRepositoryFeatures(r.Repository),
		PullRequests:     copyPullRequestSettings(r.PullRequests),
		BranchProtection: copyBranchProtectionSettings(r.BranchProtection),
		Push:             copyPushSettings(r.Push),
		Actions:          copyActionsSettings(r.Actions),
		Labels:           copyLabels(r.Labels),
		Webhooks:         copyWebhooks(r.Webhooks),
		RequiredApps:     copyApps(r.RequiredApps),
		CustomProperties: copyCustomProperties(r.CustomProperties),
		Environments:     copyEnvironments(r.Environments),
		Notifications:    copyNotifications(r.Notifications),
	}
}

// DeepCopy returns an independent copy of t.
func (t TeamConfig) DeepCopy() TeamConfig {
	return TeamConfig{
		TeamName:         t.TeamName,
		Repository:       copyRepositoryFeatures(t.Repository),
		PullRequests:     copyPullRequestSettings(t.PullRequests),
		BranchProtection: copyBranchProtectionSettings(t.BranchProtection),
		Push:             copyPushSettings(t.Push),
		Actions:          copyActionsSettings(t.Actions),
		Labels:           copyLabels(t.Labels),
		Webhooks:         copyWebhooks(t.Webhooks),
		RequiredApps:     copyApps(t.RequiredApps),
		CustomProperties: copyCustomProperties(t.CustomProperties),
		Environments:     copyEnvironments(t.Environments),
		Notifications:    copyNotifications(t.Notifications),
	}
}

// DeepCopy returns an independent copy of t.
func (t TemplateConfig) DeepCopy() TemplateConfig {
	vars := make(map[string]TemplateVariable, len(t.Variables))
	for k, v := range t.Variables {
		vars[k] = v
	}
	return TemplateConfig{
		Metadata:         t.Metadata,
		Selector:         t.Selector,
		Variables:        vars,
		Repository:       copyRepositoryFeatures(t.Repository),
		PullRequests:     copyPullRequestSettings(t.PullRequests),
		BranchProtection: copyBranchProtectionSettings(t.BranchProtection),
		Push:             copyPushSettings(t.Push),
		Actions:          copyActionsSettings(t.Actions),
		Labels:           copyLabels(t.Labels),
		Webhooks:         copyWebhooks(t.Webhooks),
		RequiredApps:     copyApps(t.RequiredApps),
		CustomProperties: copyCustomProperties(t.CustomProperties),
		Environments:     copyEnvironments(t.Environments),
		Notifications:    copyNotifications(t.Notifications),
	}
}
