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

package merge

import (
	"github.com/pvandervelde/repo-roller/internal/configmodel"
	"github.com/pvandervelde/repo-roller/internal/overridable"
)

// Merger applies documents in precedence order and produces a
// MergedConfiguration plus source trace, or an OverrideNotPermittedError.
// Stateless: every method call is independent of every other.
type Merger struct{}

// New constructs a Merger.
func New() *Merger {
	return &Merger{}
}

// Input bundles the four documents a merge operates over. RepositoryType
// and Team are optional; Global and Template are always present.
type Input struct {
	Global         configmodel.GlobalDefaults
	RepositoryType *configmodel.RepositoryTypeConfig
	Team           *configmodel.TeamConfig
	Template       configmodel.TemplateConfig
	// RequestedRepositoryType is the orchestrator's requested type, used
	// to resolve the template's selector.
	RequestedRepositoryType string
}

// Merge runs the four-phase merge algorithm and returns the
// resolved configuration; its effective repository type is carried in
// the result's RepositoryType field.
func (m *Merger) Merge(in Input) (*configmodel.MergedConfiguration, error) {
	resolvedType, err := resolveRepositoryType(in.Template.Selector, in.RequestedRepositoryType)
	if err != nil {
		return nil, err
	}

	out := configmodel.NewMergedConfiguration()
	out.RepositoryType = resolvedType

	if err := mergeRepositoryFeatures(out, in); err != nil {
		return nil, err
	}
	if err := mergePullRequestSettings(out, in); err != nil {
		return nil, err
	}
	if err := mergeBranchProtectionSettings(out, in); err != nil {
		return nil, err
	}
	if err := mergePushSettings(out, in); err != nil {
		return nil, err
	}
	if err := mergeActionsSettings(out, in); err != nil {
		return nil, err
	}

	mergeCollections(out, in)

	return out, nil
}

func resolveRepositoryType(sel configmodel.RepositoryTypeSelector, requested string) (string, error) {
	switch sel.Policy {
	case configmodel.RepositoryTypeFixed:
		if requested != "" && requested != sel.TypeName {
			return "", &RepositoryTypeMismatchError{Requested: requested, Required: sel.TypeName}
		}
		return sel.TypeName, nil
	case configmodel.RepositoryTypePreferable:
		if requested != "" {
			return requested, nil
		}
		return sel.TypeName, nil
	default:
		return requested, nil
	}
}

func layers4[T comparable](global *overridable.Value[T], repoType *overridable.Value[T], team *overridable.Value[T], template *overridable.Value[T]) []layerField[T] {
	return []layerField[T]{
		{tag: configmodel.SourceGlobal, value: global},
		{tag: configmodel.SourceRepositoryType, value: repoType},
		{tag: configmodel.SourceTeam, value: team},
		{tag: configmodel.SourceTemplate, value: template},
	}
}

func recordSource(out *configmodel.MergedConfiguration, path string, tag configmodel.SourceTag, set bool) {
	if set {
		out.Source[path] = tag
	}
}

func mergeRepositoryFeatures(out *configmodel.MergedConfiguration, in Input) error {
	g, rt, tm := in.Global.Repository, repoTypeRepository(in.RepositoryType), teamRepository(in.Team)
	t := in.Template.Repository

	var err error
	out.Repository.HasIssues, err = mergeBoolField(out, "repository.has_issues", g.HasIssues, rt.HasIssues, tm.HasIssues, t.HasIssues)
	if err != nil {
		return err
	}
	out.Repository.HasWiki, err = mergeBoolField(out, "repository.has_wiki", g.HasWiki, rt.HasWiki, tm.HasWiki, t.HasWiki)
	if err != nil {
		return err
	}
	out.Repository.HasProjects, err = mergeBoolField(out, "repository.has_projects", g.HasProjects, rt.HasProjects, tm.HasProjects, t.HasProjects)
	if err != nil {
		return err
	}
	out.Repository.HasDiscussions, err = mergeBoolField(out, "repository.has_discussions", g.HasDiscussions, rt.HasDiscussions, tm.HasDiscussions, t.HasDiscussions)
	if err != nil {
		return err
	}
	out.Repository.AutoCloseIssues, err = mergeBoolField(out, "repository.auto_close_issues", g.AutoCloseIssues, rt.AutoCloseIssues, tm.AutoCloseIssues, t.AutoCloseIssues)
	if err != nil {
		return err
	}
	out.Repository.SecurityAdvisoriesEnabled, err = mergeBoolField(out, "repository.security_advisories_enabled", g.SecurityAdvisoriesEnabled, rt.SecurityAdvisoriesEnabled, tm.SecurityAdvisoriesEnabled, t.SecurityAdvisoriesEnabled)
	if err != nil {
		return err
	}
	out.Repository.VulnerabilityReportingEnabled, err = mergeBoolField(out, "repository.vulnerability_reporting_enabled", g.VulnerabilityReportingEnabled, rt.VulnerabilityReportingEnabled, tm.VulnerabilityReportingEnabled, t.VulnerabilityReportingEnabled)
	if err != nil {
		return err
	}
	out.Repository.PagesEnabled, err = mergeBoolField(out, "repository.pages_enabled", g.PagesEnabled, rt.PagesEnabled, tm.PagesEnabled, t.PagesEnabled)
	return err
}

func mergeBoolField(out *configmodel.MergedConfiguration, path string, g, rt, tm, t *overridable.Value[bool]) (*bool, error) {
	v, tag, err := mergeScalarField(path, layers4(g, rt, tm, t)...)
	if err != nil {
		return nil, err
	}
	recordSource(out, path, tag, v != nil)
	return v, nil
}

func mergeIntField(out *configmodel.MergedConfiguration, path string, g, rt, tm, t *overridable.Value[int]) (*int, error) {
	v, tag, err := mergeScalarField(path, layers4(g, rt, tm, t)...)
	if err != nil {
		return nil, err
	}
	recordSource(out, path, tag, v != nil)
	return v, nil
}

func mergeCommitMsgField(out *configmodel.MergedConfiguration, path string, g, rt, tm, t *overridable.Value[configmodel.CommitMessageOption]) (*configmodel.CommitMessageOption, error) {
	v, tag, err := mergeScalarField(path, layers4(g, rt, tm, t)...)
	if err != nil {
		return nil, err
	}
	recordSource(out, path, tag, v != nil)
	return v, nil
}

func mergeWorkflowPermField(out *configmodel.MergedConfiguration, path string, g, rt, tm, t *overridable.Value[configmodel.WorkflowPermission]) (*configmodel.WorkflowPermission, error) {
	v, tag, err := mergeScalarField(path, layers4(g, rt, tm, t)...)
	if err != nil {
		return nil, err
	}
	recordSource(out, path, tag, v != nil)
	return v, nil
}

func repoTypeRepository(rt *configmodel.RepositoryTypeConfig) configmodel.RepositoryFeatures {
	if rt == nil {
		return configmodel.RepositoryFeatures{}
	}
	return rt.Repository
}

func teamRepository(tm *configmodel.TeamConfig) configmodel.RepositoryFeatures {
	if tm == nil {
		return configmodel.RepositoryFeatures{}
	}
	return tm.Repository
}

func repoTypePullRequests(rt *configmodel.RepositoryTypeConfig) configmodel.PullRequestSettings {
	if rt == nil {
		return configmodel.PullRequestSettings{}
	}
	return rt.PullRequests
}

func teamPullRequests(tm *configmodel.TeamConfig) configmodel.PullRequestSettings {
	if tm == nil {
		return configmodel.PullRequestSettings{}
	}
	return tm.PullRequests
}

func mergePullRequestSettings(out *configmodel.MergedConfiguration, in Input) error {
	g, rt, tm, t := in.Global.PullRequests, repoTypePullRequests(in.RepositoryType), teamPullRequests(in.Team), in.Template.PullRequests

	var err error
	out.PullRequests.AllowMergeCommit, err = mergeBoolField(out, "pull_requests.allow_merge_commit", g.AllowMergeCommit, rt.AllowMergeCommit, tm.AllowMergeCommit, t.AllowMergeCommit)
	if err != nil {
		return err
	}
	out.PullRequests.AllowSquashMerge, err = mergeBoolField(out, "pull_requests.allow_squash_merge", g.AllowSquashMerge, rt.AllowSquashMerge, tm.AllowSquashMerge, t.AllowSquashMerge)
	if err != nil {
		return err
	}
	out.PullRequests.AllowRebaseMerge, err = mergeBoolField(out, "pull_requests.allow_rebase_merge", g.AllowRebaseMerge, rt.AllowRebaseMerge, tm.AllowRebaseMerge, t.AllowRebaseMerge)
	if err != nil {
		return err
	}
	out.PullRequests.AllowAutoMerge, err = mergeBoolField(out, "pull_requests.allow_auto_merge", g.AllowAutoMerge, rt.AllowAutoMerge, tm.AllowAutoMerge, t.AllowAutoMerge)
	if err != nil {
		return err
	}
	out.PullRequests.DeleteBranchOnMerge, err = mergeBoolField(out, "pull_requests.delete_branch_on_merge", g.DeleteBranchOnMerge, rt.DeleteBranchOnMerge, tm.DeleteBranchOnMerge, t.DeleteBranchOnMerge)
	if err != nil {
		return err
	}
	out.PullRequests.RequireConversationResolution, err = mergeBoolField(out, "pull_requests.require_conversation_resolution", g.RequireConversationResolution, rt.RequireConversationResolution, tm.RequireConversationResolution, t.RequireConversationResolution)
	if err != nil {
		return err
	}
	out.PullRequests.SquashMergeCommitMessage, err = mergeCommitMsgField(out, "pull_requests.squash_merge_commit_message", g.SquashMergeCommitMessage, rt.SquashMergeCommitMessage, tm.SquashMergeCommitMessage, t.SquashMergeCommitMessage)
	if err != nil {
		return err
	}
	out.PullRequests.MergeCommitMessage, err = mergeCommitMsgField(out, "pull_requests.merge_commit_message", g.MergeCommitMessage, rt.MergeCommitMessage, tm.MergeCommitMessage, t.MergeCommitMessage)
	return err
}

func repoTypeBranchProtection(rt *configmodel.RepositoryTypeConfig) configmodel.BranchProtectionSettings {
	if rt == nil {
		return configmodel.BranchProtectionSettings{}
	}
	return rt.BranchProtection
}

func teamBranchProtection(tm *configmodel.TeamConfig) configmodel.BranchProtectionSettings {
	if tm == nil {
		return configmodel.BranchProtectionSettings{}
	}
	return tm.BranchProtection
}

func mergeBranchProtectionSettings(out *configmodel.MergedConfiguration, in Input) error {
	g, rt, tm, t := in.Global.BranchProtection, repoTypeBranchProtection(in.RepositoryType), teamBranchProtection(in.Team), in.Template.BranchProtection

	var err error
	out.BranchProtection.Enabled, err = mergeBoolField(out, "branch_protection.enabled", g.Enabled, rt.Enabled, tm.Enabled, t.Enabled)
	if err != nil {
		return err
	}
	out.BranchProtection.RequiredApprovingReviewCount, err = mergeIntField(out, "branch_protection.required_approving_review_count", g.RequiredApprovingReviewCount, rt.RequiredApprovingReviewCount, tm.RequiredApprovingReviewCount, t.RequiredApprovingReviewCount)
	if err != nil {
		return err
	}
	out.BranchProtection.RequireCodeOwnerReview, err = mergeBoolField(out, "branch_protection.require_code_owner_review", g.RequireCodeOwnerReview, rt.RequireCodeOwnerReview, tm.RequireCodeOwnerReview, t.RequireCodeOwnerReview)
	if err != nil {
		return err
	}
	out.BranchProtection.DismissStaleReviews, err = mergeBoolField(out, "branch_protection.dismiss_stale_reviews", g.DismissStaleReviews, rt.DismissStaleReviews, tm.DismissStaleReviews, t.DismissStaleReviews)
	if err != nil {
		return err
	}
	out.BranchProtection.RequireStatusChecksToPass, err = mergeBoolField(out, "branch_protection.require_status_checks_to_pass", g.RequireStatusChecksToPass, rt.RequireStatusChecksToPass, tm.RequireStatusChecksToPass, t.RequireStatusChecksToPass)
	if err != nil {
		return err
	}
	out.BranchProtection.RequireBranchUpToDate, err = mergeBoolField(out, "branch_protection.require_branch_up_to_date", g.RequireBranchUpToDate, rt.RequireBranchUpToDate, tm.RequireBranchUpToDate, t.RequireBranchUpToDate)
	if err != nil {
		return err
	}
	out.BranchProtection.RequireLinearHistory, err = mergeBoolField(out, "branch_protection.require_linear_history", g.RequireLinearHistory, rt.RequireLinearHistory, tm.RequireLinearHistory, t.RequireLinearHistory)
	if err != nil {
		return err
	}
	out.BranchProtection.AllowForcePushes, err = mergeBoolField(out, "branch_protection.allow_force_pushes", g.AllowForcePushes, rt.AllowForcePushes, tm.AllowForcePushes, t.AllowForcePushes)
	if err != nil {
		return err
	}
	out.BranchProtection.AllowDeletions, err = mergeBoolField(out, "branch_protection.allow_deletions", g.AllowDeletions, rt.AllowDeletions, tm.AllowDeletions, t.AllowDeletions)
	return err
}

func repoTypePush(rt *configmodel.RepositoryTypeConfig) configmodel.PushSettings {
	if rt == nil {
		return configmodel.PushSettings{}
	}
	return rt.Push
}

func teamPush(tm *configmodel.TeamConfig) configmodel.PushSettings {
	if tm == nil {
		return configmodel.PushSettings{}
	}
	return tm.Push
}

func mergePushSettings(out *configmodel.MergedConfiguration, in Input) error {
	g, rt, tm, t := in.Global.Push, repoTypePush(in.RepositoryType), teamPush(in.Team), in.Template.Push
	var err error
	out.Push.RequireSignedCommits, err = mergeBoolField(out, "push.require_signed_commits", g.RequireSignedCommits, rt.RequireSignedCommits, tm.RequireSignedCommits, t.RequireSignedCommits)
	return err
}

func repoTypeActions(rt *configmodel.RepositoryTypeConfig) configmodel.ActionsSettings {
	if rt == nil {
		return configmodel.ActionsSettings{}
	}
	return rt.Actions
}

func teamActions(tm *configmodel.TeamConfig) configmodel.ActionsSettings {
	if tm == nil {
		return configmodel.ActionsSettings{}
	}
	return tm.Actions
}

func mergeActionsSettings(out *configmodel.MergedConfiguration, in Input) error {
	g, rt, tm, t := in.Global.Actions, repoTypeActions(in.RepositoryType), teamActions(in.Team), in.Template.Actions
	var err error
	out.Actions.Enabled, err = mergeBoolField(out, "actions.enabled", g.Enabled, rt.Enabled, tm.Enabled, t.Enabled)
	if err != nil {
		return err
	}
	out.Actions.DefaultWorkflowPermission, err = mergeWorkflowPermField(out, "actions.default_workflow_permission", g.DefaultWorkflowPermission, rt.DefaultWorkflowPermission, tm.DefaultWorkflowPermission, t.DefaultWorkflowPermission)
	if err != nil {
		return err
	}
	out.Actions.AllowForkPRApprovalRequired, err = mergeBoolField(out, "actions.allow_fork_pr_approval_required", g.AllowForkPRApprovalRequired, rt.AllowForkPRApprovalRequired, tm.AllowForkPRApprovalRequired, t.AllowForkPRApprovalRequired)
	return err
}
