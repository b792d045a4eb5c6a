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

package schema

import "github.com/pvandervelde/repo-roller/internal/configmodel"

// configLeaves flattens a MergedConfiguration into dotted leaf paths and
// their resolved values, the domain custom rules match against. Absent
// scalars contribute no leaf; collection entries contribute one leaf per
// field under a per-entry path ("webhooks.<url>.secret").
func configLeaves(cfg *configmodel.MergedConfiguration) map[string]any {
	leaves := map[string]any{}

	addBool := func(path string, v *bool) {
		if v != nil {
			leaves[path] = *v
		}
	}
	addInt := func(path string, v *int) {
		if v != nil {
			leaves[path] = *v
		}
	}

	rf := cfg.Repository
	addBool("repository.has_issues", rf.HasIssues)
	addBool("repository.has_wiki", rf.HasWiki)
	addBool("repository.has_projects", rf.HasProjects)
	addBool("repository.has_discussions", rf.HasDiscussions)
	addBool("repository.auto_close_issues", rf.AutoCloseIssues)
	addBool("repository.security_advisories_enabled", rf.SecurityAdvisoriesEnabled)
	addBool("repository.vulnerability_reporting_enabled", rf.VulnerabilityReportingEnabled)
	addBool("repository.pages_enabled", rf.PagesEnabled)

	pr := cfg.PullRequests
	addBool("pull_requests.allow_merge_commit", pr.AllowMergeCommit)
	addBool("pull_requests.allow_squash_merge", pr.AllowSquashMerge)
	addBool("pull_requests.allow_rebase_merge", pr.AllowRebaseMerge)
	addBool("pull_requests.allow_auto_merge", pr.AllowAutoMerge)
	addBool("pull_requests.delete_branch_on_merge", pr.DeleteBranchOnMerge)
	addBool("pull_requests.require_conversation_resolution", pr.RequireConversationResolution)
	if pr.SquashMergeCommitMessage != nil {
		leaves["pull_requests.squash_merge_commit_message"] = string(*pr.SquashMergeCommitMessage)
	}
	if pr.MergeCommitMessage != nil {
		leaves["pull_requests.merge_commit_message"] = string(*pr.MergeCommitMessage)
	}

	bp := cfg.BranchProtection
	addBool("branch_protection.enabled", bp.Enabled)
	addInt("branch_protection.required_approving_review_count", bp.RequiredApprovingReviewCount)
	addBool("branch_protection.require_code_owner_review", bp.RequireCodeOwnerReview)
	addBool("branch_protection.dismiss_stale_reviews", bp.DismissStaleReviews)
	addBool("branch_protection.require_status_checks_to_pass", bp.RequireStatusChecksToPass)
	addBool("branch_protection.require_branch_up_to_date", bp.RequireBranchUpToDate)
	addBool("branch_protection.require_linear_history", bp.RequireLinearHistory)
	addBool("branch_protection.allow_force_pushes", bp.AllowForcePushes)
	addBool("branch_protection.allow_deletions", bp.AllowDeletions)

	addBool("push.require_signed_commits", cfg.Push.RequireSignedCommits)

	act := cfg.Actions
	addBool("actions.enabled", act.Enabled)
	if act.DefaultWorkflowPermission != nil {
		leaves["actions.default_workflow_permission"] = string(*act.DefaultWorkflowPermission)
	}
	addBool("actions.allow_fork_pr_approval_required", act.AllowForkPRApprovalRequired)

	if cfg.RepositoryType != "" {
		leaves["repository_type"] = cfg.RepositoryType
	}

	for name, l := range cfg.Labels {
		leaves["labels."+name+".name"] = l.Name
		leaves["labels."+name+".color"] = l.Color
		leaves["labels."+name+".description"] = l.Description
	}
	for _, w := range cfg.Webhooks {
		p := "webhooks." + w.URL
		leaves[p+".url"] = w.URL
		leaves[p+".secret"] = w.Secret
		leaves[p+".active"] = w.Active
		leaves[p+".timeout_seconds"] = w.TimeoutSeconds
	}
	for _, a := range cfg.GitHubApps {
		leaves["apps."+a.Slug+".slug"] = a.Slug
	}
	for _, e := range cfg.Environments {
		p := "environments." + e.Name
		leaves[p+".name"] = e.Name
		leaves[p+".wait_timer_minutes"] = e.WaitTimerMinutes
	}
	for name, p := range cfg.CustomProperties {
		leaves["custom_properties."+name] = p.Value
	}
	for _, n := range cfg.Notifications {
		p := "notifications." + n.URL
		leaves[p+".url"] = n.URL
		leaves[p+".secret"] = n.Secret
		leaves[p+".active"] = n.Active
		leaves[p+".timeout_seconds"] = n.TimeoutSeconds
	}

	return leaves
}
