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

// Package configmodel is the strongly typed representation of the
// configuration documents a metadata repository contributes (global,
// repository-type, team, template), and of the merged result the
// orchestrator consumes. It performs no I/O and never suspends.
package configmodel

// Visibility is the forge-level repository visibility.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityPrivate  Visibility = "private"
	VisibilityInternal Visibility = "internal"
)

// MergeType is an allowed pull-request merge strategy.
type MergeType string

const (
	MergeTypeMerge  MergeType = "merge"
	MergeTypeSquash MergeType = "squash"
	MergeTypeRebase MergeType = "rebase"
)

// CommitMessageOption controls how the forge composes a squash/merge commit
// message from a pull request.
type CommitMessageOption string

const (
	CommitMessageDefault                 CommitMessageOption = "default"
	CommitMessagePRTitle                 CommitMessageOption = "pr_title"
	CommitMessagePRTitleAndDescription   CommitMessageOption = "pr_title_and_description"
	CommitMessagePRTitleAndCommitDetails CommitMessageOption = "pr_title_and_commit_details"
)

// WorkflowPermission is the default token permission granted to Actions
// workflows in a repository.
type WorkflowPermission string

const (
	WorkflowPermissionNone  WorkflowPermission = "none"
	WorkflowPermissionRead  WorkflowPermission = "read"
	WorkflowPermissionWrite WorkflowPermission = "write"
)

// WebhookEvent is one of the forge's closed set of event names a webhook may
// subscribe to.
type WebhookEvent string

const (
	EventPush                     WebhookEvent = "push"
	EventPullRequest              WebhookEvent = "pull_request"
	EventIssues                   WebhookEvent = "issues"
	EventRelease                  WebhookEvent = "release"
	EventRepository               WebhookEvent = "repository"
	EventDeployment               WebhookEvent = "deployment"
	EventDeploymentStatus         WebhookEvent = "deployment_status"
	EventCheckRun                 WebhookEvent = "check_run"
	EventCheckSuite               WebhookEvent = "check_suite"
	EventStar                     WebhookEvent = "star"
	EventWatch                    WebhookEvent = "watch"
	EventFork                     WebhookEvent = "fork"
	EventCommitComment            WebhookEvent = "commit_comment"
	EventPullRequestReview        WebhookEvent = "pull_request_review"
	EventPullRequestReviewComment WebhookEvent = "pull_request_review_comment"
	EventIssueComment             WebhookEvent = "issue_comment"
)

// ValidWebhookEvents is the closed set of event names a webhook may
// subscribe to.
var ValidWebhookEvents = map[WebhookEvent]bool{
	EventPush: true, EventPullRequest: true, EventIssues: true,
	EventRelease: true, EventRepository: true, EventDeployment: true,
	EventDeploymentStatus: true, EventCheckRun: true, EventCheckSuite: true,
	EventStar: true, EventWatch: true, EventFork: true,
	EventCommitComment: true, EventPullRequestReview: true,
	EventPullRequestReviewComment: true, EventIssueComment: true,
}

// RepositoryTypePolicy controls whether a template's preferred repository
// type may be overridden by the orchestrator's request.
type RepositoryTypePolicy string

const (
	RepositoryTypeFixed      RepositoryTypePolicy = "fixed"
	RepositoryTypePreferable RepositoryTypePolicy = "preferable"
)

// SourceTag identifies which configuration layer set a resolved field,
// in ascending precedence order.
type SourceTag int

const (
	SourceGlobal SourceTag = iota + 1
	SourceRepositoryType
	SourceTeam
	SourceTemplate
)

func (s SourceTag) String() string {
	switch s {
	case SourceGlobal:
		return "Global"
	case SourceRepositoryType:
		return "RepositoryType"
	case SourceTeam:
		return "Team"
	case SourceTemplate:
		return "Template"
	default:
		return "Unknown"
	}
}

// ContentStrategy is the repository creation content-seeding strategy.
type ContentStrategy string

const (
	ContentStrategyEmpty      ContentStrategy = "empty"
	ContentStrategyTemplate   ContentStrategy = "template"
	ContentStrategyCustomInit ContentStrategy = "custom_init"
)
