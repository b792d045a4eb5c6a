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

package forge

import "context"

// RepositoryInfo is the subset of forge repository metadata components D
// and G need.
type RepositoryInfo struct {
	ID            int64
	Name          string
	FullName      string
	HTMLURL       string
	DefaultBranch string
	CreatedAt     string
	UpdatedAt     string
}

// FileEntry is one entry returned by ListDirectory.
type FileEntry struct {
	Name string
	Type string // "file" or "dir"
}

// MetadataRepositories is the narrow surface the metadata provider
// needs: repository lookup, topic search, and content reads. One small
// interface per consumer rather than one fat client interface.
type MetadataRepositories interface {
	GetRepository(ctx context.Context, org, name string) (*RepositoryInfo, error)
	SearchRepositoriesByTopic(ctx context.Context, org, topic string, max int) ([]string, error)
	GetFileContent(ctx context.Context, org, repo, path string) (string, error)
	ListDirectory(ctx context.Context, org, repo, path string) ([]FileEntry, error)
}

// RepositoryRequest is the payload for creating or updating a repository's
// settings.
type RepositoryRequest struct {
	Name                     string
	Private                  *bool
	Visibility               *string
	HasIssues                *bool
	HasWiki                  *bool
	HasProjects              *bool
	HasDiscussions           *bool
	AllowMergeCommit         *bool
	AllowSquashMerge         *bool
	AllowRebaseMerge         *bool
	AllowAutoMerge           *bool
	DeleteBranchOnMerge      *bool
	SquashMergeCommitMessage *string
	MergeCommitMessage       *string
}

// BranchProtectionRequest is the payload for setting branch protection on
// the default branch.
type BranchProtectionRequest struct {
	RequiredApprovingReviewCount int
	RequireCodeOwnerReview       bool
	DismissStaleReviews          bool
	RequireStatusChecksToPass    bool
	RequireBranchUpToDate        bool
	RequireLinearHistory         bool
	AllowForcePushes             bool
	AllowDeletions               bool
}

// WebhookRequest is the payload for registering one webhook.
type WebhookRequest struct {
	URL    string
	Events []string
	Secret string
	Active bool
}

// RepositoryCreator is the narrow surface the orchestrator needs to
// create and configure a repository.
type RepositoryCreator interface {
	CreateOrgRepository(ctx context.Context, org string, req RepositoryRequest) (*RepositoryInfo, error)
	UpdateRepositorySettings(ctx context.Context, org, repo string, req RepositoryRequest) error
	CreateFile(ctx context.Context, org, repo, path, branch, content, message string) error
	SetBranchProtection(ctx context.Context, org, repo, branch string, req BranchProtectionRequest) error
	CreateOrUpdateLabel(ctx context.Context, org, repo string, name, color, description string) error
	CreateWebhook(ctx context.Context, org, repo string, req WebhookRequest) error
	InstallApp(ctx context.Context, org, repo, appSlug string) error
	SetCustomProperties(ctx context.Context, org, repo string, props map[string]string) error
	DeleteRepository(ctx context.Context, org, repo string) error
}
