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

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v59/github"
)

// ErrNotFound reports a 404 from the forge.
var ErrNotFound = errors.New("forge: not found")

// ErrAccessDenied reports a 401 or 403 from the forge.
var ErrAccessDenied = errors.New("forge: access denied")

// Client is the concrete MetadataRepositories + RepositoryCreator
// implementation backed by go-github. One Client per installation; obtain
// via Clients.ForInstallation and wrap.
type Client struct {
	gh *github.Client
}

// NewClient wraps an already-authenticated github.Client.
func NewClient(gh *github.Client) *Client {
	return &Client{gh: gh}
}

func wrapNotFound(resp *github.Response, err error) error {
	if err == nil {
		return nil
	}
	if resp != nil {
		switch resp.StatusCode {
		case 404:
			return ErrNotFound
		case 401, 403:
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}
	return err
}

func (c *Client) GetRepository(ctx context.Context, org, name string) (*RepositoryInfo, error) {
	r, resp, err := c.gh.Repositories.Get(ctx, org, name)
	if err := wrapNotFound(resp, err); err != nil {
		return nil, err
	}
	return &RepositoryInfo{
		ID:            r.GetID(),
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		HTMLURL:       r.GetHTMLURL(),
		DefaultBranch: r.GetDefaultBranch(),
		UpdatedAt:     r.GetUpdatedAt().Format("2006-01-02T15:04:05Z"),
	}, nil
}

func (c *Client) SearchRepositoriesByTopic(ctx context.Context, org, topic string, max int) ([]string, error) {
	q := fmt.Sprintf("org:%s topic:%s", org, topic)
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: max}}
	result, _, err := c.gh.Search.Repositories(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(result.Repositories))
	for i, r := range result.Repositories {
		if i >= max {
			break
		}
		names = append(names, r.GetName())
	}
	return names, nil
}

func (c *Client) GetFileContent(ctx context.Context, org, repo, path string) (string, error) {
	content, _, resp, err := c.gh.Repositories.GetContents(ctx, org, repo, path, nil)
	if err := wrapNotFound(resp, err); err != nil {
		return "", err
	}
	if content == nil {
		return "", ErrNotFound
	}
	decoded, decErr := content.GetContent()
	if decErr != nil {
		return "", fmt.Errorf("decoding file content: %w", decErr)
	}
	return decoded, nil
}

func (c *Client) ListDirectory(ctx context.Context, org, repo, path string) ([]FileEntry, error) {
	_, dirEntries, resp, err := c.gh.Repositories.GetContents(ctx, org, repo, path, nil)
	if err := wrapNotFound(resp, err); err != nil {
		return nil, err
	}
	out := make([]FileEntry, 0, len(dirEntries))
	for _, e := range dirEntries {
		out = append(out, FileEntry{Name: e.GetName(), Type: e.GetType()})
	}
	return out, nil
}

func (c *Client) CreateOrgRepository(ctx context.Context, org string, req RepositoryRequest) (*RepositoryInfo, error) {
	payload := &github.Repository{
		Name:                     &req.Name,
		Private:                  req.Private,
		Visibility:               req.Visibility,
		HasIssues:                req.HasIssues,
		HasWiki:                  req.HasWiki,
		HasProjects:              req.HasProjects,
		HasDiscussions:           req.HasDiscussions,
		AllowMergeCommit:         req.AllowMergeCommit,
		AllowSquashMerge:         req.AllowSquashMerge,
		AllowRebaseMerge:         req.AllowRebaseMerge,
		AllowAutoMerge:           req.AllowAutoMerge,
		DeleteBranchOnMerge:      req.DeleteBranchOnMerge,
		SquashMergeCommitMessage: req.SquashMergeCommitMessage,
		MergeCommitMessage:       req.MergeCommitMessage,
	}
	r, _, err := c.gh.Repositories.Create(ctx, org, payload)
	if err != nil {
		return nil, err
	}
	return &RepositoryInfo{
		ID:            r.GetID(),
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		HTMLURL:       r.GetHTMLURL(),
		DefaultBranch: r.GetDefaultBranch(),
		CreatedAt:     r.GetCreatedAt().Format("2006-01-02T15:04:05Z"),
	}, nil
}

func (c *Client) UpdateRepositorySettings(ctx context.Context, org, repo string, req RepositoryRequest) error {
	payload := &github.Repository{
		HasIssues:                req.HasIssues,
		HasWiki:                  req.HasWiki,
		HasProjects:              req.HasProjects,
		HasDiscussions:           req.HasDiscussions,
		AllowMergeCommit:         req.AllowMergeCommit,
		AllowSquashMerge:         req.AllowSquashMerge,
		AllowRebaseMerge:         req.AllowRebaseMerge,
		AllowAutoMerge:           req.AllowAutoMerge,
		DeleteBranchOnMerge:      req.DeleteBranchOnMerge,
		SquashMergeCommitMessage: req.SquashMergeCommitMessage,
		MergeCommitMessage:       req.MergeCommitMessage,
	}
	_, _, err := c.gh.Repositories.Edit(ctx, org, repo, payload)
	return err
}

func (c *Client) CreateFile(ctx context.Context, org, repo, path, branch, content, message string) error {
	_, _, err := c.gh.Repositories.CreateFile(ctx, org, repo, path, &github.RepositoryContentFileOptions{
		Message: &message,
		Content: []byte(content),
		Branch:  &branch,
	})
	return err
}

func (c *Client) SetBranchProtection(ctx context.Context, org, repo, branch string, req BranchProtectionRequest) error {
	protection := &github.ProtectionRequest{
		RequiredPullRequestReviews: &github.PullRequestReviewsEnforcementRequest{
			RequiredApprovingReviewCount: req.RequiredApprovingReviewCount,
			RequireCodeOwnerReviews:      req.RequireCodeOwnerReview,
			DismissStaleReviews:          req.DismissStaleReviews,
		},
		RequireLinearHistory: &req.RequireLinearHistory,
		AllowForcePushes:     &req.AllowForcePushes,
		AllowDeletions:       &req.AllowDeletions,
	}
	if req.RequireStatusChecksToPass {
		protection.RequiredStatusChecks = &github.RequiredStatusChecks{
			Strict: req.RequireBranchUpToDate,
			Checks: []*github.RequiredStatusCheck{},
		}
	}
	_, _, err := c.gh.Repositories.UpdateBranchProtection(ctx, org, repo, branch, protection)
	return err
}

func (c *Client) CreateOrUpdateLabel(ctx context.Context, org, repo, name, color, description string) error {
	_, _, err := c.gh.Issues.GetLabel(ctx, org, repo, name)
	if err != nil {
		_, _, createErr := c.gh.Issues.CreateLabel(ctx, org, repo, &github.Label{
			Name: &name, Color: &color, Description: &description,
		})
		return createErr
	}
	_, _, err = c.gh.Issues.EditLabel(ctx, org, repo, name, &github.Label{
		Name: &name, Color: &color, Description: &description,
	})
	return err
}

func (c *Client) CreateWebhook(ctx context.Context, org, repo string, req WebhookRequest) error {
	active := req.Active
	_, _, err := c.gh.Repositories.CreateHook(ctx, org, repo, &github.Hook{
		Active: &active,
		Events: req.Events,
		Config: map[string]interface{}{
			"url":          req.URL,
			"content_type": "json",
			"secret":       req.Secret,
		},
	})
	return err
}

// InstallApp looks up the app's existing installation on the organization
// and adds the repository to it. It does not create a new installation;
// the app must already be installed org-wide or on at least one repository.
func (c *Client) InstallApp(ctx context.Context, org, repo, appSlug string) error {
	installations, _, err := c.gh.Apps.ListUserInstallations(ctx, nil)
	if err != nil {
		return fmt.Errorf("listing installations for app %q: %w", appSlug, err)
	}
	for _, inst := range installations {
		if inst.GetAppSlug() != appSlug {
			continue
		}
		r, _, getErr := c.gh.Repositories.Get(ctx, org, repo)
		if getErr != nil {
			return getErr
		}
		_, _, err := c.gh.Apps.AddRepository(ctx, inst.GetID(), r.GetID())
		return err
	}
	return fmt.Errorf("app %q has no installation visible to this token", appSlug)
}

func (c *Client) SetCustomProperties(ctx context.Context, org, repo string, props map[string]string) error {
	values := make([]*github.CustomPropertyValue, 0, len(props))
	for k, v := range props {
		values = append(values, &github.CustomPropertyValue{PropertyName: k, Value: github.String(v)})
	}
	_, err := c.gh.Organizations.CreateOrUpdateRepoCustomPropertyValues(ctx, org, []string{repo}, values)
	return err
}

func (c *Client) DeleteRepository(ctx context.Context, org, repo string) error {
	_, err := c.gh.Repositories.Delete(ctx, org, repo)
	return err
}
