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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pvandervelde/repo-roller/internal/forge"
	"github.com/pvandervelde/repo-roller/internal/metadata"
	"github.com/pvandervelde/repo-roller/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	sleep = func(ctx context.Context, d time.Duration) error { return nil }
}

const sampleGlobalDoc = `
[repository]
has_wiki = { value = false, override_allowed = false }
has_issues = true

[pull_requests]
allow_squash_merge = true

[branch_protection]
enabled = { value = true, override_allowed = false }
required_approving_review_count = 1
`

// fakeForge implements both forge.MetadataRepositories and
// forge.RepositoryCreator with an in-memory file tree, so one fake backs
// the whole pipeline.
type fakeForge struct {
	files             map[string]string
	created           []string
	deleted           []string
	createdFiles      []string
	webhooks          []forge.WebhookRequest
	customPropsByRepo map[string]map[string]string
	createErr         error
	createFileErr     error
	protectionErr     error
	webhookErrByURL   map[string]error
	mu                sync.Mutex
}

func newFakeForge() *fakeForge {
	return &fakeForge{
		files:             map[string]string{"acme-config/global/defaults.toml": sampleGlobalDoc},
		customPropsByRepo: map[string]map[string]string{},
	}
}

func (f *fakeForge) GetRepository(ctx context.Context, org, name string) (*forge.RepositoryInfo, error) {
	if name != "acme-config" {
		return nil, forge.ErrNotFound
	}
	return &forge.RepositoryInfo{Name: name, FullName: org + "/" + name}, nil
}

func (f *fakeForge) SearchRepositoriesByTopic(ctx context.Context, org, topic string, max int) ([]string, error) {
	return nil, nil
}

func (f *fakeForge) GetFileContent(ctx context.Context, org, repo, path string) (string, error) {
	content, ok := f.files[repo+"/"+path]
	if !ok {
		return "", forge.ErrNotFound
	}
	return content, nil
}

func (f *fakeForge) ListDirectory(ctx context.Context, org, repo, path string) ([]forge.FileEntry, error) {
	return nil, forge.ErrNotFound
}

func (f *fakeForge) CreateOrgRepository(ctx context.Context, org string, req forge.RepositoryRequest) (*forge.RepositoryInfo, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, org+"/"+req.Name)
	return &forge.RepositoryInfo{
		ID:            1,
		Name:          req.Name,
		FullName:      org + "/" + req.Name,
		HTMLURL:       "https://forge.example/" + org + "/" + req.Name,
		DefaultBranch: "main",
	}, nil
}

func (f *fakeForge) UpdateRepositorySettings(ctx context.Context, org, repo string, req forge.RepositoryRequest) error {
	return nil
}

func (f *fakeForge) CreateFile(ctx context.Context, org, repo, path, branch, content, message string) error {
	if f.createFileErr != nil {
		return f.createFileErr
	}
	f.createdFiles = append(f.createdFiles, repo+"/"+path)
	return nil
}

func (f *fakeForge) SetBranchProtection(ctx context.Context, org, repo, branch string, req forge.BranchProtectionRequest) error {
	return f.protectionErr
}

func (f *fakeForge) CreateOrUpdateLabel(ctx context.Context, org, repo, name, color, description string) error {
	return nil
}

func (f *fakeForge) CreateWebhook(ctx context.Context, org, repo string, req forge.WebhookRequest) error {
	if err, ok := f.webhookErrByURL[req.URL]; ok {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.webhooks = append(f.webhooks, req)
	return nil
}

func (f *fakeForge) InstallApp(ctx context.Context, org, repo, appSlug string) error {
	return nil
}

func (f *fakeForge) SetCustomProperties(ctx context.Context, org, repo string, props map[string]string) error {
	f.customPropsByRepo[repo] = props
	return nil
}

func (f *fakeForge) DeleteRepository(ctx context.Context, org, repo string) error {
	f.deleted = append(f.deleted, org+"/"+repo)
	return nil
}

type fakePublisher struct {
	published []PublishInput
}

func (p *fakePublisher) PublishRepositoryCreated(ctx context.Context, evt PublishInput) error {
	p.published = append(p.published, evt)
	return nil
}

type noopRenderer struct{}

func (noopRenderer) Render(ctx context.Context, templateRepo, org, repo, defaultBranch string, variables map[string]string) error {
	return nil
}

func newTestOrchestrator(t *testing.T, backend *fakeForge) (*Orchestrator, *fakePublisher) {
	t.Helper()
	provider := metadata.NewProvider(backend, metadata.DefaultDiscoveryConfig())
	validator := schema.NewValidator(true)
	publisher := &fakePublisher{}
	return New(provider, backend, validator, noopRenderer{}, publisher), publisher
}

func TestCreateRepository_HappyPath(t *testing.T) {
	backend := newFakeForge()
	orch, publisher := newTestOrchestrator(t, backend)

	result, err := orch.CreateRepository(context.Background(), Request{
		Name:            "new-repo",
		Owner:           "acme",
		Visibility:      "private",
		ContentStrategy: ContentEmpty,
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.Equal(t, "https://forge.example/acme/new-repo", result.RepositoryURL)
	assert.Contains(t, backend.created, "acme/new-repo")
	assert.Empty(t, backend.deleted)
	require.Len(t, publisher.published, 1)
	assert.Equal(t, "acme", publisher.published[0].Organization)
	assert.NotEmpty(t, result.SourceTrace)
}

func TestCreateRepository_NoMetadataRepoAborts(t *testing.T) {
	backend := newFakeForge()
	delete(backend.files, "acme-config/global/defaults.toml")
	orch, _ := newTestOrchestrator(t, backend)

	result, err := orch.CreateRepository(context.Background(), Request{
		Name:       "new-repo",
		Owner:      "acme",
		Visibility: "private",
	})

	require.Error(t, err)
	assert.False(t, result.Success)
	require.NotNil(t, result.Failure)
	assert.Equal(t, "resolve_configuration", result.Failure.Step)
	assert.Empty(t, backend.created)
}

func TestCreateRepository_FatalMutationFailureTriggersRollback(t *testing.T) {
	backend := newFakeForge()
	backend.createFileErr = assert.AnError
	orch, publisher := newTestOrchestrator(t, backend)

	result, err := orch.CreateRepository(context.Background(), Request{
		Name:            "new-repo",
		Owner:           "acme",
		Visibility:      "private",
		ContentStrategy: ContentCustomInit,
		CustomInit:      CustomInitOptions{IncludeReadme: true},
	})

	require.Error(t, err)
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "seed_content", stepErr.Step)
	require.NotNil(t, result)
	assert.False(t, result.Success)
	require.NotNil(t, result.Failure)
	assert.Equal(t, "seed_content", result.Failure.Step)
	assert.True(t, result.Failure.RollbackPerformed)
	assert.Contains(t, backend.deleted, "acme/new-repo")
	assert.Empty(t, publisher.published, "a rolled-back request must never publish the completion event")
}

func TestCreateRepository_CustomInitCreatesReadmeAndGitignore(t *testing.T) {
	backend := newFakeForge()
	orch, _ := newTestOrchestrator(t, backend)

	result, err := orch.CreateRepository(context.Background(), Request{
		Name:            "new-repo",
		Owner:           "acme",
		Visibility:      "private",
		ContentStrategy: ContentCustomInit,
		CustomInit:      CustomInitOptions{IncludeReadme: true, IncludeGitignore: true},
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.Contains(t, backend.createdFiles, "new-repo/README.md")
	assert.Contains(t, backend.createdFiles, "new-repo/.gitignore")
}

func TestCreateRepository_CustomInitOmitsGitignoreWhenNotRequested(t *testing.T) {
	backend := newFakeForge()
	orch, _ := newTestOrchestrator(t, backend)

	result, err := orch.CreateRepository(context.Background(), Request{
		Name:            "new-repo",
		Owner:           "acme",
		Visibility:      "private",
		ContentStrategy: ContentCustomInit,
		CustomInit:      CustomInitOptions{IncludeReadme: true, IncludeGitignore: false},
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.Contains(t, backend.createdFiles, "new-repo/README.md")
	assert.NotContains(t, backend.createdFiles, "new-repo/.gitignore")
}

func TestCreateRepository_CreateRepositoryFailureAbortsBeforeMutations(t *testing.T) {
	backend := newFakeForge()
	backend.createErr = assert.AnError
	orch, publisher := newTestOrchestrator(t, backend)

	result, err := orch.CreateRepository(context.Background(), Request{
		Name:       "new-repo",
		Owner:      "acme",
		Visibility: "private",
	})

	require.Error(t, err)
	assert.False(t, result.Success)
	require.NotNil(t, result.Failure)
	assert.Equal(t, "create_repository", result.Failure.Step)
	assert.Empty(t, backend.deleted, "nothing was created yet, rollback must not run")
	assert.Empty(t, publisher.published)
}

const sampleGlobalDocWithWebhooks = sampleGlobalDoc + `
[[webhooks]]
url = "https://hooks.example.com/a"
events = ["push"]
secret = "s1"
active = true

[[webhooks]]
url = "https://hooks.example.com/b"
events = ["pull_request"]
secret = "s2"
active = true

[[webhooks]]
url = "https://hooks.example.com/c"
events = ["release"]
secret = "s3"
active = true
`

func TestCreateRepository_WebhookFailureIsSoft(t *testing.T) {
	backend := newFakeForge()
	backend.files["acme-config/global/defaults.toml"] = sampleGlobalDocWithWebhooks
	backend.webhookErrByURL = map[string]error{
		"https://hooks.example.com/b": forge.ErrAccessDenied,
	}
	orch, publisher := newTestOrchestrator(t, backend)

	result, err := orch.CreateRepository(context.Background(), Request{
		Name:            "new-repo",
		Owner:           "acme",
		Visibility:      "private",
		ContentStrategy: ContentEmpty,
	})

	require.NoError(t, err)
	assert.True(t, result.Success, "a failed webhook registration must not fail the request")
	assert.Empty(t, backend.deleted, "the repository must not be rolled back")
	assert.Len(t, backend.webhooks, 2, "the other webhooks must still be registered")
	require.Len(t, publisher.published, 1)

	var webhookStep *StepResult
	for i := range result.Steps {
		if result.Steps[i].Name == "register_webhooks" {
			webhookStep = &result.Steps[i]
		}
	}
	require.NotNil(t, webhookStep)
	assert.Equal(t, OutcomeWarning, webhookStep.Outcome)
	assert.Contains(t, webhookStep.Message, "https://hooks.example.com/b", "the warning must name the failed URL")
}

func TestCreateRepository_BranchProtectionFailureTriggersRollback(t *testing.T) {
	backend := newFakeForge()
	backend.protectionErr = forge.ErrAccessDenied
	orch, publisher := newTestOrchestrator(t, backend)

	result, err := orch.CreateRepository(context.Background(), Request{
		Name:            "new-repo",
		Owner:           "acme",
		Visibility:      "private",
		ContentStrategy: ContentEmpty,
	})

	require.Error(t, err)
	assert.False(t, result.Success)
	require.NotNil(t, result.Failure)
	assert.Equal(t, "apply_branch_protection", result.Failure.Step)
	assert.True(t, result.Failure.RollbackPerformed)
	assert.Contains(t, backend.deleted, "acme/new-repo")
	assert.Empty(t, publisher.published)
}

func TestCreateRepository_CancellationAfterCreateRollsBack(t *testing.T) {
	backend := newFakeForge()
	orch, publisher := newTestOrchestrator(t, backend)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := orch.CreateRepository(ctx, Request{
		Name:            "new-repo",
		Owner:           "acme",
		Visibility:      "private",
		ContentStrategy: ContentEmpty,
	})

	require.Error(t, err)
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, CategoryCancelled, stepErr.Category)
	require.NotNil(t, result.Failure)
	assert.Equal(t, "cancelled", result.Failure.Step)
	assert.True(t, result.Failure.RollbackPerformed)
	assert.Contains(t, backend.deleted, "acme/new-repo", "a repository created before cancellation must be rolled back")
	assert.Empty(t, publisher.published, "event publication is skipped on cancellation")

	var sawCancelled bool
	for _, s := range result.Steps {
		if s.Outcome == OutcomeCancelled {
			sawCancelled = true
		}
	}
	assert.True(t, sawCancelled, "a terminal cancelled step must be recorded")
}

const sampleTemplateDoc = `
[template]
name = "go-service"
description = "Standard service layout"
author = "platform"

[repository_type]
type_name = "service"
policy = "preferable"

[variables.service_name]
description = "Name used in the rendered manifests."
required = true

[variables.port]
description = "Port the service listens on."
default = "8080"
`

type recordingRenderer struct {
	variables map[string]string
}

func (r *recordingRenderer) Render(ctx context.Context, templateRepo, org, repo, defaultBranch string, variables map[string]string) error {
	r.variables = variables
	return nil
}

func TestCreateRepository_TemplateVariablesDefaultsAndOverrides(t *testing.T) {
	backend := newFakeForge()
	backend.files["go-service/config.toml"] = sampleTemplateDoc
	provider := metadata.NewProvider(backend, metadata.DefaultDiscoveryConfig())
	renderer := &recordingRenderer{}
	orch := New(provider, backend, schema.NewValidator(true), renderer, &fakePublisher{})

	result, err := orch.CreateRepository(context.Background(), Request{
		Name:            "new-repo",
		Owner:           "acme",
		Visibility:      "private",
		Template:        "go-service",
		ContentStrategy: ContentTemplate,
		Variables:       map[string]string{"service_name": "billing"},
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	require.NotNil(t, renderer.variables)
	assert.Equal(t, "billing", renderer.variables["service_name"])
	assert.Equal(t, "8080", renderer.variables["port"], "template defaults must be applied when the caller omits a variable")
}

func TestCreateRepository_MissingRequiredTemplateVariableIsFatal(t *testing.T) {
	backend := newFakeForge()
	backend.files["go-service/config.toml"] = sampleTemplateDoc
	provider := metadata.NewProvider(backend, metadata.DefaultDiscoveryConfig())
	orch := New(provider, backend, schema.NewValidator(true), &recordingRenderer{}, &fakePublisher{})

	result, err := orch.CreateRepository(context.Background(), Request{
		Name:            "new-repo",
		Owner:           "acme",
		Visibility:      "private",
		Template:        "go-service",
		ContentStrategy: ContentTemplate,
	})

	require.Error(t, err)
	assert.False(t, result.Success)
	require.NotNil(t, result.Failure)
	assert.Equal(t, "seed_content", result.Failure.Step)
	assert.True(t, result.Failure.RollbackPerformed)
	assert.Contains(t, backend.deleted, "acme/new-repo")
}

func TestClassifyMetadataAndMergeErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureCategory
	}{
		{"metadata parse error", &metadata.Error{Type: metadata.ErrorParseError}, CategoryConfiguration},
		{"metadata access denied", &metadata.Error{Type: metadata.ErrorAccessDenied}, CategoryAuthorization},
		{"metadata network", &metadata.Error{Type: metadata.ErrorNetworkError}, CategoryNetwork},
		{"forge not found", forge.ErrNotFound, CategoryNotFound},
		{"cancelled", context.Canceled, CategoryCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err))
		})
	}
}

func TestWithRetryStopsAfterCategoryBudget(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), func() error {
		attempts++
		return errors.New("some unclassifiable failure")
	})
	require.Error(t, err)
	assert.Equal(t, 2, attempts, "unknown failures retry at most twice")
}

func TestWithRetryDoesNotRetryNonRetryable(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), func() error {
		attempts++
		return forge.ErrAccessDenied
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestCreateRepository_TemplateInheritsBaseDocument(t *testing.T) {
	backend := newFakeForge()
	backend.files["go-base/config.toml"] = sampleTemplateDoc
	backend.files["go-child/config.toml"] = `
base_template = "go-base"

[template]
name = "go-child"
`
	provider := metadata.NewProvider(backend, metadata.DefaultDiscoveryConfig())
	renderer := &recordingRenderer{}
	orch := New(provider, backend, schema.NewValidator(true), renderer, &fakePublisher{})

	result, err := orch.CreateRepository(context.Background(), Request{
		Name:            "new-repo",
		Owner:           "acme",
		Visibility:      "private",
		Template:        "go-child",
		ContentStrategy: ContentTemplate,
		Variables:       map[string]string{"service_name": "billing"},
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	require.NotNil(t, renderer.variables)
	assert.Equal(t, "8080", renderer.variables["port"], "variables declared by the base template must be inherited")
}

func TestCreateRepository_TemplateWithMissingBaseAborts(t *testing.T) {
	backend := newFakeForge()
	backend.files["go-child/config.toml"] = `
base_template = "go-base"

[template]
name = "go-child"
`
	provider := metadata.NewProvider(backend, metadata.DefaultDiscoveryConfig())
	orch := New(provider, backend, schema.NewValidator(true), &recordingRenderer{}, &fakePublisher{})

	result, err := orch.CreateRepository(context.Background(), Request{
		Name:            "new-repo",
		Owner:           "acme",
		Visibility:      "private",
		Template:        "go-child",
		ContentStrategy: ContentTemplate,
	})

	require.Error(t, err)
	var merr *metadata.Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, metadata.ErrorFileNotFound, merr.Type)
	assert.False(t, result.Success)
	assert.Empty(t, backend.created, "nothing may be created when the base template cannot be resolved")
}
