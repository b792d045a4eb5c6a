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

package metadata

import (
	"context"
	"errors"
	"sync"

	"github.com/pvandervelde/repo-roller/internal/forge"
)

// Repository is a discovered metadata repository handle.
type Repository struct {
	Organization    string
	RepoName        string
	DiscoveryMethod string // "configuration" or "topic"
	LastUpdated     string
}

// StructureValidation is the outcome of validate_structure.
type StructureValidation struct {
	Missing []string
}

// Valid reports whether no required items were missing; the optional
// schemas/ directory never contributes to this.
func (s StructureValidation) Valid() bool {
	return len(s.Missing) == 0
}

// Provider discovers, validates, and reads an organization's metadata
// repository. Stateless except for a read-mostly discovery cache keyed by
// organization name.
type Provider struct {
	repos  forge.MetadataRepositories
	config DiscoveryConfig

	mu    sync.RWMutex
	cache map[string]*Repository
}

// NewProvider constructs a Provider. repos is the narrow forge surface;
// config controls the discovery algorithm.
func NewProvider(repos forge.MetadataRepositories, config DiscoveryConfig) *Provider {
	return &Provider{repos: repos, config: config, cache: map[string]*Repository{}}
}

// ClearCache drops any cached discovery result, forcing the next Discover
// call to hit the forge again.
func (p *Provider) ClearCache(org string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.cache, org)
}

// Discover locates the organization's metadata repository: configuration-
// based name pattern first, then topic search, then not-found.
func (p *Provider) Discover(ctx context.Context, org string) (*Repository, error) {
	p.mu.RLock()
	if cached, ok := p.cache[org]; ok {
		p.mu.RUnlock()
		return cached, nil
	}
	p.mu.RUnlock()

	const op = "discover"

	if p.config.hasConfigurationBasedDiscovery() {
		name := p.config.generateRepositoryName(org)
		info, err := p.repos.GetRepository(ctx, org, name)
		switch {
		case err == nil:
			repo := &Repository{Organization: org, RepoName: info.Name, DiscoveryMethod: "configuration", LastUpdated: info.UpdatedAt}
			p.store(org, repo)
			return repo, nil
		case errors.Is(err, forge.ErrNotFound):
			// fall through to topic-based discovery
		default:
			return nil, newError(op, forgeErrorType(err), "looking up configuration-based repository", err)
		}
	}

	if p.config.hasTopicBasedDiscovery() {
		names, err := p.repos.SearchRepositoriesByTopic(ctx, org, p.config.Topic, p.config.MaxSearchResults)
		if err != nil {
			return nil, newError(op, forgeErrorType(err), "searching repositories by topic", err)
		}
		switch len(names) {
		case 0:
			// continue to not-found
		case 1:
			info, err := p.repos.GetRepository(ctx, org, names[0])
			if err != nil {
				return nil, newError(op, forgeErrorType(err), "fetching topic-discovered repository", err)
			}
			repo := &Repository{Organization: org, RepoName: info.Name, DiscoveryMethod: "topic", LastUpdated: info.UpdatedAt}
			p.store(org, repo)
			return repo, nil
		default:
			e := newError(op, ErrorMultipleRepositoriesFound, "multiple repositories tagged with the metadata topic", nil)
			e.Candidates = names
			return nil, e
		}
	}

	return nil, newError(op, ErrorRepositoryNotFound, "no metadata repository found for organization "+org, nil)
}

func (p *Provider) store(org string, repo *Repository) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache[org] = repo
}

// ValidateStructure requires global/defaults.toml, teams/, and types/;
// schemas/ is optional.
func (p *Provider) ValidateStructure(ctx context.Context, repo *Repository) (*StructureValidation, error) {
	const op = "validate_structure"
	var missing []string

	if _, err := p.repos.GetFileContent(ctx, repo.Organization, repo.RepoName, "global/defaults.toml"); err != nil {
		if errors.Is(err, forge.ErrNotFound) {
			missing = append(missing, "global/defaults.toml")
		} else {
			return nil, newError(op, forgeErrorType(err), "checking global/defaults.toml", err)
		}
	}
	for _, dir := range []string{"teams", "types"} {
		if _, err := p.repos.ListDirectory(ctx, repo.Organization, repo.RepoName, dir); err != nil {
			if errors.Is(err, forge.ErrNotFound) {
				missing = append(missing, dir+"/")
			} else {
				return nil, newError(op, forgeErrorType(err), "checking "+dir+"/", err)
			}
		}
	}

	if len(missing) > 0 {
		e := newError(op, ErrorInvalidRepositoryStructure, "metadata repository is missing required items", nil)
		e.Missing = missing
		return nil, e
	}
	return &StructureValidation{}, nil
}

// LoadGlobalDefaults reads global/defaults.toml.
func (p *Provider) LoadGlobalDefaults(ctx context.Context, repo *Repository) (string, error) {
	content, err := p.repos.GetFileContent(ctx, repo.Organization, repo.RepoName, "global/defaults.toml")
	if err != nil {
		return "", wrapFileError("load_global_defaults", err)
	}
	return content, nil
}

// LoadTeamConfiguration reads teams/{team}/config.toml. A missing file is
// not an error: it reports ok=false.
func (p *Provider) LoadTeamConfiguration(ctx context.Context, repo *Repository, team string) (content string, ok bool, err error) {
	content, err = p.repos.GetFileContent(ctx, repo.Organization, repo.RepoName, "teams/"+team+"/config.toml")
	if err != nil {
		if errors.Is(err, forge.ErrNotFound) {
			return "", false, nil
		}
		return "", false, newError("load_team_configuration", forgeErrorType(err), "reading team configuration", err)
	}
	return content, true, nil
}

// LoadRepositoryTypeConfiguration reads types/{type}/config.toml. A missing
// file is not an error: it reports ok=false.
func (p *Provider) LoadRepositoryTypeConfiguration(ctx context.Context, repo *Repository, typeName string) (content string, ok bool, err error) {
	content, err = p.repos.GetFileContent(ctx, repo.Organization, repo.RepoName, "types/"+typeName+"/config.toml")
	if err != nil {
		if errors.Is(err, forge.ErrNotFound) {
			return "", false, nil
		}
		return "", false, newError("load_repository_type_configuration", forgeErrorType(err), "reading repository-type configuration", err)
	}
	return content, true, nil
}

// ListAvailableRepositoryTypes enumerates types/*/ entries that contain a
// config.toml.
func (p *Provider) ListAvailableRepositoryTypes(ctx context.Context, repo *Repository) ([]string, error) {
	entries, err := p.repos.ListDirectory(ctx, repo.Organization, repo.RepoName, "types")
	if err != nil {
		return nil, newError("list_available_repository_types", forgeErrorType(err), "listing types/", err)
	}
	var types []string
	for _, e := range entries {
		if e.Type != "dir" {
			continue
		}
		if _, err := p.repos.GetFileContent(ctx, repo.Organization, repo.RepoName, "types/"+e.Name+"/config.toml"); err == nil {
			types = append(types, e.Name)
		}
	}
	return types, nil
}

// LoadTemplateConfiguration reads config.toml from the root of a template's
// own repository (distinct from the organization's metadata repository):
// each template is itself a forge repository, and its TemplateConfig
// document lives at its root rather than under the metadata repo's
// types/teams layout.
func (p *Provider) LoadTemplateConfiguration(ctx context.Context, org, templateRepo string) (content string, ok bool, err error) {
	content, err = p.repos.GetFileContent(ctx, org, templateRepo, "config.toml")
	if err != nil {
		if errors.Is(err, forge.ErrNotFound) {
			return "", false, nil
		}
		return "", false, newError("load_template_configuration", forgeErrorType(err), "reading template configuration", err)
	}
	return content, true, nil
}

// LoadStandardLabels reads the optional global/labels.toml. A missing file
// is not an error: it returns an empty string and ok=false.
func (p *Provider) LoadStandardLabels(ctx context.Context, repo *Repository) (content string, ok bool, err error) {
	content, err = p.repos.GetFileContent(ctx, repo.Organization, repo.RepoName, "global/labels.toml")
	if err != nil {
		if errors.Is(err, forge.ErrNotFound) {
			return "", false, nil
		}
		return "", false, newError("load_standard_labels", forgeErrorType(err), "reading global/labels.toml", err)
	}
	return content, true, nil
}

func wrapFileError(op string, err error) error {
	if errors.Is(err, forge.ErrNotFound) {
		return newError(op, ErrorFileNotFound, "required file not found", err)
	}
	return newError(op, forgeErrorType(err), "reading file", err)
}

// forgeErrorType distinguishes an authorization failure from the generic
// network bucket so callers see AccessDenied rather than a retryable
// NetworkError.
func forgeErrorType(err error) ErrorType {
	if errors.Is(err, forge.ErrAccessDenied) {
		return ErrorAccessDenied
	}
	return ErrorNetworkError
}
