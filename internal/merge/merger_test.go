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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pvandervelde/repo-roller/internal/configmodel"
	"github.com/pvandervelde/repo-roller/internal/overridable"
)

func boolField(v bool, allowed bool) *overridable.Value[bool] {
	val := overridable.New(v, allowed)
	return &val
}

func TestMergePureGlobalCreation(t *testing.T) {
	global := configmodel.GlobalDefaults{
		Repository: configmodel.RepositoryFeatures{
			HasIssues: boolField(true, true),
			HasWiki:   boolField(false, true),
		},
	}
	m := New()
	out, err := m.Merge(Input{Global: global, Template: configmodel.TemplateConfig{}})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if out.Repository.HasIssues == nil || !*out.Repository.HasIssues {
		t.Errorf("HasIssues = %v, want true", out.Repository.HasIssues)
	}
	if out.Source["repository.has_issues"] != configmodel.SourceGlobal {
		t.Errorf("Source[has_issues] = %v, want Global", out.Source["repository.has_issues"])
	}
}

func TestMergeFixedGlobalOverrideRejected(t *testing.T) {
	global := configmodel.GlobalDefaults{
		Repository: configmodel.RepositoryFeatures{
			HasWiki: boolField(false, false), // fixed
		},
	}
	team := &configmodel.TeamConfig{
		Repository: configmodel.RepositoryFeatures{
			HasWiki: boolField(true, true),
		},
	}
	m := New()
	_, err := m.Merge(Input{Global: global, Team: team, Template: configmodel.TemplateConfig{}})
	var overrideErr *OverrideNotPermittedError
	if !errors.As(err, &overrideErr) {
		t.Fatalf("Merge() error = %v, want OverrideNotPermittedError", err)
	}
	if overrideErr.AttemptedBy != configmodel.SourceTeam || overrideErr.FixedBy != configmodel.SourceGlobal {
		t.Errorf("overrideErr = %+v", overrideErr)
	}
}

func TestMergeIdempotentReassertionAllowed(t *testing.T) {
	global := configmodel.GlobalDefaults{
		Repository: configmodel.RepositoryFeatures{
			HasWiki: boolField(false, false),
		},
	}
	team := &configmodel.TeamConfig{
		Repository: configmodel.RepositoryFeatures{
			HasWiki: boolField(false, false),
		},
	}
	m := New()
	out, err := m.Merge(Input{Global: global, Team: team, Template: configmodel.TemplateConfig{}})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if out.Repository.HasWiki == nil || *out.Repository.HasWiki {
		t.Errorf("HasWiki = %v, want false", out.Repository.HasWiki)
	}
	if out.Source["repository.has_wiki"] != configmodel.SourceTeam {
		t.Errorf("Source[has_wiki] = %v, want Team (last layer to assert)", out.Source["repository.has_wiki"])
	}
}

func TestMergeTeamValidatesAgainstRepositoryTypeNotGlobal(t *testing.T) {
	global := configmodel.GlobalDefaults{
		Repository: configmodel.RepositoryFeatures{
			HasWiki: boolField(true, true),
		},
	}
	repoType := &configmodel.RepositoryTypeConfig{
		Repository: configmodel.RepositoryFeatures{
			HasWiki: boolField(false, false), // fixed at the type layer
		},
	}
	team := &configmodel.TeamConfig{
		Repository: configmodel.RepositoryFeatures{
			HasWiki: boolField(true, true),
		},
	}
	m := New()
	_, err := m.Merge(Input{Global: global, RepositoryType: repoType, Team: team, Template: configmodel.TemplateConfig{}})
	var overrideErr *OverrideNotPermittedError
	if !errors.As(err, &overrideErr) {
		t.Fatalf("Merge() error = %v, want OverrideNotPermittedError", err)
	}
	if overrideErr.FixedBy != configmodel.SourceRepositoryType {
		t.Errorf("FixedBy = %v, want RepositoryType", overrideErr.FixedBy)
	}
}

func TestMergeWebhookDedupAcrossLayers(t *testing.T) {
	webhook := configmodel.WebhookConfig{URL: "https://example.com/hook", Events: []configmodel.WebhookEvent{configmodel.EventPush}}
	global := configmodel.GlobalDefaults{Webhooks: []configmodel.WebhookConfig{webhook}}
	team := &configmodel.TeamConfig{Webhooks: []configmodel.WebhookConfig{webhook}}
	m := New()
	out, err := m.Merge(Input{Global: global, Team: team, Template: configmodel.TemplateConfig{}})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if len(out.Webhooks) != 1 {
		t.Fatalf("Webhooks = %v, want 1 deduped entry", out.Webhooks)
	}
	if out.Source["webhooks.https://example.com/hook"] != configmodel.SourceGlobal {
		t.Errorf("Source[webhook] = %v, want Global (first wins)", out.Source["webhooks.https://example.com/hook"])
	}
}

func TestMergeLabelLaterLayerWins(t *testing.T) {
	global := configmodel.GlobalDefaults{Labels: []configmodel.LabelConfig{{Name: "bug", Color: "ff0000", Description: "global"}}}
	team := &configmodel.TeamConfig{Labels: []configmodel.LabelConfig{{Name: "bug", Color: "00ff00", Description: "team"}}}
	m := New()
	out, err := m.Merge(Input{Global: global, Team: team, Template: configmodel.TemplateConfig{}})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if out.Labels["bug"].Color != "00ff00" {
		t.Errorf("Labels[bug].Color = %q, want 00ff00 (later layer wins)", out.Labels["bug"].Color)
	}
}

func TestMergeRepositoryTypeFixedSelectorMismatch(t *testing.T) {
	template := configmodel.TemplateConfig{
		Selector: configmodel.RepositoryTypeSelector{TypeName: "service", Policy: configmodel.RepositoryTypeFixed},
	}
	m := New()
	_, err := m.Merge(Input{Template: template, RequestedRepositoryType: "library"})
	var mismatch *RepositoryTypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Merge() error = %v, want RepositoryTypeMismatchError", err)
	}
}

func TestMergeNotificationDedupAcrossLayersPreservesFirstLayerFields(t *testing.T) {
	shared := configmodel.NotificationEndpoint{
		URL: "https://hooks.example.com/events", Events: []string{"repository.created"},
	}
	global := configmodel.GlobalDefaults{
		Notifications: []configmodel.NotificationEndpoint{{
			URL: shared.URL, Events: shared.Events, Secret: "global-secret", Active: true, TimeoutSeconds: 5,
		}},
	}
	team := &configmodel.TeamConfig{
		Notifications: []configmodel.NotificationEndpoint{{
			URL: shared.URL, Events: shared.Events, Secret: "team-secret", Active: true, TimeoutSeconds: 9,
		}},
	}

	m := New()
	out, err := m.Merge(Input{Global: global, Team: team, Template: configmodel.TemplateConfig{}})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	want := []configmodel.NotificationEndpoint{{
		URL: shared.URL, Events: shared.Events, Secret: "global-secret", Active: true, TimeoutSeconds: 5,
	}}
	if diff := cmp.Diff(want, out.Notifications); diff != "" {
		t.Errorf("Notifications mismatch (-want +got):\n%s", diff)
	}
	if out.Source["notifications."+shared.URL] != configmodel.SourceGlobal {
		t.Errorf("Source[notification] = %v, want Global (first wins)", out.Source["notifications."+shared.URL])
	}
}

func TestMergeRepositoryTypePreferableHonorsRequest(t *testing.T) {
	template := configmodel.TemplateConfig{
		Selector: configmodel.RepositoryTypeSelector{TypeName: "service", Policy: configmodel.RepositoryTypePreferable},
	}
	m := New()
	out, err := m.Merge(Input{Template: template, RequestedRepositoryType: "library"})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if out.RepositoryType != "library" {
		t.Errorf("RepositoryType = %q, want library", out.RepositoryType)
	}
}
