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

// Package eventpublisher builds the canonical
// repository-created event, collects the notification endpoints the
// merged configuration contributed, signs each delivery with the
// endpoint's own shared secret, and delivers with a bounded per-endpoint
// timeout. Delivery is best-effort fire-and-observe, not a guaranteed
// broker.
package eventpublisher

// EventType is the constant wire event type for every event this package
// builds. The system has exactly one event today; the field
// exists on Event as a string, not a Go const comparison, so a future
// event type needs no wire-format change.
const EventType = "repository.created"

// Event is the canonical, stable wire document. Optional fields
// use `omitempty` so an absent source value is genuinely absent from the
// serialized document rather than appearing as a JSON null.
type Event struct {
	EventType        string            `json:"event_type"`
	EventID          string            `json:"event_id"`
	Timestamp        string            `json:"timestamp"`
	Organization     string            `json:"organization"`
	RepositoryName   string            `json:"repository_name"`
	RepositoryURL    string            `json:"repository_url"`
	RepositoryID     int64             `json:"repository_id"`
	CreatedBy        string            `json:"created_by"`
	ContentStrategy  string            `json:"content_strategy"`
	Visibility       string            `json:"visibility"`
	RepositoryType   string            `json:"repository_type,omitempty"`
	TemplateName     string            `json:"template_name,omitempty"`
	Team             string            `json:"team,omitempty"`
	Description      string            `json:"description,omitempty"`
	CustomProperties map[string]string `json:"custom_properties,omitempty"`
	AppliedSettings  *AppliedSettings  `json:"applied_settings,omitempty"`
}

// AppliedSettings is the subset of repository feature flags worth echoing
// in the event for downstream consumers that do not want to re-fetch the
// repository. Pointer fields so an unset source value is omitted
// rather than serialized as false.
type AppliedSettings struct {
	HasIssues      *bool `json:"has_issues,omitempty"`
	HasWiki        *bool `json:"has_wiki,omitempty"`
	HasProjects    *bool `json:"has_projects,omitempty"`
	HasDiscussions *bool `json:"has_discussions,omitempty"`
}
