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

package eventpublisher

import (
	"net/url"
	"sort"
	"strings"

	"github.com/pvandervelde/repo-roller/internal/configmodel"
)

// Endpoint is the event-publisher's own view of a subscriber; it
// is the same shape as configmodel.NotificationEndpoint but package-local
// so callers outside configmodel never need to import it just to build an
// Endpoint by hand (e.g. in tests).
type Endpoint = configmodel.NotificationEndpoint

// acceptsEvent reports whether e actively subscribes to eventType. Match
// is exact-string, case sensitive, against the endpoint's declared event
// list.
func acceptsEvent(e Endpoint, eventType string) bool {
	if !e.Active {
		return false
	}
	for _, want := range e.Events {
		if want == eventType {
			return true
		}
	}
	return false
}

// endpointKey mirrors the merger's webhookKey: (url, sorted event set) is
// the dedup identity.
func endpointKey(e Endpoint) string {
	events := append([]string(nil), e.Events...)
	sort.Strings(events)
	return e.URL + "|" + strings.Join(events, ",")
}

// validateEndpoint checks the structural endpoint contract. Invalid endpoints are
// dropped with a reason, never aborting publication for the rest.
func validateEndpoint(e Endpoint) (reason string, ok bool) {
	u, err := url.Parse(e.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "endpoint url is not well-formed", false
	}
	if u.Scheme != "https" {
		return "endpoint url must use https", false
	}
	if e.Secret == "" {
		return "endpoint secret must not be empty", false
	}
	if len(e.Events) == 0 {
		return "endpoint must declare at least one event", false
	}
	if e.TimeoutSeconds < 1 || e.TimeoutSeconds > 30 {
		return "endpoint timeout_seconds must be in [1,30]", false
	}
	return "", true
}

// collectEndpoints concatenates org/team/template endpoint sets in that
// precedence order, then dedups by (url, event-set) with first occurrence
// winning — the same rule already applied once by the merger, but
// the publisher re-applies it defensively since callers may hand it an
// endpoint list assembled outside the merge pipeline (e.g. in tests).
func collectEndpoints(orgNotifications, teamNotifications, templateNotifications []Endpoint) []Endpoint {
	seen := map[string]bool{}
	var out []Endpoint
	for _, group := range [][]Endpoint{orgNotifications, teamNotifications, templateNotifications} {
		for _, e := range group {
			key := endpointKey(e)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, e)
		}
	}
	return out
}
