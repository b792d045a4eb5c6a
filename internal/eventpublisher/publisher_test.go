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
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/pvandervelde/repo-roller/internal/orchestrator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedDelivery struct {
	url     string
	body    []byte
	headers map[string]string
}

type fakeDeliverer struct {
	mu        sync.Mutex
	delivered []recordedDelivery
	failFor   map[string]bool
}

func (f *fakeDeliverer) Deliver(ctx context.Context, url string, body []byte, headers map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor != nil && f.failFor[url] {
		return assert.AnError
	}
	cp := make(map[string]string, len(headers))
	for k, v := range headers {
		cp[k] = v
	}
	f.delivered = append(f.delivered, recordedDelivery{url: url, body: append([]byte(nil), body...), headers: cp})
	return nil
}

func TestSign_DeterministicAndCorrectLength(t *testing.T) {
	body := []byte(`{"event_type":"repository.created"}`)
	sig := sign(body, "s")

	mac := hmac.New(sha256.New, []byte("s"))
	mac.Write(body)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, want, sig)
	assert.Len(t, sig, 71)
	assert.Equal(t, sig, sign(body, "s"))
}

func TestAcceptsEvent_RequiresActiveAndExactMatch(t *testing.T) {
	active := Endpoint{Active: true, Events: []string{"repository.created"}}
	assert.True(t, acceptsEvent(active, "repository.created"))

	inactive := Endpoint{Active: false, Events: []string{"repository.created"}}
	assert.False(t, acceptsEvent(inactive, "repository.created"))

	wrongCase := Endpoint{Active: true, Events: []string{"Repository.Created"}}
	assert.False(t, acceptsEvent(wrongCase, "repository.created"))

	noMatch := Endpoint{Active: true, Events: []string{"push"}}
	assert.False(t, acceptsEvent(noMatch, "repository.created"))
}

func TestCollectEndpoints_DedupsFirstOccurrenceWins(t *testing.T) {
	org := []Endpoint{{URL: "https://hook/a", Events: []string{"repository.created"}, Secret: "org-secret"}}
	team := []Endpoint{{URL: "https://hook/a", Events: []string{"repository.created"}, Secret: "team-secret"}}

	out := collectEndpoints(org, team, nil)

	require.Len(t, out, 1)
	assert.Equal(t, "org-secret", out[0].Secret)
}

func TestValidateEndpoint_RejectsNonHTTPS(t *testing.T) {
	_, ok := validateEndpoint(Endpoint{URL: "http://hook/a", Secret: "s", Events: []string{"x"}, TimeoutSeconds: 10})
	assert.False(t, ok)
}

func TestValidateEndpoint_RejectsTimeoutOutOfRange(t *testing.T) {
	_, ok := validateEndpoint(Endpoint{URL: "https://hook/a", Secret: "s", Events: []string{"x"}, TimeoutSeconds: 0})
	assert.False(t, ok)

	_, ok = validateEndpoint(Endpoint{URL: "https://hook/a", Secret: "s", Events: []string{"x"}, TimeoutSeconds: 31})
	assert.False(t, ok)
}

func TestPublishRepositoryCreated_DeliversToAcceptingEndpointsOnly(t *testing.T) {
	fake := &fakeDeliverer{}
	p := New(fake, 4)
	p.newEventID = func() string { return "11111111-1111-4111-8111-111111111111" }
	restoreNow := now
	now = func() time.Time { return time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC) }
	defer func() { now = restoreNow }()

	input := orchestrator.PublishInput{
		Organization:   "acme",
		RepositoryName: "new-repo",
		RepositoryURL:  "https://forge.example/acme/new-repo",
		RepositoryID:   42,
		Visibility:     "private",
		Endpoints: []Endpoint{
			{URL: "https://hook/accepts", Secret: "s1", Active: true, Events: []string{"repository.created"}, TimeoutSeconds: 5},
			{URL: "https://hook/wrong-event", Secret: "s2", Active: true, Events: []string{"push"}, TimeoutSeconds: 5},
			{URL: "https://hook/inactive", Secret: "s3", Active: false, Events: []string{"repository.created"}, TimeoutSeconds: 5},
			{URL: "http://hook/insecure", Secret: "s4", Active: true, Events: []string{"repository.created"}, TimeoutSeconds: 5},
		},
	}

	err := p.PublishRepositoryCreated(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, fake.delivered, 1)
	d := fake.delivered[0]
	assert.Equal(t, "https://hook/accepts", d.url)
	assert.Equal(t, "repository.created", d.headers[eventTypeHeader])
	assert.Equal(t, sign(d.body, "s1"), d.headers[signatureHeader])

	var evt Event
	require.NoError(t, json.Unmarshal(d.body, &evt))
	assert.Equal(t, "repository.created", evt.EventType)
	assert.Equal(t, "2026-07-31T12:00:00Z", evt.Timestamp)
	assert.Equal(t, "acme", evt.Organization)
	assert.Empty(t, evt.TemplateName, "optional fields with no source value must be omitted, not null")
}

func TestPublishRepositoryCreated_NeverReturnsErrorOnDeliveryFailure(t *testing.T) {
	fake := &fakeDeliverer{failFor: map[string]bool{"https://hook/a": true}}
	p := New(fake, 2)

	err := p.PublishRepositoryCreated(context.Background(), orchestrator.PublishInput{
		Organization: "acme",
		Endpoints: []Endpoint{
			{URL: "https://hook/a", Secret: "s", Active: true, Events: []string{"repository.created"}, TimeoutSeconds: 5},
		},
	})

	assert.NoError(t, err)
}

func TestBuildEvent_OmitsAbsentOptionalFields(t *testing.T) {
	evt := buildEvent(orchestrator.PublishInput{Organization: "acme", RepositoryName: "r"}, "id-1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, field := range []string{"repository_type", "template_name", "team", "description", "custom_properties", "applied_settings"} {
		_, present := raw[field]
		assert.Falsef(t, present, "field %q should be omitted entirely, not present as null", field)
	}
}
