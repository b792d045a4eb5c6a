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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pvandervelde/repo-roller/internal/operator"
	"github.com/pvandervelde/repo-roller/internal/orchestrator"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Deliverer sends one signed delivery. NewHTTPDeliverer adapts any
// *http.Client; tests substitute a fake to assert on headers and body
// without a real HTTP round trip.
type Deliverer interface {
	Deliver(ctx context.Context, url string, body []byte, headers map[string]string) error
}

// Publisher builds, signs, and delivers repository events. It is
// stateless aside from its Deliverer and safe for concurrent use across
// independent requests.
type Publisher struct {
	deliverer  Deliverer
	numWorkers int
	newEventID func() string
}

// New constructs a Publisher. numWorkers bounds per-event endpoint
// fan-out concurrency; zero uses the operator default.
func New(deliverer Deliverer, numWorkers int) *Publisher {
	if numWorkers <= 0 {
		numWorkers = operator.NumWorkers
	}
	return &Publisher{
		deliverer:  deliverer,
		numWorkers: numWorkers,
		newEventID: func() string { return uuid.New().String() },
	}
}

// now is a package variable seam so tests get a deterministic timestamp,
// matching the orchestrator's own `now` seam.
var now = time.Now

// PublishRepositoryCreated builds the canonical event from in, collects
// and dedups its endpoints, and delivers to every endpoint that accepts
// "repository.created". Implements orchestrator.EventPublisher.
// Delivery is best-effort: a delivery failure is logged, never returned,
// so publication can never affect the creation verdict.
func (p *Publisher) PublishRepositoryCreated(ctx context.Context, in orchestrator.PublishInput) error {
	evt := buildEvent(in, p.newEventID(), now())

	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	endpoints := collectEndpoints(in.Endpoints, nil, nil)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.numWorkers)

	for _, ep := range endpoints {
		ep := ep
		reason, ok := validateEndpoint(ep)
		if !ok {
			log.Warn().Str("url", ep.URL).Str("reason", reason).Msg("dropping invalid notification endpoint")
			continue
		}
		if !acceptsEvent(ep, EventType) {
			continue
		}
		g.Go(func() error {
			p.deliverOne(gctx, ep, body)
			return nil
		})
	}

	// Deliveries are independent and best-effort; every delivery goroutine
	// returns nil, so g.Wait never reports a failure.
	_ = g.Wait()
	return nil
}

func (p *Publisher) deliverOne(ctx context.Context, ep Endpoint, body []byte) {
	timeout := time.Duration(ep.TimeoutSeconds) * time.Second
	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sig := sign(body, ep.Secret)
	headers := map[string]string{
		"Content-Type":  "application/json",
		signatureHeader: sig,
		eventTypeHeader: EventType,
	}

	if err := p.deliverer.Deliver(dctx, ep.URL, body, headers); err != nil {
		log.Warn().Str("url", ep.URL).Err(err).Msg("event delivery failed")
		return
	}
	log.Debug().Str("url", ep.URL).Msg("event delivered")
}

func buildEvent(in orchestrator.PublishInput, eventID string, at time.Time) Event {
	evt := Event{
		EventType:        EventType,
		EventID:          eventID,
		Timestamp:        at.UTC().Format("2006-01-02T15:04:05Z"),
		Organization:     in.Organization,
		RepositoryName:   in.RepositoryName,
		RepositoryURL:    in.RepositoryURL,
		RepositoryID:     in.RepositoryID,
		CreatedBy:        in.CreatedBy,
		ContentStrategy:  in.ContentStrategy,
		Visibility:       in.Visibility,
		RepositoryType:   in.RepositoryType,
		TemplateName:     in.TemplateName,
		Team:             in.Team,
		Description:      in.Description,
		CustomProperties: in.CustomProperties,
	}
	if len(in.AppliedSettings) > 0 {
		as := &AppliedSettings{}
		if v, ok := in.AppliedSettings["has_issues"]; ok {
			as.HasIssues = &v
		}
		if v, ok := in.AppliedSettings["has_wiki"]; ok {
			as.HasWiki = &v
		}
		if v, ok := in.AppliedSettings["has_projects"]; ok {
			as.HasProjects = &v
		}
		if v, ok := in.AppliedSettings["has_discussions"]; ok {
			as.HasDiscussions = &v
		}
		evt.AppliedSettings = as
	}
	return evt
}

// httpDeliverer is the real Deliverer, a thin POST over an *http.Client.
type httpDeliverer struct {
	client *http.Client
}

// NewHTTPDeliverer builds a Deliverer backed by client. A nil client uses
// http.DefaultClient.
func NewHTTPDeliverer(client *http.Client) Deliverer {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpDeliverer{client: client}
}

func (d *httpDeliverer) Deliver(ctx context.Context, url string, body []byte, headers map[string]string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building delivery request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("delivering event: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("delivery endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
