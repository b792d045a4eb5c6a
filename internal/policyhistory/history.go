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

// Package policyhistory keeps a per-request append-only record of an
// orchestrator run: its step log plus the merged configuration's
// resolved source trace. It is a supplemental audit surface, not part
// of CreateRepository's own control flow; a caller records a completed
// Result after the fact and can later retrieve or print it.
package policyhistory

import (
	"sync"

	"github.com/pvandervelde/repo-roller/internal/configmodel"
	"github.com/pvandervelde/repo-roller/internal/orchestrator"
)

// Entry is one recorded request: the step log and resolved-field
// provenance the orchestrator produced, indexed by the caller's chosen
// request identifier (typically "owner/repo").
type Entry struct {
	RequestID   string
	Steps       []orchestrator.StepResult
	Success     bool
	Failure     *orchestrator.Failure
	SourceTrace configmodel.SourceTrace
}

// Store is an in-memory, append-only history of requests. Safe for
// concurrent use. Entries never expire; a long-lived process should
// bound its size by evicting externally if it runs unattended for a
// long time.
type Store struct {
	mu      sync.RWMutex
	entries map[string][]Entry
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{entries: make(map[string][]Entry)}
}

// Record appends one Entry for requestID, built from a completed
// orchestrator.Result. Multiple recordings under the same requestID
// (e.g. a retried request) are kept in call order, not overwritten.
func (s *Store) Record(requestID string, result *orchestrator.Result) {
	if result == nil {
		return
	}
	entry := Entry{
		RequestID:   requestID,
		Steps:       append([]orchestrator.StepResult(nil), result.Steps...),
		Success:     result.Success,
		Failure:     result.Failure,
		SourceTrace: result.SourceTrace,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[requestID] = append(s.entries[requestID], entry)
}

// For returns every recorded Entry for requestID in the order they were
// recorded. The returned slice is a copy; mutating it does not affect
// the Store.
func (s *Store) For(requestID string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries[requestID]))
	copy(out, s.entries[requestID])
	return out
}

// Latest returns the most recently recorded Entry for requestID, or
// false if none exists.
func (s *Store) Latest(requestID string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.entries[requestID]
	if len(all) == 0 {
		return Entry{}, false
	}
	return all[len(all)-1], true
}
