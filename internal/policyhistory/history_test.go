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

package policyhistory

import (
	"testing"

	"github.com/pvandervelde/repo-roller/internal/configmodel"
	"github.com/pvandervelde/repo-roller/internal/orchestrator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RecordAndLatest(t *testing.T) {
	s := NewStore()
	result := &orchestrator.Result{
		Success: true,
		Steps:   []orchestrator.StepResult{{Name: "resolve_configuration", Outcome: orchestrator.OutcomeOK, DurationMs: 3}},
		SourceTrace: configmodel.SourceTrace{
			"repository.has_wiki": configmodel.SourceTeam,
		},
	}

	s.Record("acme/new-repo", result)

	entry, ok := s.Latest("acme/new-repo")
	require.True(t, ok)
	assert.True(t, entry.Success)
	assert.Equal(t, "acme/new-repo", entry.RequestID)
	require.Len(t, entry.Steps, 1)
	assert.Equal(t, configmodel.SourceTeam, entry.SourceTrace["repository.has_wiki"])
}

func TestStore_LatestOnUnknownRequestReturnsFalse(t *testing.T) {
	s := NewStore()
	_, ok := s.Latest("nope")
	assert.False(t, ok)
}

func TestStore_RecordKeepsEachCallAppendedInOrder(t *testing.T) {
	s := NewStore()
	s.Record("acme/r", &orchestrator.Result{Success: false})
	s.Record("acme/r", &orchestrator.Result{Success: true})

	entries := s.For("acme/r")

	require.Len(t, entries, 2)
	assert.False(t, entries[0].Success)
	assert.True(t, entries[1].Success)
}

func TestStore_RecordCopiesStepsSoCallerMutationIsIsolated(t *testing.T) {
	s := NewStore()
	steps := []orchestrator.StepResult{{Name: "a"}}
	s.Record("acme/r", &orchestrator.Result{Steps: steps})

	steps[0].Name = "mutated"

	entry, ok := s.Latest("acme/r")
	require.True(t, ok)
	assert.Equal(t, "a", entry.Steps[0].Name)
}

func TestStore_RecordIgnoresNilResult(t *testing.T) {
	s := NewStore()
	s.Record("acme/r", nil)

	assert.Empty(t, s.For("acme/r"))
}

func TestDump_DoesNotPanicOnEmptyEntry(t *testing.T) {
	assert.NotPanics(t, func() {
		Dump(Entry{RequestID: "acme/r"})
	})
}
