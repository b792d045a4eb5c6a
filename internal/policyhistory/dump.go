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
	"log"
	"sort"
)

// Dump pretty-prints entry's step log and source trace to the standard
// logger. It is a debug-only tool, not part of any request path, so it
// stays on the plain stdlib logger rather than the zerolog logger the
// rest of the tree uses.
func Dump(entry Entry) {
	log.Printf("request %s: success=%v steps=%d", entry.RequestID, entry.Success, len(entry.Steps))
	for _, step := range entry.Steps {
		log.Printf("  step %-24s %-9s %dms %s", step.Name, step.Outcome, step.DurationMs, step.Message)
	}
	if entry.Failure != nil {
		log.Printf("  failure at %s (%s): %s rollback=%v", entry.Failure.Step, entry.Failure.Category, entry.Failure.Message, entry.Failure.RollbackPerformed)
	}

	paths := make([]string, 0, len(entry.SourceTrace))
	for path := range entry.SourceTrace {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		log.Printf("  source %-48s %s", path, entry.SourceTrace[path])
	}
}
