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

// Package orchestrator runs the eleven-step repository creation
// pipeline: resolve configuration, create the repository at the forge,
// seed content, apply settings, and publish the completion event. Steps
// run strictly in order; only webhook registration and event delivery
// fan out concurrently within their own step.
package orchestrator

import "fmt"

// FailureCategory classifies a forge error for retry and rollback
// purposes.
type FailureCategory string

const (
	CategoryNetwork       FailureCategory = "network"
	CategoryRateLimit     FailureCategory = "rate_limit"
	CategoryTimeout       FailureCategory = "timeout"
	CategoryAuth          FailureCategory = "auth"
	CategoryAuthorization FailureCategory = "authorization"
	CategoryNotFound      FailureCategory = "not_found"
	CategoryInvalid       FailureCategory = "invalid_structure"
	CategoryConfiguration FailureCategory = "configuration"
	CategoryCancelled     FailureCategory = "cancelled"
	CategoryUnknown       FailureCategory = "unknown"
)

// Retryable reports whether a category is eligible for bounded retry.
// Auth, authorization, not-found, invalid-structure, and configuration
// errors are surfaced immediately.
func (c FailureCategory) Retryable() bool {
	switch c {
	case CategoryNetwork, CategoryRateLimit, CategoryTimeout, CategoryUnknown:
		return true
	default:
		return false
	}
}

// StepError wraps a failed step with its classification.
type StepError struct {
	Step     string
	Category FailureCategory
	Cause    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed (%s): %v", e.Step, e.Category, e.Cause)
}

func (e *StepError) Unwrap() error {
	return e.Cause
}

// classify maps an arbitrary forge error to a FailureCategory. It knows
// about the forge package's ErrNotFound sentinel and the go-github
// structured error types directly; anything else falls back to Unknown so
// an unclassified failure is still retried a bounded number of times
// rather than surfaced as permanently non-retryable.
func classify(err error) FailureCategory {
	if err == nil {
		return ""
	}
	return classifyForgeError(err)
}
