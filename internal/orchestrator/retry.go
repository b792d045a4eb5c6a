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

package orchestrator

import (
	"context"
	"time"
)

// retryPolicy bounds retry attempts and backoff for one FailureCategory.
type retryPolicy struct {
	maxAttempts int
	backoff     func(attempt int) time.Duration
}

var retryPolicies = map[FailureCategory]retryPolicy{
	CategoryNetwork: {
		maxAttempts: 3,
		backoff:     linearBackoff(5 * time.Second),
	},
	CategoryRateLimit: {
		maxAttempts: 5,
		backoff:     exponentialBackoff(60 * time.Second),
	},
	CategoryTimeout: {
		maxAttempts: 3,
		backoff:     linearBackoff(10 * time.Second),
	},
	CategoryUnknown: {
		maxAttempts: 2,
		backoff:     linearBackoff(15 * time.Second),
	},
}

func linearBackoff(unit time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * unit
	}
}

func exponentialBackoff(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		d := base
		for i := 1; i < attempt; i++ {
			d *= 2
		}
		return d
	}
}

// sleep is a package variable so tests can stub out real waiting.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// withRetry runs op, retrying according to the category-specific policy
// when op returns a retryable error. Non-retryable errors are surfaced
// immediately without delay; an error that classify does not recognize
// falls into the Unknown category and is retried under its policy.
func withRetry(ctx context.Context, op func() error) error {
	var lastErr error
	attempt := 0
	for {
		attempt++
		lastErr = op()
		if lastErr == nil {
			return nil
		}

		category := classify(lastErr)
		if !category.Retryable() {
			return lastErr
		}

		policy, ok := retryPolicies[category]
		if !ok || attempt >= policy.maxAttempts {
			return lastErr
		}

		if err := sleep(ctx, policy.backoff(attempt)); err != nil {
			return lastErr
		}
	}
}
