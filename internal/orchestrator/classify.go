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
	"errors"
	"net"
	"net/http"
	"os"

	"github.com/google/go-github/v59/github"
	"github.com/pvandervelde/repo-roller/internal/forge"
	"github.com/pvandervelde/repo-roller/internal/merge"
	"github.com/pvandervelde/repo-roller/internal/metadata"
)

// classifyForgeError inspects an error from any pipeline collaborator and
// assigns it a FailureCategory, dispatching on the GitHub response status
// code when one is available.
func classifyForgeError(err error) FailureCategory {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CategoryCancelled
	}
	if errors.Is(err, forge.ErrNotFound) {
		return CategoryNotFound
	}
	if errors.Is(err, forge.ErrAccessDenied) {
		return CategoryAuthorization
	}

	var merr *metadata.Error
	if errors.As(err, &merr) {
		switch merr.Type {
		case metadata.ErrorNetworkError:
			return CategoryNetwork
		case metadata.ErrorAccessDenied:
			return CategoryAuthorization
		case metadata.ErrorRepositoryNotFound, metadata.ErrorFileNotFound:
			return CategoryNotFound
		case metadata.ErrorMultipleRepositoriesFound, metadata.ErrorInvalidRepositoryStructure:
			return CategoryInvalid
		case metadata.ErrorParseError:
			return CategoryConfiguration
		}
	}

	var overrideErr *merge.OverrideNotPermittedError
	var mismatchErr *merge.RepositoryTypeMismatchError
	if errors.As(err, &overrideErr) || errors.As(err, &mismatchErr) {
		return CategoryConfiguration
	}

	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		return CategoryRateLimit
	}
	var arle *github.AbuseRateLimitError
	if errors.As(err, &arle) {
		return CategoryRateLimit
	}

	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		switch errResp.Response.StatusCode {
		case http.StatusUnauthorized:
			return CategoryAuth
		case http.StatusForbidden:
			return CategoryAuthorization
		case http.StatusNotFound:
			return CategoryNotFound
		case http.StatusUnprocessableEntity, http.StatusBadRequest:
			return CategoryConfiguration
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return CategoryNetwork
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return CategoryTimeout
		}
		return CategoryNetwork
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return CategoryTimeout
	}

	// Anything unrecognized stays Unknown rather than being guessed from
	// the error text; Unknown is still retried a bounded number of times.
	return CategoryUnknown
}
