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

// Package metadata discovers, validates the structure of, and reads
// documents from an organization's metadata repository.
package metadata

import "fmt"

// ErrorType is the metadata-provider error taxonomy.
type ErrorType string

const (
	ErrorNetworkError               ErrorType = "network_error"
	ErrorAccessDenied               ErrorType = "access_denied"
	ErrorRepositoryNotFound         ErrorType = "repository_not_found"
	ErrorMultipleRepositoriesFound  ErrorType = "multiple_repositories_found"
	ErrorInvalidRepositoryStructure ErrorType = "invalid_repository_structure"
	ErrorFileNotFound               ErrorType = "file_not_found"
	ErrorParseError                 ErrorType = "parse_error"
)

// Error is the structured error every metadata-provider operation returns,
// wrapped with an operation string for diagnostics.
type Error struct {
	Type       ErrorType
	Operation  string
	Message    string
	Candidates []string // populated for ErrorMultipleRepositoriesFound
	Missing    []string // populated for ErrorInvalidRepositoryStructure
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the operation may succeed if retried.
func (e *Error) Retryable() bool {
	return e.Type == ErrorNetworkError
}

func newError(op string, t ErrorType, msg string, cause error) *Error {
	return &Error{Operation: op, Type: t, Message: msg, Cause: cause}
}
