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

// Package configparse holds one pure parser per configuration document
// kind. Parsers take bytes and return a ParseResult; they never
// touch the network or the filesystem themselves.
package configparse

// Issue is one parse-time error or warning, pinned to a field or the file
// as a whole.
type Issue struct {
	FieldPath  string
	Message    string
	Suggestion string
}

// Metadata describes the document a parse attempt touched, independent of
// whether it succeeded.
type Metadata struct {
	FilePath            string
	RepoContext         string
	FieldsParsed        int
	HasDeprecatedSyntax bool
}

// Result is the outcome of parsing one document. Config is nil when Errors
// is non-empty.
type Result[T any] struct {
	Config   *T
	Errors   []Issue
	Warnings []Issue
	Metadata Metadata
}

func (r *Result[T]) addError(fieldPath, message, suggestion string) {
	r.Errors = append(r.Errors, Issue{FieldPath: fieldPath, Message: message, Suggestion: suggestion})
}
