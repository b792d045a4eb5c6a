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

package configmodel

import "encoding/json"

// Canonical serializes g to a stable document format for diagnostics.
// encoding/json already emits struct fields in declaration order and sorts
// map keys, so no extra bookkeeping is needed for a stable key order.
func (g GlobalDefaults) Canonical() ([]byte, error) {
	return json.Marshal(g)
}

// Canonical serializes r to a stable document format for diagnostics.
func (r RepositoryTypeConfig) Canonical() ([]byte, error) {
	return json.Marshal(r)
}

// Canonical serializes t to a stable document format for diagnostics.
func (t TeamConfig) Canonical() ([]byte, error) {
	return json.Marshal(t)
}

// Canonical serializes t to a stable document format for diagnostics.
func (t TemplateConfig) Canonical() ([]byte, error) {
	return json.Marshal(t)
}
