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

package schema

import "github.com/gobwas/glob"

// globCache caches compiled globs so a rule's pattern compiles once per
// Validator, not once per Validate call.
type globCache map[string]glob.Glob

// compileGlob returns the cached glob if present, otherwise compiles and
// caches it.
func (g globCache) compileGlob(s string) (glob.Glob, error) {
	if compiled, ok := g[s]; ok {
		return compiled, nil
	}
	c, err := glob.Compile(s)
	if err != nil {
		return nil, err
	}
	g[s] = c
	return c, nil
}
