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

package configparse

import (
	"fmt"
	"math"
)

// rawOB decodes the override-policy wrapper: either a bare scalar
// (legacy form, override_allowed defaults to true) or a table
// { value, override_allowed = true }. BurntSushi/toml calls UnmarshalTOML
// with the already-decoded Go value (map[string]interface{} for a table,
// or the scalar itself), so this type works for any document's overridable
// field without per-document boilerplate.
type rawOB struct {
	set             bool
	legacy          bool
	value           interface{}
	overrideAllowed bool
}

func (r *rawOB) UnmarshalTOML(data interface{}) error {
	r.set = true
	r.overrideAllowed = true
	if tbl, ok := data.(map[string]interface{}); ok {
		if v, present := tbl["value"]; present {
			r.value = v
		}
		if oa, present := tbl["override_allowed"]; present {
			b, ok := oa.(bool)
			if !ok {
				return fmt.Errorf("override_allowed must be a boolean")
			}
			r.overrideAllowed = b
		}
		return nil
	}
	r.legacy = true
	r.value = data
	return nil
}

func (r *rawOB) asBool() (bool, error) {
	b, ok := r.value.(bool)
	if !ok {
		return false, fmt.Errorf("expected a boolean, got %T", r.value)
	}
	return b, nil
}

func (r *rawOB) asInt() (int, error) {
	switch v := r.value.(type) {
	case int64:
		return int(v), nil
	case int:
		return v, nil
	case float64:
		// Documents that went through the base-document merge patch come
		// back with their integers as floats.
		if v == math.Trunc(v) {
			return int(v), nil
		}
		return 0, fmt.Errorf("expected an integer, got %v", v)
	default:
		return 0, fmt.Errorf("expected an integer, got %T", r.value)
	}
}

func (r *rawOB) asString() (string, error) {
	s, ok := r.value.(string)
	if !ok {
		return "", fmt.Errorf("expected a string, got %T", r.value)
	}
	return s, nil
}
