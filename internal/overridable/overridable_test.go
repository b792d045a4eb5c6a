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

package overridable

import "testing"

func TestTryOverride(t *testing.T) {
	tests := []struct {
		name     string
		start    Value[bool]
		newValue bool
		want     Value[bool]
	}{
		{
			name:     "fixed rejects different value",
			start:    Fixed(true),
			newValue: false,
			want:     Fixed(true),
		},
		{
			name:     "fixed accepts idempotent reassertion",
			start:    Fixed(true),
			newValue: true,
			want:     Fixed(true),
		},
		{
			name:     "overridable accepts any value",
			start:    Overridable(true),
			newValue: false,
			want:     Overridable(false),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.start.TryOverride(tt.newValue)
			if !got.Equal(tt.want) {
				t.Errorf("TryOverride() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRejects(t *testing.T) {
	fixed := Fixed(5)
	if fixed.Rejects(5) {
		t.Error("Rejects(5) on Fixed(5) = true, want false (idempotent reassertion)")
	}
	if !fixed.Rejects(6) {
		t.Error("Rejects(6) on Fixed(5) = false, want true")
	}
	free := Overridable(5)
	if free.Rejects(6) {
		t.Error("Rejects(6) on Overridable(5) = true, want false")
	}
}

func TestMap(t *testing.T) {
	v := New("private", false)
	mapped := Map(v, func(s string) int { return len(s) })
	if mapped.Get() != 7 || mapped.OverrideAllowed() {
		t.Errorf("Map() = %+v, want value=7 overrideAllowed=false", mapped)
	}
}
