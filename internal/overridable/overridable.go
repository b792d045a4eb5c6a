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

// Package overridable carries the (value, override_allowed) pair used by
// every policy-bearing field in a configuration document. It knows nothing
// about configuration layers or merge order; the merger decides what to do
// when an override is rejected.
package overridable

import "encoding/json"

// Value wraps a policy-bearing field with a flag saying whether a
// higher-precedence configuration layer is permitted to change it.
type Value[T comparable] struct {
	value           T
	overrideAllowed bool
}

// wireForm is the canonical on-disk shape: { value, override_allowed }.
// Parsers also accept a bare scalar (legacy form) and default
// override_allowed to true in that case; that shorthand is handled in the
// configparse package, not here.
type wireForm[T comparable] struct {
	Value           T    `json:"value"`
	OverrideAllowed bool `json:"override_allowed"`
}

// MarshalJSON emits the canonical { value, override_allowed } form.
func (v Value[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireForm[T]{Value: v.value, OverrideAllowed: v.overrideAllowed})
}

// UnmarshalJSON decodes the canonical { value, override_allowed } form.
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	var w wireForm[T]
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	v.value = w.Value
	v.overrideAllowed = w.OverrideAllowed
	return nil
}

// New constructs a Value with an explicit override policy.
func New[T comparable](value T, allowed bool) Value[T] {
	return Value[T]{value: value, overrideAllowed: allowed}
}

// Fixed constructs a Value that no later layer may change.
func Fixed[T comparable](value T) Value[T] {
	return Value[T]{value: value, overrideAllowed: false}
}

// Overridable constructs a Value any later layer may freely change.
func Overridable[T comparable](value T) Value[T] {
	return Value[T]{value: value, overrideAllowed: true}
}

// Get returns the wrapped value.
func (v Value[T]) Get() T {
	return v.value
}

// OverrideAllowed reports whether a later layer may change this value.
func (v Value[T]) OverrideAllowed() bool {
	return v.overrideAllowed
}

// TryOverride returns a Value reflecting what happens when a later layer
// attempts to set newValue. When override is not allowed and newValue
// differs from the current value, the receiver is returned unchanged
// (pure, total — it never errors). Callers that need to distinguish a
// rejected override from an accepted one should compare the result against
// newValue themselves, or use the merger, which surfaces a typed error
// instead of silently keeping the old value.
func (v Value[T]) TryOverride(newValue T) Value[T] {
	if !v.overrideAllowed && newValue != v.value {
		return v
	}
	return Value[T]{value: newValue, overrideAllowed: v.overrideAllowed}
}

// Rejects reports whether setting newValue at this layer would violate the
// override policy.
func (v Value[T]) Rejects(newValue T) bool {
	return !v.overrideAllowed && newValue != v.value
}

// Equal reports whether two Values carry the same value and policy.
func (v Value[T]) Equal(other Value[T]) bool {
	return v.value == other.value && v.overrideAllowed == other.overrideAllowed
}

// Map converts a Value[T] to a Value[U], preserving the override policy.
// Used by the parsers to turn a raw decoded scalar into a validated domain
// type without losing the override-allowed flag.
func Map[T comparable, U comparable](v Value[T], f func(T) U) Value[U] {
	return Value[U]{value: f(v.value), overrideAllowed: v.overrideAllowed}
}
