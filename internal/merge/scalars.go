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

package merge

import (
	"github.com/pvandervelde/repo-roller/internal/configmodel"
	"github.com/pvandervelde/repo-roller/internal/overridable"
)

// layerField pairs an optional field from one configuration layer with the
// layer's source tag.
type layerField[T comparable] struct {
	tag   configmodel.SourceTag
	value *overridable.Value[T]
}

// mergeScalarField resolves one scalar across the four layers in precedence
// order. At each layer, validation is against the most specific
// already-resolved lower layer (team validates against
// repository-type-or-global, template against
// team-or-repository-type-or-global), not always against global.
func mergeScalarField[T comparable](path string, layers ...layerField[T]) (*T, configmodel.SourceTag, error) {
	var (
		resolved    *T
		resolvedTag configmodel.SourceTag
		base        *overridable.Value[T]
		baseTag     configmodel.SourceTag
	)

	for _, layer := range layers {
		if layer.value == nil {
			continue
		}
		if base != nil && base.Rejects(layer.value.Get()) {
			return nil, 0, &OverrideNotPermittedError{
				Setting:     path,
				AttemptedBy: layer.tag,
				FixedBy:     baseTag,
				Reason:      "the value is fixed and cannot be changed to a different value",
			}
		}
		v := layer.value.Get()
		resolved = &v
		resolvedTag = layer.tag
		base = layer.value
		baseTag = layer.tag
	}

	return resolved, resolvedTag, nil
}
