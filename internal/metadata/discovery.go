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

package metadata

import (
	"strings"
)

// DiscoveryConfig controls how Discover locates an organization's metadata
// repository.
type DiscoveryConfig struct {
	// NamePattern is the configuration-based discovery pattern, e.g.
	// "{org}-config". Supports {org}, {org_lower}, {org_upper}.
	NamePattern string
	// Topic is the topic-based discovery fallback tag.
	Topic string
	// MaxSearchResults caps topic-based discovery.
	MaxSearchResults int
}

// DefaultDiscoveryConfig is the stock discovery behavior.
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{
		NamePattern:      "{org}-config",
		Topic:            "template-metadata",
		MaxSearchResults: 100,
	}
}

func (c DiscoveryConfig) generateRepositoryName(org string) string {
	name := c.NamePattern
	name = strings.ReplaceAll(name, "{org_lower}", strings.ToLower(org))
	name = strings.ReplaceAll(name, "{org_upper}", strings.ToUpper(org))
	name = strings.ReplaceAll(name, "{org}", org)
	return name
}

func (c DiscoveryConfig) hasConfigurationBasedDiscovery() bool {
	return c.NamePattern != ""
}

func (c DiscoveryConfig) hasTopicBasedDiscovery() bool {
	return c.Topic != ""
}
