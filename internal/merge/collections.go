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
	"sort"
	"strings"

	"github.com/pvandervelde/repo-roller/internal/configmodel"
)

// collectionLayer pairs a layer's collection contributions with its source
// tag, in precedence order.
type collectionLayer struct {
	tag           configmodel.SourceTag
	labels        []configmodel.LabelConfig
	webhooks      []configmodel.WebhookConfig
	apps          []configmodel.GitHubAppConfig
	props         []configmodel.CustomPropertyConfig
	envs          []configmodel.EnvironmentConfig
	notifications []configmodel.NotificationEndpoint
}

// mergeCollections merges the collection fields: every layer's entries accumulate
// additively, then each collection applies its own dedup rule. Labels and
// custom properties dedup by key with later-wins; webhooks, apps, and
// environments dedup by key with first-wins.
func mergeCollections(out *configmodel.MergedConfiguration, in Input) {
	layers := []collectionLayer{
		{
			tag:           configmodel.SourceGlobal,
			labels:        in.Global.Labels,
			webhooks:      in.Global.Webhooks,
			apps:          in.Global.RequiredApps,
			props:         in.Global.CustomProperties,
			envs:          in.Global.Environments,
			notifications: in.Global.Notifications,
		},
		collectionLayerFromRepositoryType(in.RepositoryType),
		collectionLayerFromTeam(in.Team),
		{
			tag:           configmodel.SourceTemplate,
			labels:        in.Template.Labels,
			webhooks:      in.Template.Webhooks,
			apps:          in.Template.RequiredApps,
			props:         in.Template.CustomProperties,
			envs:          in.Template.Environments,
			notifications: in.Template.Notifications,
		},
	}

	mergeLabels(out, layers)
	mergeWebhooks(out, layers)
	mergeApps(out, layers)
	mergeCustomProperties(out, layers)
	mergeEnvironments(out, layers)
	mergeNotifications(out, layers)
}

func collectionLayerFromRepositoryType(rt *configmodel.RepositoryTypeConfig) collectionLayer {
	if rt == nil {
		return collectionLayer{tag: configmodel.SourceRepositoryType}
	}
	return collectionLayer{
		tag:           configmodel.SourceRepositoryType,
		labels:        rt.Labels,
		webhooks:      rt.Webhooks,
		apps:          rt.RequiredApps,
		props:         rt.CustomProperties,
		envs:          rt.Environments,
		notifications: rt.Notifications,
	}
}

func collectionLayerFromTeam(tm *configmodel.TeamConfig) collectionLayer {
	if tm == nil {
		return collectionLayer{tag: configmodel.SourceTeam}
	}
	return collectionLayer{
		tag:           configmodel.SourceTeam,
		labels:        tm.Labels,
		webhooks:      tm.Webhooks,
		apps:          tm.RequiredApps,
		props:         tm.CustomProperties,
		envs:          tm.Environments,
		notifications: tm.Notifications,
	}
}

// mergeLabels dedups by name; the last layer to define a given name wins.
// Labels are kept in a map, so no definition order is preserved.
func mergeLabels(out *configmodel.MergedConfiguration, layers []collectionLayer) {
	for _, layer := range layers {
		for _, l := range layer.labels {
			out.Labels[l.Name] = l
			out.Source["labels."+l.Name] = layer.tag
		}
	}
}

// webhookKey is (url, sorted event set), the webhook dedup identity.
func webhookKey(w configmodel.WebhookConfig) string {
	events := make([]string, len(w.Events))
	for i, e := range w.Events {
		events[i] = string(e)
	}
	sort.Strings(events)
	return w.URL + "|" + strings.Join(events, ",")
}

// mergeWebhooks dedups by (url, event-set); the first layer to define a key
// wins and later layers contributing the same key are dropped.
func mergeWebhooks(out *configmodel.MergedConfiguration, layers []collectionLayer) {
	seen := map[string]bool{}
	for _, layer := range layers {
		for _, w := range layer.webhooks {
			key := webhookKey(w)
			if seen[key] {
				continue
			}
			seen[key] = true
			out.Webhooks = append(out.Webhooks, w)
			out.Source["webhooks."+w.URL] = layer.tag
		}
	}
}

// mergeApps dedups by slug; first layer wins.
func mergeApps(out *configmodel.MergedConfiguration, layers []collectionLayer) {
	seen := map[string]bool{}
	for _, layer := range layers {
		for _, a := range layer.apps {
			if seen[a.Slug] {
				continue
			}
			seen[a.Slug] = true
			out.GitHubApps = append(out.GitHubApps, a)
			out.Source["apps."+a.Slug] = layer.tag
		}
	}
}

// mergeCustomProperties dedups by name; later layers win.
func mergeCustomProperties(out *configmodel.MergedConfiguration, layers []collectionLayer) {
	for _, layer := range layers {
		for _, p := range layer.props {
			out.CustomProperties[p.Name] = p
			out.Source["custom_properties."+p.Name] = layer.tag
		}
	}
}

// notificationKey mirrors webhookKey: (url, sorted event set) is the dedup
// identity for event-publisher endpoints too.
func notificationKey(n configmodel.NotificationEndpoint) string {
	events := append([]string(nil), n.Events...)
	sort.Strings(events)
	return n.URL + "|" + strings.Join(events, ",")
}

// mergeNotifications dedups by (url, event-set); first layer wins, same
// as mergeWebhooks.
func mergeNotifications(out *configmodel.MergedConfiguration, layers []collectionLayer) {
	seen := map[string]bool{}
	for _, layer := range layers {
		for _, n := range layer.notifications {
			key := notificationKey(n)
			if seen[key] {
				continue
			}
			seen[key] = true
			out.Notifications = append(out.Notifications, n)
			out.Source["notifications."+n.URL] = layer.tag
		}
	}
}

// mergeEnvironments dedups by name; first layer wins.
func mergeEnvironments(out *configmodel.MergedConfiguration, layers []collectionLayer) {
	seen := map[string]bool{}
	for _, layer := range layers {
		for _, e := range layer.envs {
			if seen[e.Name] {
				continue
			}
			seen[e.Name] = true
			out.Environments = append(out.Environments, e)
			out.Source["environments."+e.Name] = layer.tag
		}
	}
}
