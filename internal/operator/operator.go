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

// Package operator holds the operator-tunable knobs for the running
// process: GitHub App credentials, log level, discovery defaults, and
// worker concurrency. Everything here is read once at process start from
// the environment.
package operator

import (
	"os"
	"strconv"

	"github.com/rs/zerolog"
)

var (
	// AppID is the GitHub App ID used for installation authentication.
	AppID int64

	// PrivateKey, if set, is the PEM-encoded App private key itself.
	PrivateKey string

	// KeySecret, if set, is a gocloud.dev/runtimevar URL the App private
	// key is resolved from (e.g. "file:///etc/reporoller/app-key.pem"; only
	// the file-backed driver is registered).
	// Takes precedence over PrivateKey when both are set.
	KeySecret string

	// GitHubEnterpriseURL, if set, points at a GitHub Enterprise instance
	// instead of github.com.
	GitHubEnterpriseURL string

	// MetadataRepoNamePattern is the configuration-based discovery
	// pattern, default "{org}-config".
	MetadataRepoNamePattern = "{org}-config"

	// MetadataTopic is the topic-based discovery fallback tag.
	MetadataTopic = "template-metadata"

	// MaxSearchResults caps topic-based discovery search results.
	MaxSearchResults = 100

	// LogLevel is the zerolog level parsed from the LOG_LEVEL env var.
	LogLevel = zerolog.InfoLevel

	// NumWorkers bounds concurrent event fan-out in the publisher.
	// Webhook registration in the orchestrator uses its own fixed bound of 5.
	NumWorkers = 5

	// WebhookDeliveryDefaultTimeoutSeconds is the timeout, in seconds, that
	// the configuration parser applies when an endpoint omits
	// timeout_seconds. The parser uses its own literal 10 and does not read
	// this variable, and no environment variable sets it.
	WebhookDeliveryDefaultTimeoutSeconds = 10
)

func init() {
	setVars()
}

func setVars() {
	if v := os.Getenv("REPOROLLER_APP_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			AppID = id
		}
	}
	if v := os.Getenv("REPOROLLER_PRIVATE_KEY"); v != "" {
		PrivateKey = v
	}
	if v := os.Getenv("REPOROLLER_KEY_SECRET"); v != "" {
		KeySecret = v
	}
	if v := os.Getenv("REPOROLLER_GITHUB_ENTERPRISE_URL"); v != "" {
		GitHubEnterpriseURL = v
	}
	if v := os.Getenv("REPOROLLER_METADATA_REPO_PATTERN"); v != "" {
		MetadataRepoNamePattern = v
	}
	if v := os.Getenv("REPOROLLER_METADATA_TOPIC"); v != "" {
		MetadataTopic = v
	}
	if v := os.Getenv("REPOROLLER_MAX_SEARCH_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			MaxSearchResults = n
		}
	}
	if v := os.Getenv("REPOROLLER_NUM_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			NumWorkers = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if lvl, err := zerolog.ParseLevel(v); err == nil {
			LogLevel = lvl
		}
	}
}
