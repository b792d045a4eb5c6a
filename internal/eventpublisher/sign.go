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

package eventpublisher

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// signatureHeader is the header name the receiver checks.
const signatureHeader = "X-RepoRoller-Signature-256"

// eventTypeHeader names the synthetic event type being delivered, mirroring
// the forge's own X-GitHub-Event convention.
const eventTypeHeader = "X-RepoRoller-Event"

// sign computes the deterministic HMAC-SHA256 signature of body under
// secret, formatted as the wire header value "sha256=<64 lowercase hex>".
func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
