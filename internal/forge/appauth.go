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

// Package forge is the thin wrapper over go-github this tree programs
// against. Authentication, pagination, and rate-limit handling belong to
// the client library itself; this package only wires installation-token
// auth and response caching, and narrows the huge github.Client surface
// down to the handful of interfaces each consumer actually needs.
package forge

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v59/github"
	"github.com/gregjones/httpcache"
	"gocloud.dev/runtimevar"
	_ "gocloud.dev/runtimevar/filevar"
)

// Function-variable seams: tests substitute fakes here instead of
// hitting the real ghinstallation constructors or a real file-backed
// runtimevar.
var ghinstallationNewAppsTransport = ghinstallation.NewAppsTransport
var ghinstallationNewFromAppsTransport = ghinstallation.NewFromAppsTransport
var getKeyFromSecret = getKeyFromSecretReal

// Clients caches one *github.Client per installation ID so repeated
// requests against the same organization installation reuse one transport
// and its httpcache layer.
type Clients struct {
	appID          int64
	privateKey     []byte
	enterpriseURL  string
	mu             sync.Mutex
	byInstallation map[int64]*github.Client
	atr            *ghinstallation.AppsTransport
}

// NewClients constructs a Clients cache. privateKey is the PEM-encoded
// GitHub App private key.
func NewClients(appID int64, privateKey []byte, enterpriseURL string) (*Clients, error) {
	tr := httpcache.NewMemoryCacheTransport()
	atr, err := ghinstallationNewAppsTransport(tr, appID, privateKey)
	if err != nil {
		return nil, fmt.Errorf("building app transport: %w", err)
	}
	if enterpriseURL != "" {
		atr.BaseURL = enterpriseURL
	}
	return &Clients{
		appID:          appID,
		privateKey:     privateKey,
		enterpriseURL:  enterpriseURL,
		byInstallation: map[int64]*github.Client{},
		atr:            atr,
	}, nil
}

// ResolvePrivateKey reads the App private key from a runtimevar URL when
// one is configured (only the file-backed driver is registered, so a
// file:// URL), falling back to the raw key the operator provided directly.
func ResolvePrivateKey(ctx context.Context, keySecret, rawKey string) ([]byte, error) {
	if keySecret == "" {
		return []byte(rawKey), nil
	}
	return getKeyFromSecret(ctx, keySecret)
}

// getKeyFromSecretReal is the real implementation behind the getKeyFromSecret
// seam; it is what ResolvePrivateKey calls outside of tests.
func getKeyFromSecretReal(ctx context.Context, keySecret string) ([]byte, error) {
	v, err := runtimevar.OpenVariable(ctx, keySecret)
	if err != nil {
		return nil, fmt.Errorf("opening key secret variable: %w", err)
	}
	defer v.Close()
	snap, err := v.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading key secret variable: %w", err)
	}
	return []byte(snap.Value.(string)), nil
}

// ForInstallation returns a github.Client authenticated as the given
// installation, constructing and caching a new one on first use.
func (c *Clients) ForInstallation(installationID int64) *github.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cl, ok := c.byInstallation[installationID]; ok {
		return cl
	}
	itr := ghinstallationNewFromAppsTransport(c.atr, installationID)
	hc := &http.Client{Transport: itr}
	var cl *github.Client
	if c.enterpriseURL != "" {
		cl, _ = github.NewClient(hc).WithEnterpriseURLs(c.enterpriseURL, c.enterpriseURL)
	} else {
		cl = github.NewClient(hc)
	}
	c.byInstallation[installationID] = cl
	return cl
}
