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

package forge

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubGhinstallation(t *testing.T) *int {
	t.Helper()
	calls := 0
	origAppsTransport := ghinstallationNewAppsTransport
	origFromAppsTransport := ghinstallationNewFromAppsTransport
	ghinstallationNewAppsTransport = func(http.RoundTripper, int64, []byte) (*ghinstallation.AppsTransport, error) {
		calls++
		return &ghinstallation.AppsTransport{BaseURL: "https://api.github.com"}, nil
	}
	ghinstallationNewFromAppsTransport = func(atr *ghinstallation.AppsTransport, installationID int64) *ghinstallation.Transport {
		calls++
		return &ghinstallation.Transport{BaseURL: fmt.Sprint(installationID)}
	}
	t.Cleanup(func() {
		ghinstallationNewAppsTransport = origAppsTransport
		ghinstallationNewFromAppsTransport = origFromAppsTransport
	})
	return &calls
}

// A second ForInstallation call for the same installation ID must not
// construct a new transport.
func TestForInstallation_CachesClientPerInstallation(t *testing.T) {
	calls := stubGhinstallation(t)

	clients, err := NewClients(1, []byte("key"), "")
	require.NoError(t, err)

	c1 := clients.ForInstallation(123)
	require.NotNil(t, c1)

	*calls = 0
	c2 := clients.ForInstallation(123)
	assert.Equal(t, 0, *calls, "did not use cached client")
	assert.Same(t, c1, c2)
}

// TestForInstallation_DistinctInstallationsGetDistinctClients asserts the
// cache is keyed per installation ID, not shared across them.
func TestForInstallation_DistinctInstallationsGetDistinctClients(t *testing.T) {
	stubGhinstallation(t)

	clients, err := NewClients(1, []byte("key"), "")
	require.NoError(t, err)

	c1 := clients.ForInstallation(1)
	c2 := clients.ForInstallation(2)
	assert.NotSame(t, c1, c2)

	c1Again := clients.ForInstallation(1)
	assert.Same(t, c1, c1Again)
}

func TestResolvePrivateKey_DirectKeyWhenNoSecretConfigured(t *testing.T) {
	key, err := ResolvePrivateKey(context.Background(), "", "the-raw-key")
	require.NoError(t, err)
	assert.Equal(t, []byte("the-raw-key"), key)
}

func TestResolvePrivateKey_ReadsFromSecretWhenConfigured(t *testing.T) {
	orig := getKeyFromSecret
	getKeyFromSecret = func(ctx context.Context, keySecret string) ([]byte, error) {
		return []byte("from-secret:" + keySecret), nil
	}
	t.Cleanup(func() { getKeyFromSecret = orig })

	key, err := ResolvePrivateKey(context.Background(), "mem://keys/app-key", "ignored-when-secret-set")
	require.NoError(t, err)
	assert.Equal(t, []byte("from-secret:mem://keys/app-key"), key)
}

func TestResolvePrivateKey_PropagatesSecretError(t *testing.T) {
	orig := getKeyFromSecret
	getKeyFromSecret = func(ctx context.Context, keySecret string) ([]byte, error) {
		return nil, assert.AnError
	}
	t.Cleanup(func() { getKeyFromSecret = orig })

	_, err := ResolvePrivateKey(context.Background(), "mem://keys/app-key", "")
	assert.ErrorIs(t, err, assert.AnError)
}
