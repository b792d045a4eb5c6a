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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pvandervelde/repo-roller/internal/eventpublisher"
	"github.com/pvandervelde/repo-roller/internal/forge"
	"github.com/pvandervelde/repo-roller/internal/metadata"
	"github.com/pvandervelde/repo-roller/internal/operator"
	"github.com/pvandervelde/repo-roller/internal/orchestrator"
	"github.com/pvandervelde/repo-roller/internal/policyhistory"
	"github.com/pvandervelde/repo-roller/internal/schema"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	setupLog()
	ctx, cancel := context.WithCancel(context.Background())

	owner := flag.String("owner", "", "Organization or user that owns the new repository.")
	name := flag.String("repo", "", "Name of the repository to create.")
	team := flag.String("team", "", "Owning team, used to resolve team-layer configuration.")
	template := flag.String("template", "", "Template name to seed the repository from, if any.")
	repoType := flag.String("type", "", "Requested repository type.")
	installationID := flag.Int64("installation", 0, "GitHub App installation ID to act as.")
	flag.Parse()

	if *owner == "" || *name == "" {
		log.Fatal().Msg("-owner and -repo are required")
	}

	privateKey, err := forge.ResolvePrivateKey(ctx, operator.KeySecret, operator.PrivateKey)
	if err != nil {
		log.Fatal().Err(err).Msg("could not resolve GitHub App private key, shutting down")
	}
	clients, err := forge.NewClients(operator.AppID, privateKey, operator.GitHubEnterpriseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("could not build GitHub App transport, shutting down")
	}
	client := forge.NewClient(clients.ForInstallation(*installationID))

	provider := metadata.NewProvider(client, metadata.DiscoveryConfig{
		NamePattern:      operator.MetadataRepoNamePattern,
		Topic:            operator.MetadataTopic,
		MaxSearchResults: operator.MaxSearchResults,
	})
	validator := schema.NewValidator(true)
	publisher := eventpublisher.New(eventpublisher.NewHTTPDeliverer(nil), operator.NumWorkers)
	orch := orchestrator.New(provider, client, validator, noopRenderer{}, publisher)
	history := policyhistory.NewStore()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		log.Info().Str("signal", s.String()).Msg("signal received, cancelling in-flight request")
		cancel()
	}()

	result, err := orch.CreateRepository(ctx, orchestrator.Request{
		Name:                    *name,
		Owner:                   *owner,
		Team:                    *team,
		Template:                *template,
		RequestedRepositoryType: *repoType,
		ContentStrategy:         orchestrator.ContentEmpty,
	})
	requestID := fmt.Sprintf("%s/%s", *owner, *name)
	if result != nil {
		history.Record(requestID, result)
	}
	if err != nil {
		log.Fatal().Err(err).Str("request", requestID).Msg("repository creation failed")
	}
	if entry, ok := history.Latest(requestID); ok {
		policyhistory.Dump(entry)
	}
	log.Info().Str("request", requestID).Bool("success", result.Success).Msg("repository creation finished")
}

// noopRenderer stands in for the template-rendering engine, which is an
// external collaborator outside this system's scope: cloning a
// template's tree, substituting variables, and pushing the initial commit
// is somebody else's job, invoked through this same interface in a real
// deployment.
type noopRenderer struct{}

func (noopRenderer) Render(ctx context.Context, templateRepo, org, repo, defaultBranch string, variables map[string]string) error {
	log.Debug().Str("template", templateRepo).Str("repo", repo).Msg("template rendering delegated, no-op in this binary")
	return nil
}

func setupLog() {
	// Match expected values in GCP
	zerolog.LevelFieldName = "severity"
	zerolog.LevelTraceValue = "DEFAULT"
	zerolog.LevelDebugValue = "DEBUG"
	zerolog.LevelInfoValue = "INFO"
	zerolog.LevelWarnValue = "WARNING"
	zerolog.LevelErrorValue = "ERROR"
	zerolog.LevelFatalValue = "CRITICAL"
	zerolog.LevelPanicValue = "CRITICAL"
	zerolog.SetGlobalLevel(operator.LogLevel)
}
