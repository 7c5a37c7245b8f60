package main

import (
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tangem/tangem-artwork-go/internal/config"
	"github.com/tangem/tangem-artwork-go/internal/logging"
	"github.com/tangem/tangem-artwork-go/pkg/session"
	"github.com/tangem/tangem-artwork-go/pkg/verifyapi"
)

// buildService creates the service behind the binding. Without a config file
// it logs through the global logger and never downloads artwork.
func buildService(configFile string) (*session.ArtworkService, error) {
	if configFile == "" {
		return session.NewArtworkService(), nil
	}

	cfg, err := config.Load(configFile, filepath.Dir(configFile))
	if err != nil {
		return nil, err
	}

	logger, err := logging.Build(cfg.LogFile, cfg.Debug)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize log")
	}
	zap.ReplaceGlobals(logger)

	opts := []session.ServiceOption{session.WithLogger(logger)}
	if cfg.VerifyAPI.Enabled() {
		client, err := verifyapi.NewClient(cfg.VerifyAPI.ClientConfig(), logger)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create verify api client")
		}
		opts = append(opts, session.WithDownloader(client))
	}

	return session.NewArtworkService(opts...), nil
}
