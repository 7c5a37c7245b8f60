package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/tangem/tangem-artwork-go/cmd/artwork-cache-server/server"
	"github.com/tangem/tangem-artwork-go/internal/config"
	"github.com/tangem/tangem-artwork-go/internal/logging"
	"github.com/tangem/tangem-artwork-go/internal/metrics"
	"github.com/tangem/tangem-artwork-go/pkg/artwork"
	"github.com/tangem/tangem-artwork-go/pkg/session"
	"github.com/tangem/tangem-artwork-go/pkg/verifyapi"
)

var (
	configFile = flag.String("config", "", "path to config.yaml")
	envPath    = flag.String("env", "", "directory holding .env files")
	address    = flag.String("address", "", "host:port to listen, overrides server.address")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile, *envPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	rootLogger, err := logging.Build(cfg.LogFile, cfg.Debug)
	if err != nil {
		fmt.Printf("failed to initialize log: %v\n", err)
		os.Exit(1)
	}
	zap.ReplaceGlobals(rootLogger)
	defer func() { _ = rootLogger.Sync() }()

	logger := rootLogger.Named("main")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.New(registry)

	opts := []session.ServiceOption{
		session.WithLogger(rootLogger),
		session.WithCacheOptions(artwork.WithMetrics(collector)),
		session.WithDownloadObserver(collector),
	}
	if cfg.VerifyAPI.Enabled() {
		client, err := verifyapi.NewClient(cfg.VerifyAPI.ClientConfig(), rootLogger)
		if err != nil {
			logger.Error("failed to create verify api client", zap.Error(err))
			os.Exit(1)
		}
		opts = append(opts, session.WithDownloader(client))
	}

	service := session.NewArtworkService(opts...)
	err = service.Start(&session.StartRequest{
		StorageDir: cfg.Storage.Dir,
		Profile:    cfg.Storage.Profile,
	}, &struct{}{})
	if err != nil {
		logger.Error("failed to start artwork service", zap.Error(err))
		os.Exit(1)
	}

	listenAddress := cfg.Server.Address
	if *address != "" {
		listenAddress = *address
	}

	srv := server.NewServer(rootLogger, service, registry)
	srv.Setup()

	err = srv.Listen(listenAddress)
	if err != nil {
		logger.Error("failed to start server", zap.Error(err))
		os.Exit(1)
	}

	go handleInterrupts(srv)

	logger.Info("artwork-cache-server started", zap.String("address", srv.Address()))
	srv.Serve()
}

// handleInterrupts catches interrupt signal (SIGTERM/SIGINT) and
// gracefully stops the server.
func handleInterrupts(srv *server.Server) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)

	<-ch

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Stop(ctx)
}
