package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/kamiyo-ai/kamiyo-zk/log"
	"github.com/kamiyo-ai/kamiyo-zk/prover"
	"github.com/kamiyo-ai/kamiyo-zk/registry"
	"github.com/kamiyo-ai/kamiyo-zk/service"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"
)

func main() {
	defaultDataDir := ".kamiyo-zk"
	if home, err := os.UserHomeDir(); err == nil {
		defaultDataDir = filepath.Join(home, ".kamiyo-zk")
	}
	host := flag.String("host", "0.0.0.0", "API host to bind")
	port := flag.Int("port", 9090, "API port to bind")
	dataDir := flag.String("datadir", defaultDataDir, "data directory for the agent registry")
	logLevel := flag.String("loglevel", "info", "log level (debug, info, warn, error, fatal)")
	artifactsTimeout := flag.Duration("artifactsTimeout", 10*time.Minute, "timeout for downloading circuit artifacts")
	flag.Parse()

	log.Init(*logLevel, "stdout", nil)

	log.Infow("downloading circuit artifacts", "timeout", artifactsTimeout.String())
	if err := service.DownloadArtifacts(*artifactsTimeout); err != nil {
		log.Fatalf("failed to download circuit artifacts: %v", err)
	}

	database, err := metadb.New(db.TypePebble, filepath.Join(*dataDir, "registry"))
	if err != nil {
		log.Fatalf("failed to open the registry database: %v", err)
	}
	reg, err := registry.New(database)
	if err != nil {
		log.Fatalf("failed to open the agent registry: %v", err)
	}

	engine := prover.NewEngine(nil)

	apiService := service.NewAPI(reg, engine, *host, *port)
	if err := apiService.Start(context.Background()); err != nil {
		log.Fatalf("failed to start the API service: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info("shutting down")
	apiService.Stop()
	if err := database.Close(); err != nil {
		log.Warnw("error closing the registry database", "error", err)
	}
}
