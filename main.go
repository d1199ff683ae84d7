package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/api"
	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/config"
	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/infra"
	"github.com/rlaaudgjs5638/mixAnalyzer/server"
	"github.com/rlaaudgjs5638/mixAnalyzer/shared/logger"
)

// Serves previously analyzed runs over HTTP. Running analyses is the job of
// cmd/analyze; this process only reads the artifact store.
func main() {
	configPath := flag.String("config", "", "config file path (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Errorf("config: %v", err)
		os.Exit(1)
	}
	logger.Init(cfg.Logging.Level)

	store, err := infra.NewBadgerArtifactStore(cfg.Store.Path)
	if err != nil {
		logger.Errorf("artifact store: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	srv := server.NewServer(cfg.Server.Addr)
	srv.SetupBasicRoutes()
	if err := srv.RegisterModule(api.NewMixerAPIHandler(store)); err != nil {
		logger.Errorf("register mixer module: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Errorf("server: %v", err)
		os.Exit(1)
	}
}
