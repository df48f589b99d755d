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

	"github.com/sirupsen/logrus"

	"github.com/shreekarashastry/ledgersim/api"
	"github.com/shreekarashastry/ledgersim/config"
	"github.com/shreekarashastry/ledgersim/logger"
	"github.com/shreekarashastry/ledgersim/simulation"
)

func main() {
	configPath := flag.String("config", "ledgersim.yaml", "Path to configuration file")
	listen := flag.String("listen", "", "Serve the read-only inspection API on this address after the scenario")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if *listen != "" {
		cfg.API.Listen = *listen
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		logrus.Fatalf("Failed to create logger: %v", err)
	}

	sim, err := NewSimulation(cfg, log)
	if err != nil {
		log.Fatalf("Failed to create simulation: %v", err)
	}
	outcome, err := sim.Start()
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	if cfg.API.Listen == "" {
		return
	}
	if err := serve(log, cfg.API.Listen, outcome); err != nil {
		log.Fatalf("API server failed: %v", err)
	}
}

func serve(log *logrus.Logger, addr string, outcome *Outcome) error {
	router := api.NewRouter(log, outcome.Chain, map[string]*simulation.Network{
		"attacked": outcome.Attacked,
		"clean":    outcome.Clean,
	})
	srv := &http.Server{
		Addr:              addr,
		Handler:           router.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("Inspection API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down inspection API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
