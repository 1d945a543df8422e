package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/clicknet/pktcore/common/logging"
	"github.com/clicknet/pktcore/common/xcmd"
)

var runCmdArgs struct {
	ConfigPath string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay packets through the configured stages",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runPipeline(); err != nil {
			if errors.Is(err, xcmd.Interrupted{}) {
				return
			}
			fmt.Printf("ERROR: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	runCmd.Flags().StringVarP(&runCmdArgs.ConfigPath, "config", "c", "", "Path to the YAML pipeline configuration")
}

func runPipeline() error {
	cfg, err := LoadConfig(runCmdArgs.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, _, err := logging.Init(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer log.Sync()

	p, err := buildPipeline(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	frames, err := readFrames(cfg.Input, cfg.Synthetic)
	if err != nil {
		return fmt.Errorf("failed to load input frames: %w", err)
	}
	log.Infow("loaded frames", "count", len(frames), "input", cfg.Input)

	if err := p.runAll(frames); err != nil {
		log.Warnw("some frames failed processing", "error", err)
	}

	fmt.Print(p.report())

	if cfg.MetricsAddr == "" {
		return nil
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(p.metrics)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}

	wg, ctx := errgroup.WithContext(context.Background())
	wg.Go(func() error {
		log.Infof("metrics server listening on %s", cfg.MetricsAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server failed: %w", err)
		}
		return nil
	})
	wg.Go(func() error {
		err := xcmd.WaitInterrupted(ctx)
		log.Infof("caught signal: %v", err)
		log.Info("shutting down metrics server")
		server.Shutdown(context.Background())
		return err
	})
	return wg.Wait()
}
