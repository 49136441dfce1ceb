package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Roelanb/organize/internal/actions"
	"github.com/Roelanb/organize/internal/api"
	"github.com/Roelanb/organize/internal/config"
	"github.com/Roelanb/organize/internal/dispatch"
	"github.com/Roelanb/organize/internal/metadata"
	"github.com/Roelanb/organize/internal/observability"
	"github.com/Roelanb/organize/internal/rules"
	"github.com/Roelanb/organize/internal/store"
)

var (
	configPath = flag.String("config", defaultConfigPath(), "Path to config JSON file")
	logLevel   = flag.String("log-level", observability.EnvLogLevel("info"), "Log level: debug|info|warn|error")
	apiAddr    = flag.String("api-addr", "127.0.0.1:8087", "Control API listen address")
)

// Version injected at build time with: -ldflags "-X 'main.version=1.2.3'"
var version = "dev"

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "organize.json"
	}
	return filepath.Join(home, ".organize", "config.json")
}

type controlPlane struct {
	store   store.Store
	manager *dispatch.Manager
}

func (c *controlPlane) Rules() ([]rules.Rule, error) {
	return c.store.ListRules()
}

func (c *controlPlane) SaveRule(ctx context.Context, raw []byte) error {
	var r rules.Rule
	if err := json.Unmarshal(raw, &r); err != nil {
		return fmt.Errorf("parse rule: %w", err)
	}
	if err := rules.Validate(&r); err != nil {
		return err
	}
	if err := c.store.SaveRule(&r); err != nil {
		return err
	}
	return c.manager.ApplyRules(ctx)
}

func (c *controlPlane) DeleteRule(ctx context.Context, id string) error {
	if err := c.store.DeleteRule(id); err != nil {
		return err
	}
	return c.manager.ApplyRules(ctx)
}

func (c *controlPlane) Runs(limit int) ([]store.Run, error) {
	return c.store.RecentRuns(limit)
}

func (c *controlPlane) Preview(ctx context.Context, path string) (*rules.Rule, []actions.ActionResult, error) {
	return c.manager.Preview(ctx, path)
}

func (c *controlPlane) Reload(ctx context.Context) error {
	return c.manager.ApplyRules(ctx)
}

func main() {
	flag.Parse()

	logger := observability.NewLogger(*logLevel)
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.Load(*configPath)
	if errors.Is(err, os.ErrNotExist) {
		// First run: write the defaults so the user has a file to edit.
		cfg, err = config.Parse([]byte(`{}`))
		if err == nil {
			err = config.Save(*configPath, cfg)
		}
		if err == nil {
			logger.Infow("wrote default config", "path", *configPath)
		}
	}
	if err != nil {
		logger.Errorw("failed to load config", "path", *configPath, "error", err)
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	provider := config.NewProvider(*configPath, cfg)
	logger.Infow("config loaded", "path", *configPath, "version", version)

	statePath := cfg.Runtime.StateDbPath
	if statePath == "" {
		statePath = filepath.Join(filepath.Dir(*configPath), "state.db")
	}
	st, err := store.Open(statePath)
	if err != nil {
		logger.Errorw("failed to open store", "path", statePath, "error", err)
		fmt.Fprintf(os.Stderr, "Store error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	manager := dispatch.NewManager(
		observability.Component(logger, "dispatch"),
		st, provider, metadata.OSACapturer{},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := manager.ApplyRules(ctx); err != nil {
		logger.Errorw("failed to start folder watchers", "error", err)
		fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
		os.Exit(1)
	}

	ctrl := &controlPlane{store: st, manager: manager}
	apiSrv := api.New(observability.Component(logger, "api"), ctrl, *apiAddr)
	if err := apiSrv.Start(ctx); err != nil {
		logger.Errorw("failed to start api server", "addr", *apiAddr, "error", err)
		fmt.Fprintf(os.Stderr, "API error: %v\n", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Infow("signal received, shutting down", "signal", sig.String())

	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	_ = apiSrv.Shutdown(shCtx)

	// Stop accepting events; in-flight chains drain to completion.
	manager.Stop()
	cancel()

	logger.Infow("shutdown complete")
}
