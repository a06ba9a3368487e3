package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"path"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/soundsense-team/soundsense/internal/bench"
	"github.com/soundsense-team/soundsense/internal/config"
	"github.com/soundsense-team/soundsense/internal/engine"
	"github.com/soundsense-team/soundsense/internal/engine/factory"
	"github.com/soundsense-team/soundsense/internal/env"
	"github.com/soundsense-team/soundsense/internal/logger"
	"github.com/soundsense-team/soundsense/internal/manager"
	"github.com/soundsense-team/soundsense/internal/model"
	"github.com/soundsense-team/soundsense/internal/platform"
	httpserver "github.com/soundsense-team/soundsense/internal/server/http"
	"github.com/soundsense-team/soundsense/internal/service"
)

func main() {
	var (
		flagHTTPPort   = flag.Int("http-port", config.DefaultHTTPPort(), "HTTP port to listen on")
		flagConfigPath = flag.String("config", path.Join(config.DefaultConfigPath(), "config.yaml"), "Path to config file")
		flagSchemaPath = flag.String("schema", path.Join(config.DefaultConfigPath(), "soundsense.v1.schema.json"), "Path to schema file")
	)
	flag.Parse()

	environment := env.FromEnv()

	slog.SetDefault(
		logger.New(environment,
			logger.WithLogToFile(true),
			logger.WithLogFile("logs/soundsense.log"),
		),
	)

	ctx := context.Background()
	models := model.NewManager()

	watcher, err := config.NewWatcher(*flagConfigPath, *flagSchemaPath, func(cfg *config.Config, err error) {
		if err != nil {
			slog.Error("Failed to reload config", "error", err)
			return
		}

		if err := models.LoadModelsFromConfig(ctx, cfg); err != nil {
			slog.Error("Failed to load models from config", "error", err)
			return
		}
	})
	if err != nil {
		slog.Error("Failed to create config watcher", "error", err)
		return
	}

	cfg := watcher.Snapshot()
	if err := models.LoadModelsFromConfig(ctx, cfg); err != nil {
		slog.Error("Failed to load models from config", "error", err)
		return
	}

	slog.Info("Config loaded successfully", "config", *flagConfigPath, "schema", *flagSchemaPath)

	instance, ok := models.Registry().Get(cfg.Classify.Model)
	if !ok {
		slog.Error("Classify model not loaded", "model_id", cfg.Classify.Model)
		return
	}

	host := platform.Host{}
	engineFactory := factory.Bind(factory.Options{
		ModelDir: instance.Path,
		Platform: host,
		Engines:  cfg.Engines,
	})

	mgr := manager.New(engineFactory, host)
	defer func() {
		if err := mgr.Dispose(); err != nil {
			slog.Error("Failed to dispose inference engine", "error", err)
		}
	}()

	if err := mgr.Initialize(ctx, engine.Framework(cfg.Classify.Framework)); err != nil {
		slog.Error("Failed to initialize inference engine", "error", err)
		return
	}

	active, _ := mgr.CurrentFramework()
	slog.Info("Inference engine ready", "framework", active)

	classifier := service.NewClassifier(mgr, models.Registry(), cfg.Classify.Model)

	// Benchmark engines get their own sidecar supervisor and port;
	// sharing the live engine's server would make the harness measure
	// and dispose the sidecar the manager is actively using.
	benchEngines := cfg.Engines
	benchEngines.CoreML.Port = cfg.Engines.CoreML.BenchPortOrDefault()
	benchFactory := factory.Bind(factory.Options{
		ModelDir: instance.Path,
		Platform: host,
		Engines:  benchEngines,
	})
	harness := bench.NewHarness(benchFactory, cfg.Benchmark.WarmupOrDefault(), cfg.Benchmark.TrialsOrDefault())

	mux := http.NewServeMux()
	api := humago.New(mux, huma.DefaultConfig("soundsense", "1.0.0"))

	httpserver.NewClassifyHandler(api, classifier)
	httpserver.NewFrameworkHandler(api, mgr)
	httpserver.NewBenchmarkHandler(api, harness)

	addr := fmt.Sprintf(":%d", *flagHTTPPort)
	slog.Info("HTTP server listening", "addr", addr)

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("HTTP server stopped", "error", err)
	}
}
