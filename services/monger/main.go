// Copyright (C) 2026 Monger HQ (ops@mongerhq.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/mongerhq/monger/pkg/logging"
	"github.com/mongerhq/monger/services/llm"
	"github.com/mongerhq/monger/services/monger/character"
	"github.com/mongerhq/monger/services/monger/config"
	"github.com/mongerhq/monger/services/monger/dialogue"
	"github.com/mongerhq/monger/services/monger/observability"
	"github.com/mongerhq/monger/services/monger/routes"
	"github.com/mongerhq/monger/services/referrals"
)

// initTracer installs a stdout span exporter when tracing is enabled.
// Without it the otel API no-ops, which is the default.
func initTracer() (func(context.Context), error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(provider)

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown trace provider", "error", err)
		}
	}, nil
}

func main() {
	cfg, err := config.Load(os.Getenv("MONGER_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Log.Level),
		LogDir:  cfg.Log.Dir,
		Service: "monger",
		JSON:    true,
	})
	defer logger.Close()
	logger.Install()

	if cfg.Tracing {
		cleanup, err := initTracer()
		if err != nil {
			log.Fatalf("failed to setup the tracer: %v", err)
		}
		defer cleanup(context.Background())
	}

	// The character definition is not optional.
	characterCfg, err := character.Load(cfg.Data.CharacterPath)
	if err != nil {
		log.Fatalf("failed to load character config: %v", err)
	}
	slog.Info("character loaded", "name", characterCfg.Identity.Name)

	// Referral data is best-effort; an empty network degrades lookups
	// to not-found.
	network := referrals.Load(cfg.Data.ReferralsPath)
	if cfg.Data.WatchReferrals {
		watcher, err := referrals.Watch(network)
		if err != nil {
			slog.Warn("referral watcher unavailable", "error", err)
		} else {
			defer watcher.Close()
		}
	}

	stats := llm.NewCallStats(llm.DefaultStatsCapacity)
	client, err := llm.NewClient(llm.BackendConfig{
		Backend: cfg.LLM.Backend,
		OpenAI: llm.OpenAIConfig{
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		},
		SidecarURL:     cfg.LLM.SidecarURL,
		SidecarTimeout: cfg.LLM.SidecarTimeout,
	}, stats)
	if err != nil {
		log.Fatalf("failed to create the LLM client: %v", err)
	}
	slog.Info("llm backend ready", "provider", client.ProviderName(), "model", client.ModelName())

	metrics := observability.NewMetrics()
	orch := dialogue.NewOrchestrator(client, characterCfg, metrics)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(otelgin.Middleware("monger-service"))
	routes.SetupRoutes(router, routes.Deps{
		Version:      cfg.Version,
		LLM:          client,
		Stats:        stats,
		Character:    characterCfg,
		Orchestrator: orch,
		Network:      network,
		Metrics:      metrics,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	slog.Info("monger service listening", "addr", addr, "version", cfg.Version)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
