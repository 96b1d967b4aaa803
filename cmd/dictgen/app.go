// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AleutianAI/dictgen/cmd/dictgen/config"
	"github.com/AleutianAI/dictgen/pkg/logging"
	"github.com/AleutianAI/dictgen/pkg/ux"
	"github.com/AleutianAI/dictgen/services/dictgen/telemetry"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
)

// app holds the per-invocation runtime shared by the commands.
type app struct {
	cfg     config.DictgenConfig
	log     *logging.Logger
	metrics *telemetry.Metrics

	shutdownTelemetry func(context.Context) error
	stopMetrics       context.CancelFunc
}

// newApp loads configuration, applies global flag overrides and starts
// logging and telemetry. The caller must Close the returned app.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	applyGlobalFlags(cmd, &cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	ux.InitPersonality(cfg.Personality)

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg: cfg,
		log: logging.New(logging.Config{
			Level:  level,
			LogDir: cfg.Logging.Dir,
			JSON:   cfg.Logging.JSON,
			Output: cmd.ErrOrStderr(),
		}),
	}

	cfg.Telemetry.ServiceVersion = version
	shutdown, err := telemetry.Init(cmd.Context(), cfg.Telemetry)
	if err != nil {
		a.log.Warn("telemetry disabled", "error", err)
	} else {
		a.shutdownTelemetry = shutdown
	}

	a.metrics, err = telemetry.NewMetrics(otel.Meter(telemetry.TracerName))
	if err != nil {
		a.log.Warn("metrics disabled", "error", err)
	}

	if cfg.MetricsAddr != "" {
		ctx, cancel := context.WithCancel(context.Background())
		addr, _, err := telemetry.ServeMetrics(ctx, cfg.MetricsAddr)
		if err != nil {
			cancel()
			a.log.Warn("metrics endpoint disabled", "addr", cfg.MetricsAddr, "error", err)
		} else {
			a.stopMetrics = cancel
			a.log.Info("serving metrics", "addr", addr.String())
		}
	}
	return a, nil
}

// applyGlobalFlags overlays persistent flags that were set explicitly.
func applyGlobalFlags(cmd *cobra.Command, cfg *config.DictgenConfig) {
	flags := cmd.Flags()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if flags.Changed("log-dir") {
		cfg.Logging.Dir = logDir
	}
	if flags.Changed("log-json") {
		cfg.Logging.JSON = logJSON
	}
	if flags.Changed("personality") {
		cfg.Personality = personalityLevel
	}
	if flags.Changed("trace-exporter") {
		cfg.Telemetry.TraceExporter = traceExporter
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = metricsAddr
	}
	if cfg.MetricsAddr != "" {
		cfg.Telemetry.MetricExporter = telemetry.ExporterPrometheus
	}
}

// Close flushes telemetry and closes the log file.
func (a *app) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.shutdownTelemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.shutdownTelemetry(ctx); err != nil {
			errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
		}
		cancel()
	}
	if a.stopMetrics != nil {
		a.stopMetrics()
	}
	if err := a.log.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
