// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry provides OpenTelemetry-based observability for dictgen.
//
// Generation runs are short-lived CLI invocations, so both exporters default
// to "none". Enabling them is a flag or environment variable away.
//
// # Traces
//
// Each keyword job runs inside a "dictgen.keyword" span; a run is the parent
// "dictgen.run" span. Exporters: otlp (gRPC), stdout, none.
//
// # Metrics
//
//   - dictgen_lines_emitted_total: strings written to the sink
//   - dictgen_keywords_total{status}: finished keyword jobs by status
//   - dictgen_keyword_duration_seconds: wall time per keyword job
//   - dictgen_sink_errors_total: fatal append failures
//
// Exporters: prometheus (served by ServeMetrics), stdout, none.
//
// # Usage
//
//	shutdown, err := telemetry.Init(ctx, cfg)
//	if err != nil {
//	    return fmt.Errorf("init telemetry: %w", err)
//	}
//	defer shutdown(context.Background())
//
//	metrics, err := telemetry.NewMetrics(otel.Meter("dictgen"))
//
// # Environment Variables
//
//   - OTEL_TRACES_EXPORTER: otlp, stdout, or none (default: none)
//   - OTEL_METRICS_EXPORTER: prometheus, stdout, or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint (default: localhost:4317)
//   - DICTGEN_ENV: environment name (default: development)
package telemetry
