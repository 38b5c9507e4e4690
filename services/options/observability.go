// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package options

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// optionsTracerName is the shared OTel tracer name for the resolution engine.
const optionsTracerName = "crmbridge.options"

// Package-level Prometheus metrics for attribute resolution.
// Auto-registered via promauto so no explicit registry wiring is needed.
var (
	// resolutionTotal counts resolution calls by final outcome.
	//
	// Labels:
	//   - attribute: the logical attribute wire name
	//   - outcome: "ok", "ok_defaults", "no_session", "exhausted"
	resolutionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crmbridge",
			Subsystem: "options",
			Name:      "resolution_total",
			Help:      "Attribute resolution calls by final outcome.",
		},
		[]string{"attribute", "outcome"},
	)

	// strategyAttemptsTotal counts individual strategy-tier attempts.
	//
	// Labels:
	//   - kind: strategy kind (resource_read, rpc_list, ...)
	//   - outcome: candidates, empty, doctype_missing, transport_error
	strategyAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crmbridge",
			Subsystem: "options",
			Name:      "strategy_attempts_total",
			Help:      "Strategy tier attempts by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	// resolutionDuration measures end-to-end resolution latency. Dropdown
	// population is user-triggered and low frequency, so the buckets skew
	// toward whole seconds.
	resolutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crmbridge",
			Subsystem: "options",
			Name:      "resolution_duration_seconds",
			Help:      "End-to-end attribute resolution latency in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"attribute"},
	)
)
