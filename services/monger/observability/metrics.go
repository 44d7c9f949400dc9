// Copyright (C) 2026 Monger HQ (ops@mongerhq.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the monger
// service: turn outcomes, fallbacks, model latency/tokens, and
// referral lookup outcomes. Exposed via the /metrics endpoint.
//
// All metric operations are thread-safe via Prometheus's internal
// locking.
package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "monger"

// Metrics holds all Prometheus metrics for the monger service.
// Initialize once at startup via NewMetrics.
type Metrics struct {
	// TurnsTotal counts dialogue turns by outcome.
	// Labels: status (success, fallback)
	TurnsTotal *prometheus.CounterVec

	// FallbacksTotal counts fallback turns by cause.
	// Labels: reason (llm_error, bad_json, missing_fields)
	FallbacksTotal *prometheus.CounterVec

	// LLMLatencySeconds measures completion call latency.
	LLMLatencySeconds prometheus.Histogram

	// LLMTokensTotal counts tokens reported by the model backend.
	LLMTokensTotal prometheus.Counter

	// ReferralLookupsTotal counts referral resolutions.
	// Labels: result (direct, friend_of, not_found), method (name, email, phone, none)
	ReferralLookupsTotal *prometheus.CounterVec
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// NewMetrics returns the process-wide metrics set. promauto registers
// with the default registry, so construction happens exactly once.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			TurnsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: metricsNamespace,
					Subsystem: "dialogue",
					Name:      "turns_total",
					Help:      "Dialogue turns by outcome",
				},
				[]string{"status"},
			),
			FallbacksTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: metricsNamespace,
					Subsystem: "dialogue",
					Name:      "fallbacks_total",
					Help:      "Fallback turns by cause",
				},
				[]string{"reason"},
			),
			LLMLatencySeconds: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: metricsNamespace,
					Subsystem: "llm",
					Name:      "latency_seconds",
					Help:      "Completion call latency",
					Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
				},
			),
			LLMTokensTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: metricsNamespace,
					Subsystem: "llm",
					Name:      "tokens_total",
					Help:      "Tokens reported by the model backend",
				},
			),
			ReferralLookupsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: metricsNamespace,
					Subsystem: "referrals",
					Name:      "lookups_total",
					Help:      "Referral resolutions by result and method",
				},
				[]string{"result", "method"},
			),
		}
	})
	return metrics
}

// RecordTurn records one completed dialogue turn.
func (m *Metrics) RecordTurn(fallback bool) {
	status := "success"
	if fallback {
		status = "fallback"
	}
	m.TurnsTotal.WithLabelValues(status).Inc()
}

// RecordFallback records the cause of a fallback turn.
func (m *Metrics) RecordFallback(reason string) {
	m.FallbacksTotal.WithLabelValues(reason).Inc()
}

// RecordLLMCall records latency and token usage of a completion call.
func (m *Metrics) RecordLLMCall(latencySeconds float64, tokens int) {
	m.LLMLatencySeconds.Observe(latencySeconds)
	if tokens > 0 {
		m.LLMTokensTotal.Add(float64(tokens))
	}
}

// RecordReferralLookup records a referral resolution outcome.
func (m *Metrics) RecordReferralLookup(result, method string) {
	if method == "" {
		method = "none"
	}
	m.ReferralLookupsTotal.WithLabelValues(result, method).Inc()
}
