// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the sheet service.
//
// Metrics are exposed via the /metrics endpoint. All operations are
// thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "aleutian"
const sheetSubsystem = "sheet"

// Metrics holds all Prometheus metrics for the collaboration core.
// Initialize once at startup via NewMetrics().
type Metrics struct {
	// EventsTotal counts inbound websocket events by event name and outcome.
	// Labels: event, outcome (applied, dropped)
	EventsTotal *prometheus.CounterVec

	// BroadcastsTotal counts outbound broadcast messages by event name.
	BroadcastsTotal *prometheus.CounterVec

	// DroppedSendsTotal counts messages discarded because a client's
	// outbound queue was full. Fan-out never blocks the document.
	DroppedSendsTotal prometheus.Counter

	// ActiveConnections tracks currently open websocket connections.
	ActiveConnections prometheus.Gauge

	// ApplyDurationSeconds measures how long a mutating event holds the
	// document critical section. Labels: event
	ApplyDurationSeconds *prometheus.HistogramVec
}

// NewMetrics creates and registers the metric set on reg. Tests pass a
// fresh prometheus.NewRegistry() to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: sheetSubsystem,
			Name:      "events_total",
			Help:      "Inbound collaboration events by name and outcome.",
		}, []string{"event", "outcome"}),
		BroadcastsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: sheetSubsystem,
			Name:      "broadcasts_total",
			Help:      "Outbound broadcast messages by event name.",
		}, []string{"event"}),
		DroppedSendsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: sheetSubsystem,
			Name:      "dropped_sends_total",
			Help:      "Messages dropped because a client queue was full.",
		}),
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: sheetSubsystem,
			Name:      "active_connections",
			Help:      "Currently open websocket connections.",
		}),
		ApplyDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: sheetSubsystem,
			Name:      "apply_duration_seconds",
			Help:      "Time spent applying a mutating event under the document lock.",
			Buckets:   prometheus.ExponentialBuckets(0.000_01, 4, 10),
		}, []string{"event"}),
	}

	reg.MustRegister(
		m.EventsTotal,
		m.BroadcastsTotal,
		m.DroppedSendsTotal,
		m.ActiveConnections,
		m.ApplyDurationSeconds,
	)
	return m
}

// RecordEvent counts one inbound event outcome.
func (m *Metrics) RecordEvent(event, outcome string) {
	m.EventsTotal.WithLabelValues(event, outcome).Inc()
}

// RecordBroadcast counts one outbound broadcast fan-out.
func (m *Metrics) RecordBroadcast(event string) {
	m.BroadcastsTotal.WithLabelValues(event).Inc()
}
