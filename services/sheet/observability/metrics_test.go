// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	require.NotNil(t, m)

	// Registering the same set twice must panic via MustRegister.
	assert.Panics(t, func() { NewMetrics(reg) })
}

func TestRecordEvent(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordEvent("cell_update", "applied")
	m.RecordEvent("cell_update", "applied")
	m.RecordEvent("cell_update", "dropped")

	applied := testutil.ToFloat64(m.EventsTotal.WithLabelValues("cell_update", "applied"))
	dropped := testutil.ToFloat64(m.EventsTotal.WithLabelValues("cell_update", "dropped"))
	assert.Equal(t, 2.0, applied)
	assert.Equal(t, 1.0, dropped)
}

func TestRecordBroadcast(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordBroadcast("cell_updated")
	assert.Equal(t, 1.0,
		testutil.ToFloat64(m.BroadcastsTotal.WithLabelValues("cell_updated")))
}

func TestConnectionGaugeAndDrops(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ActiveConnections.Inc()
	m.ActiveConnections.Inc()
	m.ActiveConnections.Dec()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveConnections))

	m.DroppedSendsTotal.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DroppedSendsTotal))
}
