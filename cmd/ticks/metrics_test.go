package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/delaneyj/ticksignals/tick"
	"github.com/delaneyj/ticksignals/tickprom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMetricsAfterObserve(t *testing.T) {
	m := tick.New()
	c := tickprom.NewCollector(m, tickprom.WithNamespace("ticks"))
	require.NoError(t, runObserve(io.Discard, m, 3))
	c.Sample()

	var out bytes.Buffer
	require.NoError(t, writeMetrics(&out, c))

	got := out.String()
	assert.Contains(t, got, "# TYPE ticks_advances_total counter\n")
	assert.Contains(t, got, "ticks_advances_total 3\n")
	assert.Contains(t, got, "ticks_dispatches_total 6\n")
	assert.Contains(t, got, "ticks_signals 2\n")
	assert.Contains(t, got, "ticks_bindings 0\n")
}
