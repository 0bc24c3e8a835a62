package main

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestRun_PrintsSummaryAndMetrics(t *testing.T) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--n", "20", "--partition", "4", "--fail-every", "5", "--sleep", "1ms", "--fixed", "2"})
	t.Cleanup(func() { cmd.SetArgs(nil) })

	require.NoError(t, cmd.Execute())

	s := out.String()
	require.Contains(t, s, "completed: 20")
	require.Contains(t, s, "failed:    4")
	require.Contains(t, s, "parfor_partitions_total 5")
	require.Contains(t, s, "parfor_units_errors_total 4")
	require.Contains(t, s, "parfor_unit_duration_seconds_count 20")
}

func TestPrintMetrics_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printMetrics(&out, prometheus.NewRegistry()))
	require.Equal(t, "\nmetrics:\n", out.String())
}
