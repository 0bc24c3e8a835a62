package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ygrebnov/parfor"
	"github.com/ygrebnov/parfor/metrics"
)

var (
	cmd = &cobra.Command{
		Use:   "parbench",
		Short: "parbench runs a synthetic partitioned loop and reports its metrics",
		Args:  cobra.NoArgs,
		RunE:  run,
	}
	// arguments
	n         int
	partition uint
	timeout   time.Duration
	fixed     uint
	failEvery int
	sleep     time.Duration
	verbose   bool
)

func init() {
	cmd.Flags().IntVar(&n, "n", 1000, "Number of loop values, the loop covers [0, n)")
	cmd.Flags().UintVar(&partition, "partition", 0, "Values per partition (0 selects the number of logical CPUs)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-partition wait bound (0 waits without bound)")
	cmd.Flags().UintVar(&fixed, "fixed", 0, "Run on a fixed pool of this many workers (0 starts a goroutine per value)")
	cmd.Flags().IntVar(&failEvery, "fail-every", 0, "Make every n-th value fail (0 disables failures)")
	cmd.Flags().DurationVar(&sleep, "sleep", time.Millisecond, "Time each value spends in the loop body")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log partition events to stderr")
}

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(c *cobra.Command, _ []string) error {
	reg := prometheus.NewRegistry()

	var handler slog.Handler = slog.NewTextHandler(io.Discard, nil)
	if verbose {
		handler = slog.NewTextHandler(c.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	opts := []parfor.Option{
		parfor.WithMetrics(metrics.NewPrometheusProvider(reg)),
		parfor.WithLogger(slog.New(handler)),
		parfor.WithPreserveOrder(),
	}
	if partition > 0 {
		opts = append(opts, parfor.WithPartitionSize(partition))
	}
	if timeout > 0 {
		opts = append(opts, parfor.WithTimeout(timeout))
	}
	if fixed > 0 {
		opts = append(opts, parfor.WithFixedPool(fixed))
	}

	start := time.Now()
	agg, err := parfor.MapRange(c.Context(), parfor.Upto(0, n), func(ctx context.Context, v int) (time.Duration, error) {
		began := time.Now()
		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
		if failEvery > 0 && (v+1)%failEvery == 0 {
			return 0, fmt.Errorf("value %d: synthetic failure", v)
		}
		return time.Since(began), nil
	}, opts...)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	durations := agg.Results()
	out := c.OutOrStdout()
	_, _ = fmt.Fprintf(out, "values:    %d\n", n)
	_, _ = fmt.Fprintf(out, "completed: %d\n", agg.Completed())
	_, _ = fmt.Fprintf(out, "failed:    %d\n", len(agg.Errors()))
	_, _ = fmt.Fprintf(out, "elapsed:   %s\n", elapsed)
	if len(durations) > 0 {
		total := lo.Sum(durations)
		_, _ = fmt.Fprintf(out, "body mean: %s\n", total/time.Duration(len(durations)))
		_, _ = fmt.Fprintf(out, "body max:  %s\n", lo.Max(durations))
		_, _ = fmt.Fprintf(out, "speedup:   %.2fx\n", float64(total)/float64(elapsed))
	}

	return printMetrics(out, reg)
}

// printMetrics writes one line per gathered series.
func printMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	sort.Slice(families, func(i, j int) bool { return families[i].GetName() < families[j].GetName() })

	_, _ = fmt.Fprintln(w, "\nmetrics:")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				_, _ = fmt.Fprintf(w, "  %s %g\n", mf.GetName(), m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				_, _ = fmt.Fprintf(w, "  %s %g\n", mf.GetName(), m.GetGauge().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				_, _ = fmt.Fprintf(w, "  %s_count %d\n", mf.GetName(), h.GetSampleCount())
				_, _ = fmt.Fprintf(w, "  %s_sum %g\n", mf.GetName(), h.GetSampleSum())
			}
		}
	}
	return nil
}
