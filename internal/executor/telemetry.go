package executor

import (
	"context"
	"sync"
	"time"

	"github.com/specialistvlad/pargrid/internal/ctxlog"
	"github.com/specialistvlad/pargrid/internal/dag"
	"github.com/specialistvlad/pargrid/internal/node"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = otel.Tracer("pargrid.executor")
	meter  = otel.Meter("pargrid.executor")
)

var (
	nodeLatency   metric.Float64Histogram
	nodeSuccesses metric.Int64Counter
	nodeFailures  metric.Int64Counter
	nodeSkips     metric.Int64Counter
	activeNodes   metric.Int64UpDownCounter

	metricsOnce sync.Once
)

// initMetrics lazily creates the instruments. Failures are logged and the
// affected instruments stay disabled.
func initMetrics(ctx context.Context) {
	metricsOnce.Do(func() {
		var initErrors []string
		var err error

		nodeLatency, err = meter.Float64Histogram("pargrid_node_duration_seconds",
			metric.WithDescription("Time spent evaluating each node"),
			metric.WithUnit("s"),
		)
		if err != nil {
			initErrors = append(initErrors, "node_duration: "+err.Error())
		}

		nodeSuccesses, err = meter.Int64Counter("pargrid_nodes_succeeded_total",
			metric.WithDescription("Number of nodes that completed"),
		)
		if err != nil {
			initErrors = append(initErrors, "nodes_succeeded: "+err.Error())
		}

		nodeFailures, err = meter.Int64Counter("pargrid_nodes_failed_total",
			metric.WithDescription("Number of nodes whose evaluation failed"),
		)
		if err != nil {
			initErrors = append(initErrors, "nodes_failed: "+err.Error())
		}

		nodeSkips, err = meter.Int64Counter("pargrid_nodes_skipped_total",
			metric.WithDescription("Number of nodes skipped due to an upstream failure"),
		)
		if err != nil {
			initErrors = append(initErrors, "nodes_skipped: "+err.Error())
		}

		activeNodes, err = meter.Int64UpDownCounter("pargrid_nodes_active",
			metric.WithDescription("Number of nodes currently being evaluated"),
		)
		if err != nil {
			initErrors = append(initErrors, "nodes_active: "+err.Error())
		}

		if len(initErrors) > 0 {
			ctxlog.FromContext(ctx).Error("Failed to initialize some executor metrics.",
				"failed_count", len(initErrors),
				"errors", initErrors,
			)
		}
	})
}

func recordOutcome(ctx context.Context, n *dag.Node, status node.Status, d time.Duration) {
	attrs := metric.WithAttributes(attribute.String("node.kind", n.Kind().String()))
	switch status {
	case node.Done:
		if nodeSuccesses != nil {
			nodeSuccesses.Add(ctx, 1, attrs)
		}
	case node.Failed:
		if nodeFailures != nil {
			nodeFailures.Add(ctx, 1, attrs)
		}
	case node.Skipped:
		if nodeSkips != nil {
			nodeSkips.Add(ctx, 1, attrs)
		}
		return
	}
	if nodeLatency != nil {
		nodeLatency.Record(ctx, d.Seconds(), attrs)
	}
}

func trackActive(ctx context.Context, delta int64) {
	if activeNodes != nil {
		activeNodes.Add(ctx, delta)
	}
}
