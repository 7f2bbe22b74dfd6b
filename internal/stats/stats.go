// Package stats is the core's data-condition reporting surface:
// oversized/contradictory CSP components are absorbed rather than treated as
// errors, and counted here instead. Built on OpenTelemetry's metric API with
// a provider-wrapper shape, but backed by a manual reader so a synchronous
// caller can read counts back out within the same process rather than only
// exporting them.
package stats

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Provider owns the meter and instruments for one pipeline's lifetime.
type Provider struct {
	reader             *sdkmetric.ManualReader
	meter              metric.Meter
	componentsSkipped  metric.Int64Counter
	componentsEnumer   metric.Int64Counter
	iterationsRun      metric.Int64Counter
	cellsCommitted     metric.Int64Counter
	contradictionsSeen metric.Int64Counter
}

// NewProvider builds a Provider with its own isolated meter provider; it
// does not touch the global OTel meter provider, so multiple Grids/pipelines
// in the same process never share counters.
func NewProvider() *Provider {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := mp.Meter("minecore/pipeline")

	p := &Provider{reader: reader, meter: meter}

	p.componentsSkipped, _ = meter.Int64Counter("components_skipped",
		metric.WithDescription("CSP components skipped for exceeding max_component_size"))
	p.componentsEnumer, _ = meter.Int64Counter("components_enumerated",
		metric.WithDescription("CSP components fully enumerated"))
	p.iterationsRun, _ = meter.Int64Counter("iterations_run",
		metric.WithDescription("pipeline iterations completed"))
	p.cellsCommitted, _ = meter.Int64Counter("cells_committed",
		metric.WithDescription("cells written by the consolidated per-iteration commit"))
	p.contradictionsSeen, _ = meter.Int64Counter("contradictions_seen",
		metric.WithDescription("CSP components with zero valid assignments"))

	return p
}

func (p *Provider) RecordComponentSkipped(ctx context.Context)    { p.componentsSkipped.Add(ctx, 1) }
func (p *Provider) RecordComponentEnumerated(ctx context.Context) { p.componentsEnumer.Add(ctx, 1) }
func (p *Provider) RecordIterationRun(ctx context.Context)        { p.iterationsRun.Add(ctx, 1) }
func (p *Provider) RecordContradiction(ctx context.Context)       { p.contradictionsSeen.Add(ctx, 1) }

func (p *Provider) RecordCellsCommitted(ctx context.Context, n int) {
	if n <= 0 {
		return
	}
	p.cellsCommitted.Add(ctx, int64(n))
}

// Snapshot is the plain-struct view attached to an iteration's return value,
// for synchronous callers that don't want to stand up an OTel exporter.
type Snapshot struct {
	ComponentsSkipped    int64
	ComponentsEnumerated int64
	IterationsRun        int64
	CellsCommitted       int64
	ContradictionsSeen   int64
}

// Snapshot reads the current counter totals via the manual reader. Best
// effort: a read error yields a zero Snapshot rather than propagating, since
// stats are diagnostic and must never fail the pipeline.
func (p *Provider) Snapshot(ctx context.Context) Snapshot {
	var data metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &data); err != nil {
		return Snapshot{}
	}

	var out Snapshot
	for _, sm := range data.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			switch m.Name {
			case "components_skipped":
				out.ComponentsSkipped = total
			case "components_enumerated":
				out.ComponentsEnumerated = total
			case "iterations_run":
				out.IterationsRun = total
			case "cells_committed":
				out.CellsCommitted = total
			case "contradictions_seen":
				out.ContradictionsSeen = total
			}
		}
	}
	return out
}
