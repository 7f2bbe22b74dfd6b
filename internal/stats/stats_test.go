package stats_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kestrelbyte/minecore/internal/stats"
)

func TestProvider_RecordsAccumulate(t *testing.T) {
	ctx := context.Background()
	p := stats.NewProvider()

	p.RecordComponentSkipped(ctx)
	p.RecordComponentSkipped(ctx)
	p.RecordComponentEnumerated(ctx)
	p.RecordIterationRun(ctx)
	p.RecordCellsCommitted(ctx, 5)
	p.RecordContradiction(ctx)

	snap := p.Snapshot(ctx)
	assert.EqualValues(t, 2, snap.ComponentsSkipped)
	assert.EqualValues(t, 1, snap.ComponentsEnumerated)
	assert.EqualValues(t, 1, snap.IterationsRun)
	assert.EqualValues(t, 5, snap.CellsCommitted)
	assert.EqualValues(t, 1, snap.ContradictionsSeen)
}

func TestProvider_RecordCellsCommitted_IgnoresNonPositive(t *testing.T) {
	ctx := context.Background()
	p := stats.NewProvider()

	p.RecordCellsCommitted(ctx, 0)
	p.RecordCellsCommitted(ctx, -3)

	assert.EqualValues(t, 0, p.Snapshot(ctx).CellsCommitted)
}
