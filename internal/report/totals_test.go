package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dairyops/backend/internal/store"
)

func TestComputeTotalsEmpty(t *testing.T) {
	assert.Equal(t, Totals{}, ComputeTotals(nil))
	assert.Equal(t, Totals{}, ComputeTotals([]store.LineItem{}))
}

func TestComputeTotalsSumsWithAbsentAsZero(t *testing.T) {
	items := []store.LineItem{
		{
			Particulars: "Silo 1",
			QtyLtr:      store.MeasureOf(1000),
			QtyKg:       store.MeasureOf(1030),
			KgFat:       store.MeasureOf(45),
			KgSnf:       store.MeasureOf(85),
		},
		{
			Particulars: "Silo 2",
			QtyLtr:      store.MeasureOf(500),
			// QtyKg, KgFat, KgSnf left absent on purpose.
		},
	}

	got := ComputeTotals(items)
	assert.InDelta(t, 1500, got.QtyLtr, 1e-9)
	assert.InDelta(t, 1030, got.QtyKg, 1e-9)
	assert.InDelta(t, 45, got.KgFat, 1e-9)
	assert.InDelta(t, 85, got.KgSnf, 1e-9)
}

func TestComputeTotalsWeightedPercentages(t *testing.T) {
	items := []store.LineItem{
		{QtyLtr: store.MeasureOf(1000), KgFat: store.MeasureOf(45), KgSnf: store.MeasureOf(85)},
		{QtyLtr: store.MeasureOf(1000), KgFat: store.MeasureOf(35), KgSnf: store.MeasureOf(81)},
	}

	got := ComputeTotals(items)
	// 100 * 80 / 2000 and 100 * 166 / 2000.
	assert.InDelta(t, 4.0, got.AvgFat, 1e-9)
	assert.InDelta(t, 8.3, got.AvgSnf, 1e-9)
}

func TestComputeTotalsCLRWeightedByLitres(t *testing.T) {
	items := []store.LineItem{
		{QtyLtr: store.MeasureOf(300), CLR: store.MeasureOf(28)},
		{QtyLtr: store.MeasureOf(100), CLR: store.MeasureOf(32)},
		// No CLR reading: excluded from the mean entirely.
		{QtyLtr: store.MeasureOf(5000)},
	}

	got := ComputeTotals(items)
	// (300*28 + 100*32) / 400
	assert.InDelta(t, 29, got.CLR, 1e-9)
}

func TestComputeTotalsZeroLitresLeavesPercentagesZero(t *testing.T) {
	items := []store.LineItem{
		{Particulars: "Butter", QtyKg: store.MeasureOf(50), KgFat: store.MeasureOf(41)},
	}

	got := ComputeTotals(items)
	assert.Zero(t, got.AvgFat)
	assert.Zero(t, got.AvgSnf)
	assert.Zero(t, got.CLR)
	assert.InDelta(t, 50, got.QtyKg, 1e-9)
}
