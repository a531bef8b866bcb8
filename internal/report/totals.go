package report

import "dairyops/backend/internal/store"

// Totals is the derived aggregate over a run of line items. It is never
// persisted; every report request recomputes it.
type Totals struct {
	QtyLtr float64
	QtyKg  float64
	AvgFat float64
	CLR    float64
	AvgSnf float64
	KgFat  float64
	KgSnf  float64
}

// ComputeTotals sums the quantity fields and derives the composition
// fields. Absent values contribute 0; an empty input yields the all-zero
// record.
//
// Avg Fat and Avg SNF are weighted, not summed: 100 * total kg over
// total litres. CLR is the litre-weighted mean over items that carry a
// reading. Summing percentages across line items, as some historical
// report versions did, is physically meaningless; the deviation is
// deliberate and pending product sign-off (see DESIGN.md).
func ComputeTotals(items []store.LineItem) Totals {
	var t Totals
	var clrSum, clrWeight float64
	for _, it := range items {
		t.QtyLtr += it.QtyLtr.Value
		t.QtyKg += it.QtyKg.Value
		t.KgFat += it.KgFat.Value
		t.KgSnf += it.KgSnf.Value
		if it.CLR.Valid && it.QtyLtr.Valid {
			clrSum += it.CLR.Value * it.QtyLtr.Value
			clrWeight += it.QtyLtr.Value
		}
	}
	if t.QtyLtr > 0 {
		t.AvgFat = 100 * t.KgFat / t.QtyLtr
		t.AvgSnf = 100 * t.KgSnf / t.QtyLtr
	}
	if clrWeight > 0 {
		t.CLR = clrSum / clrWeight
	}
	return t
}
