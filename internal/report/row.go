package report

import (
	"math"
	"strconv"

	"dairyops/backend/internal/store"
)

// Width is the printed statement width in cells: two 8-cell halves.
const (
	Width     = 16
	HalfWidth = 8
)

// ColumnHeaders are the literal labels of the per-half header row.
var ColumnHeaders = [HalfWidth]string{
	"Particulars", "Qty (Ltr)", "Qty Kg's", "Avg Fat", "CLR", "Avg SNF", "Kg Fat", "Kg SNF",
}

// RowKind tags a whole statement row. The historical implementation
// inferred kinds by counting non-empty cells, separately and divergently
// in the CSV and HTML paths; here the kind is explicit and classifyRow
// is the single structural fallback for parsed input.
type RowKind int

const (
	KindBody RowKind = iota
	KindTitle
	KindDate
	KindHeader
)

// HalfKind tags one 8-cell half of a body row. The two halves are
// independent: a section header on the left can sit beside data on the
// right.
type HalfKind int

const (
	HalfBlank HalfKind = iota
	HalfSection
	HalfData
)

// Row is one printed statement row. Cells 0-7 are the left
// (procurement-side) half, cells 8-15 the right (production-side) half.
type Row struct {
	Kind  RowKind
	Left  HalfKind
	Right HalfKind
	Cells [Width]string
}

type half struct {
	kind  HalfKind
	cells [HalfWidth]string
}

func blankHalf() half {
	return half{kind: HalfBlank}
}

func sectionHalf(title string) half {
	h := half{kind: HalfSection}
	h.cells[0] = title
	return h
}

func dataHalf(it store.LineItem) half {
	h := half{kind: HalfData}
	h.cells = [HalfWidth]string{
		it.Particulars,
		formatMeasure(it.QtyLtr),
		formatMeasure(it.QtyKg),
		formatMeasure(it.AvgFat),
		formatMeasure(it.CLR),
		formatMeasure(it.AvgSnf),
		formatMeasure(it.KgFat),
		formatMeasure(it.KgSnf),
	}
	return h
}

func totalsHalf(label string, t Totals) half {
	h := half{kind: HalfData}
	h.cells = [HalfWidth]string{
		label,
		formatAmount(t.QtyLtr),
		formatAmount(t.QtyKg),
		formatAmount(round2(t.AvgFat)),
		formatAmount(round2(t.CLR)),
		formatAmount(round2(t.AvgSnf)),
		formatAmount(t.KgFat),
		formatAmount(t.KgSnf),
	}
	return h
}

// titleRow centers its text in the statement: by convention the text
// occupies cell 7, the rest stays blank.
func titleRow(text string) Row {
	r := Row{Kind: KindTitle}
	r.Cells[7] = text
	return r
}

// dateRow right-aligns its text: cell 15, rest blank.
func dateRow(text string) Row {
	r := Row{Kind: KindDate}
	r.Cells[15] = text
	return r
}

func headerRow() Row {
	r := Row{Kind: KindHeader}
	copy(r.Cells[:HalfWidth], ColumnHeaders[:])
	copy(r.Cells[HalfWidth:], ColumnHeaders[:])
	return r
}

func bodyRow(left, right half) Row {
	r := Row{Kind: KindBody, Left: left.kind, Right: right.kind}
	copy(r.Cells[:HalfWidth], left.cells[:])
	copy(r.Cells[HalfWidth:], right.cells[:])
	return r
}

// classifyRow reconstructs row and half kinds from bare cells. It is the
// structural counterpart of the tagged constructors above, used when
// parsing a statement back from CSV.
func classifyRow(cells [Width]string) Row {
	nonEmpty := 0
	for _, c := range cells {
		if c != "" {
			nonEmpty++
		}
	}
	switch {
	case nonEmpty == 1 && cells[7] != "":
		return Row{Kind: KindTitle, Cells: cells}
	case nonEmpty == 1 && cells[15] != "":
		return Row{Kind: KindDate, Cells: cells}
	case cells[0] == ColumnHeaders[0] && cells[HalfWidth] == ColumnHeaders[0]:
		return Row{Kind: KindHeader, Cells: cells}
	}
	var left, right [HalfWidth]string
	copy(left[:], cells[:HalfWidth])
	copy(right[:], cells[HalfWidth:])
	return Row{
		Kind:  KindBody,
		Left:  classifyHalf(left),
		Right: classifyHalf(right),
		Cells: cells,
	}
}

func classifyHalf(cells [HalfWidth]string) HalfKind {
	if cells[0] == "" {
		for _, c := range cells[1:] {
			if c != "" {
				return HalfData
			}
		}
		return HalfBlank
	}
	for _, c := range cells[1:] {
		if c != "" {
			return HalfData
		}
	}
	return HalfSection
}

func formatMeasure(m store.Measure) string {
	if !m.Valid {
		return ""
	}
	return formatAmount(m.Value)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
