package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dairyops/backend/internal/store"
)

func TestToPrintableHTMLLayout(t *testing.T) {
	byCat := map[store.Category][]store.LineItem{
		store.CategorySales: {
			{Particulars: "Retail pouch", QtyLtr: store.MeasureOf(600)},
		},
	}
	rows := Assemble(byCat, testDay, DefaultLayout, testCompany)

	page := ToPrintableHTML(rows, "Daily Report 2025-08-15")

	assert.Contains(t, page, "<title>Daily Report 2025-08-15</title>")
	// Title and date rows span the full statement width.
	assert.Contains(t, page, `colspan="16" style="`+cellStyle+` text-align:center; font-weight:600;">`+testCompany)
	assert.Contains(t, page, `text-align:right;">Dt:15.08.2025`)
	// Section headers span their half.
	assert.Contains(t, page, `<td colspan="8" style="`+sectionStyle+`">Sales</td>`)
	// Column headers render as header cells.
	assert.Contains(t, page, `<th style="`+headerStyle+`">Particulars</th>`)
	// Particulars left-aligned, quantities right-aligned.
	assert.Contains(t, page, `text-align:left;">Retail pouch</td>`)
	assert.Contains(t, page, `text-align:right;">600</td>`)
}

func TestToPrintableHTMLEscapesCells(t *testing.T) {
	item := store.LineItem{
		Particulars: `<script>alert("x")</script>`,
		QtyLtr:      store.MeasureOf(1),
	}
	rows := []Row{bodyRow(dataHalf(item), blankHalf())}

	page := ToPrintableHTML(rows, `A & B <dairy>`)

	assert.NotContains(t, page, "<script>")
	assert.Contains(t, page, "&lt;script&gt;")
	assert.Contains(t, page, "<title>A &amp; B &lt;dairy&gt;</title>")
}
