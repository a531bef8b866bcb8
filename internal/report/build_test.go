package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dairyops/backend/internal/store"
)

type stubFetcher struct {
	data map[store.Category][]store.LineItem
	err  error
}

func (f *stubFetcher) FetchCategory(_ context.Context, cat store.Category, _ int64, _ time.Time) ([]store.LineItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data[cat], nil
}

var testDay = time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC)

const testCompany = "Sri Chakra Milk Products - Avapadu"

func TestAssembleEmptyStore(t *testing.T) {
	rows := Assemble(nil, testDay, DefaultLayout, testCompany)

	// 3 titles + date + header, then one body row per half of the longer
	// column (6 right blocks, 3 halves each), then the grand-total row.
	require.Len(t, rows, 24)

	assert.Equal(t, KindTitle, rows[0].Kind)
	assert.Equal(t, testCompany, rows[0].Cells[7])
	assert.Equal(t, KindTitle, rows[1].Kind)
	assert.Equal(t, "Material Balance Statement for the Month of Aug'2025", rows[1].Cells[7])
	assert.Equal(t, KindTitle, rows[2].Kind)
	assert.Equal(t, "Statement for the Day", rows[2].Cells[7])
	assert.Equal(t, KindDate, rows[3].Kind)
	assert.Equal(t, "Dt:15.08.2025", rows[3].Cells[15])
	assert.Equal(t, KindHeader, rows[4].Kind)
	assert.Equal(t, "Particulars", rows[4].Cells[0])
	assert.Equal(t, "Particulars", rows[4].Cells[8])

	// First body row: both sides open with their first section header.
	assert.Equal(t, HalfSection, rows[5].Left)
	assert.Equal(t, "Opening Stock", rows[5].Cells[0])
	assert.Equal(t, HalfSection, rows[5].Right)
	assert.Equal(t, "Sales", rows[5].Cells[8])

	// Empty blocks still print a zero totals line, never a blank one.
	assert.Equal(t, "TOTAL", rows[6].Cells[0])
	for i := 1; i < HalfWidth; i++ {
		assert.Equal(t, "0", rows[6].Cells[i])
	}

	grand := rows[len(rows)-1]
	assert.Equal(t, KindBody, grand.Kind)
	assert.Equal(t, "TOTAL", grand.Cells[0])
	assert.Equal(t, "TOTAL", grand.Cells[8])
	for _, i := range []int{1, 2, 3, 4, 5, 6, 7, 9, 10, 11, 12, 13, 14, 15} {
		assert.Equal(t, "0", grand.Cells[i])
	}
}

func TestAssembleSingleOpeningStockRow(t *testing.T) {
	byCat := map[store.Category][]store.LineItem{
		store.CategoryOpeningStock: {
			{
				Section:     store.SectionOpeningStock,
				Particulars: "Silo stock",
				QtyLtr:      store.MeasureOf(100),
				KgFat:       store.MeasureOf(4),
			},
		},
	}

	rows := Assemble(byCat, testDay, DefaultLayout, testCompany)

	// Left column grows by one data half; the right column still decides
	// the body length.
	require.Len(t, rows, 24)

	data := rows[6]
	assert.Equal(t, HalfData, data.Left)
	assert.Equal(t, "Silo stock", data.Cells[0])
	assert.Equal(t, "100", data.Cells[1])
	assert.Equal(t, "4", data.Cells[6])
	assert.Equal(t, "", data.Cells[2])

	blockTotal := rows[7]
	assert.Equal(t, "TOTAL", blockTotal.Cells[0])
	assert.Equal(t, "100", blockTotal.Cells[1])
	assert.Equal(t, "4", blockTotal.Cells[6])
	// 100 * 4 kg fat over 100 litres.
	assert.Equal(t, "4", blockTotal.Cells[3])

	grand := rows[len(rows)-1]
	assert.Equal(t, "100", grand.Cells[1])
	assert.Equal(t, "4", grand.Cells[6])
	// The right side stays all zero.
	assert.Equal(t, "0", grand.Cells[9])
}

func TestAssemblePadsShorterColumn(t *testing.T) {
	items := make([]store.LineItem, 10)
	for i := range items {
		items[i] = store.LineItem{
			Section:     store.SectionTankerTransaction,
			Particulars: "Tanker",
			QtyLtr:      store.MeasureOf(float64(100 * (i + 1))),
		}
	}
	byCat := map[store.Category][]store.LineItem{
		store.CategoryOpeningStock: items,
	}

	rows := Assemble(byCat, testDay, DefaultLayout, testCompany)

	// Left column: 4 blocks, one carrying 10 data halves, gives 22 halves
	// against 18 on the right.
	require.Len(t, rows, 28)

	for _, r := range rows[23 : len(rows)-1] {
		assert.Equal(t, HalfBlank, r.Right)
		for i := HalfWidth; i < Width; i++ {
			assert.Equal(t, "", r.Cells[i])
		}
	}
}

func TestAssembleDeterministic(t *testing.T) {
	byCat := map[store.Category][]store.LineItem{
		store.CategorySales: {
			{Particulars: "Retail", QtyLtr: store.MeasureOf(800), KgFat: store.MeasureOf(33.6)},
		},
		store.CategoryProducts: {
			{Particulars: "Curd", QtyKg: store.MeasureOf(120)},
		},
	}

	first := Assemble(byCat, testDay, DefaultLayout, testCompany)
	second := Assemble(byCat, testDay, DefaultLayout, testCompany)
	assert.Equal(t, first, second)
}

func TestBuildDailyFetchFailureAborts(t *testing.T) {
	f := &stubFetcher{err: errors.New("connection refused")}

	rows, err := BuildDaily(context.Background(), f, 7, testDay, DefaultLayout, testCompany)
	require.Error(t, err)
	assert.Nil(t, rows)
}

func TestBuildDailyFetchesEveryCategory(t *testing.T) {
	byCat := map[store.Category][]store.LineItem{
		store.CategoryWaitingTanker: {
			{Particulars: "TN09 route", QtyLtr: store.MeasureOf(4500)},
		},
	}
	f := &stubFetcher{data: byCat}

	rows, err := BuildDaily(context.Background(), f, 7, testDay, DefaultLayout, testCompany)
	require.NoError(t, err)
	assert.Equal(t, Assemble(byCat, testDay, DefaultLayout, testCompany), rows)
}
