package report

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"dairyops/backend/internal/store"
)

// Fetcher is the capability the aggregator needs from the category
// store: read-only, per category and date. *store.Store satisfies it.
type Fetcher interface {
	FetchCategory(ctx context.Context, cat store.Category, userID int64, date time.Time) ([]store.LineItem, error)
}

// Block is one titled run of a statement column: a category, optionally
// narrowed to an opening-stock section.
type Block struct {
	Title    string
	Category store.Category
	Section  string
}

// Layout fixes which categories print on which side of the statement.
// The partition is a layout convention, not data-driven, so it lives
// here as configuration rather than inline in the merge.
type Layout struct {
	Left  []Block
	Right []Block
}

// DefaultLayout: procurement side on the left, production side on the
// right, in the order the printed statement has always used.
var DefaultLayout = Layout{
	Left: []Block{
		{Title: "Opening Stock", Category: store.CategoryOpeningStock, Section: store.SectionOpeningStock},
		{Title: "Tanker Transaction", Category: store.CategoryOpeningStock, Section: store.SectionTankerTransaction},
		{Title: "Own Procurement", Category: store.CategoryOpeningStock, Section: store.SectionOwnProcurement},
		{Title: "3rd Party Procurement", Category: store.CategoryThirdPartyProcurement},
	},
	Right: []Block{
		{Title: "Sales", Category: store.CategorySales},
		{Title: "Other Dairy Sales", Category: store.CategoryOtherDairySales},
		{Title: "Products", Category: store.CategoryProducts},
		{Title: "Silo Closing Balance", Category: store.CategorySiloClosingBalance},
		{Title: "Products Closing Stock", Category: store.CategoryProductsClosingStock},
		{Title: "Waiting Tanker", Category: store.CategoryWaitingTanker},
	},
}

// FetchAll loads every category for the (user, date) pair concurrently.
// Any single failure aborts the whole load: a partial report is worse
// than no report.
func FetchAll(ctx context.Context, f Fetcher, userID int64, date time.Time) (map[store.Category][]store.LineItem, error) {
	cats := store.Categories()
	results := make([][]store.LineItem, len(cats))

	g, ctx := errgroup.WithContext(ctx)
	for i, cat := range cats {
		g.Go(func() error {
			items, err := f.FetchCategory(ctx, cat, userID, date)
			if err != nil {
				return fmt.Errorf("category %s: %w", cat, err)
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byCat := make(map[store.Category][]store.LineItem, len(cats))
	for i, cat := range cats {
		byCat[cat] = results[i]
	}
	return byCat, nil
}

// BuildDaily assembles the full Material Balance Statement for one
// (user, date): title rows, the merged two-column body, and the closing
// grand-total row. Output is deterministic for a given store state.
func BuildDaily(ctx context.Context, f Fetcher, userID int64, date time.Time, layout Layout, company string) ([]Row, error) {
	byCat, err := FetchAll(ctx, f, userID, date)
	if err != nil {
		return nil, err
	}
	return Assemble(byCat, date, layout, company), nil
}

// Assemble is the pure layout step, split from the fetch so it can be
// exercised without a store.
func Assemble(byCat map[store.Category][]store.LineItem, date time.Time, layout Layout, company string) []Row {
	left := buildColumn(layout.Left, byCat)
	right := buildColumn(layout.Right, byCat)

	rows := make([]Row, 0, len(left)+8)
	rows = append(rows,
		titleRow(company),
		titleRow(fmt.Sprintf("Material Balance Statement for the Month of %s", date.Format("Jan'2006"))),
		titleRow("Statement for the Day"),
		dateRow(fmt.Sprintf("Dt:%s", date.Format("02.01.2006"))),
		headerRow(),
	)

	// Merge row-by-row; the shorter column pads with blank halves so the
	// longer one is never truncated.
	n := len(left)
	if len(right) > n {
		n = len(right)
	}
	for i := 0; i < n; i++ {
		l, r := blankHalf(), blankHalf()
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		rows = append(rows, bodyRow(l, r))
	}

	// Grand totals stay per side; the statement balances procurement
	// against production, it never sums across them.
	leftTotal := ComputeTotals(collect(layout.Left, byCat))
	rightTotal := ComputeTotals(collect(layout.Right, byCat))
	rows = append(rows, bodyRow(totalsHalf("TOTAL", leftTotal), totalsHalf("TOTAL", rightTotal)))

	return rows
}

// buildColumn emits, per block: a section-header half, one data half per
// line item in store order, a totals half, and a blank spacer.
func buildColumn(blocks []Block, byCat map[store.Category][]store.LineItem) []half {
	out := make([]half, 0)
	for _, b := range blocks {
		items := blockItems(b, byCat)
		out = append(out, sectionHalf(b.Title))
		for _, it := range items {
			out = append(out, dataHalf(it))
		}
		out = append(out, totalsHalf("TOTAL", ComputeTotals(items)))
		out = append(out, blankHalf())
	}
	return out
}

func blockItems(b Block, byCat map[store.Category][]store.LineItem) []store.LineItem {
	items := byCat[b.Category]
	if b.Section == "" {
		return items
	}
	filtered := make([]store.LineItem, 0, len(items))
	for _, it := range items {
		if it.Section == b.Section {
			filtered = append(filtered, it)
		}
	}
	return filtered
}

func collect(blocks []Block, byCat map[store.Category][]store.LineItem) []store.LineItem {
	all := make([]store.LineItem, 0)
	for _, b := range blocks {
		all = append(all, blockItems(b, byCat)...)
	}
	return all
}
