package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrBadLineItem rejects rows that cannot be persisted.
var ErrBadLineItem = errors.New("particulars is required for all rows")

// LineItem is one row of a category table. JSON field names match the
// wire format the dashboard consumes.
type LineItem struct {
	ID          int64   `json:"id,omitempty"`
	UserID      int64   `json:"user_id,omitempty"`
	Section     string  `json:"section,omitempty"`
	Particulars string  `json:"particulars"`
	QtyLtr      Measure `json:"qty_ltr"`
	QtyKg       Measure `json:"qty_kg"`
	AvgFat      Measure `json:"avg_fat"`
	CLR         Measure `json:"clr"`
	AvgSnf      Measure `json:"avg_snf"`
	KgFat       Measure `json:"kg_fat"`
	KgSnf       Measure `json:"kg_snf"`
	EntryDate   string  `json:"entry_date,omitempty"`
}

// Store owns the eight category tables. Report building only ever reads
// through it; saves are whole-day replacements.
type Store struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// FetchCategory returns the rows for one (user, date) pair in insertion
// order. Opening stock rows come back ordered by section first so the
// grouped view is stable.
func (s *Store) FetchCategory(ctx context.Context, cat Category, userID int64, date time.Time) ([]LineItem, error) {
	table := cat.table()
	if table == "" {
		return nil, fmt.Errorf("unknown category %q", cat)
	}

	cols := "id, particulars, qty_ltr, qty_kg, avg_fat, clr, avg_snf, kg_fat, kg_snf"
	order := "id ASC"
	if cat.HasSections() {
		cols = "id, section, particulars, qty_ltr, qty_kg, avg_fat, clr, avg_snf, kg_fat, kg_snf"
		order = "section ASC, id ASC"
	}

	day := date.Format("2006-01-02")
	rows, err := s.db.Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1 AND entry_date = $2
		ORDER BY %s
	`, cols, table, order), userID, day)
	if err != nil {
		return nil, fmt.Errorf("fetch %s failed: %w", cat, err)
	}
	defer rows.Close()

	items := make([]LineItem, 0)
	for rows.Next() {
		var it LineItem
		var qtyLtr, qtyKg, avgFat, clr, avgSnf, kgFat, kgSnf *float64
		if cat.HasSections() {
			err = rows.Scan(&it.ID, &it.Section, &it.Particulars, &qtyLtr, &qtyKg, &avgFat, &clr, &avgSnf, &kgFat, &kgSnf)
		} else {
			err = rows.Scan(&it.ID, &it.Particulars, &qtyLtr, &qtyKg, &avgFat, &clr, &avgSnf, &kgFat, &kgSnf)
		}
		if err != nil {
			return nil, fmt.Errorf("scan %s row failed: %w", cat, err)
		}
		it.UserID = userID
		it.EntryDate = day
		it.QtyLtr = measureFromPtr(qtyLtr)
		it.QtyKg = measureFromPtr(qtyKg)
		it.AvgFat = measureFromPtr(avgFat)
		it.CLR = measureFromPtr(clr)
		it.AvgSnf = measureFromPtr(avgSnf)
		it.KgFat = measureFromPtr(kgFat)
		it.KgSnf = measureFromPtr(kgSnf)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch %s failed: %w", cat, err)
	}
	return items, nil
}

// ReplaceCategory deletes everything the user entered for the date and
// inserts the new rows, all in one transaction. There is no partial
// update: the form always submits the whole day.
func (s *Store) ReplaceCategory(ctx context.Context, cat Category, userID int64, date time.Time, items []LineItem) error {
	table := cat.table()
	if table == "" {
		return fmt.Errorf("unknown category %q", cat)
	}
	for _, it := range items {
		if strings.TrimSpace(it.Particulars) == "" {
			return ErrBadLineItem
		}
		if cat.HasSections() {
			if _, ok := validSections[it.Section]; !ok {
				return fmt.Errorf("invalid opening stock section %q", it.Section)
			}
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace %s failed: %w", cat, err)
	}
	defer tx.Rollback(ctx)

	day := date.Format("2006-01-02")
	if _, err := tx.Exec(ctx, fmt.Sprintf(`
		DELETE FROM %s WHERE user_id = $1 AND entry_date = $2
	`, table), userID, day); err != nil {
		return fmt.Errorf("clear %s failed: %w", cat, err)
	}

	for _, it := range items {
		if cat.HasSections() {
			_, err = tx.Exec(ctx, fmt.Sprintf(`
				INSERT INTO %s(user_id, entry_date, section, particulars, qty_ltr, qty_kg, avg_fat, clr, avg_snf, kg_fat, kg_snf)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			`, table), userID, day, it.Section, strings.TrimSpace(it.Particulars),
				it.QtyLtr.Ptr(), it.QtyKg.Ptr(), it.AvgFat.Ptr(), it.CLR.Ptr(), it.AvgSnf.Ptr(), it.KgFat.Ptr(), it.KgSnf.Ptr())
		} else {
			_, err = tx.Exec(ctx, fmt.Sprintf(`
				INSERT INTO %s(user_id, entry_date, particulars, qty_ltr, qty_kg, avg_fat, clr, avg_snf, kg_fat, kg_snf)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			`, table), userID, day, strings.TrimSpace(it.Particulars),
				it.QtyLtr.Ptr(), it.QtyKg.Ptr(), it.AvgFat.Ptr(), it.CLR.Ptr(), it.AvgSnf.Ptr(), it.KgFat.Ptr(), it.KgSnf.Ptr())
		}
		if err != nil {
			return fmt.Errorf("insert %s row failed: %w", cat, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace %s failed: %w", cat, err)
	}
	return nil
}

// FetchOpeningStock returns the day's opening stock rows grouped by
// section, the shape the entry form and the daily report consume.
func (s *Store) FetchOpeningStock(ctx context.Context, userID int64, date time.Time) (opening, tanker, procurement []LineItem, err error) {
	items, err := s.FetchCategory(ctx, CategoryOpeningStock, userID, date)
	if err != nil {
		return nil, nil, nil, err
	}
	opening, tanker, procurement = SplitBySection(items)
	return opening, tanker, procurement, nil
}

// ReplaceOpeningStock stamps each group with its section and performs
// the whole-day replacement.
func (s *Store) ReplaceOpeningStock(ctx context.Context, userID int64, date time.Time, opening, tanker, procurement []LineItem) error {
	items := make([]LineItem, 0, len(opening)+len(tanker)+len(procurement))
	for _, it := range opening {
		it.Section = SectionOpeningStock
		items = append(items, it)
	}
	for _, it := range tanker {
		it.Section = SectionTankerTransaction
		items = append(items, it)
	}
	for _, it := range procurement {
		it.Section = SectionOwnProcurement
		items = append(items, it)
	}
	return s.ReplaceCategory(ctx, CategoryOpeningStock, userID, date, items)
}

// SplitBySection partitions opening stock rows by their discriminator,
// preserving insertion order inside each group.
func SplitBySection(items []LineItem) (opening, tanker, procurement []LineItem) {
	opening = make([]LineItem, 0)
	tanker = make([]LineItem, 0)
	procurement = make([]LineItem, 0)
	for _, it := range items {
		switch it.Section {
		case SectionOpeningStock:
			opening = append(opening, it)
		case SectionTankerTransaction:
			tanker = append(tanker, it)
		case SectionOwnProcurement:
			procurement = append(procurement, it)
		}
	}
	return opening, tanker, procurement
}
