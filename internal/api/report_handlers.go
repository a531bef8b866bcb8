package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dairyops/backend/internal/report"
	"dairyops/backend/internal/store"
)

// handleDailyReport returns the raw per-category rows for one date; the
// dashboard builds its preview from this payload.
func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	userID, date, ok := s.reportParams(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	byCat, err := report.FetchAll(ctx, s.store, userID, date)
	if err != nil {
		s.logger.Error().Err(err).Str("date", date.Format("2006-01-02")).Msg("daily report fetch failed")
		respondError(w, http.StatusInternalServerError, "failed to fetch report data")
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"date":                      date.Format("2006-01-02"),
		"openingStockData":          byCat[store.CategoryOpeningStock],
		"thirdPartyProcurementData": byCat[store.CategoryThirdPartyProcurement],
		"salesData":                 byCat[store.CategorySales],
		"otherDairySalesData":       byCat[store.CategoryOtherDairySales],
		"productsData":              byCat[store.CategoryProducts],
		"siloClosingBalanceData":    byCat[store.CategorySiloClosingBalance],
		"productsClosingStockData":  byCat[store.CategoryProductsClosingStock],
		"waitingTankerData":         byCat[store.CategoryWaitingTanker],
	})
}

func (s *Server) handleDailyReportCSV(w http.ResponseWriter, r *http.Request) {
	userID, date, ok := s.reportParams(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rows, err := report.BuildDaily(ctx, s.store, userID, date, s.layout, s.company)
	if err != nil {
		s.logger.Error().Err(err).Str("date", date.Format("2006-01-02")).Msg("daily report build failed")
		respondError(w, http.StatusInternalServerError, "failed to fetch report data")
		return
	}

	day := date.Format("2006-01-02")
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"daily_report_%s.csv\"", day))
	_, _ = w.Write([]byte(report.ToCSV(rows)))
}

func (s *Server) handleDailyReportPrint(w http.ResponseWriter, r *http.Request) {
	userID, date, ok := s.reportParams(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rows, err := report.BuildDaily(ctx, s.store, userID, date, s.layout, s.company)
	if err != nil {
		s.logger.Error().Err(err).Str("date", date.Format("2006-01-02")).Msg("daily report build failed")
		respondError(w, http.StatusInternalServerError, "failed to fetch report data")
		return
	}

	page := report.ToPrintableHTML(rows, fmt.Sprintf("Daily Report %s", date.Format("2006-01-02")))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

func (s *Server) reportParams(w http.ResponseWriter, r *http.Request) (int64, time.Time, bool) {
	userID, ok := authUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid auth context")
		return 0, time.Time{}, false
	}
	date, ok := parseEntryDate(r.PathValue("date"), s.now())
	if !ok {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD and not in the future")
		return 0, time.Time{}, false
	}
	return userID, date, true
}
