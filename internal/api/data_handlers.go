package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"dairyops/backend/internal/store"
)

// lineItemInput is the shape the entry forms post: camelCase fields,
// quantities as numbers or strings. Malformed quantities decode to
// absent rather than failing the save.
type lineItemInput struct {
	Particulars string        `json:"particulars"`
	QtyLtr      store.Measure `json:"qtyLtr"`
	QtyKg       store.Measure `json:"qtyKg"`
	AvgFat      store.Measure `json:"avgFat"`
	CLR         store.Measure `json:"clr"`
	AvgSnf      store.Measure `json:"avgSnf"`
	KgFat       store.Measure `json:"kgFat"`
	KgSnf       store.Measure `json:"kgSnf"`
}

func (in lineItemInput) toLineItem(section string) store.LineItem {
	return store.LineItem{
		Section:     section,
		Particulars: strings.TrimSpace(in.Particulars),
		QtyLtr:      in.QtyLtr,
		QtyKg:       in.QtyKg,
		AvgFat:      in.AvgFat,
		CLR:         in.CLR,
		AvgSnf:      in.AvgSnf,
		KgFat:       in.KgFat,
		KgSnf:       in.KgSnf,
	}
}

// handleSaveCategory serves both /save and /submit: the original system
// exposes the two verbs with identical replace-all semantics, differing
// only in the confirmation message.
func (s *Server) handleSaveCategory(w http.ResponseWriter, r *http.Request) {
	cat, ok := store.ParseCategory(r.PathValue("category"))
	if !ok {
		respondError(w, http.StatusNotFound, "unknown category")
		return
	}
	userID, ok := authUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid auth context")
		return
	}

	var items, opening, tanker, procurement []store.LineItem
	var entryDateRaw string
	if cat.HasSections() {
		var in struct {
			EntryDate string `json:"entryDate"`
			Data      struct {
				OpeningStockData []lineItemInput `json:"openingStockData"`
				TankerData       []lineItemInput `json:"tankerData"`
				ProcurementData  []lineItemInput `json:"procurementData"`
			} `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request payload")
			return
		}
		entryDateRaw = in.EntryDate
		for _, row := range in.Data.OpeningStockData {
			opening = append(opening, row.toLineItem(""))
		}
		for _, row := range in.Data.TankerData {
			tanker = append(tanker, row.toLineItem(""))
		}
		for _, row := range in.Data.ProcurementData {
			procurement = append(procurement, row.toLineItem(""))
		}
	} else {
		var in struct {
			EntryDate string          `json:"entryDate"`
			Data      []lineItemInput `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request payload")
			return
		}
		entryDateRaw = in.EntryDate
		for _, row := range in.Data {
			items = append(items, row.toLineItem(""))
		}
	}

	entryDate, ok := parseEntryDate(entryDateRaw, s.now())
	if !ok {
		respondError(w, http.StatusBadRequest, "entryDate must be YYYY-MM-DD and not in the future")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var err error
	if cat.HasSections() {
		err = s.store.ReplaceOpeningStock(ctx, userID, entryDate, opening, tanker, procurement)
	} else {
		err = s.store.ReplaceCategory(ctx, cat, userID, entryDate, items)
	}
	if err != nil {
		if errors.Is(err, store.ErrBadLineItem) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error().Err(err).Str("category", string(cat)).Msg("save failed")
		respondError(w, http.StatusInternalServerError, "failed to save data")
		return
	}

	verb := "saved"
	if strings.HasSuffix(r.URL.Path, "/submit") {
		verb = "submitted"
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Data " + verb + " successfully",
	})
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	cat, ok := store.ParseCategory(r.PathValue("category"))
	if !ok {
		respondError(w, http.StatusNotFound, "unknown category")
		return
	}
	userID, ok := authUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid auth context")
		return
	}
	date, ok := parseEntryDate(r.PathValue("date"), s.now())
	if !ok {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD and not in the future")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if cat.HasSections() {
		opening, tanker, procurement, err := s.store.FetchOpeningStock(ctx, userID, date)
		if err != nil {
			s.logger.Error().Err(err).Str("category", string(cat)).Msg("fetch failed")
			respondError(w, http.StatusInternalServerError, "failed to fetch data")
			return
		}
		respondData(w, http.StatusOK, map[string]any{
			"openingStockData": opening,
			"tankerData":       tanker,
			"procurementData":  procurement,
		})
		return
	}

	items, err := s.store.FetchCategory(ctx, cat, userID, date)
	if err != nil {
		s.logger.Error().Err(err).Str("category", string(cat)).Msg("fetch failed")
		respondError(w, http.StatusInternalServerError, "failed to fetch data")
		return
	}
	respondData(w, http.StatusOK, items)
}
