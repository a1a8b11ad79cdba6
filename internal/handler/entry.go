package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/travel-ledger/backend/internal/domain"
)

// entryPayload is the JSON request body for create and update. Date-only
// fields use openapi_types.Date so they marshal as plain "2006-01-02"
// strings instead of full timestamps.
type entryPayload struct {
	Date       openapi_types.Date  `json:"date"`
	Route      string              `json:"route"`
	Distance   float64             `json:"distance"`
	Cost       float64             `json:"cost"`
	RefuelDate *openapi_types.Date `json:"refuelDate"`
}

// entryResponse is the JSON shape of one persisted entry.
type entryResponse struct {
	ID         uuid.UUID           `json:"id"`
	Date       openapi_types.Date  `json:"date"`
	Route      string              `json:"route"`
	Distance   float64             `json:"distance"`
	Cost       float64             `json:"cost"`
	RefuelDate *openapi_types.Date `json:"refuelDate,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// listResponse is the listing envelope: one page of rows plus count, page
// math, and whole-set totals.
type listResponse struct {
	Data       []entryResponse `json:"data"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	Total      int64           `json:"total"`
	TotalPages int             `json:"totalPages"`
	Totals     domain.Totals   `json:"totals"`
}

// ListEntries handles GET /api/entries.
// Supports page, limit, search, fromDate, toDate, sortBy, and sortDir query
// parameters. Totals and the match count always cover the whole filtered
// set, not just the returned page.
func (s *Server) ListEntries(w http.ResponseWriter, r *http.Request) {
	f, err := s.filterFromQuery(r)
	if err != nil {
		writeValidation(w, err)
		return
	}

	page, err := s.entries.Query(r.Context(), f)
	if err != nil {
		writeServiceError(w, err, "")
		return
	}

	writeJSON(w, http.StatusOK, listResponseFrom(page))
}

// CreateEntry handles POST /api/entries.
func (s *Server) CreateEntry(w http.ResponseWriter, r *http.Request) {
	entry, ok := decodeEntryPayload(w, r)
	if !ok {
		return
	}

	created, err := s.entries.Create(r.Context(), entry)
	if err != nil {
		writeServiceError(w, err, "")
		return
	}

	writeJSON(w, http.StatusCreated, entryToResponse(created))
}

// GetEntry handles GET /api/entries/{id}.
func (s *Server) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	entry, err := s.entries.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "entry not found")
		return
	}

	writeJSON(w, http.StatusOK, entryToResponse(entry))
}

// UpdateEntry handles PUT /api/entries/{id}.
func (s *Server) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}
	entry, ok := decodeEntryPayload(w, r)
	if !ok {
		return
	}
	entry.ID = id

	updated, err := s.entries.Update(r.Context(), entry)
	if err != nil {
		writeServiceError(w, err, "entry not found")
		return
	}

	writeJSON(w, http.StatusOK, entryToResponse(updated))
}

// DeleteEntry handles DELETE /api/entries/{id}.
func (s *Server) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	if err := s.entries.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "entry not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// entryID parses the {id} path parameter. An unparsable id can never match a
// stored entry, so it reports not found.
func entryID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeNotFound(w, "entry not found")
		return uuid.UUID{}, false
	}
	return id, true
}

// decodeEntryPayload reads and converts the request body, writing the error
// response itself when the body is unusable.
func decodeEntryPayload(w http.ResponseWriter, r *http.Request) (domain.Entry, bool) {
	var body entryPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid request body")
		return domain.Entry{}, false
	}

	e := domain.Entry{
		Date:       body.Date.Time,
		Route:      body.Route,
		DistanceKM: body.Distance,
		Cost:       body.Cost,
	}
	if body.RefuelDate != nil {
		rd := body.RefuelDate.Time
		e.RefuelDate = &rd
	}
	return e, true
}

// entryToResponse converts a domain.Entry into its JSON shape.
func entryToResponse(e domain.Entry) entryResponse {
	resp := entryResponse{
		ID:        e.ID,
		Date:      openapi_types.Date{Time: e.Date},
		Route:     e.Route,
		Distance:  e.DistanceKM,
		Cost:      e.Cost,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	if e.RefuelDate != nil {
		rd := openapi_types.Date{Time: *e.RefuelDate}
		resp.RefuelDate = &rd
	}
	return resp
}

// listResponseFrom converts the domain envelope into the wire envelope.
func listResponseFrom(p domain.EntryPage) listResponse {
	data := make([]entryResponse, len(p.Data))
	for i, e := range p.Data {
		data[i] = entryToResponse(e)
	}
	return listResponse{
		Data:       data,
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		Totals:     p.Totals,
	}
}
