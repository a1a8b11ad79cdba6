// Package handler implements the HTTP handlers for the Travel Ledger API.
// All handlers are methods on Server. Methods are split into files by
// concern (entry.go, export.go, health.go) but share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/travel-ledger/backend/internal/domain"
	"github.com/pkordes/travel-ledger/backend/internal/report"
)

// EntryServicer defines the business operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type EntryServicer interface {
	Create(ctx context.Context, entry domain.Entry) (domain.Entry, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Entry, error)
	Update(ctx context.Context, entry domain.Entry) (domain.Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Query(ctx context.Context, f domain.EntryFilter) (domain.EntryPage, error)
	ListForExport(ctx context.Context, f domain.EntryFilter) ([]domain.Entry, error)
}

// Server holds the handlers' dependencies: the entry service, the configured
// pagination defaults, and one renderer per export format.
type Server struct {
	entries  EntryServicer
	defaults domain.FilterDefaults
	grid     report.Renderer
	flow     report.Renderer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(entries EntryServicer, defaults domain.FilterDefaults) *Server {
	return &Server{
		entries:  entries,
		defaults: defaults,
		grid:     report.XLSXRenderer{},
		flow:     report.PDFRenderer{},
	}
}

// Routes assembles the full routing table. main.go mounts the result at "/".
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)

	r.Route("/api/entries", func(r chi.Router) {
		r.Get("/", s.ListEntries)
		r.Post("/", s.CreateEntry)

		// Export routes come before /{id} so "export" is never parsed as an id.
		r.Get("/export/excel", s.ExportExcel)
		r.Get("/export/pdf", s.ExportPDF)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetEntry)
			r.Put("/", s.UpdateEntry)
			r.Delete("/", s.DeleteEntry)
		})
	})
	return r
}

// filterFromQuery builds the normalized EntryFilter for listing and export
// requests. Both use the same parameters, so what a user sees on screen and
// what they export always come from one predicate.
func (s *Server) filterFromQuery(r *http.Request) (domain.EntryFilter, error) {
	q := r.URL.Query()
	return domain.NewEntryFilter(domain.RawEntryQuery{
		Page:     q.Get("page"),
		Limit:    q.Get("limit"),
		Search:   q.Get("search"),
		FromDate: q.Get("fromDate"),
		ToDate:   q.Get("toDate"),
		SortBy:   q.Get("sortBy"),
		SortDir:  q.Get("sortDir"),
	}, s.defaults)
}
