// Package handler — export.go implements the two report downloads.
// Both walk the full filtered, sorted entry set; pagination parameters are
// ignored by design.
package handler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pkordes/travel-ledger/backend/internal/report"
)

// ExportExcel handles GET /api/entries/export/excel: the grid-format report.
func (s *Server) ExportExcel(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, s.grid)
}

// ExportPDF handles GET /api/entries/export/pdf: the flow-format report.
func (s *Server) ExportPDF(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, s.flow)
}

// export runs the shared pipeline: normalize the filter, fetch the full
// filtered set, render, then send. Rendering targets a buffer rather than
// the response so a layout failure yields a clean 500 instead of a truncated
// attachment.
func (s *Server) export(w http.ResponseWriter, r *http.Request, ren report.Renderer) {
	f, err := s.filterFromQuery(r)
	if err != nil {
		writeValidation(w, err)
		return
	}

	entries, err := s.entries.ListForExport(r.Context(), f)
	if err != nil {
		writeServiceError(w, err, "")
		return
	}

	var buf bytes.Buffer
	if err := ren.Render(&buf, entries); err != nil {
		slog.Error("export render failed", "filename", ren.Filename(), "rows", len(entries), "error", err)
		writeServerError(w)
		return
	}

	w.Header().Set("Content-Type", ren.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ren.Filename()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("export write failed", "filename", ren.Filename(), "error", err)
	}
}
