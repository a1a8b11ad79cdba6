// Package service contains the business logic for the Travel Ledger API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/travel-ledger/backend/internal/domain"
	"github.com/pkordes/travel-ledger/backend/internal/repo"
)

// EntryService implements business logic for Entry operations: CRUD with
// validation, the paginated listing query, and the unpaged export listing.
type EntryService struct {
	repo repo.EntryRepo
}

// NewEntryService constructs an EntryService backed by the provided EntryRepo.
func NewEntryService(r repo.EntryRepo) *EntryService {
	return &EntryService{repo: r}
}

// Create validates and persists a new entry.
func (s *EntryService) Create(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	if err := validateEntry(entry); err != nil {
		return domain.Entry{}, fmt.Errorf("service.EntryService.Create: %w", err)
	}
	entry.Route = strings.TrimSpace(entry.Route)
	return s.repo.Create(ctx, entry)
}

// GetByID returns a single entry by ID.
func (s *EntryService) GetByID(ctx context.Context, id uuid.UUID) (domain.Entry, error) {
	return s.repo.GetByID(ctx, id)
}

// Update validates and updates an existing entry.
func (s *EntryService) Update(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	if err := validateEntry(entry); err != nil {
		return domain.Entry{}, fmt.Errorf("service.EntryService.Update: %w", err)
	}
	entry.Route = strings.TrimSpace(entry.Route)
	return s.repo.Update(ctx, entry)
}

// Delete removes an entry by ID.
func (s *EntryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Query executes one listing request: a row page, the match count, and the
// aggregate totals, all under the filter's single predicate, merged into an
// EntryPage.
//
// The three reads are independent and read-only, so they run concurrently.
// They do not share a snapshot — a write landing between them can skew the
// combination slightly, which is accepted best-effort behavior. On any error
// the group cancels and the error is returned; a partial envelope is never
// built.
func (s *EntryService) Query(ctx context.Context, f domain.EntryFilter) (domain.EntryPage, error) {
	var (
		total  int64
		totals domain.Totals
		rows   []domain.Entry
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(ctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = s.repo.Totals(ctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.repo.List(ctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.EntryPage{}, fmt.Errorf("service.EntryService.Query: %w", err)
	}

	return domain.NewEntryPage(rows, f, total, totals), nil
}

// ListForExport returns the full filtered, sorted entry set for the report
// renderers. The filter's page window is ignored by design: exports cover
// everything the listing's filter matches.
func (s *EntryService) ListForExport(ctx context.Context, f domain.EntryFilter) ([]domain.Entry, error) {
	return s.repo.ListAll(ctx, f)
}

// validateEntry enforces the business rules shared by Create and Update.
func validateEntry(e domain.Entry) error {
	if strings.TrimSpace(e.Route) == "" {
		return fmt.Errorf("%w: route is required", domain.ErrValidation)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if e.DistanceKM < 0 {
		return fmt.Errorf("%w: distance must not be negative", domain.ErrValidation)
	}
	if e.Cost < 0 {
		return fmt.Errorf("%w: cost must not be negative", domain.ErrValidation)
	}
	return nil
}
