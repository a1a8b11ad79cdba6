// Package domain contains the core data types for the Travel Ledger application.
// This package depends on nothing but the uuid type and is imported by every
// other internal package (repo, service, report, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entry represents one logged journey: when it happened, where it went, how
// far it was, and what it cost. Entries are immutable from the query side;
// only the CRUD operations write them.
type Entry struct {
	ID         uuid.UUID  `json:"id"`
	Date       time.Time  `json:"date"`
	Route      string     `json:"route"`
	DistanceKM float64    `json:"distance"`
	Cost       float64    `json:"cost"`
	RefuelDate *time.Time `json:"refuelDate,omitempty"` // nil when no refuel happened on this entry
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Totals holds aggregate sums over an entire filtered set of entries.
// The sums always cover the whole filtered set, never just one page.
type Totals struct {
	Distance float64 `json:"distance"`
	Cost     float64 `json:"cost"`
}
