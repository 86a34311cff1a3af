// Package audit provides the envelope of persistence metadata shared by all
// aggregates: creation/modification timestamps and the soft-delete flag.
package audit

import "time"

// Envelope carries audit fields embedded in every aggregate. Deleted entities
// stay in storage but are excluded from default read paths.
type Envelope struct {
	CreatedAt  time.Time
	ModifiedAt time.Time
	Deleted    bool
}

// Touch records a modification timestamp, setting CreatedAt on first use.
func (e *Envelope) Touch(now time.Time) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.ModifiedAt = now
}

// MarkDeleted flips the soft-delete flag.
func (e *Envelope) MarkDeleted(now time.Time) {
	e.Deleted = true
	e.ModifiedAt = now
}

// IsVisible reports whether the entity participates in default reads.
func (e Envelope) IsVisible() bool { return !e.Deleted }
