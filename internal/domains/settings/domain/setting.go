package domain

import (
	"github.com/AhmetSulu/online-shopping-api/internal/shared/audit"
)

// Setting is the single row of operator-facing switches.
type Setting struct {
	ID              int64
	MaintenanceMode bool
	Audit           audit.Envelope
}

// ToggleMaintenance flips the maintenance switch and returns the new state.
func (s *Setting) ToggleMaintenance() bool {
	s.MaintenanceMode = !s.MaintenanceMode
	return s.MaintenanceMode
}
