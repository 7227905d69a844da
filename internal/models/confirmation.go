package models

import "time"

// Confirmation is the debounce counter for one tracked username. It is
// global: shared by every subscriber watching the same account.
type Confirmation struct {
	Status    Status    `json:"status"`
	Count     int       `json:"count"`
	LastCheck time.Time `json:"last_check"`
}

// NewConfirmation returns the baseline counter: no trusted observation yet.
func NewConfirmation() *Confirmation {
	return &Confirmation{Status: StatusUnknown, Count: 0}
}
