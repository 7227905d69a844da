package models

import "go.uber.org/atomic"

// Stats holds the process-wide monotonic counters. The atomic fields
// marshal as plain integers, keeping the persisted form compatible with
// older store files.
type Stats struct {
	TotalChecks atomic.Int64 `json:"total_checks"`
	AlertsSent  atomic.Int64 `json:"alerts_sent"`
}
