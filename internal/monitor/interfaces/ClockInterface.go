package interfaces

import "time"

// ClockInterface abstracts wall-clock reads and pacing sleeps so cycle
// tests run without real delays.
type ClockInterface interface {
	Now() time.Time
	Sleep(d time.Duration)
}
