package monitor

import (
	"igmond/internal/monitor/interfaces"
	"time"
)

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

func NewSystemClock() interfaces.ClockInterface {
	return systemClock{}
}
