package monitor

import (
	"igmond/internal/models"
	"igmond/internal/monitor/interfaces"
	"igmond/internal/services"
	"igmond/internal/structures"
)

// Confirmer debounces observed statuses. A transition is only trusted after
// the same non-unknown status has been seen on N consecutive checks, which
// keeps single-sample glitches (throttling, transient fetch errors) from
// producing false alerts.
type Confirmer struct {
	store     services.StoreServiceInterface
	clock     interfaces.ClockInterface
	threshold int
}

func NewConfirmer(conf *structures.Config, store services.StoreServiceInterface, clock interfaces.ClockInterface) *Confirmer {
	return &Confirmer{
		store:     store,
		clock:     clock,
		threshold: conf.Monitor.ConfirmationThreshold,
	}
}

// Evaluate folds one observation into the persisted counter and reports
// whether the transition is confirmed. An unknown observation carries no
// signal: it zeroes the streak and can never confirm anything. The caller
// must reset the counter when it acts on a confirmed transition, otherwise
// the same transition would fire again every cycle.
func (c *Confirmer) Evaluate(username string, observed models.Status) (bool, models.Status) {
	prev := c.store.GetConfirmation(username)

	var count int
	switch {
	case observed == models.StatusUnknown:
		count = 0
	case observed == prev.Status:
		count = prev.Count + 1
	default:
		count = 1
	}

	c.store.PutConfirmation(username, observed, count, c.clock.Now())

	if observed != models.StatusUnknown && count >= c.threshold {
		return true, observed
	}
	return false, models.StatusUnknown
}
