package monitor

import (
	"context"
	"igmond/internal/models"
	"igmond/internal/monitor/interfaces"
	"igmond/internal/providers"
	"igmond/internal/services"
	"igmond/internal/structures"
)

// Checker performs one full sweep over the deduplicated username set. It is
// driven by the Scheduler, which guarantees cycles never overlap.
type Checker struct {
	config    *structures.Config
	store     services.StoreServiceInterface
	fetcher   ProfileFetcher
	confirmer *Confirmer
	migrator  *Migrator
	metrics   providers.MetricsProviderInterface
	logger    providers.Logger
	clock     interfaces.ClockInterface
}

func NewChecker(
	conf *structures.Config,
	store services.StoreServiceInterface,
	fetcher ProfileFetcher,
	confirmer *Confirmer,
	migrator *Migrator,
	metrics providers.MetricsProviderInterface,
	logger providers.Logger,
	clock interfaces.ClockInterface,
) *Checker {
	return &Checker{
		config:    conf,
		store:     store,
		fetcher:   fetcher,
		confirmer: confirmer,
		migrator:  migrator,
		metrics:   metrics,
		logger:    logger,
		clock:     clock,
	}
}

// RunCycle checks every watched username exactly once, regardless of how
// many subscribers watch it. Usernames added mid-cycle are picked up on the
// next sweep. An empty set is a clean no-op.
func (c *Checker) RunCycle(ctx context.Context) {
	started := c.clock.Now()

	usernames := c.store.WatchedUsernames()
	if len(usernames) == 0 {
		c.logger.Debugf(providers.TypeMonitor, "No usernames to check")
		return
	}

	c.logger.Infof(providers.TypeMonitor, "Cycle started: %d usernames", len(usernames))
	for i, username := range usernames {
		if i > 0 && c.config.Monitor.Pacing > 0 {
			c.clock.Sleep(c.config.Monitor.Pacing)
		}
		c.checkUsername(ctx, username)
	}

	c.store.AddChecks(len(usernames))
	c.metrics.AddChecks(len(usernames))

	if removed := c.store.SweepOrphanCounters(); removed > 0 {
		c.logger.Infof(providers.TypeMonitor, "Swept %d orphaned counters", removed)
	}

	c.metrics.ObserveCycleDuration(c.clock.Now().Sub(started))
	c.logger.Infof(providers.TypeMonitor, "Cycle finished: %d usernames", len(usernames))
}

// checkUsername runs fetch -> confirm -> migrate for a single username.
// Any failure downgrades the observation to unknown and the sweep moves on;
// a panic in one username must not take down the rest of the cycle.
func (c *Checker) checkUsername(ctx context.Context, username string) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Errorf(providers.TypeMonitor, "Panic while checking %s: %v", username, r)
		}
	}()

	fetchCtx, cancel := context.WithTimeout(ctx, c.config.Monitor.FetchTimeout)
	defer cancel()

	fetchStart := c.clock.Now()
	profile, err := c.fetcher.Fetch(fetchCtx, username)
	c.metrics.ObserveFetchDuration(c.clock.Now().Sub(fetchStart))
	if err != nil {
		c.logger.Warnf(providers.TypeMonitor, "Fetch %s: %s", username, err)
	}
	if profile == nil {
		profile = models.UnknownProfile(username)
	}

	confirmed, status := c.confirmer.Evaluate(username, profile.Status)
	if !confirmed {
		return
	}

	sent := c.migrator.ApplyTransition(username, status, profile)
	c.store.ResetConfirmation(username)
	c.logger.Infof(providers.TypeMonitor, "Confirmed %s -> %s, %d notifications", username, status, sent)
}
