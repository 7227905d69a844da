package monitor

import (
	"errors"
	"igmond/internal/models"
	"igmond/internal/providers"
	"igmond/internal/services"
)

type NotificationKind uint8

const (
	KindBanned NotificationKind = iota
	KindUnbanned
)

func (k NotificationKind) String() string {
	if k == KindUnbanned {
		return "unbanned"
	}
	return "banned"
}

// Notifier is the delivery boundary to the chat front end. A returned error
// means this one subscriber could not be reached; it never undoes the list
// migration already applied for them.
type Notifier interface {
	Notify(subscriberID int64, kind NotificationKind, profile *models.Profile) error
}

// Migrator applies a confirmed status transition to every affected
// subscriber's lists and fans out one notification per affected subscriber.
type Migrator struct {
	store    services.StoreServiceInterface
	notifier Notifier
	metrics  providers.MetricsProviderInterface
	logger   providers.Logger
}

func NewMigrator(store services.StoreServiceInterface, notifier Notifier, metrics providers.MetricsProviderInterface, logger providers.Logger) *Migrator {
	return &Migrator{
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// ApplyTransition walks every subscriber. On a confirmed ban the username
// moves watch -> ban; on a confirmed unban it moves ban -> watch, so the
// subscriber keeps being alerted without re-issuing a watch command.
// Subscribers with the username in neither list are untouched. Returns the
// number of notifications enqueued.
func (m *Migrator) ApplyTransition(username string, newStatus models.Status, profile *models.Profile) int {
	sent := 0
	for _, sub := range m.store.Subscribers() {
		switch {
		case newStatus == models.StatusBanned && sub.Watching(username):
			m.store.RemoveFromWatch(sub.ID, username)
			m.store.AddToBan(sub.ID, username)
			m.send(sub.ID, KindBanned, profile)
			sent++

		case newStatus == models.StatusActive && sub.Banned(username):
			m.store.RemoveFromBan(sub.ID, username)
			if _, err := m.store.AddWatch(sub.ID, username); err != nil && !errors.Is(err, services.ErrAlreadyWatching) {
				m.logger.Warnf(providers.TypeMonitor, "re-watch %s for %d: %s", username, sub.ID, err)
			}
			m.send(sub.ID, KindUnbanned, profile)
			sent++
		}
	}

	if sent > 0 {
		m.store.AddAlerts(sent)
	}
	return sent
}

func (m *Migrator) send(subscriberID int64, kind NotificationKind, profile *models.Profile) {
	m.metrics.IncAlerts(kind.String())
	if err := m.notifier.Notify(subscriberID, kind, profile); err != nil {
		m.logger.Errorf(providers.TypeBot, "notify %d about %s %s: %s", subscriberID, profile.Username, kind, err)
	}
}
