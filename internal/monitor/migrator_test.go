package monitor

import (
	"errors"
	"igmond/internal/models"
	"igmond/internal/services"
	"igmond/internal/structures"
	"igmond/internal/testutil"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentAlert struct {
	SubscriberID int64
	Kind         NotificationKind
	Username     string
}

// mockNotifier records deliveries; FailFor simulates subscribers that
// blocked the bot.
type mockNotifier struct {
	mu      sync.Mutex
	Sent    []sentAlert
	FailFor map[int64]bool
}

func (m *mockNotifier) Notify(subscriberID int64, kind NotificationKind, profile *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, sentAlert{SubscriberID: subscriberID, Kind: kind, Username: profile.Username})
	if m.FailFor[subscriberID] {
		return errors.New("blocked by user")
	}
	return nil
}

func newMigrator(t *testing.T) (*Migrator, services.StoreServiceInterface, *mockNotifier) {
	t.Helper()
	conf := &structures.Config{}
	store := services.NewStoreService(conf)
	notifier := &mockNotifier{}
	return NewMigrator(store, notifier, &testutil.MockMetrics{}, &testutil.MockLogger{}), store, notifier
}

func TestApplyTransition_BanMovesWatchToBan(t *testing.T) {
	m, store, notifier := newMigrator(t)
	store.GetOrCreateSubscriber(1, "alice")
	_, err := store.AddWatch(1, "target")
	require.NoError(t, err)

	sent := m.ApplyTransition("target", models.StatusBanned, &models.Profile{Username: "target", Status: models.StatusBanned})

	assert.Equal(t, 1, sent)
	sub, _ := store.GetSubscriber(1)
	assert.False(t, sub.Watching("target"))
	assert.True(t, sub.Banned("target"))
	require.Len(t, notifier.Sent, 1)
	assert.Equal(t, KindBanned, notifier.Sent[0].Kind)

	_, alerts := store.StatsSnapshot()
	assert.Equal(t, int64(1), alerts)
}

func TestApplyTransition_UnbanAutoRewatches(t *testing.T) {
	m, store, notifier := newMigrator(t)
	store.GetOrCreateSubscriber(1, "alice")
	require.True(t, store.AddToBan(1, "target"))

	sent := m.ApplyTransition("target", models.StatusActive, &models.Profile{Username: "target", Status: models.StatusActive})

	assert.Equal(t, 1, sent)
	sub, _ := store.GetSubscriber(1)
	assert.True(t, sub.Watching("target"))
	assert.False(t, sub.Banned("target"))
	require.Len(t, notifier.Sent, 1)
	assert.Equal(t, KindUnbanned, notifier.Sent[0].Kind)
}

func TestApplyTransition_IdempotentForAlreadyMigrated(t *testing.T) {
	m, store, notifier := newMigrator(t)
	store.GetOrCreateSubscriber(1, "alice")
	_, err := store.AddWatch(1, "target")
	require.NoError(t, err)

	profile := &models.Profile{Username: "target", Status: models.StatusBanned}
	first := m.ApplyTransition("target", models.StatusBanned, profile)
	second := m.ApplyTransition("target", models.StatusBanned, profile)

	assert.Equal(t, 1, first)
	assert.Equal(t, 0, second)
	assert.Len(t, notifier.Sent, 1)

	_, alerts := store.StatsSnapshot()
	assert.Equal(t, int64(1), alerts)
}

func TestApplyTransition_UninvolvedSubscriberUntouched(t *testing.T) {
	m, store, notifier := newMigrator(t)
	store.GetOrCreateSubscriber(1, "alice")
	store.GetOrCreateSubscriber(2, "bob")
	_, err := store.AddWatch(1, "target")
	require.NoError(t, err)
	_, err = store.AddWatch(2, "other")
	require.NoError(t, err)

	m.ApplyTransition("target", models.StatusBanned, &models.Profile{Username: "target", Status: models.StatusBanned})

	require.Len(t, notifier.Sent, 1)
	assert.Equal(t, int64(1), notifier.Sent[0].SubscriberID)
	bob, _ := store.GetSubscriber(2)
	assert.True(t, bob.Watching("other"))
	assert.Empty(t, bob.BanList)
}

func TestApplyTransition_DeliveryFailureDoesNotAbort(t *testing.T) {
	conf := &structures.Config{}
	store := services.NewStoreService(conf)
	notifier := &mockNotifier{FailFor: map[int64]bool{1: true}}
	logger := &testutil.MockLogger{}
	m := NewMigrator(store, notifier, &testutil.MockMetrics{}, logger)

	store.GetOrCreateSubscriber(1, "alice")
	store.GetOrCreateSubscriber(2, "bob")
	for id := int64(1); id <= 2; id++ {
		_, err := store.AddWatch(id, "target")
		require.NoError(t, err)
	}

	sent := m.ApplyTransition("target", models.StatusBanned, &models.Profile{Username: "target", Status: models.StatusBanned})

	// Both subscribers migrated and counted even though delivery to one failed.
	assert.Equal(t, 2, sent)
	assert.Len(t, notifier.Sent, 2)
	for id := int64(1); id <= 2; id++ {
		sub, _ := store.GetSubscriber(id)
		assert.True(t, sub.Banned("target"))
	}
	assert.Equal(t, 1, logger.Count("error"))
}

func TestApplyTransition_NoMatchesNoAlerts(t *testing.T) {
	m, store, notifier := newMigrator(t)
	store.GetOrCreateSubscriber(1, "alice")

	sent := m.ApplyTransition("target", models.StatusBanned, &models.Profile{Username: "target", Status: models.StatusBanned})

	assert.Zero(t, sent)
	assert.Empty(t, notifier.Sent)
	_, alerts := store.StatsSnapshot()
	assert.Zero(t, alerts)
}
