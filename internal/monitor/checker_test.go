package monitor

import (
	"context"
	"errors"
	"igmond/internal/models"
	"igmond/internal/services"
	"igmond/internal/structures"
	"igmond/internal/testutil"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockFetcher serves canned statuses and records every call.
type mockFetcher struct {
	mu       sync.Mutex
	Statuses map[string]models.Status
	Errs     map[string]error
	Calls    []string
}

func (m *mockFetcher) Fetch(_ context.Context, username string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, username)
	if err, ok := m.Errs[username]; ok {
		return models.UnknownProfile(username), err
	}
	status, ok := m.Statuses[username]
	if !ok {
		status = models.StatusActive
	}
	return &models.Profile{Username: username, Status: status}, nil
}

func (m *mockFetcher) callCount(username string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == username {
			n++
		}
	}
	return n
}

type checkerFixture struct {
	checker  *Checker
	store    services.StoreServiceInterface
	fetcher  *mockFetcher
	notifier *mockNotifier
	clock    *testutil.MockClock
	metrics  *testutil.MockMetrics
}

func newCheckerFixture(threshold int, pacing time.Duration) *checkerFixture {
	conf := &structures.Config{}
	conf.Monitor.ConfirmationThreshold = threshold
	conf.Monitor.Pacing = pacing
	conf.Monitor.FetchTimeout = 5 * time.Second

	store := services.NewStoreService(conf)
	fetcher := &mockFetcher{Statuses: make(map[string]models.Status), Errs: make(map[string]error)}
	notifier := &mockNotifier{}
	clock := &testutil.MockClock{}
	metrics := &testutil.MockMetrics{}
	logger := &testutil.MockLogger{}

	confirmer := NewConfirmer(conf, store, clock)
	migrator := NewMigrator(store, notifier, metrics, logger)
	checker := NewChecker(conf, store, fetcher, confirmer, migrator, metrics, logger, clock)

	return &checkerFixture{
		checker:  checker,
		store:    store,
		fetcher:  fetcher,
		notifier: notifier,
		clock:    clock,
		metrics:  metrics,
	}
}

func TestRunCycle_EmptySetIsNoOp(t *testing.T) {
	f := newCheckerFixture(3, 0)
	f.checker.RunCycle(context.Background())

	assert.Empty(t, f.fetcher.Calls)
	checks, _ := f.store.StatsSnapshot()
	assert.Zero(t, checks)
}

func TestRunCycle_SharedUsernameFetchedOnce(t *testing.T) {
	f := newCheckerFixture(3, 0)
	for id := int64(1); id <= 5; id++ {
		f.store.GetOrCreateSubscriber(id, "")
		_, err := f.store.AddWatch(id, "shared")
		require.NoError(t, err)
	}

	f.checker.RunCycle(context.Background())

	assert.Equal(t, 1, f.fetcher.callCount("shared"))
	checks, _ := f.store.StatsSnapshot()
	assert.Equal(t, int64(1), checks)
}

func TestRunCycle_PacingBetweenUsernames(t *testing.T) {
	f := newCheckerFixture(3, 2*time.Second)
	f.store.GetOrCreateSubscriber(1, "")
	for _, name := range []string{"aaa", "bbb", "ccc"} {
		_, err := f.store.AddWatch(1, name)
		require.NoError(t, err)
	}

	f.checker.RunCycle(context.Background())

	// Pacing only between items: 3 usernames, 2 sleeps.
	require.Len(t, f.clock.Sleeps, 2)
	for _, d := range f.clock.Sleeps {
		assert.Equal(t, 2*time.Second, d)
	}
}

func TestRunCycle_BanConfirmedOnThirdCycle(t *testing.T) {
	f := newCheckerFixture(3, 0)
	f.store.GetOrCreateSubscriber(1, "alice")
	_, err := f.store.AddWatch(1, "target")
	require.NoError(t, err)
	f.fetcher.Statuses["target"] = models.StatusBanned

	f.checker.RunCycle(context.Background())
	assert.Equal(t, 1, f.store.GetConfirmation("target").Count)
	assert.Empty(t, f.notifier.Sent)

	f.checker.RunCycle(context.Background())
	assert.Equal(t, 2, f.store.GetConfirmation("target").Count)
	assert.Empty(t, f.notifier.Sent)

	f.checker.RunCycle(context.Background())

	require.Len(t, f.notifier.Sent, 1)
	assert.Equal(t, KindBanned, f.notifier.Sent[0].Kind)

	sub, _ := f.store.GetSubscriber(1)
	assert.False(t, sub.Watching("target"))
	assert.True(t, sub.Banned("target"))

	conf := f.store.GetConfirmation("target")
	assert.Equal(t, models.StatusUnknown, conf.Status)
	assert.Equal(t, 0, conf.Count)

	checks, alerts := f.store.StatsSnapshot()
	assert.Equal(t, int64(3), checks)
	assert.Equal(t, int64(1), alerts)
}

func TestRunCycle_TransitionFiresExactlyOnce(t *testing.T) {
	f := newCheckerFixture(3, 0)
	f.store.GetOrCreateSubscriber(1, "alice")
	_, err := f.store.AddWatch(1, "target")
	require.NoError(t, err)
	f.fetcher.Statuses["target"] = models.StatusBanned

	for i := 0; i < 6; i++ {
		f.checker.RunCycle(context.Background())
	}

	// Cycles 1-3 confirm the ban; afterwards the name sits on the ban list
	// and is no longer part of the sweep, so nothing re-fires.
	assert.Len(t, f.notifier.Sent, 1)
}

func TestRunCycle_FetchErrorContinuesSweep(t *testing.T) {
	f := newCheckerFixture(1, 0)
	f.store.GetOrCreateSubscriber(1, "")
	for _, name := range []string{"broken", "working"} {
		_, err := f.store.AddWatch(1, name)
		require.NoError(t, err)
	}
	f.fetcher.Errs["broken"] = errors.New("connection reset")
	f.fetcher.Statuses["working"] = models.StatusBanned

	f.checker.RunCycle(context.Background())

	// The failing username degraded to unknown; the other one still confirmed.
	assert.Equal(t, 1, f.fetcher.callCount("broken"))
	assert.Equal(t, 0, f.store.GetConfirmation("broken").Count)
	require.Len(t, f.notifier.Sent, 1)
	assert.Equal(t, "working", f.notifier.Sent[0].Username)

	checks, _ := f.store.StatsSnapshot()
	assert.Equal(t, int64(2), checks)
}

func TestRunCycle_OnlyWatchersNotified(t *testing.T) {
	f := newCheckerFixture(1, 0)
	f.store.GetOrCreateSubscriber(1, "alice")
	f.store.GetOrCreateSubscriber(2, "bob")
	_, err := f.store.AddWatch(1, "alicewatch")
	require.NoError(t, err)
	f.fetcher.Statuses["alicewatch"] = models.StatusBanned

	f.checker.RunCycle(context.Background())

	require.Len(t, f.notifier.Sent, 1)
	assert.Equal(t, int64(1), f.notifier.Sent[0].SubscriberID)
	bob, _ := f.store.GetSubscriber(2)
	assert.Empty(t, bob.BanList)
	assert.Empty(t, bob.WatchList)
}

func TestRunCycle_SweepsOrphanedCounters(t *testing.T) {
	f := newCheckerFixture(3, 0)
	f.store.GetOrCreateSubscriber(1, "alice")
	_, err := f.store.AddWatch(1, "kept")
	require.NoError(t, err)
	f.store.PutConfirmation("orphan", models.StatusActive, 2, time.Now())

	f.checker.RunCycle(context.Background())

	counters := f.store.CountersSnapshot()
	assert.Contains(t, counters, "kept")
	assert.NotContains(t, counters, "orphan")
}

func TestRunCycle_MetricsRecorded(t *testing.T) {
	f := newCheckerFixture(3, 0)
	f.store.GetOrCreateSubscriber(1, "")
	_, err := f.store.AddWatch(1, "target")
	require.NoError(t, err)

	f.checker.RunCycle(context.Background())

	assert.Equal(t, 1, f.metrics.Checks)
	assert.Equal(t, 1, f.metrics.Fetches)
	assert.Equal(t, 1, f.metrics.Cycles)
}
