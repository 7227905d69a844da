package services

import (
	"errors"
	"igmond/internal/models"
	"igmond/internal/structures"
	"sort"
	"strconv"
	"sync"
	"time"
)

var (
	ErrUnknownSubscriber = errors.New("unknown subscriber")
	ErrEmptyUsername     = errors.New("empty username")
	ErrAlreadyWatching   = errors.New("already watching")
	ErrWatchLimit        = errors.New("watch list limit reached")
)

type StoreServiceInterface interface {
	GetSubscriber(id int64) (*models.Subscriber, bool)
	GetOrCreateSubscriber(id int64, username string) *models.Subscriber
	SetRole(id int64, role models.Role) bool
	ExtendSubscription(id int64, until time.Time) bool
	IsSubscribed(id int64) bool
	AddWatch(id int64, raw string) (string, error)
	RemoveFromWatch(id int64, username string) bool
	AddToBan(id int64, username string) bool
	RemoveFromBan(id int64, username string) bool
	Subscribers() []*models.Subscriber
	WatchedUsernames() []string
	GetConfirmation(username string) models.Confirmation
	PutConfirmation(username string, status models.Status, count int, at time.Time)
	ResetConfirmation(username string)
	SweepOrphanCounters() int
	CountersSnapshot() map[string]models.Confirmation
	AddChecks(n int)
	AddAlerts(n int)
	StatsSnapshot() (checks int64, alerts int64)
	CountSubscribers() int
	CountWatched() int
	Snapshot() *models.Storage
	Replace(storage *models.Storage)
}

// StoreService owns every persisted record. All mutations happen under one
// lock, so each list or counter change is atomic with respect to readers;
// callers must not cache returned records across a fetch.
type StoreService struct {
	mu         sync.RWMutex
	storage    *models.Storage
	maxPerUser int
}

func NewStoreService(conf *structures.Config) StoreServiceInterface {
	return &StoreService{
		storage:    models.NewStorage(),
		maxPerUser: conf.Monitor.MaxUsernamesPerUser,
	}
}

func key(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (s *StoreService) GetSubscriber(id int64) (*models.Subscriber, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.storage.Subscribers[key(id)]
	if !ok {
		return nil, false
	}
	return sub.Clone(), true
}

func (s *StoreService) GetOrCreateSubscriber(id int64, username string) *models.Subscriber {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub, ok := s.storage.Subscribers[key(id)]; ok {
		if username != "" && sub.Username != username {
			sub.Username = username
		}
		return sub.Clone()
	}
	sub := models.NewSubscriber(id, username)
	s.storage.Subscribers[key(id)] = sub
	return sub.Clone()
}

func (s *StoreService) SetRole(id int64, role models.Role) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.storage.Subscribers[key(id)]
	if !ok {
		return false
	}
	sub.Role = role
	return true
}

func (s *StoreService) ExtendSubscription(id int64, until time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.storage.Subscribers[key(id)]
	if !ok {
		return false
	}
	sub.SubscriptionExpiry = &until
	return true
}

// IsSubscribed reports whether a subscriber may issue watch commands.
// Owners and admins are exempt from expiry.
func (s *StoreService) IsSubscribed(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.storage.Subscribers[key(id)]
	if !ok {
		return false
	}
	if sub.Role.AtLeast(models.RoleAdmin) {
		return true
	}
	return sub.SubscriptionExpiry != nil && sub.SubscriptionExpiry.After(time.Now())
}

// AddWatch normalizes raw, adds it to the subscriber's watch list and seeds
// the global counter. Watching a name clears it from the subscriber's ban
// list, keeping the two lists disjoint.
func (s *StoreService) AddWatch(id int64, raw string) (string, error) {
	username := models.NormalizeUsername(raw)
	if username == "" {
		return "", ErrEmptyUsername
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.storage.Subscribers[key(id)]
	if !ok {
		return username, ErrUnknownSubscriber
	}
	if sub.Watching(username) {
		return username, ErrAlreadyWatching
	}
	if s.maxPerUser > 0 && len(sub.WatchList) >= s.maxPerUser {
		return username, ErrWatchLimit
	}

	sub.WatchList = append(sub.WatchList, username)
	sub.BanList, _ = removeFrom(sub.BanList, username)
	if _, ok := s.storage.Counters[username]; !ok {
		s.storage.Counters[username] = models.NewConfirmation()
	}
	return username, nil
}

func (s *StoreService) RemoveFromWatch(id int64, username string) bool {
	username = models.NormalizeUsername(username)
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.storage.Subscribers[key(id)]
	if !ok {
		return false
	}
	var removed bool
	sub.WatchList, removed = removeFrom(sub.WatchList, username)
	return removed
}

// AddToBan is idempotent: adding an already-present entry is a no-op
// reported as success.
func (s *StoreService) AddToBan(id int64, username string) bool {
	username = models.NormalizeUsername(username)
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.storage.Subscribers[key(id)]
	if !ok {
		return false
	}
	if !sub.Banned(username) {
		sub.BanList = append(sub.BanList, username)
	}
	return true
}

func (s *StoreService) RemoveFromBan(id int64, username string) bool {
	username = models.NormalizeUsername(username)
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.storage.Subscribers[key(id)]
	if !ok {
		return false
	}
	var removed bool
	sub.BanList, removed = removeFrom(sub.BanList, username)
	return removed
}

func (s *StoreService) Subscribers() []*models.Subscriber {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subs := make([]*models.Subscriber, 0, len(s.storage.Subscribers))
	for _, sub := range s.storage.Subscribers {
		subs = append(subs, sub.Clone())
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs
}

// WatchedUsernames returns the deduplicated union of every subscriber's
// watch list, sorted for a stable sweep order.
func (s *StoreService) WatchedUsernames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := make(map[string]struct{})
	for _, sub := range s.storage.Subscribers {
		for _, name := range sub.WatchList {
			set[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *StoreService) GetConfirmation(username string) models.Confirmation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if conf, ok := s.storage.Counters[username]; ok {
		return *conf
	}
	return *models.NewConfirmation()
}

func (s *StoreService) PutConfirmation(username string, status models.Status, count int, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storage.Counters[username] = &models.Confirmation{Status: status, Count: count, LastCheck: at}
}

func (s *StoreService) ResetConfirmation(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conf, ok := s.storage.Counters[username]; ok {
		conf.Status = models.StatusUnknown
		conf.Count = 0
	}
}

// SweepOrphanCounters drops counters for usernames no longer present in any
// subscriber's watch or ban list and returns how many were removed.
func (s *StoreService) SweepOrphanCounters() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	referenced := make(map[string]struct{})
	for _, sub := range s.storage.Subscribers {
		for _, name := range sub.WatchList {
			referenced[name] = struct{}{}
		}
		for _, name := range sub.BanList {
			referenced[name] = struct{}{}
		}
	}
	removed := 0
	for name := range s.storage.Counters {
		if _, ok := referenced[name]; !ok {
			delete(s.storage.Counters, name)
			removed++
		}
	}
	return removed
}

func (s *StoreService) CountersSnapshot() map[string]models.Confirmation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.Confirmation, len(s.storage.Counters))
	for name, conf := range s.storage.Counters {
		out[name] = *conf
	}
	return out
}

func (s *StoreService) AddChecks(n int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.storage.Stats.TotalChecks.Add(int64(n))
}

func (s *StoreService) AddAlerts(n int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.storage.Stats.AlertsSent.Add(int64(n))
}

func (s *StoreService) StatsSnapshot() (int64, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.storage.Stats.TotalChecks.Load(), s.storage.Stats.AlertsSent.Load()
}

func (s *StoreService) CountSubscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.storage.Subscribers)
}

func (s *StoreService) CountWatched() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := make(map[string]struct{})
	for _, sub := range s.storage.Subscribers {
		for _, name := range sub.WatchList {
			set[name] = struct{}{}
		}
	}
	return len(set)
}

// Snapshot deep-copies the document for persistence, so the file manager can
// marshal it without holding the store lock.
func (s *StoreService) Snapshot() *models.Storage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := models.NewStorage()
	for k, sub := range s.storage.Subscribers {
		out.Subscribers[k] = sub.Clone()
	}
	for name, conf := range s.storage.Counters {
		c := *conf
		out.Counters[name] = &c
	}
	out.Stats.TotalChecks.Store(s.storage.Stats.TotalChecks.Load())
	out.Stats.AlertsSent.Store(s.storage.Stats.AlertsSent.Load())
	return out
}

func (s *StoreService) Replace(storage *models.Storage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if storage.Subscribers == nil {
		storage.Subscribers = make(map[string]*models.Subscriber)
	}
	if storage.Counters == nil {
		storage.Counters = make(map[string]*models.Confirmation)
	}
	if storage.Stats == nil {
		storage.Stats = &models.Stats{}
	}
	for _, sub := range storage.Subscribers {
		if sub.WatchList == nil {
			sub.WatchList = make([]string, 0)
		}
		if sub.BanList == nil {
			sub.BanList = make([]string, 0)
		}
	}
	s.storage = storage
}

func removeFrom(list []string, val string) ([]string, bool) {
	for i, v := range list {
		if v == val {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}
