package models

import (
	"strings"
	"time"
)

// Subscriber is a chat user with their own watch and ban lists.
// A username sits in at most one of the two lists at a time.
type Subscriber struct {
	ID                 int64      `json:"user_id"`
	Username           string     `json:"username"`
	Role               Role       `json:"role"`
	SubscriptionExpiry *time.Time `json:"subscription_expiry"`
	WatchList          []string   `json:"watch_list"`
	BanList            []string   `json:"ban_list"`
}

func NewSubscriber(id int64, username string) *Subscriber {
	return &Subscriber{
		ID:        id,
		Username:  username,
		Role:      RoleUser,
		WatchList: make([]string, 0),
		BanList:   make([]string, 0),
	}
}

func (s *Subscriber) Watching(username string) bool {
	return containsString(s.WatchList, username)
}

func (s *Subscriber) Banned(username string) bool {
	return containsString(s.BanList, username)
}

// Clone returns a deep copy safe to hand out of the store.
func (s *Subscriber) Clone() *Subscriber {
	c := *s
	c.WatchList = append(make([]string, 0, len(s.WatchList)), s.WatchList...)
	c.BanList = append(make([]string, 0, len(s.BanList)), s.BanList...)
	if s.SubscriptionExpiry != nil {
		expiry := *s.SubscriptionExpiry
		c.SubscriptionExpiry = &expiry
	}
	return &c
}

// NormalizeUsername lower-cases a raw username and strips surrounding
// whitespace and any leading "@".
func NormalizeUsername(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.TrimLeft(name, "@")
	return strings.ToLower(name)
}

func containsString(list []string, val string) bool {
	for _, v := range list {
		if v == val {
			return true
		}
	}
	return false
}
