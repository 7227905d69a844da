package models

// Storage is the single persisted document: every subscriber, the global
// confirmation counters keyed by normalized username, and the aggregate
// statistics. Subscriber keys are decimal chat ids.
type Storage struct {
	Subscribers map[string]*Subscriber   `json:"users"`
	Counters    map[string]*Confirmation `json:"confirmation_counters"`
	Stats       *Stats                   `json:"stats"`
}

func NewStorage() *Storage {
	return &Storage{
		Subscribers: make(map[string]*Subscriber),
		Counters:    make(map[string]*Confirmation),
		Stats:       &Stats{},
	}
}
