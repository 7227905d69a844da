package models

// Status is the observed state of a tracked Instagram account.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusActive
	StatusBanned
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusBanned:
		return "banned"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText maps unrecognized values to StatusUnknown so that a
// hand-edited or older store file never fails to load.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "active":
		*s = StatusActive
	case "banned":
		*s = StatusBanned
	default:
		*s = StatusUnknown
	}
	return nil
}
