package models

// Role is a subscriber's privilege level. Higher values include all
// capabilities of lower ones.
type Role uint8

const (
	RoleUser Role = iota
	RoleAdmin
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleAdmin:
		return "admin"
	default:
		return "user"
	}
}

// AtLeast reports whether r grants the capabilities of other.
func (r Role) AtLeast(other Role) bool {
	return r >= other
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	switch string(text) {
	case "owner":
		*r = RoleOwner
	case "admin":
		*r = RoleAdmin
	default:
		*r = RoleUser
	}
	return nil
}
