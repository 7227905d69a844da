package models

// Profile is a point-in-time snapshot returned by the profile fetcher.
type Profile struct {
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Followers int    `json:"followers"`
	Status    Status `json:"status"`
}

func UnknownProfile(username string) *Profile {
	return &Profile{Username: username, Status: StatusUnknown}
}
