package domain

// Identity is the authenticated user bound to a session after a successful
// OAuth callback. It is normalized from the provider profile and stored with
// the session; it is never persisted next to pokemon records.
type Identity struct {
	Provider    string   `json:"provider"`
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName"`
	ProfileURL  string   `json:"profileUrl,omitempty"`
	Emails      []string `json:"emails,omitempty"`
	Photos      []string `json:"photos,omitempty"`
}

// PrimaryEmail returns the first known email address, or "".
func (i Identity) PrimaryEmail() string {
	if len(i.Emails) == 0 {
		return ""
	}
	return i.Emails[0]
}
