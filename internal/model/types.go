package model

import "time"

// Identity is the upstream's stable numeric user id, kept in its decimal string form.
type Identity string

// Credential is an access token/secret pair owned by one Identity.
type Credential struct {
	Token  string
	Secret string
}

// Valid reports whether both halves are present.
func (c Credential) Valid() bool { return c.Token != "" && c.Secret != "" }

// RequestToken is the temporary token handed out in the first leg of the OAuth dance.
type RequestToken struct {
	Token             string
	Secret            string
	CallbackConfirmed bool
}

// PendingAuthorization is the per-session state kept between /configure/ and /return/.
type PendingAuthorization struct {
	ReturnURL     string `json:"return_url"`
	RequestToken  string `json:"request_token"`
	RequestSecret string `json:"request_secret"`
}

// Author is the subset of upstream user fields shown on an edition.
type Author struct {
	ID              string
	ScreenName      string
	Name            string
	ProfileImageURL string
}

// ActivityItem is one post from the upstream timeline.
type ActivityItem struct {
	ID            string
	Text          string
	CreatedAt     time.Time
	FavoriteCount int
	RetweetCount  int
	Author        Author
}

// ScoredItem is an ActivityItem with its derived score.
type ScoredItem struct {
	ActivityItem
	Score int
}

// Digest is one day's edition for one identity.
type Digest struct {
	Items         []ScoredItem
	TotalInWindow int
	DaysFetched   int
	DisplayName   string
	Handle        string
	AvatarURL     string
	ValidationTag string
}
