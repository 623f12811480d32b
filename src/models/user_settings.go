package models

import "time"

// UserSettings holds the broker credential set for one user. Persistence of
// tokens is the caller's responsibility; the session service reads and
// mutates these fields through the repository.
type UserSettings struct {
	UserID            string     `db:"user_id"`
	KiteAPIKey        *string    `db:"kite_api_key"`
	KiteAPISecret     *string    `db:"kite_api_secret"`
	KiteRequestToken  *string    `db:"kite_request_token"`
	KiteAccessToken   *string    `db:"kite_access_token"`
	KiteRefreshToken  *string    `db:"kite_refresh_token"`
	KiteSessionExpiry *time.Time `db:"kite_session_expiry"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

// IsConfigured reports whether both api key and secret are present. Without
// both there is no usable broker client.
func (s *UserSettings) IsConfigured() bool {
	return s != nil &&
		s.KiteAPIKey != nil && *s.KiteAPIKey != "" &&
		s.KiteAPISecret != nil && *s.KiteAPISecret != ""
}
