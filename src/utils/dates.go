package utils

import (
	"time"
)

// NextSessionExpiry returns the broker session expiry for a token issued at
// the given time: 06:00 on the following calendar day. The broker resets all
// sessions daily at that hour, so the expiry is never a rolling TTL.
func NextSessionExpiry(issuedAt time.Time) time.Time {
	tomorrow := issuedAt.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), SessionExpiryHour, 0, 0, 0, issuedAt.Location())
}
