package models

import "time"

type SyncLog struct {
	ID       int       `db:"id"`
	UserID   string    `db:"user_id"`
	Created  int       `db:"created"`
	Updated  int       `db:"updated"`
	Skipped  int       `db:"skipped"`
	Total    int       `db:"total"`
	SyncDate time.Time `db:"sync_date"`
}
