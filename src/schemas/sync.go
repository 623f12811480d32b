package schemas

// SyncResult summarizes one synchronization pass. A failed pass reports only
// the message; counts are meaningful on success.
type SyncResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
	Total   int    `json:"total"`
}

func SyncFailure(message string) *SyncResult {
	return &SyncResult{Success: false, Message: message}
}
