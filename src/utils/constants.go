package utils

const ShortDashDateLayout = "2006-01-02"

const (
	// HoldingSourceKite marks holdings imported from the Kite broker sync.
	HoldingSourceKite = "kite"
	// HoldingSourceManual marks holdings entered by the user directly.
	HoldingSourceManual = "manual"
)

// SessionExpiryHour is the hour of day (local time) at which broker access
// tokens expire. Kite invalidates every token at 6 AM regardless of when it
// was issued.
const SessionExpiryHour = 6
