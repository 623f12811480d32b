package schemas

import "time"

// BrokerSession is returned from a completed login flow.
type BrokerSession struct {
	AccessToken   string    `json:"access_token"`
	RefreshToken  string    `json:"refresh_token"`
	SessionExpiry time.Time `json:"session_expiry"`
}

// Session states, in lifecycle order. Recovery from Expired always goes
// through the external login flow; there is no silent refresh.
const (
	SessionStateNoCredentials = "no_credentials"
	SessionStateConfigured    = "configured"
	SessionStateAuthenticated = "authenticated"
	SessionStateExpired       = "expired"
)

// BrokerStatus describes the current session state for a user.
type BrokerStatus struct {
	State         string     `json:"state"`
	Configured    bool       `json:"configured"`
	SessionValid  bool       `json:"session_valid"`
	SessionExpiry *time.Time `json:"session_expiry,omitempty"`
}

type CredentialsRequest struct {
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
}

type CallbackRequest struct {
	RequestToken string `json:"request_token"`
}

type LoginURLResponse struct {
	LoginURL string `json:"login_url"`
}
