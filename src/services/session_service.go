package services

import (
	"context"
	"errors"

	"tradebit/src/clients/kite"
	"tradebit/src/config"
	"tradebit/src/repositories"
	"tradebit/src/schemas"
	"tradebit/src/utils"
	redis_utils "tradebit/src/utils/redis"
)

// ErrNotConfigured is returned when a user has no usable broker credential
// pair. It is a configuration condition, not a broker failure.
var ErrNotConfigured = errors.New("broker credentials not configured")

type SessionServiceI interface {
	LoginURL(ctx context.Context, userID string) (string, error)
	GenerateSession(ctx context.Context, userID, requestToken string) (*schemas.BrokerSession, error)
	ClientFor(ctx context.Context, userID string) (kite.KiteServiceClientI, error)
	IsSessionValid(ctx context.Context, client kite.KiteServiceClientI) bool
	Status(ctx context.Context, userID string) (*schemas.BrokerStatus, error)
	UpdateCredentials(ctx context.Context, userID, apiKey, apiSecret string) error
}

// SessionService manages the broker credential set and access-token lifecycle
// for every user. Tokens are persisted in the user settings store; the
// service never refreshes a session silently, recovery always goes through
// the login flow.
type SessionService struct {
	settingsRepo repositories.UserSettingsRepository
	cfg          *config.Config
	cacheHandler redis_utils.CacheHandlerI

	// NewClient builds the broker client; tests swap it for a stub.
	NewClient func(apiKey, apiSecret, accessToken string) kite.KiteServiceClientI
}

func NewSessionService(settingsRepo repositories.UserSettingsRepository, cfg *config.Config, cacheHandler redis_utils.CacheHandlerI) *SessionService {
	s := &SessionService{
		settingsRepo: settingsRepo,
		cfg:          cfg,
		cacheHandler: cacheHandler,
	}
	s.NewClient = func(apiKey, apiSecret, accessToken string) kite.KiteServiceClientI {
		return kite.NewClient(cfg, apiKey, apiSecret, accessToken, cacheHandler)
	}
	return s
}

// ClientFor returns a broker client for the user, or nil when no credential
// pair is configured. The stored access token is used as-is: validity is not
// checked here, only when IsSessionValid is explicitly invoked.
func (s *SessionService) ClientFor(ctx context.Context, userID string) (kite.KiteServiceClientI, error) {
	logger := utils.LoggerFromContext(ctx)

	settings, err := s.settingsRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !settings.IsConfigured() {
		logger.Warnf("broker API credentials not configured for user %s", userID)
		return nil, nil
	}

	accessToken := ""
	if settings.KiteAccessToken != nil {
		accessToken = *settings.KiteAccessToken
	}
	return s.NewClient(*settings.KiteAPIKey, *settings.KiteAPISecret, accessToken), nil
}

// LoginURL returns the broker authorization URL for the user.
func (s *SessionService) LoginURL(ctx context.Context, userID string) (string, error) {
	client, err := s.ClientFor(ctx, userID)
	if err != nil {
		return "", err
	}
	if client == nil {
		return "", ErrNotConfigured
	}
	return client.LoginURL(), nil
}

// GenerateSession exchanges the request token obtained from the login
// redirect and persists the resulting session alongside the credentials.
func (s *SessionService) GenerateSession(ctx context.Context, userID, requestToken string) (*schemas.BrokerSession, error) {
	client, err := s.ClientFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrNotConfigured
	}

	session, err := client.GenerateSession(ctx, requestToken)
	if err != nil {
		utils.LoggerFromContext(ctx).Errorf("session generation failed for user %s: %v", userID, err)
		return nil, err
	}

	err = s.settingsRepo.UpdateSession(ctx, userID, requestToken,
		session.AccessToken, session.RefreshToken, session.SessionExpiry)
	if err != nil {
		return nil, err
	}

	return &schemas.BrokerSession{
		AccessToken:   session.AccessToken,
		RefreshToken:  session.RefreshToken,
		SessionExpiry: session.SessionExpiry,
	}, nil
}

// IsSessionValid probes the broker with a lightweight authenticated call.
// Any failure, transport, auth or parse, reports false rather than
// propagating: this is a deliberate swallow boundary.
func (s *SessionService) IsSessionValid(ctx context.Context, client kite.KiteServiceClientI) bool {
	if client == nil || !client.HasAccessToken() {
		return false
	}
	if err := client.GetMargins(ctx); err != nil {
		utils.LoggerFromContext(ctx).Debugf("session probe failed: %v", err)
		return false
	}
	return true
}

// Status reports where the user sits in the session lifecycle.
func (s *SessionService) Status(ctx context.Context, userID string) (*schemas.BrokerStatus, error) {
	settings, err := s.settingsRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := &schemas.BrokerStatus{State: schemas.SessionStateNoCredentials}
	if !settings.IsConfigured() {
		return status, nil
	}

	status.Configured = true
	status.State = schemas.SessionStateConfigured
	status.SessionExpiry = settings.KiteSessionExpiry

	if settings.KiteAccessToken == nil || *settings.KiteAccessToken == "" {
		return status, nil
	}

	client, err := s.ClientFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.IsSessionValid(ctx, client) {
		status.SessionValid = true
		status.State = schemas.SessionStateAuthenticated
	} else {
		status.State = schemas.SessionStateExpired
	}
	return status, nil
}

// UpdateCredentials stores a new api key/secret pair for the user.
func (s *SessionService) UpdateCredentials(ctx context.Context, userID, apiKey, apiSecret string) error {
	if apiKey == "" || apiSecret == "" {
		return ErrNotConfigured
	}
	return s.settingsRepo.UpsertCredentials(ctx, userID, apiKey, apiSecret)
}
