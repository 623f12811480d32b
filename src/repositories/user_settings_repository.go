package repositories

import (
	"context"
	"errors"
	"time"

	"tradebit/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserSettingsRepository is the credential store for broker API keys and
// session tokens, keyed by user identity.
type UserSettingsRepository interface {
	Get(ctx context.Context, userID string) (*models.UserSettings, error)
	UpsertCredentials(ctx context.Context, userID, apiKey, apiSecret string) error
	UpdateSession(ctx context.Context, userID, requestToken, accessToken, refreshToken string, expiry time.Time) error
	ListConfigured(ctx context.Context) ([]string, error)
}

type userSettingsRepo struct {
	db *pgxpool.Pool
}

func NewUserSettingsRepository(db *pgxpool.Pool) UserSettingsRepository {
	return &userSettingsRepo{db: db}
}

func (r *userSettingsRepo) Get(ctx context.Context, userID string) (*models.UserSettings, error) {
	var s models.UserSettings
	err := r.db.QueryRow(ctx,
		`SELECT user_id, kite_api_key, kite_api_secret, kite_request_token,
			kite_access_token, kite_refresh_token, kite_session_expiry, updated_at
		FROM user_settings
		WHERE user_id = $1`,
		userID).Scan(&s.UserID, &s.KiteAPIKey, &s.KiteAPISecret, &s.KiteRequestToken,
		&s.KiteAccessToken, &s.KiteRefreshToken, &s.KiteSessionExpiry, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *userSettingsRepo) UpsertCredentials(ctx context.Context, userID, apiKey, apiSecret string) error {
	// Changing the key pair invalidates any session issued for the old pair.
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_settings (user_id, kite_api_key, kite_api_secret, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id) DO UPDATE SET
			kite_api_key = EXCLUDED.kite_api_key,
			kite_api_secret = EXCLUDED.kite_api_secret,
			kite_request_token = NULL,
			kite_access_token = NULL,
			kite_refresh_token = NULL,
			kite_session_expiry = NULL,
			updated_at = now()`,
		userID, apiKey, apiSecret)
	return err
}

func (r *userSettingsRepo) UpdateSession(ctx context.Context, userID, requestToken, accessToken, refreshToken string, expiry time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE user_settings SET
			kite_request_token = $2,
			kite_access_token = $3,
			kite_refresh_token = $4,
			kite_session_expiry = $5,
			updated_at = now()
		WHERE user_id = $1`,
		userID, requestToken, accessToken, refreshToken, expiry)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("user settings not found")
	}
	return nil
}

func (r *userSettingsRepo) ListConfigured(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM user_settings
		WHERE kite_api_key IS NOT NULL AND kite_api_key <> ''
		AND kite_api_secret IS NOT NULL AND kite_api_secret <> ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, rows.Err()
}
