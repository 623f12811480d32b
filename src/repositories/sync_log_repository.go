package repositories

import (
	"context"
	"errors"

	"tradebit/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SyncLogRepository interface {
	Create(ctx context.Context, log *models.SyncLog, tx pgx.Tx) error
	GetLatestByUserID(ctx context.Context, userID string) (*models.SyncLog, error)
}

type syncLogRepo struct {
	db *pgxpool.Pool
}

func NewSyncLogRepository(db *pgxpool.Pool) SyncLogRepository {
	return &syncLogRepo{db: db}
}

func (r *syncLogRepo) Create(ctx context.Context, log *models.SyncLog, tx pgx.Tx) error {
	query := `
		INSERT INTO sync_logs (user_id, created, updated, skipped, total, sync_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	if tx == nil {
		return r.db.QueryRow(ctx, query,
			log.UserID, log.Created, log.Updated, log.Skipped, log.Total, log.SyncDate,
		).Scan(&log.ID)
	}
	return tx.QueryRow(ctx, query,
		log.UserID, log.Created, log.Updated, log.Skipped, log.Total, log.SyncDate,
	).Scan(&log.ID)
}

func (r *syncLogRepo) GetLatestByUserID(ctx context.Context, userID string) (*models.SyncLog, error) {
	var log models.SyncLog
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, created, updated, skipped, total, sync_date
		FROM sync_logs
		WHERE user_id = $1
		ORDER BY sync_date DESC, id DESC
		LIMIT 1`,
		userID).Scan(&log.ID, &log.UserID, &log.Created, &log.Updated, &log.Skipped, &log.Total, &log.SyncDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}
