package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sujay149/Kerala-migrates-sub001/internal/domain/entities"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/domain/repositories"
)

type accessLogRepository struct {
	pool *pgxpool.Pool
}

func NewAccessLogRepository(pool *pgxpool.Pool) repositories.AccessLogRepository {
	return &accessLogRepository{pool: pool}
}

func (r *accessLogRepository) Create(ctx context.Context, entry *entities.AccessLog) error {
	query := `INSERT INTO access_logs (id, submission_id, access_type, accessor_id, remote_addr, user_agent, accessed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		entry.ID, entry.SubmissionID, string(entry.AccessType), entry.AccessorID,
		entry.RemoteAddr, entry.UserAgent, entry.AccessedAt)
	return err
}

func (r *accessLogRepository) ListBySubmission(ctx context.Context, submissionID string, limit int) ([]*entities.AccessLog, error) {
	query := `SELECT id, submission_id, access_type, accessor_id, remote_addr, user_agent, accessed_at
		FROM access_logs WHERE submission_id = $1 ORDER BY accessed_at DESC LIMIT $2`

	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, query, submissionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*entities.AccessLog
	for rows.Next() {
		var e entities.AccessLog
		var accessType string
		if err := rows.Scan(&e.ID, &e.SubmissionID, &accessType, &e.AccessorID,
			&e.RemoteAddr, &e.UserAgent, &e.AccessedAt); err != nil {
			return nil, err
		}
		e.AccessType = entities.AccessType(accessType)
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
