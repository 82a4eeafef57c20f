package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Sujay149/Kerala-migrates-sub001/internal/domain/entities"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/domain/repositories"
)

type submissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepository(db *sqlx.DB) repositories.SubmissionRepository {
	return &submissionRepository{db: db}
}

// submissionRow mirrors the submissions table; files and qr are JSONB.
type submissionRow struct {
	ID            string     `db:"id"`
	SubmissionID  string     `db:"submission_id"`
	UserID        string     `db:"user_id"`
	UserEmail     string     `db:"user_email"`
	UserName      string     `db:"user_name"`
	Files         []byte     `db:"files"`
	Status        string     `db:"status"`
	TotalFiles    int        `db:"total_files"`
	ApprovedFiles int        `db:"approved_files"`
	RejectedFiles int        `db:"rejected_files"`
	PendingFiles  int        `db:"pending_files"`
	QR            []byte     `db:"qr"`
	Version       int64      `db:"version"`
	SubmittedAt   time.Time  `db:"submitted_at"`
	ReviewedAt    *time.Time `db:"reviewed_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

const submissionColumns = `id, submission_id, user_id, user_email, user_name, files, status,
	total_files, approved_files, rejected_files, pending_files, qr, version,
	submitted_at, reviewed_at, updated_at`

func toRow(sub *entities.Submission) (*submissionRow, error) {
	files, err := json.Marshal(sub.Files)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal files: %w", err)
	}

	var qr []byte
	if sub.QR != nil {
		qr, err = json.Marshal(sub.QR)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal qr metadata: %w", err)
		}
	}

	return &submissionRow{
		ID:            sub.ID,
		SubmissionID:  sub.SubmissionID,
		UserID:        sub.UserID,
		UserEmail:     sub.UserEmail,
		UserName:      sub.UserName,
		Files:         files,
		Status:        string(sub.Status),
		TotalFiles:    sub.TotalFiles,
		ApprovedFiles: sub.ApprovedFiles,
		RejectedFiles: sub.RejectedFiles,
		PendingFiles:  sub.PendingFiles,
		QR:            qr,
		Version:       sub.Version,
		SubmittedAt:   sub.SubmittedAt,
		ReviewedAt:    sub.ReviewedAt,
		UpdatedAt:     sub.UpdatedAt,
	}, nil
}

func (r *submissionRow) toEntity() (*entities.Submission, error) {
	sub := &entities.Submission{
		ID:            r.ID,
		SubmissionID:  r.SubmissionID,
		UserID:        r.UserID,
		UserEmail:     r.UserEmail,
		UserName:      r.UserName,
		Status:        entities.SubmissionStatus(r.Status),
		TotalFiles:    r.TotalFiles,
		ApprovedFiles: r.ApprovedFiles,
		RejectedFiles: r.RejectedFiles,
		PendingFiles:  r.PendingFiles,
		Version:       r.Version,
		SubmittedAt:   r.SubmittedAt,
		ReviewedAt:    r.ReviewedAt,
		UpdatedAt:     r.UpdatedAt,
	}

	if err := json.Unmarshal(r.Files, &sub.Files); err != nil {
		return nil, fmt.Errorf("failed to unmarshal files: %w", err)
	}

	if len(r.QR) > 0 {
		sub.QR = &entities.QRMetadata{}
		if err := json.Unmarshal(r.QR, sub.QR); err != nil {
			return nil, fmt.Errorf("failed to unmarshal qr metadata: %w", err)
		}
	}

	return sub, nil
}

func (r *submissionRepository) Create(ctx context.Context, sub *entities.Submission) error {
	row, err := toRow(sub)
	if err != nil {
		return err
	}

	query := `INSERT INTO submissions (` + submissionColumns + `)
		VALUES (:id, :submission_id, :user_id, :user_email, :user_name, :files, :status,
			:total_files, :approved_files, :rejected_files, :pending_files, :qr, :version,
			:submitted_at, :reviewed_at, :updated_at)`

	_, err = r.db.NamedExecContext(ctx, query, row)
	return err
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*entities.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`

	var row submissionRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}

	return row.toEntity()
}

func (r *submissionRepository) GetBySubmissionID(ctx context.Context, submissionID string) (*entities.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE submission_id = $1`

	var row submissionRow
	if err := r.db.GetContext(ctx, &row, query, submissionID); err != nil {
		return nil, err
	}

	return row.toEntity()
}

func (r *submissionRepository) List(ctx context.Context, filter *entities.SubmissionFilter) ([]*entities.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE 1=1`
	args := []any{}
	argIndex := 1

	if filter.UserID != "" {
		query += fmt.Sprintf(" AND user_id = $%d", argIndex)
		args = append(args, filter.UserID)
		argIndex++
	}

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, string(filter.Status))
		argIndex++
	}

	query += " ORDER BY submitted_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
	}

	var rows []submissionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	subs := make([]*entities.Submission, 0, len(rows))
	for i := range rows {
		sub, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}

	return subs, nil
}

func (r *submissionRepository) UpdateCAS(ctx context.Context, sub *entities.Submission, expectedVersion int64) (bool, error) {
	row, err := toRow(sub)
	if err != nil {
		return false, err
	}

	query := `UPDATE submissions SET files = $1, status = $2, total_files = $3,
		approved_files = $4, rejected_files = $5, pending_files = $6,
		version = $7, reviewed_at = $8, updated_at = $9
		WHERE id = $10 AND version = $11`

	res, err := r.db.ExecContext(ctx, query,
		row.Files, row.Status, row.TotalFiles,
		row.ApprovedFiles, row.RejectedFiles, row.PendingFiles,
		row.Version, row.ReviewedAt, row.UpdatedAt,
		row.ID, expectedVersion,
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func (r *submissionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM submissions WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
