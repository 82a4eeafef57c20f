package repositories

import (
	"context"

	"github.com/Sujay149/Kerala-migrates-sub001/internal/domain/entities"
)

type AccessLogRepository interface {
	Create(ctx context.Context, entry *entities.AccessLog) error
	ListBySubmission(ctx context.Context, submissionID string, limit int) ([]*entities.AccessLog, error)
}
