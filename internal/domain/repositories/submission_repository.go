package repositories

import (
	"context"

	"github.com/Sujay149/Kerala-migrates-sub001/internal/domain/entities"
)

type SubmissionRepository interface {
	Create(ctx context.Context, sub *entities.Submission) error
	GetByID(ctx context.Context, id string) (*entities.Submission, error)
	GetBySubmissionID(ctx context.Context, submissionID string) (*entities.Submission, error)
	List(ctx context.Context, filter *entities.SubmissionFilter) ([]*entities.Submission, error)
	// UpdateCAS writes the submission back only if the stored version still
	// equals expectedVersion. Returns false when another writer won.
	UpdateCAS(ctx context.Context, sub *entities.Submission, expectedVersion int64) (bool, error)
	Delete(ctx context.Context, id string) error
}
