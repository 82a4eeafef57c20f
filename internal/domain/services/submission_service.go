package services

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sujay149/Kerala-migrates-sub001/internal/domain/entities"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/domain/repositories"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/qr"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/token"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/utils"
	"github.com/Sujay149/Kerala-migrates-sub001/pkg/errors"
	"github.com/Sujay149/Kerala-migrates-sub001/pkg/logger"
)

const listCachePrefix = "subs:list:"

// FileInput describes one file in a submission create request, after the
// handler has stripped transport details.
type FileInput struct {
	FileName    string
	MIME        string
	Size        int64
	Description string
	FileData    *string
}

// ReviewInput carries an admin decision for a single file.
type ReviewInput struct {
	Decision entities.FileStatus
	Note     *string
}

type SubmissionService struct {
	subRepo   repositories.SubmissionRepository
	accessLog repositories.AccessLogRepository
	cache     CacheService
	codec     *token.Codec
	qrGen     *qr.Generator
}

func NewSubmissionService(
	subRepo repositories.SubmissionRepository,
	accessLog repositories.AccessLogRepository,
	cache CacheService,
	codec *token.Codec,
	qrGen *qr.Generator,
) *SubmissionService {
	return &SubmissionService{
		subRepo:   subRepo,
		accessLog: accessLog,
		cache:     cache,
		codec:     codec,
		qrGen:     qrGen,
	}
}

// Create assembles a submission from uploaded file metadata, mints its QR
// access token, renders the admin QR image and persists the record.
func (s *SubmissionService) Create(ctx context.Context, user *entities.User, files []FileInput) (*entities.Submission, error) {
	if len(files) == 0 {
		return nil, errors.NewBadRequestError("submission must contain at least one file")
	}

	now := time.Now()
	sub := &entities.Submission{
		ID:           uuid.NewString(),
		SubmissionID: utils.GenerateSubmissionID(),
		UserID:       user.ID,
		UserEmail:    user.Email,
		UserName:     user.Name,
		Status:       entities.SubmissionStatusSubmitted,
		Version:      1,
		SubmittedAt:  now,
		UpdatedAt:    now,
	}

	for _, in := range files {
		sub.Files = append(sub.Files, entities.SubmissionFile{
			ID:          uuid.NewString(),
			FileName:    in.FileName,
			StoredName:  uuid.NewString() + filepath.Ext(in.FileName),
			MIME:        in.MIME,
			Size:        in.Size,
			Description: in.Description,
			Status:      entities.FileStatusPending,
			FileData:    in.FileData,
			UploadedAt:  now,
		})
	}
	sub.TotalFiles = len(sub.Files)
	sub.PendingFiles = len(sub.Files)

	accessToken, err := s.codec.Encode(sub.SubmissionID, user.ID)
	if err != nil {
		return nil, errors.NewInternalError("failed to mint access token")
	}

	adminURL := s.qrGen.AdminURL(sub.SubmissionID)
	imageData, err := s.qrGen.GenerateDataURL(adminURL)
	if err != nil {
		return nil, errors.NewInternalError("failed to generate QR code")
	}

	sub.QR = &entities.QRMetadata{
		ImageData:   imageData,
		AdminURL:    adminURL,
		AccessToken: accessToken,
		GeneratedAt: now,
	}

	if err := s.subRepo.Create(ctx, sub); err != nil {
		logger.Error("failed to create submission", zap.Error(err))
		return nil, errors.NewInternalError("failed to create submission")
	}

	s.cache.InvalidatePrefix(ctx, listCachePrefix)

	return sub, nil
}

// GetByID returns a submission for its owner.
func (s *SubmissionService) GetByID(ctx context.Context, id, userID string) (*entities.Submission, error) {
	if sub, err := s.cache.GetSubmission(ctx, id); err == nil {
		if sub.UserID != userID {
			return nil, errors.NewForbiddenError("access denied")
		}
		return sub, nil
	}

	sub, err := s.subRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewNotFoundError("submission not found")
	}

	if sub.UserID != userID {
		return nil, errors.NewForbiddenError("access denied")
	}

	s.cache.SetSubmission(ctx, sub)

	return sub, nil
}

// List returns submissions matching the filter, read through the cache.
func (s *SubmissionService) List(ctx context.Context, filter *entities.SubmissionFilter) ([]*entities.Submission, error) {
	cacheKey := s.cache.GetListCacheKey(filter)
	if subs, err := s.cache.GetSubmissionList(ctx, cacheKey); err == nil {
		return subs, nil
	}

	subs, err := s.subRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.NewInternalError("failed to list submissions")
	}

	s.cache.SetSubmissionList(ctx, cacheKey, subs)

	return subs, nil
}

// ResolveAdmin fetches a submission by its human-readable submission ID, as
// carried in the admin QR URL. Falls back to the internal ID for older links.
func (s *SubmissionService) ResolveAdmin(ctx context.Context, ref string) (*entities.Submission, error) {
	sub, err := s.subRepo.GetBySubmissionID(ctx, ref)
	if err == nil {
		return sub, nil
	}

	sub, err = s.subRepo.GetByID(ctx, ref)
	if err != nil {
		return nil, errors.NewNotFoundError("submission not found")
	}

	return sub, nil
}

// ResolveToken validates a QR access token and fetches the submission it
// binds. All token failures are reported as one opaque unauthorized error;
// a valid token for a missing submission is a distinct not-found.
func (s *SubmissionService) ResolveToken(ctx context.Context, tok string) (*entities.Submission, *token.Payload, error) {
	payload, err := s.codec.Decode(tok)
	if err != nil {
		return nil, nil, errors.NewUnauthorizedError("invalid token")
	}

	sub, err := s.subRepo.GetBySubmissionID(ctx, payload.SubmissionID)
	if err != nil {
		return nil, nil, errors.NewNotFoundError("submission not found")
	}

	if sub.UserID != payload.UserID {
		return nil, nil, errors.NewUnauthorizedError("invalid token")
	}

	return sub, payload, nil
}

// ReviewFile applies an admin decision to a single pending file and
// recomputes the submission aggregate. The write-back is a compare-and-swap
// on the submission version; losing the race surfaces as a conflict.
func (s *SubmissionService) ReviewFile(ctx context.Context, id, fileID, reviewerID string, in ReviewInput) (*entities.Submission, error) {
	if !in.Decision.Decided() {
		return nil, errors.NewBadRequestError("decision must be approved or rejected")
	}

	sub, err := s.subRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewNotFoundError("submission not found")
	}

	file := sub.FileByID(fileID)
	if file == nil {
		return nil, errors.NewNotFoundError("file not found in submission")
	}

	if file.Status.Decided() {
		return nil, errors.NewConflictError("file has already been reviewed")
	}

	now := time.Now()
	file.Status = in.Decision
	file.ReviewNote = in.Note
	file.ReviewedBy = &reviewerID
	reviewedAt := now
	file.ReviewedAt = &reviewedAt

	expectedVersion := sub.Version
	RecomputeStatus(sub, now)

	ok, err := s.subRepo.UpdateCAS(ctx, sub, expectedVersion)
	if err != nil {
		logger.Error("failed to update submission", zap.String("id", id), zap.Error(err))
		return nil, errors.NewInternalError("failed to update submission")
	}
	if !ok {
		return nil, errors.NewConflictError("submission was modified concurrently, retry the review")
	}

	s.cache.InvalidateSubmission(ctx, id)
	s.cache.InvalidatePrefix(ctx, listCachePrefix)

	return sub, nil
}

// LogAccess records a gateway read. Failures are logged and swallowed; an
// audit miss must not break the read path.
func (s *SubmissionService) LogAccess(ctx context.Context, entry *entities.AccessLog) {
	entry.ID = uuid.NewString()
	if entry.AccessedAt.IsZero() {
		entry.AccessedAt = time.Now()
	}

	if err := s.accessLog.Create(ctx, entry); err != nil {
		logger.Warn("failed to record access log",
			zap.String("submission_id", entry.SubmissionID),
			zap.Error(err),
		)
	}
}
