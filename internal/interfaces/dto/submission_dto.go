package dto

import (
	"time"

	"github.com/Sujay149/Kerala-migrates-sub001/internal/domain/entities"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/domain/services"
)

type SubmissionFileMeta struct {
	FileName    string  `json:"file_name" binding:"required"`
	MIME        string  `json:"mime" binding:"required"`
	Size        int64   `json:"size"`
	Description string  `json:"description"`
	FileData    *string `json:"file_data,omitempty"`
}

type SubmissionCreateRequest struct {
	Token string               `json:"token" binding:"required"`
	Files []SubmissionFileMeta `json:"files" binding:"required"`
}

type SubmissionListRequest struct {
	Token  string `form:"token" binding:"required"`
	Status string `form:"status"`
	Limit  int    `form:"limit"`
}

type ReviewRequest struct {
	Token    string  `json:"token" binding:"required"`
	Decision string  `json:"decision" binding:"required"`
	Note     *string `json:"note,omitempty"`
}

// QRAccessRequest is the metadata posted by the QR-scan flow alongside the
// token carried in the URL path.
type QRAccessRequest struct {
	AccessType string `json:"access_type"`
}

// SubmissionView is the display-ready projection returned by the gateway.
type SubmissionView struct {
	ID           string                    `json:"id"`
	SubmissionID string                    `json:"submission_id"`
	UserID       string                    `json:"user_id"`
	UserEmail    string                    `json:"user_email"`
	UserName     string                    `json:"user_name"`
	Files        []entities.SubmissionFile `json:"files"`
	Display      services.StatusDisplay    `json:"display"`
	Counts       SubmissionCounts          `json:"counts"`
	QR           *entities.QRMetadata      `json:"qr,omitempty"`
	SubmittedAt  time.Time                 `json:"submitted_at"`
	ReviewedAt   *time.Time                `json:"reviewed_at,omitempty"`
}

type SubmissionCounts struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Pending  int `json:"pending"`
}

// NewSubmissionView applies the display projection to a submission.
func NewSubmissionView(sub *entities.Submission) SubmissionView {
	return SubmissionView{
		ID:           sub.ID,
		SubmissionID: sub.SubmissionID,
		UserID:       sub.UserID,
		UserEmail:    sub.UserEmail,
		UserName:     sub.UserName,
		Files:        sub.Files,
		Display:      services.ProjectStatus(sub),
		Counts: SubmissionCounts{
			Total:    sub.TotalFiles,
			Approved: sub.ApprovedFiles,
			Rejected: sub.RejectedFiles,
			Pending:  sub.PendingFiles,
		},
		QR:          sub.QR,
		SubmittedAt: sub.SubmittedAt,
		ReviewedAt:  sub.ReviewedAt,
	}
}

type SubmissionListResponse struct {
	Submissions []SubmissionView `json:"submissions"`
}
