package services

import (
	"math"
	"time"

	"github.com/Sujay149/Kerala-migrates-sub001/internal/domain/entities"
)

// RecomputeStatus derives the aggregate submission status from the per-file
// statuses and refreshes the counters. It performs no I/O.
//
// Callers invoke it only after an actual file-status change; each call bumps
// the version counter and the updated-at timestamp. The review-completion
// timestamp is stamped once, on the transition to zero pending files, and
// preserved afterwards.
func RecomputeStatus(sub *entities.Submission, now time.Time) {
	var approved, rejected, pending int
	for _, f := range sub.Files {
		switch f.Status {
		case entities.FileStatusApproved:
			approved++
		case entities.FileStatusRejected:
			rejected++
		case entities.FileStatusPending:
			pending++
		}
	}

	total := len(sub.Files)
	sub.TotalFiles = total
	sub.ApprovedFiles = approved
	sub.RejectedFiles = rejected
	sub.PendingFiles = pending

	switch {
	case total == 0:
		sub.Status = entities.SubmissionStatusSubmitted
	case pending == 0:
		switch {
		case approved == total:
			sub.Status = entities.SubmissionStatusApproved
		case rejected == total:
			sub.Status = entities.SubmissionStatusRejected
		default:
			sub.Status = entities.SubmissionStatusPartiallyApproved
		}
		if sub.ReviewedAt == nil {
			t := now
			sub.ReviewedAt = &t
		}
	default:
		sub.Status = entities.SubmissionStatusUnderReview
	}

	sub.Version++
	sub.UpdatedAt = now
}

// StatusDisplay is the display-ready projection of a submission's state.
type StatusDisplay struct {
	Status             entities.SubmissionStatus `json:"status"`
	Label              string                    `json:"label"`
	Color              string                    `json:"color"`
	ProgressPercentage int                       `json:"progress_percentage"`
}

// ProjectStatus maps a submission to its display projection. Progress is the
// share of approved files, rounded, and 0 for an empty submission.
func ProjectStatus(sub *entities.Submission) StatusDisplay {
	d := StatusDisplay{Status: sub.Status}

	switch sub.Status {
	case entities.SubmissionStatusDraft:
		d.Label, d.Color = "Draft", "gray"
	case entities.SubmissionStatusSubmitted:
		d.Label, d.Color = "Submitted", "blue"
	case entities.SubmissionStatusUnderReview:
		d.Label, d.Color = "Under Review", "yellow"
	case entities.SubmissionStatusPartiallyApproved:
		d.Label, d.Color = "Partially Approved", "orange"
	case entities.SubmissionStatusApproved:
		d.Label, d.Color = "Approved", "green"
	case entities.SubmissionStatusRejected:
		d.Label, d.Color = "Rejected", "red"
	default:
		d.Label, d.Color = string(sub.Status), "gray"
	}

	if sub.TotalFiles > 0 {
		d.ProgressPercentage = int(math.Round(float64(sub.ApprovedFiles) / float64(sub.TotalFiles) * 100))
	}

	return d
}
