package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sujay149/Kerala-migrates-sub001/internal/domain/entities"
)

func submissionWithFiles(statuses ...entities.FileStatus) *entities.Submission {
	sub := &entities.Submission{
		ID:           "internal-id",
		SubmissionID: "SUB-TEST-000001",
		Status:       entities.SubmissionStatusSubmitted,
		Version:      1,
	}
	for i, st := range statuses {
		sub.Files = append(sub.Files, entities.SubmissionFile{
			ID:     string(rune('a' + i)),
			Status: st,
		})
	}
	return sub
}

func TestRecomputeStatusDerivation(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name         string
		statuses     []entities.FileStatus
		wantStatus   entities.SubmissionStatus
		wantProgress int
		wantReviewed bool
	}{
		{
			name: "all_approved",
			statuses: []entities.FileStatus{
				entities.FileStatusApproved, entities.FileStatusApproved, entities.FileStatusApproved,
			},
			wantStatus:   entities.SubmissionStatusApproved,
			wantProgress: 100,
			wantReviewed: true,
		},
		{
			name: "mixed_decided",
			statuses: []entities.FileStatus{
				entities.FileStatusApproved, entities.FileStatusApproved, entities.FileStatusRejected,
			},
			wantStatus:   entities.SubmissionStatusPartiallyApproved,
			wantProgress: 67,
			wantReviewed: true,
		},
		{
			name: "all_rejected",
			statuses: []entities.FileStatus{
				entities.FileStatusRejected, entities.FileStatusRejected, entities.FileStatusRejected,
			},
			wantStatus:   entities.SubmissionStatusRejected,
			wantProgress: 0,
			wantReviewed: true,
		},
		{
			name: "partially_reviewed",
			statuses: []entities.FileStatus{
				entities.FileStatusApproved, entities.FileStatusPending, entities.FileStatusPending,
			},
			wantStatus:   entities.SubmissionStatusUnderReview,
			wantProgress: 33,
			wantReviewed: false,
		},
		{
			name: "nothing_reviewed",
			statuses: []entities.FileStatus{
				entities.FileStatusPending, entities.FileStatusPending, entities.FileStatusPending,
			},
			wantStatus:   entities.SubmissionStatusUnderReview,
			wantProgress: 0,
			wantReviewed: false,
		},
		{
			name:         "no_files",
			statuses:     nil,
			wantStatus:   entities.SubmissionStatusSubmitted,
			wantProgress: 0,
			wantReviewed: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sub := submissionWithFiles(tc.statuses...)
			RecomputeStatus(sub, now)

			assert.Equal(t, tc.wantStatus, sub.Status)

			// counts invariant
			assert.Equal(t, len(tc.statuses), sub.TotalFiles)
			assert.Equal(t, sub.TotalFiles, sub.ApprovedFiles+sub.RejectedFiles+sub.PendingFiles)

			if tc.wantReviewed {
				require.NotNil(t, sub.ReviewedAt)
				assert.Equal(t, now, *sub.ReviewedAt)
			} else {
				assert.Nil(t, sub.ReviewedAt)
			}

			display := ProjectStatus(sub)
			assert.Equal(t, tc.wantProgress, display.ProgressPercentage)
			assert.Equal(t, sub.Status, display.Status)
			assert.NotEmpty(t, display.Label)
			assert.NotEmpty(t, display.Color)
		})
	}
}

func TestRecomputeStatusIdempotentCounts(t *testing.T) {
	now := time.Now()
	sub := submissionWithFiles(
		entities.FileStatusApproved, entities.FileStatusRejected, entities.FileStatusPending,
	)

	RecomputeStatus(sub, now)
	firstStatus := sub.Status
	firstCounts := [3]int{sub.ApprovedFiles, sub.RejectedFiles, sub.PendingFiles}

	RecomputeStatus(sub, now)
	assert.Equal(t, firstStatus, sub.Status)
	assert.Equal(t, firstCounts, [3]int{sub.ApprovedFiles, sub.RejectedFiles, sub.PendingFiles})
}

func TestRecomputeStatusBumpsVersion(t *testing.T) {
	sub := submissionWithFiles(entities.FileStatusApproved)
	require.EqualValues(t, 1, sub.Version)

	RecomputeStatus(sub, time.Now())
	assert.EqualValues(t, 2, sub.Version)
}

func TestRecomputeStatusStampsReviewedAtOnce(t *testing.T) {
	first := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	sub := submissionWithFiles(entities.FileStatusApproved, entities.FileStatusRejected)

	RecomputeStatus(sub, first)
	require.NotNil(t, sub.ReviewedAt)
	assert.Equal(t, first, *sub.ReviewedAt)

	// recomputing later must preserve the first completion time
	RecomputeStatus(sub, later)
	assert.Equal(t, first, *sub.ReviewedAt)
	assert.Equal(t, later, sub.UpdatedAt)
}

func TestProjectStatusLabels(t *testing.T) {
	testCases := []struct {
		status entities.SubmissionStatus
		label  string
		color  string
	}{
		{entities.SubmissionStatusDraft, "Draft", "gray"},
		{entities.SubmissionStatusSubmitted, "Submitted", "blue"},
		{entities.SubmissionStatusUnderReview, "Under Review", "yellow"},
		{entities.SubmissionStatusPartiallyApproved, "Partially Approved", "orange"},
		{entities.SubmissionStatusApproved, "Approved", "green"},
		{entities.SubmissionStatusRejected, "Rejected", "red"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.status), func(t *testing.T) {
			d := ProjectStatus(&entities.Submission{Status: tc.status})
			assert.Equal(t, tc.label, d.Label)
			assert.Equal(t, tc.color, d.Color)
			assert.Equal(t, 0, d.ProgressPercentage)
		})
	}
}
