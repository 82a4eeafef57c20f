package entities

import "time"

// FileStatus is the review state of a single uploaded file. A file starts
// as pending and may move to approved or rejected exactly once.
type FileStatus string

const (
	FileStatusPending  FileStatus = "pending"
	FileStatusApproved FileStatus = "approved"
	FileStatusRejected FileStatus = "rejected"
)

func (s FileStatus) Valid() bool {
	switch s {
	case FileStatusPending, FileStatusApproved, FileStatusRejected:
		return true
	}
	return false
}

// Decided reports whether the file has already been reviewed.
func (s FileStatus) Decided() bool {
	return s == FileStatusApproved || s == FileStatusRejected
}

// SubmissionStatus is the aggregate state of a submission, derived from the
// statuses of its files.
type SubmissionStatus string

const (
	SubmissionStatusDraft             SubmissionStatus = "draft"
	SubmissionStatusSubmitted         SubmissionStatus = "submitted"
	SubmissionStatusUnderReview       SubmissionStatus = "under_review"
	SubmissionStatusPartiallyApproved SubmissionStatus = "partially_approved"
	SubmissionStatusApproved          SubmissionStatus = "approved"
	SubmissionStatusRejected          SubmissionStatus = "rejected"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionStatusDraft, SubmissionStatusSubmitted, SubmissionStatusUnderReview,
		SubmissionStatusPartiallyApproved, SubmissionStatusApproved, SubmissionStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether review of the submission is complete.
func (s SubmissionStatus) Terminal() bool {
	return s == SubmissionStatusApproved || s == SubmissionStatusRejected ||
		s == SubmissionStatusPartiallyApproved
}

// SubmissionFile is one uploaded artifact inside a submission.
type SubmissionFile struct {
	ID          string     `json:"id"`
	FileName    string     `json:"file_name"`
	StoredName  string     `json:"stored_name"`
	MIME        string     `json:"mime"`
	Size        int64      `json:"size"`
	Description string     `json:"description,omitempty"`
	Status      FileStatus `json:"status"`
	ReviewNote  *string    `json:"review_note,omitempty"`
	ReviewedBy  *string    `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	FileData    *string    `json:"file_data,omitempty"`
	UploadedAt  time.Time  `json:"uploaded_at"`
}

// QRMetadata carries the artifacts minted at submission time: the rendered
// QR image (a PNG data URL encoding the admin URL) and the encrypted access
// token used by the separate QR-scan flow.
type QRMetadata struct {
	ImageData   string    `json:"image_data"`
	AdminURL    string    `json:"admin_url"`
	AccessToken string    `json:"access_token"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Submission is a batch of files uploaded together by one user and reviewed
// file by file. Counts and Status are recomputed from the files on every
// review action; Version guards concurrent write-backs.
type Submission struct {
	ID            string           `json:"id"`
	SubmissionID  string           `json:"submission_id"`
	UserID        string           `json:"user_id"`
	UserEmail     string           `json:"user_email"`
	UserName      string           `json:"user_name"`
	Files         []SubmissionFile `json:"files"`
	Status        SubmissionStatus `json:"status"`
	TotalFiles    int              `json:"total_files"`
	ApprovedFiles int              `json:"approved_files"`
	RejectedFiles int              `json:"rejected_files"`
	PendingFiles  int              `json:"pending_files"`
	QR            *QRMetadata      `json:"qr,omitempty"`
	Version       int64            `json:"version"`
	SubmittedAt   time.Time        `json:"submitted_at"`
	ReviewedAt    *time.Time       `json:"reviewed_at,omitempty"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// FileByID returns a pointer into Files for in-place mutation, or nil.
func (s *Submission) FileByID(fileID string) *SubmissionFile {
	for i := range s.Files {
		if s.Files[i].ID == fileID {
			return &s.Files[i]
		}
	}
	return nil
}

// SubmissionFilter narrows list queries.
type SubmissionFilter struct {
	UserID string
	Status SubmissionStatus
	Limit  int
}
