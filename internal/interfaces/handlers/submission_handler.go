package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sujay149/Kerala-migrates-sub001/internal/domain/entities"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/domain/services"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/interfaces/dto"
)

// SubmissionHandler is the HTTP boundary for the submission lifecycle: the
// owner CRUD surface, the admin review surface and the two gateway access
// paths (raw submission ID for admins, encrypted token for QR scans).
type SubmissionHandler struct {
	submissionSvc *services.SubmissionService
	authSvc       *services.AuthService
}

func NewSubmissionHandler(submissionSvc *services.SubmissionService, authSvc *services.AuthService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionSvc: submissionSvc,
		authSvc:       authSvc,
	}
}

func (h *SubmissionHandler) Create(c *gin.Context) {
	var req dto.SubmissionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, 400, err.Error())
		return
	}

	user, err := h.authSvc.ValidateToken(c.Request.Context(), req.Token)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	files := make([]services.FileInput, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, services.FileInput{
			FileName:    f.FileName,
			MIME:        f.MIME,
			Size:        f.Size,
			Description: f.Description,
			FileData:    f.FileData,
		})
	}

	sub, err := h.submissionSvc.Create(c.Request.Context(), user, files)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	respondWithSuccess(c, nil, dto.NewSubmissionView(sub))
}

func (h *SubmissionHandler) GetList(c *gin.Context) {
	var req dto.SubmissionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, 400, err.Error())
		return
	}

	user, err := h.authSvc.ValidateToken(c.Request.Context(), req.Token)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	status := entities.SubmissionStatus(req.Status)
	if req.Status != "" && !status.Valid() {
		respondWithError(c, http.StatusBadRequest, 400, "unknown status filter")
		return
	}

	filter := &entities.SubmissionFilter{
		UserID: user.ID,
		Status: status,
		Limit:  req.Limit,
	}

	subs, err := h.submissionSvc.List(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	views := make([]dto.SubmissionView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, dto.NewSubmissionView(sub))
	}

	respondWithSuccess(c, nil, dto.SubmissionListResponse{Submissions: views})
}

func (h *SubmissionHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	token := c.Query("token")
	if token == "" {
		respondWithError(c, http.StatusBadRequest, 400, "token is required")
		return
	}

	user, err := h.authSvc.ValidateToken(c.Request.Context(), token)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	sub, err := h.submissionSvc.GetByID(c.Request.Context(), id, user.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.logAccess(c, sub, entities.AccessTypeOwner, user.ID)

	respondWithSuccess(c, nil, dto.NewSubmissionView(sub))
}

// AdminGet serves the URL printed inside the QR image:
// /api/admin/submissions/<submissionId>.
func (h *SubmissionHandler) AdminGet(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		respondWithError(c, http.StatusBadRequest, 400, "token is required")
		return
	}

	admin, err := h.authSvc.ValidateAdminToken(c.Request.Context(), token)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	sub, err := h.submissionSvc.ResolveAdmin(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.logAccess(c, sub, entities.AccessTypeAdmin, admin.ID)

	respondWithSuccess(c, nil, dto.NewSubmissionView(sub))
}

func (h *SubmissionHandler) ReviewFile(c *gin.Context) {
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, 400, err.Error())
		return
	}

	admin, err := h.authSvc.ValidateAdminToken(c.Request.Context(), req.Token)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	decision := entities.FileStatus(req.Decision)
	if !decision.Valid() {
		respondWithError(c, http.StatusBadRequest, 400, "unknown review decision")
		return
	}

	sub, err := h.submissionSvc.ReviewFile(c.Request.Context(),
		c.Param("id"), c.Param("fileId"), admin.ID,
		services.ReviewInput{Decision: decision, Note: req.Note})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	respondWithSuccess(c, nil, dto.NewSubmissionView(sub))
}

// QRAccess is the token-gated access path. The encrypted token rides in the
// URL; the body carries scan metadata only. Token failures are deliberately
// indistinguishable from each other.
func (h *SubmissionHandler) QRAccess(c *gin.Context) {
	tok := c.Param("token")
	if tok == "" {
		respondWithError(c, http.StatusBadRequest, 400, "token is required")
		return
	}

	var req dto.QRAccessRequest
	_ = c.ShouldBindJSON(&req) // scan metadata is optional

	sub, payload, err := h.submissionSvc.ResolveToken(c.Request.Context(), tok)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.logAccess(c, sub, entities.AccessTypeQRScan, payload.UserID)

	respondWithSuccess(c, nil, dto.NewSubmissionView(sub))
}

func (h *SubmissionHandler) logAccess(c *gin.Context, sub *entities.Submission, accessType entities.AccessType, accessorID string) {
	h.submissionSvc.LogAccess(c.Request.Context(), &entities.AccessLog{
		SubmissionID: sub.ID,
		AccessType:   accessType,
		AccessorID:   accessorID,
		RemoteAddr:   c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	})
}
