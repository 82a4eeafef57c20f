package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sujay149/Kerala-migrates-sub001/internal/domain/entities"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/domain/services"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/qr"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/token"
	"github.com/Sujay149/Kerala-migrates-sub001/pkg/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := logger.InitLogger("dev"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

var errMissing = errors.New("not found")

type memSubmissionRepo struct {
	byID map[string]*entities.Submission
}

func (r *memSubmissionRepo) Create(_ context.Context, sub *entities.Submission) error {
	cp := *sub
	r.byID[sub.ID] = &cp
	return nil
}

func (r *memSubmissionRepo) GetByID(_ context.Context, id string) (*entities.Submission, error) {
	if sub, ok := r.byID[id]; ok {
		cp := *sub
		return &cp, nil
	}
	return nil, errMissing
}

func (r *memSubmissionRepo) GetBySubmissionID(_ context.Context, submissionID string) (*entities.Submission, error) {
	for _, sub := range r.byID {
		if sub.SubmissionID == submissionID {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, errMissing
}

func (r *memSubmissionRepo) List(_ context.Context, filter *entities.SubmissionFilter) ([]*entities.Submission, error) {
	var out []*entities.Submission
	for _, sub := range r.byID {
		if filter.UserID == "" || sub.UserID == filter.UserID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (r *memSubmissionRepo) UpdateCAS(_ context.Context, sub *entities.Submission, expectedVersion int64) (bool, error) {
	stored, ok := r.byID[sub.ID]
	if !ok || stored.Version != expectedVersion {
		return false, nil
	}
	cp := *sub
	r.byID[sub.ID] = &cp
	return true, nil
}

func (r *memSubmissionRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type memAccessLogRepo struct {
	entries []*entities.AccessLog
}

func (r *memAccessLogRepo) Create(_ context.Context, entry *entities.AccessLog) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memAccessLogRepo) ListBySubmission(_ context.Context, submissionID string, _ int) ([]*entities.AccessLog, error) {
	return r.entries, nil
}

type memUserRepo struct {
	byID map[string]*entities.User
}

func (r *memUserRepo) Create(_ context.Context, user *entities.User) error {
	r.byID[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entities.User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, errMissing
}

func (r *memUserRepo) GetByLogin(_ context.Context, login string) (*entities.User, error) {
	for _, u := range r.byID {
		if u.Login == login {
			return u, nil
		}
	}
	return nil, errMissing
}

type memSessionRepo struct {
	byToken map[string]*entities.Session
}

func (r *memSessionRepo) Create(_ context.Context, s *entities.Session) error {
	r.byToken[s.Token] = s
	return nil
}

func (r *memSessionRepo) GetByToken(_ context.Context, tok string) (*entities.Session, error) {
	if s, ok := r.byToken[tok]; ok {
		return s, nil
	}
	return nil, errMissing
}

func (r *memSessionRepo) Delete(_ context.Context, tok string) error {
	delete(r.byToken, tok)
	return nil
}

func (r *memSessionRepo) DeleteExpired(_ context.Context) error { return nil }

type nilCache struct{}

func (nilCache) GetSubmission(context.Context, string) (*entities.Submission, error) {
	return nil, errMissing
}
func (nilCache) SetSubmission(context.Context, *entities.Submission) error { return nil }
func (nilCache) GetSubmissionList(context.Context, string) ([]*entities.Submission, error) {
	return nil, errMissing
}
func (nilCache) SetSubmissionList(context.Context, string, []*entities.Submission) error {
	return nil
}
func (nilCache) InvalidateSubmission(context.Context, string) error { return nil }
func (nilCache) InvalidatePrefix(context.Context, string) error { return nil }
func (nilCache) GetListCacheKey(f *entities.SubmissionFilter) string { return f.UserID }

type gatewayFixture struct {
	router     *gin.Engine
	subSvc     *services.SubmissionService
	accessLogs *memAccessLogRepo
	adminToken string
	userToken  string
	owner      *entities.User
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()

	subRepo := &memSubmissionRepo{byID: map[string]*entities.Submission{}}
	accessLogs := &memAccessLogRepo{}
	userRepo := &memUserRepo{byID: map[string]*entities.User{}}
	sessionRepo := &memSessionRepo{byToken: map[string]*entities.Session{}}

	codec, err := token.NewCodec("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	subSvc := services.NewSubmissionService(subRepo, accessLogs, nilCache{},
		codec, qr.NewGenerator("https://records.example.com", 128))
	authSvc := services.NewAuthService(userRepo, sessionRepo, "admin_secret", time.Hour)

	owner := &entities.User{ID: "user-1", Login: "owner123x", Email: "owner@example.com", Name: "Owner"}
	admin := &entities.User{ID: "admin-1", Login: "admin123x", Email: "admin@example.com", IsAdmin: true}
	require.NoError(t, userRepo.Create(context.Background(), owner))
	require.NoError(t, userRepo.Create(context.Background(), admin))

	userSession := &entities.Session{ID: "s1", UserID: owner.ID, Token: "user-session", ExpiresAt: time.Now().Add(time.Hour)}
	adminSession := &entities.Session{ID: "s2", UserID: admin.ID, Token: "admin-session", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, sessionRepo.Create(context.Background(), userSession))
	require.NoError(t, sessionRepo.Create(context.Background(), adminSession))

	subHandler := NewSubmissionHandler(subSvc, authSvc)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/admin/submissions/:id", subHandler.AdminGet)
	api.POST("/admin/submissions/:id/files/:fileId/review", subHandler.ReviewFile)
	api.POST("/qr/:token", subHandler.QRAccess)
	api.GET("/submissions/:id", subHandler.GetByID)

	return &gatewayFixture{
		router:     r,
		subSvc:     subSvc,
		accessLogs: accessLogs,
		adminToken: "admin-session",
		userToken:  "user-session",
		owner:      owner,
	}
}

func (f *gatewayFixture) createSubmission(t *testing.T) *entities.Submission {
	t.Helper()

	sub, err := f.subSvc.Create(context.Background(), f.owner, []services.FileInput{
		{FileName: "passport.pdf", MIME: "application/pdf", Size: 100},
	})
	require.NoError(t, err)
	return sub
}

func (f *gatewayFixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestQRAccessPath(t *testing.T) {
	f := newGatewayFixture(t)
	sub := f.createSubmission(t)

	w := f.do(http.MethodPost, "/api/qr/"+sub.QR.AccessToken, `{"access_type":"qr_scan"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			SubmissionID string `json:"submission_id"`
			Display      struct {
				Status             string `json:"status"`
				ProgressPercentage int    `json:"progress_percentage"`
			} `json:"display"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, sub.SubmissionID, resp.Data.SubmissionID)
	assert.Equal(t, "submitted", resp.Data.Display.Status)

	// the scan must leave an audit trail
	require.Len(t, f.accessLogs.entries, 1)
	assert.Equal(t, entities.AccessTypeQRScan, f.accessLogs.entries[0].AccessType)
}

func TestQRAccessInvalidToken(t *testing.T) {
	f := newGatewayFixture(t)
	f.createSubmission(t)

	w := f.do(http.MethodPost, "/api/qr/garbage-token", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, f.accessLogs.entries)
}

func TestAdminGetRequiresAdminSession(t *testing.T) {
	f := newGatewayFixture(t)
	sub := f.createSubmission(t)

	// non-admin session
	w := f.do(http.MethodGet, "/api/admin/submissions/"+sub.SubmissionID+"?token="+f.userToken, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// admin session, human-readable submission ID from the QR URL
	w = f.do(http.MethodGet, "/api/admin/submissions/"+sub.SubmissionID+"?token="+f.adminToken, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminGetUnknownSubmission(t *testing.T) {
	f := newGatewayFixture(t)

	w := f.do(http.MethodGet, "/api/admin/submissions/SUB-NOPE-000000?token="+f.adminToken, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewEndpoint(t *testing.T) {
	f := newGatewayFixture(t)
	sub := f.createSubmission(t)

	path := "/api/admin/submissions/" + sub.ID + "/files/" + sub.Files[0].ID + "/review"

	w := f.do(http.MethodPost, path, `{"token":"admin-session","decision":"approved"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Display struct {
				Status             string `json:"status"`
				ProgressPercentage int    `json:"progress_percentage"`
			} `json:"display"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "approved", resp.Data.Display.Status)
	assert.Equal(t, 100, resp.Data.Display.ProgressPercentage)

	// second decision on the same file must conflict
	w = f.do(http.MethodPost, path, `{"token":"admin-session","decision":"rejected"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReviewEndpointRejectsUnknownDecision(t *testing.T) {
	f := newGatewayFixture(t)
	sub := f.createSubmission(t)

	path := "/api/admin/submissions/" + sub.ID + "/files/" + sub.Files[0].ID + "/review"
	w := f.do(http.MethodPost, path, `{"token":"admin-session","decision":"maybe"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOwnerGetByID(t *testing.T) {
	f := newGatewayFixture(t)
	sub := f.createSubmission(t)

	w := f.do(http.MethodGet, "/api/submissions/"+sub.ID+"?token="+f.userToken, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/api/submissions/"+sub.ID+"?token=bogus", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
