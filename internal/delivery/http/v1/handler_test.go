package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"portfolio-backend/config"
	v1 "portfolio-backend/internal/delivery/http/v1"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/auth"
	"portfolio-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testSecret = "handler-test-secret"

type MockContactUsecase struct {
	mock.Mock
}

func (m *MockContactUsecase) Submit(ctx context.Context, req *domain.ContactRequest, upload *domain.Upload, meta domain.SubmissionMeta) (*domain.ContactResponse, error) {
	args := m.Called(ctx, req, upload, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactResponse), args.Error(1)
}

func (m *MockContactUsecase) List(ctx context.Context, filter domain.ContactListFilter) ([]domain.ContactResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContactResponse), args.Error(1)
}

func (m *MockContactUsecase) Get(ctx context.Context, id string) (*domain.ContactResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactResponse), args.Error(1)
}

func (m *MockContactUsecase) UpdateStatus(ctx context.Context, id string, status string) (*domain.StatusUpdate, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatusUpdate), args.Error(1)
}

func (m *MockContactUsecase) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockContactUsecase) Wait() {}

type stubHealth struct {
	status domain.HealthStatus
}

func (s stubHealth) Info() domain.APIInfo {
	return domain.APIInfo{Message: "Portfolio API is running", Version: "test"}
}

func (s stubHealth) Check(context.Context) domain.HealthStatus {
	return s.status
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"request_id"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(uc domain.ContactUsecase, health domain.HealthStatus, secret string) *gin.Engine {
	return v1.NewRouter(v1.RouterDeps{
		ContactUC: uc,
		HealthUC:  stubHealth{status: health},
		Gatherer:  prometheus.NewRegistry(),
		Config: &config.Config{
			AllowedOrigins: []string{"*"},
			AdminJWTSecret: secret,
		},
	})
}

func serve(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func multipartBody(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func validFields() map[string]string {
	return map[string]string{
		"name":    "Jane Doe",
		"email":   "jane@example.com",
		"subject": "Project inquiry",
		"message": "I would like to talk about a project.",
	}
}

func TestSubmitContact_MultipartWithFile(t *testing.T) {
	uc := new(MockContactUsecase)
	r := newTestRouter(uc, domain.HealthStatus{}, "")

	var gotContent []byte
	uc.On("Submit", mock.Anything,
		mock.MatchedBy(func(req *domain.ContactRequest) bool {
			return req.Name == "Jane Doe" && req.Email == "jane@example.com"
		}),
		mock.MatchedBy(func(u *domain.Upload) bool {
			if u == nil || u.Filename != "cv.pdf" {
				return false
			}
			gotContent, _ = io.ReadAll(u.Content)
			return true
		}),
		mock.MatchedBy(func(meta domain.SubmissionMeta) bool {
			return meta.UserAgent == "handler-test"
		}),
	).Return(&domain.ContactResponse{ID: "abc", Name: "Jane Doe", Status: domain.StatusPending, HasAttachment: true}, nil)

	body, contentType := multipartBody(t, validFields(), "cv.pdf", []byte("%PDF-1.4 test"))
	req := httptest.NewRequest(http.MethodPost, "/api/contact", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", "handler-test")

	w, env := serve(t, r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Thank you for your message! I'll get back to you soon.", env.Message)
	assert.Equal(t, []byte("%PDF-1.4 test"), gotContent)

	var view domain.ContactResponse
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "abc", view.ID)
	assert.True(t, view.HasAttachment)
	uc.AssertExpectations(t)
}

func TestSubmitContact_URLEncodedWithoutFile(t *testing.T) {
	uc := new(MockContactUsecase)
	r := newTestRouter(uc, domain.HealthStatus{}, "")

	uc.On("Submit", mock.Anything, mock.Anything, (*domain.Upload)(nil), mock.Anything).
		Return(&domain.ContactResponse{ID: "abc"}, nil)

	form := url.Values{}
	for k, v := range validFields() {
		form.Set(k, v)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w, env := serve(t, r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	uc.AssertExpectations(t)
}

func TestSubmitContact_ErrorsMapToEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"validation", apperror.Validation("Name must be at least 2 characters"), http.StatusBadRequest, "Name must be at least 2 characters"},
		{"file policy", apperror.FilePolicy("MIME type not allowed: application/x-msdownload"), http.StatusBadRequest, "MIME type not allowed: application/x-msdownload"},
		{"storage", apperror.Storage(assert.AnError), http.StatusInternalServerError, "Internal server error"},
		{"unexpected", assert.AnError, http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockContactUsecase)
			r := newTestRouter(uc, domain.HealthStatus{}, "")
			uc.On("Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			body, contentType := multipartBody(t, validFields(), "", nil)
			req := httptest.NewRequest(http.MethodPost, "/api/contact", body)
			req.Header.Set("Content-Type", contentType)

			w, env := serve(t, r, req)

			assert.Equal(t, tt.code, w.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.message, env.Message)
			assert.NotEmpty(t, env.RequestID)
		})
	}
}

func TestSubmitContact_BodyTooLarge(t *testing.T) {
	uc := new(MockContactUsecase)
	r := newTestRouter(uc, domain.HealthStatus{}, "")

	body, contentType := multipartBody(t, validFields(), "huge.txt", bytes.Repeat([]byte("a"), 11<<20))
	req := httptest.NewRequest(http.MethodPost, "/api/contact", body)
	req.Header.Set("Content-Type", contentType)

	w, env := serve(t, r, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	uc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminRoutes_RequireToken(t *testing.T) {
	uc := new(MockContactUsecase)
	r := newTestRouter(uc, domain.HealthStatus{}, testSecret)
	uc.On("List", mock.Anything, mock.Anything).Return([]domain.ContactResponse{}, nil)

	t.Run("missing header", func(t *testing.T) {
		w, env := serve(t, r, httptest.NewRequest(http.MethodGet, "/api/contact", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Authorization header required", env.Message)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := auth.IssueAdminToken("other-secret", "owner", time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		w, env := serve(t, r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid token", env.Message)
		assert.NotEmpty(t, env.RequestID)
	})

	t.Run("token without admin role", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.AdminClaims{
			Role: "viewer",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "someone",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}).SignedString([]byte(testSecret))
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		w, env := serve(t, r, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, env.Success)
		assert.Equal(t, "Admin access required", env.Message)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := auth.IssueAdminToken(testSecret, "owner", time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		w, env := serve(t, r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", string(env.Data))
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	})

	t.Run("public submit stays open", func(t *testing.T) {
		uc.On("Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&domain.ContactResponse{ID: "abc"}, nil).Once()
		body, contentType := multipartBody(t, validFields(), "", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/contact", body)
		req.Header.Set("Content-Type", contentType)

		w, _ := serve(t, r, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestListMessages_QueryParsing(t *testing.T) {
	uc := new(MockContactUsecase)
	r := newTestRouter(uc, domain.HealthStatus{}, "")

	uc.On("List", mock.Anything, domain.ContactListFilter{Limit: domain.DefaultListLimit, Skip: 0}).
		Return([]domain.ContactResponse{{ID: "a"}}, nil).Once()
	uc.On("List", mock.Anything, domain.ContactListFilter{Status: domain.StatusRead, Limit: 10, Skip: 20}).
		Return([]domain.ContactResponse{}, nil).Once()

	w, env := serve(t, r, httptest.NewRequest(http.MethodGet, "/api/contact?limit=abc&skip=x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var views []domain.ContactResponse
	require.NoError(t, json.Unmarshal(env.Data, &views))
	assert.Len(t, views, 1)

	w, _ = serve(t, r, httptest.NewRequest(http.MethodGet, "/api/contact?limit=10&skip=20&status=read", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	uc.AssertExpectations(t)
}

func TestUpdateStatus(t *testing.T) {
	uc := new(MockContactUsecase)
	r := newTestRouter(uc, domain.HealthStatus{}, "")

	uc.On("UpdateStatus", mock.Anything, "abc", "read").
		Return(&domain.StatusUpdate{Message: "Status updated successfully", Status: domain.StatusRead}, nil)
	uc.On("UpdateStatus", mock.Anything, "abc", "bogus").
		Return(nil, apperror.BadRequest("Invalid status. Must be one of: pending, read, replied, archived"))

	w, env := serve(t, r, httptest.NewRequest(http.MethodPatch, "/api/contact/abc/status?status=read", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Status updated successfully", env.Message)

	w, env = serve(t, r, httptest.NewRequest(http.MethodPatch, "/api/contact/abc/status?status=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "Invalid status")
}

func TestGetAndDeleteMessage(t *testing.T) {
	uc := new(MockContactUsecase)
	r := newTestRouter(uc, domain.HealthStatus{}, "")

	uc.On("Get", mock.Anything, "abc").Return(&domain.ContactResponse{ID: "abc"}, nil)
	uc.On("Get", mock.Anything, "missing").Return(nil, apperror.NotFound("Message not found"))
	uc.On("Delete", mock.Anything, "abc").Return(nil)
	uc.On("Delete", mock.Anything, "missing").Return(apperror.NotFound("Message not found"))

	w, _ := serve(t, r, httptest.NewRequest(http.MethodGet, "/api/contact/abc", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := serve(t, r, httptest.NewRequest(http.MethodGet, "/api/contact/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Message not found", env.Message)

	w, env = serve(t, r, httptest.NewRequest(http.MethodDelete, "/api/contact/abc", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Message deleted successfully", env.Message)

	w, _ = serve(t, r, httptest.NewRequest(http.MethodDelete, "/api/contact/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	t.Run("root", func(t *testing.T) {
		r := newTestRouter(new(MockContactUsecase), domain.HealthStatus{}, "")
		w, env := serve(t, r, httptest.NewRequest(http.MethodGet, "/api/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Portfolio API is running", env.Message)
	})

	t.Run("healthy", func(t *testing.T) {
		r := newTestRouter(new(MockContactUsecase), domain.HealthStatus{Status: "healthy", Database: "connected"}, "")
		w, env := serve(t, r, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"healthy","database":"connected"}`, string(env.Data))
	})

	t.Run("database down", func(t *testing.T) {
		r := newTestRouter(new(MockContactUsecase), domain.HealthStatus{Status: "unhealthy", Database: "disconnected"}, "")
		w, env := serve(t, r, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.False(t, env.Success)
		assert.JSONEq(t, `{"status":"unhealthy","database":"disconnected"}`, string(env.Data))
	})
}

func TestRouterMiddleware(t *testing.T) {
	r := newTestRouter(new(MockContactUsecase), domain.HealthStatus{}, "")

	t.Run("unknown route", func(t *testing.T) {
		w, env := serve(t, r, httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.False(t, env.Success)
	})

	t.Run("request id echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/", nil)
		req.Header.Set("X-Request-ID", "req-123")
		w, env := serve(t, r, req)
		assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "req-123", env.RequestID)
	})

	t.Run("security headers", func(t *testing.T) {
		w, _ := serve(t, r, httptest.NewRequest(http.MethodGet, "/api/", nil))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
		req.Header.Set("Origin", "https://portfolio.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("metrics", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAdminActionsLogSubject(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := logger.Log
	logger.Log = zap.New(core).Sugar()
	t.Cleanup(func() { logger.Log = prev })

	uc := new(MockContactUsecase)
	r := newTestRouter(uc, domain.HealthStatus{}, testSecret)
	uc.On("Delete", mock.Anything, "abc").Return(nil)
	uc.On("UpdateStatus", mock.Anything, "abc", "archived").
		Return(&domain.StatusUpdate{Message: "Status updated successfully", Status: domain.StatusArchived}, nil)

	token, err := auth.IssueAdminToken(testSecret, "owner", time.Minute)
	require.NoError(t, err)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPatch, "/api/contact/abc/status?status=archived", nil),
		httptest.NewRequest(http.MethodDelete, "/api/contact/abc", nil),
	} {
		req.Header.Set("Authorization", "Bearer "+token)
		w, _ := serve(t, r, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	for _, msg := range []string{"Contact status changed", "Contact message removed"} {
		entries := logs.FilterMessage(msg).All()
		require.Len(t, entries, 1, msg)
		fields := entries[0].ContextMap()
		assert.Equal(t, "owner", fields["admin"])
		assert.Equal(t, "abc", fields["id"])
	}
}
