package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubportal/internal/apperrors"
	"clubportal/internal/services"
)

// stubResetService scripts the outcomes per token value.
type stubResetService struct {
	requested []string
}

func (s *stubResetService) RequestReset(email string) (*services.ResetRequest, error) {
	s.requested = append(s.requested, email)
	if email == "user@example.com" {
		return &services.ResetRequest{Token: strings.Repeat("a", 64), Email: email, FirstName: "Max"}, nil
	}
	return nil, nil
}

func (s *stubResetService) ValidateToken(token string) (*services.TokenInfo, error) {
	switch token {
	case "live-token":
		return &services.TokenInfo{Email: "user@example.com", FirstName: "Max"}, nil
	case "expired-token":
		return nil, apperrors.ErrExpired
	default:
		return nil, apperrors.ErrNotFound
	}
}

func (s *stubResetService) ResetPassword(token, newPassword string) error {
	if len(newPassword) < 8 {
		return apperrors.New(apperrors.KindValidation, "weak password", "password must be at least 8 characters")
	}
	if _, err := s.ValidateToken(token); err != nil {
		return err
	}
	return nil
}

func newResetRouter() (*gin.Engine, *stubResetService) {
	gin.SetMode(gin.TestMode)
	stub := &stubResetService{}
	h := NewPasswordResetHandler(stub)

	r := gin.New()
	r.POST("/password-reset/request", h.RequestReset)
	r.GET("/reset-password/:token", h.ValidateToken)
	r.POST("/reset-password/:token", h.ResetPassword)
	return r, stub
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestReset_UniformResponse(t *testing.T) {
	r, stub := newResetRouter()

	known := doJSON(t, r, http.MethodPost, "/password-reset/request", `{"email":"user@example.com"}`)
	unknown := doJSON(t, r, http.MethodPost, "/password-reset/request", `{"email":"nobody@example.com"}`)

	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, http.StatusOK, unknown.Code)
	// the body must not differ between known and unknown accounts
	assert.Equal(t, known.Body.String(), unknown.Body.String())
	assert.NotContains(t, known.Body.String(), strings.Repeat("a", 64))

	assert.Equal(t, []string{"user@example.com", "nobody@example.com"}, stub.requested)
}

func TestRequestReset_MissingEmail(t *testing.T) {
	r, _ := newResetRouter()
	w := doJSON(t, r, http.MethodPost, "/password-reset/request", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateToken_StatusMapping(t *testing.T) {
	r, _ := newResetRouter()

	w := doJSON(t, r, http.MethodGet, "/reset-password/live-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, "user@example.com", body["email"])

	w = doJSON(t, r, http.MethodGet, "/reset-password/unknown-token", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"status":404`)

	w = doJSON(t, r, http.MethodGet, "/reset-password/expired-token", "")
	assert.Equal(t, http.StatusGone, w.Code)
	assert.Contains(t, w.Body.String(), `"status":410`)
}

func TestResetPassword_StatusMapping(t *testing.T) {
	r, _ := newResetRouter()

	w := doJSON(t, r, http.MethodPost, "/reset-password/live-token", `{"password":"brand-new-password"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/reset-password/live-token", `{"password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/reset-password/unknown-token", `{"password":"brand-new-password"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/reset-password/expired-token", `{"password":"brand-new-password"}`)
	assert.Equal(t, http.StatusGone, w.Code)
}
