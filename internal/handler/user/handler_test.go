package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/intake-api/internal/model"
	"github.com/jwalitptl/intake-api/internal/service/user"
	"github.com/jwalitptl/intake-api/pkg/metrics"
	"github.com/jwalitptl/intake-api/pkg/validator"
)

type mockUserService struct {
	RegisterFunc    func(ctx context.Context, req *model.RegisterUserRequest) (*model.RegistrationResult, error)
	VerifyEmailFunc func(ctx context.Context, token string) (*model.User, error)
	GetFunc         func(ctx context.Context, id uuid.UUID) (*model.User, error)
}

func (m *mockUserService) Register(ctx context.Context, req *model.RegisterUserRequest) (*model.RegistrationResult, error) {
	return m.RegisterFunc(ctx, req)
}

func (m *mockUserService) VerifyEmail(ctx context.Context, token string) (*model.User, error) {
	return m.VerifyEmailFunc(ctx, token)
}

func (m *mockUserService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return m.GetFunc(ctx, id)
}

func setupRouter(svc user.UserServicer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc, metrics.New("test")).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterUser(t *testing.T) {
	id := uuid.New()
	svc := &mockUserService{RegisterFunc: func(_ context.Context, req *model.RegisterUserRequest) (*model.RegistrationResult, error) {
		assert.Equal(t, "jane@example.com", req.Email)
		assert.Equal(t, "longenough", req.ConfirmPassword)
		return &model.RegistrationResult{
			Data:     &model.User{Base: model.Base{ID: id}, Email: req.Email, PasswordHash: "secret-hash"},
			Redirect: user.ConfirmationRedirect,
		}, nil
	}}

	w := postJSON(setupRouter(svc), "/api/v1/users",
		`{"email":"jane@example.com","password":"longenough","confirmPassword":"longenough"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, user.ConfirmationRedirect, w.Header().Get("Location"))
	assert.NotContains(t, w.Body.String(), "secret-hash")

	var body struct {
		Status   string `json:"status"`
		Redirect string `json:"redirect"`
		Data     struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, "/users/email-confirmation", body.Redirect)
	assert.Equal(t, id.String(), body.Data.ID)
}

func TestRegisterUserValidationFailure(t *testing.T) {
	svc := &mockUserService{RegisterFunc: func(context.Context, *model.RegisterUserRequest) (*model.RegistrationResult, error) {
		return nil, &validator.Errors{Fields: []validator.FieldError{{Field: "confirmPassword", Message: "Passwords don't match"}}}
	}}

	w := postJSON(setupRouter(svc), "/api/v1/users", `{"email":"jane@example.com"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Status string                 `json:"status"`
		Errors []validator.FieldError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "confirmPassword", body.Errors[0].Field)
}

func TestRegisterUserConflict(t *testing.T) {
	svc := &mockUserService{RegisterFunc: func(context.Context, *model.RegisterUserRequest) (*model.RegistrationResult, error) {
		return nil, user.ErrEmailTaken
	}}

	w := postJSON(setupRouter(svc), "/api/v1/users", `{}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterUserInternalErrorHidesCause(t *testing.T) {
	svc := &mockUserService{RegisterFunc: func(context.Context, *model.RegisterUserRequest) (*model.RegistrationResult, error) {
		return nil, errors.New("pq: password authentication failed")
	}}

	w := postJSON(setupRouter(svc), "/api/v1/users", `{}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestVerifyEmail(t *testing.T) {
	svc := &mockUserService{VerifyEmailFunc: func(_ context.Context, token string) (*model.User, error) {
		if token != "good" {
			return nil, user.ErrInvalidToken
		}
		return &model.User{EmailVerified: true, Status: model.UserStatusActive}, nil
	}}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/verify?token=good", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email_verified":true`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/verify?token=bad", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/verify", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUser(t *testing.T) {
	id := uuid.New()
	svc := &mockUserService{GetFunc: func(_ context.Context, got uuid.UUID) (*model.User, error) {
		if got != id {
			return nil, user.ErrUserNotFound
		}
		return &model.User{Base: model.Base{ID: id}, Email: "jane@example.com"}, nil
	}}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/"+id.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
