package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartwise/grocery-service/internal/auth"
	"github.com/cartwise/grocery-service/internal/middleware"
)

// fakeUserRepo is an in-memory auth.Repository.
type fakeUserRepo struct {
	users  map[string]auth.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]auth.User), nextID: 1}
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, email, passwordHash string) (int64, error) {
	if _, exists := r.users[email]; exists {
		return 0, auth.ErrEmailTaken
	}
	id := r.nextID
	r.nextID++
	r.users[email] = auth.User{ID: id, Email: email, PasswordHash: passwordHash}
	return id, nil
}

func (r *fakeUserRepo) UserByEmail(ctx context.Context, email string) (auth.User, error) {
	user, ok := r.users[email]
	if !ok {
		return auth.User{}, auth.ErrInvalidCredentials
	}
	return user, nil
}

func authRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer, err := auth.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	svc := auth.NewService(newFakeUserRepo(), issuer)
	h := New(nil, nil, svc, nil)

	router := gin.New()
	router.POST("/auth/signup", h.Signup)
	router.POST("/auth/login", h.Login)
	router.GET("/auth/me", middleware.RequireAuth(issuer), h.Me)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(jsonBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSignupLoginMeFlow(t *testing.T) {
	router := authRouter(t)

	creds := CredentialsRequest{Email: "shopper@example.com", Password: "hunter22"}

	w := postJSON(t, router, "/auth/signup", creds)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/auth/login", creds)
	require.Equal(t, http.StatusOK, w.Code)

	var loginBody map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginBody))
	require.NotEmpty(t, loginBody["token"])
	assert.Equal(t, "shopper@example.com", loginBody["email"])

	req, err := http.NewRequest(http.MethodGet, "/auth/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+loginBody["token"])

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var meBody map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meBody))
	assert.Equal(t, "shopper@example.com", meBody["email"])
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	router := authRouter(t)

	creds := CredentialsRequest{Email: "dup@example.com", Password: "pw123456"}

	w := postJSON(t, router, "/auth/signup", creds)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/auth/signup", creds)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginWrongPasswordUnauthorized(t *testing.T) {
	router := authRouter(t)

	w := postJSON(t, router, "/auth/signup", CredentialsRequest{Email: "a@b.com", Password: "correct-pw"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/auth/login", CredentialsRequest{Email: "a@b.com", Password: "wrong-pw"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeWithoutTokenUnauthorized(t *testing.T) {
	router := authRouter(t)

	req, err := http.NewRequest(http.MethodGet, "/auth/me", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
