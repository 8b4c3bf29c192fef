package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = userDTO{
	ID:        "1",
	Email:     "parent@example.com",
	Name:      "Sarah Johnson",
	Role:      "parent",
	Avatar:    "👨‍👩‍👧",
	CreatedAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
}

// newAuthServer fakes the auth endpoints: one known account, bearer token
// "tok-valid".
func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()

	writeJSON := func(w http.ResponseWriter, code int, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(v)
	}
	authResponse := authResponseDTO{User: testUser, AccessToken: "tok-valid", TokenType: "bearer"}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in loginDTO
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Email != testUser.Email || in.Password != "G00d-pa55" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, authResponse)
	})
	mux.HandleFunc("/api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var in registerDTO
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Email == testUser.Email {
			writeJSON(w, http.StatusBadRequest, map[string]string{"email": "a user with this email already exists"})
			return
		}
		res := authResponse
		res.User.Email = in.Email
		res.User.Name = in.Name
		res.User.Role = in.Role
		writeJSON(w, http.StatusCreated, res)
	})
	mux.HandleFunc("/api/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})
	mux.HandleFunc("/api/v1/users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-valid" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid or expired jwt"})
			return
		}
		writeJSON(w, http.StatusOK, testUser)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Login(t *testing.T) {
	srv := newAuthServer(t)
	c := New(Options{BaseURL: srv.URL})

	_, err := c.Login(context.Background(), testUser.Email, "wrong")
	apiErr, ok := AsAPIError(err)
	require.True(t, ok, "want *APIError, got %v", err)
	assert.Equal(t, CodeInvalidCredentials, apiErr.Code)
	assert.Equal(t, "invalid email or password", apiErr.Message)
	assert.False(t, c.IsAuthenticated())
	assert.Nil(t, c.CurrentUser())

	usr, err := c.Login(context.Background(), testUser.Email, "G00d-pa55")
	require.NoError(t, err)
	assert.Equal(t, testUser.unpack(), *usr)
	assert.True(t, c.IsAuthenticated())
	require.NotNil(t, c.CurrentUser())
	assert.Equal(t, testUser.Email, c.CurrentUser().Email)

	token, err := c.tokens.Get()
	require.NoError(t, err)
	assert.Equal(t, "tok-valid", token)
}

func TestClient_Register(t *testing.T) {
	srv := newAuthServer(t)
	c := New(Options{BaseURL: srv.URL})

	_, err := c.Register(context.Background(), Registration{
		Email: testUser.Email, Password: "G00d-pa55", Name: "Imposter", Role: "parent",
	})
	apiErr, ok := AsAPIError(err)
	require.True(t, ok, "want *APIError, got %v", err)
	assert.Equal(t, CodeDuplicateEmail, apiErr.Code)
	assert.Equal(t, "a user with this email already exists", apiErr.Message)
	assert.False(t, c.IsAuthenticated())

	usr, err := c.Register(context.Background(), Registration{
		Email: "tom@example.com", Password: "G00d-pa55", Name: "Tom", Role: "educator",
	})
	require.NoError(t, err)
	assert.Equal(t, "tom@example.com", usr.Email)
	assert.Equal(t, "educator", usr.Role)
	assert.True(t, c.IsAuthenticated(), "registering logs the account in")
}

func TestClient_Logout(t *testing.T) {
	srv := newAuthServer(t)
	c := New(Options{BaseURL: srv.URL})

	_, err := c.Login(context.Background(), testUser.Email, "G00d-pa55")
	require.NoError(t, err)

	require.NoError(t, c.Logout(context.Background()))
	assert.False(t, c.IsAuthenticated())
	assert.Nil(t, c.CurrentUser())

	// logging out an anonymous client is harmless
	require.NoError(t, c.Logout(context.Background()))
}

func TestClient_Restore(t *testing.T) {
	srv := newAuthServer(t)

	t.Run("no stored credential", func(t *testing.T) {
		c := New(Options{BaseURL: srv.URL})
		require.NoError(t, c.Restore(context.Background()))
		assert.Nil(t, c.CurrentUser())
	})

	t.Run("valid credential", func(t *testing.T) {
		c := New(Options{BaseURL: srv.URL})
		require.NoError(t, c.tokens.Set("tok-valid"))

		require.NoError(t, c.Restore(context.Background()))
		require.NotNil(t, c.CurrentUser())
		assert.Equal(t, testUser.unpack(), *c.CurrentUser())
	})

	t.Run("rejected credential is discarded silently", func(t *testing.T) {
		var expired int
		c := New(Options{BaseURL: srv.URL, OnSessionExpired: func() { expired++ }})
		require.NoError(t, c.tokens.Set("tok-stale"))

		require.NoError(t, c.Restore(context.Background()))
		assert.False(t, c.IsAuthenticated())
		assert.Nil(t, c.CurrentUser())
		assert.Equal(t, 1, expired)
	})

	t.Run("network failure is reported and keeps nothing", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		dead.Close()
		c := New(Options{BaseURL: dead.URL})
		require.NoError(t, c.tokens.Set("tok-valid"))

		err := c.Restore(context.Background())
		apiErr, ok := AsAPIError(err)
		require.True(t, ok, "want *APIError, got %v", err)
		assert.Equal(t, CodeNetworkUnavailable, apiErr.Code)
		assert.Nil(t, c.CurrentUser())
	})
}

func TestClient_CurrentUser_returnsACopy(t *testing.T) {
	srv := newAuthServer(t)
	c := New(Options{BaseURL: srv.URL})

	_, err := c.Login(context.Background(), testUser.Email, "G00d-pa55")
	require.NoError(t, err)

	usr := c.CurrentUser()
	usr.Name = strings.ToUpper(usr.Name)
	assert.Equal(t, testUser.Name, c.CurrentUser().Name)
}
