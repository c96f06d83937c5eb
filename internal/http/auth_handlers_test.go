package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/hanriver/zipview/internal/domain"
	"github.com/hanriver/zipview/internal/service"
	"github.com/hanriver/zipview/internal/store/sqlite"
	"github.com/hanriver/zipview/pkg/cryptox"
	"github.com/hanriver/zipview/pkg/idx"
	"github.com/hanriver/zipview/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testPassword = "hunter2hunter2"

// newTestRouter wires a full router over a throwaway database. Each call gets
// fresh rate limiter pools so tests cannot starve each other of tokens.
// Options run before routes are applied, mirroring how the application wires
// its services.
func newTestRouter(t *testing.T, opts ...func(*Router)) (*Router, *sqlite.Store) {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "api.db") + "?_pragma=busy_timeout(5000)"
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSigner("test-kid", pemKey)
	require.NoError(t, err)
	verifier := jwtx.NewVerifier(signer.Public(), "test-issuer", time.Second)

	codec := &service.TokenCodec{
		Signer:     signer,
		Verifier:   verifier,
		Issuer:     "test-issuer",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}

	router := NewRouter(verifier, "test", st, slog.New(slog.DiscardHandler))
	router.AuthService = &service.AuthService{
		Verifier: &service.CredentialVerifier{Store: st},
		Codec:    codec,
		Store:    st,
	}
	for _, opt := range opts {
		opt(router)
	}
	router.ApplyRoutes()

	return router, st
}

func seedTestUser(t *testing.T, st *sqlite.Store, username string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(testPassword)
	require.NoError(t, err)

	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: hash,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func postJSON(t *testing.T, router *Router, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func loginFor(t *testing.T, router *Router, username string) tokenResponse {
	t.Helper()

	rec := postJSON(t, router, "/v1/auth/login", loginRequest{Username: username, Password: testPassword})
	require.Equal(t, http.StatusOK, rec.Code)

	var pair tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	return pair
}

func TestHandleLogin(t *testing.T) {
	router, st := newTestRouter(t)
	seedTestUser(t, st, "alice")

	t.Run("success", func(t *testing.T) {
		pair := loginFor(t, router, "alice")
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)
		require.Equal(t, "Bearer", pair.TokenType)
	})

	t.Run("bad credentials", func(t *testing.T) {
		rec := postJSON(t, router, "/v1/auth/login", loginRequest{Username: "alice", Password: "wrong"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "authentication_failed")
	})

	t.Run("unknown user gets the same body", func(t *testing.T) {
		badPW := postJSON(t, router, "/v1/auth/login", loginRequest{Username: "alice", Password: "wrong"})
		noUser := postJSON(t, router, "/v1/auth/login", loginRequest{Username: "nobody", Password: "wrong"})
		require.Equal(t, badPW.Code, noUser.Code)
		require.JSONEq(t, badPW.Body.String(), noUser.Body.String())
	})
}

func TestHandleLoginBadRequests(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := postJSON(t, router, "/v1/auth/login", loginRequest{Username: "alice"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleRefresh(t *testing.T) {
	router, st := newTestRouter(t)
	seedTestUser(t, st, "alice")

	pair := loginFor(t, router, "alice")

	t.Run("rotates the pair", func(t *testing.T) {
		rec := postJSON(t, router, "/v1/auth/refresh", refreshRequest{RefreshToken: pair.RefreshToken})
		require.Equal(t, http.StatusOK, rec.Code)

		var next tokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &next))
		require.NotEqual(t, pair.RefreshToken, next.RefreshToken)
	})

	t.Run("replayed token is rejected", func(t *testing.T) {
		rec := postJSON(t, router, "/v1/auth/refresh", refreshRequest{RefreshToken: pair.RefreshToken})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "authentication_failed")
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := postJSON(t, router, "/v1/auth/refresh", refreshRequest{RefreshToken: "garbage"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandleLogout(t *testing.T) {
	t.Run("by refresh token", func(t *testing.T) {
		router, st := newTestRouter(t)
		seedTestUser(t, st, "alice")
		pair := loginFor(t, router, "alice")

		rec := postJSON(t, router, "/v1/auth/logout", logoutRequest{RefreshToken: pair.RefreshToken})
		require.Equal(t, http.StatusNoContent, rec.Code)

		// The session is dead; refreshing must now fail.
		rec = postJSON(t, router, "/v1/auth/refresh", refreshRequest{RefreshToken: pair.RefreshToken})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("by session id is idempotent", func(t *testing.T) {
		router, st := newTestRouter(t)
		seedTestUser(t, st, "alice")
		pair := loginFor(t, router, "alice")

		claims, err := router.AuthService.Codec.Decode(pair.RefreshToken, jwtx.TokenUseRefresh)
		require.NoError(t, err)

		rec := postJSON(t, router, "/v1/auth/logout", logoutRequest{SessionID: claims.SID})
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = postJSON(t, router, "/v1/auth/logout", logoutRequest{SessionID: claims.SID})
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("empty body", func(t *testing.T) {
		router, _ := newTestRouter(t)
		rec := postJSON(t, router, "/v1/auth/logout", logoutRequest{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoginRateLimited(t *testing.T) {
	router, _ := newTestRouter(t)

	// The strict profile allows a burst of 5 per IP; the 6th attempt in quick
	// succession must be rejected.
	var last int
	for i := 0; i < 6; i++ {
		rec := postJSON(t, router, "/v1/auth/login",
			loginRequest{Username: fmt.Sprintf("user-%d", i), Password: "x"})
		last = rec.Code
	}
	require.Equal(t, http.StatusTooManyRequests, last)
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("livez", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/livez", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"status":"ok"`)
	})

	t.Run("readyz with live database", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"database":"ok"`)
	})
}
