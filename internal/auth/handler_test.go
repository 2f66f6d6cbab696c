package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-lms/meridian-lms/internal/shared"
	_ "github.com/meridian-lms/meridian-lms/testing"
)

type fakeRepo struct {
	users map[string]*User
	roles map[int64][]string
}

func (r *fakeRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (r *fakeRepo) ListRoleNames(ctx context.Context, userID int64) ([]string, error) {
	return r.roles[userID], nil
}

func newTestHandler(t *testing.T) (*Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("opensesame"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeRepo{
		users: map[string]*User{
			"admin@example.com": {ID: 1, Email: "admin@example.com", PasswordHash: string(hash), IsActive: true},
			"locked@example.com": {ID: 2, Email: "locked@example.com", PasswordHash: string(hash)},
		},
		roles: map[int64][]string{1: {"Admin"}},
	}
	sessions := shared.NewSessionManager(client, "meridian_session", time.Hour, false)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, NewService(repo), sessions), sessions
}

func doLogin(t *testing.T, h *Handler, sessions *shared.SessionManager, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	sess, err := sessions.Load(req.Context(), req)
	require.NoError(t, err)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	rr := httptest.NewRecorder()
	h.login(rr, req)
	return rr
}

func TestLoginIssuesSessionCookie(t *testing.T) {
	h, sessions := newTestHandler(t)

	rr := doLogin(t, h, sessions, `{"email":"admin@example.com","password":"opensesame"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "meridian_session", cookies[0].Name)
	require.NotEmpty(t, cookies[0].Value)
	require.Contains(t, rr.Body.String(), `"roles":["Admin"]`)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	h, sessions := newTestHandler(t)

	rr := doLogin(t, h, sessions, `{"email":"admin@example.com","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Empty(t, rr.Result().Cookies())
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	h, sessions := newTestHandler(t)

	rr := doLogin(t, h, sessions, `{"email":"locked@example.com","password":"opensesame"}`)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	h, sessions := newTestHandler(t)

	rr := doLogin(t, h, sessions, `{"email":"admin@example.com","password":"opensesame"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	loginCookie := rr.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(loginCookie)
	sess, err := sessions.Load(req.Context(), req)
	require.NoError(t, err)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	out := httptest.NewRecorder()
	h.logout(out, req)
	require.Equal(t, http.StatusNoContent, out.Code)

	cleared := out.Result().Cookies()
	require.Len(t, cleared, 1)
	require.Equal(t, -1, cleared[0].MaxAge)
}
