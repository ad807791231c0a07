package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainSession "drive-me-local/internal/domain/session"
	"drive-me-local/internal/domain/user"
)

type failingSessionStore struct{ err error }

func (f failingSessionStore) Save(context.Context, domainSession.Session) error { return f.err }
func (f failingSessionStore) Find(context.Context, string) (*domainSession.Session, error) {
	return nil, f.err
}
func (f failingSessionStore) Delete(context.Context, string) error { return f.err }

func TestAuthService_LoginResolveLogout(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	registered, err := h.userService.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	token, u, err := h.auth.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, registered.ID, u.ID)
	assert.Equal(t, 1, h.sessions.Len())

	resolved, err := h.auth.Resolve(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, "alice", resolved.Username)

	require.NoError(t, h.auth.Logout(ctx, token))
	assert.Equal(t, 0, h.sessions.Len())

	resolved, err = h.auth.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, resolved)

	// second logout is a no-op
	require.NoError(t, h.auth.Logout(ctx, token))

	assert.Equal(t, []string{
		"user registered: alice",
		"user logged in: alice",
		"user logged out: alice",
	}, h.activity.Events())
}

func TestAuthService_LoginFailures(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.userService.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "alice", password: "pw1x"},
		{name: "unknown user", username: "bob", password: "pw1"},
		{name: "empty password", username: "alice", password: ""},
		{name: "case differs", username: "Alice", password: "pw1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			token, u, err := h.auth.Login(ctx, tt.username, tt.password)
			require.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Empty(t, token)
			assert.Nil(t, u)
		})
	}
	assert.Equal(t, 0, h.sessions.Len())
}

func TestAuthService_ResolveAnonymous(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.userService.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	valid, _, err := h.auth.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	forged, err := h.signer.GenerateJWT("no-such-session", 1, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		setup func()
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "unknown session", token: forged},
		{
			name:  "expired session",
			token: valid,
			setup: func() { h.auth.now = func() time.Time { return time.Now().Add(2 * time.Hour) } },
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
				defer func() { h.auth.now = time.Now }()
			}
			u, err := h.auth.Resolve(ctx, tt.token)
			require.NoError(t, err)
			assert.Nil(t, u)
		})
	}
}

func TestAuthService_ResolveReadsCurrentRole(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	u, err := h.userService.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	token, _, err := h.auth.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	resolved, err := h.auth.Resolve(ctx, token)
	require.NoError(t, err)
	assert.False(t, resolved.IsAdmin())

	h.users.setRole(u.ID, user.RoleAdmin)

	resolved, err = h.auth.Resolve(ctx, token)
	require.NoError(t, err)
	assert.True(t, resolved.IsAdmin())
}

func TestAuthService_SessionMismatch(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.userService.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	_, err = h.userService.Register(ctx, "mallory", "pw2")
	require.NoError(t, err)

	aliceToken, _, err := h.auth.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	claims, err := h.signer.ValidateToken(aliceToken)
	require.NoError(t, err)

	// a validly signed token pointing at alice's session but naming another user
	tampered, err := h.signer.GenerateJWT(claims.SessionID(), 2, time.Hour)
	require.NoError(t, err)

	u, err := h.auth.Resolve(ctx, tampered)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestAuthService_StorageUnavailable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.userService.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	token, _, err := h.auth.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	h.auth.sessions = failingSessionStore{err: errors.New("redis down")}

	_, err = h.auth.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrStorageUnavailable)

	_, _, err = h.auth.Login(ctx, "alice", "pw1")
	require.ErrorIs(t, err, ErrStorageUnavailable)

	h.users.Err = errors.New("pg down")
	_, _, err = h.auth.Login(ctx, "alice", "pw1")
	require.ErrorIs(t, err, ErrStorageUnavailable)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
