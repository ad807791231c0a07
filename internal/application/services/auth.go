package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"drive-me-local/internal/application/ports"
	"drive-me-local/internal/domain/session"
	"drive-me-local/internal/domain/user"
	"drive-me-local/internal/infrastructure/metrics"
)

const DefaultSessionTTL = 24 * time.Hour

type AuthService struct {
	logger         *zap.Logger
	userRepository user.Repository
	sessions       session.Store
	signer         ports.TokenSigner
	hasher         ports.PasswordHasher
	activity       ports.ActivityLog
	mCounter       *prometheus.CounterVec
	ttl            time.Duration
	now            func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	logger *zap.Logger,
	userRepository user.Repository,
	sessions session.Store,
	signer ports.TokenSigner,
	hasher ports.PasswordHasher,
	activity ports.ActivityLog,
	mCounter *prometheus.CounterVec,
	ttl time.Duration,
) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	return &AuthService{
		logger:         logger,
		userRepository: userRepository,
		sessions:       sessions,
		signer:         signer,
		hasher:         hasher,
		activity:       activity,
		mCounter:       mCounter,
		ttl:            ttl,
		now:            time.Now,
	}
}

func (as *AuthService) TTL() time.Duration { return as.ttl }

// Login verifies the credentials and opens a session. Unknown user and wrong
// password are indistinguishable to the caller.
func (as *AuthService) Login(ctx context.Context, username, password string) (string, *user.User, error) {
	u, err := as.userRepository.FetchUserByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if u == nil {
		as.hasher.Verify(password, as.dummy())
		as.mCounter.WithLabelValues(metrics.LoginFailed).Inc()
		return "", nil, ErrInvalidCredentials
	}
	if !as.hasher.Verify(password, u.PasswordHash) {
		as.mCounter.WithLabelValues(metrics.LoginFailed).Inc()
		return "", nil, ErrInvalidCredentials
	}

	now := as.now()
	s := session.Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(as.ttl),
	}
	if err = as.sessions.Save(ctx, s); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	token, err := as.signer.GenerateJWT(s.ID, int64(u.ID), as.ttl)
	if err != nil {
		if delErr := as.sessions.Delete(ctx, s.ID); delErr != nil {
			as.logger.Warn("drop unsigned session", zap.Error(delErr))
		}
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}

	as.activity.Append(fmt.Sprintf("user logged in: %s", u.Username))
	as.mCounter.WithLabelValues(metrics.LoginSucceeded).Inc()

	return token, u, nil
}

// Resolve maps a cookie token to the account behind it. Anything that does not
// lead to a live session and an existing user is anonymous: nil, nil.
func (as *AuthService) Resolve(ctx context.Context, token string) (*user.User, error) {
	s, err := as.liveSession(ctx, token)
	if err != nil || s == nil {
		return nil, err
	}

	u, err := as.userRepository.FetchUserByID(ctx, s.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return u, nil
}

// Logout revokes the session named by token. Repeating it is harmless.
func (as *AuthService) Logout(ctx context.Context, token string) error {
	s, err := as.liveSession(ctx, token)
	if err != nil || s == nil {
		return err
	}

	if err = as.sessions.Delete(ctx, s.ID); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	name := "#" + strconv.FormatInt(int64(s.UserID), 10)
	u, err := as.userRepository.FetchUserByID(ctx, s.UserID)
	if err != nil {
		as.logger.Warn("FetchUserByID() error", zap.Error(err), zap.Int64("user_id", int64(s.UserID)))
	} else if u != nil {
		name = u.Username
	}

	as.activity.Append(fmt.Sprintf("user logged out: %s", name))
	as.mCounter.WithLabelValues(metrics.Logout).Inc()

	return nil
}

func (as *AuthService) liveSession(ctx context.Context, token string) (*session.Session, error) {
	if token == "" {
		return nil, nil
	}

	claims, err := as.signer.ValidateToken(token)
	if err != nil {
		return nil, nil
	}

	s, err := as.sessions.Find(ctx, claims.SessionID())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if s == nil || int64(s.UserID) != claims.UserID || s.Expired(as.now()) {
		return nil, nil
	}

	return s, nil
}

func (as *AuthService) dummy() string {
	as.dummyOnce.Do(func() {
		h, err := as.hasher.Hash(uuid.NewString())
		if err != nil {
			as.logger.Warn("dummy hash", zap.Error(err))
			return
		}
		as.dummyHash = h
	})

	return as.dummyHash
}
