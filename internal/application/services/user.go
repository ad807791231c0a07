package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"drive-me-local/internal/application/ports"
	"drive-me-local/internal/domain/user"
	"drive-me-local/internal/infrastructure/metrics"
)

type UserService struct {
	logger         *zap.Logger
	userRepository user.Repository
	hasher         ports.PasswordHasher
	activity       ports.ActivityLog
	mCounter       *prometheus.CounterVec
}

func NewUserService(
	logger *zap.Logger,
	userRepository user.Repository,
	hasher ports.PasswordHasher,
	activity ports.ActivityLog,
	mCounter *prometheus.CounterVec,
) ports.UserService {
	return &UserService{
		logger:         logger,
		userRepository: userRepository,
		hasher:         hasher,
		activity:       activity,
		mCounter:       mCounter,
	}
}

// Register creates a plain user. A taken username fails with
// user.ErrDuplicateUsername and leaves the stored account untouched.
func (us *UserService) Register(ctx context.Context, username, password string) (*user.User, error) {
	if errs := ValidateCredentials(username, password); errs != nil {
		return nil, errs
	}

	u, err := us.create(ctx, username, password, user.RoleUser)
	if err != nil {
		return nil, err
	}

	us.activity.Append(fmt.Sprintf("user registered: %s", u.Username))
	us.mCounter.WithLabelValues(metrics.UserRegistered).Inc()

	return u, nil
}

// EnsureAdmin seeds an administrator. An existing account with that username is
// left as it is and reported with created == false.
func (us *UserService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if errs := ValidateCredentials(username, password); errs != nil {
		return false, errs
	}

	existing, err := us.userRepository.FetchUserByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if existing != nil {
		return false, nil
	}

	u, err := us.create(ctx, username, password, user.RoleAdmin)
	if errors.Is(err, user.ErrDuplicateUsername) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	us.activity.Append(fmt.Sprintf("admin account created: %s", u.Username))

	return true, nil
}

func (us *UserService) create(ctx context.Context, username, password string, role user.Role) (*user.User, error) {
	digest, err := us.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := us.userRepository.CreateUser(ctx, user.User{
		Username:     username,
		PasswordHash: digest,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicateUsername) {
			return nil, err
		}
		us.logger.Error("CreateUser() error", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return u, nil
}
