package services

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"drive-me-local/internal/infrastructure/jwt"
	"drive-me-local/internal/infrastructure/metrics"
	"drive-me-local/internal/infrastructure/password"
	"drive-me-local/internal/infrastructure/session"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type harness struct {
	users    *FakeUserRepository
	files    *FakeUserFileRepository
	blobs    *FakeBlobStore
	activity *FakeActivityLog
	sessions *session.MemoryStore
	signer   *jwt.Service

	userService *UserService
	auth        *AuthService
	fileService *UserFileService
	admin       *AdminService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	logger := zap.NewNop()
	counter := metrics.NewUnregisteredCounter()
	hasher := password.New(bcrypt.MinCost)

	h := &harness{
		users:    &FakeUserRepository{},
		files:    &FakeUserFileRepository{},
		blobs:    NewFakeBlobStore(),
		activity: &FakeActivityLog{},
		sessions: session.NewMemoryStore(),
		signer:   jwt.New(testSecret),
	}

	h.userService = NewUserService(logger, h.users, hasher, h.activity, counter).(*UserService)
	h.auth = NewAuthService(logger, h.users, h.sessions, h.signer, hasher, h.activity, counter, time.Hour)
	h.fileService = NewUserFileService(logger, h.blobs, h.files, h.activity, counter, 1<<20).(*UserFileService)
	h.admin = NewAdminService(h.users, h.files, h.activity).(*AdminService)

	return h
}
