package rest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"drive-me-local/internal/application/ports"
	"drive-me-local/internal/application/services"
	domainUser "drive-me-local/internal/domain/user"
	domainFile "drive-me-local/internal/domain/user_file"
	"drive-me-local/internal/infrastructure/metrics"
	"drive-me-local/internal/interface/api/rest/middleware"
)

type FakeAuthService struct {
	LoginFunc   func(ctx context.Context, username, password string) (string, *domainUser.User, error)
	ResolveFunc func(ctx context.Context, token string) (*domainUser.User, error)
	LogoutFunc  func(ctx context.Context, token string) error
}

func (f *FakeAuthService) Login(ctx context.Context, username, password string) (string, *domainUser.User, error) {
	if f.LoginFunc == nil {
		return "", nil, errors.New("not used")
	}
	return f.LoginFunc(ctx, username, password)
}
func (f *FakeAuthService) Resolve(ctx context.Context, token string) (*domainUser.User, error) {
	if f.ResolveFunc == nil {
		return nil, nil
	}
	return f.ResolveFunc(ctx, token)
}
func (f *FakeAuthService) Logout(ctx context.Context, token string) error {
	if f.LogoutFunc == nil {
		return nil
	}
	return f.LogoutFunc(ctx, token)
}

type FakeUserService struct {
	RegisterFunc func(ctx context.Context, username, password string) (*domainUser.User, error)
}

func (f *FakeUserService) Register(ctx context.Context, username, password string) (*domainUser.User, error) {
	if f.RegisterFunc == nil {
		return nil, errors.New("not used")
	}
	return f.RegisterFunc(ctx, username, password)
}
func (f *FakeUserService) EnsureAdmin(context.Context, string, string) (bool, error) {
	return false, errors.New("not used")
}

type FakeUserFileService struct {
	RecordUploadFunc    func(ctx context.Context, owner *domainUser.User, fh *multipart.FileHeader) (*domainFile.UserFile, error)
	ListForFunc         func(ctx context.Context, owner *domainUser.User) (domainFile.UserFiles, error)
	OpenForDownloadFunc func(ctx context.Context, requester *domainUser.User, id domainFile.ID) (*domainFile.UserFile, io.ReadCloser, error)
	OpenOwnByNameFunc   func(ctx context.Context, requester *domainUser.User, name string) (*domainFile.UserFile, io.ReadCloser, error)
}

func (f *FakeUserFileService) RecordUpload(ctx context.Context, owner *domainUser.User, fh *multipart.FileHeader) (*domainFile.UserFile, error) {
	if f.RecordUploadFunc == nil {
		return nil, errors.New("not used")
	}
	return f.RecordUploadFunc(ctx, owner, fh)
}
func (f *FakeUserFileService) ListFor(ctx context.Context, owner *domainUser.User) (domainFile.UserFiles, error) {
	if f.ListForFunc == nil {
		return nil, errors.New("not used")
	}
	return f.ListForFunc(ctx, owner)
}
func (f *FakeUserFileService) ListAll(context.Context, *domainUser.User) (domainFile.UserFiles, error) {
	return nil, errors.New("not used")
}
func (f *FakeUserFileService) OpenForDownload(ctx context.Context, requester *domainUser.User, id domainFile.ID) (*domainFile.UserFile, io.ReadCloser, error) {
	if f.OpenForDownloadFunc == nil {
		return nil, nil, errors.New("not used")
	}
	return f.OpenForDownloadFunc(ctx, requester, id)
}
func (f *FakeUserFileService) OpenOwnByName(ctx context.Context, requester *domainUser.User, name string) (*domainFile.UserFile, io.ReadCloser, error) {
	if f.OpenOwnByNameFunc == nil {
		return nil, nil, errors.New("not used")
	}
	return f.OpenOwnByNameFunc(ctx, requester, name)
}

type FakeAdminService struct {
	OverviewFunc func(ctx context.Context, requester *domainUser.User) (*ports.Overview, error)
}

func (f *FakeAdminService) Overview(ctx context.Context, requester *domainUser.User) (*ports.Overview, error) {
	if f.OverviewFunc == nil {
		return nil, errors.New("not used")
	}
	return f.OverviewFunc(ctx, requester)
}

var (
	alice = &domainUser.User{ID: 1, Username: "alice", Role: domainUser.RoleUser}
	root  = &domainUser.User{ID: 2, Username: "root", Role: domainUser.RoleAdmin}
)

// tokens understood by resolveByToken
const (
	aliceToken = "alice-token"
	rootToken  = "root-token"
)

func resolveByToken(_ context.Context, token string) (*domainUser.User, error) {
	switch token {
	case aliceToken:
		return alice, nil
	case rootToken:
		return root, nil
	}
	return nil, nil
}

type deps struct {
	auth  ports.Auth
	users ports.UserService
	files ports.UserFileService
	admin ports.AdminService
}

func setupRouter(t *testing.T, d deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if d.auth == nil {
		d.auth = &FakeAuthService{ResolveFunc: resolveByToken}
	}
	if d.users == nil {
		d.users = &FakeUserService{}
	}
	if d.files == nil {
		d.files = &FakeUserFileService{}
	}
	if d.admin == nil {
		d.admin = &FakeAdminService{}
	}

	logger := zap.NewNop()
	counter := metrics.NewUnregisteredCounter()
	gate := services.NewGate(RouteLogin, RouteDashboard)
	cookies := middleware.Cookies{}

	r := gin.New()
	r.Use(middleware.Identify(d.auth, logger))

	NewAuthController(r, logger, d.users, d.auth, cookies, time.Hour)
	NewUserFileController(r, logger, d.files, gate, cookies, 1<<10, counter)
	NewAdminController(r, logger, d.admin, gate, cookies, counter)

	return r
}

func withSession(token string) func(*http.Request) {
	return func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}
}

func doReq(t *testing.T, r *gin.Engine, method, path string, body io.Reader, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	for _, opt := range opts {
		opt(req)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func formBody(fields map[string]string) (io.Reader, func(*http.Request)) {
	v := url.Values{}
	for k, val := range fields {
		v.Set(k, val)
	}
	return strings.NewReader(v.Encode()), func(req *http.Request) {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
}

func multipartBody(t *testing.T, fileField, fileName string, content []byte) (io.Reader, func(*http.Request)) {
	t.Helper()

	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return &b, func(req *http.Request) {
		req.Header.Set("Content-Type", w.FormDataContentType())
	}
}

func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
