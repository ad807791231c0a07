package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"drive-me-local/internal/application/services"
	"drive-me-local/internal/domain/user"
)

type stubAuth struct {
	u   *user.User
	err error
}

func (s stubAuth) Login(context.Context, string, string) (string, *user.User, error) {
	return "", nil, errors.New("not used")
}
func (s stubAuth) Resolve(context.Context, string) (*user.User, error) { return s.u, s.err }
func (s stubAuth) Logout(context.Context, string) error { return nil }

func TestIdentifyAndRequire(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gate := services.NewGate("/login", "/dashboard")

	tests := []struct {
		name         string
		auth         stubAuth
		cookie       string
		needed       services.Capability
		wantStatus   int
		wantLocation string
	}{
		{name: "anonymous", needed: services.CapAuthenticated, wantStatus: http.StatusSeeOther, wantLocation: "/login"},
		{
			name:       "user",
			auth:       stubAuth{u: &user.User{ID: 1, Role: user.RoleUser}},
			cookie:     "t",
			needed:     services.CapAuthenticated,
			wantStatus: http.StatusOK,
		},
		{
			name:         "user on admin route",
			auth:         stubAuth{u: &user.User{ID: 1, Role: user.RoleUser}},
			cookie:       "t",
			needed:       services.CapAdmin,
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/dashboard",
		},
		{
			name:       "session store down",
			auth:       stubAuth{err: services.ErrStorageUnavailable},
			cookie:     "t",
			needed:     services.CapAuthenticated,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(Identify(tt.auth, zap.NewNop()))
			r.GET("/x", Require(gate, tt.needed, Cookies{}, nil), func(c *gin.Context) {
				c.String(http.StatusOK, "ok")
			})

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantLocation, rr.Header().Get("Location"))
		})
	}
}

func TestCookies_Secure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Cookies{Secure: true}.SetSession(c, "tok", 0)

	cookies := rr.Result().Cookies()
	if assert.Len(t, cookies, 1) {
		assert.True(t, cookies[0].Secure)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	}
}
