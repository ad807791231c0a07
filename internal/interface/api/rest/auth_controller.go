package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"drive-me-local/internal/application/ports"
	"drive-me-local/internal/application/services"
	domain "drive-me-local/internal/domain/user"
	"drive-me-local/internal/interface/api/rest/dto/auth"
	"drive-me-local/internal/interface/api/rest/dto/user"
	"drive-me-local/internal/interface/api/rest/middleware"
	"drive-me-local/internal/interface/api/rest/validator"
)

const NoticeLoggedOut = "you have been logged out"

type AuthController struct {
	logger      *zap.Logger
	userService ports.UserService
	authService ports.Auth
	cookies     middleware.Cookies
	sessionTTL  time.Duration
}

func NewAuthController(
	r *gin.Engine,
	logger *zap.Logger,
	userService ports.UserService,
	authService ports.Auth,
	cookies middleware.Cookies,
	sessionTTL time.Duration,
) *AuthController {
	ac := &AuthController{
		logger:      logger,
		userService: userService,
		authService: authService,
		cookies:     cookies,
		sessionTTL:  sessionTTL,
	}

	r.GET(RouteIndex, ac.IndexHandler)
	r.POST(RouteRegister, ac.RegisterHandler)
	r.GET(RouteLogin, ac.LoginPageHandler)
	r.POST(RouteLogin, ac.LoginHandler)
	// ungated: a stale cookie still has to be cleared
	r.GET(RouteLogout, ac.LogoutHandler)

	return ac
}

func (ac *AuthController) IndexHandler(c *gin.Context) {
	if middleware.Identity(c) == nil {
		c.Redirect(http.StatusSeeOther, RouteLogin)
		return
	}

	c.Redirect(http.StatusSeeOther, RouteDashboard)
}

func (ac *AuthController) LoginPageHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"authenticated": middleware.Identity(c) != nil,
		"notice":        ac.cookies.PopFlash(c),
	})
}

func (ac *AuthController) RegisterHandler(c *gin.Context) {
	var req auth.Request
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "invalid request body"},
		)
		return
	}

	if errs := validator.ValidateRegister(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	u, err := ac.userService.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		var verr services.ValidationError
		switch {
		case errors.Is(err, domain.ErrDuplicateUsername):
			c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid request body",
				"details": verr,
			})
		default:
			ac.logger.Error("Register() error", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register"})
		}
		return
	}

	c.JSON(http.StatusCreated, user.ResponseData{Data: user.ToResponseUser(*u)})
}

func (ac *AuthController) LoginHandler(c *gin.Context) {
	var req auth.Request
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "invalid request body"},
		)
		return
	}

	if errs := validator.ValidateLogin(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	token, u, err := ac.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		ac.logger.Error("Login() error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}

	ac.cookies.SetSession(c, token, ac.sessionTTL)
	if u.IsAdmin() {
		c.Redirect(http.StatusSeeOther, RouteAdmin)
		return
	}
	c.Redirect(http.StatusSeeOther, RouteDashboard)
}

func (ac *AuthController) LogoutHandler(c *gin.Context) {
	if token := middleware.SessionToken(c); token != "" {
		if err := ac.authService.Logout(c.Request.Context(), token); err != nil {
			ac.logger.Error("Logout() error", zap.Error(err))
		}
	}

	ac.cookies.ClearSession(c)
	ac.cookies.SetFlash(c, NoticeLoggedOut)
	c.Redirect(http.StatusSeeOther, RouteLogin)
}
