package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"drive-me-local/internal/application/ports"
	"drive-me-local/internal/application/services"
	"drive-me-local/internal/interface/api/rest/dto/admin"
	"drive-me-local/internal/interface/api/rest/middleware"
)

type AdminController struct {
	logger       *zap.Logger
	adminService ports.AdminService
	cookies      middleware.Cookies
}

func NewAdminController(
	r *gin.Engine,
	logger *zap.Logger,
	adminService ports.AdminService,
	gate *services.Gate,
	cookies middleware.Cookies,
	mCounter *prometheus.CounterVec,
) *AdminController {
	adc := &AdminController{
		logger:       logger,
		adminService: adminService,
		cookies:      cookies,
	}

	r.GET(RouteAdmin, middleware.Require(gate, services.CapAdmin, cookies, mCounter), adc.OverviewHandler)

	return adc
}

func (adc *AdminController) OverviewHandler(c *gin.Context) {
	ov, err := adc.adminService.Overview(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		adc.logger.Error("Overview() error", zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to build the overview"},
		)
		return
	}

	resp := admin.ToResponseOverview(*ov)
	resp.Notice = adc.cookies.PopFlash(c)
	c.JSON(http.StatusOK, resp)
}
