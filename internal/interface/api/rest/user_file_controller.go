package rest

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"drive-me-local/internal/application/ports"
	"drive-me-local/internal/application/services"
	domain "drive-me-local/internal/domain/user_file"
	"drive-me-local/internal/interface/api/rest/dto/user"
	"drive-me-local/internal/interface/api/rest/dto/user_file"
	"drive-me-local/internal/interface/api/rest/middleware"
	"drive-me-local/internal/interface/api/rest/validator"
)

// room for the multipart envelope around the file itself
const multipartOverhead = 1 << 20

type UserFileController struct {
	logger          *zap.Logger
	userFileService ports.UserFileService
	cookies         middleware.Cookies
	maxUploadBytes  int64
}

func NewUserFileController(
	r *gin.Engine,
	logger *zap.Logger,
	userFileService ports.UserFileService,
	gate *services.Gate,
	cookies middleware.Cookies,
	maxUploadBytes int64,
	mCounter *prometheus.CounterVec,
) *UserFileController {
	ufc := &UserFileController{
		logger:          logger,
		userFileService: userFileService,
		cookies:         cookies,
		maxUploadBytes:  maxUploadBytes,
	}

	authed := r.Group("", middleware.Require(gate, services.CapAuthenticated, cookies, mCounter))
	authed.GET(RouteDashboard, ufc.DashboardHandler)
	authed.POST(RouteDashboard, ufc.UploadHandler)
	authed.GET(RouteDownload, ufc.DownloadByNameHandler)
	authed.GET(RouteFileDownload, ufc.DownloadHandler)

	return ufc
}

func (ufc *UserFileController) DashboardHandler(c *gin.Context) {
	me := middleware.Identity(c)

	files, err := ufc.userFileService.ListFor(c.Request.Context(), me)
	if err != nil {
		ufc.logger.Error("ListFor() error", zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to get files"},
		)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   user.ToResponseUser(*me),
		"files":  user_file.ToResponseUserFiles(files),
		"notice": ufc.cookies.PopFlash(c),
	})
}

func (ufc *UserFileController) UploadHandler(c *gin.Context) {
	if ufc.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ufc.maxUploadBytes+multipartOverhead)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	uf, err := ufc.userFileService.RecordUpload(c.Request.Context(), middleware.Identity(c), fh)
	if err != nil {
		var verr services.ValidationError
		switch {
		case errors.Is(err, services.ErrFileTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		case errors.Is(err, services.ErrEmptyFile):
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is empty"})
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload", "details": verr})
		default:
			ufc.logger.Error("RecordUpload() error", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store the file"})
		}
		return
	}

	c.JSON(http.StatusCreated, user_file.ResponseData{Data: user_file.ToResponseUserFile(*uf)})
}

func (ufc *UserFileController) DownloadByNameHandler(c *gin.Context) {
	uf, rc, err := ufc.userFileService.OpenOwnByName(c.Request.Context(), middleware.Identity(c), c.Param("filename"))
	ufc.serve(c, uf, rc, err)
}

func (ufc *UserFileController) DownloadHandler(c *gin.Context) {
	id, err := validator.ParseID(c.Param("file_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_id must be a positive integer"})
		return
	}

	uf, rc, err := ufc.userFileService.OpenForDownload(c.Request.Context(), middleware.Identity(c), domain.ID(id))
	ufc.serve(c, uf, rc, err)
}

func (ufc *UserFileController) serve(c *gin.Context, uf *domain.UserFile, rc io.ReadCloser, err error) {
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		ufc.logger.Error("open download error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read the file"})
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, uf.SizeBytes, uf.MimeType, rc, map[string]string{
		"Content-Disposition":    mime.FormatMediaType("attachment", map[string]string{"filename": uf.FileName}),
		"X-Content-Type-Options": "nosniff",
	})
}
