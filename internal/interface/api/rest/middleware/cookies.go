package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "drive_session"
	FlashCookie   = "drive_flash"
)

// Cookies writes the session and flash cookies. Secure is set outside of
// development so the cookies never travel over plain http in production.
type Cookies struct {
	Secure bool
}

func (ck Cookies) SetSession(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(ttl.Seconds()), "/", "", ck.Secure, true)
}

func (ck Cookies) ClearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", ck.Secure, true)
}

func SessionToken(c *gin.Context) string {
	token, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return token
}

// SetFlash leaves a one-shot notice for the next page the client loads.
func (ck Cookies) SetFlash(c *gin.Context, notice string) {
	if notice == "" {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookie, notice, 60, "/", "", ck.Secure, true)
}

// PopFlash reads the pending notice, if any, and clears it.
func (ck Cookies) PopFlash(c *gin.Context) string {
	notice, err := c.Cookie(FlashCookie)
	if err != nil || notice == "" {
		return ""
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookie, "", -1, "/", "", ck.Secure, true)

	return notice
}
