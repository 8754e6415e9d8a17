package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "token"

// CookieManager writes the session cookie. The attributes are fixed:
// HttpOnly, SameSite=Strict, Secure, Path=/, Max-Age of SessionTTL.
type CookieManager struct {
	Domain string
}

func NewCookie(domain string) *CookieManager {
	return &CookieManager{Domain: domain}
}

func (m *CookieManager) SetSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, token, int(SessionTTL.Seconds()), "/", m.Domain, true, true)
}

// Clear overwrites the session cookie with an empty, already-expired value.
func (m *CookieManager) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   m.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// SessionToken reads the session cookie from the request; empty if absent.
func SessionToken(c *gin.Context) string {
	v, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return v
}
