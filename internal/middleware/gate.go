package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// GateConfig describes the cookie-presence gate in front of the dashboard.
type GateConfig struct {
	Cookie   string
	Prefix   string
	Redirect string
}

// RouteGate redirects requests under Prefix to Redirect when the session
// cookie is absent. It checks presence only; the token is never verified
// here. Other paths pass through unmodified.
func RouteGate(cfg GateConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !gated(c.Request.URL.Path, cfg.Prefix) {
			c.Next()
			return
		}

		if cookie, err := c.Cookie(cfg.Cookie); err == nil && cookie != "" {
			c.Next()
			return
		}

		c.Redirect(http.StatusFound, cfg.Redirect)
		c.Abort()
	}
}

// gated matches prefix on a path-segment boundary, so /admin and /admin/x
// are gated while /administer is not.
func gated(path, prefix string) bool {
	if prefix == "" || !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || rest[0] == '/' || strings.HasSuffix(prefix, "/")
}
