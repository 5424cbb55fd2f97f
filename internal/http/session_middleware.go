package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"devauth/internal/domain"
	"devauth/internal/session"
)

const sessionKey = "session"

// RequireSession protege una vista: sin sesión redirige a login sin cuerpo.
func RequireSession(cookies session.CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := session.Gate(session.NewCookieStore(c.Writer, c.Request, cookies))
		if !ok {
			redirectToLogin(c)
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// GetSession obtiene la sesión guardada por RequireSession.
func GetSession(c *gin.Context) (domain.Session, bool) {
	val, ok := c.Get(sessionKey)
	if !ok {
		return domain.Session{}, false
	}
	sess, ok := val.(domain.Session)
	return sess, ok
}

// redirectToLogin responde 302 sin cuerpo, así que no lleva Content-Type.
func redirectToLogin(c *gin.Context) {
	c.Writer.Header().Del("Content-Type")
	c.Header("Location", session.LoginPath)
	c.AbortWithStatus(http.StatusFound)
}
