package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/auth"
	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/domain"
)

const sessionKey = "session"

// bearerToken извлекает токен из заголовка Authorization
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// authRequired пропускает только запросы с действующим токеном сессии
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "authorization required"})
			return
		}
		sess, err := s.sessions.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": auth.ErrInvalidToken.Error()})
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// farmerOnly требует роль farmer; ставится после authRequired
func (s *Server) farmerOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if sess == nil || sess.Role != domain.RoleFarmer {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "farmer access required"})
			return
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) *auth.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, ok := v.(*auth.Session)
	if !ok {
		return nil
	}
	return sess
}

// sameFarmer сверяет email из запроса с email сессии (без учёта регистра)
func sameFarmer(sess *auth.Session, email string) bool {
	return sess != nil && strings.EqualFold(strings.TrimSpace(email), sess.Email)
}
