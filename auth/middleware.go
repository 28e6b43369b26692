package auth

import (
	"log"
	"strings"

	"Cywala/util"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

const (
	ContextSubject = "subject"
	ContextRole    = "role"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

/*
* Read the bearer token
* Parse it and put subject and role on the context
 */
func Authenticate(tokens *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			util.RespondError(c, util.Unauthorized(util.NOT_AUTHORIZED))
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			log.Println("Error from Parse token:", err)
			util.RespondError(c, util.Unauthorized(util.NOT_AUTHORIZED))
			return
		}
		c.Set(ContextSubject, claims.Subject)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// Authorize checks the authenticated role against the casbin policy for the request path and method.
func Authorize(enforcer *casbin.Enforcer) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleName := c.GetString(ContextRole)
		allowed, err := enforcer.Enforce(roleName, c.Request.URL.Path, c.Request.Method)
		if err != nil {
			log.Println("Error from Enforce:", err)
			util.RespondError(c, util.Internal(err))
			return
		}
		if !allowed {
			util.RespondError(c, util.Forbidden(util.ACCESS_DENIED))
			return
		}
		c.Next()
	}
}

func Subject(c *gin.Context) string {
	return c.GetString(ContextSubject)
}
