package auth

import (
	"errors"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/fgc-incentivos/reports-backend/internal/profiles"
	"github.com/fgc-incentivos/reports-backend/internal/reports/domain"
)

const ctxActor = "actor"

// WithActor validates the Firebase ID token and resolves the caller's profile
// into a domain.Actor on the gin context. Requests without a provisioned
// profile are rejected: identity alone grants nothing.
func WithActor(authClient *auth.Client, profileRepo *profiles.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing authorization token"})
			c.Abort()
			return
		}

		decoded, err := authClient.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			c.Abort()
			return
		}

		profile, err := profileRepo.Get(c.Request.Context(), decoded.UID)
		if err != nil {
			if errors.Is(err, profiles.ErrProfileNotFound) {
				c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "no profile for this account"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "load profile: " + err.Error()})
			}
			c.Abort()
			return
		}

		c.Set(ctxActor, domain.Actor{ID: profile.ID, Role: profile.Role})
		c.Next()
	}
}

// Actor returns the actor resolved by WithActor. The zero Actor means the
// middleware did not run.
func Actor(c *gin.Context) domain.Actor {
	v, ok := c.Get(ctxActor)
	if !ok {
		return domain.Actor{}
	}
	actor, _ := v.(domain.Actor)
	return actor
}

// SetActor is used by tests to bypass token verification.
func SetActor(c *gin.Context, actor domain.Actor) {
	c.Set(ctxActor, actor)
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
