package middlewares

import (
	"net/http"
	"strings"

	"fitquest/store"
	"fitquest/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionHeader = "X-Session-ID"
	identityKey   = "identity"
	tokenKey      = "accessToken"
)

// IdentityMiddleware resolves who is calling. A bearer token must be a valid hosted-auth
// access token; without one the caller is an anonymous session, named by X-Session-ID or a
// fresh id echoed back in the same header. Browsers cannot set headers on websocket
// upgrades, so access_token and session query parameters are accepted too.
func IdentityMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString != "" {
			if jwtSecret == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token authentication is not configured"})
				return
			}
			sub, err := utils.ParseAccessToken(jwtSecret, tokenString)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			if _, err := uuid.Parse(sub); err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid subject"})
				return
			}
			c.Set(identityKey, store.User(sub))
			c.Set(tokenKey, tokenString)
			c.Next()
			return
		}

		session := c.GetHeader(SessionHeader)
		if session == "" {
			session = c.Query("session")
		}
		if session == "" || len(session) > 128 {
			session = uuid.NewString()
		}
		c.Header(SessionHeader, session)
		c.Set(identityKey, store.Anonymous(session))
		c.Next()
	}
}

// RequireUser rejects anonymous callers.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IdentityFrom(c).Anonymous() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity set by IdentityMiddleware.
func IdentityFrom(c *gin.Context) store.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(store.Identity); ok {
			return id
		}
	}
	return store.Anonymous("")
}

// AccessToken returns the verified bearer token, if any.
func AccessToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return c.Query("access_token")
}
