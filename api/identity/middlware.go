package identity

import (
	"net/http"
	"strings"

	"github.com/beka-birhanu/vinom-solo/service/i"
	"github.com/gin-gonic/gin"
)

const (
	// ContextSessionClaims is the key used to store session claims in the Gin context.
	ContextSessionClaims = "sessionClaims"

	// SessionIDClaim is the token claim holding the ID of the game session it grants access to.
	SessionIDClaim = "sessionID"

	// sessionIDParam is the route parameter compared against SessionIDClaim.
	sessionIDParam = "ID"

	// tokenQueryParam carries the token for clients that cannot set headers,
	// such as browser websocket handshakes.
	tokenQueryParam = "token"
)

// Authoriz rejects requests without a valid session token. When the route carries
// a session ID parameter, the token must have been issued for that session.
func Authoriz(ts i.Tokenizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Status(http.StatusUnauthorized) // No token found in the request.
			c.Abort()
			return
		}

		// Validate the token using the tokenizer.
		claims, err := ts.Decode(token)
		if err != nil {
			c.Status(http.StatusUnauthorized)
			c.Abort()
			return
		}

		if id := c.Param(sessionIDParam); id != "" {
			if granted, _ := claims[SessionIDClaim].(string); granted != id {
				c.Status(http.StatusUnauthorized) // Token belongs to another session.
				c.Abort()
				return
			}
		}

		// Attach session claims to the request context for further use.
		c.Set(ContextSessionClaims, claims)
		c.Next()
	}
}

// bearerToken extracts the token from the Authorization header, falling back to
// the token query parameter.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		token := c.Query(tokenQueryParam)
		return token, token != ""
	}

	// Split the "Bearer" prefix from the token.
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false // Malformed Authorization header.
	}
	return parts[1], true
}
