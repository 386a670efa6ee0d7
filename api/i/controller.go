package i

import "github.com/gin-gonic/gin"

// Controller registers a group of HTTP routes on the router.
type Controller interface {
	// RegisterPublic adds routes reachable without a session token.
	RegisterPublic(*gin.RouterGroup)

	// RegisterProtected adds routes that sit behind the authorization middleware.
	RegisterProtected(*gin.RouterGroup)
}
