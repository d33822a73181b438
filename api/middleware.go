// api/middleware.go

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Constants used for auth
const (
	authorizationHeaderKey  = "authorization"
	authorizationTypeBearer = "bearer"
	profileIDContextKey     = "profile_id"
)

////////////////////////////////////////////////////////////////////////
// CORS MIDDLEWARE
////////////////////////////////////////////////////////////////////////

// CORSMiddleware creates a gin.HandlerFunc that sets the required CORS headers.
// It reads the allowed origin from the server's configuration.
func (server *Server) CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", server.config.FrontendURL)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

////////////////////////////////////////////////////////////////////////
// AUTHENTICATION MIDDLEWARE
////////////////////////////////////////////////////////////////////////

// authMiddleware checks for a valid, externally-issued JWT and stores the
// profile_id it carries in the context. It never issues tokens itself —
// identity issuance belongs to an external provider (spec §1 non-goal).
func (server *Server) authMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authorizationHeader := ctx.GetHeader(authorizationHeaderKey)
		if len(authorizationHeader) == 0 {
			err := errors.New("authorization header is not provided")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(err))
			return
		}

		fields := strings.Fields(authorizationHeader)
		if len(fields) < 2 {
			err := errors.New("invalid authorization header format")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(err))
			return
		}

		authType := strings.ToLower(fields[0])
		if authType != authorizationTypeBearer {
			err := fmt.Errorf("unsupported authorization type %s", authType)
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(err))
			return
		}

		profileID, err := server.verifier.Verify(fields[1])
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(err))
			return
		}

		ctx.Set(profileIDContextKey, profileID)
		ctx.Next()
	}
}

////////////////////////////////////////////////////////////////////////
// HELPER FUNCTION
////////////////////////////////////////////////////////////////////////

// getProfileID retrieves the profile_id authMiddleware stored in the context.
func getProfileID(ctx *gin.Context) (uuid.UUID, error) {
	value, exists := ctx.Get(profileIDContextKey)
	if !exists {
		return uuid.Nil, errors.New("profile id not found in context")
	}

	profileID, ok := value.(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("invalid profile id type in context")
	}

	return profileID, nil
}
