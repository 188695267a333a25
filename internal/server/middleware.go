package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

const contextUserID = "auth.user_id"

// AuthRequired validates the bearer token and stores the caller's user id
// on the request context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		userID, err := s.authsvc.VerifyToken(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserID, userID)
		c.Next()
	}
}

func userIDFromContext(c *gin.Context) snowflake.ID {
	v, ok := c.Get(contextUserID)
	if !ok {
		return 0
	}
	id, _ := v.(snowflake.ID)
	return id
}

// parseID parses a snowflake path or query parameter.
func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}
