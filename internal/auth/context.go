package auth

import (
	"github.com/gin-gonic/gin"
)

const (
	householdHeader = "X-Household-ID"
	householdKey    = "household_id"
)

// Middleware copies the household scope from the request header into the
// gin context. Requests without a household are rejected upstream of the
// domain handlers.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(householdHeader); id != "" {
			c.Set(householdKey, id)
		}
		c.Next()
	}
}

// GetHouseholdID resolves the tenant scope for the request. Empty when
// the caller sent no household header.
func GetHouseholdID(c *gin.Context) string {
	if val, ok := c.Get(householdKey); ok {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return c.GetHeader(householdHeader)
}
