package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/smartschool/canteen-app/utils"
)

// SettlementLoggerMiddleware audits endpoints that move money (completion,
// cancellation), recording actor and outcome.
func SettlementLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		c.Next()

		utils.InfoLogger.Printf("settlement endpoint %s %s by user %v -> %d",
			c.Request.Method, c.Request.URL.Path, userID, c.Writer.Status())
	}
}
