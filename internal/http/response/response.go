package response

import (
	"github.com/gin-gonic/gin"
)

// Error writes the flat error envelope the agreement API uses. The raw
// error text is surfaced as-is, including for internal errors.
func Error(c *gin.Context, status int, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, gin.H{"error": msg})
}
