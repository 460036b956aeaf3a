package helpers

import (
	"github.com/gin-gonic/gin"
)

// RespondWithError writes the uniform failure envelope. The message is the
// only detail exposed to callers; internals stay in the server log.
func RespondWithError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   message,
	})
}

// RespondWithSuccess merges payload into the success envelope.
func RespondWithSuccess(c *gin.Context, statusCode int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(statusCode, body)
}
