package response

import (
	"github.com/gin-gonic/gin"
)

// Error sends a standardized error response
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// Success sends a standardized success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// SuccessList sends a standardized success response for list endpoints,
// including the element count.
func SuccessList(c *gin.Context, status int, count int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "count": count, "data": data})
}

// Message sends a standardized success response carrying only a message
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}
