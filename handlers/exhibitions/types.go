package exhibitions

import (
	"github.com/gin-gonic/gin"
)

// Constants for error messages
const (
	ErrExhibitionNotFound     = "Exhibition not found"
	ErrSubmissionsNotFound    = "Some submissions not found"
	ErrBackgroundRequired     = "Background image is required"
	ErrEndBeforeStart         = "End date must be after start date"
	ErrStartAfterEnd          = "Start date must be before end date"
	ErrNameInUse              = "Exhibition name already in use"
	ErrFailedFetchExhibitions = "Failed to fetch exhibitions"
	ErrFailedCreateExhibition = "Failed to create exhibition"
	ErrFailedUpdateExhibition = "Failed to update exhibition"
	ErrFailedDeleteExhibition = "Failed to delete exhibition"
	ErrInvalidRequest         = "Invalid request data"
)

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
