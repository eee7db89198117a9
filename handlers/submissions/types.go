package submissions

import (
	"github.com/gin-gonic/gin"
)

// Constants for error messages
const (
	ErrCompetitionNotFound    = "Competition not found"
	ErrSubmissionNotFound     = "Submission not found"
	ErrCompetitionNotActive   = "Competition is not active"
	ErrDuplicateSubmission    = "You have already submitted to this competition"
	ErrImageRequired          = "Submission image is required"
	ErrScoreOutOfRange        = "Score must be between 0 and 10"
	ErrAccessDenied           = "Access denied"
	ErrFailedFetchSubmissions = "Failed to fetch submissions"
	ErrFailedCreateSubmission = "Failed to create submission"
	ErrFailedUpdateSubmission = "Failed to update submission"
	ErrFailedDeleteSubmission = "Failed to delete submission"
	ErrInvalidRequest         = "Invalid request data"
)

// ScoreRequest model for scoring a submission. The pointer distinguishes a
// missing score from an explicit zero.
type ScoreRequest struct {
	Score *float64 `json:"score" binding:"required"`
}

// CompetitionSummary accompanies the per-competition submission listing
type CompetitionSummary struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	TotalSubmissions int    `json:"totalSubmissions"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
