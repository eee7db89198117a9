package competitions

import (
	"time"

	"api/models"

	"github.com/gin-gonic/gin"
)

// Constants for error messages
const (
	ErrCompetitionNotFound     = "Competition not found"
	ErrBackgroundRequired      = "Background image is required"
	ErrEndBeforeStart          = "End date must be after start date"
	ErrStartAfterEnd           = "Start date must be before end date"
	ErrNameInUse               = "Competition name already in use"
	ErrAlreadyProcessed        = "Winners have already been processed for this competition"
	ErrFailedFetchCompetitions = "Failed to fetch competitions"
	ErrFailedCreateCompetition = "Failed to create competition"
	ErrFailedUpdateCompetition = "Failed to update competition"
	ErrFailedDeleteCompetition = "Failed to delete competition"
	ErrFailedProcessWinners    = "Failed to process winners"
	ErrInvalidRequest          = "Invalid request data"
)

// ProcessWinnersRequest model for the manual winner-processing endpoint
type ProcessWinnersRequest struct {
	CompetitionID string `json:"competitionId" binding:"required"`
}

// CompetitionSummary is the public listing view of a competition
type CompetitionSummary struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Background       string    `json:"background"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	TotalSubmissions int       `json:"totalSubmissions"`
	IsHide           bool      `json:"isHide"`
	Awards           string    `json:"awards"`
	Status           string    `json:"status"`
}

// CompetitionDetail adds the winner fields to the public view
type CompetitionDetail struct {
	CompetitionSummary
	Winners     []models.Winner `json:"winners"`
	IsProcessed bool            `json:"isProcessed"`
}

func summarize(c models.Competition, now time.Time) CompetitionSummary {
	return CompetitionSummary{
		ID:               c.ID,
		Name:             c.Name,
		Description:      c.Description,
		Background:       c.Background,
		Start:            c.Start,
		End:              c.End,
		TotalSubmissions: c.TotalSubmissions,
		IsHide:           c.IsHide,
		Awards:           c.Awards,
		Status:           c.Status(now),
	}
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
