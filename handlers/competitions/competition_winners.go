package competitions

import (
	"net/http"

	"api/database"
	"api/models"
	"api/services"

	"github.com/gin-gonic/gin"
)

// [POST] ProcessWinners
// @Summary Process winners for one competition
// @Description Run winner selection immediately for a single competition
// @Tags Competitions
// @Accept json
// @Produce json
// @Param processRequest body ProcessWinnersRequest true "Competition to process"
// @Success 200 {array} models.Winner
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /competitions/process-winners [post]
// @Security Bearer
func ProcessWinners(c *gin.Context) {
	// Step 1: Parse the request body
	var req ProcessWinnersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	// Step 2: Get the target competition
	var competition models.Competition
	if err := database.DB.First(&competition, "id = ?", req.CompetitionID).Error; err != nil {
		respondWithError(c, http.StatusNotFound, ErrCompetitionNotFound)
		return
	}

	// Step 3: Reject reprocessing; the winner set is already final
	if competition.IsProcessed {
		respondWithError(c, http.StatusBadRequest, ErrAlreadyProcessed)
		return
	}

	// Step 4: Run winner selection synchronously
	winners, err := services.Lifecycle.ProcessCompetition(competition.ID)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedProcessWinners)
		return
	}

	message := "Winners processed successfully"
	if len(winners) == 0 {
		message = "No winners found"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "data": winners})
}
