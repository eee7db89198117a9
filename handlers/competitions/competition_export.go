package competitions

import (
	"fmt"
	"net/http"

	"api/database"
	"api/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// [GET] ExportCompetitionData
// @Summary Export competition data
// @Description Export a competition's submissions and scores as an Excel workbook
// @Tags Competitions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Competition ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /competitions/{id}/export [get]
// @Security Bearer
func ExportCompetitionData(c *gin.Context) {
	// Step 1: Get the target competition and its submissions
	var competition models.Competition
	if err := database.DB.First(&competition, "id = ?", c.Param("id")).Error; err != nil {
		respondWithError(c, http.StatusNotFound, ErrCompetitionNotFound)
		return
	}

	var submissions []models.Submission
	if err := database.DB.
		Where("competition_id = ?", competition.ID).
		Order("score DESC, created_at ASC").
		Find(&submissions).Error; err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedFetchCompetitions)
		return
	}

	// Step 2: Build the workbook
	file := excelize.NewFile()
	defer file.Close()

	sheet := "Submissions"
	file.SetSheetName(file.GetSheetName(0), sheet)

	headers := []string{"Author", "Score", "Scored By", "Scored At", "Image"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sheet, cell, header)
	}

	for row, submission := range submissions {
		scoredBy := ""
		if submission.ScoredBy != nil {
			scoredBy = *submission.ScoredBy
		}
		scoredAt := ""
		if submission.ScoredAt != nil {
			scoredAt = submission.ScoredAt.Format("2006-01-02 15:04:05")
		}

		values := []interface{}{submission.Author, submission.Score, scoredBy, scoredAt, submission.Image}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			file.SetCellValue(sheet, cell, value)
		}
	}

	// Step 3: Stream the workbook to the client
	filename := fmt.Sprintf("competition-%s.xlsx", competition.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		respondWithError(c, http.StatusInternalServerError, "Failed to export competition data")
	}
}
