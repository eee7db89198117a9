package submissions

import (
	"errors"
	"net/http"

	"api/database"
	"api/middleware"
	"api/models"
	"api/realtime"
	"api/services"
	"api/storage"
	"api/utils/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// [POST] CreateSubmission
// @Summary Submit artwork to a competition
// @Description Create a submission for an active competition; one entry per user per competition
// @Tags Submissions
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Artwork image"
// @Param competitionId formData string true "Competition ID"
// @Success 201 {object} models.Submission
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /submissions [post]
// @Security Bearer
func CreateSubmission(c *gin.Context) {
	// Step 1: Authenticate the user
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	// Step 2: Parse the request
	competitionID := c.PostForm("competitionId")
	if competitionID == "" {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}
	file, err := c.FormFile("image")
	if err != nil {
		respondWithError(c, http.StatusBadRequest, ErrImageRequired)
		return
	}

	// Step 3: Get the target competition
	var competition models.Competition
	if err := database.DB.First(&competition, "id = ?", competitionID).Error; err != nil {
		respondWithError(c, http.StatusNotFound, ErrCompetitionNotFound)
		return
	}

	// Submissions close at the end date. The start date is intentionally
	// not checked: entries are accepted before the window opens.
	if services.Lifecycle.Now().After(competition.End) {
		respondWithError(c, http.StatusBadRequest, ErrCompetitionNotActive)
		return
	}

	// Step 4: Store the image
	image, err := storage.Store.Save(file, storage.AreaSubmissions)
	if err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	// Step 5: Create the record and count it on the parent competition in
	// one transaction. The unique (competition_id, author) index is the
	// authoritative duplicate check; a stored file never survives a failed
	// create, and a failed count never leaves an uncounted row behind.
	submission := models.Submission{
		CompetitionID: competition.ID,
		Author:        user.Email,
		Image:         image,
	}
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&submission).Error; err != nil {
			return err
		}
		return tx.Model(&models.Competition{}).
			Where("id = ?", competition.ID).
			UpdateColumn("total_submissions", gorm.Expr("total_submissions + 1")).Error
	})
	if err != nil {
		storage.Store.Delete(image)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondWithError(c, http.StatusBadRequest, ErrDuplicateSubmission)
			return
		}
		respondWithError(c, http.StatusInternalServerError, ErrFailedCreateSubmission)
		return
	}

	realtime.Broadcast(realtime.Event{
		CompetitionID: competition.ID,
		Type:          realtime.EventSubmissionCreated,
		Submission:    &submission,
	})
	response.Success(c, http.StatusCreated, submission)
}

// [GET] GetAllSubmissions
// @Summary List submissions
// @Description Staff see every submission; other users only their own. Supports filtering.
// @Tags Submissions
// @Produce json
// @Param competition query string false "Filter by competition name"
// @Param author query string false "Filter by author email"
// @Param score query number false "Filter by exact score"
// @Param scoredBy query string false "Filter by scorer email"
// @Success 200 {array} models.Submission
// @Failure 500 {object} map[string]string
// @Router /submissions [get]
// @Security Bearer
func GetAllSubmissions(c *gin.Context) {
	// Step 1: Authenticate the user
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	// Step 2: Build the filter
	query := database.DB.Model(&models.Submission{})

	if !user.IsStaff() {
		query = query.Where("author = ?", user.Email)
	}
	if name := c.Query("competition"); name != "" {
		query = query.Where("competition_id IN (?)",
			database.DB.Model(&models.Competition{}).Select("id").
				Where("LOWER(name) LIKE LOWER(?)", "%"+name+"%"))
	}
	if author := c.Query("author"); author != "" {
		query = query.Where("LOWER(author) LIKE LOWER(?)", "%"+author+"%")
	}
	if score := c.Query("score"); score != "" {
		query = query.Where("score = ?", score)
	}
	if scoredBy := c.Query("scoredBy"); scoredBy != "" {
		query = query.Where("LOWER(scored_by) LIKE LOWER(?)", "%"+scoredBy+"%")
	}

	// Step 3: Fetch, newest first
	var submissions []models.Submission
	if err := query.Preload("Competition").Order("created_at DESC").Find(&submissions).Error; err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedFetchSubmissions)
		return
	}

	response.SuccessList(c, http.StatusOK, len(submissions), submissions)
}

// [GET] GetSubmissionDetail
// @Summary Get a submission
// @Description Get a single submission; staff or the author only
// @Tags Submissions
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} models.Submission
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /submissions/{id} [get]
// @Security Bearer
func GetSubmissionDetail(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	var submission models.Submission
	if err := database.DB.Preload("Competition").First(&submission, "id = ?", c.Param("id")).Error; err != nil {
		respondWithError(c, http.StatusNotFound, ErrSubmissionNotFound)
		return
	}

	if !user.IsStaff() && submission.Author != user.Email {
		respondWithError(c, http.StatusForbidden, ErrAccessDenied)
		return
	}

	response.Success(c, http.StatusOK, submission)
}

// [PUT] UpdateSubmission
// @Summary Score a submission
// @Description Set a submission's score; a nonzero score reopens the parent competition's winner set and reconciles immediately
// @Tags Submissions
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param scoreRequest body ScoreRequest true "Score"
// @Success 200 {object} models.Submission
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /submissions/{id} [put]
// @Security Bearer
func UpdateSubmission(c *gin.Context) {
	// Step 1: Authenticate the scorer
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	// Step 2: Parse and validate the score
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}
	score := *req.Score
	if score < 0 || score > 10 {
		respondWithError(c, http.StatusBadRequest, ErrScoreOutOfRange)
		return
	}

	// Step 3: Get the target submission
	var submission models.Submission
	if err := database.DB.First(&submission, "id = ?", c.Param("id")).Error; err != nil {
		respondWithError(c, http.StatusNotFound, ErrSubmissionNotFound)
		return
	}

	// Step 4: Stamp the score
	now := services.Lifecycle.Now()
	updates := map[string]interface{}{
		"score":     score,
		"scored_by": user.Email,
		"scored_at": now,
	}
	if err := database.DB.Model(&submission).Updates(updates).Error; err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedUpdateSubmission)
		return
	}

	// Step 5: A nonzero score can change who wins, so the parent
	// competition is reopened and reconciled immediately. Errors surface to
	// the caller on this path.
	if score != 0 {
		if err := services.Lifecycle.Invalidate(submission.CompetitionID); err != nil {
			respondWithError(c, http.StatusInternalServerError, ErrFailedUpdateSubmission)
			return
		}
		if err := services.Lifecycle.ReconcileAll(services.TriggerManual); err != nil {
			respondWithError(c, http.StatusInternalServerError, ErrFailedUpdateSubmission)
			return
		}
	}

	var updated models.Submission
	if err := database.DB.First(&updated, "id = ?", submission.ID).Error; err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedUpdateSubmission)
		return
	}

	realtime.Broadcast(realtime.Event{
		CompetitionID: submission.CompetitionID,
		Type:          realtime.EventSubmissionScored,
		Submission:    &updated,
	})
	response.Success(c, http.StatusOK, updated)
}

// [DELETE] DeleteSubmission
// @Summary Delete a submission
// @Description Delete a submission; managers may delete any, authors their own. Reopens the parent competition's winner set.
// @Tags Submissions
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /submissions/{id} [delete]
// @Security Bearer
func DeleteSubmission(c *gin.Context) {
	// Step 1: Authenticate the user
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	// Step 2: Get the target submission and check ownership
	var submission models.Submission
	if err := database.DB.First(&submission, "id = ?", c.Param("id")).Error; err != nil {
		respondWithError(c, http.StatusNotFound, ErrSubmissionNotFound)
		return
	}
	if !user.IsManager() && submission.Author != user.Email {
		respondWithError(c, http.StatusForbidden, ErrAccessDenied)
		return
	}

	// Step 3: Delete the row, uncount it and reopen the winner set in one
	// transaction. The winner reset goes through struct fields so the
	// serializer runs.
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&submission).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Competition{}).
			Where("id = ?", submission.CompetitionID).
			UpdateColumn("total_submissions", gorm.Expr("total_submissions - 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.Competition{}).
			Where("id = ?", submission.CompetitionID).
			Select("Winners", "IsProcessed").
			Updates(models.Competition{Winners: []models.Winner{}}).Error
	})
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedDeleteSubmission)
		return
	}

	// Step 4: Remove the stored image, best-effort
	storage.Store.Delete(submission.Image)

	// Step 5: Reconcile immediately so an ended competition recomputes its
	// winners without the deleted entry
	if err := services.Lifecycle.ReconcileAll(services.TriggerManual); err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedDeleteSubmission)
		return
	}

	realtime.Broadcast(realtime.Event{
		CompetitionID: submission.CompetitionID,
		Type:          realtime.EventSubmissionDeleted,
		Submission:    &submission,
	})
	response.Message(c, http.StatusOK, "Submission deleted successfully")
}

// [GET] GetSubmissionsByCompetition
// @Summary List a competition's submissions
// @Description Public listing of all submissions for one competition, with a competition summary
// @Tags Submissions
// @Produce json
// @Param competitionId path string true "Competition ID"
// @Success 200 {array} models.Submission
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /submissions/competition/{competitionId} [get]
func GetSubmissionsByCompetition(c *gin.Context) {
	var competition models.Competition
	if err := database.DB.First(&competition, "id = ?", c.Param("competitionId")).Error; err != nil {
		respondWithError(c, http.StatusNotFound, ErrCompetitionNotFound)
		return
	}

	var submissions []models.Submission
	if err := database.DB.
		Where("competition_id = ?", competition.ID).
		Order("created_at DESC").
		Find(&submissions).Error; err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedFetchSubmissions)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(submissions),
		"competition": CompetitionSummary{
			ID:               competition.ID,
			Name:             competition.Name,
			TotalSubmissions: competition.TotalSubmissions,
		},
		"data": submissions,
	})
}
