package competitions

import (
	"errors"
	"net/http"
	"strconv"

	"api/cache"
	"api/database"
	"api/models"
	"api/services"
	"api/storage"
	"api/utils"
	"api/utils/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// [GET] GetAllCompetitions
// @Summary List competitions
// @Description Get all competitions with basic information
// @Tags Competitions
// @Produce json
// @Success 200 {array} CompetitionSummary
// @Failure 500 {object} map[string]string
// @Router /competitions [get]
func GetAllCompetitions(c *gin.Context) {
	ctx := c.Request.Context()

	// Step 1: Serve from the cache when available
	var cached []CompetitionSummary
	if cache.Get(ctx, cache.KeyCompetitionList, &cached) {
		response.SuccessList(c, http.StatusOK, len(cached), cached)
		return
	}

	// Step 2: Fetch from the store, newest first
	var competitions []models.Competition
	if err := database.DB.Order("created_at DESC").Find(&competitions).Error; err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedFetchCompetitions)
		return
	}

	now := services.Lifecycle.Now()
	summaries := make([]CompetitionSummary, 0, len(competitions))
	for _, competition := range competitions {
		summaries = append(summaries, summarize(competition, now))
	}

	cache.Set(ctx, cache.KeyCompetitionList, summaries)
	response.SuccessList(c, http.StatusOK, len(summaries), summaries)
}

// [GET] GetCompetition
// @Summary Get a competition
// @Description Get detailed information of a specific competition, including winners
// @Tags Competitions
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {object} CompetitionDetail
// @Failure 404 {object} map[string]string
// @Router /competitions/{id} [get]
func GetCompetition(c *gin.Context) {
	var competition models.Competition
	if err := database.DB.First(&competition, "id = ?", c.Param("id")).Error; err != nil {
		respondWithError(c, http.StatusNotFound, ErrCompetitionNotFound)
		return
	}

	winners := competition.Winners
	if winners == nil {
		winners = []models.Winner{}
	}
	detail := CompetitionDetail{
		CompetitionSummary: summarize(competition, services.Lifecycle.Now()),
		Winners:            winners,
		IsProcessed:        competition.IsProcessed,
	}
	response.Success(c, http.StatusOK, detail)
}

// [POST] CreateCompetition
// @Summary Create a competition
// @Description Create a new competition with a background image
// @Tags Competitions
// @Accept multipart/form-data
// @Produce json
// @Param background formData file true "Background image"
// @Param name formData string true "Competition name"
// @Param description formData string true "Description"
// @Param start formData string true "Start date (YYYY-MM-DD)"
// @Param end formData string true "End date (YYYY-MM-DD)"
// @Param awards formData string true "Awards information"
// @Success 201 {object} models.Competition
// @Failure 400 {object} map[string]string
// @Router /competitions [post]
// @Security Bearer
func CreateCompetition(c *gin.Context) {
	// Step 1: Validate required fields
	name := c.PostForm("name")
	description := c.PostForm("description")
	awards := c.PostForm("awards")
	if name == "" || description == "" || awards == "" {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	file, err := c.FormFile("background")
	if err != nil {
		respondWithError(c, http.StatusBadRequest, ErrBackgroundRequired)
		return
	}

	// Step 2: Validate the date window
	start, err := utils.ParseDate(c.PostForm("start"))
	if err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	end, err := utils.ParseDate(c.PostForm("end"))
	if err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.ValidateDateRange(start, end); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrEndBeforeStart)
		return
	}

	// Step 3: Store the background image
	background, err := storage.Store.Save(file, storage.AreaCompetitions)
	if err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	// Step 4: Create the record; the stored file must not survive a failure
	competition := models.Competition{
		Name:        name,
		Description: description,
		Start:       start,
		End:         end,
		Background:  background,
		Awards:      awards,
		Winners:     []models.Winner{},
	}
	if err := database.DB.Create(&competition).Error; err != nil {
		storage.Store.Delete(background)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondWithError(c, http.StatusBadRequest, ErrNameInUse)
			return
		}
		respondWithError(c, http.StatusInternalServerError, ErrFailedCreateCompetition)
		return
	}

	cache.Invalidate(c.Request.Context(), cache.KeyCompetitionList)
	response.Success(c, http.StatusCreated, competition)
}

// [PUT] UpdateCompetition
// @Summary Update a competition
// @Description Update competition details; moving the end date into the future resets the winner set
// @Tags Competitions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {object} models.Competition
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /competitions/{id} [put]
// @Security Bearer
func UpdateCompetition(c *gin.Context) {
	// Step 1: Get the target competition
	var competition models.Competition
	if err := database.DB.First(&competition, "id = ?", c.Param("id")).Error; err != nil {
		respondWithError(c, http.StatusNotFound, ErrCompetitionNotFound)
		return
	}

	// Step 2: Collect the optional field updates
	updates := map[string]interface{}{}
	if name := c.PostForm("name"); name != "" {
		updates["name"] = name
	}
	if description := c.PostForm("description"); description != "" {
		updates["description"] = description
	}
	if awards := c.PostForm("awards"); awards != "" {
		updates["awards"] = awards
	}
	if isHide := c.PostForm("isHide"); isHide != "" {
		hide, err := strconv.ParseBool(isHide)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
			return
		}
		updates["is_hide"] = hide
	}

	// Step 3: Validate any new dates against each other and the stored bounds
	start, end := competition.Start, competition.End
	if v := c.PostForm("start"); v != "" {
		parsed, err := utils.ParseDate(v)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		start = parsed
		updates["start_date"] = parsed
	}
	if v := c.PostForm("end"); v != "" {
		parsed, err := utils.ParseDate(v)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		end = parsed
		updates["end_date"] = parsed
	}
	if err := utils.ValidateDateRange(start, end); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrEndBeforeStart)
		return
	}

	// Extending the end date into the future reopens the competition, so
	// the winner snapshot is discarded once the update commits.
	resetWinners := false
	if _, ok := updates["end_date"]; ok && services.Lifecycle.Now().Before(end) {
		resetWinners = true
	}

	// Step 4: Store a replacement background, if any
	var newBackground string
	if file, err := c.FormFile("background"); err == nil {
		stored, err := storage.Store.Save(file, storage.AreaCompetitions)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		newBackground = stored
		updates["background"] = stored
	}

	// Step 5: Apply the update; a staged file must not survive a failure
	if len(updates) > 0 {
		if err := database.DB.Model(&competition).Updates(updates).Error; err != nil {
			if newBackground != "" {
				storage.Store.Delete(newBackground)
			}
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				respondWithError(c, http.StatusBadRequest, ErrNameInUse)
				return
			}
			respondWithError(c, http.StatusInternalServerError, ErrFailedUpdateCompetition)
			return
		}
	}

	// The old background is deleted only after the update committed.
	// Cleanup failures are logged inside the store and never surfaced.
	if newBackground != "" && competition.Background != newBackground {
		storage.Store.Delete(competition.Background)
	}

	if resetWinners {
		if err := services.Lifecycle.Invalidate(competition.ID); err != nil {
			respondWithError(c, http.StatusInternalServerError, ErrFailedUpdateCompetition)
			return
		}
	}

	var updated models.Competition
	if err := database.DB.First(&updated, "id = ?", competition.ID).Error; err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedUpdateCompetition)
		return
	}

	cache.Invalidate(c.Request.Context(), cache.KeyCompetitionList)
	response.Success(c, http.StatusOK, updated)
}

// [DELETE] DeleteCompetition
// @Summary Delete a competition
// @Description Delete a competition, all of its submissions and their stored images
// @Tags Competitions
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /competitions/{id} [delete]
// @Security Bearer
func DeleteCompetition(c *gin.Context) {
	// Step 1: Get the target competition and its submissions
	var competition models.Competition
	if err := database.DB.First(&competition, "id = ?", c.Param("id")).Error; err != nil {
		respondWithError(c, http.StatusNotFound, ErrCompetitionNotFound)
		return
	}

	var submissions []models.Submission
	if err := database.DB.Where("competition_id = ?", competition.ID).Find(&submissions).Error; err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedDeleteCompetition)
		return
	}

	// Step 2: Delete the rows in one transaction
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("competition_id = ?", competition.ID).Delete(&models.Submission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&competition).Error
	})
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedDeleteCompetition)
		return
	}

	// Step 3: Remove the stored files, best-effort
	for _, submission := range submissions {
		storage.Store.Delete(submission.Image)
	}
	storage.Store.Delete(competition.Background)

	cache.Invalidate(c.Request.Context(), cache.KeyCompetitionList)
	response.Message(c, http.StatusOK, "Competition and all associated submissions deleted successfully")
}
