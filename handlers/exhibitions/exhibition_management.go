package exhibitions

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"api/database"
	"api/models"
	"api/services"
	"api/storage"
	"api/utils"
	"api/utils/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// [GET] GetAllExhibitions
// @Summary List exhibitions
// @Description Get all exhibitions, optionally filtered by name, location, status, visibility or date range
// @Tags Exhibitions
// @Produce json
// @Param name query string false "Filter by name"
// @Param location query string false "Filter by location"
// @Param status query string false "Filter by status (upcoming, in_progress, ended)"
// @Param isHide query boolean false "Filter by visibility"
// @Param start query string false "Earliest start date (YYYY-MM-DD)"
// @Param end query string false "Latest end date (YYYY-MM-DD)"
// @Success 200 {array} models.Exhibition
// @Failure 500 {object} map[string]string
// @Router /exhibitions [get]
func GetAllExhibitions(c *gin.Context) {
	query := database.DB.Model(&models.Exhibition{})

	if name := c.Query("name"); name != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+name+"%")
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("LOWER(location) LIKE LOWER(?)", "%"+location+"%")
	}
	if status := c.Query("status"); status != "" {
		now := services.Lifecycle.Now()
		switch status {
		case models.StatusEnded:
			query = query.Where("end_date < ?", now)
		case models.StatusInProgress:
			query = query.Where("start_date <= ? AND end_date > ?", now, now)
		case models.StatusUpcoming:
			query = query.Where("start_date > ?", now)
		}
	}
	if isHide := c.Query("isHide"); isHide != "" {
		hide, err := strconv.ParseBool(isHide)
		if err == nil {
			query = query.Where("is_hide = ?", hide)
		}
	}
	if start := c.Query("start"); start != "" {
		if parsed, err := utils.ParseDate(start); err == nil {
			query = query.Where("start_date >= ?", parsed)
		}
	}
	if end := c.Query("end"); end != "" {
		if parsed, err := utils.ParseDate(end); err == nil {
			query = query.Where("end_date <= ?", parsed)
		}
	}

	var exhibitions []models.Exhibition
	if err := query.Order("created_at DESC").Find(&exhibitions).Error; err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedFetchExhibitions)
		return
	}

	response.SuccessList(c, http.StatusOK, len(exhibitions), exhibitions)
}

// [GET] GetExhibition
// @Summary Get an exhibition
// @Description Get detailed information of a specific exhibition
// @Tags Exhibitions
// @Produce json
// @Param id path string true "Exhibition ID"
// @Success 200 {object} models.Exhibition
// @Failure 404 {object} map[string]string
// @Router /exhibitions/{id} [get]
func GetExhibition(c *gin.Context) {
	var exhibition models.Exhibition
	if err := database.DB.First(&exhibition, "id = ?", c.Param("id")).Error; err != nil {
		respondWithError(c, http.StatusNotFound, ErrExhibitionNotFound)
		return
	}
	response.Success(c, http.StatusOK, exhibition)
}

// [POST] CreateExhibition
// @Summary Create an exhibition
// @Description Create a new exhibition with a background image
// @Tags Exhibitions
// @Accept multipart/form-data
// @Produce json
// @Param background formData file true "Background image"
// @Param name formData string true "Exhibition name"
// @Param description formData string true "Description"
// @Param location formData string true "Location"
// @Param start formData string true "Start date (YYYY-MM-DD)"
// @Param end formData string true "End date (YYYY-MM-DD)"
// @Success 201 {object} models.Exhibition
// @Failure 400 {object} map[string]string
// @Router /exhibitions [post]
// @Security Bearer
func CreateExhibition(c *gin.Context) {
	// Step 1: Validate required fields
	name := c.PostForm("name")
	description := c.PostForm("description")
	location := c.PostForm("location")
	if name == "" || description == "" || location == "" {
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
	background, err := storage.Store.Save(file, storage.AreaExhibitions)
	if err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	// Step 4: Create the record; the stored file must not survive a failure
	exhibition := models.Exhibition{
		Name:        name,
		Description: description,
		Location:    location,
		Background:  background,
		Start:       start,
		End:         end,
		Artwork:     []models.Artwork{},
	}
	if err := database.DB.Create(&exhibition).Error; err != nil {
		storage.Store.Delete(background)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondWithError(c, http.StatusBadRequest, ErrNameInUse)
			return
		}
		respondWithError(c, http.StatusInternalServerError, ErrFailedCreateExhibition)
		return
	}

	response.Success(c, http.StatusCreated, exhibition)
}

// [PUT] UpdateExhibition
// @Summary Update an exhibition
// @Description Update exhibition details and curate its artwork list from submission ids
// @Tags Exhibitions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Exhibition ID"
// @Success 200 {object} models.Exhibition
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /exhibitions/{id} [put]
// @Security Bearer
func UpdateExhibition(c *gin.Context) {
	// Step 1: Get the target exhibition
	var exhibition models.Exhibition
	if err := database.DB.First(&exhibition, "id = ?", c.Param("id")).Error; err != nil {
		respondWithError(c, http.StatusNotFound, ErrExhibitionNotFound)
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
	if location := c.PostForm("location"); location != "" {
		updates["location"] = location
	}
	if isHide := c.PostForm("isHide"); isHide != "" {
		hide, err := strconv.ParseBool(isHide)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
			return
		}
		updates["is_hide"] = hide
	}

	// Step 3: Validate new dates. A new bound must not invert against the
	// other currently stored bound.
	if v := c.PostForm("start"); v != "" {
		parsed, err := utils.ParseDate(v)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		updates["start_date"] = parsed
	}
	if v := c.PostForm("end"); v != "" {
		parsed, err := utils.ParseDate(v)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		updates["end_date"] = parsed
	}
	start, end := exhibition.Start, exhibition.End
	if v, ok := updates["start_date"]; ok {
		start = v.(time.Time)
	}
	if v, ok := updates["end_date"]; ok {
		end = v.(time.Time)
	}
	if err := utils.ValidateDateRange(start, end); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrEndBeforeStart)
		return
	}

	// Step 4: Curate the artwork list. The provided submission ids replace
	// the list wholesale; each is snapshotted at selection time. The
	// snapshot is written through struct fields later so the artwork
	// serializer runs.
	var artwork []models.Artwork
	if ids := c.PostFormArray("artwork"); len(ids) > 0 {
		var selected []models.Submission
		if err := database.DB.Where("id IN ?", ids).Find(&selected).Error; err != nil {
			respondWithError(c, http.StatusInternalServerError, ErrFailedUpdateExhibition)
			return
		}
		if len(selected) != len(ids) {
			respondWithError(c, http.StatusNotFound, ErrSubmissionsNotFound)
			return
		}

		artwork = make([]models.Artwork, 0, len(selected))
		for _, submission := range selected {
			artwork = append(artwork, models.Artwork{
				Image:        submission.Image,
				Author:       submission.Author,
				SubmissionID: submission.ID,
			})
		}
	}

	// Step 5: Store a replacement background, if any
	var newBackground string
	if file, err := c.FormFile("background"); err == nil {
		stored, err := storage.Store.Save(file, storage.AreaExhibitions)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		newBackground = stored
		updates["background"] = stored
	}

	// Step 6: Apply the update in one transaction; a staged file must not
	// survive a failure
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&exhibition).Updates(updates).Error; err != nil {
				return err
			}
		}
		if artwork == nil {
			return nil
		}
		return tx.Model(&exhibition).
			Select("Artwork", "TotalSubmissions").
			Updates(models.Exhibition{Artwork: artwork, TotalSubmissions: len(artwork)}).Error
	})
	if err != nil {
		if newBackground != "" {
			storage.Store.Delete(newBackground)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondWithError(c, http.StatusBadRequest, ErrNameInUse)
			return
		}
		respondWithError(c, http.StatusInternalServerError, ErrFailedUpdateExhibition)
		return
	}

	if newBackground != "" && exhibition.Background != newBackground {
		storage.Store.Delete(exhibition.Background)
	}

	var updated models.Exhibition
	if err := database.DB.First(&updated, "id = ?", exhibition.ID).Error; err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedUpdateExhibition)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

// [DELETE] DeleteExhibition
// @Summary Delete an exhibition
// @Description Delete an exhibition and its background image
// @Tags Exhibitions
// @Produce json
// @Param id path string true "Exhibition ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /exhibitions/{id} [delete]
// @Security Bearer
func DeleteExhibition(c *gin.Context) {
	var exhibition models.Exhibition
	if err := database.DB.First(&exhibition, "id = ?", c.Param("id")).Error; err != nil {
		respondWithError(c, http.StatusNotFound, ErrExhibitionNotFound)
		return
	}

	if err := database.DB.Delete(&exhibition).Error; err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedDeleteExhibition)
		return
	}

	storage.Store.Delete(exhibition.Background)
	response.Message(c, http.StatusOK, "Exhibition deleted successfully")
}
