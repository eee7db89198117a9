package competitions

import (
	"api/middleware"
	"api/models"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to competitions
// r: the RouterGroup to which the routes are added
func RegisterRoutes(r *gin.RouterGroup) {
	// Public routes
	r.GET("/competitions", GetAllCompetitions)
	r.GET("/competitions/:id", GetCompetition)
	r.GET("/competitions/:id/live", LiveUpdates)

	competitions := r.Group("/competitions")
	competitions.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleManager, models.RoleAdmin))
	{
		// Competition management routes
		competitions.POST("", CreateCompetition)
		competitions.PUT("/:id", UpdateCompetition)
		competitions.DELETE("/:id", DeleteCompetition)

		// Winner processing routes
		competitions.POST("/process-winners", ProcessWinners)
		competitions.GET("/:id/export", ExportCompetitionData)
	}
}
