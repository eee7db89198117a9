package submissions

import (
	"api/middleware"
	"api/models"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to submissions
// r: the RouterGroup to which the routes are added
func RegisterRoutes(r *gin.RouterGroup) {
	// Public routes
	r.GET("/submissions/competition/:competitionId", GetSubmissionsByCompetition)

	submissions := r.Group("/submissions")
	submissions.Use(middleware.AuthMiddleware())
	{
		submissions.POST("", CreateSubmission)
		submissions.GET("", GetAllSubmissions)
		submissions.GET("/:id", GetSubmissionDetail)
		submissions.DELETE("/:id", DeleteSubmission)

		// Scoring requires a staff role
		submissions.PUT("/:id",
			middleware.RequireRoles(models.RoleStaff, models.RoleManager, models.RoleAdmin),
			UpdateSubmission)
	}
}
