package exhibitions

import (
	"api/middleware"
	"api/models"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to exhibitions
// r: the RouterGroup to which the routes are added
func RegisterRoutes(r *gin.RouterGroup) {
	// Public routes
	r.GET("/exhibitions", GetAllExhibitions)
	r.GET("/exhibitions/:id", GetExhibition)

	exhibitions := r.Group("/exhibitions")
	exhibitions.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleAdmin))
	{
		exhibitions.POST("", CreateExhibition)
		exhibitions.PUT("/:id", UpdateExhibition)
		exhibitions.DELETE("/:id", DeleteExhibition)
	}
}
