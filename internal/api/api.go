package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/recipebox/backend/config"
	"github.com/recipebox/backend/internal/middleware"
	"github.com/recipebox/backend/internal/service"
)

// SetupAPI wires services and handlers onto the engine. The redis
// client is optional; without it image uploads are not rate limited.
func SetupAPI(router *gin.Engine, db *gorm.DB, cfg *config.Config, images service.ImageStore, redisClient *redis.Client) {
	v1 := router.Group("/api/v1")
	{
		authService := service.NewAuthService(db, cfg.JWTSecret)
		tagService := service.NewTagService(db)
		ingredientService := service.NewIngredientService(db)
		recipeService := service.NewRecipeService(db, tagService, ingredientService)

		var uploadLimiter *middleware.RateLimiter
		if redisClient != nil {
			uploadLimiter = middleware.NewImageUploadRateLimiter(redisClient)
		}

		NewUserHandler(authService).RegisterRoutes(v1)
		NewRecipeHandler(recipeService, authService, images, uploadLimiter).RegisterRoutes(v1)
		NewTagHandler(tagService, authService).RegisterRoutes(v1)
		NewIngredientHandler(ingredientService, authService).RegisterRoutes(v1)
	}
}
