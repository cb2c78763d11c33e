package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/recipebox/backend/internal/middleware"
	"github.com/recipebox/backend/internal/models"
	"github.com/recipebox/backend/internal/service"
)

// AttributeHandler serves the tag and ingredient endpoints from one
// implementation; there is no create endpoint, attributes come into
// existence through recipe payloads.
type AttributeHandler[T service.AttributeModel] struct {
	svc  *service.AttributeService[T]
	auth *service.AuthService
	path string
}

func NewTagHandler(svc *service.AttributeService[models.Tag], auth *service.AuthService) *AttributeHandler[models.Tag] {
	return &AttributeHandler[models.Tag]{svc: svc, auth: auth, path: "tags"}
}

func NewIngredientHandler(svc *service.AttributeService[models.Ingredient], auth *service.AuthService) *AttributeHandler[models.Ingredient] {
	return &AttributeHandler[models.Ingredient]{svc: svc, auth: auth, path: "ingredients"}
}

func (h *AttributeHandler[T]) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/"+h.path, middleware.AuthMiddleware(h.auth))
	{
		group.GET("", h.List)
		group.PATCH("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
	}
}

func (h *AttributeHandler[T]) List(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	assignedOnly := c.Query("assigned_only") == "1"
	attrs, err := h.svc.List(c.Request.Context(), userID, assignedOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch " + h.path})
		return
	}

	c.JSON(http.StatusOK, toAttributeResponses(attrs))
}

func (h *AttributeHandler[T]) Update(c *gin.Context) {
	userID, id, ok := h.userAndID(c)
	if !ok {
		return
	}

	var req NamedAttribute
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attr, err := h.svc.Rename(c.Request.Context(), userID, id, req.Name)
	if err != nil {
		if service.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update"})
		return
	}

	c.JSON(http.StatusOK, toAttributeResponses([]T{attr})[0])
}

func (h *AttributeHandler[T]) Delete(c *gin.Context) {
	userID, id, ok := h.userAndID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		if service.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AttributeHandler[T]) userAndID(c *gin.Context) (uint, uint, bool) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return 0, 0, false
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, 0, false
	}

	return userID, uint(id), true
}
