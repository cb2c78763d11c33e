package api

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"net/http"
	"strconv"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recipebox/backend/internal/middleware"
	"github.com/recipebox/backend/internal/service"
)

const maxImageBytes = 10 << 20

// RecipeHandler serves the recipe aggregate endpoints
type RecipeHandler struct {
	recipes       *service.RecipeService
	auth          *service.AuthService
	images        service.ImageStore
	uploadLimiter *middleware.RateLimiter
}

func NewRecipeHandler(recipes *service.RecipeService, auth *service.AuthService, images service.ImageStore, uploadLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipes:       recipes,
		auth:          auth,
		images:        images,
		uploadLimiter: uploadLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes", middleware.AuthMiddleware(h.auth))
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", h.CreateRecipe)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PUT("/:id", h.ReplaceRecipe)
		recipes.PATCH("/:id", h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)

		upload := recipes.Group("")
		if h.uploadLimiter != nil {
			upload.Use(h.uploadLimiter.RateLimitMiddleware())
		}
		upload.POST("/:id/upload-image", h.UploadImage)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	filter := service.RecipeFilter{
		TagIDs:        parseIDList(c.Query("tags")),
		IngredientIDs: parseIDList(c.Query("ingredients")),
	}

	recipes, err := h.recipes.List(c.Request.Context(), userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipes"})
		return
	}

	items := make([]RecipeListItem, 0, len(recipes))
	for i := range recipes {
		items = append(items, toRecipeListItem(&recipes[i]))
	}
	c.JSON(http.StatusOK, items)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	userID, id, ok := h.userAndRecipeID(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRecipeDetail(recipe))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), userID, service.RecipeInput{
		Title:           req.Title,
		TimeMinutes:     *req.TimeMinutes,
		Price:           *req.Price,
		Description:     req.Description,
		Link:            req.Link,
		TagNames:        attributeNames(req.Tags),
		IngredientNames: attributeNames(req.Ingredients),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create recipe"})
		return
	}

	c.JSON(http.StatusCreated, toRecipeDetail(recipe))
}

// ReplaceRecipe handles PUT: every writable scalar field must be
// supplied; omitted tag/ingredient lists clear the associations.
func (h *RecipeHandler) ReplaceRecipe(c *gin.Context) {
	userID, id, ok := h.userAndRecipeID(c)
	if !ok {
		return
	}

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	description := req.Description
	link := req.Link

	upd := service.RecipeUpdate{
		Title:       &req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Description: &description,
		Link:        &link,
	}
	if req.Tags != nil {
		names := attributeNames(req.Tags)
		upd.TagNames = &names
	}
	if req.Ingredients != nil {
		names := attributeNames(req.Ingredients)
		upd.IngredientNames = &names
	}

	recipe, err := h.recipes.Update(c.Request.Context(), userID, id, upd)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRecipeDetail(recipe))
}

// UpdateRecipe handles PATCH: absent fields are untouched.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, id, ok := h.userAndRecipeID(c)
	if !ok {
		return
	}

	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upd := service.RecipeUpdate{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Description: req.Description,
		Link:        req.Link,
	}
	if req.Tags != nil {
		names := attributeNames(*req.Tags)
		upd.TagNames = &names
	}
	if req.Ingredients != nil {
		names := attributeNames(*req.Ingredients)
		upd.IngredientNames = &names
	}

	recipe, err := h.recipes.Update(c.Request.Context(), userID, id, upd)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRecipeDetail(recipe))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, id, ok := h.userAndRecipeID(c)
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), userID, id); err != nil {
		h.renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) UploadImage(c *gin.Context) {
	userID, id, ok := h.userAndRecipeID(c)
	if !ok {
		return
	}

	// Ownership check before touching the payload
	recipe, err := h.recipes.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}
	if len(data) > maxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image too large"})
		return
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload is not a valid image"})
		return
	}

	key := fmt.Sprintf("recipe-images/%d/%s.%s", recipe.ID, uuid.New().String(), format)
	url, err := h.images.Upload(c.Request.Context(), key, data, "image/"+format)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		return
	}

	recipe, err = h.recipes.SetImage(c.Request.Context(), userID, id, url)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": recipe.ID, "image": recipe.ImageURL})
}

func (h *RecipeHandler) userAndRecipeID(c *gin.Context) (uint, uint, bool) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return 0, 0, false
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return 0, 0, false
	}

	return userID, uint(id), true
}

func (h *RecipeHandler) renderError(c *gin.Context, err error) {
	if service.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func parseIDList(raw string) []uint {
	if raw == "" {
		return nil
	}
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}
