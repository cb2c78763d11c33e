package api

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/recipebox/backend/internal/models"
	"github.com/recipebox/backend/internal/service"
)

// seedRecipe creates a recipe directly through the service layer so
// handler tests can arrange state without going through the API.
func (a *testAPI) seedRecipe(t *testing.T, userID uint, in service.RecipeInput) *models.Recipe {
	t.Helper()
	svc := service.NewRecipeService(a.DB, service.NewTagService(a.DB), service.NewIngredientService(a.DB))
	recipe, err := svc.Create(context.Background(), userID, in)
	require.NoError(t, err)
	return recipe
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	return buf.Bytes()
}

func TestListRecipesRequiresAuth(t *testing.T) {
	a := setupTestAPI(t)

	w := a.doJSON(t, http.MethodGet, "/api/v1/recipes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListRecipesScopedToUser(t *testing.T) {
	a := setupTestAPI(t)
	user, token := a.createUser(t, "test@example.com", "testpass123")
	other, _ := a.createUser(t, "other@example.com", "testpass123")

	a.seedRecipe(t, user.ID, service.RecipeInput{Title: "Mine", TimeMinutes: 10, Price: 5.00})
	a.seedRecipe(t, other.ID, service.RecipeInput{Title: "Theirs", TimeMinutes: 10, Price: 5.00})

	w := a.doJSON(t, http.MethodGet, "/api/v1/recipes", token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	list := decodeJSONList(t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Mine", list[0]["title"])
}

func TestListRecipesNewestFirstWithoutDescription(t *testing.T) {
	a := setupTestAPI(t)
	user, token := a.createUser(t, "test@example.com", "testpass123")

	a.seedRecipe(t, user.ID, service.RecipeInput{Title: "First", TimeMinutes: 5, Price: 1.00, Description: "long text"})
	a.seedRecipe(t, user.ID, service.RecipeInput{Title: "Second", TimeMinutes: 5, Price: 1.00, Description: "long text"})

	w := a.doJSON(t, http.MethodGet, "/api/v1/recipes", token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	list := decodeJSONList(t, w)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0]["title"])
	assert.Equal(t, "First", list[1]["title"])
	_, hasDescription := list[0]["description"]
	assert.False(t, hasDescription)
}

func TestGetRecipeDetail(t *testing.T) {
	a := setupTestAPI(t)
	user, token := a.createUser(t, "test@example.com", "testpass123")
	recipe := a.seedRecipe(t, user.ID, service.RecipeInput{
		Title:       "Chocolate cake",
		TimeMinutes: 30,
		Price:       5.50,
		Description: "Rich and moist",
		TagNames:    []string{"Dessert"},
	})

	w := a.doJSON(t, http.MethodGet, fmt.Sprintf("/api/v1/recipes/%d", recipe.ID), token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, "Chocolate cake", body["title"])
	assert.Equal(t, "Rich and moist", body["description"])
	tags, ok := body["tags"].([]interface{})
	require.True(t, ok)
	require.Len(t, tags, 1)
}

func TestCreateRecipe(t *testing.T) {
	a := setupTestAPI(t)
	user, token := a.createUser(t, "test@example.com", "testpass123")

	w := a.doJSON(t, http.MethodPost, "/api/v1/recipes", token, map[string]interface{}{
		"title":        "Avocado toast",
		"time_minutes": 22,
		"price":        5.25,
		"tags":         []map[string]string{{"name": "Breakfast"}, {"name": "Vegan"}},
		"ingredients":  []map[string]string{{"name": "Avocado"}},
	})

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, "Avocado toast", body["title"])
	assert.Equal(t, float64(22), body["time_minutes"])
	assert.Equal(t, 5.25, body["price"])
	assert.Len(t, body["tags"], 2)
	assert.Len(t, body["ingredients"], 1)

	var stored models.Recipe
	require.NoError(t, a.DB.Preload("Tags").First(&stored).Error)
	assert.Equal(t, user.ID, stored.UserID)
	assert.Len(t, stored.Tags, 2)
}

func TestCreateRecipeReusesExistingTag(t *testing.T) {
	a := setupTestAPI(t)
	user, token := a.createUser(t, "test@example.com", "testpass123")
	a.seedRecipe(t, user.ID, service.RecipeInput{Title: "Cookies", TimeMinutes: 15, Price: 2.00, TagNames: []string{"Snacks"}})

	w := a.doJSON(t, http.MethodPost, "/api/v1/recipes", token, map[string]interface{}{
		"title":        "Crackers",
		"time_minutes": 10,
		"price":        1.50,
		"tags":         []map[string]string{{"name": "Snacks"}},
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var count int64
	require.NoError(t, a.DB.Model(&models.Tag{}).Where("name = ?", "Snacks").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateRecipeMissingRequiredField(t *testing.T) {
	a := setupTestAPI(t)
	_, token := a.createUser(t, "test@example.com", "testpass123")

	w := a.doJSON(t, http.MethodPost, "/api/v1/recipes", token, map[string]interface{}{
		"title": "No price or time",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatchRecipePartialUpdate(t *testing.T) {
	a := setupTestAPI(t)
	user, token := a.createUser(t, "test@example.com", "testpass123")
	recipe := a.seedRecipe(t, user.ID, service.RecipeInput{
		Title:       "Original",
		TimeMinutes: 30,
		Price:       5.00,
		Link:        "https://example.com/original",
	})

	w := a.doJSON(t, http.MethodPatch, fmt.Sprintf("/api/v1/recipes/%d", recipe.ID), token, map[string]interface{}{
		"title": "Patched",
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, "Patched", body["title"])
	assert.Equal(t, float64(30), body["time_minutes"])
	assert.Equal(t, "https://example.com/original", body["link"])
}

func TestPutRecipeFullUpdate(t *testing.T) {
	a := setupTestAPI(t)
	user, token := a.createUser(t, "test@example.com", "testpass123")
	recipe := a.seedRecipe(t, user.ID, service.RecipeInput{
		Title:       "Original",
		TimeMinutes: 30,
		Price:       5.00,
		TagNames:    []string{"Old"},
	})

	w := a.doJSON(t, http.MethodPut, fmt.Sprintf("/api/v1/recipes/%d", recipe.ID), token, map[string]interface{}{
		"title":        "Replaced",
		"time_minutes": 12,
		"price":        3.75,
		"tags":         []map[string]string{{"name": "New"}},
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, "Replaced", body["title"])

	var stored models.Recipe
	require.NoError(t, a.DB.Preload("Tags").First(&stored, recipe.ID).Error)
	require.Len(t, stored.Tags, 1)
	assert.Equal(t, "New", stored.Tags[0].Name)
}

func TestPatchRecipeIgnoresOwnerField(t *testing.T) {
	a := setupTestAPI(t)
	user, token := a.createUser(t, "test@example.com", "testpass123")
	other, _ := a.createUser(t, "other@example.com", "testpass123")
	recipe := a.seedRecipe(t, user.ID, service.RecipeInput{Title: "Mine", TimeMinutes: 10, Price: 2.00})

	w := a.doJSON(t, http.MethodPatch, fmt.Sprintf("/api/v1/recipes/%d", recipe.ID), token, map[string]interface{}{
		"title": "Still mine",
		"user":  other.ID,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Recipe
	require.NoError(t, a.DB.First(&stored, recipe.ID).Error)
	assert.Equal(t, user.ID, stored.UserID)
}

func TestOtherUsersRecipeIsNotFound(t *testing.T) {
	a := setupTestAPI(t)
	_, token := a.createUser(t, "test@example.com", "testpass123")
	other, _ := a.createUser(t, "other@example.com", "testpass123")
	recipe := a.seedRecipe(t, other.ID, service.RecipeInput{Title: "Theirs", TimeMinutes: 10, Price: 2.00})

	path := fmt.Sprintf("/api/v1/recipes/%d", recipe.ID)

	w := a.doJSON(t, http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.doJSON(t, http.MethodPatch, path, token, map[string]interface{}{"title": "Hijacked"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.doJSON(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	require.NoError(t, a.DB.Model(&models.Recipe{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteRecipe(t *testing.T) {
	a := setupTestAPI(t)
	user, token := a.createUser(t, "test@example.com", "testpass123")
	recipe := a.seedRecipe(t, user.ID, service.RecipeInput{Title: "Doomed", TimeMinutes: 10, Price: 2.00})

	w := a.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/v1/recipes/%d", recipe.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	require.NoError(t, a.DB.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListRecipesFilterByTags(t *testing.T) {
	a := setupTestAPI(t)
	user, token := a.createUser(t, "test@example.com", "testpass123")

	curry := a.seedRecipe(t, user.ID, service.RecipeInput{Title: "Thai curry", TimeMinutes: 30, Price: 7.00, TagNames: []string{"Vegan"}})
	a.seedRecipe(t, user.ID, service.RecipeInput{Title: "Steak", TimeMinutes: 20, Price: 12.00, TagNames: []string{"Dinner"}})

	var tag models.Tag
	require.NoError(t, a.DB.Where("name = ?", "Vegan").First(&tag).Error)

	w := a.doJSON(t, http.MethodGet, fmt.Sprintf("/api/v1/recipes?tags=%d", tag.ID), token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	list := decodeJSONList(t, w)
	require.Len(t, list, 1)
	assert.Equal(t, curry.Title, list[0]["title"])
}

func TestListRecipesFilterByIngredients(t *testing.T) {
	a := setupTestAPI(t)
	user, token := a.createUser(t, "test@example.com", "testpass123")

	soup := a.seedRecipe(t, user.ID, service.RecipeInput{Title: "Lentil soup", TimeMinutes: 40, Price: 4.00, IngredientNames: []string{"Lentils"}})
	a.seedRecipe(t, user.ID, service.RecipeInput{Title: "Toast", TimeMinutes: 5, Price: 1.00, IngredientNames: []string{"Bread"}})

	var ingredient models.Ingredient
	require.NoError(t, a.DB.Where("name = ?", "Lentils").First(&ingredient).Error)

	w := a.doJSON(t, http.MethodGet, fmt.Sprintf("/api/v1/recipes?ingredients=%d", ingredient.ID), token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	list := decodeJSONList(t, w)
	require.Len(t, list, 1)
	assert.Equal(t, soup.Title, list[0]["title"])
}

func TestUploadImage(t *testing.T) {
	a := setupTestAPI(t)
	user, token := a.createUser(t, "test@example.com", "testpass123")
	recipe := a.seedRecipe(t, user.ID, service.RecipeInput{Title: "Photogenic", TimeMinutes: 10, Price: 2.00})

	url := "https://bucket.s3.amazonaws.com/recipe-images/1/some.png"
	a.Images.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(url, nil)

	w := a.doUpload(t, fmt.Sprintf("/api/v1/recipes/%d/upload-image", recipe.ID), token, pngBytes(t))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, url, body["image"])

	var stored models.Recipe
	require.NoError(t, a.DB.First(&stored, recipe.ID).Error)
	assert.Equal(t, url, stored.ImageURL)
	a.Images.AssertExpectations(t)
}

func TestUploadImageRejectsNonImagePayload(t *testing.T) {
	a := setupTestAPI(t)
	user, token := a.createUser(t, "test@example.com", "testpass123")
	recipe := a.seedRecipe(t, user.ID, service.RecipeInput{Title: "Photogenic", TimeMinutes: 10, Price: 2.00})

	w := a.doUpload(t, fmt.Sprintf("/api/v1/recipes/%d/upload-image", recipe.ID), token, []byte("not an image"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	a.Images.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	var stored models.Recipe
	require.NoError(t, a.DB.First(&stored, recipe.ID).Error)
	assert.Empty(t, stored.ImageURL)
}

func TestUploadImageOtherUsersRecipe(t *testing.T) {
	a := setupTestAPI(t)
	_, token := a.createUser(t, "test@example.com", "testpass123")
	other, _ := a.createUser(t, "other@example.com", "testpass123")
	recipe := a.seedRecipe(t, other.ID, service.RecipeInput{Title: "Theirs", TimeMinutes: 10, Price: 2.00})

	w := a.doUpload(t, fmt.Sprintf("/api/v1/recipes/%d/upload-image", recipe.ID), token, pngBytes(t))

	assert.Equal(t, http.StatusNotFound, w.Code)
	a.Images.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
