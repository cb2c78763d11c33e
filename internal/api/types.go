package api

import (
	"github.com/recipebox/backend/internal/models"
)

// CreateUserRequest is the payload for user registration
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=5"`
	Name     string `json:"name" binding:"required"`
}

// UserResponse never carries the password
type UserResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TokenRequest is the payload for token issuance
type TokenRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest is a partial profile update; absent fields are
// untouched.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password" binding:"omitempty,min=5"`
}

// NamedAttribute is a nested tag or ingredient reference by name
type NamedAttribute struct {
	Name string `json:"name" binding:"required"`
}

// CreateRecipeRequest is the payload for recipe creation and full
// (PUT) updates. Numeric fields are pointers so that zero values pass
// the required check.
type CreateRecipeRequest struct {
	Title       string           `json:"title" binding:"required"`
	TimeMinutes *int             `json:"time_minutes" binding:"required,gte=0"`
	Price       *float64         `json:"price" binding:"required,gte=0"`
	Description string           `json:"description"`
	Link        string           `json:"link"`
	Tags        []NamedAttribute `json:"tags"`
	Ingredients []NamedAttribute `json:"ingredients"`
}

// UpdateRecipeRequest is a partial (PATCH) update. A present-but-empty
// tags or ingredients list clears the associations; an absent key
// leaves them untouched. There is deliberately no owner field.
type UpdateRecipeRequest struct {
	Title       *string           `json:"title"`
	TimeMinutes *int              `json:"time_minutes" binding:"omitempty,gte=0"`
	Price       *float64          `json:"price" binding:"omitempty,gte=0"`
	Description *string           `json:"description"`
	Link        *string           `json:"link"`
	Tags        *[]NamedAttribute `json:"tags"`
	Ingredients *[]NamedAttribute `json:"ingredients"`
}

// AttributeResponse serializes a tag or ingredient
type AttributeResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// RecipeListItem is the listing serialization; it omits the description.
type RecipeListItem struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       float64             `json:"price"`
	Link        string              `json:"link"`
	Image       string              `json:"image"`
	Tags        []AttributeResponse `json:"tags"`
	Ingredients []AttributeResponse `json:"ingredients"`
}

// RecipeDetail is the detail serialization
type RecipeDetail struct {
	RecipeListItem
	Description string `json:"description"`
}

func toAttributeResponses[T models.Tag | models.Ingredient](attrs []T) []AttributeResponse {
	out := make([]AttributeResponse, 0, len(attrs))
	for _, a := range attrs {
		switch v := any(a).(type) {
		case models.Tag:
			out = append(out, AttributeResponse{ID: v.ID, Name: v.Name})
		case models.Ingredient:
			out = append(out, AttributeResponse{ID: v.ID, Name: v.Name})
		}
	}
	return out
}

func toRecipeListItem(r *models.Recipe) RecipeListItem {
	return RecipeListItem{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Image:       r.ImageURL,
		Tags:        toAttributeResponses(r.Tags),
		Ingredients: toAttributeResponses(r.Ingredients),
	}
}

func toRecipeDetail(r *models.Recipe) RecipeDetail {
	return RecipeDetail{
		RecipeListItem: toRecipeListItem(r),
		Description:    r.Description,
	}
}

func attributeNames(attrs []NamedAttribute) []string {
	names := make([]string, 0, len(attrs))
	for _, a := range attrs {
		names = append(names, a.Name)
	}
	return names
}
