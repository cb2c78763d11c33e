package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/models"
)

// RecipeService handles the recipe aggregate: scalar fields plus the
// synchronized tag and ingredient relations.
type RecipeService struct {
	db          *gorm.DB
	tags        *AttributeService[models.Tag]
	ingredients *AttributeService[models.Ingredient]
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, tags *AttributeService[models.Tag], ingredients *AttributeService[models.Ingredient]) *RecipeService {
	return &RecipeService{
		db:          db,
		tags:        tags,
		ingredients: ingredients,
	}
}

// RecipeInput carries the writable fields for a recipe create or full
// update. Tag and ingredient names are reconciled against the user's
// registries.
type RecipeInput struct {
	Title           string
	TimeMinutes     int
	Price           float64
	Description     string
	Link            string
	TagNames        []string
	IngredientNames []string
}

// RecipeUpdate carries a partial update; nil fields are untouched. A
// non-nil empty name slice clears the corresponding associations.
type RecipeUpdate struct {
	Title           *string
	TimeMinutes     *int
	Price           *float64
	Description     *string
	Link            *string
	TagNames        *[]string
	IngredientNames *[]string
}

// RecipeFilter narrows a listing to recipes carrying at least one of
// the given tag or ingredient ids.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// Create persists a recipe and reconciles its nested tag/ingredient
// names in one transaction.
func (s *RecipeService) Create(ctx context.Context, userID uint, in RecipeInput) (*models.Recipe, error) {
	recipe := models.Recipe{
		UserID:      userID,
		Title:       in.Title,
		TimeMinutes: in.TimeMinutes,
		Price:       in.Price,
		Description: in.Description,
		Link:        in.Link,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := s.syncTags(tx, &recipe, in.TagNames); err != nil {
			return err
		}
		return s.syncIngredients(tx, &recipe, in.IngredientNames)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, recipe.ID)
}

// Get retrieves one of the user's recipes with relations populated.
// Another user's recipe behaves as not found.
func (s *RecipeService) Get(ctx context.Context, userID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients").
		Where("user_id = ?", userID).
		First(&recipe, id).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Update applies scalar changes and, where provided, re-synchronizes
// the tag/ingredient association sets. The owner is immutable.
func (s *RecipeService) Update(ctx context.Context, userID, id uint, upd RecipeUpdate) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changes := map[string]interface{}{}
		if upd.Title != nil {
			changes["title"] = *upd.Title
		}
		if upd.TimeMinutes != nil {
			changes["time_minutes"] = *upd.TimeMinutes
		}
		if upd.Price != nil {
			changes["price"] = *upd.Price
		}
		if upd.Description != nil {
			changes["description"] = *upd.Description
		}
		if upd.Link != nil {
			changes["link"] = *upd.Link
		}
		if len(changes) > 0 {
			if err := tx.Model(recipe).Updates(changes).Error; err != nil {
				return err
			}
		}

		if upd.TagNames != nil {
			if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
				return err
			}
			if err := s.syncTags(tx, recipe, *upd.TagNames); err != nil {
				return err
			}
		}
		if upd.IngredientNames != nil {
			if err := tx.Model(recipe).Association("Ingredients").Clear(); err != nil {
				return err
			}
			if err := s.syncIngredients(tx, recipe, *upd.IngredientNames); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, id)
}

// Delete removes one of the user's recipes and its association rows.
// Tag and ingredient entities survive.
func (s *RecipeService) Delete(ctx context.Context, userID, id uint) error {
	recipe, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Ingredients").Clear(); err != nil {
			return err
		}
		return tx.Delete(recipe).Error
	})
}

// List returns the user's recipes, newest first. Filters keep recipes
// holding at least one of the given ids; a recipe matching several
// filter ids appears once.
func (s *RecipeService) List(ctx context.Context, userID uint, f RecipeFilter) ([]models.Recipe, error) {
	q := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("recipes.user_id = ?", userID)

	if len(f.TagIDs) > 0 {
		q = q.Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Where("recipe_tags.tag_id IN ?", f.TagIDs)
	}
	if len(f.IngredientIDs) > 0 {
		q = q.Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
			Where("recipe_ingredients.ingredient_id IN ?", f.IngredientIDs)
	}

	var recipes []models.Recipe
	err := q.Distinct("recipes.*").
		Order("recipes.id DESC").
		Preload("Tags").
		Preload("Ingredients").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// SetImage records the uploaded image location on the recipe.
func (s *RecipeService) SetImage(ctx context.Context, userID, id uint, imageURL string) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(recipe).Update("image_url", imageURL).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

func (s *RecipeService) syncTags(tx *gorm.DB, recipe *models.Recipe, names []string) error {
	for _, name := range dedupe(names) {
		tag, err := s.tags.GetOrCreate(tx, recipe.UserID, name)
		if err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Append(&tag); err != nil {
			return err
		}
	}
	return nil
}

func (s *RecipeService) syncIngredients(tx *gorm.DB, recipe *models.Recipe, names []string) error {
	for _, name := range dedupe(names) {
		ing, err := s.ingredients.GetOrCreate(tx, recipe.UserID, name)
		if err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Ingredients").Append(&ing); err != nil {
			return err
		}
	}
	return nil
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
