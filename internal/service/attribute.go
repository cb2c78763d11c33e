package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/recipebox/backend/internal/models"
)

// AttributeModel is the set of per-user label kinds: each is a registry
// of named rows deduplicated by (user_id, name).
type AttributeModel interface {
	models.Tag | models.Ingredient
}

// AttributeService implements the owner-scoped registry operations once
// for both tags and ingredients.
type AttributeService[T AttributeModel] struct {
	db         *gorm.DB
	table      string
	joinTable  string
	joinColumn string
	build      func(userID uint, name string) T
}

func NewTagService(db *gorm.DB) *AttributeService[models.Tag] {
	return &AttributeService[models.Tag]{
		db:         db,
		table:      "tags",
		joinTable:  "recipe_tags",
		joinColumn: "tag_id",
		build: func(userID uint, name string) models.Tag {
			return models.Tag{UserID: userID, Name: name}
		},
	}
}

func NewIngredientService(db *gorm.DB) *AttributeService[models.Ingredient] {
	return &AttributeService[models.Ingredient]{
		db:         db,
		table:      "ingredients",
		joinTable:  "recipe_ingredients",
		joinColumn: "ingredient_id",
		build: func(userID uint, name string) models.Ingredient {
			return models.Ingredient{UserID: userID, Name: name}
		},
	}
}

// List returns the user's attributes ordered by descending name. With
// assignedOnly, attributes not referenced by any recipe are excluded.
func (s *AttributeService[T]) List(ctx context.Context, userID uint, assignedOnly bool) ([]T, error) {
	q := s.db.WithContext(ctx).Model(new(T)).Where("user_id = ?", userID)
	if assignedOnly {
		// table and column names are fixed at construction, never user input
		q = q.Where(fmt.Sprintf("%s.id IN (SELECT %s FROM %s)", s.table, s.joinColumn, s.joinTable))
	}

	var out []T
	if err := q.Distinct().Order("name DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetOrCreate resolves a name to the user's attribute row, inserting it
// when absent. The insert is a single upsert on the (user_id, name)
// unique index so concurrent requests for the same name cannot race.
// It runs on the caller's transaction handle.
func (s *AttributeService[T]) GetOrCreate(tx *gorm.DB, userID uint, name string) (T, error) {
	rec := s.build(userID, name)
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoNothing: true,
	}).Create(&rec).Error
	if err != nil {
		var zero T
		return zero, err
	}

	// On conflict the insert reports no id; fetch the winning row.
	var out T
	if err := tx.Where("user_id = ? AND name = ?", userID, name).First(&out).Error; err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Rename updates an attribute's name; a row owned by another user
// behaves as not found.
func (s *AttributeService[T]) Rename(ctx context.Context, userID, id uint, name string) (T, error) {
	var zero T
	res := s.db.WithContext(ctx).Model(new(T)).
		Where("id = ? AND user_id = ?", id, userID).
		Update("name", name)
	if res.Error != nil {
		return zero, res.Error
	}
	if res.RowsAffected == 0 {
		return zero, gorm.ErrRecordNotFound
	}

	var out T
	if err := s.db.WithContext(ctx).First(&out, id).Error; err != nil {
		return zero, err
	}
	return out, nil
}

// Delete removes an attribute and its recipe associations. Recipes and
// other attributes are untouched.
func (s *AttributeService[T]) Delete(ctx context.Context, userID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(new(T))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", s.joinTable, s.joinColumn), id).Error
	})
}

// IsNotFound reports whether err maps to a missing or foreign-owned row.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
