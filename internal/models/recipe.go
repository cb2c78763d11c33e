package models

import (
	"time"
)

// Tag is a per-user recipe label. The (user_id, name) pair is unique so
// that get-or-create can be expressed as a single upsert.
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Name      string    `gorm:"size:255;not null;uniqueIndex:idx_tags_user_name" json:"name"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_tags_user_name" json:"-"`
}

// Ingredient is a per-user ingredient label, a registry separate from
// tags but with the same shape and invariants.
type Ingredient struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Name      string    `gorm:"size:255;not null;uniqueIndex:idx_ingredients_user_name" json:"name"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_ingredients_user_name" json:"-"`
}

// Recipe owns its scalar fields and references tags/ingredients through
// join tables; deleting a recipe removes the join rows only.
type Recipe struct {
	ID          uint         `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	UserID      uint         `gorm:"not null;index" json:"-"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	TimeMinutes int          `gorm:"not null" json:"time_minutes"`
	Price       float64      `gorm:"type:decimal(5,2);not null" json:"price"`
	Description string       `gorm:"type:text" json:"description"`
	Link        string       `gorm:"size:255" json:"link"`
	ImageURL    string       `gorm:"size:255" json:"image"`
	Tags        []Tag        `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Ingredients []Ingredient `gorm:"many2many:recipe_ingredients;constraint:OnDelete:CASCADE" json:"ingredients"`
}
