package main

import (
	"context"
	"log"

	"github.com/recipebox/backend/config"
	"github.com/recipebox/backend/internal/database"
	"github.com/recipebox/backend/internal/service"
)

// Seeds a demo user with a handful of recipes, tags and ingredients.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	ctx := context.Background()
	auth := service.NewAuthService(db, cfg.JWTSecret)
	tags := service.NewTagService(db)
	ingredients := service.NewIngredientService(db)
	recipes := service.NewRecipeService(db, tags, ingredients)

	user, err := auth.Register(ctx, "Demo User", "demo@example.com", "demo-password")
	if err != nil {
		log.Fatalf("failed to create demo user: %v", err)
	}

	seeds := []service.RecipeInput{
		{
			Title:           "Chocolate chip cookies",
			TimeMinutes:     35,
			Price:           4.50,
			Description:     "Classic soft-baked cookies.",
			TagNames:        []string{"Dessert", "Baking"},
			IngredientNames: []string{"Flour", "Butter", "Chocolate chips"},
		},
		{
			Title:           "Thai green curry",
			TimeMinutes:     45,
			Price:           9.20,
			Description:     "Fragrant curry with vegetables.",
			TagNames:        []string{"Dinner", "Spicy"},
			IngredientNames: []string{"Coconut milk", "Green curry paste", "Rice"},
		},
		{
			Title:           "Avocado toast",
			TimeMinutes:     10,
			Price:           3.00,
			TagNames:        []string{"Breakfast"},
			IngredientNames: []string{"Bread", "Avocado"},
		},
	}

	for _, in := range seeds {
		recipe, err := recipes.Create(ctx, user.ID, in)
		if err != nil {
			log.Fatalf("failed to seed recipe %q: %v", in.Title, err)
		}
		log.Printf("seeded recipe %d: %s", recipe.ID, recipe.Title)
	}

	log.Printf("seeded demo user %s", user.Email)
}
