package model

import "time"

// Recipe mirrors the `recipes` table. Ingredients are stored in a JSON
// column and unmarshalled into a string slice by the repository. UserID is a
// weak reference to the owning user; the user record does not track its
// recipes.
type Recipe struct {
	ID           uint64    `json:"id"`           // recipes.id
	Title        string    `json:"title"`        // recipes.title
	Ingredients  []string  `json:"ingredients"`  // recipes.ingredients (JSON column)
	Instructions string    `json:"instructions"` // recipes.instructions
	CookingTime  int       `json:"cookingTime"`  // recipes.cooking_time_minutes
	UserID       uint64    `json:"userId"`       // recipes.user_id (owner)
	CreatedAt    time.Time `json:"createdAt"`    // recipes.created_at
	UpdatedAt    time.Time `json:"updatedAt"`    // recipes.updated_at
}

// FeedRecipe is a Recipe joined with the owner's display name. It is used
// only by the paginated public feed; Owner is a read-only projection of
// users.name at query time, not a live reference.
type FeedRecipe struct {
	Recipe
	Owner string `json:"owner"`
}
