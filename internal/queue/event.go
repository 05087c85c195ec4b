// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// RecipeCreatedEvent is published when a recipe is successfully created. It
// carries enough information for downstream consumers to log or trigger
// notifications without querying the primary database.
type RecipeCreatedEvent struct {
	RecipeID    uint64 `json:"recipe_id"`
	UserID      uint64 `json:"user_id"`
	Title       string `json:"title"`
	CookingTime int    `json:"cooking_time_minutes"`
	CreatedAt   string `json:"created_at"`
}
