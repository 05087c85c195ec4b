package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/ovasquez/recipebook/internal/model"
)

// RecipeRepo provides persistence for recipe records. Every mutating query
// filters on both id and user_id so that ownership is enforced in the store
// itself, not just at the handler boundary.
type RecipeRepo struct{ DB *sql.DB }

func NewRecipeRepo(db *sql.DB) *RecipeRepo { return &RecipeRepo{DB: db} }

// Create inserts a recipe owned by rec.UserID and fills in the generated id
// and timestamps. Ingredients are serialized into the JSON column.
func (r *RecipeRepo) Create(ctx context.Context, rec *model.Recipe) error {
	ing, err := json.Marshal(rec.Ingredients)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Truncate(time.Second)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO recipes (user_id, title, ingredients, instructions, cooking_time_minutes, created_at, updated_at) VALUES (?,?,?,?,?,?,?)",
		rec.UserID, rec.Title, ing, rec.Instructions, rec.CookingTime, now, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return nil
}

// ListByOwner returns all recipes owned by userID in insertion order.
func (r *RecipeRepo) ListByOwner(ctx context.Context, userID uint64) ([]model.Recipe, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,user_id,title,ingredients,instructions,cooking_time_minutes,created_at,updated_at FROM recipes WHERE user_id=? ORDER BY id",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Recipe, 0)
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetByIDAndOwner fetches a single recipe scoped to its owner. A missing row
// maps to ErrRecipeNotFound whether the id does not exist at all or belongs
// to another user.
func (r *RecipeRepo) GetByIDAndOwner(ctx context.Context, id, userID uint64) (model.Recipe, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,title,ingredients,instructions,cooking_time_minutes,created_at,updated_at FROM recipes WHERE id=? AND user_id=? LIMIT 1",
		id, userID)
	rec, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return model.Recipe{}, ErrRecipeNotFound
	}
	return rec, err
}

// Update replaces all client-provided fields of an owned recipe and bumps
// updated_at. The UPDATE itself is ownership-scoped; when it affects no rows
// we re-check existence because MySQL also reports zero affected rows for a
// no-op write with identical values.
func (r *RecipeRepo) Update(ctx context.Context, rec *model.Recipe) error {
	ing, err := json.Marshal(rec.Ingredients)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Truncate(time.Second)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE recipes SET title=?, ingredients=?, instructions=?, cooking_time_minutes=?, updated_at=? WHERE id=? AND user_id=?",
		rec.Title, ing, rec.Instructions, rec.CookingTime, now, rec.ID, rec.UserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByIDAndOwner(ctx, rec.ID, rec.UserID); err != nil {
			return err
		}
	}
	rec.UpdatedAt = now
	return nil
}

// Delete removes an owned recipe. Zero affected rows means the recipe does
// not exist for this user.
func (r *RecipeRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM recipes WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// ListPage returns one page of the unscoped feed joined with each owner's
// display name, ordered by insertion. An offset past the end yields an empty
// slice, not an error.
func (r *RecipeRepo) ListPage(ctx context.Context, limit, offset int) ([]model.FeedRecipe, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT r.id,r.user_id,r.title,r.ingredients,r.instructions,r.cooking_time_minutes,r.created_at,r.updated_at,u.name FROM recipes r JOIN users u ON u.id=r.user_id ORDER BY r.id LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.FeedRecipe, 0, limit)
	for rows.Next() {
		var fr model.FeedRecipe
		var ing []byte
		if err := rows.Scan(&fr.ID, &fr.UserID, &fr.Title, &ing, &fr.Instructions,
			&fr.CookingTime, &fr.CreatedAt, &fr.UpdatedAt, &fr.Owner); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(ing, &fr.Ingredients); err != nil {
			return nil, err
		}
		out = append(out, fr)
	}
	return out, rows.Err()
}

// Count returns the total number of recipes across all owners.
func (r *RecipeRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM recipes").Scan(&n)
	return n, err
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface{ Scan(dest ...any) error }

func scanRecipe(s scanner) (model.Recipe, error) {
	var rec model.Recipe
	var ing []byte
	if err := s.Scan(&rec.ID, &rec.UserID, &rec.Title, &ing, &rec.Instructions,
		&rec.CookingTime, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return model.Recipe{}, err
	}
	if err := json.Unmarshal(ing, &rec.Ingredients); err != nil {
		return model.Recipe{}, err
	}
	return rec, nil
}
