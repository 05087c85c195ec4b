package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ovasquez/recipebook/internal/model"
	"github.com/ovasquez/recipebook/internal/queue"
	"github.com/ovasquez/recipebook/internal/repository"
)

// eventPublisher publishes domain events after successful writes. A nil
// publisher disables events; failures are logged by the publisher itself and
// never affect the request outcome.
type eventPublisher interface {
	PublishRecipeCreated(ctx context.Context, ev queue.RecipeCreatedEvent) error
}

// RecipeHandler implements the ownership-scoped recipe endpoints. Every
// handler reads the acting user from the context populated by the JWT guard;
// the repository queries are themselves scoped by that id, so a recipe owned
// by someone else is indistinguishable from one that does not exist.
type RecipeHandler struct {
	Recipes *repository.RecipeRepo
	Events  eventPublisher
}

func NewRecipeHandler(recipes *repository.RecipeRepo, events eventPublisher) *RecipeHandler {
	if recipes == nil {
		panic("nil repository passed to NewRecipeHandler")
	}
	return &RecipeHandler{Recipes: recipes, Events: events}
}

// getUserID extracts the acting user id stored by the JWT guard.
func getUserID(c echo.Context) (uint64, error) {
	if id, ok := c.Get("user_id").(uint64); ok && id != 0 {
		return id, nil
	}
	return 0, errors.New("no user_id in context")
}

type recipePayload struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	CookingTime  *int     `json:"cookingTime"`
}

// validate returns the names of all offending fields, empty when the payload
// is acceptable. CookingTime is a pointer so an absent field is rejected
// rather than defaulting to zero.
func (p *recipePayload) validate() []string {
	var fields []string
	if p.Title == "" {
		fields = append(fields, "title")
	}
	if len(p.Ingredients) == 0 {
		fields = append(fields, "ingredients")
	} else {
		for _, ing := range p.Ingredients {
			if ing == "" {
				fields = append(fields, "ingredients")
				break
			}
		}
	}
	if p.Instructions == "" {
		fields = append(fields, "instructions")
	}
	if p.CookingTime == nil || *p.CookingTime < 0 {
		fields = append(fields, "cookingTime")
	}
	return fields
}

// Create handles POST /recipes.
func (h *RecipeHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	var body recipePayload
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if fields := body.validate(); len(fields) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation failed", "fields": fields})
	}

	rec := model.Recipe{
		Title:        body.Title,
		Ingredients:  body.Ingredients,
		Instructions: body.Instructions,
		CookingTime:  *body.CookingTime,
		UserID:       userID,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Recipes.Create(ctx, &rec); err != nil {
		c.Logger().Errorf("recipe create: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not create recipe"})
	}

	if h.Events != nil {
		ev := queue.RecipeCreatedEvent{
			RecipeID:    rec.ID,
			UserID:      rec.UserID,
			Title:       rec.Title,
			CookingTime: rec.CookingTime,
			CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = h.Events.PublishRecipeCreated(ctx, ev) // logged by the publisher
		}()
	}

	return c.JSON(http.StatusCreated, rec)
}

// List handles GET /recipes and returns only the acting user's recipes.
func (h *RecipeHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	recipes, err := h.Recipes.ListByOwner(ctx, userID)
	if err != nil {
		c.Logger().Errorf("recipe list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not list recipes"})
	}
	return c.JSON(http.StatusOK, recipes)
}

// Get handles GET /recipes/:id.
func (h *RecipeHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "recipe not found"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	rec, err := h.Recipes.GetByIDAndOwner(ctx, id, userID)
	if err != nil {
		if err == repository.ErrRecipeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "recipe not found"})
		}
		c.Logger().Errorf("recipe get: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not load recipe"})
	}
	return c.JSON(http.StatusOK, rec)
}

// Update handles PUT /recipes/:id with the same validation as Create.
func (h *RecipeHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "recipe not found"})
	}
	var body recipePayload
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if fields := body.validate(); len(fields) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation failed", "fields": fields})
	}

	rec := model.Recipe{
		ID:           id,
		Title:        body.Title,
		Ingredients:  body.Ingredients,
		Instructions: body.Instructions,
		CookingTime:  *body.CookingTime,
		UserID:       userID,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Recipes.Update(ctx, &rec); err != nil {
		if err == repository.ErrRecipeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "recipe not found"})
		}
		c.Logger().Errorf("recipe update: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not update recipe"})
	}

	// Re-read so the response carries the stored record, including created_at.
	updated, err := h.Recipes.GetByIDAndOwner(ctx, id, userID)
	if err != nil {
		c.Logger().Errorf("recipe update reload: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not update recipe"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /recipes/:id.
func (h *RecipeHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "recipe not found"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Recipes.Delete(ctx, id, userID); err != nil {
		if err == repository.ErrRecipeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "recipe not found"})
		}
		c.Logger().Errorf("recipe delete: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not delete recipe"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "recipe deleted successfully"})
}

type paginatedResp struct {
	Recipes     []model.FeedRecipe `json:"recipes"`
	TotalPages  int64              `json:"totalPages"`
	CurrentPage int                `json:"currentPage"`
}

// ListPaginated handles GET /recipes/paginated?page&limit. The feed is
// unscoped across all owners and each recipe carries the owner's display
// name. A page past the end returns an empty list, not an error.
func (h *RecipeHandler) ListPaginated(c echo.Context) error {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	recipes, err := h.Recipes.ListPage(ctx, limit, (page-1)*limit)
	if err != nil {
		c.Logger().Errorf("recipe feed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not load recipes"})
	}
	total, err := h.Recipes.Count(ctx)
	if err != nil {
		c.Logger().Errorf("recipe feed count: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not load recipes"})
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	return c.JSON(http.StatusOK, paginatedResp{
		Recipes:     recipes,
		TotalPages:  totalPages,
		CurrentPage: page,
	})
}
