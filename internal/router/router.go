package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/ovasquez/recipebook/internal/config"
	"github.com/ovasquez/recipebook/internal/handler"
	"github.com/ovasquez/recipebook/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check used by
// load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the signup/login endpoints under /auth. Neither
// runs behind the JWT guard; both run behind the redis token-bucket limiter
// (a pass-through when rdb is nil) to slow down credential stuffing.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rl config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/auth", middleware.NewTokenBucket(rl, rdb))
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
}

// RegisterRecipes registers every recipe endpoint under /recipes. The whole
// group runs behind the JWT guard, so no recipe handler is reachable without
// a valid bearer token. The paginated public feed additionally sits behind
// the redis response cache; its body is identical for every authenticated
// caller, so caching across users is safe.
func RegisterRecipes(e *echo.Echo, r *handler.RecipeHandler, jwtSecret string, cc config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/recipes", middleware.JWTAuth(jwtSecret))

	g.GET("/paginated", r.ListPaginated, middleware.NewRedisCache(cc, rdb))

	g.POST("", r.Create)
	g.GET("", r.List)
	g.GET("/:id", r.Get)
	g.PUT("/:id", r.Update)
	g.DELETE("/:id", r.Delete)
}
