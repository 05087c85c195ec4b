package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/ovasquez/recipebook/internal/config"
	"github.com/ovasquez/recipebook/internal/database"
	"github.com/ovasquez/recipebook/internal/handler"
	"github.com/ovasquez/recipebook/internal/queue"
	"github.com/ovasquez/recipebook/internal/repository"
	"github.com/ovasquez/recipebook/internal/router"
	"github.com/ovasquez/recipebook/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect: %v", err)
	}
	defer db.Close()

	// Redis is optional infrastructure: a nil client disables rate limiting
	// and feed caching without affecting the core service.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and feed cache disabled")
	}

	users := repository.NewUserRepo(db)
	recipes := repository.NewRecipeRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users)
	recipeHandler := handler.NewRecipeHandler(recipes, service.NewPublisher())

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, config.LoadRateLimitConfig(), rdb)
	router.RegisterRecipes(e, recipeHandler, cfg.JWTSecret, config.LoadCacheConfig(), rdb)

	go queue.StartRecipeConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Shut down cleanly on SIGINT/SIGTERM so in-flight requests finish.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
