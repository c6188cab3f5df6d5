package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgo/feast/api/internal/config"
	"github.com/forgo/feast/api/internal/database"
	"github.com/forgo/feast/api/internal/handler"
	"github.com/forgo/feast/api/internal/middleware"
	"github.com/forgo/feast/api/internal/repository"
	"github.com/forgo/feast/api/internal/service"
	"github.com/forgo/feast/api/pkg/jwt"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: cfg.JWT.PrivateKeyPath,
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	tagRepo := repository.NewTagRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	relationRepo := repository.NewRelationRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)

	// Initialize services
	tokenService := service.NewTokenService(service.TokenServiceConfig{
		JWTService: jwtService,
		TokenRepo:  tokenRepo,
	})

	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:     userRepo,
		TokenService: tokenService,
	})

	toggleService := service.NewToggleService(service.ToggleServiceConfig{
		Relations: relationRepo,
		Recipes:   recipeRepo,
		Users:     userRepo,
	})

	recipeService := service.NewRecipeService(service.RecipeServiceConfig{
		Recipes:     recipeRepo,
		Tags:        tagRepo,
		Ingredients: ingredientRepo,
		Users:       userRepo,
		Relations:   relationRepo,
	})

	cartService := service.NewCartService(recipeRepo)

	userService := service.NewUserService(service.UserServiceConfig{
		Users:     userRepo,
		Recipes:   recipeRepo,
		Relations: relationRepo,
	})

	tagService := service.NewTagService(tagRepo)
	ingredientService := service.NewIngredientService(ingredientRepo)

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:       cfg.RateLimit.Rate,
		Window:     cfg.RateLimit.Window,
		Burst:      cfg.RateLimit.Burst,
		MaxBuckets: cfg.RateLimit.MaxBuckets,
	})

	// Initialize idempotency store
	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{
		TTL:     24 * time.Hour,
		Cleanup: time.Hour,
	})
	defer idempotencyStore.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, toggleService)
	recipeHandler := handler.NewRecipeHandler(recipeService, toggleService, cartService)
	tagHandler := handler.NewTagHandler(tagService)
	ingredientHandler := handler.NewIngredientHandler(ingredientService)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", handler.Health)

	// Auth endpoints (public)
	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/token", authHandler.Token)
	mux.HandleFunc("POST /api/auth/refresh", authHandler.Refresh)

	authMiddleware := middleware.Auth(tokenService)
	optionalAuth := middleware.OptionalAuth(tokenService)
	adminMiddleware := middleware.AdminAuth(tokenService)

	// Auth endpoints (protected)
	mux.Handle("POST /api/auth/logout", authMiddleware(http.HandlerFunc(authHandler.Logout)))

	// User endpoints
	mux.Handle("GET /api/users", optionalAuth(http.HandlerFunc(userHandler.List)))
	mux.Handle("GET /api/users/me", authMiddleware(http.HandlerFunc(authHandler.Me)))
	mux.Handle("POST /api/users/set_password", authMiddleware(http.HandlerFunc(authHandler.SetPassword)))
	mux.Handle("GET /api/users/subscriptions", authMiddleware(http.HandlerFunc(userHandler.Subscriptions)))
	mux.Handle("GET /api/users/{id}", optionalAuth(http.HandlerFunc(userHandler.Get)))
	mux.Handle("POST /api/users/{id}/subscribe", authMiddleware(http.HandlerFunc(userHandler.Subscribe)))
	mux.Handle("DELETE /api/users/{id}/subscribe", authMiddleware(http.HandlerFunc(userHandler.Unsubscribe)))

	// Recipe endpoints
	mux.Handle("GET /api/recipes", optionalAuth(http.HandlerFunc(recipeHandler.List)))
	mux.Handle("POST /api/recipes", authMiddleware(http.HandlerFunc(recipeHandler.Create)))
	mux.Handle("GET /api/recipes/download_shopping_cart", authMiddleware(http.HandlerFunc(recipeHandler.DownloadShoppingCart)))
	mux.Handle("GET /api/recipes/{id}", optionalAuth(http.HandlerFunc(recipeHandler.Get)))
	mux.Handle("PATCH /api/recipes/{id}", authMiddleware(http.HandlerFunc(recipeHandler.Update)))
	mux.Handle("DELETE /api/recipes/{id}", authMiddleware(http.HandlerFunc(recipeHandler.Delete)))
	mux.Handle("POST /api/recipes/{id}/favorite", authMiddleware(http.HandlerFunc(recipeHandler.Favorite)))
	mux.Handle("DELETE /api/recipes/{id}/favorite", authMiddleware(http.HandlerFunc(recipeHandler.Unfavorite)))
	mux.Handle("POST /api/recipes/{id}/shopping_cart", authMiddleware(http.HandlerFunc(recipeHandler.AddToCart)))
	mux.Handle("DELETE /api/recipes/{id}/shopping_cart", authMiddleware(http.HandlerFunc(recipeHandler.RemoveFromCart)))

	// Tag endpoints (reads public, writes admin-only)
	mux.HandleFunc("GET /api/tags", tagHandler.List)
	mux.HandleFunc("GET /api/tags/{id}", tagHandler.Get)
	mux.Handle("POST /api/tags", adminMiddleware(http.HandlerFunc(tagHandler.Create)))
	mux.Handle("DELETE /api/tags/{id}", adminMiddleware(http.HandlerFunc(tagHandler.Delete)))

	// Ingredient endpoints (reads public, writes admin-only)
	mux.HandleFunc("GET /api/ingredients", ingredientHandler.List)
	mux.HandleFunc("GET /api/ingredients/{id}", ingredientHandler.Get)
	mux.Handle("POST /api/ingredients", adminMiddleware(http.HandlerFunc(ingredientHandler.Create)))
	mux.Handle("DELETE /api/ingredients/{id}", adminMiddleware(http.HandlerFunc(ingredientHandler.Delete)))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Idempotency(idempotencyStore),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
