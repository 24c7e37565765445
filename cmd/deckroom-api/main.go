package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/marko/deckroom-api/internal/config"
	"github.com/marko/deckroom-api/internal/database"
	"github.com/marko/deckroom-api/internal/handlers"
	authmw "github.com/marko/deckroom-api/internal/middleware"
	"github.com/marko/deckroom-api/internal/services"
	"github.com/marko/deckroom-api/internal/sse"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db)
	productService := services.NewProductService(db)
	teamService := services.NewTeamService(db)
	deckService := services.NewDeckService(db)
	accessService := services.NewAccessService(db)
	analyticsService := services.NewAnalyticsService(db)
	emailService := services.NewEmailService(cfg.SMTP)

	hub := sse.NewHub()
	go hub.Run()

	authHandler := handlers.NewAuthHandler(cfg, userService, tokenService, jwtService)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	teamHandler := handlers.NewTeamHandler(teamService, productService)
	deckHandler := handlers.NewDeckHandler(cfg, deckService, productService, accessService, analyticsService, hub)
	accessHandler := handlers.NewAccessHandler(cfg, accessService, deckService, productService, userService, emailService, hub)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, deckService)
	sseHandler := handlers.NewSSEHandler(hub, productService)
	shareHandler := handlers.NewShareHandler(accessService, deckService, productService, analyticsService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Get("/:provider/consent", authHandler.GetConsentURL)
	auth.Get("/:provider/callback", authHandler.Callback)
	auth.Post("/exchange", authHandler.ExchangeCode)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout-all", authHandler.LogoutAll)

	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateMe)

	protected.Get("/products", productHandler.List)
	protected.Post("/products", productHandler.Create)
	protected.Get("/products/:productId", productHandler.Get)
	protected.Patch("/products/:productId", productHandler.Update)
	protected.Delete("/products/:productId", productHandler.Delete)
	protected.Post("/products/:productId/submit", productHandler.Submit)
	protected.Post("/products/:productId/activate", productHandler.Activate)
	protected.Post("/products/:productId/deactivate", productHandler.Deactivate)

	protected.Get("/products/:productId/members", teamHandler.ListMembers)
	protected.Post("/products/:productId/members", teamHandler.CreateMember)
	protected.Patch("/products/:productId/members/:memberId", teamHandler.UpdateMember)
	protected.Delete("/products/:productId/members/:memberId", teamHandler.DeleteMember)

	protected.Get("/products/:productId/founders", teamHandler.ListFounders)
	protected.Post("/products/:productId/founders", teamHandler.CreateFounder)
	protected.Patch("/products/:productId/founders/:founderId", teamHandler.UpdateFounder)
	protected.Delete("/products/:productId/founders/:founderId", teamHandler.DeleteFounder)

	protected.Post("/products/:productId/deck", deckHandler.Upload)
	protected.Get("/products/:productId/deck", deckHandler.GetByProduct)

	protected.Get("/decks/:deckId", deckHandler.Get)
	protected.Patch("/decks/:deckId", deckHandler.Update)
	protected.Delete("/decks/:deckId", deckHandler.Delete)
	protected.Get("/decks/:deckId/file", deckHandler.Download)

	protected.Get("/decks/:deckId/access", accessHandler.ListGrants)
	protected.Post("/decks/:deckId/access", accessHandler.Grant)
	protected.Delete("/decks/:deckId/access/:accessId", accessHandler.RevokeGrant)

	protected.Get("/decks/:deckId/shares", accessHandler.ListShares)
	protected.Post("/decks/:deckId/shares", accessHandler.CreateShare)
	protected.Delete("/decks/:deckId/shares/:shareId", accessHandler.RevokeShare)

	protected.Get("/decks/:deckId/requests", accessHandler.ListRequests)
	protected.Post("/decks/:deckId/requests", accessHandler.CreateRequest)
	protected.Post("/requests/:requestId/approve", accessHandler.ApproveRequest)
	protected.Post("/requests/:requestId/deny", accessHandler.DenyRequest)

	protected.Get("/decks/:deckId/analytics", analyticsHandler.Get)

	protected.Get("/products/:productId/events", sseHandler.Connect)
	protected.Post("/sse/:clientId/subscribe/:productId", sseHandler.Subscribe)
	protected.Post("/sse/:clientId/unsubscribe/:productId", sseHandler.Unsubscribe)

	admin := api.Group("")
	admin.Use(authmw.Auth(jwtService))
	admin.Use(authmw.RequireAdmin())
	admin.Post("/products/:productId/review", productHandler.Review)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	// Public share pages (no auth required)
	app.Get("/shared/:token", shareHandler.View)
	app.Get("/shared/:token/file", shareHandler.File)

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			_ = tokenService.CleanupExpired(context.Background())
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}
