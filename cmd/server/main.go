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
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/41vi4p/MediStock/internal/config"
	"github.com/41vi4p/MediStock/internal/database"
	"github.com/41vi4p/MediStock/internal/handlers"
	"github.com/41vi4p/MediStock/internal/repository"
	"github.com/41vi4p/MediStock/internal/security"
	"github.com/41vi4p/MediStock/internal/service"
)

func main() {
	// Load .env if present; real environments set variables directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	medicineRepo := repository.NewMedicineRepository(db)
	shoppingRepo := repository.NewShoppingRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	// Initialize services
	activityLogger := service.NewActivityLogger(activityRepo)
	defer activityLogger.Close()

	watcher := service.NewFamilyWatcher(familyRepo, userRepo)
	defer watcher.Close()

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	var tokenIssuer *security.TokenIssuer
	if cfg.JWTSecret != "" {
		tokenIssuer, err = security.NewTokenIssuer(cfg.JWTSecret, cfg.JWTDuration)
		if err != nil {
			log.Fatalf("Failed to initialize token issuer: %v", err)
		}
	} else {
		log.Println("Bearer token auth disabled: JWT_SECRET not configured")
	}

	authService := service.NewAuthService(userRepo, activityLogger, tokenIssuer, cfg.SessionDuration, cfg.BcryptCost)
	familyService := service.NewFamilyService(familyRepo, userRepo, invitationRepo, activityLogger, watcher, emailService, cfg.BcryptCost)
	medicineService := service.NewMedicineService(medicineRepo, userRepo, activityLogger)
	shoppingService := service.NewShoppingService(shoppingRepo, userRepo, activityLogger)
	activityQuery := service.NewActivityQueryService(activityRepo, userRepo)

	var googleOAuth *oauth2.Config
	if cfg.GoogleClientID != "" {
		googleOAuth = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		}
	}

	// Initialize handlers
	middleware := handlers.NewMiddleware(authService)
	authHandler := handlers.NewAuthHandler(authService, googleOAuth, cfg.AppBaseURL)
	familyHandler := handlers.NewFamilyHandler(familyService)
	medicineHandler := handlers.NewMedicineHandler(medicineService)
	shoppingHandler := handlers.NewShoppingHandler(shoppingService)
	activityHandler := handlers.NewActivityHandler(activityQuery)
	wsHandler := handlers.NewWSHandler(watcher)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /auth/google/start", authHandler.StartGoogleOAuth)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleOAuthCallback)

	// Account routes
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("PUT /api/auth/theme", middleware.RequireAuth(authHandler.UpdateTheme))
	mux.HandleFunc("POST /api/auth/token", middleware.RequireAuth(authHandler.IssueToken))

	// Family routes
	mux.HandleFunc("GET /api/family", middleware.RequireAuth(familyHandler.GetFamily))
	mux.HandleFunc("POST /api/family", middleware.RequireAuth(familyHandler.CreateFamily))
	mux.HandleFunc("POST /api/family/join", middleware.RequireAuth(familyHandler.JoinFamily))
	mux.HandleFunc("POST /api/family/leave", middleware.RequireAuth(familyHandler.LeaveFamily))
	mux.HandleFunc("DELETE /api/family/members/{userId}", middleware.RequireAuth(familyHandler.RemoveMember))
	mux.HandleFunc("POST /api/family/code/regenerate", middleware.RequireAuth(familyHandler.RegenerateCode))
	mux.HandleFunc("PUT /api/family/password", middleware.RequireAuth(familyHandler.ChangePassword))
	mux.HandleFunc("POST /api/family/invitations", middleware.RequireAuth(familyHandler.InviteMember))
	mux.HandleFunc("GET /api/family/invitations", middleware.RequireAuth(familyHandler.ListInvitations))
	mux.HandleFunc("GET /api/family/stream", middleware.RequireAuth(wsHandler.StreamFamily))

	// Medicine routes
	mux.HandleFunc("GET /api/medicines", middleware.RequireAuth(medicineHandler.ListMedicines))
	mux.HandleFunc("POST /api/medicines", middleware.RequireAuth(medicineHandler.AddMedicine))
	mux.HandleFunc("GET /api/medicines/expiring", middleware.RequireAuth(medicineHandler.ListExpiring))
	mux.HandleFunc("GET /api/medicines/{id}", middleware.RequireAuth(medicineHandler.GetMedicine))
	mux.HandleFunc("PUT /api/medicines/{id}", middleware.RequireAuth(medicineHandler.UpdateMedicine))
	mux.HandleFunc("PUT /api/medicines/{id}/stock", middleware.RequireAuth(medicineHandler.SetStock))
	mux.HandleFunc("DELETE /api/medicines/{id}", middleware.RequireAuth(medicineHandler.DeleteMedicine))

	// Shopping list routes
	mux.HandleFunc("GET /api/shopping", middleware.RequireAuth(shoppingHandler.ListItems))
	mux.HandleFunc("POST /api/shopping", middleware.RequireAuth(shoppingHandler.AddItem))
	mux.HandleFunc("PUT /api/shopping/{id}/completed", middleware.RequireAuth(shoppingHandler.SetCompleted))
	mux.HandleFunc("DELETE /api/shopping/{id}", middleware.RequireAuth(shoppingHandler.DeleteItem))

	// Activity history
	mux.HandleFunc("GET /api/activity", middleware.RequireAuth(activityHandler.ListActivity))

	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Background session cleanup
	go cleanupExpiredSessions(authService)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		}
	}
}
