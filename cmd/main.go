package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pixel-canvas-system/internal/config"
	"pixel-canvas-system/internal/handler"
	"pixel-canvas-system/internal/models"
	"pixel-canvas-system/internal/repository"
	"pixel-canvas-system/internal/scheduler"
	"pixel-canvas-system/internal/service"
	"pixel-canvas-system/pkg/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	db, err := initDatabase(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer closeDatabase(db)

	if err := migrate(db); err != nil {
		logger.Fatal("Failed to migrate database:", err)
	}

	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	txnRepo := repository.NewTransactionRepository(db)
	pixelRepo := repository.NewPixelRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	projectRepo := repository.NewProjectRepository(db)

	ledger := service.NewLedgerService(accountRepo, txnRepo)
	gate := service.NewCooldownGate(cfg.Canvas.Cooldown())
	grid := service.NewGridService(pixelRepo, cfg.Canvas.Protection(), cfg.Canvas.EnforceProtection)
	placementSvc := service.NewPlacementService(db, accountRepo, projectRepo, userRepo, ledger, gate, grid)
	donationSvc := service.NewDonationService(db, accountRepo, donationRepo, projectRepo, ledger)
	viewsSvc := service.NewViewsService(accountRepo, userRepo, pixelRepo, projectRepo, txnRepo)
	reconcileSvc := service.NewReconcileService(projectRepo, pixelRepo, donationRepo)
	authSvc := service.NewAuthService(userRepo, cfg.Auth.CodeTTL(), service.LogCodeSender{})

	if cfg.Reconciler.Enabled {
		reconcileScheduler := scheduler.NewReconcileScheduler(reconcileSvc, cfg.Reconciler.Cron)
		if err := reconcileScheduler.Start(); err != nil {
			logger.Fatal("Failed to start scheduler:", err)
		}
		defer reconcileScheduler.Stop()
	}

	router := setupRouter(cfg, authSvc, placementSvc, grid, donationSvc, viewsSvc)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Server starting on port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error:", err)
	}

	logger.Info("Server stopped")
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	return db, nil
}

func closeDatabase(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get database instance:", err)
		return
	}
	sqlDB.Close()
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ColorPalette{},
		&models.TokenAccount{},
		&models.TokenTransaction{},
		&models.Pixel{},
		&models.PixelHistory{},
		&models.Donation{},
	)
}

func setupRouter(
	cfg *config.Config,
	authSvc *service.AuthService,
	placementSvc *service.PlacementService,
	grid *service.GridService,
	donationSvc *service.DonationService,
	viewsSvc *service.ViewsService,
) http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	cookieName := cfg.Auth.CookieName()
	authHandler := handler.NewAuthHandler(authSvc, cookieName)
	canvasHandler := handler.NewCanvasHandler(placementSvc, grid)
	tokensHandler := handler.NewTokensHandler(donationSvc, viewsSvc, cfg.Leaderboard.Limit)
	projectsHandler := handler.NewProjectsHandler(viewsSvc)

	requireAuth := handler.SessionMiddleware(authSvc, cookieName)

	router.GET("/health", handler.HandleHealth)

	router.POST("/api/auth/send-code", authHandler.SendCode)
	router.POST("/api/auth/verify-code", authHandler.VerifyCode)
	router.GET("/api/auth/session", requireAuth, authHandler.Session)
	router.POST("/api/auth/logout", requireAuth, authHandler.Logout)

	router.GET("/api/projects", projectsHandler.List)
	router.GET("/api/projects/:id", projectsHandler.Get)
	router.GET("/api/leaderboard", tokensHandler.Leaderboard)
	router.GET("/api/pixels/history", canvasHandler.PixelHistory)
	router.GET("/api/transactions/recent", tokensHandler.RecentTransactions)

	router.POST("/api/pixels/place", requireAuth, canvasHandler.PlacePixel)
	router.POST("/api/donations/simulate", requireAuth, tokensHandler.SimulateDonation)
	router.GET("/api/tokens/status", requireAuth, tokensHandler.TokenStatus)
	router.GET("/api/user/stats", requireAuth, tokensHandler.UserStats)

	return router
}
