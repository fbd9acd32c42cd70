package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"onboardbot/internal/catalog"
	"onboardbot/internal/config"
	"onboardbot/internal/handler"
	"onboardbot/internal/mailer"
	"onboardbot/internal/messenger"
	"onboardbot/internal/middleware"
	"onboardbot/internal/onboarding"
	"onboardbot/internal/profile"
	"onboardbot/internal/repository"
	"onboardbot/internal/role"
	"onboardbot/internal/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine    *gin.Engine
	DB        *gorm.DB
	Config    *config.Config
	Scheduler *scheduler.Scheduler
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	if err := runMigrations(cfg); err != nil {
		return nil, err
	}

	// Setup Gin
	r := gin.Default()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	checkRepo := repository.NewProfileCheckRepository(db)

	// Collaborators: chat platform, profile directory, manager email
	var chat messenger.Messenger = messenger.NewMockMessenger()
	if cfg.PlatformWebhookURL != "" {
		chat = messenger.NewWebhookMessenger(cfg.PlatformWebhookURL)
	}
	var source profile.Source = profile.NewStubSource()
	if cfg.DirectoryBaseURL != "" {
		source = profile.NewDirectoryClient(cfg.DirectoryBaseURL, cfg.DirectoryToken)
	}
	mail := mailer.NewResendMailer(cfg.ResendAPIKey, cfg.FromEmail, cfg.HRSupportEmail, cfg.CompanyName)

	// Core service
	service := onboarding.NewService(
		userRepo, taskRepo, reminderRepo, checkRepo,
		source,
		profile.NewAnalyzer(cfg.ProfileThreshold),
		role.NewClassifier(nil),
		catalog.NewProvider(cfg.CatalogPath),
		mail,
		cfg.MaxReminders,
		cfg.ManagerEscalationEmail,
	)

	// Reminder/escalation scheduler: one per deployment, owned here and
	// handed to the admin handler for ad-hoc scans.
	sched := scheduler.New(
		reminderRepo, userRepo, chat, mail,
		scheduler.Policy{
			PushInterval:    time.Duration(cfg.ReminderPushDays) * 24 * time.Hour,
			FallbackManager: cfg.ManagerEscalationEmail,
		},
		time.Duration(cfg.ScanIntervalMin)*time.Minute,
		time.Duration(cfg.DigestIntervalHrs)*time.Hour,
	)

	// Initialize handlers
	eventHandler := handler.NewEventHandler(service, chat)
	adminHandler := handler.NewAdminHandler(
		service, userRepo, reminderRepo, sched,
		cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour,
		cfg.AdminEmail, cfg.AdminPassword,
	)

	// Public routes
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/events", eventHandler.HandleEvent)
	r.POST("/admin/login", adminHandler.Login)

	// Protected admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		admin.GET("/stats", adminHandler.Stats)
		admin.GET("/users/:platform_id/tasks", adminHandler.UserTasks)
		admin.POST("/scan", adminHandler.RunScan)
	}

	return &Server{
		Engine:    r,
		DB:        db,
		Config:    cfg,
		Scheduler: sched,
	}, nil
}

func runMigrations(cfg *config.Config) error {
	url := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)
	m, err := migrate.New("file://migrations", url)
	if err != nil {
		return fmt.Errorf("❌ failed to init migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("❌ failed to run migrations: %w", err)
	}
	log.Println("✅ Migrations applied")
	return nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	s.Scheduler.Start()

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	s.Scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
