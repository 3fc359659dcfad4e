package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"taskpulse/internal/config"
	"taskpulse/internal/handlers"
	"taskpulse/internal/pdf"
	"taskpulse/internal/repositories"
	"taskpulse/internal/routes"
	"taskpulse/internal/services"
	"taskpulse/internal/utils"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "taskpulse/docs"
)

// Run starts the HTTP server and the reminder scheduler and blocks until
// SIGINT/SIGTERM. The scheduler stops before the listener drains so no
// new sweep starts during shutdown.
func Run() {
	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	deps := wire(cfg, db)

	sched := services.NewScheduler(
		deps.reminderService,
		cfg.Scheduler.ExplicitInterval(),
		cfg.Scheduler.SweepInterval(),
	)
	sched.Start()

	router := gin.Default()
	router.Use(corsMiddleware())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		deps.assignmentHandler,
		deps.reminderHandler,
		deps.deliveryHandler,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed: ", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}

// RunSweep executes one scheduler pass and exits; used by the sweep CLI
// command for cron-style deployments.
func RunSweep(kind string) error {
	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	deps := wire(cfg, db)
	ctx := context.Background()

	if kind == "explicit" || kind == "all" {
		n, err := deps.reminderService.RunExplicit(ctx)
		if err != nil {
			return fmt.Errorf("explicit pass: %w", err)
		}
		log.Printf("[sweep][explicit] processed=%d", n)
	}
	if kind == "due" || kind == "all" {
		n, err := deps.reminderService.RunDueSweep(ctx)
		if err != nil {
			return fmt.Errorf("due-date pass: %w", err)
		}
		log.Printf("[sweep][due] fired=%d", n)
	}
	return nil
}

type appDeps struct {
	reminderService   services.ReminderService
	assignmentHandler *handlers.AssignmentHandler
	reminderHandler   *handlers.ReminderHandler
	deliveryHandler   *handlers.DeliveryHandler
}

func wire(cfg *config.Config, db *sql.DB) *appDeps {
	// === Repos ===
	taskRepo := repositories.NewTaskRepository(db)
	assignmentRepo := repositories.NewAssignmentRepository(db)
	reminderRepo := repositories.NewReminderRepository(db)
	deliveryRepo := repositories.NewDeliveryLogRepository(db)
	userRepo := repositories.NewUserRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	activityRepo := repositories.NewActivityRepository(db)

	// === Channel senders ===
	emailSender := services.NewEmailSender(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
		deliveryRepo,
	)

	mobizonClient := utils.NewMobizonClient(cfg.Mobizon.APIKey, cfg.Mobizon.SenderID, cfg.Mobizon.DryRun)
	smsSender := services.NewSMSSender(mobizonClient, deliveryRepo)

	whatsappClient := utils.NewWhatsAppClient(cfg.WhatsApp.AccessToken, cfg.WhatsApp.PhoneNumberID, cfg.WhatsApp.DryRun)
	if !whatsappClient.Configured() {
		log.Fatal("whatsapp access_token missing (set dry_run: true to run without credentials)")
	}
	whatsappSender := services.NewWhatsAppSender(whatsappClient, deliveryRepo)

	dispatcher := services.NewDispatcher(emailSender, smsSender, whatsappSender)

	// === Services ===
	reminderService := services.NewReminderService(reminderRepo, taskRepo, userRepo, dispatcher)
	assignmentService := services.NewAssignmentService(
		assignmentRepo, taskRepo, userRepo, projectRepo, activityRepo,
		dispatcher, cfg.Server.BaseURL,
	)
	reportService := services.NewReportService(deliveryRepo, pdf.NewReportGenerator(cfg.Reports.RootDir))

	return &appDeps{
		reminderService:   reminderService,
		assignmentHandler: handlers.NewAssignmentHandler(assignmentService),
		reminderHandler:   handlers.NewReminderHandler(reminderService),
		deliveryHandler:   handlers.NewDeliveryHandler(reportService),
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
