package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/bharatwheels/partner-backend/database"
	"github.com/bharatwheels/partner-backend/internal/config"
	"github.com/bharatwheels/partner-backend/internal/jobs"
	"github.com/bharatwheels/partner-backend/internal/logger"
	"github.com/bharatwheels/partner-backend/internal/models"
	"github.com/bharatwheels/partner-backend/internal/routes"
	"github.com/bharatwheels/partner-backend/internal/services"
	"github.com/bharatwheels/partner-backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("invalid configuration: ", err)
	}

	logger.Setup(cfg.IsProduction())

	// Storage
	var store storage.Store
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		logrus.Warn("using in-memory storage (not for production)")
		store = storage.NewMemoryStore()
	} else {
		db, err := database.Connect(cfg)
		if err != nil {
			logrus.Fatal("database connection failed: ", err)
		}

		err = db.AutoMigrate(
			&models.User{},
			&models.Booking{},
			&models.BookingComment{},
			&models.Vehicle{},
			&models.VehicleComment{},
			&models.Review{},
			&models.Transaction{},
			&models.Verification{},
		)
		if err != nil {
			logrus.Fatal("database migration failed: ", err)
		}
		logrus.Info("database migrations completed")

		store = storage.NewDatabaseStore(db)
	}

	// Services
	smsSender := services.NewSMSSender(cfg)
	otpService := services.NewOTPService(store, smsSender)
	walletService := services.NewWalletService(store)
	chatbot := services.NewChatbotService(store)

	// Background housekeeping
	housekeeping := jobs.NewHousekeepingJob(store, 15*time.Minute)
	housekeeping.Start()

	app := fiber.New(fiber.Config{
		AppName: "BharatWheels Partner Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			msg := "Internal server error"
			if code != fiber.StatusInternalServerError || !cfg.IsProduction() {
				msg = err.Error()
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"message": msg,
			})
		},
	})

	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	routes.Setup(app, cfg, store, otpService, walletService, chatbot)

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logrus.Info("shutting down...")
		housekeeping.Stop()
		_ = app.Shutdown()
	}()

	logrus.WithFields(logrus.Fields{
		"port":        cfg.Port,
		"environment": cfg.Environment,
	}).Info("BharatWheels Partner Backend starting")

	if err := app.Listen(":" + cfg.Port); err != nil {
		logrus.Fatal(err)
	}
}
