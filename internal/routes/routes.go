package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bharatwheels/partner-backend/internal/config"
	"github.com/bharatwheels/partner-backend/internal/handlers"
	"github.com/bharatwheels/partner-backend/internal/middleware"
	"github.com/bharatwheels/partner-backend/internal/services"
	"github.com/bharatwheels/partner-backend/internal/storage"
)

// Setup wires all API routes.
func Setup(app *fiber.App, cfg *config.Config, store storage.Store,
	otpService *services.OTPService, walletService *services.WalletService,
	chatbot *services.ChatbotService) {

	healthHandler := handlers.NewHealthHandler(store, "1.0.0")
	authHandler := handlers.NewAuthHandler(store, otpService, cfg)
	bookingHandler := handlers.NewBookingHandler(store)
	vehicleHandler := handlers.NewVehicleHandler(store)
	reviewHandler := handlers.NewReviewHandler(store)
	profileHandler := handlers.NewProfileHandler(store, walletService)
	userHandler := handlers.NewUserHandler(store)
	adminHandler := handlers.NewAdminHandler(store)
	chatbotHandler := handlers.NewChatbotHandler(chatbot)

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")
	protected := middleware.Protected(cfg, store)

	// Auth
	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/send-otp", authHandler.SendOTP)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Post("/login", authHandler.Login)

	// Bookings
	bookings := api.Group("/bookings")
	bookings.Get("/", bookingHandler.List)
	bookings.Post("/", protected, bookingHandler.Create)
	bookings.Get("/my-bookings", protected, bookingHandler.MyBookings)
	bookings.Get("/:id", bookingHandler.Get)
	bookings.Put("/:id", protected, bookingHandler.Update)
	bookings.Delete("/:id", protected, bookingHandler.Delete)
	bookings.Post("/:id/assign", protected, bookingHandler.Assign)
	bookings.Post("/:id/close", protected, bookingHandler.Close)
	bookings.Post("/:id/cancel", protected, bookingHandler.Cancel)
	bookings.Post("/:id/comment", protected, bookingHandler.Comment)

	// Vehicles
	vehicles := api.Group("/vehicles")
	vehicles.Get("/", vehicleHandler.List)
	vehicles.Post("/", protected, vehicleHandler.Create)
	vehicles.Get("/my-vehicles", protected, vehicleHandler.MyVehicles)
	vehicles.Get("/:id", vehicleHandler.Get)
	vehicles.Put("/:id", protected, vehicleHandler.Update)
	vehicles.Delete("/:id", protected, vehicleHandler.Delete)
	vehicles.Post("/:id/assign", protected, vehicleHandler.Assign)
	vehicles.Post("/:id/close", protected, vehicleHandler.Close)
	vehicles.Post("/:id/cancel", protected, vehicleHandler.Cancel)
	vehicles.Post("/:id/comment", protected, vehicleHandler.Comment)

	// Reviews
	reviews := api.Group("/reviews")
	reviews.Get("/:userId/reviews", reviewHandler.List)
	reviews.Post("/:userId/review", protected, reviewHandler.Create)
	reviews.Get("/:userId/rating-summary", reviewHandler.RatingSummary)
	reviews.Get("/:userId/partner-score", reviewHandler.PartnerScore)

	// Profile + wallet + verification
	profile := api.Group("/profile", protected)
	profile.Get("/", profileHandler.Get)
	profile.Put("/", profileHandler.Update)
	profile.Get("/wallet", profileHandler.Wallet)
	profile.Get("/wallet/transactions", profileHandler.Transactions)
	profile.Post("/wallet/add-money", profileHandler.AddMoney)
	profile.Post("/wallet/withdraw", profileHandler.Withdraw)
	profile.Post("/verification", profileHandler.SubmitVerification)
	profile.Get("/verifications", profileHandler.Verifications)

	// Users
	users := api.Group("/users")
	users.Get("/search", protected, userHandler.Search)
	users.Get("/:id", userHandler.Get)

	// Chatbot
	api.Post("/chatbot/message", chatbotHandler.Message)

	// Admin
	admin := api.Group("/admin", protected, middleware.AdminOnly())
	admin.Get("/verifications/pending", adminHandler.PendingVerifications)
	admin.Put("/verifications/:id", adminHandler.UpdateVerification)
	admin.Post("/users/:id/suspend", adminHandler.Suspend)
	admin.Post("/users/:id/reactivate", adminHandler.Reactivate)
	admin.Delete("/users/:id", adminHandler.DeleteUser)
}
