package main

import (
	"anwaar/config"
	accessController "anwaar/controllers/accessController"
	adminController "anwaar/controllers/adminController"
	"anwaar/database"
	"anwaar/realtime"
	accessRoutes "anwaar/routers/accessRoutes"
	adminRoutes "anwaar/routers/adminRoutes"
	authRoutes "anwaar/routers/authRoutes"
	progressRoutes "anwaar/routers/progressRoutes"
	surahRoutes "anwaar/routers/surahRoutes"
	"anwaar/utils"

	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	bus, err := realtime.NewBus(config.AppConfig.RedisAddr, config.AppConfig.RedisChannel)
	if err != nil {
		log.Fatalf("Failed to connect realtime bus: %v", err)
	}
	defer bus.Close()
	accessController.Bus = bus
	adminController.Bus = bus

	utils.InitializeKeyScheduler()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	progressRoutes.SetupProgressRoutes(app)
	accessRoutes.SetupAccessRoutes(app)
	adminRoutes.SetupAdminRoutes(app)
	surahRoutes.SetupSurahRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
