package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/moniquedpoliveira/licito3/config"
	"github.com/moniquedpoliveira/licito3/controllers"
	"github.com/moniquedpoliveira/licito3/middleware"
	"github.com/moniquedpoliveira/licito3/monitor"
	"github.com/moniquedpoliveira/licito3/routes"
	"github.com/moniquedpoliveira/licito3/services"
	"github.com/moniquedpoliveira/licito3/storage"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	// Pick the snapshot backend: Redis, then a data directory, then memory.
	var blobs storage.BlobStore
	switch {
	case os.Getenv("REDIS_ADDR") != "":
		if client := config.ConnectRedis(); client != nil {
			blobs = storage.NewRedisStore(client)
			log.Println("Snapshots persisted to Redis")
		}
	case os.Getenv("DATA_DIR") != "":
		fs, err := storage.NewFileStore(os.Getenv("DATA_DIR"))
		if err != nil {
			log.Printf("Warning: data directory unusable, falling back to memory: %v", err)
		} else {
			blobs = fs
			log.Printf("Snapshots persisted to %s", os.Getenv("DATA_DIR"))
		}
	}
	if blobs == nil {
		blobs = storage.NewMemoryStore()
		log.Println("Snapshots kept in memory only")
	}

	ctx := context.Background()
	gemini := config.InitGemini(ctx)
	if gemini != nil {
		defer gemini.Close()
	}

	// The reporting database is optional; without it the query endpoint
	// only generates SQL.
	reportingDB := config.InitReportingDB()

	var alerter services.Alerter
	if m := config.NewMailAlerter(); m != nil {
		alerter = m
	}

	records := services.NewSeededRecordStore()
	history := services.NewChecklistHistoryService(blobs)
	signatures := services.NewDigitalSignatureService(blobs)
	notifications := services.NewNotificationService(blobs, alerter)
	esclarecimentos := services.NewEsclarecimentoService(blobs, notifications)

	var generator services.TextGenerator
	if gemini != nil {
		generator = gemini
	}
	queries := services.NewQueryService(generator, reportingDB)
	chats := services.NewChatService(blobs, generator)

	deadlines := services.NewDeadlineService(records, notifications)
	stop := make(chan struct{})
	defer close(stop)
	go deadlines.Run(sweepInterval(), stop)

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(config.LogWriter))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORSMiddleware())

	monitor.RegisterMonitorPage(router)
	monitor.RegisterLogsRoute(router)

	routes.SetupRoutes(router, routes.Controllers{
		Auth:          controllers.NewAuthController(records),
		Contratos:     controllers.NewContratoController(records),
		Checklists:    controllers.NewChecklistController(records, history, notifications, esclarecimentos),
		History:       controllers.NewHistoryController(history),
		Signatures:    controllers.NewSignatureController(records, signatures, history),
		Notifications: controllers.NewNotificationController(notifications),
		Queries:       controllers.NewQueryController(queries),
		Chats:         controllers.NewChatController(chats),
	}, records)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if ginMode == "release" {
		log.Printf("Running in production mode")
	} else {
		log.Printf("Running in development mode")
	}

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func sweepInterval() time.Duration {
	raw := os.Getenv("LICITO_SWEEP_INTERVAL")
	if raw == "" {
		return time.Hour
	}
	interval, err := time.ParseDuration(raw)
	if err != nil || interval <= 0 {
		log.Printf("Warning: invalid LICITO_SWEEP_INTERVAL %q, using 1h", raw)
		return time.Hour
	}
	return interval
}
