package main

import (
	"log"
	"os"

	"farmops/internal/database"
	"farmops/internal/handler"
	"farmops/internal/middleware"
	"farmops/internal/repository"
	"farmops/internal/service"
	"farmops/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Farm Works & Inventory API
// @version         1.0
// @description     Work approval and input stock ledger for farm operations.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "farmops"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	workRepo := repository.NewWorkRepository(db)
	inputRepo := repository.NewInputRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	referenceRepo := repository.NewReferenceRepository(db)
	userRepo := repository.NewUserRepository(db)

	checker := service.NewAvailabilityChecker(inputRepo)
	ledgerService := service.NewLedgerService(inputRepo, movementRepo, auditRepo, txManager, checker, wsHub)
	workService := service.NewWorkService(workRepo, inputRepo, referenceRepo, auditRepo, txManager, ledgerService, checker, wsHub)
	auditService := service.NewAuditService(auditRepo)
	referenceService := service.NewReferenceService(referenceRepo)
	userService := service.NewUserService(userRepo)

	// Initialize Handlers
	workHandler := handler.NewWorkHandler(workService, auditService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	auditHandler := handler.NewAuditHandler(auditService)
	referenceHandler := handler.NewReferenceHandler(referenceService)
	userHandler := handler.NewUserHandler(userService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	workHandler.RegisterRoutes(router.Group(""))
	ledgerHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))
	referenceHandler.RegisterRoutes(router.Group(""))
	userHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
