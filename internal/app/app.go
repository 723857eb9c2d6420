package app

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"smsauth/internal/config"
	"smsauth/internal/database"
	"smsauth/internal/handlers"
	"smsauth/internal/repositories"
	"smsauth/internal/routes"
	"smsauth/internal/services"
	"smsauth/internal/utils"

	_ "smsauth/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()

	// Схема накатывается до старта сервера
	if err := database.RunMigrations(cfg.Database.DSN); err != nil {
		log.Fatal("Ошибка миграций: ", err)
	}

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	verifRepo := repositories.NewPhoneVerificationRepository(db)

	// === Services ===
	smsClient := utils.NewClient(cfg.SMSRu.APIID, cfg.SMSRu.From, cfg.SMSRu.DryRun)
	codeGen := services.NewCodeGenerator()
	authService := services.NewAuthService(userRepo)
	registrationService := services.NewRegistrationService(
		verifRepo, userRepo, authService, smsClient, codeGen, cfg.CodeTTL(),
	)
	resetService := services.NewPasswordResetService(
		verifRepo, userRepo, authService, smsClient, codeGen, cfg.CodeTTL(),
	)

	// === Handlers ===
	registerHandler := handlers.NewRegisterHandler(registrationService)
	authHandler := handlers.NewAuthHandler(authService)
	passwordHandler := handlers.NewPasswordHandler(resetService)

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(router, registerHandler, authHandler, passwordHandler)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
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
