package app

import (
	"database/sql"
	"fmt"
	"log"

	"goblog/internal/config"
	"goblog/internal/handlers"
	"goblog/internal/middleware"
	"goblog/internal/pdf"
	"goblog/internal/repositories"
	"goblog/internal/routes"
	"goblog/internal/services"
	"goblog/internal/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "goblog/docs"
)

func Run() {
	cfg := config.LoadConfig()
	middleware.SetJWTKey(cfg.Auth.JWTSecret)

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()

	// === Redis (TTL-хранилище кодов подтверждения) ===
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("Ошибка закрытия Redis: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	articleRepo := repositories.NewArticleRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	codeStore := repositories.NewCodeRepository(rdb)

	// === Services ===
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	// SMS провайдер (Mobizon) из конфига
	mobizonClient := utils.NewClientWithOptions(
		cfg.Mobizon.APIKey,
		cfg.Mobizon.SenderID,
		cfg.Mobizon.DryRun,
	)

	captchaService := services.NewCaptchaService()
	verifyService := services.NewVerifyService(codeStore, captchaService, mobizonClient)
	userService := services.NewUserService(userRepo, verifyService)

	// канал в Telegram необязателен, без токена будет nil
	telegramService := services.NewTelegramService(cfg.Telegram.BotToken, cfg.Telegram.ChannelID)

	// PDF генератор (нужен TTF с кириллицей)
	pdfGen := pdf.NewArticleGenerator(cfg.Files.RootDir, "assets/fonts/DejaVuSans.ttf")

	articleService := services.NewArticleService(
		articleRepo,
		commentRepo,
		userRepo,
		emailService,
		telegramService,
		pdfGen,
	)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService, cfg.Files.RootDir)
	verifyHandler := handlers.NewVerifyHandler(verifyService)
	articleHandler := handlers.NewArticleHandler(articleService, cfg.Files.RootDir)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Статика (аватары и обложки)
	router.Static("/files", cfg.Files.RootDir)

	routes.SetupRoutes(
		router,
		authHandler,
		userHandler,
		verifyHandler,
		articleHandler,
	)

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
