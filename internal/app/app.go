package app

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "clubportal/docs"
	"clubportal/internal/config"
	"clubportal/internal/handlers"
	"clubportal/internal/middleware"
	"clubportal/internal/pdf"
	"clubportal/internal/repositories"
	"clubportal/internal/routes"
	"clubportal/internal/services"
	"clubportal/internal/usv"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()
	if err := db.Ping(); err != nil {
		log.Fatal("database unreachable: ", err)
	}

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)

	// === Services ===
	authService := services.NewAuthService()
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
		cfg.Server.BaseURL,
	)
	userService := services.NewUserService(userRepo, emailService, authService)
	resetService := services.NewPasswordResetService(userRepo, emailService, authService, cfg.Reset.TokenTTL)

	usvClient := usv.NewClient(cfg.USV.BaseURL, cfg.USV.DryRun,
		usv.WithAttemptTimeout(cfg.USV.AttemptTimeout))
	membershipService := services.NewMembershipService(userRepo, usvClient)

	cardGen := pdf.NewCardGenerator("USV Sportclub")

	// === Rate limiter (in-process by default, redis when configured) ===
	var limiter middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RedisAddr != "" {
			rdb := redis.NewClient(&redis.Options{Addr: cfg.RateLimit.RedisAddr})
			limiter = middleware.NewRedisRateLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window)
		} else {
			limiter = middleware.NewMemoryRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		}
	}

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService, authService, userRepo)
	userHandler := handlers.NewUserHandler(userService, cardGen)
	resetHandler := handlers.NewPasswordResetHandler(resetService)
	membershipHandler := handlers.NewMembershipHandler(membershipService, userService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		limiter,
		authHandler,
		userHandler,
		resetHandler,
		membershipHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server failed: ", err)
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
