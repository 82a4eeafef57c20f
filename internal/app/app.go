package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Sujay149/Kerala-migrates-sub001/internal/config"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/domain/services"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/infrastructure/cache"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/infrastructure/database"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/infrastructure/database/repositories"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/interfaces/handlers"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/qr"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/token"
	"github.com/Sujay149/Kerala-migrates-sub001/pkg/logger"
)

func Run(cfg config.Config) error {
	db, err := database.NewPostgresDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	codec, err := token.NewCodec(cfg.Token.EncryptionKey)
	if err != nil {
		return err
	}
	qrGen := qr.NewGenerator(cfg.QR.BaseURL, cfg.QR.Size)

	userRepo := repositories.NewUserRepository(db.Pool())
	sessionRepo := repositories.NewSessionRepository(db.Pool())
	accessLogRepo := repositories.NewAccessLogRepository(db.Pool())
	subRepo := repositories.NewSubmissionRepository(db.DB())

	cacheSvc := services.NewRedisCacheService(redisClient, cfg.Auth.CacheDuration)
	authSvc := services.NewAuthService(userRepo, sessionRepo, cfg.Auth.AdminToken, cfg.Auth.TokenDuration)
	subSvc := services.NewSubmissionService(subRepo, accessLogRepo, cacheSvc, codec, qrGen)

	authHandler := handlers.NewAuthHandler(authSvc)
	subHandler := handlers.NewSubmissionHandler(subSvc, authSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handlers.HeadToGetMiddleware())
	r.Use(handlers.CORSMiddleware())

	api := r.Group("/api")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/auth", authHandler.Authenticate)
		api.DELETE("/auth/:token", authHandler.Logout)

		api.POST("/submissions", subHandler.Create)
		api.GET("/submissions", subHandler.GetList)
		api.HEAD("/submissions", subHandler.GetList)
		api.GET("/submissions/:id", subHandler.GetByID)
		api.HEAD("/submissions/:id", subHandler.GetByID)

		api.GET("/admin/submissions/:id", subHandler.AdminGet)
		api.POST("/admin/submissions/:id/files/:fileId/review", subHandler.ReviewFile)

		api.POST("/qr/:token", subHandler.QRAccess)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
