package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vijaypastham/nutranexus-sub000/config"
	"github.com/Vijaypastham/nutranexus-sub000/controllers"
	"github.com/Vijaypastham/nutranexus-sub000/database"
	"github.com/Vijaypastham/nutranexus-sub000/logger"
	"github.com/Vijaypastham/nutranexus-sub000/models"
	"github.com/Vijaypastham/nutranexus-sub000/repository"
	"github.com/Vijaypastham/nutranexus-sub000/routes"
	"github.com/Vijaypastham/nutranexus-sub000/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, using system environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	logger.Initialize(cfg.AppEnv)
	defer logger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := db.AutoMigrate(&models.Order{}, &models.Refund{}); err != nil {
		logger.Log.Fatal("Failed to migrate schema", zap.Error(err))
	}

	orderRepo := repository.NewGormOrderRepository(db)
	refundRepo := repository.NewGormRefundRepository(db)

	stripeSvc := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookKey)
	orderSvc := services.NewOrderService(orderRepo, logger.Log)
	checkoutSvc := services.NewCheckoutService(orderRepo, stripeSvc, logger.Log)
	merchantSvc := services.NewMerchantService(orderRepo, refundRepo, stripeSvc, logger.Log)
	authSvc := services.NewAuthService(cfg.MerchantUsername, cfg.MerchantPassword, cfg.JWTSecret)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Register(r, routes.Controllers{
		Order:    controllers.NewOrderController(orderSvc),
		Stripe:   controllers.NewStripeController(checkoutSvc),
		Webhook:  controllers.NewWebhookController(stripeSvc, orderRepo, logger.Log),
		Merchant: controllers.NewMerchantController(merchantSvc, authSvc),
	}, authSvc)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Log.Info("Server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
