package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/metrics"
	"storefront/internal/repository"
	"storefront/internal/routes"
	"storefront/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		cancel()
		log.Fatalf("❌ %v", err)
	}
	db := client.Database(cfg.MongoDB)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		cancel()
		log.Fatalf("❌ %v", err)
	}
	cancel()
	log.Println("✅ Connected to MongoDB")

	var store cache.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		store = cache.NewRedis(rdb, cfg.CacheTTL)
		log.Println("✅ Using Redis cache at", cfg.RedisAddr)
	} else {
		mem := cache.NewMemory(cfg.CacheTTL)
		defer mem.Close()
		store = mem
		log.Println("🧠 Using in-memory cache")
	}

	productRepo := repository.NewProductRepository(db.Collection(database.Products))
	cartRepo := repository.NewCartRepository(db.Collection(database.Carts))
	userRepo := repository.NewUserRepository(db.Collection(database.Users))
	orderRepo := repository.NewOrderRepository(db.Collection(database.Orders))

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	accounts := service.NewAccountService(userRepo, orderRepo, tokens)

	var google handlers.GoogleAuth
	if cfg.GoogleEnabled() {
		google = auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	} else {
		log.Println("⚠️ Google login disabled: GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET not set")
	}

	gin.SetMode(cfg.GinMode)
	if err := handlers.RegisterValidators(); err != nil {
		log.Fatalf("❌ %v", err)
	}
	secure := cfg.GinMode == gin.ReleaseMode

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	srvMetrics := metrics.NewServerMetrics(reg)

	router := gin.Default()
	router.Use(handlers.RequestID(), srvMetrics.Middleware(), handlers.Timeout(cfg.RequestTimeout))

	routes.RegisterRoutes(router, tokens, routes.Handlers{
		Products: handlers.NewProductHandler(service.NewProductService(productRepo, store, cfg.CacheTTL)),
		Cart:     handlers.NewCartHandler(service.NewCartService(cartRepo, productRepo)),
		Users:    handlers.NewUserHandler(accounts, secure),
		Auth:     handlers.NewAuthHandler(google, accounts, secure),
		Orders:   handlers.NewOrderHandler(service.NewOrderService(orderRepo, cartRepo, productRepo, cfg.ShippingFee)),
		Health: handlers.NewHealthHandler(
			func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
			productRepo.Count,
		),
		Metrics: metrics.Handler(reg),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("🚀 Server running on port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Printf("mongo disconnect: %v", err)
	}
	log.Println("server exited")
}
