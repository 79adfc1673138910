package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Athah222/Label-Athah/auth"
	"github.com/Athah222/Label-Athah/checkout"
	"github.com/Athah222/Label-Athah/coupon"
	"github.com/Athah222/Label-Athah/events"
	"github.com/Athah222/Label-Athah/gateway"
	"github.com/Athah222/Label-Athah/live"
	"github.com/Athah222/Label-Athah/models"
	"github.com/Athah222/Label-Athah/notify"
	"github.com/Athah222/Label-Athah/routes"
	"github.com/Athah222/Label-Athah/store"
)

func main() {
	// Load environment variables
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("GIN_MODE") != "release" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	log.Info().Msg("✅ Starting application...")

	// Init DB
	db := initDatabase()

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Coupon{},
		&models.Order{},
		&models.OrderItem{},
		&models.ShippingAddress{},
		&models.Review{},
	); err != nil {
		log.Fatal().Err(err).Msg("❌ AutoMigrate failed")
	}

	// Cart persistence: Redis when configured, in-memory otherwise
	carts := initCartBackend()

	// Firebase login (optional; /auth/login returns 503 until configured)
	if err := auth.Init(context.Background()); err != nil {
		log.Warn().Err(err).Msg("Firebase auth not configured")
	}

	// Payment gateway
	gw := gateway.NewRazorpayClient(
		os.Getenv("RAZORPAY_KEY_ID"),
		os.Getenv("RAZORPAY_KEY_SECRET"),
	)

	// Best-effort notification targets
	var mailer notify.Mailer
	if os.Getenv("SMTP_HOST") != "" {
		mailer = notify.NewSMTPMailer(
			os.Getenv("SMTP_HOST"),
			os.Getenv("SMTP_PORT"),
			os.Getenv("SMTP_USERNAME"),
			os.Getenv("SMTP_PASSWORD"),
			os.Getenv("SMTP_FROM"),
			os.Getenv("ADMIN_EMAIL"),
		)
	} else {
		log.Warn().Msg("SMTP not configured, order emails disabled")
	}

	var publisher events.Publisher
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		p, err := events.NewAMQPPublisher(amqpURL)
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ unavailable, order events disabled")
		} else {
			publisher = p
			defer p.Close()
		}
	}

	hub := live.NewHub()

	// Checkout pipeline
	resolver := coupon.NewResolver(db)
	pipeline := checkout.NewPipeline(checkout.NewGormOrderRepo(db), gw, resolver, carts).
		WithNotifiers(mailer, publisher, hub)
	if waitStr := os.Getenv("CHECKOUT_CALLBACK_TIMEOUT"); waitStr != "" {
		if wait, err := time.ParseDuration(waitStr); err == nil {
			pipeline.WithCallbackWait(wait)
		} else {
			log.Warn().Str("value", waitStr).Msg("Invalid CHECKOUT_CALLBACK_TIMEOUT, using default")
		}
	}

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup routes
	routes.SetupRoutes(r, routes.Deps{
		DB:        db,
		Carts:     carts,
		Pipeline:  pipeline,
		Coupons:   resolver,
		Mailer:    mailer,
		Publisher: publisher,
		Hub:       hub,
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Info().Str("port", port).Msg("🚀 Server running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("❌ Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
	log.Info().Msg("Server exited")
}

// initDatabase sets up the GORM DB connection
func initDatabase() *gorm.DB {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			log.Fatal().Err(err).Msg("❌ DB connection failed")
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to connect DB")
	}
	return db
}

// initCartBackend picks Redis when REDIS_ADDR is set and reachable, otherwise
// falls back to the in-memory store (carts then die with the process).
func initCartBackend() store.Backend {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Warn().Msg("REDIS_ADDR not set, using in-memory cart store")
		return store.NewMemoryBackend()
	}

	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if n, err := strconv.Atoi(dbStr); err == nil {
			redisDB = n
		}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("Redis unreachable, using in-memory cart store")
		return store.NewMemoryBackend()
	}

	ttl := 30 * 24 * time.Hour
	if ttlStr := os.Getenv("CART_TTL"); ttlStr != "" {
		if d, err := time.ParseDuration(ttlStr); err == nil {
			ttl = d
		}
	}
	log.Info().Str("addr", addr).Msg("Cart store backed by Redis")
	return store.NewRedisBackend(client, ttl)
}
