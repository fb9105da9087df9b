package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"paystack-donation-api/config"
	"paystack-donation-api/database"
	"paystack-donation-api/handlers"
	"paystack-donation-api/ledger"
	"paystack-donation-api/middleware"
	"paystack-donation-api/models"
	"paystack-donation-api/pending"
	"paystack-donation-api/services/email"
	"paystack-donation-api/services/payment"
	"paystack-donation-api/services/payment/paystack"
	"paystack-donation-api/utils"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds | log.LUTC)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.Printf("Configuration loaded: %s", cfg)

	donationLedger, err := ledger.NewCSVLedger(cfg.Ledger.Path)
	if err != nil {
		log.Fatalf("Failed to open donation ledger: %v", err)
	}

	recorders := []ledger.Recorder{donationLedger}
	checks := map[string]handlers.HealthCheck{
		"ledger": func(context.Context) error { return donationLedger.Check() },
	}

	if cfg.Database.Enabled() {
		var db *database.Connection
		for retries := 0; retries < 5; retries++ {
			db, err = database.NewConnection(cfg.Database)
			if err == nil {
				break
			}
			retryDelay := time.Duration(retries+1) * time.Second
			log.Printf("Failed to connect to database (attempt %d/5): %v. Retrying in %v...",
				retries+1, err, retryDelay)
			time.Sleep(retryDelay)
		}
		if err != nil {
			log.Fatalf("Failed to connect to database after retries: %v", err)
		}
		defer db.Close()

		recorders = append(recorders, db)
		checks["database"] = db.PingContext
		log.Println("Mirroring donations to MySQL")
	}

	proxies, err := middleware.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		log.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
	}

	var pendingStore pending.Store
	var rateLimiter *middleware.RateLimiter
	if cfg.Redis.URL != "" {
		redisStore, err := pending.NewRedisStore(cfg.Redis.URL, "donation", cfg.Redis.PendingTTL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		pendingStore = redisStore
		rateLimiter = middleware.NewRateLimiter(redisStore.Client(), proxies)
		checks["redis"] = redisStore.Ping
		log.Println("Successfully connected to Redis")
	} else {
		pendingStore = pending.NewMemoryStore(cfg.Redis.PendingTTL)
	}
	defer pendingStore.Close()

	paymentService := payment.NewPaymentService(
		paystack.NewClient(cfg.Paystack.SecretKey, cfg.Paystack.BaseURL),
		models.Naira(cfg.Paystack.MinimumAmount),
		cfg.Paystack.Currency,
	)
	notifier := email.NewNotifier(email.NewSMTPService(cfg.SMTP), cfg.Org.Email, cfg.Org.Name)

	sessionSecret := cfg.Server.SessionSecret
	if sessionSecret == "" {
		log.Printf("Warning: SESSION_SECRET not set, flash messages will not survive a restart")
		sessionSecret = utils.GenerateRandomString(32)
	}
	sessionStore := sessions.NewCookieStore([]byte(sessionSecret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	donationHandler, err := handlers.NewDonationHandler(
		paymentService,
		pendingStore,
		ledger.Tee(recorders...),
		notifier,
		sessionStore,
		handlers.DonationHandlerConfig{
			PublicKey:   cfg.Paystack.PublicKey,
			CallbackURL: cfg.CallbackURL(),
		},
	)
	if err != nil {
		log.Fatalf("Failed to initialize donation handler: %v", err)
	}
	healthHandler := handlers.NewHealthHandler(checks)

	router := mux.NewRouter()
	router.Use(middleware.Recover)
	router.Use(middleware.CORS)
	router.Use(middleware.Logging)
	router.Use(middleware.SecurityHeaders)
	if rateLimiter != nil {
		router.Use(rateLimiter.RateLimitMiddleware())
	}

	router.HandleFunc("/", donationHandler.Index).Methods("GET")
	router.HandleFunc("/pay", donationHandler.Pay).Methods("POST", "OPTIONS")
	router.HandleFunc("/verify/{reference}", donationHandler.VerifyReference).Methods("GET", "OPTIONS")
	router.HandleFunc("/verify-payment", donationHandler.VerifyCallback).Methods("GET")
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutdown signal received, gracefully shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited properly")
}
