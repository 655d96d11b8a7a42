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

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo"

	"eventhorizon/agi"
	"eventhorizon/auth"
	"eventhorizon/config"
	"eventhorizon/db"
	"eventhorizon/events"
	"eventhorizon/messages"
	"eventhorizon/mq"
	"eventhorizon/notifications"
	"eventhorizon/profile"
	"eventhorizon/proxy"
	"eventhorizon/ratelim"
	"eventhorizon/rdx"
	"eventhorizon/registrations"
	"eventhorizon/reviews"
	"eventhorizon/routes"
	"eventhorizon/storage"
	"eventhorizon/storage/memstore"
	"eventhorizon/storage/mongostore"
	"eventhorizon/storage/sqlitestore"
	"eventhorizon/teams"
	"eventhorizon/tickets"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s - %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

// openStore resolves the storage backend once at startup. Everything
// downstream depends on the storage.Store interface, never on which backend
// won.
func openStore(ctx context.Context, cfg config.Config) (storage.Store, *mongo.Database, error) {
	switch cfg.Backend() {
	case config.BackendMongo:
		database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, err
		}
		if err := db.EnsureIndexes(ctx, database); err != nil {
			return nil, nil, err
		}
		log.Printf("📦 Storage backend: mongo (%s)", cfg.MongoDBName)
		return mongostore.New(database), database, nil

	case config.BackendSQLite:
		store, err := sqlitestore.New(cfg.ResolvedSQLitePath())
		if err != nil {
			return nil, nil, err
		}
		log.Printf("📦 Storage backend: sqlite (%s)", cfg.ResolvedSQLitePath())
		return store, nil, nil

	default:
		log.Println("📦 Storage backend: in-memory (ephemeral)")
		return memstore.New(), nil, nil
	}
}

func setupRouter(cfg config.Config, store storage.Store, mongoDB *mongo.Database,
	rateLimiter *ratelim.RateLimiter, hub *messages.Hub) *httprouter.Router {

	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddAuthRoutes(router, rateLimiter, auth.NewHandler(store))
	routes.AddProfileRoutes(router, profile.NewHandler(store))
	routes.AddEventRoutes(router, rateLimiter, events.NewHandler(store))
	routes.AddRegistrationRoutes(router, rateLimiter, registrations.NewHandler(store))
	routes.AddTeamRoutes(router, teams.NewHandler(store))
	routes.AddTicketRoutes(router, tickets.NewHandler(store))
	routes.AddNotificationRoutes(router, notifications.NewHandler(store))
	routes.AddMessageRoutes(router, messages.NewHandler(store, hub), hub)
	routes.AddReviewRoutes(router, reviews.NewHandler(store))
	routes.AddAgiRoutes(router, rateLimiter, agi.NewHandler(store, cfg.GeminiAPIKey))
	routes.AddProxyRoutes(router, rateLimiter, proxy.NewHandler(mongoDB))
	routes.AddStaticRoutes(router)

	return router
}

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, mongoDB, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open storage backend: %v", err)
	}

	rdx.Connect(cfg.RedisAddr)

	rateLimiter := ratelim.NewRateLimiter()

	hub := messages.NewHub()
	go hub.Run()

	go mq.StartNotificationWorker(ctx, store, hub)

	router := setupRouter(cfg, store, mongoDB, rateLimiter, hub)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Shutting down hub and workers...")
		hub.Stop()
		cancel()
	})

	go func() {
		log.Printf("🚀 Server listening on %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}

	if err := store.Close(shutdownCtx); err != nil {
		log.Printf("⚠️ Failed to close storage backend: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
