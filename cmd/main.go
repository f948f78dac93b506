package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"

	"shop_service/internal/auth"
	"shop_service/internal/catalog"
	"shop_service/internal/config"
	ocreate "shop_service/internal/http_server/handlers/order/create"
	oget "shop_service/internal/http_server/handlers/order/get"
	olist "shop_service/internal/http_server/handlers/order/list"
	oremove "shop_service/internal/http_server/handlers/order/remove"
	pget "shop_service/internal/http_server/handlers/product/get"
	plist "shop_service/internal/http_server/handlers/product/list"
	premove "shop_service/internal/http_server/handlers/product/remove"
	psave "shop_service/internal/http_server/handlers/product/save"
	pupdate "shop_service/internal/http_server/handlers/product/update"
	"shop_service/internal/http_server/handlers/user/login"
	uremove "shop_service/internal/http_server/handlers/user/remove"
	"shop_service/internal/http_server/handlers/user/signup"
	"shop_service/internal/http_server/middleware/authn"
	rateLimit "shop_service/internal/middleware/ratelimit"
	"shop_service/internal/orders"
	"shop_service/internal/rabbitmq"
	"shop_service/internal/storage/postgres"
	"shop_service/internal/storage/redis"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad("./config/config.yaml")

	log := setupLogger(cfg.Env)

	log.Info("starting shop service", slog.String("env", cfg.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("Shutdown signal received")
		cancel()
	}()

	storage, err := postgres.New(ctx, cfg)
	if err != nil {
		log.Error("failed to connect postgres", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	cache, err := redis.New(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Error("failed to connect redis", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer cache.Close()

	msgBroker, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
	if err != nil {
		log.Error("failed to connect rabbitmq", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer msgBroker.Close()

	authService := auth.New(log, storage, storage, cfg.Auth.Secret, cfg.Auth.AccessTokenTTL)
	catalogService := catalog.New(log, storage, storage, cache, cfg.Redis.CacheTTL)
	orderService := orders.New(log, storage, storage, storage, msgBroker)

	router := setupRouter(log, cfg, authService, catalogService, orderService)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server is running", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", slog.String("err", err.Error()))
			cancel()
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", slog.String("err", err.Error()))
	} else {
		log.Info("Server stopped gracefully")
	}

	log.Info("Main service stopped")
}

func setupRouter(
	log *slog.Logger,
	cfg *config.Config,
	authService *auth.Auth,
	catalogService *catalog.Catalog,
	orderService *orders.Orders,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	validate := validator.New()
	requireAuth := authn.New(log, cfg.Auth.Secret)
	timeout := cfg.HTTPServer.RequestTimeout

	r.Route("/user", func(r chi.Router) {
		r.With(rateLimit.Signup()).Post("/signup",
			signup.New(log, validate, authService, cfg.Auth.PasswordMinLength, timeout),
		)
		r.With(rateLimit.Login()).Post("/login",
			login.New(log, validate, authService, timeout),
		)
		r.With(requireAuth).Delete("/{userId}",
			uremove.New(log, authService, timeout),
		)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", plist.New(log, catalogService, timeout))
		r.Get("/{productId}", pget.New(log, catalogService, timeout))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", psave.New(log, validate, catalogService, timeout))
			r.Patch("/{productId}", pupdate.New(log, validate, catalogService, timeout))
			r.Delete("/{productId}", premove.New(log, catalogService, timeout))
		})
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", olist.New(log, orderService, timeout))
		r.Post("/", ocreate.New(log, validate, orderService, timeout))
		r.Get("/{orderId}", oget.New(log, orderService, timeout))
		r.Delete("/{orderId}", oremove.New(log, orderService, timeout))
	})

	return r
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
