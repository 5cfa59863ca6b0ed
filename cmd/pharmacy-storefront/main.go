package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medikart/pharmacy-storefront/internal/api/handlers"
	"github.com/medikart/pharmacy-storefront/internal/api/middleware"
	"github.com/medikart/pharmacy-storefront/internal/cache"
	"github.com/medikart/pharmacy-storefront/internal/config"
	"github.com/medikart/pharmacy-storefront/internal/health"
	"github.com/medikart/pharmacy-storefront/internal/metrics"
	service "github.com/medikart/pharmacy-storefront/internal/services"
	"github.com/medikart/pharmacy-storefront/internal/telemetry"
	"github.com/medikart/pharmacy-storefront/pkg/commerce"
	"github.com/medikart/pharmacy-storefront/pkg/sendgrid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	shutdownTracing, err := telemetry.Setup(context.Background(), cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		slog.Error("❌ Error setting up tracing", "error", err.Error())
		os.Exit(1)
	}

	// Redis setup
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
		}
	}()

	commerceClient := commerce.NewClient(cfg.Commerce.BaseURL, cfg.Commerce.Timeout)
	productCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	sendGridClient := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	notificationService := service.NewNotificationService(sendGridClient)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	productService := service.NewProductService(commerceClient, productCache)
	productHandler := handlers.NewProductHandler(productService)

	cartService := service.NewCartService(commerceClient)
	cartHandler := handlers.NewCartHandler(cartService)

	chatService := service.NewChatService(
		service.NewRuleBasedResponder(),
		cfg.Chat.ConnectDelay,
		cfg.Chat.PharmacistName,
		cfg.Chat.PharmacistSpecialty,
	)
	chatHandler := handlers.NewChatHandler(chatService)

	customerService := service.NewCustomerService(commerceClient)
	customerHandler := handlers.NewCustomerHandler(customerService)

	orderService := service.NewOrderService(commerceClient, notificationService)
	orderHandler := handlers.NewOrderHandler(orderService)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error setting up health checks", "error", err.Error())
		os.Exit(1)
	}

	// Seed the local cart mirror from the remote cart. A failure is not
	// fatal: the store starts empty with its error flag set.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Commerce.Timeout)
	if err := cartService.Load(loadCtx); err != nil {
		slog.Warn("⚠️ Initial cart load failed, starting empty", slog.String("error", err.Error()))
	}
	cancelLoad()

	slog.Info("storefront initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("POST /api/v1/products", productHandler.CreateProduct())
	routerMux.HandleFunc("PUT /api/v1/products/{id}", productHandler.UpdateProduct())
	routerMux.HandleFunc("GET /api/v1/cart", cartHandler.GetCart())
	routerMux.HandleFunc("POST /api/v1/cart/items", cartHandler.AddItem())
	routerMux.HandleFunc("PUT /api/v1/cart/items", cartHandler.UpdateQuantity())
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{id}", cartHandler.RemoveItem())
	routerMux.HandleFunc("DELETE /api/v1/cart", cartHandler.ClearCart())
	routerMux.HandleFunc("POST /api/v1/chatbot", chatHandler.Chat())
	routerMux.HandleFunc("GET /api/v1/chatbot/{id}/history", chatHandler.History())
	routerMux.HandleFunc("GET /api/v1/customers", customerHandler.ListCustomers())
	routerMux.HandleFunc("POST /api/v1/customers", customerHandler.CreateCustomer())
	routerMux.HandleFunc("GET /api/v1/orders", orderHandler.ListOrders())
	routerMux.HandleFunc("PATCH /api/v1/orders/{id}/status", orderHandler.UpdateOrderStatus())
	routerMux.HandleFunc("POST /api/v1/notifications/email", notificationHandler.SendEmail())
	routerMux.HandleFunc("GET /api/v1/notifications", notificationHandler.ListNotifications())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "pharmacy-storefront")

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracing shutdown encountered an issue", slog.String("error", err.Error()))
	}

}
