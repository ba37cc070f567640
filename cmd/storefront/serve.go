package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/orchardlabs/storefront/internal/config"
	"github.com/orchardlabs/storefront/internal/gateway"
	"github.com/orchardlabs/storefront/internal/handlers"
	"github.com/orchardlabs/storefront/internal/httpx"
	"github.com/orchardlabs/storefront/internal/messaging"
	"github.com/orchardlabs/storefront/internal/notify"
	"github.com/orchardlabs/storefront/internal/repository"
	"github.com/orchardlabs/storefront/internal/service"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP API",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

func runServer() {
	log.Println("Storefront API starting...")

	cfg := config.Load()

	db, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}
	defer db.Close()

	// Notifications are best effort: a broker that is down at startup
	// downgrades them to no-ops instead of blocking the API.
	var notifier notify.Notifier = notify.NopNotifier{}
	rabbitClient := messaging.NewClient(messaging.NewConfig())
	if err := rabbitClient.Connect(); err != nil {
		log.Printf("RabbitMQ unavailable, notifications disabled: %v", err)
	} else {
		defer rabbitClient.Close()
		notifier = notify.NewAMQPNotifier(messaging.NewPublisher(rabbitClient))
	}

	stripeGateway := gateway.NewStripeClient(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
	razorpayGateway := gateway.NewRazorpayClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	userRepo := repository.NewUserRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	orderService := service.NewOrderService(orderRepo, userRepo, notifier)
	paymentService := service.NewPaymentService(orderRepo, userRepo, stripeGateway, razorpayGateway, notifier)
	productService := service.NewProductService(productRepo)
	adminService := service.NewAdminService(statsRepo, userRepo, cfg.LowStockThreshold)

	app := newFiberApp()

	router := &handlers.Router{
		Orders:   handlers.NewOrderHandler(orderService),
		Payments: handlers.NewPaymentHandler(paymentService),
		Products: handlers.NewProductHandler(productService),
		Admin:    handlers.NewAdminHandler(adminService),
		Verifier: userRepo,
	}
	router.Setup(app)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Storefront API shutting down...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("Storefront API listening on :%s", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func newFiberApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Storefront API v1.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok && e.Code < fiber.StatusInternalServerError {
				return httpx.Fail(c, e.Code, "REQUEST_ERROR", e.Message, nil)
			}
			log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
			return httpx.InternalServerError(c)
		},
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} - ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Request-ID",
	}))

	return app
}
