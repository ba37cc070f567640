package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/orchardlabs/storefront/internal/middleware"
)

// Router wires every handler onto the fiber app. The Stripe webhook is the
// one route outside the user auth middleware: it is authenticated by the
// provider signature instead.
type Router struct {
	Orders   *OrderHandler
	Payments *PaymentHandler
	Products *ProductHandler
	Admin    *AdminHandler
	Verifier middleware.TokenVerifier
}

func (r *Router) Setup(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	api.Post("/payments/stripe/webhook", r.Payments.StripeWebhook)

	protect := middleware.Protect(r.Verifier)
	admin := middleware.AdminOnly()

	orders := api.Group("/orders", protect)
	orders.Post("/", r.Orders.Create)
	orders.Get("/user/myorders", r.Orders.MyOrders)
	orders.Get("/", admin, r.Orders.List)
	orders.Get("/:id", r.Orders.GetByID)
	orders.Put("/:id/pay", r.Orders.Pay)
	orders.Put("/:id/status", admin, r.Orders.UpdateStatus)
	orders.Put("/:id/cancel", r.Orders.Cancel)

	payments := api.Group("/payments", protect)
	payments.Post("/stripe/create-intent", r.Payments.CreateStripeIntent)
	payments.Post("/stripe/confirm", r.Payments.ConfirmStripePayment)
	payments.Post("/razorpay/create-order", r.Payments.CreateRazorpayOrder)
	payments.Post("/razorpay/verify", r.Payments.VerifyRazorpayPayment)
	payments.Post("/cod/confirm", r.Payments.ConfirmCOD)

	products := api.Group("/products")
	products.Get("/", r.Products.List)
	products.Get("/:id", r.Products.GetByID)
	products.Post("/", protect, admin, r.Products.Create)
	products.Put("/:id", protect, admin, r.Products.Update)
	products.Delete("/:id", protect, admin, r.Products.Delete)
	products.Post("/:id/reviews", protect, r.Products.AddReview)

	adminGroup := api.Group("/admin", protect, admin)
	adminGroup.Get("/stats", r.Admin.Stats)
	adminGroup.Get("/analytics/sales", r.Admin.SalesAnalytics)
	adminGroup.Get("/users", r.Admin.ListUsers)
	adminGroup.Put("/users/:id/role", r.Admin.UpdateUserRole)
	adminGroup.Delete("/users/:id", r.Admin.DeleteUser)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Route not found",
		})
	})
}
