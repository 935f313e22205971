package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/paynudge/paynudge/app/controllers"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	app.Get("/health", controllers.HandleHealth)

	// Stripe calls this endpoint directly; authentication is the signature
	// header, verified inside the handler against the raw body.
	app.Post("/api/webhooks/stripe", controllers.HandleStripeWebhook)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
