package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/paynudge/paynudge/app/controllers"
	"github.com/paynudge/paynudge/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "PayNudge API",
		})
	})

	// API v1 routes, authenticated with a per-user API key
	v1 := api.Group("/v1", middleware.APIKeyAuthMiddleware())

	v1.Get("/account", controllers.HandleGetAccount)
	v1.Put("/account/settings", controllers.HandleUpdateAccountSettings)
	v1.Post("/account/api-key", controllers.HandleIssueAPIKey)
	v1.Delete("/account/api-key", controllers.HandleRevokeAPIKey)

	v1.Get("/clients", controllers.HandleListClients)
	v1.Post("/clients", controllers.HandleCreateClient)
	v1.Put("/clients/:id", controllers.HandleUpdateClient)
	v1.Delete("/clients/:id", controllers.HandleDeleteClient)

	v1.Get("/invoices", controllers.HandleListInvoices)
	v1.Post("/invoices", controllers.HandleCreateInvoice)
	v1.Put("/invoices/:id", controllers.HandleUpdateInvoice)
	v1.Post("/invoices/:id/mark-paid", controllers.HandleMarkInvoicePaid)
	v1.Delete("/invoices/:id", controllers.HandleDeleteInvoice)
	v1.Get("/invoices/:id/reminders", controllers.HandleListInvoiceReminders)

	v1.Get("/reminder-rules", controllers.HandleListReminderRules)
	v1.Post("/reminder-rules", controllers.HandleCreateReminderRule)
	v1.Put("/reminder-rules/:id", controllers.HandleUpdateReminderRule)
	v1.Delete("/reminder-rules/:id", controllers.HandleDeleteReminderRule)

	v1.Get("/reminder-templates", controllers.HandleListReminderTemplates)
	v1.Put("/reminder-templates", controllers.HandleUpsertReminderTemplate)
	v1.Delete("/reminder-templates/:tone", controllers.HandleDeleteReminderTemplate)

	// Internal cron endpoints, guarded by the shared secret
	internal := api.Group("/internal/cron", middleware.CronSecretMiddleware())
	internal.Post("/daily-reminders", controllers.HandleDailyReminders)
	internal.Get("/daily-reminders/last-summary", controllers.HandleLastReminderSummary)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
