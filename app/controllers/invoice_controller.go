package controllers

import (
	"errors"
	"log"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/paynudge/paynudge/app/models"
	"github.com/paynudge/paynudge/app/repository"
	"github.com/paynudge/paynudge/internal/pkg/usercontext"
)

type invoiceForm struct {
	ClientID      uint    `json:"client_id" validate:"required,gt=0"`
	InvoiceNumber string  `json:"invoice_number" validate:"required,min=1,max=100"`
	Amount        float64 `json:"amount" validate:"required,gt=0,lte=1000000"`
	IssueDate     string  `json:"issue_date" validate:"required"`
	DueDate       string  `json:"due_date" validate:"required"`
	Status        string  `json:"status" validate:"omitempty,oneof=draft sent paid void"`
}

// ensureClientOwned verifies the referenced client exists and belongs to the
// user. Invoices must never point at another user's client.
func ensureClientOwned(repo repository.ClientRepository, clientID, userID uint) error {
	_, err := repo.GetByID(clientID, userID)
	return err
}

// HandleListInvoices returns all invoices of the authenticated user with clients attached.
func HandleListInvoices(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	invoices, err := repository.GetGlobalFactory().GetInvoiceRepository().ListByUser(userID)
	if err != nil {
		log.Printf("invoice list failed for user %d: %v", userID, err)
		return internalError(c, "Failed to load invoices")
	}
	return c.JSON(fiber.Map{"invoices": invoices})
}

// HandleCreateInvoice creates an invoice for one of the user's clients.
func HandleCreateInvoice(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	var form invoiceForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(form); err != nil {
		return validationErrorResponse(c, err)
	}

	issueDate, ok := parseDateField(form.IssueDate)
	if !ok {
		return badRequest(c, "Invalid issue_date, expected YYYY-MM-DD")
	}
	dueDate, ok := parseDateField(form.DueDate)
	if !ok {
		return badRequest(c, "Invalid due_date, expected YYYY-MM-DD")
	}

	factory := repository.GetGlobalFactory()
	if err := ensureClientOwned(factory.GetClientRepository(), form.ClientID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return badRequest(c, "Unknown client")
		}
		return internalError(c, "Failed to verify client")
	}

	status := form.Status
	if status == "" {
		status = models.InvoiceStatusSent
	}

	invoice := &models.Invoice{
		UserID:        userID,
		ClientID:      form.ClientID,
		InvoiceNumber: form.InvoiceNumber,
		Currency:      "GBP",
		AmountPence:   int64(math.Round(form.Amount * 100)),
		IssueDate:     issueDate,
		DueDate:       dueDate,
		Status:        status,
	}
	if status == models.InvoiceStatusPaid {
		now := time.Now()
		invoice.PaidAt = &now
	}

	if err := factory.GetInvoiceRepository().Create(invoice); err != nil {
		log.Printf("invoice create failed for user %d: %v", userID, err)
		return internalError(c, "Failed to create invoice")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"invoice": invoice})
}

// HandleUpdateInvoice updates an invoice owned by the authenticated user.
// Setting status=paid also purges pending reminder records.
func HandleUpdateInvoice(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	invoiceID := parseIDParam(c, "id")
	if invoiceID == 0 {
		return badRequest(c, "Invalid invoice id")
	}

	var form invoiceForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(form); err != nil {
		return validationErrorResponse(c, err)
	}

	issueDate, ok := parseDateField(form.IssueDate)
	if !ok {
		return badRequest(c, "Invalid issue_date, expected YYYY-MM-DD")
	}
	dueDate, ok := parseDateField(form.DueDate)
	if !ok {
		return badRequest(c, "Invalid due_date, expected YYYY-MM-DD")
	}

	factory := repository.GetGlobalFactory()
	if err := ensureClientOwned(factory.GetClientRepository(), form.ClientID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return badRequest(c, "Unknown client")
		}
		return internalError(c, "Failed to verify client")
	}

	repo := factory.GetInvoiceRepository()
	invoice, err := repo.GetByID(invoiceID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Invoice not found")
		}
		return internalError(c, "Failed to load invoice")
	}

	now := time.Now()
	invoice.ClientID = form.ClientID
	invoice.InvoiceNumber = form.InvoiceNumber
	invoice.AmountPence = int64(math.Round(form.Amount * 100))
	invoice.IssueDate = issueDate
	invoice.DueDate = dueDate
	if form.Status != "" {
		invoice.Status = form.Status
		if form.Status == models.InvoiceStatusPaid {
			invoice.PaidAt = &now
		} else {
			invoice.PaidAt = nil
		}
	}

	if err := repo.Update(invoice); err != nil {
		log.Printf("invoice update failed for user %d: %v", userID, err)
		return internalError(c, "Failed to update invoice")
	}

	if invoice.Status == models.InvoiceStatusPaid {
		if err := factory.GetReminderRepository().DeletePendingByInvoice(invoice.ID, now); err != nil {
			log.Printf("pending reminder purge failed for invoice %d: %v", invoice.ID, err)
		}
	}

	return c.JSON(fiber.Map{"invoice": invoice})
}

// HandleMarkInvoicePaid transitions an invoice to paid and purges pending
// reminder records; sent history is kept.
func HandleMarkInvoicePaid(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	invoiceID := parseIDParam(c, "id")
	if invoiceID == 0 {
		return badRequest(c, "Invalid invoice id")
	}

	factory := repository.GetGlobalFactory()
	repo := factory.GetInvoiceRepository()
	invoice, err := repo.GetByID(invoiceID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Invoice not found")
		}
		return internalError(c, "Failed to load invoice")
	}

	now := time.Now()
	invoice.MarkPaid(now)
	if err := repo.Update(invoice); err != nil {
		log.Printf("invoice mark-paid failed for user %d: %v", userID, err)
		return internalError(c, "Failed to update invoice")
	}

	if err := factory.GetReminderRepository().DeletePendingByInvoice(invoice.ID, now); err != nil {
		log.Printf("pending reminder purge failed for invoice %d: %v", invoice.ID, err)
	}

	return c.JSON(fiber.Map{"invoice": invoice})
}

// HandleDeleteInvoice deletes an invoice owned by the authenticated user.
func HandleDeleteInvoice(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	invoiceID := parseIDParam(c, "id")
	if invoiceID == 0 {
		return badRequest(c, "Invalid invoice id")
	}

	if err := repository.GetGlobalFactory().GetInvoiceRepository().Delete(invoiceID, userID); err != nil {
		log.Printf("invoice delete failed for user %d: %v", userID, err)
		return internalError(c, "Failed to delete invoice")
	}
	return c.JSON(fiber.Map{"ok": true})
}

// HandleListInvoiceReminders returns the sent-reminder history for an invoice.
func HandleListInvoiceReminders(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	invoiceID := parseIDParam(c, "id")
	if invoiceID == 0 {
		return badRequest(c, "Invalid invoice id")
	}

	reminders, err := repository.GetGlobalFactory().GetReminderRepository().ListByInvoice(invoiceID, userID)
	if err != nil {
		log.Printf("reminder history fetch failed for invoice %d: %v", invoiceID, err)
		return internalError(c, "Failed to load reminders")
	}
	return c.JSON(fiber.Map{"reminders": reminders})
}
