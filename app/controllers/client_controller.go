package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/paynudge/paynudge/app/models"
	"github.com/paynudge/paynudge/app/repository"
	"github.com/paynudge/paynudge/internal/pkg/usercontext"
)

type clientForm struct {
	Name        string `json:"name" validate:"required,min=2,max=150"`
	Email       string `json:"email" validate:"omitempty,email,max=200"`
	CompanyName string `json:"company_name" validate:"max=200"`
	Notes       string `json:"notes" validate:"max=2000"`
}

// HandleListClients returns all clients of the authenticated user.
func HandleListClients(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	clients, err := repository.GetGlobalFactory().GetClientRepository().ListByUser(userID)
	if err != nil {
		log.Printf("client list failed for user %d: %v", userID, err)
		return internalError(c, "Failed to load clients")
	}
	return c.JSON(fiber.Map{"clients": clients})
}

// HandleCreateClient creates a client owned by the authenticated user.
func HandleCreateClient(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	var form clientForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(form); err != nil {
		return validationErrorResponse(c, err)
	}

	client := &models.Client{
		UserID:      userID,
		Name:        form.Name,
		Email:       form.Email,
		CompanyName: form.CompanyName,
		Notes:       form.Notes,
	}
	if err := repository.GetGlobalFactory().GetClientRepository().Create(client); err != nil {
		log.Printf("client create failed for user %d: %v", userID, err)
		return internalError(c, "Failed to create client")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"client": client})
}

// HandleUpdateClient updates a client owned by the authenticated user.
func HandleUpdateClient(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	clientID := parseIDParam(c, "id")
	if clientID == 0 {
		return badRequest(c, "Invalid client id")
	}

	var form clientForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(form); err != nil {
		return validationErrorResponse(c, err)
	}

	repo := repository.GetGlobalFactory().GetClientRepository()
	client, err := repo.GetByID(clientID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Client not found")
		}
		return internalError(c, "Failed to load client")
	}

	client.Name = form.Name
	client.Email = form.Email
	client.CompanyName = form.CompanyName
	client.Notes = form.Notes
	if err := repo.Update(client); err != nil {
		log.Printf("client update failed for user %d: %v", userID, err)
		return internalError(c, "Failed to update client")
	}
	return c.JSON(fiber.Map{"client": client})
}

// HandleDeleteClient deletes a client owned by the authenticated user.
func HandleDeleteClient(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	clientID := parseIDParam(c, "id")
	if clientID == 0 {
		return badRequest(c, "Invalid client id")
	}

	if err := repository.GetGlobalFactory().GetClientRepository().Delete(clientID, userID); err != nil {
		log.Printf("client delete failed for user %d: %v", userID, err)
		return internalError(c, "Failed to delete client")
	}
	return c.JSON(fiber.Map{"ok": true})
}
