package usercontext

import "github.com/gofiber/fiber/v2"

// UserContext represents the authenticated user for a request
type UserContext struct {
	UserID     uint   `json:"user_id"`
	Email      string `json:"email"`
	IsLoggedIn bool   `json:"is_logged_in"`
	IsAdmin    bool   `json:"is_admin"`
}

const contextKey = "USER_CONTEXT"

// Set stores the user context on the fiber request
func Set(c *fiber.Ctx, ctx UserContext) {
	c.Locals(contextKey, ctx)
}

// Get retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func Get(c *fiber.Ctx) UserContext {
	if ctx := c.Locals(contextKey); ctx != nil {
		return ctx.(UserContext)
	}
	return UserContext{IsLoggedIn: false, IsAdmin: false}
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	return Get(c).UserID
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return Get(c).IsLoggedIn
}
