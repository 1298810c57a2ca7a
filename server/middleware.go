package main

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

const ownerKey = "ownerID"

// requireAuth verifies the Authorization header and stashes the owner id
// in the request locals. The header carries the raw token; a "Bearer "
// prefix is tolerated.
func (a *api) requireAuth(c fiber.Ctx) error {
	token := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")

	ownerID, err := a.auth.Authenticate(token)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "unauthenticated"})
	}

	c.Locals(ownerKey, ownerID)
	return c.Next()
}

func ownerFrom(c fiber.Ctx) string {
	id, _ := c.Locals(ownerKey).(string)
	return id
}
