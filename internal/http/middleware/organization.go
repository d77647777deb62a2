package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// OrganizationHeader carries the caller's organization, set by the upstream auth layer.
	OrganizationHeader   = "X-Organization-ID"
	OrganizationLocalKey = "organization_id"
)

// ErrMissingOrganization is returned when OrganizationHeader is absent or not a UUID.
var ErrMissingOrganization = fiber.NewError(fiber.StatusBadRequest, "X-Organization-ID header must be a UUID")

// Organization scopes a route to the organization named in OrganizationHeader.
func Organization() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(OrganizationHeader)
		if _, err := uuid.Parse(id); err != nil {
			return ErrMissingOrganization
		}
		c.Locals(OrganizationLocalKey, id)
		return c.Next()
	}
}

// OrganizationIDFromCtx returns the organization stored by Organization, or "".
func OrganizationIDFromCtx(c *fiber.Ctx) string {
	id, _ := c.Locals(OrganizationLocalKey).(string)
	return id
}
