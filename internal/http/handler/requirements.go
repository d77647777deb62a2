package handler

import (
	"bytes"
	"errors"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"complytrack/internal/http/middleware"
	"complytrack/internal/model"
	"complytrack/internal/repository"
	"complytrack/internal/service"
)

const defaultPageLimit = 100

// pathID returns the :id param when it is a UUID.
func pathID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
}

func invalidBody(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
}

// ListRequirements returns one page (limit & offset) of the organization's requirements
// ordered by expiration. Every requirement is re-synced, not only the page.
func ListRequirements(svc service.RequirementService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultPageLimit)))
		if err != nil || limit < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil || offset < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		reqs, err := svc.List(c.UserContext(), middleware.OrganizationIDFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(repository.Paginate(reqs, repository.PageQuery{Limit: limit, Offset: offset}))
	}
}

func CreateRequirement(svc service.RequirementService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.RequirementInput
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
		req, err := svc.Create(c.UserContext(), middleware.OrganizationIDFromCtx(c), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(req)
	}
}

func GetRequirement(svc service.RequirementService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		req, err := svc.Get(c.UserContext(), middleware.OrganizationIDFromCtx(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(req)
	}
}

func UpdateRequirement(svc service.RequirementService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		var in service.RequirementInput
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
		req, err := svc.Update(c.UserContext(), middleware.OrganizationIDFromCtx(c), id, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(req)
	}
}

func DeleteRequirement(svc service.RequirementService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		if err := svc.Delete(c.UserContext(), middleware.OrganizationIDFromCtx(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListRequirementDocuments returns every stored version, newest first.
func ListRequirementDocuments(svc service.RequirementService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		docs, err := svc.Documents(c.UserContext(), middleware.OrganizationIDFromCtx(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(repository.Paginate(docs, repository.PageQuery{}))
	}
}

// ExportRequirements streams the organization's requirements as a CSV attachment.
func ExportRequirements(svc service.RequirementService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var buf bytes.Buffer
		if err := svc.ExportCSV(c.UserContext(), middleware.OrganizationIDFromCtx(c), &buf); err != nil {
			return writeServiceError(c, err)
		}
		c.Attachment("requirements.csv")
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		return c.Send(buf.Bytes())
	}
}

func GetDashboard(svc service.RequirementService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := svc.Dashboard(c.UserContext(), middleware.OrganizationIDFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(d)
	}
}

type testReminderRequest struct {
	Email string `json:"email"`
	Type  string `json:"type"`
}

func (r testReminderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, is.EmailFormat),
	)
}

// SendTestReminder force-sends one reminder, bypassing day matching and dedup.
// An empty email goes to the organization's recipient; type defaults to 7_day.
func SendTestReminder(reminders service.ReminderDispatcher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		var body testReminderRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return invalidBody(c)
			}
		}
		if err := body.Validate(); err != nil {
			return writeServiceError(c, err)
		}
		if body.Type == "" {
			body.Type = string(model.ReminderSevenDay)
		}
		t, ok := model.ParseReminderType(body.Type)
		if !ok {
			return writeServiceError(c, service.ErrUnknownReminderType)
		}

		err := reminders.SendTest(c.UserContext(), middleware.OrganizationIDFromCtx(c), id, body.Email, t)
		if err != nil {
			if isSendFailure(err) {
				return writeError(c, fiber.StatusBadGateway, "REMINDER_FAILED", "failed to send test reminder")
			}
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "test reminder sent", "type": t})
	}
}

// isSendFailure reports errors that are not one of the service's request-level sentinels.
func isSendFailure(err error) bool {
	for _, sentinel := range []error{
		service.ErrNotFound, service.ErrForbidden, service.ErrIDRequired,
		service.ErrOrganizationRequired, service.ErrUnknownReminderType, service.ErrNoRecipient,
	} {
		if errors.Is(err, sentinel) {
			return false
		}
	}
	return true
}
