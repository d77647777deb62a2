package handler

import (
	"github.com/gofiber/fiber/v2"

	"complytrack/internal/http/middleware"
	"complytrack/internal/service"
)

// UploadDocument stores a new document version (multipart/form-data, field name: file).
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		if !service.AllowedFile(fh.Filename) {
			return writeServiceError(c, service.ErrInvalidFileType)
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := svc.Upload(c.UserContext(), middleware.OrganizationIDFromCtx(c), id, service.UploadInput{
			Reader:           f,
			OriginalFilename: fh.Filename,
			ContentType:      ct,
			Size:             fh.Size,
			Description:      c.FormValue("description"),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		doc, err := svc.Get(c.UserContext(), middleware.OrganizationIDFromCtx(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DownloadDocument redirects to a short-lived presigned URL for the document's content.
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		u, err := svc.DownloadURL(c.UserContext(), middleware.OrganizationIDFromCtx(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Redirect(u, fiber.StatusTemporaryRedirect)
	}
}

func DeleteDocument(svc service.DocumentService) fiber.Handler {
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
