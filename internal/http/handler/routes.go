package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"complytrack/internal/http/middleware"
	"complytrack/internal/service"
)

// Services bundles what the HTTP layer calls into.
type Services struct {
	Requirements service.RequirementService
	Documents    service.DocumentService
	Reminders    service.ReminderDispatcher
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Everything but the
// health probes is scoped to the caller's organization via X-Organization-ID.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	org := middleware.Organization()

	app.Get("/dashboard", org, GetDashboard(svc.Requirements))

	app.Get("/requirements", org, ListRequirements(svc.Requirements))
	app.Post("/requirements", org, CreateRequirement(svc.Requirements))
	// Registered before /requirements/:id so "export.csv" is not taken as an id.
	app.Get("/requirements/export.csv", org, ExportRequirements(svc.Requirements))
	app.Get("/requirements/:id", org, GetRequirement(svc.Requirements))
	app.Put("/requirements/:id", org, UpdateRequirement(svc.Requirements))
	app.Delete("/requirements/:id", org, DeleteRequirement(svc.Requirements))
	app.Get("/requirements/:id/documents", org, ListRequirementDocuments(svc.Requirements))
	app.Post("/requirements/:id/documents", org, UploadDocument(svc.Documents))
	app.Post("/requirements/:id/test-reminder", org, SendTestReminder(svc.Reminders))

	app.Get("/documents/:id", org, GetDocument(svc.Documents))
	app.Get("/documents/:id/download", org, DownloadDocument(svc.Documents))
	app.Delete("/documents/:id", org, DeleteDocument(svc.Documents))
}
