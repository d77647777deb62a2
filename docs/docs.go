// Package docs holds the OpenAPI document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "Organization": {"type": "apiKey", "name": "X-Organization-ID", "in": "header"}
    },
    "security": [{"Organization": []}],
    "paths": {
        "/health": {
            "get": {"tags": ["health"], "summary": "Database readiness", "security": [],
                "responses": {"200": {"description": "healthy"}, "503": {"description": "dependency unavailable", "schema": {"$ref": "#/definitions/Error"}}}}
        },
        "/healthz": {
            "get": {"tags": ["health"], "summary": "Liveness probe", "security": [], "responses": {"200": {"description": "alive"}}}
        },
        "/dashboard": {
            "get": {"tags": ["dashboard"], "summary": "Status counts and requirements expiring within 30 days",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Dashboard"}}}}
        },
        "/requirements": {
            "get": {"tags": ["requirements"], "summary": "List requirements (statuses refreshed first)",
                "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["requirements"], "summary": "Create a requirement",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RequirementInput"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Requirement"}}, "400": {"description": "validation error", "schema": {"$ref": "#/definitions/Error"}}}}
        },
        "/requirements/export.csv": {
            "get": {"tags": ["requirements"], "summary": "Export requirements as CSV", "produces": ["text/csv"],
                "responses": {"200": {"description": "CSV attachment"}}}
        },
        "/requirements/{id}": {
            "parameters": [{"in": "path", "name": "id", "type": "string", "format": "uuid", "required": true}],
            "get": {"tags": ["requirements"], "summary": "Get a requirement",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Requirement"}}, "404": {"description": "not found", "schema": {"$ref": "#/definitions/Error"}}}},
            "put": {"tags": ["requirements"], "summary": "Update a requirement",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RequirementInput"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Requirement"}}}},
            "delete": {"tags": ["requirements"], "summary": "Delete a requirement and its documents",
                "responses": {"204": {"description": "No Content"}}}
        },
        "/requirements/{id}/documents": {
            "parameters": [{"in": "path", "name": "id", "type": "string", "format": "uuid", "required": true}],
            "get": {"tags": ["documents"], "summary": "List document versions, newest first",
                "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["documents"], "summary": "Upload a document version", "consumes": ["multipart/form-data"],
                "parameters": [
                    {"in": "formData", "name": "file", "type": "file", "required": true},
                    {"in": "formData", "name": "description", "type": "string"}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Document"}}, "400": {"description": "invalid file", "schema": {"$ref": "#/definitions/Error"}}}}
        },
        "/requirements/{id}/test-reminder": {
            "parameters": [{"in": "path", "name": "id", "type": "string", "format": "uuid", "required": true}],
            "post": {"tags": ["reminders"], "summary": "Send one reminder now, bypassing schedule and dedup",
                "parameters": [{"in": "body", "name": "body", "schema": {"$ref": "#/definitions/TestReminder"}}],
                "responses": {"200": {"description": "sent"}, "502": {"description": "send failed", "schema": {"$ref": "#/definitions/Error"}}}}
        },
        "/documents/{id}": {
            "parameters": [{"in": "path", "name": "id", "type": "string", "format": "uuid", "required": true}],
            "get": {"tags": ["documents"], "summary": "Get document metadata",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Document"}}}},
            "delete": {"tags": ["documents"], "summary": "Delete a document version",
                "responses": {"204": {"description": "No Content"}}}
        },
        "/documents/{id}/download": {
            "parameters": [{"in": "path", "name": "id", "type": "string", "format": "uuid", "required": true}],
            "get": {"tags": ["documents"], "summary": "Redirect to a presigned download URL",
                "responses": {"307": {"description": "Temporary Redirect"}}}
        }
    },
    "definitions": {
        "Error": {"type": "object", "properties": {
            "request_id": {"type": "string"},
            "error": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}}}
        }},
        "RequirementInput": {"type": "object", "required": ["name", "expiration_date"], "properties": {
            "name": {"type": "string", "maxLength": 200},
            "description": {"type": "string"},
            "expiration_date": {"type": "string", "format": "date"},
            "renewal_frequency": {"type": "string", "maxLength": 50}
        }},
        "Requirement": {"type": "object", "properties": {
            "id": {"type": "string"},
            "organization_id": {"type": "string"},
            "name": {"type": "string"},
            "description": {"type": "string"},
            "expiration_date": {"type": "string", "format": "date-time"},
            "renewal_frequency": {"type": "string"},
            "status": {"type": "string", "enum": ["compliant", "expiring_soon", "expired", "missing"]},
            "document_count": {"type": "integer"},
            "created_at": {"type": "string", "format": "date-time"},
            "updated_at": {"type": "string", "format": "date-time"}
        }},
        "Document": {"type": "object", "properties": {
            "id": {"type": "string"},
            "requirement_id": {"type": "string"},
            "filename": {"type": "string"},
            "description": {"type": "string"},
            "size": {"type": "integer"},
            "content_type": {"type": "string"},
            "version": {"type": "integer"},
            "uploaded_at": {"type": "string", "format": "date-time"}
        }},
        "Dashboard": {"type": "object", "properties": {
            "counts": {"type": "object"},
            "expiring_soon": {"type": "array", "items": {"$ref": "#/definitions/Requirement"}}
        }},
        "TestReminder": {"type": "object", "properties": {
            "email": {"type": "string", "format": "email"},
            "type": {"type": "string", "enum": ["30_day", "7_day", "day_of"]}
        }}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "ComplyTrack API",
	Description:      "Compliance requirement tracking with expiry reminders.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
