// Package docs registers the portal's OpenAPI document with swag, served on
// /swagger/*. Regenerate with: swag init -g cmd/portal/main.go
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
    "paths": {
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health/ready": {
            "get": {
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}
            }
        },
        "/signin": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in",
                "responses": {
                    "303": {"description": "signed in, redirect to /dashboard"},
                    "401": {"description": "Unauthorized"},
                    "429": {"description": "Too Many Requests"}
                }
            }
        },
        "/dashboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Role dashboard",
                "parameters": [
                    {"type": "string", "description": "Dashboard option", "name": "view", "in": "query"},
                    {"type": "integer", "description": "Analytics month (1-12)", "name": "month", "in": "query"},
                    {"type": "integer", "description": "Analytics year", "name": "year", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "303": {"description": "redirect to /signin or /unauthorized"}}
            }
        },
        "/booking/{doctorId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["booking"],
                "summary": "Doctor availability",
                "parameters": [
                    {"type": "string", "description": "Doctor ID", "name": "doctorId", "in": "path", "required": true},
                    {"type": "string", "description": "Day to list (YYYY-MM-DD)", "name": "date", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["booking"],
                "summary": "Book a slot",
                "parameters": [
                    {"type": "string", "description": "Doctor ID", "name": "doctorId", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "no slot selected"},
                    "303": {"description": "booked, redirect to /dashboard"},
                    "409": {"description": "Conflict"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Clinic Portal API",
	Description:      "Backend-for-frontend of the clinic patient portal: auth session, role dashboards, booking and records.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
