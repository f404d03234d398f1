// Package docs registers the OpenAPI document served at /swagger.
// Regenerate the full path list with `swag init -g cmd/fraudguard/main.go -o docs`.
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
    "tags": [
        {"name": "users", "description": "Users and their accounts"},
        {"name": "accounts", "description": "Bank accounts"},
        {"name": "transactions", "description": "Transactions and rule evaluation"},
        {"name": "alerts", "description": "Fraud alert review"},
        {"name": "dashboard", "description": "Dashboard aggregates"},
        {"name": "analytics", "description": "Analytics and exports"},
        {"name": "health", "description": "Liveness and dependency checks"}
    ],
    "paths": {
        "/transactions": {
            "post": {
                "tags": ["transactions"],
                "summary": "Create a transaction",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "transaction", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Invalid input"},
                    "404": {"description": "Unknown account"},
                    "422": {"description": "Insufficient balance"}
                }
            },
            "get": {
                "tags": ["transactions"],
                "summary": "Filtered list of transactions, newest first",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/transactions/evaluate": {
            "post": {
                "tags": ["transactions"],
                "summary": "Dry-run the fraud rules",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "transaction", "required": true, "schema": {"type": "object"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid input"}}
            }
        },
        "/alerts/{id}/status": {
            "put": {
                "tags": ["alerts"],
                "summary": "Move an alert to another status",
                "parameters": [
                    {"in": "path", "name": "id", "type": "integer", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "alert not found"}}
            }
        },
        "/dashboard/statistics": {
            "get": {
                "tags": ["dashboard"],
                "summary": "Headline dashboard numbers",
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "2.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "FraudGuard API",
	Description:      "Banking fraud detection: users, accounts, transactions, fraud alerts and analytics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
