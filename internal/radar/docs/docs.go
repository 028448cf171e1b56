// Package docs holds the Swagger spec of the radar JSON API.
// Regenerate with: swag init -g cmd/radar-web/main.go -o internal/radar/docs
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
        "/view": {
            "get": {
                "description": "Returns the formatted view state of the caller's session and clears any pending notice",
                "produces": ["application/json"],
                "tags": ["view"],
                "summary": "Get the current view",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/presenter.PageView"}}
                }
            }
        },
        "/search": {
            "post": {
                "description": "Runs a search for the caller's session and returns the updated view",
                "produces": ["application/json"],
                "tags": ["view"],
                "summary": "Search companies",
                "parameters": [
                    {"type": "string", "description": "Company name or ticker", "name": "q", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/presenter.PageView"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/companies/{id}/select": {
            "post": {
                "description": "Selects a company of the current result set",
                "produces": ["application/json"],
                "tags": ["view"],
                "summary": "Select a company",
                "parameters": [
                    {"type": "string", "description": "Company key", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/presenter.PageView"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "presenter.StatsView": {
            "type": "object",
            "properties": {
                "total_companies": {"type": "string"},
                "total_searches": {"type": "string"},
                "high_risk_companies": {"type": "string"},
                "recent_updates": {"type": "string"}
            }
        },
        "presenter.CompanyCard": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "name": {"type": "string"},
                "symbol": {"type": "string"},
                "exchange": {"type": "string"},
                "risk_level": {"type": "string"},
                "risk_style": {"type": "string"},
                "price": {"type": "string"},
                "show_change_percent": {"type": "boolean"},
                "change_percent": {"type": "string"},
                "change_percent_up": {"type": "boolean"},
                "selected": {"type": "boolean"}
            }
        },
        "presenter.NewsItem": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "content": {"type": "string"},
                "source": {"type": "string"},
                "date": {"type": "string"}
            }
        },
        "presenter.NewsTab": {
            "type": "object",
            "properties": {
                "sentiment": {"type": "string"},
                "label": {"type": "string"},
                "count": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/presenter.NewsItem"}},
                "placeholder": {"type": "string"}
            }
        },
        "presenter.PageView": {
            "type": "object",
            "properties": {
                "query": {"type": "string"},
                "busy": {"type": "boolean"},
                "notice": {"type": "string"},
                "stats": {"$ref": "#/definitions/presenter.StatsView"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/presenter.CompanyCard"}},
                "detail": {"type": "object"},
                "trending": {"type": "array", "items": {"$ref": "#/definitions/presenter.CompanyCard"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Investor Radar API",
	Description:      "Session-scoped view of company search results, risk labels and news sentiment.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
