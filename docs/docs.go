// Package docs registers the OpenAPI description of the SpaBook portal API
// with swag so echo-swagger can serve it under /swagger/.
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new customer",
                "parameters": [
                    {"description": "Customer registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/authResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/v1/session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Current session",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/sessionSnapshot"}}}
            }
        },
        "/v1/session/permissions/{capability}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Check a capability",
                "parameters": [
                    {"type": "string", "description": "Capability name, e.g. view_reports", "name": "capability", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/permissionResponse"}}}
            }
        },
        "/v1/session/stream": {
            "get": {
                "tags": ["session"],
                "summary": "Session change stream (WebSocket)",
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        },
        "/v1/navigation/{shell}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["layout"],
                "summary": "Navigation entries",
                "parameters": [
                    {"type": "string", "enum": ["admin", "customer", "public"], "name": "shell", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/navEntry"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/v1/layout/{shell}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["layout"],
                "summary": "Compose a layout shell",
                "parameters": [
                    {"type": "string", "enum": ["admin", "customer", "public"], "name": "shell", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/layout"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/v1/views/{page}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["layout"],
                "summary": "Role-gated page fragments",
                "parameters": [
                    {"type": "string", "name": "page", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/fragment"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/v1/admin/reports/summary": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Reports summary",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}
            }
        }
    },
    "definitions": {
        "errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "redirect": {"type": "string"}
            }
        },
        "loginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "registerRequest": {
            "type": "object",
            "required": ["email", "password", "firstName", "lastName"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "identity": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "avatar": {"type": "string"},
                "role": {"type": "string", "enum": ["super_admin", "manager", "receptionist", "therapist", "customer"]},
                "permissions": {"type": "array", "items": {"type": "string"}}
            }
        },
        "authResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/identity"}
            }
        },
        "sessionSnapshot": {
            "type": "object",
            "properties": {
                "state": {"type": "string", "enum": ["loading", "unauthenticated", "authenticated"]},
                "user": {"$ref": "#/definitions/identity"}
            }
        },
        "permissionResponse": {
            "type": "object",
            "properties": {
                "capability": {"type": "string"},
                "allowed": {"type": "boolean"}
            }
        },
        "navEntry": {
            "type": "object",
            "properties": {
                "path": {"type": "string"},
                "name": {"type": "string"},
                "icon": {"type": "string"},
                "badge": {"type": "string"},
                "allowedRoles": {"type": "array", "items": {"type": "string"}}
            }
        },
        "fragment": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "kind": {"type": "string", "enum": ["stat_card", "quick_action", "header_control"]},
                "label": {"type": "string"},
                "icon": {"type": "string"},
                "path": {"type": "string"}
            }
        },
        "layout": {
            "type": "object",
            "properties": {
                "shell": {"type": "string"},
                "user": {"$ref": "#/definitions/identity"},
                "roleLabel": {"type": "string"},
                "navigation": {"type": "array", "items": {"$ref": "#/definitions/navEntry"}},
                "header": {"type": "array", "items": {"$ref": "#/definitions/fragment"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "SpaBook Portal API",
	Description:      "Session, permission and layout backend of the SpaBook management front-end.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
