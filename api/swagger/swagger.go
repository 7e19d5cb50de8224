package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Training Registration API",
        "description": "Public sign-up for the internal training and the HR review dashboard",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Registrations", "description": "Training sign-up and HR review"},
        {"name": "HR Session", "description": "Shared-password gate for the dashboard"},
        {"name": "Dashboard Feed", "description": "Live dashboard snapshots over websocket"}
    ],
    "paths": {
        "/registrations": {
            "post": {
                "tags": ["Registrations"],
                "summary": "Submit a registration",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateRegistrationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed; field messages in meta.fields", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Storage write failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Registrations"],
                "summary": "List registrations for the dashboard",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "search", "type": "string", "description": "Name or e-mail substring"},
                    {"in": "query", "name": "department", "type": "string", "enum": ["all", "rh", "ti", "vendas", "operacoes"]},
                    {"in": "query", "name": "familiarity", "type": "string", "enum": ["all", "baixo", "medio", "alto"]},
                    {"in": "query", "name": "status", "type": "string", "enum": ["all", "pending", "approved", "rejected"]}
                ],
                "responses": {
                    "200": {"description": "OK; meta carries total and filtered counts", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "HR session required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/registrations/options": {
            "get": {
                "tags": ["Registrations"],
                "summary": "Form select options",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/registrations/stats": {
            "get": {
                "tags": ["Registrations"],
                "summary": "Dashboard summary cards",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "HR session required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/registrations/export": {
            "get": {
                "tags": ["Registrations"],
                "summary": "Download the filtered list",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]},
                    {"in": "query", "name": "search", "type": "string"},
                    {"in": "query", "name": "department", "type": "string"},
                    {"in": "query", "name": "familiarity", "type": "string"},
                    {"in": "query", "name": "status", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Attachment inscricoes_treinamento_<date>.<format>", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "HR session required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/registrations/{id}": {
            "get": {
                "tags": ["Registrations"],
                "summary": "Fetch one registration",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/registrations/{id}/status": {
            "patch": {
                "tags": ["Registrations"],
                "summary": "Approve, reject or reset a registration",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/UpdateStatusRequest"}}
                ],
                "responses": {
                    "204": {"description": "Updated, or unknown id ignored"},
                    "400": {"description": "Unknown status", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "HR session required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/hr/session": {
            "post": {
                "tags": ["HR Session"],
                "summary": "Open the HR dashboard",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/SessionRequest"}}
                ],
                "responses": {
                    "200": {"description": "Session cookie set", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Senha incorreta", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["HR Session"],
                "summary": "Report whether the dashboard is open",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["HR Session"],
                "summary": "Close the HR dashboard",
                "responses": {
                    "204": {"description": "Session cookie cleared"}
                }
            }
        },
        "/hr/feed": {
            "get": {
                "tags": ["Dashboard Feed"],
                "summary": "Websocket stream of registrations.snapshot events",
                "responses": {
                    "101": {"description": "Switching protocols"},
                    "401": {"description": "HR session required"}
                }
            }
        }
    },
    "definitions": {
        "CreateRegistrationRequest": {
            "type": "object",
            "required": ["fullName", "email", "department", "familiarityLevel", "participationDate"],
            "properties": {
                "fullName": {"type": "string", "minLength": 3, "maxLength": 100},
                "email": {"type": "string", "format": "email"},
                "department": {"type": "string", "enum": ["rh", "ti", "vendas", "operacoes"]},
                "familiarityLevel": {"type": "string", "enum": ["baixo", "medio", "alto"]},
                "needsAccessibility": {"type": "boolean"},
                "accessibilityDetails": {"type": "string"},
                "observations": {"type": "string", "maxLength": 500},
                "participationDate": {"type": "string", "format": "date"}
            }
        },
        "Registration": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "fullName": {"type": "string"},
                "email": {"type": "string"},
                "department": {"type": "string"},
                "familiarityLevel": {"type": "string"},
                "needsAccessibility": {"type": "boolean"},
                "accessibilityDetails": {"type": "string"},
                "observations": {"type": "string"},
                "participationDate": {"type": "string", "format": "date"},
                "createdAt": {"type": "string", "format": "date-time"},
                "approvalStatus": {"type": "string", "enum": ["pending", "approved", "rejected"]}
            }
        },
        "UpdateStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["pending", "approved", "rejected"]}
            }
        },
        "SessionRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
