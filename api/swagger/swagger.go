package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Trámites API",
        "description": "Records management for persons, administrative procedures and their documents",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Admin login and token verification"},
        {"name": "Persons", "description": "Person registry with procedure and document counts"},
        {"name": "Procedures", "description": "Administrative procedures per person"},
        {"name": "Documents", "description": "File attachments per procedure"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate administrator",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing fields"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/verify": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Verify access token",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Token valid"},
                    "401": {"description": "Missing or invalid token"}
                }
            }
        },
        "/persons": {
            "get": {
                "tags": ["Persons"],
                "summary": "List persons with counts",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Persons"],
                "summary": "Create person",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PersonRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation failure or duplicate national ID"}
                }
            }
        },
        "/persons/search": {
            "get": {
                "tags": ["Persons"],
                "summary": "Search persons by name or national ID",
                "parameters": [
                    {"name": "q", "in": "query", "type": "string", "description": "Blank query returns an empty list"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/persons/export": {
            "get": {
                "tags": ["Persons"],
                "summary": "Export persons as CSV",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV attachment"}
                }
            }
        },
        "/persons/{id}": {
            "get": {
                "tags": ["Persons"],
                "summary": "Get person with counts",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Person not found"}
                }
            },
            "put": {
                "tags": ["Persons"],
                "summary": "Update person",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PersonRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated"},
                    "400": {"description": "Validation failure or duplicate national ID"},
                    "404": {"description": "Person not found"}
                }
            },
            "delete": {
                "tags": ["Persons"],
                "summary": "Delete person and cascade procedures and documents",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Person not found"}
                }
            }
        },
        "/persons/{id}/report": {
            "get": {
                "tags": ["Persons"],
                "summary": "PDF history report of a person's procedures",
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "PDF attachment"},
                    "404": {"description": "Person not found"}
                }
            }
        },
        "/procedures": {
            "get": {
                "tags": ["Procedures"],
                "summary": "Ten most recent procedures",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Procedures"],
                "summary": "Create procedure",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProcedureRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation failure or unknown person"}
                }
            }
        },
        "/procedures/person/{personId}": {
            "get": {
                "tags": ["Procedures"],
                "summary": "Procedures of a person with document counts",
                "parameters": [{"name": "personId", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/procedures/{id}": {
            "get": {
                "tags": ["Procedures"],
                "summary": "Get procedure with person info",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Procedure not found"}
                }
            },
            "put": {
                "tags": ["Procedures"],
                "summary": "Update procedure",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProcedureRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated"},
                    "404": {"description": "Procedure not found"}
                }
            },
            "delete": {
                "tags": ["Procedures"],
                "summary": "Delete procedure and cascade documents",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Procedure not found"}
                }
            }
        },
        "/documents/upload": {
            "post": {
                "tags": ["Documents"],
                "summary": "Upload document",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "procedureId", "in": "formData", "required": true, "type": "string"},
                    {"name": "date", "in": "formData", "required": true, "type": "string", "description": "YYYY-MM-DD"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Missing file or fields"},
                    "404": {"description": "Procedure not found"}
                }
            }
        },
        "/documents/procedure/{procedureId}": {
            "get": {
                "tags": ["Documents"],
                "summary": "Documents of a procedure, newest date first",
                "parameters": [{"name": "procedureId", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/documents/download/{id}": {
            "get": {
                "tags": ["Documents"],
                "summary": "Download document under its original name",
                "produces": ["application/octet-stream"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Binary stream"},
                    "404": {"description": "Document row or stored file missing"}
                }
            }
        },
        "/documents/{id}": {
            "delete": {
                "tags": ["Documents"],
                "summary": "Delete document row and stored file",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Document not found"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "PersonRequest": {
            "type": "object",
            "required": ["fullName", "nationalId"],
            "properties": {
                "fullName": {"type": "string"},
                "nationalId": {"type": "string", "description": "Digits only"},
                "phone": {"type": "string"},
                "address": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "ProcedureRequest": {
            "type": "object",
            "required": ["personId", "type", "documentDate", "responsibleParty"],
            "properties": {
                "personId": {"type": "string"},
                "type": {"type": "string"},
                "description": {"type": "string"},
                "documentDate": {"type": "string", "description": "YYYY-MM-DD"},
                "responsibleParty": {"type": "string"},
                "status": {"type": "string", "description": "Defaults to Pendiente"}
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
                "pagination": {"type": "object"},
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
