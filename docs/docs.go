// Package docs registers the swagger spec served at /swagger. Keep it in step with the
// handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Joel Alexander"
        },
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/items/{itemId}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "delete an item from a list owned by the caller.",
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Delete a todo item.",
                "parameters": [
                    {"type": "string", "description": "Item ID", "name": "itemId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/items/{itemId}/toggle": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "description": "flip the completed flag of an item in a list owned by the caller.",
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Toggle a todo item.",
                "parameters": [
                    {"type": "string", "description": "Item ID", "name": "itemId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.TodoItem"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/lists": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "fetch every list owned by the caller, newest first, with items oldest first. Store faults yield an empty result.",
                "produces": ["application/json"],
                "tags": ["lists"],
                "summary": "Get all todo lists of the caller.",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.TodoList"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "create a list owned by the caller.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lists"],
                "summary": "Create a todo list.",
                "parameters": [
                    {"description": "List to create", "name": "list", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateListRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.TodoList"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/lists/{listId}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "delete a list owned by the caller together with all its items.",
                "produces": ["application/json"],
                "tags": ["lists"],
                "summary": "Delete a todo list.",
                "parameters": [
                    {"type": "string", "description": "List ID", "name": "listId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/lists/{listId}/items": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "add an incomplete item to a list owned by the caller.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Add an item to a todo list.",
                "parameters": [
                    {"type": "string", "description": "List ID", "name": "listId", "in": "path", "required": true},
                    {"description": "Item to add", "name": "item", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.AddItemRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.TodoItem"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "get the status of server.",
                "consumes": ["*/*"],
                "produces": ["text/plain"],
                "tags": ["health"],
                "summary": "Show the status of server.",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "message": {"type": "string"},
                "status": {"type": "string", "example": "error"}
            }
        },
        "models.AddItemRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"}
            }
        },
        "models.CreateListRequest": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "models.TodoItem": {
            "type": "object",
            "properties": {
                "completed": {"type": "boolean"},
                "createdAt": {"type": "string"},
                "id": {"type": "string"},
                "title": {"type": "string"},
                "todoListId": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "models.TodoList": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "createdById": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "string"},
                "title": {"type": "string"},
                "todoItems": {"type": "array", "items": {"$ref": "#/definitions/models.TodoItem"}},
                "updatedAt": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Zero Todo API",
	Description:      "Backend API for the Zero to-do lists app.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
