package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Notify Admin API",
        "description": "Announcement management for the admin console",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Announcements", "description": "Announcement lifecycle: draft, publish, close"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "security": [],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check (database ping)",
                "security": [],
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notify/announcement/page": {
            "get": {
                "tags": ["Announcements"],
                "summary": "List announcements (notify:announcement:read)",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer", "maximum": 100},
                    {"name": "title", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "array", "items": {"type": "integer", "enum": [0, 1, 2]}, "collectionFormat": "multi"},
                    {"name": "recipient_filter_type", "in": "query", "type": "integer", "enum": [1, 2, 3, 4, 5]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AnnouncementPage"}}
                }
            }
        },
        "/notify/announcement": {
            "post": {
                "tags": ["Announcements"],
                "summary": "Create announcement (notify:announcement:add)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AnnouncementRequest"}}
                ],
                "responses": {
                    "200": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "UPDATE_DATABASE_ERROR", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Announcements"],
                "summary": "Update unpublished announcement (notify:announcement:edit)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AnnouncementRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "ANNOUNCEMENT_PUBLISHED or validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "UPDATE_DATABASE_ERROR", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notify/announcement/{id}": {
            "delete": {
                "tags": ["Announcements"],
                "summary": "Delete announcement (notify:announcement:del)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "UPDATE_DATABASE_ERROR", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notify/announcement/publish/{id}": {
            "patch": {
                "tags": ["Announcements"],
                "summary": "Publish announcement (notify:announcement:edit)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Published", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "ANNOUNCEMENT_PUBLISHED", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "UPDATE_DATABASE_ERROR", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notify/announcement/close/{id}": {
            "patch": {
                "tags": ["Announcements"],
                "summary": "Close announcement (notify:announcement:edit)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Closed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "UPDATE_DATABASE_ERROR", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "AnnouncementRequest": {
            "type": "object",
            "required": ["title", "content", "recipient_filter_type", "receive_mode"],
            "properties": {
                "id": {"type": "integer", "description": "required on update, ignored on create"},
                "title": {"type": "string", "maxLength": 255},
                "content": {"type": "string"},
                "recipient_filter_type": {"type": "integer", "enum": [1, 2, 3, 4, 5]},
                "recipient_filter_value": {"type": "array", "items": {}},
                "receive_mode": {"type": "array", "items": {"type": "integer", "enum": [1, 2, 3]}},
                "status": {"type": "integer", "enum": [0, 1, 2], "description": "defaults to 2 (unpublished)"},
                "immortal": {"type": "boolean"},
                "deadline": {"type": "string", "format": "date-time", "description": "required unless immortal"}
            }
        },
        "AnnouncementItem": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "content": {"type": "string"},
                "recipient_filter_type": {"type": "integer"},
                "recipient_filter_value": {"type": "array", "items": {}},
                "receive_mode": {"type": "array", "items": {"type": "integer"}},
                "status": {"type": "integer"},
                "status_name": {"type": "string"},
                "immortal": {"type": "boolean"},
                "deadline": {"type": "string", "format": "date-time"},
                "create_by": {"type": "string"},
                "update_by": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "AnnouncementPage": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/AnnouncementItem"}},
                "pagination": {"$ref": "#/definitions/Pagination"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"}
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
