package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "UNEX Escuta API",
        "description": "Feedback platform for professors, disciplines and campus infrastructure",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Account registration and token issuing"},
        {"name": "Users", "description": "Account management"},
        {"name": "Professors", "description": "Professor catalog"},
        {"name": "Disciplines", "description": "Discipline catalog"},
        {"name": "Infrastructure", "description": "Campus facility catalog"},
        {"name": "Feedback", "description": "Feedback submission, reads and moderation"},
        {"name": "Statistics", "description": "Aggregated statistics and rankings"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"},
                    "409": {"description": "Email or registration already in use"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/feedbacks": {
            "get": {
                "tags": ["Feedback"],
                "summary": "List feedback",
                "parameters": [
                    {"name": "target_type", "in": "query", "type": "string"},
                    {"name": "target_id", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Feedback"],
                "summary": "Submit feedback",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitFeedbackRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"},
                    "404": {"description": "Target not found"},
                    "409": {"description": "Duplicate submission"}
                }
            }
        },
        "/feedbacks/{id}/status": {
            "patch": {
                "tags": ["Feedback"],
                "summary": "Moderate feedback",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ModerateFeedbackRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Admin only"}
                }
            }
        },
        "/stats/types": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Statistics by target type",
                "parameters": [
                    {"name": "target_type", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/stats/semesters": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Statistics by semester",
                "parameters": [
                    {"name": "academic_year", "in": "query", "type": "integer"},
                    {"name": "target_type", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/stats/ranking": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Ranking by composite score",
                "parameters": [
                    {"name": "target_type", "in": "query", "required": true, "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "min_feedbacks", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "registration": {"type": "string"},
                "role": {"type": "string", "enum": ["student", "professor", "admin"]},
                "courses": {"type": "array", "items": {"type": "string"}}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "SubmitFeedbackRequest": {
            "type": "object",
            "properties": {
                "target_type": {"type": "string", "enum": ["professor", "discipline", "infrastructure"]},
                "target_id": {"type": "string"},
                "is_anonymous": {"type": "boolean"},
                "ratings": {"$ref": "#/definitions/FeedbackRatings"},
                "comment": {"type": "string"},
                "semester": {"type": "string"},
                "academic_year": {"type": "integer"}
            }
        },
        "FeedbackRatings": {
            "type": "object",
            "properties": {
                "teaching_quality": {"type": "integer"},
                "clarity": {"type": "integer"},
                "infrastructure_condition": {"type": "integer"}
            }
        },
        "ModerateFeedbackRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["pending", "approved", "rejected"]}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "array", "items": {"type": "object"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
