package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Substitute Staffing API",
        "description": "Availability, coverage and replacement urgency for substitute staff",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Coverage", "description": "Absence coverage and candidate ranking"},
        {"name": "Urgency", "description": "Replacement deadlines per school"},
        {"name": "Availability", "description": "Substitute calendars, periods and overrides"},
        {"name": "Assignments", "description": "Substitute to collaborator assignments"},
        {"name": "Schools", "description": "School replacement policies"}
    ],
    "paths": {
        "/absences/preview": {
            "get": {
                "tags": ["Coverage"],
                "summary": "Weekdays touched by a date range",
                "parameters": [
                    {"name": "start", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "end", "in": "query", "required": true, "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid range", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/absences/{id}/coverage": {
            "get": {
                "tags": ["Coverage"],
                "summary": "Coverage slots of an absence",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Not a collaborator absence", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/absences/{id}/candidates": {
            "get": {
                "tags": ["Coverage"],
                "summary": "Rank substitutes for the open slots of an absence",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/absences/{id}/sync": {
            "post": {
                "tags": ["Coverage"],
                "summary": "Recompute the replaced flag of an absence",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/absences/{id}/urgency": {
            "get": {
                "tags": ["Urgency"],
                "summary": "Urgency of one absence",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/absences/urgency": {
            "get": {
                "tags": ["Urgency"],
                "summary": "Collaborator absences ordered by urgency",
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "school_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/absences/urgency/export": {
            "get": {
                "tags": ["Urgency"],
                "summary": "Export the urgency list",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "school_id", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}}
                }
            }
        },
        "/substitutes/{id}/calendar": {
            "get": {
                "tags": ["Availability"],
                "summary": "Half-day availability grid of a substitute",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "from", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "required": true, "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid range", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/substitutes/{id}/periods": {
            "post": {
                "tags": ["Availability"],
                "summary": "Declare a recurring availability period",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePeriodRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/substitutes/{id}/overrides": {
            "put": {
                "tags": ["Availability"],
                "summary": "Set a date-specific availability override",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetOverrideRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Assign a substitute to a collaborator",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAssignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schools/{id}/deadline": {
            "put": {
                "tags": ["Schools"],
                "summary": "Set or clear a school's replacement deadline",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateDeadlineRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "WeeklySlot": {
            "type": "object",
            "properties": {
                "weekday": {"type": "string", "enum": ["MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY"]},
                "time_slot": {"type": "string", "enum": ["MORNING", "AFTERNOON", "FULL_DAY"]}
            },
            "required": ["weekday", "time_slot"]
        },
        "CreatePeriodRequest": {
            "type": "object",
            "properties": {
                "start_date": {"type": "string", "format": "date"},
                "end_date": {"type": "string", "format": "date"},
                "active": {"type": "boolean"},
                "recurrences": {"type": "array", "items": {"$ref": "#/definitions/WeeklySlot"}}
            },
            "required": ["start_date", "end_date", "recurrences"]
        },
        "SetOverrideRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "format": "date"},
                "time_slot": {"type": "string", "enum": ["MORNING", "AFTERNOON", "FULL_DAY"]},
                "is_available": {"type": "boolean"},
                "note": {"type": "string"}
            },
            "required": ["date", "time_slot", "is_available"]
        },
        "CreateAssignmentRequest": {
            "type": "object",
            "properties": {
                "substitute_id": {"type": "string"},
                "collaborator_id": {"type": "string"},
                "school_id": {"type": "string"},
                "start_date": {"type": "string", "format": "date"},
                "end_date": {"type": "string", "format": "date"},
                "time_slot": {"type": "string", "enum": ["MORNING", "AFTERNOON", "FULL_DAY"]},
                "motif": {"type": "string"}
            },
            "required": ["substitute_id", "collaborator_id", "school_id", "start_date", "end_date", "time_slot"]
        },
        "UpdateDeadlineRequest": {
            "type": "object",
            "properties": {
                "deadline_days": {"type": "number", "x-nullable": true}
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
