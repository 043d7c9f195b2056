// Package docs registers the OpenAPI description served by the Swagger UI.
// Code generated by swag init; edits survive regeneration only in SwaggerInfo.
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
        "/calc/bmi": {
            "post": {
                "description": "Computes BMI and its category from weight and height. Saves a history record when username is provided.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Calculators"],
                "summary": "Body mass index",
                "operationId": "calcBMI",
                "parameters": [
                    {"description": "Measurements", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.BMIRequest"}},
                    {"type": "string", "description": "Optional replay-safe key", "name": "Idempotency-Key", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Store failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/calc/body-fat": {
            "post": {
                "description": "Computes the circumference-based body fat percentage. Saves a history record when username is provided.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Calculators"],
                "summary": "Body fat percentage",
                "operationId": "calcBodyFat",
                "parameters": [
                    {"description": "Measurements", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.BodyFatRequest"}},
                    {"type": "string", "description": "Optional replay-safe key", "name": "Idempotency-Key", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Store failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/calc/calorie": {
            "post": {
                "description": "Computes the daily calorie need for an activity level. Saves a history record when username is provided.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Calculators"],
                "summary": "Daily calorie need",
                "operationId": "calcCalorie",
                "parameters": [
                    {"description": "Measurements and activity factor", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CalorieRequest"}},
                    {"type": "string", "description": "Optional replay-safe key", "name": "Idempotency-Key", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Invalid input or unknown activity factor", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Store failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/calc/bmr": {
            "post": {
                "description": "Computes the basal metabolic rate. Saves a history record when username is provided.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Calculators"],
                "summary": "Basal metabolic rate",
                "operationId": "calcBMR",
                "parameters": [
                    {"description": "Measurements", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.BMRRequest"}},
                    {"type": "string", "description": "Optional replay-safe key", "name": "Idempotency-Key", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Store failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/calc/ideal-weight": {
            "post": {
                "description": "Computes an ideal weight range from height. Saves a history record when username is provided.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Calculators"],
                "summary": "Ideal weight range",
                "operationId": "calcIdealWeight",
                "parameters": [
                    {"description": "Measurements", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.IdealWeightRequest"}},
                    {"type": "string", "description": "Optional replay-safe key", "name": "Idempotency-Key", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Store failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/calc/history": {
            "get": {
                "description": "Returns the user's records newest first. A missing or unknown username yields an empty list.",
                "produces": ["application/json"],
                "tags": ["History"],
                "summary": "List calculation history",
                "operationId": "listHistory",
                "parameters": [
                    {"type": "string", "name": "username", "in": "query"},
                    {"type": "string", "enum": ["bmi", "body-fat", "calorie", "bmr", "ideal-weight"], "name": "calc_type", "in": "query"},
                    {"type": "integer", "default": 100, "maximum": 500, "minimum": 1, "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "minimum": 0, "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handlers.RecordSummary"}}},
                    "304": {"description": "Not Modified"},
                    "500": {"description": "Store failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/calc/history/{id}": {
            "get": {
                "description": "Fetches a record by id for the owning username; 404 when absent or owned by someone else.",
                "produces": ["application/json"],
                "tags": ["History"],
                "summary": "Get one history record",
                "operationId": "getHistoryRecord",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "username", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RecordSummary"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Record not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Store failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "patch": {
                "description": "Partially updates the stored inputs and/or result payloads.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["History"],
                "summary": "Update a history record",
                "operationId": "updateHistoryRecord",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to update", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.HistoryUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RecordSummary"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Record not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Store failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "description": "Deletes a record owned by the username.",
                "produces": ["application/json"],
                "tags": ["History"],
                "summary": "Delete a history record",
                "operationId": "deleteHistoryRecord",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "username", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.DeleteResponse"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Record not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Store failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.BMIRequest": {
            "type": "object",
            "required": ["age_years", "gender", "height_cm", "weight_kg"],
            "properties": {
                "username": {"type": "string", "example": "alice"},
                "age_years": {"type": "integer", "example": 30},
                "gender": {"type": "boolean", "example": true},
                "weight_kg": {"type": "number", "example": 70},
                "height_cm": {"type": "number", "example": 175}
            }
        },
        "handlers.BodyFatRequest": {
            "type": "object",
            "required": ["age_years", "gender", "height_cm", "hip_cm", "neck_cm", "waist_cm", "weight_kg"],
            "properties": {
                "username": {"type": "string", "example": "alice"},
                "age_years": {"type": "integer", "example": 30},
                "gender": {"type": "boolean", "example": true},
                "weight_kg": {"type": "number", "example": 70},
                "height_cm": {"type": "number", "example": 175},
                "neck_cm": {"type": "number", "example": 37},
                "waist_cm": {"type": "number", "example": 85},
                "hip_cm": {"type": "number", "example": 95}
            }
        },
        "handlers.CalorieRequest": {
            "type": "object",
            "required": ["activity_factor", "age_years", "gender", "height_cm", "weight_kg"],
            "properties": {
                "username": {"type": "string", "example": "alice"},
                "age_years": {"type": "integer", "example": 30},
                "gender": {"type": "boolean", "example": true},
                "weight_kg": {"type": "number", "example": 70},
                "height_cm": {"type": "number", "example": 175},
                "activity_factor": {"type": "string", "example": "Moderately Active"}
            }
        },
        "handlers.BMRRequest": {
            "type": "object",
            "required": ["age_years", "gender", "height_cm", "weight_kg"],
            "properties": {
                "username": {"type": "string", "example": "alice"},
                "age_years": {"type": "integer", "example": 30},
                "gender": {"type": "boolean", "example": true},
                "weight_kg": {"type": "number", "example": 70},
                "height_cm": {"type": "number", "example": 175}
            }
        },
        "handlers.IdealWeightRequest": {
            "type": "object",
            "required": ["age_years", "gender", "height_cm"],
            "properties": {
                "username": {"type": "string", "example": "alice"},
                "age_years": {"type": "integer", "example": 30},
                "gender": {"type": "boolean", "example": true},
                "height_cm": {"type": "number", "example": 175}
            }
        },
        "handlers.HistoryUpdateRequest": {
            "type": "object",
            "required": ["username"],
            "properties": {
                "username": {"type": "string", "example": "alice"},
                "inputs": {"type": "object", "additionalProperties": true},
                "result": {"type": "object", "additionalProperties": true}
            }
        },
        "handlers.RecordSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 7},
                "calc_type": {"type": "string", "example": "bmi"},
                "inputs": {"type": "object", "additionalProperties": true},
                "result": {"type": "object", "additionalProperties": true},
                "created_at": {"type": "string", "example": "2025-06-01T12:34:56Z"}
            }
        },
        "handlers.DeleteResponse": {
            "type": "object",
            "properties": {
                "detail": {"type": "string", "example": "record deleted"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string", "example": "7f8b7e3c-1f2d-4a5b-9c0d-1e2f3a4b5c6d"},
                "code": {"type": "string", "example": "invalid_input"},
                "message": {"type": "string", "example": "weight and height must be positive"},
                "details": {}
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
	Title:            "Health Calculator API",
	Description:      "Health metrics calculators (BMI, body fat, calories, BMR, ideal weight) with per-user calculation history.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
