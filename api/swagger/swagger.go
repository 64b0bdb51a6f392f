package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Scorebook API",
        "description": "Examination score recording, statistics and ranking service",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Scores", "description": "Score record lifecycle"},
        {"name": "Catalog", "description": "Known classes, courses and exam dates"},
        {"name": "Analytics", "description": "Statistics, distribution, trend and comparison"},
        {"name": "Rankings", "description": "Course and total score rankings"},
        {"name": "Transfer", "description": "CSV exchange and PDF reports"}
    ],
    "paths": {
        "/scores": {
            "get": {
                "tags": ["Scores"],
                "summary": "List score records",
                "parameters": [
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "course", "in": "query", "type": "string"},
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "keyword", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Scores"],
                "summary": "Create score record",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertScoreRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scores/{id}": {
            "get": {
                "tags": ["Scores"],
                "summary": "Get score record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Scores"],
                "summary": "Replace score record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertScoreRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Scores"],
                "summary": "Delete score record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/scores/export": {
            "get": {
                "tags": ["Transfer"],
                "summary": "Export score records as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "course", "in": "query", "type": "string"},
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "keyword", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV payload"}
                }
            }
        },
        "/scores/import": {
            "post": {
                "tags": ["Transfer"],
                "summary": "Import score records from CSV",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/classes": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List known class names",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/courses": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List known course names",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/exam-dates": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List known exam dates",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/statistics": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Descriptive statistics for a scope",
                "parameters": [
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "course", "in": "query", "type": "string"},
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "keyword", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/distribution": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Score distribution bands for a scope",
                "parameters": [
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "course", "in": "query", "type": "string"},
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "bins", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/trend": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Per-date average trend for a scope",
                "parameters": [
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "course", "in": "query", "type": "string"},
                    {"name": "keyword", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/comparison": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Cross-course average comparison for a scope",
                "parameters": [
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/report": {
            "get": {
                "tags": ["Transfer"],
                "summary": "Render scope statistics as a PDF report",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "course", "in": "query", "type": "string"},
                    {"name": "date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF payload"}
                }
            }
        },
        "/rankings/course": {
            "get": {
                "tags": ["Rankings"],
                "summary": "Rank students by score in one course on one date",
                "parameters": [
                    {"name": "course", "in": "query", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string"},
                    {"name": "class", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Scope underspecified", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rankings/total": {
            "get": {
                "tags": ["Rankings"],
                "summary": "Rank students by total score across courses on one date",
                "parameters": [
                    {"name": "date", "in": "query", "required": true, "type": "string"},
                    {"name": "class", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Scope underspecified", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/system/metrics": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Aggregated runtime metrics snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ScoreRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "student_id": {"type": "string"},
                "student_name": {"type": "string"},
                "class_name": {"type": "string"},
                "course": {"type": "string"},
                "score": {"type": "number"},
                "exam_date": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "UpsertScoreRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "student_name": {"type": "string"},
                "class_name": {"type": "string"},
                "course": {"type": "string"},
                "score": {"type": "number"},
                "exam_date": {"type": "string"}
            },
            "required": ["student_id", "student_name", "class_name", "course", "score", "exam_date"]
        },
        "ScoreStatistics": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "average": {"type": "number"},
                "max": {"type": "number"},
                "min": {"type": "number"},
                "std_dev": {"type": "number"},
                "pass_rate": {"type": "number"}
            }
        },
        "DistributionBin": {
            "type": "object",
            "properties": {
                "label": {"type": "string"},
                "lower": {"type": "number"},
                "upper": {"type": "number"},
                "count": {"type": "integer"},
                "percentage": {"type": "number"}
            }
        },
        "RankEntry": {
            "type": "object",
            "properties": {
                "rank": {"type": "integer"},
                "student_id": {"type": "string"},
                "student_name": {"type": "string"},
                "class_name": {"type": "string"},
                "score": {"type": "number"},
                "avg_score": {"type": "number"},
                "course_count": {"type": "integer"}
            }
        },
        "ImportSummary": {
            "type": "object",
            "properties": {
                "batch_id": {"type": "string"},
                "total": {"type": "integer"},
                "imported": {"type": "integer"},
                "failed": {"type": "integer"},
                "errors": {"type": "array", "items": {"type": "string"}}
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
