package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "CrewPlan API",
        "description": "Weekly cleaning schedule with conflict detection and resolution suggestions",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Assignments", "description": "Weekly cleaning assignments"},
        {"name": "Roster", "description": "Worker and site management"},
        {"name": "Vacations", "description": "Worker leave windows"},
        {"name": "Insights", "description": "Conflict detection and suggestions"},
        {"name": "Reports", "description": "Asynchronous conflict reports"}
    ],
    "paths": {
        "/assignments": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List assignments",
                "parameters": [
                    {"name": "dayOfWeek", "in": "query", "type": "string"},
                    {"name": "client", "in": "query", "type": "string"},
                    {"name": "worker", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Assignments"],
                "summary": "Create assignment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAssignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Blocked by conflicts", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments/{id}": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Get assignment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Assignments"],
                "summary": "Update assignment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateAssignmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Blocked by conflicts", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Assignments"],
                "summary": "Delete assignment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/workers": {
            "get": {
                "tags": ["Roster"],
                "summary": "List workers",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Roster"],
                "summary": "Create worker",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateWorkerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/workers/{id}": {
            "patch": {
                "tags": ["Roster"],
                "summary": "Update worker",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateWorkerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Roster"],
                "summary": "Delete worker",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/sites": {
            "get": {
                "tags": ["Roster"],
                "summary": "List sites",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Roster"],
                "summary": "Upsert site",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertSiteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sites/{id}": {
            "delete": {
                "tags": ["Roster"],
                "summary": "Delete site",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/vacations": {
            "get": {
                "tags": ["Vacations"],
                "summary": "List vacations",
                "parameters": [
                    {"name": "worker", "in": "query", "type": "string"},
                    {"name": "weekStart", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Vacations"],
                "summary": "Create vacation",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateVacationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/vacations/{id}": {
            "delete": {
                "tags": ["Vacations"],
                "summary": "Delete vacation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/insights/conflicts": {
            "get": {
                "tags": ["Insights"],
                "summary": "List detected conflicts",
                "parameters": [
                    {"name": "assignmentId", "in": "query", "type": "string"},
                    {"name": "worker", "in": "query", "type": "string"},
                    {"name": "severity", "in": "query", "type": "string"},
                    {"name": "weekStart", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/insights/summary": {
            "get": {
                "tags": ["Insights"],
                "summary": "Conflict summary for the week",
                "parameters": [
                    {"name": "weekStart", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/insights/validate": {
            "post": {
                "tags": ["Insights"],
                "summary": "Validate a proposed assignment change",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ValidateAssignmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "Verdict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/insights/suggestions": {
            "get": {
                "tags": ["Insights"],
                "summary": "Resolution and optimization suggestions",
                "parameters": [
                    {"name": "weekStart", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/insights/suggestions/{id}/dismiss": {
            "post": {
                "tags": ["Insights"],
                "summary": "Dismiss a suggestion",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/reports/generate": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue a conflict report",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Report job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/export/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a finished report",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "410": {"description": "Link expired"}
                }
            }
        }
    },
    "definitions": {
        "Assignment": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "day_of_week": {"type": "string"},
                "client_name": {"type": "string"},
                "site_name": {"type": "string"},
                "workers": {"type": "array", "items": {"type": "string"}},
                "hours": {"type": "number"},
                "start_time": {"type": "string"},
                "status": {"type": "string"},
                "recurring": {"type": "boolean"},
                "notes": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "CreateAssignmentRequest": {
            "type": "object",
            "properties": {
                "dayOfWeek": {"type": "string"},
                "clientName": {"type": "string"},
                "siteName": {"type": "string"},
                "workers": {"type": "array", "items": {"type": "string"}},
                "hours": {"type": "number"},
                "startTime": {"type": "string"},
                "recurring": {"type": "boolean"},
                "notes": {"type": "string"},
                "force": {"type": "boolean"}
            },
            "required": ["dayOfWeek", "clientName", "siteName", "workers", "hours"]
        },
        "UpdateAssignmentRequest": {
            "type": "object",
            "properties": {
                "dayOfWeek": {"type": "string"},
                "clientName": {"type": "string"},
                "siteName": {"type": "string"},
                "workers": {"type": "array", "items": {"type": "string"}},
                "hours": {"type": "number"},
                "startTime": {"type": "string"},
                "status": {"type": "string", "enum": ["scheduled", "in_progress", "completed", "cancelled"]},
                "recurring": {"type": "boolean"},
                "notes": {"type": "string"},
                "force": {"type": "boolean"}
            }
        },
        "CreateWorkerRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "clearance": {"type": "string", "enum": ["low", "medium", "high"]},
                "active": {"type": "boolean"}
            },
            "required": ["name", "clearance"]
        },
        "UpdateWorkerRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "clearance": {"type": "string", "enum": ["low", "medium", "high"]},
                "active": {"type": "boolean"}
            }
        },
        "UpsertSiteRequest": {
            "type": "object",
            "properties": {
                "clientName": {"type": "string"},
                "siteName": {"type": "string"},
                "requiredClearance": {"type": "string", "enum": ["low", "medium", "high"]}
            },
            "required": ["clientName", "siteName"]
        },
        "CreateVacationRequest": {
            "type": "object",
            "properties": {
                "workerName": {"type": "string"},
                "startDate": {"type": "string"},
                "endDate": {"type": "string"},
                "reason": {"type": "string"}
            },
            "required": ["workerName", "startDate", "endDate"]
        },
        "ValidateAssignmentRequest": {
            "type": "object",
            "properties": {
                "assignmentId": {"type": "string"},
                "change": {"$ref": "#/definitions/UpdateAssignmentRequest"}
            },
            "required": ["change"]
        },
        "ReportRequest": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "severity": {"type": "string"}
            },
            "required": ["format"]
        },
        "Conflict": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string"},
                "severity": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "assignment_ids": {"type": "array", "items": {"type": "string"}},
                "workers": {"type": "array", "items": {"type": "string"}},
                "resolutions": {"type": "array", "items": {"type": "object"}},
                "impact": {"type": "object"}
            }
        },
        "Suggestion": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "priority": {"type": "integer"},
                "tier": {"type": "string"},
                "conflict_id": {"type": "string"},
                "changes": {"type": "array", "items": {"type": "object"}},
                "benefit": {"type": "object"}
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
