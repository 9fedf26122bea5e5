// Package docs is the swagger spec served at /swagger, kept in the layout swag init
// writes (command in internal/adapter/utils/docs_info.go). docs_test.go fails when
// it no longer matches the handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {},
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/ingest": {
            "post": {
                "description": "Receives one or more files under the document field, saves them to a temporary directory and queues an ingestion job.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Ingestion"],
                "summary": "Upload documents and build a folder index",
                "parameters": [
                    {
                        "type": "file",
                        "description": "PDF, DOCX or TXT file, repeat the field for several files",
                        "name": "document",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "202": {"description": "Job successfully created", "schema": {"$ref": "#/definitions/api.InitJobResponse"}},
                    "400": {"description": "Missing files or upload too large", "schema": {"$ref": "#/definitions/api.JobResponse"}},
                    "500": {"description": "Storage or write error", "schema": {"$ref": "#/definitions/api.JobResponse"}},
                    "503": {"description": "Job queue unavailable", "schema": {"$ref": "#/definitions/api.JobResponse"}}
                }
            }
        },
        "/query": {
            "post": {
                "description": "Queues a question against a folder index built by /ingest. The answer cites the chunks it is based on.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Question Answering"],
                "summary": "Ask a question about indexed documents",
                "parameters": [
                    {
                        "description": "Index id and question",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.QueryRequest"}
                    }
                ],
                "responses": {
                    "202": {"description": "Job successfully created", "schema": {"$ref": "#/definitions/api.InitJobResponse"}},
                    "400": {"description": "Invalid request data", "schema": {"$ref": "#/definitions/api.JobResponse"}},
                    "503": {"description": "Job queue unavailable", "schema": {"$ref": "#/definitions/api.JobResponse"}}
                }
            }
        },
        "/status/{id}": {
            "get": {
                "description": "Retrieves the current status of a specific job using its ID.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Job Status"],
                "summary": "Get job status",
                "parameters": [
                    {"type": "string", "description": "Job ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "The current status of the job", "schema": {"$ref": "#/definitions/api.JobResponse"}},
                    "404": {"description": "Job not found", "schema": {"$ref": "#/definitions/api.JobResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.InitJobResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "index_id": {"type": "string"},
                "status_url": {"type": "string"}
            }
        },
        "api.QueryRequest": {
            "type": "object",
            "required": ["index_id", "question"],
            "properties": {
                "index_id": {"type": "string"},
                "question": {"type": "string", "example": "What color is the sky?"},
                "return_all": {"type": "boolean"}
            }
        },
        "api.JobOutgoingError": {
            "type": "object",
            "properties": {
                "can_retry": {"type": "boolean", "example": false},
                "code": {"type": "integer", "example": 400},
                "message": {"type": "string", "example": "Job not found"}
            }
        },
        "api.SourceResponse": {
            "type": "object",
            "properties": {
                "chunk": {"type": "integer", "example": 1},
                "content": {"type": "string", "example": "The sky is blue."},
                "file_id": {"type": "string"},
                "file_name": {"type": "string", "example": "sky.pdf"},
                "page": {"type": "integer", "example": 1},
                "score": {"type": "number"},
                "source": {"type": "string", "example": "1-1"}
            }
        },
        "api.QAResponse": {
            "type": "object",
            "properties": {
                "answer": {"type": "string"},
                "citations": {"type": "array", "items": {"type": "string"}},
                "cited": {"type": "boolean"},
                "confidence": {"type": "string", "example": "high"},
                "question": {"type": "string"},
                "sources": {"type": "array", "items": {"$ref": "#/definitions/api.SourceResponse"}}
            }
        },
        "api.IndexedFileResponse": {
            "type": "object",
            "properties": {
                "chunks": {"type": "integer"},
                "id": {"type": "string"},
                "kind": {"type": "string", "example": "pdf"},
                "name": {"type": "string"},
                "pages": {"type": "integer"}
            }
        },
        "api.SkippedFileResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 422},
                "message": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "api.IngestResponse": {
            "type": "object",
            "properties": {
                "files": {"type": "array", "items": {"$ref": "#/definitions/api.IndexedFileResponse"}},
                "index_id": {"type": "string"},
                "skipped": {"type": "array", "items": {"$ref": "#/definitions/api.SkippedFileResponse"}}
            }
        },
        "api.Result": {
            "type": "object",
            "properties": {
                "ingest_response": {"$ref": "#/definitions/api.IngestResponse"},
                "qa_response": {"$ref": "#/definitions/api.QAResponse"},
                "status": {"type": "string", "example": "COMPLETE"},
                "step": {"type": "string", "example": "Complete"}
            }
        },
        "api.JobResponse": {
            "type": "object",
            "properties": {
                "end_time": {"type": "string"},
                "error": {"$ref": "#/definitions/api.JobOutgoingError"},
                "id": {"type": "string", "example": "job_cz109"},
                "index_id": {"type": "string"},
                "result": {"$ref": "#/definitions/api.Result"},
                "start_time": {"type": "string"},
                "type": {"type": "string", "example": "Query"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "DocQA API",
	Description:      "Asynchronous document question answering with page and chunk citations",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
