package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves the API description for the document service.
// - GET /swagger/index.html  -> Swagger UI page loading the JSON below
// - GET /swagger/doc.json    -> OpenAPI 3 document
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>docstore — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "docstore", "version": "v0.1.0" },
  "components": {
    "schemas": {
      "Author": { "type": "object", "properties": { "id": {"type":"string"}, "name": {"type":"string"} } },
      "Document": { "type": "object", "properties": {
        "id": {"type":"string"}, "title": {"type":"string"}, "content": {"type":"string"},
        "author": {"$ref":"#/components/schemas/Author"}, "created": {"type":"string","format":"date-time"} } },
      "SearchRequest": { "type": "object", "properties": {
        "titlePrefixes": {"type":"array","items":{"type":"string"}},
        "containsContents": {"type":"array","items":{"type":"string"}},
        "authorIds": {"type":"array","items":{"type":"string"}},
        "createdFrom": {"type":"string","format":"date-time"},
        "createdTo": {"type":"string","format":"date-time"} } }
    }
  },
  "paths": {
    "/api/documents": {
      "post": { "summary": "Save (upsert) a document; a missing id is generated", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Document"} } } }, "responses": { "200": { "description": "replaced" }, "201": { "description": "created with generated id" }, "400": { "description": "invalid body" } } },
      "get": { "summary": "Search with query parameters (titlePrefix, contains, authorId repeatable; createdFrom, createdTo RFC3339)", "responses": { "200": { "description": "matching documents" }, "400": { "description": "invalid timestamp" } } }
    },
    "/api/documents/{id}": {
      "get": { "summary": "Find a document by id", "responses": { "200": { "description": "document" }, "404": { "description": "not found" } } },
      "put": { "summary": "Save a document under the path id", "responses": { "200": { "description": "stored" }, "400": { "description": "id mismatch" } } }
    },
    "/api/documents/search": {
      "post": { "summary": "Search with a JSON SearchRequest", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/SearchRequest"} } } }, "responses": { "200": { "description": "matching documents" } } }
    },
    "/api/documents/export": {
      "post": { "summary": "Upload search results to object storage", "responses": { "200": { "description": "export key and presigned url" }, "503": { "description": "export storage not configured" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
