package controllers

import (
	"net/http"
	"reflect"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"

	"github.com/blogem/funcionario-api/models"
)

const specPath = "/swagger/openapi.json"

// DocsController serves the OpenAPI document and the Swagger UI page
type DocsController struct {
	once sync.Once
	doc  map[string]any
}

// NewDocsController creates a new docs controller
func NewDocsController() *DocsController {
	return &DocsController{}
}

// OpenAPI handles GET /swagger/openapi.json
func (c *DocsController) OpenAPI(w http.ResponseWriter, r *http.Request) {
	c.once.Do(func() {
		c.doc = buildOpenAPI()
	})
	writeJSON(w, http.StatusOK, c.doc)
}

// UI handles GET /swagger
func (c *DocsController) UI(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Title   string
		SpecURL string
	}{
		Title:   "Funcionario API",
		SpecURL: specPath,
	}

	renderTemplate(w, "swagger.html", data)
}

// schemaFor reflects a component schema, inlining nested types
func schemaFor(v any) *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(decimal.Decimal{}) {
				return &jsonschema.Schema{Type: "number"}
			}
			return nil
		},
	}
	schema := reflector.Reflect(v)
	schema.Version = ""
	return schema
}

func buildOpenAPI() map[string]any {
	ref := func(name string) map[string]any {
		return map[string]any{"$ref": "#/components/schemas/" + name}
	}
	jsonBody := func(schema map[string]any) map[string]any {
		return map[string]any{"application/json": map[string]any{"schema": schema}}
	}
	idParam := map[string]any{
		"name": "id", "in": "path", "required": true,
		"schema": map[string]any{"type": "integer", "format": "int32"},
	}
	problemResponse := map[string]any{
		"description": "Problem details",
		"content":     map[string]any{"application/problem+json": map[string]any{"schema": ref("ProblemDetails")}},
	}
	serverError := map[string]any{
		"description": "Store failure",
		"content":     map[string]any{"text/plain": map[string]any{"schema": map[string]any{"type": "string"}}},
	}

	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "Funcionario API",
			"version": "v1",
		},
		"paths": map[string]any{
			"/Funcionario": map[string]any{
				"post": map[string]any{
					"tags":        []string{"Funcionario"},
					"requestBody": map[string]any{"required": true, "content": jsonBody(ref("Funcionario"))},
					"responses": map[string]any{
						"201": map[string]any{"description": "Created", "content": jsonBody(ref("Funcionario"))},
						"400": problemResponse,
						"500": serverError,
					},
				},
			},
			"/Funcionario/{id}": map[string]any{
				"get": map[string]any{
					"tags":       []string{"Funcionario"},
					"parameters": []any{idParam},
					"responses": map[string]any{
						"200": map[string]any{"description": "OK", "content": jsonBody(ref("Funcionario"))},
						"400": problemResponse,
						"404": problemResponse,
						"500": serverError,
					},
				},
				"put": map[string]any{
					"tags":        []string{"Funcionario"},
					"parameters":  []any{idParam},
					"requestBody": map[string]any{"required": true, "content": jsonBody(ref("Funcionario"))},
					"responses": map[string]any{
						"200": map[string]any{"description": "OK", "content": jsonBody(ref("Funcionario"))},
						"400": problemResponse,
						"404": problemResponse,
						"500": serverError,
					},
				},
				"delete": map[string]any{
					"tags":       []string{"Funcionario"},
					"parameters": []any{idParam},
					"responses": map[string]any{
						"204": map[string]any{"description": "No Content"},
						"400": problemResponse,
						"404": problemResponse,
						"500": serverError,
					},
				},
			},
			"/Funcionario/log/{departamento}": map[string]any{
				"get": map[string]any{
					"tags": []string{"Funcionario"},
					"parameters": []any{map[string]any{
						"name": "departamento", "in": "path", "required": true,
						"schema": map[string]any{"type": "string"},
					}},
					"responses": map[string]any{
						"200": map[string]any{"description": "OK", "content": jsonBody(map[string]any{
							"type": "array", "items": ref("FuncionarioLog"),
						})},
						"500": serverError,
					},
				},
			},
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"Funcionario":    schemaFor(&models.Funcionario{}),
				"FuncionarioLog": schemaFor(&models.FuncionarioLog{}),
				"ProblemDetails": schemaFor(&problem{}),
			},
		},
	}
}
