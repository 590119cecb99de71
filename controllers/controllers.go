package controllers

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/blogem/funcionario-api/services"
)

//go:embed templates/*.html
var templateFS embed.FS

// renderTemplate renders an embedded page template with the provided data
func renderTemplate(w http.ResponseWriter, templateName string, data interface{}) error {
	tmpl, err := template.ParseFS(templateFS, "templates/"+templateName)
	if err != nil {
		http.Error(w, "Failed to parse template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, templateName, data); err != nil {
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	return nil
}

// problem is the body of 4xx responses
type problem struct {
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Errors map[string][]string `json:"errors,omitempty"`
}

const validationTitle = "One or more validation errors occurred."

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeProblem(w http.ResponseWriter, status int, title string, errs map[string][]string) {
	w.Header().Set("Content-Type", "application/problem+json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(problem{Title: title, Status: status, Errors: errs})
}

// Controllers holds all controller instances
type Controllers struct {
	Funcionario *FuncionarioController
	Health      *HealthController
	Docs        *DocsController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services) *Controllers {
	return &Controllers{
		Funcionario: NewFuncionarioController(services),
		Health:      NewHealthController(services),
		Docs:        NewDocsController(),
	}
}
