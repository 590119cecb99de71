package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/funcionario-api/models"
	"github.com/blogem/funcionario-api/services"
)

// FuncionarioController handles employee record requests
type FuncionarioController struct {
	services *services.Services
}

// NewFuncionarioController creates a new employee controller
func NewFuncionarioController(services *services.Services) *FuncionarioController {
	return &FuncionarioController{
		services: services,
	}
}

// Get handles GET /Funcionario/{id}
func (c *FuncionarioController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	funcionario, err := c.services.Funcionario.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "buscar", err)
		return
	}

	writeJSON(w, http.StatusOK, funcionario)
}

// Create handles POST /Funcionario
func (c *FuncionarioController) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeFuncionario(w, r)
	if !ok {
		return
	}

	funcionario, err := c.services.Funcionario.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, "criar", err)
		return
	}

	w.Header().Set("Location", resourceURL(r, funcionario.ID))
	writeJSON(w, http.StatusCreated, funcionario)
}

// Update handles PUT /Funcionario/{id}
func (c *FuncionarioController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	input, ok := decodeFuncionario(w, r)
	if !ok {
		return
	}

	funcionario, err := c.services.Funcionario.Update(r.Context(), id, input)
	if err != nil {
		writeServiceError(w, r, "atualizar", err)
		return
	}

	writeJSON(w, http.StatusOK, funcionario)
}

// Delete handles DELETE /Funcionario/{id}
func (c *FuncionarioController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := c.services.Funcionario.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, "deletar", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListLog handles GET /Funcionario/log/{departamento}
func (c *FuncionarioController) ListLog(w http.ResponseWriter, r *http.Request) {
	departamento := chi.URLParam(r, "departamento")

	entries, err := c.services.Funcionario.ListLog(r.Context(), departamento)
	if err != nil {
		writeServiceError(w, r, "listar log de", err)
		return
	}

	if entries == nil {
		entries = []models.FuncionarioLog{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, validationTitle, map[string][]string{
			"id": {fmt.Sprintf("The value '%s' is not valid.", idStr)},
		})
		return 0, false
	}
	return id, true
}

// funcionarioRequest is the request body; dataAdmissao also takes ISO dates
type funcionarioRequest struct {
	models.Funcionario
	DataAdmissao *admissionDate `json:"dataAdmissao"`
}

// admissionDate parses RFC 3339 timestamps and ISO dates without an offset,
// which are read as UTC.
type admissionDate struct {
	time.Time
}

var admissionLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func (d *admissionDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("dataAdmissao: %w", err)
	}
	for _, layout := range admissionLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("dataAdmissao: %q is not an ISO 8601 date", s)
}

func decodeFuncionario(w http.ResponseWriter, r *http.Request) (*models.Funcionario, bool) {
	var req funcionarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, validationTitle, map[string][]string{
			"$": {err.Error()},
		})
		return nil, false
	}

	input := req.Funcionario
	if req.DataAdmissao != nil {
		input.DataAdmissao = &req.DataAdmissao.Time
	}
	return &input, true
}

// writeServiceError maps service errors to responses: validation to 400,
// not found to 404 and store failures to 500 with the underlying message.
func writeServiceError(w http.ResponseWriter, r *http.Request, verb string, err error) {
	var validationErrs models.ValidationErrors
	var storeErr *services.StoreError

	switch {
	case errors.As(err, &validationErrs):
		writeProblem(w, http.StatusBadRequest, validationTitle, validationErrs.ByField())
	case errors.Is(err, services.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", nil)
	case errors.As(err, &storeErr):
		slog.ErrorContext(r.Context(), "store failure",
			"stage", storeErr.Stage,
			"committed", storeErr.Committed(),
			"method", r.Method,
			"path", r.URL.Path,
			"error", storeErr.Err,
		)
		http.Error(w, fmt.Sprintf("Erro ao %s funcionário: %s", verb, err.Error()), http.StatusInternalServerError)
	default:
		slog.ErrorContext(r.Context(), "unexpected error", "path", r.URL.Path, "error", err)
		http.Error(w, fmt.Sprintf("Erro ao %s funcionário: %s", verb, err.Error()), http.StatusInternalServerError)
	}
}

func resourceURL(r *http.Request, id int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/Funcionario/%d", scheme, r.Host, id)
}
