package controllers

import (
	"net/http"

	"github.com/blogem/funcionario-api/services"
)

// HealthController reports liveness of the relational store
type HealthController struct {
	services *services.Services
}

// NewHealthController creates a new health controller
func NewHealthController(services *services.Services) *HealthController {
	return &HealthController{
		services: services,
	}
}

// Check handles GET /health
func (c *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	if err := c.services.Funcionario.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "unhealthy",
			"service": "funcionario-api",
			"error":   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "funcionario-api",
	})
}
