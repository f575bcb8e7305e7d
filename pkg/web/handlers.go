// Package web provides HTTP handlers and REST API endpoints for graph management.
package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/dukex/reelflow/pkg/models"
	"github.com/dukex/reelflow/pkg/persistence"
	"github.com/dukex/reelflow/pkg/services"
)

type APIHandlers struct {
	graphService *services.GraphService
	validator    *validator.Validate
}

func NewAPIHandlers(graphService *services.GraphService, validator *validator.Validate) *APIHandlers {
	return &APIHandlers{
		graphService: graphService,
		validator:    validator,
	}
}

func (h *APIHandlers) GetGraphs(c fiber.Ctx) error {
	graphs, err := h.graphService.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(graphs)
}

func (h *APIHandlers) GetGraph(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Graph ID is required")
	}

	doc, err := h.graphService.FetchByID(c.Context(), id)
	if err != nil {
		if persistence.IsGraphNotFound(err) {
			return notFound(c, "Graph not found")
		}

		return internalError(c, err)
	}

	return c.JSON(doc)
}

func (h *APIHandlers) CreateGraph(c fiber.Ctx) error {
	var req CreateGraphRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	doc := &models.GraphDocument{
		Name:        req.Name,
		Description: req.Description,
		Nodes:       req.Nodes,
		Connections: req.Connections,
		Metadata:    req.Metadata,
	}

	created, err := h.graphService.Create(c.Context(), doc)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateGraph(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Graph ID is required")
	}

	var req UpdateGraphRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	existing, err := h.graphService.FetchByID(c.Context(), id)
	if err != nil {
		if persistence.IsGraphNotFound(err) {
			return notFound(c, "Graph not found")
		}

		return internalError(c, err)
	}

	// Apply partial updates
	if req.Name != nil {
		existing.Name = *req.Name
	}

	if req.Description != nil {
		existing.Description = *req.Description
	}

	if req.Nodes != nil {
		existing.Nodes = req.Nodes
	}

	if req.Connections != nil {
		existing.Connections = req.Connections
	}

	if req.Metadata != nil {
		existing.Metadata = req.Metadata
	}

	updated, err := h.graphService.Update(c.Context(), id, existing)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteGraph(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Graph ID is required")
	}

	err := h.graphService.Delete(c.Context(), id)
	if err != nil {
		if persistence.IsGraphNotFound(err) {
			return notFound(c, "Graph not found")
		}

		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ValidateGraph(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Graph ID is required")
	}

	issues, err := h.graphService.Validate(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	response := ValidationResponse{
		Valid:  len(issues) == 0,
		Issues: make([]ValidationIssue, 0, len(issues)),
	}

	for _, issue := range issues {
		response.Issues = append(response.Issues, ValidationIssue{
			NodeID:  issue.NodeID,
			Port:    issue.Port,
			Message: issue.Message,
		})
	}

	return c.JSON(response)
}

func (h *APIHandlers) RunGraph(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Graph ID is required")
	}

	run, err := h.graphService.Run(c.Context(), id)
	if err != nil {
		// A failed run still carries the retained results.
		if run != nil {
			return c.Status(fiber.StatusOK).JSON(run)
		}

		return handleServiceError(c, err)
	}

	return c.JSON(run)
}

func (h *APIHandlers) GetRun(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Run ID is required")
	}

	run, err := h.graphService.RunByID(c.Context(), id)
	if err != nil {
		if persistence.IsRunNotFound(err) {
			return notFound(c, "Run not found")
		}

		return internalError(c, err)
	}

	return c.JSON(run)
}

func (h *APIHandlers) GetGraphRuns(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Graph ID is required")
	}

	runs, err := h.graphService.RunsByGraph(c.Context(), id)
	if err != nil {
		if persistence.IsGraphNotFound(err) {
			return notFound(c, "Graph not found")
		}

		return internalError(c, err)
	}

	return c.JSON(runs)
}

func (h *APIHandlers) GetNodeTypes(c fiber.Ctx) error {
	return c.JSON(h.graphService.NodeTypes())
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	registryCheck, regOk := h.graphService.RegistryHealthCheck()
	repositoryCheck, repOk := h.graphService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Reelflow API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if regOk && repOk {
		status = "healthy"
		message = "Reelflow API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"registry":   registryCheck,
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
