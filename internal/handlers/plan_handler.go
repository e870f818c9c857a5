package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/securelife/insurance-backend/internal/models"
	"github.com/securelife/insurance-backend/internal/services"
)

// PlanHandler handles insurance plan HTTP requests
type PlanHandler struct {
	planService services.PlanService
	logger      *slog.Logger
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(planService services.PlanService, logger *slog.Logger) *PlanHandler {
	return &PlanHandler{planService: planService, logger: logger}
}

// ListPlans handles GET /plans
func (h *PlanHandler) ListPlans(c *gin.Context) {
	filter := models.PlanFilter{
		PlanType: models.PlanType(c.Query("planType")),
		Search:   c.Query("search"),
	}
	if v := c.Query("minCoverage"); v != "" {
		filter.MinCoverage, _ = strconv.ParseFloat(v, 64)
	}
	if v := c.Query("maxCoverage"); v != "" {
		filter.MaxCoverage, _ = strconv.ParseFloat(v, 64)
	}

	plans, err := h.planService.ListPlans(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondList(c, "", plans, len(plans))
}

// ListPlanTypes handles GET /plans/types
func (h *PlanHandler) ListPlanTypes(c *gin.Context) {
	types, err := h.planService.ListPlanTypes(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondList(c, "", types, len(types))
}

// GetPlan handles GET /plans/:id
func (h *PlanHandler) GetPlan(c *gin.Context) {
	plan, err := h.planService.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "", plan)
}

// CreatePlan handles POST /plans (admin)
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req models.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusCreated, "Plan created", plan)
}

// UpdatePlan handles PUT /plans/:id (admin)
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	var req models.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	plan, err := h.planService.UpdatePlan(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "Plan updated", plan)
}

// DeactivatePlan handles DELETE /plans/:id (admin, soft delete)
func (h *PlanHandler) DeactivatePlan(c *gin.Context) {
	plan, err := h.planService.DeactivatePlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "Plan deactivated", plan)
}
