package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/securelife/insurance-backend/internal/middleware"
	"github.com/securelife/insurance-backend/internal/models"
	"github.com/securelife/insurance-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PolicyHandler handles policy HTTP requests
type PolicyHandler struct {
	policyService services.PolicyService
	logger        *slog.Logger
}

// NewPolicyHandler creates a new PolicyHandler
func NewPolicyHandler(policyService services.PolicyService, logger *slog.Logger) *PolicyHandler {
	return &PolicyHandler{policyService: policyService, logger: logger}
}

// CalculatePremium handles POST /policies/calculate-premium
func (h *PolicyHandler) CalculatePremium(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	quote, err := h.policyService.Quote(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "", quote)
}

// RequestPolicy handles POST /policies
func (h *PolicyHandler) RequestPolicy(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)

	var req models.RequestPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	policy, err := h.policyService.RequestPolicy(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusCreated, "Policy requested", policy)
}

// ListMyPolicies handles GET /policies/my-policies
func (h *PolicyHandler) ListMyPolicies(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)

	policies, err := h.policyService.ListMyPolicies(c.Request.Context(), caller,
		models.PolicyStatus(c.Query("status")))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondList(c, "", policies, len(policies))
}

// ListPolicies handles GET /policies (admin)
func (h *PolicyHandler) ListPolicies(c *gin.Context) {
	filter := models.PolicyFilter{
		Status:   models.PolicyStatus(c.Query("status")),
		PlanType: models.PlanType(c.Query("planType")),
	}
	if v := c.Query("userId"); v != "" {
		userID, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid userId"})
			return
		}
		filter.UserID = userID
	}

	policies, err := h.policyService.ListPolicies(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondList(c, "", policies, len(policies))
}

// GetPolicy handles GET /policies/:id
func (h *PolicyHandler) GetPolicy(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid ID format"})
		return
	}

	policy, err := h.policyService.GetPolicy(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "", policy)
}

// ApprovePolicy handles PUT /policies/:id/approve (admin)
func (h *PolicyHandler) ApprovePolicy(c *gin.Context) {
	h.transition(c, "Policy approved", h.policyService.ApprovePolicy)
}

// RejectPolicy handles PUT /policies/:id/reject (admin)
func (h *PolicyHandler) RejectPolicy(c *gin.Context) {
	h.transition(c, "Policy rejected", h.policyService.RejectPolicy)
}

// UpdateStatus handles PUT /policies/:id/status (admin force override)
func (h *PolicyHandler) UpdateStatus(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid ID format"})
		return
	}

	var req models.UpdatePolicyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	policy, err := h.policyService.ForceStatus(c.Request.Context(), caller, id, req.Status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "Policy status updated", policy)
}

func (h *PolicyHandler) transition(c *gin.Context, message string,
	op func(ctx context.Context, caller models.Caller, id primitive.ObjectID) (*models.Policy, error)) {
	caller, _ := middleware.CallerFrom(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid ID format"})
		return
	}

	policy, err := op(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, message, policy)
}
