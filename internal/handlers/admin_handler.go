package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/securelife/insurance-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminHandler handles dashboard and reporting HTTP requests
type AdminHandler struct {
	adminService services.AdminService
	logger       *slog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService services.AdminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{adminService: adminService, logger: logger}
}

// Dashboard handles GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "", stats)
}

// ListCustomers handles GET /admin/customers
func (h *AdminHandler) ListCustomers(c *gin.Context) {
	customers, err := h.adminService.ListCustomers(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondList(c, "", customers, len(customers))
}

// GetCustomer handles GET /admin/customers/:id
func (h *AdminHandler) GetCustomer(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid ID format"})
		return
	}

	details, err := h.adminService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "", details)
}

// PolicyStatistics handles GET /admin/statistics/policies
func (h *AdminHandler) PolicyStatistics(c *gin.Context) {
	stats, err := h.adminService.PolicyStatistics(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "", stats)
}

// ClaimStatistics handles GET /admin/statistics/claims
func (h *AdminHandler) ClaimStatistics(c *gin.Context) {
	stats, err := h.adminService.ClaimStatistics(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "", stats)
}

// RevenueStatistics handles GET /admin/statistics/revenue
func (h *AdminHandler) RevenueStatistics(c *gin.Context) {
	stats, err := h.adminService.RevenueStatistics(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "", stats)
}
