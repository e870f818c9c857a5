// Package routes wires the HTTP handlers into the gin router.
package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/securelife/insurance-backend/internal/config"
	"github.com/securelife/insurance-backend/internal/handlers"
	"github.com/securelife/insurance-backend/internal/middleware"
	"github.com/securelife/insurance-backend/pkg/token"
)

// Handlers bundles the HTTP handlers the router needs
type Handlers struct {
	Auth   *handlers.AuthHandler
	Plan   *handlers.PlanHandler
	Policy *handlers.PolicyHandler
	Claim  *handlers.ClaimHandler
	Admin  *handlers.AdminHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, tokens *token.Manager, h Handlers, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(logger))

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		plans := public.Group("/plans")
		{
			plans.GET("", h.Plan.ListPlans)
			plans.GET("/types", h.Plan.ListPlanTypes)
			plans.GET("/:id", h.Plan.GetPlan)
		}

		public.POST("/policies/calculate-premium", h.Policy.CalculatePremium)
	}

	// Authenticated routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(tokens))
	{
		protected.GET("/auth/me", h.Auth.Me)

		policies := protected.Group("/policies")
		{
			policies.POST("", h.Policy.RequestPolicy)
			policies.GET("/my-policies", h.Policy.ListMyPolicies)
			policies.GET("/:id", h.Policy.GetPolicy)
		}

		claims := protected.Group("/claims")
		{
			claims.POST("", h.Claim.FileClaim)
			claims.GET("/my-claims", h.Claim.ListMyClaims)
			claims.GET("/:id", h.Claim.GetClaim)
			claims.POST("/:id/documents", h.Claim.UploadDocuments)
		}
	}

	// Administrator routes
	admin := router.Group("/api/v1")
	admin.Use(middleware.JWTAuthMiddleware(tokens), middleware.RequireAdmin())
	{
		plans := admin.Group("/plans")
		{
			plans.POST("", h.Plan.CreatePlan)
			plans.PUT("/:id", h.Plan.UpdatePlan)
			plans.DELETE("/:id", h.Plan.DeactivatePlan)
		}

		policies := admin.Group("/policies")
		{
			policies.GET("", h.Policy.ListPolicies)
			policies.PUT("/:id/approve", h.Policy.ApprovePolicy)
			policies.PUT("/:id/reject", h.Policy.RejectPolicy)
			policies.PUT("/:id/status", h.Policy.UpdateStatus)
		}

		claims := admin.Group("/claims")
		{
			claims.GET("", h.Claim.ListClaims)
			claims.PUT("/:id/review", h.Claim.ReviewClaim)
			claims.PUT("/:id/approve", h.Claim.ApproveClaim)
			claims.PUT("/:id/reject", h.Claim.RejectClaim)
			claims.PUT("/:id/pay", h.Claim.PayClaim)
		}

		dashboard := admin.Group("/admin")
		{
			dashboard.GET("/dashboard", h.Admin.Dashboard)
			dashboard.GET("/customers", h.Admin.ListCustomers)
			dashboard.GET("/customers/:id", h.Admin.GetCustomer)
			dashboard.GET("/statistics/policies", h.Admin.PolicyStatistics)
			dashboard.GET("/statistics/claims", h.Admin.ClaimStatistics)
			dashboard.GET("/statistics/revenue", h.Admin.RevenueStatistics)
		}
	}

	return router
}
