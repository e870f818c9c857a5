package handlers

import (
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/securelife/insurance-backend/internal/middleware"
	"github.com/securelife/insurance-backend/internal/models"
	"github.com/securelife/insurance-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClaimHandler handles claim HTTP requests
type ClaimHandler struct {
	claimService services.ClaimService
	logger       *slog.Logger
}

// NewClaimHandler creates a new ClaimHandler
func NewClaimHandler(claimService services.ClaimService, logger *slog.Logger) *ClaimHandler {
	return &ClaimHandler{claimService: claimService, logger: logger}
}

// FileClaim handles POST /claims. The body is multipart: claim fields plus
// files under "documents" with their types under "documentTypes" in the
// same order.
func (h *ClaimHandler) FileClaim(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)

	var req models.FileClaimRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	uploads, closeFiles, ok := h.collectUploads(c)
	if !ok {
		return
	}
	defer closeFiles()

	claim, err := h.claimService.FileClaim(c.Request.Context(), caller, &req, uploads)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusCreated, "Claim filed", claim)
}

// UploadDocuments handles POST /claims/:id/documents
func (h *ClaimHandler) UploadDocuments(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid ID format"})
		return
	}

	uploads, closeFiles, ok := h.collectUploads(c)
	if !ok {
		return
	}
	defer closeFiles()

	claim, err := h.claimService.UploadDocuments(c.Request.Context(), caller, id, uploads)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "Documents uploaded", claim)
}

// ListMyClaims handles GET /claims/my-claims
func (h *ClaimHandler) ListMyClaims(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)

	claims, err := h.claimService.ListMyClaims(c.Request.Context(), caller,
		models.ClaimStatus(c.Query("status")))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondList(c, "", claims, len(claims))
}

// ListClaims handles GET /claims (admin)
func (h *ClaimHandler) ListClaims(c *gin.Context) {
	filter := models.ClaimFilter{
		Status:    models.ClaimStatus(c.Query("status")),
		ClaimType: models.ClaimType(c.Query("claimType")),
		PolicyID:  c.Query("policyId"),
	}

	claims, err := h.claimService.ListClaims(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondList(c, "", claims, len(claims))
}

// GetClaim handles GET /claims/:id
func (h *ClaimHandler) GetClaim(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid ID format"})
		return
	}

	claim, err := h.claimService.GetClaim(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "", claim)
}

// reviewRequest carries the optional (or, for reject, mandatory) notes on
// the admin claim transitions
type reviewRequest struct {
	ReviewNotes string `json:"reviewNotes"`
}

// ReviewClaim handles PUT /claims/:id/review (admin)
func (h *ClaimHandler) ReviewClaim(c *gin.Context) {
	h.transition(c, "Claim moved to review", h.claimService.ReviewClaim)
}

// ApproveClaim handles PUT /claims/:id/approve (admin)
func (h *ClaimHandler) ApproveClaim(c *gin.Context) {
	h.transition(c, "Claim approved", h.claimService.ApproveClaim)
}

// RejectClaim handles PUT /claims/:id/reject (admin)
func (h *ClaimHandler) RejectClaim(c *gin.Context) {
	h.transition(c, "Claim rejected", h.claimService.RejectClaim)
}

// PayClaim handles PUT /claims/:id/pay (admin)
func (h *ClaimHandler) PayClaim(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid ID format"})
		return
	}

	claim, err := h.claimService.PayClaim(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "Claim paid", claim)
}

func (h *ClaimHandler) transition(c *gin.Context, message string,
	op func(ctx context.Context, caller models.Caller, id primitive.ObjectID, notes string) (*models.Claim, error)) {
	caller, _ := middleware.CallerFrom(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid ID format"})
		return
	}

	var req reviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err)
			return
		}
	}

	claim, err := op(c.Request.Context(), caller, id, req.ReviewNotes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, message, claim)
}

// collectUploads reads the multipart document files and their declared
// types. On a malformed request it writes the error response itself and
// reports ok=false.
func (h *ClaimHandler) collectUploads(c *gin.Context) ([]services.DocumentUpload, func(), bool) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Multipart form expected"})
		return nil, nil, false
	}

	files := form.File["documents"]
	types := form.Value["documentTypes"]
	if len(types) != len(files) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Each document needs a matching documentTypes entry",
		})
		return nil, nil, false
	}

	var opened []multipart.File
	closeFiles := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	uploads := make([]services.DocumentUpload, 0, len(files))
	for i, header := range files {
		file, err := header.Open()
		if err != nil {
			closeFiles()
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unreadable upload: " + header.Filename})
			return nil, nil, false
		}
		opened = append(opened, file)
		uploads = append(uploads, services.DocumentUpload{
			Type:        types[i],
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		})
	}
	return uploads, closeFiles, true
}
