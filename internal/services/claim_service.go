package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/securelife/insurance-backend/internal/models"
	"github.com/securelife/insurance-backend/internal/repositories"
	"github.com/securelife/insurance-backend/internal/utils"
	"github.com/securelife/insurance-backend/pkg/blobstore"
	"github.com/securelife/insurance-backend/pkg/sentinel"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// defaultApprovalNotes is recorded when an administrator approves a claim
// without supplying notes
const defaultApprovalNotes = "Claim approved"

// DocumentUpload is a supporting document arriving with a claim
type DocumentUpload struct {
	Type        string
	FileName    string
	ContentType string
	Body        io.Reader
}

// ClaimService defines the interface for claim operations
type ClaimService interface {
	// FileClaim files a claim against an active or matured policy. At least
	// one NIC document must accompany it.
	FileClaim(ctx context.Context, caller models.Caller, req *models.FileClaimRequest, uploads []DocumentUpload) (*models.Claim, error)
	// UploadDocuments attaches further documents to a claim still under
	// consideration
	UploadDocuments(ctx context.Context, caller models.Caller, id primitive.ObjectID, uploads []DocumentUpload) (*models.Claim, error)
	// ListMyClaims lists the caller's own claims
	ListMyClaims(ctx context.Context, caller models.Caller, status models.ClaimStatus) ([]*models.Claim, error)
	// ListClaims lists claims across all customers (admin)
	ListClaims(ctx context.Context, filter models.ClaimFilter) ([]*models.Claim, error)
	// GetClaim returns a claim visible to the caller (owner or admin)
	GetClaim(ctx context.Context, caller models.Caller, id primitive.ObjectID) (*models.Claim, error)
	// ReviewClaim moves FILED to UNDER_REVIEW
	ReviewClaim(ctx context.Context, caller models.Caller, id primitive.ObjectID, notes string) (*models.Claim, error)
	// ApproveClaim moves UNDER_REVIEW to APPROVED. Blank notes are
	// replaced with a default message.
	ApproveClaim(ctx context.Context, caller models.Caller, id primitive.ObjectID, notes string) (*models.Claim, error)
	// RejectClaim moves UNDER_REVIEW to REJECTED. Notes are mandatory so
	// the customer always learns why.
	RejectClaim(ctx context.Context, caller models.Caller, id primitive.ObjectID, notes string) (*models.Claim, error)
	// PayClaim moves APPROVED to PAID
	PayClaim(ctx context.Context, caller models.Caller, id primitive.ObjectID) (*models.Claim, error)
}

type claimService struct {
	claimRepo  repositories.ClaimRepository
	policyRepo repositories.PolicyRepository
	store      blobstore.Store
	logger     *slog.Logger
}

// NewClaimService creates a new ClaimService implementation
func NewClaimService(claimRepo repositories.ClaimRepository, policyRepo repositories.PolicyRepository, store blobstore.Store, logger *slog.Logger) ClaimService {
	return &claimService{claimRepo: claimRepo, policyRepo: policyRepo, store: store, logger: logger}
}

func (s *claimService) FileClaim(ctx context.Context, caller models.Caller, req *models.FileClaimRequest, uploads []DocumentUpload) (*models.Claim, error) {
	if !models.ValidClaimType(req.ClaimType) {
		return nil, fmt.Errorf("%w: unknown claim type %q", sentinel.ErrValidation, req.ClaimType)
	}
	if err := requireNICDocument(uploads); err != nil {
		return nil, err
	}

	policy, err := s.policyRepo.FindByPolicyID(ctx, req.PolicyID)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(policy.UserID) {
		return nil, fmt.Errorf("%w: not your policy", sentinel.ErrForbidden)
	}
	if policy.Status != models.PolicyStatusActive && policy.Status != models.PolicyStatusMatured {
		return nil, fmt.Errorf("%w: policy %s is %s, claims require an active or matured policy",
			sentinel.ErrInvalidState, policy.PolicyID, policy.Status)
	}
	if req.ClaimAmount > policy.CoverageAmount {
		return nil, fmt.Errorf("%w: claim amount %.0f exceeds coverage %.0f",
			sentinel.ErrValidation, req.ClaimAmount, policy.CoverageAmount)
	}

	documents, keys, err := s.storeUploads(ctx, caller, uploads)
	if err != nil {
		return nil, err
	}

	claim := &models.Claim{
		PolicyID:    policy.PolicyID,
		UserID:      caller.UserID,
		ClaimType:   req.ClaimType,
		ClaimAmount: req.ClaimAmount,
		Reason:      req.Reason,
		Status:      models.ClaimStatusFiled,
		Documents:   documents,
	}
	for attempt := 1; ; attempt++ {
		claim.ClaimID = utils.GenerateClaimID()
		err = s.claimRepo.Create(ctx, claim)
		if err == nil {
			break
		}
		if !errors.Is(err, sentinel.ErrConflict) || attempt == maxReferenceAttempts {
			s.discardUploads(ctx, keys)
			return nil, err
		}
		s.logger.Warn("claim reference collision, retrying", "claimId", claim.ClaimID, "attempt", attempt)
	}

	s.logger.Info("claim filed",
		"claimId", claim.ClaimID, "policyId", policy.PolicyID, "userId", caller.UserID.Hex())
	return claim, nil
}

func (s *claimService) UploadDocuments(ctx context.Context, caller models.Caller, id primitive.ObjectID, uploads []DocumentUpload) (*models.Claim, error) {
	if len(uploads) == 0 {
		return nil, fmt.Errorf("%w: no documents supplied", sentinel.ErrValidation)
	}
	claim, err := s.claimRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && !caller.Owns(claim.UserID) {
		return nil, fmt.Errorf("%w: not your claim", sentinel.ErrForbidden)
	}
	if !claim.AcceptsDocuments() {
		return nil, fmt.Errorf("%w: claim %s is %s and no longer accepts documents",
			sentinel.ErrInvalidState, claim.ClaimID, claim.Status)
	}

	documents, keys, err := s.storeUploads(ctx, caller, uploads)
	if err != nil {
		return nil, err
	}

	// The repository re-checks the status inside the update, so a claim
	// approved between the read above and here is still refused.
	updated, err := s.claimRepo.AppendDocuments(ctx, id, documents)
	if err != nil {
		s.discardUploads(ctx, keys)
		return nil, err
	}
	s.logger.Info("claim documents added", "claimId", updated.ClaimID, "count", len(documents))
	return updated, nil
}

func (s *claimService) ListMyClaims(ctx context.Context, caller models.Caller, status models.ClaimStatus) ([]*models.Claim, error) {
	if status != "" && !models.ValidClaimStatus(status) {
		return nil, fmt.Errorf("%w: unknown claim status %q", sentinel.ErrValidation, status)
	}
	return s.claimRepo.FindAll(ctx, models.ClaimFilter{UserID: caller.UserID, Status: status})
}

func (s *claimService) ListClaims(ctx context.Context, filter models.ClaimFilter) ([]*models.Claim, error) {
	if filter.Status != "" && !models.ValidClaimStatus(filter.Status) {
		return nil, fmt.Errorf("%w: unknown claim status %q", sentinel.ErrValidation, filter.Status)
	}
	if filter.ClaimType != "" && !models.ValidClaimType(filter.ClaimType) {
		return nil, fmt.Errorf("%w: unknown claim type %q", sentinel.ErrValidation, filter.ClaimType)
	}
	return s.claimRepo.FindAll(ctx, filter)
}

func (s *claimService) GetClaim(ctx context.Context, caller models.Caller, id primitive.ObjectID) (*models.Claim, error) {
	claim, err := s.claimRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && !caller.Owns(claim.UserID) {
		return nil, fmt.Errorf("%w: not your claim", sentinel.ErrForbidden)
	}
	return claim, nil
}

func (s *claimService) ReviewClaim(ctx context.Context, caller models.Caller, id primitive.ObjectID, notes string) (*models.Claim, error) {
	return s.applyReview(ctx, caller, id, models.ClaimStatusFiled, models.ClaimStatusUnderReview, notes)
}

func (s *claimService) ApproveClaim(ctx context.Context, caller models.Caller, id primitive.ObjectID, notes string) (*models.Claim, error) {
	if strings.TrimSpace(notes) == "" {
		notes = defaultApprovalNotes
	}
	return s.applyReview(ctx, caller, id, models.ClaimStatusUnderReview, models.ClaimStatusApproved, notes)
}

func (s *claimService) RejectClaim(ctx context.Context, caller models.Caller, id primitive.ObjectID, notes string) (*models.Claim, error) {
	if strings.TrimSpace(notes) == "" {
		return nil, fmt.Errorf("%w: review notes are required when rejecting a claim", sentinel.ErrValidation)
	}
	return s.applyReview(ctx, caller, id, models.ClaimStatusUnderReview, models.ClaimStatusRejected, notes)
}

func (s *claimService) PayClaim(ctx context.Context, caller models.Caller, id primitive.ObjectID) (*models.Claim, error) {
	updated, err := s.claimRepo.UpdateStatusFrom(ctx, id, models.ClaimStatusApproved, models.ClaimStatusPaid)
	if err != nil {
		return nil, err
	}
	s.logger.Info("claim paid", "claimId", updated.ClaimID, "by", caller.UserID.Hex())
	return updated, nil
}

func (s *claimService) applyReview(ctx context.Context, caller models.Caller, id primitive.ObjectID, from, to models.ClaimStatus, notes string) (*models.Claim, error) {
	review := models.ClaimReview{
		Status:      to,
		ReviewNotes: notes,
		ReviewedBy:  caller.UserID,
		ReviewedAt:  time.Now(),
	}
	updated, err := s.claimRepo.ApplyReview(ctx, id, from, review)
	if err != nil {
		return nil, err
	}
	s.logger.Info("claim reviewed",
		"claimId", updated.ClaimID, "status", to, "reviewedBy", caller.UserID.Hex())
	return updated, nil
}

// storeUploads pushes each document to the blob store, returning the claim
// document records and the storage keys for compensation on failure
func (s *claimService) storeUploads(ctx context.Context, caller models.Caller, uploads []DocumentUpload) ([]models.ClaimDocument, []string, error) {
	now := time.Now()
	documents := make([]models.ClaimDocument, 0, len(uploads))
	keys := make([]string, 0, len(uploads))
	for i, up := range uploads {
		key := fmt.Sprintf("claims/%s/%d_%d%s",
			caller.UserID.Hex(), now.UnixNano(), i, path.Ext(up.FileName))
		url, err := s.store.Upload(ctx, key, up.ContentType, up.Body)
		if err != nil {
			s.discardUploads(ctx, keys)
			return nil, nil, fmt.Errorf("store document %s: %w", up.FileName, err)
		}
		keys = append(keys, key)
		documents = append(documents, models.ClaimDocument{
			Type:       up.Type,
			URL:        url,
			UploadedAt: now,
		})
	}
	return documents, keys, nil
}

// discardUploads best-effort deletes blobs whose claim record never landed
func (s *claimService) discardUploads(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn("orphaned claim document", "key", key, "error", err)
		}
	}
}

func requireNICDocument(uploads []DocumentUpload) error {
	for _, up := range uploads {
		if up.Type == models.DocumentTypeNIC {
			return nil
		}
	}
	return fmt.Errorf("%w: a %s document is required to file a claim",
		sentinel.ErrValidation, models.DocumentTypeNIC)
}
