package services

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/securelife/insurance-backend/internal/models"
	"github.com/securelife/insurance-backend/internal/repositories/memory"
	"github.com/securelife/insurance-backend/pkg/blobstore"
	"github.com/securelife/insurance-backend/pkg/sentinel"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ClaimServiceSuite struct {
	suite.Suite
	ctx        context.Context
	claimRepo  *memory.ClaimRepository
	policyRepo *memory.PolicyRepository
	store      *blobstore.MockStore
	service    ClaimService
	policy     *models.Policy
	customer   models.Caller
	admin      models.Caller
}

func (s *ClaimServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.claimRepo = memory.NewClaimRepository()
	s.policyRepo = memory.NewPolicyRepository()
	s.store = blobstore.NewMockStore()
	s.service = NewClaimService(s.claimRepo, s.policyRepo, s.store, testLogger())

	s.customer = models.Caller{UserID: primitive.NewObjectID(), Role: models.RoleCustomer}
	s.admin = models.Caller{UserID: primitive.NewObjectID(), Role: models.RoleAdmin}

	s.policy = &models.Policy{
		PolicyID:       "POL-2025-123456",
		UserID:         s.customer.UserID,
		PlanID:         "PLAN-001",
		PlanType:       models.PlanTypeTermLife,
		CoverageAmount: 2_000_000,
		Status:         models.PolicyStatusActive,
	}
	s.Require().NoError(s.policyRepo.Create(s.ctx, s.policy))
}

func (s *ClaimServiceSuite) fileRequest() *models.FileClaimRequest {
	return &models.FileClaimRequest{
		PolicyID:    "POL-2025-123456",
		ClaimType:   models.ClaimTypeCriticalIllness,
		ClaimAmount: 500_000,
		Reason:      "Hospitalisation following diagnosis",
	}
}

func nicUpload() DocumentUpload {
	return DocumentUpload{
		Type:        models.DocumentTypeNIC,
		FileName:    "nic.jpg",
		ContentType: "image/jpeg",
		Body:        strings.NewReader("nic-scan"),
	}
}

func reportUpload() DocumentUpload {
	return DocumentUpload{
		Type:        "medical_report",
		FileName:    "report.pdf",
		ContentType: "application/pdf",
		Body:        strings.NewReader("report"),
	}
}

func (s *ClaimServiceSuite) TestFileClaim() {
	claim, err := s.service.FileClaim(s.ctx, s.customer, s.fileRequest(),
		[]DocumentUpload{nicUpload(), reportUpload()})
	s.Require().NoError(err)

	s.Equal(models.ClaimStatusFiled, claim.Status)
	s.Regexp(regexp.MustCompile(`^CLM-\d{4}-\d{6}$`), claim.ClaimID)
	s.Equal("POL-2025-123456", claim.PolicyID)
	s.Len(claim.Documents, 2)
	s.Equal(models.DocumentTypeNIC, claim.Documents[0].Type)
	s.NotEmpty(claim.Documents[0].URL)
	s.Equal(2, s.store.Len())
}

func (s *ClaimServiceSuite) TestFileClaimRequiresNICDocument() {
	_, err := s.service.FileClaim(s.ctx, s.customer, s.fileRequest(),
		[]DocumentUpload{reportUpload()})
	s.ErrorIs(err, sentinel.ErrValidation)
	s.ErrorContains(err, "NIC")
	s.Equal(0, s.store.Len())
}

func (s *ClaimServiceSuite) TestFileClaimRequiresActiveOrMaturedPolicy() {
	for _, status := range []models.PolicyStatus{
		models.PolicyStatusRequested,
		models.PolicyStatusLapsed,
		models.PolicyStatusCancelled,
	} {
		_, err := s.policyRepo.UpdateStatus(s.ctx, s.policy.ID, status)
		s.Require().NoError(err)

		_, err = s.service.FileClaim(s.ctx, s.customer, s.fileRequest(),
			[]DocumentUpload{nicUpload()})
		s.ErrorIs(err, sentinel.ErrInvalidState, "status %s", status)
	}

	_, err := s.policyRepo.UpdateStatus(s.ctx, s.policy.ID, models.PolicyStatusMatured)
	s.Require().NoError(err)
	_, err = s.service.FileClaim(s.ctx, s.customer, s.fileRequest(),
		[]DocumentUpload{nicUpload()})
	s.NoError(err)
}

func (s *ClaimServiceSuite) TestFileClaimAmountCannotExceedCoverage() {
	req := s.fileRequest()
	req.ClaimAmount = 3_000_000

	_, err := s.service.FileClaim(s.ctx, s.customer, req, []DocumentUpload{nicUpload()})
	s.ErrorIs(err, sentinel.ErrValidation)
	s.ErrorContains(err, "coverage")
}

func (s *ClaimServiceSuite) TestFileClaimOnlyAgainstOwnPolicy() {
	stranger := models.Caller{UserID: primitive.NewObjectID(), Role: models.RoleCustomer}
	_, err := s.service.FileClaim(s.ctx, stranger, s.fileRequest(),
		[]DocumentUpload{nicUpload()})
	s.ErrorIs(err, sentinel.ErrForbidden)
}

func (s *ClaimServiceSuite) TestUploadDocumentsWhileUnderConsideration() {
	claim, err := s.service.FileClaim(s.ctx, s.customer, s.fileRequest(),
		[]DocumentUpload{nicUpload()})
	s.Require().NoError(err)

	updated, err := s.service.UploadDocuments(s.ctx, s.customer, claim.ID,
		[]DocumentUpload{reportUpload()})
	s.Require().NoError(err)
	s.Len(updated.Documents, 2)

	_, err = s.service.ReviewClaim(s.ctx, s.admin, claim.ID, "")
	s.Require().NoError(err)
	updated, err = s.service.UploadDocuments(s.ctx, s.customer, claim.ID,
		[]DocumentUpload{reportUpload()})
	s.Require().NoError(err)
	s.Len(updated.Documents, 3)
}

func (s *ClaimServiceSuite) TestUploadDocumentsRefusedOnceProcessed() {
	claim, err := s.service.FileClaim(s.ctx, s.customer, s.fileRequest(),
		[]DocumentUpload{nicUpload()})
	s.Require().NoError(err)

	_, err = s.service.ReviewClaim(s.ctx, s.admin, claim.ID, "")
	s.Require().NoError(err)
	_, err = s.service.ApproveClaim(s.ctx, s.admin, claim.ID, "all evidence in order")
	s.Require().NoError(err)

	_, err = s.service.UploadDocuments(s.ctx, s.customer, claim.ID,
		[]DocumentUpload{reportUpload()})
	s.ErrorIs(err, sentinel.ErrInvalidState)
}

func (s *ClaimServiceSuite) TestClaimLifecycle() {
	claim, err := s.service.FileClaim(s.ctx, s.customer, s.fileRequest(),
		[]DocumentUpload{nicUpload()})
	s.Require().NoError(err)

	// Approve straight from FILED skips the review step
	_, err = s.service.ApproveClaim(s.ctx, s.admin, claim.ID, "")
	s.ErrorIs(err, sentinel.ErrInvalidState)

	reviewed, err := s.service.ReviewClaim(s.ctx, s.admin, claim.ID, "checking hospital records")
	s.Require().NoError(err)
	s.Equal(models.ClaimStatusUnderReview, reviewed.Status)
	s.Require().NotNil(reviewed.ReviewedBy)
	s.Equal(s.admin.UserID, *reviewed.ReviewedBy)
	s.NotNil(reviewed.ReviewedAt)

	// Pay before approval is refused
	_, err = s.service.PayClaim(s.ctx, s.admin, claim.ID)
	s.ErrorIs(err, sentinel.ErrInvalidState)

	approved, err := s.service.ApproveClaim(s.ctx, s.admin, claim.ID, "verified")
	s.Require().NoError(err)
	s.Equal(models.ClaimStatusApproved, approved.Status)

	paid, err := s.service.PayClaim(s.ctx, s.admin, claim.ID)
	s.Require().NoError(err)
	s.Equal(models.ClaimStatusPaid, paid.Status)

	// Terminal: a second payment is refused
	_, err = s.service.PayClaim(s.ctx, s.admin, claim.ID)
	s.ErrorIs(err, sentinel.ErrInvalidState)
}

func (s *ClaimServiceSuite) TestApproveWithoutNotesRecordsDefault() {
	claim, err := s.service.FileClaim(s.ctx, s.customer, s.fileRequest(),
		[]DocumentUpload{nicUpload()})
	s.Require().NoError(err)

	_, err = s.service.ReviewClaim(s.ctx, s.admin, claim.ID, "")
	s.Require().NoError(err)

	approved, err := s.service.ApproveClaim(s.ctx, s.admin, claim.ID, "   ")
	s.Require().NoError(err)
	s.Equal("Claim approved", approved.ReviewNotes)
}

func (s *ClaimServiceSuite) TestApproveKeepsSuppliedNotes() {
	claim, err := s.service.FileClaim(s.ctx, s.customer, s.fileRequest(),
		[]DocumentUpload{nicUpload()})
	s.Require().NoError(err)

	_, err = s.service.ReviewClaim(s.ctx, s.admin, claim.ID, "")
	s.Require().NoError(err)

	approved, err := s.service.ApproveClaim(s.ctx, s.admin, claim.ID, "verified against hospital records")
	s.Require().NoError(err)
	s.Equal("verified against hospital records", approved.ReviewNotes)
}

func (s *ClaimServiceSuite) TestListClaimsRejectsUnknownFilters() {
	_, err := s.service.ListMyClaims(s.ctx, s.customer, "PENDING")
	s.ErrorIs(err, sentinel.ErrValidation)

	_, err = s.service.ListClaims(s.ctx, models.ClaimFilter{Status: "PENDING"})
	s.ErrorIs(err, sentinel.ErrValidation)

	_, err = s.service.ListClaims(s.ctx, models.ClaimFilter{ClaimType: "theft"})
	s.ErrorIs(err, sentinel.ErrValidation)

	_, err = s.service.ListClaims(s.ctx, models.ClaimFilter{Status: models.ClaimStatusFiled})
	s.NoError(err)
}

func (s *ClaimServiceSuite) TestRejectRequiresNotes() {
	claim, err := s.service.FileClaim(s.ctx, s.customer, s.fileRequest(),
		[]DocumentUpload{nicUpload()})
	s.Require().NoError(err)

	_, err = s.service.ReviewClaim(s.ctx, s.admin, claim.ID, "")
	s.Require().NoError(err)

	_, err = s.service.RejectClaim(s.ctx, s.admin, claim.ID, "   ")
	s.ErrorIs(err, sentinel.ErrValidation)

	rejected, err := s.service.RejectClaim(s.ctx, s.admin, claim.ID, "policy exclusion applies")
	s.Require().NoError(err)
	s.Equal(models.ClaimStatusRejected, rejected.Status)
	s.Equal("policy exclusion applies", rejected.ReviewNotes)
}

func (s *ClaimServiceSuite) TestGetClaimAuthorization() {
	claim, err := s.service.FileClaim(s.ctx, s.customer, s.fileRequest(),
		[]DocumentUpload{nicUpload()})
	s.Require().NoError(err)

	_, err = s.service.GetClaim(s.ctx, s.customer, claim.ID)
	s.NoError(err)
	_, err = s.service.GetClaim(s.ctx, s.admin, claim.ID)
	s.NoError(err)

	stranger := models.Caller{UserID: primitive.NewObjectID(), Role: models.RoleCustomer}
	_, err = s.service.GetClaim(s.ctx, stranger, claim.ID)
	s.ErrorIs(err, sentinel.ErrForbidden)
}

func (s *ClaimServiceSuite) TestListMyClaimsScopesToCaller() {
	_, err := s.service.FileClaim(s.ctx, s.customer, s.fileRequest(),
		[]DocumentUpload{nicUpload()})
	s.Require().NoError(err)

	mine, err := s.service.ListMyClaims(s.ctx, s.customer, "")
	s.Require().NoError(err)
	s.Len(mine, 1)

	stranger := models.Caller{UserID: primitive.NewObjectID(), Role: models.RoleCustomer}
	theirs, err := s.service.ListMyClaims(s.ctx, stranger, "")
	s.Require().NoError(err)
	s.Empty(theirs)
}

func TestClaimServiceSuite(t *testing.T) {
	suite.Run(t, new(ClaimServiceSuite))
}
