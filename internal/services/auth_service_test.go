package services

import (
	"context"
	"testing"
	"time"

	"github.com/securelife/insurance-backend/internal/models"
	"github.com/securelife/insurance-backend/internal/repositories/memory"
	"github.com/securelife/insurance-backend/pkg/sentinel"
	"github.com/securelife/insurance-backend/pkg/token"
	"github.com/stretchr/testify/suite"
)

type AuthServiceSuite struct {
	suite.Suite
	ctx     context.Context
	repo    *memory.UserRepository
	tokens  *token.Manager
	service AuthService
}

func (s *AuthServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = memory.NewUserRepository()
	s.tokens = token.NewManager("test-secret", time.Hour)
	s.service = NewAuthService(s.repo, s.tokens, testLogger())
}

func (s *AuthServiceSuite) register() *models.RegisterRequest {
	return &models.RegisterRequest{
		FullName:    "Amara Perera",
		Email:       "amara@example.com",
		Password:    "s3cretpw",
		Phone:       "0771234567",
		NIC:         "857290114V",
		Address:     "12 Galle Road, Colombo",
		DateOfBirth: "1985-03-14",
	}
}

func (s *AuthServiceSuite) TestRegisterIssuesTokenForCustomer() {
	resp, err := s.service.Register(s.ctx, s.register())
	s.Require().NoError(err)

	s.NotEmpty(resp.Token)
	s.Equal(models.RoleCustomer, resp.User.Role)
	s.NotEqual("s3cretpw", resp.User.Password, "password must be stored hashed")
	s.Equal(1985, resp.User.DateOfBirth.Year())

	caller, err := s.tokens.Validate(resp.Token)
	s.Require().NoError(err)
	s.Equal(resp.User.ID, caller.UserID)
	s.Equal(models.RoleCustomer, caller.Role)
}

func (s *AuthServiceSuite) TestRegisterRejectsDuplicateEmail() {
	_, err := s.service.Register(s.ctx, s.register())
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, s.register())
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *AuthServiceSuite) TestRegisterRejectsMalformedDateOfBirth() {
	req := s.register()
	req.DateOfBirth = "14/03/1985"
	_, err := s.service.Register(s.ctx, req)
	s.ErrorIs(err, sentinel.ErrValidation)
}

func (s *AuthServiceSuite) TestLogin() {
	_, err := s.service.Register(s.ctx, s.register())
	s.Require().NoError(err)

	resp, err := s.service.Login(s.ctx, &models.LoginRequest{
		Email:    "amara@example.com",
		Password: "s3cretpw",
	})
	s.Require().NoError(err)
	s.NotEmpty(resp.Token)
}

func (s *AuthServiceSuite) TestLoginDoesNotRevealWhichPartFailed() {
	_, err := s.service.Register(s.ctx, s.register())
	s.Require().NoError(err)

	_, badPassword := s.service.Login(s.ctx, &models.LoginRequest{
		Email:    "amara@example.com",
		Password: "wrong",
	})
	_, unknownEmail := s.service.Login(s.ctx, &models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "wrong",
	})

	s.ErrorIs(badPassword, sentinel.ErrUnauthorized)
	s.ErrorIs(unknownEmail, sentinel.ErrUnauthorized)
	s.Equal(badPassword.Error(), unknownEmail.Error())
}

func (s *AuthServiceSuite) TestMe() {
	resp, err := s.service.Register(s.ctx, s.register())
	s.Require().NoError(err)

	user, err := s.service.Me(s.ctx, models.Caller{UserID: resp.User.ID, Role: resp.User.Role})
	s.Require().NoError(err)
	s.Equal("amara@example.com", user.Email)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}
