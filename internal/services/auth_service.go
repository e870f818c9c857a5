package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/securelife/insurance-backend/internal/models"
	"github.com/securelife/insurance-backend/internal/repositories"
	"github.com/securelife/insurance-backend/pkg/sentinel"
	"github.com/securelife/insurance-backend/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	// Me returns the account behind the authenticated caller
	Me(ctx context.Context, caller models.Caller) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
	tokens   *token.Manager
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService implementation
func NewAuthService(userRepo repositories.UserRepository, tokens *token.Manager, logger *slog.Logger) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens, logger: logger}
}

// Register creates a customer account and signs it in
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		FullName: req.FullName,
		Email:    req.Email,
		Password: string(hashed),
		Phone:    req.Phone,
		NIC:      req.NIC,
		Address:  req.Address,
		Role:     models.RoleCustomer,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("%w: dateOfBirth must be YYYY-MM-DD", sentinel.ErrValidation)
		}
		user.DateOfBirth = dob
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "userId", user.ID.Hex(), "email", user.Email)

	signed, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: signed, User: user}, nil
}

// Login verifies credentials and issues a token. Missing accounts and wrong
// passwords produce the same error so the endpoint does not leak which
// emails exist.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", sentinel.ErrUnauthorized)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", sentinel.ErrUnauthorized)
	}

	signed, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user logged in", "userId", user.ID.Hex())
	return &models.AuthResponse{Token: signed, User: user}, nil
}

func (s *authService) Me(ctx context.Context, caller models.Caller) (*models.User, error) {
	return s.userRepo.FindByID(ctx, caller.UserID)
}
