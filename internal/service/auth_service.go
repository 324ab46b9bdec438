package service

import (
	"context"
	"errors"
	"strings"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/jwt"
)

var (
	ErrInvalidCredentials = apperr.Auth("invalid email or password")
	ErrWrongPassword      = apperr.Auth("current password is incorrect")
)

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*model.UserResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	ResetPassword(ctx context.Context, req *ResetPasswordRequest) error
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

type RegisterRequest struct {
	Name            string  `json:"name" validate:"required,max=255"`
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=8"`
	ConfirmPassword string  `json:"confirm_password" validate:"required,eqfield=Password"`
	Phone           *string `json:"phone" validate:"omitempty,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*model.UserResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(req); err != nil {
		return nil, err
	}

	// 1. Email and name are both unique
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Conflict("email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeErr(err, "user")
	}
	if _, err := s.userRepo.FindByName(ctx, req.Name); err == nil {
		return nil, apperr.Conflict("name already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeErr(err, "user")
	}

	// 2. Hash and save
	user := &model.User{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storeErr(err, "user")
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, storeErr(err, "user")
	}
	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, apperr.Internal("failed to generate token", err)
	}
	return &LoginResponse{Token: token, User: user.ToResponse()}, nil
}

func (s *authService) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return storeErr(err, "user")
	}
	if !user.CheckPassword(req.OldPassword) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return apperr.Internal("failed to hash password", err)
	}
	return storeErr(s.userRepo.UpdatePassword(ctx, user.ID, user.Password), "user")
}

// Authenticate resolves a bearer token to a live user. Tokens of deleted
// users are rejected.
func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, apperr.Auth(err.Error())
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Auth("user no longer exists")
	}
	if err != nil {
		return nil, storeErr(err, "user")
	}
	return user, nil
}
