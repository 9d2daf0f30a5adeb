package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"heavysync/internal/apperror"
	"heavysync/internal/model"
	"heavysync/internal/repository"
	"heavysync/pkg/jwt"

	"github.com/google/uuid"
)

const (
	msgInvalidCredentials = "Invalid username or password"
	msgUserExists         = "Username or email already exists"
	msgWrongPassword      = "Current password is incorrect"
)

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error
}

type RegisterRequest struct {
	FullName        string  `json:"fullName" validate:"required,min=2,max=100"`
	Username        string  `json:"username" validate:"required,min=3,max=30,username"`
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" trim:"-" validate:"required,min=6,password"`
	ConfirmPassword *string `json:"confirmPassword,omitempty" trim:"-" validate:"omitempty,eqfield=Password"`
	Phone           *string `json:"phone,omitempty" validate:"omitzero,phone"`
	Role            *string `json:"role,omitempty" validate:"omitempty,oneof=admin user"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" trim:"-" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword     string  `json:"oldPassword" trim:"-" validate:"required"`
	NewPassword     string  `json:"newPassword" trim:"-" validate:"required,min=6,password"`
	ConfirmPassword *string `json:"confirmPassword,omitempty" trim:"-" validate:"omitempty,eqfield=NewPassword"`
}

type LoginResponse struct {
	Token   string             `json:"token"`
	Message string             `json:"message"`
	User    model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	log      *slog.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, log *slog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		log:      log,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*model.User, error) {
	email := strings.ToLower(req.Email)

	// 1. Reject duplicates before hashing
	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, req.Username, email)
	if err != nil {
		return nil, unexpected(ctx, s.log, "check user exists", err, "username", req.Username)
	}
	if exists {
		return nil, apperror.Conflict(msgUserExists)
	}

	// 2. Build the user
	role := model.RoleUser
	if req.Role != nil && *req.Role != "" {
		if role, err = parseEnum[model.Role]("role", *req.Role); err != nil {
			return nil, err
		}
	}
	user := &model.User{
		FullName: req.FullName,
		Username: req.Username,
		Email:    email,
		Phone:    deref(req.Phone),
		Role:     role,
	}
	user.CreatedBy = req.Username
	user.UpdatedBy = req.Username
	if err := user.SetPassword(req.Password); err != nil {
		return nil, unexpected(ctx, s.log, "hash password", err)
	}

	// 3. Insert; the unique index is the final word on races
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict(msgUserExists)
		}
		return nil, unexpected(ctx, s.log, "create user", err, "username", req.Username)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	// 1. Find user by username
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, unexpected(ctx, s.log, "find user", err)
		}
		model.BurnPasswordCheck(req.Password)
		return nil, apperror.Validation(msgInvalidCredentials)
	}

	// 2. Verify password
	if !user.CheckPassword(req.Password) {
		return nil, apperror.Validation(msgInvalidCredentials)
	}

	// 3. Issue token
	token, err := s.tokens.Issue(jwt.Identity{UserID: user.ID, Username: user.Username, Role: string(user.Role)})
	if err != nil {
		return nil, unexpected(ctx, s.log, "issue token", err, "user_id", user.ID)
	}

	return &LoginResponse{
		Token:   token,
		Message: "Login successful",
		User:    user.ToResponse(),
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return lookupError(ctx, s.log, "find user", "User not found", err, "user_id", userID)
	}

	if !user.CheckPassword(req.OldPassword) {
		return apperror.Validation(msgWrongPassword)
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return unexpected(ctx, s.log, "hash password", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return lookupError(ctx, s.log, "update password", "User not found", err, "user_id", userID)
	}
	return nil
}
