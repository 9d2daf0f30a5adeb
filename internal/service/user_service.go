package service

import (
	"context"
	"log/slog"

	"heavysync/internal/model"
	"heavysync/internal/repository"

	"github.com/google/uuid"
)

type UserService interface {
	Me(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*model.UserResponse, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

type UpdateProfileRequest struct {
	FullName *string `json:"fullName,omitempty" validate:"omitnil,min=2,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitzero,phone"`
}

type CheckUsernameRequest struct {
	Username string `json:"username" validate:"required"`
}

type userService struct {
	userRepo repository.UserRepository
	log      *slog.Logger
}

func NewUserService(userRepo repository.UserRepository, log *slog.Logger) UserService {
	return &userService{userRepo: userRepo, log: log}
}

func (s *userService) Me(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError(ctx, s.log, "find user", "User not found", err, "user_id", userID)
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError(ctx, s.log, "find user", "User not found", err, "user_id", userID)
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	user.UpdatedBy = user.Username

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, lookupError(ctx, s.log, "update user", "User not found", err, "user_id", userID)
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) UsernameExists(ctx context.Context, username string) (bool, error) {
	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, username, "")
	if err != nil {
		return false, unexpected(ctx, s.log, "check username", err)
	}
	return exists, nil
}
