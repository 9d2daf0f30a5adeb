package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"heavysync/internal/apperror"
	"heavysync/internal/model"
	"heavysync/internal/repository"
	"heavysync/internal/service"
	"heavysync/pkg/validator"
)

// Admin runs account maintenance outside the HTTP API.
type Admin struct {
	users repository.UserRepository
	auth  service.AuthService
}

func New(store *repository.Store, log *slog.Logger) *Admin {
	return &Admin{
		users: store.Users,
		auth:  service.NewAuthService(store.Users, nil, log),
	}
}

type CreateAdminInput struct {
	FullName string
	Username string
	Email    string
	Password string
}

// CreateAdmin registers a user with the admin role under the same rules as
// public registration.
func (a *Admin) CreateAdmin(ctx context.Context, in CreateAdminInput) (*model.User, error) {
	role := string(model.RoleAdmin)
	req := &service.RegisterRequest{
		FullName: in.FullName,
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
		Role:     &role,
	}
	validator.TrimStrings(req)
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, fieldsError(errs)
	}
	return a.auth.Register(ctx, req)
}

// ResetPassword replaces a user's password without knowing the old one.
func (a *Admin) ResetPassword(ctx context.Context, username, password string) error {
	// Same rules as a self-service password change.
	if errs := validator.ValidateFields(&service.ChangePasswordRequest{NewPassword: password}, "NewPassword"); len(errs) > 0 {
		return fieldsError(errs)
	}

	user, err := a.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("user %q not found", username)
		}
		return fmt.Errorf("find user: %w", err)
	}
	if err := user.SetPassword(password); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := a.users.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func fieldsError(errs []apperror.FieldError) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Field+": "+e.Message)
	}
	return apperror.Validation(strings.Join(msgs, "; "), errs...)
}
