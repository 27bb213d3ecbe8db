package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sanmiadewale/modaville-backend/pkg/enums"
	pkgerrors "github.com/sanmiadewale/modaville-backend/pkg/errors"
	"github.com/sanmiadewale/modaville-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Service exposes account lookups and admin user management.
type Service interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	ListUsers(ctx context.Context, params pagination.Params, filters UserListFilters) (*UserListDTO, error)
	SetUserActive(ctx context.Context, userID uuid.UUID, active bool) (*UserDTO, error)
	SetUserRole(ctx context.Context, userID uuid.UUID, role enums.UserRole) (*UserDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs the user service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetUser(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return NewUserDTO(user), nil
}

func (s *service) ListUsers(ctx context.Context, params pagination.Params, filters UserListFilters) (*UserListDTO, error) {
	if filters.Role != nil && !enums.UserRole(*filters.Role).IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role filter")
	}

	result, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	dtos := make([]UserDTO, 0, len(result.Users))
	for i := range result.Users {
		dtos = append(dtos, *NewUserDTO(&result.Users[i]))
	}
	return &UserListDTO{Users: dtos, NextCursor: result.NextCursor}, nil
}

func (s *service) SetUserActive(ctx context.Context, userID uuid.UUID, active bool) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if user.IsActive == active {
		return NewUserDTO(user), nil
	}

	user.IsActive = active
	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return NewUserDTO(updated), nil
}

func (s *service) SetUserRole(ctx context.Context, userID uuid.UUID, role enums.UserRole) (*UserDTO, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid user role")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if user.Role == role {
		return NewUserDTO(user), nil
	}

	user.Role = role
	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return NewUserDTO(updated), nil
}
