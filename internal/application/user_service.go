package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sharebay/service-sharing/internal/domain/user"
)

// CreateUserRequest is the request DTO for registering a user.
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// UpdateUserRequest is the request DTO for a partial user update.
type UpdateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserDTO is the response representation of a user.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserService implements use cases for the user directory.
type UserService struct {
	repo   user.Repository
	logger *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo user.Repository, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// AddUser registers a new user. A taken email surfaces as a conflict.
func (s *UserService) AddUser(ctx context.Context, req CreateUserRequest) (*UserDTO, error) {
	u, err := user.NewUser(req.Name, req.Email)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}

	result := toUserDTO(u)
	return &result, nil
}

// GetUser retrieves a single user by ID.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toUserDTO(u)
	return &result, nil
}

// GetAllUsers returns every registered user.
func (s *UserService) GetAllUsers(ctx context.Context) ([]UserDTO, error) {
	list, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]UserDTO, len(list))
	for i, u := range list {
		dtos[i] = toUserDTO(u)
	}
	return dtos, nil
}

// UpdateUser applies a partial update; empty fields keep their values.
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserDTO, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := u.Update(req.Name, req.Email); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	result := toUserDTO(u)
	return &result, nil
}

// DeleteUser removes a user.
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func toUserDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:        u.ID(),
		Name:      u.Name(),
		Email:     u.Email(),
		CreatedAt: u.CreatedAt(),
	}
}
