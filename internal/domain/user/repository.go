package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for users. Save and Update fail
// with a conflict error when the email is already taken.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	Save(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
