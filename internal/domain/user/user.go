package user

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sharebay/service-sharing/internal/pkg/domain"
)

// User is the aggregate root for a registered user.
type User struct {
	id        uuid.UUID
	name      string
	email     string
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates a user with a validated name and email. Email uniqueness is
// enforced by the store.
func NewUser(name, email string) (*User, error) {
	if name == "" {
		return nil, domain.NewValidationError("user name is required")
	}
	if !isValidEmail(email) {
		return nil, domain.NewValidationError("user email is malformed")
	}

	now := time.Now().UTC()
	return &User{
		id:        uuid.New(),
		name:      name,
		email:     email,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(id uuid.UUID, name, email string, createdAt, updatedAt time.Time) *User {
	return &User{id: id, name: name, email: email, createdAt: createdAt, updatedAt: updatedAt}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// Update applies a partial update; empty fields keep their current value.
func (u *User) Update(name, email string) error {
	if name != "" {
		u.name = name
	}
	if email != "" {
		if !isValidEmail(email) {
			return domain.NewValidationError("user email is malformed")
		}
		u.email = email
	}
	u.updatedAt = time.Now().UTC()
	return nil
}

func isValidEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t")
}
