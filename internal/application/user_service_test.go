package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sharebay/service-sharing/internal/pkg/domain"
)

func newUserService() (*UserService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewUserService(repo, zap.NewNop()), repo
}

func TestAddUser(t *testing.T) {
	svc, _ := newUserService()

	dto, err := svc.AddUser(context.Background(), CreateUserRequest{Name: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "alice", dto.Name)
	assert.Equal(t, "alice@example.com", dto.Email)
	assert.NotEqual(t, uuid.Nil, dto.ID)
}

func TestAddUser_MalformedEmail(t *testing.T) {
	svc, _ := newUserService()

	for _, email := range []string{"", "no-at-sign", "@leading", "trailing@", "two words@example.com"} {
		_, err := svc.AddUser(context.Background(), CreateUserRequest{Name: "alice", Email: email})
		assert.Equal(t, domain.KindValidation, domain.KindOf(err), email)
	}
}

func TestAddUser_DuplicateEmailConflicts(t *testing.T) {
	svc, _ := newUserService()

	_, err := svc.AddUser(context.Background(), CreateUserRequest{Name: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = svc.AddUser(context.Background(), CreateUserRequest{Name: "other alice", Email: "alice@example.com"})
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestUpdateUser_PartialUpdate(t *testing.T) {
	svc, _ := newUserService()

	created, err := svc.AddUser(context.Background(), CreateUserRequest{Name: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	dto, err := svc.UpdateUser(context.Background(), created.ID, UpdateUserRequest{Name: "alicia"})
	require.NoError(t, err)
	assert.Equal(t, "alicia", dto.Name)
	assert.Equal(t, "alice@example.com", dto.Email)

	dto, err = svc.UpdateUser(context.Background(), created.ID, UpdateUserRequest{Email: "alicia@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "alicia", dto.Name)
	assert.Equal(t, "alicia@example.com", dto.Email)
}

func TestUpdateUser_TakenEmailConflicts(t *testing.T) {
	svc, _ := newUserService()

	_, err := svc.AddUser(context.Background(), CreateUserRequest{Name: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	bob, err := svc.AddUser(context.Background(), CreateUserRequest{Name: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	_, err = svc.UpdateUser(context.Background(), bob.ID, UpdateUserRequest{Email: "alice@example.com"})
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestGetUser_Unknown(t *testing.T) {
	svc, _ := newUserService()

	_, err := svc.GetUser(context.Background(), uuid.New())
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestDeleteUser(t *testing.T) {
	svc, _ := newUserService()

	created, err := svc.AddUser(context.Background(), CreateUserRequest{Name: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), created.ID))

	_, err = svc.GetUser(context.Background(), created.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	err = svc.DeleteUser(context.Background(), created.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestGetAllUsers(t *testing.T) {
	svc, _ := newUserService()

	_, err := svc.AddUser(context.Background(), CreateUserRequest{Name: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	_, err = svc.AddUser(context.Background(), CreateUserRequest{Name: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	list, err := svc.GetAllUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
