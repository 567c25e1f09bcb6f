package userservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storerating/internal/domain"
	apperror "storerating/internal/errors"
	"storerating/internal/mocks"
	"storerating/internal/pkg/logger"
	"storerating/internal/pkg/password"
	"storerating/internal/service/userservice"
)

func init() {
	password.Cost = bcrypt.MinCost
}

func strPtr(s string) *string { return &s }

func TestCreate_AdminCanCreateStoreOwner(t *testing.T) {
	repo := new(mocks.UserRepository)
	svc := userservice.NewService(repo, logger.NewNop())

	repo.On("FindByEmail", mock.Anything, "alice@x.com").Return(domain.User{}, apperror.NewNotFoundError("x"))
	repo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.Name == "Alice" && u.Role == domain.RoleStoreOwner && password.Matches(u.PasswordHash, "Alice123!")
	})).Return(domain.User{ID: "u-alice", Name: "Alice", Role: domain.RoleStoreOwner}, nil)

	user, err := svc.Create(context.Background(), domain.UserRegistration{
		Name: "Alice", Email: "alice@x.com", Password: "Alice123!", Role: domain.RoleStoreOwner,
	})

	require.NoError(t, err)
	assert.Equal(t, "u-alice", user.ID)
	repo.AssertExpectations(t)
}

func TestCreate_DefaultRole(t *testing.T) {
	repo := new(mocks.UserRepository)
	svc := userservice.NewService(repo, logger.NewNop())

	repo.On("FindByEmail", mock.Anything, "c@x.com").Return(domain.User{}, apperror.NewNotFoundError("x"))
	repo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool { return u.Role == domain.RoleUser })).
		Return(domain.User{ID: "u-c", Role: domain.RoleUser}, nil)

	user, err := svc.Create(context.Background(), domain.UserRegistration{Name: "Carol", Email: "c@x.com", Password: "Carol123!"})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
}

func TestUpdate_EmailTakenByAnotherUser(t *testing.T) {
	repo := new(mocks.UserRepository)
	svc := userservice.NewService(repo, logger.NewNop())

	repo.On("FindByID", mock.Anything, "u-1").Return(domain.User{ID: "u-1", Email: "a@x.com"}, nil)
	repo.On("FindByEmail", mock.Anything, "b@x.com").Return(domain.User{ID: "u-2", Email: "b@x.com"}, nil)

	_, err := svc.Update(context.Background(), "u-1", domain.UserUpdate{Email: strPtr("b@x.com")})

	var conflict *apperror.ConflictError
	assert.True(t, errors.As(err, &conflict))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdate_PartialKeepsOmittedFields(t *testing.T) {
	repo := new(mocks.UserRepository)
	svc := userservice.NewService(repo, logger.NewNop())

	existing := domain.User{ID: "u-1", Name: "Old Name", Email: "a@x.com", Address: "Rua 1", Role: domain.RoleStoreOwner}
	repo.On("FindByID", mock.Anything, "u-1").Return(existing, nil)

	role := domain.RoleUser
	expected := existing
	expected.Role = domain.RoleUser
	repo.On("Update", mock.Anything, expected).Return(expected, nil)

	user, err := svc.Update(context.Background(), "u-1", domain.UserUpdate{Role: &role})

	require.NoError(t, err)
	assert.Equal(t, "Old Name", user.Name)
	assert.Equal(t, "Rua 1", user.Address)
	repo.AssertExpectations(t)
}

func TestUpdate_SameEmailIsNotConflict(t *testing.T) {
	repo := new(mocks.UserRepository)
	svc := userservice.NewService(repo, logger.NewNop())

	existing := domain.User{ID: "u-1", Name: "Ann", Email: "a@x.com", Role: domain.RoleUser}
	repo.On("FindByID", mock.Anything, "u-1").Return(existing, nil)
	repo.On("Update", mock.Anything, existing).Return(existing, nil)

	_, err := svc.Update(context.Background(), "u-1", domain.UserUpdate{Email: strPtr("a@x.com")})

	require.NoError(t, err)
	repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestUpdate_MissingUser(t *testing.T) {
	repo := new(mocks.UserRepository)
	svc := userservice.NewService(repo, logger.NewNop())
	repo.On("FindByID", mock.Anything, "nope").Return(domain.User{}, apperror.NewNotFoundError("x"))

	_, err := svc.Update(context.Background(), "nope", domain.UserUpdate{Name: strPtr("X")})

	var notFound *apperror.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestDelete(t *testing.T) {
	admin := domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}

	t.Run("própria conta", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		svc := userservice.NewService(repo, logger.NewNop())

		err := svc.Delete(context.Background(), admin, "admin-1")

		var validation *apperror.ValidationError
		assert.True(t, errors.As(err, &validation))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("outro usuário", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		svc := userservice.NewService(repo, logger.NewNop())
		repo.On("Delete", mock.Anything, "u-2").Return(nil)

		require.NoError(t, svc.Delete(context.Background(), admin, "u-2"))
		repo.AssertExpectations(t)
	})
}

func TestList_PassesFilter(t *testing.T) {
	repo := new(mocks.UserRepository)
	svc := userservice.NewService(repo, logger.NewNop())

	filter := domain.UserFilter{Search: "ali", SortBy: "name", SortOrder: "ASC"}
	repo.On("FindAll", mock.Anything, filter).Return([]domain.User{{ID: "u-1"}}, nil)

	users, err := svc.List(context.Background(), filter)

	require.NoError(t, err)
	assert.Len(t, users, 1)
}
