package authservice_test

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
	"storerating/internal/service/authservice"
)

// MockTokenGenerator é uma implementação mock de authservice.TokenGenerator
type MockTokenGenerator struct {
	mock.Mock
}

func (m *MockTokenGenerator) GenerateToken(userID string, userRole string) (string, error) {
	args := m.Called(userID, userRole)
	return args.String(0), args.Error(1)
}

func init() {
	password.Cost = bcrypt.MinCost
}

func hashOf(t *testing.T, plain string) string {
	t.Helper()
	h, err := password.Hash(plain)
	require.NoError(t, err)
	return h
}

func notFound() error { return apperror.NewNotFoundError("Usuário não encontrado") }

func TestRegister_DefaultsToUserRole(t *testing.T) {
	repo := new(mocks.UserRepository)
	svc := authservice.NewService(repo, new(MockTokenGenerator), logger.NewNop())

	repo.On("FindByEmail", mock.Anything, "bob@example.com").Return(domain.User{}, notFound())
	repo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleUser && u.PasswordHash != "" && u.PasswordHash != "Secret12!"
	})).Return(domain.User{ID: "u-1", Email: "bob@example.com", Role: domain.RoleUser}, nil)

	user, err := svc.Register(context.Background(), domain.UserRegistration{
		Name: "Bob", Email: "bob@example.com", Password: "Secret12!",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	repo.AssertExpectations(t)
}

func TestRegister_AdminRoleRejected(t *testing.T) {
	repo := new(mocks.UserRepository)
	svc := authservice.NewService(repo, new(MockTokenGenerator), logger.NewNop())

	_, err := svc.Register(context.Background(), domain.UserRegistration{
		Name: "Mallory", Email: "m@example.com", Password: "Secret12!", Role: domain.RoleAdmin,
	})

	var validation *apperror.ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, "role", validation.Details[0].Field)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmailIsConflict(t *testing.T) {
	repo := new(mocks.UserRepository)
	svc := authservice.NewService(repo, new(MockTokenGenerator), logger.NewNop())

	repo.On("FindByEmail", mock.Anything, "bob@example.com").Return(domain.User{ID: "u-1"}, nil)

	_, err := svc.Register(context.Background(), domain.UserRegistration{Name: "Bob", Email: "bob@example.com", Password: "Secret12!"})

	var conflict *apperror.ConflictError
	assert.True(t, errors.As(err, &conflict))
	status, _, _ := apperror.MapToHTTPStatus(err)
	assert.Equal(t, 400, status)
}

func TestRegisterThenLogin_TokenCarriesRole(t *testing.T) {
	repo := new(mocks.UserRepository)
	tokens := new(MockTokenGenerator)
	svc := authservice.NewService(repo, tokens, logger.NewNop())

	var saved domain.User
	repo.On("FindByEmail", mock.Anything, "owner@example.com").Return(domain.User{}, notFound()).Once()
	repo.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(domain.User)
		saved.ID = "u-7"
	}).Return(domain.User{ID: "u-7", Role: domain.RoleStoreOwner}, nil)

	_, err := svc.Register(context.Background(), domain.UserRegistration{
		Name: "Owner", Email: "owner@example.com", Password: "Secret12!", Role: domain.RoleStoreOwner,
	})
	require.NoError(t, err)

	repo.On("FindByEmail", mock.Anything, "owner@example.com").Return(saved, nil).Once()
	tokens.On("GenerateToken", "u-7", "store_owner").Return("signed.jwt.token", nil)

	result, err := svc.Login(context.Background(), "owner@example.com", "Secret12!")

	require.NoError(t, err)
	assert.Equal(t, "signed.jwt.token", result.Token)
	assert.Equal(t, domain.RoleStoreOwner, result.User.Role)
	tokens.AssertExpectations(t)
}

func TestLogin_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	repo := new(mocks.UserRepository)
	svc := authservice.NewService(repo, new(MockTokenGenerator), logger.NewNop())

	repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(domain.User{}, notFound())
	repo.On("FindByEmail", mock.Anything, "bob@example.com").Return(domain.User{ID: "u-1", PasswordHash: hashOf(t, "Secret12!")}, nil)

	_, errUnknown := svc.Login(context.Background(), "ghost@example.com", "Secret12!")
	_, errWrong := svc.Login(context.Background(), "bob@example.com", "Wrong123!")

	var u1, u2 *apperror.UnauthorizedError
	require.True(t, errors.As(errUnknown, &u1))
	require.True(t, errors.As(errWrong, &u2))
	assert.Equal(t, u1.Msg, u2.Msg)
}

func TestLogin_RepositoryFailurePropagates(t *testing.T) {
	repo := new(mocks.UserRepository)
	svc := authservice.NewService(repo, new(MockTokenGenerator), logger.NewNop())

	repo.On("FindByEmail", mock.Anything, "bob@example.com").Return(domain.User{}, apperror.NewDBError("select", errors.New("timeout")))

	_, err := svc.Login(context.Background(), "bob@example.com", "Secret12!")

	var internal *apperror.InternalError
	assert.True(t, errors.As(err, &internal))
}

func TestUpdatePassword(t *testing.T) {
	current := hashOf(t, "Secret12!")

	t.Run("senha atual errada", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		svc := authservice.NewService(repo, new(MockTokenGenerator), logger.NewNop())
		repo.On("FindByID", mock.Anything, "u-1").Return(domain.User{ID: "u-1", PasswordHash: current}, nil)

		err := svc.UpdatePassword(context.Background(), "u-1", domain.PasswordUpdate{CurrentPassword: "Nope1234!", NewPassword: "Better12!"})

		var unauthorized *apperror.UnauthorizedError
		assert.True(t, errors.As(err, &unauthorized))
		repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("sucesso grava novo hash", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		svc := authservice.NewService(repo, new(MockTokenGenerator), logger.NewNop())
		repo.On("FindByID", mock.Anything, "u-1").Return(domain.User{ID: "u-1", PasswordHash: current}, nil)
		repo.On("UpdatePassword", mock.Anything, "u-1", mock.MatchedBy(func(h string) bool {
			return password.Matches(h, "Better12!")
		})).Return(nil)

		err := svc.UpdatePassword(context.Background(), "u-1", domain.PasswordUpdate{CurrentPassword: "Secret12!", NewPassword: "Better12!"})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestProfile_DeletedUserIsNotFound(t *testing.T) {
	repo := new(mocks.UserRepository)
	svc := authservice.NewService(repo, new(MockTokenGenerator), logger.NewNop())
	repo.On("FindByID", mock.Anything, "gone").Return(domain.User{}, notFound())

	_, err := svc.Profile(context.Background(), "gone")

	var nf *apperror.NotFoundError
	assert.True(t, errors.As(err, &nf))
}
