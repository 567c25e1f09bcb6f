package storeservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storerating/internal/domain"
	apperror "storerating/internal/errors"
	"storerating/internal/mocks"
	"storerating/internal/pkg/logger"
	"storerating/internal/service/storeservice"
)

var (
	admin = domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
	owner = domain.Actor{UserID: "owner-1", Role: domain.RoleStoreOwner}
	other = domain.Actor{UserID: "owner-2", Role: domain.RoleStoreOwner}
	user  = domain.Actor{UserID: "user-1", Role: domain.RoleUser}
)

func strPtr(s string) *string { return &s }

func newService() (*storeservice.StoreService, *mocks.StoreRepository, *mocks.UserRepository) {
	stores := new(mocks.StoreRepository)
	users := new(mocks.UserRepository)
	return storeservice.NewService(stores, users, logger.NewNop()), stores, users
}

func TestDeriveEmail(t *testing.T) {
	assert.Equal(t, "techstore@example.com", storeservice.DeriveEmail("Tech Store"))
	assert.Equal(t, "aliceshop@example.com", storeservice.DeriveEmail("  Alice   Shop "))
}

func TestCreate_DerivesEmailAndChecksOwner(t *testing.T) {
	svc, stores, users := newService()

	users.On("FindByID", mock.Anything, "u-alice").Return(domain.User{ID: "u-alice", Role: domain.RoleStoreOwner}, nil)
	stores.On("Save", mock.Anything, domain.Store{Name: "Alice Shop", Email: "aliceshop@example.com", OwnerID: strPtr("u-alice")}).
		Return(domain.Store{ID: "s-1", Name: "Alice Shop", OwnerID: strPtr("u-alice")}, nil)

	store, err := svc.Create(context.Background(), domain.StoreInput{Name: "Alice Shop", OwnerID: strPtr("u-alice")})

	require.NoError(t, err)
	assert.Equal(t, "s-1", store.ID)
	stores.AssertExpectations(t)
}

func TestCreate_OwnerRules(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*mocks.UserRepository)
	}{
		{
			name: "proprietário inexistente",
			setup: func(u *mocks.UserRepository) {
				u.On("FindByID", mock.Anything, "u-x").Return(domain.User{}, apperror.NewNotFoundError("x"))
			},
		},
		{
			name: "proprietário sem papel store_owner",
			setup: func(u *mocks.UserRepository) {
				u.On("FindByID", mock.Anything, "u-x").Return(domain.User{ID: "u-x", Role: domain.RoleUser}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, stores, users := newService()
			tt.setup(users)

			_, err := svc.Create(context.Background(), domain.StoreInput{Name: "X", OwnerID: strPtr("u-x")})

			var validation *apperror.ValidationError
			require.True(t, errors.As(err, &validation))
			assert.Equal(t, "owner_id", validation.Details[0].Field)
			stores.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdate_NotFoundBeforeForbidden(t *testing.T) {
	svc, stores, _ := newService()
	stores.On("FindByID", mock.Anything, "missing").Return(domain.Store{}, apperror.NewNotFoundError("x"))

	_, err := svc.Update(context.Background(), user, "missing", domain.StoreUpdate{Name: strPtr("Y")})

	status, _, _ := apperror.MapToHTTPStatus(err)
	assert.Equal(t, 404, status)
}

func TestUpdate_Authorization(t *testing.T) {
	owned := domain.Store{ID: "s-1", Name: "Shop", OwnerID: strPtr("owner-1")}

	t.Run("outro proprietário é proibido", func(t *testing.T) {
		svc, stores, _ := newService()
		stores.On("FindByID", mock.Anything, "s-1").Return(owned, nil)

		_, err := svc.Update(context.Background(), other, "s-1", domain.StoreUpdate{Name: strPtr("Mine")})

		var forbidden *apperror.ForbiddenError
		assert.True(t, errors.As(err, &forbidden))
		stores.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("dono altera o nome", func(t *testing.T) {
		svc, stores, _ := newService()
		update := domain.StoreUpdate{Name: strPtr("New Shop")}
		stores.On("FindByID", mock.Anything, "s-1").Return(owned, nil)
		stores.On("Update", mock.Anything, "s-1", update).Return(domain.Store{ID: "s-1", Name: "New Shop"}, nil)

		store, err := svc.Update(context.Background(), owner, "s-1", update)

		require.NoError(t, err)
		assert.Equal(t, "New Shop", store.Name)
	})

	t.Run("dono não troca o proprietário", func(t *testing.T) {
		svc, stores, _ := newService()
		stores.On("FindByID", mock.Anything, "s-1").Return(owned, nil)

		_, err := svc.Update(context.Background(), owner, "s-1", domain.StoreUpdate{OwnerID: strPtr("owner-2")})

		var forbidden *apperror.ForbiddenError
		assert.True(t, errors.As(err, &forbidden))
	})

	t.Run("admin troca o proprietário validado", func(t *testing.T) {
		svc, stores, users := newService()
		update := domain.StoreUpdate{OwnerID: strPtr("owner-2")}
		stores.On("FindByID", mock.Anything, "s-1").Return(owned, nil)
		users.On("FindByID", mock.Anything, "owner-2").Return(domain.User{ID: "owner-2", Role: domain.RoleStoreOwner}, nil)
		stores.On("Update", mock.Anything, "s-1", update).Return(domain.Store{ID: "s-1", OwnerID: strPtr("owner-2")}, nil)

		store, err := svc.Update(context.Background(), admin, "s-1", update)

		require.NoError(t, err)
		assert.Equal(t, "owner-2", *store.OwnerID)
		users.AssertExpectations(t)
	})
}

func TestDelete(t *testing.T) {
	owned := domain.Store{ID: "s-1", OwnerID: strPtr("owner-1")}

	t.Run("usuário comum é proibido", func(t *testing.T) {
		svc, stores, _ := newService()
		stores.On("FindByID", mock.Anything, "s-1").Return(owned, nil)

		err := svc.Delete(context.Background(), user, "s-1")

		var forbidden *apperror.ForbiddenError
		assert.True(t, errors.As(err, &forbidden))
	})

	t.Run("dono remove", func(t *testing.T) {
		svc, stores, _ := newService()
		stores.On("FindByID", mock.Anything, "s-1").Return(owned, nil)
		stores.On("Delete", mock.Anything, "s-1").Return(nil)

		require.NoError(t, svc.Delete(context.Background(), owner, "s-1"))
		stores.AssertExpectations(t)
	})
}

func TestOwnerDashboard_ScopesToCaller(t *testing.T) {
	svc, stores, _ := newService()

	stores.On("FindAll", mock.Anything, domain.StoreFilter{OwnerID: "owner-1", SortBy: "average_rating", SortOrder: "DESC"}).
		Return([]domain.StoreSummary{{Store: domain.Store{ID: "s-1"}, AverageRating: 4.5, TotalRatings: 2}}, nil)

	result, err := svc.OwnerDashboard(context.Background(), owner, domain.StoreFilter{OwnerID: "someone-else", SortBy: "average_rating", SortOrder: "DESC"})

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 4.5, result[0].AverageRating)
	stores.AssertExpectations(t)
}
