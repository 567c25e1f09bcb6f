package storerepo

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storerating/internal/domain"
	apperror "storerating/internal/errors"
	"storerating/internal/pkg/logger"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

var (
	storeCols   = []string{"id", "name", "email", "address", "owner_id", "created_at", "updated_at"}
	summaryCols = []string{"id", "name", "email", "address", "owner_id", "created_at", "updated_at", "name", "email", "average_rating", "total_ratings"}
)

func newRepo(t *testing.T) (*StoreRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewStoreRepository(db, time.Second, logger.NewNop())
	repo.now = func() time.Time { return fixedNow }
	return repo, mock
}

func strPtr(s string) *string { return &s }

func TestSave_UnknownOwnerIsNotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(`INSERT INTO stores`).WillReturnError(&pq.Error{Code: "23503"})

	_, err := repo.Save(context.Background(), domain.Store{Name: "Alice Shop", Email: "aliceshop@example.com", OwnerID: strPtr("missing")})

	var notFound *apperror.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestSave_Success(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(`INSERT INTO stores`).
		WithArgs(sqlmock.AnyArg(), "Alice Shop", "aliceshop@example.com", "", nil, fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store, err := repo.Save(context.Background(), domain.Store{Name: "Alice Shop", Email: "aliceshop@example.com"})

	require.NoError(t, err)
	assert.NotEmpty(t, store.ID)
	assert.Nil(t, store.OwnerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindSummaryByID_NoRatingsAverageIsZero(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`COALESCE\(AVG\(r.rating\), 0\)(.+)WHERE s.id = \$1 GROUP BY`).
		WithArgs("s-1").
		WillReturnRows(sqlmock.NewRows(summaryCols).
			AddRow("s-1", "Tech Store", "techstore@example.com", "Rua 1", nil, fixedNow, fixedNow, nil, nil, 0.0, 0))

	summary, err := repo.FindSummaryByID(context.Background(), "s-1")

	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.AverageRating)
	assert.Equal(t, 0, summary.TotalRatings)
	assert.Nil(t, summary.OwnerID)
	assert.Nil(t, summary.OwnerName)
}

func TestFindSummaryByID_WithOwner(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`FROM stores s`).
		WithArgs("s-1").
		WillReturnRows(sqlmock.NewRows(summaryCols).
			AddRow("s-1", "Alice Shop", "aliceshop@example.com", "", "u-1", fixedNow, fixedNow, "Alice", "alice@x.com", 5.0, 1))

	summary, err := repo.FindSummaryByID(context.Background(), "s-1")

	require.NoError(t, err)
	require.NotNil(t, summary.OwnerID)
	assert.Equal(t, "u-1", *summary.OwnerID)
	assert.Equal(t, "Alice", *summary.OwnerName)
	assert.Equal(t, 5.0, summary.AverageRating)
	assert.Equal(t, 1, summary.TotalRatings)
}

func TestFindAll_BuildsFiltersAndOrder(t *testing.T) {
	tests := []struct {
		name      string
		filter    domain.StoreFilter
		wantQuery string
		wantArgs  []driver.Value
	}{
		{
			name:      "padrão por nome",
			filter:    domain.StoreFilter{},
			wantQuery: `GROUP BY s.id, u.name, u.email ORDER BY s.name ASC$`,
		},
		{
			name:      "dashboard do proprietário com busca",
			filter:    domain.StoreFilter{OwnerID: "u-1", Search: "shop", SortBy: "average_rating", SortOrder: "desc"},
			wantQuery: `WHERE s.owner_id = \$1 AND \(s.name ILIKE \$2 OR s.address ILIKE \$2\) GROUP BY (.+) ORDER BY average_rating DESC`,
			wantArgs:  []driver.Value{"u-1", "%shop%"},
		},
		{
			name:      "direção inválida volta ao padrão",
			filter:    domain.StoreFilter{SortBy: "total_ratings", SortOrder: "sideways"},
			wantQuery: `ORDER BY s.name ASC$`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)

			q := mock.ExpectQuery(tt.wantQuery)
			if len(tt.wantArgs) > 0 {
				q = q.WithArgs(tt.wantArgs...)
			}
			q.WillReturnRows(sqlmock.NewRows(summaryCols))

			stores, err := repo.FindAll(context.Background(), tt.filter)

			require.NoError(t, err)
			assert.NotNil(t, stores)
			assert.Empty(t, stores)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUpdate_PartialAndNotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`UPDATE stores(.+)COALESCE\(\$1, name\)`).
		WithArgs("New Name", nil, nil, fixedNow, "s-1").
		WillReturnRows(sqlmock.NewRows(storeCols).
			AddRow("s-1", "New Name", "techstore@example.com", "Rua 1", nil, fixedNow, fixedNow))
	mock.ExpectQuery(`UPDATE stores`).
		WithArgs(nil, nil, nil, fixedNow, "s-2").
		WillReturnRows(sqlmock.NewRows(storeCols))

	store, err := repo.Update(context.Background(), "s-1", domain.StoreUpdate{Name: strPtr("New Name")})
	require.NoError(t, err)
	assert.Equal(t, "New Name", store.Name)
	assert.Equal(t, "Rua 1", store.Address)

	_, err = repo.Update(context.Background(), "s-2", domain.StoreUpdate{})
	var notFound *apperror.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(`DELETE FROM stores WHERE id = \$1`).WithArgs("s-9").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "s-9")

	var notFound *apperror.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}
