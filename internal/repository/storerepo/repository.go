package storerepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"storerating/internal/domain"
	apperror "storerating/internal/errors"
	"storerating/internal/pkg/database"
	"storerating/internal/pkg/listing"
	"storerating/internal/pkg/logger"
)

const storeColumns = `id, name, email, address, owner_id, created_at, updated_at`

// summarySelect junta proprietário e agregados de avaliação por loja.
// Média e total são calculados a cada leitura.
const summarySelect = `
    SELECT s.id, s.name, s.email, s.address, s.owner_id, s.created_at, s.updated_at,
           u.name, u.email,
           COALESCE(AVG(r.rating), 0)::float8 AS average_rating,
           COUNT(r.id) AS total_ratings
    FROM stores s
    LEFT JOIN users u ON u.id = s.owner_id
    LEFT JOIN ratings r ON r.store_id = s.id`

const summaryGroupBy = ` GROUP BY s.id, u.name, u.email`

var storeSort = listing.Sort{
	Columns: map[string]string{
		"name":           "s.name",
		"address":        "s.address",
		"created_at":     "s.created_at",
		"average_rating": "average_rating",
		"total_ratings":  "total_ratings",
	},
	DefaultField: "name",
	DefaultOrder: listing.Asc,
}

// StoreRepository implementa a interface domain.StoreRepository.
type StoreRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
	now       func() time.Time
}

// NewStoreRepository cria e retorna uma nova instância do Repositório.
func NewStoreRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *StoreRepository {
	return &StoreRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
		now:       time.Now,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStore(row scanner) (domain.Store, error) {
	var s domain.Store
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Address, &s.OwnerID, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func scanSummary(row scanner) (domain.StoreSummary, error) {
	var s domain.StoreSummary
	err := row.Scan(
		&s.ID, &s.Name, &s.Email, &s.Address, &s.OwnerID, &s.CreatedAt, &s.UpdatedAt,
		&s.OwnerName, &s.OwnerEmail,
		&s.AverageRating, &s.TotalRatings,
	)
	return s, err
}

func (r *StoreRepository) mapWriteError(err error, store domain.Store) error {
	switch {
	case database.IsUniqueViolation(err):
		return apperror.NewConflictError(fmt.Sprintf("Já existe uma loja com o email '%s'.", store.Email))
	case database.IsForeignKeyViolation(err):
		return apperror.NewNotFoundError("O proprietário informado não existe.")
	}
	r.logger.Error("Falha de escrita de loja no DB.", err)
	return apperror.NewDBError("failed to write store", err)
}

// Save insere uma nova loja.
func (r *StoreRepository) Save(ctx context.Context, store domain.Store) (domain.Store, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	store.ID = uuid.NewString()
	store.CreatedAt = r.now().UTC()
	store.UpdatedAt = store.CreatedAt

	const query = `INSERT INTO stores (` + storeColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		store.ID,
		store.Name,
		store.Email,
		store.Address,
		store.OwnerID,
		store.CreatedAt,
		store.UpdatedAt,
	)
	if err != nil {
		return domain.Store{}, r.mapWriteError(err, store)
	}

	r.logger.Info("Loja salva no repositório.", map[string]interface{}{"store_id": store.ID, "name": store.Name})
	return store, nil
}

// FindByID busca a loja sem agregados.
func (r *StoreRepository) FindByID(ctx context.Context, id string) (domain.Store, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	store, err := scanStore(r.DB.QueryRowContext(ctxTimeout, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Store{}, apperror.NewNotFoundError(fmt.Sprintf("Loja com ID %s não existe.", id))
		}
		return domain.Store{}, apperror.NewDBError("failed to find store", err)
	}
	return store, nil
}

// FindSummaryByID busca a loja com proprietário, média e total de avaliações.
func (r *StoreRepository) FindSummaryByID(ctx context.Context, id string) (domain.StoreSummary, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := summarySelect + ` WHERE s.id = $1` + summaryGroupBy
	summary, err := scanSummary(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.StoreSummary{}, apperror.NewNotFoundError(fmt.Sprintf("Loja com ID %s não existe.", id))
		}
		return domain.StoreSummary{}, apperror.NewDBError("failed to find store summary", err)
	}
	return summary, nil
}

// FindAll lista lojas com agregados. OwnerID restringe às lojas de um proprietário.
func (r *StoreRepository) FindAll(ctx context.Context, filter domain.StoreFilter) ([]domain.StoreSummary, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var (
		where []string
		args  []any
	)
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		where = append(where, fmt.Sprintf("s.owner_id = $%d", len(args)))
	}
	if strings.TrimSpace(filter.Search) != "" {
		args = append(args, listing.SearchPattern(filter.Search))
		where = append(where, fmt.Sprintf("(s.name ILIKE $%d OR s.address ILIKE $%d)", len(args), len(args)))
	}

	query := summarySelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += summaryGroupBy + storeSort.Resolve(filter.SortBy, filter.SortOrder)

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar lojas no DB.", err)
		return nil, apperror.NewDBError("failed to list stores", err)
	}
	defer rows.Close()

	stores := make([]domain.StoreSummary, 0)
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan store", err)
		}
		stores = append(stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate stores", err)
	}
	return stores, nil
}

// Update aplica a atualização parcial: campos nulos mantêm o valor atual.
func (r *StoreRepository) Update(ctx context.Context, id string, update domain.StoreUpdate) (domain.Store, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `UPDATE stores
        SET name = COALESCE($1, name),
            address = COALESCE($2, address),
            owner_id = COALESCE($3, owner_id),
            updated_at = $4
        WHERE id = $5
        RETURNING ` + storeColumns

	store, err := scanStore(r.DB.QueryRowContext(ctxTimeout, query,
		update.Name, update.Address, update.OwnerID, r.now().UTC(), id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Store{}, apperror.NewNotFoundError(fmt.Sprintf("Loja com ID %s não existe.", id))
		}
		return domain.Store{}, r.mapWriteError(err, domain.Store{ID: id})
	}

	r.logger.Info("Loja atualizada no repositório.", map[string]interface{}{"store_id": id})
	return store, nil
}

// Delete remove a loja. As avaliações dela caem em cascata.
func (r *StoreRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("failed to delete store", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.NewDBError("failed to read affected rows", err)
	}
	if n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Loja com ID %s não existe.", id))
	}

	r.logger.Info("Loja removida do repositório.", map[string]interface{}{"store_id": id})
	return nil
}
