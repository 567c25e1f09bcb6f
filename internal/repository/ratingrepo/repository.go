package ratingrepo

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

const ratingColumns = `id, user_id, store_id, rating, created_at, updated_at`

const viewSelect = `
    SELECT r.id, r.user_id, r.store_id, r.rating, r.created_at, r.updated_at,
           u.name, u.email, s.name, s.address, s.owner_id
    FROM ratings r
    JOIN users u ON u.id = r.user_id
    JOIN stores s ON s.id = r.store_id`

var ratingSort = listing.Sort{
	Columns: map[string]string{
		"rating":     "r.rating",
		"created_at": "r.created_at",
		"updated_at": "r.updated_at",
		"user_name":  "u.name",
		"store_name": "s.name",
	},
	DefaultField: "created_at",
	DefaultOrder: listing.Desc,
}

// storeRatingSort é usada na listagem de uma única loja, onde ordenar pelo
// nome da loja não faz sentido.
var storeRatingSort = listing.Sort{
	Columns: map[string]string{
		"rating":     "r.rating",
		"created_at": "r.created_at",
		"updated_at": "r.updated_at",
		"user_name":  "u.name",
	},
	DefaultField: "created_at",
	DefaultOrder: listing.Desc,
}

// RatingRepository implementa a interface domain.RatingRepository.
type RatingRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
	now       func() time.Time
}

// NewRatingRepository cria e retorna uma nova instância do Repositório.
func NewRatingRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *RatingRepository {
	return &RatingRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
		now:       time.Now,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRating(row scanner) (domain.Rating, error) {
	var rt domain.Rating
	err := row.Scan(&rt.ID, &rt.UserID, &rt.StoreID, &rt.Rating, &rt.CreatedAt, &rt.UpdatedAt)
	return rt, err
}

func scanView(row scanner) (domain.RatingView, error) {
	var v domain.RatingView
	err := row.Scan(
		&v.ID, &v.UserID, &v.StoreID, &v.Rating.Rating, &v.CreatedAt, &v.UpdatedAt,
		&v.UserName, &v.UserEmail, &v.StoreName, &v.StoreAddress, &v.StoreOwnerID,
	)
	return v, err
}

func (r *RatingRepository) mapWriteError(err error) error {
	switch {
	case database.IsUniqueViolation(err):
		return apperror.NewConflictError("Você já avaliou esta loja.")
	case database.IsForeignKeyViolation(err):
		return apperror.NewNotFoundError("A loja ou o usuário da avaliação não existe.")
	case database.IsCheckViolation(err):
		return apperror.NewValidationError(fmt.Sprintf("A nota deve estar entre %d e %d.", domain.MinRating, domain.MaxRating))
	}
	r.logger.Error("Falha de escrita de avaliação no DB.", err)
	return apperror.NewDBError("failed to write rating", err)
}

// Save insere a avaliação. A restrição UNIQUE(user_id, store_id) garante
// uma avaliação por usuário e loja mesmo sob inserções concorrentes.
func (r *RatingRepository) Save(ctx context.Context, rating domain.Rating) (domain.Rating, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rating.ID = uuid.NewString()
	rating.CreatedAt = r.now().UTC()
	rating.UpdatedAt = rating.CreatedAt

	const query = `INSERT INTO ratings (` + ratingColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		rating.ID,
		rating.UserID,
		rating.StoreID,
		rating.Rating,
		rating.CreatedAt,
		rating.UpdatedAt,
	)
	if err != nil {
		return domain.Rating{}, r.mapWriteError(err)
	}

	r.logger.Info("Avaliação salva no repositório.", map[string]interface{}{"rating_id": rating.ID, "store_id": rating.StoreID})
	return rating, nil
}

// FindByID busca a avaliação com os dados do autor e da loja.
func (r *RatingRepository) FindByID(ctx context.Context, id string) (domain.RatingView, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	view, err := scanView(r.DB.QueryRowContext(ctxTimeout, viewSelect+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.RatingView{}, apperror.NewNotFoundError(fmt.Sprintf("Avaliação com ID %s não existe.", id))
		}
		return domain.RatingView{}, apperror.NewDBError("failed to find rating", err)
	}
	return view, nil
}

// FindByUserAndStore busca a avaliação de um usuário para uma loja.
func (r *RatingRepository) FindByUserAndStore(ctx context.Context, userID, storeID string) (domain.Rating, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rating, err := scanRating(r.DB.QueryRowContext(ctxTimeout,
		`SELECT `+ratingColumns+` FROM ratings WHERE user_id = $1 AND store_id = $2`, userID, storeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Rating{}, apperror.NewNotFoundError("Avaliação não encontrada para este usuário e loja.")
		}
		return domain.Rating{}, apperror.NewDBError("failed to find rating by user and store", err)
	}
	return rating, nil
}

// FindAll lista avaliações aplicando escopo, filtros, busca e ordenação.
func (r *RatingRepository) FindAll(ctx context.Context, filter domain.RatingFilter) ([]domain.RatingView, error) {
	return r.list(ctx, filter, ratingSort)
}

// FindByStore lista as avaliações de uma loja.
func (r *RatingRepository) FindByStore(ctx context.Context, storeID string, filter domain.RatingFilter) ([]domain.RatingView, error) {
	filter.StoreID = storeID
	return r.list(ctx, filter, storeRatingSort)
}

func (r *RatingRepository) list(ctx context.Context, filter domain.RatingFilter, sort listing.Sort) ([]domain.RatingView, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var (
		where []string
		args  []any
	)
	add := func(cond string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.ScopeUserID != "" {
		add("r.user_id = $%d", filter.ScopeUserID)
	}
	if filter.ScopeOwnerID != "" {
		add("s.owner_id = $%d", filter.ScopeOwnerID)
	}
	if filter.StoreID != "" {
		add("r.store_id = $%d", filter.StoreID)
	}
	if filter.UserID != "" {
		add("r.user_id = $%d", filter.UserID)
	}
	if strings.TrimSpace(filter.Search) != "" {
		args = append(args, listing.SearchPattern(filter.Search))
		n := len(args)
		where = append(where, fmt.Sprintf("(s.name ILIKE $%d OR u.name ILIKE $%d OR u.email ILIKE $%d)", n, n, n))
	}

	query := viewSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += sort.Resolve(filter.SortBy, filter.SortOrder)

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar avaliações no DB.", err)
		return nil, apperror.NewDBError("failed to list ratings", err)
	}
	defer rows.Close()

	ratings := make([]domain.RatingView, 0)
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan rating", err)
		}
		ratings = append(ratings, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate ratings", err)
	}
	return ratings, nil
}

// Update altera a nota da avaliação.
func (r *RatingRepository) Update(ctx context.Context, id string, value int) (domain.Rating, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `UPDATE ratings SET rating = $1, updated_at = $2 WHERE id = $3 RETURNING ` + ratingColumns

	rating, err := scanRating(r.DB.QueryRowContext(ctxTimeout, query, value, r.now().UTC(), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Rating{}, apperror.NewNotFoundError(fmt.Sprintf("Avaliação com ID %s não existe.", id))
		}
		return domain.Rating{}, r.mapWriteError(err)
	}

	r.logger.Info("Avaliação atualizada no repositório.", map[string]interface{}{"rating_id": id, "rating": value})
	return rating, nil
}

// Delete remove a avaliação.
func (r *RatingRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("failed to delete rating", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.NewDBError("failed to read affected rows", err)
	}
	if n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Avaliação com ID %s não existe.", id))
	}
	return nil
}
