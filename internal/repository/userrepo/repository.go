package userrepo

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

const userColumns = `id, name, email, password_hash, address, role, created_at, updated_at`

// userSort é a lista de campos ordenáveis na listagem de usuários.
var userSort = listing.Sort{
	Columns: map[string]string{
		"name":       "name",
		"email":      "email",
		"role":       "role",
		"created_at": "created_at",
	},
	DefaultField: "created_at",
	DefaultOrder: listing.Desc,
}

// UserRepository implementa a interface domain.UserRepository
type UserRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
	now       func() time.Time
}

// NewUserRepository cria uma nova instância do UserRepository, injetando o DB.
func NewUserRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *UserRepository {
	return &UserRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
		now:       time.Now,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Address,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

// Save insere um novo usuário no banco de dados.
func (r *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	r.logger.Debug("Iniciando Save de usuário no repositório.", map[string]interface{}{"email": user.Email})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	user.ID = uuid.NewString()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = r.now().UTC()
	user.UpdatedAt = user.CreatedAt

	const query = `INSERT INTO users (` + userColumns + `)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Address,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.User{}, apperror.NewConflictError(fmt.Sprintf("O email '%s' já está em uso.", user.Email))
		}
		r.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to insert user (DB)", err)
	}

	r.logger.Info("Usuário salvo com sucesso no repositório.", map[string]interface{}{"user_id": user.ID, "email": user.Email})
	return user, nil
}

// FindByID busca um usuário pelo ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	row := r.DB.QueryRowContext(ctxTimeout, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não existe.", id))
		}
		r.logger.Error("Falha ao buscar usuário por ID no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to find user by id (DB)", err)
	}
	return user, nil
}

// FindByEmail busca um usuário pelo endereço de e-mail (sem diferenciar maiúsculas).
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	r.logger.Debug("Iniciando FindByEmail de usuário no repositório.", map[string]interface{}{"email_attempt": email})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctxTimeout, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Info("Usuário não encontrado no DB por email.", map[string]interface{}{"email": email})
			return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com email '%s' não encontrado", email))
		}
		r.logger.Error("Falha ao buscar usuário por email no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to find user by email (DB)", err)
	}

	return user, nil
}

// FindAll lista usuários filtrando por nome/email e ordenando pela lista permitida.
func (r *UserRepository) FindAll(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users`
	var args []any
	if strings.TrimSpace(filter.Search) != "" {
		args = append(args, listing.SearchPattern(filter.Search))
		query += ` WHERE (name ILIKE $1 OR email ILIKE $1)`
	}
	query += userSort.Resolve(filter.SortBy, filter.SortOrder)

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar usuários no DB.", err)
		return nil, apperror.NewDBError("failed to list users (DB)", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan user (DB)", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate users (DB)", err)
	}
	return users, nil
}

// Update grava nome, email, endereço e papel do usuário.
func (r *UserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.User{}, apperror.NewDBError("failed to start tx", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const updateSQL = `UPDATE users
        SET name = $1, email = $2, address = $3, role = $4, updated_at = $5
        WHERE id = $6
        RETURNING ` + userColumns

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	var updated domain.User
	updated, err = scanUser(tx.QueryRowContext(ctxTimeout, updateSQL,
		user.Name, user.Email, user.Address, user.Role, r.now().UTC(), user.ID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não existe.", user.ID))
		}
		if database.IsUniqueViolation(err) {
			return domain.User{}, apperror.NewConflictError(fmt.Sprintf("O email '%s' já está em uso.", user.Email))
		}
		return domain.User{}, apperror.NewDBError("failed to update user (DB)", err)
	}

	if updated.Role != domain.RoleStoreOwner {
		_, err = tx.ExecContext(ctxTimeout, `UPDATE stores SET owner_id = NULL, updated_at = $1 WHERE owner_id = $2`, r.now().UTC(), updated.ID)
		if err != nil {
			return domain.User{}, apperror.NewDBError("failed to release owned stores (DB)", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.User{}, apperror.NewDBError("failed to commit tx", err)
	}

	r.logger.Info("Usuário atualizado no repositório.", map[string]interface{}{"user_id": updated.ID, "role": updated.Role})
	return updated, nil
}

// UpdatePassword substitui o hash da senha.
func (r *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout,
		`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		passwordHash, r.now().UTC(), id,
	)
	if err != nil {
		return apperror.NewDBError("failed to update password (DB)", err)
	}
	return expectOneRow(res, fmt.Sprintf("Usuário com ID %s não existe.", id))
}

// Delete remove o usuário. Lojas e avaliações dele caem em cascata.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("failed to delete user (DB)", err)
	}
	if err := expectOneRow(res, fmt.Sprintf("Usuário com ID %s não existe.", id)); err != nil {
		return err
	}
	r.logger.Info("Usuário removido do repositório.", map[string]interface{}{"user_id": id})
	return nil
}

func expectOneRow(res sql.Result, notFoundMsg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.NewDBError("failed to read affected rows (DB)", err)
	}
	if n == 0 {
		return apperror.NewNotFoundError(notFoundMsg)
	}
	return nil
}
