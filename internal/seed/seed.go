// Package seed insere os dados de exemplo (admin, proprietário, usuário e lojas).
// Pode ser executado várias vezes: linhas existentes são preservadas.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"storerating/internal/domain"
	"storerating/internal/pkg/logger"
	"storerating/internal/pkg/password"
)

type account struct {
	name, email, password, address string
	role                           domain.UserRole
}

type sampleStore struct {
	name, email, address string
	ownerEmail           string // vazio = loja sem proprietário
}

var accounts = []account{
	{"System Administrator", "admin@example.com", "Admin123!", "123 Admin Street, Admin City, AC 12345", domain.RoleAdmin},
	{"Store Owner", "storeowner@example.com", "Store123!", "456 Store Owner Lane, Store City, SC 54321", domain.RoleStoreOwner},
	{"Normal User", "user@example.com", "User123!", "789 User Street, User City, UC 98765", domain.RoleUser},
}

var stores = []sampleStore{
	{"Sample Store 1", "store1@example.com", "123 Main Street, City, State 12345", "storeowner@example.com"},
	{"Sample Store 2", "store2@example.com", "456 Oak Avenue, City, State 12345", "storeowner@example.com"},
	{"Tech Store", "tech@example.com", "789 Innovation Drive, Tech City, TC 54321", ""},
	{"Book Store", "books@example.com", "321 Knowledge Lane, Book Town, BT 67890", ""},
	{"Food Market", "food@example.com", "654 Fresh Street, Food City, FC 13579", ""},
	{"Sports Store", "sports@example.com", "987 Athletic Avenue, Sports Town, ST 24680", ""},
}

const (
	findUserSQL    = `SELECT id FROM users WHERE email = $1`
	insertUserSQL  = `INSERT INTO users (id, name, email, password_hash, address, role) VALUES ($1, $2, $3, $4, $5, $6)`
	storeExistSQL  = `SELECT EXISTS (SELECT 1 FROM stores WHERE name = $1)`
	insertStoreSQL = `INSERT INTO stores (id, name, email, address, owner_id) VALUES ($1, $2, $3, $4, $5)`
)

// Result conta o que foi efetivamente inserido.
type Result struct {
	UsersCreated  int
	StoresCreated int
}

// Seeder executa a carga dentro de uma única transação.
type Seeder struct {
	DB     *sql.DB
	Logger logger.Logger
	newID  func() string
}

// New cria o Seeder.
func New(db *sql.DB, log logger.Logger) *Seeder {
	return &Seeder{DB: db, Logger: log, newID: uuid.NewString}
}

// Run insere o que ainda não existe. Usuários são identificados pelo email
// e lojas pelo nome.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("seed: falha ao iniciar transação: %w", err)
	}
	defer tx.Rollback()

	ids := make(map[string]string, len(accounts))
	for _, a := range accounts {
		id, created, err := s.ensureUser(ctx, tx, a)
		if err != nil {
			return Result{}, err
		}
		ids[a.email] = id
		if created {
			res.UsersCreated++
		}
	}

	for _, st := range stores {
		var exists bool
		if err := tx.QueryRowContext(ctx, storeExistSQL, st.name).Scan(&exists); err != nil {
			return Result{}, fmt.Errorf("seed: falha ao consultar loja %q: %w", st.name, err)
		}
		if exists {
			continue
		}

		var owner interface{}
		if st.ownerEmail != "" {
			owner = ids[st.ownerEmail]
		}
		if _, err := tx.ExecContext(ctx, insertStoreSQL, s.newID(), st.name, st.email, st.address, owner); err != nil {
			return Result{}, fmt.Errorf("seed: falha ao inserir loja %q: %w", st.name, err)
		}
		res.StoresCreated++
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("seed: falha no commit: %w", err)
	}

	s.Logger.Info("Dados de exemplo carregados.", map[string]interface{}{
		"users_created":  res.UsersCreated,
		"stores_created": res.StoresCreated,
	})
	return res, nil
}

func (s *Seeder) ensureUser(ctx context.Context, tx *sql.Tx, a account) (string, bool, error) {
	var id string
	err := tx.QueryRowContext(ctx, findUserSQL, a.email).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", false, fmt.Errorf("seed: falha ao consultar usuário %s: %w", a.email, err)
	}

	hash, err := password.Hash(a.password)
	if err != nil {
		return "", false, fmt.Errorf("seed: falha ao gerar hash: %w", err)
	}

	id = s.newID()
	if _, err := tx.ExecContext(ctx, insertUserSQL, id, a.name, a.email, hash, a.address, string(a.role)); err != nil {
		return "", false, fmt.Errorf("seed: falha ao inserir usuário %s: %w", a.email, err)
	}
	return id, true, nil
}
