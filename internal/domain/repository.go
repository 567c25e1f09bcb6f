package domain

import "context"

// UserRepository é a interface que a camada de Repositório DEVE implementar
// para a entidade User.
type UserRepository interface {
	Save(ctx context.Context, user User) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindAll(ctx context.Context, filter UserFilter) ([]User, error)
	// Update grava todos os campos editáveis. Se o papel deixar de ser
	// store_owner, as lojas do usuário perdem o proprietário na mesma transação.
	Update(ctx context.Context, user User) (User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	Delete(ctx context.Context, id string) error
}

// StoreRepository define o acesso a dados de lojas. As leituras de resumo
// calculam média e total de avaliações no momento da consulta.
type StoreRepository interface {
	Save(ctx context.Context, store Store) (Store, error)
	FindByID(ctx context.Context, id string) (Store, error)
	FindSummaryByID(ctx context.Context, id string) (StoreSummary, error)
	FindAll(ctx context.Context, filter StoreFilter) ([]StoreSummary, error)
	Update(ctx context.Context, id string, update StoreUpdate) (Store, error)
	Delete(ctx context.Context, id string) error
}

// RatingRepository define o acesso a dados de avaliações.
type RatingRepository interface {
	Save(ctx context.Context, rating Rating) (Rating, error)
	FindByID(ctx context.Context, id string) (RatingView, error)
	FindByUserAndStore(ctx context.Context, userID, storeID string) (Rating, error)
	FindAll(ctx context.Context, filter RatingFilter) ([]RatingView, error)
	FindByStore(ctx context.Context, storeID string, filter RatingFilter) ([]RatingView, error)
	Update(ctx context.Context, id string, value int) (Rating, error)
	Delete(ctx context.Context, id string) error
}
