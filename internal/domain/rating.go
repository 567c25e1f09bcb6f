package domain

import "time"

// Faixa aceita para o valor de uma avaliação.
const (
	MinRating = 1
	MaxRating = 5
)

// Rating é a avaliação de um usuário para uma loja. Existe no máximo uma
// por par (user_id, store_id).
type Rating struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	StoreID   string    `json:"store_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingView é a linha de listagem com os dados de usuário e loja já unidos.
type RatingView struct {
	Rating
	UserName     string  `json:"user_name"`
	UserEmail    string  `json:"user_email"`
	StoreName    string  `json:"store_name"`
	StoreAddress string  `json:"store_address"`
	StoreOwnerID *string `json:"-"`
}

// RatingInput é o payload de criação de avaliação.
type RatingInput struct {
	StoreID string `json:"store_id" validate:"required,uuid"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}

// RatingUpdate é o payload de alteração do valor de uma avaliação.
type RatingUpdate struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

// RatingFilter define os parâmetros de busca da listagem de avaliações.
// Os campos Scope* são preenchidos pelo serviço conforme o papel do chamador.
type RatingFilter struct {
	Search    string
	SortBy    string
	SortOrder string
	StoreID   string
	UserID    string

	ScopeUserID  string // avaliações escritas por este usuário
	ScopeOwnerID string // avaliações de lojas deste proprietário
}
