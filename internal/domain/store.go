package domain

import "time"

// Store representa uma loja, opcionalmente vinculada a um store_owner.
type Store struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	OwnerID   *string   `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnedBy informa se a loja pertence ao usuário informado.
func (s Store) OwnedBy(userID string) bool {
	return s.OwnerID != nil && *s.OwnerID == userID
}

// StoreSummary é a visão de leitura da loja com o agregado de avaliações
// calculado na própria consulta.
type StoreSummary struct {
	Store
	OwnerName     *string `json:"owner_name"`
	OwnerEmail    *string `json:"owner_email"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}

// StoreInput é o payload de criação de loja.
type StoreInput struct {
	Name    string  `json:"name" validate:"required,min=1,max=60"`
	Email   string  `json:"email" validate:"omitempty,email"`
	Address string  `json:"address" validate:"max=400"`
	OwnerID *string `json:"owner_id" validate:"omitempty,uuid"`
}

// StoreUpdate é uma atualização parcial: campos nil permanecem inalterados.
type StoreUpdate struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=60"`
	Address *string `json:"address" validate:"omitempty,max=400"`
	OwnerID *string `json:"owner_id" validate:"omitempty,uuid"`
}

// StoreFilter define os parâmetros de busca da listagem de lojas.
type StoreFilter struct {
	Search    string
	SortBy    string
	SortOrder string
	OwnerID   string // vazio = todas as lojas
}
