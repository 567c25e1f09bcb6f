package domain

import "time"

// User representa a entidade do usuário no sistema.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	Address      string    `json:"address"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

// Conjunto fechado de papéis. O banco repete a restrição com um CHECK.
const (
	RoleAdmin      UserRole = "admin"
	RoleUser       UserRole = "user"
	RoleStoreOwner UserRole = "store_owner"
)

// Valid informa se o papel pertence ao conjunto fechado.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleStoreOwner:
		return true
	}
	return false
}

// UserRegistration representa o payload de entrada para o registro.
type UserRegistration struct {
	Name     string   `json:"name" validate:"required,min=1,max=60"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,password"`
	Address  string   `json:"address" validate:"max=400"`
	Role     UserRole `json:"role" validate:"omitempty,role"`
}

// LoginRequest representa o payload de entrada para o login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult é o retorno do login: o token e o usuário autenticado.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// PasswordUpdate representa o payload de troca de senha do próprio usuário.
type PasswordUpdate struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,password"`
}

// UserUpdate é uma atualização parcial: campos nil permanecem inalterados.
type UserUpdate struct {
	Name    *string   `json:"name" validate:"omitempty,min=1,max=60"`
	Email   *string   `json:"email" validate:"omitempty,email"`
	Address *string   `json:"address" validate:"omitempty,max=400"`
	Role    *UserRole `json:"role" validate:"omitempty,role"`
}

// UserFilter define os parâmetros de busca da listagem de usuários.
type UserFilter struct {
	Search    string
	SortBy    string
	SortOrder string
}
