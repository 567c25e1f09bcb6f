package domain

// Actor é a identidade autenticada que executa uma operação.
type Actor struct {
	UserID string
	Role   UserRole
}

// IsAdmin informa se o ator é administrador.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
