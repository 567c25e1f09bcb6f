package authservice

import (
	"context"
	"errors"
	"fmt"

	"storerating/internal/domain"
	apperror "storerating/internal/errors"
	"storerating/internal/pkg/logger"
	"storerating/internal/pkg/password"
)

// TokenGenerator é o trecho da camada de token (internal/pkg/token) usado aqui.
type TokenGenerator interface {
	GenerateToken(userID string, userRole string) (string, error)
}

// AuthService cuida de cadastro, login, perfil e troca de senha.
type AuthService struct {
	UserRepo domain.UserRepository
	TokenSvc TokenGenerator
	logger   logger.Logger
}

// NewService cria uma nova instância do AuthService.
func NewService(repo domain.UserRepository, tokenSvc TokenGenerator, logger logger.Logger) *AuthService {
	return &AuthService{
		UserRepo: repo,
		TokenSvc: tokenSvc,
		logger:   logger,
	}
}

// Register cadastra um novo usuário. O papel padrão é "user"; o cadastro
// público não cria administradores.
func (s *AuthService) Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error) {
	role := registration.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role == domain.RoleAdmin {
		return domain.User{}, apperror.NewFieldValidationError("Não é permitido se cadastrar como administrador.", []apperror.FieldError{
			{Field: "role", Rule: "role", Message: "role deve ser user ou store_owner"},
		})
	}

	if _, err := s.UserRepo.FindByEmail(ctx, registration.Email); err == nil {
		return domain.User{}, apperror.NewConflictError(fmt.Sprintf("O email '%s' já está em uso.", registration.Email))
	} else if !isNotFound(err) {
		return domain.User{}, err
	}

	hashed, err := password.Hash(registration.Password)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	user, err := s.UserRepo.Save(ctx, domain.User{
		Name:         registration.Name,
		Email:        registration.Email,
		PasswordHash: hashed,
		Address:      registration.Address,
		Role:         role,
	})
	if err != nil {
		return domain.User{}, err
	}

	s.logger.Info("Usuário registrado.", map[string]interface{}{"user_id": user.ID, "role": user.Role})
	return user, nil
}

// Login autentica um usuário, verifica a senha e gera um JWT.
// Email desconhecido e senha errada produzem o mesmo erro.
func (s *AuthService) Login(ctx context.Context, email string, plain string) (domain.LoginResult, error) {
	if email == "" || plain == "" {
		return domain.LoginResult{}, apperror.NewUnauthorizedError("Email e senha são obrigatórios.")
	}

	user, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return domain.LoginResult{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return domain.LoginResult{}, err
	}

	if !password.Matches(user.PasswordHash, plain) {
		s.logger.Debug("Senha incorreta no login.", map[string]interface{}{"user_id": user.ID})
		return domain.LoginResult{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	tokenString, err := s.TokenSvc.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return domain.LoginResult{}, apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	return domain.LoginResult{Token: tokenString, User: user}, nil
}

// Profile devolve o usuário dono do token. Se a conta foi removida depois
// da emissão do token, o resultado é NotFound.
func (s *AuthService) Profile(ctx context.Context, userID string) (domain.User, error) {
	return s.UserRepo.FindByID(ctx, userID)
}

// UpdatePassword troca a senha depois de conferir a senha atual.
func (s *AuthService) UpdatePassword(ctx context.Context, userID string, update domain.PasswordUpdate) error {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !password.Matches(user.PasswordHash, update.CurrentPassword) {
		return apperror.NewUnauthorizedError("A senha atual está incorreta.")
	}

	hashed, err := password.Hash(update.NewPassword)
	if err != nil {
		return apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	if err := s.UserRepo.UpdatePassword(ctx, userID, hashed); err != nil {
		return err
	}

	s.logger.Info("Senha atualizada.", map[string]interface{}{"user_id": userID})
	return nil
}

func isNotFound(err error) bool {
	var notFound *apperror.NotFoundError
	return errors.As(err, &notFound)
}
