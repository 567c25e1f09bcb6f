package userservice

import (
	"context"
	"errors"
	"fmt"

	"storerating/internal/authz"
	"storerating/internal/domain"
	apperror "storerating/internal/errors"
	"storerating/internal/pkg/logger"
	"storerating/internal/pkg/password"
)

// UserService define o serviço de lógica de negócio da administração de usuários.
type UserService struct {
	UserRepo domain.UserRepository
	logger   logger.Logger
}

// NewService cria uma nova instância do UserService, injetando o Repositório.
func NewService(repo domain.UserRepository, logger logger.Logger) *UserService {
	return &UserService{
		UserRepo: repo,
		logger:   logger,
	}
}

// List devolve os usuários filtrados e ordenados.
func (s *UserService) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	return s.UserRepo.FindAll(ctx, filter)
}

// Get busca um usuário pelo ID.
func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	return s.UserRepo.FindByID(ctx, id)
}

// Create cadastra um usuário com qualquer papel. O papel padrão é "user".
func (s *UserService) Create(ctx context.Context, registration domain.UserRegistration) (domain.User, error) {
	if err := s.ensureEmailFree(ctx, registration.Email, ""); err != nil {
		return domain.User{}, err
	}

	role := registration.Role
	if role == "" {
		role = domain.RoleUser
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

	s.logger.Info("Usuário criado por administrador.", map[string]interface{}{"user_id": user.ID, "role": user.Role})
	return user, nil
}

// Update aplica a atualização parcial. O email continua único, excluindo o próprio usuário.
func (s *UserService) Update(ctx context.Context, id string, update domain.UserUpdate) (domain.User, error) {
	user, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	if update.Email != nil && *update.Email != user.Email {
		if err := s.ensureEmailFree(ctx, *update.Email, id); err != nil {
			return domain.User{}, err
		}
		user.Email = *update.Email
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Address != nil {
		user.Address = *update.Address
	}
	if update.Role != nil {
		user.Role = *update.Role
	}

	return s.UserRepo.Update(ctx, user)
}

// Delete remove um usuário. Ninguém remove a própria conta.
func (s *UserService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if !authz.CanDeleteUser(actor, id) {
		return apperror.NewValidationError("Você não pode excluir a própria conta.")
	}
	if err := s.UserRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Usuário removido.", map[string]interface{}{"user_id": id, "by": actor.UserID})
	return nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return apperror.NewConflictError(fmt.Sprintf("O email '%s' já está em uso.", email))
}
