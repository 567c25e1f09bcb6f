package storeservice

import (
	"context"
	"errors"
	"strings"

	"storerating/internal/authz"
	"storerating/internal/domain"
	apperror "storerating/internal/errors"
	"storerating/internal/pkg/logger"
)

// StoreService define a lógica de negócio de lojas e do dashboard do proprietário.
type StoreService struct {
	StoreRepo domain.StoreRepository
	UserRepo  domain.UserRepository
	logger    logger.Logger
}

// NewService cria uma nova instância do StoreService.
func NewService(storeRepo domain.StoreRepository, userRepo domain.UserRepository, logger logger.Logger) *StoreService {
	return &StoreService{
		StoreRepo: storeRepo,
		UserRepo:  userRepo,
		logger:    logger,
	}
}

// DeriveEmail monta o email padrão de uma loja a partir do nome.
func DeriveEmail(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "")) + "@example.com"
}

// List devolve as lojas com média e total de avaliações.
func (s *StoreService) List(ctx context.Context, filter domain.StoreFilter) ([]domain.StoreSummary, error) {
	return s.StoreRepo.FindAll(ctx, filter)
}

// Get busca uma loja com seus agregados.
func (s *StoreService) Get(ctx context.Context, id string) (domain.StoreSummary, error) {
	return s.StoreRepo.FindSummaryByID(ctx, id)
}

// OwnerDashboard lista apenas as lojas do proprietário autenticado.
func (s *StoreService) OwnerDashboard(ctx context.Context, actor domain.Actor, filter domain.StoreFilter) ([]domain.StoreSummary, error) {
	filter.OwnerID = actor.UserID
	return s.StoreRepo.FindAll(ctx, filter)
}

// Create cadastra uma loja. O proprietário, se informado, precisa existir e ter papel store_owner.
func (s *StoreService) Create(ctx context.Context, input domain.StoreInput) (domain.Store, error) {
	if input.OwnerID != nil {
		if err := s.checkOwner(ctx, *input.OwnerID); err != nil {
			return domain.Store{}, err
		}
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		email = DeriveEmail(input.Name)
	}

	store, err := s.StoreRepo.Save(ctx, domain.Store{
		Name:    input.Name,
		Email:   email,
		Address: input.Address,
		OwnerID: input.OwnerID,
	})
	if err != nil {
		return domain.Store{}, err
	}

	s.logger.Info("Loja criada.", map[string]interface{}{"store_id": store.ID, "owner_id": store.OwnerID})
	return store, nil
}

// Update altera uma loja existente. Só o admin troca o proprietário.
func (s *StoreService) Update(ctx context.Context, actor domain.Actor, id string, update domain.StoreUpdate) (domain.Store, error) {
	store, err := s.StoreRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Store{}, err
	}
	if !authz.CanModifyStore(actor, store) {
		return domain.Store{}, apperror.NewForbiddenError("Você não pode alterar esta loja.")
	}

	if update.OwnerID != nil && !store.OwnedBy(*update.OwnerID) {
		if !authz.CanReassignStoreOwner(actor) {
			return domain.Store{}, apperror.NewForbiddenError("Apenas administradores podem trocar o proprietário da loja.")
		}
		if err := s.checkOwner(ctx, *update.OwnerID); err != nil {
			return domain.Store{}, err
		}
	}

	return s.StoreRepo.Update(ctx, id, update)
}

// Delete remove uma loja e, em cascata, suas avaliações.
func (s *StoreService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	store, err := s.StoreRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanModifyStore(actor, store) {
		return apperror.NewForbiddenError("Você não pode excluir esta loja.")
	}
	if err := s.StoreRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Loja removida.", map[string]interface{}{"store_id": id, "by": actor.UserID})
	return nil
}

func (s *StoreService) checkOwner(ctx context.Context, ownerID string) error {
	owner, err := s.UserRepo.FindByID(ctx, ownerID)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return ownerError("O proprietário informado não existe.")
		}
		return err
	}
	if owner.Role != domain.RoleStoreOwner {
		return ownerError("O proprietário informado precisa ter o papel store_owner.")
	}
	return nil
}

func ownerError(msg string) error {
	return apperror.NewFieldValidationError(msg, []apperror.FieldError{
		{Field: "owner_id", Rule: "owner", Message: msg},
	})
}
