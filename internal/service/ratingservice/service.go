package ratingservice

import (
	"context"
	"errors"
	"fmt"

	"storerating/internal/authz"
	"storerating/internal/domain"
	apperror "storerating/internal/errors"
	"storerating/internal/pkg/logger"
)

// RatingService define o ciclo de vida das avaliações e o escopo de leitura por papel.
type RatingService struct {
	RatingRepo domain.RatingRepository
	StoreRepo  domain.StoreRepository
	logger     logger.Logger
}

// NewService cria uma nova instância do RatingService.
func NewService(ratingRepo domain.RatingRepository, storeRepo domain.StoreRepository, logger logger.Logger) *RatingService {
	return &RatingService{
		RatingRepo: ratingRepo,
		StoreRepo:  storeRepo,
		logger:     logger,
	}
}

// scope restringe o filtro ao que o papel pode ver. O filtro user_id só vale para admin.
func scope(actor domain.Actor, filter domain.RatingFilter) domain.RatingFilter {
	filter.ScopeUserID = ""
	filter.ScopeOwnerID = ""
	switch actor.Role {
	case domain.RoleAdmin:
		return filter
	case domain.RoleStoreOwner:
		filter.ScopeOwnerID = actor.UserID
	default:
		filter.ScopeUserID = actor.UserID
	}
	filter.UserID = ""
	return filter
}

// List devolve as avaliações visíveis ao ator.
func (s *RatingService) List(ctx context.Context, actor domain.Actor, filter domain.RatingFilter) ([]domain.RatingView, error) {
	return s.RatingRepo.FindAll(ctx, scope(actor, filter))
}

// Get busca uma avaliação visível ao ator.
func (s *RatingService) Get(ctx context.Context, actor domain.Actor, id string) (domain.RatingView, error) {
	view, err := s.RatingRepo.FindByID(ctx, id)
	if err != nil {
		return domain.RatingView{}, err
	}
	if !authz.CanViewRating(actor, view) {
		return domain.RatingView{}, apperror.NewForbiddenError("Você não pode ver esta avaliação.")
	}
	return view, nil
}

// ListByStore lista as avaliações de uma loja. Um store_owner só vê as das próprias lojas.
func (s *RatingService) ListByStore(ctx context.Context, actor domain.Actor, storeID string, filter domain.RatingFilter) ([]domain.RatingView, error) {
	store, err := s.StoreRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if !authz.CanViewStoreRatings(actor, store) {
		return nil, apperror.NewForbiddenError("Você só pode ver avaliações das suas lojas.")
	}
	return s.RatingRepo.FindByStore(ctx, storeID, domain.RatingFilter{
		Search:    filter.Search,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	})
}

// Create registra a avaliação do ator para a loja. Uma por usuário e loja.
func (s *RatingService) Create(ctx context.Context, actor domain.Actor, input domain.RatingInput) (domain.Rating, error) {
	if err := checkValue(input.Rating); err != nil {
		return domain.Rating{}, err
	}

	if _, err := s.StoreRepo.FindByID(ctx, input.StoreID); err != nil {
		return domain.Rating{}, err
	}

	_, err := s.RatingRepo.FindByUserAndStore(ctx, actor.UserID, input.StoreID)
	if err == nil {
		return domain.Rating{}, apperror.NewConflictError("Você já avaliou esta loja.")
	}
	var notFound *apperror.NotFoundError
	if !errors.As(err, &notFound) {
		return domain.Rating{}, err
	}

	rating, err := s.RatingRepo.Save(ctx, domain.Rating{
		UserID:  actor.UserID,
		StoreID: input.StoreID,
		Rating:  input.Rating,
	})
	if err != nil {
		return domain.Rating{}, err
	}

	s.logger.Info("Avaliação criada.", map[string]interface{}{"rating_id": rating.ID, "store_id": rating.StoreID, "user_id": actor.UserID})
	return rating, nil
}

// Update altera a nota. Apenas o autor ou um admin.
func (s *RatingService) Update(ctx context.Context, actor domain.Actor, id string, value int) (domain.Rating, error) {
	view, err := s.RatingRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Rating{}, err
	}
	if !authz.CanModifyRating(actor, view.Rating) {
		return domain.Rating{}, apperror.NewForbiddenError("Você não pode alterar esta avaliação.")
	}
	if err := checkValue(value); err != nil {
		return domain.Rating{}, err
	}
	return s.RatingRepo.Update(ctx, id, value)
}

// Delete remove a avaliação. Apenas o autor ou um admin.
func (s *RatingService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	view, err := s.RatingRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanModifyRating(actor, view.Rating) {
		return apperror.NewForbiddenError("Você não pode excluir esta avaliação.")
	}
	if err := s.RatingRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Avaliação removida.", map[string]interface{}{"rating_id": id, "by": actor.UserID})
	return nil
}

func checkValue(value int) error {
	if value < domain.MinRating || value > domain.MaxRating {
		msg := fmt.Sprintf("A nota deve estar entre %d e %d.", domain.MinRating, domain.MaxRating)
		return apperror.NewFieldValidationError(msg, []apperror.FieldError{{Field: "rating", Rule: "range", Message: msg}})
	}
	return nil
}
