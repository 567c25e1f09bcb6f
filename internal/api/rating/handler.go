package rating

import (
	"context"
	"net/http"

	"storerating/internal/api/params"
	"storerating/internal/domain"
	apperror "storerating/internal/errors"
	"storerating/internal/pkg/logger"
	"storerating/internal/pkg/metrics"
	"storerating/internal/pkg/middleware"
	"storerating/internal/pkg/respond"
	"storerating/internal/pkg/validate"
)

// RatingService define o contrato de avaliações usado pelos handlers.
type RatingService interface {
	List(ctx context.Context, actor domain.Actor, filter domain.RatingFilter) ([]domain.RatingView, error)
	Get(ctx context.Context, actor domain.Actor, id string) (domain.RatingView, error)
	ListByStore(ctx context.Context, actor domain.Actor, storeID string, filter domain.RatingFilter) ([]domain.RatingView, error)
	Create(ctx context.Context, actor domain.Actor, input domain.RatingInput) (domain.Rating, error)
	Update(ctx context.Context, actor domain.Actor, id string, value int) (domain.Rating, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

// ListResponse é o corpo das listagens de avaliações.
type ListResponse struct {
	Ratings []domain.RatingView `json:"ratings"`
	Total   int                 `json:"total"`
}

// ViewResponse é o corpo de GET /api/ratings/{id}.
type ViewResponse struct {
	Rating domain.RatingView `json:"rating"`
}

// RatingResponse é o corpo das escritas de avaliação.
type RatingResponse struct {
	Message string        `json:"message"`
	Rating  domain.Rating `json:"rating"`
}

// Handler agrupa os handlers de avaliações.
type Handler struct {
	Service   RatingService
	Validator *validate.Validator
	Logger    logger.Logger
}

// NewHandler cria uma nova instância do Handler.
func NewHandler(svc RatingService, v *validate.Validator, log logger.Logger) *Handler {
	return &Handler{
		Service:   svc,
		Validator: v,
		Logger:    log,
	}
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		respond.Error(w, r, h.Logger, apperror.NewUnauthorizedError("Autenticação necessária."))
	}
	return actor, ok
}

// List lida com GET /api/ratings.
// @Summary Lista avaliações conforme o papel do chamador
// @Description admin vê todas, store_owner as das próprias lojas, user apenas as suas.
// @Tags ratings
// @Produce json
// @Security BearerAuth
// @Param search query string false "Busca por loja, nome ou email do usuário"
// @Param sortBy query string false "rating, created_at, user_name ou store_name"
// @Param sortOrder query string false "ASC ou DESC"
// @Param store_id query string false "Filtra por loja"
// @Param user_id query string false "Filtra por usuário (admin)"
// @Success 200 {object} ListResponse
// @Router /ratings [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	storeID, err := params.OptionalUUID(r, "store_id")
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	userID, err := params.OptionalUUID(r, "user_id")
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	l := params.ListingFrom(r)
	ratings, err := h.Service.List(r.Context(), actor, domain.RatingFilter{
		Search:    l.Search,
		SortBy:    l.SortBy,
		SortOrder: l.SortOrder,
		StoreID:   storeID,
		UserID:    userID,
	})
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, ListResponse{Ratings: ratings, Total: len(ratings)})
}

// Get lida com GET /api/ratings/{id}.
// @Summary Busca uma avaliação
// @Tags ratings
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da avaliação"
// @Success 200 {object} ViewResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /ratings/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := params.ID(r, "id")
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	view, err := h.Service.Get(r.Context(), actor, id)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, ViewResponse{Rating: view})
}

// ListByStore lida com GET /api/ratings/store/{id}.
// @Summary Lista as avaliações de uma loja
// @Tags ratings
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da loja"
// @Param search query string false "Busca por nome ou email do usuário"
// @Param sortBy query string false "rating, created_at ou user_name"
// @Param sortOrder query string false "ASC ou DESC"
// @Success 200 {object} ListResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /ratings/store/{id} [get]
func (h *Handler) ListByStore(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	storeID, err := params.ID(r, "id")
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	l := params.ListingFrom(r)
	ratings, err := h.Service.ListByStore(r.Context(), actor, storeID, domain.RatingFilter{
		Search:    l.Search,
		SortBy:    l.SortBy,
		SortOrder: l.SortOrder,
	})
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, ListResponse{Ratings: ratings, Total: len(ratings)})
}

// Create lida com POST /api/ratings.
// @Summary Avalia uma loja
// @Description Cada usuário avalia uma loja no máximo uma vez.
// @Tags ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param rating body domain.RatingInput true "Loja e nota de 1 a 5"
// @Success 201 {object} RatingResponse
// @Failure 400 {object} domain.ErrorResponse "Validação ou avaliação duplicada"
// @Failure 404 {object} domain.ErrorResponse
// @Router /ratings [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var input domain.RatingInput
	if err := params.DecodeJSON(r, &input); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	if err := h.Validator.Struct(input); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	rating, err := h.Service.Create(r.Context(), actor, input)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	metrics.RecordRatingWrite("create")
	respond.JSON(w, h.Logger, http.StatusCreated, RatingResponse{Message: "Avaliação registrada com sucesso.", Rating: rating})
}

// Update lida com PUT /api/ratings/{id}.
// @Summary Altera a nota de uma avaliação
// @Tags ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da avaliação"
// @Param rating body domain.RatingUpdate true "Nova nota"
// @Success 200 {object} RatingResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /ratings/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := params.ID(r, "id")
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	var update domain.RatingUpdate
	if err := params.DecodeJSON(r, &update); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	if err := h.Validator.Struct(update); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	rating, err := h.Service.Update(r.Context(), actor, id, update.Rating)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	metrics.RecordRatingWrite("update")
	respond.JSON(w, h.Logger, http.StatusOK, RatingResponse{Message: "Avaliação atualizada com sucesso.", Rating: rating})
}

// Delete lida com DELETE /api/ratings/{id}.
// @Summary Remove uma avaliação
// @Tags ratings
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da avaliação"
// @Success 200 {object} respond.Message
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /ratings/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := params.ID(r, "id")
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	if err := h.Service.Delete(r.Context(), actor, id); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	metrics.RecordRatingWrite("delete")
	respond.JSON(w, h.Logger, http.StatusOK, respond.Message{Message: "Avaliação removida com sucesso."})
}
