package store

import (
	"context"
	"net/http"

	"storerating/internal/api/params"
	"storerating/internal/domain"
	apperror "storerating/internal/errors"
	"storerating/internal/pkg/logger"
	"storerating/internal/pkg/middleware"
	"storerating/internal/pkg/respond"
	"storerating/internal/pkg/validate"
)

// StoreService define o contrato de lojas usado pelos handlers.
type StoreService interface {
	List(ctx context.Context, filter domain.StoreFilter) ([]domain.StoreSummary, error)
	Get(ctx context.Context, id string) (domain.StoreSummary, error)
	OwnerDashboard(ctx context.Context, actor domain.Actor, filter domain.StoreFilter) ([]domain.StoreSummary, error)
	Create(ctx context.Context, input domain.StoreInput) (domain.Store, error)
	Update(ctx context.Context, actor domain.Actor, id string, update domain.StoreUpdate) (domain.Store, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

// ListResponse é o corpo das listagens de lojas.
type ListResponse struct {
	Stores []domain.StoreSummary `json:"stores"`
	Total  int                   `json:"total"`
}

// SummaryResponse é o corpo de GET /api/stores/{id}.
type SummaryResponse struct {
	Store domain.StoreSummary `json:"store"`
}

// StoreResponse é o corpo das escritas de loja.
type StoreResponse struct {
	Message string       `json:"message"`
	Store   domain.Store `json:"store"`
}

// Handler agrupa os handlers de lojas.
type Handler struct {
	Service   StoreService
	Validator *validate.Validator
	Logger    logger.Logger
}

// NewHandler cria uma nova instância do Handler.
func NewHandler(svc StoreService, v *validate.Validator, log logger.Logger) *Handler {
	return &Handler{
		Service:   svc,
		Validator: v,
		Logger:    log,
	}
}

func filterFrom(r *http.Request) domain.StoreFilter {
	l := params.ListingFrom(r)
	return domain.StoreFilter{Search: l.Search, SortBy: l.SortBy, SortOrder: l.SortOrder}
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		respond.Error(w, r, h.Logger, apperror.NewUnauthorizedError("Autenticação necessária."))
	}
	return actor, ok
}

// List lida com GET /api/stores.
// @Summary Lista lojas com média e total de avaliações
// @Tags stores
// @Produce json
// @Param search query string false "Busca por nome ou endereço"
// @Param sortBy query string false "name, address, created_at, average_rating ou total_ratings"
// @Param sortOrder query string false "ASC ou DESC"
// @Success 200 {object} ListResponse
// @Router /stores [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	stores, err := h.Service.List(r.Context(), filterFrom(r))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, ListResponse{Stores: stores, Total: len(stores)})
}

// Get lida com GET /api/stores/{id}.
// @Summary Busca uma loja
// @Tags stores
// @Produce json
// @Param id path string true "ID da loja"
// @Success 200 {object} SummaryResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /stores/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := params.ID(r, "id")
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	summary, err := h.Service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, SummaryResponse{Store: summary})
}

// OwnerDashboard lida com GET /api/stores/owner/dashboard.
// @Summary Lojas do proprietário autenticado
// @Tags stores
// @Produce json
// @Security BearerAuth
// @Param search query string false "Busca por nome ou endereço"
// @Param sortBy query string false "Campo de ordenação"
// @Param sortOrder query string false "ASC ou DESC"
// @Success 200 {object} ListResponse
// @Failure 403 {object} domain.ErrorResponse
// @Router /stores/owner/dashboard [get]
func (h *Handler) OwnerDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	stores, err := h.Service.OwnerDashboard(r.Context(), actor, filterFrom(r))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, ListResponse{Stores: stores, Total: len(stores)})
}

// Create lida com POST /api/stores.
// @Summary Cria uma loja
// @Tags stores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param store body domain.StoreInput true "Dados da loja"
// @Success 201 {object} StoreResponse
// @Failure 400 {object} domain.ErrorResponse
// @Router /stores [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.StoreInput
	if err := params.DecodeJSON(r, &input); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	if err := h.Validator.Struct(input); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	store, err := h.Service.Create(r.Context(), input)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusCreated, StoreResponse{Message: "Loja criada com sucesso.", Store: store})
}

// Update lida com PUT /api/stores/{id}.
// @Summary Atualiza parcialmente uma loja
// @Tags stores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da loja"
// @Param store body domain.StoreUpdate true "Campos a alterar"
// @Success 200 {object} StoreResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /stores/{id} [put]
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

	var update domain.StoreUpdate
	if err := params.DecodeJSON(r, &update); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	if err := h.Validator.Struct(update); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	store, err := h.Service.Update(r.Context(), actor, id, update)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, StoreResponse{Message: "Loja atualizada com sucesso.", Store: store})
}

// Delete lida com DELETE /api/stores/{id}.
// @Summary Remove uma loja e suas avaliações
// @Tags stores
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da loja"
// @Success 200 {object} respond.Message
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /stores/{id} [delete]
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
	respond.JSON(w, h.Logger, http.StatusOK, respond.Message{Message: "Loja removida com sucesso."})
}
