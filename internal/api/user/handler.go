package user

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

// UserService define o contrato da administração de usuários.
type UserService interface {
	List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
	Get(ctx context.Context, id string) (domain.User, error)
	Create(ctx context.Context, registration domain.UserRegistration) (domain.User, error)
	Update(ctx context.Context, id string, update domain.UserUpdate) (domain.User, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

// ListResponse é o corpo de GET /api/users.
type ListResponse struct {
	Users []domain.User `json:"users"`
	Total int           `json:"total"`
}

// UserResponse é o corpo das respostas que devolvem um usuário.
type UserResponse struct {
	Message string      `json:"message,omitempty"`
	User    domain.User `json:"user"`
}

// Handler agrupa os handlers de usuários (somente admin).
type Handler struct {
	Service   UserService
	Validator *validate.Validator
	Logger    logger.Logger
}

// NewHandler cria uma nova instância do Handler.
func NewHandler(svc UserService, v *validate.Validator, log logger.Logger) *Handler {
	return &Handler{
		Service:   svc,
		Validator: v,
		Logger:    log,
	}
}

// List lida com GET /api/users.
// @Summary Lista usuários
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param search query string false "Busca por nome ou email"
// @Param sortBy query string false "name, email, role ou created_at"
// @Param sortOrder query string false "ASC ou DESC"
// @Success 200 {object} ListResponse
// @Failure 403 {object} domain.ErrorResponse
// @Router /users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	l := params.ListingFrom(r)
	users, err := h.Service.List(r.Context(), domain.UserFilter{Search: l.Search, SortBy: l.SortBy, SortOrder: l.SortOrder})
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, ListResponse{Users: users, Total: len(users)})
}

// Get lida com GET /api/users/{id}.
// @Summary Busca um usuário
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do usuário"
// @Success 200 {object} UserResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /users/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := params.ID(r, "id")
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	user, err := h.Service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, UserResponse{User: user})
}

// Create lida com POST /api/users.
// @Summary Cria um usuário com qualquer papel
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body domain.UserRegistration true "Dados do usuário"
// @Success 201 {object} UserResponse
// @Failure 400 {object} domain.ErrorResponse
// @Router /users [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var reg domain.UserRegistration
	if err := params.DecodeJSON(r, &reg); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	if err := h.Validator.Struct(reg); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	user, err := h.Service.Create(r.Context(), reg)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusCreated, UserResponse{Message: "Usuário criado com sucesso.", User: user})
}

// Update lida com PUT /api/users/{id}.
// @Summary Atualiza parcialmente um usuário
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do usuário"
// @Param user body domain.UserUpdate true "Campos a alterar"
// @Success 200 {object} UserResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /users/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := params.ID(r, "id")
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	var update domain.UserUpdate
	if err := params.DecodeJSON(r, &update); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	if err := h.Validator.Struct(update); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	user, err := h.Service.Update(r.Context(), id, update)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, UserResponse{Message: "Usuário atualizado com sucesso.", User: user})
}

// Delete lida com DELETE /api/users/{id}.
// @Summary Remove um usuário
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do usuário"
// @Success 200 {object} respond.Message
// @Failure 400 {object} domain.ErrorResponse "Própria conta"
// @Failure 404 {object} domain.ErrorResponse
// @Router /users/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		respond.Error(w, r, h.Logger, apperror.NewUnauthorizedError("Autenticação necessária."))
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
	respond.JSON(w, h.Logger, http.StatusOK, respond.Message{Message: "Usuário removido com sucesso."})
}
