package auth

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

// AuthService define o contrato para cadastro, login, perfil e troca de senha.
type AuthService interface {
	Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error)
	Login(ctx context.Context, email string, password string) (domain.LoginResult, error)
	Profile(ctx context.Context, userID string) (domain.User, error)
	UpdatePassword(ctx context.Context, userID string, update domain.PasswordUpdate) error
}

// UserResponse é o corpo das respostas que devolvem um usuário.
type UserResponse struct {
	Message string      `json:"message,omitempty"`
	User    domain.User `json:"user"`
}

// Handler agrupa os handlers de autenticação.
type Handler struct {
	Service   AuthService
	Validator *validate.Validator
	Logger    logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc AuthService, v *validate.Validator, log logger.Logger) *Handler {
	return &Handler{
		Service:   svc,
		Validator: v,
		Logger:    log,
	}
}

// Register lida com a requisição POST /api/auth/register.
// @Summary Registra um novo usuário
// @Description Cria um usuário com papel user (padrão) ou store_owner.
// @Tags auth
// @Accept json
// @Produce json
// @Param registration body domain.UserRegistration true "Dados de cadastro"
// @Success 201 {object} UserResponse
// @Failure 400 {object} domain.ErrorResponse "Validação ou email já cadastrado"
// @Failure 429 {object} domain.ErrorResponse "Limite de requisições"
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var reg domain.UserRegistration
	if err := params.DecodeJSON(r, &reg); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	if err := h.Validator.Struct(reg); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	user, err := h.Service.Register(r.Context(), reg)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, h.Logger, http.StatusCreated, UserResponse{Message: "Usuário registrado com sucesso.", User: user})
}

// Login lida com a requisição POST /api/auth/login.
// @Summary Autentica um usuário e retorna um JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param login body domain.LoginRequest true "Credenciais"
// @Success 200 {object} domain.LoginResult
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := params.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	result, err := h.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		metrics.RecordLogin("failure")
		respond.Error(w, r, h.Logger, err)
		return
	}

	metrics.RecordLogin("success")
	respond.JSON(w, h.Logger, http.StatusOK, result)
}

// Profile lida com a requisição GET /api/auth/profile.
// @Summary Perfil do usuário autenticado
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse "Conta removida"
// @Router /auth/profile [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		respond.Error(w, r, h.Logger, apperror.NewUnauthorizedError("Autenticação necessária."))
		return
	}

	user, err := h.Service.Profile(r.Context(), actor.UserID)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, h.Logger, http.StatusOK, UserResponse{User: user})
}

// UpdatePassword lida com a requisição PUT /api/auth/password.
// @Summary Troca a senha do usuário autenticado
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.PasswordUpdate true "Senha atual e nova senha"
// @Success 200 {object} respond.Message
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse "Senha atual incorreta"
// @Router /auth/password [put]
func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		respond.Error(w, r, h.Logger, apperror.NewUnauthorizedError("Autenticação necessária."))
		return
	}

	var update domain.PasswordUpdate
	if err := params.DecodeJSON(r, &update); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	if err := h.Validator.Struct(update); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	if err := h.Service.UpdatePassword(r.Context(), actor.UserID, update); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, h.Logger, http.StatusOK, respond.Message{Message: "Senha atualizada com sucesso."})
}
