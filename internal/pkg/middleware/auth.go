package middleware

import (
	"context"
	"net/http"
	"strings"

	"storerating/internal/domain"
	apperror "storerating/internal/errors"
	"storerating/internal/pkg/logger"
	"storerating/internal/pkg/respond"
	"storerating/internal/pkg/token"
)

// ContextKey é o tipo das chaves de contexto deste pacote.
// Chaves de contexto devem ser não-exportadas em valor e de um tipo único.
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
)

// UserClaims representa os dados do usuário extraídos do token JWT,
// que serão anexados ao contexto.
type UserClaims struct {
	UserID string
	Role   domain.UserRole
}

// Actor converte as claims na identidade usada pelos serviços.
func (c UserClaims) Actor() domain.Actor {
	return domain.Actor{UserID: c.UserID, Role: c.Role}
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// NewAuthMiddleware cria um middleware que valida o JWT do header
// Authorization: Bearer <token> e anexa as claims (UserID e Role) ao contexto.
func NewAuthMiddleware(tokenSvc TokenService, log logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || strings.TrimSpace(tokenString) == "" {
				respond.Error(w, r, log, apperror.NewUnauthorizedError("Token de autorização ausente ou malformado."))
				return
			}

			claims, err := tokenSvc.ValidateToken(strings.TrimSpace(tokenString))
			if err != nil {
				log.Debug("Token rejeitado.", map[string]interface{}{"path": r.URL.Path, "reason": err.Error()})
				respond.Error(w, r, log, apperror.NewUnauthorizedError("Token inválido ou expirado."))
				return
			}

			role := domain.UserRole(claims.Role)
			if !role.Valid() {
				respond.Error(w, r, log, apperror.NewUnauthorizedError("Token com papel desconhecido."))
				return
			}

			ctx := WithUserClaims(r.Context(), UserClaims{UserID: claims.UserID, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithUserClaims anexa as claims ao contexto.
func WithUserClaims(ctx context.Context, claims UserClaims) context.Context {
	return context.WithValue(ctx, UserClaimsKey, claims)
}

// GetUserClaimsFromContext é uma função utilitária para extrair as claims no handler.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// RequireRoles permite a passagem apenas de chamadores cujo papel esteja na lista.
// Deve ser usado depois de NewAuthMiddleware.
func RequireRoles(log logger.Logger, requiredRoles ...domain.UserRole) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserClaimsFromContext(r.Context())
			if !ok {
				respond.Error(w, r, log, apperror.NewUnauthorizedError("Autorização necessária. Token não processado."))
				return
			}

			for _, requiredRole := range requiredRoles {
				if claims.Role == requiredRole {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.Warn("Acesso negado por papel.", map[string]interface{}{
				"user_id": claims.UserID,
				"role":    claims.Role,
				"path":    r.URL.Path,
			})
			respond.Error(w, r, log, apperror.NewForbiddenError("Você não tem a permissão necessária."))
		})
	}
}

// ActorFromContext devolve o ator autenticado da requisição.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	claims, ok := GetUserClaimsFromContext(ctx)
	if !ok {
		return domain.Actor{}, false
	}
	return claims.Actor(), true
}
