// Package authz reúne os predicados de permissão por linha (ator, recurso).
// Os serviços os avaliam depois de confirmar que o recurso existe, para que
// "não encontrado" tenha precedência sobre "proibido".
package authz

import "storerating/internal/domain"

// CanModifyStore: admin, ou o store_owner dono da loja.
func CanModifyStore(actor domain.Actor, store domain.Store) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.Role == domain.RoleStoreOwner && store.OwnedBy(actor.UserID)
}

// CanReassignStoreOwner: apenas admin troca o proprietário de uma loja.
func CanReassignStoreOwner(actor domain.Actor) bool {
	return actor.IsAdmin()
}

// CanModifyRating: admin, ou o autor da avaliação.
func CanModifyRating(actor domain.Actor, rating domain.Rating) bool {
	return actor.IsAdmin() || rating.UserID == actor.UserID
}

// CanViewRating: admin, o autor, ou o dono da loja avaliada.
func CanViewRating(actor domain.Actor, rating domain.RatingView) bool {
	if CanModifyRating(actor, rating.Rating) {
		return true
	}
	return actor.Role == domain.RoleStoreOwner &&
		rating.StoreOwnerID != nil && *rating.StoreOwnerID == actor.UserID
}

// CanViewStoreRatings: qualquer autenticado, exceto um store_owner que não
// seja o dono da loja.
func CanViewStoreRatings(actor domain.Actor, store domain.Store) bool {
	if actor.Role == domain.RoleStoreOwner {
		return store.OwnedBy(actor.UserID)
	}
	return true
}

// CanDeleteUser: ninguém exclui a própria conta.
func CanDeleteUser(actor domain.Actor, targetID string) bool {
	return actor.UserID != targetID
}
