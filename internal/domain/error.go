package domain

import apperror "storerating/internal/errors"

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Code     int                   `json:"code" example:"400"`
	Category string                `json:"category" example:"VALIDATION_ERROR"`
	Message  string                `json:"message" example:"O nome da loja não pode ser vazio."`
	Details  []apperror.FieldError `json:"details,omitempty"`
}
