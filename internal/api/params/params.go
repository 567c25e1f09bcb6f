// Package params lê parâmetros de caminho, de query e o corpo JSON das requisições.
package params

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apperror "storerating/internal/errors"
)

const maxBodyBytes = 1 << 20

// Listing agrupa os parâmetros comuns das listagens.
type Listing struct {
	Search    string
	SortBy    string
	SortOrder string
}

// ListingFrom lê search, sortBy e sortOrder da query string.
func ListingFrom(r *http.Request) Listing {
	q := r.URL.Query()
	return Listing{
		Search:    q.Get("search"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
}

// ID lê um parâmetro de caminho que precisa ser um UUID. Um identificador
// malformado não aponta para nenhum recurso, então vira NotFoundError.
func ID(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperror.NewNotFoundError("Recurso não encontrado.")
	}
	return id.String(), nil
}

// OptionalUUID lê um filtro opcional da query string; vazio quando ausente.
func OptionalUUID(r *http.Request, name string) (string, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return "", nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperror.NewFieldValidationError("Filtro inválido.", []apperror.FieldError{
			{Field: name, Rule: "uuid", Message: name + " deve ser um UUID"},
		})
	}
	return id.String(), nil
}

// DecodeJSON decodifica o corpo em dst. Corpo vazio ou malformado vira ValidationError.
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.NewValidationError("Corpo da requisição vazio.")
		}
		return apperror.NewValidationError("Payload JSON inválido.")
	}
	return nil
}
