package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storerating/internal/domain"
	apperror "storerating/internal/errors"
	"storerating/internal/pkg/logger"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	JSON(rec, logger.NewNop(), http.StatusCreated, Message{Message: "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"ok"}`, rec.Body.String())
}

func TestError_ValidationIncludesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ratings", nil)
	err := apperror.NewFieldValidationError("Falha de validação.", []apperror.FieldError{{Field: "rating", Rule: "max", Message: "rating deve ter no máximo 5"}})

	Error(rec, req, logger.NewNop(), err)

	var body domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", body.Category)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "rating", body.Details[0].Field)
}

func TestError_InternalIsGeneric(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stores", nil)

	Error(rec, req, logger.NewNop(), errors.New("dial tcp 10.0.0.1:5432: connection refused"))

	var body domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, body.Message, "10.0.0.1")
	assert.Empty(t, body.Details)
}
