package params_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storerating/internal/api/params"
	apperror "storerating/internal/errors"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestListingFrom(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/stores?search=tech&sortBy=name&sortOrder=desc", nil)

	l := params.ListingFrom(r)

	assert.Equal(t, params.Listing{Search: "tech", SortBy: "name", SortOrder: "desc"}, l)
}

func TestID(t *testing.T) {
	good := "5b9f2d8e-4c1a-4f7b-9a3e-2d1c0b9a8f7e"

	id, err := params.ID(withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", good), "id")
	require.NoError(t, err)
	assert.Equal(t, good, id)

	for _, raw := range []string{"42", "not-a-uuid", ""} {
		_, err = params.ID(withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", raw), "id")
		var notFound *apperror.NotFoundError
		require.True(t, errors.As(err, &notFound), raw)
		assert.Equal(t, http.StatusNotFound, notFound.HTTPStatus())
	}
}

func TestOptionalUUID(t *testing.T) {
	id, err := params.OptionalUUID(httptest.NewRequest(http.MethodGet, "/api/ratings", nil), "store_id")
	require.NoError(t, err)
	assert.Empty(t, id)

	_, err = params.OptionalUUID(httptest.NewRequest(http.MethodGet, "/api/ratings?store_id=abc", nil), "store_id")
	assert.Error(t, err)
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Rating int `json:"rating"`
	}

	require.NoError(t, params.DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rating":4}`)), &dst))
	assert.Equal(t, 4, dst.Rating)

	var validation *apperror.ValidationError
	assert.True(t, errors.As(params.DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")), &dst), &validation))
	assert.True(t, errors.As(params.DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{bad")), &dst), &validation))
}
