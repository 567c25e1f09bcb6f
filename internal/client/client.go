// Package client é o cliente HTTP tipado da API StoreRating usado pelo ratecli.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storerating/internal/domain"
	apperror "storerating/internal/errors"
)

// Client encapsula as chamadas HTTP à API.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient cria um Client a partir da URL do servidor (ex.: http://localhost:8080) e do token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/") + "/api",
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// APIError é devolvido quando o servidor responde com status >= 400.
type APIError struct {
	Status   int
	Category string
	Message  string
	Details  []apperror.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Query agrupa busca e ordenação das listagens.
type Query struct {
	Search    string
	SortBy    string
	SortOrder string
}

func (q Query) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		v.Set("sortOrder", q.SortOrder)
	}
	return v
}

// RatingQuery acrescenta os filtros de loja e usuário.
type RatingQuery struct {
	Query
	StoreID string
	UserID  string
}

func (q RatingQuery) values() url.Values {
	v := q.Query.values()
	if q.StoreID != "" {
		v.Set("store_id", q.StoreID)
	}
	if q.UserID != "" {
		v.Set("user_id", q.UserID)
	}
	return v
}

// --- helpers de baixo nível ---

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out interface{}) error {
	u := c.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("lendo resposta: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp domain.ErrorResponse
		if json.Unmarshal(data, &errResp) == nil && errResp.Message != "" {
			return &APIError{Status: resp.StatusCode, Category: errResp.Category, Message: errResp.Message, Details: errResp.Details}
		}
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decodificando resposta: %w", err)
		}
	}
	return nil
}

// --- auth ---

// Login autentica e devolve o token e o usuário.
func (c *Client) Login(ctx context.Context, email, password string) (domain.LoginResult, error) {
	var out domain.LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, domain.LoginRequest{Email: email, Password: password}, &out)
	return out, err
}

// Register cria uma conta pública (user ou store_owner).
func (c *Client) Register(ctx context.Context, reg domain.UserRegistration) (domain.User, error) {
	var out struct {
		User domain.User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, reg, &out)
	return out.User, err
}

// Profile devolve o usuário autenticado.
func (c *Client) Profile(ctx context.Context) (domain.User, error) {
	var out struct {
		User domain.User `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/auth/profile", nil, nil, &out)
	return out.User, err
}

// UpdatePassword troca a senha do usuário autenticado.
func (c *Client) UpdatePassword(ctx context.Context, current, next string) error {
	return c.do(ctx, http.MethodPut, "/auth/password", nil, domain.PasswordUpdate{CurrentPassword: current, NewPassword: next}, nil)
}

// --- stores ---

type storeList struct {
	Stores []domain.StoreSummary `json:"stores"`
	Total  int                   `json:"total"`
}

// ListStores lista as lojas com seus agregados.
func (c *Client) ListStores(ctx context.Context, q Query) ([]domain.StoreSummary, error) {
	var out storeList
	err := c.do(ctx, http.MethodGet, "/stores", q.values(), nil, &out)
	return out.Stores, err
}

// GetStore busca uma loja.
func (c *Client) GetStore(ctx context.Context, id string) (domain.StoreSummary, error) {
	var out struct {
		Store domain.StoreSummary `json:"store"`
	}
	err := c.do(ctx, http.MethodGet, "/stores/"+url.PathEscape(id), nil, nil, &out)
	return out.Store, err
}

// OwnerDashboard lista as lojas do store_owner autenticado.
func (c *Client) OwnerDashboard(ctx context.Context, q Query) ([]domain.StoreSummary, error) {
	var out storeList
	err := c.do(ctx, http.MethodGet, "/stores/owner/dashboard", q.values(), nil, &out)
	return out.Stores, err
}

type storeWrite struct {
	Store domain.Store `json:"store"`
}

// CreateStore cria uma loja (admin).
func (c *Client) CreateStore(ctx context.Context, input domain.StoreInput) (domain.Store, error) {
	var out storeWrite
	err := c.do(ctx, http.MethodPost, "/stores", nil, input, &out)
	return out.Store, err
}

// UpdateStore altera uma loja.
func (c *Client) UpdateStore(ctx context.Context, id string, update domain.StoreUpdate) (domain.Store, error) {
	var out storeWrite
	err := c.do(ctx, http.MethodPut, "/stores/"+url.PathEscape(id), nil, update, &out)
	return out.Store, err
}

// DeleteStore remove uma loja.
func (c *Client) DeleteStore(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/stores/"+url.PathEscape(id), nil, nil, nil)
}

// --- ratings ---

type ratingList struct {
	Ratings []domain.RatingView `json:"ratings"`
	Total   int                 `json:"total"`
}

type ratingWrite struct {
	Rating domain.Rating `json:"rating"`
}

// ListRatings lista as avaliações visíveis ao chamador.
func (c *Client) ListRatings(ctx context.Context, q RatingQuery) ([]domain.RatingView, error) {
	var out ratingList
	err := c.do(ctx, http.MethodGet, "/ratings", q.values(), nil, &out)
	return out.Ratings, err
}

// StoreRatings lista as avaliações de uma loja.
func (c *Client) StoreRatings(ctx context.Context, storeID string, q Query) ([]domain.RatingView, error) {
	var out ratingList
	err := c.do(ctx, http.MethodGet, "/ratings/store/"+url.PathEscape(storeID), q.values(), nil, &out)
	return out.Ratings, err
}

// CreateRating avalia uma loja.
func (c *Client) CreateRating(ctx context.Context, storeID string, value int) (domain.Rating, error) {
	var out ratingWrite
	err := c.do(ctx, http.MethodPost, "/ratings", nil, domain.RatingInput{StoreID: storeID, Rating: value}, &out)
	return out.Rating, err
}

// UpdateRating altera a nota de uma avaliação.
func (c *Client) UpdateRating(ctx context.Context, id string, value int) (domain.Rating, error) {
	var out ratingWrite
	err := c.do(ctx, http.MethodPut, "/ratings/"+url.PathEscape(id), nil, domain.RatingUpdate{Rating: value}, &out)
	return out.Rating, err
}

// DeleteRating remove uma avaliação.
func (c *Client) DeleteRating(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/ratings/"+url.PathEscape(id), nil, nil, nil)
}

// --- users (admin) ---

type userWrite struct {
	User domain.User `json:"user"`
}

// ListUsers lista os usuários.
func (c *Client) ListUsers(ctx context.Context, q Query) ([]domain.User, error) {
	var out struct {
		Users []domain.User `json:"users"`
		Total int           `json:"total"`
	}
	err := c.do(ctx, http.MethodGet, "/users", q.values(), nil, &out)
	return out.Users, err
}

// CreateUser cria um usuário com qualquer papel.
func (c *Client) CreateUser(ctx context.Context, reg domain.UserRegistration) (domain.User, error) {
	var out userWrite
	err := c.do(ctx, http.MethodPost, "/users", nil, reg, &out)
	return out.User, err
}

// UpdateUser altera um usuário.
func (c *Client) UpdateUser(ctx context.Context, id string, update domain.UserUpdate) (domain.User, error) {
	var out userWrite
	err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), nil, update, &out)
	return out.User, err
}

// DeleteUser remove um usuário.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil, nil)
}
