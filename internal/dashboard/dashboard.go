// Package dashboard monta as visões de cada papel a partir das chamadas da API.
package dashboard

import (
	"context"
	"errors"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"storerating/internal/client"
	"storerating/internal/domain"
	"storerating/internal/pkg/validate"
)

// AdminAPI é o trecho do cliente usado pelo painel do admin.
type AdminAPI interface {
	ListUsers(ctx context.Context, q client.Query) ([]domain.User, error)
	ListStores(ctx context.Context, q client.Query) ([]domain.StoreSummary, error)
	ListRatings(ctx context.Context, q client.RatingQuery) ([]domain.RatingView, error)
}

// OwnerAPI é o trecho do cliente usado pelo painel do store_owner.
type OwnerAPI interface {
	OwnerDashboard(ctx context.Context, q client.Query) ([]domain.StoreSummary, error)
}

// BrowserAPI é o trecho do cliente usado pela listagem de lojas do user.
type BrowserAPI interface {
	ListStores(ctx context.Context, q client.Query) ([]domain.StoreSummary, error)
	ListRatings(ctx context.Context, q client.RatingQuery) ([]domain.RatingView, error)
}

// PasswordAPI troca a senha do usuário autenticado.
type PasswordAPI interface {
	UpdatePassword(ctx context.Context, current, next string) error
}

// LatestRatings é quantas avaliações recentes o painel do admin mostra.
const LatestRatings = 5

// AdminStats são os totais do painel do admin.
type AdminStats struct {
	TotalUsers    int                 `json:"total_users"`
	TotalStores   int                 `json:"total_stores"`
	TotalRatings  int                 `json:"total_ratings"`
	AverageRating float64             `json:"average_rating"`
	Latest        []domain.RatingView `json:"latest_ratings"`
}

// AdminSummary busca usuários, lojas e avaliações em paralelo e calcula os totais.
// A média é 0 quando não há avaliações.
func AdminSummary(ctx context.Context, api AdminAPI) (AdminStats, error) {
	var (
		users   []domain.User
		stores  []domain.StoreSummary
		ratings []domain.RatingView
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = api.ListUsers(ctx, client.Query{})
		return err
	})
	g.Go(func() (err error) {
		stores, err = api.ListStores(ctx, client.Query{})
		return err
	})
	g.Go(func() (err error) {
		ratings, err = api.ListRatings(ctx, client.RatingQuery{})
		return err
	})
	if err := g.Wait(); err != nil {
		return AdminStats{}, err
	}

	latest := FilterSortRatings(ratings, "", "created_at", "DESC")
	if len(latest) > LatestRatings {
		latest = latest[:LatestRatings]
	}

	return AdminStats{
		TotalUsers:    len(users),
		TotalStores:   len(stores),
		TotalRatings:  len(ratings),
		AverageRating: meanRating(ratings),
		Latest:        latest,
	}, nil
}

// OwnerStats são os totais do painel do store_owner.
type OwnerStats struct {
	TotalStores   int                   `json:"total_stores"`
	TotalRatings  int                   `json:"total_ratings"`
	AverageRating float64               `json:"average_rating"` // média das médias das lojas
	Stores        []domain.StoreSummary `json:"stores"`
}

// OwnerSummary resume as lojas do proprietário autenticado.
func OwnerSummary(ctx context.Context, api OwnerAPI, q client.Query) (OwnerStats, error) {
	stores, err := api.OwnerDashboard(ctx, q)
	if err != nil {
		return OwnerStats{}, err
	}

	stats := OwnerStats{TotalStores: len(stores), Stores: stores}
	var sum float64
	for _, s := range stores {
		stats.TotalRatings += s.TotalRatings
		sum += s.AverageRating
	}
	if len(stores) > 0 {
		stats.AverageRating = sum / float64(len(stores))
	}
	return stats, nil
}

// UserStats resume as avaliações feitas por um user.
type UserStats struct {
	TotalRatings  int     `json:"total_ratings"`
	AverageGiven  float64 `json:"average_given"`
	StoresVisible int     `json:"stores_visible"`
}

// StoreRow é uma loja com a avaliação do próprio chamador, se houver.
type StoreRow struct {
	domain.StoreSummary
	MyRating *domain.RatingView `json:"my_rating,omitempty"`
}

// StoreBrowser busca as lojas e as avaliações do chamador em paralelo e as une
// pelo id da loja. A ordem das lojas é a devolvida pelo servidor.
func StoreBrowser(ctx context.Context, api BrowserAPI, q client.Query) ([]StoreRow, UserStats, error) {
	var (
		stores []domain.StoreSummary
		mine   []domain.RatingView
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stores, err = api.ListStores(gctx, q)
		return err
	})
	g.Go(func() (err error) {
		mine, err = api.ListRatings(gctx, client.RatingQuery{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, UserStats{}, err
	}

	byStore := make(map[string]domain.RatingView, len(mine))
	for _, r := range mine {
		byStore[r.StoreID] = r
	}

	rows := make([]StoreRow, 0, len(stores))
	for _, s := range stores {
		row := StoreRow{StoreSummary: s}
		if r, ok := byStore[s.ID]; ok {
			r := r
			row.MyRating = &r
		}
		rows = append(rows, row)
	}

	return rows, UserStats{
		TotalRatings:  len(mine),
		AverageGiven:  meanRating(mine),
		StoresVisible: len(stores),
	}, nil
}

// FilterSortRatings aplica localmente a busca (nome da loja, nome ou email do
// usuário) e a ordenação da visão de avaliações do admin. Direção em branco
// mantém o campo em DESC; campo ou direção desconhecidos caem em
// created_at DESC, como no servidor.
func FilterSortRatings(ratings []domain.RatingView, search, sortBy, sortOrder string) []domain.RatingView {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.RatingView, 0, len(ratings))
	for _, r := range ratings {
		if needle == "" ||
			strings.Contains(strings.ToLower(r.StoreName), needle) ||
			strings.Contains(strings.ToLower(r.UserName), needle) ||
			strings.Contains(strings.ToLower(r.UserEmail), needle) {
			out = append(out, r)
		}
	}

	order := strings.ToUpper(strings.TrimSpace(sortOrder))
	if order == "" {
		order = "DESC"
	}
	less, ok := ratingOrder[strings.TrimSpace(sortBy)]
	if !ok || (order != "ASC" && order != "DESC") {
		less, order = ratingOrder["created_at"], "DESC"
	}
	desc := order == "DESC"
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

var ratingOrder = map[string]func(a, b domain.RatingView) bool{
	"rating":     func(a, b domain.RatingView) bool { return a.Rating.Rating < b.Rating.Rating },
	"created_at": func(a, b domain.RatingView) bool { return a.CreatedAt.Before(b.CreatedAt) },
	"updated_at": func(a, b domain.RatingView) bool { return a.UpdatedAt.Before(b.UpdatedAt) },
	"user_name":  func(a, b domain.RatingView) bool { return strings.ToLower(a.UserName) < strings.ToLower(b.UserName) },
	"store_name": func(a, b domain.RatingView) bool { return strings.ToLower(a.StoreName) < strings.ToLower(b.StoreName) },
}

// Erros da validação local da troca de senha.
var (
	ErrPasswordMismatch = errors.New("a confirmação não confere com a nova senha")
	ErrWeakPassword     = errors.New("a senha deve ter entre 8 e 16 caracteres, com ao menos uma letra maiúscula e um caractere especial")
)

// ChangePassword valida a confirmação e a política de senha antes de chamar a API.
func ChangePassword(ctx context.Context, api PasswordAPI, current, next, confirm string) error {
	if next != confirm {
		return ErrPasswordMismatch
	}
	if !validate.ValidPassword(next) {
		return ErrWeakPassword
	}
	return api.UpdatePassword(ctx, current, next)
}

func meanRating(ratings []domain.RatingView) float64 {
	if len(ratings) == 0 {
		return 0
	}
	total := 0
	for _, r := range ratings {
		total += r.Rating.Rating
	}
	return float64(total) / float64(len(ratings))
}
