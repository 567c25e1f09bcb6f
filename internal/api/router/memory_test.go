package router_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"storerating/internal/domain"
	apperror "storerating/internal/errors"
)

// memDB guarda usuários, lojas e avaliações em memória para os testes de ponta a ponta.
type memDB struct {
	mu      sync.Mutex
	users   map[string]domain.User
	stores  map[string]domain.Store
	ratings map[string]domain.Rating
}

func newMemDB() *memDB {
	return &memDB{
		users:   map[string]domain.User{},
		stores:  map[string]domain.Store{},
		ratings: map[string]domain.Rating{},
	}
}

type memUsers struct{ db *memDB }
type memStores struct{ db *memDB }
type memRatings struct{ db *memDB }

var (
	_ domain.UserRepository   = memUsers{}
	_ domain.StoreRepository  = memStores{}
	_ domain.RatingRepository = memRatings{}
)

func (m memUsers) Save(_ context.Context, u domain.User) (domain.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	u.Email = strings.ToLower(u.Email)
	for _, other := range m.db.users {
		if other.Email == u.Email {
			return domain.User{}, apperror.NewConflictError("email em uso")
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	m.db.users[u.ID] = u
	return u, nil
}

func (m memUsers) FindByID(_ context.Context, id string) (domain.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	u, ok := m.db.users[id]
	if !ok {
		return domain.User{}, apperror.NewNotFoundError("Usuário não encontrado.")
	}
	return u, nil
}

func (m memUsers) FindByEmail(_ context.Context, email string) (domain.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, u := range m.db.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return domain.User{}, apperror.NewNotFoundError("Usuário não encontrado.")
}

func (m memUsers) FindAll(_ context.Context, filter domain.UserFilter) ([]domain.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := []domain.User{}
	for _, u := range m.db.users {
		if filter.Search == "" || contains(u.Name, filter.Search) || contains(u.Email, filter.Search) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m memUsers) Update(_ context.Context, u domain.User) (domain.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.users[u.ID]; !ok {
		return domain.User{}, apperror.NewNotFoundError("Usuário não encontrado.")
	}
	u.UpdatedAt = time.Now()
	m.db.users[u.ID] = u
	if u.Role != domain.RoleStoreOwner {
		for id, s := range m.db.stores {
			if s.OwnedBy(u.ID) {
				s.OwnerID = nil
				m.db.stores[id] = s
			}
		}
	}
	return u, nil
}

func (m memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	u, ok := m.db.users[id]
	if !ok {
		return apperror.NewNotFoundError("Usuário não encontrado.")
	}
	u.PasswordHash = hash
	m.db.users[id] = u
	return nil
}

func (m memUsers) Delete(_ context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.users[id]; !ok {
		return apperror.NewNotFoundError("Usuário não encontrado.")
	}
	delete(m.db.users, id)
	for sid, s := range m.db.stores {
		if s.OwnedBy(id) {
			m.db.deleteStore(sid)
		}
	}
	for rid, r := range m.db.ratings {
		if r.UserID == id {
			delete(m.db.ratings, rid)
		}
	}
	return nil
}

// deleteStore reproduz o ON DELETE CASCADE de ratings.store_id; exige o lock já adquirido.
func (db *memDB) deleteStore(id string) {
	delete(db.stores, id)
	for rid, r := range db.ratings {
		if r.StoreID == id {
			delete(db.ratings, rid)
		}
	}
}

func (m memStores) Save(_ context.Context, s domain.Store) (domain.Store, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	s.ID = uuid.NewString()
	s.CreatedAt, s.UpdatedAt = time.Now(), time.Now()
	m.db.stores[s.ID] = s
	return s, nil
}

func (m memStores) FindByID(_ context.Context, id string) (domain.Store, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	s, ok := m.db.stores[id]
	if !ok {
		return domain.Store{}, apperror.NewNotFoundError("Loja não encontrada.")
	}
	return s, nil
}

// summary calcula o agregado na leitura; exige o lock já adquirido.
func (m memStores) summary(s domain.Store) domain.StoreSummary {
	sum := domain.StoreSummary{Store: s}
	total := 0
	for _, r := range m.db.ratings {
		if r.StoreID == s.ID {
			total += r.Rating
			sum.TotalRatings++
		}
	}
	if sum.TotalRatings > 0 {
		sum.AverageRating = float64(total) / float64(sum.TotalRatings)
	}
	if s.OwnerID != nil {
		if owner, ok := m.db.users[*s.OwnerID]; ok {
			sum.OwnerName, sum.OwnerEmail = &owner.Name, &owner.Email
		}
	}
	return sum
}

func (m memStores) FindSummaryByID(_ context.Context, id string) (domain.StoreSummary, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	s, ok := m.db.stores[id]
	if !ok {
		return domain.StoreSummary{}, apperror.NewNotFoundError("Loja não encontrada.")
	}
	return m.summary(s), nil
}

func (m memStores) FindAll(_ context.Context, filter domain.StoreFilter) ([]domain.StoreSummary, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := []domain.StoreSummary{}
	for _, s := range m.db.stores {
		if filter.OwnerID != "" && !s.OwnedBy(filter.OwnerID) {
			continue
		}
		if filter.Search != "" && !contains(s.Name, filter.Search) && !contains(s.Address, filter.Search) {
			continue
		}
		out = append(out, m.summary(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m memStores) Update(_ context.Context, id string, u domain.StoreUpdate) (domain.Store, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	s, ok := m.db.stores[id]
	if !ok {
		return domain.Store{}, apperror.NewNotFoundError("Loja não encontrada.")
	}
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.Address != nil {
		s.Address = *u.Address
	}
	if u.OwnerID != nil {
		s.OwnerID = u.OwnerID
	}
	m.db.stores[id] = s
	return s, nil
}

func (m memStores) Delete(_ context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.stores[id]; !ok {
		return apperror.NewNotFoundError("Loja não encontrada.")
	}
	m.db.deleteStore(id)
	return nil
}

func (m memRatings) Save(_ context.Context, r domain.Rating) (domain.Rating, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, other := range m.db.ratings {
		if other.UserID == r.UserID && other.StoreID == r.StoreID {
			return domain.Rating{}, apperror.NewConflictError("Você já avaliou esta loja.")
		}
	}
	r.ID = uuid.NewString()
	r.CreatedAt, r.UpdatedAt = time.Now(), time.Now()
	m.db.ratings[r.ID] = r
	return r, nil
}

// view une usuário e loja; exige o lock já adquirido.
func (m memRatings) view(r domain.Rating) domain.RatingView {
	u := m.db.users[r.UserID]
	s := m.db.stores[r.StoreID]
	return domain.RatingView{
		Rating:       r,
		UserName:     u.Name,
		UserEmail:    u.Email,
		StoreName:    s.Name,
		StoreAddress: s.Address,
		StoreOwnerID: s.OwnerID,
	}
}

func (m memRatings) FindByID(_ context.Context, id string) (domain.RatingView, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	r, ok := m.db.ratings[id]
	if !ok {
		return domain.RatingView{}, apperror.NewNotFoundError("Avaliação não encontrada.")
	}
	return m.view(r), nil
}

func (m memRatings) FindByUserAndStore(_ context.Context, userID, storeID string) (domain.Rating, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, r := range m.db.ratings {
		if r.UserID == userID && r.StoreID == storeID {
			return r, nil
		}
	}
	return domain.Rating{}, apperror.NewNotFoundError("Avaliação não encontrada.")
}

func (m memRatings) FindAll(_ context.Context, f domain.RatingFilter) ([]domain.RatingView, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := []domain.RatingView{}
	for _, r := range m.db.ratings {
		v := m.view(r)
		switch {
		case f.ScopeUserID != "" && r.UserID != f.ScopeUserID:
			continue
		case f.ScopeOwnerID != "" && (v.StoreOwnerID == nil || *v.StoreOwnerID != f.ScopeOwnerID):
			continue
		case f.StoreID != "" && r.StoreID != f.StoreID:
			continue
		case f.UserID != "" && r.UserID != f.UserID:
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m memRatings) FindByStore(ctx context.Context, storeID string, f domain.RatingFilter) ([]domain.RatingView, error) {
	f.StoreID = storeID
	return m.FindAll(ctx, f)
}

func (m memRatings) Update(_ context.Context, id string, value int) (domain.Rating, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	r, ok := m.db.ratings[id]
	if !ok {
		return domain.Rating{}, apperror.NewNotFoundError("Avaliação não encontrada.")
	}
	r.Rating = value
	r.UpdatedAt = time.Now()
	m.db.ratings[id] = r
	return r, nil
}

func (m memRatings) Delete(_ context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.ratings[id]; !ok {
		return apperror.NewNotFoundError("Avaliação não encontrada.")
	}
	delete(m.db.ratings, id)
	return nil
}

func contains(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
