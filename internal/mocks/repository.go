// Package mocks reúne implementações testify/mock dos contratos de repositório.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"storerating/internal/domain"
)

// UserRepository é um mock de domain.UserRepository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *UserRepository) FindAll(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *UserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *UserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// StoreRepository é um mock de domain.StoreRepository.
type StoreRepository struct {
	mock.Mock
}

func (m *StoreRepository) Save(ctx context.Context, store domain.Store) (domain.Store, error) {
	args := m.Called(ctx, store)
	return args.Get(0).(domain.Store), args.Error(1)
}

func (m *StoreRepository) FindByID(ctx context.Context, id string) (domain.Store, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Store), args.Error(1)
}

func (m *StoreRepository) FindSummaryByID(ctx context.Context, id string) (domain.StoreSummary, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.StoreSummary), args.Error(1)
}

func (m *StoreRepository) FindAll(ctx context.Context, filter domain.StoreFilter) ([]domain.StoreSummary, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.StoreSummary), args.Error(1)
}

func (m *StoreRepository) Update(ctx context.Context, id string, update domain.StoreUpdate) (domain.Store, error) {
	args := m.Called(ctx, id, update)
	return args.Get(0).(domain.Store), args.Error(1)
}

func (m *StoreRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// RatingRepository é um mock de domain.RatingRepository.
type RatingRepository struct {
	mock.Mock
}

func (m *RatingRepository) Save(ctx context.Context, rating domain.Rating) (domain.Rating, error) {
	args := m.Called(ctx, rating)
	return args.Get(0).(domain.Rating), args.Error(1)
}

func (m *RatingRepository) FindByID(ctx context.Context, id string) (domain.RatingView, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.RatingView), args.Error(1)
}

func (m *RatingRepository) FindByUserAndStore(ctx context.Context, userID, storeID string) (domain.Rating, error) {
	args := m.Called(ctx, userID, storeID)
	return args.Get(0).(domain.Rating), args.Error(1)
}

func (m *RatingRepository) FindAll(ctx context.Context, filter domain.RatingFilter) ([]domain.RatingView, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.RatingView), args.Error(1)
}

func (m *RatingRepository) FindByStore(ctx context.Context, storeID string, filter domain.RatingFilter) ([]domain.RatingView, error) {
	args := m.Called(ctx, storeID, filter)
	return args.Get(0).([]domain.RatingView), args.Error(1)
}

func (m *RatingRepository) Update(ctx context.Context, id string, value int) (domain.Rating, error) {
	args := m.Called(ctx, id, value)
	return args.Get(0).(domain.Rating), args.Error(1)
}

func (m *RatingRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var (
	_ domain.UserRepository   = (*UserRepository)(nil)
	_ domain.StoreRepository  = (*StoreRepository)(nil)
	_ domain.RatingRepository = (*RatingRepository)(nil)
)
