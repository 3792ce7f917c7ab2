// File: internal/repository/fake.go
package repository

import (
	"context"

	"account-service/internal/model"
)

// FakeStore 提供測試用的 UserStore 實作，未設定的方法一呼叫就 panic
type FakeStore struct {
	CreateFn       func(ctx context.Context, name, email, password string) (model.User, error)
	GetByIDFn      func(ctx context.Context, id int) (model.User, error)
	GetByEmailFn   func(ctx context.Context, email string) (model.User, error)
	UpdateFn       func(ctx context.Context, id int, params UpdateUserParams) (model.User, error)
	DeleteFn       func(ctx context.Context, id int) error
	ListFn         func(ctx context.Context, limit, offset int) ([]model.User, error)
	SearchByNameFn func(ctx context.Context, name string, limit, offset int) ([]model.User, error)
	AuthenticateFn func(ctx context.Context, email, password string) (model.User, error)
}

func (f *FakeStore) Create(ctx context.Context, name, email, password string) (model.User, error) {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, name, email, password)
	}
	panic("unexpected Create")
}

func (f *FakeStore) GetByID(ctx context.Context, id int) (model.User, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id)
	}
	panic("unexpected GetByID")
}

func (f *FakeStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	if f.GetByEmailFn != nil {
		return f.GetByEmailFn(ctx, email)
	}
	panic("unexpected GetByEmail")
}

func (f *FakeStore) Update(ctx context.Context, id int, params UpdateUserParams) (model.User, error) {
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, id, params)
	}
	panic("unexpected Update")
}

func (f *FakeStore) Delete(ctx context.Context, id int) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	panic("unexpected Delete")
}

func (f *FakeStore) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	if f.ListFn != nil {
		return f.ListFn(ctx, limit, offset)
	}
	panic("unexpected List")
}

func (f *FakeStore) SearchByName(ctx context.Context, name string, limit, offset int) ([]model.User, error) {
	if f.SearchByNameFn != nil {
		return f.SearchByNameFn(ctx, name, limit, offset)
	}
	panic("unexpected SearchByName")
}

func (f *FakeStore) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	if f.AuthenticateFn != nil {
		return f.AuthenticateFn(ctx, email, password)
	}
	panic("unexpected Authenticate")
}
