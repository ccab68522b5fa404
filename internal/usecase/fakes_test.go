package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/yourusername/warehouse-client/internal/domain/entity"
	"github.com/yourusername/warehouse-client/internal/domain/repository"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func product(id, name string, qty int) entity.Product {
	return entity.Product{ID: entity.ID(id), Name: name, Quantity: qty, Price: decimal.NewFromInt(1)}
}

// fakeProducts answers from fields the test sets. A non-nil gate makes
// ListProducts block until the test sends on it.
type fakeProducts struct {
	mu        sync.Mutex
	list      []entity.Product
	listErr   error
	gate      chan []entity.Product
	created   *entity.Product
	createErr error
	updated   *entity.Product
	deleteErr error
	calls     int
}

func (f *fakeProducts) ListProducts(ctx context.Context) ([]entity.Product, error) {
	f.mu.Lock()
	f.calls++
	gate, list, err := f.gate, f.list, f.listErr
	f.mu.Unlock()
	if gate != nil {
		select {
		case list = <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return list, err
}

func (f *fakeProducts) CreateProduct(_ context.Context, _ entity.ProductFields) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.created, f.createErr
}

func (f *fakeProducts) UpdateProduct(_ context.Context, _ entity.ID, _ entity.ProductFields) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.updated, nil
}

func (f *fakeProducts) DeleteProduct(_ context.Context, _ entity.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.deleteErr
}

func (f *fakeProducts) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeAdmins struct {
	list     []entity.Admin
	listErr  error
	login    repository.LoginResult
	loginErr error
	gate     chan struct{}
}

func (f *fakeAdmins) ListAdmins(context.Context) ([]entity.Admin, error) {
	return f.list, f.listErr
}

func (f *fakeAdmins) RegisterAdmin(_ context.Context, fields entity.AdminFields) (*entity.Admin, error) {
	return &entity.Admin{ID: "a-new", Email: fields.Email, Name: fields.Name}, nil
}

func (f *fakeAdmins) DeleteAdmin(context.Context, entity.ID) error { return nil }

func (f *fakeAdmins) Login(ctx context.Context, _ entity.Credentials) (repository.LoginResult, error) {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return repository.LoginResult{}, ctx.Err()
		}
	}
	return f.login, f.loginErr
}

// memState is a map-backed StateRepository.
type memState struct {
	mu     sync.Mutex
	values map[string]string
	setErr error
}

func newMemState() *memState { return &memState{values: map[string]string{}} }

func (m *memState) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", repository.ErrStateNotFound
	}
	return v, nil
}

func (m *memState) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *memState) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *memState) Close() error { return nil }

var errUnreachable = errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")
