package usecase

import (
	"context"
	"log/slog"

	"github.com/yourusername/warehouse-client/internal/domain/entity"
	"github.com/yourusername/warehouse-client/internal/domain/repository"
)

// ProductStore caches the backend's products
type ProductStore struct {
	*CollectionStore[entity.Product]
	gateway repository.ProductGateway
}

// NewProductStore builds the products store over gateway.
func NewProductStore(gateway repository.ProductGateway, logger *slog.Logger) *ProductStore {
	return &ProductStore{
		CollectionStore: newCollectionStore("products", entity.ProductID, logger),
		gateway:         gateway,
	}
}

// Fetch replaces the cache with the backend's list, in backend order.
func (s *ProductStore) Fetch(ctx context.Context) error {
	return s.fetch(ctx, s.gateway.ListProducts)
}

// Create adds a product. The echoed record, when present, is appended.
func (s *ProductStore) Create(ctx context.Context, fields entity.ProductFields) (*entity.Product, error) {
	return s.create(ctx, fields.ValidateCreate(), func(ctx context.Context) (*entity.Product, error) {
		return s.gateway.CreateProduct(ctx, fields)
	})
}

// Update changes one product. The cache is patched only from the echoed
// record; otherwise callers re-fetch.
func (s *ProductStore) Update(ctx context.Context, id entity.ID, fields entity.ProductFields) (*entity.Product, error) {
	return s.update(ctx, id, fields.ValidateUpdate(), func(ctx context.Context) (*entity.Product, error) {
		return s.gateway.UpdateProduct(ctx, id, fields)
	})
}

// Delete removes a product. A missing id is a no-op on the cache.
func (s *ProductStore) Delete(ctx context.Context, id entity.ID) error {
	return s.remove(ctx, id, s.gateway.DeleteProduct)
}

// ImportResult is the outcome of one imported row.
type ImportResult struct {
	Row     int
	Product *entity.Product
	Err     error
}

// Import creates each row in order and reports every outcome. A failed row
// does not stop the rest.
func (s *ProductStore) Import(ctx context.Context, rows []repository.ProductRow) []ImportResult {
	results := make([]ImportResult, 0, len(rows))
	for _, row := range rows {
		if ctx.Err() != nil {
			results = append(results, ImportResult{Row: row.Row, Err: ErrCanceled})
			continue
		}
		p, err := s.Create(ctx, row.Fields)
		results = append(results, ImportResult{Row: row.Row, Product: p, Err: err})
	}
	return results
}
