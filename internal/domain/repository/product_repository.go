package repository

import (
	"context"

	"github.com/yourusername/warehouse-client/internal/domain/entity"
)

// ProductGateway is the backend's product endpoints
type ProductGateway interface {
	// ListProducts GET /Products
	ListProducts(ctx context.Context) ([]entity.Product, error)

	// CreateProduct POST /Products; the created record is nil when the
	// backend echoes nothing usable
	CreateProduct(ctx context.Context, fields entity.ProductFields) (*entity.Product, error)

	// UpdateProduct PUT /Products?id=
	UpdateProduct(ctx context.Context, id entity.ID, fields entity.ProductFields) (*entity.Product, error)

	// DeleteProduct DELETE /Products?id=
	DeleteProduct(ctx context.Context, id entity.ID) error
}
