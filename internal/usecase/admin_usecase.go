package usecase

import (
	"context"
	"log/slog"

	"github.com/yourusername/warehouse-client/internal/domain/entity"
	"github.com/yourusername/warehouse-client/internal/domain/repository"
)

// AdminStore caches the backend's administrators
type AdminStore struct {
	*CollectionStore[entity.Admin]
	gateway repository.AdminGateway
}

// NewAdminStore builds the administrators store over gateway.
func NewAdminStore(gateway repository.AdminGateway, logger *slog.Logger) *AdminStore {
	return &AdminStore{
		CollectionStore: newCollectionStore("admins", entity.AdminID, logger),
		gateway:         gateway,
	}
}

// Fetch replaces the cache with the backend's list.
func (s *AdminStore) Fetch(ctx context.Context) error {
	return s.fetch(ctx, s.gateway.ListAdmins)
}

// Create registers an administrator. The password is sent and forgotten.
func (s *AdminStore) Create(ctx context.Context, fields entity.AdminFields) (*entity.Admin, error) {
	return s.create(ctx, fields.Validate(), func(ctx context.Context) (*entity.Admin, error) {
		return s.gateway.RegisterAdmin(ctx, fields)
	})
}

// Delete removes an administrator.
func (s *AdminStore) Delete(ctx context.Context, id entity.ID) error {
	return s.remove(ctx, id, s.gateway.DeleteAdmin)
}
