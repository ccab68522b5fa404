package repository

import (
	"context"

	"github.com/yourusername/warehouse-client/internal/domain/entity"
)

// LoginResult is what the login endpoint returns about the principal.
type LoginResult struct {
	Admin *entity.Admin
	// Token is empty when the backend issues none
	Token string
}

// Authenticator exchanges credentials for a principal
type Authenticator interface {
	// Login POST /admins/login
	Login(ctx context.Context, creds entity.Credentials) (LoginResult, error)
}

// AdminGateway is the backend's administrator endpoints
type AdminGateway interface {
	Authenticator

	// ListAdmins GET /admins
	ListAdmins(ctx context.Context) ([]entity.Admin, error)

	// RegisterAdmin POST /admins/register
	RegisterAdmin(ctx context.Context, fields entity.AdminFields) (*entity.Admin, error)

	// DeleteAdmin DELETE /admins/{id}
	DeleteAdmin(ctx context.Context, id entity.ID) error
}
