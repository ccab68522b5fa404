package entity

import (
	"strings"

	"github.com/yourusername/warehouse-client/internal/domain/apierr"
)

// Admin is a backend administrator account
type Admin struct {
	ID    ID     `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// AdminID returns a's key.
func AdminID(a Admin) ID { return a.ID }

// AdminFields registers a new administrator. Password is write-only and is
// never kept by any store.
type AdminFields struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password"`
}

// Validate requires email and password.
func (f AdminFields) Validate() *apierr.Error {
	var errs []apierr.FieldError
	if strings.TrimSpace(f.Email) == "" {
		errs = append(errs, apierr.FieldError{Field: "email", Message: "email is required"})
	}
	if f.Password == "" {
		errs = append(errs, apierr.FieldError{Field: "password", Message: "password is required"})
	}
	if len(errs) > 0 {
		return apierr.Invalid(errs...)
	}
	return nil
}

// Credentials are submitted to the login endpoint.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate requires both fields.
func (c Credentials) Validate() *apierr.Error {
	return AdminFields{Email: c.Email, Password: c.Password}.Validate()
}
