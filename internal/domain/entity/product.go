package entity

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yourusername/warehouse-client/internal/domain/apierr"
)

// Product mirrors one warehouse product held by the backend
type Product struct {
	ID              ID              `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Quantity        int             `json:"quantity"`
	Company         string          `json:"company,omitempty"`
	DeliveryPartner string          `json:"delivery_partner,omitempty"`
}

// ProductID returns p's key; used as the collection id accessor.
func ProductID(p Product) ID { return p.ID }

// ProductFields is the create/update payload. Nil fields are not sent.
type ProductFields struct {
	Name            *string
	Description     *string
	Price           *decimal.Decimal
	Quantity        *int
	Company         *string
	DeliveryPartner *string
}

type productFieldsWire struct {
	Name            *string      `json:"name,omitempty"`
	Description     *string      `json:"description,omitempty"`
	Price           *json.Number `json:"price,omitempty"`
	Quantity        *int         `json:"quantity,omitempty"`
	Company         *string      `json:"company,omitempty"`
	DeliveryPartner *string      `json:"delivery_partner,omitempty"`
}

// MarshalJSON encodes price as a JSON number rather than decimal's quoted form.
func (f ProductFields) MarshalJSON() ([]byte, error) {
	w := productFieldsWire{
		Name:            f.Name,
		Description:     f.Description,
		Quantity:        f.Quantity,
		Company:         f.Company,
		DeliveryPartner: f.DeliveryPartner,
	}
	if f.Price != nil {
		n := json.Number(f.Price.String())
		w.Price = &n
	}
	return json.Marshal(w)
}

// Empty reports whether no field is set.
func (f ProductFields) Empty() bool {
	return f.Name == nil && f.Description == nil && f.Price == nil &&
		f.Quantity == nil && f.Company == nil && f.DeliveryPartner == nil
}

// ValidateCreate requires name, price and quantity.
func (f ProductFields) ValidateCreate() *apierr.Error {
	var errs []apierr.FieldError
	if f.Name == nil || strings.TrimSpace(*f.Name) == "" {
		errs = append(errs, apierr.FieldError{Field: "name", Message: "name is required"})
	}
	if f.Price == nil {
		errs = append(errs, apierr.FieldError{Field: "price", Message: "price is required"})
	}
	if f.Quantity == nil {
		errs = append(errs, apierr.FieldError{Field: "quantity", Message: "quantity is required"})
	}
	errs = append(errs, f.rangeErrors()...)
	if len(errs) > 0 {
		return apierr.Invalid(errs...)
	}
	return nil
}

// ValidateUpdate checks only the fields that are present.
func (f ProductFields) ValidateUpdate() *apierr.Error {
	if f.Empty() {
		return apierr.Invalid(apierr.FieldError{Message: "nothing to update"})
	}
	var errs []apierr.FieldError
	if f.Name != nil && strings.TrimSpace(*f.Name) == "" {
		errs = append(errs, apierr.FieldError{Field: "name", Message: "name must not be empty"})
	}
	errs = append(errs, f.rangeErrors()...)
	if len(errs) > 0 {
		return apierr.Invalid(errs...)
	}
	return nil
}

func (f ProductFields) rangeErrors() []apierr.FieldError {
	var errs []apierr.FieldError
	if f.Price != nil && f.Price.IsNegative() {
		errs = append(errs, apierr.FieldError{Field: "price", Message: "price must be >= 0"})
	}
	if f.Quantity != nil && *f.Quantity < 0 {
		errs = append(errs, apierr.FieldError{Field: "quantity", Message: "quantity must be >= 0"})
	}
	return errs
}
