package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/warehouse-client/internal/domain/apierr"
	"github.com/yourusername/warehouse-client/internal/domain/entity"
)

type recorded struct {
	method string
	uri    string
	header http.Header
	body   map[string]any
}

func newServer(t *testing.T, status int, reply string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.uri = r.URL.RequestURI()
		rec.header = r.Header.Clone()
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			assert.NoError(t, json.Unmarshal(b, &rec.body))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestListProducts(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `[
		{"id": 1, "name": "Bolt", "price": 2.5, "quantity": 40, "company": "Acme", "delivery_partner": "DHL"},
		{"id": "b-2", "name": "Nut", "price": "1.10", "quantity": 0}
	]`)
	c := NewClient(srv.URL+"/", TokenFunc(func() string { return "tok" }))

	got, err := c.ListProducts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/Products", rec.uri)
	assert.Equal(t, "Bearer tok", rec.header.Get("Authorization"))
	assert.Equal(t, "application/json", rec.header.Get("Content-Type"))
	_, err = uuid.Parse(rec.header.Get("X-Request-Id"))
	assert.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, entity.ID("1"), got[0].ID)
	assert.True(t, decimal.RequireFromString("2.5").Equal(got[0].Price))
	assert.Equal(t, "DHL", got[0].DeliveryPartner)
	assert.Equal(t, entity.ID("b-2"), got[1].ID)
}

func TestNoTokenSendsNoAuthorization(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `[]`)

	_, err := NewClient(srv.URL, TokenFunc(func() string { return "" })).ListAdmins(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rec.header.Get("Authorization"))

	_, err = NewClient(srv.URL, nil).ListAdmins(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rec.header.Get("Authorization"))
}

func TestCreateProductEcho(t *testing.T) {
	price := decimal.RequireFromString("9.99")
	fields := entity.ProductFields{Name: entity.Ptr("Saw"), Price: &price, Quantity: entity.Ptr(2)}

	srv, rec := newServer(t, http.StatusCreated, `{"id": 12, "name": "Saw", "price": 9.99, "quantity": 2}`)
	got, err := NewClient(srv.URL, nil).CreateProduct(context.Background(), fields)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.ID("12"), got.ID)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, map[string]any{"name": "Saw", "price": 9.99, "quantity": float64(2)}, rec.body)

	srv, _ = newServer(t, http.StatusOK, `{"message": "created"}`)
	got, err = NewClient(srv.URL, nil).CreateProduct(context.Background(), fields)
	require.NoError(t, err)
	assert.Nil(t, got)

	srv, _ = newServer(t, http.StatusOK, ``)
	got, err = NewClient(srv.URL, nil).CreateProduct(context.Background(), fields)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateAndDeleteUseIDQuery(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"product": {"id": 7, "name": "Drill", "price": 1, "quantity": 1}}`)
	c := NewClient(srv.URL, nil)

	got, err := c.UpdateProduct(context.Background(), "7", entity.ProductFields{Quantity: entity.Ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/Products?id=7", rec.uri)
	assert.Equal(t, map[string]any{"quantity": float64(1)}, rec.body)
	require.NotNil(t, got)
	assert.Equal(t, "Drill", got.Name)

	require.NoError(t, c.DeleteProduct(context.Background(), "7"))
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/Products?id=7", rec.uri)
}

func TestAdminEndpoints(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"admin": {"id": 3, "email": "a@x.io", "name": "Ann"}}`)
	c := NewClient(srv.URL, nil)

	got, err := c.RegisterAdmin(context.Background(), entity.AdminFields{Email: "a@x.io", Name: "Ann", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "/admins/register", rec.uri)
	assert.Equal(t, "pw", rec.body["password"])
	require.NotNil(t, got)
	assert.Equal(t, entity.ID("3"), got.ID)

	require.NoError(t, c.DeleteAdmin(context.Background(), "3"))
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/admins/3", rec.uri)
}

func TestLogin(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"admin": {"email": "a@x.io", "name": "Ann"}}`)
	res, err := NewClient(srv.URL, nil).Login(context.Background(), entity.Credentials{Email: "a@x.io", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "/admins/login", rec.uri)
	assert.Equal(t, map[string]any{"email": "a@x.io", "password": "pw"}, rec.body)
	assert.Empty(t, res.Token)
	require.NotNil(t, res.Admin)
	assert.Equal(t, "Ann", res.Admin.Name)

	srv, _ = newServer(t, http.StatusOK, `{"admin": {"email": "a@x.io"}, "access_token": "jwt"}`)
	res, err = NewClient(srv.URL, nil).Login(context.Background(), entity.Credentials{Email: "a@x.io", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", res.Token)
}

func TestErrorResponses(t *testing.T) {
	srv, _ := newServer(t, http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","email"],"msg":"bad email"}]}`)
	_, err := NewClient(srv.URL, nil).ListAdmins(context.Background())

	var re *apierr.ResponseError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusUnprocessableEntity, re.StatusCode)

	ae := apierr.Normalize(err)
	assert.Equal(t, apierr.Validation, ae.Kind)
	assert.Equal(t, "bad email", ae.Message)
	assert.Equal(t, "email", ae.Fields[0].Field)
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, nil).ListProducts(context.Background())
	ae, ok := apierr.As(err)
	require.True(t, ok)
	assert.Equal(t, apierr.Transport, ae.Kind)
	assert.NotEmpty(t, ae.Message)
}

func TestCanceledContext(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `[]`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, nil).ListProducts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMalformedBody(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"not": "a list"}`)
	_, err := NewClient(srv.URL, nil).ListProducts(context.Background())
	ae, ok := apierr.As(err)
	require.True(t, ok)
	assert.Equal(t, apierr.Transport, ae.Kind)
}
