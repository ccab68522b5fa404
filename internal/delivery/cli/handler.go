package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/warehouse-client/internal/domain/apierr"
	"github.com/yourusername/warehouse-client/internal/domain/entity"
	"github.com/yourusername/warehouse-client/internal/domain/repository"
	"github.com/yourusername/warehouse-client/internal/usecase"
)

// ErrNotLoggedIn is returned by protected commands without a session.
var ErrNotLoggedIn = errors.New("not logged in; run `warehouse login` first")

// Deps are the components the shell drives.
type Deps struct {
	Session      *usecase.SessionStore
	Products     *usecase.ProductStore
	Admins       *usecase.AdminStore
	Dashboard    *usecase.Dashboard
	Sheet        repository.ProductSheet
	PageSize     int
	PollInterval time.Duration
	Logger       *slog.Logger
}

// Handler renders store snapshots and turns commands into store operations.
type Handler struct {
	session      *usecase.SessionStore
	products     *usecase.ProductStore
	admins       *usecase.AdminStore
	dashboard    *usecase.Dashboard
	sheet        repository.ProductSheet
	productView  *usecase.Projector[entity.Product]
	adminView    *usecase.Projector[entity.Admin]
	pageSize     int
	pollInterval time.Duration
	logger       *slog.Logger
	out          io.Writer
}

// NewHandler wires the shell to its stores.
func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		session:      d.Session,
		products:     d.Products,
		admins:       d.Admins,
		dashboard:    d.Dashboard,
		sheet:        d.Sheet,
		productView:  usecase.NewProductProjector(),
		adminView:    usecase.NewAdminProjector(),
		pageSize:     d.PageSize,
		pollInterval: d.PollInterval,
		logger:       logger.With("component", "cli"),
		out:          os.Stdout,
	}
}

// SetOutput redirects rendered tables.
func (h *Handler) SetOutput(w io.Writer) {
	h.out = w
}

// requireAuth guards commands that need a credential.
func (h *Handler) requireAuth(*cobra.Command, []string) error {
	if !h.session.Authenticated() {
		return ErrNotLoggedIn
	}
	return nil
}

// failure turns a store error into the message shown to the user and then
// acknowledges it, so the next render does not show it again.
func failure(err error, clear func()) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, usecase.ErrCanceled) || errors.Is(err, usecase.ErrSuperseded) {
		return nil
	}
	clear()
	return errors.New(apierr.Message(err))
}

func (h *Handler) printf(format string, args ...any) {
	fmt.Fprintf(h.out, format, args...)
}
