package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yourusername/warehouse-client/internal/domain/entity"
	"github.com/yourusername/warehouse-client/internal/usecase"
)

// viewFlags is the ViewState a list command was asked for.
type viewFlags struct {
	query string
	sort  string
	desc  bool
	page  int
	size  int
}

func (v *viewFlags) register(fs *pflag.FlagSet, defaultSort string, keys []string) {
	fs.StringVarP(&v.query, "query", "q", "", "case-insensitive search")
	fs.StringVar(&v.sort, "sort", defaultSort, "sort key: "+strings.Join(keys, ", "))
	fs.BoolVar(&v.desc, "desc", false, "sort descending")
	fs.IntVar(&v.page, "page", 1, "page number, starting at 1")
	fs.IntVar(&v.size, "size", 0, "rows per page (default from PAGE_SIZE)")
}

func (v *viewFlags) state(defaultSize int) entity.ViewState {
	s := entity.ViewState{
		Query:     v.query,
		SortKey:   v.sort,
		PageIndex: v.page - 1,
		PageSize:  v.size,
	}
	if s.PageSize <= 0 {
		s.PageSize = defaultSize
	}
	if v.desc {
		s.SortDirection = entity.Descending
	}
	return s.Normalized()
}

func (h *Handler) productsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "products",
		Short:             "Manage warehouse products",
		PersistentPreRunE: h.requireAuth,
	}
	cmd.AddCommand(
		h.productsListCommand(),
		h.productsAddCommand(),
		h.productsUpdateCommand(),
		h.productsDeleteCommand(),
		h.productsImportCommand(),
		h.productsExportCommand(),
		h.productsWatchCommand(),
	)
	return cmd
}

func (h *Handler) productsListCommand() *cobra.Command {
	var view viewFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := h.products.Fetch(cmd.Context()); err != nil {
				return failure(err, h.products.ClearError)
			}
			h.renderProducts(h.productView.Project(h.products.Snapshot().Data, view.state(h.pageSize)))
			return nil
		},
	}
	view.register(cmd.Flags(), "name", h.productView.SortKeys())
	return cmd
}

// productFlags binds the editable product fields. Only flags the user set
// end up in the payload.
type productFlags struct {
	name, description, price, company, partner string
	quantity                                   int
}

func (p *productFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&p.name, "name", "", "product name")
	fs.StringVar(&p.description, "description", "", "description")
	fs.StringVar(&p.price, "price", "", "unit price")
	fs.IntVar(&p.quantity, "quantity", 0, "units in stock")
	fs.StringVar(&p.company, "company", "", "company")
	fs.StringVar(&p.partner, "delivery-partner", "", "delivery partner")
}

func (p *productFlags) fields(fs *pflag.FlagSet) (entity.ProductFields, error) {
	var f entity.ProductFields
	if fs.Changed("name") {
		f.Name = entity.Ptr(p.name)
	}
	if fs.Changed("description") {
		f.Description = entity.Ptr(p.description)
	}
	if fs.Changed("price") {
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			return f, fmt.Errorf("invalid --price %q", p.price)
		}
		f.Price = &price
	}
	if fs.Changed("quantity") {
		f.Quantity = entity.Ptr(p.quantity)
	}
	if fs.Changed("company") {
		f.Company = entity.Ptr(p.company)
	}
	if fs.Changed("delivery-partner") {
		f.DeliveryPartner = entity.Ptr(p.partner)
	}
	return f, nil
}

func (h *Handler) productsAddCommand() *cobra.Command {
	var flags productFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fields, err := flags.fields(cmd.Flags())
			if err != nil {
				return err
			}
			p, err := h.products.Create(cmd.Context(), fields)
			if err != nil {
				return failure(err, h.products.ClearError)
			}
			if p == nil {
				h.printf("Product created\n")
				return nil
			}
			h.printf("Product %s created\n", p.ID)
			return nil
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func (h *Handler) productsUpdateCommand() *cobra.Command {
	var flags productFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change some fields of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := flags.fields(cmd.Flags())
			if err != nil {
				return err
			}
			if _, err := h.products.Update(cmd.Context(), entity.ID(args[0]), fields); err != nil {
				return failure(err, h.products.ClearError)
			}
			h.printf("Product %s updated\n", args[0])
			return nil
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func (h *Handler) productsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := h.products.Delete(cmd.Context(), entity.ID(args[0])); err != nil {
				return failure(err, h.products.ClearError)
			}
			h.printf("Product %s deleted\n", args[0])
			return nil
		},
	}
}

func (h *Handler) productsImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Create products from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := h.sheet.Parse(cmd.Context(), f)
			if err != nil {
				return err
			}
			results := h.products.Import(cmd.Context(), rows)
			h.products.ClearError()

			created := 0
			for _, r := range results {
				if r.Err != nil {
					h.printf("row %d: %s\n", r.Row, errMessage(r.Err))
					continue
				}
				created++
			}
			h.printf("Imported %d of %d rows\n", created, len(results))
			return nil
		},
	}
}

func (h *Handler) productsExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Write all products to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := h.products.Fetch(cmd.Context()); err != nil {
				return failure(err, h.products.ClearError)
			}
			products := h.products.Snapshot().Data

			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := h.sheet.Export(cmd.Context(), f, products); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			h.printf("Exported %d products to %s\n", len(products), args[0])
			return nil
		},
	}
}

func (h *Handler) productsWatchCommand() *cobra.Command {
	var view viewFlags
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll products and redraw on every change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return h.watchProducts(cmd.Context(), view.state(h.pageSize))
		},
	}
	view.register(cmd.Flags(), "name", h.productView.SortKeys())
	return cmd
}

// watchProducts redraws until ctx ends. Failures are shown once each.
func (h *Handler) watchProducts(ctx context.Context, view entity.ViewState) error {
	sub := h.products.Subscribe()
	defer sub.Close()

	poller := usecase.NewPoller(h.pollInterval, h.products.Fetch, h.logger)
	poller.Start(ctx)
	defer poller.Stop()

	var shown uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-sub.C:
			if !ok {
				return nil
			}
			switch snap.Status {
			case entity.StatusFailed:
				h.printf("error: %s\n", snap.Message())
				h.products.ClearError()
			case entity.StatusSucceeded:
				if snap.Revision == shown {
					continue
				}
				shown = snap.Revision
				h.renderProducts(h.productView.Project(snap.Data, view))
			}
		}
	}
}
