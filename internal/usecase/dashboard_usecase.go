package usecase

import (
	"context"
	"fmt"
	"log/slog"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/warehouse-client/internal/domain/entity"
)

// DefaultLowStockRule flags products that need restocking.
const DefaultLowStockRule = "quantity < 10"

// Stats summarises both collections for the dashboard.
type Stats struct {
	TotalProducts int
	ActiveAdmins  int
	LowStock      int
}

// Dashboard reads both stores and classifies stock levels.
type Dashboard struct {
	products *ProductStore
	admins   *AdminStore
	rule     *exprvm.Program
	source   string
	logger   *slog.Logger
}

// NewDashboard compiles rule, an expression over name, quantity, price,
// company and delivery_partner that must yield a bool.
func NewDashboard(products *ProductStore, admins *AdminStore, rule string, logger *slog.Logger) (*Dashboard, error) {
	if rule == "" {
		rule = DefaultLowStockRule
	}
	if logger == nil {
		logger = slog.Default()
	}
	program, err := exprlang.Compile(rule, exprlang.Env(stockEnv(entity.Product{})), exprlang.AsBool())
	if err != nil {
		return nil, fmt.Errorf("dashboard: low stock rule %q: %w", rule, err)
	}
	return &Dashboard{
		products: products,
		admins:   admins,
		rule:     program,
		source:   rule,
		logger:   logger.With("component", "dashboard"),
	}, nil
}

func stockEnv(p entity.Product) map[string]any {
	price, _ := p.Price.Float64()
	return map[string]any{
		"name":             p.Name,
		"quantity":         p.Quantity,
		"price":            price,
		"company":          p.Company,
		"delivery_partner": p.DeliveryPartner,
	}
}

// Load refreshes both stores concurrently. Each store settles on its own;
// the first failure is returned.
func (d *Dashboard) Load(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return d.products.Fetch(ctx) })
	g.Go(func() error { return d.admins.Fetch(ctx) })
	return g.Wait()
}

// IsLowStock evaluates the rule for p. A rule that fails at run time counts
// as false.
func (d *Dashboard) IsLowStock(p entity.Product) bool {
	out, err := exprlang.Run(d.rule, stockEnv(p))
	if err != nil {
		d.logger.Warn("low_stock_rule_failed", "rule", d.source, "product", p.ID, "error", err)
		return false
	}
	low, _ := out.(bool)
	return low
}

// Stats counts the cached collections.
func (d *Dashboard) Stats() Stats {
	products := d.products.Snapshot().Data
	s := Stats{
		TotalProducts: len(products),
		ActiveAdmins:  len(d.admins.Snapshot().Data),
	}
	for _, p := range products {
		if d.IsLowStock(p) {
			s.LowStock++
		}
	}
	return s
}
