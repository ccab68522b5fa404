package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/yourusername/warehouse-client/internal/domain/apierr"
	"github.com/yourusername/warehouse-client/internal/domain/entity"
	"github.com/yourusername/warehouse-client/internal/usecase"
)

func errMessage(err error) string {
	return apierr.Message(err)
}

func (h *Handler) table() *tabwriter.Writer {
	return tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
}

func (h *Handler) pageFooter(shown, total, index, count int) {
	if total == 0 {
		h.printf("No results\n")
		return
	}
	h.printf("%d of %d, page %d/%d\n", shown, total, index+1, max(count, 1))
}

// renderProducts marks low-stock rows with "!".
func (h *Handler) renderProducts(page usecase.Page[entity.Product]) {
	tw := h.table()
	fmt.Fprintln(tw, "\tID\tNAME\tPRICE\tQTY\tCOMPANY\tDELIVERY PARTNER")
	for _, p := range page.Items {
		mark := ""
		if h.dashboard != nil && h.dashboard.IsLowStock(p) {
			mark = "!"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			mark, p.ID, p.Name, p.Price.StringFixed(2), p.Quantity, p.Company, p.DeliveryPartner)
	}
	tw.Flush()
	h.pageFooter(len(page.Items), page.Total, page.PageIndex, page.PageCount)
}

func (h *Handler) renderAdmins(page usecase.Page[entity.Admin]) {
	tw := h.table()
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME")
	for _, a := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", a.ID, a.Email, a.Name)
	}
	tw.Flush()
	h.pageFooter(len(page.Items), page.Total, page.PageIndex, page.PageCount)
}

func (h *Handler) renderDashboard(s usecase.Stats) {
	tw := h.table()
	fmt.Fprintf(tw, "Total products\t%d\n", s.TotalProducts)
	fmt.Fprintf(tw, "Active admins\t%d\n", s.ActiveAdmins)
	fmt.Fprintf(tw, "Low stock\t%d\n", s.LowStock)
	tw.Flush()
}
