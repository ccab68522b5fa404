package cli

import (
	"github.com/spf13/cobra"

	"github.com/yourusername/warehouse-client/internal/domain/entity"
)

func (h *Handler) adminsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "admins",
		Short:             "Manage administrator accounts",
		PersistentPreRunE: h.requireAuth,
	}
	cmd.AddCommand(h.adminsListCommand(), h.adminsAddCommand(), h.adminsDeleteCommand())
	return cmd
}

func (h *Handler) adminsListCommand() *cobra.Command {
	var view viewFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List administrators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := h.admins.Fetch(cmd.Context()); err != nil {
				return failure(err, h.admins.ClearError)
			}
			h.renderAdmins(h.adminView.Project(h.admins.Snapshot().Data, view.state(h.pageSize)))
			return nil
		},
	}
	view.register(cmd.Flags(), "email", h.adminView.SortKeys())
	return cmd
}

func (h *Handler) adminsAddCommand() *cobra.Command {
	var fields entity.AdminFields
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register an administrator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := h.admins.Create(cmd.Context(), fields)
			if err != nil {
				return failure(err, h.admins.ClearError)
			}
			if a == nil {
				h.printf("Administrator %s registered\n", fields.Email)
				return nil
			}
			h.printf("Administrator %s registered (id %s)\n", a.Email, a.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&fields.Email, "email", "", "email")
	cmd.Flags().StringVar(&fields.Name, "name", "", "display name")
	cmd.Flags().StringVar(&fields.Password, "password", "", "initial password")
	return cmd
}

func (h *Handler) adminsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an administrator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := h.admins.Delete(cmd.Context(), entity.ID(args[0])); err != nil {
				return failure(err, h.admins.ClearError)
			}
			h.printf("Administrator %s deleted\n", args[0])
			return nil
		},
	}
}

func (h *Handler) dashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "dashboard",
		Short:             "Show stock and account totals",
		Args:              cobra.NoArgs,
		PersistentPreRunE: h.requireAuth,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := h.dashboard.Load(cmd.Context()); err != nil {
				h.products.ClearError()
				h.admins.ClearError()
				h.printf("warning: %s\n", errMessage(err))
			}
			h.renderDashboard(h.dashboard.Stats())
			return nil
		},
	}
}
