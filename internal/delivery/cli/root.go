package cli

import (
	"github.com/spf13/cobra"

	"github.com/yourusername/warehouse-client/internal/domain/entity"
)

// NewRootCommand builds the warehouse command tree.
func NewRootCommand(h *Handler) *cobra.Command {
	root := &cobra.Command{
		Use:           "warehouse",
		Short:         "Warehouse management client",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(h.out)

	root.AddCommand(
		h.loginCommand(),
		h.logoutCommand(),
		h.whoamiCommand(),
		h.themeCommand(),
		h.productsCommand(),
		h.adminsCommand(),
		h.dashboardCommand(),
	)
	return root
}

func (h *Handler) loginCommand() *cobra.Command {
	var creds entity.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as an administrator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := h.session.Login(cmd.Context(), creds)
			if err != nil {
				return failure(err, h.session.ClearError)
			}
			h.printf("Logged in as %s\n", sess.PrincipalLabel)
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Email, "email", "", "administrator email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "administrator password")
	return cmd
}

func (h *Handler) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h.session.Logout(cmd.Context())
			h.printf("Logged out\n")
			return nil
		},
	}
}

func (h *Handler) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in administrator",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			sess := h.session.Snapshot().Data
			if !sess.Authenticated() {
				h.printf("Not logged in (theme: %s)\n", h.session.Theme())
				return nil
			}
			h.printf("%s (theme: %s)\n", sess.PrincipalLabel, h.session.Theme())
			return nil
		},
	}
}

func (h *Handler) themeCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the display theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(entity.ThemeLight), string(entity.ThemeDark), "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				h.printf("%s\n", h.session.Theme())
				return nil
			}
			next := h.session.Theme().Toggle()
			if args[0] != "toggle" {
				t, err := entity.ParseTheme(args[0])
				if err != nil {
					return err
				}
				next = t
			}
			if err := h.session.SetTheme(cmd.Context(), next); err != nil {
				return err
			}
			h.printf("%s\n", next)
			return nil
		},
	}
}
