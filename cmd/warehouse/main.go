package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yourusername/warehouse-client/config"
	"github.com/yourusername/warehouse-client/internal/delivery/cli"
	"github.com/yourusername/warehouse-client/internal/infrastructure/backend"
	"github.com/yourusername/warehouse-client/internal/infrastructure/logging"
	"github.com/yourusername/warehouse-client/internal/infrastructure/parser"
	"github.com/yourusername/warehouse-client/internal/infrastructure/storage"
	"github.com/yourusername/warehouse-client/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return err
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state, err := storage.NewStateRepository(ctx, cfg)
	if err != nil {
		logger.Error("state_open_failed", "driver", cfg.StateDriver, "error", err)
		return err
	}
	defer state.Close()

	// the client reads the token per call; session is assigned below
	var session *usecase.SessionStore
	client := backend.NewClient(cfg.APIBaseURL,
		backend.TokenFunc(func() string { return session.Token() }),
		backend.WithLogger(logger),
	)

	session, err = usecase.NewSessionStore(ctx, client, state, logger)
	if err != nil {
		logger.Error("session_restore_failed", "error", err)
		return err
	}
	products := usecase.NewProductStore(client, logger)
	admins := usecase.NewAdminStore(client, logger)
	defer session.Close()
	defer products.Close()
	defer admins.Close()

	dashboard, err := usecase.NewDashboard(products, admins, cfg.LowStockRule, logger)
	if err != nil {
		logger.Error("dashboard_rule_invalid", "error", err)
		return err
	}

	handler := cli.NewHandler(cli.Deps{
		Session:      session,
		Products:     products,
		Admins:       admins,
		Dashboard:    dashboard,
		Sheet:        parser.NewExcelParser(logger),
		PageSize:     cfg.PageSize,
		PollInterval: cfg.PollInterval,
		Logger:       logger,
	})
	return cli.NewRootCommand(handler).ExecuteContext(ctx)
}
