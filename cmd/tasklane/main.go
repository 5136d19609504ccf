package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/tasklane/adapter/cli"
	"github.com/felixgeelhaar/tasklane/adapter/cli/mcp"
	"github.com/felixgeelhaar/tasklane/adapter/cli/task"
	"github.com/felixgeelhaar/tasklane/adapter/cli/user"
	"github.com/felixgeelhaar/tasklane/internal/app"
	"github.com/felixgeelhaar/tasklane/pkg/config"
	"github.com/felixgeelhaar/tasklane/pkg/observability"
)

func main() {
	// Cancelled on SIGINT/SIGTERM; serve drains and the container closes the store
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger := observability.NewLogger(observability.DefaultLogConfig())
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogConfig(cli.Version))
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}

	cli.SetApp(cli.NewApp(container))

	cli.AddCommand(user.Cmd)
	cli.AddCommand(task.Cmd)
	cli.AddCommand(mcp.Cmd)

	err = cli.Execute(ctx)
	container.Close()
	if err != nil {
		os.Exit(1)
	}
}
