package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"querydesk.app/engine/common/id"
	"querydesk.app/engine/common/logger"
	"querydesk.app/engine/core/config"
	"querydesk.app/engine/internal/cli"
)

func main() {
	cfg, err := config.Load(config.ServiceTypeCLI)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger.Setup(cfg)

	if err := id.Init(cfg.NodeID); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize id generator:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(cfg).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
