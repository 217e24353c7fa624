package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tacticshub/cmd/cli/commands"
	"tacticshub/pkg/utils"
)

func main() {
	cfg, err := utils.LoadClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.New(cfg).Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
