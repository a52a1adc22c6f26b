package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "%s 已中断\n", yellow("⚠"))
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "%s %v\n", red("❌"), err)
		os.Exit(1)
	}
}
