package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aryankumar/forkjoin/internal/cli"
	"github.com/aryankumar/forkjoin/internal/lifecycle"
	"github.com/aryankumar/forkjoin/internal/util"
)

func main() {
	sig := lifecycle.New()

	// Setup signal handling for graceful shutdown
	ctx := util.SetupSignalHandler(sig)

	// Execute the CLI
	if err := cli.Execute(ctx, sig); err != nil {
		slog.Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, util.FriendlyError(err))
		os.Exit(1)
	}
}
