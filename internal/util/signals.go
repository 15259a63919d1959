package util

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aryankumar/forkjoin/internal/lifecycle"
)

// SetupSignalHandler marks sig dead on receiving SIGINT or SIGTERM and returns a
// context that is cancelled at the same moment.
// A second signal will force immediate exit.
func SetupSignalHandler(sig *lifecycle.Signal) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	// Cancel through the lifecycle listener so MarkDead from any caller also cancels
	sig.AddListener(lifecycle.OnDead(cancel))

	// Create channel to receive OS signals
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go handleSignals(sigCh, sig, os.Exit)

	return ctx
}

// handleSignals marks sig dead on the first received signal and calls exit on the second
func handleSignals(sigCh <-chan os.Signal, sig *lifecycle.Signal, exit func(int)) {
	received := <-sigCh
	slog.Info("received shutdown signal", "signal", received.String())
	sig.MarkDead()

	// Second signal forces immediate exit
	received = <-sigCh
	slog.Warn("received second shutdown signal, forcing exit", "signal", received.String())
	exit(1)
}
