// Command simtrace turns broadcast simulation logs into chart data and
// reports the node connectivity of network topologies.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/dd0wney/simtrace/pkg/aggregate"
)

var version = "dev"

const (
	exitError = 1
	exitEmpty = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCommand(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "simtrace: %v\n", err)
		stop()
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, aggregate.ErrEmptyInput) {
		return exitEmpty
	}
	return exitError
}
