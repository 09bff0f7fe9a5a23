// Command ecotrack aggregates per-device energy consumption records into
// summaries, period comparisons and environmental impact reports.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/ecotrack/internal/cli"
	"github.com/rshade/ecotrack/pkg/version"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the root command with args and returns the process exit code.
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
