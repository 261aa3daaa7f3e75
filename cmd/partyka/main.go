package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Anton2181/partykajson/internal/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var res *resources
	rootCmd := cli.NewRootCmd(func(opts cli.Options) (*cli.App, error) {
		app, r, err := wire(opts)
		res = r
		return app, err
	})

	err := rootCmd.ExecuteContext(ctx)
	if res != nil {
		if closeErr := res.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}
	return err
}
