package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vk/flightdrop/internal/app"
	"github.com/vk/flightdrop/internal/cli"
	"github.com/vk/flightdrop/internal/module"
)

const shutdownTimeout = 10 * time.Second

// main is the entrypoint for the flightdrop host.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The real main function handles errors and exit codes.
	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run boots the host, starts its modules and keeps them running until ctx
// is cancelled.
func run(ctx context.Context, outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// A module factory may panic; turn it into a clean error for the user.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	host := app.NewApp(outW, appConfig, nil)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = errors.Join(err, host.Close(closeCtx))
	}()

	if err := host.OnCreate(ctx); err != nil {
		return err
	}
	descriptor, err := host.Descriptor()
	if err != nil {
		return err
	}
	mods, err := descriptor.Modules()
	if err != nil {
		return err
	}

	stopModules, err := module.StartAll(ctx, mods)
	if err != nil {
		return err
	}
	fmt.Fprintf(outW, "flightdrop: %d modules started, entry point %q\n", len(mods), descriptor.EntryPoint())

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return stopModules(stopCtx)
}
