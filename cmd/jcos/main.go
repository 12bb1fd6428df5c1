// jcos boots the cooperative kernel against a real terminal: raw-mode stdin
// plays the keyboard interrupt line, stdout plays the text console.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jorgeandrecastro/jcos/internal/auth"
	"github.com/jorgeandrecastro/jcos/internal/clock"
	"github.com/jorgeandrecastro/jcos/internal/config"
	"github.com/jorgeandrecastro/jcos/internal/console"
	"github.com/jorgeandrecastro/jcos/internal/events"
	"github.com/jorgeandrecastro/jcos/internal/keyboard"
	"github.com/jorgeandrecastro/jcos/internal/shell"
	"github.com/jorgeandrecastro/jcos/internal/task"
	"github.com/jorgeandrecastro/jcos/internal/vfs"
	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

//nolint:gochecknoglobals
var (
	ExitCode = 0

	envFile = flag.String("env", ".env", "dotenv configuration file")
)

func setupLogging() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelWarn,
			TimeFormat: time.Kitchen,
		}),
	))
}

func setupSignalHandlers(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		cancel()
	}()
}

// readInput is the simulated interrupt side: every byte read from the raw
// terminal is handed to the keyboard controller, which decodes it, pushes any
// key press onto the bridge and wakes the executor.
func readInput(ctx context.Context, cancel context.CancelFunc, ctrl *keyboard.Controller) {
	buf := make([]byte, 64)

	for {
		if ctx.Err() != nil {
			return
		}

		n, err := os.Stdin.Read(buf)
		if err != nil {
			slog.Warn("Input source closed.", "err", err)
			cancel()

			return
		}

		for _, b := range buf[:n] {
			if b == 0x03 { // Ctrl-C in raw mode
				cancel()

				return
			}
			ctrl.HandleByte(b)
		}
		ctrl.Flush()
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupSignalHandlers(cancel)

	cfg := config.NewHandler(&config.GodotenvProvider{}).Load(*envFile)

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("(main) raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(int(os.Stdin.Fd()), oldState)
	}()

	con := console.New(os.Stdout)
	bridge := events.NewBridge(cfg.QueueCap)
	executor := task.NewExecutor(cfg.ParkInterval)
	authMgr := auth.NewManager(cfg.AdminUser, cfg.AdminPass)
	filesystem := vfs.New(0)
	controller := keyboard.NewController(keyboard.NewTermDecoder(), bridge, executor)

	con.Clear()
	con.Banner(fmt.Sprintf("JC-OS - COOPERATIVE KERNEL v0.4 - GO EDITION\nhost: %s", cfg.Hostname))

	executor.Spawn(shell.New(bridge, filesystem, authMgr, con, executor, cfg.Hostname))
	if cfg.ClockEnabled {
		executor.Spawn(clock.New(con, nil))
	}

	go readInput(ctx, cancel, controller)

	if err := executor.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("(main) %w", err)
	}

	return nil
}

func main() {
	defer func() {
		os.Exit(ExitCode)
	}()

	flag.Parse()
	setupLogging()

	if err := run(); err != nil {
		slog.Error("Kernel failure.", "err", err)
		ExitCode = 1
	}
}
