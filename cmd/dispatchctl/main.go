// dispatchctl - операторская утилита: миграции, ручной запуск автоназначения,
// выгрузка календаря и перенос справочника из JSON файлов в SQL хранилище.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/shenikar/field_dispatch_system/internal/app"
	"github.com/shenikar/field_dispatch_system/internal/config"
	"github.com/shenikar/field_dispatch_system/pkg/logger"
)

type command struct {
	summary string
	run     func(ctx context.Context, env *environment, args []string) error
}

// environment - общие зависимости подкоманд
type environment struct {
	cfg    *config.Config
	stdout io.Writer
}

var commands = map[string]command{
	"migrate":        {"apply storage migrations and exit", runMigrate},
	"auto-assign":    {"run auto-assignment for a site and day", runAutoAssign},
	"calendario":     {"print calendar events as JSON", runCalendar},
	"seed-directory": {"copy tecnicos.json and sedes.json into the SQL storage", runSeedDirectory},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(stdout)
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		printUsage(stdout)
		return fmt.Errorf("unknown command %q", args[0])
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	err = cmd.run(ctx, &environment{cfg: cfg, stdout: stdout}, args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	return err
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: dispatchctl <command> [flags]")
	fmt.Fprintln(w)
	for _, name := range []string{"migrate", "auto-assign", "calendario", "seed-directory"} {
		fmt.Fprintf(w, "  %-15s %s\n", name, commands[name].summary)
	}
}

// open собирает приложение; логи уходят в stderr, чтобы не смешиваться с JSON выводом
func (e *environment) open(ctx context.Context) (*app.App, error) {
	log := logger.New(e.cfg.LogLevel, e.cfg.LogFormat)
	log.SetOutput(os.Stderr)
	return app.Build(ctx, e.cfg, log)
}
