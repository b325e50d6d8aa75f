package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/shenikar/field_dispatch_system/internal/app"
	"github.com/shenikar/field_dispatch_system/internal/models"
	"github.com/shenikar/field_dispatch_system/internal/repository/filestore"
	"github.com/shenikar/field_dispatch_system/internal/service"
	"github.com/shenikar/field_dispatch_system/pkg/logger"
)

func runMigrate(ctx context.Context, env *environment, args []string) error {
	flagSet := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	log := logger.New(env.cfg.LogLevel, env.cfg.LogFormat)
	log.SetOutput(os.Stderr)
	storage, err := app.OpenStorage(ctx, env.cfg, log)
	if err != nil {
		return err
	}
	storage.Close()
	fmt.Fprintf(env.stdout, "storage %q is up to date\n", env.cfg.StorageDriver)
	return nil
}

func runAutoAssign(ctx context.Context, env *environment, args []string) error {
	var siteID, dayFlag string
	flagSet := pflag.NewFlagSet("auto-assign", pflag.ContinueOnError)
	flagSet.StringVar(&siteID, "sede", "", "site ID (required)")
	flagSet.StringVar(&dayFlag, "fecha", "", "day as 2006-01-02 (default: today)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if siteID == "" {
		return fmt.Errorf("--sede is required")
	}
	day, err := parseDayFlag(dayFlag, time.Now())
	if err != nil {
		return err
	}

	a, err := env.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.Service.AutoAssign(ctx, siteID, day)
	if err != nil {
		return err
	}
	return writeJSON(env.stdout, result)
}

func runCalendar(ctx context.Context, env *environment, args []string) error {
	var filter models.CalendarFilter
	var from, to string
	flagSet := pflag.NewFlagSet("calendario", pflag.ContinueOnError)
	flagSet.StringVar(&filter.SiteID, "sede", "", "site ID")
	flagSet.StringVar(&filter.TechnicianID, "tecnico", "", "technician ID")
	flagSet.StringVar(&from, "desde", "", "window start, date or timestamp")
	flagSet.StringVar(&to, "hasta", "", "window end, date or timestamp")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	var err error
	if filter.From, err = parseBoundFlag(from); err != nil {
		return err
	}
	if filter.To, err = parseBoundFlag(to); err != nil {
		return err
	}

	a, err := env.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	events, err := a.Service.Calendar(ctx, filter)
	if err != nil {
		return err
	}
	return writeJSON(env.stdout, events)
}

func runSeedDirectory(ctx context.Context, env *environment, args []string) error {
	var from string
	flagSet := pflag.NewFlagSet("seed-directory", pflag.ContinueOnError)
	flagSet.StringVar(&from, "from", env.cfg.DataDir, "directory with tecnicos.json and sedes.json")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	a, err := env.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.Storage.Writer == nil {
		return fmt.Errorf("storage %q keeps the directory in files, nothing to seed", env.cfg.StorageDriver)
	}
	sites, technicians, err := seedDirectory(ctx, filestore.NewDirectory(from), a.Storage.Writer)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.stdout, "seeded %d sites and %d technicians\n", sites, technicians)
	return nil
}

// seedDirectory копирует справочник; площадки пишутся первыми из-за внешнего ключа техников
func seedDirectory(ctx context.Context, src service.Directory, dst app.DirectoryWriter) (int, int, error) {
	sites, err := src.ListSites(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read sites: %w", err)
	}
	for _, site := range sites {
		if site.CreatedAt.IsZero() {
			site.CreatedAt = time.Now()
		}
		if err := dst.UpsertSite(ctx, site); err != nil {
			return 0, 0, err
		}
	}

	technicians, err := src.ListTechnicians(ctx, "")
	if err != nil {
		return len(sites), 0, fmt.Errorf("failed to read technicians: %w", err)
	}
	for _, t := range technicians {
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now()
		}
		if err := dst.UpsertTechnician(ctx, t); err != nil {
			return len(sites), 0, err
		}
	}
	return len(sites), len(technicians), nil
}

func parseDayFlag(value string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return models.StartOfDay(now), nil
	}
	return models.ParseDay(value)
}

func parseBoundFlag(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := models.ParseLocalTime(value); err == nil {
		return t, nil
	}
	return models.ParseDay(value)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
