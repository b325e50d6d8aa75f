package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shenikar/field_dispatch_system/internal/config"
	"github.com/shenikar/field_dispatch_system/internal/models"
	"github.com/shenikar/field_dispatch_system/internal/repository"
	"github.com/shenikar/field_dispatch_system/internal/repository/filestore"
	sqliterepo "github.com/shenikar/field_dispatch_system/internal/repository/sqlite"
	"github.com/shenikar/field_dispatch_system/internal/service"
	"github.com/shenikar/field_dispatch_system/pkg/postgres"
	sqlitedb "github.com/shenikar/field_dispatch_system/pkg/sqlite"
	"github.com/sirupsen/logrus"
)

// DirectoryWriter - запись справочника; есть только у SQL хранилищ
type DirectoryWriter interface {
	UpsertSite(ctx context.Context, site *models.Site) error
	UpsertTechnician(ctx context.Context, t *models.Technician) error
}

// Storage - выбранное хранилище инцидентов и справочника
type Storage struct {
	Incidents service.IncidentRepository
	Directory service.Directory
	// Writer равен nil для файлового хранилища: справочник там редактируется вручную
	Writer DirectoryWriter
	close  func()
}

func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStorage открывает хранилище по STORAGE_DRIVER и приводит схему к актуальной версии
func OpenStorage(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Storage, error) {
	entry := log.WithField("storage", cfg.StorageDriver)

	switch cfg.StorageDriver {
	case config.StorageFile:
		store := filestore.NewIncidentStore(cfg.DataDir)
		upgraded, err := store.Migrate(ctx, time.Now())
		if err != nil {
			return nil, fmt.Errorf("failed to migrate incident document: %w", err)
		}
		entry.WithFields(logrus.Fields{
			"data_dir": cfg.DataDir,
			"upgraded": upgraded,
		}).Info("File storage ready")
		return &Storage{
			Incidents: store,
			Directory: filestore.NewDirectory(cfg.DataDir),
		}, nil

	case config.StoragePostgres:
		entry.Info("Running database migrations...")
		version, err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
		if err != nil {
			return nil, err
		}
		entry.WithField("version", version).Info("Database migrations applied successfully")

		pool, err := postgres.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		entry.Info("Successfully connected to PostgreSQL")
		directory := repository.NewDirectoryRepository(pool)
		return &Storage{
			Incidents: repository.NewIncidentRepository(pool),
			Directory: directory,
			Writer:    directory,
			close:     pool.Close,
		}, nil

	case config.StorageSQLite:
		db, err := sqlitedb.NewSQLiteDB(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := sqliterepo.Migrate(ctx, db, log); err != nil {
			db.Close()
			return nil, err
		}
		entry.WithField("path", cfg.SQLitePath).Info("SQLite storage ready")
		directory := sqliterepo.NewDirectory(db)
		return &Storage{
			Incidents: sqliterepo.NewIncidentRepository(db),
			Directory: directory,
			Writer:    directory,
			close:     func() { _ = db.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
