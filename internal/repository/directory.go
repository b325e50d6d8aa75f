package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/field_dispatch_system/internal/models"
	"github.com/shenikar/field_dispatch_system/internal/service"
)

// DirectoryRepository читает справочник техников и площадок из PostgreSQL
type DirectoryRepository struct {
	db *pgxpool.Pool
}

func NewDirectoryRepository(db *pgxpool.Pool) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

var _ service.Directory = (*DirectoryRepository)(nil)

// ListTechnicians возвращает техников площадки в порядке справочника; пустой siteID - всех
func (r *DirectoryRepository) ListTechnicians(ctx context.Context, siteID string) ([]*models.Technician, error) {
	query := `
		SELECT id, nombre, COALESCE(sede_id, ''), activo, created_at
		FROM technicians
		WHERE $1 = '' OR sede_id = $1
		ORDER BY position;
	`
	rows, err := r.db.Query(ctx, query, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	defer rows.Close()

	technicians := make([]*models.Technician, 0)
	for rows.Next() {
		t := &models.Technician{}
		if err := rows.Scan(&t.ID, &t.Name, &t.SiteID, &t.Active, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan technician row: %w", err)
		}
		technicians = append(technicians, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error technician iteration: %w", err)
	}
	return technicians, nil
}

func (r *DirectoryRepository) GetTechnician(ctx context.Context, id string) (*models.Technician, error) {
	query := `
		SELECT id, nombre, COALESCE(sede_id, ''), activo, created_at
		FROM technicians
		WHERE id = $1;
	`
	t := &models.Technician{}
	err := r.db.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.SiteID, &t.Active, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("technician with id %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}
	return t, nil
}

func (r *DirectoryRepository) ListSites(ctx context.Context) ([]*models.Site, error) {
	query := `SELECT id, nombre, direccion, capacidad, created_at FROM sites ORDER BY created_at, id;`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	sites := make([]*models.Site, 0)
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan site row: %w", err)
		}
		sites = append(sites, site)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error site iteration: %w", err)
	}
	return sites, nil
}

func (r *DirectoryRepository) GetSite(ctx context.Context, id string) (*models.Site, error) {
	query := `SELECT id, nombre, direccion, capacidad, created_at FROM sites WHERE id = $1;`
	site, err := scanSite(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("site with id %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get site: %w", err)
	}
	return site, nil
}

// FindSiteByName ищет площадку по имени без учета регистра
func (r *DirectoryRepository) FindSiteByName(ctx context.Context, name string) (*models.Site, error) {
	query := `SELECT id, nombre, direccion, capacidad, created_at FROM sites WHERE LOWER(nombre) = LOWER($1);`
	site, err := scanSite(r.db.QueryRow(ctx, query, strings.TrimSpace(name)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("site named %q: %w", name, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find site by name: %w", err)
	}
	return site, nil
}

func scanSite(row pgx.Row) (*models.Site, error) {
	site := &models.Site{}
	var capacity []byte
	if err := row.Scan(&site.ID, &site.Name, &site.Address, &capacity, &site.CreatedAt); err != nil {
		return nil, err
	}
	if len(capacity) > 0 {
		if err := json.Unmarshal(capacity, &site.Capacity); err != nil {
			return nil, fmt.Errorf("invalid capacidad for site %s: %w", site.ID, err)
		}
	}
	return site, nil
}

// UpsertSite добавляет или обновляет площадку
func (r *DirectoryRepository) UpsertSite(ctx context.Context, site *models.Site) error {
	capacity, err := json.Marshal(site.Capacity)
	if err != nil {
		return fmt.Errorf("failed to encode capacidad: %w", err)
	}
	query := `
		INSERT INTO sites (id, nombre, direccion, capacidad, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			nombre = EXCLUDED.nombre,
			direccion = EXCLUDED.direccion,
			capacidad = EXCLUDED.capacidad;
	`
	if _, err := r.db.Exec(ctx, query, site.ID, site.Name, site.Address, capacity, site.CreatedAt); err != nil {
		return fmt.Errorf("failed to upsert site %s: %w", site.ID, err)
	}
	return nil
}

// UpsertTechnician добавляет или обновляет техника
func (r *DirectoryRepository) UpsertTechnician(ctx context.Context, t *models.Technician) error {
	query := `
		INSERT INTO technicians (id, nombre, sede_id, activo, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			nombre = EXCLUDED.nombre,
			sede_id = EXCLUDED.sede_id,
			activo = EXCLUDED.activo;
	`
	if _, err := r.db.Exec(ctx, query, t.ID, t.Name, t.SiteID, t.Active, t.CreatedAt); err != nil {
		return fmt.Errorf("failed to upsert technician %s: %w", t.ID, err)
	}
	return nil
}
