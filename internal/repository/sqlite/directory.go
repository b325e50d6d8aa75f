package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shenikar/field_dispatch_system/internal/models"
	"github.com/shenikar/field_dispatch_system/internal/service"
)

type Directory struct {
	db *sql.DB
}

func NewDirectory(db *sql.DB) *Directory {
	return &Directory{db: db}
}

var _ service.Directory = (*Directory)(nil)

const technicianColumns = `id, nombre, COALESCE(sede_id, ''), activo, created_at`

func (d *Directory) ListTechnicians(ctx context.Context, siteID string) ([]*models.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE ? = '' OR sede_id = ? ORDER BY rowid;`
	rows, err := d.db.QueryContext(ctx, query, siteID, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	defer rows.Close()

	technicians := make([]*models.Technician, 0)
	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan technician row: %w", err)
		}
		technicians = append(technicians, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error technician iteration: %w", err)
	}
	return technicians, nil
}

func (d *Directory) GetTechnician(ctx context.Context, id string) (*models.Technician, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+technicianColumns+` FROM technicians WHERE id = ?;`, id)
	t, err := scanTechnician(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("technician with id %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}
	return t, nil
}

const siteColumns = `id, nombre, direccion, capacidad, created_at`

func (d *Directory) ListSites(ctx context.Context) ([]*models.Site, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT `+siteColumns+` FROM sites ORDER BY rowid;`)
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

func (d *Directory) GetSite(ctx context.Context, id string) (*models.Site, error) {
	site, err := scanSite(d.db.QueryRowContext(ctx, `SELECT `+siteColumns+` FROM sites WHERE id = ?;`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("site with id %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get site: %w", err)
	}
	return site, nil
}

// FindSiteByName ищет площадку по имени без учета регистра
func (d *Directory) FindSiteByName(ctx context.Context, name string) (*models.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM sites WHERE nombre = ? COLLATE NOCASE;`
	site, err := scanSite(d.db.QueryRowContext(ctx, query, strings.TrimSpace(name)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("site named %q: %w", name, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find site by name: %w", err)
	}
	return site, nil
}

func scanTechnician(row scanner) (*models.Technician, error) {
	t := &models.Technician{}
	var createdAt string
	if err := row.Scan(&t.ID, &t.Name, &t.SiteID, &t.Active, &createdAt); err != nil {
		return nil, err
	}
	created, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.CreatedAt = created
	return t, nil
}

func scanSite(row scanner) (*models.Site, error) {
	site := &models.Site{}
	var capacity, createdAt string
	if err := row.Scan(&site.ID, &site.Name, &site.Address, &capacity, &createdAt); err != nil {
		return nil, err
	}
	if capacity != "" {
		if err := json.Unmarshal([]byte(capacity), &site.Capacity); err != nil {
			return nil, fmt.Errorf("invalid capacidad for site %s: %w", site.ID, err)
		}
	}
	created, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	site.CreatedAt = created
	return site, nil
}

// UpsertSite добавляет или обновляет площадку
func (d *Directory) UpsertSite(ctx context.Context, site *models.Site) error {
	capacity, err := json.Marshal(site.Capacity)
	if err != nil {
		return fmt.Errorf("failed to encode capacidad: %w", err)
	}
	query := `
		INSERT INTO sites (id, nombre, direccion, capacidad, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			nombre = excluded.nombre,
			direccion = excluded.direccion,
			capacidad = excluded.capacidad;
	`
	if _, err := d.db.ExecContext(ctx, query, site.ID, site.Name, site.Address, string(capacity), formatTime(site.CreatedAt)); err != nil {
		return fmt.Errorf("failed to upsert site %s: %w", site.ID, err)
	}
	return nil
}

// UpsertTechnician добавляет или обновляет техника
func (d *Directory) UpsertTechnician(ctx context.Context, t *models.Technician) error {
	query := `
		INSERT INTO technicians (id, nombre, sede_id, activo, created_at)
		VALUES (?, ?, NULLIF(?, ''), ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			nombre = excluded.nombre,
			sede_id = excluded.sede_id,
			activo = excluded.activo;
	`
	if _, err := d.db.ExecContext(ctx, query, t.ID, t.Name, t.SiteID, t.Active, formatTime(t.CreatedAt)); err != nil {
		return fmt.Errorf("failed to upsert technician %s: %w", t.ID, err)
	}
	return nil
}
