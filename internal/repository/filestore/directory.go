package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shenikar/field_dispatch_system/internal/models"
)

const (
	techniciansFile = "tecnicos.json"
	sitesFile       = "sedes.json"
)

// Directory - справочник техников и площадок, только чтение
type Directory struct {
	technicians *document
	sites       *document
}

func NewDirectory(dir string) *Directory {
	return &Directory{
		technicians: newDocument(filepath.Join(dir, techniciansFile)),
		sites:       newDocument(filepath.Join(dir, sitesFile)),
	}
}

// technicianRecord - запись техника на диске; отсутствующий activo означает активного
type technicianRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"nombre"`
	SiteID    string    `json:"sedeId"`
	Active    *bool     `json:"activo"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r technicianRecord) toModel() *models.Technician {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return &models.Technician{
		ID:        r.ID,
		Name:      r.Name,
		SiteID:    r.SiteID,
		Active:    active,
		CreatedAt: r.CreatedAt,
	}
}

// ListTechnicians возвращает техников площадки в порядке справочника; пустой siteID - всех
func (d *Directory) ListTechnicians(ctx context.Context, siteID string) ([]*models.Technician, error) {
	all, err := d.loadTechnicians(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Technician, 0, len(all))
	for _, t := range all {
		if siteID != "" && t.SiteID != siteID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (d *Directory) GetTechnician(ctx context.Context, id string) (*models.Technician, error) {
	all, err := d.loadTechnicians(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range all {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("technician with id %s: %w", id, models.ErrNotFound)
}

func (d *Directory) ListSites(ctx context.Context) ([]*models.Site, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.sites.mu.Lock()
	defer d.sites.mu.Unlock()

	var doc struct {
		Sites []*models.Site `json:"sedes"`
	}
	if _, err := d.sites.read(&doc); err != nil {
		return nil, err
	}
	if doc.Sites == nil {
		return []*models.Site{}, nil
	}
	return doc.Sites, nil
}

func (d *Directory) GetSite(ctx context.Context, id string) (*models.Site, error) {
	sites, err := d.ListSites(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range sites {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("site with id %s: %w", id, models.ErrNotFound)
}

// FindSiteByName ищет площадку по имени без учета регистра
func (d *Directory) FindSiteByName(ctx context.Context, name string) (*models.Site, error) {
	sites, err := d.ListSites(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.TrimSpace(name)
	for _, s := range sites {
		if strings.EqualFold(strings.TrimSpace(s.Name), needle) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("site named %q: %w", name, models.ErrNotFound)
}

// loadTechnicians принимает как {"tecnicos": [...]}, так и голый массив
func (d *Directory) loadTechnicians(ctx context.Context) ([]*models.Technician, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.technicians.mu.Lock()
	data, exists, err := d.technicians.readRaw()
	d.technicians.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if !exists {
		return []*models.Technician{}, nil
	}

	var records []technicianRecord
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		err = json.Unmarshal(data, &records)
	} else {
		var doc struct {
			Technicians []technicianRecord `json:"tecnicos"`
		}
		err = json.Unmarshal(data, &doc)
		records = doc.Technicians
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", d.technicians.path, err)
	}

	out := make([]*models.Technician, 0, len(records))
	for _, r := range records {
		out = append(out, r.toModel())
	}
	return out, nil
}
