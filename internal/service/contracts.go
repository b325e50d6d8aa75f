package service

import (
	"context"

	"github.com/shenikar/field_dispatch_system/internal/models"
)

//go:generate mockgen -source=contracts.go -destination=mocks/contracts.go -package=mocks

// IncidentRepository определяет контракт для хранилища инцидентов
type IncidentRepository interface {
	LoadAll(ctx context.Context) ([]*models.Incident, error)
	GetByID(ctx context.Context, id string) (*models.Incident, error)
	Create(ctx context.Context, incident *models.Incident) error
	Save(ctx context.Context, incident *models.Incident) error
	// SaveAll сохраняет несколько инцидентов как одно изменение
	SaveAll(ctx context.Context, incidents []*models.Incident) error
}

// Directory - справочник техников и площадок. Ядро его только читает.
type Directory interface {
	// ListTechnicians возвращает техников площадки в порядке справочника; пустой siteID - всех
	ListTechnicians(ctx context.Context, siteID string) ([]*models.Technician, error)
	GetTechnician(ctx context.Context, id string) (*models.Technician, error)
	ListSites(ctx context.Context) ([]*models.Site, error)
	GetSite(ctx context.Context, id string) (*models.Site, error)
	FindSiteByName(ctx context.Context, name string) (*models.Site, error)
}

// IncidentCache - кеш отдельных инцидентов. Get возвращает nil, nil при промахе.
type IncidentCache interface {
	Get(ctx context.Context, id string) (*models.Incident, error)
	Set(ctx context.Context, incident *models.Incident) error
	Invalidate(ctx context.Context, ids ...string) error
}

// NopCache - кеш, который ничего не хранит
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*models.Incident, error) { return nil, nil }
func (NopCache) Set(context.Context, *models.Incident) error { return nil }
func (NopCache) Invalidate(context.Context, ...string) error { return nil }
