package filestore

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/shenikar/field_dispatch_system/internal/models"
)

const (
	incidentsFile = "incidencias.json"

	// SchemaVersion - текущая версия документа инцидентов
	SchemaVersion = 1
)

type incidentsDocument struct {
	SchemaVersion int                `json:"schemaVersion"`
	Incidents     []*models.Incident `json:"incidencias"`
}

// IncidentStore - хранилище инцидентов в одном JSON-документе
type IncidentStore struct {
	doc *document
}

// NewIncidentStore создает хранилище в каталоге dir
func NewIncidentStore(dir string) *IncidentStore {
	return &IncidentStore{doc: newDocument(filepath.Join(dir, incidentsFile))}
}

// LoadAll возвращает копию всей коллекции в порядке добавления
func (s *IncidentStore) LoadAll(ctx context.Context) ([]*models.Incident, error) {
	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()

	doc, err := s.readLocked(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Incident, 0, len(doc.Incidents))
	for _, inc := range doc.Incidents {
		out = append(out, inc.Clone())
	}
	return out, nil
}

// GetByID возвращает инцидент по идентификатору
func (s *IncidentStore) GetByID(ctx context.Context, id string) (*models.Incident, error) {
	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()

	doc, err := s.readLocked(ctx)
	if err != nil {
		return nil, err
	}
	for _, inc := range doc.Incidents {
		if inc.ID == id {
			return inc.Clone(), nil
		}
	}
	return nil, fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
}

// Create добавляет новый инцидент и переписывает документ
func (s *IncidentStore) Create(ctx context.Context, incident *models.Incident) error {
	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()

	doc, err := s.readLocked(ctx)
	if err != nil {
		return err
	}
	for _, inc := range doc.Incidents {
		if inc.ID == incident.ID {
			return fmt.Errorf("%w: incident with id %s already exists", models.ErrValidation, incident.ID)
		}
	}
	doc.Incidents = append(doc.Incidents, incident.Clone())
	if err := s.doc.write(doc); err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// Save перезаписывает существующий инцидент
func (s *IncidentStore) Save(ctx context.Context, incident *models.Incident) error {
	return s.SaveAll(ctx, []*models.Incident{incident})
}

// SaveAll заменяет несколько инцидентов одной записью документа.
// Если хотя бы один идентификатор неизвестен, документ не меняется.
func (s *IncidentStore) SaveAll(ctx context.Context, incidents []*models.Incident) error {
	if len(incidents) == 0 {
		return nil
	}
	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()

	doc, err := s.readLocked(ctx)
	if err != nil {
		return err
	}
	index := make(map[string]int, len(doc.Incidents))
	for i, inc := range doc.Incidents {
		index[inc.ID] = i
	}
	for _, inc := range incidents {
		i, ok := index[inc.ID]
		if !ok {
			return fmt.Errorf("incident with id %s not found for update: %w", inc.ID, models.ErrNotFound)
		}
		doc.Incidents[i] = inc.Clone()
	}
	if err := s.doc.write(doc); err != nil {
		return fmt.Errorf("failed to update incidents: %w", err)
	}
	return nil
}

func (s *IncidentStore) readLocked(ctx context.Context) (*incidentsDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := &incidentsDocument{}
	exists, err := s.doc.read(doc)
	if err != nil {
		return nil, err
	}
	if !exists {
		return &incidentsDocument{SchemaVersion: SchemaVersion, Incidents: []*models.Incident{}}, nil
	}
	if doc.SchemaVersion < SchemaVersion {
		return nil, fmt.Errorf("%s has schema version %d, want %d: %w", s.doc.path, doc.SchemaVersion, SchemaVersion, models.ErrSchemaOutdated)
	}
	if doc.Incidents == nil {
		doc.Incidents = []*models.Incident{}
	}
	return doc, nil
}
