package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/field_dispatch_system/internal/models"
)

// Поля, которых не было в документах версии 0
var backfilledFields = []string{"estado", "tecnicoId", "fechaInicio", "fechaLimite"}

// Моменты времени, которые веб-клиент мог сохранить без зоны ("2025-03-10T10:00")
var timestampFields = []string{"fechaInicio", "createdAt", "updatedAt"}

type rawIncidentsDocument struct {
	SchemaVersion int               `json:"schemaVersion"`
	Incidents     []json.RawMessage `json:"incidencias"`
}

// Migrate приводит документ инцидентов к текущей версии схемы.
// Записи без duracionEstimadaHoras получают estado=pendiente, пустые tecnicoId,
// fechaInicio и fechaLimite, а длительность берется из duracionHoras или равна 1.
// Возвращает число дополненных записей. Повторный вызов ничего не меняет.
func (s *IncidentStore) Migrate(ctx context.Context, now time.Time) (int, error) {
	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	data, exists, err := s.doc.readRaw()
	if err != nil {
		return 0, err
	}
	if !exists {
		empty := &incidentsDocument{SchemaVersion: SchemaVersion, Incidents: []*models.Incident{}}
		if err := s.doc.write(empty); err != nil {
			return 0, fmt.Errorf("failed to initialize incidents document: %w", err)
		}
		return 0, nil
	}

	raw := &rawIncidentsDocument{}
	if err := json.Unmarshal(data, raw); err != nil {
		return 0, fmt.Errorf("failed to decode incidents document: %w", err)
	}
	if raw.SchemaVersion >= SchemaVersion {
		return 0, nil
	}

	migrated := make([]*models.Incident, 0, len(raw.Incidents))
	backfilled := 0
	for i, record := range raw.Incidents {
		inc, changed, err := upgradeIncident(record, now)
		if err != nil {
			return 0, fmt.Errorf("failed to migrate incident #%d: %w", i, err)
		}
		if changed {
			backfilled++
		}
		migrated = append(migrated, inc)
	}

	doc := &incidentsDocument{SchemaVersion: SchemaVersion, Incidents: migrated}
	if err := s.doc.write(doc); err != nil {
		return 0, fmt.Errorf("failed to write migrated incidents: %w", err)
	}
	return backfilled, nil
}

func upgradeIncident(record json.RawMessage, now time.Time) (*models.Incident, bool, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(record, &fields); err != nil {
		return nil, false, err
	}

	_, current := fields["duracionEstimadaHoras"]
	if !current {
		for _, name := range backfilledFields {
			delete(fields, name)
		}
	}
	for _, name := range timestampFields {
		if err := normalizeTimestamp(fields, name); err != nil {
			return nil, false, err
		}
	}
	normalized, err := json.Marshal(fields)
	if err != nil {
		return nil, false, err
	}
	inc := &models.Incident{}
	if err := json.Unmarshal(normalized, inc); err != nil {
		return nil, false, err
	}

	if inc.ID == "" {
		inc.ID = uuid.NewString()
	}
	if inc.Priority == "" {
		inc.Priority = models.PriorityMedium
	}
	if current {
		return inc, false, nil
	}

	inc.Status = models.StatusPending
	inc.TechnicianID = nil
	inc.StartAt = nil
	inc.Deadline = nil
	inc.EstimatedHours = inc.LegacyHours
	if inc.EstimatedHours <= 0 {
		inc.EstimatedHours = models.DefaultEstimatedHours
	}
	inc.UpdatedAt = now
	return inc, true, nil
}

// normalizeTimestamp переписывает строковый момент времени в RFC3339; без зоны - местное время
func normalizeTimestamp(fields map[string]json.RawMessage, name string) error {
	raw, ok := fields[name]
	if !ok {
		return nil
	}
	var value *string
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("%s must be a string: %w", name, err)
	}
	if value == nil {
		return nil
	}
	if *value == "" {
		delete(fields, name)
		return nil
	}
	t, err := models.ParseLocalTime(*value)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	encoded, err := json.Marshal(t.Format(time.RFC3339Nano))
	if err != nil {
		return err
	}
	fields[name] = encoded
	return nil
}
