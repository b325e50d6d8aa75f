// Package sqlite - встроенное хранилище инцидентов и справочника на modernc.org/sqlite.
// Моменты времени хранятся как TEXT в RFC3339Nano, даты как "2006-01-02".
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/shenikar/field_dispatch_system/internal/models"
	"github.com/shenikar/field_dispatch_system/internal/service"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate применяет встроенные миграции goose
func Migrate(ctx context.Context, db *sql.DB, logger goose.Logger) error {
	goose.SetBaseFS(migrationsFS)
	if logger != nil {
		goose.SetLogger(logger)
	}
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to run sqlite migrations: %w", err)
	}
	return nil
}

const incidentColumns = `id, titulo, descripcion, sede_id, tecnico_id, estado, prioridad,
	fecha_inicio, duracion_estimada_horas, fecha_limite, created_at, updated_at`

type IncidentRepository struct {
	db *sql.DB
}

func NewIncidentRepository(db *sql.DB) service.IncidentRepository {
	return &IncidentRepository{db: db}
}

// LoadAll возвращает все инциденты в порядке вставки
func (r *IncidentRepository) LoadAll(ctx context.Context) ([]*models.Incident, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+incidentColumns+` FROM incidents ORDER BY rowid;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

func (r *IncidentRepository) GetByID(ctx context.Context, id string) (*models.Incident, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+incidentColumns+` FROM incidents WHERE id = ?;`, id)
	incident, err := scanIncident(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (` + incidentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, query,
		incident.ID,
		incident.Title,
		incident.Description,
		incident.SiteID,
		nullString(incident.TechnicianID),
		string(incident.Status),
		string(incident.Priority),
		nullTime(incident.StartAt),
		incident.EstimatedHours,
		nullDate(incident.Deadline),
		formatTime(incident.CreatedAt),
		formatTime(incident.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

func (r *IncidentRepository) Save(ctx context.Context, incident *models.Incident) error {
	return updateIncident(ctx, r.db, incident)
}

// SaveAll обновляет несколько инцидентов в одной транзакции
func (r *IncidentRepository) SaveAll(ctx context.Context, incidents []*models.Incident) error {
	if len(incidents) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, incident := range incidents {
		if err := updateIncident(ctx, tx, incident); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit incidents: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func updateIncident(ctx context.Context, db execer, incident *models.Incident) error {
	query := `
		UPDATE incidents SET
			titulo = ?,
			descripcion = ?,
			tecnico_id = ?,
			estado = ?,
			prioridad = ?,
			fecha_inicio = ?,
			duracion_estimada_horas = ?,
			fecha_limite = ?,
			updated_at = ?
		WHERE id = ?;
	`
	res, err := db.ExecContext(ctx, query,
		incident.Title,
		incident.Description,
		nullString(incident.TechnicianID),
		string(incident.Status),
		string(incident.Priority),
		nullTime(incident.StartAt),
		incident.EstimatedHours,
		nullDate(incident.Deadline),
		formatTime(incident.UpdatedAt),
		incident.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update incident: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("incident with id %s not found for update: %w", incident.ID, models.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIncident(row scanner) (*models.Incident, error) {
	incident := &models.Incident{}
	var (
		status, priority     string
		technician, start    sql.NullString
		deadline             sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(
		&incident.ID,
		&incident.Title,
		&incident.Description,
		&incident.SiteID,
		&technician,
		&status,
		&priority,
		&start,
		&incident.EstimatedHours,
		&deadline,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	incident.Status = models.IncidentStatus(status)
	incident.Priority = models.Priority(priority)
	if technician.Valid {
		id := technician.String
		incident.TechnicianID = &id
	}
	if start.Valid {
		t, err := parseTime(start.String)
		if err != nil {
			return nil, err
		}
		incident.StartAt = &t
	}
	if deadline.Valid {
		day, err := models.ParseDay(deadline.String)
		if err != nil {
			return nil, err
		}
		d := models.NewDate(day)
		incident.Deadline = &d
	}
	if incident.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if incident.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return incident, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func nullDate(d *models.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}
