package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/field_dispatch_system/internal/models"
	"github.com/shenikar/field_dispatch_system/internal/service"
)

const incidentColumns = `
	id,
	titulo,
	descripcion,
	sede_id,
	tecnico_id,
	estado,
	prioridad,
	fecha_inicio,
	duracion_estimada_horas,
	fecha_limite,
	created_at,
	updated_at`

type IncidentRepository struct {
	db *pgxpool.Pool
}

func NewIncidentRepository(db *pgxpool.Pool) service.IncidentRepository {
	return &IncidentRepository{
		db: db,
	}
}

// LoadAll возвращает все инциденты в порядке добавления
func (r *IncidentRepository) LoadAll(ctx context.Context) ([]*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents ORDER BY position;`
	rows, err := r.db.Query(ctx, query)
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

// GetByID возвращает инцидент по идентификатору
func (r *IncidentRepository) GetByID(ctx context.Context, id string) (*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1;`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// Create создает новую запись об инциденте в бд
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (
			id, titulo, descripcion, sede_id, tecnico_id, estado, prioridad,
			fecha_inicio, duracion_estimada_horas, fecha_limite, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db.Exec(ctx, query,
		incident.ID,
		incident.Title,
		incident.Description,
		incident.SiteID,
		incident.TechnicianID,
		string(incident.Status),
		string(incident.Priority),
		incident.StartAt,
		incident.EstimatedHours,
		deadlineParam(incident.Deadline),
		incident.CreatedAt,
		incident.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// Save перезаписывает изменяемые поля инцидента
func (r *IncidentRepository) Save(ctx context.Context, incident *models.Incident) error {
	return updateIncident(ctx, r.db, incident)
}

// SaveAll обновляет несколько инцидентов в одной транзакции
func (r *IncidentRepository) SaveAll(ctx context.Context, incidents []*models.Incident) error {
	if len(incidents) == 0 {
		return nil
	}
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, incident := range incidents {
			if err := updateIncident(ctx, tx, incident); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save incidents: %w", err)
	}
	return nil
}

// execer - общий метод пула и транзакции
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func updateIncident(ctx context.Context, db execer, incident *models.Incident) error {
	query := `
		UPDATE incidents SET
			titulo = $1,
			descripcion = $2,
			tecnico_id = $3,
			estado = $4,
			prioridad = $5,
			fecha_inicio = $6,
			duracion_estimada_horas = $7,
			fecha_limite = $8,
			updated_at = $9
		WHERE id = $10;
	`
	cmdTag, err := db.Exec(ctx, query,
		incident.Title,
		incident.Description,
		incident.TechnicianID,
		string(incident.Status),
		string(incident.Priority),
		incident.StartAt,
		incident.EstimatedHours,
		deadlineParam(incident.Deadline),
		incident.UpdatedAt,
		incident.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update incident: %w", err)
	}

	// RowsAffected() == 0 значит инцидента с таким id не существует
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %s not found for update: %w", incident.ID, models.ErrNotFound)
	}
	return nil
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	var (
		status, priority string
		deadline         *time.Time
	)
	err := row.Scan(
		&incident.ID,
		&incident.Title,
		&incident.Description,
		&incident.SiteID,
		&incident.TechnicianID,
		&status,
		&priority,
		&incident.StartAt,
		&incident.EstimatedHours,
		&deadline,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	incident.Status = models.IncidentStatus(status)
	incident.Priority = models.Priority(priority)
	if deadline != nil {
		d := models.NewDate(*deadline)
		incident.Deadline = &d
	}
	return incident, nil
}

func deadlineParam(d *models.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
