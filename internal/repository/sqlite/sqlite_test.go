package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/shenikar/field_dispatch_system/internal/models"
	pkgsqlite "github.com/shenikar/field_dispatch_system/pkg/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := pkgsqlite.NewSQLiteDB(ctx, filepath.Join(t.TempDir(), "dispatch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	require.NoError(t, Migrate(ctx, db, logger))
	return db
}

func newIncident(id string) *models.Incident {
	return &models.Incident{
		ID:             id,
		Title:          "Incidencia " + id,
		SiteID:         "s_1",
		Status:         models.StatusPending,
		Priority:       models.PriorityMedium,
		EstimatedHours: 1.5,
		CreatedAt:      testNow,
		UpdatedAt:      testNow,
	}
}

func TestIncidentRepository_RoundTrip(t *testing.T) {
	repo := NewIncidentRepository(newTestDB(t))
	ctx := context.Background()

	deadline := models.NewDate(time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local))
	a := newIncident("a")
	a.Deadline = &deadline
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, newIncident("b")))

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Incidencia a", got.Title)
	assert.Equal(t, 1.5, got.EstimatedHours)
	assert.True(t, testNow.Equal(got.CreatedAt))
	require.NotNil(t, got.Deadline)
	assert.Equal(t, "2025-03-14", got.Deadline.String())
	assert.Nil(t, got.TechnicianID)
	assert.Nil(t, got.StartAt)

	all, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
}

func TestIncidentRepository_NotFound(t *testing.T) {
	repo := NewIncidentRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = repo.Save(ctx, newIncident("missing"))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestIncidentRepository_SaveAllIsAtomic(t *testing.T) {
	repo := NewIncidentRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newIncident("a")))

	tech := "t_1"
	start := testNow.Add(time.Hour)
	a := newIncident("a")
	a.Status = models.StatusAssigned
	a.TechnicianID = &tech
	a.StartAt = &start

	err := repo.SaveAll(ctx, []*models.Incident{a, newIncident("ghost")})
	require.ErrorIs(t, err, models.ErrNotFound)

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)

	require.NoError(t, repo.SaveAll(ctx, []*models.Incident{a}))
	got, err = repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, got.Status)
	assert.Equal(t, "t_1", got.Technician())
	assert.True(t, start.Equal(*got.StartAt))
}

func TestIncidentRepository_CheckConstraints(t *testing.T) {
	repo := NewIncidentRepository(newTestDB(t))
	ctx := context.Background()

	tech := "t_1"
	broken := newIncident("a")
	broken.TechnicianID = &tech

	assert.Error(t, repo.Create(ctx, broken))
}

func TestDirectory_UpsertAndQuery(t *testing.T) {
	dir := NewDirectory(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, dir.UpsertSite(ctx, &models.Site{ID: "s_1", Name: "Sede Central", CreatedAt: testNow,
		Capacity: models.WeeklyCapacity{Mon: 8, Tue: 8, Wed: 8, Thu: 8, Fri: 4}}))
	require.NoError(t, dir.UpsertSite(ctx, &models.Site{ID: "s_2", Name: "Norte", CreatedAt: testNow}))
	require.NoError(t, dir.UpsertTechnician(ctx, &models.Technician{ID: "t_1", Name: "Ana", SiteID: "s_1", Active: true, CreatedAt: testNow}))
	require.NoError(t, dir.UpsertTechnician(ctx, &models.Technician{ID: "t_2", Name: "Luis", SiteID: "s_1", Active: false, CreatedAt: testNow}))
	require.NoError(t, dir.UpsertTechnician(ctx, &models.Technician{ID: "t_3", Name: "Eva", SiteID: "s_2", Active: true, CreatedAt: testNow}))

	techs, err := dir.ListTechnicians(ctx, "s_1")
	require.NoError(t, err)
	require.Len(t, techs, 2)
	assert.Equal(t, "t_1", techs[0].ID)
	assert.True(t, techs[0].Active)
	assert.False(t, techs[1].Active)

	all, err := dir.ListTechnicians(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	site, err := dir.FindSiteByName(ctx, "SEDE central")
	require.NoError(t, err)
	assert.Equal(t, "s_1", site.ID)
	assert.Equal(t, 4, site.Capacity.Fri)

	_, err = dir.GetSite(ctx, "s_9")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = dir.GetTechnician(ctx, "t_9")
	assert.ErrorIs(t, err, models.ErrNotFound)

	// повторный upsert обновляет запись
	require.NoError(t, dir.UpsertTechnician(ctx, &models.Technician{ID: "t_2", Name: "Luis", SiteID: "s_1", Active: true, CreatedAt: testNow}))
	t2, err := dir.GetTechnician(ctx, "t_2")
	require.NoError(t, err)
	assert.True(t, t2.Active)
}
