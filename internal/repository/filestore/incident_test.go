package filestore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shenikar/field_dispatch_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newIncident(id string) *models.Incident {
	return &models.Incident{
		ID:             id,
		Title:          "Incidencia " + id,
		SiteID:         "s_1",
		Status:         models.StatusPending,
		Priority:       models.PriorityMedium,
		EstimatedHours: 1,
		CreatedAt:      testNow,
		UpdatedAt:      testNow,
	}
}

func newMigratedStore(t *testing.T) (*IncidentStore, string) {
	t.Helper()
	dir := t.TempDir()
	store := NewIncidentStore(dir)
	_, err := store.Migrate(context.Background(), testNow)
	require.NoError(t, err)
	return store, dir
}

func TestIncidentStore_CreateAndGet(t *testing.T) {
	store, _ := newMigratedStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newIncident("a")))
	require.NoError(t, store.Create(ctx, newIncident("b")))

	got, err := store.GetByID(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "Incidencia b", got.Title)

	all, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
}

func TestIncidentStore_GetByID_NotFound(t *testing.T) {
	store, _ := newMigratedStore(t)

	_, err := store.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestIncidentStore_Create_DuplicateID(t *testing.T) {
	store, _ := newMigratedStore(t)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, newIncident("a")))

	err := store.Create(ctx, newIncident("a"))

	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestIncidentStore_SaveAll(t *testing.T) {
	store, _ := newMigratedStore(t)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, newIncident("a")))
	require.NoError(t, store.Create(ctx, newIncident("b")))

	tech := "t_1"
	start := testNow.Add(time.Hour)
	a := newIncident("a")
	a.Status = models.StatusAssigned
	a.TechnicianID = &tech
	a.StartAt = &start
	b := newIncident("b")
	b.Status = models.StatusCancelled

	require.NoError(t, store.SaveAll(ctx, []*models.Incident{a, b}))

	all, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, all[0].Status)
	assert.Equal(t, "t_1", all[0].Technician())
	assert.True(t, start.Equal(*all[0].StartAt))
	assert.Equal(t, models.StatusCancelled, all[1].Status)
}

func TestIncidentStore_SaveAll_UnknownIDLeavesDocumentUntouched(t *testing.T) {
	store, _ := newMigratedStore(t)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, newIncident("a")))

	a := newIncident("a")
	a.Status = models.StatusCancelled
	err := store.SaveAll(ctx, []*models.Incident{a, newIncident("ghost")})

	require.ErrorIs(t, err, models.ErrNotFound)
	got, err := store.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestIncidentStore_ReturnsCopies(t *testing.T) {
	store, _ := newMigratedStore(t)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, newIncident("a")))

	got, err := store.GetByID(ctx, "a")
	require.NoError(t, err)
	got.Title = "changed"

	again, err := store.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Incidencia a", again.Title)
}

func TestIncidentStore_ConcurrentCreates(t *testing.T) {
	store, _ := newMigratedStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Create(ctx, newIncident(string(rune('a'+i)))))
		}(i)
	}
	wg.Wait()

	all, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

func TestIncidentStore_NoTempFilesLeft(t *testing.T) {
	store, dir := newMigratedStore(t)
	require.NoError(t, store.Create(context.Background(), newIncident("a")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, incidentsFile, entries[0].Name())
}

func TestIncidentStore_RejectsUnmigratedDocument(t *testing.T) {
	dir := t.TempDir()
	legacy := `{"incidencias":[{"id":"a","titulo":"x","sedeId":"s_1","estado":"abierta"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, incidentsFile), []byte(legacy), 0o644))

	_, err := NewIncidentStore(dir).LoadAll(context.Background())

	assert.ErrorIs(t, err, models.ErrSchemaOutdated)
}

func TestMigrate_BackfillsLegacyRecords(t *testing.T) {
	dir := t.TempDir()
	legacy := `{"incidencias":[
		{"id":"a","titulo":"Vieja","sedeId":"s_1","estado":"asignada","tecnicoId":"t_1","fechaInicio":"2024-01-02T09:00:00Z","duracionHoras":3,"fechaLimite":"2024-01-05","prioridad":"alta"},
		{"titulo":"Sin id","sedeId":"s_2"},
		{"id":"c","titulo":"Nueva","sedeId":"s_1","estado":"programada","fechaInicio":"2024-01-02T10:00:00Z","duracionEstimadaHoras":2,"prioridad":"baja"}
	]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, incidentsFile), []byte(legacy), 0o644))
	store := NewIncidentStore(dir)
	ctx := context.Background()

	n, err := store.Migrate(ctx, testNow)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	a := all[0]
	assert.Equal(t, models.StatusPending, a.Status)
	assert.Nil(t, a.TechnicianID)
	assert.Nil(t, a.StartAt)
	assert.Nil(t, a.Deadline)
	assert.Equal(t, 3.0, a.EstimatedHours)
	assert.Equal(t, models.PriorityHigh, a.Priority)
	assert.Equal(t, testNow, a.UpdatedAt)

	b := all[1]
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, models.StatusPending, b.Status)
	assert.Equal(t, models.DefaultEstimatedHours, b.EstimatedHours)
	assert.Equal(t, models.PriorityMedium, b.Priority)

	c := all[2]
	assert.Equal(t, models.StatusScheduled, c.Status)
	require.NotNil(t, c.StartAt)
	assert.Equal(t, 2.0, c.EstimatedHours)
}

func TestMigrate_RunsOnce(t *testing.T) {
	dir := t.TempDir()
	legacy := `{"incidencias":[{"id":"a","titulo":"x","sedeId":"s_1","estado":"asignada","tecnicoId":"t_1"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, incidentsFile), []byte(legacy), 0o644))
	store := NewIncidentStore(dir)
	ctx := context.Background()

	n, err := store.Migrate(ctx, testNow)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	tech := "t_9"
	start := testNow
	inc, err := store.GetByID(ctx, "a")
	require.NoError(t, err)
	inc.Status = models.StatusAssigned
	inc.TechnicianID = &tech
	inc.StartAt = &start
	require.NoError(t, store.Save(ctx, inc))

	n, err = store.Migrate(ctx, testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	got, err := store.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, got.Status)
	assert.Equal(t, "t_9", got.Technician())
}

func TestMigrate_CreatesEmptyDocument(t *testing.T) {
	dir := t.TempDir()
	store := NewIncidentStore(dir)

	n, err := store.Migrate(context.Background(), testNow)
	require.NoError(t, err)
	assert.Zero(t, n)

	data, err := os.ReadFile(filepath.Join(dir, incidentsFile))
	require.NoError(t, err)
	assert.JSONEq(t, `{"schemaVersion":1,"incidencias":[]}`, string(data))
}

// withLocalZone подменяет time.Local на время теста
func withLocalZone(t *testing.T, loc *time.Location) {
	t.Helper()
	prev := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = prev })
}

func TestMigrate_AcceptsZonelessTimestamps(t *testing.T) {
	madrid := time.FixedZone("CET", 3600)
	withLocalZone(t, madrid)

	dir := t.TempDir()
	// веб-клиент присылает datetime-local без зоны
	doc := `{"incidencias":[
		{"id":"a","titulo":"Caldera","sedeId":"s_1","estado":"asignada","tecnicoId":"t_1","fechaInicio":"2025-03-10T10:00","duracionEstimadaHoras":1,"prioridad":"alta","createdAt":"2025-03-09T18:30:00.000Z","updatedAt":"2025-03-09T19:00"},
		{"id":"b","titulo":"Puerta","sedeId":"s_1","estado":"pendiente","fechaInicio":null,"duracionEstimadaHoras":2,"createdAt":""}
	]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, incidentsFile), []byte(doc), 0o644))
	store := NewIncidentStore(dir)
	ctx := context.Background()

	n, err := store.Migrate(ctx, testNow)
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	a := all[0]
	assert.Equal(t, models.StatusAssigned, a.Status)
	require.NotNil(t, a.StartAt)
	assert.True(t, a.StartAt.Equal(time.Date(2025, 3, 10, 10, 0, 0, 0, madrid)))
	assert.True(t, a.CreatedAt.Equal(time.Date(2025, 3, 9, 18, 30, 0, 0, time.UTC)))
	assert.True(t, a.UpdatedAt.Equal(time.Date(2025, 3, 9, 19, 0, 0, 0, madrid)))

	b := all[1]
	assert.Nil(t, b.StartAt)
	assert.True(t, b.CreatedAt.IsZero())
}

func TestMigrate_RejectsUnparseableTimestamp(t *testing.T) {
	dir := t.TempDir()
	doc := `{"incidencias":[{"id":"a","titulo":"x","sedeId":"s_1","estado":"programada","fechaInicio":"mañana","duracionEstimadaHoras":1}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, incidentsFile), []byte(doc), 0o644))

	_, err := NewIncidentStore(dir).Migrate(context.Background(), testNow)

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Contains(t, err.Error(), "fechaInicio")
}
