package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shenikar/field_dispatch_system/internal/config"
	"github.com/shenikar/field_dispatch_system/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	return log
}

func testConfig(driver string, dir string) *config.Config {
	return &config.Config{
		StorageDriver:    driver,
		DataDir:          dir,
		SQLitePath:       filepath.Join(dir, "dispatch.db"),
		WorkdayStartHour: 8,
		WorkdayEndHour:   18,
	}
}

func TestBuild_FileStorage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sedes.json"),
		[]byte(`{"sedes":[{"id":"sede_1","nombre":"Centro"}]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tecnicos.json"),
		[]byte(`{"tecnicos":[{"id":"t_1","nombre":"Ana","sedeId":"sede_1"}]}`), 0o644))

	ctx := context.Background()
	a, err := Build(ctx, testConfig(config.StorageFile, dir), testLogger())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Worker)
	assert.Nil(t, a.Storage.Writer)
	assert.FileExists(t, filepath.Join(dir, "incidencias.json"))

	created, err := a.Service.CreateIncident(ctx, models.CreateIncidentInput{Title: "Fuga", SiteID: "sede_1"})
	require.NoError(t, err)

	day := time.Now().AddDate(0, 0, 1)
	result, err := a.Service.AutoAssign(ctx, "sede_1", models.StartOfDay(day))
	require.NoError(t, err)
	require.Len(t, result.Assigned, 1)
	assert.Equal(t, created.ID, result.Assigned[0].ID)
	assert.Equal(t, "t_1", result.Assigned[0].Technician())
}

func TestBuild_SQLiteStorage(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	cfg := testConfig(config.StorageSQLite, dir)

	a, err := Build(ctx, cfg, testLogger())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Storage.Writer)
	require.NoError(t, a.Storage.Writer.UpsertSite(ctx, &models.Site{ID: "sede_1", Name: "Centro", CreatedAt: time.Now()}))
	require.NoError(t, a.Storage.Writer.UpsertTechnician(ctx, &models.Technician{ID: "t_1", Name: "Ana", SiteID: "sede_1", Active: true, CreatedAt: time.Now()}))

	created, err := a.Service.CreateIncidentForSiteName(ctx, "centro", models.CreateIncidentInput{})
	require.NoError(t, err)
	assert.Equal(t, "sede_1", created.SiteID)
	assert.Equal(t, models.PriorityLow, created.Priority)

	technicians, err := a.Service.ListTechnicians(ctx, "sede_1")
	require.NoError(t, err)
	require.Len(t, technicians, 1)
}

func TestOpenStorage_UnknownDriver(t *testing.T) {
	_, err := OpenStorage(context.Background(), testConfig("mongo", t.TempDir()), testLogger())
	assert.ErrorContains(t, err, "unknown storage driver")
}
