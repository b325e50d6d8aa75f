package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shenikar/field_dispatch_system/internal/repository/filestore"
	sqliterepo "github.com/shenikar/field_dispatch_system/internal/repository/sqlite"
	sqlitedb "github.com/shenikar/field_dispatch_system/pkg/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDirectory_FilesIntoSQLite(t *testing.T) {
	ctx := context.Background()
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "sedes.json"),
		[]byte(`{"sedes":[{"id":"sede_1","nombre":"Centro","capacidad":{"lun":8}}]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "tecnicos.json"),
		[]byte(`[{"id":"t_1","nombre":"Ana","sedeId":"sede_1"},{"id":"t_2","nombre":"Luis","sedeId":"sede_1","activo":false}]`), 0o644))

	db, err := sqlitedb.NewSQLiteDB(ctx, filepath.Join(t.TempDir(), "dispatch.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, sqliterepo.Migrate(ctx, db, nil))
	dst := sqliterepo.NewDirectory(db)

	sites, technicians, err := seedDirectory(ctx, filestore.NewDirectory(src), dst)
	require.NoError(t, err)
	assert.Equal(t, 1, sites)
	assert.Equal(t, 2, technicians)

	site, err := dst.FindSiteByName(ctx, "CENTRO")
	require.NoError(t, err)
	assert.Equal(t, 8, site.Capacity.Mon)

	stored, err := dst.ListTechnicians(ctx, "sede_1")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.True(t, stored[0].Active)
	assert.False(t, stored[1].Active)

	// повторный перенос обновляет записи, а не дублирует
	_, _, err = seedDirectory(ctx, filestore.NewDirectory(src), dst)
	require.NoError(t, err)
	stored, err = dst.ListTechnicians(ctx, "")
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestParseDayFlag(t *testing.T) {
	now := time.Date(2026, 3, 2, 15, 4, 0, 0, time.Local)

	day, err := parseDayFlag("", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local), day)

	day, err = parseDayFlag("2026-03-05", now)
	require.NoError(t, err)
	assert.Equal(t, 5, day.Day())

	_, err = parseDayFlag("5 de marzo", now)
	assert.Error(t, err)
}

func TestParseBoundFlag(t *testing.T) {
	bound, err := parseBoundFlag("")
	require.NoError(t, err)
	assert.True(t, bound.IsZero())

	bound, err = parseBoundFlag("2026-03-02T08:30")
	require.NoError(t, err)
	assert.Equal(t, 8, bound.Hour())
	assert.Equal(t, 30, bound.Minute())
}

func TestRun_UsageAndUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), nil, &out))
	assert.Contains(t, out.String(), "seed-directory")

	out.Reset()
	err := run(context.Background(), []string{"purge"}, &out)
	assert.ErrorContains(t, err, `unknown command "purge"`)
}
