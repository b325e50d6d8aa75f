package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrationURL(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@db:5432/dispatch":   "pgx5://u:p@db:5432/dispatch",
		"postgresql://u:p@db:5432/dispatch": "pgx5://u:p@db:5432/dispatch",
		"pgx5://u:p@db:5432/dispatch":       "pgx5://u:p@db:5432/dispatch",
	}
	for in, want := range cases {
		assert.Equal(t, want, MigrationURL(in), in)
	}
}
