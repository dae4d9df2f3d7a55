package database

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsLoaded(t *testing.T) {
	all := Migrations()
	require.NotEmpty(t, all)
	assert.Equal(t, "000001_init", all[0].String())
	assert.Contains(t, all[0].Up, "ON DELETE CASCADE")
	assert.Contains(t, all[0].Down, "DROP TABLE IF EXISTS posts")
	assert.ElementsMatch(t, []string{"users", "categories", "posts"}, all[0].Tables)

	_, ok := findMigration(all, 1)
	assert.True(t, ok)
	_, ok = findMigration(all, 999)
	assert.False(t, ok)
}

func TestEmbeddedMigrationsCoverModels(t *testing.T) {
	require.NoError(t, CheckMigrationCoverage(Migrations()))
}

func TestModelTables(t *testing.T) {
	tables, err := ModelTables()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"users", "categories", "posts"}, tables)
}

func TestCheckMigrationCoverage(t *testing.T) {
	tests := []struct {
		name    string
		set     []Migration
		wantErr string
	}{
		{
			name: "split across versions",
			set: []Migration{
				{Version: 1, Name: "users", Tables: []string{"users"}},
				{Version: 2, Name: "blog", Tables: []string{"categories", "posts"}},
			},
		},
		{
			name:    "posts missing",
			set:     []Migration{{Version: 1, Name: "init", Tables: []string{"users", "categories"}}},
			wantErr: "no migration for [posts]",
		},
		{
			name:    "stray table",
			set:     []Migration{{Version: 1, Name: "init", Tables: []string{"users", "categories", "posts", "tags"}}},
			wantErr: "no model for [tags]",
		},
		{
			name: "created twice",
			set: []Migration{
				{Version: 1, Name: "init", Tables: []string{"users", "categories", "posts"}},
				{Version: 2, Name: "again", Tables: []string{"posts"}},
			},
			wantErr: "table posts is created by both 000001_init and 000002_again",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckMigrationCoverage(tt.set)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMigrations(t *testing.T) {
	file := func(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }

	t.Run("ordered with tables", func(t *testing.T) {
		fsys := fstest.MapFS{
			"m/000002_posts.up.sql":        file(`CREATE TABLE IF NOT EXISTS "posts" (id INT);`),
			"m/000002_posts.down.sql":      file("DROP TABLE posts;"),
			"m/000001_categories.up.sql":   file("create table categories (id INT);"),
			"m/000001_categories.down.sql": file("DROP TABLE categories;"),
			"m/README.md":                  file("notes"),
		}
		ms, err := loadMigrations(fsys, "m")
		require.NoError(t, err)
		require.Len(t, ms, 2)
		assert.Equal(t, "000001_categories", ms[0].String())
		assert.Equal(t, []string{"categories"}, ms[0].Tables)
		assert.Equal(t, []string{"posts"}, ms[1].Tables)
		assert.Equal(t, "DROP TABLE posts;", ms[1].Down)
	})

	errorCases := []struct {
		name    string
		fsys    fstest.MapFS
		wantErr string
	}{
		{
			name:    "no down script",
			fsys:    fstest.MapFS{"m/000001_init.up.sql": file("SELECT 1;")},
			wantErr: "has no down script",
		},
		{
			name: "orphan down script",
			fsys: fstest.MapFS{
				"m/000001_init.up.sql":   file("SELECT 1;"),
				"m/000001_init.down.sql": file("SELECT 1;"),
				"m/000002_gone.down.sql": file("SELECT 1;"),
			},
			wantErr: "has no up script",
		},
		{
			name:    "bad name",
			fsys:    fstest.MapFS{"m/1_init.up.sql": file("SELECT 1;")},
			wantErr: "is not named",
		},
		{
			name:    "zero version",
			fsys:    fstest.MapFS{"m/000000_init.up.sql": file("SELECT 1;")},
			wantErr: "version must be positive",
		},
		{
			name: "duplicate version",
			fsys: fstest.MapFS{
				"m/000001_a.up.sql":   file("SELECT 1;"),
				"m/000001_a.down.sql": file("SELECT 1;"),
				"m/000001_b.up.sql":   file("SELECT 1;"),
				"m/000001_b.down.sql": file("SELECT 1;"),
			},
			wantErr: "share version 1",
		},
	}

	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadMigrations(tt.fsys, "m")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
