package database

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gorm.io/gorm/schema"
)

// Migration is one versioned pair of up/down SQL scripts for the blog schema.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
	// Tables lists the tables created by Up.
	Tables []string
}

func (m Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

//go:embed migrations/*.sql
var migrationFS embed.FS

var (
	upFileName  = regexp.MustCompile(`^(\d{6})_([a-z0-9_]+)\.up\.sql$`)
	createTable = regexp.MustCompile(`(?i)CREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?"?([a-z_][a-z0-9_]*)"?`)

	embedded = mustLoadMigrations()
)

func mustLoadMigrations() []Migration {
	ms, err := loadMigrations(migrationFS, "migrations")
	if err != nil {
		panic(fmt.Sprintf("embedded migrations: %v", err))
	}
	return ms
}

// loadMigrations reads NNNNNN_name.up.sql / .down.sql pairs from dir. Every up
// script needs a down script and versions must be unique and non-zero.
func loadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	downs := make(map[string]bool)
	byVersion := make(map[int]string)
	var out []Migration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		if strings.HasSuffix(name, ".down.sql") {
			downs[strings.TrimSuffix(name, ".down.sql")] = true
			continue
		}

		match := upFileName.FindStringSubmatch(name)
		if match == nil {
			return nil, fmt.Errorf("migration %q is not named NNNNNN_name.up.sql", name)
		}
		version, _ := strconv.Atoi(match[1])
		if version == 0 {
			return nil, fmt.Errorf("migration %q: version must be positive", name)
		}
		if prev, dup := byVersion[version]; dup {
			return nil, fmt.Errorf("migrations %q and %q share version %d", prev, name, version)
		}
		byVersion[version] = name

		base := strings.TrimSuffix(name, ".up.sql")
		up, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		down, err := fs.ReadFile(fsys, path.Join(dir, base+".down.sql"))
		if err != nil {
			return nil, fmt.Errorf("migration %s has no down script: %w", base, err)
		}

		m := Migration{Version: version, Name: match[2], Up: string(up), Down: string(down)}
		for _, t := range createTable.FindAllStringSubmatch(m.Up, -1) {
			m.Tables = append(m.Tables, strings.ToLower(t[1]))
		}
		out = append(out, m)
	}

	for base := range downs {
		if _, err := fs.Stat(fsys, path.Join(dir, base+".up.sql")); err != nil {
			return nil, fmt.Errorf("down script %s.down.sql has no up script", base)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Migrations returns the embedded migrations in version order.
func Migrations() []Migration {
	return embedded
}

func findMigration(registered []Migration, version int) (Migration, bool) {
	for _, m := range registered {
		if m.Version == version {
			return m, true
		}
	}
	return Migration{}, false
}

// ModelTables returns the table names of PersistentModels, in migration order.
func ModelTables() ([]string, error) {
	cache := &sync.Map{}
	tables := make([]string, 0, len(PersistentModels()))
	for _, model := range PersistentModels() {
		s, err := schema.Parse(model, cache, schema.NamingStrategy{})
		if err != nil {
			return nil, fmt.Errorf("parse %T: %w", model, err)
		}
		tables = append(tables, s.Table)
	}
	return tables, nil
}

// CheckMigrationCoverage verifies that the SQL migrations create exactly the
// tables the GORM models map to, each one once.
func CheckMigrationCoverage(registered []Migration) error {
	tables, err := ModelTables()
	if err != nil {
		return err
	}

	createdBy := make(map[string]string)
	for _, m := range registered {
		for _, t := range m.Tables {
			if prev, dup := createdBy[t]; dup {
				return fmt.Errorf("table %s is created by both %s and %s", t, prev, m)
			}
			createdBy[t] = m.String()
		}
	}

	var missing []string
	for _, t := range tables {
		if _, ok := createdBy[t]; !ok {
			missing = append(missing, t)
		}
		delete(createdBy, t)
	}
	unmodeled := make([]string, 0, len(createdBy))
	for t := range createdBy {
		unmodeled = append(unmodeled, t)
	}
	sort.Strings(unmodeled)

	if len(missing) > 0 || len(unmodeled) > 0 {
		return fmt.Errorf("migrations out of sync with models: no migration for [%s], no model for [%s]",
			strings.Join(missing, ", "), strings.Join(unmodeled, ", "))
	}
	return nil
}
