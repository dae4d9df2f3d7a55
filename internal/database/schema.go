package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"inkwell/internal/config"
	"inkwell/internal/middleware"

	"gorm.io/gorm"
)

// DB_SCHEMA_MODE values.
const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// schemaPlan says which schema mechanisms ApplySchema runs.
type schemaPlan struct {
	Mode string
	SQL  bool
	Auto bool
}

// planSchema picks the schema mechanisms for cfg. The SQL scripts target
// Postgres, so SQLite always uses AutoMigrate. Production never auto-migrates
// unless DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE is set.
func planSchema(cfg *config.Config) (schemaPlan, error) {
	plan := schemaPlan{Mode: strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode))}
	if plan.Mode == "" {
		plan.Mode = SchemaModeHybrid
	}

	switch plan.Mode {
	case SchemaModeSQL:
		plan.SQL = true
	case SchemaModeAuto:
		if cfg.IsProduction() && !cfg.DBAutoMigrateAllowDestructive {
			return plan, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q without DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true", cfg.Env)
		}
		plan.Auto = true
	case SchemaModeHybrid:
		plan.SQL = true
		plan.Auto = !cfg.IsProduction()
	default:
		return plan, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", plan.Mode)
	}

	if cfg.DBDriver == DriverSQLite {
		plan.SQL, plan.Auto = false, true
	}
	return plan, nil
}

// ApplySchema brings users, categories and posts up to date according to DB_SCHEMA_MODE.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := planSchema(cfg)
	if err != nil {
		return err
	}

	if plan.SQL {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}
	if plan.Auto {
		middleware.Logger.Info("Running GORM AutoMigrate", slog.String("mode", plan.Mode), slog.String("env", cfg.Env))
		if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}
	return nil
}

// TableState describes one model table in the live database.
type TableState struct {
	Name   string
	Exists bool
	Rows   int64
}

// SchemaStatus describes the schema plan and the state of the blog tables.
type SchemaStatus struct {
	Mode               string
	Environment        string
	WillRunSQL         bool
	WillRunAutoMigrate bool
	AppliedVersions    []int
	PendingMigrations  []Migration
	Tables             []TableState
}

// GetSchemaStatus reports the schema plan, SQL migration progress and, per
// model table, whether it exists and how many rows it holds.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	plan, err := planSchema(cfg)
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{
		Mode:               plan.Mode,
		Environment:        cfg.Env,
		WillRunSQL:         plan.SQL,
		WillRunAutoMigrate: plan.Auto,
	}

	applied, err := NewMigrationStore(db).Applied(ctx)
	if err != nil {
		return nil, err
	}
	status.AppliedVersions = applied
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}
	for _, m := range embedded {
		if !done[m.Version] {
			status.PendingMigrations = append(status.PendingMigrations, m)
		}
	}

	tables, err := ModelTables()
	if err != nil {
		return nil, err
	}
	for _, name := range tables {
		state := TableState{Name: name, Exists: db.WithContext(ctx).Migrator().HasTable(name)}
		if state.Exists {
			if err := db.WithContext(ctx).Table(name).Count(&state.Rows).Error; err != nil {
				return nil, fmt.Errorf("count %s: %w", name, err)
			}
		}
		status.Tables = append(status.Tables, state)
	}
	return status, nil
}
