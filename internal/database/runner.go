package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"inkwell/internal/middleware"

	"gorm.io/gorm"
)

// appliedMigration is one row of schema_migrations.
type appliedMigration struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255;not null"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (appliedMigration) TableName() string {
	return "schema_migrations"
}

// MigrationStore records which migrations have run against a database.
type MigrationStore interface {
	Applied(ctx context.Context) ([]int, error)
	Apply(ctx context.Context, m Migration) error
	Revert(ctx context.Context, m Migration) error
}

type gormMigrationStore struct {
	db *gorm.DB
}

// NewMigrationStore returns a store backed by the schema_migrations table.
func NewMigrationStore(db *gorm.DB) MigrationStore {
	return &gormMigrationStore{db: db}
}

// Applied returns applied versions in ascending order; none when the table is missing.
func (s *gormMigrationStore) Applied(ctx context.Context) ([]int, error) {
	db := s.db.WithContext(ctx)
	if !db.Migrator().HasTable(&appliedMigration{}) {
		return nil, nil
	}
	var versions []int
	if err := db.Model(&appliedMigration{}).Order("version ASC").Pluck("version", &versions).Error; err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	return versions, nil
}

// Apply runs the up script and records it in one transaction.
func (s *gormMigrationStore) Apply(ctx context.Context, m Migration) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.Up).Error; err != nil {
			return fmt.Errorf("apply %s: %w", m, err)
		}
		return tx.Create(&appliedMigration{Version: m.Version, Name: m.Name}).Error
	})
}

// Revert runs the down script and forgets the migration in one transaction.
func (s *gormMigrationStore) Revert(ctx context.Context, m Migration) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.Down).Error; err != nil {
			return fmt.Errorf("revert %s: %w", m, err)
		}
		return tx.Where("version = ?", m.Version).Delete(&appliedMigration{}).Error
	})
}

// RunMigrations applies every pending embedded migration.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	return runMigrations(ctx, db, embedded)
}

func runMigrations(ctx context.Context, db *gorm.DB, registered []Migration) error {
	if err := db.WithContext(ctx).AutoMigrate(&appliedMigration{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	store := NewMigrationStore(db)
	applied, err := store.Applied(ctx)
	if err != nil {
		return err
	}
	return applyPending(ctx, store, applied, registered)
}

func applyPending(ctx context.Context, store MigrationStore, applied []int, registered []Migration) error {
	if err := validateAppliedVersions(applied, registered); err != nil {
		return err
	}

	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}
	for _, m := range registered {
		if done[m.Version] {
			continue
		}
		if err := store.Apply(ctx, m); err != nil {
			return err
		}
		middleware.Logger.Info("Migration applied", slog.String("migration", m.String()), slog.Any("tables", m.Tables))
	}
	return nil
}

// validateAppliedVersions rejects a database migrated by a newer build.
func validateAppliedVersions(applied []int, registered []Migration) error {
	var unknown []string
	for _, v := range applied {
		if _, ok := findMigration(registered, v); !ok {
			unknown = append(unknown, fmt.Sprintf("%06d", v))
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("schema_migrations lists versions this build does not know: %s", strings.Join(unknown, ", "))
}

// RollbackMigration reverts the latest applied migration. version may be 0 for
// "the latest"; any other value must name the latest applied version.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) (Migration, error) {
	return rollback(ctx, NewMigrationStore(db), embedded, version)
}

func rollback(ctx context.Context, store MigrationStore, registered []Migration, version int) (Migration, error) {
	applied, err := store.Applied(ctx)
	if err != nil {
		return Migration{}, err
	}
	if len(applied) == 0 {
		return Migration{}, errors.New("no migrations have been applied")
	}

	latest := applied[len(applied)-1]
	if version == 0 {
		version = latest
	}
	if version != latest {
		return Migration{}, fmt.Errorf("migration %06d is not the latest applied (%06d); roll back newer migrations first", version, latest)
	}

	m, ok := findMigration(registered, version)
	if !ok {
		return Migration{}, fmt.Errorf("migration %06d is not part of this build", version)
	}
	if err := store.Revert(ctx, m); err != nil {
		return Migration{}, err
	}
	middleware.Logger.Info("Migration rolled back", slog.String("migration", m.String()))
	return m, nil
}
