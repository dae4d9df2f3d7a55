package repository

import (
	"fmt"
	"testing"
	"time"

	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB returns a Postgres-dialect GORM handle backed by sqlmock.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// setupSQLiteDB returns an isolated in-memory database with the schema applied.
// Foreign keys are left unenforced so cascade behavior comes from the repositories.
func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, CreatedAt: baseTime, UpdatedAt: baseTime}
	require.NoError(t, db.Omit("Posts").Create(c).Error)
	return c
}

func seedPost(t *testing.T, db *gorm.DB, title string, category *models.Category, author *models.User, published bool, offset time.Duration) *models.Post {
	t.Helper()
	p := &models.Post{
		Title:      title,
		Content:    title + " body",
		CategoryID: category.ID,
		AuthorID:   author.ID,
		Published:  published,
		CreatedAt:  baseTime.Add(offset),
		UpdatedAt:  baseTime.Add(offset),
	}
	require.NoError(t, NewPostRepository(db).Create(t.Context(), p))
	return p
}
