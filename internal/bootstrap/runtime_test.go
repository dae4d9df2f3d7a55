package bootstrap

import (
	"fmt"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:          "development",
		DBDriver:     database.DriverSQLite,
		DBSQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}
}

func openDB(t *testing.T, cfg *config.Config) *gorm.DB {
	t.Helper()
	db, err := database.Connect(cfg)
	require.NoError(t, err)
	return db
}

func TestEnsureDevRootAdmin_Disabled(t *testing.T) {
	cfg := testConfig()
	db := openDB(t, cfg)

	require.NoError(t, ensureDevRootAdmin(cfg, db))

	cfg.DevBootstrapRoot = true
	cfg.Env = "production"
	require.NoError(t, ensureDevRootAdmin(cfg, db))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEnsureDevRootAdmin_RequiresPassword(t *testing.T) {
	cfg := testConfig()
	cfg.DevBootstrapRoot = true
	assert.Error(t, ensureDevRootAdmin(cfg, openDB(t, cfg)))
}

func TestEnsureDevRootAdmin_CreatesAndPromotes(t *testing.T) {
	cfg := testConfig()
	cfg.DevBootstrapRoot = true
	cfg.DevRootPassword = "root-password-1"
	db := openDB(t, cfg)

	require.NoError(t, ensureDevRootAdmin(cfg, db))

	var root models.User
	require.NoError(t, db.Where("username = ?", "inkwell_root").First(&root).Error)
	assert.True(t, root.IsAdmin)
	assert.Equal(t, "root@inkwell.local", root.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(root.Password), []byte("root-password-1")))

	require.NoError(t, db.Model(&root).Update("is_admin", false).Error)
	require.NoError(t, ensureDevRootAdmin(cfg, db))

	var again models.User
	require.NoError(t, db.First(&again, root.ID).Error)
	assert.True(t, again.IsAdmin)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestInitRuntime_SeedsBuiltIns(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.RedisURL = mr.Addr()

	db, rdb, err := InitRuntime(cfg, Options{SeedBuiltIns: true})
	require.NoError(t, err)
	require.NotNil(t, rdb)
	t.Cleanup(func() { _ = rdb.Close() })

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Positive(t, count)
}
