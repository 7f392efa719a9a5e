package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/cppla/microforum/models"
)

func TestOpenDatabase_SQLite(t *testing.T) {
	cfg := AppConfig{
		DBDriver:   "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "forum.db"),
		LogLevel:   "silent",
	}

	db, err := OpenDatabase(cfg)
	require.NoError(t, err)

	for _, m := range []interface{}{&models.User{}, &models.Post{}, &models.Comment{}} {
		assert.True(t, db.Migrator().HasTable(m), "%T table should exist", m)
	}
}

func TestOpenDatabase_UnknownDriver(t *testing.T) {
	_, err := OpenDatabase(AppConfig{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestMysqlDSN(t *testing.T) {
	cfg := AppConfig{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "3306", DBName: "forum"}
	assert.Equal(t, "u:p@tcp(db:3306)/forum?charset=utf8mb4&parseTime=True&loc=Local", mysqlDSN(cfg))

	cfg.DatabaseURI = "custom"
	assert.Equal(t, "custom", mysqlDSN(cfg))
}

func TestToGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, toGormLogLevel("debug"))
	assert.Equal(t, logger.Warn, toGormLogLevel("info"))
	assert.Equal(t, logger.Silent, toGormLogLevel("silent"))
}
