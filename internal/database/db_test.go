package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gorm.io/gorm/logger"
)

func TestGormLogMode(t *testing.T) {
	t.Run("Should enable statement logging at DEBUG", func(t *testing.T) {
		assert.Equal(t, logger.Info, gormLogMode("DEBUG"))
	})

	t.Run("Should default to warnings otherwise", func(t *testing.T) {
		assert.Equal(t, logger.Warn, gormLogMode("INFO"))
		assert.Equal(t, logger.Warn, gormLogMode(""))
	})
}

func TestInitRejectsUnknownBackends(t *testing.T) {
	t.Run("Should reject unsupported database URLs", func(t *testing.T) {
		_, err := Init("mysql://user@host/db", "INFO")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported database URL format")
	})
}
