package database

import (
	"fmt"
	"testing"

	"github.com/sangkips/pos-ledger/internal/config"
	"github.com/sangkips/pos-ledger/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestNewSQLiteDB_Migrates(t *testing.T) {
	db, err := NewSQLiteDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()), "silent")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	for _, model := range []interface{}{
		&entity.InventoryItem{}, &entity.Sale{}, &entity.SaleItem{}, &entity.ReceiptCounter{},
		&entity.Customer{}, &entity.CreditLedgerEntry{}, &entity.BusinessDay{}, &entity.IdempotencyKey{},
	} {
		assert.True(t, db.Migrator().HasTable(model), "%T table missing", model)
	}
}

func TestNewDB_UnknownDriver(t *testing.T) {
	_, err := NewDB(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, parseLogLevel("SILENT"))
	assert.Equal(t, gormlogger.Info, parseLogLevel("info"))
	assert.Equal(t, gormlogger.Warn, parseLogLevel(""))
}
