// Package testutil provides an in-memory database for package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/devahmid/27Degres-bis-sub001/database"
	"github.com/devahmid/27Degres-bis-sub001/models"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB returns a migrated, private in-memory SQLite database. The pool is limited to
// a single connection, so concurrent transactions queue up instead of interleaving.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Money parses a decimal literal, failing the test on malformed input.
func Money(t testing.TB, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func SeedProduct(t testing.TB, db *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:          name,
		Price:         Money(t, price),
		StockQuantity: stock,
		Status:        models.ProductStatusActive,
	}
	if stock == 0 {
		p.Status = models.ProductStatusSoldOut
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func SeedDeliveryMethod(t testing.TB, db *gorm.DB, name, cost string, active bool) *models.DeliveryMethod {
	t.Helper()
	m := &models.DeliveryMethod{Name: name, Cost: Money(t, cost), IsActive: active, EstimatedDays: 3}
	require.NoError(t, db.Create(m).Error)
	return m
}

func SeedUser(t testing.TB, db *gorm.DB, id string) *models.User {
	t.Helper()
	u := &models.User{ID: id, Email: id + "@example.org", Name: id, Role: models.RoleMember}
	require.NoError(t, db.Create(u).Error)
	return u
}

// Stock reads the current stock counter straight from the table.
func Stock(t testing.TB, db *gorm.DB, productID uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, db.Unscoped().First(&p, productID).Error)
	return p.StockQuantity
}
