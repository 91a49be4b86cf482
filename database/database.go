package database

import (
	"context"
	"database/sql"

	"github.com/devahmid/27Degres-bis-sub001/apperrors"
	"github.com/devahmid/27Degres-bis-sub001/config"
	"github.com/devahmid/27Degres-bis-sub001/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Open sets up the GORM connection to postgres.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	log.Info("Database connected", zap.String("dialect", db.Dialector.Name()))
	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.DeliveryMethod{},
		&models.Order{},
		&models.OrderItem{},
	)
}

// TxFunc is the body of an atomic unit. It must only use the handle it is given.
type TxFunc func(tx *gorm.DB) error

// Atomically runs fn as one all-or-nothing unit: a returned error or panic rolls back
// every write made through tx. The error is classified through apperrors, so callers
// see NotFound/InvalidRequest untouched and driver failures as Unavailable.
func Atomically(ctx context.Context, db *gorm.DB, fn TxFunc) error {
	return apperrors.Classify(db.WithContext(ctx).Transaction(fn))
}

// Snapshot runs fn in a read-only transaction. On postgres the transaction is
// REPEATABLE READ so every query inside fn sees the same snapshot.
func Snapshot(ctx context.Context, db *gorm.DB, fn TxFunc) error {
	var opts *sql.TxOptions
	if db.Dialector.Name() == "postgres" {
		opts = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return apperrors.Classify(db.WithContext(ctx).Transaction(fn, opts))
}

// ForUpdate row-locks the rows read through tx until the transaction ends. SQLite
// has no row locks (its writers are already serialized), so the clause is only added
// on postgres.
func ForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// Ping checks the underlying connection pool.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
