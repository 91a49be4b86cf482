package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/devahmid/27Degres-bis-sub001/apperrors"
	"github.com/devahmid/27Degres-bis-sub001/database"
	"github.com/devahmid/27Degres-bis-sub001/models"
	"github.com/devahmid/27Degres-bis-sub001/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAtomically_RollsBackEveryWriteOnError(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.SeedProduct(t, db, "Scarf", "12.50", 5)

	err := database.Atomically(context.Background(), db, func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("id = ?", p.ID).
			Update("stock_quantity", 1).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.User{ID: "u-1"}).Error; err != nil {
			return err
		}
		return apperrors.Invalid("abort")
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	assert.Equal(t, 5, testutil.Stock(t, db, p.ID))

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}

func TestAtomically_ClassifiesErrors(t *testing.T) {
	db := testutil.NewDB(t)

	err := database.Atomically(context.Background(), db, func(tx *gorm.DB) error {
		var p models.Product
		return tx.First(&p, 999).Error
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = database.Atomically(context.Background(), db, func(tx *gorm.DB) error {
		return errors.New("disk full")
	})
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

func TestAtomically_CommitsOnSuccess(t *testing.T) {
	db := testutil.NewDB(t)

	err := database.Atomically(context.Background(), db, func(tx *gorm.DB) error {
		return tx.Create(&models.User{ID: "u-2", Name: "Ada"}).Error
	})
	require.NoError(t, err)

	var u models.User
	require.NoError(t, db.First(&u, "id = ?", "u-2").Error)
	assert.Equal(t, "Ada", u.Name)
}

func TestSnapshotAndPing(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedProduct(t, db, "Cap", "8", 1)

	var count int64
	err := database.Snapshot(context.Background(), db, func(tx *gorm.DB) error {
		return tx.Model(&models.Product{}).Count(&count).Error
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	assert.NoError(t, database.Ping(context.Background(), db))
}
