package users

import (
	"context"
	"sync"
	"testing"

	"github.com/devahmid/27Degres-bis-sub001/apperrors"
	"github.com/devahmid/27Degres-bis-sub001/database"
	"github.com/devahmid/27Degres-bis-sub001/models"
	"github.com/devahmid/27Degres-bis-sub001/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEnsureUser_IsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)

	first, err := EnsureUser(db, "sub-1", "a@example.org")
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, first.Role)

	second, err := EnsureUser(db, "sub-1", "other@example.org")
	require.NoError(t, err)
	assert.Equal(t, "a@example.org", second.Email)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	_, err = EnsureUser(db, "", "x@example.org")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}

func TestUpdateProfile(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.Me(ctx, "sub-2", "b@example.org")
	require.NoError(t, err)

	name := "Bea"
	user, err := svc.UpdateProfile(ctx, "sub-2", ProfileUpdate{
		Name:    &name,
		Address: &models.Address{City: "Lyon", Country: "FR"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bea", user.Name)
	assert.Equal(t, "Lyon", user.Address.City)

	_, err = svc.UpdateProfile(ctx, "missing", ProfileUpdate{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestEnsureUser_RowInsertedConcurrentlyIsReused(t *testing.T) {
	db := testutil.NewDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		// Another request created the row between our lookup and insert.
		require.NoError(t, tx.Create(&models.User{ID: "sub-9", Email: "first@example.org", Role: models.RoleMember}).Error)

		user, err := EnsureUser(tx, "sub-9", "second@example.org")
		require.NoError(t, err)
		assert.Equal(t, "first@example.org", user.Email)

		// The transaction must still be usable afterwards.
		return tx.Model(user).Update("name", "Nine").Error
	})
	require.NoError(t, err)

	var got models.User
	require.NoError(t, db.First(&got, "id = ?", "sub-9").Error)
	assert.Equal(t, "Nine", got.Name)
}

func TestEnsureUser_ConcurrentFirstContact(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = database.Atomically(ctx, db, func(tx *gorm.DB) error {
				_, err := EnsureUser(tx, "sub-new", "new@example.org")
				return err
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", "sub-new").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
