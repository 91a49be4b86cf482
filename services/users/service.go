package users

import (
	"context"
	"errors"

	"github.com/devahmid/27Degres-bis-sub001/apperrors"
	"github.com/devahmid/27Degres-bis-sub001/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type ProfileUpdate struct {
	Name    *string         `json:"name"`
	Phone   *string         `json:"phone"`
	Address *models.Address `json:"address"`
}

// EnsureUser makes sure the caller has a row so orders can reference it. It runs on
// the handle it is given, typically the transaction of an atomic unit.
func EnsureUser(tx *gorm.DB, id, email string) (*models.User, error) {
	if id == "" {
		return nil, apperrors.Invalid("caller identity is missing")
	}
	// Insert-or-ignore, then read: two first orders from the same new user may race
	// here and must both end up with the existing row.
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.User{ID: id, Email: email, Role: models.RoleMember}).Error; err != nil {
		return nil, err
	}
	var user models.User
	if err := tx.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user %s", id)
		}
		return nil, apperrors.Classify(err)
	}
	return &user, nil
}

// Me returns the caller, creating the row on first contact.
func (s *Service) Me(ctx context.Context, id, email string) (*models.User, error) {
	user, err := EnsureUser(s.db.WithContext(ctx), id, email)
	return user, apperrors.Classify(err)
}

func (s *Service) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Address != nil {
		updates["street"] = in.Address.Street
		updates["city"] = in.Address.City
		updates["state"] = in.Address.State
		updates["postal_code"] = in.Address.PostalCode
		updates["country"] = in.Address.Country
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
			return nil, apperrors.Classify(err)
		}
	}
	return s.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).
		Select("id", "email", "name", "phone", "role", "created_at", "updated_at").
		Order("created_at desc").
		Find(&users).Error; err != nil {
		return nil, apperrors.Classify(err)
	}
	return users, nil
}
