package delivery

import (
	"context"
	"errors"
	"strings"

	"github.com/devahmid/27Degres-bis-sub001/apperrors"
	"github.com/devahmid/27Degres-bis-sub001/database"
	"github.com/devahmid/27Degres-bis-sub001/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

type MethodInput struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Cost          decimal.Decimal `json:"cost"`
	IsActive      *bool           `json:"is_active"`
	EstimatedDays int             `json:"estimated_days"`
}

type MethodPatch struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Cost          *decimal.Decimal `json:"cost"`
	IsActive      *bool            `json:"is_active"`
	EstimatedDays *int             `json:"estimated_days"`
}

func (s *Service) Create(ctx context.Context, in MethodInput) (*models.DeliveryMethod, error) {
	method := models.DeliveryMethod{
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Cost:          in.Cost,
		IsActive:      true,
		EstimatedDays: in.EstimatedDays,
	}
	if in.IsActive != nil {
		method.IsActive = *in.IsActive
	}
	if err := validate(&method); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&method).Error; err != nil {
		return nil, apperrors.Classify(err)
	}
	s.logger.Info("Delivery method created", zap.Uint("delivery_method_id", method.ID), zap.String("name", method.Name))
	return &method, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.DeliveryMethod, error) {
	var method models.DeliveryMethod
	if err := s.db.WithContext(ctx).First(&method, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("delivery method %d", id)
		}
		return nil, apperrors.Classify(err)
	}
	return &method, nil
}

// List returns every method, or only the active ones when activeOnly is set.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]models.DeliveryMethod, error) {
	query := s.db.WithContext(ctx).Order("cost ASC, id ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var methods []models.DeliveryMethod
	if err := query.Find(&methods).Error; err != nil {
		return nil, apperrors.Classify(err)
	}
	return methods, nil
}

func (s *Service) Update(ctx context.Context, id uint, patch MethodPatch) (*models.DeliveryMethod, error) {
	var method models.DeliveryMethod
	err := database.Atomically(ctx, s.db, func(tx *gorm.DB) error {
		if err := database.ForUpdate(tx).First(&method, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("delivery method %d", id)
			}
			return err
		}
		if patch.Name != nil {
			method.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			method.Description = *patch.Description
		}
		if patch.Cost != nil {
			method.Cost = *patch.Cost
		}
		if patch.IsActive != nil {
			method.IsActive = *patch.IsActive
		}
		if patch.EstimatedDays != nil {
			method.EstimatedDays = *patch.EstimatedDays
		}
		if err := validate(&method); err != nil {
			return err
		}
		return tx.Model(&method).Updates(map[string]any{
			"name":           method.Name,
			"description":    method.Description,
			"cost":           method.Cost,
			"is_active":      method.IsActive,
			"estimated_days": method.EstimatedDays,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &method, nil
}

// Delete removes a method no order references. Referenced methods must be
// deactivated instead so historical orders keep their delivery details.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return database.Atomically(ctx, s.db, func(tx *gorm.DB) error {
		var method models.DeliveryMethod
		if err := database.ForUpdate(tx).First(&method, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("delivery method %d", id)
			}
			return err
		}

		var refs int64
		if err := tx.Model(&models.Order{}).Where("delivery_method_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return apperrors.Invalid("delivery method %d is used by %d order(s); deactivate it instead", id, refs)
		}
		return tx.Delete(&method).Error
	})
}

func validate(m *models.DeliveryMethod) error {
	switch {
	case m.Name == "":
		return apperrors.Invalid("delivery method name is required")
	case m.Cost.IsNegative():
		return apperrors.Invalid("delivery cost must not be negative")
	case m.EstimatedDays < 0:
		return apperrors.Invalid("estimated days must not be negative")
	}
	return nil
}
