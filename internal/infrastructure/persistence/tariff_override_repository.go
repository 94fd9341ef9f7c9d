package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retribusi/backend/internal/domain/billing"
	"github.com/retribusi/backend/internal/domain/shared"
	"github.com/retribusi/backend/internal/domain/shared/valueobject"
	"github.com/retribusi/backend/internal/infrastructure/persistence/models"
)

// GormTariffOverrideRepository implements TariffOverrideRepository using GORM
type GormTariffOverrideRepository struct {
	db *gorm.DB
}

// NewGormTariffOverrideRepository creates a new GormTariffOverrideRepository
func NewGormTariffOverrideRepository(db *gorm.DB) *GormTariffOverrideRepository {
	return &GormTariffOverrideRepository{db: db}
}

// FindByCustomerAndMonth returns the override for one customer/month
func (r *GormTariffOverrideRepository) FindByCustomerAndMonth(ctx context.Context, customerID uuid.UUID, month valueobject.Month) (*billing.TariffOverride, error) {
	var model models.TariffOverrideModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND month = ?", customerID, month).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer returns all overrides for a customer ordered by month
func (r *GormTariffOverrideRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]billing.TariffOverride, error) {
	var overrideModels []models.TariffOverrideModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("month ASC").
		Find(&overrideModels).Error; err != nil {
		return nil, err
	}

	overrides := make([]billing.TariffOverride, len(overrideModels))
	for i, model := range overrideModels {
		overrides[i] = *model.ToDomain()
	}
	return overrides, nil
}

// FindByCustomerIDs returns overrides for many customers in one query
func (r *GormTariffOverrideRepository) FindByCustomerIDs(ctx context.Context, customerIDs []uuid.UUID) ([]billing.TariffOverride, error) {
	if len(customerIDs) == 0 {
		return []billing.TariffOverride{}, nil
	}

	var overrideModels []models.TariffOverrideModel
	if err := r.db.WithContext(ctx).
		Where("customer_id IN ?", customerIDs).
		Order("customer_id ASC, month ASC").
		Find(&overrideModels).Error; err != nil {
		return nil, err
	}

	overrides := make([]billing.TariffOverride, len(overrideModels))
	for i, model := range overrideModels {
		overrides[i] = *model.ToDomain()
	}
	return overrides, nil
}

// Save creates or updates an override
func (r *GormTariffOverrideRepository) Save(ctx context.Context, override *billing.TariffOverride) error {
	model := models.TariffOverrideModelFromDomain(override)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes an override
func (r *GormTariffOverrideRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TariffOverrideModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormTariffOverrideRepository implements TariffOverrideRepository
var _ billing.TariffOverrideRepository = (*GormTariffOverrideRepository)(nil)
