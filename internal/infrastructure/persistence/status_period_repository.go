package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retribusi/backend/internal/domain/billing"
	"github.com/retribusi/backend/internal/domain/shared"
	"github.com/retribusi/backend/internal/infrastructure/persistence/models"
)

// GormStatusPeriodRepository implements StatusPeriodRepository using GORM
type GormStatusPeriodRepository struct {
	db *gorm.DB
}

// NewGormStatusPeriodRepository creates a new GormStatusPeriodRepository
func NewGormStatusPeriodRepository(db *gorm.DB) *GormStatusPeriodRepository {
	return &GormStatusPeriodRepository{db: db}
}

// FindByCustomer returns a customer's periods ordered by start
func (r *GormStatusPeriodRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) (billing.StatusPeriods, error) {
	var periodModels []models.StatusPeriodModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("start ASC").
		Find(&periodModels).Error; err != nil {
		return nil, err
	}

	periods := make(billing.StatusPeriods, len(periodModels))
	for i, model := range periodModels {
		periods[i] = *model.ToDomain()
	}
	return periods, nil
}

// FindOpenByCustomer returns the customer's open period
func (r *GormStatusPeriodRepository) FindOpenByCustomer(ctx context.Context, customerID uuid.UUID) (*billing.StatusPeriod, error) {
	var model models.StatusPeriodModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND \"end\" IS NULL", customerID).
		Order("start DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomerIDs returns periods for many customers in one query
func (r *GormStatusPeriodRepository) FindByCustomerIDs(ctx context.Context, customerIDs []uuid.UUID) ([]billing.StatusPeriod, error) {
	if len(customerIDs) == 0 {
		return []billing.StatusPeriod{}, nil
	}

	var periodModels []models.StatusPeriodModel
	if err := r.db.WithContext(ctx).
		Where("customer_id IN ?", customerIDs).
		Order("customer_id ASC, start ASC").
		Find(&periodModels).Error; err != nil {
		return nil, err
	}

	periods := make([]billing.StatusPeriod, len(periodModels))
	for i, model := range periodModels {
		periods[i] = *model.ToDomain()
	}
	return periods, nil
}

// Save creates or updates a period
func (r *GormStatusPeriodRepository) Save(ctx context.Context, period *billing.StatusPeriod) error {
	model := models.StatusPeriodModelFromDomain(period)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveToggle persists a status toggle atomically: the updated customer,
// the closed current period (nil when the customer had no open period)
// and the newly opened period, in one transaction.
func (r *GormStatusPeriodRepository) SaveToggle(ctx context.Context, customer *billing.Customer, closed *billing.StatusPeriod, opened *billing.StatusPeriod) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(models.CustomerModelFromDomain(customer)).Error; err != nil {
			return err
		}
		if closed != nil {
			if err := tx.Save(models.StatusPeriodModelFromDomain(closed)).Error; err != nil {
				return err
			}
		}
		return tx.Save(models.StatusPeriodModelFromDomain(opened)).Error
	})
}

// Ensure GormStatusPeriodRepository implements StatusPeriodRepository
var _ billing.StatusPeriodRepository = (*GormStatusPeriodRepository)(nil)
