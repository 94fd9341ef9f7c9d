package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/retribusi/backend/internal/domain/billing"
	"github.com/retribusi/backend/internal/domain/shared"
	"github.com/retribusi/backend/internal/domain/shared/valueobject"
	"github.com/retribusi/backend/internal/infrastructure/persistence/models"
)

// GormTariffHistoryRepository implements TariffHistoryRepository using GORM
type GormTariffHistoryRepository struct {
	db *gorm.DB
}

// NewGormTariffHistoryRepository creates a new GormTariffHistoryRepository
func NewGormTariffHistoryRepository(db *gorm.DB) *GormTariffHistoryRepository {
	return &GormTariffHistoryRepository{db: db}
}

// FindByCustomerAndMonth returns the history entry for one customer/month
func (r *GormTariffHistoryRepository) FindByCustomerAndMonth(ctx context.Context, customerID uuid.UUID, month valueobject.Month) (*billing.TariffHistory, error) {
	var model models.TariffHistoryModel
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

// FindByCustomer returns all history entries for a customer ordered by month
func (r *GormTariffHistoryRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]billing.TariffHistory, error) {
	var historyModels []models.TariffHistoryModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("month ASC").
		Find(&historyModels).Error; err != nil {
		return nil, err
	}

	histories := make([]billing.TariffHistory, len(historyModels))
	for i, model := range historyModels {
		histories[i] = *model.ToDomain()
	}
	return histories, nil
}

// FindByCustomerIDs returns history entries for many customers in one query
func (r *GormTariffHistoryRepository) FindByCustomerIDs(ctx context.Context, customerIDs []uuid.UUID) ([]billing.TariffHistory, error) {
	if len(customerIDs) == 0 {
		return []billing.TariffHistory{}, nil
	}

	var historyModels []models.TariffHistoryModel
	if err := r.db.WithContext(ctx).
		Where("customer_id IN ?", customerIDs).
		Order("customer_id ASC, month ASC").
		Find(&historyModels).Error; err != nil {
		return nil, err
	}

	histories := make([]billing.TariffHistory, len(historyModels))
	for i, model := range historyModels {
		histories[i] = *model.ToDomain()
	}
	return histories, nil
}

// CreateIfAbsent inserts the entry unless one already exists for the
// same (customer, month). The unique index backs the conflict target,
// so concurrent preservation runs cannot overwrite each other.
func (r *GormTariffHistoryRepository) CreateIfAbsent(ctx context.Context, history *billing.TariffHistory) (bool, error) {
	model := models.TariffHistoryModelFromDomain(history)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}, {Name: "month"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a history entry
func (r *GormTariffHistoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TariffHistoryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormTariffHistoryRepository implements TariffHistoryRepository
var _ billing.TariffHistoryRepository = (*GormTariffHistoryRepository)(nil)
