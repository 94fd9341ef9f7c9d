package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retribusi/backend/internal/domain/billing"
	"github.com/retribusi/backend/internal/domain/shared"
	"github.com/retribusi/backend/internal/infrastructure/persistence/models"
)

// GormTariffCategoryRepository implements TariffCategoryRepository using GORM
type GormTariffCategoryRepository struct {
	db *gorm.DB
}

// NewGormTariffCategoryRepository creates a new GormTariffCategoryRepository
func NewGormTariffCategoryRepository(db *gorm.DB) *GormTariffCategoryRepository {
	return &GormTariffCategoryRepository{db: db}
}

// FindByID finds a tariff category by its ID
func (r *GormTariffCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.TariffCategory, error) {
	var model models.TariffCategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all tariff categories matching the filter
func (r *GormTariffCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.TariffCategory, error) {
	var categoryModels []models.TariffCategoryModel
	query := r.db.WithContext(ctx).Model(&models.TariffCategoryModel{})

	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("name ASC")
	}

	if err := query.Find(&categoryModels).Error; err != nil {
		return nil, err
	}

	categories := make([]billing.TariffCategory, len(categoryModels))
	for i, model := range categoryModels {
		categories[i] = *model.ToDomain()
	}
	return categories, nil
}

// Save creates or updates a tariff category
func (r *GormTariffCategoryRepository) Save(ctx context.Context, category *billing.TariffCategory) error {
	model := models.TariffCategoryModelFromDomain(category)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a tariff category
func (r *GormTariffCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TariffCategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts tariff categories matching the filter
func (r *GormTariffCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.TariffCategoryModel{})
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormTariffCategoryRepository implements TariffCategoryRepository
var _ billing.TariffCategoryRepository = (*GormTariffCategoryRepository)(nil)
