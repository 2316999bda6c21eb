package repository

import (
	"errors"
	"time"

	"github.com/sponza-next/internal/constants"
	"github.com/sponza-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepository subscription data access
type SubscriptionRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) SubscriptionRepository

	GetByID(id uint) (*models.Subscription, error)
	GetByIDForUpdate(id uint) (*models.Subscription, error)
	GetCurrentByBrand(brandID uint) (*models.Subscription, error)
	GetPendingByBrandAndPlan(brandID uint, planType string) (*models.Subscription, error)
	Create(subscription *models.Subscription) error
	Update(subscription *models.Subscription) error
	UpdateStatusIf(id uint, fromStatus string, updates map[string]interface{}) (int64, error)
	List(filter SubscriptionListFilter) ([]models.Subscription, int64, error)
	ListExpiredActive(before time.Time, limit int) ([]models.Subscription, error)
}

// GormSubscriptionRepository GORM implementation
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates the subscription repository
func NewSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// WithTx binds the repository to a transaction
func (r *GormSubscriptionRepository) WithTx(tx *gorm.DB) SubscriptionRepository {
	if tx == nil {
		return r
	}
	return &GormSubscriptionRepository{db: tx}
}

// Transaction runs fn in a database transaction
func (r *GormSubscriptionRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID fetches a subscription by ID
func (r *GormSubscriptionRepository) GetByID(id uint) (*models.Subscription, error) {
	if id == 0 {
		return nil, nil
	}
	var subscription models.Subscription
	if err := r.db.Preload("Brand").First(&subscription, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &subscription, nil
}

// GetByIDForUpdate fetches a subscription by ID with a row lock
func (r *GormSubscriptionRepository) GetByIDForUpdate(id uint) (*models.Subscription, error) {
	if id == 0 {
		return nil, nil
	}
	var subscription models.Subscription
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&subscription, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &subscription, nil
}

// GetCurrentByBrand returns the brand's newest non-pending subscription.
func (r *GormSubscriptionRepository) GetCurrentByBrand(brandID uint) (*models.Subscription, error) {
	if brandID == 0 {
		return nil, nil
	}
	var subscription models.Subscription
	err := r.db.Where("brand_id = ? AND status IN ?", brandID, []string{
		constants.SubscriptionStatusActive,
		constants.SubscriptionStatusCancelled,
		constants.SubscriptionStatusExpired,
	}).Order("id DESC").First(&subscription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &subscription, nil
}

// GetPendingByBrandAndPlan returns an unpaid checkout for the same plan so
// repeated order creation reuses it.
func (r *GormSubscriptionRepository) GetPendingByBrandAndPlan(brandID uint, planType string) (*models.Subscription, error) {
	if brandID == 0 {
		return nil, nil
	}
	var subscription models.Subscription
	err := r.db.Where("brand_id = ? AND plan_type = ? AND status = ?",
		brandID, planType, constants.SubscriptionStatusPending).
		Order("id DESC").First(&subscription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &subscription, nil
}

// Create inserts a subscription
func (r *GormSubscriptionRepository) Create(subscription *models.Subscription) error {
	return r.db.Create(subscription).Error
}

// Update saves a subscription
func (r *GormSubscriptionRepository) Update(subscription *models.Subscription) error {
	return r.db.Save(subscription).Error
}

// UpdateStatusIf applies updates only when the row still has fromStatus.
func (r *GormSubscriptionRepository) UpdateStatusIf(id uint, fromStatus string, updates map[string]interface{}) (int64, error) {
	if id == 0 {
		return 0, nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	result := r.db.Model(&models.Subscription{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// List queries subscriptions
func (r *GormSubscriptionRepository) List(filter SubscriptionListFilter) ([]models.Subscription, int64, error) {
	query := r.db.Model(&models.Subscription{}).Preload("Brand")

	if filter.BrandID != 0 {
		query = query.Where("brand_id = ?", filter.BrandID)
	}
	if filter.PlanType != "" {
		query = query.Where("plan_type = ?", filter.PlanType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var subscriptions []models.Subscription
	if err := query.Order("id DESC").Find(&subscriptions).Error; err != nil {
		return nil, 0, err
	}
	return subscriptions, total, nil
}

// ListExpiredActive returns paid subscriptions whose period has lapsed.
// Cancelled rows are included: cancellation keeps entitlements until the
// period end, then the sweep moves them to expired too.
func (r *GormSubscriptionRepository) ListExpiredActive(before time.Time, limit int) ([]models.Subscription, error) {
	query := r.db.Where("status IN ? AND end_date IS NOT NULL AND end_date <= ?",
		[]string{constants.SubscriptionStatusActive, constants.SubscriptionStatusCancelled}, before).
		Where("plan_type <> ?", constants.SubscriptionPlanFree).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var subscriptions []models.Subscription
	if err := query.Find(&subscriptions).Error; err != nil {
		return nil, err
	}
	return subscriptions, nil
}
