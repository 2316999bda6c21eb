package repository

import (
	"errors"
	"time"

	"github.com/sponza-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplicationRepository application data access
type ApplicationRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ApplicationRepository

	GetByID(id uint) (*models.Application, error)
	GetByIDForUpdate(id uint) (*models.Application, error)
	GetByCampaignAndInfluencer(campaignID, influencerID uint) (*models.Application, error)
	Create(application *models.Application) error
	Update(application *models.Application) error
	UpdateStatusIf(id uint, fromStatus string, updates map[string]interface{}) (int64, error)
	List(filter ApplicationListFilter) ([]models.Application, int64, error)
	CountByInfluencer(influencerID uint, statuses []string) (int64, error)
}

// GormApplicationRepository GORM implementation
type GormApplicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates the application repository
func NewApplicationRepository(db *gorm.DB) *GormApplicationRepository {
	return &GormApplicationRepository{db: db}
}

// WithTx binds the repository to a transaction
func (r *GormApplicationRepository) WithTx(tx *gorm.DB) ApplicationRepository {
	if tx == nil {
		return r
	}
	return &GormApplicationRepository{db: tx}
}

// Transaction runs fn in a database transaction
func (r *GormApplicationRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID fetches an application by ID
func (r *GormApplicationRepository) GetByID(id uint) (*models.Application, error) {
	if id == 0 {
		return nil, nil
	}
	var application models.Application
	if err := r.db.Preload("Campaign").Preload("Influencer").First(&application, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &application, nil
}

// GetByIDForUpdate fetches an application by ID with a row lock
func (r *GormApplicationRepository) GetByIDForUpdate(id uint) (*models.Application, error) {
	if id == 0 {
		return nil, nil
	}
	var application models.Application
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&application, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &application, nil
}

// GetByCampaignAndInfluencer fetches the unique application pair
func (r *GormApplicationRepository) GetByCampaignAndInfluencer(campaignID, influencerID uint) (*models.Application, error) {
	if campaignID == 0 || influencerID == 0 {
		return nil, nil
	}
	var application models.Application
	if err := r.db.Where("campaign_id = ? AND influencer_id = ?", campaignID, influencerID).
		First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &application, nil
}

// Create inserts an application
func (r *GormApplicationRepository) Create(application *models.Application) error {
	return r.db.Create(application).Error
}

// Update saves an application
func (r *GormApplicationRepository) Update(application *models.Application) error {
	return r.db.Save(application).Error
}

// UpdateStatusIf applies updates only when the row still has fromStatus.
// Returns the number of rows changed so callers can detect a lost race.
func (r *GormApplicationRepository) UpdateStatusIf(id uint, fromStatus string, updates map[string]interface{}) (int64, error) {
	if id == 0 {
		return 0, nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	result := r.db.Model(&models.Application{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// List queries applications
func (r *GormApplicationRepository) List(filter ApplicationListFilter) ([]models.Application, int64, error) {
	query := r.db.Model(&models.Application{}).Preload("Campaign").Preload("Influencer")

	if filter.CampaignID != 0 {
		query = query.Where("applications.campaign_id = ?", filter.CampaignID)
	}
	if filter.InfluencerID != 0 {
		query = query.Where("applications.influencer_id = ?", filter.InfluencerID)
	}
	if filter.BrandID != 0 {
		query = query.
			Joins("JOIN campaigns ON campaigns.id = applications.campaign_id").
			Where("campaigns.brand_id = ?", filter.BrandID)
	}
	if filter.Status != "" {
		query = query.Where("applications.status = ?", filter.Status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("applications.created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("applications.created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var applications []models.Application
	if err := query.Order("applications.id DESC").Find(&applications).Error; err != nil {
		return nil, 0, err
	}
	return applications, total, nil
}

// CountByInfluencer counts an influencer's applications, optionally by status
func (r *GormApplicationRepository) CountByInfluencer(influencerID uint, statuses []string) (int64, error) {
	if influencerID == 0 {
		return 0, nil
	}
	query := r.db.Model(&models.Application{}).Where("influencer_id = ?", influencerID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
