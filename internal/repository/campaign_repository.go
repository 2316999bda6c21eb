package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/sponza-next/internal/constants"
	"github.com/sponza-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CampaignCounterDelta adjusts the denormalized application counters on a
// campaign row. Deltas may be negative.
type CampaignCounterDelta struct {
	Total    int64
	Pending  int64
	Accepted int64
	Rejected int64
}

// CampaignRepository campaign data access
type CampaignRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CampaignRepository

	GetByID(id uint) (*models.Campaign, error)
	GetByIDForUpdate(id uint) (*models.Campaign, error)
	Create(campaign *models.Campaign) error
	Update(campaign *models.Campaign) error
	UpdateStatus(id uint, from []string, to string) (int64, error)
	Delete(id uint) error
	List(filter CampaignListFilter) ([]models.Campaign, int64, error)
	CountByBrand(brandID uint, statuses []string) (int64, error)
	ApplyCounterDelta(id uint, delta CampaignCounterDelta) error
	CountApplicationsByStatus(id uint) (map[string]int64, error)
	SetCounters(id uint, total, pending, accepted, rejected int64) error
}

// GormCampaignRepository GORM implementation
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates the campaign repository
func NewCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// WithTx binds the repository to a transaction
func (r *GormCampaignRepository) WithTx(tx *gorm.DB) CampaignRepository {
	if tx == nil {
		return r
	}
	return &GormCampaignRepository{db: tx}
}

// Transaction runs fn in a database transaction
func (r *GormCampaignRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID fetches a campaign by ID
func (r *GormCampaignRepository) GetByID(id uint) (*models.Campaign, error) {
	if id == 0 {
		return nil, nil
	}
	var campaign models.Campaign
	if err := r.db.Preload("Brand").First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &campaign, nil
}

// GetByIDForUpdate fetches a campaign by ID with a row lock
func (r *GormCampaignRepository) GetByIDForUpdate(id uint) (*models.Campaign, error) {
	if id == 0 {
		return nil, nil
	}
	var campaign models.Campaign
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &campaign, nil
}

// Create inserts a campaign
func (r *GormCampaignRepository) Create(campaign *models.Campaign) error {
	return r.db.Create(campaign).Error
}

// Update saves a campaign
func (r *GormCampaignRepository) Update(campaign *models.Campaign) error {
	return r.db.Save(campaign).Error
}

// UpdateStatus moves a campaign to a new status only when its current
// status is one of from. Returns the number of rows changed.
func (r *GormCampaignRepository) UpdateStatus(id uint, from []string, to string) (int64, error) {
	if id == 0 {
		return 0, nil
	}
	query := r.db.Model(&models.Campaign{}).Where("id = ?", id)
	if len(from) > 0 {
		query = query.Where("status IN ?", from)
	}
	result := query.Updates(map[string]interface{}{
		"status":     strings.TrimSpace(to),
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Delete soft deletes a campaign
func (r *GormCampaignRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Campaign{}, id).Error
}

// List queries campaigns
func (r *GormCampaignRepository) List(filter CampaignListFilter) ([]models.Campaign, int64, error) {
	query := r.db.Model(&models.Campaign{}).Preload("Brand")

	if filter.BrandID != 0 {
		query = query.Where("brand_id = ?", filter.BrandID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.OnlyActive {
		query = query.Where("status = ?", constants.CampaignStatusActive)
	}
	if platform := strings.TrimSpace(filter.Platform); platform != "" {
		query = query.Where("platforms LIKE ?", "%"+platform+"%")
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
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

	var campaigns []models.Campaign
	if err := query.Order("id DESC").Find(&campaigns).Error; err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

// CountByBrand counts a brand's campaigns, optionally by status
func (r *GormCampaignRepository) CountByBrand(brandID uint, statuses []string) (int64, error) {
	if brandID == 0 {
		return 0, nil
	}
	query := r.db.Model(&models.Campaign{}).Where("brand_id = ?", brandID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// ApplyCounterDelta atomically adjusts application counters
func (r *GormCampaignRepository) ApplyCounterDelta(id uint, delta CampaignCounterDelta) error {
	if id == 0 {
		return nil
	}
	updates := map[string]interface{}{"updated_at": time.Now()}
	if delta.Total != 0 {
		updates["total_applications"] = gorm.Expr("total_applications + ?", delta.Total)
	}
	if delta.Pending != 0 {
		updates["pending_applications"] = gorm.Expr("pending_applications + ?", delta.Pending)
	}
	if delta.Accepted != 0 {
		updates["accepted_applications"] = gorm.Expr("accepted_applications + ?", delta.Accepted)
	}
	if delta.Rejected != 0 {
		updates["rejected_applications"] = gorm.Expr("rejected_applications + ?", delta.Rejected)
	}
	return r.db.Model(&models.Campaign{}).Where("id = ?", id).Updates(updates).Error
}

// CountApplicationsByStatus returns live application counts grouped by status
func (r *GormCampaignRepository) CountApplicationsByStatus(id uint) (map[string]int64, error) {
	counts := make(map[string]int64)
	if id == 0 {
		return counts, nil
	}
	var rows []struct {
		Status string `gorm:"column:status"`
		Total  int64  `gorm:"column:total"`
	}
	if err := r.db.Model(&models.Application{}).
		Select("status, COUNT(*) AS total").
		Where("campaign_id = ?", id).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// SetCounters overwrites the denormalized counters
func (r *GormCampaignRepository) SetCounters(id uint, total, pending, accepted, rejected int64) error {
	if id == 0 {
		return nil
	}
	return r.db.Model(&models.Campaign{}).Where("id = ?", id).Updates(map[string]interface{}{
		"total_applications":    total,
		"pending_applications":  pending,
		"accepted_applications": accepted,
		"rejected_applications": rejected,
		"updated_at":            time.Now(),
	}).Error
}
