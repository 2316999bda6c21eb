package repository

import (
	"errors"
	"time"

	"github.com/sponza-next/internal/models"

	"gorm.io/gorm"
)

// ContentRepository campaign content data access
type ContentRepository interface {
	GetByID(id uint) (*models.Content, error)
	Create(content *models.Content) error
	Update(content *models.Content) error
	UpdateStatusIf(id uint, fromStatuses []string, updates map[string]interface{}) (int64, error)
	UpdateMetrics(id uint, views, likes, comments, shares int64) error
	List(filter ContentListFilter) ([]models.Content, int64, error)
	SumMetricsByCampaign(campaignID uint) (ContentMetricsAggregate, error)
}

// ContentMetricsAggregate summed engagement metrics
type ContentMetricsAggregate struct {
	Count    int64
	Views    int64
	Likes    int64
	Comments int64
	Shares   int64
}

// GormContentRepository GORM implementation
type GormContentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates the content repository
func NewContentRepository(db *gorm.DB) *GormContentRepository {
	return &GormContentRepository{db: db}
}

// GetByID fetches content by ID
func (r *GormContentRepository) GetByID(id uint) (*models.Content, error) {
	if id == 0 {
		return nil, nil
	}
	var content models.Content
	if err := r.db.Preload("Campaign").Preload("Influencer").First(&content, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &content, nil
}

// Create inserts content
func (r *GormContentRepository) Create(content *models.Content) error {
	return r.db.Create(content).Error
}

// Update saves content
func (r *GormContentRepository) Update(content *models.Content) error {
	return r.db.Save(content).Error
}

// UpdateStatusIf applies updates only when the row status is in fromStatuses.
func (r *GormContentRepository) UpdateStatusIf(id uint, fromStatuses []string, updates map[string]interface{}) (int64, error) {
	if id == 0 {
		return 0, nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	query := r.db.Model(&models.Content{}).Where("id = ?", id)
	if len(fromStatuses) > 0 {
		query = query.Where("status IN ?", fromStatuses)
	}
	result := query.Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// UpdateMetrics overwrites engagement metrics
func (r *GormContentRepository) UpdateMetrics(id uint, views, likes, comments, shares int64) error {
	if id == 0 {
		return nil
	}
	return r.db.Model(&models.Content{}).Where("id = ?", id).Updates(map[string]interface{}{
		"views":      views,
		"likes":      likes,
		"comments":   comments,
		"shares":     shares,
		"updated_at": time.Now(),
	}).Error
}

// List queries content
func (r *GormContentRepository) List(filter ContentListFilter) ([]models.Content, int64, error) {
	query := r.db.Model(&models.Content{}).Preload("Campaign").Preload("Influencer")

	if filter.CampaignID != 0 {
		query = query.Where("contents.campaign_id = ?", filter.CampaignID)
	}
	if filter.InfluencerID != 0 {
		query = query.Where("contents.influencer_id = ?", filter.InfluencerID)
	}
	if filter.BrandID != 0 {
		query = query.
			Joins("JOIN campaigns ON campaigns.id = contents.campaign_id").
			Where("campaigns.brand_id = ?", filter.BrandID)
	}
	if filter.Platform != "" {
		query = query.Where("contents.platform = ?", filter.Platform)
	}
	if filter.Status != "" {
		query = query.Where("contents.status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var contents []models.Content
	if err := query.Order("contents.id DESC").Find(&contents).Error; err != nil {
		return nil, 0, err
	}
	return contents, total, nil
}

// SumMetricsByCampaign sums engagement metrics across a campaign's content
func (r *GormContentRepository) SumMetricsByCampaign(campaignID uint) (ContentMetricsAggregate, error) {
	var agg ContentMetricsAggregate
	if campaignID == 0 {
		return agg, nil
	}
	var row struct {
		Views    int64 `gorm:"column:views"`
		Likes    int64 `gorm:"column:likes"`
		Comments int64 `gorm:"column:comments"`
		Shares   int64 `gorm:"column:shares"`
	}
	if err := r.db.Model(&models.Content{}).
		Select("COALESCE(SUM(views), 0) AS views, COALESCE(SUM(likes), 0) AS likes, COALESCE(SUM(comments), 0) AS comments, COALESCE(SUM(shares), 0) AS shares").
		Where("campaign_id = ?", campaignID).
		Scan(&row).Error; err != nil {
		return agg, err
	}
	agg.Views = row.Views
	agg.Likes = row.Likes
	agg.Comments = row.Comments
	agg.Shares = row.Shares
	return agg, nil
}
