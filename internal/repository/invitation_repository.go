package repository

import (
	"errors"
	"time"

	"github.com/sponza-next/internal/constants"
	"github.com/sponza-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InvitationRepository invitation data access
type InvitationRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) InvitationRepository

	GetByID(id uint) (*models.Invitation, error)
	GetByIDForUpdate(id uint) (*models.Invitation, error)
	GetPendingByBrandAndInfluencer(brandID, influencerID uint, campaignID *uint, now time.Time) (*models.Invitation, error)
	Create(invitation *models.Invitation) error
	Update(invitation *models.Invitation) error
	UpdateStatusIf(id uint, fromStatus string, updates map[string]interface{}) (int64, error)
	List(filter InvitationListFilter) ([]models.Invitation, int64, error)
	ListExpiredPending(before time.Time, limit int) ([]models.Invitation, error)
}

// GormInvitationRepository GORM implementation
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates the invitation repository
func NewInvitationRepository(db *gorm.DB) *GormInvitationRepository {
	return &GormInvitationRepository{db: db}
}

// WithTx binds the repository to a transaction
func (r *GormInvitationRepository) WithTx(tx *gorm.DB) InvitationRepository {
	if tx == nil {
		return r
	}
	return &GormInvitationRepository{db: tx}
}

// Transaction runs fn in a database transaction
func (r *GormInvitationRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID fetches an invitation by ID
func (r *GormInvitationRepository) GetByID(id uint) (*models.Invitation, error) {
	if id == 0 {
		return nil, nil
	}
	var invitation models.Invitation
	if err := r.db.Preload("Brand").Preload("Influencer").Preload("Campaign").
		First(&invitation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invitation, nil
}

// GetByIDForUpdate fetches an invitation by ID with a row lock
func (r *GormInvitationRepository) GetByIDForUpdate(id uint) (*models.Invitation, error) {
	if id == 0 {
		return nil, nil
	}
	var invitation models.Invitation
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&invitation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invitation, nil
}

// GetPendingByBrandAndInfluencer finds a live pending invitation for the
// same brand/influencer pair, scoped to a campaign when campaignID is set.
func (r *GormInvitationRepository) GetPendingByBrandAndInfluencer(brandID, influencerID uint, campaignID *uint, now time.Time) (*models.Invitation, error) {
	if brandID == 0 || influencerID == 0 {
		return nil, nil
	}
	query := r.db.Where("brand_id = ? AND influencer_id = ? AND status = ? AND expires_at > ?",
		brandID, influencerID, constants.InvitationStatusPending, now)
	if campaignID != nil && *campaignID != 0 {
		query = query.Where("campaign_id = ?", *campaignID)
	} else {
		query = query.Where("campaign_id IS NULL")
	}
	var invitation models.Invitation
	if err := query.First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invitation, nil
}

// Create inserts an invitation
func (r *GormInvitationRepository) Create(invitation *models.Invitation) error {
	return r.db.Create(invitation).Error
}

// Update saves an invitation
func (r *GormInvitationRepository) Update(invitation *models.Invitation) error {
	return r.db.Save(invitation).Error
}

// UpdateStatusIf applies updates only when the row still has fromStatus.
func (r *GormInvitationRepository) UpdateStatusIf(id uint, fromStatus string, updates map[string]interface{}) (int64, error) {
	if id == 0 {
		return 0, nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	result := r.db.Model(&models.Invitation{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// List queries invitations
func (r *GormInvitationRepository) List(filter InvitationListFilter) ([]models.Invitation, int64, error) {
	query := r.db.Model(&models.Invitation{}).
		Preload("Brand").Preload("Influencer").Preload("Campaign")

	if filter.BrandID != 0 {
		query = query.Where("brand_id = ?", filter.BrandID)
	}
	if filter.InfluencerID != 0 {
		query = query.Where("influencer_id = ?", filter.InfluencerID)
	}
	if filter.CampaignID != 0 {
		query = query.Where("campaign_id = ?", filter.CampaignID)
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

	var invitations []models.Invitation
	if err := query.Order("id DESC").Find(&invitations).Error; err != nil {
		return nil, 0, err
	}
	return invitations, total, nil
}

// ListExpiredPending returns pending invitations whose deadline has passed.
func (r *GormInvitationRepository) ListExpiredPending(before time.Time, limit int) ([]models.Invitation, error) {
	query := r.db.Where("status = ? AND expires_at <= ?", constants.InvitationStatusPending, before).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var invitations []models.Invitation
	if err := query.Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}
