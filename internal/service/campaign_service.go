package service

import (
	"strings"
	"time"

	"github.com/sponza-next/internal/constants"
	"github.com/sponza-next/internal/models"
	"github.com/sponza-next/internal/repository"
)

// campaignTransitions allowed status moves, keyed by current status
var campaignTransitions = map[string][]string{
	constants.CampaignStatusDraft:  {constants.CampaignStatusActive},
	constants.CampaignStatusActive: {constants.CampaignStatusPaused, constants.CampaignStatusCompleted},
	constants.CampaignStatusPaused: {constants.CampaignStatusActive, constants.CampaignStatusCompleted},
}

// CampaignService brand campaign lifecycle and the public browse surface
type CampaignService struct {
	campaignRepo        repository.CampaignRepository
	contentRepo         repository.ContentRepository
	subscriptionService *SubscriptionService
}

// NewCampaignService creates the campaign service
func NewCampaignService(
	campaignRepo repository.CampaignRepository,
	contentRepo repository.ContentRepository,
	subscriptionService *SubscriptionService,
) *CampaignService {
	return &CampaignService{
		campaignRepo:        campaignRepo,
		contentRepo:         contentRepo,
		subscriptionService: subscriptionService,
	}
}

// CreateCampaignInput fields a brand supplies when drafting a campaign
type CreateCampaignInput struct {
	Title       string
	Description string
	Budget      models.Money
	Platforms   []string
	Hashtags    []string
	Task        string
	StartsAt    *time.Time
	EndsAt      *time.Time
}

// Create drafts a campaign after checking the brand's plan limits.
// Completed campaigns do not count against the campaign quota.
func (s *CampaignService) Create(brandID uint, input CreateCampaignInput) (*models.Campaign, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrProfileEmpty
	}

	entitlements, err := s.subscriptionService.EffectiveEntitlements(brandID)
	if err != nil {
		return nil, err
	}
	if entitlements.MaxCampaigns >= 0 {
		count, err := s.campaignRepo.CountByBrand(brandID, []string{
			constants.CampaignStatusDraft,
			constants.CampaignStatusActive,
			constants.CampaignStatusPaused,
		})
		if err != nil {
			return nil, err
		}
		if count >= int64(entitlements.MaxCampaigns) {
			return nil, ErrCampaignLimitReached
		}
	}
	if err := checkBudgetCap(entitlements, input.Budget); err != nil {
		return nil, err
	}

	now := time.Now()
	campaign := &models.Campaign{
		BrandID:     brandID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Budget:      input.Budget,
		Platforms:   normalizePlatforms(input.Platforms),
		Hashtags:    models.StringArray(input.Hashtags),
		Task:        strings.TrimSpace(input.Task),
		Status:      constants.CampaignStatusDraft,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.campaignRepo.Create(campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// UpdateCampaignInput optional fields; nil leaves the field untouched
type UpdateCampaignInput struct {
	Title       *string
	Description *string
	Budget      *models.Money
	Platforms   []string
	Hashtags    []string
	Task        *string
	StartsAt    *time.Time
	EndsAt      *time.Time
}

// Update edits a campaign the brand owns. Completed campaigns are frozen.
func (s *CampaignService) Update(brandID, campaignID uint, input UpdateCampaignInput) (*models.Campaign, error) {
	campaign, err := s.ownedCampaign(brandID, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status == constants.CampaignStatusCompleted {
		return nil, ErrCampaignNotEditable
	}

	if input.Budget != nil {
		entitlements, err := s.subscriptionService.EffectiveEntitlements(brandID)
		if err != nil {
			return nil, err
		}
		if err := checkBudgetCap(entitlements, *input.Budget); err != nil {
			return nil, err
		}
		campaign.Budget = *input.Budget
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrProfileEmpty
		}
		campaign.Title = title
	}
	if input.Description != nil {
		campaign.Description = strings.TrimSpace(*input.Description)
	}
	if input.Platforms != nil {
		campaign.Platforms = normalizePlatforms(input.Platforms)
	}
	if input.Hashtags != nil {
		campaign.Hashtags = models.StringArray(input.Hashtags)
	}
	if input.Task != nil {
		campaign.Task = strings.TrimSpace(*input.Task)
	}
	if input.StartsAt != nil {
		campaign.StartsAt = input.StartsAt
	}
	if input.EndsAt != nil {
		campaign.EndsAt = input.EndsAt
	}
	campaign.UpdatedAt = time.Now()
	if err := s.campaignRepo.Update(campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// ChangeStatus moves a campaign along draft -> active <-> paused -> completed.
// Completed is terminal.
func (s *CampaignService) ChangeStatus(brandID, campaignID uint, target string) (*models.Campaign, error) {
	campaign, err := s.ownedCampaign(brandID, campaignID)
	if err != nil {
		return nil, err
	}
	target = strings.ToLower(strings.TrimSpace(target))
	allowed, ok := campaignTransitions[campaign.Status]
	if !ok {
		return nil, ErrInvalidStatusChange
	}
	permitted := false
	for _, next := range allowed {
		if next == target {
			permitted = true
			break
		}
	}
	if !permitted {
		return nil, ErrInvalidStatusChange
	}

	rows, err := s.campaignRepo.UpdateStatus(campaignID, []string{campaign.Status}, target)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrInvalidStatusChange
	}
	campaign.Status = target
	campaign.UpdatedAt = time.Now()
	return campaign, nil
}

// Delete removes a campaign. Only drafts can be deleted; anything that
// influencers may have seen is completed instead.
func (s *CampaignService) Delete(brandID, campaignID uint) error {
	campaign, err := s.ownedCampaign(brandID, campaignID)
	if err != nil {
		return err
	}
	if campaign.Status != constants.CampaignStatusDraft {
		return ErrCampaignNotEditable
	}
	return s.campaignRepo.Delete(campaignID)
}

// GetForBrand fetches a campaign the brand owns
func (s *CampaignService) GetForBrand(brandID, campaignID uint) (*models.Campaign, error) {
	return s.ownedCampaign(brandID, campaignID)
}

// GetPublic fetches a campaign for the influencer-facing surface. Only
// active campaigns are visible there.
func (s *CampaignService) GetPublic(campaignID uint) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil || campaign.Status != constants.CampaignStatusActive {
		return nil, ErrNotFound
	}
	return campaign, nil
}

// Browse lists active campaigns for influencers
func (s *CampaignService) Browse(filter repository.CampaignListFilter) ([]models.Campaign, int64, error) {
	filter.OnlyActive = true
	filter.BrandID = 0
	return s.campaignRepo.List(filter)
}

// ListForBrand lists the brand's own campaigns in any status
func (s *CampaignService) ListForBrand(brandID uint, filter repository.CampaignListFilter) ([]models.Campaign, int64, error) {
	filter.BrandID = brandID
	filter.OnlyActive = false
	return s.campaignRepo.List(filter)
}

// ListAdmin lists campaigns without ownership scoping
func (s *CampaignService) ListAdmin(filter repository.CampaignListFilter) ([]models.Campaign, int64, error) {
	return s.campaignRepo.List(filter)
}

// CampaignAnalytics aggregate engagement across a campaign's content
type CampaignAnalytics struct {
	CampaignID           uint  `json:"campaign_id"`
	TotalApplications    int64 `json:"total_applications"`
	PendingApplications  int64 `json:"pending_applications"`
	AcceptedApplications int64 `json:"accepted_applications"`
	RejectedApplications int64 `json:"rejected_applications"`
	ContentCount         int64 `json:"content_count"`
	TotalViews           int64 `json:"total_views"`
	TotalLikes           int64 `json:"total_likes"`
	TotalComments        int64 `json:"total_comments"`
	TotalShares          int64 `json:"total_shares"`
}

// Analytics sums content metrics for a campaign the brand owns
func (s *CampaignService) Analytics(brandID, campaignID uint) (*CampaignAnalytics, error) {
	campaign, err := s.ownedCampaign(brandID, campaignID)
	if err != nil {
		return nil, err
	}
	aggregate, err := s.contentRepo.SumMetricsByCampaign(campaignID)
	if err != nil {
		return nil, err
	}
	return &CampaignAnalytics{
		CampaignID:           campaign.ID,
		TotalApplications:    campaign.TotalApplications,
		PendingApplications:  campaign.PendingApplications,
		AcceptedApplications: campaign.AcceptedApplications,
		RejectedApplications: campaign.RejectedApplications,
		ContentCount:         aggregate.Count,
		TotalViews:           aggregate.Views,
		TotalLikes:           aggregate.Likes,
		TotalComments:        aggregate.Comments,
		TotalShares:          aggregate.Shares,
	}, nil
}

// ReconcileCounters recomputes the denormalized application counters
// from the applications table (admin repair operation)
func (s *CampaignService) ReconcileCounters(campaignID uint) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrNotFound
	}
	counts, err := s.campaignRepo.CountApplicationsByStatus(campaignID)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	pending := counts[constants.ApplicationStatusApplied]
	accepted := counts[constants.ApplicationStatusAccepted]
	rejected := counts[constants.ApplicationStatusRejected]
	if err := s.campaignRepo.SetCounters(campaignID, total, pending, accepted, rejected); err != nil {
		return nil, err
	}
	campaign.TotalApplications = total
	campaign.PendingApplications = pending
	campaign.AcceptedApplications = accepted
	campaign.RejectedApplications = rejected
	return campaign, nil
}

func (s *CampaignService) ownedCampaign(brandID, campaignID uint) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrNotFound
	}
	if campaign.BrandID != brandID {
		return nil, ErrForbidden
	}
	return campaign, nil
}

func checkBudgetCap(entitlements models.Entitlements, budget models.Money) error {
	if budget.IsNegative() {
		return ErrBudgetLimitExceeded
	}
	if entitlements.MaxBudget.IsPositive() && budget.GreaterThan(entitlements.MaxBudget.Decimal) {
		return ErrBudgetLimitExceeded
	}
	return nil
}

func normalizePlatforms(platforms []string) models.StringArray {
	out := make(models.StringArray, 0, len(platforms))
	for _, platform := range platforms {
		platform = strings.ToLower(strings.TrimSpace(platform))
		if platform == "" {
			continue
		}
		out = append(out, platform)
	}
	return out
}
