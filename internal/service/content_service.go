package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/sponza-next/internal/constants"
	"github.com/sponza-next/internal/logger"
	"github.com/sponza-next/internal/models"
	"github.com/sponza-next/internal/repository"
)

var contentTypes = map[string]bool{
	"post":  true,
	"reel":  true,
	"video": true,
	"story": true,
}

// ContentService deliverable submission, brand review, publication and
// engagement metrics
type ContentService struct {
	contentRepo         repository.ContentRepository
	campaignRepo        repository.CampaignRepository
	applicationService  *ApplicationService
	notificationService *NotificationService
}

// NewContentService creates the content service
func NewContentService(
	contentRepo repository.ContentRepository,
	campaignRepo repository.CampaignRepository,
	applicationService *ApplicationService,
	notificationService *NotificationService,
) *ContentService {
	return &ContentService{
		contentRepo:         contentRepo,
		campaignRepo:        campaignRepo,
		applicationService:  applicationService,
		notificationService: notificationService,
	}
}

// SubmitContentInput deliverable fields
type SubmitContentInput struct {
	CampaignID  uint
	Platform    string
	ContentType string
	URL         string
	Caption     string
}

// Submit creates a deliverable. Only influencers with an accepted
// application on the campaign can submit.
func (s *ContentService) Submit(influencerID uint, input SubmitContentInput) (*models.Content, error) {
	contentType := strings.ToLower(strings.TrimSpace(input.ContentType))
	if !contentTypes[contentType] {
		return nil, ErrProfileEmpty
	}
	platform := strings.ToLower(strings.TrimSpace(input.Platform))
	if platform == "" {
		return nil, ErrProfileEmpty
	}

	campaign, err := s.campaignRepo.GetByID(input.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrNotFound
	}

	accepted, err := s.applicationService.HasAcceptedApplication(input.CampaignID, influencerID)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, ErrForbidden
	}

	now := time.Now()
	content := &models.Content{
		CampaignID:   input.CampaignID,
		InfluencerID: influencerID,
		Platform:     platform,
		ContentType:  contentType,
		URL:          strings.TrimSpace(input.URL),
		Caption:      strings.TrimSpace(input.Caption),
		Status:       constants.ContentStatusSubmitted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.contentRepo.Create(content); err != nil {
		return nil, err
	}

	s.notify(campaign.BrandID, constants.NotificationTypeContentSubmitted,
		"Content submitted",
		fmt.Sprintf("New content was submitted for your campaign %q.", campaign.Title))
	return content, nil
}

// Review approves or rejects submitted content. Rejected content may be
// resubmitted as a new row.
func (s *ContentService) Review(brandID, contentID uint, approve bool, note string) (*models.Content, error) {
	content, campaign, err := s.brandContent(brandID, contentID)
	if err != nil {
		return nil, err
	}
	if content.Status != constants.ContentStatusSubmitted {
		return nil, ErrContentNotReviewable
	}

	target := constants.ContentStatusRejected
	if approve {
		target = constants.ContentStatusApproved
	}
	now := time.Now()
	rows, err := s.contentRepo.UpdateStatusIf(contentID, []string{constants.ContentStatusSubmitted}, map[string]interface{}{
		"status":      target,
		"review_note": strings.TrimSpace(note),
		"reviewed_at": now,
		"updated_at":  now,
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrContentNotReviewable
	}

	content.Status = target
	content.ReviewNote = strings.TrimSpace(note)
	content.ReviewedAt = &now
	content.UpdatedAt = now

	verb := "rejected"
	if approve {
		verb = "approved"
	}
	s.notify(content.InfluencerID, constants.NotificationTypeContentReviewed,
		"Content "+verb,
		fmt.Sprintf("Your content for %q was %s.", campaign.Title, verb))
	return content, nil
}

// Publish marks approved content as live. The influencer supplies the
// final post URL if it changed.
func (s *ContentService) Publish(influencerID, contentID uint, url string) (*models.Content, error) {
	content, err := s.influencerContent(influencerID, contentID)
	if err != nil {
		return nil, err
	}
	if content.Status != constants.ContentStatusApproved {
		return nil, ErrContentNotPublishable
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       constants.ContentStatusPublished,
		"published_at": now,
		"updated_at":   now,
	}
	if trimmed := strings.TrimSpace(url); trimmed != "" {
		updates["url"] = trimmed
	}
	rows, err := s.contentRepo.UpdateStatusIf(contentID, []string{constants.ContentStatusApproved}, updates)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrContentNotPublishable
	}
	content.Status = constants.ContentStatusPublished
	content.PublishedAt = &now
	if trimmed := strings.TrimSpace(url); trimmed != "" {
		content.URL = trimmed
	}
	content.UpdatedAt = now
	return content, nil
}

// UpdateMetricsInput engagement counters reported by the influencer
type UpdateMetricsInput struct {
	Views    int64
	Likes    int64
	Comments int64
	Shares   int64
}

// UpdateMetrics records engagement on published content the influencer owns
func (s *ContentService) UpdateMetrics(influencerID, contentID uint, input UpdateMetricsInput) (*models.Content, error) {
	content, err := s.influencerContent(influencerID, contentID)
	if err != nil {
		return nil, err
	}
	if content.Status != constants.ContentStatusPublished {
		return nil, ErrContentNotPublishable
	}
	if input.Views < 0 || input.Likes < 0 || input.Comments < 0 || input.Shares < 0 {
		return nil, ErrProfileEmpty
	}
	if err := s.contentRepo.UpdateMetrics(contentID, input.Views, input.Likes, input.Comments, input.Shares); err != nil {
		return nil, err
	}
	content.Views = input.Views
	content.Likes = input.Likes
	content.Comments = input.Comments
	content.Shares = input.Shares
	return content, nil
}

// ListForInfluencer lists the influencer's own content
func (s *ContentService) ListForInfluencer(influencerID uint, filter repository.ContentListFilter) ([]models.Content, int64, error) {
	filter.InfluencerID = influencerID
	return s.contentRepo.List(filter)
}

// ListForBrandCampaign lists content against a campaign the brand owns
func (s *ContentService) ListForBrandCampaign(brandID, campaignID uint, filter repository.ContentListFilter) ([]models.Content, int64, error) {
	campaign, err := s.campaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, 0, err
	}
	if campaign == nil {
		return nil, 0, ErrNotFound
	}
	if campaign.BrandID != brandID {
		return nil, 0, ErrForbidden
	}
	filter.CampaignID = campaignID
	filter.InfluencerID = 0
	return s.contentRepo.List(filter)
}

// ListAdmin lists content without ownership scoping
func (s *ContentService) ListAdmin(filter repository.ContentListFilter) ([]models.Content, int64, error) {
	return s.contentRepo.List(filter)
}

func (s *ContentService) influencerContent(influencerID, contentID uint) (*models.Content, error) {
	content, err := s.contentRepo.GetByID(contentID)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, ErrNotFound
	}
	if content.InfluencerID != influencerID {
		return nil, ErrForbidden
	}
	return content, nil
}

func (s *ContentService) brandContent(brandID, contentID uint) (*models.Content, *models.Campaign, error) {
	content, err := s.contentRepo.GetByID(contentID)
	if err != nil {
		return nil, nil, err
	}
	if content == nil {
		return nil, nil, ErrNotFound
	}
	campaign, err := s.campaignRepo.GetByID(content.CampaignID)
	if err != nil {
		return nil, nil, err
	}
	if campaign == nil {
		return nil, nil, ErrNotFound
	}
	if campaign.BrandID != brandID {
		return nil, nil, ErrForbidden
	}
	return content, campaign, nil
}

func (s *ContentService) notify(userID uint, notifType, title, body string) {
	if s.notificationService == nil {
		return
	}
	if err := s.notificationService.Notify(userID, notifType, title, body); err != nil {
		logger.Warnw("content_notify_failed", "user_id", userID, "error", err)
	}
}
