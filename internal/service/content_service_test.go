package service

import (
	"errors"
	"testing"

	"github.com/sponza-next/internal/constants"
	"github.com/sponza-next/internal/models"
	"github.com/sponza-next/internal/repository"

	"gorm.io/gorm"
)

func setupContentServiceTest(t *testing.T) (*ContentService, *ApplicationService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, "content_service_test")
	applicationService := NewApplicationService(
		repository.NewApplicationRepository(db),
		repository.NewCampaignRepository(db),
		repository.NewUserRepository(db),
		nil)
	svc := NewContentService(
		repository.NewContentRepository(db),
		repository.NewCampaignRepository(db),
		applicationService,
		nil)
	return svc, applicationService, db
}

// acceptIntoCampaign walks an influencer through apply and accept so
// content submission is unlocked.
func acceptIntoCampaign(t *testing.T, applications *ApplicationService, brandID, influencerID, campaignID uint) {
	t.Helper()
	application, err := applications.Apply(influencerID, ApplyInput{CampaignID: campaignID, Message: "Pick me"})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if _, err := applications.Accept(brandID, application.ID, ""); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
}

func TestContentSubmitRequiresAcceptedApplication(t *testing.T) {
	svc, applications, db := setupContentServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	influencer := createTestUser(t, db, 2, constants.UserRoleInfluencer)
	campaign := createTestCampaign(t, db, brand.ID, constants.CampaignStatusActive)

	input := SubmitContentInput{
		CampaignID:  campaign.ID,
		Platform:    constants.ContentPlatformInstagram,
		ContentType: "reel",
		Caption:     "First cut",
	}
	if _, err := svc.Submit(influencer.ID, input); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden without accepted application, got %v", err)
	}

	acceptIntoCampaign(t, applications, brand.ID, influencer.ID, campaign.ID)
	content, err := svc.Submit(influencer.ID, input)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if content.Status != constants.ContentStatusSubmitted {
		t.Fatalf("expected submitted, got %s", content.Status)
	}

	input.ContentType = "podcast"
	if _, err := svc.Submit(influencer.ID, input); !errors.Is(err, ErrProfileEmpty) {
		t.Fatalf("expected ErrProfileEmpty for unknown content type, got %v", err)
	}
}

func TestContentReviewPublishMetricsFlow(t *testing.T) {
	svc, applications, db := setupContentServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	influencer := createTestUser(t, db, 2, constants.UserRoleInfluencer)
	campaign := createTestCampaign(t, db, brand.ID, constants.CampaignStatusActive)
	acceptIntoCampaign(t, applications, brand.ID, influencer.ID, campaign.ID)

	content, err := svc.Submit(influencer.ID, SubmitContentInput{
		CampaignID:  campaign.ID,
		Platform:    constants.ContentPlatformInstagram,
		ContentType: "reel",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	// Metrics and publish are locked until approval.
	if _, err := svc.Publish(influencer.ID, content.ID, ""); !errors.Is(err, ErrContentNotPublishable) {
		t.Fatalf("expected ErrContentNotPublishable before approval, got %v", err)
	}
	if _, err := svc.UpdateMetrics(influencer.ID, content.ID, UpdateMetricsInput{Views: 10}); !errors.Is(err, ErrContentNotPublishable) {
		t.Fatalf("expected ErrContentNotPublishable for metrics before publish, got %v", err)
	}

	if _, err := svc.Review(99, content.ID, true, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign brand, got %v", err)
	}
	approved, err := svc.Review(brand.ID, content.ID, true, "Looks great")
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if approved.Status != constants.ContentStatusApproved || approved.ReviewedAt == nil {
		t.Fatalf("unexpected approved content: %+v", approved)
	}
	if _, err := svc.Review(brand.ID, content.ID, true, "again"); !errors.Is(err, ErrContentNotReviewable) {
		t.Fatalf("expected ErrContentNotReviewable on double review, got %v", err)
	}

	published, err := svc.Publish(influencer.ID, content.ID, "https://instagram.com/p/live-1")
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if published.Status != constants.ContentStatusPublished || published.PublishedAt == nil {
		t.Fatalf("unexpected published content: %+v", published)
	}
	if published.URL != "https://instagram.com/p/live-1" {
		t.Fatalf("expected final URL to be stored, got %s", published.URL)
	}

	if _, err := svc.UpdateMetrics(influencer.ID, content.ID, UpdateMetricsInput{Views: -1}); !errors.Is(err, ErrProfileEmpty) {
		t.Fatalf("expected ErrProfileEmpty for negative metrics, got %v", err)
	}
	updated, err := svc.UpdateMetrics(influencer.ID, content.ID, UpdateMetricsInput{
		Views: 1200, Likes: 300, Comments: 40, Shares: 12,
	})
	if err != nil {
		t.Fatalf("update metrics failed: %v", err)
	}
	if updated.Views != 1200 || updated.Likes != 300 {
		t.Fatalf("unexpected metrics: %+v", updated)
	}

	var stored models.Content
	if err := db.First(&stored, content.ID).Error; err != nil {
		t.Fatalf("reload content failed: %v", err)
	}
	if stored.Views != 1200 || stored.Comments != 40 || stored.Shares != 12 {
		t.Fatalf("metrics not persisted: %+v", stored)
	}
}

func TestContentRejectBlocksPublish(t *testing.T) {
	svc, applications, db := setupContentServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	influencer := createTestUser(t, db, 2, constants.UserRoleInfluencer)
	campaign := createTestCampaign(t, db, brand.ID, constants.CampaignStatusActive)
	acceptIntoCampaign(t, applications, brand.ID, influencer.ID, campaign.ID)

	content, err := svc.Submit(influencer.ID, SubmitContentInput{
		CampaignID:  campaign.ID,
		Platform:    constants.ContentPlatformYouTube,
		ContentType: "video",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	rejected, err := svc.Review(brand.ID, content.ID, false, "Wrong framing")
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if rejected.Status != constants.ContentStatusRejected || rejected.ReviewNote != "Wrong framing" {
		t.Fatalf("unexpected rejected content: %+v", rejected)
	}
	if _, err := svc.Publish(influencer.ID, content.ID, ""); !errors.Is(err, ErrContentNotPublishable) {
		t.Fatalf("expected ErrContentNotPublishable for rejected content, got %v", err)
	}

	// A rejected deliverable can be resubmitted as a fresh row.
	resubmitted, err := svc.Submit(influencer.ID, SubmitContentInput{
		CampaignID:  campaign.ID,
		Platform:    constants.ContentPlatformYouTube,
		ContentType: "video",
	})
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if resubmitted.ID == content.ID {
		t.Fatalf("expected a new row for resubmission")
	}
}

func TestContentListScoping(t *testing.T) {
	svc, applications, db := setupContentServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	other := createTestUser(t, db, 2, constants.UserRoleBrand)
	influencer := createTestUser(t, db, 3, constants.UserRoleInfluencer)
	campaign := createTestCampaign(t, db, brand.ID, constants.CampaignStatusActive)
	acceptIntoCampaign(t, applications, brand.ID, influencer.ID, campaign.ID)

	if _, err := svc.Submit(influencer.ID, SubmitContentInput{
		CampaignID:  campaign.ID,
		Platform:    constants.ContentPlatformInstagram,
		ContentType: "post",
	}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	contents, total, err := svc.ListForInfluencer(influencer.ID, repository.ContentListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list for influencer failed: %v", err)
	}
	if total != 1 || len(contents) != 1 {
		t.Fatalf("expected 1 content row, got total=%d len=%d", total, len(contents))
	}

	if _, _, err := svc.ListForBrandCampaign(other.ID, campaign.ID, repository.ContentListFilter{Page: 1, PageSize: 10}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	_, total, err = svc.ListForBrandCampaign(brand.ID, campaign.ID, repository.ContentListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list for brand failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 content row for brand, got %d", total)
	}
}
