package service

import (
	"errors"
	"testing"

	"github.com/sponza-next/internal/constants"
	"github.com/sponza-next/internal/models"
	"github.com/sponza-next/internal/repository"

	"gorm.io/gorm"
)

func setupApplicationServiceTest(t *testing.T) (*ApplicationService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, "application_service_test")
	notificationService := NewNotificationService(repository.NewNotificationRepository(db), nil)
	svc := NewApplicationService(
		repository.NewApplicationRepository(db),
		repository.NewCampaignRepository(db),
		repository.NewUserRepository(db),
		notificationService)
	return svc, db
}

func reloadCampaign(t *testing.T, db *gorm.DB, id uint) *models.Campaign {
	t.Helper()
	var campaign models.Campaign
	if err := db.First(&campaign, id).Error; err != nil {
		t.Fatalf("reload campaign failed: %v", err)
	}
	return &campaign
}

func TestApplicationApplyAdjustsCounters(t *testing.T) {
	svc, db := setupApplicationServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	influencer := createTestUser(t, db, 2, constants.UserRoleInfluencer)
	campaign := createTestCampaign(t, db, brand.ID, constants.CampaignStatusActive)

	application, err := svc.Apply(influencer.ID, ApplyInput{CampaignID: campaign.ID, Message: "Pick me"})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if application.Status != constants.ApplicationStatusApplied {
		t.Fatalf("expected applied, got %s", application.Status)
	}

	got := reloadCampaign(t, db, campaign.ID)
	if got.TotalApplications != 1 || got.PendingApplications != 1 {
		t.Fatalf("unexpected counters: total=%d pending=%d", got.TotalApplications, got.PendingApplications)
	}

	// The brand hears about it.
	var notifications int64
	if err := db.Model(&models.Notification{}).Where("user_id = ?", brand.ID).Count(&notifications).Error; err != nil {
		t.Fatalf("count notifications failed: %v", err)
	}
	if notifications != 1 {
		t.Fatalf("expected 1 notification for brand, got %d", notifications)
	}

	if _, err := svc.Apply(influencer.ID, ApplyInput{CampaignID: campaign.ID, Message: "Again"}); !errors.Is(err, ErrDuplicateApplication) {
		t.Fatalf("expected ErrDuplicateApplication, got %v", err)
	}
}

func TestApplicationApplyRequiresActiveCampaign(t *testing.T) {
	svc, db := setupApplicationServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	influencer := createTestUser(t, db, 2, constants.UserRoleInfluencer)
	draft := createTestCampaign(t, db, brand.ID, constants.CampaignStatusDraft)

	if _, err := svc.Apply(influencer.ID, ApplyInput{CampaignID: draft.ID, Message: "Hi"}); !errors.Is(err, ErrCampaignNotActive) {
		t.Fatalf("expected ErrCampaignNotActive, got %v", err)
	}
	if _, err := svc.Apply(influencer.ID, ApplyInput{CampaignID: 9999, Message: "Hi"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	active := createTestCampaign(t, db, brand.ID, constants.CampaignStatusActive)
	if _, err := svc.Apply(influencer.ID, ApplyInput{CampaignID: active.ID, Message: "   "}); !errors.Is(err, ErrProfileEmpty) {
		t.Fatalf("expected ErrProfileEmpty for blank message, got %v", err)
	}
}

func TestApplicationReviewFlow(t *testing.T) {
	svc, db := setupApplicationServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	first := createTestUser(t, db, 2, constants.UserRoleInfluencer)
	second := createTestUser(t, db, 3, constants.UserRoleInfluencer)
	campaign := createTestCampaign(t, db, brand.ID, constants.CampaignStatusActive)

	accepted, err := svc.Apply(first.ID, ApplyInput{CampaignID: campaign.ID, Message: "First"})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	rejected, err := svc.Apply(second.ID, ApplyInput{CampaignID: campaign.ID, Message: "Second"})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if _, err := svc.Accept(99, accepted.ID, "nope"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign brand, got %v", err)
	}

	got, err := svc.Accept(brand.ID, accepted.ID, "Welcome aboard")
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if got.Status != constants.ApplicationStatusAccepted || got.AcceptedAt == nil {
		t.Fatalf("unexpected accepted application: %+v", got)
	}
	if _, err := svc.Accept(brand.ID, accepted.ID, "again"); !errors.Is(err, ErrApplicationNotPending) {
		t.Fatalf("expected ErrApplicationNotPending on double accept, got %v", err)
	}

	got, err = svc.Reject(brand.ID, rejected.ID, "Not a fit")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if got.Status != constants.ApplicationStatusRejected || got.RejectedAt == nil {
		t.Fatalf("unexpected rejected application: %+v", got)
	}

	counters := reloadCampaign(t, db, campaign.ID)
	if counters.TotalApplications != 2 || counters.PendingApplications != 0 ||
		counters.AcceptedApplications != 1 || counters.RejectedApplications != 1 {
		t.Fatalf("unexpected counters: %+v", counters)
	}
}

func TestApplicationWithdrawAndReapply(t *testing.T) {
	svc, db := setupApplicationServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	influencer := createTestUser(t, db, 2, constants.UserRoleInfluencer)
	campaign := createTestCampaign(t, db, brand.ID, constants.CampaignStatusActive)

	application, err := svc.Apply(influencer.ID, ApplyInput{CampaignID: campaign.ID, Message: "First try"})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if _, err := svc.Withdraw(99, application.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	withdrawn, err := svc.Withdraw(influencer.ID, application.ID)
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if withdrawn.Status != constants.ApplicationStatusWithdrawn || withdrawn.WithdrawnAt == nil {
		t.Fatalf("unexpected withdrawn application: %+v", withdrawn)
	}
	if _, err := svc.Withdraw(influencer.ID, application.ID); !errors.Is(err, ErrApplicationNotPending) {
		t.Fatalf("expected ErrApplicationNotPending on double withdraw, got %v", err)
	}

	// A withdrawn row stays in the total count; only pending drops.
	counters := reloadCampaign(t, db, campaign.ID)
	if counters.TotalApplications != 1 || counters.PendingApplications != 0 {
		t.Fatalf("unexpected counters after withdraw: %+v", counters)
	}

	// Re-applying reuses the withdrawn row instead of creating a new one.
	reapplied, err := svc.Apply(influencer.ID, ApplyInput{CampaignID: campaign.ID, Message: "Second try"})
	if err != nil {
		t.Fatalf("re-apply failed: %v", err)
	}
	if reapplied.ID != application.ID {
		t.Fatalf("expected reused row %d, got %d", application.ID, reapplied.ID)
	}
	if reapplied.Status != constants.ApplicationStatusApplied || reapplied.Message != "Second try" {
		t.Fatalf("unexpected re-applied application: %+v", reapplied)
	}
	counters = reloadCampaign(t, db, campaign.ID)
	if counters.TotalApplications != 1 || counters.PendingApplications != 1 {
		t.Fatalf("unexpected counters after re-apply: %+v", counters)
	}
}

func TestApplicationListScoping(t *testing.T) {
	svc, db := setupApplicationServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	other := createTestUser(t, db, 2, constants.UserRoleBrand)
	influencer := createTestUser(t, db, 3, constants.UserRoleInfluencer)
	campaign := createTestCampaign(t, db, brand.ID, constants.CampaignStatusActive)

	if _, err := svc.Apply(influencer.ID, ApplyInput{CampaignID: campaign.ID, Message: "Hi"}); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	applications, total, err := svc.ListForInfluencer(influencer.ID, repository.ApplicationListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list for influencer failed: %v", err)
	}
	if total != 1 || len(applications) != 1 {
		t.Fatalf("expected 1 application, got total=%d len=%d", total, len(applications))
	}

	if _, _, err := svc.ListForBrandCampaign(other.ID, campaign.ID, repository.ApplicationListFilter{Page: 1, PageSize: 10}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	_, total, err = svc.ListForBrandCampaign(brand.ID, campaign.ID, repository.ApplicationListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list for brand failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 application for brand, got %d", total)
	}
}

func TestApplicationAcceptedGate(t *testing.T) {
	svc, db := setupApplicationServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	influencer := createTestUser(t, db, 2, constants.UserRoleInfluencer)
	campaign := createTestCampaign(t, db, brand.ID, constants.CampaignStatusActive)

	ok, err := svc.HasAcceptedApplication(campaign.ID, influencer.ID)
	if err != nil {
		t.Fatalf("gate check failed: %v", err)
	}
	if ok {
		t.Fatalf("expected no accepted application yet")
	}

	application, err := svc.Apply(influencer.ID, ApplyInput{CampaignID: campaign.ID, Message: "Hi"})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if _, err := svc.Accept(brand.ID, application.ID, ""); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	ok, err = svc.HasAcceptedApplication(campaign.ID, influencer.ID)
	if err != nil {
		t.Fatalf("gate check failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected accepted application to open the gate")
	}
}
