package service

import (
	"errors"
	"testing"
	"time"

	"github.com/sponza-next/internal/config"
	"github.com/sponza-next/internal/constants"
	"github.com/sponza-next/internal/models"
	"github.com/sponza-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupInvitationServiceTest(t *testing.T) (*InvitationService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, "invitation_service_test")
	cfg := &config.Config{}
	cfg.Invitation.DefaultExpireDays = 7
	svc := NewInvitationService(cfg,
		repository.NewInvitationRepository(db),
		repository.NewCampaignRepository(db),
		repository.NewUserRepository(db),
		nil)
	return svc, db
}

func createExpiredInvitation(t *testing.T, db *gorm.DB, brandID, influencerID uint) *models.Invitation {
	t.Helper()
	now := time.Now()
	invitation := models.Invitation{
		BrandID:      brandID,
		InfluencerID: influencerID,
		Message:      "Old offer",
		Status:       constants.InvitationStatusPending,
		ExpiresAt:    now.Add(-time.Hour),
		CreatedAt:    now.AddDate(0, 0, -8),
		UpdatedAt:    now.AddDate(0, 0, -8),
	}
	if err := db.Create(&invitation).Error; err != nil {
		t.Fatalf("create invitation failed: %v", err)
	}
	return &invitation
}

func TestInvitationCreateDefaults(t *testing.T) {
	svc, db := setupInvitationServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	influencer := createTestUser(t, db, 2, constants.UserRoleInfluencer)

	invitation, err := svc.Create(brand.ID, CreateInvitationInput{
		InfluencerID: influencer.ID,
		Message:      "Let's collaborate",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if invitation.Status != constants.InvitationStatusPending {
		t.Fatalf("expected pending, got %s", invitation.Status)
	}
	days := time.Until(invitation.ExpiresAt).Hours() / 24
	if days < 6.9 || days > 7.1 {
		t.Fatalf("expected ~7 day expiry, got %.2f days", days)
	}

	if _, err := svc.Create(brand.ID, CreateInvitationInput{
		InfluencerID: influencer.ID,
		Message:      "Again",
	}); !errors.Is(err, ErrDuplicateInvitation) {
		t.Fatalf("expected ErrDuplicateInvitation, got %v", err)
	}
}

func TestInvitationCreateValidations(t *testing.T) {
	svc, db := setupInvitationServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	otherBrand := createTestUser(t, db, 2, constants.UserRoleBrand)
	disabled := createTestUser(t, db, 3, constants.UserRoleInfluencer)
	if err := db.Model(&models.User{}).Where("id = ?", disabled.ID).
		Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}

	if _, err := svc.Create(brand.ID, CreateInvitationInput{InfluencerID: brand.ID, Message: "Me"}); !errors.Is(err, ErrSelfInvitation) {
		t.Fatalf("expected ErrSelfInvitation, got %v", err)
	}
	if _, err := svc.Create(brand.ID, CreateInvitationInput{InfluencerID: otherBrand.ID, Message: "Hi"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for brand-role target, got %v", err)
	}
	if _, err := svc.Create(brand.ID, CreateInvitationInput{InfluencerID: disabled.ID, Message: "Hi"}); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}

	influencer := createTestUser(t, db, 4, constants.UserRoleInfluencer)
	if _, err := svc.Create(brand.ID, CreateInvitationInput{InfluencerID: influencer.ID, Message: "  "}); !errors.Is(err, ErrProfileEmpty) {
		t.Fatalf("expected ErrProfileEmpty, got %v", err)
	}

	// Campaign-bound invitations require ownership of that campaign.
	campaign := createTestCampaign(t, db, otherBrand.ID, constants.CampaignStatusActive)
	if _, err := svc.Create(brand.ID, CreateInvitationInput{
		InfluencerID: influencer.ID,
		CampaignID:   &campaign.ID,
		Message:      "Join my campaign",
	}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign campaign, got %v", err)
	}
}

func TestInvitationRespondAccept(t *testing.T) {
	svc, db := setupInvitationServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	influencer := createTestUser(t, db, 2, constants.UserRoleInfluencer)

	invitation, err := svc.Create(brand.ID, CreateInvitationInput{
		InfluencerID: influencer.ID,
		Message:      "Offer",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Respond(99, invitation.ID, RespondInput{Accept: true}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	pricing := models.NewMoneyFromDecimal(decimal.NewFromInt(15000))
	responded, err := svc.Respond(influencer.ID, invitation.ID, RespondInput{
		Accept:   true,
		Message:  "Sounds good",
		Pricing:  &pricing,
		Timeline: "2 weeks",
	})
	if err != nil {
		t.Fatalf("respond failed: %v", err)
	}
	if responded.Status != constants.InvitationStatusAccepted || responded.RespondedAt == nil {
		t.Fatalf("unexpected responded invitation: %+v", responded)
	}
	if responded.ResponsePricing == nil || !responded.ResponsePricing.Equal(pricing.Decimal) {
		t.Fatalf("expected pricing to be stored, got %+v", responded.ResponsePricing)
	}

	if _, err := svc.Respond(influencer.ID, invitation.ID, RespondInput{Accept: false}); !errors.Is(err, ErrInvitationNotPending) {
		t.Fatalf("expected ErrInvitationNotPending on double respond, got %v", err)
	}
}

func TestInvitationRespondAfterExpiry(t *testing.T) {
	svc, db := setupInvitationServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	influencer := createTestUser(t, db, 2, constants.UserRoleInfluencer)
	invitation := createExpiredInvitation(t, db, brand.ID, influencer.ID)

	// The sweep has not run, but the offer is already unanswerable.
	if _, err := svc.Respond(influencer.ID, invitation.ID, RespondInput{Accept: true}); !errors.Is(err, ErrInvitationExpired) {
		t.Fatalf("expected ErrInvitationExpired, got %v", err)
	}

	got, err := svc.GetForUser(influencer.ID, invitation.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Status != constants.InvitationStatusExpired {
		t.Fatalf("expected derived expired status, got %s", got.Status)
	}

	// An expired offer no longer blocks a fresh one.
	if _, err := svc.Create(brand.ID, CreateInvitationInput{
		InfluencerID: influencer.ID,
		Message:      "New offer",
	}); err != nil {
		t.Fatalf("create after expiry failed: %v", err)
	}
}

func TestInvitationSweepExpired(t *testing.T) {
	svc, db := setupInvitationServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	first := createTestUser(t, db, 2, constants.UserRoleInfluencer)
	second := createTestUser(t, db, 3, constants.UserRoleInfluencer)

	lapsed := createExpiredInvitation(t, db, brand.ID, first.ID)
	fresh, err := svc.Create(brand.ID, CreateInvitationInput{InfluencerID: second.ID, Message: "Fresh"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	swept, err := svc.SweepExpired(time.Now(), 100)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if swept != 1 {
		t.Fatalf("expected 1 swept invitation, got %d", swept)
	}

	var stored models.Invitation
	if err := db.First(&stored, lapsed.ID).Error; err != nil {
		t.Fatalf("reload invitation failed: %v", err)
	}
	if stored.Status != constants.InvitationStatusExpired {
		t.Fatalf("expected stored expired status, got %s", stored.Status)
	}
	stored = models.Invitation{}
	if err := db.First(&stored, fresh.ID).Error; err != nil {
		t.Fatalf("reload invitation failed: %v", err)
	}
	if stored.Status != constants.InvitationStatusPending {
		t.Fatalf("expected fresh invitation untouched, got %s", stored.Status)
	}
}

func TestInvitationListDerivesExpiry(t *testing.T) {
	svc, db := setupInvitationServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	influencer := createTestUser(t, db, 2, constants.UserRoleInfluencer)
	createExpiredInvitation(t, db, brand.ID, influencer.ID)

	invitations, total, err := svc.ListForBrand(brand.ID, repository.InvitationListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(invitations) != 1 {
		t.Fatalf("expected 1 invitation, got total=%d len=%d", total, len(invitations))
	}
	if invitations[0].Status != constants.InvitationStatusExpired {
		t.Fatalf("expected derived expired status in list, got %s", invitations[0].Status)
	}
}
