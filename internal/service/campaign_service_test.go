package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sponza-next/internal/config"
	"github.com/sponza-next/internal/constants"
	"github.com/sponza-next/internal/models"
	"github.com/sponza-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Campaign{},
		&models.Application{},
		&models.Invitation{},
		&models.Content{},
		&models.Subscription{},
		&models.AffiliateProfile{},
		&models.Transaction{},
		&models.Payment{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, id uint, role string) *models.User {
	t.Helper()
	now := time.Now()
	user := models.User{
		ID:           id,
		Email:        fmt.Sprintf("user_%d@example.com", id),
		PasswordHash: "hash",
		DisplayName:  fmt.Sprintf("User %d", id),
		Role:         role,
		Status:       constants.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return &user
}

func createTestCampaign(t *testing.T, db *gorm.DB, brandID uint, status string) *models.Campaign {
	t.Helper()
	now := time.Now()
	campaign := models.Campaign{
		BrandID:   brandID,
		Title:     fmt.Sprintf("Campaign %d", now.UnixNano()),
		Budget:    models.NewMoneyFromDecimal(decimal.NewFromInt(5000)),
		Platforms: models.StringArray{constants.ContentPlatformInstagram},
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(&campaign).Error; err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}
	return &campaign
}

func setupCampaignServiceTest(t *testing.T) (*CampaignService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, "campaign_service_test")
	cfg := &config.Config{}
	subscriptionService := NewSubscriptionService(cfg,
		repository.NewSubscriptionRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewTransactionRepository(db),
		nil, nil)
	svc := NewCampaignService(
		repository.NewCampaignRepository(db),
		repository.NewContentRepository(db),
		subscriptionService)
	return svc, db
}

func TestCampaignCreateEnforcesPlanLimit(t *testing.T) {
	svc, db := setupCampaignServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)

	// The free tier allows two live campaigns.
	for i := 0; i < 2; i++ {
		_, err := svc.Create(brand.ID, CreateCampaignInput{
			Title:  fmt.Sprintf("Launch %d", i),
			Budget: models.NewMoneyFromDecimal(decimal.NewFromInt(5000)),
		})
		if err != nil {
			t.Fatalf("create campaign %d failed: %v", i, err)
		}
	}
	_, err := svc.Create(brand.ID, CreateCampaignInput{
		Title:  "One too many",
		Budget: models.NewMoneyFromDecimal(decimal.NewFromInt(5000)),
	})
	if !errors.Is(err, ErrCampaignLimitReached) {
		t.Fatalf("expected ErrCampaignLimitReached, got %v", err)
	}

	// Completing a campaign frees a slot.
	var first models.Campaign
	if err := db.Where("brand_id = ?", brand.ID).First(&first).Error; err != nil {
		t.Fatalf("load campaign failed: %v", err)
	}
	if err := db.Model(&models.Campaign{}).Where("id = ?", first.ID).
		Update("status", constants.CampaignStatusCompleted).Error; err != nil {
		t.Fatalf("complete campaign failed: %v", err)
	}
	if _, err := svc.Create(brand.ID, CreateCampaignInput{
		Title:  "Replacement",
		Budget: models.NewMoneyFromDecimal(decimal.NewFromInt(5000)),
	}); err != nil {
		t.Fatalf("create after completion failed: %v", err)
	}
}

func TestCampaignCreateEnforcesBudgetCap(t *testing.T) {
	svc, db := setupCampaignServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)

	_, err := svc.Create(brand.ID, CreateCampaignInput{
		Title:  "Too expensive",
		Budget: models.NewMoneyFromDecimal(decimal.NewFromInt(20000)),
	})
	if !errors.Is(err, ErrBudgetLimitExceeded) {
		t.Fatalf("expected ErrBudgetLimitExceeded, got %v", err)
	}
	_, err = svc.Create(brand.ID, CreateCampaignInput{
		Title:  "Negative",
		Budget: models.NewMoneyFromDecimal(decimal.NewFromInt(-1)),
	})
	if !errors.Is(err, ErrBudgetLimitExceeded) {
		t.Fatalf("expected ErrBudgetLimitExceeded for negative budget, got %v", err)
	}
	_, err = svc.Create(brand.ID, CreateCampaignInput{
		Title:  "   ",
		Budget: models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
	})
	if !errors.Is(err, ErrProfileEmpty) {
		t.Fatalf("expected ErrProfileEmpty for blank title, got %v", err)
	}
}

func TestCampaignStatusTransitions(t *testing.T) {
	svc, db := setupCampaignServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	campaign, err := svc.Create(brand.ID, CreateCampaignInput{
		Title:  "Lifecycle",
		Budget: models.NewMoneyFromDecimal(decimal.NewFromInt(5000)),
	})
	if err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}
	if campaign.Status != constants.CampaignStatusDraft {
		t.Fatalf("expected draft, got %s", campaign.Status)
	}

	if _, err := svc.ChangeStatus(brand.ID, campaign.ID, constants.CampaignStatusCompleted); !errors.Is(err, ErrInvalidStatusChange) {
		t.Fatalf("expected ErrInvalidStatusChange for draft->completed, got %v", err)
	}
	if _, err := svc.ChangeStatus(brand.ID, campaign.ID, constants.CampaignStatusActive); err != nil {
		t.Fatalf("draft->active failed: %v", err)
	}
	if _, err := svc.ChangeStatus(brand.ID, campaign.ID, constants.CampaignStatusPaused); err != nil {
		t.Fatalf("active->paused failed: %v", err)
	}
	if _, err := svc.ChangeStatus(brand.ID, campaign.ID, constants.CampaignStatusActive); err != nil {
		t.Fatalf("paused->active failed: %v", err)
	}
	if _, err := svc.ChangeStatus(brand.ID, campaign.ID, constants.CampaignStatusCompleted); err != nil {
		t.Fatalf("active->completed failed: %v", err)
	}
	if _, err := svc.ChangeStatus(brand.ID, campaign.ID, constants.CampaignStatusActive); !errors.Is(err, ErrInvalidStatusChange) {
		t.Fatalf("expected completed to be terminal, got %v", err)
	}
}

func TestCampaignOwnershipChecks(t *testing.T) {
	svc, db := setupCampaignServiceTest(t)
	owner := createTestUser(t, db, 1, constants.UserRoleBrand)
	other := createTestUser(t, db, 2, constants.UserRoleBrand)
	campaign := createTestCampaign(t, db, owner.ID, constants.CampaignStatusDraft)

	if _, err := svc.GetForBrand(other.ID, campaign.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.GetForBrand(owner.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(other.ID, campaign.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}
}

func TestCampaignDeleteOnlyDrafts(t *testing.T) {
	svc, db := setupCampaignServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	draft := createTestCampaign(t, db, brand.ID, constants.CampaignStatusDraft)
	active := createTestCampaign(t, db, brand.ID, constants.CampaignStatusActive)

	if err := svc.Delete(brand.ID, active.ID); !errors.Is(err, ErrCampaignNotEditable) {
		t.Fatalf("expected ErrCampaignNotEditable, got %v", err)
	}
	if err := svc.Delete(brand.ID, draft.ID); err != nil {
		t.Fatalf("delete draft failed: %v", err)
	}
	if _, err := svc.GetForBrand(brand.ID, draft.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted campaign to be gone, got %v", err)
	}
}

func TestCampaignPublicVisibility(t *testing.T) {
	svc, db := setupCampaignServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	draft := createTestCampaign(t, db, brand.ID, constants.CampaignStatusDraft)
	active := createTestCampaign(t, db, brand.ID, constants.CampaignStatusActive)

	if _, err := svc.GetPublic(draft.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected draft to be invisible, got %v", err)
	}
	got, err := svc.GetPublic(active.ID)
	if err != nil {
		t.Fatalf("get public failed: %v", err)
	}
	if got.ID != active.ID {
		t.Fatalf("expected campaign %d, got %d", active.ID, got.ID)
	}

	campaigns, total, err := svc.Browse(repository.CampaignListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("browse failed: %v", err)
	}
	if total != 1 || len(campaigns) != 1 {
		t.Fatalf("expected exactly the active campaign, got total=%d len=%d", total, len(campaigns))
	}
}

func TestCampaignReconcileCounters(t *testing.T) {
	svc, db := setupCampaignServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	campaign := createTestCampaign(t, db, brand.ID, constants.CampaignStatusActive)

	now := time.Now()
	statuses := []string{
		constants.ApplicationStatusApplied,
		constants.ApplicationStatusApplied,
		constants.ApplicationStatusAccepted,
		constants.ApplicationStatusRejected,
		constants.ApplicationStatusWithdrawn,
	}
	for i, status := range statuses {
		application := models.Application{
			CampaignID:   campaign.ID,
			InfluencerID: uint(100 + i),
			Message:      "proposal",
			Status:       status,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := db.Create(&application).Error; err != nil {
			t.Fatalf("create application failed: %v", err)
		}
	}
	// Corrupt the counters, then let the repair recompute them.
	if err := db.Model(&models.Campaign{}).Where("id = ?", campaign.ID).Updates(map[string]interface{}{
		"total_applications":   99,
		"pending_applications": 99,
	}).Error; err != nil {
		t.Fatalf("corrupt counters failed: %v", err)
	}

	repaired, err := svc.ReconcileCounters(campaign.ID)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if repaired.TotalApplications != 5 {
		t.Fatalf("expected total 5, got %d", repaired.TotalApplications)
	}
	if repaired.PendingApplications != 2 || repaired.AcceptedApplications != 1 || repaired.RejectedApplications != 1 {
		t.Fatalf("unexpected counters: %+v", repaired)
	}
}

func TestCampaignUpdateFrozenWhenCompleted(t *testing.T) {
	svc, db := setupCampaignServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	campaign := createTestCampaign(t, db, brand.ID, constants.CampaignStatusCompleted)

	title := "New title"
	if _, err := svc.Update(brand.ID, campaign.ID, UpdateCampaignInput{Title: &title}); !errors.Is(err, ErrCampaignNotEditable) {
		t.Fatalf("expected ErrCampaignNotEditable, got %v", err)
	}
}
