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

func setupReferralServiceTest(t *testing.T) (*ReferralService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, "referral_service_test")
	cfg := &config.Config{}
	cfg.Referral.RewardAmount = "150"
	svc := NewReferralService(cfg,
		repository.NewAffiliateRepository(db),
		repository.NewUserRepository(db),
		repository.NewTransactionRepository(db),
		nil)
	return svc, db
}

func attributeReferral(t *testing.T, db *gorm.DB, referredID, profileID uint) {
	t.Helper()
	if err := db.Model(&models.User{}).Where("id = ?", referredID).
		Update("referred_by_profile_id", profileID).Error; err != nil {
		t.Fatalf("attribute referral failed: %v", err)
	}
}

func TestReferralGetOrCreateProfileIdempotent(t *testing.T) {
	svc, db := setupReferralServiceTest(t)
	user := createTestUser(t, db, 1, constants.UserRoleInfluencer)

	profile, err := svc.GetOrCreateProfile(user.ID)
	if err != nil {
		t.Fatalf("get or create failed: %v", err)
	}
	if len(profile.ReferralCode) != constants.ReferralCodeLength {
		t.Fatalf("expected %d-char code, got %q", constants.ReferralCodeLength, profile.ReferralCode)
	}
	if profile.Status != constants.AffiliateProfileStatusActive {
		t.Fatalf("expected active profile, got %s", profile.Status)
	}
	if !profile.RewardAmount.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected configured reward 150, got %s", profile.RewardAmount.String())
	}

	again, err := svc.GetOrCreateProfile(user.ID)
	if err != nil {
		t.Fatalf("second get or create failed: %v", err)
	}
	if again.ID != profile.ID || again.ReferralCode != profile.ReferralCode {
		t.Fatalf("expected the same profile, got %+v vs %+v", profile, again)
	}

	if _, err := svc.GetOrCreateProfile(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestReferralRegenerateKeepsAttribution(t *testing.T) {
	svc, db := setupReferralServiceTest(t)
	referrer := createTestUser(t, db, 1, constants.UserRoleInfluencer)
	referred := createTestUser(t, db, 2, constants.UserRoleBrand)

	profile, err := svc.GetOrCreateProfile(referrer.ID)
	if err != nil {
		t.Fatalf("get or create failed: %v", err)
	}
	oldCode := profile.ReferralCode
	attributeReferral(t, db, referred.ID, profile.ID)

	regenerated, err := svc.RegenerateCode(referrer.ID)
	if err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}
	if regenerated.ID != profile.ID {
		t.Fatalf("expected the same profile row, got %d vs %d", profile.ID, regenerated.ID)
	}
	if regenerated.ReferralCode == oldCode {
		t.Fatalf("expected a new code")
	}

	// The old code stops resolving; attribution by profile ID survives.
	resolved, err := svc.ResolveActiveProfileByCode(oldCode)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved != nil {
		t.Fatalf("expected old code to be dead, got %+v", resolved)
	}
	resolved, err = svc.ResolveActiveProfileByCode(regenerated.ReferralCode)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved == nil || resolved.ID != profile.ID {
		t.Fatalf("expected new code to resolve to profile %d", profile.ID)
	}
	total, err := repository.NewUserRepository(db).CountReferredByProfile(profile.ID)
	if err != nil {
		t.Fatalf("count referred failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected attribution to survive regeneration, got %d", total)
	}
}

func TestReferralDisabledProfile(t *testing.T) {
	svc, db := setupReferralServiceTest(t)
	user := createTestUser(t, db, 1, constants.UserRoleInfluencer)
	profile, err := svc.GetOrCreateProfile(user.ID)
	if err != nil {
		t.Fatalf("get or create failed: %v", err)
	}

	if err := svc.SetProfileStatus(profile.ID, constants.AffiliateProfileStatusDisabled); err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	if _, err := svc.RegenerateCode(user.ID); !errors.Is(err, ErrReferralDisabled) {
		t.Fatalf("expected ErrReferralDisabled, got %v", err)
	}
	resolved, err := svc.ResolveActiveProfileByCode(profile.ReferralCode)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved != nil {
		t.Fatalf("expected disabled profile to stop resolving")
	}
	if err := svc.SetProfileStatus(profile.ID, "bogus"); !errors.Is(err, ErrInvalidStatusChange) {
		t.Fatalf("expected ErrInvalidStatusChange, got %v", err)
	}
}

func TestReferralRewardLifecycle(t *testing.T) {
	svc, db := setupReferralServiceTest(t)
	referrer := createTestUser(t, db, 1, constants.UserRoleInfluencer)
	referred := createTestUser(t, db, 2, constants.UserRoleBrand)

	profile, err := svc.GetOrCreateProfile(referrer.ID)
	if err != nil {
		t.Fatalf("get or create failed: %v", err)
	}
	attributeReferral(t, db, referred.ID, profile.ID)

	if err := svc.RecordSignupReward(profile, referred); err != nil {
		t.Fatalf("record reward failed: %v", err)
	}
	// Retrying books nothing extra.
	if err := svc.RecordSignupReward(profile, referred); err != nil {
		t.Fatalf("second record failed: %v", err)
	}
	var count int64
	if err := db.Model(&models.Transaction{}).Where("user_id = ? AND type = ?",
		referrer.ID, constants.TransactionTypeReferralReward).Count(&count).Error; err != nil {
		t.Fatalf("count rewards failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 reward row, got %d", count)
	}

	rewards, _, err := svc.ListRewards(referrer.ID, 1, 10)
	if err != nil {
		t.Fatalf("list rewards failed: %v", err)
	}
	if len(rewards) != 1 || rewards[0].Status != constants.TransactionStatusPending {
		t.Fatalf("expected 1 pending reward, got %+v", rewards)
	}

	// The referred user's first verified payment completes the reward.
	if err := svc.ConfirmRewardForReferredUser(referred.ID); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	rewards, _, err = svc.ListRewards(referrer.ID, 1, 10)
	if err != nil {
		t.Fatalf("list rewards failed: %v", err)
	}
	if rewards[0].Status != constants.TransactionStatusCompleted || rewards[0].CompletedAt == nil {
		t.Fatalf("expected completed reward, got %+v", rewards[0])
	}
	completedAt := *rewards[0].CompletedAt

	// A second payment does not double-credit.
	if err := svc.ConfirmRewardForReferredUser(referred.ID); err != nil {
		t.Fatalf("second confirm failed: %v", err)
	}
	rewards, _, err = svc.ListRewards(referrer.ID, 1, 10)
	if err != nil {
		t.Fatalf("list rewards failed: %v", err)
	}
	if len(rewards) != 1 || !rewards[0].CompletedAt.Equal(completedAt) {
		t.Fatalf("expected the reward untouched, got %+v", rewards)
	}
}

func TestReferralMetrics(t *testing.T) {
	svc, db := setupReferralServiceTest(t)
	referrer := createTestUser(t, db, 1, constants.UserRoleInfluencer)
	recent := createTestUser(t, db, 2, constants.UserRoleBrand)
	older := createTestUser(t, db, 3, constants.UserRoleBrand)

	profile, err := svc.GetOrCreateProfile(referrer.ID)
	if err != nil {
		t.Fatalf("get or create failed: %v", err)
	}
	attributeReferral(t, db, recent.ID, profile.ID)
	attributeReferral(t, db, older.ID, profile.ID)
	// Push one signup out of the current month window.
	if err := db.Model(&models.User{}).Where("id = ?", older.ID).
		Update("created_at", time.Now().AddDate(0, -2, 0)).Error; err != nil {
		t.Fatalf("backdate user failed: %v", err)
	}

	if err := svc.RecordSignupReward(profile, recent); err != nil {
		t.Fatalf("record reward failed: %v", err)
	}
	if err := svc.RecordSignupReward(profile, older); err != nil {
		t.Fatalf("record reward failed: %v", err)
	}
	if err := svc.ConfirmRewardForReferredUser(recent.ID); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	metrics, err := svc.Metrics(referrer.ID)
	if err != nil {
		t.Fatalf("metrics failed: %v", err)
	}
	if metrics.TotalReferred != 2 {
		t.Fatalf("expected 2 total referred, got %d", metrics.TotalReferred)
	}
	if metrics.MonthlyReferred != 1 {
		t.Fatalf("expected 1 monthly referred, got %d", metrics.MonthlyReferred)
	}
	if !metrics.TotalEarned.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected 300 total earned, got %s", metrics.TotalEarned.String())
	}
	if !metrics.PendingEarnings.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected 150 pending, got %s", metrics.PendingEarnings.String())
	}
	if metrics.ReferralCode != profile.ReferralCode {
		t.Fatalf("expected code %s, got %s", profile.ReferralCode, metrics.ReferralCode)
	}
}
