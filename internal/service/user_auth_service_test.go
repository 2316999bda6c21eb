package service

import (
	"errors"
	"testing"

	"github.com/sponza-next/internal/config"
	"github.com/sponza-next/internal/constants"
	"github.com/sponza-next/internal/models"
	"github.com/sponza-next/internal/repository"

	"gorm.io/gorm"
)

func setupUserAuthServiceTest(t *testing.T) (*UserAuthService, *ReferralService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, "user_auth_service_test")
	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "user-auth-test-secret-user-auth-test"
	cfg.UserJWT.ExpireHours = 24
	cfg.Security.PasswordPolicy.MinLength = 8
	cfg.Referral.RewardAmount = "100"

	referralService := NewReferralService(cfg,
		repository.NewAffiliateRepository(db),
		repository.NewUserRepository(db),
		repository.NewTransactionRepository(db),
		nil)
	svc := NewUserAuthService(cfg, repository.NewUserRepository(db), referralService)
	return svc, referralService, db
}

func TestUserRegisterAndLogin(t *testing.T) {
	svc, _, _ := setupUserAuthServiceTest(t)

	user, token, _, err := svc.Register(RegisterInput{
		Email:    "Brand@Example.com",
		Password: "password123",
		Role:     constants.UserRoleBrand,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "brand@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if user.DisplayName != "brand" {
		t.Fatalf("expected nickname derived from email, got %s", user.DisplayName)
	}
	if token == "" {
		t.Fatalf("expected a token on register")
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != constants.UserRoleBrand {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, _, _, err := svc.Register(RegisterInput{
		Email:    "brand@example.com",
		Password: "password123",
		Role:     constants.UserRoleBrand,
	}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	logged, _, _, err := svc.Login("brand@example.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.LastLoginAt == nil {
		t.Fatalf("expected last login timestamp")
	}
	if _, _, _, err := svc.Login("brand@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login("nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestUserRegisterValidations(t *testing.T) {
	svc, _, _ := setupUserAuthServiceTest(t)

	if _, _, _, err := svc.Register(RegisterInput{
		Email: "x@example.com", Password: "password123", Role: "admin",
	}); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{
		Email: "not-an-email", Password: "password123", Role: constants.UserRoleBrand,
	}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{
		Email: "x@example.com", Password: "short", Role: constants.UserRoleBrand,
	}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{
		Email: "x@example.com", Password: "password123", Role: constants.UserRoleBrand,
		ReferralCode: "NOPE1234",
	}); !errors.Is(err, ErrReferralCodeInvalid) {
		t.Fatalf("expected ErrReferralCodeInvalid, got %v", err)
	}
}

func TestUserRegisterWithReferralCode(t *testing.T) {
	svc, referrals, db := setupUserAuthServiceTest(t)
	referrer := createTestUser(t, db, 1, constants.UserRoleInfluencer)
	profile, err := referrals.GetOrCreateProfile(referrer.ID)
	if err != nil {
		t.Fatalf("get or create profile failed: %v", err)
	}

	user, _, _, err := svc.Register(RegisterInput{
		Email:        "referred@example.com",
		Password:     "password123",
		Role:         constants.UserRoleBrand,
		ReferralCode: profile.ReferralCode,
	})
	if err != nil {
		t.Fatalf("register with referral failed: %v", err)
	}
	if user.ReferredByProfileID == nil || *user.ReferredByProfileID != profile.ID {
		t.Fatalf("expected attribution to profile %d, got %+v", profile.ID, user.ReferredByProfileID)
	}

	// Registration books the referrer's pending reward.
	var reward models.Transaction
	if err := db.Where("user_id = ? AND type = ?", referrer.ID, constants.TransactionTypeReferralReward).
		First(&reward).Error; err != nil {
		t.Fatalf("load reward failed: %v", err)
	}
	if reward.Status != constants.TransactionStatusPending {
		t.Fatalf("expected pending reward, got %s", reward.Status)
	}
	if reward.ReferenceID == nil || *reward.ReferenceID != user.ID {
		t.Fatalf("expected reward referencing the new user, got %+v", reward.ReferenceID)
	}
}

func TestUserChangePasswordRevokesTokens(t *testing.T) {
	svc, _, db := setupUserAuthServiceTest(t)
	user, _, _, err := svc.Register(RegisterInput{
		Email:    "rotate@example.com",
		Password: "password123",
		Role:     constants.UserRoleInfluencer,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.ChangePassword(user.ID, "wrong", "newpassword123"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "password123", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "password123", "newpassword123"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if stored.TokenVersion != user.TokenVersion+1 || stored.TokenInvalidBefore == nil {
		t.Fatalf("expected token revocation markers, got version=%d invalid_before=%v",
			stored.TokenVersion, stored.TokenInvalidBefore)
	}

	if _, _, _, err := svc.Login("rotate@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected old password to stop working, got %v", err)
	}
	if _, _, _, err := svc.Login("rotate@example.com", "newpassword123"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestUserLoginDisabledAccount(t *testing.T) {
	svc, _, db := setupUserAuthServiceTest(t)
	if _, _, _, err := svc.Register(RegisterInput{
		Email:    "blocked@example.com",
		Password: "password123",
		Role:     constants.UserRoleBrand,
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := db.Model(&models.User{}).Where("email = ?", "blocked@example.com").
		Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, _, _, err := svc.Login("blocked@example.com", "password123"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

func TestUserUpdateProfile(t *testing.T) {
	svc, _, _ := setupUserAuthServiceTest(t)
	user, _, _, err := svc.Register(RegisterInput{
		Email:    "profile@example.com",
		Password: "password123",
		Role:     constants.UserRoleInfluencer,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	name := "Fresh Name"
	updated, err := svc.UpdateProfile(user.ID, &name)
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.DisplayName != "Fresh Name" {
		t.Fatalf("expected updated display name, got %s", updated.DisplayName)
	}

	blank := "   "
	if _, err := svc.UpdateProfile(user.ID, &blank); !errors.Is(err, ErrProfileEmpty) {
		t.Fatalf("expected ErrProfileEmpty, got %v", err)
	}
	if _, err := svc.UpdateProfile(9999, &name); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
