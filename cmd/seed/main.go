package main

import (
	"errors"
	stdLog "log"
	"os"
	"time"

	"github.com/sponza-next/internal/config"
	"github.com/sponza-next/internal/constants"
	"github.com/sponza-next/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeds a development database with a default admin, two demo accounts
// and a few campaigns. Safe to run repeatedly.
func main() {
	cfg := config.Load()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("failed to initialize database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("failed to migrate database: %v", err)
	}

	if err := models.InitDefaultAdmin(
		os.Getenv("SPONZA_DEFAULT_ADMIN_USERNAME"),
		os.Getenv("SPONZA_DEFAULT_ADMIN_PASSWORD"),
	); err != nil {
		stdLog.Fatalf("failed to initialize default admin: %v", err)
	}

	brand := seedUser("brand@example.com", "Acme Beverages", constants.UserRoleBrand)
	seedUser("creator@example.com", "Demo Creator", constants.UserRoleInfluencer)

	seedCampaign(brand.ID, "Summer Launch", "Short-form videos for the summer product line.",
		decimal.NewFromInt(25000), []string{constants.ContentPlatformInstagram, constants.ContentPlatformYouTube},
		constants.CampaignStatusActive)
	seedCampaign(brand.ID, "Festive Teasers", "Teaser reels ahead of the festive season.",
		decimal.NewFromInt(40000), []string{constants.ContentPlatformInstagram},
		constants.CampaignStatusDraft)

	stdLog.Println("seed complete")
}

func seedUser(email, displayName, role string) *models.User {
	var existing models.User
	err := models.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		stdLog.Printf("user %s already exists, skipping", email)
		return &existing
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		stdLog.Fatalf("failed to look up user %s: %v", email, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         role,
		Status:       constants.UserStatusActive,
	}
	if err := models.DB.Create(&user).Error; err != nil {
		stdLog.Fatalf("failed to create user %s: %v", email, err)
	}
	stdLog.Printf("created %s user %s (password: password123)", role, email)
	return &user
}

func seedCampaign(brandID uint, title, description string, budget decimal.Decimal, platforms []string, status string) {
	var count int64
	if err := models.DB.Model(&models.Campaign{}).
		Where("brand_id = ? AND title = ?", brandID, title).
		Count(&count).Error; err != nil {
		stdLog.Fatalf("failed to look up campaign %q: %v", title, err)
	}
	if count > 0 {
		stdLog.Printf("campaign %q already exists, skipping", title)
		return
	}

	now := time.Now()
	ends := now.AddDate(0, 1, 0)
	campaign := models.Campaign{
		BrandID:     brandID,
		Title:       title,
		Description: description,
		Budget:      models.NewMoneyFromDecimal(budget),
		Platforms:   models.StringArray(platforms),
		Status:      status,
		StartsAt:    &now,
		EndsAt:      &ends,
	}
	if err := models.DB.Create(&campaign).Error; err != nil {
		stdLog.Fatalf("failed to create campaign %q: %v", title, err)
	}
	stdLog.Printf("created campaign %q", title)
}
