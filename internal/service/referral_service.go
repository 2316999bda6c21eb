package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/sponza-next/internal/config"
	"github.com/sponza-next/internal/constants"
	"github.com/sponza-next/internal/logger"
	"github.com/sponza-next/internal/models"
	"github.com/sponza-next/internal/repository"

	"github.com/shopspring/decimal"
)

const referralCodeMaxAttempts = 8

// ReferralService referral profiles, codes and rewards
type ReferralService struct {
	cfg                 *config.Config
	affiliateRepo       repository.AffiliateRepository
	userRepo            repository.UserRepository
	transactionRepo     repository.TransactionRepository
	notificationService *NotificationService
}

// NewReferralService creates the referral service
func NewReferralService(
	cfg *config.Config,
	affiliateRepo repository.AffiliateRepository,
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	notificationService *NotificationService,
) *ReferralService {
	return &ReferralService{
		cfg:                 cfg,
		affiliateRepo:       affiliateRepo,
		userRepo:            userRepo,
		transactionRepo:     transactionRepo,
		notificationService: notificationService,
	}
}

// GetOrCreateProfile returns the user's referral profile, creating it on
// first access. Creation races resolve through the unique index on
// user_id: the loser re-reads the winner's row.
func (s *ReferralService) GetOrCreateProfile(userID uint) (*models.AffiliateProfile, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}

	profile, err := s.affiliateRepo.GetProfileByUserID(userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	reward := s.rewardAmount()
	for attempt := 0; attempt < referralCodeMaxAttempts; attempt++ {
		code, err := generateReferralCode()
		if err != nil {
			return nil, err
		}
		taken, err := s.affiliateRepo.GetProfileByCode(code)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			continue
		}

		now := time.Now()
		candidate := &models.AffiliateProfile{
			UserID:       userID,
			ReferralCode: code,
			Status:       constants.AffiliateProfileStatusActive,
			RewardAmount: models.NewMoneyFromDecimal(reward),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.affiliateRepo.CreateProfile(candidate); err != nil {
			// Either the code or the user_id uniqueness lost a race.
			existing, getErr := s.affiliateRepo.GetProfileByUserID(userID)
			if getErr == nil && existing != nil {
				return existing, nil
			}
			continue
		}
		return candidate, nil
	}
	return nil, ErrReferralCodeConflict
}

// RegenerateCode replaces the profile's code. Attribution of existing
// referred users is keyed by profile ID, so history is unaffected.
func (s *ReferralService) RegenerateCode(userID uint) (*models.AffiliateProfile, error) {
	profile, err := s.GetOrCreateProfile(userID)
	if err != nil {
		return nil, err
	}
	if strings.ToLower(profile.Status) != constants.AffiliateProfileStatusActive {
		return nil, ErrReferralDisabled
	}

	for attempt := 0; attempt < referralCodeMaxAttempts; attempt++ {
		code, err := generateReferralCode()
		if err != nil {
			return nil, err
		}
		taken, err := s.affiliateRepo.GetProfileByCode(code)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			continue
		}
		profile.ReferralCode = code
		profile.UpdatedAt = time.Now()
		if err := s.affiliateRepo.UpdateProfile(profile); err != nil {
			continue
		}
		return profile, nil
	}
	return nil, ErrReferralCodeConflict
}

// ResolveActiveProfileByCode maps a code to its active profile, nil when
// unknown or disabled.
func (s *ReferralService) ResolveActiveProfileByCode(code string) (*models.AffiliateProfile, error) {
	profile, err := s.affiliateRepo.GetProfileByCode(code)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, nil
	}
	if strings.ToLower(profile.Status) != constants.AffiliateProfileStatusActive {
		return nil, nil
	}
	return profile, nil
}

// RecordSignupReward books a pending reward for one attributed signup.
// The ledger row references the new user's ID, which keeps retries
// idempotent. The reward completes when the referred user's first
// subscription payment verifies.
func (s *ReferralService) RecordSignupReward(profile *models.AffiliateProfile, referred *models.User) error {
	if profile == nil || referred == nil || referred.ID == 0 {
		return nil
	}

	existing, err := s.transactionRepo.GetByReference(profile.UserID, constants.TransactionTypeReferralReward, referred.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	amount := profile.RewardAmount.Decimal
	if amount.LessThanOrEqual(decimal.Zero) {
		amount = s.rewardAmount()
	}

	now := time.Now()
	referredID := referred.ID
	transaction := &models.Transaction{
		UserID:      profile.UserID,
		Type:        constants.TransactionTypeReferralReward,
		Status:      constants.TransactionStatusPending,
		Amount:      models.NewMoneyFromDecimal(amount),
		Currency:    constants.SiteCurrencyDefault,
		ReferenceID: &referredID,
		Description: fmt.Sprintf("Referral reward for signup of %s", referred.Email),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.transactionRepo.Create(transaction); err != nil {
		return err
	}

	if s.notificationService != nil {
		if err := s.notificationService.Notify(profile.UserID, constants.NotificationTypeReferralReward,
			"Referral reward pending",
			fmt.Sprintf("A referral signed up. %s %s will be credited after their first payment.", constants.SiteCurrencyDefault, amount.Round(2).String()),
		); err != nil {
			logger.Warnw("referral_reward_notify_failed", "user_id", profile.UserID, "error", err)
		}
	}
	return nil
}

// ConfirmRewardForReferredUser completes the referrer's pending reward
// once the referred user's first payment verifies. Safe to call on
// every verified payment: only a pending row transitions.
func (s *ReferralService) ConfirmRewardForReferredUser(referredUserID uint) error {
	if referredUserID == 0 {
		return nil
	}
	referred, err := s.userRepo.GetByID(referredUserID)
	if err != nil {
		return err
	}
	if referred == nil || referred.ReferredByProfileID == nil {
		return nil
	}
	profile, err := s.affiliateRepo.GetProfileByID(*referred.ReferredByProfileID)
	if err != nil {
		return err
	}
	if profile == nil {
		return nil
	}

	reward, err := s.transactionRepo.GetByReference(profile.UserID, constants.TransactionTypeReferralReward, referredUserID)
	if err != nil {
		return err
	}
	if reward == nil || reward.Status != constants.TransactionStatusPending {
		return nil
	}

	now := time.Now()
	reward.Status = constants.TransactionStatusCompleted
	reward.CompletedAt = &now
	reward.UpdatedAt = now
	if err := s.transactionRepo.Update(reward); err != nil {
		return err
	}

	if s.notificationService != nil {
		if err := s.notificationService.Notify(profile.UserID, constants.NotificationTypeReferralReward,
			"Referral reward earned",
			fmt.Sprintf("You earned %s %s for a successful referral.", constants.SiteCurrencyDefault, reward.Amount.Decimal.Round(2).String()),
		); err != nil {
			logger.Warnw("referral_reward_notify_failed", "user_id", profile.UserID, "error", err)
		}
	}
	return nil
}

// ReferralMetrics derived referral statistics. Nothing here is stored;
// every number is computed from users and the ledger at read time.
type ReferralMetrics struct {
	ReferralCode    string          `json:"referral_code"`
	Status          string          `json:"status"`
	RewardAmount    models.Money    `json:"reward_amount"`
	TotalReferred   int64           `json:"total_referred"`
	MonthlyReferred int64           `json:"monthly_referred"`
	TotalEarned     decimal.Decimal `json:"total_earned"`
	PendingEarnings decimal.Decimal `json:"pending_earnings"`
	MonthlyEarned   decimal.Decimal `json:"monthly_earned"`
}

// Metrics computes a user's referral dashboard
func (s *ReferralService) Metrics(userID uint) (*ReferralMetrics, error) {
	profile, err := s.GetOrCreateProfile(userID)
	if err != nil {
		return nil, err
	}

	monthStart := startOfMonth(time.Now())

	total, err := s.userRepo.CountReferredByProfile(profile.ID)
	if err != nil {
		return nil, err
	}
	monthly, err := s.userRepo.CountReferredByProfileSince(profile.ID, monthStart)
	if err != nil {
		return nil, err
	}
	earned, err := s.transactionRepo.SumByUser(userID, constants.TransactionTypeReferralReward, nil)
	if err != nil {
		return nil, err
	}
	pending, err := s.transactionRepo.SumByUser(userID, constants.TransactionTypeReferralReward,
		[]string{constants.TransactionStatusPending})
	if err != nil {
		return nil, err
	}
	monthlyEarned, err := s.transactionRepo.SumByUserSince(userID, constants.TransactionTypeReferralReward, nil, monthStart)
	if err != nil {
		return nil, err
	}

	return &ReferralMetrics{
		ReferralCode:    profile.ReferralCode,
		Status:          profile.Status,
		RewardAmount:    profile.RewardAmount,
		TotalReferred:   total,
		MonthlyReferred: monthly,
		TotalEarned:     earned,
		PendingEarnings: pending,
		MonthlyEarned:   monthlyEarned,
	}, nil
}

// SetProfileStatus enables or disables a profile (admin)
func (s *ReferralService) SetProfileStatus(profileID uint, status string) error {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if normalized != constants.AffiliateProfileStatusActive && normalized != constants.AffiliateProfileStatusDisabled {
		return ErrInvalidStatusChange
	}
	profile, err := s.affiliateRepo.GetProfileByID(profileID)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrNotFound
	}
	return s.affiliateRepo.UpdateProfileStatus(profileID, normalized, time.Now())
}

// ListProfiles queries profiles (admin)
func (s *ReferralService) ListProfiles(filter repository.AffiliateProfileListFilter) ([]models.AffiliateProfile, int64, error) {
	return s.affiliateRepo.ListProfiles(filter)
}

// ListRewards queries a user's reward ledger
func (s *ReferralService) ListRewards(userID uint, page, pageSize int) ([]models.Transaction, int64, error) {
	if userID == 0 {
		return []models.Transaction{}, 0, nil
	}
	return s.transactionRepo.List(repository.TransactionListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Type:     constants.TransactionTypeReferralReward,
	})
}

func (s *ReferralService) rewardAmount() decimal.Decimal {
	if s.cfg != nil {
		if amount, err := decimal.NewFromString(strings.TrimSpace(s.cfg.Referral.RewardAmount)); err == nil && amount.GreaterThan(decimal.Zero) {
			return amount.Round(2)
		}
	}
	return decimal.NewFromInt(100)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func generateReferralCode() (string, error) {
	alphabet := constants.ReferralCodeAlphabet
	var b strings.Builder
	for i := 0; i < constants.ReferralCodeLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	return b.String(), nil
}
