package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sponza-next/internal/config"
	"github.com/sponza-next/internal/constants"
	"github.com/sponza-next/internal/logger"
	"github.com/sponza-next/internal/models"
	"github.com/sponza-next/internal/payment/razorpay"
	"github.com/sponza-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Plan one purchasable subscription tier
type Plan struct {
	Type     string              `json:"type"`
	Name     string              `json:"name"`
	Price    models.Money        `json:"price"` // per period, INR
	Features models.Entitlements `json:"features"`
}

// planCatalog is ordered cheapest first. Entitlement values <= 0 mean
// unlimited where that makes sense (MaxCampaigns -1, MaxBudget 0).
func planCatalog() []Plan {
	return []Plan{
		{
			Type:  constants.SubscriptionPlanFree,
			Name:  "Free",
			Price: models.NewMoneyFromDecimal(decimal.Zero),
			Features: models.Entitlements{
				MaxCampaigns:     2,
				MaxBudget:        models.NewMoneyFromDecimal(decimal.NewFromInt(10000)),
				AnalyticsTier:    "basic",
				SupportTier:      "community",
				VerificationTier: "none",
				CustomBranding:   false,
				APIAccess:        false,
			},
		},
		{
			Type:  constants.SubscriptionPlanGrowth,
			Name:  "Growth",
			Price: models.NewMoneyFromDecimal(decimal.NewFromInt(999)),
			Features: models.Entitlements{
				MaxCampaigns:     10,
				MaxBudget:        models.NewMoneyFromDecimal(decimal.NewFromInt(100000)),
				AnalyticsTier:    "advanced",
				SupportTier:      "priority",
				VerificationTier: "verified",
				CustomBranding:   true,
				APIAccess:        false,
			},
		},
		{
			Type:  constants.SubscriptionPlanPro,
			Name:  "Pro",
			Price: models.NewMoneyFromDecimal(decimal.NewFromInt(2999)),
			Features: models.Entitlements{
				MaxCampaigns:     -1,
				MaxBudget:        models.NewMoneyFromDecimal(decimal.Zero),
				AnalyticsTier:    "full",
				SupportTier:      "dedicated",
				VerificationTier: "premium",
				CustomBranding:   true,
				APIAccess:        true,
			},
		},
	}
}

// PlanByType looks up a catalog plan
func PlanByType(planType string) (Plan, bool) {
	normalized := strings.ToLower(strings.TrimSpace(planType))
	for _, plan := range planCatalog() {
		if plan.Type == normalized {
			return plan, true
		}
	}
	return Plan{}, false
}

// SubscriptionService brand billing: plan catalog, two-phase Razorpay
// checkout, cancellation and expiry
type SubscriptionService struct {
	cfg                 *config.Config
	subscriptionRepo    repository.SubscriptionRepository
	paymentRepo         repository.PaymentRepository
	transactionRepo     repository.TransactionRepository
	notificationService *NotificationService
	referralService     *ReferralService

	// createOrder is swappable in tests to avoid real gateway calls.
	createOrder func(ctx context.Context, cfg *razorpay.Config, input razorpay.CreateOrderInput) (*razorpay.Order, error)
}

// NewSubscriptionService creates the subscription service
func NewSubscriptionService(
	cfg *config.Config,
	subscriptionRepo repository.SubscriptionRepository,
	paymentRepo repository.PaymentRepository,
	transactionRepo repository.TransactionRepository,
	notificationService *NotificationService,
	referralService *ReferralService,
) *SubscriptionService {
	return &SubscriptionService{
		cfg:                 cfg,
		subscriptionRepo:    subscriptionRepo,
		paymentRepo:         paymentRepo,
		transactionRepo:     transactionRepo,
		notificationService: notificationService,
		referralService:     referralService,
		createOrder:         razorpay.CreateOrder,
	}
}

// Plans returns the purchasable catalog
func (s *SubscriptionService) Plans() []Plan {
	return planCatalog()
}

// Current returns the brand's effective subscription. Brands with no
// paid history get a synthesized always-active free subscription.
// Lapsed paid rows are flipped to expired on read.
func (s *SubscriptionService) Current(brandID uint) (*models.Subscription, error) {
	if brandID == 0 {
		return nil, ErrNotFound
	}
	subscription, err := s.subscriptionRepo.GetCurrentByBrand(brandID)
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		return s.freeSubscription(brandID), nil
	}
	if s.lazyExpire(subscription) {
		return s.freeSubscription(brandID), nil
	}
	return subscription, nil
}

// EffectiveEntitlements resolves the feature set entitlement checks run
// against. Cancelled-but-unexpired keeps the paid snapshot.
func (s *SubscriptionService) EffectiveEntitlements(brandID uint) (models.Entitlements, error) {
	subscription, err := s.Current(brandID)
	if err != nil {
		return models.Entitlements{}, err
	}
	if s.isEntitled(subscription) {
		return subscription.Features, nil
	}
	free, _ := PlanByType(constants.SubscriptionPlanFree)
	return free.Features, nil
}

// CreateOrderResult data the client needs to open Razorpay checkout
type CreateOrderResult struct {
	SubscriptionID  uint         `json:"subscription_id"`
	PaymentID       uint         `json:"payment_id"`
	ProviderOrderID string       `json:"provider_order_id"`
	KeyID           string       `json:"key_id"`
	Amount          models.Money `json:"amount"`
	Currency        string       `json:"currency"`
}

// CreateOrder starts checkout for a paid plan: a pending subscription
// row, an initiated payment row, and a gateway order.
func (s *SubscriptionService) CreateOrder(ctx context.Context, brandID uint, planType string) (*CreateOrderResult, error) {
	if brandID == 0 {
		return nil, ErrNotFound
	}
	plan, ok := PlanByType(planType)
	if !ok {
		return nil, ErrPlanUnknown
	}
	if plan.Type == constants.SubscriptionPlanFree {
		return nil, ErrPlanIsFree
	}

	subscription, err := s.subscriptionRepo.GetPendingByBrandAndPlan(brandID, plan.Type)
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		now := time.Now()
		subscription = &models.Subscription{
			BrandID:   brandID,
			PlanType:  plan.Type,
			Status:    constants.SubscriptionStatusPending,
			Features:  plan.Features,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.subscriptionRepo.Create(subscription); err != nil {
			return nil, err
		}
	}

	rzpCfg := s.razorpayConfig()
	order, err := s.createOrder(ctx, rzpCfg, razorpay.CreateOrderInput{
		Amount:   plan.Price.Decimal,
		Currency: constants.SiteCurrencyDefault,
		Receipt:  fmt.Sprintf("sub_%d", subscription.ID),
		Notes: map[string]string{
			"brand_id":  fmt.Sprintf("%d", brandID),
			"plan_type": plan.Type,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGatewayFailed, err)
	}

	now := time.Now()
	payment := &models.Payment{
		UserID:          brandID,
		SubscriptionID:  subscription.ID,
		Provider:        constants.PaymentProviderRazorpay,
		ProviderOrderID: order.ID,
		Amount:          plan.Price,
		Currency:        constants.SiteCurrencyDefault,
		Status:          constants.PaymentStatusInitiated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}

	return &CreateOrderResult{
		SubscriptionID:  subscription.ID,
		PaymentID:       payment.ID,
		ProviderOrderID: order.ID,
		KeyID:           rzpCfg.KeyID,
		Amount:          plan.Price,
		Currency:        constants.SiteCurrencyDefault,
	}, nil
}

// VerifyPaymentInput checkout callback fields
type VerifyPaymentInput struct {
	ProviderOrderID   string
	ProviderPaymentID string
	Signature         string
}

// VerifyPayment completes checkout. Verification is idempotent: a
// payment already marked success returns the current subscription with
// no period change.
func (s *SubscriptionService) VerifyPayment(brandID uint, input VerifyPaymentInput) (*models.Subscription, error) {
	if brandID == 0 {
		return nil, ErrNotFound
	}
	payment, err := s.paymentRepo.GetByProviderOrderID(constants.PaymentProviderRazorpay, strings.TrimSpace(input.ProviderOrderID))
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if payment.UserID != brandID {
		return nil, ErrForbidden
	}

	if payment.Status == constants.PaymentStatusSuccess {
		return s.subscriptionRepo.GetByID(payment.SubscriptionID)
	}
	if payment.Status != constants.PaymentStatusInitiated {
		return nil, ErrPaymentAlreadyHandled
	}

	if err := razorpay.VerifyPaymentSignature(s.razorpayConfig(),
		input.ProviderOrderID, input.ProviderPaymentID, input.Signature); err != nil {
		now := time.Now()
		_, _ = s.paymentRepo.UpdateStatusIf(payment.ID, constants.PaymentStatusInitiated, map[string]interface{}{
			"status":     constants.PaymentStatusFailed,
			"updated_at": now,
		})
		return nil, ErrPaymentSignature
	}

	periodDays := s.periodDays()
	now := time.Now()
	endDate := now.AddDate(0, 0, periodDays)

	var activated *models.Subscription
	err = s.subscriptionRepo.Transaction(func(tx *gorm.DB) error {
		paymentTx := s.paymentRepo.WithTx(tx)
		subscriptionTx := s.subscriptionRepo.WithTx(tx)

		rows, err := paymentTx.UpdateStatusIf(payment.ID, constants.PaymentStatusInitiated, map[string]interface{}{
			"status":          constants.PaymentStatusSuccess,
			"provider_pay_id": strings.TrimSpace(input.ProviderPaymentID),
			"paid_at":         now,
			"updated_at":      now,
		})
		if err != nil {
			return err
		}
		if rows == 0 {
			// Lost a concurrent verify; the winner activated already.
			return nil
		}

		subscription, err := subscriptionTx.GetByIDForUpdate(payment.SubscriptionID)
		if err != nil {
			return err
		}
		if subscription == nil {
			return ErrSubscriptionNotFound
		}
		paymentID := payment.ID
		subscription.Status = constants.SubscriptionStatusActive
		subscription.StartDate = &now
		subscription.EndDate = &endDate
		subscription.PaymentID = &paymentID
		subscription.UpdatedAt = now
		if err := subscriptionTx.Update(subscription); err != nil {
			return err
		}

		transaction := &models.Transaction{
			UserID:      brandID,
			Type:        constants.TransactionTypeSubscriptionPayment,
			Status:      constants.TransactionStatusCompleted,
			Amount:      payment.Amount,
			Currency:    payment.Currency,
			ReferenceID: &paymentID,
			Description: fmt.Sprintf("Subscription payment for %s plan", subscription.PlanType),
			CompletedAt: &now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.transactionRepo.WithTx(tx).Create(transaction); err != nil {
			return err
		}

		activated = subscription
		return nil
	})
	if err != nil {
		return nil, err
	}
	if activated == nil {
		return s.subscriptionRepo.GetByID(payment.SubscriptionID)
	}

	if s.notificationService != nil {
		if err := s.notificationService.Notify(brandID, constants.NotificationTypeSubscriptionChanged,
			"Subscription activated",
			fmt.Sprintf("Your %s plan is active until %s.", activated.PlanType, endDate.Format("2006-01-02")),
		); err != nil {
			logger.Warnw("subscription_notify_failed", "brand_id", brandID, "error", err)
		}
	}
	if s.referralService != nil {
		if err := s.referralService.ConfirmRewardForReferredUser(brandID); err != nil {
			logger.Warnw("referral_confirm_failed", "brand_id", brandID, "error", err)
		}
	}

	return activated, nil
}

// Cancel stops renewal. Entitlements survive until the period end; the
// sweep then expires the row.
func (s *SubscriptionService) Cancel(brandID uint) (*models.Subscription, error) {
	subscription, err := s.subscriptionRepo.GetCurrentByBrand(brandID)
	if err != nil {
		return nil, err
	}
	if subscription == nil || subscription.PlanType == constants.SubscriptionPlanFree {
		return nil, ErrSubscriptionNotActive
	}
	if subscription.Status != constants.SubscriptionStatusActive {
		return nil, ErrSubscriptionNotActive
	}

	now := time.Now()
	rows, err := s.subscriptionRepo.UpdateStatusIf(subscription.ID, constants.SubscriptionStatusActive, map[string]interface{}{
		"status":     constants.SubscriptionStatusCancelled,
		"updated_at": now,
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrSubscriptionNotActive
	}
	subscription.Status = constants.SubscriptionStatusCancelled
	subscription.UpdatedAt = now

	if s.notificationService != nil {
		until := "the period end"
		if subscription.EndDate != nil {
			until = subscription.EndDate.Format("2006-01-02")
		}
		if err := s.notificationService.Notify(brandID, constants.NotificationTypeSubscriptionChanged,
			"Subscription cancelled",
			fmt.Sprintf("Your %s plan stays available until %s.", subscription.PlanType, until),
		); err != nil {
			logger.Warnw("subscription_notify_failed", "brand_id", brandID, "error", err)
		}
	}
	return subscription, nil
}

// SweepExpired expires lapsed paid subscriptions. Returns how many rows
// transitioned.
func (s *SubscriptionService) SweepExpired(now time.Time, limit int) (int, error) {
	lapsed, err := s.subscriptionRepo.ListExpiredActive(now, limit)
	if err != nil {
		return 0, err
	}
	swept := 0
	for i := range lapsed {
		subscription := lapsed[i]
		rows, err := s.subscriptionRepo.UpdateStatusIf(subscription.ID, subscription.Status, map[string]interface{}{
			"status":     constants.SubscriptionStatusExpired,
			"updated_at": now,
		})
		if err != nil {
			logger.Errorw("subscription_sweep_failed", "subscription_id", subscription.ID, "error", err)
			continue
		}
		if rows == 0 {
			continue
		}
		swept++
		if s.notificationService != nil {
			_ = s.notificationService.Notify(subscription.BrandID, constants.NotificationTypeSubscriptionChanged,
				"Subscription expired",
				fmt.Sprintf("Your %s plan expired. You are back on the free plan.", subscription.PlanType))
		}
	}
	return swept, nil
}

// List queries subscriptions (admin)
func (s *SubscriptionService) List(filter repository.SubscriptionListFilter) ([]models.Subscription, int64, error) {
	return s.subscriptionRepo.List(filter)
}

func (s *SubscriptionService) isEntitled(subscription *models.Subscription) bool {
	if subscription == nil {
		return false
	}
	switch subscription.Status {
	case constants.SubscriptionStatusActive:
		return true
	case constants.SubscriptionStatusCancelled:
		return subscription.EndDate != nil && subscription.EndDate.After(time.Now())
	default:
		return false
	}
}

// lazyExpire flips a lapsed row to expired at read time. Reports true
// when the subscription no longer grants paid entitlements.
func (s *SubscriptionService) lazyExpire(subscription *models.Subscription) bool {
	if subscription == nil {
		return true
	}
	if subscription.PlanType == constants.SubscriptionPlanFree {
		return false
	}
	if subscription.Status != constants.SubscriptionStatusActive && subscription.Status != constants.SubscriptionStatusCancelled {
		return true
	}
	if subscription.EndDate == nil || subscription.EndDate.After(time.Now()) {
		return false
	}
	if _, err := s.subscriptionRepo.UpdateStatusIf(subscription.ID, subscription.Status, map[string]interface{}{
		"status":     constants.SubscriptionStatusExpired,
		"updated_at": time.Now(),
	}); err != nil {
		logger.Warnw("subscription_lazy_expire_failed", "subscription_id", subscription.ID, "error", err)
	}
	subscription.Status = constants.SubscriptionStatusExpired
	return true
}

// freeSubscription synthesizes the permanent baseline plan
func (s *SubscriptionService) freeSubscription(brandID uint) *models.Subscription {
	free, _ := PlanByType(constants.SubscriptionPlanFree)
	return &models.Subscription{
		BrandID:  brandID,
		PlanType: constants.SubscriptionPlanFree,
		Status:   constants.SubscriptionStatusActive,
		Features: free.Features,
	}
}

func (s *SubscriptionService) razorpayConfig() *razorpay.Config {
	if s.cfg == nil {
		return &razorpay.Config{}
	}
	return &razorpay.Config{
		KeyID:         s.cfg.Razorpay.KeyID,
		KeySecret:     s.cfg.Razorpay.KeySecret,
		WebhookSecret: s.cfg.Razorpay.WebhookSecret,
		BaseURL:       s.cfg.Razorpay.BaseURL,
		TimeoutMS:     s.cfg.Razorpay.TimeoutMS,
	}
}

func (s *SubscriptionService) periodDays() int {
	if s.cfg != nil && s.cfg.Subscription.PeriodDays > 0 {
		return s.cfg.Subscription.PeriodDays
	}
	return 30
}
