package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sponza-next/internal/config"
	"github.com/sponza-next/internal/constants"
	"github.com/sponza-next/internal/models"
	"github.com/sponza-next/internal/payment/razorpay"
	"github.com/sponza-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const testRazorpaySecret = "test_secret"

func setupSubscriptionServiceTest(t *testing.T) (*SubscriptionService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, "subscription_service_test")
	cfg := &config.Config{}
	cfg.Razorpay.KeyID = "rzp_test_key"
	cfg.Razorpay.KeySecret = testRazorpaySecret
	cfg.Subscription.PeriodDays = 30

	svc := NewSubscriptionService(cfg,
		repository.NewSubscriptionRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewTransactionRepository(db),
		NewNotificationService(repository.NewNotificationRepository(db), nil),
		nil)
	orderSeq := 0
	svc.createOrder = func(ctx context.Context, cfg *razorpay.Config, input razorpay.CreateOrderInput) (*razorpay.Order, error) {
		orderSeq++
		return &razorpay.Order{
			ID:       fmt.Sprintf("order_test_%d", orderSeq),
			Amount:   input.Amount.Mul(decimal.NewFromInt(100)).IntPart(),
			Currency: input.Currency,
			Receipt:  input.Receipt,
			Status:   "created",
		}, nil
	}
	return svc, db
}

func signCheckout(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testRazorpaySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestSubscriptionDefaultsToFree(t *testing.T) {
	svc, db := setupSubscriptionServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)

	current, err := svc.Current(brand.ID)
	if err != nil {
		t.Fatalf("current failed: %v", err)
	}
	if current.PlanType != constants.SubscriptionPlanFree || current.Status != constants.SubscriptionStatusActive {
		t.Fatalf("expected synthesized free subscription, got %+v", current)
	}

	entitlements, err := svc.EffectiveEntitlements(brand.ID)
	if err != nil {
		t.Fatalf("entitlements failed: %v", err)
	}
	if entitlements.MaxCampaigns != 2 {
		t.Fatalf("expected free tier limits, got %+v", entitlements)
	}
}

func TestSubscriptionCreateOrder(t *testing.T) {
	svc, db := setupSubscriptionServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	ctx := context.Background()

	if _, err := svc.CreateOrder(ctx, brand.ID, "platinum"); !errors.Is(err, ErrPlanUnknown) {
		t.Fatalf("expected ErrPlanUnknown, got %v", err)
	}
	if _, err := svc.CreateOrder(ctx, brand.ID, constants.SubscriptionPlanFree); !errors.Is(err, ErrPlanIsFree) {
		t.Fatalf("expected ErrPlanIsFree, got %v", err)
	}

	first, err := svc.CreateOrder(ctx, brand.ID, constants.SubscriptionPlanGrowth)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if first.ProviderOrderID == "" || first.KeyID != "rzp_test_key" {
		t.Fatalf("unexpected order result: %+v", first)
	}

	// Abandoned checkouts reuse the pending subscription row.
	second, err := svc.CreateOrder(ctx, brand.ID, constants.SubscriptionPlanGrowth)
	if err != nil {
		t.Fatalf("second create order failed: %v", err)
	}
	if second.SubscriptionID != first.SubscriptionID {
		t.Fatalf("expected reused subscription %d, got %d", first.SubscriptionID, second.SubscriptionID)
	}
	if second.ProviderOrderID == first.ProviderOrderID {
		t.Fatalf("expected a fresh gateway order per attempt")
	}
}

func TestSubscriptionVerifyPaymentActivates(t *testing.T) {
	svc, db := setupSubscriptionServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, brand.ID, constants.SubscriptionPlanGrowth)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	input := VerifyPaymentInput{
		ProviderOrderID:   order.ProviderOrderID,
		ProviderPaymentID: "pay_test_1",
		Signature:         signCheckout(order.ProviderOrderID, "pay_test_1"),
	}
	if _, err := svc.VerifyPayment(99, input); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign brand, got %v", err)
	}

	subscription, err := svc.VerifyPayment(brand.ID, input)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if subscription.Status != constants.SubscriptionStatusActive {
		t.Fatalf("expected active subscription, got %s", subscription.Status)
	}
	if subscription.EndDate == nil || subscription.StartDate == nil {
		t.Fatalf("expected period dates to be set: %+v", subscription)
	}
	days := subscription.EndDate.Sub(*subscription.StartDate).Hours() / 24
	if days < 29.9 || days > 30.1 {
		t.Fatalf("expected ~30 day period, got %.2f days", days)
	}
	firstEnd := *subscription.EndDate

	entitlements, err := svc.EffectiveEntitlements(brand.ID)
	if err != nil {
		t.Fatalf("entitlements failed: %v", err)
	}
	if entitlements.MaxCampaigns != 10 {
		t.Fatalf("expected growth tier limits, got %+v", entitlements)
	}

	var transactions int64
	if err := db.Model(&models.Transaction{}).Where("user_id = ? AND type = ? AND status = ?",
		brand.ID, constants.TransactionTypeSubscriptionPayment, constants.TransactionStatusCompleted).
		Count(&transactions).Error; err != nil {
		t.Fatalf("count transactions failed: %v", err)
	}
	if transactions != 1 {
		t.Fatalf("expected 1 ledger row, got %d", transactions)
	}

	// Replaying the callback neither fails nor extends the period.
	replayed, err := svc.VerifyPayment(brand.ID, input)
	if err != nil {
		t.Fatalf("replay verify failed: %v", err)
	}
	if replayed.EndDate == nil || !replayed.EndDate.Equal(firstEnd) {
		t.Fatalf("expected unchanged period end, got %v", replayed.EndDate)
	}
	if err := db.Model(&models.Transaction{}).Where("user_id = ? AND type = ?",
		brand.ID, constants.TransactionTypeSubscriptionPayment).Count(&transactions).Error; err != nil {
		t.Fatalf("count transactions failed: %v", err)
	}
	if transactions != 1 {
		t.Fatalf("expected no duplicate ledger row, got %d", transactions)
	}
}

func TestSubscriptionVerifyBadSignature(t *testing.T) {
	svc, db := setupSubscriptionServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, brand.ID, constants.SubscriptionPlanGrowth)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	_, err = svc.VerifyPayment(brand.ID, VerifyPaymentInput{
		ProviderOrderID:   order.ProviderOrderID,
		ProviderPaymentID: "pay_test_1",
		Signature:         "deadbeef",
	})
	if !errors.Is(err, ErrPaymentSignature) {
		t.Fatalf("expected ErrPaymentSignature, got %v", err)
	}

	var payment models.Payment
	if err := db.Where("provider_order_id = ?", order.ProviderOrderID).First(&payment).Error; err != nil {
		t.Fatalf("load payment failed: %v", err)
	}
	if payment.Status != constants.PaymentStatusFailed {
		t.Fatalf("expected failed payment, got %s", payment.Status)
	}
	if _, err := svc.VerifyPayment(brand.ID, VerifyPaymentInput{
		ProviderOrderID:   order.ProviderOrderID,
		ProviderPaymentID: "pay_test_1",
		Signature:         signCheckout(order.ProviderOrderID, "pay_test_1"),
	}); !errors.Is(err, ErrPaymentAlreadyHandled) {
		t.Fatalf("expected ErrPaymentAlreadyHandled after failure, got %v", err)
	}
}

func TestSubscriptionCancelKeepsEntitlementsUntilPeriodEnd(t *testing.T) {
	svc, db := setupSubscriptionServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	ctx := context.Background()

	if _, err := svc.Cancel(brand.ID); !errors.Is(err, ErrSubscriptionNotActive) {
		t.Fatalf("expected ErrSubscriptionNotActive on free tier, got %v", err)
	}

	order, err := svc.CreateOrder(ctx, brand.ID, constants.SubscriptionPlanGrowth)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := svc.VerifyPayment(brand.ID, VerifyPaymentInput{
		ProviderOrderID:   order.ProviderOrderID,
		ProviderPaymentID: "pay_test_1",
		Signature:         signCheckout(order.ProviderOrderID, "pay_test_1"),
	}); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	cancelled, err := svc.Cancel(brand.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.SubscriptionStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if _, err := svc.Cancel(brand.ID); !errors.Is(err, ErrSubscriptionNotActive) {
		t.Fatalf("expected ErrSubscriptionNotActive on double cancel, got %v", err)
	}

	// Paid features stay on until the period lapses.
	entitlements, err := svc.EffectiveEntitlements(brand.ID)
	if err != nil {
		t.Fatalf("entitlements failed: %v", err)
	}
	if entitlements.MaxCampaigns != 10 {
		t.Fatalf("expected paid entitlements until period end, got %+v", entitlements)
	}
}

func TestSubscriptionExpiry(t *testing.T) {
	svc, db := setupSubscriptionServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, brand.ID, constants.SubscriptionPlanGrowth)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	activated, err := svc.VerifyPayment(brand.ID, VerifyPaymentInput{
		ProviderOrderID:   order.ProviderOrderID,
		ProviderPaymentID: "pay_test_1",
		Signature:         signCheckout(order.ProviderOrderID, "pay_test_1"),
	})
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	// Lapse the period behind the sweep's back.
	past := time.Now().Add(-time.Hour)
	if err := db.Model(&models.Subscription{}).Where("id = ?", activated.ID).
		Update("end_date", past).Error; err != nil {
		t.Fatalf("backdate failed: %v", err)
	}

	swept, err := svc.SweepExpired(time.Now(), 100)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if swept != 1 {
		t.Fatalf("expected 1 swept subscription, got %d", swept)
	}

	current, err := svc.Current(brand.ID)
	if err != nil {
		t.Fatalf("current failed: %v", err)
	}
	if current.PlanType != constants.SubscriptionPlanFree {
		t.Fatalf("expected fallback to free, got %+v", current)
	}
	entitlements, err := svc.EffectiveEntitlements(brand.ID)
	if err != nil {
		t.Fatalf("entitlements failed: %v", err)
	}
	if entitlements.MaxCampaigns != 2 {
		t.Fatalf("expected free tier limits after expiry, got %+v", entitlements)
	}
}

func TestSubscriptionLazyExpireOnRead(t *testing.T) {
	svc, db := setupSubscriptionServiceTest(t)
	brand := createTestUser(t, db, 1, constants.UserRoleBrand)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, brand.ID, constants.SubscriptionPlanGrowth)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	activated, err := svc.VerifyPayment(brand.ID, VerifyPaymentInput{
		ProviderOrderID:   order.ProviderOrderID,
		ProviderPaymentID: "pay_test_1",
		Signature:         signCheckout(order.ProviderOrderID, "pay_test_1"),
	})
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	past := time.Now().Add(-time.Hour)
	if err := db.Model(&models.Subscription{}).Where("id = ?", activated.ID).
		Update("end_date", past).Error; err != nil {
		t.Fatalf("backdate failed: %v", err)
	}

	// Reading alone flips the lapsed row without waiting for the sweep.
	current, err := svc.Current(brand.ID)
	if err != nil {
		t.Fatalf("current failed: %v", err)
	}
	if current.PlanType != constants.SubscriptionPlanFree {
		t.Fatalf("expected free fallback, got %+v", current)
	}
	var stored models.Subscription
	if err := db.First(&stored, activated.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if stored.Status != constants.SubscriptionStatusExpired {
		t.Fatalf("expected stored expired status, got %s", stored.Status)
	}
}
