package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func signFor(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentSignature(t *testing.T) {
	cfg := &Config{KeyID: "rzp_test_key", KeySecret: "secret"}

	good := signFor("secret", "order_abc|pay_xyz")
	if err := VerifyPaymentSignature(cfg, "order_abc", "pay_xyz", good); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}

	if err := VerifyPaymentSignature(cfg, "order_abc", "pay_xyz", "deadbeef"); err != ErrSignatureInvalid {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}

	if err := VerifyPaymentSignature(cfg, "order_abc", "pay_other", good); err != ErrSignatureInvalid {
		t.Fatalf("expected mismatch for different payment id, got %v", err)
	}

	if err := VerifyPaymentSignature(cfg, "", "pay_xyz", good); err != ErrSignatureInvalid {
		t.Fatalf("expected ErrSignatureInvalid for empty order id, got %v", err)
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	cfg := &Config{KeyID: "k", KeySecret: "s", WebhookSecret: "hook"}
	body := []byte(`{"event":"payment.captured"}`)

	if err := VerifyWebhookSignature(cfg, body, signFor("hook", string(body))); err != nil {
		t.Fatalf("expected valid webhook signature, got %v", err)
	}
	if err := VerifyWebhookSignature(cfg, body, signFor("wrong", string(body))); err != ErrSignatureInvalid {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rzp_test_key" || pass != "secret" {
			t.Errorf("missing or wrong basic auth")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_abc","amount":99900,"currency":"INR","receipt":"sub_1","status":"created"}`))
	}))
	defer server.Close()

	cfg := &Config{
		KeyID:     "rzp_test_key",
		KeySecret: "secret",
		BaseURL:   server.URL,
	}
	order, err := CreateOrder(context.Background(), cfg, CreateOrderInput{
		Amount:   decimal.NewFromInt(999),
		Currency: "INR",
		Receipt:  "sub_1",
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.ID != "order_abc" {
		t.Fatalf("unexpected order id %s", order.ID)
	}
	if order.Amount != 99900 {
		t.Fatalf("unexpected amount %d", order.Amount)
	}
}

func TestCreateOrderRejectsBadConfig(t *testing.T) {
	if _, err := CreateOrder(context.Background(), &Config{}, CreateOrderInput{Amount: decimal.NewFromInt(1)}); err == nil {
		t.Fatal("expected config error")
	}
	cfg := &Config{KeyID: "k", KeySecret: "s"}
	if _, err := CreateOrder(context.Background(), cfg, CreateOrderInput{Amount: decimal.Zero}); err == nil {
		t.Fatal("expected amount error")
	}
}
