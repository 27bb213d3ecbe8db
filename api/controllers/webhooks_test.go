package controllers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	checkoutsvc "github.com/sanmiadewale/modaville-backend/internal/checkout"
	ordersvc "github.com/sanmiadewale/modaville-backend/internal/orders"
	"github.com/sanmiadewale/modaville-backend/internal/webhooks"
	"github.com/sanmiadewale/modaville-backend/pkg/config"
	"github.com/sanmiadewale/modaville-backend/pkg/paystack"
)

type stubWebhookReconciler struct {
	inputs []checkoutsvc.ConfirmInput
	err    error
}

func (s *stubWebhookReconciler) Confirm(ctx context.Context, input checkoutsvc.ConfirmInput) (*checkoutsvc.ConfirmResult, error) {
	s.inputs = append(s.inputs, input)
	if s.err != nil {
		return nil, s.err
	}
	return &checkoutsvc.ConfirmResult{Order: &ordersvc.OrderDTO{ID: uuid.New()}}, nil
}

func signPayload(secret string, payload []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func newWebhookHandler(t *testing.T, reconciler *stubWebhookReconciler, secret string) http.HandlerFunc {
	t.Helper()
	svc, err := webhooks.NewPaystackService(reconciler, zerolog.Nop())
	if err != nil {
		t.Fatalf("build webhook service: %v", err)
	}
	return PaystackWebhook(svc, config.PaystackConfig{SecretKey: secret}, nil)
}

func TestPaystackWebhookRejectsBadSignature(t *testing.T) {
	t.Parallel()

	reconciler := &stubWebhookReconciler{}
	handler := newWebhookHandler(t, reconciler, "sk_test_secret")

	payload := []byte(`{"event":"charge.success","data":{"reference":"TEMP-1"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/paystack", bytes.NewReader(payload))
	req.Header.Set(paystack.SignatureHeader, "deadbeef")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if len(reconciler.inputs) != 0 {
		t.Fatal("reconciliation must not run on a bad signature")
	}
}

func TestPaystackWebhookHandlesChargeSuccess(t *testing.T) {
	t.Parallel()

	reconciler := &stubWebhookReconciler{}
	handler := newWebhookHandler(t, reconciler, "sk_test_secret")

	userID := uuid.New()
	payload := []byte(`{"event":"charge.success","data":{"status":"success","reference":"TEMP-1700000000000","amount":262500,"currency":"NGN","channel":"card","metadata":{"user_id":"` + userID.String() + `","temp_reference":"TEMP-1700000000000"}}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/paystack", bytes.NewReader(payload))
	req.Header.Set(paystack.SignatureHeader, signPayload("sk_test_secret", payload))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(reconciler.inputs) != 1 {
		t.Fatalf("expected one reconciliation, got %d", len(reconciler.inputs))
	}
	if reconciler.inputs[0].Trigger != "webhook" {
		t.Fatalf("expected webhook trigger, got %q", reconciler.inputs[0].Trigger)
	}
	if reconciler.inputs[0].UserID != userID {
		t.Fatalf("expected user %s got %s", userID, reconciler.inputs[0].UserID)
	}
}

func TestPaystackWebhookAcksUnknownEvents(t *testing.T) {
	t.Parallel()

	reconciler := &stubWebhookReconciler{}
	handler := newWebhookHandler(t, reconciler, "sk_test_secret")

	payload := []byte(`{"event":"transfer.success","data":{}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/paystack", bytes.NewReader(payload))
	req.Header.Set(paystack.SignatureHeader, signPayload("sk_test_secret", payload))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected unknown events to ack, got %d", resp.Code)
	}
	if len(reconciler.inputs) != 0 {
		t.Fatal("unknown events must not reconcile")
	}
}
