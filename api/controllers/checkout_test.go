package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sanmiadewale/modaville-backend/api/middleware"
	checkoutsvc "github.com/sanmiadewale/modaville-backend/internal/checkout"
	ordersvc "github.com/sanmiadewale/modaville-backend/internal/orders"
	pkgerrors "github.com/sanmiadewale/modaville-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

type stubCheckoutService struct {
	begin   *checkoutsvc.BeginResult
	confirm *checkoutsvc.ConfirmResult
	err     error

	confirmInputs []checkoutsvc.ConfirmInput
	lookupRefs    []string
}

func (s *stubCheckoutService) Begin(ctx context.Context, input checkoutsvc.BeginInput) (*checkoutsvc.BeginResult, error) {
	return s.begin, s.err
}

func (s *stubCheckoutService) Confirm(ctx context.Context, input checkoutsvc.ConfirmInput) (*checkoutsvc.ConfirmResult, error) {
	s.confirmInputs = append(s.confirmInputs, input)
	return s.confirm, s.err
}

func (s *stubCheckoutService) Abandon(ctx context.Context, userID uuid.UUID) error {
	return s.err
}

func (s *stubCheckoutService) Lookup(ctx context.Context, userID uuid.UUID, reference string) (*checkoutsvc.ConfirmResult, error) {
	s.lookupRefs = append(s.lookupRefs, reference)
	return s.confirm, s.err
}

func authedRequest(method, target, body string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
}

func TestCheckoutBeginSuccess(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{begin: &checkoutsvc.BeginResult{
		AuthorizationURL: "https://checkout.paystack.com/abc",
		AccessCode:       "abc",
		Reference:        "TEMP-1700000000000",
		Subtotal:         decimal.RequireFromString("2500.00"),
		Tax:              decimal.RequireFromString("125.00"),
		Total:            decimal.RequireFromString("2625.00"),
	}}
	handler := CheckoutBegin(svc, nil)

	body := `{"email":"buyer@example.com","shipping_address":{"first_name":"Ada","last_name":"Obi","email":"buyer@example.com","phone":"+2348000000000","address":"1 Marina Rd","city":"Lagos","state":"Lagos","postal_code":"100001"}}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/checkout", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data checkoutsvc.BeginResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Reference != "TEMP-1700000000000" {
		t.Fatalf("unexpected reference %q", envelope.Data.Reference)
	}
}

func TestCheckoutBeginRequiresAuth(t *testing.T) {
	t.Parallel()

	handler := CheckoutBegin(&stubCheckoutService{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCheckoutConfirmTagsCallbackTrigger(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{confirm: &checkoutsvc.ConfirmResult{Order: &ordersvc.OrderDTO{ID: uuid.New()}}}
	handler := CheckoutConfirm(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/checkout/confirm", `{"reference":"TEMP-1700000000000"}`))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.confirmInputs) != 1 {
		t.Fatalf("expected one confirm call, got %d", len(svc.confirmInputs))
	}
	if svc.confirmInputs[0].Trigger != "callback" {
		t.Fatalf("expected callback trigger, got %q", svc.confirmInputs[0].Trigger)
	}
}

func TestCheckoutConfirmRequiresReference(t *testing.T) {
	t.Parallel()

	handler := CheckoutConfirm(&stubCheckoutService{}, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/checkout/confirm", `{}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutConfirmationPassesReference(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{confirm: &checkoutsvc.ConfirmResult{Order: &ordersvc.OrderDTO{ID: uuid.New()}, Replayed: true}}
	handler := CheckoutConfirmation(svc, nil)

	req := requestWithURLParam(authedRequest(http.MethodGet, "/api/v1/checkout/confirmation/TEMP-1", ""), "reference", "TEMP-1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.lookupRefs) != 1 || svc.lookupRefs[0] != "TEMP-1" {
		t.Fatalf("unexpected lookup calls %v", svc.lookupRefs)
	}
}

func TestCheckoutErrorsPassThrough(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "payment not successful: failed")}
	handler := CheckoutConfirm(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/checkout/confirm", `{"reference":"TEMP-1"}`))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if payload.Error.Message != "payment not successful: failed" {
		t.Fatalf("unexpected message %q", payload.Error.Message)
	}
}
