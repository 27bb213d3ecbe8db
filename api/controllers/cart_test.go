package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	cartsvc "github.com/sanmiadewale/modaville-backend/internal/cart"
	pkgerrors "github.com/sanmiadewale/modaville-backend/pkg/errors"
	"github.com/sanmiadewale/modaville-backend/pkg/types"
	"github.com/shopspring/decimal"
)

type stubCartService struct {
	dto *cartsvc.DTO
	err error

	addedProduct uuid.UUID
	addedImage   types.ImageSelection
	removed      []uuid.UUID
}

func (s *stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (*cartsvc.DTO, error) {
	return s.dto, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, userID, productID uuid.UUID, image types.ImageSelection) (*cartsvc.DTO, error) {
	s.addedProduct = productID
	s.addedImage = image
	return s.dto, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*cartsvc.DTO, error) {
	s.removed = append(s.removed, productID)
	return s.dto, s.err
}

func (s *stubCartService) IncreaseQuantity(ctx context.Context, userID, productID uuid.UUID) (*cartsvc.DTO, error) {
	return s.dto, s.err
}

func (s *stubCartService) DecreaseQuantity(ctx context.Context, userID, productID uuid.UUID) (*cartsvc.DTO, error) {
	return s.dto, s.err
}

func (s *stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.err
}

func cartFixture() *cartsvc.DTO {
	return &cartsvc.DTO{
		Items: []cartsvc.ItemDTO{{
			ProductID: uuid.New(),
			Name:      "Linen Shirt",
			Qty:       2,
			UnitPrice: decimal.RequireFromString("45.00"),
			LineTotal: decimal.RequireFromString("90.00"),
		}},
		TotalQty:    2,
		TotalAmount: decimal.RequireFromString("90.00"),
	}
}

func TestCartGetReturnsCart(t *testing.T) {
	t.Parallel()

	handler := CartGet(&stubCartService{dto: cartFixture()}, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data cartsvc.DTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TotalQty != 2 {
		t.Fatalf("unexpected total qty %d", envelope.Data.TotalQty)
	}
}

func TestCartGetRequiresAuth(t *testing.T) {
	t.Parallel()

	handler := CartGet(&stubCartService{dto: cartFixture()}, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddItemForwardsSelection(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{dto: cartFixture()}
	handler := CartAddItem(svc, nil)

	productID := uuid.New()
	body := `{"product_id":"` + productID.String() + `","image":{"color":"Navy","color_code":"#000080","url":"https://cdn.modaville.ng/shirt-navy.jpg"}}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.addedProduct != productID {
		t.Fatalf("expected product %s got %s", productID, svc.addedProduct)
	}
	if svc.addedImage.Color != "Navy" {
		t.Fatalf("unexpected image selection %+v", svc.addedImage)
	}
}

func TestCartAddItemRejectsMissingProduct(t *testing.T) {
	t.Parallel()

	handler := CartAddItem(&stubCartService{dto: cartFixture()}, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", `{}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartRemoveItemUsesPathParam(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{dto: cartFixture()}
	handler := CartRemoveItem(svc, nil)

	productID := uuid.New()
	req := requestWithURLParam(authedRequest(http.MethodDelete, "/api/v1/cart/items/"+productID.String(), ""), "productID", productID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(svc.removed) != 1 || svc.removed[0] != productID {
		t.Fatalf("unexpected removals %v", svc.removed)
	}
}

func TestCartItemActionSurfacesNotFound(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")}
	handler := CartIncreaseItem(svc, nil)

	productID := uuid.New()
	req := requestWithURLParam(authedRequest(http.MethodPost, "/api/v1/cart/items/"+productID.String()+"/increase", ""), "productID", productID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
