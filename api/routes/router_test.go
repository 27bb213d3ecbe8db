package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sanmiadewale/modaville-backend/internal/analytics"
	authsvc "github.com/sanmiadewale/modaville-backend/internal/auth"
	cartsvc "github.com/sanmiadewale/modaville-backend/internal/cart"
	checkoutsvc "github.com/sanmiadewale/modaville-backend/internal/checkout"
	ordersvc "github.com/sanmiadewale/modaville-backend/internal/orders"
	productsvc "github.com/sanmiadewale/modaville-backend/internal/products"
	usersvc "github.com/sanmiadewale/modaville-backend/internal/users"
	"github.com/sanmiadewale/modaville-backend/internal/webhooks"
	pkgauth "github.com/sanmiadewale/modaville-backend/pkg/auth"
	"github.com/sanmiadewale/modaville-backend/pkg/auth/session"
	"github.com/sanmiadewale/modaville-backend/pkg/config"
	"github.com/sanmiadewale/modaville-backend/pkg/enums"
	"github.com/sanmiadewale/modaville-backend/pkg/pagination"
	"github.com/sanmiadewale/modaville-backend/pkg/types"
	"github.com/shopspring/decimal"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, input authsvc.RegisterInput) (*authsvc.AuthResult, error) {
	panic("unimplemented")
}

func (stubAuthService) Login(ctx context.Context, input authsvc.LoginInput) (*authsvc.AuthResult, error) {
	panic("unimplemented")
}

func (stubAuthService) Refresh(ctx context.Context, expiredAccessToken, refreshToken string) (*authsvc.TokenPair, error) {
	panic("unimplemented")
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubProductService struct{}

func (stubProductService) GetProduct(ctx context.Context, productID uuid.UUID) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) ListProducts(ctx context.Context, input productsvc.ListProductsInput) (*productsvc.ProductListResult, error) {
	return &productsvc.ProductListResult{}, nil
}

func (stubProductService) CreateProduct(ctx context.Context, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) UpdateProduct(ctx context.Context, productID uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	panic("unimplemented")
}

type stubCartService struct{}

func (stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (*cartsvc.DTO, error) {
	return cartsvc.EmptyDTO(), nil
}

func (stubCartService) AddItem(ctx context.Context, userID, productID uuid.UUID, image types.ImageSelection) (*cartsvc.DTO, error) {
	panic("unimplemented")
}

func (stubCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*cartsvc.DTO, error) {
	panic("unimplemented")
}

func (stubCartService) IncreaseQuantity(ctx context.Context, userID, productID uuid.UUID) (*cartsvc.DTO, error) {
	panic("unimplemented")
}

func (stubCartService) DecreaseQuantity(ctx context.Context, userID, productID uuid.UUID) (*cartsvc.DTO, error) {
	panic("unimplemented")
}

func (stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) Begin(ctx context.Context, input checkoutsvc.BeginInput) (*checkoutsvc.BeginResult, error) {
	panic("unimplemented")
}

func (stubCheckoutService) Confirm(ctx context.Context, input checkoutsvc.ConfirmInput) (*checkoutsvc.ConfirmResult, error) {
	panic("unimplemented")
}

func (stubCheckoutService) Abandon(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func (stubCheckoutService) Lookup(ctx context.Context, userID uuid.UUID, reference string) (*checkoutsvc.ConfirmResult, error) {
	panic("unimplemented")
}

type stubOrdersService struct{}

func (stubOrdersService) GetOrderForUser(ctx context.Context, userID, orderID uuid.UUID) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrdersService) ListOrdersForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ordersvc.OrderListResult, error) {
	return &ordersvc.OrderListResult{}, nil
}

func (stubOrdersService) GetOrder(ctx context.Context, orderID uuid.UUID) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrdersService) ListOrders(ctx context.Context, filters ordersvc.OrderListFilters, params pagination.Params) (*ordersvc.OrderListResult, error) {
	return &ordersvc.OrderListResult{}, nil
}

func (stubOrdersService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

type stubUsersService struct{}

func (stubUsersService) GetUser(ctx context.Context, userID uuid.UUID) (*usersvc.UserDTO, error) {
	panic("unimplemented")
}

func (stubUsersService) ListUsers(ctx context.Context, params pagination.Params, filters usersvc.UserListFilters) (*usersvc.UserListDTO, error) {
	return &usersvc.UserListDTO{}, nil
}

func (stubUsersService) SetUserActive(ctx context.Context, userID uuid.UUID, active bool) (*usersvc.UserDTO, error) {
	panic("unimplemented")
}

func (stubUsersService) SetUserRole(ctx context.Context, userID uuid.UUID, role enums.UserRole) (*usersvc.UserDTO, error) {
	panic("unimplemented")
}

type stubAnalyticsService struct{}

func (stubAnalyticsService) Summary(ctx context.Context) (*analytics.SalesSummary, error) {
	return &analytics.SalesSummary{
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
	}, nil
}

func (stubAnalyticsService) RevenueByDay(ctx context.Context, since time.Time) ([]analytics.RevenueBucket, error) {
	return nil, nil
}

func (stubAnalyticsService) TopProducts(ctx context.Context, limit int) ([]analytics.TopProduct, error) {
	return nil, nil
}

type stubReconciler struct{}

func (stubReconciler) Confirm(ctx context.Context, input checkoutsvc.ConfirmInput) (*checkoutsvc.ConfirmResult, error) {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{Secret: "router-secret", Issuer: "modaville", ExpirationMinutes: 60},
		Paystack: config.PaystackConfig{
			SecretKey: "sk_test_secret",
		},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	paystackSvc, err := webhooks.NewPaystackService(stubReconciler{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("build webhook service: %v", err)
	}

	return NewRouter(Deps{
		Cfg:       cfg,
		Logg:      nil,
		DB:        stubPinger{},
		Sessions:  stubSessionChecker{},
		Auth:      stubAuthService{},
		Products:  stubProductService{},
		Cart:      stubCartService{},
		Checkout:  stubCheckoutService{},
		Orders:    stubOrdersService{},
		Users:     stubUsersService{},
		Analytics: stubAnalyticsService{},
		Paystack:  paystackSvc,
	})
}

func mintRouterToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPublicProductsReachableWithoutJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/public/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+mintRouterToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer "+mintRouterToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestAdminGroupAllowsAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics/summary", nil)
	req.Header.Set("Authorization", "Bearer "+mintRouterToken(t, cfg, enums.UserRoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestWebhookRouteSkipsBearerAuth(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/paystack", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// The delivery fails its signature check, proving the route resolved
	// without a bearer token.
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if resp.Body.String() == "" {
		t.Fatal("expected an error envelope")
	}
}
