package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Suhail-code8/fabloom/internal/domain"
	"github.com/Suhail-code8/fabloom/internal/repository"
	"github.com/Suhail-code8/fabloom/internal/service"
	apperrors "github.com/Suhail-code8/fabloom/pkg/errors"
	"github.com/Suhail-code8/fabloom/pkg/middleware"
)

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) GetByOrderNumber(ctx context.Context, number string) (*domain.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, trackingNumber string) error {
	args := m.Called(ctx, id, status, trackingNumber)
	return args.Error(0)
}

func (m *mockOrderRepository) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockOrderRepository) UpdateStitchingStatus(ctx context.Context, orderID, itemID string, status domain.StitchingStatus, estimatedCompletion *time.Time) error {
	args := m.Called(ctx, orderID, itemID, status, estimatedCompletion)
	return args.Error(0)
}

// setupOrderRouter mirrors the production order routes, shopper and admin.
func setupOrderRouter(orders *mockOrderRepository, carts *mockCartRepository) *chi.Mux {
	svc := service.NewOrderService(orders, carts, testEventProducer(), testLogger())
	handler := NewOrderHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(testValidator))

			r.Post("/orders", handler.Checkout)
			r.Get("/orders", handler.ListMine)
			r.Get("/orders/{id}", handler.Get)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(testValidator))
			r.Use(middleware.RequireRole(adminRole))

			r.Get("/orders", handler.AdminList)
			r.Patch("/orders/{id}/status", handler.UpdateStatus)
			r.Patch("/orders/{id}/payment", handler.UpdatePayment)
			r.Patch("/orders/{id}/items/{itemId}/stitching", handler.UpdateStitching)
		})
	})
	return r
}

func shippingAddress() map[string]any {
	return map[string]any{
		"name":        "Ayesha Khan",
		"phone":       "+919876543210",
		"line1":       "14 MG Road",
		"city":        "Bengaluru",
		"state":       "Karnataka",
		"postal_code": "560001",
		"country":     "IN",
	}
}

func pendingOrder(userID string) *domain.Order {
	return &domain.Order{
		ID:            "ord-1",
		OrderNumber:   "FB260800001",
		UserID:        userID,
		Subtotal:      110,
		ShippingCost:  49,
		TotalAmount:   159,
		Currency:      "INR",
		Status:        domain.OrderPending,
		PaymentStatus: domain.PaymentPending,
		PaymentMethod: domain.PaymentCOD,
		CreatedAt:     time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestCheckout_CreatesOrder(t *testing.T) {
	orders := new(mockOrderRepository)
	carts := new(mockCartRepository)
	router := setupOrderRouter(orders, carts)

	cart := domain.NewCart("user-123")
	cart.AddItem(domain.LineItem{
		ProductID: "f1",
		Kind:      domain.KindFabric,
		Name:      "Plain Linen",
		Quantity:  1,
		Fabric:    &domain.FabricDetails{PricePerMeter: 15, Meters: 3},
	})
	carts.On("Get", mock.Anything, "user-123").Return(cart, nil)
	carts.On("Delete", mock.Anything, "user-123").Return(nil)
	orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Order).OrderNumber = "FB260800001"
		}).
		Return(nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/orders", "shopper-token", map[string]any{
		"payment_method":   "cod",
		"shipping_address": shippingAddress(),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Data domain.Order `json:"data"`
	}
	decodeInto(t, rec, &body)
	assert.Equal(t, "FB260800001", body.Data.OrderNumber)
	assert.InDelta(t, 45.0, body.Data.Subtotal, 1e-9)
	assert.InDelta(t, 49.0, body.Data.ShippingCost, 1e-9)
	assert.InDelta(t, 94.0, body.Data.TotalAmount, 1e-9)
}

func TestCheckout_EmptyCart(t *testing.T) {
	orders := new(mockOrderRepository)
	carts := new(mockCartRepository)
	router := setupOrderRouter(orders, carts)

	carts.On("Get", mock.Anything, "user-123").Return(nil, apperrors.NotFound("cart", "user-123"))

	rec := doRequest(t, router, http.MethodPost, "/api/v1/orders", "shopper-token", map[string]any{
		"payment_method":   "cod",
		"shipping_address": shippingAddress(),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestCheckout_RejectsUnknownPaymentMethod(t *testing.T) {
	router := setupOrderRouter(new(mockOrderRepository), new(mockCartRepository))

	rec := doRequest(t, router, http.MethodPost, "/api/v1/orders", "shopper-token", map[string]any{
		"payment_method":   "barter",
		"shipping_address": shippingAddress(),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "PaymentMethod")
}

func TestGetOrder_MasksOtherUsersOrders(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupOrderRouter(orders, new(mockCartRepository))

	orders.On("GetByID", mock.Anything, "ord-1").Return(pendingOrder("someone-else"), nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/orders/ord-1", "shopper-token", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetOrder_AdminSeesAnyOrder(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupOrderRouter(orders, new(mockCartRepository))

	orders.On("GetByID", mock.Anything, "ord-1").Return(pendingOrder("someone-else"), nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/orders/ord-1", "admin-token", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminOrders_ForbiddenForShopper(t *testing.T) {
	router := setupOrderRouter(new(mockOrderRepository), new(mockCartRepository))

	rec := doRequest(t, router, http.MethodGet, "/api/v1/admin/orders", "shopper-token", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, router, http.MethodPatch, "/api/v1/admin/orders/ord-1/status", "shopper-token",
		map[string]any{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateStatus_ValidTransition(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupOrderRouter(orders, new(mockCartRepository))

	orders.On("GetByID", mock.Anything, "ord-1").Return(pendingOrder("user-123"), nil)
	orders.On("UpdateStatus", mock.Anything, "ord-1", domain.OrderConfirmed, "").Return(nil)

	rec := doRequest(t, router, http.MethodPatch, "/api/v1/admin/orders/ord-1/status", "admin-token",
		map[string]any{"status": "confirmed"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data domain.Order `json:"data"`
	}
	decodeInto(t, rec, &body)
	assert.Equal(t, domain.OrderConfirmed, body.Data.Status)
}

func TestUpdateStatus_InvalidTransitionConflicts(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupOrderRouter(orders, new(mockCartRepository))

	orders.On("GetByID", mock.Anything, "ord-1").Return(pendingOrder("user-123"), nil)

	rec := doRequest(t, router, http.MethodPatch, "/api/v1/admin/orders/ord-1/status", "admin-token",
		map[string]any{"status": "delivered"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
}

func TestUpdatePayment_RejectsUnknownStatus(t *testing.T) {
	router := setupOrderRouter(new(mockOrderRepository), new(mockCartRepository))

	rec := doRequest(t, router, http.MethodPatch, "/api/v1/admin/orders/ord-1/payment", "admin-token",
		map[string]any{"status": "partial"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStitching(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupOrderRouter(orders, new(mockCartRepository))

	orders.On("UpdateStitchingStatus", mock.Anything, "ord-1", "item-1", domain.StitchingInProgress, (*time.Time)(nil)).Return(nil)

	rec := doRequest(t, router, http.MethodPatch, "/api/v1/admin/orders/ord-1/items/item-1/stitching", "admin-token",
		map[string]any{"status": "in_progress"})
	assert.Equal(t, http.StatusOK, rec.Code)
	orders.AssertExpectations(t)
}

func TestUpdateStitching_WithEstimatedCompletion(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupOrderRouter(orders, new(mockCartRepository))

	eta := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)
	orders.On("UpdateStitchingStatus", mock.Anything, "ord-1", "item-1", domain.StitchingInProgress, &eta).Return(nil)

	rec := doRequest(t, router, http.MethodPatch, "/api/v1/admin/orders/ord-1/items/item-1/stitching", "admin-token",
		map[string]any{"status": "in_progress", "estimated_completion": "2026-09-15T00:00:00Z"})
	assert.Equal(t, http.StatusOK, rec.Code)
	orders.AssertExpectations(t)
}
