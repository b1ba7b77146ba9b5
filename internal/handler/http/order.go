package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Suhail-code8/fabloom/internal/domain"
	"github.com/Suhail-code8/fabloom/internal/service"
	"github.com/Suhail-code8/fabloom/pkg/middleware"
	"github.com/Suhail-code8/fabloom/pkg/pagination"
	"github.com/Suhail-code8/fabloom/pkg/validator"
)

// adminRole is the role claim that unlocks the admin API surface.
const adminRole = "admin"

// OrderHandler handles HTTP requests for checkout and order endpoints.
type OrderHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(svc *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CheckoutRequest is the JSON request body for placing an order.
type CheckoutRequest struct {
	PaymentMethod   string         `json:"payment_method" validate:"required,oneof=card cod upi"`
	ShippingAddress domain.Address `json:"shipping_address" validate:"required"`
}

// UpdateStatusRequest is the admin request body for a fulfilment change.
type UpdateStatusRequest struct {
	Status         string `json:"status" validate:"required"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

// UpdatePaymentRequest is the admin request body for a payment change.
type UpdatePaymentRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid failed refunded"`
}

// UpdateStitchingRequest is the admin request body for a tailoring change.
// The estimated completion date is optional.
type UpdateStitchingRequest struct {
	Status              string     `json:"status" validate:"required,oneof=pending in_progress completed delivered"`
	EstimatedCompletion *time.Time `json:"estimated_completion,omitempty"`
}

// --- Handlers ---

// Checkout handles POST /api/v1/orders
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req CheckoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	order, err := h.service.Checkout(r.Context(), userID, service.CheckoutInput{
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: order})
}

// ListMine handles GET /api/v1/orders
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	params := pagination.FromRequest(r)

	orders, total, err := h.service.ListUserOrders(r.Context(), userID, params.Page, params.PerPage)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: pagination.NewResult(orders, total, params)})
}

// Get handles GET /api/v1/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	isAdmin := middleware.RoleFromContext(r.Context()) == adminRole

	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeBadRequest(w, "order id is required")
		return
	}

	order, err := h.service.GetOrder(r.Context(), userID, orderID, isAdmin)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: order})
}

// --- Admin endpoints ---

// AdminList handles GET /api/v1/admin/orders
func (h *OrderHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	var status *domain.OrderStatus
	if v := r.URL.Query().Get("status"); v != "" {
		s := domain.OrderStatus(v)
		status = &s
	}

	orders, total, err := h.service.ListOrders(r.Context(), status, params.Page, params.PerPage)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: pagination.NewResult(orders, total, params)})
}

// UpdateStatus handles PATCH /api/v1/admin/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeBadRequest(w, "order id is required")
		return
	}

	var req UpdateStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	order, err := h.service.UpdateOrderStatus(r.Context(), orderID, service.UpdateOrderStatusInput{
		Status:         domain.OrderStatus(req.Status),
		TrackingNumber: req.TrackingNumber,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: order})
}

// UpdatePayment handles PATCH /api/v1/admin/orders/{id}/payment
func (h *OrderHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeBadRequest(w, "order id is required")
		return
	}

	var req UpdatePaymentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	if err := h.service.UpdatePaymentStatus(r.Context(), orderID, domain.PaymentStatus(req.Status)); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": req.Status}})
}

// UpdateStitching handles PATCH /api/v1/admin/orders/{id}/items/{itemId}/stitching
func (h *OrderHandler) UpdateStitching(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	itemID := chi.URLParam(r, "itemId")
	if orderID == "" || itemID == "" {
		writeBadRequest(w, "order id and item id are required")
		return
	}

	var req UpdateStitchingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	if err := h.service.UpdateStitchingStatus(r.Context(), orderID, itemID, domain.StitchingStatus(req.Status), req.EstimatedCompletion); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": req.Status}})
}
