package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Suhail-code8/fabloom/internal/domain"
	"github.com/Suhail-code8/fabloom/internal/event"
	"github.com/Suhail-code8/fabloom/internal/repository"
	apperrors "github.com/Suhail-code8/fabloom/pkg/errors"
)

// Shipping pricing. Orders at or above the threshold ship free.
const (
	DefaultShippingCost   = 49.0
	FreeShippingThreshold = 999.0
)

// CheckoutInput holds the parameters for placing an order from the cart.
type CheckoutInput struct {
	PaymentMethod   domain.PaymentMethod `json:"payment_method" validate:"required"`
	ShippingAddress domain.Address       `json:"shipping_address" validate:"required"`
}

// UpdateOrderStatusInput holds an admin status change.
type UpdateOrderStatusInput struct {
	Status         domain.OrderStatus `json:"status" validate:"required"`
	TrackingNumber string             `json:"tracking_number,omitempty"`
}

// OrderService implements checkout and order management.
type OrderService struct {
	orders   repository.OrderRepository
	carts    repository.CartRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orders repository.OrderRepository, carts repository.CartRepository, producer *event.Producer, logger *slog.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		carts:    carts,
		producer: producer,
		logger:   logger,
	}
}

// Checkout freezes the user's cart into an order. Line prices were
// snapshotted when items entered the cart, so checkout totals exactly what
// the buyer saw. The cart is cleared after the order is stored.
func (s *OrderService) Checkout(ctx context.Context, userID string, input CheckoutInput) (*domain.Order, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if !domain.IsValidPaymentMethod(input.PaymentMethod) {
		return nil, apperrors.InvalidInput("unsupported payment method")
	}
	if err := validateAddress(input.ShippingAddress); err != nil {
		return nil, err
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidInput("cart is empty")
		}
		return nil, fmt.Errorf("get cart for checkout: %w", err)
	}
	if cart.IsEmpty() {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	now := time.Now().UTC()
	orderID := uuid.NewString()

	items := make([]domain.OrderItem, len(cart.Items))
	for i := range cart.Items {
		items[i] = freezeLineItem(orderID, &cart.Items[i])
	}

	subtotal := cart.TotalAmount()
	shipping := DefaultShippingCost
	if subtotal >= FreeShippingThreshold {
		shipping = 0
	}

	order := &domain.Order{
		ID:              orderID,
		UserID:          userID,
		Items:           items,
		Subtotal:        subtotal,
		ShippingCost:    shipping,
		TotalAmount:     subtotal + shipping,
		Currency:        cart.Currency,
		Status:          domain.OrderPending,
		PaymentStatus:   domain.PaymentPending,
		PaymentMethod:   input.PaymentMethod,
		ShippingAddress: input.ShippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.carts.Delete(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after checkout",
			slog.String("user_id", userID),
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.OrderNumber),
		slog.String("user_id", userID),
		slog.Float64("total_amount", order.TotalAmount),
		slog.Bool("has_stitching", order.HasStitchingWork()),
	)

	return order, nil
}

// GetOrder retrieves an order. Unless the caller is an admin, only the
// owner may read it.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string, isAdmin bool) (*domain.Order, error) {
	if orderID == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("order", orderID)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if !isAdmin && order.UserID != userID {
		// Hide the order's existence from other users.
		return nil, apperrors.NotFound("order", orderID)
	}

	return order, nil
}

// ListUserOrders returns the caller's orders, newest first.
func (s *OrderService) ListUserOrders(ctx context.Context, userID string, page, perPage int) ([]domain.Order, int, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("user id is required")
	}

	orders, total, err := s.orders.List(ctx, repository.OrderFilter{
		UserID:  &userID,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list user orders: %w", err)
	}
	return orders, total, nil
}

// ListOrders returns all orders, optionally filtered by status. Admin only.
func (s *OrderService) ListOrders(ctx context.Context, status *domain.OrderStatus, page, perPage int) ([]domain.Order, int, error) {
	if status != nil && !domain.IsValidOrderStatus(*status) {
		return nil, 0, apperrors.InvalidInput("unknown order status")
	}

	orders, total, err := s.orders.List(ctx, repository.OrderFilter{
		Status:  status,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

// UpdateOrderStatus moves an order along the fulfilment lifecycle,
// rejecting transitions the state machine does not allow.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, input UpdateOrderStatusInput) (*domain.Order, error) {
	if orderID == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}
	if !domain.IsValidOrderStatus(input.Status) {
		return nil, apperrors.InvalidInput("unknown order status")
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("order", orderID)
		}
		return nil, fmt.Errorf("get order for status update: %w", err)
	}

	from := order.Status
	if !domain.CanTransition(from, input.Status) {
		return nil, apperrors.Conflict(fmt.Sprintf("order cannot move from %s to %s", from, input.Status))
	}

	if err := s.orders.UpdateStatus(ctx, orderID, input.Status, input.TrackingNumber); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	order.Status = input.Status
	if input.TrackingNumber != "" {
		order.TrackingNumber = input.TrackingNumber
	}
	if input.Status == domain.OrderDelivered {
		now := time.Now().UTC()
		order.DeliveredAt = &now
	}

	if err := s.producer.PublishOrderStatusChanged(ctx, order, from); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", orderID),
		slog.String("from", string(from)),
		slog.String("to", string(input.Status)),
	)

	return order, nil
}

// UpdatePaymentStatus records a payment lifecycle change on an order.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID string, status domain.PaymentStatus) error {
	if orderID == "" {
		return apperrors.InvalidInput("order id is required")
	}
	if !domain.IsValidPaymentStatus(status) {
		return apperrors.InvalidInput("unknown payment status")
	}

	if err := s.orders.UpdatePaymentStatus(ctx, orderID, status); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "payment status updated",
		slog.String("order_id", orderID),
		slog.String("status", string(status)),
	)

	return nil
}

// UpdateStitchingStatus advances the tailoring job on one order item. An
// estimated completion date may be recorded alongside.
func (s *OrderService) UpdateStitchingStatus(ctx context.Context, orderID, itemID string, status domain.StitchingStatus, estimatedCompletion *time.Time) error {
	if orderID == "" || itemID == "" {
		return apperrors.InvalidInput("order id and item id are required")
	}
	if !domain.IsValidStitchingStatus(status) {
		return apperrors.InvalidInput("unknown stitching status")
	}

	if err := s.orders.UpdateStitchingStatus(ctx, orderID, itemID, status, estimatedCompletion); err != nil {
		return err
	}

	if err := s.producer.PublishStitchingUpdated(ctx, orderID, itemID, status, estimatedCompletion); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.stitching_updated event",
			slog.String("order_id", orderID),
			slog.String("item_id", itemID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "stitching status updated",
		slog.String("order_id", orderID),
		slog.String("item_id", itemID),
		slog.String("status", string(status)),
	)

	return nil
}

// freezeLineItem converts a cart line into an immutable order item. A
// stitching spec becomes a pending tailoring job.
func freezeLineItem(orderID string, line *domain.LineItem) domain.OrderItem {
	item := domain.OrderItem{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		ProductID: line.ProductID,
		Kind:      line.Kind,
		Name:      line.Name,
		Image:     line.Image,
		Quantity:  line.Quantity,
		LineTotal: line.Total(),
	}

	switch line.Kind {
	case domain.KindReadymade:
		details := *line.Readymade
		item.Readymade = &details
	case domain.KindFabric:
		item.Fabric = &domain.FabricOrderDetails{
			PricePerMeter: line.Fabric.PricePerMeter,
			Meters:        line.Fabric.Meters,
		}
		if line.Fabric.Stitching != nil {
			item.Fabric.Stitching = &domain.StitchingJob{
				StitchingSpec: *line.Fabric.Stitching,
				Status:        domain.StitchingPending,
			}
		}
	case domain.KindAccessory:
		details := *line.Accessory
		item.Accessory = &details
	}

	return item
}

// validateAddress checks the required shipping address fields.
func validateAddress(addr domain.Address) error {
	switch {
	case addr.Name == "":
		return apperrors.InvalidInput("recipient name is required")
	case addr.Phone == "":
		return apperrors.InvalidInput("phone is required")
	case addr.Line1 == "":
		return apperrors.InvalidInput("address line is required")
	case addr.City == "":
		return apperrors.InvalidInput("city is required")
	case addr.State == "":
		return apperrors.InvalidInput("state is required")
	case addr.PostalCode == "":
		return apperrors.InvalidInput("postal code is required")
	case addr.Country == "":
		return apperrors.InvalidInput("country is required")
	}
	return nil
}
