package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Suhail-code8/fabloom/internal/domain"
	pkgkafka "github.com/Suhail-code8/fabloom/pkg/kafka"
)

// Kafka topics for storefront domain events.
const (
	TopicCartUpdated      = "fabloom.cart.updated"
	TopicCartCleared      = "fabloom.cart.cleared"
	TopicOrderCreated     = "fabloom.order.created"
	TopicOrderStatus      = "fabloom.order.status_changed"
	TopicStitchingUpdated = "fabloom.order.stitching_updated"
)

// Aggregate types carried in the event envelope.
const (
	AggregateTypeCart  = "cart"
	AggregateTypeOrder = "order"
)

// Source identifier for events originating from this service.
const SourceStorefront = "fabloom-api"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	UserID      string         `json:"user_id"`
	Items       []CartItemData `json:"items"`
	ItemCount   int            `json:"item_count"`
	TotalAmount float64        `json:"total_amount"`
	Currency    string         `json:"currency"`
}

// CartItemData is the item payload within cart events.
type CartItemData struct {
	ItemID    string          `json:"item_id"`
	ProductID string          `json:"product_id"`
	Kind      domain.ItemKind `json:"kind"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	LineTotal float64         `json:"line_total"`
	Stitched  bool            `json:"stitched"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	UserID string `json:"user_id"`
}

// OrderCreatedData is the payload for an order.created event.
type OrderCreatedData struct {
	OrderID       string  `json:"order_id"`
	OrderNumber   string  `json:"order_number"`
	UserID        string  `json:"user_id"`
	TotalAmount   float64 `json:"total_amount"`
	Currency      string  `json:"currency"`
	ItemCount     int     `json:"item_count"`
	HasStitching  bool    `json:"has_stitching"`
	PaymentMethod string  `json:"payment_method"`
}

// OrderStatusData is the payload for an order.status_changed event.
type OrderStatusData struct {
	OrderID     string             `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	UserID      string             `json:"user_id"`
	From        domain.OrderStatus `json:"from"`
	To          domain.OrderStatus `json:"to"`
}

// StitchingUpdatedData is the payload for an order.stitching_updated event.
type StitchingUpdatedData struct {
	OrderID             string                 `json:"order_id"`
	ItemID              string                 `json:"item_id"`
	Status              domain.StitchingStatus `json:"status"`
	EstimatedCompletion *time.Time             `json:"estimated_completion,omitempty"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	items := make([]CartItemData, len(cart.Items))
	for i := range cart.Items {
		item := &cart.Items[i]
		items[i] = CartItemData{
			ItemID:    item.ID,
			ProductID: item.ProductID,
			Kind:      item.Kind,
			Name:      item.Name,
			Quantity:  item.Quantity,
			LineTotal: item.Total(),
			Stitched:  item.IsStitched(),
		}
	}

	data := CartUpdatedData{
		UserID:      cart.UserID,
		Items:       items,
		ItemCount:   cart.ItemCount(),
		TotalAmount: cart.TotalAmount(),
		Currency:    cart.Currency,
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, cart.UserID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("user_id", cart.UserID),
		slog.Int("item_count", cart.ItemCount()),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, userID string) error {
	data := CartClearedData{UserID: userID}

	event, err := pkgkafka.NewEvent(TopicCartCleared, userID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("user_id", userID),
	)

	return nil
}

// PublishOrderCreated publishes an order.created event.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	data := OrderCreatedData{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		TotalAmount:   order.TotalAmount,
		Currency:      order.Currency,
		ItemCount:     len(order.Items),
		HasStitching:  order.HasStitchingWork(),
		PaymentMethod: string(order.PaymentMethod),
	}

	event, err := pkgkafka.NewEvent(TopicOrderCreated, order.ID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderCreated, event); err != nil {
		return fmt.Errorf("publish order.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.created event",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.OrderNumber),
	)

	return nil
}

// PublishOrderStatusChanged publishes an order.status_changed event.
func (p *Producer) PublishOrderStatusChanged(ctx context.Context, order *domain.Order, from domain.OrderStatus) error {
	data := OrderStatusData{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		From:        from,
		To:          order.Status,
	}

	event, err := pkgkafka.NewEvent(TopicOrderStatus, order.ID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.status_changed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderStatus, event); err != nil {
		return fmt.Errorf("publish order.status_changed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.status_changed event",
		slog.String("order_id", order.ID),
		slog.String("from", string(from)),
		slog.String("to", string(order.Status)),
	)

	return nil
}

// PublishStitchingUpdated publishes an order.stitching_updated event.
func (p *Producer) PublishStitchingUpdated(ctx context.Context, orderID, itemID string, status domain.StitchingStatus, estimatedCompletion *time.Time) error {
	data := StitchingUpdatedData{
		OrderID:             orderID,
		ItemID:              itemID,
		Status:              status,
		EstimatedCompletion: estimatedCompletion,
	}

	event, err := pkgkafka.NewEvent(TopicStitchingUpdated, orderID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.stitching_updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicStitchingUpdated, event); err != nil {
		return fmt.Errorf("publish order.stitching_updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.stitching_updated event",
		slog.String("order_id", orderID),
		slog.String("item_id", itemID),
		slog.String("status", string(status)),
	)

	return nil
}
