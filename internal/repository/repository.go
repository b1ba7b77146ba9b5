package repository

import (
	"context"
	"time"

	"github.com/Suhail-code8/fabloom/internal/domain"
)

// ProductFilter narrows catalog listings. Nil fields mean "no constraint".
type ProductFilter struct {
	Category *domain.Category
	Kind     *domain.ItemKind
	Featured *bool
	Active   *bool
	Search   *string
	Page     int
	PerPage  int
}

// OrderFilter narrows order listings. Nil fields mean "no constraint".
type OrderFilter struct {
	UserID  *string
	Status  *domain.OrderStatus
	Page    int
	PerPage int
}

// CartRepository persists carts keyed by user ID.
type CartRepository interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, userID string) error
}

// ProductRepository manages catalog entries.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
}

// OrderRepository manages placed orders. Create assigns the order number
// from a per-month counter inside the insert transaction.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByOrderNumber(ctx context.Context, number string) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, trackingNumber string) error
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error
	UpdateStitchingStatus(ctx context.Context, orderID, itemID string, status domain.StitchingStatus, estimatedCompletion *time.Time) error
}
