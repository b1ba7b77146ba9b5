package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Suhail-code8/fabloom/internal/domain"
	"github.com/Suhail-code8/fabloom/internal/repository"
	"github.com/Suhail-code8/fabloom/pkg/database"
	apperrors "github.com/Suhail-code8/fabloom/pkg/errors"
)

// orderNumberPrefix starts every human-facing order number.
const orderNumberPrefix = "FB"

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `id, order_number, user_id, subtotal, shipping_cost, total_amount, currency, status, payment_status, payment_method, shipping_address, tracking_number, created_at, updated_at, delivered_at`

// marshalItemVariant serializes the payload matching the item kind.
func marshalItemVariant(item *domain.OrderItem) ([]byte, error) {
	var payload any
	switch item.Kind {
	case domain.KindReadymade:
		payload = item.Readymade
	case domain.KindFabric:
		payload = item.Fabric
	case domain.KindAccessory:
		payload = item.Accessory
	default:
		return nil, fmt.Errorf("unknown item kind %q", item.Kind)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal item variant: %w", err)
	}
	return data, nil
}

// unmarshalItemVariant fills the payload pointer matching the item kind.
func unmarshalItemVariant(item *domain.OrderItem, data []byte) error {
	var target any
	switch item.Kind {
	case domain.KindReadymade:
		item.Readymade = &domain.ReadymadeDetails{}
		target = item.Readymade
	case domain.KindFabric:
		item.Fabric = &domain.FabricOrderDetails{}
		target = item.Fabric
	case domain.KindAccessory:
		item.Accessory = &domain.AccessoryDetails{}
		target = item.Accessory
	default:
		return fmt.Errorf("unknown item kind %q", item.Kind)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("unmarshal item variant: %w", err)
	}
	return nil
}

// Create inserts an order and its items atomically. The order number is
// assigned inside the transaction from a per-month counter, giving
// FB<yy><mm><seq> numbers that restart each month.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	period := o.CreatedAt.UTC().Format("0601")

	var seq int
	err = tx.QueryRow(ctx, `
		INSERT INTO order_counters (period, counter)
		VALUES ($1, 1)
		ON CONFLICT (period) DO UPDATE SET counter = order_counters.counter + 1
		RETURNING counter`, period,
	).Scan(&seq)
	if err != nil {
		return fmt.Errorf("next order number: %w", err)
	}
	o.OrderNumber = fmt.Sprintf("%s%s%05d", orderNumberPrefix, period, seq)

	shippingJSON, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("marshal shipping address: %w", err)
	}

	orderQuery := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err = tx.Exec(ctx, orderQuery,
		o.ID,
		o.OrderNumber,
		o.UserID,
		o.Subtotal,
		o.ShippingCost,
		o.TotalAmount,
		o.Currency,
		o.Status,
		o.PaymentStatus,
		o.PaymentMethod,
		shippingJSON,
		o.TrackingNumber,
		o.CreatedAt,
		o.UpdatedAt,
		o.DeliveredAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, kind, name, image, quantity, variant, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for i := range o.Items {
		item := &o.Items[i]
		variantJSON, err := marshalItemVariant(item)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, itemQuery,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.Kind,
			item.Name,
			item.Image,
			item.Quantity,
			variantJSON,
			item.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID with all items.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.scanOrder(ctx, query, id)
}

// GetByOrderNumber retrieves an order by its human-facing number.
func (r *OrderRepository) GetByOrderNumber(ctx context.Context, number string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`
	return r.scanOrder(ctx, query, number)
}

// List returns orders matching the given filter with the total count.
func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIndex))
		args = append(args, *filter.UserID)
		argIndex++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT `+orderColumns+`, count(*) OVER() AS total_count
		FROM orders
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var totalCount int
	orders := make([]domain.Order, 0)

	for rows.Next() {
		var (
			o            domain.Order
			shippingJSON []byte
		)

		if err := rows.Scan(
			&o.ID,
			&o.OrderNumber,
			&o.UserID,
			&o.Subtotal,
			&o.ShippingCost,
			&o.TotalAmount,
			&o.Currency,
			&o.Status,
			&o.PaymentStatus,
			&o.PaymentMethod,
			&shippingJSON,
			&o.TrackingNumber,
			&o.CreatedAt,
			&o.UpdatedAt,
			&o.DeliveredAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}

		if err := json.Unmarshal(shippingJSON, &o.ShippingAddress); err != nil {
			return nil, 0, fmt.Errorf("unmarshal shipping address: %w", err)
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}

	// Batch-load items for all orders in one query.
	if len(orders) > 0 {
		orderIDs := make([]string, len(orders))
		for i := range orders {
			orderIDs[i] = orders[i].ID
		}

		itemsByOrderID, err := r.loadItems(ctx, orderIDs)
		if err != nil {
			return nil, 0, err
		}

		for i := range orders {
			if items, ok := itemsByOrderID[orders[i].ID]; ok {
				orders[i].Items = items
			} else {
				orders[i].Items = []domain.OrderItem{}
			}
		}
	}

	return orders, totalCount, nil
}

// UpdateStatus changes the fulfilment status. A non-empty tracking number
// is recorded alongside, and reaching delivered stamps delivered_at.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, trackingNumber string) error {
	query := `
		UPDATE orders
		SET status = $1,
		    tracking_number = COALESCE(NULLIF($2, ''), tracking_number),
		    delivered_at = CASE WHEN $1 = 'delivered' THEN $3 ELSE delivered_at END,
		    updated_at = $3
		WHERE id = $4`

	ct, err := r.pool.Exec(ctx, query, status, trackingNumber, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", id)
	}

	return nil
}

// UpdatePaymentStatus changes the payment status of an order.
func (r *OrderRepository) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	query := `
		UPDATE orders
		SET payment_status = $1, updated_at = $2
		WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", id)
	}

	return nil
}

// UpdateStitchingStatus updates the tailoring status embedded in an item's
// variant payload, optionally recording an estimated completion date. Only
// items that actually carry a stitching job match.
func (r *OrderRepository) UpdateStitchingStatus(ctx context.Context, orderID, itemID string, status domain.StitchingStatus, estimatedCompletion *time.Time) error {
	var (
		ct  pgconn.CommandTag
		err error
	)

	if estimatedCompletion != nil {
		query := `
			UPDATE order_items
			SET variant = jsonb_set(
				jsonb_set(variant, '{stitching,status}', to_jsonb($1::text)),
				'{stitching,estimated_completion}', to_jsonb($2::timestamptz))
			WHERE id = $3 AND order_id = $4 AND variant ? 'stitching'`
		ct, err = r.pool.Exec(ctx, query, status, *estimatedCompletion, itemID, orderID)
	} else {
		query := `
			UPDATE order_items
			SET variant = jsonb_set(variant, '{stitching,status}', to_jsonb($1::text))
			WHERE id = $2 AND order_id = $3 AND variant ? 'stitching'`
		ct, err = r.pool.Exec(ctx, query, status, itemID, orderID)
	}
	if err != nil {
		return fmt.Errorf("update stitching status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("stitching item", itemID)
	}

	return nil
}

// scanOrder executes a query expected to return a single order row, then
// loads its items.
func (r *OrderRepository) scanOrder(ctx context.Context, query string, args ...any) (*domain.Order, error) {
	var (
		o            domain.Order
		shippingJSON []byte
	)

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&o.Subtotal,
		&o.ShippingCost,
		&o.TotalAmount,
		&o.Currency,
		&o.Status,
		&o.PaymentStatus,
		&o.PaymentMethod,
		&shippingJSON,
		&o.TrackingNumber,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.DeliveredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if err := json.Unmarshal(shippingJSON, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("unmarshal shipping address: %w", err)
	}

	itemsByOrderID, err := r.loadItems(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	if items, ok := itemsByOrderID[o.ID]; ok {
		o.Items = items
	} else {
		o.Items = []domain.OrderItem{}
	}

	return &o, nil
}

// loadItems retrieves the items for the given orders, grouped by order ID.
func (r *OrderRepository) loadItems(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, kind, name, image, quantity, variant, line_total
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	itemsByOrderID := make(map[string][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var (
			item        domain.OrderItem
			variantJSON []byte
		)
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Kind,
			&item.Name,
			&item.Image,
			&item.Quantity,
			&variantJSON,
			&item.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}

		if err := unmarshalItemVariant(&item, variantJSON); err != nil {
			return nil, err
		}

		itemsByOrderID[item.OrderID] = append(itemsByOrderID[item.OrderID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order item rows: %w", err)
	}

	return itemsByOrderID, nil
}
