package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Suhail-code8/fabloom/internal/domain"
	"github.com/Suhail-code8/fabloom/internal/repository"
	"github.com/Suhail-code8/fabloom/pkg/database"
	apperrors "github.com/Suhail-code8/fabloom/pkg/errors"
)

func newOrderTestRepo(t *testing.T) (*OrderRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewOrderRepository(mock)
	return repo, mock
}

func sampleShippingAddress() domain.Address {
	return domain.Address{
		Name:       "Ayesha Khan",
		Phone:      "+919845012345",
		Line1:      "14 Rose Garden Road",
		City:       "Bengaluru",
		State:      "Karnataka",
		PostalCode: "560001",
		Country:    "IN",
	}
}

func sampleOrder() *domain.Order {
	created := time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)
	return &domain.Order{
		ID:              "order-1",
		UserID:          "user-1",
		Subtotal:        110,
		ShippingCost:    5,
		TotalAmount:     115,
		Currency:        "INR",
		Status:          domain.OrderPending,
		PaymentStatus:   domain.PaymentPending,
		PaymentMethod:   domain.PaymentUPI,
		ShippingAddress: sampleShippingAddress(),
		CreatedAt:       created,
		UpdatedAt:       created,
		Items: []domain.OrderItem{
			{
				ID:        "item-1",
				OrderID:   "order-1",
				ProductID: "fab-1",
				Kind:      domain.KindFabric,
				Name:      "Cotton Poplin",
				Quantity:  1,
				Fabric: &domain.FabricOrderDetails{
					PricePerMeter: 15,
					Meters:        3,
				},
				LineTotal: 45,
			},
			{
				ID:        "item-2",
				OrderID:   "order-1",
				ProductID: "fab-1",
				Kind:      domain.KindFabric,
				Name:      "Cotton Poplin",
				Quantity:  1,
				Fabric: &domain.FabricOrderDetails{
					PricePerMeter: 15,
					Meters:        2,
					Stitching: &domain.StitchingJob{
						StitchingSpec: domain.StitchingSpec{
							Style: domain.StyleKurta,
							Measurements: domain.Measurements{
								Neck: 15, Chest: 40, Waist: 34,
								Shoulder: 18, SleeveLength: 24, ShirtLength: 30,
							},
							Price: 35,
						},
						Status: domain.StitchingPending,
					},
				},
				LineTotal: 65,
			},
		},
	}
}

func TestOrderRepository_Create_AssignsOrderNumber(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	o := sampleOrder()

	mock.ExpectBegin()

	mock.ExpectQuery("INSERT INTO order_counters").
		WithArgs("2608").
		WillReturnRows(pgxmock.NewRows([]string{"counter"}).AddRow(42))

	mock.ExpectExec("INSERT INTO orders").
		WithArgs(
			o.ID, "FB260800042", o.UserID,
			o.Subtotal, o.ShippingCost, o.TotalAmount, o.Currency,
			o.Status, o.PaymentStatus, o.PaymentMethod,
			pgxmock.AnyArg(), // shipping JSON
			o.TrackingNumber, o.CreatedAt, o.UpdatedAt, o.DeliveredAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	for _, item := range o.Items {
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs(
				item.ID, item.OrderID, item.ProductID, item.Kind,
				item.Name, item.Image, item.Quantity,
				pgxmock.AnyArg(), // variant JSON
				item.LineTotal,
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	mock.ExpectCommit()

	err := repo.Create(context.Background(), o)
	require.NoError(t, err)
	assert.Equal(t, "FB260800042", o.OrderNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_CounterFailureRollsBack(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO order_counters").
		WithArgs("2608").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), o)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "next order number")
}

func TestOrderRepository_GetByID_Success(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	o := sampleOrder()
	o.OrderNumber = "FB260800042"

	shippingJSON := []byte(`{"name":"Ayesha Khan","phone":"+919845012345","line1":"14 Rose Garden Road","city":"Bengaluru","state":"Karnataka","postal_code":"560001","country":"IN"}`)

	orderCols := []string{
		"id", "order_number", "user_id", "subtotal", "shipping_cost",
		"total_amount", "currency", "status", "payment_status",
		"payment_method", "shipping_address", "tracking_number",
		"created_at", "updated_at", "delivered_at",
	}

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id =").
		WithArgs(o.ID).
		WillReturnRows(pgxmock.NewRows(orderCols).AddRow(
			o.ID, o.OrderNumber, o.UserID, o.Subtotal, o.ShippingCost,
			o.TotalAmount, o.Currency, o.Status, o.PaymentStatus,
			o.PaymentMethod, shippingJSON, o.TrackingNumber,
			o.CreatedAt, o.UpdatedAt, o.DeliveredAt,
		))

	itemCols := []string{
		"id", "order_id", "product_id", "kind", "name", "image",
		"quantity", "variant", "line_total",
	}
	itemRows := pgxmock.NewRows(itemCols)
	for i := range o.Items {
		item := &o.Items[i]
		variantJSON, err := marshalItemVariant(item)
		require.NoError(t, err)
		itemRows.AddRow(
			item.ID, item.OrderID, item.ProductID, item.Kind,
			item.Name, item.Image, item.Quantity, variantJSON, item.LineTotal,
		)
	}

	mock.ExpectQuery("SELECT (.+) FROM order_items").
		WithArgs([]string{o.ID}).
		WillReturnRows(itemRows)

	got, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "FB260800042", got.OrderNumber)
	assert.Equal(t, "Bengaluru", got.ShippingAddress.City)
	require.Len(t, got.Items, 2)
	require.NotNil(t, got.Items[1].Fabric)
	require.NotNil(t, got.Items[1].Fabric.Stitching)
	assert.Equal(t, domain.StitchingPending, got.Items[1].Fabric.Stitching.Status)
	assert.InDelta(t, 65.0, got.Items[1].LineTotal, 1e-9)
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id =").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "missing")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOrderRepository_List_FiltersByUser(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	o := sampleOrder()
	o.OrderNumber = "FB260800042"
	shippingJSON := []byte(`{"name":"Ayesha Khan","city":"Bengaluru","country":"IN"}`)

	cols := []string{
		"id", "order_number", "user_id", "subtotal", "shipping_cost",
		"total_amount", "currency", "status", "payment_status",
		"payment_method", "shipping_address", "tracking_number",
		"created_at", "updated_at", "delivered_at", "total_count",
	}

	userID := "user-1"
	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs(userID, 20, 0).
		WillReturnRows(pgxmock.NewRows(cols).AddRow(
			o.ID, o.OrderNumber, o.UserID, o.Subtotal, o.ShippingCost,
			o.TotalAmount, o.Currency, o.Status, o.PaymentStatus,
			o.PaymentMethod, shippingJSON, o.TrackingNumber,
			o.CreatedAt, o.UpdatedAt, o.DeliveredAt, 1,
		))

	itemCols := []string{
		"id", "order_id", "product_id", "kind", "name", "image",
		"quantity", "variant", "line_total",
	}
	mock.ExpectQuery("SELECT (.+) FROM order_items").
		WithArgs([]string{o.ID}).
		WillReturnRows(pgxmock.NewRows(itemCols))

	orders, total, err := repo.List(context.Background(), repository.OrderFilter{UserID: &userID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, orders, 1)
	assert.Empty(t, orders[0].Items)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	mock.ExpectExec("UPDATE orders").
		WithArgs(domain.OrderShipped, "TRK-9", pgxmock.AnyArg(), "order-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateStatus(context.Background(), "order-1", domain.OrderShipped, "TRK-9")
	assert.NoError(t, err)
}

func TestOrderRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	mock.ExpectExec("UPDATE orders").
		WithArgs(domain.OrderConfirmed, "", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.OrderConfirmed, "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOrderRepository_UpdatePaymentStatus(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	mock.ExpectExec("UPDATE orders").
		WithArgs(domain.PaymentPaid, pgxmock.AnyArg(), "order-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdatePaymentStatus(context.Background(), "order-1", domain.PaymentPaid)
	assert.NoError(t, err)
}

func TestOrderRepository_UpdateStitchingStatus(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	mock.ExpectExec("UPDATE order_items").
		WithArgs(domain.StitchingInProgress, "item-2", "order-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateStitchingStatus(context.Background(), "order-1", "item-2", domain.StitchingInProgress, nil)
	assert.NoError(t, err)
}

func TestOrderRepository_UpdateStitchingStatus_EstimatedCompletion(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	eta := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE order_items").
		WithArgs(domain.StitchingInProgress, eta, "item-2", "order-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateStitchingStatus(context.Background(), "order-1", "item-2", domain.StitchingInProgress, &eta)
	assert.NoError(t, err)
}

func TestOrderRepository_UpdateStitchingStatus_NoStitchingItem(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	mock.ExpectExec("UPDATE order_items").
		WithArgs(domain.StitchingCompleted, "item-1", "order-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStitchingStatus(context.Background(), "order-1", "item-1", domain.StitchingCompleted, nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
