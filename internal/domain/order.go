package domain

import "time"

// OrderStatus tracks an order through fulfilment.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// IsValidOrderStatus checks whether the status is known.
func IsValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// orderTransitions maps each status to the statuses it may move to.
// Delivered and cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to OrderStatus) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// PaymentStatus tracks the payment lifecycle of an order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// IsValidPaymentStatus checks whether the status is known.
func IsValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// PaymentMethod is how the buyer pays.
type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCOD  PaymentMethod = "cod"
	PaymentUPI  PaymentMethod = "upi"
)

// IsValidPaymentMethod checks whether the method is supported.
func IsValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCard, PaymentCOD, PaymentUPI:
		return true
	}
	return false
}

// Address is a shipping destination.
type Address struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// StitchingJob is a tailoring request frozen onto an order item, with its
// own fulfilment status alongside the order's.
type StitchingJob struct {
	StitchingSpec
	Status              StitchingStatus `json:"status"`
	EstimatedCompletion *time.Time      `json:"estimated_completion,omitempty"`
}

// FabricOrderDetails is the fabric variant payload on an order item.
type FabricOrderDetails struct {
	PricePerMeter float64       `json:"price_per_meter"`
	Meters        float64       `json:"meters"`
	Stitching     *StitchingJob `json:"stitching,omitempty"`
}

// OrderItem is a cart line frozen at checkout. LineTotal is the price the
// buyer was shown, captured so later catalog changes cannot reprice a
// placed order.
type OrderItem struct {
	ID        string              `json:"id"`
	OrderID   string              `json:"order_id"`
	ProductID string              `json:"product_id"`
	Kind      ItemKind            `json:"kind"`
	Name      string              `json:"name"`
	Image     string              `json:"image,omitempty"`
	Quantity  int                 `json:"quantity"`
	Readymade *ReadymadeDetails   `json:"readymade,omitempty"`
	Fabric    *FabricOrderDetails `json:"fabric,omitempty"`
	Accessory *AccessoryDetails   `json:"accessory,omitempty"`
	LineTotal float64             `json:"line_total"`
}

// HasStitching reports whether this order item carries a tailoring job.
func (i *OrderItem) HasStitching() bool {
	return i.Fabric != nil && i.Fabric.Stitching != nil
}

// Order is a placed order.
type Order struct {
	ID              string        `json:"id"`
	OrderNumber     string        `json:"order_number"`
	UserID          string        `json:"user_id"`
	Items           []OrderItem   `json:"items"`
	Subtotal        float64       `json:"subtotal"`
	ShippingCost    float64       `json:"shipping_cost"`
	TotalAmount     float64       `json:"total_amount"`
	Currency        string        `json:"currency"`
	Status          OrderStatus   `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	ShippingAddress Address       `json:"shipping_address"`
	TrackingNumber  string        `json:"tracking_number,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	DeliveredAt     *time.Time    `json:"delivered_at,omitempty"`
}

// HasStitchingWork reports whether any item on the order needs tailoring.
func (o *Order) HasStitchingWork() bool {
	for idx := range o.Items {
		if o.Items[idx].HasStitching() {
			return true
		}
	}
	return false
}
