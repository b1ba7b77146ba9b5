package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ItemKind discriminates the three purchasable variants.
type ItemKind string

const (
	KindReadymade ItemKind = "readymade"
	KindFabric    ItemKind = "fabric"
	KindAccessory ItemKind = "accessory"
)

// IsValidKind checks whether the kind is one of the known variants.
func IsValidKind(kind ItemKind) bool {
	switch kind {
	case KindReadymade, KindFabric, KindAccessory:
		return true
	}
	return false
}

// Size is a readymade garment size.
type Size string

const (
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

// ValidSizes returns all readymade sizes in display order.
func ValidSizes() []Size {
	return []Size{SizeS, SizeM, SizeL, SizeXL, SizeXXL}
}

// IsValidSize checks whether the given size is supported.
func IsValidSize(size Size) bool {
	for _, s := range ValidSizes() {
		if s == size {
			return true
		}
	}
	return false
}

// MinFabricMeters is the smallest fabric length that can be purchased.
const MinFabricMeters = 0.5

// ReadymadeDetails is the variant payload for an off-the-rack garment.
// Price is a snapshot of the unit price when the item entered the cart.
type ReadymadeDetails struct {
	Size  Size    `json:"size"`
	Price float64 `json:"price"`
}

// FabricDetails is the variant payload for fabric sold by the meter.
// Stitching is nil for a plain cut and set when the buyer ordered custom
// tailoring with the fabric.
type FabricDetails struct {
	PricePerMeter float64        `json:"price_per_meter"`
	Meters        float64        `json:"meters"`
	Stitching     *StitchingSpec `json:"stitching,omitempty"`
}

// AccessoryDetails is the variant payload for accessories.
type AccessoryDetails struct {
	Price float64 `json:"price"`
}

var (
	errKindPayloadMismatch = errors.New("variant payload does not match item kind")
	errNonPositiveQuantity = errors.New("quantity must be positive")
	errNonPositivePrice    = errors.New("price must be positive")
	errMetersBelowMinimum  = errors.New("meters below purchasable minimum")
	errInvalidStitching    = errors.New("invalid stitching spec")
)

// LineItem is one entry in a cart. Exactly one of Readymade, Fabric or
// Accessory is set, matching Kind. ID is the line identity assigned by
// Cart.AddItem and is the handle for updates and removal.
type LineItem struct {
	ID        string            `json:"id"`
	ProductID string            `json:"product_id"`
	Kind      ItemKind          `json:"kind"`
	Name      string            `json:"name"`
	Image     string            `json:"image,omitempty"`
	Quantity  int               `json:"quantity"`
	Readymade *ReadymadeDetails `json:"readymade,omitempty"`
	Fabric    *FabricDetails    `json:"fabric,omitempty"`
	Accessory *AccessoryDetails `json:"accessory,omitempty"`
}

// Validate checks the structural invariants of a line item: a known kind,
// exactly one variant payload matching that kind, positive quantity and
// prices, and the fabric minimum cut length.
func (i *LineItem) Validate() error {
	if i.Quantity <= 0 {
		return errNonPositiveQuantity
	}
	switch i.Kind {
	case KindReadymade:
		if i.Readymade == nil || i.Fabric != nil || i.Accessory != nil {
			return errKindPayloadMismatch
		}
		if !IsValidSize(i.Readymade.Size) {
			return errors.New("invalid size")
		}
		if i.Readymade.Price <= 0 {
			return errNonPositivePrice
		}
	case KindFabric:
		if i.Fabric == nil || i.Readymade != nil || i.Accessory != nil {
			return errKindPayloadMismatch
		}
		if i.Fabric.PricePerMeter <= 0 {
			return errNonPositivePrice
		}
		if i.Fabric.Meters < MinFabricMeters {
			return errMetersBelowMinimum
		}
		if s := i.Fabric.Stitching; s != nil {
			if !IsValidStyle(s.Style) || !s.Measurements.AllPositive() ||
				len(s.Notes) > MaxStitchingNotes || s.Price < 0 {
				return errInvalidStitching
			}
		}
	case KindAccessory:
		if i.Accessory == nil || i.Readymade != nil || i.Fabric != nil {
			return errKindPayloadMismatch
		}
		if i.Accessory.Price <= 0 {
			return errNonPositivePrice
		}
	default:
		return errKindPayloadMismatch
	}
	return nil
}

// IsStitched reports whether the item is fabric with a tailoring request.
func (i *LineItem) IsStitched() bool {
	return i.Kind == KindFabric && i.Fabric != nil && i.Fabric.Stitching != nil
}

// Mergeable reports whether adding the same configuration again should fold
// into this line. Stitched fabric never merges: each tailoring job is its
// own line even when the measurements happen to coincide.
func (i *LineItem) Mergeable() bool {
	return !i.IsStitched()
}

// Total returns the price of this line. For fabric the stitching charge
// applies per unit, so one unit covers one cut of Meters plus one tailoring
// job.
func (i *LineItem) Total() float64 {
	qty := float64(i.Quantity)
	switch i.Kind {
	case KindReadymade:
		return i.Readymade.Price * qty
	case KindFabric:
		unit := i.Fabric.PricePerMeter * i.Fabric.Meters
		if i.Fabric.Stitching != nil {
			unit += i.Fabric.Stitching.Price
		}
		return unit * qty
	case KindAccessory:
		return i.Accessory.Price * qty
	}
	return 0
}

// identity derives the line identity for an incoming item. Readymade lines
// are distinct per product and size, plain fabric and accessories per
// product. Stitched fabric gets a fresh identity on every call so repeated
// adds never collide.
func (i *LineItem) identity() string {
	switch {
	case i.Kind == KindReadymade:
		return i.ProductID + "-" + string(i.Readymade.Size)
	case i.IsStitched():
		return i.ProductID + "-custom-" + uuid.NewString()
	default:
		return i.ProductID
	}
}

// Cart is a user's shopping cart. Items preserves insertion order. Totals
// are always recomputed from the items, never stored.
type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Items     []LineItem `json:"items"`
	Currency  string     `json:"currency"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart creates an empty cart for a user.
func NewCart(userID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		ID:        uuid.NewString(),
		UserID:    userID,
		Items:     []LineItem{},
		Currency:  "INR",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddItem inserts an item or, when a line with the same identity already
// exists and the configuration is mergeable, folds the quantity into that
// line. The assigned line ID is returned.
func (c *Cart) AddItem(item LineItem) string {
	if item.Mergeable() {
		id := item.identity()
		for idx := range c.Items {
			if c.Items[idx].ID == id {
				c.Items[idx].Quantity += item.Quantity
				c.touch()
				return id
			}
		}
		item.ID = id
	} else {
		item.ID = item.identity()
	}
	c.Items = append(c.Items, item)
	c.touch()
	return item.ID
}

// RemoveItem deletes the line with the given ID. Removing an unknown ID is
// a no-op.
func (c *Cart) RemoveItem(itemID string) {
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.touch()
			return
		}
	}
}

// UpdateQuantity sets the quantity of the line with the given ID. A
// quantity of zero or less removes the line. An unknown ID is a no-op.
func (c *Cart) UpdateQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(itemID)
		return
	}
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			c.Items[idx].Quantity = quantity
			c.touch()
			return
		}
	}
}

// Clear removes every line from the cart.
func (c *Cart) Clear() {
	c.Items = []LineItem{}
	c.touch()
}

// Find returns the line with the given ID, or nil.
func (c *Cart) Find(itemID string) *LineItem {
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			return &c.Items[idx]
		}
	}
	return nil
}

// TotalAmount sums the line totals.
func (c *Cart) TotalAmount() float64 {
	var total float64
	for idx := range c.Items {
		total += c.Items[idx].Total()
	}
	return total
}

// ItemCount sums the quantities across all lines.
func (c *Cart) ItemCount() int {
	var count int
	for idx := range c.Items {
		count += c.Items[idx].Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now().UTC()
}
