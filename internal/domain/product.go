package domain

import (
	"errors"
	"time"
)

var errInvalidCategory = errors.New("invalid category")

// Category groups products in the catalog.
type Category string

const (
	CategoryMens        Category = "mens"
	CategoryWomens      Category = "womens"
	CategoryKids        Category = "kids"
	CategoryAccessories Category = "accessories"
)

// IsValidCategory checks whether the category is known.
func IsValidCategory(c Category) bool {
	switch c {
	case CategoryMens, CategoryWomens, CategoryKids, CategoryAccessories:
		return true
	}
	return false
}

// ReadymadeProduct is the catalog payload for an off-the-rack garment.
// SizeStock tracks units on hand per size.
type ReadymadeProduct struct {
	Price     float64      `json:"price"`
	SizeStock map[Size]int `json:"size_stock"`
	Material  string       `json:"material,omitempty"`
	Color     string       `json:"color,omitempty"`
}

// FabricProduct is the catalog payload for fabric sold by the meter.
type FabricProduct struct {
	PricePerMeter      float64 `json:"price_per_meter"`
	StockMeters        float64 `json:"stock_meters"`
	FabricType         string  `json:"fabric_type,omitempty"`
	WidthInches        float64 `json:"width_inches,omitempty"`
	StitchingAvailable bool    `json:"stitching_available"`
	StitchingPrice     float64 `json:"stitching_price,omitempty"`
}

// AccessoryProduct is the catalog payload for accessories.
type AccessoryProduct struct {
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Material string  `json:"material,omitempty"`
	Color    string  `json:"color,omitempty"`
}

// Product is a catalog entry. Exactly one of Readymade, Fabric or Accessory
// is set, matching Kind.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Category    Category  `json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`
	Kind        ItemKind  `json:"kind"`
	Images      []string  `json:"images,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Featured    bool      `json:"featured"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Readymade *ReadymadeProduct `json:"readymade,omitempty"`
	Fabric    *FabricProduct    `json:"fabric,omitempty"`
	Accessory *AccessoryProduct `json:"accessory,omitempty"`
}

// PrimaryImage returns the first image, or empty when none are set.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Validate checks that the variant payload matches Kind and carries
// positive prices.
func (p *Product) Validate() error {
	switch p.Kind {
	case KindReadymade:
		if p.Readymade == nil || p.Fabric != nil || p.Accessory != nil {
			return errKindPayloadMismatch
		}
		if p.Readymade.Price <= 0 {
			return errNonPositivePrice
		}
	case KindFabric:
		if p.Fabric == nil || p.Readymade != nil || p.Accessory != nil {
			return errKindPayloadMismatch
		}
		if p.Fabric.PricePerMeter <= 0 {
			return errNonPositivePrice
		}
		if p.Fabric.StitchingAvailable && p.Fabric.StitchingPrice <= 0 {
			return errNonPositivePrice
		}
	case KindAccessory:
		if p.Accessory == nil || p.Readymade != nil || p.Fabric != nil {
			return errKindPayloadMismatch
		}
		if p.Accessory.Price <= 0 {
			return errNonPositivePrice
		}
	default:
		return errKindPayloadMismatch
	}
	if !IsValidCategory(p.Category) {
		return errInvalidCategory
	}
	return nil
}

// HasReadymadeStock reports whether the requested size has at least qty
// units on hand.
func (p *Product) HasReadymadeStock(size Size, qty int) bool {
	if p.Kind != KindReadymade || p.Readymade == nil {
		return false
	}
	return p.Readymade.SizeStock[size] >= qty
}

// HasFabricStock reports whether at least meters of fabric remain.
func (p *Product) HasFabricStock(meters float64) bool {
	if p.Kind != KindFabric || p.Fabric == nil {
		return false
	}
	return p.Fabric.StockMeters >= meters
}

// HasAccessoryStock reports whether at least qty units remain.
func (p *Product) HasAccessoryStock(qty int) bool {
	if p.Kind != KindAccessory || p.Accessory == nil {
		return false
	}
	return p.Accessory.Stock >= qty
}
