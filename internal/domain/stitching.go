package domain

// GarmentStyle identifies the garment cut for a custom stitching job.
type GarmentStyle string

const (
	StyleJubbah  GarmentStyle = "Jubbah"
	StyleKurta   GarmentStyle = "Kurta"
	StyleShirt   GarmentStyle = "Shirt"
	StyleKandura GarmentStyle = "Kandura"
)

// ValidStyles returns all supported garment styles.
func ValidStyles() []GarmentStyle {
	return []GarmentStyle{StyleJubbah, StyleKurta, StyleShirt, StyleKandura}
}

// IsValidStyle checks whether the given style is supported.
func IsValidStyle(style GarmentStyle) bool {
	for _, s := range ValidStyles() {
		if s == style {
			return true
		}
	}
	return false
}

// MaxStitchingNotes bounds the free-text instructions on a stitching spec.
const MaxStitchingNotes = 500

// Measurements are the six body measurements a tailor needs, in inches.
type Measurements struct {
	Neck         float64 `json:"neck"`
	Chest        float64 `json:"chest"`
	Waist        float64 `json:"waist"`
	Shoulder     float64 `json:"shoulder"`
	SleeveLength float64 `json:"sleeve_length"`
	ShirtLength  float64 `json:"shirt_length"`
}

// AllPositive reports whether every measurement is greater than zero.
func (m Measurements) AllPositive() bool {
	return m.Neck > 0 && m.Chest > 0 && m.Waist > 0 &&
		m.Shoulder > 0 && m.SleeveLength > 0 && m.ShirtLength > 0
}

// StitchingSpec describes a custom tailoring request attached to a fabric
// purchase. Price is a snapshot of the stitching service charge taken when
// the item entered the cart.
type StitchingSpec struct {
	Style        GarmentStyle `json:"style"`
	Measurements Measurements `json:"measurements"`
	Notes        string       `json:"notes,omitempty"`
	Price        float64      `json:"price"`
}

// StitchingStatus tracks a tailoring job through its lifecycle on an order
// item.
type StitchingStatus string

const (
	StitchingPending    StitchingStatus = "pending"
	StitchingInProgress StitchingStatus = "in_progress"
	StitchingCompleted  StitchingStatus = "completed"
	StitchingDelivered  StitchingStatus = "delivered"
)

// ValidStitchingStatuses returns all tailoring job statuses.
func ValidStitchingStatuses() []StitchingStatus {
	return []StitchingStatus{StitchingPending, StitchingInProgress, StitchingCompleted, StitchingDelivered}
}

// IsValidStitchingStatus checks whether the given status is known.
func IsValidStitchingStatus(status StitchingStatus) bool {
	for _, s := range ValidStitchingStatuses() {
		if s == status {
			return true
		}
	}
	return false
}
