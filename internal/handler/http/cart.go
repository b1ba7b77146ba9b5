package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Suhail-code8/fabloom/internal/domain"
	"github.com/Suhail-code8/fabloom/internal/service"
	"github.com/Suhail-code8/fabloom/pkg/middleware"
	"github.com/Suhail-code8/fabloom/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// StitchingRequest carries a tailoring request on an add-to-cart call.
type StitchingRequest struct {
	Style        string  `json:"style" validate:"required"`
	Neck         float64 `json:"neck" validate:"required,gt=0"`
	Chest        float64 `json:"chest" validate:"required,gt=0"`
	Waist        float64 `json:"waist" validate:"required,gt=0"`
	Shoulder     float64 `json:"shoulder" validate:"required,gt=0"`
	SleeveLength float64 `json:"sleeve_length" validate:"required,gt=0"`
	ShirtLength  float64 `json:"shirt_length" validate:"required,gt=0"`
	Notes        string  `json:"notes" validate:"max=500"`
}

// AddItemRequest is the JSON request body for adding an item to the cart.
// Size applies to readymade garments, Meters and Stitching to fabric.
type AddItemRequest struct {
	ProductID string            `json:"product_id" validate:"required"`
	Quantity  int               `json:"quantity" validate:"required,gte=1"`
	Size      string            `json:"size,omitempty"`
	Meters    float64           `json:"meters,omitempty" validate:"omitempty,gte=0.5"`
	Stitching *StitchingRequest `json:"stitching,omitempty"`
}

// UpdateQuantityRequest is the JSON request body for updating a line's
// quantity. Zero removes the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	cart, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: newCartResponse(cart)})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req AddItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	input := service.AddItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Size:      domain.Size(req.Size),
		Meters:    req.Meters,
	}
	if req.Stitching != nil {
		input.Stitching = &service.StitchingInput{
			Style: domain.GarmentStyle(req.Stitching.Style),
			Measurements: domain.Measurements{
				Neck:         req.Stitching.Neck,
				Chest:        req.Stitching.Chest,
				Waist:        req.Stitching.Waist,
				Shoulder:     req.Stitching.Shoulder,
				SleeveLength: req.Stitching.SleeveLength,
				ShirtLength:  req.Stitching.ShirtLength,
			},
			Notes: req.Stitching.Notes,
		}
	}

	cart, err := h.service.AddItem(r.Context(), userID, input)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: newCartResponse(cart)})
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{itemId}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	itemID := chi.URLParam(r, "itemId")
	if itemID == "" {
		writeBadRequest(w, "itemId is required")
		return
	}

	var req UpdateQuantityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	cart, err := h.service.UpdateItemQuantity(r.Context(), userID, itemID, req.Quantity)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: newCartResponse(cart)})
}

// RemoveItem handles DELETE /api/v1/cart/items/{itemId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	itemID := chi.URLParam(r, "itemId")
	if itemID == "" {
		writeBadRequest(w, "itemId is required")
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), userID, itemID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: newCartResponse(cart)})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := h.service.ClearCart(r.Context(), userID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "cleared"}})
}

// --- Response DTOs ---

// cartResponse augments the stored cart with the derived totals clients
// render.
type cartResponse struct {
	*domain.Cart
	ItemCount   int              `json:"item_count"`
	TotalAmount float64          `json:"total_amount"`
	LineTotals  map[string]float64 `json:"line_totals"`
}

func newCartResponse(cart *domain.Cart) cartResponse {
	lineTotals := make(map[string]float64, len(cart.Items))
	for i := range cart.Items {
		lineTotals[cart.Items[i].ID] = cart.Items[i].Total()
	}
	return cartResponse{
		Cart:        cart,
		ItemCount:   cart.ItemCount(),
		TotalAmount: cart.TotalAmount(),
		LineTotals:  lineTotals,
	}
}
