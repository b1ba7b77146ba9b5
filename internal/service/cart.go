package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Suhail-code8/fabloom/internal/domain"
	"github.com/Suhail-code8/fabloom/internal/event"
	"github.com/Suhail-code8/fabloom/internal/repository"
	apperrors "github.com/Suhail-code8/fabloom/pkg/errors"
)

// Cart operation upper-bound limits to prevent abuse.
const (
	// MaxQuantityPerItem is the maximum quantity allowed for a single line.
	MaxQuantityPerItem = 100
	// MaxItemsPerCart is the maximum number of distinct lines in a cart.
	MaxItemsPerCart = 50
)

// StitchingInput is a tailoring request submitted with a fabric line. The
// stitching charge itself comes from the catalog, never from the client.
type StitchingInput struct {
	Style        domain.GarmentStyle `json:"style" validate:"required"`
	Measurements domain.Measurements `json:"measurements" validate:"required"`
	Notes        string              `json:"notes" validate:"max=500"`
}

// AddItemInput holds the parameters for adding an item to the cart. Which
// fields matter depends on the product kind: Size for readymade, Meters
// and optionally Stitching for fabric.
type AddItemInput struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gte=1"`
	Size      domain.Size     `json:"size,omitempty"`
	Meters    float64         `json:"meters,omitempty"`
	Stitching *StitchingInput `json:"stitching,omitempty"`
}

// CartService implements the business logic for cart operations. Prices
// are snapshotted from the catalog at add time, so later catalog edits do
// not reprice lines already in a cart.
type CartService struct {
	repo     repository.CartRepository
	catalog  repository.ProductRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, catalog repository.ProductRepository, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		catalog:  catalog,
		producer: producer,
		logger:   logger,
	}
}

// GetCart retrieves the cart for a user. If no cart exists an empty one is
// returned without being persisted.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewCart(userID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return cart, nil
}

// AddItem resolves the product, snapshots its pricing into a line item and
// adds it to the user's cart. Lines with the same identity merge by
// quantity; stitched fabric always opens a new line.
func (s *CartService) AddItem(ctx context.Context, userID string, input AddItemInput) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.Quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be greater than 0")
	}
	if input.Quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	product, err := s.catalog.GetByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", input.ProductID)
		}
		return nil, fmt.Errorf("resolve product: %w", err)
	}
	if !product.Active {
		return nil, apperrors.InvalidInput("product is not available")
	}

	item, err := s.buildLineItem(product, input)
	if err != nil {
		return nil, err
	}

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Mutations stay in memory until persist, so limit violations can
	// still reject the whole operation here.
	itemID := cart.AddItem(*item)

	if len(cart.Items) > MaxItemsPerCart {
		return nil, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d items", MaxItemsPerCart))
	}
	if line := cart.Find(itemID); line != nil && line.Quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("combined quantity must not exceed %d", MaxQuantityPerItem))
	}

	s.persist(ctx, cart)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("user_id", userID),
		slog.String("item_id", itemID),
		slog.String("product_id", input.ProductID),
		slog.String("kind", string(product.Kind)),
		slog.Int("quantity", input.Quantity),
	)

	return cart, nil
}

// UpdateItemQuantity sets the quantity of a cart line. Zero removes the
// line, an unknown line ID leaves the cart unchanged.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if itemID == "" {
		return nil, apperrors.InvalidInput("item id is required")
	}
	if quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.UpdateQuantity(itemID, quantity)
	s.persist(ctx, cart)

	s.logger.InfoContext(ctx, "cart item quantity updated",
		slog.String("user_id", userID),
		slog.String("item_id", itemID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// RemoveItem deletes a cart line. Removing an unknown line ID leaves the
// cart unchanged.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if itemID == "" {
		return nil, apperrors.InvalidInput("item id is required")
	}

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.RemoveItem(itemID)
	s.persist(ctx, cart)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("user_id", userID),
		slog.String("item_id", itemID),
	)

	return cart, nil
}

// ClearCart removes all items from the user's cart.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.InvalidInput("user id is required")
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("user_id", userID),
	)

	return nil
}

// buildLineItem assembles a cart line from the catalog product and the
// buyer's selections, snapshotting every price.
func (s *CartService) buildLineItem(product *domain.Product, input AddItemInput) (*domain.LineItem, error) {
	item := &domain.LineItem{
		ProductID: product.ID,
		Kind:      product.Kind,
		Name:      product.Name,
		Image:     product.PrimaryImage(),
		Quantity:  input.Quantity,
	}

	switch product.Kind {
	case domain.KindReadymade:
		if !domain.IsValidSize(input.Size) {
			return nil, apperrors.InvalidInput("a valid size is required for readymade garments")
		}
		if !product.HasReadymadeStock(input.Size, input.Quantity) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("size %s is out of stock", input.Size))
		}
		item.Readymade = &domain.ReadymadeDetails{
			Size:  input.Size,
			Price: product.Readymade.Price,
		}

	case domain.KindFabric:
		if input.Meters < domain.MinFabricMeters {
			return nil, apperrors.InvalidInput(fmt.Sprintf("at least %.1f meters must be purchased", domain.MinFabricMeters))
		}
		needed := input.Meters * float64(input.Quantity)
		if !product.HasFabricStock(needed) {
			return nil, apperrors.InvalidInput("not enough fabric in stock")
		}
		item.Fabric = &domain.FabricDetails{
			PricePerMeter: product.Fabric.PricePerMeter,
			Meters:        input.Meters,
		}
		if input.Stitching != nil {
			if !product.Fabric.StitchingAvailable {
				return nil, apperrors.InvalidInput("stitching is not offered for this fabric")
			}
			if !domain.IsValidStyle(input.Stitching.Style) {
				return nil, apperrors.InvalidInput("unknown garment style")
			}
			if !input.Stitching.Measurements.AllPositive() {
				return nil, apperrors.InvalidInput("all six measurements are required")
			}
			if len(input.Stitching.Notes) > domain.MaxStitchingNotes {
				return nil, apperrors.InvalidInput(fmt.Sprintf("notes must not exceed %d characters", domain.MaxStitchingNotes))
			}
			item.Fabric.Stitching = &domain.StitchingSpec{
				Style:        input.Stitching.Style,
				Measurements: input.Stitching.Measurements,
				Notes:        input.Stitching.Notes,
				Price:        product.Fabric.StitchingPrice,
			}
		}

	case domain.KindAccessory:
		if !product.HasAccessoryStock(input.Quantity) {
			return nil, apperrors.InvalidInput("accessory is out of stock")
		}
		item.Accessory = &domain.AccessoryDetails{
			Price: product.Accessory.Price,
		}

	default:
		return nil, apperrors.Internal(fmt.Errorf("product %s has unknown kind %q", product.ID, product.Kind))
	}

	if err := item.Validate(); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	return item, nil
}

// persist saves the cart and publishes cart.updated, both best-effort. The
// in-memory cart is the source of truth for the response, so a storage
// hiccup degrades durability, not correctness.
func (s *CartService) persist(ctx context.Context, cart *domain.Cart) {
	if err := s.repo.Save(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist cart",
			slog.String("user_id", cart.UserID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("user_id", cart.UserID),
			slog.String("error", err.Error()),
		)
	}
}

// getOrCreateCart retrieves the cart for a user, creating an empty one if
// none exists yet.
func (s *CartService) getOrCreateCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewCart(userID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}
