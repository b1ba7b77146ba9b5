package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Suhail-code8/fabloom/internal/domain"
	"github.com/Suhail-code8/fabloom/internal/repository"
	apperrors "github.com/Suhail-code8/fabloom/pkg/errors"
)

// ProductInput holds the writable fields of a catalog entry. Exactly one
// variant payload must be set, matching Kind.
type ProductInput struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Slug        string          `json:"slug" validate:"omitempty,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Category    domain.Category `json:"category" validate:"required"`
	Subcategory string          `json:"subcategory" validate:"max=100"`
	Kind        domain.ItemKind `json:"kind" validate:"required"`
	Images      []string        `json:"images" validate:"dive,url"`
	Tags        []string        `json:"tags" validate:"dive,max=50"`
	Featured    bool            `json:"featured"`
	Active      bool            `json:"active"`

	Readymade *domain.ReadymadeProduct `json:"readymade,omitempty"`
	Fabric    *domain.FabricProduct    `json:"fabric,omitempty"`
	Accessory *domain.AccessoryProduct `json:"accessory,omitempty"`
}

// ListProductsInput narrows and pages a catalog listing.
type ListProductsInput struct {
	Category *domain.Category
	Kind     *domain.ItemKind
	Featured *bool
	Search   *string
	Page     int
	PerPage  int
}

// CatalogService implements the business logic for catalog management.
type CatalogService struct {
	repo   repository.ProductRepository
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo repository.ProductRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:   repo,
		logger: logger,
	}
}

// ListProducts returns the storefront catalog page. Inactive products are
// excluded; admin listings go through ListAllProducts.
func (s *CatalogService) ListProducts(ctx context.Context, input ListProductsInput) ([]domain.Product, int, error) {
	active := true
	filter := repository.ProductFilter{
		Category: input.Category,
		Kind:     input.Kind,
		Featured: input.Featured,
		Active:   &active,
		Search:   input.Search,
		Page:     input.Page,
		PerPage:  input.PerPage,
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

// ListAllProducts returns every product regardless of active state.
func (s *CatalogService) ListAllProducts(ctx context.Context, input ListProductsInput) ([]domain.Product, int, error) {
	filter := repository.ProductFilter{
		Category: input.Category,
		Kind:     input.Kind,
		Featured: input.Featured,
		Search:   input.Search,
		Page:     input.Page,
		PerPage:  input.PerPage,
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list all products: %w", err)
	}
	return products, total, nil
}

// GetProduct retrieves a product by ID.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// GetProductBySlug retrieves a product by its URL slug.
func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if slug == "" {
		return nil, apperrors.InvalidInput("slug is required")
	}

	product, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", slug)
		}
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	return product, nil
}

// CreateProduct adds a catalog entry. A missing slug is derived from the
// name.
func (s *CatalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		Category:    input.Category,
		Subcategory: input.Subcategory,
		Kind:        input.Kind,
		Images:      input.Images,
		Tags:        input.Tags,
		Featured:    input.Featured,
		Active:      input.Active,
		Readymade:   input.Readymade,
		Fabric:      input.Fabric,
		Accessory:   input.Accessory,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if product.Slug == "" {
		product.Slug = slugify(product.Name)
	}

	if err := product.Validate(); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
		slog.String("kind", string(product.Kind)),
	)

	return product, nil
}

// UpdateProduct replaces the writable fields of a catalog entry.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input ProductInput) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Category = input.Category
	product.Subcategory = input.Subcategory
	product.Kind = input.Kind
	product.Images = input.Images
	product.Tags = input.Tags
	product.Featured = input.Featured
	product.Active = input.Active
	product.Readymade = input.Readymade
	product.Fabric = input.Fabric
	product.Accessory = input.Accessory
	if input.Slug != "" {
		product.Slug = input.Slug
	}

	if err := product.Validate(); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
	)

	return product, nil
}

// DeleteProduct removes a catalog entry.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("product id is required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// slugify turns a product name into a URL-safe slug.
func slugify(name string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
