package http

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Suhail-code8/fabloom/internal/domain"
	"github.com/Suhail-code8/fabloom/internal/repository"
	"github.com/Suhail-code8/fabloom/internal/service"
	apperrors "github.com/Suhail-code8/fabloom/pkg/errors"
	"github.com/Suhail-code8/fabloom/pkg/middleware"
)

// setupProductRouter mirrors the public and admin catalog routes.
func setupProductRouter(products *mockProductRepository) *chi.Mux {
	svc := service.NewCatalogService(products, testLogger())
	handler := NewProductHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", handler.List)
		r.Get("/products/{idOrSlug}", handler.Get)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(testValidator))
			r.Use(middleware.RequireRole(adminRole))

			r.Get("/products", handler.AdminList)
			r.Post("/products", handler.Create)
			r.Put("/products/{id}", handler.Update)
			r.Delete("/products/{id}", handler.Delete)
		})
	})
	return r
}

func catalogFabric() *domain.Product {
	p := stockedFabric()
	p.Active = true
	return p
}

func TestListProducts_PublicOnlySeesActive(t *testing.T) {
	products := new(mockProductRepository)
	router := setupProductRouter(products)

	products.On("List", mock.Anything, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.Active != nil && *f.Active
	})).Return([]domain.Product{*catalogFabric()}, 1, nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products?category=mens", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Data       []domain.Product `json:"data"`
			TotalCount int              `json:"total_count"`
		} `json:"data"`
	}
	decodeInto(t, rec, &body)
	assert.Equal(t, 1, body.Data.TotalCount)
	require.Len(t, body.Data.Data, 1)
	assert.Equal(t, "cotton-poplin", body.Data.Data[0].Slug)
}

func TestGetProduct_ByID(t *testing.T) {
	products := new(mockProductRepository)
	router := setupProductRouter(products)

	products.On("GetByID", mock.Anything, "f2").Return(catalogFabric(), nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/f2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data domain.Product `json:"data"`
	}
	decodeInto(t, rec, &body)
	assert.Equal(t, "f2", body.Data.ID)
}

func TestGetProduct_FallsBackToSlug(t *testing.T) {
	products := new(mockProductRepository)
	router := setupProductRouter(products)

	products.On("GetByID", mock.Anything, "cotton-poplin").Return(nil, apperrors.ErrNotFound)
	products.On("GetBySlug", mock.Anything, "cotton-poplin").Return(catalogFabric(), nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/cotton-poplin", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data domain.Product `json:"data"`
	}
	decodeInto(t, rec, &body)
	assert.Equal(t, "f2", body.Data.ID)
}

func TestGetProduct_NotFoundEither(t *testing.T) {
	products := new(mockProductRepository)
	router := setupProductRouter(products)

	products.On("GetByID", mock.Anything, "ghost").Return(nil, apperrors.ErrNotFound)
	products.On("GetBySlug", mock.Anything, "ghost").Return(nil, apperrors.ErrNotFound)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProduct_RequiresAdmin(t *testing.T) {
	router := setupProductRouter(new(mockProductRepository))

	rec := doRequest(t, router, http.MethodPost, "/api/v1/admin/products", "shopper-token",
		map[string]any{"name": "Silk Kurta"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateProduct_DerivesSlug(t *testing.T) {
	products := new(mockProductRepository)
	router := setupProductRouter(products)

	products.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/admin/products", "admin-token", map[string]any{
		"name":     "Premium Cotton Poplin (58\")",
		"category": "mens",
		"kind":     "fabric",
		"active":   true,
		"fabric": map[string]any{
			"price_per_meter": 15,
			"stock_meters":    100,
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Data domain.Product `json:"data"`
	}
	decodeInto(t, rec, &body)
	assert.Equal(t, "premium-cotton-poplin-58", body.Data.Slug)
	assert.NotEmpty(t, body.Data.ID)
}

func TestCreateProduct_ValidationFailure(t *testing.T) {
	router := setupProductRouter(new(mockProductRepository))

	rec := doRequest(t, router, http.MethodPost, "/api/v1/admin/products", "admin-token",
		map[string]any{"category": "mens", "kind": "fabric"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "Name")
}

func TestCreateProduct_KindPayloadMismatch(t *testing.T) {
	router := setupProductRouter(new(mockProductRepository))

	rec := doRequest(t, router, http.MethodPost, "/api/v1/admin/products", "admin-token", map[string]any{
		"name":     "Linen Jubbah",
		"category": "mens",
		"kind":     "readymade",
		"fabric":   map[string]any{"price_per_meter": 15, "stock_meters": 10},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestDeleteProduct(t *testing.T) {
	products := new(mockProductRepository)
	router := setupProductRouter(products)

	products.On("Delete", mock.Anything, "f2").Return(nil)

	rec := doRequest(t, router, http.MethodDelete, "/api/v1/admin/products/f2", "admin-token", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	products.AssertExpectations(t)
}
