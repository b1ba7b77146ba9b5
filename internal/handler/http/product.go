package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Suhail-code8/fabloom/internal/domain"
	"github.com/Suhail-code8/fabloom/internal/service"
	apperrors "github.com/Suhail-code8/fabloom/pkg/errors"
	"github.com/Suhail-code8/fabloom/pkg/pagination"
	"github.com/Suhail-code8/fabloom/pkg/validator"
)

// ProductHandler handles HTTP requests for catalog endpoints.
type ProductHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new catalog HTTP handler.
func NewProductHandler(svc *service.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// listInput parses the shared catalog listing query parameters.
func listInput(r *http.Request) service.ListProductsInput {
	params := pagination.FromRequest(r)
	input := service.ListProductsInput{
		Page:    params.Page,
		PerPage: params.PerPage,
	}

	q := r.URL.Query()
	if v := q.Get("category"); v != "" {
		category := domain.Category(v)
		input.Category = &category
	}
	if v := q.Get("kind"); v != "" {
		kind := domain.ItemKind(v)
		input.Kind = &kind
	}
	if v := q.Get("featured"); v != "" {
		featured := v == "true"
		input.Featured = &featured
	}
	if v := q.Get("q"); v != "" {
		input.Search = &v
	}

	return input
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	input := listInput(r)

	products, total, err := h.service.ListProducts(r.Context(), input)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	params := pagination.Params{Page: input.Page, PerPage: input.PerPage}
	writeJSON(w, http.StatusOK, response{Data: pagination.NewResult(products, total, params)})
}

// Get handles GET /api/v1/products/{idOrSlug}. The path segment is tried
// as an ID first, then as a slug, so both product URLs work.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")
	if idOrSlug == "" {
		writeBadRequest(w, "product id or slug is required")
		return
	}

	product, err := h.service.GetProduct(r.Context(), idOrSlug)
	if errors.Is(err, apperrors.ErrNotFound) {
		product, err = h.service.GetProductBySlug(r.Context(), idOrSlug)
	}
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: product})
}

// --- Admin endpoints ---

// AdminList handles GET /api/v1/admin/products
func (h *ProductHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	input := listInput(r)

	products, total, err := h.service.ListAllProducts(r.Context(), input)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	params := pagination.Params{Page: input.Page, PerPage: input.PerPage}
	writeJSON(w, http.StatusOK, response{Data: pagination.NewResult(products, total, params)})
}

// Create handles POST /api/v1/admin/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.ProductInput
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: product})
}

// Update handles PUT /api/v1/admin/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "product id is required")
		return
	}

	var req service.ProductInput
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: product})
}

// Delete handles DELETE /api/v1/admin/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "product id is required")
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "deleted"}})
}
