package handler

import (
	"net/http"
	"strconv"

	"shoes-store/internal/catalog"
	"shoes-store/internal/model"

	"github.com/rs/zerolog"
)

// Catalog is the read-only product catalogue served by the API.
type Catalog interface {
	Query(q catalog.Query) (*model.ProductPage, error)
	Get(id int) (*model.Product, error)
	Categories() []model.Category
	Brands() []string
}

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	catalog Catalog
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(catalog Catalog, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products with search, filters, sort and pagination.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	page, err := optionalInt(params.Get("page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid page parameter", h.logger)
		return
	}
	perPage, err := optionalInt(params.Get("perPage"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid perPage parameter", h.logger)
		return
	}

	result, err := h.catalog.Query(catalog.Query{
		Search:    params.Get("search"),
		Category:  params.Get("category"),
		Brand:     params.Get("brand"),
		PriceBand: params.Get("price"),
		Sort:      catalog.SortOrder(params.Get("sort")),
		Page:      page,
		PerPage:   perPage,
	})
	if err != nil {
		writeDomainError(w, err, "failed to retrieve products", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetByID handles GET /api/products/{id}.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id", "product ID", h.logger)
	if !ok {
		return
	}

	product, err := h.catalog.Get(id)
	if err != nil {
		writeDomainError(w, err, "failed to retrieve product", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Categories handles GET /api/categories.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Categories())
}

// Brands handles GET /api/brands.
func (h *ProductHandler) Brands(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Brands())
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
