// Package catalog serves the read-only product catalogue: lookup, filtering,
// sorting and pagination over products loaded at startup.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"shoes-store/internal/model"
)

// AllCategory matches every category.
const AllCategory = "all"

var categoryNames = map[string]string{
	AllCategory:  "All Shoes",
	"running":    "Running",
	"casual":     "Casual",
	"basketball": "Basketball",
	"formal":     "Formal",
	"sports":     "Sports",
}

// Catalog is an immutable, indexed product list. Safe for concurrent use.
type Catalog struct {
	products []model.Product
	byID     map[int]int
}

// New indexes products. Product ids must be unique.
func New(products []model.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]model.Product, len(products)),
		byID:     make(map[int]int, len(products)),
	}
	copy(c.products, products)

	for i, p := range c.products {
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		c.byID[p.ID] = i
	}
	return c, nil
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Get returns the product with id.
func (c *Catalog) Get(id int) (*model.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, model.ErrProductNotFound
	}
	p := c.products[i]
	return &p, nil
}

// Categories returns every category with its product count, led by "all".
func (c *Catalog) Categories() []model.Category {
	counts := make(map[string]int)
	var order []string
	for _, p := range c.products {
		if _, seen := counts[p.Category]; !seen {
			order = append(order, p.Category)
		}
		counts[p.Category]++
	}

	out := make([]model.Category, 0, len(order)+1)
	out = append(out, model.Category{ID: AllCategory, Name: categoryName(AllCategory), Count: len(c.products)})
	for _, id := range order {
		out = append(out, model.Category{ID: id, Name: categoryName(id), Count: counts[id]})
	}
	return out
}

// Brands returns the distinct brands in catalogue order.
func (c *Catalog) Brands() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.products {
		if !seen[p.Brand] {
			seen[p.Brand] = true
			out = append(out, p.Brand)
		}
	}
	return out
}

// Query filters, sorts and paginates the catalogue.
func (c *Catalog) Query(q Query) (*model.ProductPage, error) {
	q, err := q.normalise()
	if err != nil {
		return nil, err
	}

	matched := make([]model.Product, 0, len(c.products))
	for _, p := range c.products {
		if q.matches(&p) {
			matched = append(matched, p)
		}
	}

	sortProducts(matched, q.Sort)

	total := len(matched)
	totalPages := (total + q.PerPage - 1) / q.PerPage

	// Pages past the end are empty; the bound also keeps the multiply from overflowing.
	start := total
	if q.Page-1 <= total/q.PerPage {
		start = min((q.Page-1)*q.PerPage, total)
	}
	end := start + q.PerPage
	if end > total {
		end = total
	}

	return &model.ProductPage{
		Products:   matched[start:end],
		Total:      total,
		Page:       q.Page,
		PerPage:    q.PerPage,
		TotalPages: totalPages,
	}, nil
}

func sortProducts(ps []model.Product, by SortOrder) {
	var less func(a, b *model.Product) bool
	switch by {
	case SortPriceLow:
		less = func(a, b *model.Product) bool { return a.DiscountedPrice < b.DiscountedPrice }
	case SortPriceHigh:
		less = func(a, b *model.Product) bool { return a.DiscountedPrice > b.DiscountedPrice }
	case SortRating:
		less = func(a, b *model.Product) bool { return a.Rating > b.Rating }
	default:
		less = func(a, b *model.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	}
	sort.SliceStable(ps, func(i, j int) bool { return less(&ps[i], &ps[j]) })
}

func categoryName(id string) string {
	if name, ok := categoryNames[id]; ok {
		return name
	}
	if id == "" {
		return id
	}
	return strings.ToUpper(id[:1]) + id[1:]
}
