package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"shoes-store/internal/model"
)

// SortOrder names a product ordering.
type SortOrder string

const (
	SortName      SortOrder = "name"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	SortRating    SortOrder = "rating"
)

const (
	DefaultPerPage = 12
	MaxPerPage     = 48
)

// Query describes a catalogue listing. Zero values mean "no filter" and the
// default ordering and page.
type Query struct {
	Search    string
	Category  string
	Brand     string
	PriceBand string
	Sort      SortOrder
	Page      int
	PerPage   int

	band priceBand
}

// priceBand is an inclusive discounted-price range; high 0 means open ended.
type priceBand struct {
	low, high int64
	set       bool
}

// ParsePriceBand parses "min-max" (inclusive) or "min-" (open ended).
// "" and "all" mean no band; ok is false then.
func ParsePriceBand(s string) (low, high int64, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "all" {
		return 0, 0, false, nil
	}

	invalid := model.NewValidationError(fmt.Sprintf("Invalid price range %q", s))

	lo, hi, found := strings.Cut(s, "-")
	if !found {
		return 0, 0, false, invalid
	}

	low, err = strconv.ParseInt(strings.TrimSpace(lo), 10, 64)
	if err != nil || low < 0 {
		return 0, 0, false, invalid
	}

	if hi = strings.TrimSpace(hi); hi != "" {
		high, err = strconv.ParseInt(hi, 10, 64)
		if err != nil || high < low {
			return 0, 0, false, invalid
		}
	}
	return low, high, true, nil
}

func (q Query) normalise() (Query, error) {
	q.Search = strings.ToLower(strings.TrimSpace(q.Search))
	q.Category = strings.TrimSpace(q.Category)
	if strings.EqualFold(q.Category, AllCategory) {
		q.Category = ""
	}
	q.Brand = strings.TrimSpace(q.Brand)
	if strings.EqualFold(q.Brand, "all") {
		q.Brand = ""
	}

	switch q.Sort {
	case "":
		q.Sort = SortName
	case SortName, SortPriceLow, SortPriceHigh, SortRating:
	default:
		return q, model.NewValidationError(fmt.Sprintf("Invalid sort order %q", q.Sort))
	}

	low, high, ok, err := ParsePriceBand(q.PriceBand)
	if err != nil {
		return q, err
	}
	q.band = priceBand{low: low, high: high, set: ok}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = DefaultPerPage
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	return q, nil
}

func (q *Query) matches(p *model.Product) bool {
	if q.Search != "" &&
		!strings.Contains(strings.ToLower(p.Name), q.Search) &&
		!strings.Contains(strings.ToLower(p.Brand), q.Search) &&
		!strings.Contains(strings.ToLower(p.Category), q.Search) {
		return false
	}
	if q.Category != "" && !strings.EqualFold(p.Category, q.Category) {
		return false
	}
	if q.Brand != "" && !strings.EqualFold(p.Brand, q.Brand) {
		return false
	}
	if q.band.set {
		if p.DiscountedPrice < q.band.low {
			return false
		}
		if q.band.high > 0 && p.DiscountedPrice > q.band.high {
			return false
		}
	}
	return true
}
