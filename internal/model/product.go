package model

// Product represents a shoe in the catalogue. Prices are whole rupees.
type Product struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Brand           string   `json:"brand"`
	Category        string   `json:"category"`
	Image           string   `json:"image"`
	OriginalPrice   int64    `json:"originalPrice"`
	DiscountedPrice int64    `json:"discountedPrice"`
	Sizes           []int    `json:"sizes"`
	Colors          []string `json:"colors"`
	Description     string   `json:"description"`
	Features        []string `json:"features"`
	InStock         bool     `json:"inStock"`
	Rating          float64  `json:"rating"`
	ReviewCount     int      `json:"reviews"`
}

// HasSize reports whether size is offered for the product.
func (p *Product) HasSize(size int) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// Category is a catalogue category with its product count.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ProductPage is one page of a catalogue query result.
type ProductPage struct {
	Products   []Product `json:"products"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PerPage    int       `json:"perPage"`
	TotalPages int       `json:"totalPages"`
}
