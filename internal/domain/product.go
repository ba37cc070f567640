package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

type ProductCategory string

const (
	CategoryElectronics ProductCategory = "Electronics"
	CategoryClothing    ProductCategory = "Clothing"
	CategoryBooks       ProductCategory = "Books"
	CategoryHomeGarden  ProductCategory = "Home & Garden"
	CategorySports      ProductCategory = "Sports"
	CategoryBeauty      ProductCategory = "Beauty"
	CategoryToys        ProductCategory = "Toys"
	CategoryAutomotive  ProductCategory = "Automotive"
	CategoryHealth      ProductCategory = "Health"
	CategoryFood        ProductCategory = "Food"
)

var productCategories = map[ProductCategory]struct{}{
	CategoryElectronics: {},
	CategoryClothing:    {},
	CategoryBooks:       {},
	CategoryHomeGarden:  {},
	CategorySports:      {},
	CategoryBeauty:      {},
	CategoryToys:        {},
	CategoryAutomotive:  {},
	CategoryHealth:      {},
	CategoryFood:        {},
}

func (c ProductCategory) Valid() bool {
	_, ok := productCategories[c]
	return ok
}

type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Category    ProductCategory `json:"category"`
	Stock       int             `json:"stock"`
	SKU         string          `json:"sku"`
	IsActive    bool            `json:"is_active"`
	Rating      float64         `json:"rating"`
	NumReviews  int             `json:"num_reviews"`
	Reviews     []Review        `json:"reviews,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Review struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, p.Category)
	}
	return nil
}

func (r Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if r.Comment == "" {
		return fmt.Errorf("%w: comment is required", ErrValidation)
	}
	return nil
}

// RecalculateRating recomputes the derived rating/numReviews fields from the
// attached reviews. Rating is rounded to one decimal place.
func (p *Product) RecalculateRating() {
	if len(p.Reviews) == 0 {
		p.Rating = 0
		p.NumReviews = 0
		return
	}
	total := 0
	for _, r := range p.Reviews {
		total += r.Rating
	}
	p.Rating = math.Round(float64(total)/float64(len(p.Reviews))*10) / 10
	p.NumReviews = len(p.Reviews)
}

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	Category   ProductCategory
	Search     string
	ActiveOnly bool
}
