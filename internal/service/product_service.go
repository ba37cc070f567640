package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/orchardlabs/storefront/internal/domain"
)

type ProductRepo interface {
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter, page, limit int) ([]domain.Product, int, error)
	AddReview(ctx context.Context, review domain.Review) error
}

type ProductService struct {
	products ProductRepo
}

func NewProductService(products ProductRepo) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	p.ID = uuid.New()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.RecalculateRating()

	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}

	log.Printf("Product created: ProductID=%s, SKU=%s", p.ID, p.SKU)
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.products.GetByID(ctx, p.ID)
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.products.Delete(ctx, id)
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, filter domain.ProductFilter, page, limit int) ([]domain.Product, int, error) {
	return s.products.List(ctx, filter, page, limit)
}

// AddReview attaches a review; the product's derived rating and review count
// are recomputed as part of the same write.
func (s *ProductService) AddReview(ctx context.Context, user *domain.User, productID uuid.UUID, rating int, comment string) (*domain.Product, error) {
	review := domain.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    user.ID,
		Name:      user.Name,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}

	if err := s.products.AddReview(ctx, review); err != nil {
		return nil, err
	}
	return s.products.GetByID(ctx, productID)
}
