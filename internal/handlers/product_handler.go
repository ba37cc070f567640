package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/orchardlabs/storefront/internal/domain"
	"github.com/orchardlabs/storefront/internal/httpx"
	"github.com/orchardlabs/storefront/internal/middleware"
)

type ProductService interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter, page, limit int) ([]domain.Product, int, error)
	AddReview(ctx context.Context, user *domain.User, productID uuid.UUID, rating int, comment string) (*domain.Product, error)
}

type ProductHandler struct {
	products ProductService
}

func NewProductHandler(products ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	page, limit := pagination(c)

	filter := domain.ProductFilter{
		Category:   domain.ProductCategory(c.Query("category")),
		Search:     c.Query("search"),
		ActiveOnly: c.QueryBool("active_only", true),
	}

	products, total, err := h.products.List(c.Context(), filter, page, limit)
	if err != nil {
		return respondError(c, err)
	}

	return httpx.Success(c, "Products retrieved successfully", fiber.Map{
		"products":   products,
		"pagination": pageMeta(len(products), total, page, limit),
	})
}

func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.BadRequest(c, "Invalid product ID", nil)
	}

	product, err := h.products.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return httpx.Success(c, "Product retrieved successfully", product)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "Invalid request body", nil)
	}

	product, err := h.products.Create(c.Context(), &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    domain.ProductCategory(req.Category),
		Stock:       req.Stock,
		SKU:         req.SKU,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return respondError(c, err)
	}

	return httpx.Created(c, "Product created successfully", product)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.BadRequest(c, "Invalid product ID", nil)
	}

	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "Invalid request body", nil)
	}

	product, err := h.products.Update(c.Context(), &domain.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    domain.ProductCategory(req.Category),
		Stock:       req.Stock,
		SKU:         req.SKU,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return respondError(c, err)
	}

	return httpx.Success(c, "Product updated successfully", product)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.BadRequest(c, "Invalid product ID", nil)
	}

	if err := h.products.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}

	return httpx.Success(c, "Product deleted successfully", nil)
}

func (h *ProductHandler) AddReview(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.BadRequest(c, "Invalid product ID", nil)
	}

	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "Invalid request body", nil)
	}

	product, err := h.products.AddReview(c.Context(), user, id, req.Rating, req.Comment)
	if err != nil {
		return respondError(c, err)
	}

	return httpx.Created(c, "Review added successfully", product)
}
