package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/orchardlabs/storefront/internal/domain"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, name, description, price, category, stock, sku, is_active,
	rating, num_reviews, created_at, updated_at`

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, name, description, price, category, stock, sku, is_active,
			rating, num_reviews, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.Name, p.Description, p.Price, p.Category, p.Stock, p.SKU, p.IsActive,
		p.Rating, p.NumReviews, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("product insert: %v", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, description = $3, price = $4, category = $5, stock = $6,
			sku = $7, is_active = $8, rating = $9, num_reviews = $10, updated_at = $11
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Price, p.Category, p.Stock,
		p.SKU, p.IsActive, p.Rating, p.NumReviews, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("product update: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %s", domain.ErrNotFound, p.ID)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("product delete: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p := &domain.Product{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id,
	).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Stock, &p.SKU, &p.IsActive,
		&p.Rating, &p.NumReviews, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("product lookup: %v", err)
	}

	reviews, err := r.loadReviews(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Reviews = reviews

	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, filter domain.ProductFilter, page, limit int) ([]domain.Product, int, error) {
	var conds []string
	var args []interface{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if filter.ActiveOnly {
		conds = append(conds, "is_active = TRUE")
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("product count: %v", err)
	}

	args = append(args, (page-1)*limit, limit)
	query := fmt.Sprintf(`SELECT `+productColumns+` FROM products%s ORDER BY created_at DESC OFFSET $%d LIMIT $%d`,
		where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("product listing: %v", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Stock, &p.SKU, &p.IsActive,
			&p.Rating, &p.NumReviews, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("product scan: %v", err)
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

// AddReview inserts the review and recomputes the product's derived
// rating/num_reviews in the same transaction.
func (r *ProductRepository) AddReview(ctx context.Context, review domain.Review) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %v", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO product_reviews (id, product_id, user_id, name, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		review.ID, review.ProductID, review.UserID, review.Name, review.Rating, review.Comment, review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("review insert: %v", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE products p SET
			rating = sub.avg_rating,
			num_reviews = sub.review_count,
			updated_at = $2
		FROM (
			SELECT ROUND(AVG(rating)::numeric, 1) AS avg_rating, COUNT(*) AS review_count
			FROM product_reviews WHERE product_id = $1
		) sub
		WHERE p.id = $1`,
		review.ProductID, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("rating recompute: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %s", domain.ErrNotFound, review.ProductID)
	}

	return tx.Commit()
}

func (r *ProductRepository) loadReviews(ctx context.Context, productID uuid.UUID) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, user_id, name, rating, comment, created_at
		FROM product_reviews WHERE product_id = $1 ORDER BY created_at DESC`,
		productID)
	if err != nil {
		return nil, fmt.Errorf("reviews lookup: %v", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Name, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("review scan: %v", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
