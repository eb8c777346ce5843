package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/MIGUELNINOSILVA/makers/internal/db"
)

// PostgresStore implements Store against the catalog schema.
type PostgresStore struct {
	db *db.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(database *db.DB) *PostgresStore {
	return &PostgresStore{db: database}
}

const productColumns = `
	p.id, p.name, COALESCE(p.description, ''), p.price, p.sku, p.stock_quantity,
	b.id, b.name, b.slug, c.id, c.name, c.slug`

const productJoins = `
	FROM products p
	LEFT JOIN brands b ON b.id = p.brand_id
	LEFT JOIN categories c ON c.id = p.category_id`

func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]Product, error) {
	query := "SELECT" + productColumns + productJoins + " ORDER BY p.id LIMIT $1 OFFSET $2"
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (s *PostgresStore) FindByID(ctx context.Context, id int) (Product, bool, error) {
	query := "SELECT" + productColumns + productJoins + " WHERE p.id = $1"
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return Product{}, false, fmt.Errorf("failed to query product %d: %w", id, err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil || len(products) == 0 {
		return Product{}, false, err
	}

	product := products[0]
	if product.Attributes, err = s.loadAttributes(ctx, product.ID); err != nil {
		return Product{}, false, err
	}
	return product, true, nil
}

func (s *PostgresStore) Search(ctx context.Context, filter SearchFilter) ([]Product, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}

	var conditions []string
	var args []any
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}
	like := func(value string) string {
		return arg("%" + strings.ToLower(strings.TrimSpace(value)) + "%")
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		p := like(q)
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(p.name) LIKE %[1]s OR LOWER(COALESCE(p.description, '')) LIKE %[1]s OR LOWER(COALESCE(b.name, '')) LIKE %[1]s OR LOWER(COALESCE(c.name, '')) LIKE %[1]s)", p))
	}
	if filter.Brand != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(COALESCE(b.name, '')) LIKE %s", like(filter.Brand)))
	}
	if filter.Model != "" {
		p := like(filter.Model)
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(p.name) LIKE %[1]s OR LOWER(COALESCE(p.description, '')) LIKE %[1]s)", p))
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(COALESCE(c.name, '')) LIKE %s", like(filter.Category)))
	}
	for _, pair := range filter.Attributes {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM product_attributes pa WHERE pa.product_id = p.id AND LOWER(pa.attribute_name) LIKE %s AND LOWER(pa.attribute_value) LIKE %s)",
			like(pair.Name), like(pair.Value)))
	}

	query := "SELECT" + productColumns + productJoins
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY p.id LIMIT %s", arg(limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (s *PostgresStore) FindByBrand(ctx context.Context, brand string, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 10
	}
	query := "SELECT" + productColumns + productJoins +
		" WHERE LOWER(COALESCE(b.name, '')) LIKE $1 ORDER BY p.id LIMIT $2"
	rows, err := s.db.QueryContext(ctx, query, "%"+strings.ToLower(brand)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query brand %q: %w", brand, err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].Attributes, err = s.loadAttributes(ctx, products[i].ID); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (s *PostgresStore) CountByBrand(ctx context.Context) (int, map[string]int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&total); err != nil {
		return 0, nil, fmt.Errorf("failed to count products: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT LOWER(b.name), COUNT(*)
		FROM products p
		JOIN brands b ON b.id = p.brand_id
		GROUP BY LOWER(b.name)`)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to count products by brand: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return 0, nil, fmt.Errorf("failed to scan brand count: %w", err)
		}
		counts[name] = count
	}
	return total, counts, rows.Err()
}

func (s *PostgresStore) loadAttributes(ctx context.Context, productID int) ([]ProductAttribute, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT attribute_name, attribute_value FROM product_attributes WHERE product_id = $1 ORDER BY id", productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attributes for product %d: %w", productID, err)
	}
	defer rows.Close()

	var attrs []ProductAttribute
	for rows.Next() {
		var attr ProductAttribute
		if err := rows.Scan(&attr.Name, &attr.Value); err != nil {
			return nil, fmt.Errorf("failed to scan attribute: %w", err)
		}
		attrs = append(attrs, attr)
	}
	return attrs, rows.Err()
}

func collectProducts(rows *sql.Rows) ([]Product, error) {
	products := make([]Product, 0, 10)
	for rows.Next() {
		var p Product
		var brandID, categoryID sql.NullInt64
		var brandName, brandSlug, categoryName, categorySlug sql.NullString

		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.SKU, &p.StockQuantity,
			&brandID, &brandName, &brandSlug,
			&categoryID, &categoryName, &categorySlug,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		if brandID.Valid {
			p.Brand = &Brand{ID: int(brandID.Int64), Name: brandName.String, Slug: brandSlug.String}
		}
		if categoryID.Valid {
			p.Category = &Category{ID: int(categoryID.Int64), Name: categoryName.String, Slug: categorySlug.String}
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
