package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rookgm/deliverystore/internal/amount"
	"github.com/rookgm/deliverystore/internal/models"
	"github.com/rookgm/deliverystore/internal/repository/postgres"
)

const selectProductsQuery = `
						SELECT product_id, product_name, price::text FROM products
						ORDER BY product_id
`

// ProductRepository implements ProductRepository interface
type ProductRepository struct {
	db *postgres.DB
}

// NewProductRepository creates new ProductRepository instance
func NewProductRepository(db *postgres.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListProducts returns the whole catalogue, prices converted to wei
func (pr *ProductRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := pr.db.Query(ctx, selectProductsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func scanProduct(row pgx.Row) (models.Product, error) {
	var (
		product models.Product
		price   string
	)
	if err := row.Scan(&product.ProductID, &product.ProductName, &price); err != nil {
		return models.Product{}, err
	}

	// catalogue prices are kept in ether
	wei, err := amount.ParseEther(price)
	if err != nil {
		return models.Product{}, fmt.Errorf("product %s: %w", product.ProductID, err)
	}
	product.Price = wei

	return product, nil
}
