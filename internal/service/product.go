package service

import (
	"context"

	"github.com/rookgm/deliverystore/internal/models"
)

// ProductService implements ProductService interface
type ProductService struct {
	repo ProductRepository
}

// NewProductService creates new ProductService instance
func NewProductService(repo ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// ListProducts returns the catalogue
func (ps *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return ps.repo.ListProducts(ctx)
}
