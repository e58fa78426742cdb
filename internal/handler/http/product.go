package handler

import (
	"context"
	"net/http"

	"github.com/rookgm/deliverystore/internal/amount"
	"github.com/rookgm/deliverystore/internal/models"
	"go.uber.org/zap"
)

type ProductService interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// ProductHandler serves product catalog
type ProductHandler struct {
	svc    ProductService
	logger *zap.Logger
}

func NewProductHandler(svc ProductService, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{svc: svc, logger: logger}
}

type ProductResp struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Price       string `json:"price"`
	PriceEth    string `json:"price_eth"`
}

// ListProducts lists catalog
func (ph *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := ph.svc.ListProducts(r.Context())
		if err != nil {
			writeError(w, ph.logger, "list products", err)
			return
		}

		if len(products) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		resp := make([]ProductResp, 0, len(products))
		for _, p := range products {
			price := "0"
			if p.Price != nil {
				price = p.Price.String()
			}
			resp = append(resp, ProductResp{
				ProductID:   p.ProductID,
				ProductName: p.ProductName,
				Price:       price,
				PriceEth:    amount.FormatEther(p.Price),
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
