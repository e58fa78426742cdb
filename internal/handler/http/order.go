package handler

import (
	"context"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/rookgm/deliverystore/internal/amount"
	"github.com/rookgm/deliverystore/internal/models"
	"go.uber.org/zap"
)

type OrderService interface {
	CreateOrder(ctx context.Context, productID string) (*models.Order, error)
	ConfirmOrder(ctx context.Context, orderID uint64) (*models.Order, error)
	AssignDeliveryPerson(ctx context.Context, orderID uint64, deliveryPerson string) (models.Assignment, error)
	ConfirmDelivery(ctx context.Context, orderID uint64) (string, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc      OrderService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewOrderHandler creates new OrderHandler instance
// 200 - запрос успешно обработан;
// 201 - заказ подписан и отправлен в контракт;
// 400 - неверный формат запроса;
// 402 - канал не открыт;
// 403 - действие доступно только владельцу магазина;
// 404 - товар или заказ не найден;
// 409 - не удалось определить номер заказа;
// 422 - подпись клиента не совпадает с заказом;
// 500 - внутренняя ошибка сервера.
func NewOrderHandler(svc OrderService, v *validator.Validate, logger *zap.Logger) *OrderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderHandler{svc: svc, validate: v, logger: logger}
}

type CreateOrderReq struct {
	ProductID string `json:"product_id" validate:"required,max=128"`
}

type AssignDeliveryPersonReq struct {
	Address string `json:"address" validate:"required,eth_addr"`
}

type OrderResp struct {
	OrderID               uint64 `json:"orderid"`
	Customer              string `json:"customer"`
	Product               string `json:"product"`
	Price                 string `json:"price"`
	PriceEth              string `json:"price_eth"`
	Status                string `json:"status"`
	DeliveryPersonAddress string `json:"deliverypersonaddress"`
	ClientSignature       string `json:"clientsignature"`
	OwnerSignature        string `json:"ownersignature,omitempty"`
}

type AssignmentResp struct {
	OrderID        uint64 `json:"orderid"`
	DeliveryPerson string `json:"delivery_person"`
	TxHash         string `json:"tx_hash,omitempty"`
	ChainError     string `json:"chain_error,omitempty"`
	StoreError     string `json:"store_error,omitempty"`
}

func newOrderResp(o models.Order) OrderResp {
	resp := OrderResp{
		OrderID:               o.OrderID,
		Customer:              o.Customer,
		Product:               o.Product,
		PriceEth:              amount.FormatEther(o.Price),
		Status:                o.Status,
		DeliveryPersonAddress: o.DeliveryPersonAddress,
		ClientSignature:       o.ClientSignature,
		OwnerSignature:        o.OwnerSignature,
	}
	if o.Price != nil {
		resp.Price = o.Price.String()
	} else {
		resp.Price = "0"
	}
	return resp
}

// CreateOrder signs and submits order for product
func (oh *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateOrderReq
		if !decodeAndValidate(w, r, oh.validate, &req) {
			return
		}

		order, err := oh.svc.CreateOrder(r.Context(), req.ProductID)
		if err != nil {
			writeError(w, oh.logger, "create order", err)
			return
		}

		writeJSON(w, http.StatusCreated, newOrderResp(*order))
	}
}

// ListOrders lists orders visible to the connected wallet
func (oh *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := oh.svc.ListOrders(r.Context())
		if err != nil {
			writeError(w, oh.logger, "list orders", err)
			return
		}

		// 204 - нет данных для ответа.
		if len(orders) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		resp := make([]OrderResp, 0, len(orders))
		for _, o := range orders {
			resp = append(resp, newOrderResp(o))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// ConfirmOrder countersigns order by store owner
func (oh *OrderHandler) ConfirmOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, ok := orderIDParam(r)
		if !ok {
			http.Error(w, "bad order id", http.StatusBadRequest)
			return
		}

		order, err := oh.svc.ConfirmOrder(r.Context(), orderID)
		if err != nil {
			writeError(w, oh.logger, "confirm order", err)
			return
		}

		writeJSON(w, http.StatusOK, newOrderResp(*order))
	}
}

// AssignDeliveryPerson assigns delivery person to order.
// Both outcomes are reported, one write may succeed while the other fails.
func (oh *OrderHandler) AssignDeliveryPerson() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, ok := orderIDParam(r)
		if !ok {
			http.Error(w, "bad order id", http.StatusBadRequest)
			return
		}

		var req AssignDeliveryPersonReq
		if !decodeAndValidate(w, r, oh.validate, &req) {
			return
		}
		addr := common.HexToAddress(req.Address).Hex()

		res, err := oh.svc.AssignDeliveryPerson(r.Context(), orderID, addr)
		if err != nil && res.ChainErr == nil && res.StoreErr == nil {
			// rejected before any write
			writeError(w, oh.logger, "assign delivery person", err)
			return
		}

		resp := AssignmentResp{
			OrderID:        res.OrderID,
			DeliveryPerson: res.DeliveryPerson,
			TxHash:         res.TxHash,
		}
		if res.ChainErr != nil {
			resp.ChainError = res.ChainErr.Error()
		}
		if res.StoreErr != nil {
			resp.StoreError = res.StoreErr.Error()
		}

		status := http.StatusOK
		if err != nil {
			status, _ = statusFor(err)
			logFlowError(oh.logger, "assign delivery person", status, err)
		}

		writeJSON(w, status, resp)
	}
}

// ConfirmDelivery verifies client signature and confirms delivery on chain
func (oh *OrderHandler) ConfirmDelivery() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, ok := orderIDParam(r)
		if !ok {
			http.Error(w, "bad order id", http.StatusBadRequest)
			return
		}

		txHash, err := oh.svc.ConfirmDelivery(r.Context(), orderID)
		if err != nil {
			writeError(w, oh.logger, "confirm delivery", err)
			return
		}

		writeJSON(w, http.StatusOK, txResponse{TxHash: txHash})
	}
}
