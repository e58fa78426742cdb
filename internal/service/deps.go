package service

import (
	"context"
	"math/big"

	"github.com/rookgm/deliverystore/internal/models"
)

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// UpsertOrder inserts order or replaces the row with the same order id
	UpsertOrder(ctx context.Context, order *models.Order) error
	// GetOrderByID returns order by id
	GetOrderByID(ctx context.Context, orderID uint64) (*models.Order, error)
	// GetOrdersByCustomer returns orders of customer
	GetOrdersByCustomer(ctx context.Context, customer string) ([]models.Order, error)
	// GetOrders returns all orders
	GetOrders(ctx context.Context) ([]models.Order, error)
	// UpdateOrder writes all fields of order to the row with its order id
	UpdateOrder(ctx context.Context, order models.Order) error
	// UpdateDeliveryPerson sets delivery person and status of order
	UpdateDeliveryPerson(ctx context.Context, orderID uint64, deliveryPerson, status string) error
}

// ProductRepository is interface for the products catalogue
type ProductRepository interface {
	// ListProducts returns the whole catalogue
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// ChainGateway is interface for the DeliveryStore contract
type ChainGateway interface {
	Owner(ctx context.Context) (string, error)
	OrderProduct(ctx context.Context, productName string, value *big.Int) (string, error)
	OpenChannel(ctx context.Context, value *big.Int) (string, error)
	SetDeliveryPerson(ctx context.Context, orderID uint64, deliveryPerson string) (string, error)
	ConfirmDelivery(ctx context.Context) (string, error)
	OrderPlacedHistory(ctx context.Context) ([]models.OrderPlacedEvent, error)
	ChannelOpenedHistory(ctx context.Context) ([]models.ChannelOpenedEvent, error)
}

// Signer is the connected wallet
type Signer interface {
	// Address returns checksummed wallet address
	Address() string
	// SignMessage signs raw bytes as personal message
	SignMessage(ctx context.Context, raw []byte) (string, error)
	// Verify checks signature of raw bytes against address
	Verify(address string, raw []byte, signature string) (bool, error)
}
