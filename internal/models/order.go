package models

import "math/big"

// order status
const (
	OrderStatusProcessing = "Processing"
	OrderStatusAccepted   = "Accepted"
	OrderStatusEnRoute    = "EnRoute"
	OrderStatusDelivered  = "Delivered"
)

// Order is order entity
type Order struct {
	OrderID               uint64
	Customer              string
	Product               string
	Price                 *big.Int
	Status                string
	DeliveryPersonAddress string
	ClientSignature       string
	OwnerSignature        string
}

// Product is entity of the products catalogue, Price is in wei
type Product struct {
	ProductID   string
	ProductName string
	Price       *big.Int
}

// Assignment is the outcome of setting a delivery person.
// Chain and store are written independently, so each side keeps its own error.
type Assignment struct {
	OrderID        uint64
	DeliveryPerson string
	TxHash         string
	ChainErr       error
	StoreErr       error
}
