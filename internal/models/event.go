package models

import "math/big"

// OrderPlacedEvent mirrors the DeliveryStore OrderPlaced log
type OrderPlacedEvent struct {
	OrderID               *big.Int
	Customer              string
	DeliveryPersonAddress string
	ProductName           string
	Price                 *big.Int
	BlockNumber           uint64
	TxHash                string
}

// ChannelOpenedEvent mirrors the DeliveryStore ChannelOpened log
type ChannelOpenedEvent struct {
	Customer    string
	Amount      *big.Int
	BlockNumber uint64
	TxHash      string
}

// Role holds what the caller is allowed to do, derived from chain state
type Role struct {
	Address        string
	Owner          bool
	DeliveryPerson bool
	ChannelOpen    bool
}

// Reconciliation lists order ids that exist on one side only
type Reconciliation struct {
	MissingInStore []uint64
	MissingOnChain []uint64
}

// Diverged reports whether store and chain disagree
func (r Reconciliation) Diverged() bool {
	return len(r.MissingInStore) > 0 || len(r.MissingOnChain) > 0
}
