package models

import (
	"errors"
	"fmt"
)

var (
	ErrDataNotFound       = errors.New("data not found")
	ErrChannelClosed      = errors.New("payment channel is not open")
	ErrNotOwner           = errors.New("caller is not the store owner")
	ErrMissingEventData   = errors.New("event history has no order id")
	ErrMissingSignature   = errors.New("order has no client signature")
	ErrSignatureMismatch  = errors.New("signature does not match order")
	ErrInvalidPrice       = errors.New("price must fit in uint256")
	ErrInvalidAddress     = errors.New("invalid account address")
	ErrTxReverted         = errors.New("transaction reverted")
	ErrMissingStoreConfig = errors.New("order store url or key is missing")
)

// flow names
const (
	FlowCreateOrder     = "create_order"
	FlowConfirmOrder    = "confirm_order"
	FlowAssignDelivery  = "assign_delivery"
	FlowConfirmDelivery = "confirm_delivery"
	FlowOpenChannel     = "open_channel"
	FlowListOrders      = "list_orders"
	FlowDeriveRole      = "derive_role"
	FlowReconcile       = "reconcile"
)

// FlowError is returned by workflow operations. It names the step that failed,
// steps after it did not run.
type FlowError struct {
	Flow    string
	Step    string
	OrderID *uint64
	Err     error
}

func NewFlowError(flow, step string, err error) *FlowError {
	return &FlowError{Flow: flow, Step: step, Err: err}
}

// WithOrder attaches order id to error
func (e *FlowError) WithOrder(id uint64) *FlowError {
	e.OrderID = &id
	return e
}

func (e *FlowError) Error() string {
	if e.OrderID != nil {
		return fmt.Sprintf("%s: %s (order %d): %v", e.Flow, e.Step, *e.OrderID, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Flow, e.Step, e.Err)
}

func (e *FlowError) Unwrap() error {
	return e.Err
}
