package service

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/rookgm/deliverystore/internal/models"
)

// OrderIDPolicy selects which OrderPlaced event gives the next order id
type OrderIDPolicy string

const (
	// OrderIDFirst reuses the order id of the first event in history
	OrderIDFirst OrderIDPolicy = "first"
	// OrderIDLatest takes the highest order id in history plus one
	OrderIDLatest OrderIDPolicy = "latest"
)

// ParseOrderIDPolicy parses policy name
func ParseOrderIDPolicy(s string) (OrderIDPolicy, error) {
	switch p := OrderIDPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case OrderIDFirst, OrderIDLatest:
		return p, nil
	case "":
		return OrderIDFirst, nil
	default:
		return "", fmt.Errorf("unknown order id policy %q", s)
	}
}

// NextOrderID derives order id of a new order from history. Empty history gives 0.
func NextOrderID(placed []models.OrderPlacedEvent, policy OrderIDPolicy) (uint64, error) {
	if len(placed) == 0 {
		return 0, nil
	}

	var id *big.Int

	switch policy {
	case OrderIDLatest:
		for _, ev := range placed {
			if ev.OrderID == nil {
				return 0, models.ErrMissingEventData
			}
			if id == nil || ev.OrderID.Cmp(id) > 0 {
				id = ev.OrderID
			}
		}
		id = new(big.Int).Add(id, big.NewInt(1))
	default:
		id = placed[0].OrderID
		if id == nil {
			return 0, models.ErrMissingEventData
		}
	}

	if !id.IsUint64() {
		return 0, fmt.Errorf("order id %s: %w", id, models.ErrMissingEventData)
	}

	return id.Uint64(), nil
}

// IsOwner reports whether caller is owner. Addresses compare in canonical form.
func IsOwner(caller, owner string) bool {
	return owner != "" && owner == caller
}

// IsDeliveryPerson reports whether any order in history names caller as delivery person
func IsDeliveryPerson(placed []models.OrderPlacedEvent, caller string) bool {
	if caller == "" {
		return false
	}
	for _, ev := range placed {
		if ev.DeliveryPersonAddress == caller {
			return true
		}
	}
	return false
}

// IsChannelOpen reports whether caller has opened a channel
func IsChannelOpen(opened []models.ChannelOpenedEvent, caller string) bool {
	if caller == "" {
		return false
	}
	for _, ev := range opened {
		if ev.Customer == caller {
			return true
		}
	}
	return false
}

// RoleService derives caller role from chain state
type RoleService struct {
	chain  ChainGateway
	signer Signer
}

// NewRoleService creates new RoleService instance
func NewRoleService(chain ChainGateway, signer Signer) *RoleService {
	return &RoleService{
		chain:  chain,
		signer: signer,
	}
}

// Role reads owner and event history and derives caller role from scratch
func (rs *RoleService) Role(ctx context.Context) (models.Role, error) {
	caller := rs.signer.Address()

	owner, err := rs.chain.Owner(ctx)
	if err != nil {
		return models.Role{}, models.NewFlowError(models.FlowDeriveRole, "read owner", err)
	}

	placed, err := rs.chain.OrderPlacedHistory(ctx)
	if err != nil {
		return models.Role{}, models.NewFlowError(models.FlowDeriveRole, "read order history", err)
	}

	opened, err := rs.chain.ChannelOpenedHistory(ctx)
	if err != nil {
		return models.Role{}, models.NewFlowError(models.FlowDeriveRole, "read channel history", err)
	}

	return models.Role{
		Address:        caller,
		Owner:          IsOwner(caller, owner),
		DeliveryPerson: IsDeliveryPerson(placed, caller),
		ChannelOpen:    IsChannelOpen(opened, caller),
	}, nil
}
