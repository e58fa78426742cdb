package service

import (
	"context"
	"slices"

	"github.com/rookgm/deliverystore/internal/metrics"
	"github.com/rookgm/deliverystore/internal/models"
)

// ReconcileService compares the order store with order history on chain
type ReconcileService struct {
	repo  OrderRepository
	chain ChainGateway
}

// NewReconcileService creates new ReconcileService instance
func NewReconcileService(repo OrderRepository, chain ChainGateway) *ReconcileService {
	return &ReconcileService{
		repo:  repo,
		chain: chain,
	}
}

// Reconcile reports order ids that exist only in the store or only on chain.
// Neither side is modified.
func (rs *ReconcileService) Reconcile(ctx context.Context) (rec models.Reconciliation, err error) {
	defer func() { metrics.ObserveFlow(models.FlowReconcile, err) }()

	placed, err := rs.chain.OrderPlacedHistory(ctx)
	if err != nil {
		return rec, models.NewFlowError(models.FlowReconcile, "read order history", err)
	}

	orders, err := rs.repo.GetOrders(ctx)
	if err != nil {
		return rec, models.NewFlowError(models.FlowReconcile, "load orders", err)
	}

	onChain := make(map[uint64]struct{}, len(placed))
	for _, ev := range placed {
		if ev.OrderID == nil || !ev.OrderID.IsUint64() {
			continue
		}
		onChain[ev.OrderID.Uint64()] = struct{}{}
	}

	inStore := make(map[uint64]struct{}, len(orders))
	for _, o := range orders {
		inStore[o.OrderID] = struct{}{}
		if _, ok := onChain[o.OrderID]; !ok {
			rec.MissingOnChain = append(rec.MissingOnChain, o.OrderID)
		}
	}

	for id := range onChain {
		if _, ok := inStore[id]; !ok {
			rec.MissingInStore = append(rec.MissingInStore, id)
		}
	}

	slices.Sort(rec.MissingInStore)
	slices.Sort(rec.MissingOnChain)

	metrics.SetDivergence(len(rec.MissingInStore), len(rec.MissingOnChain))

	return rec, nil
}
