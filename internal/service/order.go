package service

import (
	"context"
	"errors"
	"math/big"

	"github.com/rookgm/deliverystore/internal/attest"
	"github.com/rookgm/deliverystore/internal/metrics"
	"github.com/rookgm/deliverystore/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maximum number of concurrent store lookups when owner lists orders
const listFanOutLimit = 8

// OrderService implements OrderService interface
type OrderService struct {
	repo       OrderRepository
	products   ProductRepository
	chain      ChainGateway
	signer     Signer
	policy     OrderIDPolicy
	orderValue *big.Int // paid with orderProduct, the channel stream value
	logger     *zap.Logger
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository, products ProductRepository, chain ChainGateway, signer Signer, policy OrderIDPolicy, orderValue *big.Int, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		repo:       repo,
		products:   products,
		chain:      chain,
		signer:     signer,
		policy:     policy,
		orderValue: orderValue,
		logger:     logger,
	}
}

// CreateOrder places order for product. The order is signed by the caller,
// stored and then submitted on chain. A failed step stops the flow, steps
// already done are not undone.
func (os *OrderService) CreateOrder(ctx context.Context, productID string) (order *models.Order, err error) {
	const flow = models.FlowCreateOrder
	defer func() { metrics.ObserveFlow(flow, err) }()

	caller := os.signer.Address()

	opened, err := os.chain.ChannelOpenedHistory(ctx)
	if err != nil {
		return nil, models.NewFlowError(flow, "read channel history", err)
	}
	if !IsChannelOpen(opened, caller) {
		return nil, models.NewFlowError(flow, "check channel", models.ErrChannelClosed)
	}

	placed, err := os.chain.OrderPlacedHistory(ctx)
	if err != nil {
		return nil, models.NewFlowError(flow, "read order history", err)
	}

	orderID, err := NextOrderID(placed, os.policy)
	if err != nil {
		return nil, models.NewFlowError(flow, "derive order id", err)
	}

	product, err := os.findProduct(ctx, productID)
	if err != nil {
		return nil, models.NewFlowError(flow, "find product", err).WithOrder(orderID)
	}

	order = &models.Order{
		OrderID:  orderID,
		Customer: caller,
		Product:  product.ProductID,
		Price:    product.Price,
		Status:   models.OrderStatusProcessing,
	}

	digest, err := attest.Digest(*order)
	if err != nil {
		return nil, models.NewFlowError(flow, "encode order", err).WithOrder(orderID)
	}

	if order.ClientSignature, err = os.signer.SignMessage(ctx, digest); err != nil {
		return nil, models.NewFlowError(flow, "sign order", err).WithOrder(orderID)
	}

	if err = os.repo.UpsertOrder(ctx, order); err != nil {
		return nil, models.NewFlowError(flow, "store order", err).WithOrder(orderID)
	}

	if _, err = os.chain.OrderProduct(ctx, product.ProductName, os.orderValue); err != nil {
		return nil, models.NewFlowError(flow, "submit order", err).WithOrder(orderID)
	}

	return order, nil
}

// ConfirmOrder accepts order as owner and signs the accepted record
func (os *OrderService) ConfirmOrder(ctx context.Context, orderID uint64) (order *models.Order, err error) {
	const flow = models.FlowConfirmOrder
	defer func() { metrics.ObserveFlow(flow, err) }()

	if err = os.requireOwner(ctx); err != nil {
		return nil, models.NewFlowError(flow, "check owner", err).WithOrder(orderID)
	}

	order, err = os.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, models.NewFlowError(flow, "load order", err).WithOrder(orderID)
	}

	order.Status = models.OrderStatusAccepted

	digest, err := attest.Digest(*order)
	if err != nil {
		return nil, models.NewFlowError(flow, "encode order", err).WithOrder(orderID)
	}

	if order.OwnerSignature, err = os.signer.SignMessage(ctx, digest); err != nil {
		return nil, models.NewFlowError(flow, "sign order", err).WithOrder(orderID)
	}

	if err = os.repo.UpdateOrder(ctx, *order); err != nil {
		return nil, models.NewFlowError(flow, "store order", err).WithOrder(orderID)
	}

	return order, nil
}

// AssignDeliveryPerson sets delivery person on chain and in the store.
// The two writes are independent, the store is updated even if the chain call fails.
func (os *OrderService) AssignDeliveryPerson(ctx context.Context, orderID uint64, deliveryPerson string) (res models.Assignment, err error) {
	const flow = models.FlowAssignDelivery
	defer func() { metrics.ObserveFlow(flow, err) }()

	res = models.Assignment{
		OrderID:        orderID,
		DeliveryPerson: deliveryPerson,
	}

	if err = os.requireOwner(ctx); err != nil {
		return res, models.NewFlowError(flow, "check owner", err).WithOrder(orderID)
	}

	res.TxHash, res.ChainErr = os.chain.SetDeliveryPerson(ctx, orderID, deliveryPerson)
	res.StoreErr = os.repo.UpdateDeliveryPerson(ctx, orderID, deliveryPerson, models.OrderStatusEnRoute)

	var errs []error
	if res.ChainErr != nil {
		errs = append(errs, models.NewFlowError(flow, "submit delivery person", res.ChainErr).WithOrder(orderID))
	}
	if res.StoreErr != nil {
		errs = append(errs, models.NewFlowError(flow, "store delivery person", res.StoreErr).WithOrder(orderID))
	}

	return res, errors.Join(errs...)
}

// ConfirmDelivery checks that the client signature on file matches the order
// as the caller placed it, then confirms delivery on chain.
func (os *OrderService) ConfirmDelivery(ctx context.Context, orderID uint64) (txHash string, err error) {
	const flow = models.FlowConfirmDelivery
	defer func() { metrics.ObserveFlow(flow, err) }()

	caller := os.signer.Address()

	order, err := os.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return "", models.NewFlowError(flow, "load order", err).WithOrder(orderID)
	}
	if order.ClientSignature == "" {
		return "", models.NewFlowError(flow, "check signature", models.ErrMissingSignature).WithOrder(orderID)
	}

	digest, err := attest.Digest(attest.ForClientAttestation(*order, caller))
	if err != nil {
		return "", models.NewFlowError(flow, "encode order", err).WithOrder(orderID)
	}

	ok, err := os.signer.Verify(caller, digest, order.ClientSignature)
	if err != nil {
		return "", models.NewFlowError(flow, "verify signature", err).WithOrder(orderID)
	}
	if !ok {
		return "", models.NewFlowError(flow, "verify signature", models.ErrSignatureMismatch).WithOrder(orderID)
	}

	txHash, err = os.chain.ConfirmDelivery(ctx)
	if err != nil {
		return "", models.NewFlowError(flow, "submit delivery confirmation", err).WithOrder(orderID)
	}

	return txHash, nil
}

// ListOrders returns orders visible to the caller. Owner sees orders of every
// customer in order history, anyone else only their own.
func (os *OrderService) ListOrders(ctx context.Context) (orders []models.Order, err error) {
	const flow = models.FlowListOrders
	defer func() { metrics.ObserveFlow(flow, err) }()

	caller := os.signer.Address()

	owner, err := os.chain.Owner(ctx)
	if err != nil {
		return nil, models.NewFlowError(flow, "read owner", err)
	}

	if !IsOwner(caller, owner) {
		orders, err = os.repo.GetOrdersByCustomer(ctx, caller)
		if err != nil {
			return nil, models.NewFlowError(flow, "load orders", err)
		}
		return orders, nil
	}

	placed, err := os.chain.OrderPlacedHistory(ctx)
	if err != nil {
		return nil, models.NewFlowError(flow, "read order history", err)
	}

	return os.ordersOfCustomers(ctx, customersOf(placed)), nil
}

// ordersOfCustomers looks customers up concurrently and waits for all of them.
// A failed lookup is logged and that customer is skipped.
func (os *OrderService) ordersOfCustomers(ctx context.Context, customers []string) []models.Order {
	results := make([][]models.Order, len(customers))

	var g errgroup.Group
	g.SetLimit(listFanOutLimit)

	for i, customer := range customers {
		g.Go(func() error {
			orders, err := os.repo.GetOrdersByCustomer(ctx, customer)
			if err != nil {
				os.logger.Warn("fetch orders of customer", zap.String("customer", customer), zap.Error(err))
				return nil
			}
			results[i] = orders
			return nil
		})
	}
	_ = g.Wait()

	orders := []models.Order{}
	for _, r := range results {
		orders = append(orders, r...)
	}

	return orders
}

func (os *OrderService) requireOwner(ctx context.Context) error {
	owner, err := os.chain.Owner(ctx)
	if err != nil {
		return err
	}
	if !IsOwner(os.signer.Address(), owner) {
		return models.ErrNotOwner
	}
	return nil
}

func (os *OrderService) findProduct(ctx context.Context, productID string) (*models.Product, error) {
	products, err := os.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ProductID == productID {
			return &products[i], nil
		}
	}
	return nil, models.ErrDataNotFound
}

// customersOf returns distinct customers in order of first appearance
func customersOf(placed []models.OrderPlacedEvent) []string {
	seen := make(map[string]struct{}, len(placed))
	customers := make([]string, 0, len(placed))
	for _, ev := range placed {
		if ev.Customer == "" {
			continue
		}
		if _, ok := seen[ev.Customer]; ok {
			continue
		}
		seen[ev.Customer] = struct{}{}
		customers = append(customers, ev.Customer)
	}
	return customers
}
