// Package chain talks to the DeliveryStore contract.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rookgm/deliverystore/internal/metrics"
	"github.com/rookgm/deliverystore/internal/models"
)

// Backend is what the gateway needs from a node client, *ethclient.Client satisfies it
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Gateway implements contract reads, writes and event history queries
type Gateway struct {
	backend  Backend
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
	opts     *bind.TransactOpts
}

// NewGateway creates new Gateway for contract at address. Transactions are
// signed with opts, reads work with nil opts.
func NewGateway(backend Backend, address string, opts *bind.TransactOpts) (*Gateway, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("contract address %q: %w", address, models.ErrInvalidAddress)
	}

	parsed, err := abi.JSON(strings.NewReader(deliveryStoreABI))
	if err != nil {
		return nil, fmt.Errorf("parse contract abi: %w", err)
	}

	addr := common.HexToAddress(address)

	return &Gateway{
		backend:  backend,
		address:  addr,
		abi:      parsed,
		contract: bind.NewBoundContract(addr, parsed, backend, backend, backend),
		opts:     opts,
	}, nil
}

// Owner returns contract owner address
func (g *Gateway) Owner(ctx context.Context) (string, error) {
	var out []interface{}
	if err := g.contract.Call(&bind.CallOpts{Context: ctx}, &out, methodOwner); err != nil {
		return "", fmt.Errorf("call owner: %w", err)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("call owner: %w", models.ErrDataNotFound)
	}

	owner := *abi.ConvertType(out[0], new(common.Address)).(*common.Address)
	return owner.Hex(), nil
}

// OrderProduct submits orderProduct(productName) paying value wei
func (g *Gateway) OrderProduct(ctx context.Context, productName string, value *big.Int) (string, error) {
	return g.transact(ctx, value, methodOrderProduct, productName)
}

// OpenChannel submits openChannel() paying value wei
func (g *Gateway) OpenChannel(ctx context.Context, value *big.Int) (string, error) {
	return g.transact(ctx, value, methodOpenChannel)
}

// SetDeliveryPerson submits setDeliveryPerson(orderId, deliveryPerson)
func (g *Gateway) SetDeliveryPerson(ctx context.Context, orderID uint64, deliveryPerson string) (string, error) {
	if !common.IsHexAddress(deliveryPerson) {
		return "", models.ErrInvalidAddress
	}
	return g.transact(ctx, nil, methodSetDeliveryPerson, new(big.Int).SetUint64(orderID), common.HexToAddress(deliveryPerson))
}

// ConfirmDelivery submits confirmDelivery()
func (g *Gateway) ConfirmDelivery(ctx context.Context) (string, error) {
	return g.transact(ctx, nil, methodConfirmDelivery)
}

// OrderPlacedHistory returns OrderPlaced events from block 0 in emission order
func (g *Gateway) OrderPlacedHistory(ctx context.Context) ([]models.OrderPlacedEvent, error) {
	logs, err := g.history(ctx, eventOrderPlaced)
	if err != nil {
		return nil, err
	}

	events := make([]models.OrderPlacedEvent, 0, len(logs))
	for _, l := range logs {
		ev, err := g.decodeOrderPlaced(l)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	return events, nil
}

// ChannelOpenedHistory returns ChannelOpened events from block 0 in emission order
func (g *Gateway) ChannelOpenedHistory(ctx context.Context) ([]models.ChannelOpenedEvent, error) {
	logs, err := g.history(ctx, eventChannelOpened)
	if err != nil {
		return nil, err
	}

	events := make([]models.ChannelOpenedEvent, 0, len(logs))
	for _, l := range logs {
		ev, err := g.decodeChannelOpened(l)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	return events, nil
}

func (g *Gateway) transact(ctx context.Context, value *big.Int, method string, params ...interface{}) (string, error) {
	if g.opts == nil {
		return "", fmt.Errorf("%s: no transactor configured", method)
	}

	opts := *g.opts
	opts.Context = ctx
	opts.Value = value

	tx, err := g.contract.Transact(&opts, method, params...)
	if err != nil {
		metrics.ObserveChainTx(method, err)
		return "", fmt.Errorf("%s: %w", method, err)
	}

	receipt, err := bind.WaitMined(ctx, g.backend, tx)
	if err != nil {
		metrics.ObserveChainTx(method, err)
		return tx.Hash().Hex(), fmt.Errorf("%s: wait mined: %w", method, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		metrics.ObserveChainTx(method, models.ErrTxReverted)
		return tx.Hash().Hex(), fmt.Errorf("%s: %w", method, models.ErrTxReverted)
	}

	metrics.ObserveChainTx(method, nil)
	return tx.Hash().Hex(), nil
}

func (g *Gateway) history(ctx context.Context, event string) ([]types.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: big.NewInt(0),
		Addresses: []common.Address{g.address},
		Topics:    [][]common.Hash{{g.abi.Events[event].ID}},
	}

	logs, err := g.backend.FilterLogs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("filter %s logs: %w", event, err)
	}

	return logs, nil
}

type orderPlacedLog struct {
	OrderId               *big.Int
	Customer              common.Address
	DeliveryPersonAddress common.Address
	ProductName           string
	Price                 *big.Int
}

type channelOpenedLog struct {
	Customer common.Address
	Amount   *big.Int
}

func (g *Gateway) decodeOrderPlaced(l types.Log) (models.OrderPlacedEvent, error) {
	var out orderPlacedLog
	if err := g.contract.UnpackLog(&out, eventOrderPlaced, l); err != nil {
		return models.OrderPlacedEvent{}, fmt.Errorf("unpack %s: %w", eventOrderPlaced, err)
	}

	ev := models.OrderPlacedEvent{
		OrderID:     out.OrderId,
		Customer:    out.Customer.Hex(),
		ProductName: out.ProductName,
		Price:       out.Price,
		BlockNumber: l.BlockNumber,
		TxHash:      l.TxHash.Hex(),
	}
	// zero address means nobody is assigned yet
	if out.DeliveryPersonAddress != (common.Address{}) {
		ev.DeliveryPersonAddress = out.DeliveryPersonAddress.Hex()
	}

	return ev, nil
}

func (g *Gateway) decodeChannelOpened(l types.Log) (models.ChannelOpenedEvent, error) {
	var out channelOpenedLog
	if err := g.contract.UnpackLog(&out, eventChannelOpened, l); err != nil {
		return models.ChannelOpenedEvent{}, fmt.Errorf("unpack %s: %w", eventChannelOpened, err)
	}

	return models.ChannelOpenedEvent{
		Customer:    out.Customer.Hex(),
		Amount:      out.Amount,
		BlockNumber: l.BlockNumber,
		TxHash:      l.TxHash.Hex(),
	}, nil
}
