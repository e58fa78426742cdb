package service

import (
	"context"
	"math/big"

	"github.com/rookgm/deliverystore/internal/metrics"
	"github.com/rookgm/deliverystore/internal/models"
)

// ChannelService opens payment channels
type ChannelService struct {
	chain ChainGateway
	value *big.Int
}

// NewChannelService creates new ChannelService instance, value is the deposit in wei
func NewChannelService(chain ChainGateway, value *big.Int) *ChannelService {
	return &ChannelService{
		chain: chain,
		value: value,
	}
}

// OpenChannel deposits channel value on chain and returns tx hash
func (cs *ChannelService) OpenChannel(ctx context.Context) (txHash string, err error) {
	defer func() { metrics.ObserveFlow(models.FlowOpenChannel, err) }()

	txHash, err = cs.chain.OpenChannel(ctx, cs.value)
	if err != nil {
		return "", models.NewFlowError(models.FlowOpenChannel, "submit open channel", err)
	}

	return txHash, nil
}
