package service

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/rookgm/deliverystore/internal/models"
	"github.com/rookgm/deliverystore/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileService_Reconcile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockOrderRepository(ctrl)
	chain := mocks.NewMockChainGateway(ctrl)

	chain.EXPECT().OrderPlacedHistory(gomock.Any()).Return([]models.OrderPlacedEvent{
		placedEvent(4, customerAddr, ""),
		placedEvent(1, customerAddr, ""),
		placedEvent(2, otherAddr, ""),
		{Customer: otherAddr},
	}, nil)
	repo.EXPECT().GetOrders(gomock.Any()).Return([]models.Order{
		{OrderID: 1, Price: big.NewInt(1)},
		{OrderID: 0, Price: big.NewInt(1)},
		{OrderID: 9, Price: big.NewInt(1)},
	}, nil)

	got, err := NewReconcileService(repo, chain).Reconcile(context.Background())
	require.NoError(t, err)

	want := models.Reconciliation{
		MissingInStore: []uint64{2, 4},
		MissingOnChain: []uint64{0, 9},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, got.Diverged())
}

func TestReconcileService_InSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockOrderRepository(ctrl)
	chain := mocks.NewMockChainGateway(ctrl)

	chain.EXPECT().OrderPlacedHistory(gomock.Any()).Return([]models.OrderPlacedEvent{placedEvent(1, customerAddr, "")}, nil)
	repo.EXPECT().GetOrders(gomock.Any()).Return([]models.Order{{OrderID: 1}}, nil)

	got, err := NewReconcileService(repo, chain).Reconcile(context.Background())
	require.NoError(t, err)
	assert.False(t, got.Diverged())
}

func TestReconcileService_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockOrderRepository(ctrl)
	chain := mocks.NewMockChainGateway(ctrl)
	chain.EXPECT().OrderPlacedHistory(gomock.Any()).Return(nil, nil)
	repo.EXPECT().GetOrders(gomock.Any()).Return(nil, errStore)

	_, err := NewReconcileService(repo, chain).Reconcile(context.Background())
	assert.ErrorIs(t, err, errStore)

	chain.EXPECT().OrderPlacedHistory(gomock.Any()).Return(nil, errors.New("rpc down"))
	_, err = NewReconcileService(repo, chain).Reconcile(context.Background())
	assert.Error(t, err)
}

func TestChannelService_OpenChannel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	value := big.NewInt(250)
	chain := mocks.NewMockChainGateway(ctrl)
	chain.EXPECT().OpenChannel(gomock.Any(), value).Return("0xopen", nil)
	chain.EXPECT().OpenChannel(gomock.Any(), value).Return("", models.ErrTxReverted)

	cs := NewChannelService(chain, value)

	tx, err := cs.OpenChannel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0xopen", tx)

	_, err = cs.OpenChannel(context.Background())
	assert.ErrorIs(t, err, models.ErrTxReverted)
}

func TestProductService_ListProducts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockProductRepository(ctrl)
	repo.EXPECT().ListProducts(gomock.Any()).Return(catalogue(), nil)

	got, err := NewProductService(repo).ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
