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

func placedEvent(id int64, customer, delivery string) models.OrderPlacedEvent {
	return models.OrderPlacedEvent{
		OrderID:               big.NewInt(id),
		Customer:              customer,
		DeliveryPersonAddress: delivery,
	}
}

func TestNextOrderID(t *testing.T) {
	history := []models.OrderPlacedEvent{
		placedEvent(4, customerAddr, ""),
		placedEvent(9, customerAddr, ""),
		placedEvent(6, customerAddr, ""),
	}

	tests := []struct {
		name    string
		placed  []models.OrderPlacedEvent
		policy  OrderIDPolicy
		want    uint64
		wantErr error
	}{
		{name: "empty_history", placed: nil, policy: OrderIDFirst, want: 0},
		{name: "empty_history_latest", placed: nil, policy: OrderIDLatest, want: 0},
		{name: "first_event_is_reused", placed: history, policy: OrderIDFirst, want: 4},
		{name: "latest_is_max_plus_one", placed: history, policy: OrderIDLatest, want: 10},
		{
			name:    "missing_order_id",
			placed:  []models.OrderPlacedEvent{{Customer: customerAddr}},
			policy:  OrderIDFirst,
			wantErr: models.ErrMissingEventData,
		},
		{
			name:    "missing_order_id_latest",
			placed:  []models.OrderPlacedEvent{placedEvent(1, customerAddr, ""), {Customer: customerAddr}},
			policy:  OrderIDLatest,
			wantErr: models.ErrMissingEventData,
		},
		{
			name:    "order_id_too_wide",
			placed:  []models.OrderPlacedEvent{{OrderID: new(big.Int).Lsh(big.NewInt(1), 70)}},
			policy:  OrderIDFirst,
			wantErr: models.ErrMissingEventData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextOrderID(tt.placed, tt.policy)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOrderIDPolicy(t *testing.T) {
	p, err := ParseOrderIDPolicy("")
	require.NoError(t, err)
	assert.Equal(t, OrderIDFirst, p)

	p, err = ParseOrderIDPolicy("Latest")
	require.NoError(t, err)
	assert.Equal(t, OrderIDLatest, p)

	_, err = ParseOrderIDPolicy("random")
	assert.Error(t, err)
}

func TestIsOwner(t *testing.T) {
	assert.True(t, IsOwner(ownerAddr, ownerAddr))
	assert.False(t, IsOwner(customerAddr, ownerAddr))
	assert.False(t, IsOwner("", ""))
	// canonical form only, lower case is a different string
	assert.False(t, IsOwner("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266", ownerAddr))
}

func TestIsDeliveryPerson(t *testing.T) {
	placed := []models.OrderPlacedEvent{
		placedEvent(1, customerAddr, ""),
		placedEvent(2, customerAddr, deliveryAddr),
	}

	assert.True(t, IsDeliveryPerson(placed, deliveryAddr))
	assert.False(t, IsDeliveryPerson(placed, otherAddr))
	assert.False(t, IsDeliveryPerson(placed, ""), "unassigned orders do not make anybody a delivery person")
	assert.False(t, IsDeliveryPerson(nil, deliveryAddr))
}

func TestIsChannelOpen(t *testing.T) {
	opened := []models.ChannelOpenedEvent{{Customer: customerAddr, Amount: big.NewInt(1)}}

	assert.True(t, IsChannelOpen(opened, customerAddr))
	assert.False(t, IsChannelOpen(opened, otherAddr))
	assert.False(t, IsChannelOpen(nil, customerAddr))
}

func TestRoleService_Role(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		setup   func(chain *mocks.MockChainGateway)
		want    models.Role
		wantErr bool
	}{
		{
			name: "owner",
			key:  ownerKey,
			setup: func(chain *mocks.MockChainGateway) {
				chain.EXPECT().Owner(gomock.Any()).Return(ownerAddr, nil)
				chain.EXPECT().OrderPlacedHistory(gomock.Any()).Return(nil, nil)
				chain.EXPECT().ChannelOpenedHistory(gomock.Any()).Return(nil, nil)
			},
			want: models.Role{Address: ownerAddr, Owner: true},
		},
		{
			name: "customer_with_channel",
			key:  customerKey,
			setup: func(chain *mocks.MockChainGateway) {
				chain.EXPECT().Owner(gomock.Any()).Return(ownerAddr, nil)
				chain.EXPECT().OrderPlacedHistory(gomock.Any()).Return([]models.OrderPlacedEvent{placedEvent(0, customerAddr, "")}, nil)
				chain.EXPECT().ChannelOpenedHistory(gomock.Any()).Return([]models.ChannelOpenedEvent{{Customer: customerAddr}}, nil)
			},
			want: models.Role{Address: customerAddr, ChannelOpen: true},
		},
		{
			name: "delivery_person",
			key:  deliveryKey,
			setup: func(chain *mocks.MockChainGateway) {
				chain.EXPECT().Owner(gomock.Any()).Return(ownerAddr, nil)
				chain.EXPECT().OrderPlacedHistory(gomock.Any()).Return([]models.OrderPlacedEvent{placedEvent(0, customerAddr, deliveryAddr)}, nil)
				chain.EXPECT().ChannelOpenedHistory(gomock.Any()).Return(nil, nil)
			},
			want: models.Role{Address: deliveryAddr, DeliveryPerson: true},
		},
		{
			name: "owner_read_fails",
			key:  customerKey,
			setup: func(chain *mocks.MockChainGateway) {
				chain.EXPECT().Owner(gomock.Any()).Return("", errors.New("rpc down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			chain := mocks.NewMockChainGateway(ctrl)
			tt.setup(chain)

			rs := NewRoleService(chain, newSigner(t, tt.key))
			got, err := rs.Role(context.Background())
			if tt.wantErr {
				var flowErr *models.FlowError
				require.ErrorAs(t, err, &flowErr)
				assert.Equal(t, models.FlowDeriveRole, flowErr.Flow)
				return
			}
			require.NoError(t, err)

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
