package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/rookgm/deliverystore/internal/handler/http/mocks"
	"github.com/rookgm/deliverystore/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletHandler_Role(t *testing.T) {
	ctrl := gomock.NewController(t)
	roles := mocks.NewMockRoleService(ctrl)
	roles.EXPECT().Role(gomock.Any()).Return(models.Role{
		Address:     testCustomer,
		ChannelOpen: true,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/role", nil)
	w := httptest.NewRecorder()
	NewWalletHandler(roles, mocks.NewMockChannelService(ctrl), nil).Role()(w, req)

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var got RoleResp
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	assert.Equal(t, RoleResp{Address: testCustomer, ChannelOpen: true}, got)
}

func TestWalletHandler_Role_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	roles := mocks.NewMockRoleService(ctrl)
	roles.EXPECT().Role(gomock.Any()).Return(models.Role{}, errors.New("rpc down"))

	req := httptest.NewRequest(http.MethodGet, "/api/role", nil)
	w := httptest.NewRecorder()
	NewWalletHandler(roles, mocks.NewMockChannelService(ctrl), nil).Role()(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)
}

func TestWalletHandler_OpenChannel(t *testing.T) {
	tests := []struct {
		name           string
		txHash         string
		err            error
		wantStatusCode int
	}{
		{name: "valid_request_return_200", txHash: "0x03", wantStatusCode: http.StatusOK},
		{name: "reverted_return_502", err: models.ErrTxReverted, wantStatusCode: http.StatusBadGateway},
		{name: "internal_error_return_500", err: errors.New("rpc down"), wantStatusCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			channels := mocks.NewMockChannelService(ctrl)
			channels.EXPECT().OpenChannel(gomock.Any()).Return(tt.txHash, tt.err)

			req := httptest.NewRequest(http.MethodPost, "/api/channel", nil)
			w := httptest.NewRecorder()
			NewWalletHandler(mocks.NewMockRoleService(ctrl), channels, nil).OpenChannel()(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.err == nil {
				var got txResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
				assert.Equal(t, tt.txHash, got.TxHash)
			}
		})
	}
}
