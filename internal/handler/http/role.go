package handler

import (
	"context"
	"net/http"

	"github.com/rookgm/deliverystore/internal/models"
	"go.uber.org/zap"
)

type RoleService interface {
	Role(ctx context.Context) (models.Role, error)
}

type ChannelService interface {
	OpenChannel(ctx context.Context) (string, error)
}

// WalletHandler serves requests about the connected wallet
type WalletHandler struct {
	roles    RoleService
	channels ChannelService
	logger   *zap.Logger
}

func NewWalletHandler(roles RoleService, channels ChannelService, logger *zap.Logger) *WalletHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WalletHandler{roles: roles, channels: channels, logger: logger}
}

type RoleResp struct {
	Address        string `json:"address"`
	Owner          bool   `json:"owner"`
	DeliveryPerson bool   `json:"delivery_person"`
	ChannelOpen    bool   `json:"channel_open"`
}

// Role reports roles of connected wallet
func (wh *WalletHandler) Role() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := wh.roles.Role(r.Context())
		if err != nil {
			writeError(w, wh.logger, "derive role", err)
			return
		}

		writeJSON(w, http.StatusOK, RoleResp{
			Address:        role.Address,
			Owner:          role.Owner,
			DeliveryPerson: role.DeliveryPerson,
			ChannelOpen:    role.ChannelOpen,
		})
	}
}

// OpenChannel opens payment channel for connected wallet
func (wh *WalletHandler) OpenChannel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		txHash, err := wh.channels.OpenChannel(r.Context())
		if err != nil {
			writeError(w, wh.logger, "open channel", err)
			return
		}

		writeJSON(w, http.StatusOK, txResponse{TxHash: txHash})
	}
}
