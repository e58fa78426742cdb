package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rookgm/deliverystore/internal/models"
	"go.uber.org/zap"
)

// statusFor maps workflow errors to HTTP status and message
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrChannelClosed):
		return http.StatusPaymentRequired, "open a channel to start shopping"
	case errors.Is(err, models.ErrNotOwner):
		return http.StatusForbidden, "only the store owner can do this"
	case errors.Is(err, models.ErrDataNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, models.ErrSignatureMismatch):
		return http.StatusUnprocessableEntity, "client signature does not match order"
	case errors.Is(err, models.ErrMissingSignature):
		return http.StatusUnprocessableEntity, "order is not signed"
	case errors.Is(err, models.ErrInvalidAddress):
		return http.StatusUnprocessableEntity, "invalid address"
	case errors.Is(err, models.ErrMissingEventData):
		return http.StatusConflict, "unable to determine order id"
	case errors.Is(err, models.ErrTxReverted):
		return http.StatusBadGateway, "transaction reverted"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// writeError logs err and writes matching status
func writeError(w http.ResponseWriter, logger *zap.Logger, msg string, err error) {
	status, text := statusFor(err)
	logFlowError(logger, msg, status, err)
	http.Error(w, text, status)
}

func logFlowError(logger *zap.Logger, msg string, status int, err error) {
	fields := []zap.Field{zap.Int("status", status), zap.Error(err)}

	var flowErr *models.FlowError
	if errors.As(err, &flowErr) {
		fields = append(fields, zap.String("flow", flowErr.Flow), zap.String("step", flowErr.Step))
		if flowErr.OrderID != nil {
			fields = append(fields, zap.Uint64("order_id", *flowErr.OrderID))
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error(msg, fields...)
		return
	}
	logger.Info(msg, fields...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}

// orderIDParam extracts order id from URL
func orderIDParam(r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

type txResponse struct {
	TxHash string `json:"tx_hash"`
}
