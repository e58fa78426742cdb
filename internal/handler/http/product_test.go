package handler

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/rookgm/deliverystore/internal/handler/http/mocks"
	"github.com/rookgm/deliverystore/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductHandler_ListProducts(t *testing.T) {
	price, _ := new(big.Int).SetString("1250000000000000000", 10)

	tests := []struct {
		name           string
		setup          func(t *testing.T) *mocks.MockProductService
		wantStatusCode int
		wantBody       []ProductResp
	}{
		{
			name: "valid_request_return_200",
			setup: func(t *testing.T) *mocks.MockProductService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockProductService(ctrl)
				svcMock.EXPECT().ListProducts(gomock.Any()).Return([]models.Product{
					{ProductID: "p1", ProductName: "Coffee", Price: price},
				}, nil)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody: []ProductResp{
				{ProductID: "p1", ProductName: "Coffee", Price: "1250000000000000000", PriceEth: "1.25"},
			},
		},
		{
			name: "empty_catalog_return_204",
			setup: func(t *testing.T) *mocks.MockProductService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockProductService(ctrl)
				svcMock.EXPECT().ListProducts(gomock.Any()).Return([]models.Product{}, nil)
				return svcMock
			},
			wantStatusCode: http.StatusNoContent,
		},
		{
			name: "internal_error_return_500",
			setup: func(t *testing.T) *mocks.MockProductService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockProductService(ctrl)
				svcMock.EXPECT().ListProducts(gomock.Any()).Return(nil, errors.New("db down"))
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
			w := httptest.NewRecorder()

			NewProductHandler(tt.setup(t), nil).ListProducts()(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantBody != nil {
				var got []ProductResp
				require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
				if diff := cmp.Diff(tt.wantBody, got); diff != "" {
					t.Errorf("response mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}
