package service

import (
	"math/big"
	"testing"

	"github.com/rookgm/deliverystore/internal/wallet"
	"github.com/stretchr/testify/require"
)

// development keys
const (
	ownerKey    = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	customerKey = "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
	deliveryKey = "5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a"
	otherKey    = "7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6"
)

var (
	ownerAddr    = mustAddress(ownerKey)
	customerAddr = mustAddress(customerKey)
	deliveryAddr = mustAddress(deliveryKey)
	otherAddr    = mustAddress(otherKey)

	halfEther, _    = new(big.Int).SetString("500000000000000000", 10)
	quarterEther, _ = new(big.Int).SetString("250000000000000000", 10)
)

func mustAddress(key string) string {
	s, err := wallet.NewKeySigner(key)
	if err != nil {
		panic(err)
	}
	return s.Address()
}

func newSigner(t *testing.T, key string) *wallet.KeySigner {
	t.Helper()
	s, err := wallet.NewKeySigner(key)
	require.NoError(t, err)
	return s
}
