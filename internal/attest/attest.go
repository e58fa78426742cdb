// Package attest builds the canonical byte encoding of an order and its
// Keccak-256 digest. The digest is what customer and owner sign.
//
// The encoding is Solidity abi.encodePacked(string customer, string product,
// uint256 price, string status, string deliveryPersonAddress): strings are raw
// bytes with no length prefix, price is a 32-byte big-endian word.
package attest

import (
	"math/big"

	"github.com/rookgm/deliverystore/internal/models"
	"golang.org/x/crypto/sha3"
)

const wordSize = 32

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Encode returns packed encoding of the covered order fields
func Encode(order models.Order) ([]byte, error) {
	price, err := priceWord(order.Price)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, len(order.Customer)+len(order.Product)+wordSize+len(order.Status)+len(order.DeliveryPersonAddress))
	buf = append(buf, order.Customer...)
	buf = append(buf, order.Product...)
	buf = append(buf, price...)
	buf = append(buf, order.Status...)
	buf = append(buf, order.DeliveryPersonAddress...)

	return buf, nil
}

// Digest returns keccak256 of Encode as 32 raw bytes
func Digest(order models.Order) ([]byte, error) {
	packed, err := Encode(order)
	if err != nil {
		return nil, err
	}

	h := sha3.NewLegacyKeccak256()
	h.Write(packed)
	return h.Sum(nil), nil
}

// ForClientAttestation rebuilds the record as the customer signed it at
// creation: status Processing and no delivery person.
func ForClientAttestation(order models.Order, customer string) models.Order {
	return models.Order{
		OrderID:  order.OrderID,
		Customer: customer,
		Product:  order.Product,
		Price:    order.Price,
		Status:   models.OrderStatusProcessing,
	}
}

func priceWord(price *big.Int) ([]byte, error) {
	if price == nil || price.Sign() < 0 || price.Cmp(maxUint256) > 0 {
		return nil, models.ErrInvalidPrice
	}
	word := make([]byte, wordSize)
	return price.FillBytes(word), nil
}
