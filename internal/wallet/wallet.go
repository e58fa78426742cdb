// Package wallet is the signing service of the connected account.
// Messages are signed as EIP-191 personal messages over the raw bytes given.
package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rookgm/deliverystore/internal/models"
)

// recovery id offset used by personal_sign
const recoveryOffset = 27

// KeySigner signs with a local secp256k1 key
type KeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewKeySigner creates signer from hex encoded private key
func NewKeySigner(hexKey string) (*KeySigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse wallet key: %w", err)
	}
	return FromKey(key), nil
}

// FromKey creates signer from private key
func FromKey(key *ecdsa.PrivateKey) *KeySigner {
	return &KeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

// Address returns checksummed address of the wallet
func (s *KeySigner) Address() string {
	return s.address.Hex()
}

// SignMessage signs raw bytes, returns 0x prefixed r||s||v
func (s *KeySigner) SignMessage(ctx context.Context, raw []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	sig, err := crypto.Sign(accounts.TextHash(raw), s.key)
	if err != nil {
		return "", fmt.Errorf("sign message: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += recoveryOffset

	return hexutil.Encode(sig), nil
}

// Verify checks signature of raw bytes against address
func (s *KeySigner) Verify(address string, raw []byte, signature string) (bool, error) {
	return Verify(address, raw, signature)
}

// TransactOpts returns transactor for the wallet key
func (s *KeySigner) TransactOpts(chainID *big.Int) (*bind.TransactOpts, error) {
	return bind.NewKeyedTransactorWithChainID(s.key, chainID)
}

// Verify reports whether signature over raw bytes was produced by address.
// An unrecoverable signature is reported as not valid, malformed input as error.
func Verify(address string, raw []byte, signature string) (bool, error) {
	if !common.IsHexAddress(address) {
		return false, models.ErrInvalidAddress
	}

	sig, err := hexutil.Decode(signature)
	if err != nil {
		return false, fmt.Errorf("decode signature: %w", err)
	}
	if len(sig) != crypto.SignatureLength {
		return false, fmt.Errorf("signature length %d, want %d", len(sig), crypto.SignatureLength)
	}
	if sig[crypto.RecoveryIDOffset] >= recoveryOffset {
		sig[crypto.RecoveryIDOffset] -= recoveryOffset
	}

	pub, err := crypto.SigToPub(accounts.TextHash(raw), sig)
	if err != nil {
		return false, nil
	}

	return crypto.PubkeyToAddress(*pub) == common.HexToAddress(address), nil
}
