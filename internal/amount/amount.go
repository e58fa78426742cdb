// Package amount converts between wei and ether display units.
// Conversion happens only at the presentation boundary, signed payloads
// always carry wei.
package amount

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

const etherDecimals = 18

// ParseEther converts decimal ether string into wei.
// Values with more than 18 fractional digits are rejected rather than rounded.
func ParseEther(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("parse ether %q: %w", s, err)
	}
	return EtherToWei(d)
}

// EtherToWei converts decimal ether amount into wei
func EtherToWei(d decimal.Decimal) (*big.Int, error) {
	if d.IsNegative() {
		return nil, fmt.Errorf("negative amount %s", d.String())
	}
	wei := d.Shift(etherDecimals)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, fmt.Errorf("amount %s has more than %d decimals", d.String(), etherDecimals)
	}
	return wei.BigInt(), nil
}

// FormatEther returns wei as ether string, e.g. 500000000000000000 -> "0.5"
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -etherDecimals).String()
}
