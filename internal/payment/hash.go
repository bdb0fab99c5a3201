// Package payment computes the integrity hash exchanged with the external
// payment processor.
package payment

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/viniduminsara/ClearLens-Backend/pkg/config"
)

// currencyCode is fixed for the deployment; the storefront sells in a single
// currency and the processor validates the hash against this literal.
const currencyCode = "LKR"

// Hasher produces the tamper-evident code binding an order id and amount to
// the merchant credentials. Hash is deterministic, performs no I/O and is
// safe for concurrent use.
type Hasher struct {
	merchantID string
	// md5 of the merchant secret, upper-cased hex, computed once. The
	// processor expects this exact intermediate form inside the outer digest.
	innerDigest string
}

// NewHasher creates a Hasher from merchant configuration.
// Returns an error when either credential is absent so that a misconfigured
// process fails at startup rather than at the first checkout.
func NewHasher(cfg config.MerchantConfig) (*Hasher, error) {
	if cfg.ID == "" || cfg.Secret == "" {
		return nil, fmt.Errorf("merchant ID or merchant secret is not configured")
	}
	return &Hasher{
		merchantID:  cfg.ID,
		innerDigest: upperMD5(cfg.Secret),
	}, nil
}

// MerchantID returns the configured merchant identifier. Checkout responses
// carry it so the payment widget addresses the right merchant account.
func (h *Hasher) MerchantID() string {
	return h.merchantID
}

// Currency returns the fixed currency code used in every hash.
func Currency() string {
	return currencyCode
}

// Hash computes the integrity code for the given order id and amount.
func (h *Hasher) Hash(orderID string, amount float64) string {
	return upperMD5(h.merchantID + orderID + FormatAmount(amount) + currencyCode + h.innerDigest)
}

// FormatAmount renders an amount with exactly two decimal places and no
// grouping separators. The processor recomputes the hash over this exact
// string, so the format must match bit for bit.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

func upperMD5(s string) string {
	sum := md5.Sum([]byte(s))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
