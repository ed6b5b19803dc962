package pos

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CONFIG - Process-wide sale configuration
// =============================================================================

// Config holds the flat discount applied to every sale. It is an explicit
// value threaded into the ledger constructor, not ambient global state.
type Config struct {
	// DiscountRate is applied to every sale total: total = gross * (1 - rate).
	// Must be in [0, 1).
	DiscountRate decimal.Decimal
}

// DefaultConfig returns the standard 10% discount configuration.
func DefaultConfig() Config {
	return Config{DiscountRate: decimal.NewFromFloat(0.10)}
}

// Validate checks the discount rate range.
func (c Config) Validate() error {
	if c.DiscountRate.IsNegative() || c.DiscountRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("discount rate %s out of range [0, 1)", c.DiscountRate)
	}
	return nil
}
