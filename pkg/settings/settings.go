// Package settings exposes the marketplace's runtime-mutable configuration.
// Values can change at any moment (admin endpoints write them), so callers
// must read through the Provider at the instant of use and never cache.
package settings

import (
	"context"

	"github.com/shopspring/decimal"
)

// Well-known setting names.
const (
	KeyDefaultCommissionFlatRate   = "default_commission_flat_rate"
	KeyDefaultCommissionPercentage = "default_commission_percentage"
	KeySendSupplierEmail           = "send_supplier_email"
)

// Known lists every supported setting name.
var Known = []string{
	KeyDefaultCommissionFlatRate,
	KeyDefaultCommissionPercentage,
	KeySendSupplierEmail,
}

// IsKnown reports whether name is a supported setting.
func IsKnown(name string) bool {
	for _, candidate := range Known {
		if candidate == name {
			return true
		}
	}
	return false
}

// Provider reads and writes runtime settings. Reads return zero values when a
// setting is missing or unparseable; they never fail the caller.
type Provider interface {
	Decimal(ctx context.Context, name string) decimal.Decimal
	Bool(ctx context.Context, name string) bool
	Set(ctx context.Context, name, value string) error
}
