package suppliers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/solidmarket/marketplace-backend/pkg/settings"
)

// The configured default percentage is stored as a fraction-of-ten figure, so
// the effective default multiplies it by ten. Explicit overrides are taken
// verbatim.
var percentageScale = decimal.NewFromInt(10)

// CommissionResolution is the effective commission pair for a new supplier.
// Each field remembers on its own whether it came from the marketplace default.
type CommissionResolution struct {
	FlatRate           decimal.Decimal
	Percentage         decimal.Decimal
	FlatFromDefault    bool
	PercentFromDefault bool
}

// Source labels the resolution for metrics.
func (c CommissionResolution) Source() string {
	switch {
	case c.FlatFromDefault && c.PercentFromDefault:
		return "defaults"
	case !c.FlatFromDefault && !c.PercentFromDefault:
		return "overrides"
	default:
		return "mixed"
	}
}

func resolveCommission(ctx context.Context, provider settings.Provider, flatOverride, percentageOverride *decimal.Decimal) CommissionResolution {
	var resolution CommissionResolution

	if flatOverride != nil {
		resolution.FlatRate = *flatOverride
	} else {
		resolution.FlatRate = provider.Decimal(ctx, settings.KeyDefaultCommissionFlatRate)
		resolution.FlatFromDefault = true
	}

	if percentageOverride != nil {
		resolution.Percentage = *percentageOverride
	} else {
		resolution.Percentage = provider.Decimal(ctx, settings.KeyDefaultCommissionPercentage).Mul(percentageScale)
		resolution.PercentFromDefault = true
	}

	return resolution
}
