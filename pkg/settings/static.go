package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// Static is an in-memory Provider. Each instance owns its own values, so
// tests can substitute arbitrary snapshots without touching shared state.
type Static struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewStatic builds an in-memory provider from the given values.
func NewStatic(values map[string]string) *Static {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &Static{values: copied}
}

// Decimal reads a decimal setting, zero when missing or malformed.
func (s *Static) Decimal(_ context.Context, name string) decimal.Decimal {
	s.mu.RLock()
	raw, ok := s.values[name]
	s.mu.RUnlock()
	if !ok {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return value
}

// Bool reads a boolean setting, false when missing or malformed.
func (s *Static) Bool(_ context.Context, name string) bool {
	s.mu.RLock()
	raw, ok := s.values[name]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return value
}

// Set writes a setting value.
func (s *Static) Set(_ context.Context, name, value string) error {
	if !IsKnown(name) {
		return fmt.Errorf("unknown setting %q", name)
	}
	s.mu.Lock()
	s.values[name] = value
	s.mu.Unlock()
	return nil
}
