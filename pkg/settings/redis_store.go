package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/solidmarket/marketplace-backend/pkg/config"
	"github.com/solidmarket/marketplace-backend/pkg/logger"
	redispkg "github.com/solidmarket/marketplace-backend/pkg/redis"
)

// RedisStore keeps settings in Redis so every process observes mutations
// immediately. Reads hit Redis on every call.
type RedisStore struct {
	client *redispkg.Client
	logg   *logger.Logger
}

// NewRedisStore wires a Redis-backed settings provider.
func NewRedisStore(client *redispkg.Client, logg *logger.Logger) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{client: client, logg: logg}, nil
}

// Seed writes boot-time defaults for any setting that has no stored value yet.
func (s *RedisStore) Seed(ctx context.Context, cfg config.MarketplaceConfig) error {
	defaults := map[string]string{
		KeyDefaultCommissionFlatRate:   cfg.DefaultCommissionFlatRate,
		KeyDefaultCommissionPercentage: cfg.DefaultCommissionPercentage,
		KeySendSupplierEmail:           strconv.FormatBool(cfg.SendSupplierEmail),
	}
	for name, value := range defaults {
		if _, err := s.client.Get(ctx, redispkg.SettingsKey(name)); err == nil {
			continue
		} else if !redispkg.IsNil(err) {
			return fmt.Errorf("read setting %s: %w", name, err)
		}
		if err := s.client.Set(ctx, redispkg.SettingsKey(name), value, 0); err != nil {
			return fmt.Errorf("seed setting %s: %w", name, err)
		}
	}
	return nil
}

// Decimal reads a decimal setting, zero when missing or malformed.
func (s *RedisStore) Decimal(ctx context.Context, name string) decimal.Decimal {
	raw, err := s.client.Get(ctx, redispkg.SettingsKey(name))
	if err != nil {
		if !redispkg.IsNil(err) && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "setting", name), "settings read failed")
		}
		return decimal.Zero
	}
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "setting", name), "settings value is not a decimal")
		}
		return decimal.Zero
	}
	return value
}

// Bool reads a boolean setting, false when missing or malformed.
func (s *RedisStore) Bool(ctx context.Context, name string) bool {
	raw, err := s.client.Get(ctx, redispkg.SettingsKey(name))
	if err != nil {
		if !redispkg.IsNil(err) && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "setting", name), "settings read failed")
		}
		return false
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return value
}

// Set writes a setting value.
func (s *RedisStore) Set(ctx context.Context, name, value string) error {
	if !IsKnown(name) {
		return fmt.Errorf("unknown setting %q", name)
	}
	return s.client.Set(ctx, redispkg.SettingsKey(name), value, 0)
}
