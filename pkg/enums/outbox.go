package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateSupplier      OutboxAggregateType = "supplier"
	AggregateStockLocation OutboxAggregateType = "stock_location"
	AggregateNotification  OutboxAggregateType = "notification"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateSupplier,
	AggregateStockLocation,
	AggregateNotification,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventSupplierCreated          OutboxEventType = "supplier_created"
	EventSupplierUpdated          OutboxEventType = "supplier_updated"
	EventSupplierDeleted          OutboxEventType = "supplier_deleted"
	EventSupplierWelcomeRequested OutboxEventType = "supplier_welcome_requested"
	EventStockLocationCreated     OutboxEventType = "stock_location_created"
)

var validOutboxEventTypes = []OutboxEventType{
	EventSupplierCreated,
	EventSupplierUpdated,
	EventSupplierDeleted,
	EventSupplierWelcomeRequested,
	EventStockLocationCreated,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
