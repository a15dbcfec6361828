package types

import "testing"

func TestAddressRoundTrip(t *testing.T) {
	line2 := "Suite 4"
	addr := Address{
		Line1:      `12 "Quoted" Road`,
		Line2:      &line2,
		City:       "Portland",
		State:      "OR",
		PostalCode: "97201",
		Country:    "US",
	}

	value, err := addr.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var decoded Address
	if err := decoded.Scan(value); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if decoded.Line1 != addr.Line1 {
		t.Fatalf("expected line1 %q got %q", addr.Line1, decoded.Line1)
	}
	if decoded.Line2 == nil || *decoded.Line2 != line2 {
		t.Fatalf("expected line2 %q got %v", line2, decoded.Line2)
	}
	if decoded.Country != "US" {
		t.Fatalf("expected country US got %q", decoded.Country)
	}
}

func TestAddressCountryDefaultsToUS(t *testing.T) {
	addr := Address{
		Line1:      "1 Main St",
		City:       "Austin",
		State:      "TX",
		PostalCode: "78701",
	}

	value, err := addr.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var decoded Address
	if err := decoded.Scan(value); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if decoded.Country != "US" {
		t.Fatalf("expected default country US got %q", decoded.Country)
	}
}

func TestAddressValueRequiresLine1(t *testing.T) {
	addr := Address{City: "Austin", State: "TX", PostalCode: "78701"}
	if _, err := addr.Value(); err == nil {
		t.Fatal("expected error for missing line1")
	}
}
