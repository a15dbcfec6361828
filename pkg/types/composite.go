package types

import (
	"fmt"
	"strings"
)

// Helpers for Postgres composite literals of the form (a,"b,c",NULL).

func encodeField(value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
	return `"` + escaped + `"`
}

func encodeNullableField(value *string) string {
	if value == nil {
		return "NULL"
	}
	return encodeField(*value)
}

func fieldIsNull(value string) bool {
	return strings.EqualFold(value, "NULL")
}

func nullableField(value string) *string {
	if fieldIsNull(value) {
		return nil
	}
	v := value
	return &v
}

// splitComposite breaks a composite literal into its raw fields, honoring
// double quotes and backslash escapes.
func splitComposite(raw string, want int) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 2 || raw[0] != '(' || raw[len(raw)-1] != ')' {
		return nil, fmt.Errorf("composite: invalid format %q", raw)
	}

	fields := make([]string, 0, want)
	var cur strings.Builder
	quoted, escaped := false, false
	for i := 1; i < len(raw)-1; i++ {
		ch := raw[i]
		switch {
		case escaped:
			cur.WriteByte(ch)
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '"':
			quoted = !quoted
		case ch == ',' && !quoted:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	fields = append(fields, cur.String())

	if want > 0 && len(fields) != want {
		return nil, fmt.Errorf("composite: got %d fields, expected %d", len(fields), want)
	}
	return fields, nil
}
