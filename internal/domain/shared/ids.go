package shared

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// NormalizeID converts a loosely typed identifier (JSON number, string,
// integer) into its canonical string form. Float values with no
// fractional part render without a decimal point, so 7, 7.0 and "7" all
// normalize to "7".
func NormalizeID(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(t), nil
	case float64:
		if t == float64(int64(t)) {
			return cast.ToStringE(int64(t))
		}
	case float32:
		if t == float32(int64(t)) {
			return cast.ToStringE(int64(t))
		}
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", NewValidationError("invalid identifier %v", v)
	}
	return strings.TrimSpace(s), nil
}

// ParseIntID parses a numeric identifier from a path segment or JSON value.
// Fractional numbers are rejected rather than truncated.
func ParseIntID(v any) (int64, error) {
	switch t := v.(type) {
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, NewValidationError("invalid identifier %q", t)
		}
		return id, nil
	case float64:
		if t != math.Trunc(t) {
			return 0, NewValidationError("invalid identifier %v", t)
		}
	case float32:
		if float64(t) != math.Trunc(float64(t)) {
			return 0, NewValidationError("invalid identifier %v", t)
		}
	}
	id, err := cast.ToInt64E(v)
	if err != nil {
		return 0, NewValidationError("invalid identifier %v", v)
	}
	return id, nil
}
