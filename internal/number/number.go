package number

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ToFloat64 converts supported numeric values to float64.
func ToFloat64(value any) (float64, bool) {
	switch current := value.(type) {
	case int:
		return float64(current), true
	case int8:
		return float64(current), true
	case int16:
		return float64(current), true
	case int32:
		return float64(current), true
	case int64:
		return float64(current), true
	case uint:
		return float64(current), true
	case uint8:
		return float64(current), true
	case uint16:
		return float64(current), true
	case uint32:
		return float64(current), true
	case uint64:
		return float64(current), true
	case float32:
		return float64(current), true
	case float64:
		return current, true
	case json.Number:
		parsed, err := current.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// IsNumber reports whether value is one of the numeric kinds ToFloat64 accepts.
func IsNumber(value any) bool {
	_, ok := ToFloat64(value)
	return ok
}

// ToInt converts numeric values into int, truncating floats toward zero.
// NaN and infinities are rejected.
func ToInt(value any) (int, error) {
	switch current := value.(type) {
	case int:
		return current, nil
	case int8:
		return int(current), nil
	case int16:
		return int(current), nil
	case int32:
		return int(current), nil
	case int64:
		return int(current), nil
	case uint:
		return int(current), nil
	case uint8:
		return int(current), nil
	case uint16:
		return int(current), nil
	case uint32:
		return int(current), nil
	case uint64:
		return int(current), nil
	case json.Number:
		if parsed, err := current.Int64(); err == nil {
			return int(parsed), nil
		}
	}

	f, ok := ToFloat64(value)
	if !ok {
		return 0, fmt.Errorf("value %T is not a number", value)
	}

	return Truncate(f)
}

// Truncate drops the fractional part of f.
func Truncate(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("cannot convert %v to int", f)
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("value %v overflows int", f)
	}

	return int(math.Trunc(f)), nil
}

// Format renders f in its shortest round-trip form.
// Integral values have no fractional part ("1", not "1.0").
func Format(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
