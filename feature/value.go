package feature

import (
	"fmt"
	"math"
	"strconv"
)

/*
Value is the value of a feature for a sample, or a label. After going
through Normalize it holds either a float64, a string or a bool.
*/
type Value = interface{}

/*
Normalize takes a value and returns it in the form the rest of the
package expects: every Go numeric type becomes a float64, strings and
bools are returned as they are. An error is returned for any other type,
and for NaN and infinite numbers.
*/
func Normalize(v Value) (Value, error) {
	switch v := v.(type) {
	case string, bool:
		return v, nil
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	}
	return nil, fmt.Errorf("unsupported value %v of type %T: expected a number, a string or a bool", v, v)
}

func finite(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("unsupported value %v: numbers must be finite", f)
	}
	return f, nil
}

// IsFinite returns false for NaN and infinite float64 values, true for
// anything else
func IsFinite(v Value) bool {
	f, ok := v.(float64)
	return !ok || !(math.IsNaN(f) || math.IsInf(f, 0))
}

// IsNumeric returns whether a normalized value is a number
func IsNumeric(v Value) bool {
	_, ok := v.(float64)
	return ok
}

// Format returns the textual representation of a value
func Format(v Value) string {
	switch v := v.(type) {
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	case nil:
		return "?"
	}
	return fmt.Sprintf("%v", v)
}
