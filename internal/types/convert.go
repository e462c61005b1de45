// Package types converts values scanned from database/sql into plain Go values.
package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ToInt64 converts a scanned value to int64.
// Text values ([]byte, string) are parsed; unsupported values return an error.
func ToInt64(v interface{}) (int64, error) {
	switch i := v.(type) {
	case int64:
		return i, nil
	case int:
		return int64(i), nil
	case int32:
		return int64(i), nil
	case int16:
		return int64(i), nil
	case int8:
		return int64(i), nil
	case uint:
		return int64(i), nil
	case uint64:
		return int64(i), nil
	case uint32:
		return int64(i), nil
	case uint16:
		return int64(i), nil
	case uint8:
		return int64(i), nil
	case float64:
		return int64(i), nil
	case float32:
		return int64(i), nil
	case []byte:
		return parseInt(string(i))
	case string:
		return parseInt(i)
	default:
		return 0, fmt.Errorf("cannot convert %T to int64", v)
	}
}

func parseInt(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		// DECIMAL keys such as "12.00" still identify a row.
		f, ferr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if ferr != nil {
			return 0, fmt.Errorf("cannot parse %q as integer: %w", s, err)
		}
		return int64(f), nil
	}
	return n, nil
}

// ToFloat64 converts a scanned value to float64.
// DECIMAL columns arrive as []byte from the MySQL driver and are parsed.
func ToFloat64(v interface{}) (float64, error) {
	switch f := v.(type) {
	case float64:
		return f, nil
	case float32:
		return float64(f), nil
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(f)), 64)
	case string:
		return strconv.ParseFloat(strings.TrimSpace(f), 64)
	default:
		i, err := ToInt64(v)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %T to float64", v)
		}
		return float64(i), nil
	}
}

// ToString converts a scanned value to its text form.
// nil becomes the empty string.
func ToString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case time.Time:
		return s.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}
