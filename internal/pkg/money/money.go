package money

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a currency value in integer cents. It encodes to JSON as a
// two-decimal number and is stored as BIGINT.
type Amount int64

// Max is the largest amount a DECIMAL(10,2) price column holds.
const Max = Amount(9_999_999_999)

func Cents(c int64) Amount { return Amount(c) }

// FromFloat rounds half away from zero to the nearest cent.
func FromFloat(f float64) Amount {
	return Amount(math.Round(f * 100))
}

// Parse accepts "12", "12.5", "12.50", "-3.10".
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return FromFloat(f), nil
}

func (a Amount) Cents() int64 { return int64(a) }

func (a Amount) Float() float64 { return float64(a) / 100 }

func (a Amount) Mul(qty int) Amount { return a * Amount(qty) }

// MulChecked is Mul that reports false instead of wrapping around int64.
func (a Amount) MulChecked(qty int) (Amount, bool) {
	if a == 0 || qty == 0 {
		return 0, true
	}
	q := int64(qty)
	p := int64(a) * q
	if p/q != int64(a) || (int64(a) == -1 && q == math.MinInt64) || (q == -1 && int64(a) == math.MinInt64) {
		return 0, false
	}
	return Amount(p), true
}

// AddChecked is a+b that reports false instead of wrapping around int64.
func (a Amount) AddChecked(b Amount) (Amount, bool) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, false
	}
	return s, true
}

// PercentOf returns a×pct/100 rounded half-up to the cent.
func (a Amount) PercentOf(pct int64) Amount {
	n := int64(a) * pct
	if n >= 0 {
		return Amount((n + 50) / 100)
	}
	return Amount((n - 50) / 100)
}

func (a Amount) String() string {
	neg := a < 0
	v := int64(a)
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%d.%02d", v/100, v%100)
	if neg {
		return "-" + s
	}
	return s
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := Parse(s)
		if err != nil {
			return err
		}
		*a = v
		return nil
	}
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (a Amount) Value() (driver.Value, error) {
	return int64(a), nil
}

func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = 0
	case int64:
		*a = Amount(v)
	case int32:
		*a = Amount(v)
	case float64:
		*a = Amount(math.Round(v))
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("scan amount: %w", err)
		}
		*a = Amount(n)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("scan amount: %w", err)
		}
		*a = Amount(n)
	default:
		return fmt.Errorf("scan amount: unsupported type %T", src)
	}
	return nil
}

// GormDataType keeps AutoMigrate on an integer column for every dialect.
func (Amount) GormDataType() string { return "bigint" }
