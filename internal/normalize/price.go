package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// Everything except digits, separators and sign: currency symbols, codes, spaces.
	currencyExpr  = regexp.MustCompile(`[^\d.,\-]`)
	nonNumberExpr = regexp.MustCompile(`[^\d.\-]`)
	leadingNumber = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
	leadingInt    = regexp.MustCompile(`^[+-]?\d+`)
)

// ParsePrice turns locale-ambiguous price text (or a number) into a decimal.
// It never fails: anything it cannot make sense of becomes zero.
func ParsePrice(raw any) decimal.Decimal {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case float64:
		return fromFloat(v)
	case float32:
		return fromFloat(float64(v))
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case string:
		return parsePriceText(v)
	default:
		return parsePriceText(fmt.Sprint(v))
	}
}

func fromFloat(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

func parsePriceText(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	switch s {
	case "", "-", "null", "undefined":
		return decimal.Zero
	}

	s = currencyExpr.ReplaceAllString(s, "")

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")

	switch {
	case comma >= 0 && dot < 0:
		// 123,45 is a decimal comma, 1,234 a thousands separator.
		if len(s)-comma-1 <= 2 {
			s = strings.ReplaceAll(s[:comma], ",", "") + "." + s[comma+1:]
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		comma = strings.LastIndex(s, ",")
		s = strings.ReplaceAll(s[:comma], ",", "") + "." + s[comma+1:]
	case dot > comma:
		s = strings.ReplaceAll(s, ",", "")
	}

	s = nonNumberExpr.ReplaceAllString(s, "")

	match := strings.TrimSuffix(leadingNumber.FindString(s), ".")
	if match == "" || match == "-" {
		return decimal.Zero
	}

	value, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Zero
	}
	return value
}

// ParseStock reads a leading integer the way spreadsheet users type
// quantities ("12", "12 adet", 5.7). Negative or unreadable values become 0.
func ParseStock(raw any) int {
	var n int
	switch v := raw.(type) {
	case nil:
		return 0
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		n = int(v)
	case decimal.Decimal:
		n = int(v.IntPart())
	default:
		match := leadingInt.FindString(strings.TrimSpace(fmt.Sprint(v)))
		if match == "" {
			return 0
		}
		parsed, err := strconv.Atoi(match)
		if err != nil {
			return 0
		}
		n = parsed
	}

	if n < 0 {
		return 0
	}
	return n
}
