package presenter

import (
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"

	"investor-radar/internal/radar/dto"
	"investor-radar/pkg/utils"

	"github.com/shopspring/decimal"
)

// RiskStyle is the visual style token attached to a risk label.
type RiskStyle string

const (
	RiskStyleLow     RiskStyle = "bg-green-100 text-green-800 hover:bg-green-200"
	RiskStyleMedium  RiskStyle = "bg-yellow-100 text-yellow-800 hover:bg-yellow-200"
	RiskStyleHigh    RiskStyle = "bg-red-100 text-red-800 hover:bg-red-200"
	RiskStyleDefault RiskStyle = "bg-gray-100 text-gray-800 hover:bg-gray-200"
)

var abbreviations = []struct {
	threshold float64
	suffix    string
}{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// leading numeric prefix, the way a browser parseFloat reads it
var numericPrefix = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

// FormatAbbreviatedNumber renders n with a T/B/M/K suffix and one decimal,
// or as a plain decimal below one thousand. Nil renders as "0".
func FormatAbbreviatedNumber(n *float64) string {
	if n == nil {
		return "0"
	}
	v := *n
	for _, a := range abbreviations {
		if v >= a.threshold {
			return fixed(v/a.threshold, 1) + a.suffix
		}
	}
	return formatPlain(v)
}

// FormatPrice renders p with two decimals. Nil, zero and NaN render as "0.00".
func FormatPrice(p *float64) string {
	if p == nil || *p == 0 || math.IsNaN(*p) {
		return "0.00"
	}
	return fixed(*p, 2)
}

// FormatSignedPrice is FormatPrice with a "+" in front of non-negative values.
func FormatSignedPrice(p *float64) string {
	if p == nil || *p >= 0 {
		return "+" + FormatPrice(p)
	}
	return FormatPrice(p)
}

// FormatPercent parses raw as a number (unparsable input counts as 0) and
// renders it with two decimals, a percent sign, and "+" when non-negative.
func FormatPercent(raw string) string {
	value := ParseLeadingFloat(raw)
	sign := ""
	if value >= 0 {
		sign = "+"
	}
	return sign + fixed(value, 2) + "%"
}

// ParseLeadingFloat reads the leading numeric prefix of raw. It returns 0
// when there is none.
func ParseLeadingFloat(raw string) float64 {
	match := numericPrefix.FindString(strings.TrimSpace(raw))
	if match == "" {
		return 0
	}
	value, err := strconv.ParseFloat(strings.Replace(match, "Infinity", "Inf", 1), 64)
	if err != nil && !math.IsInf(value, 0) {
		return 0
	}
	if math.IsNaN(value) {
		return 0
	}
	return value
}

// RiskStyleFor maps a risk label to its style token. Unknown labels get the
// default style.
func RiskStyleFor(level string) RiskStyle {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "low", "低风险":
		return RiskStyleLow
	case "medium", "中风险":
		return RiskStyleMedium
	case "high", "高风险":
		return RiskStyleHigh
	default:
		return RiskStyleDefault
	}
}

// FormatCount renders a stats counter; missing and zero values render as "0".
func FormatCount(s dto.Scalar) string {
	raw := strings.TrimSpace(s.String())
	switch raw {
	case "", "0", "false", "NaN":
		return "0"
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		if v == 0 {
			return "0"
		}
		return formatPlain(v)
	}
	return raw
}

// FormatDate renders a news timestamp as a date in loc. Timestamps that
// cannot be parsed are returned unchanged.
func FormatDate(ts string, loc *time.Location) string {
	t, ok := utils.ParseTimestamp(ts)
	if !ok {
		return ts
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006/1/2")
}

// fixed renders v with the given number of decimals. Ties round away from
// zero on the exact binary value, so 1.25 gives "1.3" but 1.005 gives "1.00".
func fixed(v float64, digits int) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	case math.Abs(v) >= 1e21:
		return formatPlain(v)
	}
	out := exactDecimal(v).StringFixed(int32(digits))
	if v < 0 && !strings.HasPrefix(out, "-") {
		out = "-" + out // -0.001 rounds to "-0.00"
	}
	return out
}

// exactDecimal converts v without shortest-representation rounding.
func exactDecimal(v float64) decimal.Decimal {
	if v == 0 {
		return decimal.Zero
	}
	frac, exp := math.Frexp(v)
	mant := big.NewInt(int64(math.Ldexp(frac, 53)))
	exp -= 53
	if exp >= 0 {
		return decimal.NewFromBigInt(mant.Lsh(mant, uint(exp)), 0)
	}
	// 2^-k == 5^k * 10^-k
	five := new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(-exp)), nil)
	return decimal.NewFromBigInt(mant.Mul(mant, five), int32(exp))
}

// formatPlain renders v the shortest way, switching to exponent form
// ("1e-7", "1.5e+21") outside [1e-6, 1e21).
func formatPlain(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	case v == 0:
		return "0"
	}
	if abs := math.Abs(v); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	mantissa, exponent, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, 64), "e")
	return mantissa + "e" + exponent[:1] + strings.TrimLeft(exponent[1:], "0")
}
