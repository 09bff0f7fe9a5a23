package greenops

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer is the locale-aware message printer for number formatting.
// Uses English locale for consistent thousand separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators.
// Example: FormatNumber(18248) returns "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat formats f with the given precision and thousand separators.
// Example: FormatFloat(-1234.567, 2) returns "-1,234.57".
func FormatFloat(f float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	formatted := strconv.FormatFloat(math.Abs(f), 'f', precision, 64)

	intPart, fracPart, hasFrac := strings.Cut(formatted, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return strconv.FormatFloat(f, 'f', precision, 64)
	}

	out := FormatNumber(n)
	if hasFrac {
		out += "." + fracPart
	}
	if f < 0 && strings.Trim(formatted, "0.") != "" {
		out = "-" + out
	}
	return out
}

// FormatLarge formats large numbers with abbreviated notation.
//
// Values below LargeNumberThreshold (1 million) use comma-separated format.
// Values at or above LargeNumberThreshold use "~X.X million" format.
// Values at or above BillionThreshold use "~X.X billion" format.
func FormatLarge(n float64) string {
	if n >= BillionThreshold {
		return fmt.Sprintf("~%.1f billion", n/BillionThreshold)
	}
	if n >= LargeNumberThreshold {
		return fmt.Sprintf("~%.1f million", n/LargeNumberThreshold)
	}
	return FormatNumber(int64(math.Round(n)))
}

// FormatKwh formats an energy value as "1,234.50 kWh".
func FormatKwh(kwh float64) string {
	const kwhPrecision = 2
	return FormatFloat(kwh, kwhPrecision) + " kWh"
}

// FormatPercent formats a percentage change with an explicit sign: "+12.5%",
// "-3.0%", "0.0%".
func FormatPercent(pct float64) string {
	const pctPrecision = 1
	s := FormatFloat(pct, pctPrecision)
	if pct > 0 && s != "0.0" {
		s = "+" + s
	}
	return s + "%"
}
