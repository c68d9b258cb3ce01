// Package util holds small formatting helpers shared by element
// diagnostics and the cmd/spicecore result printer.
package util

import (
	"fmt"
	"math"
)

// siPrefix pairs an SI prefix symbol with the minimum absolute value
// it applies to; prefixes must be listed largest-threshold-first.
type siPrefix struct {
	threshold float64
	factor    float64
	symbol    string
}

var siPrefixes = []siPrefix{
	{threshold: 1, factor: 1, symbol: ""},
	{threshold: 1e-3, factor: 1e3, symbol: "m"},
	{threshold: 1e-6, factor: 1e6, symbol: "u"},
	{threshold: 1e-9, factor: 1e9, symbol: "n"},
	{threshold: 1e-12, factor: 1e12, symbol: "p"},
}

// FormatValueFactor renders value with an SI prefix scaled to its
// magnitude, e.g. FormatValueFactor(0.0025, "A") -> "2.500 mA". Values
// smaller than the smallest prefix bucket (below 1p) fall back to
// scientific notation rather than printing a rounded-to-zero mantissa.
func FormatValueFactor(value float64, unit string) string {
	absValue := math.Abs(value)
	for _, p := range siPrefixes {
		if absValue >= p.threshold {
			return fmt.Sprintf("%.3f %s%s", value*p.factor, p.symbol, unit)
		}
	}
	return fmt.Sprintf("%.3e %s", value, unit)
}

// FormatTime renders a simulation time in seconds with an SI prefix,
// mirroring FormatValueFactor for the one unit the cmd driver prints
// on every result row.
func FormatTime(t float64) string {
	return FormatValueFactor(t, "s")
}
