// Package calc evaluates the small arithmetic language used by the
// math.calculate tool: + - * / with parentheses and decimals.
package calc

import (
	"math"
	"strconv"
	"strings"
)

// Fallback is returned by Evaluate whenever an expression cannot be computed.
const Fallback = "(demo) unable to compute"

// Sanitize drops every character that is not a digit, a parenthesis, a
// decimal point or one of + - * /.
func Sanitize(expr string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case strings.ContainsRune("()+-*/.", r):
			return r
		}
		return -1
	}, expr)
}

// Compute sanitizes, parses and evaluates expr.
func Compute(expr string) (float64, error) {
	node, err := Parse(Sanitize(expr))
	if err != nil {
		return 0, err
	}
	v, err := node.Eval()
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNonFinite
	}
	return v, nil
}

// Evaluate returns the decimal result of expr, or Fallback. It never panics.
func Evaluate(expr string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = Fallback
		}
	}()

	v, err := Compute(expr)
	if err != nil {
		return Fallback
	}
	return Format(v)
}

// Format prints v with the shortest representation that round-trips.
func Format(v float64) string {
	if v == 0 {
		return "0" // avoids "-0"
	}
	if math.Abs(v) >= 1e21 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
