package finance

import (
	"fmt"
	"strings"
)

// ParseSymbols normalizes a portfolio definition.
// Symbols are trimmed and upper-cased; order is preserved.
// Empty entries and duplicates are rejected since symbols index table columns.
func ParseSymbols(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty portfolio: need at least one symbol")
	}

	symbols := make([]string, 0, len(raw))
	seen := make(map[string]bool)
	for i, s := range raw {
		symbol := strings.ToUpper(strings.TrimSpace(s))
		if symbol == "" {
			return nil, fmt.Errorf("empty symbol at position %d", i+1)
		}
		if strings.ContainsAny(symbol, " \t/?#") {
			return nil, fmt.Errorf("invalid symbol %q", symbol)
		}
		if seen[symbol] {
			return nil, fmt.Errorf("duplicate symbol: %s", symbol)
		}
		seen[symbol] = true
		symbols = append(symbols, symbol)
	}
	return symbols, nil
}
