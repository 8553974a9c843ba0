package common

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	SOLDecimals    = 9             // SOL has 9 decimals (lamports)
	LamportsPerSOL = 1_000_000_000 // 10^SOLDecimals

	explorerBaseURL = "https://explorer.solana.com/tx/"
	clusterMainnet  = "mainnet-beta"
)

// LamportsToSOL converts lamports to SOL string without float precision loss
func LamportsToSOL(lamports uint64) string {
	return formatWithDecimals(lamports, SOLDecimals)
}

// SOLToLamports parses an exact decimal SOL amount such as "1.5" into lamports.
// Digits past the ninth decimal are dropped.
func SOLToLamports(sol string) (uint64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(sol))
	if err != nil {
		return 0, fmt.Errorf("invalid SOL amount %q: %w", sol, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative amount: %s", sol)
	}
	return floorLamports(d)
}

// LamportsToSOLFloat converts lamports to a SOL float for display and comparisons.
func LamportsToSOLFloat(lamports uint64) float64 {
	f, _ := decimal.NewFromUint64(lamports).Shift(-SOLDecimals).Float64()
	return f
}

// FloorSOLToLamports converts a SOL float to lamports, dropping any remainder below one lamport.
// The float is taken at its shortest decimal representation so 0.1299 becomes exactly 129900000.
func FloorSOLToLamports(sol float64) (uint64, error) {
	if sol < 0 {
		return 0, fmt.Errorf("negative amount: %v", sol)
	}
	return floorLamports(decimal.NewFromFloat(sol))
}

func floorLamports(sol decimal.Decimal) (uint64, error) {
	lamports := sol.Shift(SOLDecimals).Floor()
	if !lamports.IsPositive() {
		return 0, nil
	}
	if lamports.GreaterThan(decimal.NewFromUint64(^uint64(0))) {
		return 0, fmt.Errorf("amount too large: %s SOL", sol)
	}
	return lamports.BigInt().Uint64(), nil
}

// FormatAddress shortens an address to its first and last chars characters.
// chars <= 0 falls back to 4.
func FormatAddress(address string, chars int) string {
	if address == "" {
		return ""
	}
	if chars <= 0 {
		chars = 4
	}
	head := address[:min(chars, len(address))]
	tail := address[max(0, len(address)-chars):]
	return head + "..." + tail
}

// ExplorerURL returns the Solana explorer link for a transaction signature.
func ExplorerURL(signature, cluster string) string {
	if cluster == "" || cluster == clusterMainnet {
		return explorerBaseURL + signature
	}
	return explorerBaseURL + signature + "?cluster=" + cluster
}

// formatWithDecimals converts integer to decimal string by inserting decimal point
// Example: formatWithDecimals(24981836, 9) = "0.024981836"
func formatWithDecimals(value uint64, decimals int) string {
	s := fmt.Sprintf("%d", value)

	// Pad with leading zeros if needed
	for len(s) <= decimals {
		s = "0" + s
	}

	pos := len(s) - decimals
	return s[:pos] + "." + s[pos:]
}
