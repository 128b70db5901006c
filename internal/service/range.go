package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/eaglebank/client-service/internal/models"
)

// BalanceRange is an inclusive balance filter. A zero bound means "no
// constraint"; this also applies to a bound that was given as 0, so a range
// query cannot ask for balance >= 0 or balance <= 0 explicitly.
type BalanceRange struct {
	GreaterThan float64
	LessThan    float64
}

// NewBalanceRange builds a range from raw query values.
func NewBalanceRange(amountGreaterThan, amountLessThan string) BalanceRange {
	return BalanceRange{
		GreaterThan: ParseBound(amountGreaterThan),
		LessThan:    ParseBound(amountLessThan),
	}
}

// ParseBound coerces a raw bound to a number. Blank, unparseable and NaN
// input all become 0, which disables the bound.
func ParseBound(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}

// Contains reports whether balance satisfies every enforced bound.
func (r BalanceRange) Contains(balance float64) bool {
	if r.GreaterThan != 0 && balance < r.GreaterThan {
		return false
	}
	if r.LessThan != 0 && balance > r.LessThan {
		return false
	}
	return true
}

// Filter returns the accounts inside the range, preserving order.
func (r BalanceRange) Filter(accounts []models.Account) []models.Account {
	out := make([]models.Account, 0, len(accounts))
	for _, a := range accounts {
		if r.Contains(a.Balance) {
			out = append(out, a)
		}
	}
	return out
}
