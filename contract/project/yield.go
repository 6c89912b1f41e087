package project

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/riskless-finance/riskless/contract"
)

const (
	// baseUnit is one whole unit of the base currency.
	baseUnit = 1_000_000

	// minimumDeposit is the funding floor, $20 of the base currency.
	minimumDeposit = 20 * baseUnit

	secondsPerDay = 86_400

	// fundingDenom is the only denomination counted toward a
	// contribution.
	fundingDenom = "uusd"
)

// dailyRate is the annualized 20% rate compounded daily.
var dailyRate = decimal.New(20, -2).Div(decimal.NewFromInt(365))

// computeYield returns floor(principal * (1 + dailyRate)^days -
// principal). The exponentiation runs over exact decimal coefficients;
// truncation toward zero happens at the final step only.
func computeYield(principal uint64, days int64) uint64 {
	if principal == 0 || days <= 0 {
		return 0
	}

	p := decimal.NewFromBigInt(new(big.Int).SetUint64(principal), 0)
	factor := decimal.NewFromInt(1).
		Add(dailyRate).
		Pow(decimal.NewFromInt(days))

	return p.Mul(factor).Sub(p).Floor().BigInt().Uint64()
}

// accruedYield is the yield accrued between the project creation date
// and now, both unix seconds. Elapsed days truncate.
func accruedYield(p *Project, now int64) uint64 {
	if now <= p.CreationDate {
		return 0
	}

	return computeYield(p.PrincipalAmount, (now-p.CreationDate)/secondsPerDay)
}

// proRataShare returns floor(backing / principal * total) computed as
// an exact rational, no intermediate rounding.
func proRataShare(backingAmount, principalAmount, total uint64) uint64 {
	if principalAmount == 0 {
		return 0
	}

	num := new(big.Int).Mul(
		new(big.Int).SetUint64(backingAmount),
		new(big.Int).SetUint64(total),
	)

	return num.Div(num, new(big.Int).SetUint64(principalAmount)).Uint64()
}

func fundedAmount(coins []contract.Coin) uint64 {
	for _, c := range coins {
		if c.Denom == fundingDenom {
			return c.Amount
		}
	}

	return 0
}
