// Package moneymarket specifies the adapter to the external
// yield-bearing venue a project intends to deposit into. The
// integration is deferred; Noop is the only implementation and the
// funds stay recorded on the project ledger.
package moneymarket

// Adapter wraps deposit and redeem calls against the venue.
type Adapter interface {
	// DepositStable deposits amount of the given denomination.
	DepositStable(denom string, amount uint64) error

	// RedeemStable redeems amount of the given denomination.
	RedeemStable(denom string, amount uint64) error
}

// Noop is the stub adapter; both calls succeed without side effects.
type Noop struct{}

// DepositStable implements Adapter.
func (Noop) DepositStable(string, uint64) error { return nil }

// RedeemStable implements Adapter.
func (Noop) RedeemStable(string, uint64) error { return nil }
