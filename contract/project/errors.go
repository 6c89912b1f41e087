package project

import "github.com/pkg/errors"

var (
	// ErrUnableToFundProject rejects funding on a closed project.
	ErrUnableToFundProject = errors.New("unable to fund project")

	// ErrDepositMinimum rejects contributions below the funding
	// floor.
	ErrDepositMinimum = errors.New("must deposit at least $20 of the base currency")

	// ErrUnableToAcquireYield reports a failed yield computation.
	ErrUnableToAcquireYield = errors.New("unable to acquire yield")

	// ErrCreatorUnableToWithdrawYield gates creator withdrawal until
	// the project is closed successfully.
	ErrCreatorUnableToWithdrawYield = errors.New("creator unable to withdraw yield")

	// ErrNoBackingFound reports a withdrawal by an identity with no
	// recorded contribution.
	ErrNoBackingFound = errors.New("no backing found for caller")

	// ErrAmountOverflow and ErrAmountUnderflow are hard arithmetic
	// failures; balances never wrap.
	ErrAmountOverflow  = errors.New("amount overflow")
	ErrAmountUnderflow = errors.New("amount underflow")

	// ErrMissingUser reports a user balance query without a user.
	ErrMissingUser = errors.New("invalid user address")
)

func safeAdd(a, b uint64) (uint64, error) {
	if a+b < a {
		return 0, ErrAmountOverflow
	}

	return a + b, nil
}

func safeSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrAmountUnderflow
	}

	return a - b, nil
}
