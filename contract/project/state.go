package project

import (
	"github.com/pkg/errors"

	"github.com/riskless-finance/riskless/ledger"
)

// Status is the lifecycle state of a project. The automatic rule only
// ever advances FundingInProgress to Delivery or ProjectClosedFail;
// the admin override may set any status.
type Status string

const (
	// StatusFundingInProgress accepts contributions until the fund
	// deadline passes.
	StatusFundingInProgress Status = "funding_in_progress"

	// StatusDelivery means the deadline passed with the principal
	// target reached.
	StatusDelivery Status = "delivery"

	// StatusClosedSuccess is the successful terminal state.
	StatusClosedSuccess Status = "project_closed_success"

	// StatusClosedFail is the failed terminal state.
	StatusClosedFail Status = "project_closed_fail"
)

// Terminal reports whether s is a permanent end state.
func (s Status) Terminal() bool {
	return s == StatusClosedSuccess || s == StatusClosedFail
}

// ParseStatus validates a wire status value.
func ParseStatus(v string) (Status, error) {
	switch s := Status(v); s {
	case StatusFundingInProgress, StatusDelivery,
		StatusClosedSuccess, StatusClosedFail:
		return s, nil
	}

	return "", errors.Errorf("unknown project status %q", v)
}

// Project is one crowdfunding campaign record. Amounts are integer
// base currency units; timestamps are unix seconds. PrincipalAmount
// is always the sum of all backers' recorded balances.
type Project struct {
	Name                  string `json:"name"`
	Creator               string `json:"creator"`
	CreationDate          int64  `json:"creation_date,string"`
	Status                Status `json:"project_status"`
	TargetPrincipalAmount uint64 `json:"target_principal_amount,string"`
	TargetYieldAmount     uint64 `json:"target_yield_amount,string"`
	PrincipalAmount       uint64 `json:"principal_amount,string"`
	FundDeadline          int64  `json:"fund_deadline,string"`
}

var projectKey = []byte("project")

func backingKey(identity string) []byte {
	return []byte("backings:" + identity)
}

type backing struct {
	Amount uint64 `json:"amount,string"`
}

func loadProject(store ledger.Store) (*Project, error) {
	p := &Project{}
	if err := ledger.GetJSON(store, projectKey, p); err != nil {
		return nil, err
	}

	return p, nil
}

func saveProject(store ledger.Store, p *Project) error {
	return ledger.PutJSON(store, projectKey, p)
}

// loadBacking returns zero for an identity that has never funded.
func loadBacking(store ledger.Store, identity string) (uint64, error) {
	b := &backing{}
	err := ledger.GetJSON(store, backingKey(identity), b)
	if err == ledger.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return b.Amount, nil
}

// mustLoadBacking fails with ErrNoBackingFound for an identity with no
// recorded contribution.
func mustLoadBacking(store ledger.Store, identity string) (uint64, error) {
	b := &backing{}
	err := ledger.GetJSON(store, backingKey(identity), b)
	if err == ledger.ErrNotFound {
		return 0, ErrNoBackingFound
	}
	if err != nil {
		return 0, err
	}

	return b.Amount, nil
}

func saveBacking(store ledger.Store, identity string, amount uint64) error {
	if amount == 0 {
		return store.Delete(backingKey(identity))
	}

	return ledger.PutJSON(store, backingKey(identity), &backing{Amount: amount})
}
