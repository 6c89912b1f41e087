// Package project implements the project lifecycle state machine:
// funding, status transitions, yield accrual and withdrawal of
// principal and yield by the creator and the backers.
package project

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"github.com/riskless-finance/riskless/contract"
	"github.com/riskless-finance/riskless/contract/admin"
	"github.com/riskless-finance/riskless/ledger"
	"github.com/riskless-finance/riskless/moneymarket"
)

// Contract is the project state machine. One instance owns one
// campaign record plus its backers' balances.
type Contract struct {
	market moneymarket.Adapter
}

// New returns a project contract depositing through market.
func New(market moneymarket.Adapter) *Contract {
	return &Contract{market: market}
}

// Instantiate persists the initial record handed over by the factory.
// The instantiating sender (the factory) becomes admin.
func (c *Contract) Instantiate(
	env contract.Env,
	store ledger.Store,
	info contract.MessageInfo,
	raw json.RawMessage,
) (*contract.Response, error) {
	msg := &InstantiateMsg{}
	if err := json.Unmarshal(raw, msg); err != nil {
		return nil, errors.Wrap(err, "decode instantiate msg")
	}

	if _, err := ParseStatus(string(msg.Project.Status)); err != nil {
		return nil, err
	}

	if err := admin.Set(store, info.Sender); err != nil {
		return nil, err
	}

	if err := saveProject(store, &msg.Project); err != nil {
		return nil, err
	}

	return contract.NewResponse().
		AddAttribute("method", "instantiate").
		AddAttribute("name", msg.Project.Name), nil
}

// Execute dispatches one action of the closed execute union.
func (c *Contract) Execute(
	env contract.Env,
	store ledger.Store,
	info contract.MessageInfo,
	raw json.RawMessage,
) (*contract.Response, error) {
	msg := &ExecuteMsg{}
	if err := json.Unmarshal(raw, msg); err != nil {
		return nil, errors.Wrap(err, "decode execute msg")
	}

	switch {
	case msg.UpdateAdmin != nil:
		return admin.ExecuteUpdateAdmin(store, info, msg.UpdateAdmin.NewAdmin)

	case msg.FundProject != nil:
		return c.fundProject(store, info)

	case msg.WithdrawPrincipal != nil:
		return c.withdrawPrincipal(env, store, info)

	case msg.ChangeProjectStatus != nil:
		return c.changeStatus(env, store, info, msg.ChangeProjectStatus)

	case msg.WithdrawYield != nil:
		return c.withdrawYield(env, store, info)

	default:
		return nil, contract.ErrUnknownRequest
	}
}

func (c *Contract) fundProject(
	store ledger.Store,
	info contract.MessageInfo,
) (*contract.Response, error) {
	p, err := loadProject(store)
	if err != nil {
		return nil, err
	}

	if p.Status.Terminal() {
		return nil, ErrUnableToFundProject
	}

	amount := fundedAmount(info.Funds)
	if amount < minimumDeposit {
		return nil, ErrDepositMinimum
	}

	current, err := loadBacking(store, info.Sender)
	if err != nil {
		return nil, err
	}

	// Both balances move together or not at all; the enclosing
	// transaction guarantees it.
	updated, err := safeAdd(current, amount)
	if err != nil {
		return nil, err
	}
	if err := saveBacking(store, info.Sender, updated); err != nil {
		return nil, err
	}

	p.PrincipalAmount, err = safeAdd(p.PrincipalAmount, amount)
	if err != nil {
		return nil, err
	}
	if err := saveProject(store, p); err != nil {
		return nil, err
	}

	if err := c.market.DepositStable(fundingDenom, amount); err != nil {
		return nil, err
	}

	return contract.NewResponse().
		AddAttribute("action", "fund_project").
		AddAttribute("amount_uusd", strconv.FormatUint(amount, 10)).
		AddAttribute("sender", info.Sender), nil
}

func (c *Contract) withdrawPrincipal(
	env contract.Env,
	store ledger.Store,
	info contract.MessageInfo,
) (*contract.Response, error) {
	p, err := loadProject(store)
	if err != nil {
		return nil, err
	}

	amount, err := mustLoadBacking(store, info.Sender)
	if err != nil {
		return nil, err
	}

	accrued := accruedYield(p, env.BlockTime.Unix())

	// Principal stays in while the project is delivering and the
	// promised yield has not accrued yet. Retryable, so a no-op
	// response rather than an error.
	if p.Status == StatusDelivery && accrued < p.TargetYieldAmount {
		return contract.NewResponse().
			AddAttribute("action", "withdraw_principal").
			AddAttribute("status", "cannot withdraw principal: target funding met and yield less than target yield").
			AddAttribute("sender", info.Sender), nil
	}

	if err := saveBacking(store, info.Sender, 0); err != nil {
		return nil, err
	}

	p.PrincipalAmount, err = safeSub(p.PrincipalAmount, amount)
	if err != nil {
		return nil, err
	}
	if err := saveProject(store, p); err != nil {
		return nil, err
	}

	if err := c.market.RedeemStable(fundingDenom, amount); err != nil {
		return nil, err
	}

	return contract.NewResponse().
		AddAttribute("action", "withdraw_principal").
		AddAttribute("amount_uusd", strconv.FormatUint(amount, 10)).
		AddAttribute("sender", info.Sender), nil
}

func (c *Contract) changeStatus(
	env contract.Env,
	store ledger.Store,
	info contract.MessageInfo,
	msg *ChangeProjectStatusMsg,
) (*contract.Response, error) {
	p, err := loadProject(store)
	if err != nil {
		return nil, err
	}

	// Admin override first; the automatic rule below then evaluates
	// against the overridden status, so an admin pre-empts it only
	// by setting a terminal status directly.
	if msg.ProjectStatus != nil {
		ok, err := admin.IsAdmin(store, info.Sender)
		if err != nil {
			return nil, err
		}
		if ok {
			if _, err := ParseStatus(string(*msg.ProjectStatus)); err != nil {
				return nil, err
			}
			p.Status = *msg.ProjectStatus
		}
	}

	if env.BlockTime.Unix() >= p.FundDeadline &&
		p.Status == StatusFundingInProgress {
		if p.PrincipalAmount >= p.TargetPrincipalAmount {
			p.Status = StatusDelivery
		} else {
			p.Status = StatusClosedFail
		}
	}

	if err := saveProject(store, p); err != nil {
		return nil, err
	}

	return contract.NewResponse().
		AddAttribute("action", "change_status").
		AddAttribute("status", string(p.Status)).
		AddAttribute("sender", info.Sender), nil
}

func (c *Contract) withdrawYield(
	env contract.Env,
	store ledger.Store,
	info contract.MessageInfo,
) (*contract.Response, error) {
	p, err := loadProject(store)
	if err != nil {
		return nil, ErrUnableToAcquireYield
	}

	accrued := accruedYield(p, env.BlockTime.Unix())

	if info.Sender == p.Creator {
		return c.withdrawCreatorYield(store, info, p, accrued)
	}

	return c.withdrawBackerYield(store, info, p, accrued)
}

func (c *Contract) withdrawCreatorYield(
	store ledger.Store,
	info contract.MessageInfo,
	p *Project,
	accrued uint64,
) (*contract.Response, error) {
	switch {
	case p.Status == StatusClosedSuccess:
		if err := c.market.RedeemStable(fundingDenom, accrued); err != nil {
			return nil, err
		}

		return contract.NewResponse().
			AddAttribute("action", "withdraw_yield").
			AddAttribute("status", "withdrew all yield").
			AddAttribute("amount", strconv.FormatUint(accrued, 10)).
			AddAttribute("sender", info.Sender), nil

	case accrued >= p.TargetYieldAmount && p.Status != StatusClosedFail:
		// Yield delivered but the project is not closed out yet;
		// callers must not retry blindly, so this is an error. A
		// failed project answers the off-track no-op below no matter
		// how much yield accrued.
		return nil, ErrCreatorUnableToWithdrawYield

	default:
		return contract.NewResponse().
			AddAttribute("action", "withdraw_yield").
			AddAttribute("status", "cannot withdraw yield: project off track").
			AddAttribute("sender", info.Sender), nil
	}
}

func (c *Contract) withdrawBackerYield(
	store ledger.Store,
	info contract.MessageInfo,
	p *Project,
	accrued uint64,
) (*contract.Response, error) {
	amount, err := mustLoadBacking(store, info.Sender)
	if err != nil {
		return nil, err
	}

	if accrued <= p.TargetYieldAmount && p.Status != StatusClosedFail {
		return contract.NewResponse().
			AddAttribute("action", "withdraw_yield").
			AddAttribute("status", "cannot withdraw yield: target yield has not been met").
			AddAttribute("sender", info.Sender), nil
	}

	share := proRataShare(amount, p.PrincipalAmount, accrued)

	// Payout transfer is out of scope; the recorded balance carries
	// the deduction.
	updated, err := safeSub(amount, share)
	if err != nil {
		return nil, err
	}
	if err := saveBacking(store, info.Sender, updated); err != nil {
		return nil, err
	}

	if err := c.market.RedeemStable(fundingDenom, share); err != nil {
		return nil, err
	}

	return contract.NewResponse().
		AddAttribute("action", "withdraw_yield").
		AddAttribute("amount", strconv.FormatUint(share, 10)).
		AddAttribute("sender", info.Sender), nil
}

// Query dispatches one read of the closed query union.
func (c *Contract) Query(
	env contract.Env,
	store ledger.Store,
	raw json.RawMessage,
) (json.RawMessage, error) {
	msg := &QueryMsg{}
	if err := json.Unmarshal(raw, msg); err != nil {
		return nil, errors.Wrap(err, "decode query msg")
	}

	switch {
	case msg.GetProjectStatus != nil:
		p, err := loadProject(store)
		if err != nil {
			return nil, err
		}

		return json.Marshal(&ProjectStatusResponse{ProjectStatus: *p})

	case msg.GetUserBalance != nil:
		if msg.GetUserBalance.User == nil {
			return nil, ErrMissingUser
		}

		amount, err := loadBacking(store, *msg.GetUserBalance.User)
		if err != nil {
			return nil, err
		}

		return json.Marshal(&UserBalanceResponse{UserBalance: amount})

	default:
		return nil, contract.ErrUnknownRequest
	}
}

// Reply is never expected; projects issue no submessages.
func (c *Contract) Reply(
	env contract.Env,
	store ledger.Store,
	reply contract.Reply,
) (*contract.Response, error) {
	return nil, contract.ErrUnknownRequest
}
