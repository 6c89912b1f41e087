// Package host is the execution environment for the contract state
// machines. It admits one top-level invocation at a time, runs it
// inside a single ledger transaction, processes any emitted
// child-instantiation submessages and delivers their acknowledgments
// back to the issuing contract — all-or-nothing per invocation.
package host

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/riskless-finance/riskless/contract"
	"github.com/riskless-finance/riskless/ledger"
)

var (
	// ErrUnknownKind reports an instantiation request for an
	// unregistered contract kind.
	ErrUnknownKind = errors.New("unknown contract kind")

	// ErrUnknownContract reports an invocation against an address
	// with no instance behind it.
	ErrUnknownContract = errors.New("unknown contract address")

	// ErrUnsupportedMessage reports a submessage variant the host
	// cannot process.
	ErrUnsupportedMessage = errors.New("unsupported submessage")
)

// hostInstance is the reserved store scope for host bookkeeping.
const hostInstance = "\x00host"

func instanceKey(address string) []byte {
	return []byte("inst:" + address)
}

// Host executes contract invocations against a ledger database. The
// mutex admits one top-level invocation at a time regardless of the
// backing database's own isolation, so callers never observe a lost
// update between a read and the commit that depends on it.
type Host struct {
	mu        sync.Mutex
	db        ledger.Database
	contracts map[string]contract.Contract
	now       func() time.Time
	newAddr   func(kind string) string
}

// New returns a host over db with no registered contract kinds.
func New(db ledger.Database) *Host {
	return &Host{
		db:        db,
		contracts: make(map[string]contract.Contract),
		now:       time.Now,
		newAddr:   defaultAddress,
	}
}

// Register makes a contract kind instantiable.
func (h *Host) Register(kind string, c contract.Contract) {
	h.contracts[kind] = c
}

// SetClock overrides the invocation time source.
func (h *Host) SetClock(now func() time.Time) {
	h.now = now
}

func defaultAddress(kind string) string {
	return kind + "1" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Instantiate creates a new top-level instance of kind and returns its
// address.
func (h *Host) Instantiate(
	ctx context.Context,
	kind string,
	sender string,
	msg interface{},
) (string, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return "", errors.Wrap(err, "encode instantiate msg")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	address := ""
	if err := h.db.Transact(ctx, func(tx ledger.Tx) error {
		address, err = h.instantiate(
			tx,
			h.now(),
			kind,
			contract.MessageInfo{Sender: sender},
			raw,
		)
		return err
	}); err != nil {
		return "", err
	}

	return address, nil
}

func (h *Host) instantiate(
	tx ledger.Tx,
	blockTime time.Time,
	kind string,
	info contract.MessageInfo,
	raw json.RawMessage,
) (string, error) {
	c, ok := h.contracts[kind]
	if !ok {
		return "", ErrUnknownKind
	}

	address := h.newAddr(kind)
	if err := tx.Store(hostInstance).Put(instanceKey(address), []byte(kind)); err != nil {
		return "", err
	}

	env := contract.Env{Contract: address, BlockTime: blockTime}
	resp, err := c.Instantiate(env, tx.Store(address), info, raw)
	if err != nil {
		return "", err
	}

	if err := h.dispatch(tx, blockTime, address, resp.Messages); err != nil {
		return "", err
	}

	return address, nil
}

// Execute runs one action against the instance at address. Attached
// funds accompany the message info.
func (h *Host) Execute(
	ctx context.Context,
	address string,
	sender string,
	funds []contract.Coin,
	msg interface{},
) (*contract.Response, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(err, "encode execute msg")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	var resp *contract.Response
	if err := h.db.Transact(ctx, func(tx ledger.Tx) error {
		blockTime := h.now()

		c, address, err := h.resolve(tx, address)
		if err != nil {
			return err
		}

		env := contract.Env{Contract: address, BlockTime: blockTime}
		info := contract.MessageInfo{Sender: sender, Funds: funds}
		resp, err = c.Execute(env, tx.Store(address), info, raw)
		if err != nil {
			return err
		}

		return h.dispatch(tx, blockTime, address, resp.Messages)
	}); err != nil {
		return nil, err
	}

	return resp, nil
}

// dispatch processes submessages emitted by the instance at parent.
// The child's initialization and the acknowledgment delivery run in
// the same enclosing transaction, so a failed acknowledgment leaves no
// partially-bound state.
func (h *Host) dispatch(
	tx ledger.Tx,
	blockTime time.Time,
	parent string,
	msgs []contract.SubMsg,
) error {
	for _, m := range msgs {
		if m.Instantiate == nil {
			return ErrUnsupportedMessage
		}

		child, err := h.instantiate(
			tx,
			blockTime,
			m.Instantiate.Kind,
			contract.MessageInfo{Sender: parent},
			m.Instantiate.Msg,
		)
		if err != nil {
			return err
		}

		if !m.ReplyOnSuccess {
			continue
		}

		data, err := json.Marshal(&contract.InstantiateResult{
			ContractAddress: child,
		})
		if err != nil {
			return errors.Wrap(err, "encode instantiate result")
		}

		c, parent, err := h.resolve(tx, parent)
		if err != nil {
			return err
		}

		env := contract.Env{Contract: parent, BlockTime: blockTime}
		reply := contract.Reply{ID: m.ReplyID, Data: data}
		if _, err := c.Reply(env, tx.Store(parent), reply); err != nil {
			return err
		}
	}

	return nil
}

// Query runs one read against the instance at address and decodes the
// answer into out.
func (h *Host) Query(
	ctx context.Context,
	address string,
	msg interface{},
	out interface{},
) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "encode query msg")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.db.View(ctx, func(tx ledger.Tx) error {
		c, address, err := h.resolve(tx, address)
		if err != nil {
			return err
		}

		env := contract.Env{Contract: address, BlockTime: h.now()}
		bz, err := c.Query(env, tx.Store(address), raw)
		if err != nil {
			return err
		}

		return errors.Wrap(json.Unmarshal(bz, out), "decode query response")
	})
}

// Lookup returns the contract kind registered at address.
func (h *Host) Lookup(ctx context.Context, address string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	kind := ""
	if err := h.db.View(ctx, func(tx ledger.Tx) error {
		bz, err := tx.Store(hostInstance).Get(instanceKey(address))
		if err == ledger.ErrNotFound {
			return ErrUnknownContract
		}
		if err != nil {
			return err
		}

		kind = string(bz)
		return nil
	}); err != nil {
		return "", err
	}

	return kind, nil
}

func (h *Host) resolve(
	tx ledger.Tx,
	address string,
) (contract.Contract, string, error) {
	bz, err := tx.Store(hostInstance).Get(instanceKey(address))
	if err == ledger.ErrNotFound {
		return nil, "", ErrUnknownContract
	}
	if err != nil {
		return nil, "", err
	}

	c, ok := h.contracts[string(bz)]
	if !ok {
		return nil, "", ErrUnknownKind
	}

	return c, address, nil
}
