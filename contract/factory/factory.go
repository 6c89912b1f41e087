// Package factory implements the project spawner: a name-to-address
// registry populated through the asynchronous child-instantiation
// protocol. Creations in flight are tracked per correlation id, so
// several distinct names may be pending at once and each
// acknowledgment resolves independently.
package factory

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/riskless-finance/riskless/contract"
	"github.com/riskless-finance/riskless/contract/admin"
	"github.com/riskless-finance/riskless/contract/project"
	"github.com/riskless-finance/riskless/ledger"
)

var (
	// ErrInvalidAddress rejects instantiation without the venue
	// addresses.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrDuplicateProject rejects a name that is already bound or
	// pending.
	ErrDuplicateProject = errors.New("project name already exists")

	// ErrUnableToCreateNewProject reports a malformed or unexpected
	// creation acknowledgment.
	ErrUnableToCreateNewProject = errors.New("unable to create new project")

	// ErrNoPendingProject reports an acknowledgment with no matching
	// pending creation.
	ErrNoPendingProject = errors.New("no pending project creation")

	// ErrNotFound reports a registry lookup for an unknown name.
	ErrNotFound = errors.New("project not found")
)

// Contract is the factory state machine.
type Contract struct {
	newID func() string
}

// New returns a factory contract.
func New() *Contract {
	return &Contract{newID: uuid.NewString}
}

// Instantiate stores the factory configuration. Both venue addresses
// are required; the instantiating sender becomes admin.
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

	if msg.AnchorMoneyMarketAddress == nil || msg.AUstAddress == nil {
		return nil, ErrInvalidAddress
	}

	if err := admin.Set(store, info.Sender); err != nil {
		return nil, err
	}

	cfg := &Config{
		ProjectCodeID:            msg.ProjectCodeID,
		AnchorMoneyMarketAddress: *msg.AnchorMoneyMarketAddress,
		AUstAddress:              *msg.AUstAddress,
	}
	if err := ledger.PutJSON(store, configKey, cfg); err != nil {
		return nil, err
	}

	return contract.NewResponse().
		AddAttribute("method", "instantiate"), nil
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
	case msg.CreateProject != nil:
		return c.createProject(env, store, info, msg.CreateProject)

	case msg.UpdateAdmin != nil:
		return admin.ExecuteUpdateAdmin(store, info, msg.UpdateAdmin.NewAdmin)

	default:
		return nil, contract.ErrUnknownRequest
	}
}

// createProject records the pending creation and emits the
// instantiate submessage carrying the fully-formed initial record.
// The registry is bound only by the acknowledgment handler.
func (c *Contract) createProject(
	env contract.Env,
	store ledger.Store,
	info contract.MessageInfo,
	msg *CreateProjectMsg,
) (*contract.Response, error) {
	bound, err := store.Has(registryKey(msg.Name))
	if err != nil {
		return nil, err
	}
	pending, err := store.Has(pendingNameKey(msg.Name))
	if err != nil {
		return nil, err
	}
	if bound || pending {
		return nil, ErrDuplicateProject
	}

	cfg, err := loadConfig(store)
	if err != nil {
		return nil, err
	}

	id := c.newID()
	if err := store.Put(pendingKey(id), []byte(msg.Name)); err != nil {
		return nil, err
	}
	if err := store.Put(pendingNameKey(msg.Name), []byte(id)); err != nil {
		return nil, err
	}

	init, err := json.Marshal(&project.InstantiateMsg{
		Project: project.Project{
			Name:                  msg.Name,
			Creator:               info.Sender,
			CreationDate:          env.BlockTime.Unix(),
			Status:                project.StatusFundingInProgress,
			TargetPrincipalAmount: msg.TargetPrincipalAmount,
			TargetYieldAmount:     msg.TargetYieldAmount,
			PrincipalAmount:       0,
			FundDeadline:          msg.FundDeadline,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "encode project instantiate msg")
	}

	return contract.NewResponse().
		AddAttribute("action", "create_project").
		AddAttribute("name", msg.Name).
		AddMessage(contract.SubMsg{
			ReplyID:        id,
			ReplyOnSuccess: true,
			Instantiate: &contract.InstantiateRequest{
				Kind:  cfg.ProjectCodeID,
				Admin: env.Contract,
				Msg:   init,
			},
		}), nil
}

// Reply binds the new child's address into the registry. Invoked only
// by the host; any failure aborts the enclosing transaction so the
// registry is never partially bound.
func (c *Contract) Reply(
	env contract.Env,
	store ledger.Store,
	reply contract.Reply,
) (*contract.Response, error) {
	ack := &contract.InstantiateResult{}
	if err := json.Unmarshal(reply.Data, ack); err != nil {
		return nil, ErrUnableToCreateNewProject
	}
	if ack.ContractAddress == "" {
		return nil, ErrUnableToCreateNewProject
	}

	nameBz, err := store.Get(pendingKey(reply.ID))
	if err == ledger.ErrNotFound {
		return nil, ErrNoPendingProject
	}
	if err != nil {
		return nil, err
	}
	name := string(nameBz)

	if err := store.Delete(pendingKey(reply.ID)); err != nil {
		return nil, err
	}
	if err := store.Delete(pendingNameKey(name)); err != nil {
		return nil, err
	}

	if err := store.Put(registryKey(name), []byte(ack.ContractAddress)); err != nil {
		return nil, err
	}

	names, err := loadIndex(store)
	if err != nil {
		return nil, err
	}
	if err := ledger.PutJSON(store, indexKey, append(names, name)); err != nil {
		return nil, err
	}

	return contract.NewResponse().
		AddAttribute("action", "create_project").
		AddAttribute("name", name).
		AddAttribute("address", ack.ContractAddress), nil
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
	case msg.GetProjectContractAddress != nil:
		addr, err := store.Get(registryKey(msg.GetProjectContractAddress.Name))
		if err == ledger.ErrNotFound {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}

		return json.Marshal(&ProjectContractAddressResponse{
			Address: string(addr),
		})

	case msg.ListProjects != nil:
		names, err := loadIndex(store)
		if err != nil {
			return nil, err
		}

		entries := make([]ProjectEntry, 0, len(names))
		for _, name := range names {
			addr, err := store.Get(registryKey(name))
			if err != nil {
				return nil, err
			}
			entries = append(entries, ProjectEntry{
				Name:    name,
				Address: string(addr),
			})
		}

		return json.Marshal(&ProjectListResponse{Projects: entries})

	default:
		return nil, contract.ErrUnknownRequest
	}
}
