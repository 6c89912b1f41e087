package factory

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskless-finance/riskless/contract"
	"github.com/riskless-finance/riskless/ledger"
	"github.com/riskless-finance/riskless/ledger/ledgertest"
)

func newTestFactory(t *testing.T) (*Contract, ledger.Store) {
	t.Helper()

	// Deterministic correlation ids for assertions.
	seq := 0
	c := New()
	c.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}

	store := ledgertest.New()
	anchor, aust := "anchor1", "aust1"
	raw, err := json.Marshal(&InstantiateMsg{
		ProjectCodeID:            "project",
		AnchorMoneyMarketAddress: &anchor,
		AUstAddress:              &aust,
	})
	require.NoError(t, err)

	_, err = c.Instantiate(
		factoryEnv(0),
		store,
		contract.MessageInfo{Sender: "admin"},
		raw,
	)
	require.NoError(t, err)

	return c, store
}

func factoryEnv(unix int64) contract.Env {
	return contract.Env{
		Contract:  "factory1",
		BlockTime: time.Unix(unix, 0).UTC(),
	}
}

func createProject(
	t *testing.T,
	c *Contract,
	store ledger.Store,
	name string,
) (*contract.Response, error) {
	t.Helper()

	raw, err := json.Marshal(&ExecuteMsg{
		CreateProject: &CreateProjectMsg{
			Name:                  name,
			TargetPrincipalAmount: 1_000_000_000,
			TargetYieldAmount:     200_000_000,
			FundDeadline:          1_000_000,
		},
	})
	require.NoError(t, err)

	return c.Execute(
		factoryEnv(100),
		store,
		contract.MessageInfo{Sender: "creator"},
		raw,
	)
}

func ack(id, address string) contract.Reply {
	data, _ := json.Marshal(&contract.InstantiateResult{
		ContractAddress: address,
	})

	return contract.Reply{ID: id, Data: data}
}

func TestInstantiateRequiresAddresses(t *testing.T) {
	testCases := []struct {
		name string
		msg  InstantiateMsg
	}{
		{
			name: "missing anchor address",
			msg: InstantiateMsg{
				ProjectCodeID: "project",
				AUstAddress:   strPtr("aust1"),
			},
		},
		{
			name: "missing aust address",
			msg: InstantiateMsg{
				ProjectCodeID:            "project",
				AnchorMoneyMarketAddress: strPtr("anchor1"),
			},
		},
		{
			name: "missing both",
			msg:  InstantiateMsg{ProjectCodeID: "project"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := json.Marshal(&tc.msg)
			require.NoError(t, err)

			_, err = New().Instantiate(
				factoryEnv(0),
				ledgertest.New(),
				contract.MessageInfo{Sender: "admin"},
				raw,
			)
			require.Equal(t, ErrInvalidAddress, err)
		})
	}
}

func strPtr(s string) *string {
	return &s
}

func TestCreateProjectEmitsSubMsg(t *testing.T) {
	c, store := newTestFactory(t)

	resp, err := createProject(t, c, store, "film1")
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)

	sub := resp.Messages[0]
	require.Equal(t, "id-1", sub.ReplyID)
	require.True(t, sub.ReplyOnSuccess)
	require.NotNil(t, sub.Instantiate)
	require.Equal(t, "project", sub.Instantiate.Kind)
	require.Equal(t, "factory1", sub.Instantiate.Admin)

	// The registry is not bound until the acknowledgment arrives.
	raw, err := json.Marshal(&QueryMsg{
		GetProjectContractAddress: &GetProjectContractAddressMsg{Name: "film1"},
	})
	require.NoError(t, err)

	_, err = c.Query(factoryEnv(100), store, raw)
	require.Equal(t, ErrNotFound, err)
}

func TestCreateProjectDuplicate(t *testing.T) {
	c, store := newTestFactory(t)

	_, err := createProject(t, c, store, "film1")
	require.NoError(t, err)

	// Same name while the first creation is still in flight.
	_, err = createProject(t, c, store, "film1")
	require.Equal(t, ErrDuplicateProject, err)

	// A distinct name is fine: creations in flight are independent.
	_, err = createProject(t, c, store, "film2")
	require.NoError(t, err)

	// Same name after the registry is bound.
	_, err = c.Reply(factoryEnv(101), store, ack("id-1", "project1abc"))
	require.NoError(t, err)

	_, err = createProject(t, c, store, "film1")
	require.Equal(t, ErrDuplicateProject, err)
}

func TestReplyBindsRegistry(t *testing.T) {
	c, store := newTestFactory(t)

	_, err := createProject(t, c, store, "film1")
	require.NoError(t, err)
	_, err = createProject(t, c, store, "film2")
	require.NoError(t, err)

	// Acknowledgments resolve out of order.
	resp, err := c.Reply(factoryEnv(102), store, ack("id-2", "project1bbb"))
	require.NoError(t, err)

	name, ok := resp.Attribute("name")
	require.True(t, ok)
	require.Equal(t, "film2", name)

	_, err = c.Reply(factoryEnv(103), store, ack("id-1", "project1aaa"))
	require.NoError(t, err)

	raw, err := json.Marshal(&QueryMsg{
		GetProjectContractAddress: &GetProjectContractAddressMsg{Name: "film1"},
	})
	require.NoError(t, err)

	data, err := c.Query(factoryEnv(104), store, raw)
	require.NoError(t, err)

	addrResp := &ProjectContractAddressResponse{}
	require.NoError(t, json.Unmarshal(data, addrResp))
	require.Equal(t, "project1aaa", addrResp.Address)

	raw, err = json.Marshal(&QueryMsg{ListProjects: &ListProjectsMsg{}})
	require.NoError(t, err)

	data, err = c.Query(factoryEnv(104), store, raw)
	require.NoError(t, err)

	listResp := &ProjectListResponse{}
	require.NoError(t, json.Unmarshal(data, listResp))
	require.Equal(t, []ProjectEntry{
		{Name: "film2", Address: "project1bbb"},
		{Name: "film1", Address: "project1aaa"},
	}, listResp.Projects)
}

func TestReplyRejectsBadAck(t *testing.T) {
	c, store := newTestFactory(t)

	_, err := createProject(t, c, store, "film1")
	require.NoError(t, err)

	testCases := []struct {
		name  string
		reply contract.Reply
		want  error
	}{
		{
			name:  "malformed payload",
			reply: contract.Reply{ID: "id-1", Data: []byte("not json")},
			want:  ErrUnableToCreateNewProject,
		},
		{
			name:  "empty address",
			reply: ack("id-1", ""),
			want:  ErrUnableToCreateNewProject,
		},
		{
			name:  "unknown correlation id",
			reply: ack("id-99", "project1abc"),
			want:  ErrNoPendingProject,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Reply(factoryEnv(101), store, tc.reply)
			require.Equal(t, tc.want, err)
		})
	}

	// None of the failures consumed the pending entry.
	_, err = c.Reply(factoryEnv(105), store, ack("id-1", "project1abc"))
	require.NoError(t, err)
}

func TestReplyAckIsConsumed(t *testing.T) {
	c, store := newTestFactory(t)

	_, err := createProject(t, c, store, "film1")
	require.NoError(t, err)

	_, err = c.Reply(factoryEnv(101), store, ack("id-1", "project1abc"))
	require.NoError(t, err)

	_, err = c.Reply(factoryEnv(102), store, ack("id-1", "project1abc"))
	require.Equal(t, ErrNoPendingProject, err)
}

func TestUpdateAdmin(t *testing.T) {
	c, store := newTestFactory(t)

	raw, err := json.Marshal(&ExecuteMsg{
		UpdateAdmin: &UpdateAdminMsg{NewAdmin: strPtr("admin2")},
	})
	require.NoError(t, err)

	_, err = c.Execute(
		factoryEnv(100),
		store,
		contract.MessageInfo{Sender: "stranger"},
		raw,
	)
	require.Error(t, err)

	_, err = c.Execute(
		factoryEnv(100),
		store,
		contract.MessageInfo{Sender: "admin"},
		raw,
	)
	require.NoError(t, err)
}

func TestExecuteUnknownVariant(t *testing.T) {
	c, store := newTestFactory(t)

	_, err := c.Execute(
		factoryEnv(100),
		store,
		contract.MessageInfo{Sender: "anyone"},
		json.RawMessage(`{"destroy_everything":{}}`),
	)
	require.Equal(t, contract.ErrUnknownRequest, err)

	_, err = c.Query(factoryEnv(100), store, json.RawMessage(`{"peek":{}}`))
	require.Equal(t, contract.ErrUnknownRequest, err)
}
