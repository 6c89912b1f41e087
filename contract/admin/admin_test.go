package admin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riskless-finance/riskless/contract"
	"github.com/riskless-finance/riskless/ledger/ledgertest"
)

func TestGetUnset(t *testing.T) {
	store := ledgertest.New()

	current, err := Get(store)
	require.NoError(t, err)
	require.Equal(t, "", current)

	ok, err := IsAdmin(store, "")
	require.NoError(t, err)
	require.False(t, ok, "unset slot must authorize nobody")
}

func TestExecuteUpdateAdmin(t *testing.T) {
	store := ledgertest.New()
	require.NoError(t, Set(store, "alice"))

	ok, err := IsAdmin(store, "alice")
	require.NoError(t, err)
	require.True(t, ok)

	newAdmin := "bob"
	_, err = ExecuteUpdateAdmin(
		store,
		contract.MessageInfo{Sender: "mallory"},
		&newAdmin,
	)
	require.Equal(t, ErrUnauthorized, err)

	_, err = ExecuteUpdateAdmin(
		store,
		contract.MessageInfo{Sender: "alice"},
		&newAdmin,
	)
	require.NoError(t, err)

	ok, err = IsAdmin(store, "bob")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = IsAdmin(store, "alice")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestClearAdmin(t *testing.T) {
	store := ledgertest.New()
	require.NoError(t, Set(store, "alice"))

	_, err := ExecuteUpdateAdmin(
		store,
		contract.MessageInfo{Sender: "alice"},
		nil,
	)
	require.NoError(t, err)

	current, err := Get(store)
	require.NoError(t, err)
	require.Equal(t, "", current)
}
