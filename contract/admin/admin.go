// Package admin is the single-principal admin capability: one optional
// identity slot per instance, an authorization check, and an
// admin-gated transfer.
package admin

import (
	"github.com/pkg/errors"

	"github.com/riskless-finance/riskless/contract"
	"github.com/riskless-finance/riskless/ledger"
)

// ErrUnauthorized is returned when an admin-only action is attempted
// by a caller that is not the current admin.
var ErrUnauthorized = errors.New("unauthorized")

var adminKey = []byte("admin")

// Get returns the current admin identity, or the empty string if the
// slot is unset.
func Get(store ledger.Store) (string, error) {
	bz, err := store.Get(adminKey)
	if err == ledger.ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return string(bz), nil
}

// Set writes the admin slot. An empty identity clears it.
func Set(store ledger.Store, identity string) error {
	if identity == "" {
		return store.Delete(adminKey)
	}

	return store.Put(adminKey, []byte(identity))
}

// IsAdmin reports whether caller currently holds the admin slot. An
// unset slot authorizes nobody.
func IsAdmin(store ledger.Store, caller string) (bool, error) {
	current, err := Get(store)
	if err != nil {
		return false, err
	}

	return current != "" && current == caller, nil
}

// ExecuteUpdateAdmin transfers the admin slot to newAdmin. Only the
// current admin may transfer; a nil newAdmin clears the slot,
// permanently disabling admin actions on the instance.
func ExecuteUpdateAdmin(
	store ledger.Store,
	info contract.MessageInfo,
	newAdmin *string,
) (*contract.Response, error) {
	ok, err := IsAdmin(store, info.Sender)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}

	next := ""
	if newAdmin != nil {
		next = *newAdmin
	}
	if err := Set(store, next); err != nil {
		return nil, err
	}

	return contract.NewResponse().
		AddAttribute("action", "update_admin").
		AddAttribute("admin", next), nil
}
