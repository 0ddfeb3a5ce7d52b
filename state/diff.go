// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"github.com/luxfi/database"
	"github.com/luxfi/ids"
	"github.com/luxfi/math/set"
)

// Chain is a read-only view of ledger state. Both the committed State and
// in-flight Diffs satisfy it, so verification logic is written once and runs
// against either.
type Chain interface {
	// GetAccount returns the account at [addr], or database.ErrNotFound if
	// the address has never been credited.
	GetAccount(addr ids.ShortID) (Account, error)

	// GetValidators returns every registered validator, in no particular
	// order.
	GetValidators() ([]Validator, error)
}

var _ Chain = (*Diff)(nil)

// Diff is a scratch overlay on a parent view. Block execution mutates a Diff
// so that transaction k+1 observes the balances and nonces left by
// transaction k, while the parent remains untouched until commit.
type Diff struct {
	parent   Chain
	accounts map[ids.ShortID]Account
}

func NewDiff(parent Chain) *Diff {
	return &Diff{
		parent:   parent,
		accounts: make(map[ids.ShortID]Account),
	}
}

func (d *Diff) GetAccount(addr ids.ShortID) (Account, error) {
	if acct, ok := d.accounts[addr]; ok {
		return acct, nil
	}
	return d.parent.GetAccount(addr)
}

func (d *Diff) SetAccount(addr ids.ShortID, acct Account) {
	d.accounts[addr] = acct
}

func (d *Diff) GetValidators() ([]Validator, error) {
	parentValidators, err := d.parent.GetValidators()
	if err != nil {
		return nil, err
	}

	seen := set.NewSet[ids.ShortID](len(parentValidators))
	validators := make([]Validator, 0, len(parentValidators))
	for _, vdr := range parentValidators {
		seen.Add(vdr.Address)
		// Overlay any modification staged in this diff.
		if acct, ok := d.accounts[vdr.Address]; ok {
			validators = append(validators, Validator{
				Address: vdr.Address,
				Score:   acct.Score,
				Stake:   acct.Stake,
			})
			continue
		}
		validators = append(validators, vdr)
	}

	// Pick up registrations staged in this diff.
	for addr, acct := range d.accounts {
		if !acct.Registered || seen.Contains(addr) {
			continue
		}
		validators = append(validators, Validator{
			Address: addr,
			Score:   acct.Score,
			Stake:   acct.Stake,
		})
	}
	return validators, nil
}

// Modified returns the accounts staged in this diff. The returned map is the
// diff's own storage; callers must not mutate it.
func (d *Diff) Modified() map[ids.ShortID]Account {
	return d.accounts
}

// GetAccountOrZero is GetAccount with implicit account creation semantics:
// unknown addresses read as the zero account.
func GetAccountOrZero(view Chain, addr ids.ShortID) (Account, error) {
	acct, err := view.GetAccount(addr)
	if err == database.ErrNotFound {
		return Account{}, nil
	}
	return acct, err
}
