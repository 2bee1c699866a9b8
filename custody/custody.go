// Copyright (c) 2025 The RealmGov developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package custody implements the asset custody collaborator: balances,
// supply and freeze flags, all kept in registry state so that custody calls
// revert together with the ledger mutation they belong to.
//
// Mint, burn, freeze and thaw require the asset's authority credential.
// Transfers carry no credential; caller authorization happens upstream.
package custody

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/realmgov/registry/gov"
	"github.com/realmgov/registry/reverts"
	"github.com/realmgov/registry/state"
)

var (
	ErrUnknownAsset        = reverts.New("unknown asset")
	ErrAssetExists         = reverts.New("asset already registered")
	ErrNotAuthority        = reverts.New("credential is not the asset authority")
	ErrInsufficientBalance = reverts.New("insufficient balance")
	ErrAccountFrozen       = reverts.New("account frozen")
	ErrSupplyOverflow      = reverts.New("supply overflow")
)

// Engine provides asset custody over registry state.
type Engine struct {
	addr  gov.Address
	state *state.State
}

// New creates an engine keeping its records under the given state address.
func New(addr gov.Address, st *state.State) *Engine {
	return &Engine{addr, st}
}

func assetKey(asset gov.Address) gov.Bytes32 {
	return gov.Blake2b(asset.Bytes(), []byte("asset"))
}

func accountKey(asset, holder gov.Address) gov.Bytes32 {
	return gov.Blake2b(asset.Bytes(), holder.Bytes(), []byte("account"))
}

func (e *Engine) getAsset(asset gov.Address) (*assetRecord, error) {
	var rec assetRecord
	if err := e.state.DecodeStorage(e.addr, assetKey(asset), rec.Decode); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (e *Engine) setAsset(asset gov.Address, rec *assetRecord) error {
	return e.state.EncodeStorage(e.addr, assetKey(asset), rec.Encode)
}

func (e *Engine) getAccount(asset, holder gov.Address) (*accountRecord, error) {
	var rec accountRecord
	if err := e.state.DecodeStorage(e.addr, accountKey(asset, holder), rec.Decode); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (e *Engine) setAccount(asset, holder gov.Address, rec *accountRecord) error {
	return e.state.EncodeStorage(e.addr, accountKey(asset, holder), rec.Encode)
}

// CreateAsset registers an asset controlled by the authority credential.
func (e *Engine) CreateAsset(asset gov.Address, authority gov.Bytes32) error {
	rec, err := e.getAsset(asset)
	if err != nil {
		return err
	}
	if !rec.IsEmpty() {
		return ErrAssetExists
	}
	return e.setAsset(asset, &assetRecord{Authority: authority})
}

// checkAuthority loads the asset record and matches cred against it.
func (e *Engine) checkAuthority(asset gov.Address, cred gov.Bytes32) (*assetRecord, error) {
	rec, err := e.getAsset(asset)
	if err != nil {
		return nil, err
	}
	if rec.IsEmpty() {
		return nil, ErrUnknownAsset
	}
	if rec.Authority != cred {
		return nil, ErrNotAuthority
	}
	return rec, nil
}

// Supply returns the total minted supply of the asset.
func (e *Engine) Supply(asset gov.Address) (uint64, error) {
	rec, err := e.getAsset(asset)
	if err != nil {
		return 0, err
	}
	if rec.IsEmpty() {
		return 0, ErrUnknownAsset
	}
	return rec.Supply, nil
}

// Balance returns the holder's balance of the asset.
func (e *Engine) Balance(asset, holder gov.Address) (uint64, error) {
	rec, err := e.getAccount(asset, holder)
	if err != nil {
		return 0, err
	}
	return rec.Balance, nil
}

// Frozen returns whether the holder's account of the asset is frozen.
func (e *Engine) Frozen(asset, holder gov.Address) (bool, error) {
	rec, err := e.getAccount(asset, holder)
	if err != nil {
		return false, err
	}
	return rec.Frozen, nil
}

// Transfer moves amount between two holders of the asset.
// Both ends must be unfrozen.
func (e *Engine) Transfer(asset, from, to gov.Address, amount uint64) error {
	src, err := e.getAccount(asset, from)
	if err != nil {
		return err
	}
	if src.Frozen {
		return ErrAccountFrozen
	}
	if src.Balance < amount {
		return ErrInsufficientBalance
	}
	dst, err := e.getAccount(asset, to)
	if err != nil {
		return err
	}
	if dst.Frozen {
		return ErrAccountFrozen
	}
	newBalance, overflow := math.SafeAdd(dst.Balance, amount)
	if overflow {
		return ErrSupplyOverflow
	}

	src.Balance -= amount
	dst.Balance = newBalance
	if err := e.setAccount(asset, from, src); err != nil {
		return err
	}
	return e.setAccount(asset, to, dst)
}

// MintTo creates amount new units on the holder's account.
// Requires the asset authority credential and an unfrozen account.
func (e *Engine) MintTo(cred gov.Bytes32, asset, to gov.Address, amount uint64) error {
	rec, err := e.checkAuthority(asset, cred)
	if err != nil {
		return err
	}
	acc, err := e.getAccount(asset, to)
	if err != nil {
		return err
	}
	if acc.Frozen {
		return ErrAccountFrozen
	}
	supply, overflow := math.SafeAdd(rec.Supply, amount)
	if overflow {
		return ErrSupplyOverflow
	}
	balance, overflow := math.SafeAdd(acc.Balance, amount)
	if overflow {
		return ErrSupplyOverflow
	}

	rec.Supply = supply
	acc.Balance = balance
	if err := e.setAsset(asset, rec); err != nil {
		return err
	}
	return e.setAccount(asset, to, acc)
}

// Burn destroys amount units held by the holder.
// Requires the asset authority credential and an unfrozen account.
func (e *Engine) Burn(cred gov.Bytes32, asset, from gov.Address, amount uint64) error {
	rec, err := e.checkAuthority(asset, cred)
	if err != nil {
		return err
	}
	acc, err := e.getAccount(asset, from)
	if err != nil {
		return err
	}
	if acc.Frozen {
		return ErrAccountFrozen
	}
	if acc.Balance < amount {
		return ErrInsufficientBalance
	}

	rec.Supply -= amount
	acc.Balance -= amount
	if err := e.setAsset(asset, rec); err != nil {
		return err
	}
	return e.setAccount(asset, from, acc)
}

// Freeze marks the holder's account of the asset non-transferable.
// Requires the asset authority credential. Freezing a frozen account is a no-op.
func (e *Engine) Freeze(cred gov.Bytes32, asset, holder gov.Address) error {
	return e.setFrozen(cred, asset, holder, true)
}

// Thaw lifts the freeze from the holder's account of the asset.
// Requires the asset authority credential. Thawing an unfrozen account is a no-op.
func (e *Engine) Thaw(cred gov.Bytes32, asset, holder gov.Address) error {
	return e.setFrozen(cred, asset, holder, false)
}

func (e *Engine) setFrozen(cred gov.Bytes32, asset, holder gov.Address, frozen bool) error {
	if _, err := e.checkAuthority(asset, cred); err != nil {
		return err
	}
	acc, err := e.getAccount(asset, holder)
	if err != nil {
		return err
	}
	if acc.Frozen == frozen {
		return nil
	}
	acc.Frozen = frozen
	return e.setAccount(asset, holder, acc)
}
