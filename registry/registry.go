// Copyright (c) 2025 The RealmGov developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registry is the protocol facade of the voting-power escrow ledger.
// It binds the registrar and voter records, the custody engine and the world
// state together. Every mutating operation runs inside a state checkpoint and
// reverts all of its effects, custody included, when any step fails.
package registry

import (
	"sync"
	"time"

	"github.com/realmgov/registry/custody"
	"github.com/realmgov/registry/gov"
	"github.com/realmgov/registry/lockup"
	"github.com/realmgov/registry/log"
	"github.com/realmgov/registry/registrar"
	"github.com/realmgov/registry/reverts"
	"github.com/realmgov/registry/state"
	"github.com/realmgov/registry/voter"
)

var logger = log.WithContext("pkg", "registry")

var (
	ErrRegistrarExists    = reverts.New("registrar already exists")
	ErrRegistrarNotFound  = reverts.New("registrar not found")
	ErrVoterExists        = reverts.New("voter already exists")
	ErrVoterNotFound      = reverts.New("voter not found")
	ErrNotAdmin           = reverts.New("not realm admin")
	ErrInvalidLockupKind  = reverts.New("invalid lockup kind")
	ErrVotingTokenNonZero = reverts.New("voting token balance non zero")
)

// Registry holds ledger records under its own address and escrows deposited
// assets there. The per-realm custody credential is derived from the realm id,
// so only operations of this facade can move voting representation.
//
// All methods are safe for concurrent use; operations are serialized.
type Registry struct {
	addr  gov.Address
	mu    sync.RWMutex
	state *state.State
	cust  *custody.Engine
}

// New creates the facade bound to the given ledger address.
func New(addr gov.Address, st *state.State) *Registry {
	return &Registry{
		addr:  addr,
		state: st,
		cust:  custody.New(addr, st),
	}
}

// Custody exposes the custody engine sharing this registry's state, for
// provisioning asset classes and balances before the registry starts serving.
func (r *Registry) Custody() *custody.Engine {
	return r.cust
}

// Commit flushes all accumulated changes to the underlying store.
func (r *Registry) Commit() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	if err := r.state.Commit(); err != nil {
		return err
	}
	metricCommitTime().Observe(time.Since(start).Milliseconds())
	return nil
}

func registrarKey(realm gov.Bytes32) gov.Bytes32 {
	return gov.Blake2b(realm.Bytes(), []byte("registrar"))
}

func voterKey(realm gov.Bytes32, authority gov.Address) gov.Bytes32 {
	return gov.Blake2b(realm.Bytes(), authority.Bytes(), []byte("voter"))
}

func weightKey(realm gov.Bytes32, authority gov.Address) gov.Bytes32 {
	return gov.Blake2b(realm.Bytes(), authority.Bytes(), []byte("weight"))
}

// realmCred derives the custody credential the ledger holds for a realm.
func realmCred(realm gov.Bytes32) gov.Bytes32 {
	return gov.Blake2b(realm.Bytes(), []byte("realm-authority"))
}

func (r *Registry) getRegistrar(realm gov.Bytes32) (*registrar.Registrar, error) {
	var reg registrar.Registrar
	if err := r.state.DecodeStorage(r.addr, registrarKey(realm), reg.Decode); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *Registry) setRegistrar(realm gov.Bytes32, reg *registrar.Registrar) error {
	return r.state.EncodeStorage(r.addr, registrarKey(realm), reg.Encode)
}

func (r *Registry) getVoter(realm gov.Bytes32, authority gov.Address) (*voter.Voter, error) {
	var v voter.Voter
	if err := r.state.DecodeStorage(r.addr, voterKey(realm, authority), v.Decode); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Registry) setVoter(realm gov.Bytes32, authority gov.Address, v *voter.Voter) error {
	return r.state.EncodeStorage(r.addr, voterKey(realm, authority), v.Encode)
}

// atomically runs fn inside a state checkpoint, reverting every state and
// custody effect when fn fails, and records op metrics.
func (r *Registry) atomically(op string, fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	cp := r.state.NewCheckpoint()
	err := fn()
	if err != nil {
		r.state.RevertTo(cp)
	}

	outcome := "ok"
	switch {
	case err == nil:
	case reverts.IsRevertErr(err):
		outcome = "revert"
	default:
		outcome = "error"
	}
	metricOpCount().AddWithLabel(1, map[string]string{"op": op, "outcome": outcome})
	metricOpDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"op": op})
	return err
}

//
// Getters - no state change
//

// GetRegistrar returns the realm's registrar, or nil when the realm is not set up.
func (r *Registry) GetRegistrar(realm gov.Bytes32) (*registrar.Registrar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, err := r.getRegistrar(realm)
	if err != nil {
		return nil, err
	}
	if reg.IsEmpty() {
		return nil, nil
	}
	return reg, nil
}

// GetVoter returns the voter record of (realm, authority), or nil when absent.
func (r *Registry) GetVoter(realm gov.Bytes32, authority gov.Address) (*voter.Voter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, err := r.getVoter(realm, authority)
	if err != nil {
		return nil, err
	}
	if v.IsEmpty() {
		return nil, nil
	}
	return v, nil
}

// GetWeightRecord returns the last published weight record, or nil when none
// has been published. Callers needing a fresh value use DecayVotingPower.
func (r *Registry) GetWeightRecord(realm gov.Bytes32, authority gov.Address) (*voter.WeightRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rec voter.WeightRecord
	if err := r.state.DecodeStorage(r.addr, weightKey(realm, authority), rec.Decode); err != nil {
		return nil, err
	}
	if rec.IsEmpty() {
		return nil, nil
	}
	return &rec, nil
}

// VotingBalance returns the custodied voting-representation balance of the
// authority in the realm.
func (r *Registry) VotingBalance(realm gov.Bytes32, authority gov.Address) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, err := r.getRegistrar(realm)
	if err != nil {
		return 0, err
	}
	if reg.IsEmpty() {
		return 0, ErrRegistrarNotFound
	}
	return r.cust.Balance(reg.VotingAsset, authority)
}

//
// Setters - state change
//

// CreateRegistrar sets up a realm: one registrar per realm, and the realm's
// voting asset registered in custody under the realm credential.
func (r *Registry) CreateRegistrar(realm gov.Bytes32, authority, votingAsset gov.Address, warmupSecs uint64) error {
	logger.Debug("creating registrar",
		"realm", realm,
		"authority", authority,
		"votingAsset", votingAsset,
		"warmupSecs", warmupSecs,
	)

	err := r.atomically("create_registrar", func() error {
		reg, err := r.getRegistrar(realm)
		if err != nil {
			return err
		}
		if !reg.IsEmpty() {
			return ErrRegistrarExists
		}
		if err := r.cust.CreateAsset(votingAsset, realmCred(realm)); err != nil {
			return err
		}
		return r.setRegistrar(realm, &registrar.Registrar{
			Realm:       realm,
			Authority:   authority,
			VotingAsset: votingAsset,
			WarmupSecs:  warmupSecs,
		})
	})
	if err != nil {
		logger.Info("create registrar failed", "realm", realm, "error", err)
		return err
	}

	logger.Info("created registrar", "realm", realm)
	return nil
}

// CreateExchangeRate appends an exchange rate to the realm's table. Only the
// realm admin may do so; rates are immutable once set.
func (r *Registry) CreateExchangeRate(realm gov.Bytes32, authority, assetClass gov.Address, rate uint64) (uint8, error) {
	logger.Debug("creating exchange rate",
		"realm", realm,
		"assetClass", assetClass,
		"rate", rate,
	)

	var idx uint8
	err := r.atomically("create_exchange_rate", func() error {
		reg, err := r.getRegistrar(realm)
		if err != nil {
			return err
		}
		if reg.IsEmpty() {
			return ErrRegistrarNotFound
		}
		if reg.Authority != authority {
			return ErrNotAdmin
		}
		if idx, err = reg.InsertRate(assetClass, rate); err != nil {
			return err
		}
		return r.setRegistrar(realm, reg)
	})
	if err != nil {
		logger.Info("create exchange rate failed", "realm", realm, "assetClass", assetClass, "error", err)
		return 0, err
	}

	logger.Info("created exchange rate", "realm", realm, "assetClass", assetClass, "idx", idx)
	return idx, nil
}

// CreateVoter sets up the deposit ledger of (realm, authority) and provisions
// the frozen voting-token account.
func (r *Registry) CreateVoter(realm gov.Bytes32, authority gov.Address) error {
	logger.Debug("creating voter", "realm", realm, "authority", authority)

	err := r.atomically("create_voter", func() error {
		reg, err := r.getRegistrar(realm)
		if err != nil {
			return err
		}
		if reg.IsEmpty() {
			return ErrRegistrarNotFound
		}
		v, err := r.getVoter(realm, authority)
		if err != nil {
			return err
		}
		if !v.IsEmpty() {
			return ErrVoterExists
		}
		// voting representation is non-transferable: the account spends its
		// life frozen, thawed only inside ledger operations
		if err := r.cust.Freeze(realmCred(realm), reg.VotingAsset, authority); err != nil {
			return err
		}
		return r.setVoter(realm, authority, &voter.Voter{
			Authority: authority,
			Realm:     realm,
		})
	})
	if err != nil {
		logger.Info("create voter failed", "realm", realm, "authority", authority, "error", err)
		return err
	}

	logger.Info("created voter", "realm", realm, "authority", authority)
	return nil
}

// CreateDeposit escrows amount units of assetClass and mints frozen voting
// representation at the asset's exchange rate. The lockup clock starts after
// the realm's warmup window. Entries bound to the same exchange rate are
// reused; the existing lockup is kept.
func (r *Registry) CreateDeposit(
	realm gov.Bytes32,
	authority, assetClass gov.Address,
	amount uint64,
	kind lockup.Kind,
	days uint32,
	now uint64,
) (uint8, error) {
	logger.Debug("creating deposit",
		"realm", realm,
		"authority", authority,
		"assetClass", assetClass,
		"amount", amount,
		"kind", lockup.KindName(kind),
		"days", days,
	)

	var id uint8
	err := r.atomically("create_deposit", func() error {
		if !lockup.IsValidKind(kind) {
			return ErrInvalidLockupKind
		}
		reg, err := r.getRegistrar(realm)
		if err != nil {
			return err
		}
		if reg.IsEmpty() {
			return ErrRegistrarNotFound
		}
		rateIdx, err := reg.FindRate(assetClass)
		if err != nil {
			return err
		}
		entry, err := reg.RateAt(rateIdx)
		if err != nil {
			return err
		}
		v, err := r.getVoter(realm, authority)
		if err != nil {
			return err
		}
		if v.IsEmpty() {
			return ErrVoterNotFound
		}

		lkp := lockup.New(kind, now+reg.WarmupSecs, days)
		if id, err = v.AllocateOrFind(rateIdx, lkp); err != nil {
			return err
		}
		scaled, err := v.Fund(id, amount, entry.Rate)
		if err != nil {
			return err
		}
		if err := r.setVoter(realm, authority, v); err != nil {
			return err
		}

		// escrow the deposit, then mint its voting representation
		if err := r.cust.Transfer(assetClass, authority, r.addr, amount); err != nil {
			return err
		}
		cred := realmCred(realm)
		if err := r.cust.Thaw(cred, reg.VotingAsset, authority); err != nil {
			return err
		}
		if err := r.cust.MintTo(cred, reg.VotingAsset, authority, scaled); err != nil {
			return err
		}
		return r.cust.Freeze(cred, reg.VotingAsset, authority)
	})
	if err != nil {
		logger.Info("create deposit failed", "realm", realm, "authority", authority, "error", err)
		return 0, err
	}

	logger.Info("created deposit", "realm", realm, "authority", authority, "id", id)
	return id, nil
}

// UpdateDeposit adds funds to an existing deposit entry at the exchange rate
// the entry is bound to.
func (r *Registry) UpdateDeposit(realm gov.Bytes32, authority gov.Address, id uint8, amount uint64) error {
	logger.Debug("updating deposit",
		"realm", realm,
		"authority", authority,
		"id", id,
		"amount", amount,
	)

	err := r.atomically("update_deposit", func() error {
		reg, err := r.getRegistrar(realm)
		if err != nil {
			return err
		}
		if reg.IsEmpty() {
			return ErrRegistrarNotFound
		}
		v, err := r.getVoter(realm, authority)
		if err != nil {
			return err
		}
		if v.IsEmpty() {
			return ErrVoterNotFound
		}
		entry, err := v.Entry(id)
		if err != nil {
			return err
		}
		rate, err := reg.RateAt(entry.RateIdx)
		if err != nil {
			return err
		}
		scaled, err := v.Fund(id, amount, rate.Rate)
		if err != nil {
			return err
		}
		if err := r.setVoter(realm, authority, v); err != nil {
			return err
		}

		if err := r.cust.Transfer(rate.AssetClass, authority, r.addr, amount); err != nil {
			return err
		}
		cred := realmCred(realm)
		if err := r.cust.Thaw(cred, reg.VotingAsset, authority); err != nil {
			return err
		}
		if err := r.cust.MintTo(cred, reg.VotingAsset, authority, scaled); err != nil {
			return err
		}
		return r.cust.Freeze(cred, reg.VotingAsset, authority)
	})
	if err != nil {
		logger.Info("update deposit failed", "realm", realm, "authority", authority, "id", id, "error", err)
		return err
	}

	logger.Info("updated deposit", "realm", realm, "authority", authority, "id", id)
	return nil
}

// Withdraw releases vested escrow back to the authority and burns the matching
// voting representation.
func (r *Registry) Withdraw(realm gov.Bytes32, authority gov.Address, id uint8, amount, now uint64) error {
	logger.Debug("withdrawing",
		"realm", realm,
		"authority", authority,
		"id", id,
		"amount", amount,
	)

	err := r.atomically("withdraw", func() error {
		reg, err := r.getRegistrar(realm)
		if err != nil {
			return err
		}
		if reg.IsEmpty() {
			return ErrRegistrarNotFound
		}
		v, err := r.getVoter(realm, authority)
		if err != nil {
			return err
		}
		if v.IsEmpty() {
			return ErrVoterNotFound
		}
		entry, err := v.Entry(id)
		if err != nil {
			return err
		}
		rate, err := reg.RateAt(entry.RateIdx)
		if err != nil {
			return err
		}
		burn, err := v.Withdraw(id, amount, rate.Rate, now)
		if err != nil {
			return err
		}
		if err := r.setVoter(realm, authority, v); err != nil {
			return err
		}

		if err := r.cust.Transfer(rate.AssetClass, r.addr, authority, amount); err != nil {
			return err
		}
		cred := realmCred(realm)
		if err := r.cust.Thaw(cred, reg.VotingAsset, authority); err != nil {
			return err
		}
		if err := r.cust.Burn(cred, reg.VotingAsset, authority, burn); err != nil {
			return err
		}
		return r.cust.Freeze(cred, reg.VotingAsset, authority)
	})
	if err != nil {
		logger.Info("withdraw failed", "realm", realm, "authority", authority, "id", id, "error", err)
		return err
	}

	logger.Info("withdrew", "realm", realm, "authority", authority, "id", id, "amount", amount)
	return nil
}

// ResetLockup restarts a deposit's lockup at now for the given number of days.
// The new window must strictly extend the remaining one.
func (r *Registry) ResetLockup(realm gov.Bytes32, authority gov.Address, id uint8, days uint32, now uint64) error {
	logger.Debug("resetting lockup",
		"realm", realm,
		"authority", authority,
		"id", id,
		"days", days,
	)

	err := r.atomically("reset_lockup", func() error {
		v, err := r.getVoter(realm, authority)
		if err != nil {
			return err
		}
		if v.IsEmpty() {
			return ErrVoterNotFound
		}
		if err := v.ResetLockup(id, days, now); err != nil {
			return err
		}
		return r.setVoter(realm, authority, v)
	})
	if err != nil {
		logger.Info("reset lockup failed", "realm", realm, "authority", authority, "id", id, "error", err)
		return err
	}

	logger.Info("reset lockup", "realm", realm, "authority", authority, "id", id, "days", days)
	return nil
}

// DecayVotingPower recomputes the authority's total voting weight at now and
// publishes it as the weight record expiring with the current time unit.
// Consumers read the record only through a publication made in the same time
// unit, so decayed weight can never be mistaken for current weight.
func (r *Registry) DecayVotingPower(realm gov.Bytes32, authority gov.Address, now uint64) (*voter.WeightRecord, error) {
	logger.Debug("decaying voting power", "realm", realm, "authority", authority, "now", now)

	var rec voter.WeightRecord
	err := r.atomically("decay_voting_power", func() error {
		v, err := r.getVoter(realm, authority)
		if err != nil {
			return err
		}
		if v.IsEmpty() {
			return ErrVoterNotFound
		}
		weight, err := v.TotalVotingWeight(now)
		if err != nil {
			return err
		}
		rec = voter.WeightRecord{
			VoterWeight:  weight,
			WeightExpiry: gov.TimeUnit(now),
		}
		return r.state.EncodeStorage(r.addr, weightKey(realm, authority), rec.Encode)
	})
	if err != nil {
		logger.Info("decay voting power failed", "realm", realm, "authority", authority, "error", err)
		return nil, err
	}

	metricWeights().Add(1)
	logger.Info("published voting weight",
		"realm", realm,
		"authority", authority,
		"weight", rec.VoterWeight,
		"expiry", rec.WeightExpiry,
	)
	return &rec, nil
}

// CloseVoter removes the deposit ledger of (realm, authority). It requires
// the custodied voting balance to be zero, which holds exactly when every
// funded amount has been withdrawn and its representation burned.
func (r *Registry) CloseVoter(realm gov.Bytes32, authority gov.Address) error {
	logger.Debug("closing voter", "realm", realm, "authority", authority)

	err := r.atomically("close_voter", func() error {
		reg, err := r.getRegistrar(realm)
		if err != nil {
			return err
		}
		if reg.IsEmpty() {
			return ErrRegistrarNotFound
		}
		v, err := r.getVoter(realm, authority)
		if err != nil {
			return err
		}
		if v.IsEmpty() {
			return ErrVoterNotFound
		}
		balance, err := r.cust.Balance(reg.VotingAsset, authority)
		if err != nil {
			return err
		}
		if balance != 0 {
			return ErrVotingTokenNonZero
		}
		// thawing the empty account clears its record on commit
		if err := r.cust.Thaw(realmCred(realm), reg.VotingAsset, authority); err != nil {
			return err
		}
		r.state.SetRawStorage(r.addr, voterKey(realm, authority), nil)
		r.state.SetRawStorage(r.addr, weightKey(realm, authority), nil)
		return nil
	})
	if err != nil {
		logger.Info("close voter failed", "realm", realm, "authority", authority, "error", err)
		return err
	}

	logger.Info("closed voter", "realm", realm, "authority", authority)
	return nil
}
