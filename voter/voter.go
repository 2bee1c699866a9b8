// Copyright (c) 2025 The RealmGov developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package voter defines the per-participant deposit ledger and the voting
// weight derivation over it.
package voter

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/realmgov/registry/gov"
	"github.com/realmgov/registry/lockup"
	"github.com/realmgov/registry/reverts"
)

var (
	ErrDepositEntryFull   = reverts.New("deposit ledger is full")
	ErrInvalidDepositID   = reverts.New("deposit entry not in use")
	ErrInsufficientVested = reverts.New("insufficient vested tokens")
	ErrInvalidDays        = reverts.New("lockup days must exceed days left")
	ErrOverflow           = reverts.New("arithmetic overflow")
)

// DepositEntry tracks one asset class custodied for a voter.
// AmountDeposited and AmountScaled are lifetime funding accumulators and
// never decrease; withdrawal only grows AmountWithdrawn.
type DepositEntry struct {
	InUse           bool
	RateIdx         uint8
	AmountDeposited uint64 // native units ever funded
	AmountWithdrawn uint64 // native units ever withdrawn
	AmountScaled    uint64 // voting units ever minted for this entry
	Lockup          lockup.Lockup
}

// Remaining returns the native units still held in custody.
func (e *DepositEntry) Remaining() uint64 {
	return e.AmountDeposited - e.AmountWithdrawn
}

// Withdrawable returns the native units releasable at now: the vested
// portion, less what already left, capped by what remains.
func (e *DepositEntry) Withdrawable(now uint64) uint64 {
	vested := e.Lockup.VestedAmount(e.AmountDeposited, now)
	if vested <= e.AmountWithdrawn {
		return 0
	}
	return min(vested-e.AmountWithdrawn, e.Remaining())
}

// Voter is the deposit ledger of one authority within one realm.
type Voter struct {
	Authority gov.Address
	Realm     gov.Bytes32
	Deposits  [gov.MaxDeposits]DepositEntry
}

// IsEmpty returns whether the record is treated as nonexistent.
func (v *Voter) IsEmpty() bool {
	return v.Authority.IsZero()
}

// Encode implements state.StorageEncoder.
func (v *Voter) Encode() ([]byte, error) {
	if v.IsEmpty() {
		return nil, nil
	}
	return rlp.EncodeToBytes(v)
}

// Decode implements state.StorageDecoder.
func (v *Voter) Decode(data []byte) error {
	if len(data) == 0 {
		*v = Voter{}
		return nil
	}
	return rlp.DecodeBytes(data, v)
}

// Entry returns the in-use entry with the given id.
func (v *Voter) Entry(id uint8) (*DepositEntry, error) {
	if int(id) >= len(v.Deposits) || !v.Deposits[id].InUse {
		return nil, ErrInvalidDepositID
	}
	return &v.Deposits[id], nil
}

// Used returns the ids of all in-use entries in slot order.
func (v *Voter) Used() []uint8 {
	used := make([]uint8, 0, len(v.Deposits))
	for i := range v.Deposits {
		if v.Deposits[i].InUse {
			used = append(used, uint8(i))
		}
	}
	return used
}

// AllocateOrFind returns the id of the in-use entry bound to rateIdx,
// activating the first free slot when none exists. A fresh activation
// installs lkp; a reused entry keeps its existing lockup untouched.
func (v *Voter) AllocateOrFind(rateIdx uint8, lkp lockup.Lockup) (uint8, error) {
	free := -1
	for i := range v.Deposits {
		e := &v.Deposits[i]
		if e.InUse {
			if e.RateIdx == rateIdx {
				return uint8(i), nil
			}
			continue
		}
		if free < 0 {
			free = i
		}
	}
	if free < 0 {
		return 0, ErrDepositEntryFull
	}
	v.Deposits[free] = DepositEntry{InUse: true, RateIdx: rateIdx, Lockup: lkp}
	return uint8(free), nil
}

// Fund grows the entry by native units converted at rate.
// It returns the voting units to mint.
func (v *Voter) Fund(id uint8, native, rate uint64) (uint64, error) {
	e, err := v.Entry(id)
	if err != nil {
		return 0, err
	}

	scaled, overflow := math.SafeMul(native, rate)
	if overflow {
		return 0, ErrOverflow
	}
	deposited, overflow := math.SafeAdd(e.AmountDeposited, native)
	if overflow {
		return 0, ErrOverflow
	}
	totalScaled, overflow := math.SafeAdd(e.AmountScaled, scaled)
	if overflow {
		return 0, ErrOverflow
	}

	e.AmountDeposited = deposited
	e.AmountScaled = totalScaled
	return scaled, nil
}

// Withdraw releases native units from the entry, gated by vesting.
// It returns the voting units to burn.
func (v *Voter) Withdraw(id uint8, native, rate, now uint64) (uint64, error) {
	e, err := v.Entry(id)
	if err != nil {
		return 0, err
	}
	if native > e.Withdrawable(now) {
		return 0, ErrInsufficientVested
	}

	burn, overflow := math.SafeMul(native, rate)
	if overflow {
		return 0, ErrOverflow
	}
	e.AmountWithdrawn += native
	return burn, nil
}

// ResetLockup restarts the entry's lockup at now for the given number of
// days. The new duration must strictly exceed the days left, so a lockup can
// only ever be extended.
func (v *Voter) ResetLockup(id uint8, days uint32, now uint64) error {
	e, err := v.Entry(id)
	if err != nil {
		return err
	}
	if uint64(days) <= e.Lockup.DaysLeft(now) {
		return ErrInvalidDays
	}
	e.Lockup = lockup.New(e.Lockup.Kind, now, days)
	return nil
}

// TotalVotingWeight sums the decayed weight of all in-use entries at now.
func (v *Voter) TotalVotingWeight(now uint64) (uint64, error) {
	var total uint64
	for i := range v.Deposits {
		e := &v.Deposits[i]
		if !e.InUse {
			continue
		}
		contribution := e.Lockup.Multiplier(now).Apply(e.AmountScaled)

		var overflow bool
		total, overflow = math.SafeAdd(total, contribution)
		if overflow {
			return 0, ErrOverflow
		}
	}
	return total, nil
}
