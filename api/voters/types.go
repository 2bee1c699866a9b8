// Copyright (c) 2025 The RealmGov developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package voters

import (
	"github.com/realmgov/registry/gov"
	"github.com/realmgov/registry/lockup"
	"github.com/realmgov/registry/registrar"
	"github.com/realmgov/registry/voter"
)

// Voter is the API presentation of a deposit ledger.
type Voter struct {
	Realm         gov.Bytes32 `json:"realm"`
	Authority     gov.Address `json:"authority"`
	VotingBalance uint64      `json:"votingBalance"`
	Deposits      []Deposit   `json:"deposits"`
}

// Deposit is the API presentation of one deposit entry.
type Deposit struct {
	ID              uint8       `json:"id"`
	AssetClass      gov.Address `json:"assetClass"`
	Rate            uint64      `json:"rate"`
	AmountDeposited uint64      `json:"amountDeposited"`
	AmountWithdrawn uint64      `json:"amountWithdrawn"`
	AmountScaled    uint64      `json:"amountScaled"`
	Remaining       uint64      `json:"remaining"`
	Withdrawable    uint64      `json:"withdrawable"`
	Lockup          Lockup      `json:"lockup"`
}

// Lockup is the API presentation of a vesting schedule.
type Lockup struct {
	Kind     string `json:"kind"`
	StartTS  uint64 `json:"startTs"`
	EndTS    uint64 `json:"endTs"`
	DaysLeft uint64 `json:"daysLeft"`
}

// CreateVoter is the payload opening a deposit ledger.
type CreateVoter struct {
	Realm     gov.Bytes32 `json:"realm"`
	Authority gov.Address `json:"authority"`
}

// CreateDeposit is the payload escrowing funds into a deposit entry.
type CreateDeposit struct {
	AssetClass gov.Address `json:"assetClass"`
	Amount     uint64      `json:"amount"`
	Kind       string      `json:"kind"`
	Days       uint32      `json:"days"`
}

// UpdateDeposit is the payload adding funds to an existing deposit entry.
type UpdateDeposit struct {
	Amount uint64 `json:"amount"`
}

// Withdraw is the payload releasing vested funds.
type Withdraw struct {
	Amount uint64 `json:"amount"`
}

// ResetLockup is the payload restarting a deposit's vesting schedule.
type ResetLockup struct {
	Days uint32 `json:"days"`
}

func convertDeposit(id uint8, entry *voter.DepositEntry, rate *registrar.ExchangeRateEntry, now uint64) Deposit {
	return Deposit{
		ID:              id,
		AssetClass:      rate.AssetClass,
		Rate:            rate.Rate,
		AmountDeposited: entry.AmountDeposited,
		AmountWithdrawn: entry.AmountWithdrawn,
		AmountScaled:    entry.AmountScaled,
		Remaining:       entry.Remaining(),
		Withdrawable:    entry.Withdrawable(now),
		Lockup: Lockup{
			Kind:     lockup.KindName(entry.Lockup.Kind),
			StartTS:  entry.Lockup.StartTS,
			EndTS:    entry.Lockup.EndTS,
			DaysLeft: entry.Lockup.DaysLeft(now),
		},
	}
}

func convertVoter(v *voter.Voter, reg *registrar.Registrar, votingBalance, now uint64) (*Voter, error) {
	out := &Voter{
		Realm:         v.Realm,
		Authority:     v.Authority,
		VotingBalance: votingBalance,
		Deposits:      make([]Deposit, 0),
	}
	for _, id := range v.Used() {
		entry, err := v.Entry(id)
		if err != nil {
			return nil, err
		}
		rate, err := reg.RateAt(entry.RateIdx)
		if err != nil {
			return nil, err
		}
		out.Deposits = append(out.Deposits, convertDeposit(id, entry, rate, now))
	}
	return out, nil
}
