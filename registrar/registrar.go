// Copyright (c) 2025 The RealmGov developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registrar defines the per-realm root configuration record and its
// fixed capacity exchange rate table.
package registrar

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/realmgov/registry/gov"
	"github.com/realmgov/registry/reverts"
)

var (
	ErrInvalidRate    = reverts.New("exchange rate must be positive")
	ErrRatesFull      = reverts.New("exchange rate table is full")
	ErrDuplicateAsset = reverts.New("asset class already has an exchange rate")
	ErrRateNotFound   = reverts.New("exchange rate entry not found")
)

// ExchangeRateEntry binds a deposit asset class to the number of voting units
// granted per native unit. A zero rate marks a free slot.
type ExchangeRateEntry struct {
	AssetClass gov.Address
	Rate       uint64
}

// IsEmpty returns whether the slot is free.
func (e *ExchangeRateEntry) IsEmpty() bool {
	return e.Rate == 0
}

// Registrar is the root configuration of one realm.
type Registrar struct {
	Realm       gov.Bytes32
	Authority   gov.Address
	VotingAsset gov.Address
	WarmupSecs  uint64
	Rates       [gov.MaxExchangeRates]ExchangeRateEntry
}

// IsEmpty returns whether the record is treated as nonexistent.
func (r *Registrar) IsEmpty() bool {
	return r.Authority.IsZero()
}

// Encode implements state.StorageEncoder.
func (r *Registrar) Encode() ([]byte, error) {
	if r.IsEmpty() {
		return nil, nil
	}
	return rlp.EncodeToBytes(r)
}

// Decode implements state.StorageDecoder.
func (r *Registrar) Decode(data []byte) error {
	if len(data) == 0 {
		*r = Registrar{}
		return nil
	}
	return rlp.DecodeBytes(data, r)
}

// InsertRate binds assetClass to rate in the first free slot and returns the
// slot index. Once set, a binding is immutable and its index stable.
func (r *Registrar) InsertRate(assetClass gov.Address, rate uint64) (uint8, error) {
	if rate == 0 {
		return 0, ErrInvalidRate
	}
	free := -1
	for i := range r.Rates {
		e := &r.Rates[i]
		if e.IsEmpty() {
			if free < 0 {
				free = i
			}
			continue
		}
		if e.AssetClass == assetClass {
			return 0, ErrDuplicateAsset
		}
	}
	if free < 0 {
		return 0, ErrRatesFull
	}
	r.Rates[free] = ExchangeRateEntry{assetClass, rate}
	return uint8(free), nil
}

// FindRate returns the slot index bound to assetClass.
func (r *Registrar) FindRate(assetClass gov.Address) (uint8, error) {
	for i := range r.Rates {
		if e := &r.Rates[i]; !e.IsEmpty() && e.AssetClass == assetClass {
			return uint8(i), nil
		}
	}
	return 0, ErrRateNotFound
}

// RateAt returns the entry at slot idx.
func (r *Registrar) RateAt(idx uint8) (*ExchangeRateEntry, error) {
	if int(idx) >= len(r.Rates) || r.Rates[idx].IsEmpty() {
		return nil, ErrRateNotFound
	}
	return &r.Rates[idx], nil
}

// UsedRates returns the bound entries in slot order.
func (r *Registrar) UsedRates() []ExchangeRateEntry {
	used := make([]ExchangeRateEntry, 0, len(r.Rates))
	for i := range r.Rates {
		if !r.Rates[i].IsEmpty() {
			used = append(used, r.Rates[i])
		}
	}
	return used
}
