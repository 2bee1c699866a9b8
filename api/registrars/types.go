// Copyright (c) 2025 The RealmGov developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registrars

import (
	"github.com/realmgov/registry/gov"
	"github.com/realmgov/registry/registrar"
)

// Registrar is the API presentation of a realm's configuration.
type Registrar struct {
	Realm       gov.Bytes32 `json:"realm"`
	Authority   gov.Address `json:"authority"`
	VotingAsset gov.Address `json:"votingAsset"`
	WarmupSecs  uint64      `json:"warmupSecs"`
	Rates       []Rate      `json:"rates"`
}

// Rate is one exchange rate table entry.
type Rate struct {
	Index      uint8       `json:"index"`
	AssetClass gov.Address `json:"assetClass"`
	Rate       uint64      `json:"rate"`
}

// CreateRegistrar is the payload setting up a realm.
type CreateRegistrar struct {
	Realm       gov.Bytes32 `json:"realm"`
	Authority   gov.Address `json:"authority"`
	VotingAsset gov.Address `json:"votingAsset"`
	WarmupSecs  uint64      `json:"warmupSecs"`
}

// CreateRate is the payload binding an asset class to an exchange rate.
// The declared authority must be the realm admin.
type CreateRate struct {
	Authority  gov.Address `json:"authority"`
	AssetClass gov.Address `json:"assetClass"`
	Rate       uint64      `json:"rate"`
}

func convertRegistrar(reg *registrar.Registrar) *Registrar {
	out := &Registrar{
		Realm:       reg.Realm,
		Authority:   reg.Authority,
		VotingAsset: reg.VotingAsset,
		WarmupSecs:  reg.WarmupSecs,
		Rates:       make([]Rate, 0),
	}
	for i := range reg.Rates {
		entry := &reg.Rates[i]
		if entry.IsEmpty() {
			continue
		}
		out.Rates = append(out.Rates, Rate{
			Index:      uint8(i),
			AssetClass: entry.AssetClass,
			Rate:       entry.Rate,
		})
	}
	return out
}
