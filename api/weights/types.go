// Copyright (c) 2025 The RealmGov developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package weights

import (
	"github.com/realmgov/registry/gov"
	"github.com/realmgov/registry/voter"
	"github.com/realmgov/registry/weightdb"
)

// Weight is the API presentation of a published weight record. Fresh tells
// whether the record may be consumed in the current time unit.
type Weight struct {
	Realm     gov.Bytes32 `json:"realm"`
	Authority gov.Address `json:"authority"`
	Weight    uint64      `json:"weight"`
	Expiry    uint64      `json:"expiry"`
	Fresh     bool        `json:"fresh"`
}

// HistoryFilter selects rows of the weight publication history.
type HistoryFilter struct {
	Realm     *gov.Bytes32
	Authority *gov.Address
	Range     *weightdb.Range
	Options   *weightdb.Options
	Order     weightdb.Order
}

// HistoryItem is one weight publication.
type HistoryItem struct {
	Realm       gov.Bytes32 `json:"realm"`
	Authority   gov.Address `json:"authority"`
	Weight      uint64      `json:"weight"`
	Expiry      uint64      `json:"expiry"`
	PublishedAt uint64      `json:"publishedAt"`
}

func convertWeight(realm gov.Bytes32, authority gov.Address, rec *voter.WeightRecord, now uint64) *Weight {
	return &Weight{
		Realm:     realm,
		Authority: authority,
		Weight:    rec.VoterWeight,
		Expiry:    rec.WeightExpiry,
		Fresh:     rec.Fresh(now),
	}
}

func convertHistoryItem(rec *weightdb.Record) *HistoryItem {
	return &HistoryItem{
		Realm:       rec.Realm,
		Authority:   rec.Authority,
		Weight:      rec.Weight,
		Expiry:      rec.Expiry,
		PublishedAt: rec.PublishedAt,
	}
}
