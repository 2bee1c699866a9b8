// Copyright (c) 2025 The RealmGov developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package voter

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/realmgov/registry/gov"
)

// WeightRecord is the published voting weight snapshot of a voter.
// Consumers must reject a record whose expiry does not match their own
// time unit; the publisher rewrites it immediately before consumption.
type WeightRecord struct {
	VoterWeight  uint64
	WeightExpiry uint64 // time unit the record is valid in
}

// Fresh returns whether the record may be consumed at now.
func (r *WeightRecord) Fresh(now uint64) bool {
	return gov.TimeUnit(now) == r.WeightExpiry
}

// IsEmpty returns whether the record is treated as nonexistent.
func (r *WeightRecord) IsEmpty() bool {
	return r.VoterWeight == 0 && r.WeightExpiry == 0
}

// Encode implements state.StorageEncoder.
func (r *WeightRecord) Encode() ([]byte, error) {
	if r.IsEmpty() {
		return nil, nil
	}
	return rlp.EncodeToBytes(r)
}

// Decode implements state.StorageDecoder.
func (r *WeightRecord) Decode(data []byte) error {
	if len(data) == 0 {
		*r = WeightRecord{}
		return nil
	}
	return rlp.DecodeBytes(data, r)
}
