// Copyright (c) 2025 The RealmGov developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/realmgov/registry/gov"
)

// assetRecord tracks one registered asset.
type assetRecord struct {
	Supply    uint64
	Authority gov.Bytes32
}

func (r *assetRecord) IsEmpty() bool {
	return r.Supply == 0 && r.Authority.IsZero()
}

// Encode implements state.StorageEncoder.
func (r *assetRecord) Encode() ([]byte, error) {
	if r.IsEmpty() {
		return nil, nil
	}
	return rlp.EncodeToBytes(r)
}

// Decode implements state.StorageDecoder.
func (r *assetRecord) Decode(data []byte) error {
	if len(data) == 0 {
		*r = assetRecord{}
		return nil
	}
	return rlp.DecodeBytes(data, r)
}

// accountRecord tracks one holder's balance of one asset.
type accountRecord struct {
	Balance uint64
	Frozen  bool
}

func (r *accountRecord) IsEmpty() bool {
	return r.Balance == 0 && !r.Frozen
}

// Encode implements state.StorageEncoder.
func (r *accountRecord) Encode() ([]byte, error) {
	if r.IsEmpty() {
		return nil, nil
	}
	return rlp.EncodeToBytes(r)
}

// Decode implements state.StorageDecoder.
func (r *accountRecord) Decode(data []byte) error {
	if len(data) == 0 {
		*r = accountRecord{}
		return nil
	}
	return rlp.DecodeBytes(data, r)
}
