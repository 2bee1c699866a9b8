// Copyright (c) 2025 The RealmGov developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/realmgov/registry/gov"
)

// StorageEncoder implement it to customize encoding process for storage data.
type StorageEncoder interface {
	Encode() ([]byte, error)
}

// StorageDecoder implement it to customize decoding process for storage data.
type StorageDecoder interface {
	Decode([]byte) error
}

type stgBytes32 gov.Bytes32

var (
	_ StorageEncoder = (*stgBytes32)(nil)
	_ StorageDecoder = (*stgBytes32)(nil)
)

// implements StorageEncoder.
func (b *stgBytes32) Encode() ([]byte, error) {
	if (*gov.Bytes32)(b).IsZero() {
		return nil, nil
	}
	trimmed, _ := rlp.EncodeToBytes(bytes.TrimLeft(b[:], "\x00"))
	return trimmed, nil
}

// implements StorageDecoder.
func (b *stgBytes32) Decode(data []byte) error {
	if len(data) == 0 {
		*b = stgBytes32{}
		return nil
	}
	_, content, _, err := rlp.Split(data)
	if err != nil {
		return err
	}
	*b = stgBytes32(gov.BytesToBytes32(content))
	return nil
}
