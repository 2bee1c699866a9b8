// Copyright (c) 2025 The RealmGov developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realmgov/registry/gov"
	"github.com/realmgov/registry/lvldb"
)

func newTestState(t *testing.T) (*State, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func TestStorage(t *testing.T) {
	st, _ := newTestState(t)

	addr := gov.BytesToAddress([]byte("addr"))
	key := gov.Blake2b([]byte("key"))
	value := gov.Blake2b([]byte("value"))

	// absent key reads as empty
	got, err := st.GetStorage(addr, key)
	assert.NoError(t, err)
	assert.True(t, got.IsZero())

	st.SetStorage(addr, key, value)
	got, err = st.GetStorage(addr, key)
	assert.NoError(t, err)
	assert.Equal(t, value, got)

	// zero value clears the record
	st.SetStorage(addr, key, gov.Bytes32{})
	raw, err := st.GetRawStorage(addr, key)
	assert.NoError(t, err)
	assert.Len(t, raw, 0)
}

func TestCheckpointRevert(t *testing.T) {
	st, _ := newTestState(t)

	addr := gov.BytesToAddress([]byte("addr"))
	key := gov.Blake2b([]byte("key"))
	v1 := gov.Blake2b([]byte("v1"))
	v2 := gov.Blake2b([]byte("v2"))

	st.NewCheckpoint()
	st.SetStorage(addr, key, v1)

	cp := st.NewCheckpoint()
	st.SetStorage(addr, key, v2)

	got, err := st.GetStorage(addr, key)
	assert.NoError(t, err)
	assert.Equal(t, v2, got)

	st.RevertTo(cp)
	got, err = st.GetStorage(addr, key)
	assert.NoError(t, err)
	assert.Equal(t, v1, got)

	st.RevertTo(0)
	got, err = st.GetStorage(addr, key)
	assert.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestCommit(t *testing.T) {
	st, db := newTestState(t)

	addr := gov.BytesToAddress([]byte("addr"))
	keep := gov.Blake2b([]byte("keep"))
	drop := gov.Blake2b([]byte("drop"))
	value := gov.Blake2b([]byte("value"))

	st.NewCheckpoint()
	st.SetStorage(addr, keep, value)
	st.SetStorage(addr, drop, value)
	require.NoError(t, st.Commit())

	// reopen over the same store
	st2 := New(db)
	got, err := st2.GetStorage(addr, keep)
	assert.NoError(t, err)
	assert.Equal(t, value, got)

	// deleting writes through as removal
	st2.NewCheckpoint()
	st2.SetStorage(addr, drop, gov.Bytes32{})
	require.NoError(t, st2.Commit())

	has, err := db.Has(storageKey{addr, drop}.storeKey())
	assert.NoError(t, err)
	assert.False(t, has)

	has, err = db.Has(storageKey{addr, keep}.storeKey())
	assert.NoError(t, err)
	assert.True(t, has)
}

func TestEncodeDecodeStorage(t *testing.T) {
	st, _ := newTestState(t)

	addr := gov.BytesToAddress([]byte("addr"))
	key := gov.Blake2b([]byte("key"))

	type record struct {
		A uint64
		B []byte
	}

	st.NewCheckpoint()
	err := st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(&record{42, []byte("x")})
	})
	assert.NoError(t, err)

	var decoded record
	err = st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &decoded)
	})
	assert.NoError(t, err)
	assert.Equal(t, record{42, []byte("x")}, decoded)

	// decoder errors surface as state errors
	st.SetRawStorage(addr, key, rlp.RawValue{0xFF})
	err = st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &decoded)
	})
	assert.Error(t, err)
	assert.IsType(t, &Error{}, err)
}
