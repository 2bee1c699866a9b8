// Copyright (c) 2025 The RealmGov developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gov

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	assert.NoError(t, err)
	assert.Equal(t, "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", addr.String())

	// without prefix
	addr2, err := ParseAddress("7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	assert.NoError(t, err)
	assert.Equal(t, addr, addr2)

	_, err = ParseAddress("0x7567d83b")
	assert.Error(t, err)

	_, err = ParseAddress("zz67d83b7b8d80addcb281a71d54fc7b3364ffed")
	assert.Error(t, err)
}

func TestAddressJSON(t *testing.T) {
	raw := `"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"`

	var addr Address
	assert.NoError(t, json.Unmarshal([]byte(raw), &addr))

	data, err := json.Marshal(&addr)
	assert.NoError(t, err)
	assert.Equal(t, raw, string(data))
}

func TestBytes32JSON(t *testing.T) {
	raw := `"0x00000000000000000000000000000000000000000000000000006d6173746572"`

	var b32 Bytes32
	assert.NoError(t, json.Unmarshal([]byte(raw), &b32))

	data, err := json.Marshal(&b32)
	assert.NoError(t, err)
	assert.Equal(t, raw, string(data))

	assert.False(t, b32.IsZero())
	assert.True(t, Bytes32{}.IsZero())
}

func TestBlake2b(t *testing.T) {
	// splitting the input must not change the checksum
	assert.Equal(t, Blake2b([]byte("realmgov")), Blake2b([]byte("realm"), []byte("gov")))
	assert.NotEqual(t, Blake2b([]byte("realm")), Blake2b([]byte("gov")))
}

func TestTimeUnit(t *testing.T) {
	assert.Equal(t, uint64(0), TimeUnit(9))
	assert.Equal(t, uint64(1), TimeUnit(10))
	assert.Equal(t, TimeUnit(100), TimeUnit(109))
	assert.NotEqual(t, TimeUnit(109), TimeUnit(110))
}
