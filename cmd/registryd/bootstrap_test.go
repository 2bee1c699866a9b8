// Copyright (c) 2025 The RealmGov developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/realmgov/registry/gov"
	"github.com/realmgov/registry/lvldb"
	"github.com/realmgov/registry/registry"
	"github.com/realmgov/registry/state"
)

func writeBootstrapFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "realm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestBootstrapRealm(t *testing.T) {
	realm := gov.Blake2b([]byte("genesis-realm"))
	admin := gov.BytesToAddress([]byte("admin"))
	votingAsset := gov.BytesToAddress([]byte("vote-token"))
	tokenA := gov.BytesToAddress([]byte("token-a"))
	alice := gov.BytesToAddress([]byte("alice"))

	path := writeBootstrapFile(t, fmt.Sprintf(`
realm: %v
authority: %v
votingAsset: %v
warmupSecs: 60
rates:
  - assetClass: %v
    rate: 2
balances:
  - assetClass: %v
    holder: %v
    amount: 1000
`, realm, admin, votingAsset, tokenA, tokenA, alice))

	config, err := loadBootstrapConfig(path)
	require.NoError(t, err)
	require.Equal(t, uint64(60), config.WarmupSecs)
	require.Len(t, config.Rates, 1)

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	reg := registry.New(ledgerAddr, state.New(db))

	require.NoError(t, bootstrapRealm(reg, config))

	r, err := reg.GetRegistrar(realm)
	require.NoError(t, err)
	require.NotNil(t, r)
	require.Equal(t, admin, r.Authority)
	require.Equal(t, votingAsset, r.VotingAsset)
	require.Equal(t, uint64(60), r.WarmupSecs)

	idx, err := r.FindRate(tokenA)
	require.NoError(t, err)
	entry, err := r.RateAt(idx)
	require.NoError(t, err)
	require.Equal(t, uint64(2), entry.Rate)

	balance, err := reg.Custody().Balance(tokenA, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), balance)

	// a realm already on the ledger is left untouched
	require.NoError(t, bootstrapRealm(reg, config))

	balance, err = reg.Custody().Balance(tokenA, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), balance)
}

func TestLoadBootstrapConfigRejectsUnknownFields(t *testing.T) {
	path := writeBootstrapFile(t, "realm: 0x00\nbogus: 1\n")

	_, err := loadBootstrapConfig(path)
	require.Error(t, err)
}

func TestBootstrapRealmRejectsBadAddresses(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	reg := registry.New(ledgerAddr, state.New(db))

	err = bootstrapRealm(reg, &bootstrapConfig{Realm: "not-hex"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "realm")
}
