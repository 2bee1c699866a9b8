// Copyright (c) 2025 The RealmGov developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registrars_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realmgov/registry/api/registrars"
	"github.com/realmgov/registry/gov"
	"github.com/realmgov/registry/lvldb"
	"github.com/realmgov/registry/registry"
	"github.com/realmgov/registry/state"
)

var (
	ledgerAddr  = gov.BytesToAddress([]byte("ledger"))
	votingAsset = gov.BytesToAddress([]byte("voting-asset"))
	tokenA      = gov.BytesToAddress([]byte("token-a"))
	admin       = gov.BytesToAddress([]byte("admin"))
	alice       = gov.BytesToAddress([]byte("alice"))

	testRealm = gov.Blake2b([]byte("test-realm"))
)

func initRegistrarServer(t *testing.T) *httptest.Server {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	reg := registry.New(ledgerAddr, state.New(db))

	router := mux.NewRouter()
	registrars.New(reg).Mount(router, "/registrars")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func httpPost(t *testing.T, url string, payload interface{}) (int, []byte) {
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	r, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	return res.StatusCode, r
}

func httpGet(t *testing.T, url string) (int, []byte) {
	res, err := http.Get(url)
	require.NoError(t, err)
	r, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	return res.StatusCode, r
}

func TestCreateAndGetRegistrar(t *testing.T) {
	ts := initRegistrarServer(t)

	code, body := httpPost(t, ts.URL+"/registrars", &registrars.CreateRegistrar{
		Realm:       testRealm,
		Authority:   admin,
		VotingAsset: votingAsset,
		WarmupSecs:  3600,
	})
	require.Equal(t, http.StatusOK, code, string(body))

	var created registrars.Registrar
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, testRealm, created.Realm)
	assert.Equal(t, admin, created.Authority)
	assert.Equal(t, votingAsset, created.VotingAsset)
	assert.Equal(t, uint64(3600), created.WarmupSecs)
	assert.Empty(t, created.Rates)

	code, body = httpGet(t, ts.URL+"/registrars/"+testRealm.String())
	require.Equal(t, http.StatusOK, code)
	var got registrars.Registrar
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, created, got)

	// one registrar per realm
	code, _ = httpPost(t, ts.URL+"/registrars", &registrars.CreateRegistrar{
		Realm:       testRealm,
		Authority:   admin,
		VotingAsset: votingAsset,
	})
	assert.Equal(t, http.StatusConflict, code)
}

func TestCreateRegistrarRejectsZeroFields(t *testing.T) {
	ts := initRegistrarServer(t)

	for _, payload := range []*registrars.CreateRegistrar{
		{Authority: admin, VotingAsset: votingAsset},
		{Realm: testRealm, VotingAsset: votingAsset},
		{Realm: testRealm, Authority: admin},
	} {
		code, _ := httpPost(t, ts.URL+"/registrars", payload)
		assert.Equal(t, http.StatusBadRequest, code)
	}
}

func TestGetRegistrarNotFound(t *testing.T) {
	ts := initRegistrarServer(t)

	code, _ := httpGet(t, ts.URL+"/registrars/"+gov.Blake2b([]byte("other")).String())
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = httpGet(t, ts.URL+"/registrars/not-hex")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRates(t *testing.T) {
	ts := initRegistrarServer(t)

	code, _ := httpPost(t, ts.URL+"/registrars", &registrars.CreateRegistrar{
		Realm:       testRealm,
		Authority:   admin,
		VotingAsset: votingAsset,
	})
	require.Equal(t, http.StatusOK, code)

	// the exchange rate table is admin only
	code, _ = httpPost(t, ts.URL+"/registrars/"+testRealm.String()+"/rates", &registrars.CreateRate{
		Authority:  alice,
		AssetClass: tokenA,
		Rate:       2,
	})
	assert.Equal(t, http.StatusForbidden, code)

	code, body := httpPost(t, ts.URL+"/registrars/"+testRealm.String()+"/rates", &registrars.CreateRate{
		Authority:  admin,
		AssetClass: tokenA,
		Rate:       2,
	})
	require.Equal(t, http.StatusOK, code, string(body))
	var rate registrars.Rate
	require.NoError(t, json.Unmarshal(body, &rate))
	assert.Equal(t, uint8(0), rate.Index)
	assert.Equal(t, tokenA, rate.AssetClass)
	assert.Equal(t, uint64(2), rate.Rate)

	// a bound asset class cannot be rebound
	code, _ = httpPost(t, ts.URL+"/registrars/"+testRealm.String()+"/rates", &registrars.CreateRate{
		Authority:  admin,
		AssetClass: tokenA,
		Rate:       3,
	})
	assert.Equal(t, http.StatusConflict, code)

	code, body = httpGet(t, ts.URL+"/registrars/"+testRealm.String()+"/rates")
	require.Equal(t, http.StatusOK, code)
	var rates []registrars.Rate
	require.NoError(t, json.Unmarshal(body, &rates))
	require.Len(t, rates, 1)
	assert.Equal(t, rate, rates[0])
}
