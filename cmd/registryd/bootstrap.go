// Copyright (c) 2025 The RealmGov developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/realmgov/registry/gov"
	"github.com/realmgov/registry/log"
	"github.com/realmgov/registry/registry"
)

// bootstrapConfig declares the first realm written to a fresh ledger.
// Holdings listed under balances are minted by the realm's issuing
// credential so depositors have something to lock up.
type bootstrapConfig struct {
	Realm       string             `yaml:"realm"`
	Authority   string             `yaml:"authority"`
	VotingAsset string             `yaml:"votingAsset"`
	WarmupSecs  uint64             `yaml:"warmupSecs"`
	Rates       []bootstrapRate    `yaml:"rates"`
	Balances    []bootstrapBalance `yaml:"balances"`
}

type bootstrapRate struct {
	AssetClass string `yaml:"assetClass"`
	Rate       uint64 `yaml:"rate"`
}

type bootstrapBalance struct {
	AssetClass string `yaml:"assetClass"`
	Holder     string `yaml:"holder"`
	Amount     uint64 `yaml:"amount"`
}

func loadBootstrapConfig(path string) (*bootstrapConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open bootstrap file")
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var config bootstrapConfig
	if err := decoder.Decode(&config); err != nil {
		return nil, errors.Wrap(err, "decode bootstrap file")
	}
	return &config, nil
}

// bootstrapRealm writes the configured realm to the ledger. A realm already
// on the ledger is left untouched, so restarting with the same file is safe.
func bootstrapRealm(reg *registry.Registry, config *bootstrapConfig) error {
	realm, err := gov.ParseBytes32(config.Realm)
	if err != nil {
		return errors.Wrap(err, "realm")
	}
	authority, err := gov.ParseAddress(config.Authority)
	if err != nil {
		return errors.Wrap(err, "authority")
	}
	votingAsset, err := gov.ParseAddress(config.VotingAsset)
	if err != nil {
		return errors.Wrap(err, "votingAsset")
	}

	existing, err := reg.GetRegistrar(realm)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Info("realm already on ledger, skipping bootstrap", "realm", realm)
		return nil
	}

	if err := reg.CreateRegistrar(realm, authority, votingAsset, config.WarmupSecs); err != nil {
		return err
	}

	issuer := gov.Blake2b(realm.Bytes(), []byte("issuer"))
	for i, rate := range config.Rates {
		assetClass, err := gov.ParseAddress(rate.AssetClass)
		if err != nil {
			return errors.Wrapf(err, "rates[%d].assetClass", i)
		}
		idx, err := reg.CreateExchangeRate(realm, authority, assetClass, rate.Rate)
		if err != nil {
			return err
		}
		if err := reg.Custody().CreateAsset(assetClass, issuer); err != nil {
			return err
		}
		log.Debug("exchange rate bound", "idx", idx, "assetClass", assetClass, "rate", rate.Rate)
	}

	for i, balance := range config.Balances {
		assetClass, err := gov.ParseAddress(balance.AssetClass)
		if err != nil {
			return errors.Wrapf(err, "balances[%d].assetClass", i)
		}
		holder, err := gov.ParseAddress(balance.Holder)
		if err != nil {
			return errors.Wrapf(err, "balances[%d].holder", i)
		}
		if err := reg.Custody().MintTo(issuer, assetClass, holder, balance.Amount); err != nil {
			return err
		}
	}

	if err := reg.Commit(); err != nil {
		return err
	}
	log.Info("realm bootstrapped", "realm", realm, "authority", authority, "rates", len(config.Rates))
	return nil
}
