// Copyright (c) 2025 The RealmGov developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// registryd runs the voting-power registry: a ledger of locked governance
// deposits, their vesting schedules and the voting weight derived from them.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/realmgov/registry/admin"
	"github.com/realmgov/registry/api"
	"github.com/realmgov/registry/cmd/registryd/httpserver"
	"github.com/realmgov/registry/co"
	"github.com/realmgov/registry/gov"
	"github.com/realmgov/registry/log"
	"github.com/realmgov/registry/lvldb"
	"github.com/realmgov/registry/metrics"
	"github.com/realmgov/registry/registry"
	"github.com/realmgov/registry/state"
	"github.com/realmgov/registry/weightdb"
)

var (
	version   string
	gitCommit string
	gitTag    string

	// ledgerAddr is the well-known address ledger records and escrowed
	// balances are kept under.
	ledgerAddr = gov.BytesToAddress([]byte("voting-registry"))
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Registry",
		Usage:     "Node of the RealmGov voting-power registry",
		Copyright: "2025 The RealmGov developers",
		Flags: []cli.Flag{
			dataDirFlag,
			bootstrapFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiWeightsLimitFlag,
			enableAPILogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			pprofFlag,
			cacheFlag,
			persistFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { log.Info("exited") }()

	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return errors.Wrap(err, "parse verbosity flag")
	}
	logLevel := initLogger(lvl, ctx.Bool(jsonLogsFlag.Name))

	var (
		mainDB      *lvldb.LevelDB
		weightDB    *weightdb.WeightDB
		instanceDir string
	)
	if ctx.Bool(persistFlag.Name) {
		instanceDir = makeInstanceDir(ctx)
		mainDB = openMainDB(ctx, instanceDir)
		weightDB = openWeightDB(instanceDir)
	} else {
		instanceDir = "Memory"
		mainDB = openMemMainDB()
		weightDB = openMemWeightDB()
	}
	defer func() { log.Info("closing main database..."); mainDB.Close() }()
	defer func() { log.Info("closing weight history database..."); weightDB.Close() }()

	reg := registry.New(ledgerAddr, state.New(mainDB))

	if path := ctx.String(bootstrapFlag.Name); path != "" {
		config, err := loadBootstrapConfig(path)
		if err != nil {
			return err
		}
		if err := bootstrapRealm(reg, config); err != nil {
			return errors.Wrap(err, "bootstrap realm")
		}
	}

	weightCache := newWeightCache()
	now := func() uint64 { return uint64(time.Now().Unix()) }

	apiHandler := api.New(reg, weightDB, weightCache, now, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		WeightsLimit:    ctx.Uint64(apiWeightsLimitFlag.Name),
		PprofOn:         ctx.Bool(pprofFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
	})

	apiURL, apiCloser := startAPIServer(ctx, apiHandler)
	defer func() { log.Info("stopping API server..."); apiCloser() }()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return fmt.Errorf("unable to start metrics server - %w", err)
		}
		log.Info("metrics server started", "url", url)
		defer closeFunc()
	}

	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := admin.StartServer(ctx.String(adminAddrFlag.Name), logLevel)
		if err != nil {
			return fmt.Errorf("unable to start admin server - %w", err)
		}
		log.Info("admin server started", "url", url)
		defer closeFunc()
	}

	printStartupMessage(instanceDir, apiURL)

	exitSignal := handleExitSignal()

	var goes co.Goes
	goes.Go(func() { houseKeeping(exitSignal, weightCache) })
	defer goes.Wait()

	<-exitSignal.Done()
	return nil
}
