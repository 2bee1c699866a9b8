// Copyright (c) 2025 The RealmGov developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api assembles the HTTP surface of the registry: realm configuration,
// deposit ledgers and the weight publisher, mounted on one router.
package api

import (
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/realmgov/registry/api/registrars"
	"github.com/realmgov/registry/api/voters"
	"github.com/realmgov/registry/api/weights"
	"github.com/realmgov/registry/cache"
	"github.com/realmgov/registry/log"
	"github.com/realmgov/registry/registry"
	"github.com/realmgov/registry/weightdb"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	WeightsLimit    uint64
	PprofOn         bool
	EnableReqLogger bool
	EnableMetrics   bool
}

// New returns the assembled api handler. now supplies the ledger clock in
// unix seconds; weightCache backs current-weight reads.
func New(
	reg *registry.Registry,
	weightDB *weightdb.WeightDB,
	weightCache *cache.LRU,
	now func() uint64,
	opts Options,
) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	registrars.New(reg).
		Mount(router, "/registrars")
	voters.New(reg, now).
		Mount(router, "/voters")
	weights.New(reg, weightDB, weightCache, now, opts.WeightsLimit).
		Mount(router, "/weights")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP
}
