// Copyright (c) 2025 The RealmGov developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package weights exposes the voting weight publisher over HTTP: recomputing
// and publishing decayed weights, reading the current record and filtering
// the publication history.
package weights

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/realmgov/registry/api/utils"
	"github.com/realmgov/registry/cache"
	"github.com/realmgov/registry/gov"
	"github.com/realmgov/registry/registry"
	"github.com/realmgov/registry/voter"
	"github.com/realmgov/registry/weightdb"
)

type Weights struct {
	reg   *registry.Registry
	db    *weightdb.WeightDB
	cache *cache.LRU
	now   func() uint64
	limit uint64
}

// New creates the handler. Current-record reads are served through wcache;
// limit caps the number of history rows a single request may return.
func New(reg *registry.Registry, db *weightdb.WeightDB, wcache *cache.LRU, now func() uint64, limit uint64) *Weights {
	return &Weights{reg, db, wcache, now, limit}
}

// weightKey keys the read cache by time unit, so an entry can never
// outlive the epoch its freshness was computed in.
type weightKey struct {
	realm     gov.Bytes32
	authority gov.Address
	epoch     uint64
}

func parseRecordPath(req *http.Request) (gov.Bytes32, gov.Address, error) {
	vars := mux.Vars(req)
	realm, err := gov.ParseBytes32(vars["realm"])
	if err != nil {
		return gov.Bytes32{}, gov.Address{}, utils.BadRequest(errors.WithMessage(err, "realm"))
	}
	authority, err := gov.ParseAddress(vars["authority"])
	if err != nil {
		return gov.Bytes32{}, gov.Address{}, utils.BadRequest(errors.WithMessage(err, "authority"))
	}
	return realm, authority, nil
}

func (ws *Weights) handleGetWeight(w http.ResponseWriter, req *http.Request) error {
	realm, authority, err := parseRecordPath(req)
	if err != nil {
		return err
	}
	now := ws.now()

	v, err := ws.cache.GetOrLoad(weightKey{realm, authority, gov.TimeUnit(now)}, func(interface{}) (interface{}, error) {
		rec, err := ws.reg.GetWeightRecord(realm, authority)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, utils.NotFound(errors.New("weight record not found"))
		}
		return rec, nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertWeight(realm, authority, v.(*voter.WeightRecord), now))
}

func (ws *Weights) handlePublishWeight(w http.ResponseWriter, req *http.Request) error {
	realm, authority, err := parseRecordPath(req)
	if err != nil {
		return err
	}
	now := ws.now()

	rec, err := ws.reg.DecayVotingPower(realm, authority, now)
	if err != nil {
		return utils.ConvertLedgerError(err)
	}
	if err := ws.reg.Commit(); err != nil {
		return err
	}
	if err := ws.db.Insert([]*weightdb.Record{{
		Realm:       realm,
		Authority:   authority,
		Weight:      rec.VoterWeight,
		Expiry:      rec.WeightExpiry,
		PublishedAt: now,
	}}); err != nil {
		return err
	}
	ws.cache.Add(weightKey{realm, authority, gov.TimeUnit(now)}, rec)
	return utils.WriteJSON(w, convertWeight(realm, authority, rec, now))
}

func (ws *Weights) handleFilterHistory(w http.ResponseWriter, req *http.Request) error {
	var filter HistoryFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if filter.Range != nil {
		switch filter.Range.Unit {
		case "", weightdb.Time, weightdb.Epoch:
		default:
			return utils.BadRequest(errors.New("range.unit: invalid unit"))
		}
		if filter.Range.From > filter.Range.To {
			return utils.BadRequest(errors.New("range.from must not exceed range.to"))
		}
	}
	if filter.Options != nil && filter.Options.Limit > ws.limit {
		return utils.Forbidden(errors.New("options.limit exceeds the maximum allowed value of " + strconv.FormatUint(ws.limit, 10)))
	}
	if filter.Options == nil {
		// detect more rows than the default limit with one extra row
		filter.Options = &weightdb.Options{
			Offset: 0,
			Limit:  ws.limit + 1,
		}
	}

	items, err := ws.filter(req.Context(), &filter)
	if err != nil {
		return err
	}
	if len(items) > int(ws.limit) {
		return utils.Forbidden(errors.New("the number of filtered rows exceeds the maximum allowed value of " +
			strconv.FormatUint(ws.limit, 10) + ", please use pagination"))
	}
	return utils.WriteJSON(w, items)
}

func (ws *Weights) filter(ctx context.Context, filter *HistoryFilter) ([]*HistoryItem, error) {
	records, err := ws.db.Filter(ctx, &weightdb.Filter{
		Realm:     filter.Realm,
		Authority: filter.Authority,
		Range:     filter.Range,
		Options:   filter.Options,
		Order:     filter.Order,
	})
	if err != nil {
		return nil, err
	}
	items := make([]*HistoryItem, len(records))
	for i, rec := range records {
		items[i] = convertHistoryItem(rec)
	}
	return items, nil
}

func (ws *Weights) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/history").
		Methods(http.MethodPost).
		Name("POST /weights/history").
		HandlerFunc(utils.WrapHandlerFunc(ws.handleFilterHistory))
	sub.Path("/{realm}/{authority}").
		Methods(http.MethodGet).
		Name("GET /weights/{realm}/{authority}").
		HandlerFunc(utils.WrapHandlerFunc(ws.handleGetWeight))
	sub.Path("/{realm}/{authority}").
		Methods(http.MethodPost).
		Name("POST /weights/{realm}/{authority}").
		HandlerFunc(utils.WrapHandlerFunc(ws.handlePublishWeight))
}
