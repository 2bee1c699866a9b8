// Copyright (c) 2025 The RealmGov developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registrars exposes realm configuration over HTTP: setting up
// registrars and their exchange rate tables, and reading them back.
//
// The service trusts the authority declared in request payloads; deployments
// are expected to authenticate callers upstream.
package registrars

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/realmgov/registry/api/utils"
	"github.com/realmgov/registry/gov"
	"github.com/realmgov/registry/registry"
)

type Registrars struct {
	reg *registry.Registry
}

func New(reg *registry.Registry) *Registrars {
	return &Registrars{reg}
}

func (r *Registrars) handleCreateRegistrar(w http.ResponseWriter, req *http.Request) error {
	var payload CreateRegistrar
	if err := utils.ParseJSON(req.Body, &payload); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if payload.Realm.IsZero() {
		return utils.BadRequest(errors.New("realm: zero not allowed"))
	}
	if payload.Authority.IsZero() {
		return utils.BadRequest(errors.New("authority: zero not allowed"))
	}
	if payload.VotingAsset.IsZero() {
		return utils.BadRequest(errors.New("votingAsset: zero not allowed"))
	}

	if err := r.reg.CreateRegistrar(payload.Realm, payload.Authority, payload.VotingAsset, payload.WarmupSecs); err != nil {
		return utils.ConvertLedgerError(err)
	}
	if err := r.reg.Commit(); err != nil {
		return err
	}

	created, err := r.reg.GetRegistrar(payload.Realm)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertRegistrar(created))
}

func (r *Registrars) handleGetRegistrar(w http.ResponseWriter, req *http.Request) error {
	realm, err := gov.ParseBytes32(mux.Vars(req)["realm"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "realm"))
	}
	reg, err := r.reg.GetRegistrar(realm)
	if err != nil {
		return err
	}
	if reg == nil {
		return utils.NotFound(errors.New("registrar not found"))
	}
	return utils.WriteJSON(w, convertRegistrar(reg))
}

func (r *Registrars) handleCreateRate(w http.ResponseWriter, req *http.Request) error {
	realm, err := gov.ParseBytes32(mux.Vars(req)["realm"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "realm"))
	}
	var payload CreateRate
	if err := utils.ParseJSON(req.Body, &payload); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	idx, err := r.reg.CreateExchangeRate(realm, payload.Authority, payload.AssetClass, payload.Rate)
	if err != nil {
		return utils.ConvertLedgerError(err)
	}
	if err := r.reg.Commit(); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Rate{
		Index:      idx,
		AssetClass: payload.AssetClass,
		Rate:       payload.Rate,
	})
}

func (r *Registrars) handleGetRates(w http.ResponseWriter, req *http.Request) error {
	realm, err := gov.ParseBytes32(mux.Vars(req)["realm"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "realm"))
	}
	reg, err := r.reg.GetRegistrar(realm)
	if err != nil {
		return err
	}
	if reg == nil {
		return utils.NotFound(errors.New("registrar not found"))
	}
	return utils.WriteJSON(w, convertRegistrar(reg).Rates)
}

func (r *Registrars) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /registrars").
		HandlerFunc(utils.WrapHandlerFunc(r.handleCreateRegistrar))
	sub.Path("/{realm}").
		Methods(http.MethodGet).
		Name("GET /registrars/{realm}").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetRegistrar))
	sub.Path("/{realm}/rates").
		Methods(http.MethodPost).
		Name("POST /registrars/{realm}/rates").
		HandlerFunc(utils.WrapHandlerFunc(r.handleCreateRate))
	sub.Path("/{realm}/rates").
		Methods(http.MethodGet).
		Name("GET /registrars/{realm}/rates").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetRates))
}
