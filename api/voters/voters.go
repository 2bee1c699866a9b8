// Copyright (c) 2025 The RealmGov developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package voters exposes deposit ledgers over HTTP: opening and closing
// voters, escrowing deposits, withdrawing vested funds and extending lockups.
//
// Vesting math is evaluated against the clock passed to New, so the amounts
// reported in responses match what the ledger enforced.
package voters

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/realmgov/registry/api/utils"
	"github.com/realmgov/registry/gov"
	"github.com/realmgov/registry/lockup"
	"github.com/realmgov/registry/registry"
)

type Voters struct {
	reg *registry.Registry
	now func() uint64
}

// New creates the handler. now supplies the ledger clock in unix seconds.
func New(reg *registry.Registry, now func() uint64) *Voters {
	return &Voters{reg, now}
}

func parseLedgerPath(req *http.Request) (gov.Bytes32, gov.Address, error) {
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

func parseDepositID(req *http.Request) (uint8, error) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 8)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "id"))
	}
	return uint8(id), nil
}

func (v *Voters) writeVoter(w http.ResponseWriter, realm gov.Bytes32, authority gov.Address) error {
	rec, err := v.reg.GetVoter(realm, authority)
	if err != nil {
		return err
	}
	if rec == nil {
		return utils.NotFound(errors.New("voter not found"))
	}
	reg, err := v.reg.GetRegistrar(realm)
	if err != nil {
		return err
	}
	if reg == nil {
		return utils.NotFound(errors.New("registrar not found"))
	}
	balance, err := v.reg.VotingBalance(realm, authority)
	if err != nil {
		return utils.ConvertLedgerError(err)
	}
	view, err := convertVoter(rec, reg, balance, v.now())
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, view)
}

func (v *Voters) writeDeposit(w http.ResponseWriter, realm gov.Bytes32, authority gov.Address, id uint8) error {
	rec, err := v.reg.GetVoter(realm, authority)
	if err != nil {
		return err
	}
	if rec == nil {
		return utils.NotFound(errors.New("voter not found"))
	}
	entry, err := rec.Entry(id)
	if err != nil {
		return utils.ConvertLedgerError(err)
	}
	reg, err := v.reg.GetRegistrar(realm)
	if err != nil {
		return err
	}
	if reg == nil {
		return utils.NotFound(errors.New("registrar not found"))
	}
	rate, err := reg.RateAt(entry.RateIdx)
	if err != nil {
		return utils.ConvertLedgerError(err)
	}
	return utils.WriteJSON(w, convertDeposit(id, entry, rate, v.now()))
}

func (v *Voters) handleCreateVoter(w http.ResponseWriter, req *http.Request) error {
	var payload CreateVoter
	if err := utils.ParseJSON(req.Body, &payload); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if payload.Realm.IsZero() {
		return utils.BadRequest(errors.New("realm: zero not allowed"))
	}
	if payload.Authority.IsZero() {
		return utils.BadRequest(errors.New("authority: zero not allowed"))
	}

	if err := v.reg.CreateVoter(payload.Realm, payload.Authority); err != nil {
		return utils.ConvertLedgerError(err)
	}
	if err := v.reg.Commit(); err != nil {
		return err
	}
	return v.writeVoter(w, payload.Realm, payload.Authority)
}

func (v *Voters) handleGetVoter(w http.ResponseWriter, req *http.Request) error {
	realm, authority, err := parseLedgerPath(req)
	if err != nil {
		return err
	}
	return v.writeVoter(w, realm, authority)
}

func (v *Voters) handleCloseVoter(w http.ResponseWriter, req *http.Request) error {
	realm, authority, err := parseLedgerPath(req)
	if err != nil {
		return err
	}
	if err := v.reg.CloseVoter(realm, authority); err != nil {
		return utils.ConvertLedgerError(err)
	}
	if err := v.reg.Commit(); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"closed": true})
}

func (v *Voters) handleCreateDeposit(w http.ResponseWriter, req *http.Request) error {
	realm, authority, err := parseLedgerPath(req)
	if err != nil {
		return err
	}
	var payload CreateDeposit
	if err := utils.ParseJSON(req.Body, &payload); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if payload.AssetClass.IsZero() {
		return utils.BadRequest(errors.New("assetClass: zero not allowed"))
	}
	if payload.Amount == 0 {
		return utils.BadRequest(errors.New("amount: zero not allowed"))
	}
	kind, ok := lockup.ParseKind(payload.Kind)
	if !ok {
		return utils.BadRequest(errors.New("kind: unknown lockup kind"))
	}

	id, err := v.reg.CreateDeposit(realm, authority, payload.AssetClass, payload.Amount, kind, payload.Days, v.now())
	if err != nil {
		return utils.ConvertLedgerError(err)
	}
	if err := v.reg.Commit(); err != nil {
		return err
	}
	return v.writeDeposit(w, realm, authority, id)
}

func (v *Voters) handleUpdateDeposit(w http.ResponseWriter, req *http.Request) error {
	realm, authority, err := parseLedgerPath(req)
	if err != nil {
		return err
	}
	id, err := parseDepositID(req)
	if err != nil {
		return err
	}
	var payload UpdateDeposit
	if err := utils.ParseJSON(req.Body, &payload); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if payload.Amount == 0 {
		return utils.BadRequest(errors.New("amount: zero not allowed"))
	}

	if err := v.reg.UpdateDeposit(realm, authority, id, payload.Amount); err != nil {
		return utils.ConvertLedgerError(err)
	}
	if err := v.reg.Commit(); err != nil {
		return err
	}
	return v.writeDeposit(w, realm, authority, id)
}

func (v *Voters) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	realm, authority, err := parseLedgerPath(req)
	if err != nil {
		return err
	}
	id, err := parseDepositID(req)
	if err != nil {
		return err
	}
	var payload Withdraw
	if err := utils.ParseJSON(req.Body, &payload); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if payload.Amount == 0 {
		return utils.BadRequest(errors.New("amount: zero not allowed"))
	}

	if err := v.reg.Withdraw(realm, authority, id, payload.Amount, v.now()); err != nil {
		return utils.ConvertLedgerError(err)
	}
	if err := v.reg.Commit(); err != nil {
		return err
	}
	return v.writeDeposit(w, realm, authority, id)
}

func (v *Voters) handleResetLockup(w http.ResponseWriter, req *http.Request) error {
	realm, authority, err := parseLedgerPath(req)
	if err != nil {
		return err
	}
	id, err := parseDepositID(req)
	if err != nil {
		return err
	}
	var payload ResetLockup
	if err := utils.ParseJSON(req.Body, &payload); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	if err := v.reg.ResetLockup(realm, authority, id, payload.Days, v.now()); err != nil {
		return utils.ConvertLedgerError(err)
	}
	if err := v.reg.Commit(); err != nil {
		return err
	}
	return v.writeDeposit(w, realm, authority, id)
}

func (v *Voters) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /voters").
		HandlerFunc(utils.WrapHandlerFunc(v.handleCreateVoter))
	sub.Path("/{realm}/{authority}").
		Methods(http.MethodGet).
		Name("GET /voters/{realm}/{authority}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetVoter))
	sub.Path("/{realm}/{authority}").
		Methods(http.MethodDelete).
		Name("DELETE /voters/{realm}/{authority}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleCloseVoter))
	sub.Path("/{realm}/{authority}/deposits").
		Methods(http.MethodPost).
		Name("POST /voters/{realm}/{authority}/deposits").
		HandlerFunc(utils.WrapHandlerFunc(v.handleCreateDeposit))
	sub.Path("/{realm}/{authority}/deposits/{id}").
		Methods(http.MethodPut).
		Name("PUT /voters/{realm}/{authority}/deposits/{id}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleUpdateDeposit))
	sub.Path("/{realm}/{authority}/deposits/{id}/withdrawals").
		Methods(http.MethodPost).
		Name("POST /voters/{realm}/{authority}/deposits/{id}/withdrawals").
		HandlerFunc(utils.WrapHandlerFunc(v.handleWithdraw))
	sub.Path("/{realm}/{authority}/deposits/{id}/lockup").
		Methods(http.MethodPut).
		Name("PUT /voters/{realm}/{authority}/deposits/{id}/lockup").
		HandlerFunc(utils.WrapHandlerFunc(v.handleResetLockup))
}
