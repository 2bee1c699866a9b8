// Copyright (c) 2025 The RealmGov developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"net/http"

	"github.com/realmgov/registry/custody"
	"github.com/realmgov/registry/registrar"
	"github.com/realmgov/registry/registry"
	"github.com/realmgov/registry/reverts"
	"github.com/realmgov/registry/voter"
)

// ConvertLedgerError maps ledger errors onto HTTP statuses. Revert errors
// describe rejected operations and become client errors; anything else is an
// internal failure and keeps the default 500 mapping.
func ConvertLedgerError(err error) error {
	if err == nil {
		return nil
	}
	if !reverts.IsRevertErr(err) {
		return err
	}
	switch {
	case errors.Is(err, registry.ErrRegistrarNotFound),
		errors.Is(err, registry.ErrVoterNotFound),
		errors.Is(err, registrar.ErrRateNotFound),
		errors.Is(err, voter.ErrInvalidDepositID),
		errors.Is(err, custody.ErrUnknownAsset):
		return NotFound(err)
	case errors.Is(err, registry.ErrNotAdmin),
		errors.Is(err, custody.ErrNotAuthority):
		return Forbidden(err)
	case errors.Is(err, registry.ErrRegistrarExists),
		errors.Is(err, registry.ErrVoterExists),
		errors.Is(err, registrar.ErrDuplicateAsset),
		errors.Is(err, custody.ErrAssetExists):
		return HTTPError(err, http.StatusConflict)
	default:
		return BadRequest(err)
	}
}
