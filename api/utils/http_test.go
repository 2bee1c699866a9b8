// Copyright (c) 2025 The RealmGov developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/realmgov/registry/registry"
	"github.com/realmgov/registry/voter"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"no error", nil, http.StatusOK},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"bad request", BadRequest(errors.New("amount")), http.StatusBadRequest},
		{"forbidden", Forbidden(errors.New("nope")), http.StatusForbidden},
		{"not found", NotFound(errors.New("missing")), http.StatusNotFound},
		{"custom status", HTTPError(errors.New("conflict"), http.StatusConflict), http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h := WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error {
				return tt.err
			})
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestParseJSONStrict(t *testing.T) {
	var v struct {
		Amount uint64 `json:"amount"`
	}
	assert.NoError(t, ParseJSON(strings.NewReader(`{"amount": 7}`), &v))
	assert.Equal(t, uint64(7), v.Amount)

	err := ParseJSON(strings.NewReader(`{"amount": 7, "bogus": 1}`), &v)
	assert.Error(t, err)
}

func TestConvertLedgerError(t *testing.T) {
	rec := httptest.NewRecorder()
	h := WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error {
		return ConvertLedgerError(registry.ErrVoterNotFound)
	})
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h = WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error {
		return ConvertLedgerError(voter.ErrInsufficientVested)
	})
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h = WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error {
		return ConvertLedgerError(registry.ErrNotAdmin)
	})
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// infrastructure failures keep the 500 mapping
	rec = httptest.NewRecorder()
	h = WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error {
		return ConvertLedgerError(errors.New("disk on fire"))
	})
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	assert.NoError(t, ConvertLedgerError(nil))
}
