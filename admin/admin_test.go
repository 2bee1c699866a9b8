// Copyright (c) 2025 The RealmGov developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/realmgov/registry/log"
)

func callLogLevel(t *testing.T, logLevel *slog.LevelVar, method string, body []byte) *httptest.ResponseRecorder {
	req, err := http.NewRequest(method, "/admin/loglevel", bytes.NewReader(body))
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	HTTPHandler(logLevel).ServeHTTP(rr, req)
	return rr
}

func TestGetLogLevel(t *testing.T) {
	var logLevel slog.LevelVar

	rr := callLogLevel(t, &logLevel, http.MethodGet, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var response logLevelResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	require.Equal(t, "INFO", response.CurrentLevel)
}

func TestPostLogLevel(t *testing.T) {
	var logLevel slog.LevelVar
	logLevel.Set(slog.LevelInfo)

	rr := callLogLevel(t, &logLevel, http.MethodPost, []byte(`{"level":"debug"}`))
	require.Equal(t, http.StatusOK, rr.Code)

	var response logLevelResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	require.Equal(t, "DEBUG", response.CurrentLevel)
	require.Equal(t, log.LevelDebug, logLevel.Level())
}

func TestPostLogLevelInvalid(t *testing.T) {
	var logLevel slog.LevelVar
	logLevel.Set(slog.LevelInfo)

	rr := callLogLevel(t, &logLevel, http.MethodPost, []byte(`{"level":"chatty"}`))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var response errorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	require.Equal(t, "Invalid verbosity level", response.ErrorMessage)
	require.Equal(t, slog.LevelInfo, logLevel.Level())
}

func TestLogLevelMethodNotAllowed(t *testing.T) {
	var logLevel slog.LevelVar

	rr := callLogLevel(t, &logLevel, http.MethodDelete, nil)
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
