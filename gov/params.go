// Copyright (c) 2025 The RealmGov developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gov

// Constants of the registry protocol.
const (
	EpochInterval uint64 = 10 // (unit: second) width of the time unit weight records expire on.

	SecsPerDay   uint64 = 24 * 60 * 60
	SecsPerMonth uint64 = 30 * SecsPerDay // lockup months are fixed 30-day periods.

	MaxExchangeRates = 32 // capacity of a registrar's exchange rate table.
	MaxDeposits      = 32 // capacity of a voter's deposit ledger.
)

// TimeUnit maps a unix timestamp to the time unit it falls in.
// A weight record published at ts is valid for consumption at ts2 iff
// TimeUnit(ts) == TimeUnit(ts2).
func TimeUnit(ts uint64) uint64 {
	return ts / EpochInterval
}
