// Copyright (c) 2025 The RealmGov developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package weightdb

import (
	"github.com/realmgov/registry/gov"
)

// Record is one published voting weight observation.
type Record struct {
	Realm       gov.Bytes32
	Authority   gov.Address
	Weight      uint64
	Expiry      uint64 // time unit through which the weight is current
	PublishedAt uint64 // unix time of publication
}

type RangeType string

const (
	Time  RangeType = "time"
	Epoch RangeType = "epoch"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// Filter selects published weights.
type Filter struct {
	Realm     *gov.Bytes32
	Authority *gov.Address
	Range     *Range
	Options   *Options
	Order     Order // default asc
}
