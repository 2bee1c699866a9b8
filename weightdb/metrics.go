// Copyright (c) 2025 The RealmGov developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package weightdb

import (
	"strings"

	"github.com/realmgov/registry/metrics"
)

var (
	metricQueryParameters   = metrics.LazyLoadCounterVec("weightdb_query_parameters", []string{"parameters"})
	metricQueryOrderCounter = metrics.LazyLoadCounterVec("weightdb_query_order", []string{"order"})
	metricOffsetBucket      = metrics.LazyLoadHistogram("weightdb_query_offset_bucket", []int64{
		0, 1_000, 5_000, 10_000, 25_000, 50_000, 100_000, 250_000, 500_000, 1_000_000,
	})
	metricLimitBucket = metrics.LazyLoadHistogram("weightdb_query_limit_bucket", []int64{
		0, 5, 10, 25, 50, 100, 250, 500, 1000,
	})
)

func metricsHandleFilter(filter *Filter) {
	if metrics.NoOp() {
		return
	}

	paramsUsed := make([]string, 0)
	if filter.Realm != nil {
		paramsUsed = append(paramsUsed, "realm")
	}
	if filter.Authority != nil {
		paramsUsed = append(paramsUsed, "authority")
	}
	if filter.Range != nil {
		paramsUsed = append(paramsUsed, string(filter.Range.Unit))
	}
	metricQueryParameters().AddWithLabel(1, map[string]string{"parameters": strings.Join(paramsUsed, ",")})

	if filter.Order == DESC {
		metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": "desc"})
	} else {
		metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": "asc"})
	}

	if filter.Options != nil {
		offset := filter.Options.Offset
		if offset > 1_000_000 {
			offset = 1_000_001
		}
		metricOffsetBucket().Observe(int64(offset))

		limit := filter.Options.Limit
		if limit > 1000 {
			limit = 1001
		}
		metricLimitBucket().Observe(int64(limit))
	}
}
