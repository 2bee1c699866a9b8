// Copyright (c) 2025 The RealmGov developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"

	"github.com/realmgov/registry/cache"
	"github.com/realmgov/registry/gov"
	"github.com/realmgov/registry/log"
)

func houseKeeping(ctx context.Context, weightCache *cache.LRU) {
	log.Debug("enter house keeping")
	defer log.Debug("leave house keeping")

	go checkClockOffset()

	cacheStatsTicker := time.NewTicker(time.Minute)
	clockSyncTicker := time.NewTicker(10 * time.Minute)
	defer func() {
		cacheStatsTicker.Stop()
		clockSyncTicker.Stop()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cacheStatsTicker.C:
			if changed, hit, miss := weightCache.Stats(); changed {
				log.Debug("weight cache stats", "hit", hit, "miss", miss)
			}
		case <-clockSyncTicker.C:
			go checkClockOffset()
		}
	}
}

// checkClockOffset warns when the host clock drifts beyond half a weight
// expiry unit. Vesting and weight freshness run on wall-clock time.
func checkClockOffset() {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		log.Debug("failed to access NTP", "err", err)
		return
	}
	if resp.ClockOffset > time.Duration(gov.EpochInterval)*time.Second/2 {
		log.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}
