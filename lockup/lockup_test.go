// Copyright (c) 2025 The RealmGov developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/realmgov/registry/gov"
)

func TestKindName(t *testing.T) {
	assert.Equal(t, "none", KindName(KindNone))
	assert.Equal(t, "daily", KindName(KindDaily))
	assert.Equal(t, "monthly", KindName(KindMonthly))
	assert.Equal(t, "cliff", KindName(KindCliff))
	assert.Equal(t, "unknown", KindName(99))

	assert.True(t, IsValidKind(KindCliff))
	assert.False(t, IsValidKind(4))
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindNone, KindDaily, KindMonthly, KindCliff} {
		parsed, ok := ParseKind(KindName(k))
		assert.True(t, ok)
		assert.Equal(t, k, parsed)
	}
	_, ok := ParseKind("fortnightly")
	assert.False(t, ok)
}

func TestDaysLeft(t *testing.T) {
	start := uint64(1000)
	l := New(KindCliff, start, 10)

	assert.Equal(t, uint64(10), l.DaysLeft(start))
	// partway into the first day still rounds up to 10
	assert.Equal(t, uint64(10), l.DaysLeft(start+1))
	assert.Equal(t, uint64(9), l.DaysLeft(start+gov.SecsPerDay))
	assert.Equal(t, uint64(1), l.DaysLeft(l.EndTS-1))
	assert.Equal(t, uint64(0), l.DaysLeft(l.EndTS))
	assert.Equal(t, uint64(0), l.DaysLeft(l.EndTS+gov.SecsPerDay))
}

func TestVestedAmountNone(t *testing.T) {
	start := uint64(5000)
	l := New(KindNone, start, 0)

	assert.Equal(t, uint64(0), l.VestedAmount(100, start-1))
	assert.Equal(t, uint64(100), l.VestedAmount(100, start))
	assert.Equal(t, uint64(100), l.VestedAmount(100, start+gov.SecsPerDay*365))
}

func TestVestedAmountCliff(t *testing.T) {
	start := uint64(5000)
	l := New(KindCliff, start, 1)

	assert.Equal(t, uint64(0), l.VestedAmount(100, start))
	assert.Equal(t, uint64(0), l.VestedAmount(100, l.EndTS-1))
	assert.Equal(t, uint64(100), l.VestedAmount(100, l.EndTS))
	assert.Equal(t, uint64(100), l.VestedAmount(100, l.EndTS+1))
}

func TestVestedAmountDaily(t *testing.T) {
	start := uint64(0)
	l := New(KindDaily, start, 4)

	// whole elapsed days only, truncating division
	assert.Equal(t, uint64(0), l.VestedAmount(100, start))
	assert.Equal(t, uint64(0), l.VestedAmount(100, start+gov.SecsPerDay-1))
	assert.Equal(t, uint64(25), l.VestedAmount(100, start+gov.SecsPerDay))
	assert.Equal(t, uint64(50), l.VestedAmount(100, start+2*gov.SecsPerDay))
	assert.Equal(t, uint64(75), l.VestedAmount(100, start+3*gov.SecsPerDay))
	assert.Equal(t, uint64(100), l.VestedAmount(100, l.EndTS))

	// truncation: 100/3 days
	l3 := New(KindDaily, start, 3)
	assert.Equal(t, uint64(33), l3.VestedAmount(100, start+gov.SecsPerDay))
	assert.Equal(t, uint64(66), l3.VestedAmount(100, start+2*gov.SecsPerDay))
	assert.Equal(t, uint64(100), l3.VestedAmount(100, start+3*gov.SecsPerDay))
}

func TestVestedAmountMonthly(t *testing.T) {
	start := uint64(0)
	l := New(KindMonthly, start, 60) // two 30-day months

	assert.Equal(t, uint64(0), l.VestedAmount(100, start+gov.SecsPerMonth-1))
	assert.Equal(t, uint64(50), l.VestedAmount(100, start+gov.SecsPerMonth))
	assert.Equal(t, uint64(100), l.VestedAmount(100, start+2*gov.SecsPerMonth))

	// 45 days rounds up to two vesting periods
	l45 := New(KindMonthly, start, 45)
	assert.Equal(t, uint64(50), l45.VestedAmount(100, start+gov.SecsPerMonth))
	assert.Equal(t, uint64(100), l45.VestedAmount(100, l45.EndTS+gov.SecsPerMonth))
}

func TestVestedAmountLargeValues(t *testing.T) {
	start := uint64(0)
	l := New(KindDaily, start, 365)

	// deposited × elapsed would overflow 64 bits without a wide intermediate
	const deposited = uint64(1) << 63
	vested := l.VestedAmount(deposited, start+100*gov.SecsPerDay)
	assert.Equal(t, deposited/365*100+(deposited%365*100)/365, vested)
	assert.Equal(t, deposited, l.VestedAmount(deposited, l.EndTS))
}

func TestMultiplier(t *testing.T) {
	start := uint64(1000)

	// none holds full weight
	none := New(KindNone, start, 0)
	assert.Equal(t, FactorUnit, none.Multiplier(0))
	assert.Equal(t, FactorUnit, none.Multiplier(start+gov.SecsPerDay*999))

	// locked kinds decay linearly to zero at EndTS
	l := New(KindCliff, start, 10)
	assert.Equal(t, FactorUnit, l.Multiplier(start))
	assert.Equal(t, FactorUnit, l.Multiplier(start-1)) // warmup holds full weight
	assert.Equal(t, FactorUnit/2, l.Multiplier(start+5*gov.SecsPerDay))
	assert.Equal(t, FactorUnit/10, l.Multiplier(start+9*gov.SecsPerDay))
	assert.Equal(t, Factor(0), l.Multiplier(l.EndTS))
	assert.Equal(t, Factor(0), l.Multiplier(l.EndTS+1))
}

func TestMultiplierMonotone(t *testing.T) {
	start := uint64(0)
	l := New(KindDaily, start, 30)

	prev := l.Multiplier(start)
	for now := start; now <= l.EndTS+gov.SecsPerDay; now += 3600 {
		cur := l.Multiplier(now)
		assert.LessOrEqual(t, cur, prev, "multiplier must never increase, now=%d", now)
		prev = cur
	}
}

func TestFactorApply(t *testing.T) {
	assert.Equal(t, uint64(100), FactorUnit.Apply(100))
	assert.Equal(t, uint64(50), (FactorUnit / 2).Apply(100))
	assert.Equal(t, uint64(0), Factor(0).Apply(100))

	// truncating
	assert.Equal(t, uint64(33), (FactorUnit / 3).Apply(100))

	// full-range amount survives the wide intermediate
	max := ^uint64(0)
	assert.Equal(t, max, FactorUnit.Apply(max))
	assert.Equal(t, max/2, (FactorUnit / 2).Apply(max))
}
