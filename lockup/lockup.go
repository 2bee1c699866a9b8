// Copyright (c) 2025 The RealmGov developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lockup models the vesting schedule attached to a deposit entry.
// All derivations are pure functions of a supplied current time, computed on
// unsigned integers only.
package lockup

import (
	"github.com/holiman/uint256"

	"github.com/realmgov/registry/gov"
)

// Kind is the vesting schedule kind.
type Kind = uint8

const (
	KindNone Kind = iota
	KindDaily
	KindMonthly
	KindCliff
)

// KindName returns the human readable name of a lockup kind.
func KindName(k Kind) string {
	switch k {
	case KindNone:
		return "none"
	case KindDaily:
		return "daily"
	case KindMonthly:
		return "monthly"
	case KindCliff:
		return "cliff"
	default:
		return "unknown"
	}
}

// IsValidKind returns whether k names a known lockup kind.
func IsValidKind(k Kind) bool {
	return k <= KindCliff
}

// ParseKind parses a lockup kind by its name, the inverse of KindName.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "none":
		return KindNone, true
	case "daily":
		return KindDaily, true
	case "monthly":
		return KindMonthly, true
	case "cliff":
		return KindCliff, true
	default:
		return 0, false
	}
}

// Lockup restricts withdrawal of a deposit between StartTS and EndTS.
type Lockup struct {
	Kind    Kind
	StartTS uint64
	EndTS   uint64
}

// New creates a lockup of the given kind lasting days starting at startTS.
func New(kind Kind, startTS uint64, days uint32) Lockup {
	return Lockup{
		Kind:    kind,
		StartTS: startTS,
		EndTS:   startTS + uint64(days)*gov.SecsPerDay,
	}
}

// DaysLeft returns the number of days until the lockup expires,
// rounded up, clamped to zero.
func (l Lockup) DaysLeft(now uint64) uint64 {
	if now >= l.EndTS {
		return 0
	}
	return (l.EndTS - now + gov.SecsPerDay - 1) / gov.SecsPerDay
}

// periodSecs returns the vesting period length, or 0 for non-periodic kinds.
func (l Lockup) periodSecs() uint64 {
	switch l.Kind {
	case KindDaily:
		return gov.SecsPerDay
	case KindMonthly:
		return gov.SecsPerMonth
	default:
		return 0
	}
}

// VestedAmount returns the portion of deposited that has vested at now.
// Kind none vests in full at StartTS, cliff at EndTS, and the periodic kinds
// as a step function of whole elapsed periods. The division truncates.
func (l Lockup) VestedAmount(deposited, now uint64) uint64 {
	switch l.Kind {
	case KindNone:
		if now < l.StartTS {
			return 0
		}
		return deposited
	case KindCliff:
		if now < l.EndTS {
			return 0
		}
		return deposited
	}

	if now < l.StartTS {
		return 0
	}
	period := l.periodSecs()
	total := (l.EndTS - l.StartTS + period - 1) / period
	if total == 0 {
		return deposited
	}
	elapsed := (now - l.StartTS) / period
	if elapsed >= total {
		return deposited
	}
	return muldiv(deposited, elapsed, total)
}

// Multiplier returns the voting weight factor of the lockup at now.
// Kind none holds full weight. The locked kinds decay linearly from full
// weight at StartTS down to zero at EndTS.
func (l Lockup) Multiplier(now uint64) Factor {
	if l.Kind == KindNone {
		return FactorUnit
	}
	if now >= l.EndTS {
		return 0
	}
	if now <= l.StartTS || l.EndTS == l.StartTS {
		return FactorUnit
	}
	return Factor(muldiv(uint64(FactorUnit), l.EndTS-now, l.EndTS-l.StartTS))
}

// Factor is a fixed point number in [0, 1] scaled by FactorUnit.
type Factor uint64

// FactorUnit is the fixed point scale of Factor.
const FactorUnit Factor = 1e9

// Apply scales amount by the factor, truncating.
// The result never exceeds amount.
func (f Factor) Apply(amount uint64) uint64 {
	return muldiv(amount, uint64(f), uint64(FactorUnit))
}

// muldiv computes a*b/den with a 256-bit intermediate, truncating.
// den must be non-zero.
func muldiv(a, b, den uint64) uint64 {
	var x, y uint256.Int
	x.SetUint64(a)
	y.SetUint64(b)
	x.Mul(&x, &y)
	y.SetUint64(den)
	x.Div(&x, &y)
	return x.Uint64()
}
