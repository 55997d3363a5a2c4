// H2FMI NAND flash media controller driver
//
// Copyright (c) The H2FMI Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package h2fmi

// someMathFn implements the original firmware's ceiling-divide-minus-one
// helper: divide b by a rounding up, then subtract one, clamping at zero.
// Used throughout setupTiming in place of a bare division.
func someMathFn(a, b int64) int64 {
	if a == 0 {
		return 0
	}

	q := b / a
	if b%a != 0 {
		q++
	}

	if q <= 0 {
		return 0
	}

	return q - 1
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// timingBytes is the five-byte output of setupTiming, t[0]..t[4].
type timingBytes [5]int64

// setupTiming derives the five timing register bytes from the NAND clock
// period and the twelve f..r inputs (§4.3); i and n enter none of the five
// formulas. freqHz is the NAND interface clock in Hz.
func setupTiming(freqHz uint32, f, g, h, i, j, k, l, m, n, p, q, r uint32) timingBytes {
	freqKHz := int64(freqHz) / 1000
	if freqKHz == 0 {
		return timingBytes{}
	}

	period := int64(1000000) / freqKHz
	if period == 0 {
		period = 1
	}

	fi, gi, hi := int64(f), int64(g), int64(h)
	ji, ki, li, mi := int64(j), int64(k), int64(l), int64(m)
	pi, qi, ri := int64(p), int64(q), int64(r)

	var t timingBytes

	t[0] = someMathFn(period, ki+gi)

	t[1] = someMathFn(period, maxI64(li+fi, maxI64(ji, mi+hi+gi)-(t[0]+1)*period))

	t[2] = someMathFn(period, maxI64(0, (mi+hi+gi)-(t[0]+1)*period))

	t[3] = someMathFn(period, qi+gi)

	t[4] = someMathFn(period, maxI64(fi+ri, pi-t[3]*period))

	return t
}

// packTimingRegister packs the five timing bytes into the 20-bit UNKREG1
// word (§4.3), bit-exact.
func packTimingRegister(t timingBytes) uint32 {
	return uint32(t[4]&0xF) |
		(uint32(t[3]&0xF) << 4) |
		(uint32(t[1]&0xF) << 8) |
		(uint32(t[0]&0xF) << 12) |
		(uint32(t[2]&0xF) << 16)
}

// deriveTimingRegister combines the fixed f/g/h/i constants with a matched
// timingInfo entry's eight bytes (j,k,l,m,n <- T[0..4]; p,q,r <- T[6],T[5],
// T[7], verified against spec.md §8 scenario 3's worked example) and returns
// the packed UNKREG1 value for the given clock.
func deriveTimingRegister(freqHz uint32, ti timingInfo) uint32 {
	t := ti.T

	tb := setupTiming(freqHz,
		timingConstants.F, timingConstants.G, timingConstants.H, timingConstants.I,
		uint32(t[0]), uint32(t[1]), uint32(t[2]), uint32(t[3]), uint32(t[4]),
		uint32(t[6]), uint32(t[5]), uint32(t[7]),
	)

	return packTimingRegister(tb)
}
