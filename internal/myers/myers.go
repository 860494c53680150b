// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package myers aligns two sequences with the linear space variant of Myers' O(ND) algorithm.
//
// The algorithm always searches for an optimal path through the edit graph, so the result is a
// minimal edit script and the matched elements form a longest common subsequence. Within a run of
// changes, deletions are placed before insertions.
//
// Reference: Myers, E.W. An O(ND) difference algorithm and its variations. Algorithmica 1,
// 251-266 (1986). https://doi.org/10.1007/BF01840446
package myers

import (
	"math"

	"znkr.io/apiview/internal/rvecs"
)

// Diff aligns x and y using eq and returns the result vectors. rx[s] is true if x[s] has no match
// in y and ry[t] is true if y[t] has no match in x. Both vectors carry one extra border element.
//
// If limit is positive and the changed middle of x and y (after removing the common prefix and
// suffix) is longer than limit in total, the middle is not aligned and reported as a full replace.
func Diff[T any](x, y []T, eq func(a, b T) bool, limit int) (rx, ry []bool) {
	rx, ry = rvecs.Make(x, y)

	smin, smax, tmin, tmax := changeBounds(x, y, eq)
	if limit > 0 && (smax-smin)+(tmax-tmin) > limit {
		replace(rx, ry, smin, smax, tmin, tmax)
		return rx, ry
	}
	if smin == smax || tmin == tmax {
		replace(rx, ry, smin, smax, tmin, tmax)
		return rx, ry
	}

	m := myers[T]{x: x, y: y, rx: rx, ry: ry, eq: eq}
	m.init(smin, smax, tmin, tmax)
	m.compare(smin, smax, tmin, tmax)
	return rx, ry
}

// changeBounds strips the common prefix and suffix of x and y.
func changeBounds[T any](x, y []T, eq func(a, b T) bool) (smin, smax, tmin, tmax int) {
	smax, tmax = len(x), len(y)
	for smin < smax && tmin < tmax && eq(x[smin], y[tmin]) {
		smin++
		tmin++
	}
	for smax > smin && tmax > tmin && eq(x[smax-1], y[tmax-1]) {
		smax--
		tmax--
	}
	return
}

// replace marks everything in x[smin:smax] as deleted and everything in y[tmin:tmax] as inserted.
func replace(rx, ry []bool, smin, smax, tmin, tmax int) {
	for s := smin; s < smax; s++ {
		rx[s] = true
	}
	for t := tmin; t < tmax; t++ {
		ry[t] = true
	}
}

type myers[T any] struct {
	x, y []T
	eq   func(a, b T) bool

	// Forward and backward v-arrays. v[v0+k] holds the s-coordinate of the furthest reaching
	// endpoint on diagonal k, t follows from t = s - k.
	vf, vb []int
	v0     int

	rx, ry []bool
}

func (m *myers[T]) init(smin, smax, tmin, tmax int) {
	diagonals := (smax - smin) + (tmax - tmin)
	vlen := 2*diagonals + 3 // middle point plus one border on each side
	buf := make([]int, 2*vlen)
	m.vf = buf[:vlen]
	m.vb = buf[vlen:]
	m.v0 = diagonals + 1
}

// compare finds an optimal path from (smin, tmin) to (smax, tmax) and records it in the result
// vectors.
func (m *myers[T]) compare(smin, smax, tmin, tmax int) {
	switch {
	case smin == smax:
		for t := tmin; t < tmax; t++ {
			m.ry[t] = true
		}
	case tmin == tmax:
		for s := smin; s < smax; s++ {
			m.rx[s] = true
		}
	default:
		// The split point is a (possibly empty) run of matches (s0,t0)-(s1,t1). The rectangles
		// before and after it don't share a prefix or suffix and can be compared directly.
		s0, s1, t0, t1 := m.split(smin, smax, tmin, tmax)
		m.compare(smin, s0, tmin, t0)
		m.compare(s1, smax, t1, tmax)
	}
}

// split finds the middle run of matches of an optimal path from (smin, tmin) to (smax, tmax) by
// searching forwards and backwards at the same time until both searches overlap.
//
// x[smin:smax] and y[tmin:tmax] must not share a prefix or a suffix and must not both be empty.
func (m *myers[T]) split(smin, smax, tmin, tmax int) (s0, s1, t0, t1 int) {
	x, y, eq := m.x, m.y, m.eq
	vf, vb, v0 := m.vf, m.vb, m.v0

	kmin, kmax := smin-tmax, smax-tmin
	fmid, bmid := smin-tmin, smax-tmax
	fmin, fmax := fmid, fmid
	bmin, bmax := bmid, bmid

	// The length of an optimal path has the same parity as N-M. Overlaps only need to be checked
	// in the forward pass when it's odd and in the backward pass when it's even.
	odd := ((smax-smin)-(tmax-tmin))%2 != 0

	vf[v0+fmid] = smin
	vb[v0+bmid] = smax

	for d := 1; ; d++ {
		// Grow the searched diagonals by one while staying inside the grid. The extra border
		// element outside the searched range lets the k-loop treat the edges like any other
		// diagonal.
		if fmin > kmin {
			fmin--
			vf[v0+fmin-1] = math.MinInt
		} else {
			fmin++
		}
		if fmax < kmax {
			fmax++
			vf[v0+fmax+1] = math.MinInt
		} else {
			fmax--
		}
		for k := fmin; k <= fmax; k += 2 {
			k0 := k + v0
			var s int
			if vf[k0-1] < vf[k0+1] {
				s = vf[k0+1] // vertical edge from k+1
			} else {
				s = vf[k0-1] + 1 // horizontal edge from k-1, ties prefer deletions
			}
			t := s - k
			ss, tt := s, t
			for s < smax && t < tmax && eq(x[s], y[t]) {
				s++
				t++
			}
			vf[k0] = s
			if odd && bmin <= k && k <= bmax && s >= vb[k0] {
				return ss, s, tt, t
			}
		}

		if bmin > kmin {
			bmin--
			vb[v0+bmin-1] = math.MaxInt
		} else {
			bmin++
		}
		if bmax < kmax {
			bmax++
			vb[v0+bmax+1] = math.MaxInt
		} else {
			bmax--
		}
		for k := bmin; k <= bmax; k += 2 {
			k0 := k + v0
			var s int
			if vb[k0-1] < vb[k0+1] {
				s = vb[k0-1]
			} else {
				s = vb[k0+1] - 1
			}
			t := s - k
			ss, tt := s, t
			for s > smin && t > tmin && eq(x[s-1], y[t-1]) {
				s--
				t--
			}
			vb[k0] = s
			if !odd && fmin <= k && k <= fmax && s <= vf[k0] {
				return s, ss, t, tt
			}
		}
	}
}
