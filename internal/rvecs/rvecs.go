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

// Package rvecs contains functions to work with the result vectors, the internal representation
// that's used by the myers algorithm and is then translated into token edits and line pairs.
package rvecs

import "iter"

// Make allocates result vectors for x and y with a single border element each.
func Make[T any](x, y []T) (rx, ry []bool) {
	r := make([]bool, (len(x) + len(y) + 2))
	rx = r[: len(x)+1 : len(x)+1]
	ry = r[len(x)+1:]
	return
}

// Segment is a maximal run of either matches or changes.
//
// For a match segment, x[S0:S1] matches y[T0:T1] element by element. For a change segment,
// x[S0:S1] was deleted and y[T0:T1] was inserted; either side may be empty.
type Segment struct {
	Match  bool
	S0, S1 int
	T0, T1 int
}

// Segments iterates over the alternating match and change segments described by rx and ry.
func Segments(rx, ry []bool) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		n, m := len(rx)-1, len(ry)-1
		s, t := 0, 0
		for s < n || t < m {
			s0, t0 := s, t
			if rx[s] || ry[t] {
				for rx[s] || ry[t] {
					for s < n && rx[s] {
						s++
					}
					for t < m && ry[t] {
						t++
					}
				}
				if !yield(Segment{Match: false, S0: s0, S1: s, T0: t0, T1: t}) {
					return
				}
				continue
			}
			for s < n && t < m && !rx[s] && !ry[t] {
				s++
				t++
			}
			if !yield(Segment{Match: true, S0: s0, S1: s, T0: t0, T1: t}) {
				return
			}
		}
	}
}
