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

package rvecs

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// vecs builds result vectors from strings where 'x' marks a change.
func vecs(x, y string) (rx, ry []bool) {
	rx, ry = Make([]byte(x), []byte(y))
	for i := range x {
		rx[i] = x[i] == 'x'
	}
	for i := range y {
		ry[i] = y[i] == 'x'
	}
	return rx, ry
}

func TestSegments(t *testing.T) {
	tests := []struct {
		name string
		x, y string
		want []Segment
	}{
		{
			name: "empty",
		},
		{
			name: "identical",
			x:    "...",
			y:    "...",
			want: []Segment{{Match: true, S0: 0, S1: 3, T0: 0, T1: 3}},
		},
		{
			name: "all-deleted",
			x:    "xx",
			want: []Segment{{S0: 0, S1: 2}},
		},
		{
			name: "all-inserted",
			y:    "xxx",
			want: []Segment{{T0: 0, T1: 3}},
		},
		{
			name: "mixed",
			x:    ".x..",
			y:    ".x..x",
			want: []Segment{
				{Match: true, S0: 0, S1: 1, T0: 0, T1: 1},
				{S0: 1, S1: 2, T0: 1, T1: 2},
				{Match: true, S0: 2, S1: 4, T0: 2, T1: 4},
				{S0: 4, S1: 4, T0: 4, T1: 5},
			},
		},
		{
			name: "interleaved-changes",
			x:    "x.x",
			y:    ".xx",
			want: []Segment{
				{S0: 0, S1: 1, T0: 0, T1: 0},
				{Match: true, S0: 1, S1: 2, T0: 0, T1: 1},
				{S0: 2, S1: 3, T0: 1, T1: 3},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rx, ry := vecs(tt.x, tt.y)
			got := slices.Collect(Segments(rx, ry))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Segments(...) differs [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestSegments_stop(t *testing.T) {
	rx, ry := vecs(".x.x.", ".x.x.")
	n := 0
	for range Segments(rx, ry) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("iteration ran %d times, want 2", n)
	}
}
