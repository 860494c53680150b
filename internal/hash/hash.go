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

// Package hash implements the order sensitive rolling hash used for hashed node ids and line ids.
//
// The hash is h = h*31 + c over the UTF-16 code units of a string (or the bytes of a serialized
// value) with 32-bit wraparound. It is not collision free and must only be used as a cache or
// lookup key that is backed by an exact comparison.
package hash

import (
	"strconv"
	"unicode/utf16"
)

// Sum hashes the UTF-16 code units of s.
func Sum(s string) int32 {
	var h int32
	for _, r := range s {
		if utf16.RuneLen(r) == 2 {
			r1, r2 := utf16.EncodeRune(r)
			h = (h << 5) - h + r1
			h = (h << 5) - h + r2
			continue
		}
		h = (h << 5) - h + r
	}
	return h
}

// SumBytes hashes b byte by byte.
func SumBytes(b []byte) int32 {
	var h int32
	for _, c := range b {
		h = (h << 5) - h + int32(c)
	}
	return h
}

// ID renders h as an identifier that is safe to use in markup.
func ID(h int32) string {
	return "id" + strconv.FormatInt(int64(h), 10)
}

// NodeID returns the hashed id of one position (top or bottom) of an API tree node.
func NodeID(kind, subKind, id, position string) string {
	s := kind
	if subKind != "" {
		s += "-" + subKind
	}
	return ID(Sum(s + "-" + id + "-" + position))
}
