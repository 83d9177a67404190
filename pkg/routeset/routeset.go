// Copyright 2025 Weft Networks
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package routeset provides a set of IP prefixes that can be converted
// to/from its string form, a comma separated prefix list. It is used for
// route announcements in the configuration.
package routeset

import (
	"net/netip"
	"strings"

	"go4.org/netipx"
)

// Set is the same as netipx.IPSet except that it can be converted to/from
// string and is usable as a TOML value.
type Set struct {
	netipx.IPSet
}

func Parse(s string) (Set, error) {
	var sb netipx.IPSetBuilder
	prefixes := strings.Split(s, ",")
	for _, prefix := range prefixes {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		p, err := netip.ParsePrefix(prefix)
		if err != nil {
			return Set{}, err
		}
		sb.AddPrefix(p)
	}
	set, err := sb.IPSet()
	if err != nil {
		return Set{}, err
	}
	return Set{IPSet: *set}, nil
}

func MustParse(s string) Set {
	set, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return set
}

func (s *Set) String() string {
	var prefixes []string
	for _, prefix := range s.Prefixes() {
		prefixes = append(prefixes, prefix.String())
	}
	return strings.Join(prefixes, ",")
}

// Routes returns the set as a list of non-overlapping prefixes.
func (s *Set) Routes() []netip.Prefix {
	return s.Prefixes()
}

func (s Set) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Set) UnmarshalText(b []byte) error {
	set, err := Parse(string(b))
	if err != nil {
		return err
	}
	*s = set
	return nil
}
