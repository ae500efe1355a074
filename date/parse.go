// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package date

import (
	"strings"
	"time"
)

// parse recognizes RFC3339-ish timestamps, tolerating a missing
// timezone (assumed UTC) and a space in place of the 'T' separator, so
// that both Parse and the TestNonConforming fixtures in date_test.go
// accept the same inputs Arrow/Parquet timestamp columns tend to carry.
func parse(data []byte) (year, month, day, hour, min, sec, ns int, ok bool) {
	s := strings.TrimSpace(string(data))
	if s == "" {
		return 0, 0, 0, 0, 0, 0, 0, false
	}
	if strings.IndexByte(s, 'T') < 0 {
		if sp := strings.IndexByte(s, ' '); sp >= 0 {
			b := []byte(s)
			b[sp] = 'T'
			s = string(b)
		}
	}
	ti := strings.IndexByte(s, 'T')
	if ti < 0 || ti+1 > len(s) {
		return 0, 0, 0, 0, 0, 0, 0, false
	}
	if !strings.ContainsAny(s[ti+1:], "Z+-") {
		s += "Z"
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return 0, 0, 0, 0, 0, 0, 0, false
	}
	t = t.UTC()
	return t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), true
}

// durationUnit describes one of the "<digits><suffix>" segments
// ParseDuration accepts, in the fixed y, m, d order.
type durationUnit struct {
	suffix    byte
	maxDigits int
}

var durationUnits = [3]durationUnit{
	{'y', 3},
	{'m', 4},
	{'d', 5},
}

// parseDuration parses the calendar-duration literal format ParseDuration
// documents: an optional "<digits>y", then an optional "<digits>m", then
// an optional "<digits>d", each present at most once and in that order,
// with no surrounding whitespace and at least one non-zero component.
func parseDuration(b []byte) (year, month, day int, ok bool) {
	rest := b
	next := 0 // index into durationUnits of the next unit that may still match
	for len(rest) > 0 {
		i := 0
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
		if i == 0 || i >= len(rest) {
			return 0, 0, 0, false
		}
		suffix := rest[i]
		k := next
		for k < len(durationUnits) && durationUnits[k].suffix != suffix {
			k++
		}
		if k >= len(durationUnits) || i > durationUnits[k].maxDigits {
			return 0, 0, 0, false
		}
		v := 0
		for _, c := range rest[:i] {
			v = v*10 + int(c-'0')
		}
		switch suffix {
		case 'y':
			year = v
		case 'm':
			month = v
		case 'd':
			day = v
		}
		next = k + 1
		rest = rest[i+1:]
	}
	if year == 0 && month == 0 && day == 0 {
		return 0, 0, 0, false
	}
	return year, month, day, true
}
