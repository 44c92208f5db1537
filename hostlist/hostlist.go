// Copyright 2024 The fabtree Authors
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

// Package hostlist implements the compressed host-name range notation used
// throughout cluster configuration files, e.g. "node[1-4,7],gpu3".
package hostlist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrMalformed = errors.New("hostlist: malformed range expression")

// Expand turns a compressed host list into the full ordered slice of names.
// Plain names pass through unchanged. Bracketed numeric ranges preserve the
// zero padding of their bounds.
func Expand(list string) ([]string, error) {
	var out []string
	for _, tok := range splitTopLevel(list) {
		if tok == "" {
			continue
		}
		open := strings.IndexByte(tok, '[')
		if open < 0 {
			if strings.IndexByte(tok, ']') >= 0 {
				return nil, errors.Wrapf(ErrMalformed, "unexpected ']' in %q", tok)
			}
			out = append(out, tok)
			continue
		}
		if !strings.HasSuffix(tok, "]") {
			return nil, errors.Wrapf(ErrMalformed, "unterminated '[' in %q", tok)
		}
		prefix := tok[:open]
		body := tok[open+1 : len(tok)-1]
		names, err := expandRanges(prefix, body)
		if err != nil {
			return nil, err
		}
		out = append(out, names...)
	}
	return out, nil
}

func expandRanges(prefix, body string) ([]string, error) {
	var out []string
	for _, r := range strings.Split(body, ",") {
		lo, hi, width, err := parseRange(r)
		if err != nil {
			return nil, err
		}
		for n := lo; n <= hi; n++ {
			out = append(out, fmt.Sprintf("%s%0*d", prefix, width, n))
		}
	}
	return out, nil
}

func parseRange(r string) (lo, hi, width int, err error) {
	loStr, hiStr, isRange := strings.Cut(r, "-")
	if loStr == "" {
		return 0, 0, 0, errors.Wrapf(ErrMalformed, "empty range bound in %q", r)
	}
	if lo, err = strconv.Atoi(loStr); err != nil {
		return 0, 0, 0, errors.Wrapf(ErrMalformed, "bad range bound %q", loStr)
	}
	hi = lo
	if isRange {
		if hi, err = strconv.Atoi(hiStr); err != nil {
			return 0, 0, 0, errors.Wrapf(ErrMalformed, "bad range bound %q", hiStr)
		}
	}
	if hi < lo {
		return 0, 0, 0, errors.Wrapf(ErrMalformed, "inverted range %q", r)
	}
	return lo, hi, len(loStr), nil
}

// splitTopLevel splits on commas that are not inside brackets.
func splitTopLevel(list string) []string {
	var toks []string
	depth, start := 0, 0
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				toks = append(toks, list[start:i])
				start = i + 1
			}
		}
	}
	return append(toks, list[start:])
}

// Compress folds an ordered slice of host names back into range notation.
// Consecutive numeric suffixes sharing a prefix collapse into one bracketed
// range; a zero-padded run only absorbs suffixes of its own digit count.
// Input order is preserved via first appearance of each prefix.
func Compress(names []string) string {
	type run struct {
		prefix string
		width  int  // raw digit count of the suffix
		padded bool // suffix has a leading zero
		lo, hi int
		plain  string // non-numeric name, emitted verbatim
	}
	var runs []*run
	for _, name := range names {
		prefix, num, width, padded, ok := splitNumericSuffix(name)
		if !ok {
			runs = append(runs, &run{plain: name})
			continue
		}
		if n := len(runs); n > 0 {
			// A padded run absorbs any suffix of the same digit count;
			// unpadded runs fold across digit-count boundaries, so n9
			// and n10 stay in one run.
			last := runs[n-1]
			if last.plain == "" && last.prefix == prefix && num == last.hi+1 &&
				((last.padded && width == last.width) ||
					(!last.padded && !padded)) {
				last.hi = num
				continue
			}
		}
		runs = append(runs, &run{prefix: prefix, width: width, padded: padded, lo: num, hi: num})
	}

	// Adjacent runs sharing a prefix and padding share one bracket group,
	// so n1,n4,n5,n6 prints as n[1,4-6].
	pad := func(g *run) int {
		if g.padded {
			return g.width
		}
		return 0
	}
	var sb strings.Builder
	for i := 0; i < len(runs); i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		r := runs[i]
		if r.plain != "" {
			sb.WriteString(r.plain)
			continue
		}
		j := i
		for j+1 < len(runs) && runs[j+1].plain == "" &&
			runs[j+1].prefix == r.prefix && runs[j+1].padded == r.padded &&
			(!r.padded || runs[j+1].width == r.width) {
			j++
		}
		if i == j && r.lo == r.hi {
			fmt.Fprintf(&sb, "%s%0*d", r.prefix, pad(r), r.lo)
			continue
		}
		sb.WriteString(r.prefix)
		sb.WriteByte('[')
		for k := i; k <= j; k++ {
			if k > i {
				sb.WriteByte(',')
			}
			g := runs[k]
			if g.lo == g.hi {
				fmt.Fprintf(&sb, "%0*d", pad(g), g.lo)
			} else {
				fmt.Fprintf(&sb, "%0*d-%0*d", pad(g), g.lo, pad(g), g.hi)
			}
		}
		sb.WriteByte(']')
		i = j
	}
	return sb.String()
}

func splitNumericSuffix(name string) (prefix string, num, width int, padded, ok bool) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == len(name) {
		return "", 0, 0, false, false
	}
	n, err := strconv.Atoi(name[i:])
	if err != nil {
		return "", 0, 0, false, false
	}
	padded = name[i] == '0' && len(name)-i > 1
	return name[:i], n, len(name) - i, padded, true
}
