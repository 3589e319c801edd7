// Package semver resolves semantic-version range expressions into normalized
// min/max bounds suitable for database range queries
package semver

import (
	"fmt"
	"regexp"
	"strings"

	perr "trove/internal/platform/errors"

	goversion "github.com/hashicorp/go-version"
)

// Range is the normalized form of a version-range expression.
// Invariant: Min <= Max; an exact-version expression has Min == Max with both
// bounds inclusive. A Range lives only for the duration of one query.
type Range struct {
	Min          *goversion.Version
	Max          *goversion.Version
	MinInclusive bool
	MaxInclusive bool
}

// String renders the range in comparator form, mostly for logs and tests
func (r Range) String() string {
	lo, hi := ">=", "<="
	if !r.MinInclusive {
		lo = ">"
	}
	if !r.MaxInclusive {
		hi = "<"
	}
	if r.Min != nil && r.Max != nil && r.Min.Equal(r.Max) && r.MinInclusive && r.MaxInclusive {
		return "=" + r.Min.String()
	}
	return fmt.Sprintf("%s%s %s%s", lo, r.Min, hi, r.Max)
}

// comparator is one parsed op+version token
type comparator struct {
	op  string
	ver *goversion.Version
}

var (
	tripletRe   = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)
	prereleases = regexp.MustCompile(`(\d+(\.\d+)*)-[0-9A-Za-z][0-9A-Za-z.+-]*`)
)

// IsInvalidRange reports whether err came from a bad range expression
func IsInvalidRange(err error) bool { return perr.IsCode(err, perr.ErrorCodeValidation) }

func invalidf(format string, a ...any) error { return perr.Validationf(format, a...) }

// Parse resolves a version-range expression into a Range.
//
// Supported syntax: comparators >= <= > < =, whitespace conjunction,
// || disjunction, a bare version for exact match, and tilde/caret shorthand.
// Pre-release suffixes are stripped before bounds are derived, so ">=1.0.0-0"
// behaves exactly like ">=1.0.0".
//
// A missing upper-bound token is a recoverable validation error; one bad query
// string must never take the process down.
func Parse(expr string) (Range, error) {
	canon, sets, err := canonicalize(expr)
	if err != nil {
		return Range{}, err
	}

	// exact match: a single bare version with no conjunction
	if len(sets) == 1 && len(sets[0]) == 1 && sets[0][0].op == "=" {
		v := sets[0][0].ver
		return Range{Min: v, Max: v, MinInclusive: true, MaxInclusive: true}, nil
	}

	min, minInc, err := lowerBound(sets)
	if err != nil {
		return Range{}, err
	}

	max, maxInc, err := upperBound(canon, sets)
	if err != nil {
		return Range{}, err
	}

	if min.GreaterThan(max) {
		return Range{}, invalidf("version range %q is empty: %s > %s", expr, min, max)
	}
	return Range{Min: min, Max: max, MinInclusive: minInc, MaxInclusive: maxInc}, nil
}

// canonicalize normalizes disjunctive comparator sets into a single canonical
// comparator string plus the parsed sets. Shorthand (caret, tilde, bare
// version) is expanded and pre-release suffixes are dropped here.
func canonicalize(expr string) (string, [][]comparator, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", nil, invalidf("empty version range")
	}

	var (
		sets  [][]comparator
		parts []string
	)
	for _, rawSet := range strings.Split(expr, "||") {
		tokens := strings.Fields(rawSet)
		if len(tokens) == 0 {
			continue
		}
		var set []comparator
		for _, tok := range tokens {
			cs, err := expandToken(stripPrerelease(tok))
			if err != nil {
				return "", nil, err
			}
			set = append(set, cs...)
		}
		sets = append(sets, set)

		rendered := make([]string, 0, len(set))
		for _, c := range set {
			rendered = append(rendered, c.op+c.ver.String())
		}
		parts = append(parts, strings.Join(rendered, " "))
	}
	if len(sets) == 0 {
		return "", nil, invalidf("version range %q has no comparators", expr)
	}
	return strings.Join(parts, " || "), sets, nil
}

// stripPrerelease removes a pre-release suffix marker (e.g. trailing "-0")
// so it cannot confuse bound extraction
func stripPrerelease(tok string) string {
	return prereleases.ReplaceAllString(tok, "$1")
}

// expandToken parses one token into comparators, expanding caret/tilde forms
func expandToken(tok string) ([]comparator, error) {
	for _, op := range []string{">=", "<=", ">", "<", "="} {
		if rest, ok := strings.CutPrefix(tok, op); ok {
			v, err := parseVersion(rest)
			if err != nil {
				return nil, err
			}
			return []comparator{{op: op, ver: v}}, nil
		}
	}
	if rest, ok := strings.CutPrefix(tok, "^"); ok {
		return expandCaret(rest)
	}
	if rest, ok := strings.CutPrefix(tok, "~"); ok {
		return expandTilde(rest)
	}
	// bare version means exact match
	v, err := parseVersion(tok)
	if err != nil {
		return nil, err
	}
	return []comparator{{op: "=", ver: v}}, nil
}

func parseVersion(s string) (*goversion.Version, error) {
	s = strings.TrimSpace(s)
	if s == "" || !tripletRe.MatchString(s) {
		return nil, invalidf("no concrete version in %q", s)
	}
	v, err := goversion.NewVersion(s)
	if err != nil {
		return nil, invalidf("bad version %q: %v", s, err)
	}
	return v, nil
}

// expandCaret rewrites ^X.Y.Z as >=X.Y.Z <upper following compatible-range rules
func expandCaret(s string) ([]comparator, error) {
	v, err := parseVersion(s)
	if err != nil {
		return nil, err
	}
	seg := v.Segments()
	var upper string
	switch {
	case seg[0] > 0:
		upper = fmt.Sprintf("%d.0.0", seg[0]+1)
	case seg[1] > 0:
		upper = fmt.Sprintf("0.%d.0", seg[1]+1)
	default:
		upper = fmt.Sprintf("0.0.%d", seg[2]+1)
	}
	up, err := goversion.NewVersion(upper)
	if err != nil {
		return nil, invalidf("bad caret upper bound %q: %v", upper, err)
	}
	return []comparator{{op: ">=", ver: v}, {op: "<", ver: up}}, nil
}

// expandTilde rewrites ~X.Y.Z as >=X.Y.Z <X.(Y+1).0
func expandTilde(s string) ([]comparator, error) {
	v, err := parseVersion(s)
	if err != nil {
		return nil, err
	}
	seg := v.Segments()
	upper := fmt.Sprintf("%d.%d.0", seg[0], seg[1]+1)
	if strings.Count(s, ".") == 0 {
		upper = fmt.Sprintf("%d.0.0", seg[0]+1)
	}
	up, err := goversion.NewVersion(upper)
	if err != nil {
		return nil, invalidf("bad tilde upper bound %q: %v", upper, err)
	}
	return []comparator{{op: ">=", ver: v}, {op: "<", ver: up}}, nil
}

// lowerBound finds the smallest concrete version consistent with every
// comparator: per set the tightest lower bound, across sets the loosest
func lowerBound(sets [][]comparator) (*goversion.Version, bool, error) {
	zero, _ := goversion.NewVersion("0.0.0")

	var (
		best    *goversion.Version
		bestInc bool
	)
	for _, set := range sets {
		lo := zero
		inc := true
		for _, c := range set {
			switch c.op {
			case ">=", "=":
				if c.ver.GreaterThan(lo) || (c.ver.Equal(lo) && inc) {
					lo, inc = c.ver, true
				}
			case ">":
				if c.ver.GreaterThanOrEqual(lo) {
					lo, inc = c.ver, false
				}
			}
		}
		if best == nil || lo.LessThan(best) {
			best, bestInc = lo, inc
		}
	}
	if best == nil {
		return nil, false, invalidf("no minimum version derivable")
	}
	return best, bestInc, nil
}

// upperBound scans the canonical comparator string for concrete version
// tokens and takes the last one present, then derives inclusivity from the
// comparator touching that bound
func upperBound(canon string, sets [][]comparator) (*goversion.Version, bool, error) {
	tokens := tripletRe.FindAllString(canon, -1)
	if len(tokens) == 0 {
		return nil, false, invalidf("no maximum version token in %q", canon)
	}
	max, err := goversion.NewVersion(tokens[len(tokens)-1])
	if err != nil {
		return nil, false, invalidf("bad maximum version %q: %v", tokens[len(tokens)-1], err)
	}

	// inclusive unless the comparator on this bound is strict
	inc := true
	for _, set := range sets {
		for _, c := range set {
			if c.ver.Equal(max) {
				inc = c.op != "<" && c.op != ">"
			}
		}
	}
	return max, inc, nil
}
