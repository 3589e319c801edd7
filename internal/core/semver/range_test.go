package semver

import (
	"testing"
)

func TestParseExact(t *testing.T) {
	r, err := Parse("1.2.3")
	if err != nil {
		t.Fatalf("Parse(): %v", err)
	}
	if !r.Min.Equal(r.Max) {
		t.Fatalf("exact range should collapse: %s", r)
	}
	if r.Min.String() != "1.2.3" {
		t.Fatalf("want 1.2.3 got %s", r.Min)
	}
	if !r.MinInclusive || !r.MaxInclusive {
		t.Fatalf("exact range must be inclusive on both ends")
	}
}

func TestParseComparatorPair(t *testing.T) {
	r, err := Parse(">=1.2.0 <=2.0.0")
	if err != nil {
		t.Fatalf("Parse(): %v", err)
	}
	if r.Min.String() != "1.2.0" || r.Max.String() != "2.0.0" {
		t.Fatalf("bounds wrong: %s", r)
	}
	if !r.MinInclusive || !r.MaxInclusive {
		t.Fatalf("inclusivity wrong: %s", r)
	}
}

func TestParseStrictUpper(t *testing.T) {
	r, err := Parse(">=1.0.0 <2.0.0")
	if err != nil {
		t.Fatalf("Parse(): %v", err)
	}
	if r.MaxInclusive {
		t.Fatalf("< bound must be exclusive: %s", r)
	}
	if r.Max.String() != "2.0.0" {
		t.Fatalf("max wrong: %s", r)
	}
}

func TestParseCaret(t *testing.T) {
	cases := []struct {
		expr     string
		min, max string
	}{
		{"^1.2.3", "1.2.3", "2.0.0"},
		{"^0.2.3", "0.2.3", "0.3.0"},
		{"^0.0.3", "0.0.3", "0.0.4"},
	}
	for _, tc := range cases {
		r, err := Parse(tc.expr)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.expr, err)
		}
		if r.Min.String() != tc.min || r.Max.String() != tc.max {
			t.Fatalf("Parse(%q) = %s, want [%s, %s)", tc.expr, r, tc.min, tc.max)
		}
		if !r.MinInclusive || r.MaxInclusive {
			t.Fatalf("Parse(%q) inclusivity wrong: %s", tc.expr, r)
		}
	}
}

func TestParseTilde(t *testing.T) {
	r, err := Parse("~1.2.3")
	if err != nil {
		t.Fatalf("Parse(): %v", err)
	}
	if r.Min.String() != "1.2.3" || r.Max.String() != "1.3.0" {
		t.Fatalf("tilde bounds wrong: %s", r)
	}
	if r.MaxInclusive {
		t.Fatalf("tilde upper bound must be exclusive")
	}
}

func TestParseDisjunction(t *testing.T) {
	// loosest lower bound across sets, last upper token wins
	r, err := Parse("^1.0.0 || ^2.0.0")
	if err != nil {
		t.Fatalf("Parse(): %v", err)
	}
	if r.Min.String() != "1.0.0" {
		t.Fatalf("min should come from the loosest set: %s", r)
	}
	if r.Max.String() != "3.0.0" {
		t.Fatalf("max should come from the last token: %s", r)
	}
}

func TestParsePrereleaseStripped(t *testing.T) {
	strict, err := Parse(">=1.0.0")
	if err != nil {
		t.Fatalf("Parse(): %v", err)
	}
	pre, err := Parse(">=1.0.0-0")
	if err != nil {
		t.Fatalf("Parse() with prerelease: %v", err)
	}
	if !strict.Min.Equal(pre.Min) || strict.MinInclusive != pre.MinInclusive {
		t.Fatalf("prerelease marker changed the bound: %s vs %s", strict, pre)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, expr := range []string{
		"",
		"   ",
		"not-a-version",
		">=",
		">=x.y.z",
	} {
		if _, err := Parse(expr); err == nil {
			t.Fatalf("Parse(%q) should fail", expr)
		} else if !IsInvalidRange(err) {
			t.Fatalf("Parse(%q) error should be a validation error, got %v", expr, err)
		}
	}
}

func TestParseEmptyIntersection(t *testing.T) {
	_, err := Parse(">=2.0.0 <=1.0.0")
	if err == nil {
		t.Fatalf("empty range should fail")
	}
	if !IsInvalidRange(err) {
		t.Fatalf("empty range must surface as recoverable validation error, got %v", err)
	}
}

func TestParseMissingUpperIsRecoverable(t *testing.T) {
	// a lone lower bound has no concrete maximum token; the parser must
	// reject it as bad input rather than panicking
	_, err := Parse(">1.0.0 <")
	if err == nil {
		t.Fatalf("dangling comparator should fail")
	}
	if !IsInvalidRange(err) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestRangeString(t *testing.T) {
	r, err := Parse("1.0.0")
	if err != nil {
		t.Fatalf("Parse(): %v", err)
	}
	if got := r.String(); got != "=1.0.0" {
		t.Fatalf("String() = %q", got)
	}
}
