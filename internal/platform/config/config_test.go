package config_test

import (
	"testing"
	"time"

	"trove/internal/platform/config"
	"trove/internal/platform/testkit"
)

func TestPrefixing(t *testing.T) {
	t.Setenv("TROVE_API_PORT", "8080")

	c := config.New().Prefix("TROVE_API_")
	if got := c.MustPort("PORT"); got != ":8080" {
		t.Fatalf("MustPort got %q", got)
	}
}

func TestMayHelpers(t *testing.T) {
	t.Setenv("TROVE_X_STR", "hello")
	t.Setenv("TROVE_X_INT", "42")
	t.Setenv("TROVE_X_BOOL", "true")
	t.Setenv("TROVE_X_DUR", "250ms")
	t.Setenv("TROVE_X_CSV", "a, b ,c")

	c := config.New().Prefix("TROVE_X_")

	if got := c.MayString("STR", "d"); got != "hello" {
		t.Fatalf("MayString got %q", got)
	}
	if got := c.MayString("MISSING", "d"); got != "d" {
		t.Fatalf("MayString default got %q", got)
	}
	if got := c.MayInt("INT", 1); got != 42 {
		t.Fatalf("MayInt got %d", got)
	}
	if got := c.MayBool("BOOL", false); !got {
		t.Fatalf("MayBool got false")
	}
	if got := c.MayDuration("DUR", time.Second); got != 250*time.Millisecond {
		t.Fatalf("MayDuration got %v", got)
	}
	csv := c.MayCSV("CSV", nil)
	if len(csv) != 3 || csv[0] != "a" || csv[1] != "b" || csv[2] != "c" {
		t.Fatalf("MayCSV got %v", csv)
	}
}

func TestMustStringPanicsWhenMissing(t *testing.T) {
	c := config.New().Prefix("TROVE_NOPE_")
	testkit.MustPanic(t, func() { c.MustString("DBURL") })
}
