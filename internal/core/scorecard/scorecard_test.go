package scorecard

import (
	"testing"
)

func healthySignals() Signals {
	return Signals{
		Stars:              5000,
		Forks:              800,
		OpenIssues:         120,
		License:            "MIT",
		DaysSincePush:      3,
		Contributors:       40,
		ReviewedPRFraction: 0.9,
		IssueResponseDays:  1.5,
		PinnedDepFraction:  0.8,
	}
}

func ratingValues(r Rating) []float64 {
	return []float64{
		r.RampUp, r.Correctness, r.BusFactor, r.ResponsiveMaintainer,
		r.License, r.GoodPinningPractice, r.PullRequest, r.NetScore,
	}
}

func TestComputeDeterministic(t *testing.T) {
	sig := healthySignals()
	a, b := Compute(sig), Compute(sig)
	if a != b {
		t.Fatalf("same signals must give same rating: %+v vs %+v", a, b)
	}
}

func TestComputeBounds(t *testing.T) {
	cases := []Signals{
		{},
		healthySignals(),
		{Stars: 1 << 30, Forks: 1 << 30, Contributors: 1 << 20, DaysSincePush: 0, PinnedDepFraction: 5, ReviewedPRFraction: 5},
		{OpenIssues: 1 << 30, DaysSincePush: 1 << 20, IssueResponseDays: 1e9},
	}
	for i, sig := range cases {
		r := Compute(sig)
		for j, v := range ratingValues(r) {
			if v < 0 || v > 1 {
				t.Fatalf("case %d value %d out of [0,1]: %v (%+v)", i, j, v, r)
			}
		}
	}
}

func TestComputeMissingSignalDefaults(t *testing.T) {
	sig := Signals{
		Stars:              100,
		License:            "MIT",
		DaysSincePush:      -1,
		ReviewedPRFraction: -1,
		IssueResponseDays:  -1,
		PinnedDepFraction:  -1,
	}
	r := Compute(sig)

	if r.PullRequest != 0 {
		t.Fatalf("unknown review history must score 0, got %v", r.PullRequest)
	}
	if r.GoodPinningPractice != 1 {
		t.Fatalf("no dependency manifest must score 1, got %v", r.GoodPinningPractice)
	}
	// unknown push recency zeroes recency; unknown response is neutral 0.5
	want := 0.4 * 0.5
	if r.ResponsiveMaintainer != want {
		t.Fatalf("responsive with all-unknown inputs: got %v want %v", r.ResponsiveMaintainer, want)
	}
}

func TestLicenseBinary(t *testing.T) {
	for lic, want := range map[string]float64{
		"MIT":        1,
		"Apache-2.0": 1,
		"ISC":        1,
		"GPL-3.0":    0,
		"":           0,
		"Custom":     0,
	} {
		sig := healthySignals()
		sig.License = lic
		if got := Compute(sig).License; got != want {
			t.Fatalf("license %q: got %v want %v", lic, got, want)
		}
	}
}

func TestNetScoreWeights(t *testing.T) {
	r := Compute(healthySignals())
	want := clamp(0.10*r.RampUp + 0.15*r.Correctness + 0.15*r.BusFactor +
		0.20*r.ResponsiveMaintainer + 0.20*r.License +
		0.10*r.GoodPinningPractice + 0.10*r.PullRequest)
	if r.NetScore != want {
		t.Fatalf("net score %v, want weighted sum %v", r.NetScore, want)
	}
}

func TestRecencyDecay(t *testing.T) {
	fresh := healthySignals()
	fresh.DaysSincePush = 1
	stale := healthySignals()
	stale.DaysSincePush = 500

	if Compute(fresh).ResponsiveMaintainer <= Compute(stale).ResponsiveMaintainer {
		t.Fatalf("fresher pushes must not score lower")
	}
}
