// Package scorecard turns source-repository signals into a package rating.
//
// Everything here is a pure function of the input signals: no network, no
// storage, no clock. Missing signals degrade to defined defaults so a rating
// is always computable once the signals have been fetched.
package scorecard

import "math"

// Signals are the raw repository statistics a rating is derived from.
// They are fetched fresh on each scoring run and never persisted directly.
type Signals struct {
	Stars      int
	Forks      int
	OpenIssues int

	// License is the SPDX identifier, empty when the host reports none
	License string

	// DaysSincePush is the age of the most recent push, negative when unknown
	DaysSincePush int

	// Contributors is the count of distinct committers, 0 when unknown
	Contributors int

	// ReviewedPRFraction is the share of merged PRs that had a review, in [0,1];
	// negative when unknown
	ReviewedPRFraction float64

	// IssueResponseDays is the median maintainer response time, negative when unknown
	IssueResponseDays float64

	// PinnedDepFraction is the share of dependencies pinned to an exact
	// major.minor version, in [0,1]; negative when unknown
	PinnedDepFraction float64
}

// Rating holds the seven sub-scores plus the weighted aggregate.
// All values live in [0,1].
type Rating struct {
	RampUp               float64 `json:"ramp_up"`
	Correctness          float64 `json:"correctness"`
	BusFactor            float64 `json:"bus_factor"`
	ResponsiveMaintainer float64 `json:"responsive_maintainer"`
	License              float64 `json:"license"`
	GoodPinningPractice  float64 `json:"good_pinning_practice"`
	PullRequest          float64 `json:"pull_request"`
	NetScore             float64 `json:"net_score"`
}

// net-score weights; they sum to 1
const (
	weightRampUp      = 0.10
	weightCorrectness = 0.15
	weightBusFactor   = 0.15
	weightResponsive  = 0.20
	weightLicense     = 0.20
	weightPinning     = 0.10
	weightPullRequest = 0.10
)

// licenses compatible with redistribution; anything else scores zero
var compatibleLicenses = map[string]struct{}{
	"MIT":          {},
	"Apache-2.0":   {},
	"BSD-2-Clause": {},
	"BSD-3-Clause": {},
	"ISC":          {},
	"LGPL-2.1":     {},
	"LGPL-3.0":     {},
	"MPL-2.0":      {},
	"Unlicense":    {},
	"0BSD":         {},
}

// Compute derives all sub-scores from signals and aggregates the net score
func Compute(sig Signals) Rating {
	r := Rating{
		RampUp:               rampUp(sig),
		Correctness:          correctness(sig),
		BusFactor:            busFactor(sig),
		ResponsiveMaintainer: responsiveMaintainer(sig),
		License:              licenseScore(sig),
		GoodPinningPractice:  pinningScore(sig),
		PullRequest:          pullRequestScore(sig),
	}
	r.NetScore = clamp(
		weightRampUp*r.RampUp +
			weightCorrectness*r.Correctness +
			weightBusFactor*r.BusFactor +
			weightResponsive*r.ResponsiveMaintainer +
			weightLicense*r.License +
			weightPinning*r.GoodPinningPractice +
			weightPullRequest*r.PullRequest)
	return r
}

// rampUp uses popularity as a proxy for available documentation and examples:
// log-scaled stars saturate at 10k
func rampUp(sig Signals) float64 {
	if sig.Stars <= 0 {
		return 0
	}
	return clamp(math.Log10(float64(sig.Stars)+1) / 4)
}

// correctness rewards projects whose issue backlog is small relative to adoption
func correctness(sig Signals) float64 {
	adoption := float64(sig.Stars + sig.Forks)
	if adoption <= 0 {
		return 0
	}
	return clamp(1 - float64(sig.OpenIssues)/(adoption+float64(sig.OpenIssues)))
}

// busFactor saturates at 20 distinct contributors
func busFactor(sig Signals) float64 {
	if sig.Contributors <= 0 {
		return 0
	}
	return clamp(float64(sig.Contributors) / 20)
}

// responsiveMaintainer blends push recency with issue response time
func responsiveMaintainer(sig Signals) float64 {
	recency := 0.0
	if sig.DaysSincePush >= 0 {
		// full credit within 30 days, none after a year
		recency = clamp(1 - (float64(sig.DaysSincePush)-30)/335)
	}
	response := 0.5 // unknown response time is neutral
	if sig.IssueResponseDays >= 0 {
		// full credit within 2 days, none after 30
		response = clamp(1 - (sig.IssueResponseDays-2)/28)
	}
	return clamp(0.6*recency + 0.4*response)
}

// licenseScore is binary: a known-compatible SPDX id or nothing
func licenseScore(sig Signals) float64 {
	if _, ok := compatibleLicenses[sig.License]; ok {
		return 1
	}
	return 0
}

func pinningScore(sig Signals) float64 {
	if sig.PinnedDepFraction < 0 {
		// a package with no dependency manifest has nothing unpinned
		return 1
	}
	return clamp(sig.PinnedDepFraction)
}

func pullRequestScore(sig Signals) float64 {
	if sig.ReviewedPRFraction < 0 {
		return 0
	}
	return clamp(sig.ReviewedPRFraction)
}

func clamp(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
