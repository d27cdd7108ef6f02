package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Claim-plausibility heuristics over resume text. Each heuristic yields a
// human-readable reason; any reason at all surfaces as one
// exaggerated_claim flag so a noisy resume is not penalized per phrase.

var superlatives = []string{
	"world-class", "world class", "best", "unparalleled", "unmatched",
	"exceptional", "revolutionary", "groundbreaking", "state-of-the-art",
	"cutting-edge", "cutting edge",
}

var (
	pctPat         = regexp.MustCompile(`\b(\d{1,3})\s*%|\b(\d{1,3})\s*percent\b`)
	multPat        = regexp.MustCompile(`\b(\d{1,3})\s*x\b`)
	yearsRangePat  = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*(?:-|to)\s*(\d+(?:\.\d+)?)\s*(?:years?|yrs)\b`)
	yearsStatedPat = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*\+?\s*(?:years?|yrs)\b`)
	improvementPat = regexp.MustCompile(`\b(?:increased?|boosted?|improved?|reduced?|grew|grow|accelerated?|decreased?|cut)\b`)
	timeframePat   = regexp.MustCompile(`\b(?:months?|years?|weeks?)\b`)
)

const (
	extremePercent = 300
	extremeMult    = 10
	// stated experience may drift from the timeline by this many years
	// before it counts as inconsistent
	statedYearsSlack = 1.5
)

// extractStatedYears pulls a self-reported experience figure out of the
// resume text. A range like "3-5 years" yields its midpoint.
func extractStatedYears(textLower string) (float64, bool) {
	if m := yearsRangePat.FindStringSubmatch(textLower); m != nil {
		a, errA := strconv.ParseFloat(m[1], 64)
		b, errB := strconv.ParseFloat(m[2], 64)
		if errA == nil && errB == nil {
			return (a + b) / 2, true
		}
	}
	if m := yearsStatedPat.FindStringSubmatch(textLower); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// exaggerationReasons inspects the resume text for implausible metric
// claims and checks the stated years of experience against the span the
// parsed timeline actually covers.
func exaggerationReasons(text string, merged []interval) []string {
	var reasons []string
	if text == "" {
		return reasons
	}
	t := strings.ToLower(text)

	var pctVals, extremePcts []int
	for _, m := range pctPat.FindAllStringSubmatch(t, -1) {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		if v, err := strconv.Atoi(raw); err == nil {
			pctVals = append(pctVals, v)
			if v >= extremePercent {
				extremePcts = append(extremePcts, v)
			}
		}
	}
	if len(extremePcts) > 0 {
		sort.Ints(extremePcts)
		reasons = append(reasons, fmt.Sprintf("extreme percentage claims (%v%%)", dedupeInts(extremePcts)))
	}

	var multVals, extremeMults []int
	for _, m := range multPat.FindAllStringSubmatch(t, -1) {
		if v, err := strconv.Atoi(m[1]); err == nil {
			multVals = append(multVals, v)
			if v >= extremeMult {
				extremeMults = append(extremeMults, v)
			}
		}
	}
	if len(extremeMults) > 0 {
		sort.Ints(extremeMults)
		reasons = append(reasons, fmt.Sprintf("extreme multiplier claims (%vx)", dedupeInts(extremeMults)))
	}

	var supCount int
	for _, s := range superlatives {
		supCount += strings.Count(t, s)
	}
	if supCount >= 5 && len(pctVals) == 0 && len(multVals) == 0 {
		reasons = append(reasons, "many superlatives without supporting metrics")
	}

	if improvementPat.MatchString(t) && !timeframePat.MatchString(t) {
		reasons = append(reasons, "improvement claims without a timeframe")
	}

	// Compare self-reported years against the timeline, but only when at
	// least one span parsed; an absent timeline is not evidence either way.
	if stated, ok := extractStatedYears(t); ok && len(merged) > 0 {
		var total time.Duration
		for _, iv := range merged {
			total += iv.end.Sub(iv.start)
		}
		totalYears := total.Hours() / 24 / 365.25
		if diff := totalYears - stated; diff > statedYearsSlack || diff < -statedYearsSlack {
			reasons = append(reasons,
				fmt.Sprintf("stated %.1f years of experience but timeline covers %.1f", stated, totalYears))
		}
	}

	return reasons
}

func dedupeInts(sorted []int) []int {
	out := sorted[:0:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}
