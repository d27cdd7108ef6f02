package analysis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/talentsift/talentsift/internal/types"
)

// TimelineConfig holds the thresholds for gap and overlap detection.
type TimelineConfig struct {
	GapThresholdDays     int
	OverlapToleranceDays int
	OpenRoleHorizonYears int
}

// DefaultTimelineConfig returns the default detection policy.
func DefaultTimelineConfig() TimelineConfig {
	return TimelineConfig{
		GapThresholdDays:     90,
		OverlapToleranceDays: 30,
		OpenRoleHorizonYears: 35,
	}
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"Jan 2006",
	"January 2006",
	"01/2006",
	"1/2006",
	"2006",
}

var openMarkers = map[string]struct{}{
	"": {}, "present": {}, "current": {}, "now": {}, "ongoing": {},
}

// parseEntryDate parses one extracted date string against the known
// layouts. The bool reports success; failure never propagates as an
// error, only as an unparsed_date flag at the call site.
func parseEntryDate(raw string) (time.Time, bool) {
	cleaned := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isOpenEnded(raw string) bool {
	_, ok := openMarkers[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// interval is a parsed timeline entry usable for gap/overlap arithmetic.
type interval struct {
	start   time.Time
	end     time.Time
	ongoing bool
	entry   types.TimelineEntry
	index   int
}

func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// AnalyzeTimeline inspects a candidate's claimed experience spans for
// gaps, overlaps, duplicates and implausibly old open-ended roles.
// The function is total: unparseable entries are excluded from interval
// arithmetic and surfaced as unparsed_date flags instead of errors.
func AnalyzeTimeline(profile types.CandidateProfile, cfg TimelineConfig, now time.Time) []types.Flag {
	var flags []types.Flag
	intervals := make([]interval, 0, len(profile.Timeline))

	for i, entry := range profile.Timeline {
		start, ok := parseEntryDate(entry.Start)
		if !ok {
			flags = append(flags, types.Flag{
				Kind:   types.FlagUnparsedDate,
				Detail: fmt.Sprintf("unparseable start date %q for %s", entry.Start, entry.Organization),
			})
			continue
		}

		iv := interval{start: start, entry: entry, index: i}
		if isOpenEnded(entry.End) {
			iv.ongoing = true
			iv.end = now
		} else {
			end, ok := parseEntryDate(entry.End)
			if !ok {
				flags = append(flags, types.Flag{
					Kind:   types.FlagUnparsedDate,
					Detail: fmt.Sprintf("unparseable end date %q for %s", entry.End, entry.Organization),
				})
				continue
			}
			iv.end = end
		}

		if iv.end.Before(iv.start) {
			flags = append(flags, types.Flag{
				Kind:   types.FlagUnparsedDate,
				Detail: fmt.Sprintf("start after end for %s", entry.Organization),
				Start:  entry.Start,
				End:    entry.End,
			})
			continue
		}
		intervals = append(intervals, iv)
	}

	// Sort by start ascending; ties put the longer entry first so the
	// shorter sub-entry is the one flagged as anomalous.
	sort.SliceStable(intervals, func(i, j int) bool {
		if !intervals[i].start.Equal(intervals[j].start) {
			return intervals[i].start.Before(intervals[j].start)
		}
		return intervals[i].end.After(intervals[j].end)
	})

	// Duplicates: identical normalized organization and exact date range.
	// A duplicate pair is a stronger signal than overlap, so the pair is
	// excluded from overlap detection below.
	dupPair := make(map[[2]int]struct{})
	seen := make(map[string]int)
	for idx, iv := range intervals {
		key := normalizeLabel(iv.entry.Organization) + "|" + strings.TrimSpace(iv.entry.Start) + "|" + strings.TrimSpace(iv.entry.End)
		if first, ok := seen[key]; ok {
			dupPair[[2]int{first, idx}] = struct{}{}
			flags = append(flags, types.Flag{
				Kind:   types.FlagDuplicateEntry,
				Detail: fmt.Sprintf("duplicate claim for %s", iv.entry.Organization),
				Start:  iv.entry.Start,
				End:    iv.entry.End,
			})
		} else {
			seen[key] = idx
		}
	}

	tolerance := time.Duration(cfg.OverlapToleranceDays) * 24 * time.Hour
	for i := 0; i < len(intervals); i++ {
		for j := i + 1; j < len(intervals) && intervals[j].start.Before(intervals[i].end); j++ {
			if _, dup := dupPair[[2]int{i, j}]; dup {
				continue
			}
			overlapStart := intervals[j].start
			overlapEnd := intervals[i].end
			if intervals[j].end.Before(overlapEnd) {
				overlapEnd = intervals[j].end
			}
			if overlapEnd.Sub(overlapStart) <= tolerance {
				continue
			}
			flags = append(flags, types.Flag{
				Kind: types.FlagOverlappingClaim,
				Detail: fmt.Sprintf("%s overlaps %s",
					intervals[j].entry.Organization, intervals[i].entry.Organization),
				Start: overlapStart.Format("2006-01-02"),
				End:   overlapEnd.Format("2006-01-02"),
				Days:  int(overlapEnd.Sub(overlapStart).Hours() / 24),
			})
		}
	}

	// Gaps are computed over merged intervals so a span covered by any
	// concurrent entry never counts as a gap.
	merged := mergeIntervals(intervals)
	gapThreshold := time.Duration(cfg.GapThresholdDays) * 24 * time.Hour
	for i := 1; i < len(merged); i++ {
		gap := merged[i].start.Sub(merged[i-1].end)
		if gap <= gapThreshold {
			continue
		}
		flags = append(flags, types.Flag{
			Kind:   types.FlagEmploymentGap,
			Detail: "gap between consecutive roles",
			Start:  merged[i-1].end.Format("2006-01-02"),
			End:    merged[i].start.Format("2006-01-02"),
			Days:   int(gap.Hours() / 24),
		})
	}

	horizon := now.AddDate(-cfg.OpenRoleHorizonYears, 0, 0)
	for _, iv := range intervals {
		if iv.ongoing && iv.start.Before(horizon) {
			flags = append(flags, types.Flag{
				Kind:   types.FlagSuspiciousOpenRole,
				Detail: fmt.Sprintf("ongoing role at %s started implausibly long ago", iv.entry.Organization),
				Start:  iv.entry.Start,
			})
		}
	}

	if reasons := exaggerationReasons(profile.RawText, merged); len(reasons) > 0 {
		flags = append(flags, types.Flag{
			Kind:   types.FlagExaggeratedClaim,
			Detail: strings.Join(reasons, "; "),
		})
	}

	return flags
}

// mergeIntervals collapses overlapping/adjacent intervals into disjoint
// spans, assuming the input is sorted by start.
func mergeIntervals(intervals []interval) []interval {
	if len(intervals) == 0 {
		return nil
	}
	merged := []interval{intervals[0]}
	for _, iv := range intervals[1:] {
		last := &merged[len(merged)-1]
		if !iv.start.After(last.end) {
			if iv.end.After(last.end) {
				last.end = iv.end
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}
