package analysis

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/talentsift/talentsift/internal/config"
	"github.com/talentsift/talentsift/internal/errors"
	"github.com/talentsift/talentsift/internal/fairness"
	"github.com/talentsift/talentsift/internal/types"
)

// Exclusion reason codes reported for unusable profiles.
const (
	ReasonMissingID      = "missing_id"
	ReasonNoText         = "no_extractable_text"
	ReasonTextTooLong    = "text_exceeds_limit"
	ReasonScoringTimeout = "scoring_timeout"
)

// Analyzer orchestrates the screening pipeline for one batch. All state
// it produces is request-scoped; in particular the vector space is built
// inside Screen and discarded with the batch, so IDF statistics never
// leak between unrelated jobs.
type Analyzer struct {
	cfg config.Config
	now func() time.Time
}

// NewAnalyzer creates an analyzer with the given configuration.
func NewAnalyzer(cfg config.Config) *Analyzer {
	return &Analyzer{cfg: cfg, now: time.Now}
}

// DefaultWeights returns the configured default scoring weights.
func (a *Analyzer) DefaultWeights() Weights {
	return Weights{
		Semantic:    a.cfg.SemanticWeight,
		MustHave:    a.cfg.MustHaveWeight,
		NiceToHave:  a.cfg.NiceToHaveWeight,
		Trend:       a.cfg.TrendWeight,
		Consistency: a.cfg.ConsistencyWeight,
	}
}

func (a *Analyzer) timelineConfig() TimelineConfig {
	return TimelineConfig{
		GapThresholdDays:     a.cfg.GapThresholdDays,
		OverlapToleranceDays: a.cfg.OverlapToleranceDays,
		OpenRoleHorizonYears: a.cfg.OpenRoleHorizonYears,
	}
}

// Screen validates a batch, extracts all feature values in parallel and
// produces the initial ranking. The similarity, coverage and timeline
// branches are independent and each writes only its own slot; they are
// joined before composite scoring.
//
// Exceeding the scoring budget yields a partial result with Incomplete
// set, as long as at least one candidate finished all branches.
func (a *Analyzer) Screen(ctx context.Context, job types.JobRequirement, profiles []types.CandidateProfile) (*BatchResult, error) {
	if strings.TrimSpace(job.Description) == "" {
		return nil, errors.NewInputError("job description is required")
	}
	if len(profiles) == 0 {
		return nil, errors.NewInputError("at least one candidate profile is required")
	}
	if len(profiles) > a.cfg.MaxBatchSize {
		return nil, errors.NewInputError("batch exceeds maximum size")
	}

	result := &BatchResult{Excluded: []types.ExcludedCandidate{}}

	// Partition out unusable profiles. A bad profile excludes that one
	// candidate with a reason code; it never aborts the batch.
	usable := make([]types.CandidateProfile, 0, len(profiles))
	for _, p := range profiles {
		switch {
		case strings.TrimSpace(p.ID) == "":
			result.Excluded = append(result.Excluded, types.ExcludedCandidate{
				CandidateID: p.Name, Reason: ReasonMissingID,
			})
		case strings.TrimSpace(p.RawText) == "":
			result.Excluded = append(result.Excluded, types.ExcludedCandidate{
				CandidateID: p.ID, Reason: ReasonNoText,
			})
		case len(p.RawText) > a.cfg.MaxTextLength:
			result.Excluded = append(result.Excluded, types.ExcludedCandidate{
				CandidateID: p.ID, Reason: ReasonTextTooLong,
			})
		default:
			usable = append(usable, p)
		}
	}
	if len(usable) == 0 {
		return nil, errors.NewInputError("no usable candidate profiles in batch")
	}

	// Sensitive attribute mentions are scrubbed from all text before any
	// scoring component sees it. Structured sensitive attributes are not
	// passed into this package at all.
	jobText, _ := fairness.Redact(job.Description)
	scrubbed := make([]types.CandidateProfile, len(usable))
	docs := make([]string, len(usable))
	for i, p := range usable {
		text, notes := fairness.Redact(p.RawText)
		if len(notes) > 0 {
			slog.Debug("redacted sensitive spans", "candidate_id", p.ID, "classes", fairness.RedactNotes(notes))
		}
		p.RawText = text
		p.Sensitive = nil
		scrubbed[i] = p
		docs[i] = text
	}

	n := len(scrubbed)
	semantic := make([]float64, n)
	coverages := make([]types.Coverage, n)
	trendSkills := make([][]string, n)
	trendScores := make([]float64, n)
	timelineFlags := make([][]types.Flag, n)
	semDone := make([]bool, n)
	covDone := make([]bool, n)
	tlDone := make([]bool, n)

	gctx, cancel := context.WithTimeout(ctx, a.cfg.ScoringTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(gctx)

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		vs := BuildCorpus(jobText, docs, a.cfg.MaxFeatures)
		for i := range scrubbed {
			if err := gctx.Err(); err != nil {
				return err
			}
			semantic[i] = vs.Similarity(i)
			semDone[i] = true
		}
		return nil
	})

	g.Go(func() error {
		for i, p := range scrubbed {
			if err := gctx.Err(); err != nil {
				return err
			}
			coverages[i] = ComputeCoverage(job, p)
			trendSkills[i], trendScores[i] = DetectTrends(p)
			covDone[i] = true
		}
		return nil
	})

	g.Go(func() error {
		now := a.now()
		tcfg := a.timelineConfig()
		for i, p := range scrubbed {
			if err := gctx.Err(); err != nil {
				return err
			}
			timelineFlags[i] = AnalyzeTimeline(p, tcfg, now)
			tlDone[i] = true
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		if !stderrors.Is(err, context.DeadlineExceeded) && !stderrors.Is(err, context.Canceled) {
			return nil, errors.NewInternalError("scoring pipeline failed", err)
		}
		if ctx.Err() != nil {
			// the caller went away; abandon rather than return partials
			return nil, errors.ToAppError(ctx.Err())
		}
		result.MarkIncomplete()
	}

	for i, p := range scrubbed {
		if result.Incomplete && !(semDone[i] && covDone[i] && tlDone[i]) {
			result.Excluded = append(result.Excluded, types.ExcludedCandidate{
				CandidateID: p.ID, Reason: ReasonScoringTimeout,
			})
			continue
		}

		flags := MissingSkillFlags(coverages[i])
		flags = append(flags, timelineFlags[i]...)
		result.Features = append(result.Features, FeatureSet{
			CandidateID: p.ID,
			Name:        p.Name,
			Semantic:    semantic[i],
			Coverage:    coverages[i],
			TrendSkills: trendSkills[i],
			Trend:       trendScores[i],
			Flags:       flags,
		})
	}

	if len(result.Features) == 0 {
		return nil, errors.NewTimeoutError("scoring budget exhausted before any candidate finished", gctx.Err())
	}

	result.Weights = a.DefaultWeights()
	result.Ranked = result.Rescore(result.Weights)
	return result, nil
}
