package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/talentsift/talentsift/internal/types"
)

// columns is the stable CSV header. Order never changes between releases
// so downstream spreadsheets keep working.
var columns = []string{
	"rank",
	"candidate_id",
	"name",
	"final_score",
	"semantic_score",
	"must_have_coverage",
	"nice_to_have_coverage",
	"trend_score",
	"consistency_penalty",
	"missing_must_have",
	"flags",
}

// WriteCSV renders the ranking in rank order. Sensitive attributes and
// raw resume text are never part of the export surface.
func WriteCSV(w io.Writer, ranked []types.ScoredCandidate) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, sc := range ranked {
		record := []string{
			strconv.Itoa(sc.Rank),
			sc.CandidateID,
			sc.Name,
			formatScore(sc.FinalScore),
			formatScore(sc.SemanticScore),
			formatScore(sc.Coverage.MustHaveScore),
			formatScore(sc.Coverage.NiceToHaveScore),
			formatScore(sc.TrendScore),
			formatScore(sc.ConsistencyPenalty),
			strings.Join(sc.Coverage.MissingMustHave, ";"),
			joinFlags(sc.Flags),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row for %s: %w", sc.CandidateID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func joinFlags(flags []types.Flag) string {
	if len(flags) == 0 {
		return ""
	}
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = string(f.Kind)
	}
	return strings.Join(parts, ";")
}
