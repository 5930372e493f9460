package contest

import (
	"fmt"

	"github.com/zoj-dev/zoj/internal/database/models"
)

// Discipline is the scoring rule set of a contest.
type Discipline string

const (
	OI  Discipline = "oi"  // best score per problem, results hidden while running
	ACM Discipline = "acm" // accept-once plus time penalty
	IOI Discipline = "ioi" // best score per problem, live results
)

// ParseDiscipline validates a contest type string. Unknown values are a
// configuration error at contest creation time, never a silent fallback.
func ParseDiscipline(s string) (Discipline, error) {
	switch Discipline(s) {
	case OI, ACM, IOI:
		return Discipline(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDiscipline, s)
}

// acmPenaltyMinutes is charged per failed attempt before acceptance.
const acmPenaltyMinutes = 20

// applyVerdict folds a new judged verdict into a player's per-problem record
// and reports whether the player's aggregate must be recomputed. A zero prev
// means no prior attempt. contestStart is epoch seconds.
func applyVerdict(d Discipline, contestStart int64, prev models.ProblemScore, ev SubmissionEvent) (models.ProblemScore, bool) {
	next := prev

	switch d {
	case ACM:
		if prev.Accepted {
			// Locked after acceptance; later submissions only count as
			// attempt history.
			next.Attempts++
			return next, false
		}
		next.Attempts++
		if ev.Verdict != models.VerdictAccepted {
			return next, false
		}
		next.Accepted = true
		next.Score = ev.Score
		next.AcceptedAt = ev.SubmittedAt
		next.BestAt = ev.SubmittedAt
		elapsed := (ev.SubmittedAt - contestStart) / 60
		if elapsed < 0 {
			elapsed = 0
		}
		next.Penalty = elapsed + acmPenaltyMinutes*int64(prev.Attempts)
		return next, true

	default: // OI and IOI: keep the best score, never regress
		next.Attempts++
		if ev.Score <= prev.Score {
			return next, false
		}
		next.Score = ev.Score
		next.Accepted = ev.Verdict == models.VerdictAccepted
		next.BestAt = ev.SubmittedAt
		return next, true
	}
}

// aggregate recomputes the aggregate score and tiebreak value from the full
// per-problem map.
func aggregate(d Discipline, scores models.ScoreMap) (int, int64) {
	var agg int
	var tiebreak int64

	switch d {
	case ACM:
		for _, rec := range scores {
			if rec.Accepted {
				agg++
				tiebreak += rec.Penalty
			}
		}
	default:
		for _, rec := range scores {
			agg += rec.Score
			// Tie broken by the latest time any score was improved.
			if rec.BestAt > tiebreak {
				tiebreak = rec.BestAt
			}
		}
	}
	return agg, tiebreak
}

// entryLess is the ranklist comparator: aggregate descending, tiebreak
// ascending, user ID as the final deterministic key.
func entryLess(d Discipline, a, b models.RanklistEntry) bool {
	if a.Aggregate != b.Aggregate {
		return a.Aggregate > b.Aggregate
	}
	if a.Tiebreak != b.Tiebreak {
		if d != ACM {
			// A zero time means no scoring result yet and ranks last.
			if a.Tiebreak == 0 {
				return false
			}
			if b.Tiebreak == 0 {
				return true
			}
		}
		return a.Tiebreak < b.Tiebreak
	}
	return a.UserID < b.UserID
}
