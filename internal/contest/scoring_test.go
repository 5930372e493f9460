package contest

import (
	"testing"

	"github.com/zoj-dev/zoj/internal/database/models"
)

func oiEvent(score int, at int64) SubmissionEvent {
	v := models.VerdictPartialScore
	if score == 100 {
		v = models.VerdictAccepted
	}
	return SubmissionEvent{ProblemID: "p1", Verdict: v, Score: score, SubmittedAt: at}
}

func TestParseDiscipline(t *testing.T) {
	for _, valid := range []string{"oi", "acm", "ioi"} {
		if _, err := ParseDiscipline(valid); err != nil {
			t.Fatalf("ParseDiscipline(%q) failed: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "noi", "OI", "codeforces"} {
		if _, err := ParseDiscipline(invalid); err == nil {
			t.Fatalf("ParseDiscipline(%q) should fail", invalid)
		}
	}
}

func TestOIBestScoreKept(t *testing.T) {
	// Submit 40, then 70, then 55: best stays at 70.
	var rec models.ProblemScore
	var changed bool

	rec, changed = applyVerdict(OI, 1000, rec, oiEvent(40, 1100))
	if !changed || rec.Score != 40 {
		t.Fatalf("after first submission: score %d, changed %v", rec.Score, changed)
	}
	rec, changed = applyVerdict(OI, 1000, rec, oiEvent(70, 1200))
	if !changed || rec.Score != 70 || rec.BestAt != 1200 {
		t.Fatalf("after improvement: %+v, changed %v", rec, changed)
	}
	rec, changed = applyVerdict(OI, 1000, rec, oiEvent(55, 1300))
	if changed {
		t.Fatal("a lower score must not trigger an aggregate recompute")
	}
	if rec.Score != 70 || rec.BestAt != 1200 {
		t.Fatalf("best score regressed: %+v", rec)
	}
	if rec.Attempts != 3 {
		t.Fatalf("attempts = %d, want 3", rec.Attempts)
	}

	agg, _ := aggregate(OI, models.ScoreMap{"p1": rec})
	if agg != 70 {
		t.Fatalf("aggregate = %d, want 70", agg)
	}
}

func TestOIMonotonicOverAnySequence(t *testing.T) {
	scores := []int{30, 10, 30, 90, 90, 40, 100, 0}
	var rec models.ProblemScore
	best := 0
	for i, s := range scores {
		rec, _ = applyVerdict(IOI, 0, rec, oiEvent(s, int64(100*i)))
		if s > best {
			best = s
		}
		if rec.Score != best {
			t.Fatalf("after score %d: stored %d, want %d", s, rec.Score, best)
		}
	}
}

func TestACMPenalty(t *testing.T) {
	// Wrong answer at 10 minutes, accepted at 15: 1 solved, 15+20 = 35.
	const start = int64(10000)
	var rec models.ProblemScore
	var changed bool

	rec, changed = applyVerdict(ACM, start, rec, SubmissionEvent{
		ProblemID: "q", Verdict: models.VerdictWrongAnswer, SubmittedAt: start + 10*60,
	})
	if changed {
		t.Fatal("a failed attempt must not trigger an aggregate recompute")
	}
	if rec.Accepted || rec.Attempts != 1 {
		t.Fatalf("after wrong answer: %+v", rec)
	}

	rec, changed = applyVerdict(ACM, start, rec, SubmissionEvent{
		ProblemID: "q", Verdict: models.VerdictAccepted, Score: 100, SubmittedAt: start + 15*60,
	})
	if !changed || !rec.Accepted {
		t.Fatalf("acceptance not recorded: %+v, changed %v", rec, changed)
	}
	if rec.Penalty != 35 {
		t.Fatalf("penalty = %d minutes, want 35", rec.Penalty)
	}

	agg, tiebreak := aggregate(ACM, models.ScoreMap{"q": rec})
	if agg != 1 || tiebreak != 35 {
		t.Fatalf("aggregate = %d/%d, want 1/35", agg, tiebreak)
	}
}

func TestACMLockedAfterAcceptance(t *testing.T) {
	const start = int64(0)
	var rec models.ProblemScore

	rec, _ = applyVerdict(ACM, start, rec, SubmissionEvent{
		ProblemID: "q", Verdict: models.VerdictAccepted, Score: 100, SubmittedAt: 5 * 60,
	})
	locked := rec

	for _, v := range []models.Verdict{models.VerdictAccepted, models.VerdictWrongAnswer} {
		next, changed := applyVerdict(ACM, start, rec, SubmissionEvent{
			ProblemID: "q", Verdict: v, Score: 100, SubmittedAt: 90 * 60,
		})
		if changed {
			t.Fatalf("submission after acceptance (%s) must not change scoring", v)
		}
		if next.Penalty != locked.Penalty || next.AcceptedAt != locked.AcceptedAt {
			t.Fatalf("locked problem mutated: %+v", next)
		}
		rec = next
	}
	if rec.Attempts != 3 {
		t.Fatalf("attempt history should keep counting, got %d", rec.Attempts)
	}
}

func TestEntryLessTotalOrder(t *testing.T) {
	entries := []models.RanklistEntry{
		{UserID: "a", Aggregate: 100, Tiebreak: 500},
		{UserID: "b", Aggregate: 100, Tiebreak: 300},
		{UserID: "c", Aggregate: 200, Tiebreak: 900},
		{UserID: "d", Aggregate: 100, Tiebreak: 300},
		{UserID: "e", Aggregate: 0, Tiebreak: 0},
	}

	// c first (highest aggregate); b before d (user id); both before a
	// (earlier tiebreak); e last.
	wantAfterSort := []string{"c", "b", "d", "a", "e"}

	sorted := make([]models.RanklistEntry, len(entries))
	copy(sorted, entries)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if entryLess(OI, sorted[j], sorted[i]) {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	for i, want := range wantAfterSort {
		if sorted[i].UserID != want {
			t.Fatalf("position %d = %s, want %s", i, sorted[i].UserID, want)
		}
	}

	// Irreflexivity and asymmetry over every pair.
	for _, x := range entries {
		if entryLess(OI, x, x) {
			t.Fatalf("entryLess(%s, %s) must be false", x.UserID, x.UserID)
		}
		for _, y := range entries {
			if x.UserID != y.UserID && entryLess(OI, x, y) && entryLess(OI, y, x) {
				t.Fatalf("entryLess not asymmetric for %s/%s", x.UserID, y.UserID)
			}
		}
	}
}

func TestEntryLessZeroTimeRanksLast(t *testing.T) {
	scored := models.RanklistEntry{UserID: "a", Aggregate: 50, Tiebreak: 12345}
	unscored := models.RanklistEntry{UserID: "b", Aggregate: 50, Tiebreak: 0}

	if !entryLess(OI, scored, unscored) {
		t.Fatal("a player with a scoring time must rank above one without")
	}
	if entryLess(OI, unscored, scored) {
		t.Fatal("zero tiebreak must not rank first under OI")
	}
}

func TestEntryLessACMPlainAscending(t *testing.T) {
	fast := models.RanklistEntry{UserID: "a", Aggregate: 3, Tiebreak: 0}
	slow := models.RanklistEntry{UserID: "b", Aggregate: 3, Tiebreak: 120}

	// A genuine zero penalty is a better ACM result, not a missing one.
	if !entryLess(ACM, fast, slow) {
		t.Fatal("lower ACM penalty must rank first")
	}
}
