package contest

import (
	"testing"

	"github.com/zoj-dev/zoj/internal/database/models"
)

func gateContest(typ string, start, end int64) *models.Contest {
	return &models.Contest{
		ID:        "c1",
		Type:      typ,
		StartTime: start,
		EndTime:   end,
		HolderID:  "holder",
	}
}

func TestIsRunningHalfOpenWindow(t *testing.T) {
	c := gateContest("oi", 1000, 2000)

	cases := []struct {
		now  int64
		want bool
	}{
		{999, false},
		{1000, true}, // inclusive start
		{1999, true},
		{2000, false}, // exclusive end
		{2001, false},
	}
	for _, tc := range cases {
		if got := IsRunning(c, tc.now); got != tc.want {
			t.Fatalf("IsRunning at %d = %v, want %v", tc.now, got, tc.want)
		}
	}
}

func TestIsEnded(t *testing.T) {
	c := gateContest("oi", 1000, 2000)
	if IsEnded(c, 1999) {
		t.Fatal("contest should not be ended before end_time")
	}
	if !IsEnded(c, 2000) {
		t.Fatal("contest should be ended at end_time")
	}
}

func TestAllowedEdit(t *testing.T) {
	c := gateContest("acm", 1000, 2000)

	if AllowedEdit(c, nil) {
		t.Fatal("anonymous user must not have edit rights")
	}
	if !AllowedEdit(c, &models.User{ID: "holder"}) {
		t.Fatal("holder must have edit rights")
	}
	if !AllowedEdit(c, &models.User{ID: "x", Admin: 3}) {
		t.Fatal("tier-3 admin must have edit rights")
	}
	if AllowedEdit(c, &models.User{ID: "x", Admin: 2}) {
		t.Fatal("tier-2 non-holder must not have edit rights")
	}
}

func TestSeeResultIOILiveForEveryone(t *testing.T) {
	c := gateContest("ioi", 1000, 2000)
	viewer := &models.User{ID: "outsider"}

	if !IsRunning(c, 1500) {
		t.Fatal("expected contest to be running")
	}
	if !AllowedSeeResult(c, viewer, 1500) {
		t.Fatal("IOI results must be visible while running")
	}
	if !AllowedSeeResult(c, nil, 1500) {
		t.Fatal("IOI results must be visible to anonymous viewers")
	}
}

func TestSeeResultHiddenWhileNonIOIRuns(t *testing.T) {
	c := gateContest("acm", 1000, 2000)
	viewer := &models.User{ID: "outsider"}

	if AllowedSeeResult(c, viewer, 1500) {
		t.Fatal("ACM results must be hidden while running")
	}
	if !AllowedSeeResult(c, viewer, 2000) {
		t.Fatal("ACM results must be visible after the contest ends")
	}
	if !AllowedSeeResult(c, viewer, 500) {
		t.Fatal("ACM results must be visible before the contest starts")
	}
	if !AllowedSeeResult(c, &models.User{ID: "holder"}, 1500) {
		t.Fatal("holder must see results while running")
	}
	if !AllowedSeeResult(c, &models.User{ID: "x", Admin: 3}, 1500) {
		t.Fatal("admin must see results while running")
	}
}
