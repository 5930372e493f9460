package contest

import (
	"encoding/json"
	"sort"

	"github.com/zoj-dev/zoj/internal/database"
	"github.com/zoj-dev/zoj/internal/database/models"
	"github.com/zoj-dev/zoj/internal/lock"

	"go.uber.org/zap"
)

// mergePlayer replaces (or inserts) the player's row in the contest's
// ranklist and re-establishes the discipline's total order.
//
// The ranklist lock, not the caller's per-player lock, is the serialization
// point for the shared collection: concurrent merges from different players
// queue up here. The ranklist is reloaded inside the critical section so
// each merge folds into the latest persisted state.
func (s *Service) mergePlayer(c *models.Contest, d Discipline, player *models.ContestPlayer) error {
	release := s.locks.Acquire(lock.RanklistKey(c.ID))
	defer release()

	ranklist, err := database.GetRanklist(s.db, c.RanklistID)
	if err != nil {
		return &PersistenceError{Op: "load ranklist", Err: err}
	}

	entry := models.RanklistEntry{
		UserID:    player.UserID,
		Aggregate: player.Aggregate,
		Tiebreak:  player.Tiebreak,
		Scores:    player.Scores,
	}

	replaced := false
	for i := range ranklist.Entries {
		if ranklist.Entries[i].UserID == player.UserID {
			ranklist.Entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		ranklist.Entries = append(ranklist.Entries, entry)
	}

	sort.SliceStable(ranklist.Entries, func(i, j int) bool {
		return entryLess(d, ranklist.Entries[i], ranklist.Entries[j])
	})
	ranklist.Version++

	if err := database.SaveRanklist(s.db, ranklist); err != nil {
		return &PersistenceError{Op: "save ranklist", Err: err}
	}

	s.publishRanklist(c.ID, ranklist)
	return nil
}

// RebuildRanklist recomputes the full ranklist from the stored players, for
// recovery after manual score fixes.
func (s *Service) RebuildRanklist(c *models.Contest) error {
	d, err := ParseDiscipline(c.Type)
	if err != nil {
		return err
	}

	release := s.locks.Acquire(lock.RanklistKey(c.ID))
	defer release()

	ranklist, err := database.GetRanklist(s.db, c.RanklistID)
	if err != nil {
		return &PersistenceError{Op: "load ranklist", Err: err}
	}
	players, err := database.GetContestPlayers(s.db, c.ID)
	if err != nil {
		return &PersistenceError{Op: "load contest players", Err: err}
	}

	entries := make(models.RanklistEntryList, 0, len(players))
	for _, p := range players {
		entries = append(entries, models.RanklistEntry{
			UserID:    p.UserID,
			Aggregate: p.Aggregate,
			Tiebreak:  p.Tiebreak,
			Scores:    p.Scores,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entryLess(d, entries[i], entries[j])
	})

	ranklist.Entries = entries
	ranklist.Version++
	if err := database.SaveRanklist(s.db, ranklist); err != nil {
		return &PersistenceError{Op: "save ranklist", Err: err}
	}

	s.publishRanklist(c.ID, ranklist)
	return nil
}

func (s *Service) publishRanklist(contestID string, ranklist *models.ContestRanklist) {
	if s.broker == nil {
		return
	}
	payload, err := json.Marshal(ranklist)
	if err != nil {
		zap.S().Errorf("failed to marshal ranklist %s for publish: %v", ranklist.ID, err)
		return
	}
	s.broker.Publish(RanklistTopic(contestID), payload)
}

// RanklistTopic names the pubsub topic carrying a contest's live ranklist.
func RanklistTopic(contestID string) string {
	return "ranklist/" + contestID
}
