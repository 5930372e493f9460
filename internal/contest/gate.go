package contest

import (
	"github.com/zoj-dev/zoj/internal/database/models"
)

// Pure predicates over contest state and caller identity. Times are epoch
// seconds; the active window is half-open [StartTime, EndTime).

func IsRunning(c *models.Contest, now int64) bool {
	return now >= c.StartTime && now < c.EndTime
}

func IsEnded(c *models.Contest, now int64) bool {
	return now >= c.EndTime
}

// AllowedEdit reports whether user may manage the contest: admins of tier 3
// and above, or the contest holder.
func AllowedEdit(c *models.Contest, user *models.User) bool {
	if user == nil {
		return false
	}
	return user.Admin >= 3 || c.HolderID == user.ID
}

// AllowedSeeResult reports whether user may view the ranklist now. IOI
// contests expose live results to everyone; for the other disciplines the
// ranklist is hidden while the contest is running, except to editors.
func AllowedSeeResult(c *models.Contest, user *models.User, now int64) bool {
	if Discipline(c.Type) == IOI {
		return true
	}
	return AllowedEdit(c, user) || !IsRunning(c, now)
}
