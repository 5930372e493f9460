package judge

import (
	"github.com/zoj-dev/zoj/internal/database/models"

	"gorm.io/gorm"
)

// RecoverInterrupted marks submissions that were mid-judging when the
// service stopped as failed, so the queue starts from a clean state.
func RecoverInterrupted(db *gorm.DB) error {
	return db.Model(&models.Submission{}).
		Where("status = ?", models.StatusRunning).
		Updates(map[string]interface{}{
			"status":  models.StatusFailed,
			"verdict": models.VerdictSystemError,
		}).Error
}
