package database

import (
	"github.com/zoj-dev/zoj/internal/database/models"
	"gorm.io/gorm"
)

// User CRUD
func CreateUser(db *gorm.DB, user *models.User) error {
	return db.Create(user).Error
}

func GetUserByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByUsername(db *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByGitLabID(db *gorm.DB, gitlabID string) (*models.User, error) {
	var user models.User
	if err := db.Where("git_lab_id = ?", gitlabID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetAllUsers(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func UpdateUser(db *gorm.DB, user *models.User) error {
	return db.Save(user).Error
}

func DeleteUser(db *gorm.DB, userID string) error {
	return db.Delete(&models.User{}, "id = ?", userID).Error
}

// Problem CRUD
func CreateProblem(db *gorm.DB, problem *models.Problem) error {
	return db.Create(problem).Error
}

func GetProblem(db *gorm.DB, id string) (*models.Problem, error) {
	var problem models.Problem
	if err := db.Where("id = ?", id).First(&problem).Error; err != nil {
		return nil, err
	}
	return &problem, nil
}

func GetAllProblems(db *gorm.DB) ([]models.Problem, error) {
	var problems []models.Problem
	if err := db.Order("created_at asc").Find(&problems).Error; err != nil {
		return nil, err
	}
	return problems, nil
}

func UpdateProblem(db *gorm.DB, problem *models.Problem) error {
	return db.Save(problem).Error
}

func DeleteProblem(db *gorm.DB, id string) error {
	return db.Delete(&models.Problem{}, "id = ?", id).Error
}

// Contest CRUD

// CreateContest inserts the contest together with its ranklist. Each contest
// owns exactly one ranklist, created here and never re-created later.
func CreateContest(db *gorm.DB, contest *models.Contest, ranklist *models.ContestRanklist) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ranklist).Error; err != nil {
			return err
		}
		contest.RanklistID = ranklist.ID
		return tx.Create(contest).Error
	})
}

func GetContest(db *gorm.DB, id string) (*models.Contest, error) {
	var contest models.Contest
	if err := db.Where("id = ?", id).First(&contest).Error; err != nil {
		return nil, err
	}
	return &contest, nil
}

func GetAllContests(db *gorm.DB) ([]models.Contest, error) {
	var contests []models.Contest
	if err := db.Order("start_time desc").Find(&contests).Error; err != nil {
		return nil, err
	}
	return contests, nil
}

func UpdateContest(db *gorm.DB, contest *models.Contest) error {
	return db.Save(contest).Error
}

// ContestPlayer

func GetContestPlayer(db *gorm.DB, contestID, userID string) (*models.ContestPlayer, error) {
	var player models.ContestPlayer
	if err := db.Where("contest_id = ? AND user_id = ?", contestID, userID).First(&player).Error; err != nil {
		return nil, err
	}
	return &player, nil
}

func GetContestPlayers(db *gorm.DB, contestID string) ([]models.ContestPlayer, error) {
	var players []models.ContestPlayer
	if err := db.Where("contest_id = ?", contestID).Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

func SaveContestPlayer(db *gorm.DB, player *models.ContestPlayer) error {
	return db.Save(player).Error
}

// ContestRanklist

func GetRanklist(db *gorm.DB, id string) (*models.ContestRanklist, error) {
	var ranklist models.ContestRanklist
	if err := db.Where("id = ?", id).First(&ranklist).Error; err != nil {
		return nil, err
	}
	return &ranklist, nil
}

func GetRanklistByContestID(db *gorm.DB, contestID string) (*models.ContestRanklist, error) {
	var ranklist models.ContestRanklist
	if err := db.Where("contest_id = ?", contestID).First(&ranklist).Error; err != nil {
		return nil, err
	}
	return &ranklist, nil
}

func SaveRanklist(db *gorm.DB, ranklist *models.ContestRanklist) error {
	return db.Save(ranklist).Error
}

// Submission CRUD
func CreateSubmission(db *gorm.DB, sub *models.Submission) error {
	return db.Create(sub).Error
}

func GetSubmission(db *gorm.DB, id string) (*models.Submission, error) {
	var sub models.Submission
	if err := db.Preload("User").Where("id = ?", id).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func GetSubmissionsByUserID(db *gorm.DB, userID string) ([]models.Submission, error) {
	var subs []models.Submission
	if err := db.Preload("User").Where("user_id = ?", userID).Order("created_at desc").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func GetAllSubmissions(db *gorm.DB) ([]models.Submission, error) {
	var subs []models.Submission
	if err := db.Preload("User").Order("created_at desc").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func GetQueuedSubmissions(db *gorm.DB) ([]models.Submission, error) {
	var subs []models.Submission
	if err := db.Where("status = ?", models.StatusQueued).Order("created_at asc").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func UpdateSubmission(db *gorm.DB, sub *models.Submission) error {
	return db.Save(sub).Error
}

// Score history

func CreateScoreHistory(db *gorm.DB, history *models.ContestScoreHistory) error {
	return db.Create(history).Error
}

// UserScoreHistoryPoint represents a single point in a user's score history
// for a contest.
type UserScoreHistoryPoint struct {
	Time      int64  `json:"time"`
	Aggregate int    `json:"aggregate"`
	ProblemID string `json:"problem_id"`
}

func GetScoreHistoryForUser(db *gorm.DB, contestID, userID string) ([]UserScoreHistoryPoint, error) {
	var results []models.ContestScoreHistory
	if err := db.Model(&models.ContestScoreHistory{}).
		Where("contest_id = ? AND user_id = ?", contestID, userID).
		Order("created_at asc").
		Find(&results).Error; err != nil {
		return nil, err
	}

	history := make([]UserScoreHistoryPoint, 0, len(results))
	for _, r := range results {
		history = append(history, UserScoreHistoryPoint{
			Time:      r.CreatedAt.Unix(),
			Aggregate: r.AggregateAfterChange,
			ProblemID: r.ProblemID,
		})
	}
	return history, nil
}

func GetScoreHistoriesForUsers(db *gorm.DB, contestID string, userIDs []string) (map[string][]UserScoreHistoryPoint, error) {
	var results []models.ContestScoreHistory
	if err := db.Model(&models.ContestScoreHistory{}).
		Where("contest_id = ? AND user_id IN ?", contestID, userIDs).
		Order("created_at asc").
		Find(&results).Error; err != nil {
		return nil, err
	}

	historiesByUser := make(map[string][]UserScoreHistoryPoint)
	for _, r := range results {
		historiesByUser[r.UserID] = append(historiesByUser[r.UserID], UserScoreHistoryPoint{
			Time:      r.CreatedAt.Unix(),
			Aggregate: r.AggregateAfterChange,
			ProblemID: r.ProblemID,
		})
	}
	return historiesByUser, nil
}
