package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusQueued  Status = "Queued"
	StatusRunning Status = "Running"
	StatusSuccess Status = "Success"
	StatusFailed  Status = "Failed"
)

type Verdict string

const (
	VerdictAccepted     Verdict = "Accepted"
	VerdictWrongAnswer  Verdict = "WrongAnswer"
	VerdictTimeLimit    Verdict = "TimeLimitExceeded"
	VerdictMemoryLimit  Verdict = "MemoryLimitExceeded"
	VerdictRuntimeError Verdict = "RuntimeError"
	VerdictCompileError Verdict = "CompileError"
	VerdictPartialScore Verdict = "PartialScore"
	VerdictSystemError  Verdict = "SystemError"
)

func jsonValue(v interface{}) (driver.Value, error) {
	return json.Marshal(v)
}

func jsonScan(dst interface{}, value interface{}) error {
	switch data := value.(type) {
	case []byte:
		return json.Unmarshal(data, dst)
	case string:
		return json.Unmarshal([]byte(data), dst)
	default:
		return errors.New("unsupported type for JSON column")
	}
}

// JSONMap is a helper type for storing JSON data in the database.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error)  { return jsonValue(m) }
func (m *JSONMap) Scan(value interface{}) error { return jsonScan(m, value) }

// ProblemScore is one player's record for one problem inside a contest.
// BestAt and AcceptedAt are epoch seconds, Penalty is in minutes.
type ProblemScore struct {
	Score      int   `json:"score"`
	Accepted   bool  `json:"accepted"`
	Attempts   int   `json:"attempts"`
	BestAt     int64 `json:"best_at"`
	AcceptedAt int64 `json:"accepted_at"`
	Penalty    int64 `json:"penalty"`
}

// ScoreMap maps problem ID to the player's record for that problem.
type ScoreMap map[string]ProblemScore

func (m ScoreMap) Value() (driver.Value, error)  { return jsonValue(m) }
func (m *ScoreMap) Scan(value interface{}) error { return jsonScan(m, value) }

// ProblemRef is an ordered reference to a problem inside a contest.
type ProblemRef struct {
	ProblemID string `json:"problem_id"`
	Order     int    `json:"order"`
}

type ProblemRefList []ProblemRef

func (l ProblemRefList) Value() (driver.Value, error)  { return jsonValue(l) }
func (l *ProblemRefList) Scan(value interface{}) error { return jsonScan(l, value) }

// RanklistEntry is one player's row in a contest ranklist.
type RanklistEntry struct {
	UserID    string   `json:"user_id"`
	Aggregate int      `json:"aggregate"`
	Tiebreak  int64    `json:"tiebreak"`
	Scores    ScoreMap `json:"scores"`
}

type RanklistEntryList []RanklistEntry

func (l RanklistEntryList) Value() (driver.Value, error)  { return jsonValue(l) }
func (l *RanklistEntryList) Scan(value interface{}) error { return jsonScan(l, value) }

type User struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	GitLabID     *string    `gorm:"uniqueIndex" json:"-"`
	Username     string     `gorm:"uniqueIndex" json:"username"`
	PasswordHash string     `json:"-"`
	Nickname     string     `json:"nickname"`
	Signature    string     `json:"signature"`
	AvatarURL    string     `json:"avatar_url"`
	Admin        int        `json:"admin"` // privilege tier, >= 3 may manage any contest
	BannedUntil  *time.Time `json:"banned_until"`
	BanReason    string     `json:"ban_reason"`
}

type Problem struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Title       string `json:"title"`
	Statement   string `gorm:"type:text" json:"statement"`
	HolderID    string `gorm:"index" json:"holder_id"`
	IsPublic    bool   `json:"is_public"`
	IsProtected bool   `json:"is_protected"`
}

// Contest times are epoch seconds; the active window is [StartTime, EndTime).
type Contest struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Title     string `json:"title"`
	Subtitle  string `gorm:"type:text" json:"subtitle"`
	StartTime int64  `json:"start_time"`
	EndTime   int64  `json:"end_time"`
	Type      string `json:"type"` // oi, acm or ioi

	Problems   ProblemRefList `gorm:"type:text" json:"problems"`
	RanklistID string         `gorm:"uniqueIndex" json:"ranklist_id"`
	HolderID   string         `gorm:"index" json:"holder_id"`

	IsPublic    bool `json:"is_public"`
	IsProtected bool `json:"is_protected"`
}

// ContestPlayer is created lazily on a player's first judged submission and
// only ever mutated through the scoring pipeline.
type ContestPlayer struct {
	ID        uint `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time
	UpdatedAt time.Time

	ContestID string   `gorm:"uniqueIndex:idx_contest_user" json:"contest_id"`
	UserID    string   `gorm:"uniqueIndex:idx_contest_user" json:"user_id"`
	Scores    ScoreMap `gorm:"type:text" json:"scores"`
	Aggregate int      `json:"aggregate"`
	Tiebreak  int64    `json:"tiebreak"`
}

// ContestRanklist is 1:1 with its contest; Version advances on every
// successful merge.
type ContestRanklist struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	ContestID string            `gorm:"uniqueIndex" json:"contest_id"`
	Entries   RanklistEntryList `gorm:"type:text" json:"entries"`
	Version   int64             `json:"version"`
}

type Submission struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	ProblemID string  `gorm:"index" json:"problem_id"`
	UserID    string  `gorm:"index" json:"user_id"`
	User      User    `json:"user"`
	ContestID *string `gorm:"index" json:"contest_id"` // nil for practice submissions

	Language string     `json:"language"`
	Code     string     `gorm:"type:text" json:"code"`
	Status   Status     `gorm:"index" json:"status"`
	Verdict  Verdict    `json:"verdict"`
	Score    int        `json:"score"`
	JudgedAt *time.Time `json:"judged_at"`
	Info     JSONMap    `gorm:"type:text" json:"info"`
}

// ContestScoreHistory records one row per change of a player's aggregate,
// for the trend view.
type ContestScoreHistory struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID               string
	ContestID            string
	ProblemID            string
	AggregateAfterChange int
	SubmissionID         string
}
