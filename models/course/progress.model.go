package course

import "gorm.io/gorm"

// Learning status values shared by UserCourse and the progress engines.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Progress is per-user-per-chapter watch/completion state, keyed by the
// natural key (user_id, course_id, chapter_id). IsCompleted is monotonic:
// once true it is never reset.
type Progress struct {
	gorm.Model
	UserID            uint    `json:"user_id" gorm:"uniqueIndex:idx_progress_user_chapter;not null"`
	CourseID          uint    `json:"course_id" gorm:"uniqueIndex:idx_progress_user_chapter;not null"`
	ChapterID         uint    `json:"chapter_id" gorm:"uniqueIndex:idx_progress_user_chapter;not null"`
	WatchedSeconds    int     `json:"watched_seconds" gorm:"default:0"`
	WatchedRate       float64 `json:"watched_rate" gorm:"default:0"` // 0.0-1.0
	LastWatchPosition int     `json:"last_watch_position" gorm:"default:0"`
	IsCompleted       bool    `json:"is_completed" gorm:"default:false"`
}

// UserCourse is the enrollment record. Created on enrollment; progress_rate
// and learning_status are maintained by the progress engines.
type UserCourse struct {
	gorm.Model
	UserID         uint   `json:"user_id" gorm:"uniqueIndex:idx_user_course;not null"`
	CourseID       uint   `json:"course_id" gorm:"uniqueIndex:idx_user_course;not null"`
	LearningStatus string `json:"learning_status" gorm:"default:'not_started'"`
	ProgressRate   int    `json:"progress_rate" gorm:"default:0"` // 0-100
}
