package course

import (
	"time"

	"gorm.io/gorm"
)

// Course represents one version of a learning course. Rows sharing a
// BaseCourseID form a course family; the "latest" flag is never stored,
// it is recomputed on read from the active rows' versions.
type Course struct {
	gorm.Model
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ThumbnailURL string     `json:"thumbnail_url"`
	BaseCourseID *uint      `json:"base_course_id" gorm:"index"` // nil for originals (family of itself)
	Version      uint       `json:"version" gorm:"default:1"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	PublishedAt  *time.Time `json:"published_at"`
}

// FamilyID resolves the course family key (originals are their own base).
func (c *Course) FamilyID() uint {
	if c.BaseCourseID != nil {
		return *c.BaseCourseID
	}
	return c.ID
}

// Chapter is an ordered unit within a course.
type Chapter struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	ChapterType string `json:"chapter_type" gorm:"default:'video'"` // video, test, report
	SortOrder   int    `json:"sort_order" gorm:"default:0"`
}

// Video belongs to a chapter; one chapter has at most one primary video.
type Video struct {
	gorm.Model
	ChapterID uint   `json:"chapter_id" gorm:"index;not null"`
	Title     string `json:"title"`
	VideoURL  string `json:"video_url"`
	Duration  int    `json:"duration" gorm:"default:0"` // seconds
	SortOrder int    `json:"sort_order" gorm:"default:0"`
}

// CoursePath is a directed edge in the course roadmap graph. Purely
// advisory ordering; no cycle prevention.
type CoursePath struct {
	gorm.Model
	FromCourseID uint `json:"from_course_id" gorm:"index;not null"`
	ToCourseID   uint `json:"to_course_id" gorm:"index;not null"`
	SortOrder    int  `json:"sort_order" gorm:"default:1"`
}
