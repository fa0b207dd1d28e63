package services

import (
	"testing"

	"langit/database"
	courseModels "langit/models/course"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full tenant schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every statement on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.RunTenantMigrations(db))
	return db
}

// seedCourse creates a course with n chapters and returns it with the
// chapters in sort order.
func seedCourse(t *testing.T, db *gorm.DB, title string, chapterCount int) (courseModels.Course, []courseModels.Chapter) {
	t.Helper()

	course := courseModels.Course{Title: title, Version: 1, IsActive: true}
	require.NoError(t, db.Create(&course).Error)

	chapters := make([]courseModels.Chapter, 0, chapterCount)
	for i := 0; i < chapterCount; i++ {
		chapter := courseModels.Chapter{
			CourseID:    course.ID,
			Title:       title + " chapter",
			ChapterType: "video",
			SortOrder:   i + 1,
		}
		require.NoError(t, db.Create(&chapter).Error)
		chapters = append(chapters, chapter)
	}
	return course, chapters
}

// enroll creates a user_courses row.
func enroll(t *testing.T, db *gorm.DB, userID, courseID uint) {
	t.Helper()
	require.NoError(t, db.Create(&courseModels.UserCourse{
		UserID:         userID,
		CourseID:       courseID,
		LearningStatus: courseModels.StatusNotStarted,
	}).Error)
}

// completeChapter marks one chapter's progress row completed.
func completeChapter(t *testing.T, db *gorm.DB, userID, courseID, chapterID uint) {
	t.Helper()
	require.NoError(t, db.Create(&courseModels.Progress{
		UserID:      userID,
		CourseID:    courseID,
		ChapterID:   chapterID,
		IsCompleted: true,
	}).Error)
}
