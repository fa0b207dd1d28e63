package services

import (
	"testing"

	courseModels "langit/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedVideo(t *testing.T, db *gorm.DB, chapterID uint, duration int) courseModels.Video {
	t.Helper()
	video := courseModels.Video{ChapterID: chapterID, Title: "Lesson", Duration: duration}
	require.NoError(t, db.Create(&video).Error)
	return video
}

func watchState(t *testing.T, db *gorm.DB, userID, courseID, chapterID uint) courseModels.Progress {
	t.Helper()
	var p courseModels.Progress
	require.NoError(t, db.Where("user_id = ? AND course_id = ? AND chapter_id = ?",
		userID, courseID, chapterID).First(&p).Error)
	return p
}

func TestUpdateProgress(t *testing.T) {
	t.Run("watched seconds never shrink", func(t *testing.T) {
		db := newTestDB(t)
		course, chapters := seedCourse(t, db, "Algebra", 2)
		enroll(t, db, 1, course.ID)
		video := seedVideo(t, db, chapters[0].ID, 100)

		_, rate, err := UpdateProgress(db, 1, video.ID, 50)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, rate, 0.001)

		// A smaller report later must not lower the stored state
		_, rate, err = UpdateProgress(db, 1, video.ID, 30)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, rate, 0.001)

		p := watchState(t, db, 1, course.ID, chapters[0].ID)
		assert.Equal(t, 50, p.WatchedSeconds)
	})

	t.Run("completion at 80 percent is sticky", func(t *testing.T) {
		db := newTestDB(t)
		course, chapters := seedCourse(t, db, "Algebra", 2)
		enroll(t, db, 1, course.ID)
		video := seedVideo(t, db, chapters[0].ID, 100)

		status, _, err := UpdateProgress(db, 1, video.ID, 79)
		require.NoError(t, err)
		assert.Equal(t, WatchStatusLearning, status)

		status, _, err = UpdateProgress(db, 1, video.ID, 80)
		require.NoError(t, err)
		assert.Equal(t, WatchStatusCompleted, status)

		// Still completed after a low report
		status, _, err = UpdateProgress(db, 1, video.ID, 10)
		require.NoError(t, err)
		assert.Equal(t, WatchStatusCompleted, status)
		assert.True(t, watchState(t, db, 1, course.ID, chapters[0].ID).IsCompleted)
	})

	t.Run("watch time is capped at the duration", func(t *testing.T) {
		db := newTestDB(t)
		course, chapters := seedCourse(t, db, "Algebra", 1)
		enroll(t, db, 1, course.ID)
		video := seedVideo(t, db, chapters[0].ID, 100)

		_, rate, err := UpdateProgress(db, 1, video.ID, 150)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, rate, 0.001)
		assert.Equal(t, 100, watchState(t, db, 1, course.ID, chapters[0].ID).WatchedSeconds)
	})

	t.Run("implausible watch time is rejected", func(t *testing.T) {
		db := newTestDB(t)
		course, chapters := seedCourse(t, db, "Algebra", 1)
		enroll(t, db, 1, course.ID)
		video := seedVideo(t, db, chapters[0].ID, 100)

		_, _, err := UpdateProgress(db, 1, video.ID, 1001) // > 10x duration
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("negative watch time is rejected", func(t *testing.T) {
		db := newTestDB(t)
		course, chapters := seedCourse(t, db, "Algebra", 1)
		enroll(t, db, 1, course.ID)
		video := seedVideo(t, db, chapters[0].ID, 100)

		_, _, err := UpdateProgress(db, 1, video.ID, -1)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unenrolled user cannot be told the video exists", func(t *testing.T) {
		db := newTestDB(t)
		_, chapters := seedCourse(t, db, "Algebra", 1)
		video := seedVideo(t, db, chapters[0].ID, 100)

		_, _, err := UpdateProgress(db, 99, video.ID, 10)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("completing all chapters completes the course once", func(t *testing.T) {
		db := newTestDB(t)
		course, chapters := seedCourse(t, db, "Algebra", 1)
		enroll(t, db, 1, course.ID)
		video := seedVideo(t, db, chapters[0].ID, 100)

		var hookCalls int
		prev := CourseCompletedHook
		CourseCompletedHook = func(userID, courseID uint) { hookCalls++ }
		defer func() { CourseCompletedHook = prev }()

		_, _, err := UpdateProgress(db, 1, video.ID, 100)
		require.NoError(t, err)

		var uc courseModels.UserCourse
		require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, course.ID).First(&uc).Error)
		assert.Equal(t, 100, uc.ProgressRate)
		assert.Equal(t, courseModels.StatusCompleted, uc.LearningStatus)
		assert.Equal(t, 1, hookCalls)

		// A repeat report must not fire the hook again
		_, _, err = UpdateProgress(db, 1, video.ID, 100)
		require.NoError(t, err)
		assert.Equal(t, 1, hookCalls)
	})
}

func TestRecordEvent(t *testing.T) {
	db := newTestDB(t)
	course, chapters := seedCourse(t, db, "Algebra", 1)
	enroll(t, db, 1, course.ID)
	video := seedVideo(t, db, chapters[0].ID, 100)

	require.NoError(t, RecordEvent(db, 1, video.ID, 40))
	assert.Equal(t, 40, watchState(t, db, 1, course.ID, chapters[0].ID).LastWatchPosition)

	// Last writer wins, even when seeking backwards
	require.NoError(t, RecordEvent(db, 1, video.ID, 10))
	assert.Equal(t, 10, watchState(t, db, 1, course.ID, chapters[0].ID).LastWatchPosition)

	// Positions beyond the duration clip
	require.NoError(t, RecordEvent(db, 1, video.ID, 500))
	assert.Equal(t, 100, watchState(t, db, 1, course.ID, chapters[0].ID).LastWatchPosition)
}

func TestWatchStateFor(t *testing.T) {
	db := newTestDB(t)
	course, chapters := seedCourse(t, db, "Algebra", 1)
	enroll(t, db, 1, course.ID)

	// No row yet reads as zero state and creates nothing
	state, err := WatchStateFor(db, 1, course.ID, chapters[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, state.WatchedSeconds)
	assert.False(t, state.IsCompleted)

	var count int64
	require.NoError(t, db.Model(&courseModels.Progress{}).Count(&count).Error)
	assert.Zero(t, count)
}
