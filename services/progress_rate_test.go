package services

import (
	"testing"

	courseModels "langit/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProgressRates(t *testing.T) {
	t.Run("floors the percentage", func(t *testing.T) {
		db := newTestDB(t)
		course, chapters := seedCourse(t, db, "Algebra", 3)
		enroll(t, db, 1, course.ID)
		completeChapter(t, db, 1, course.ID, chapters[0].ID)

		rates, err := GetProgressRates(db, 1, nil)
		require.NoError(t, err)
		require.Len(t, rates, 1)
		assert.Equal(t, course.ID, rates[0].CourseID)
		assert.Equal(t, 33, rates[0].ProgressRate) // 1/3 floors to 33
	})

	t.Run("all chapters complete reads 100", func(t *testing.T) {
		db := newTestDB(t)
		course, chapters := seedCourse(t, db, "Algebra", 2)
		enroll(t, db, 1, course.ID)
		for _, ch := range chapters {
			completeChapter(t, db, 1, course.ID, ch.ID)
		}

		rates, err := GetProgressRates(db, 1, &course.ID)
		require.NoError(t, err)
		require.Len(t, rates, 1)
		assert.Equal(t, 100, rates[0].ProgressRate)
	})

	t.Run("unenrolled course reads a single zero row", func(t *testing.T) {
		db := newTestDB(t)
		course, _ := seedCourse(t, db, "Algebra", 3)
		enroll(t, db, 1, course.ID)

		other, _ := seedCourse(t, db, "Geometry", 2)
		rates, err := GetProgressRates(db, 1, &other.ID)
		require.NoError(t, err)
		require.Len(t, rates, 1)
		assert.Equal(t, other.ID, rates[0].CourseID)
		assert.Equal(t, 0, rates[0].ProgressRate)
	})

	t.Run("chapterless course reads zero", func(t *testing.T) {
		db := newTestDB(t)
		course, _ := seedCourse(t, db, "Empty", 0)
		enroll(t, db, 1, course.ID)

		rates, err := GetProgressRates(db, 1, &course.ID)
		require.NoError(t, err)
		require.Len(t, rates, 1)
		assert.Equal(t, 0, rates[0].ProgressRate)
	})

	t.Run("no enrollments and no course reads empty", func(t *testing.T) {
		db := newTestDB(t)

		rates, err := GetProgressRates(db, 1, nil)
		require.NoError(t, err)
		assert.Empty(t, rates)
	})

	t.Run("covers every enrollment", func(t *testing.T) {
		db := newTestDB(t)
		first, chapters := seedCourse(t, db, "Algebra", 2)
		second, _ := seedCourse(t, db, "Geometry", 2)
		enroll(t, db, 1, first.ID)
		enroll(t, db, 1, second.ID)
		completeChapter(t, db, 1, first.ID, chapters[0].ID)

		rates, err := GetProgressRates(db, 1, nil)
		require.NoError(t, err)
		assert.Len(t, rates, 2)

		byCourse := map[uint]int{}
		for _, r := range rates {
			byCourse[r.CourseID] = r.ProgressRate
		}
		assert.Equal(t, 50, byCourse[first.ID])
		assert.Equal(t, 0, byCourse[second.ID])
	})
}

func TestSyncUserCourseRates(t *testing.T) {
	db := newTestDB(t)
	course, chapters := seedCourse(t, db, "Algebra", 2)
	enroll(t, db, 1, course.ID)
	completeChapter(t, db, 1, course.ID, chapters[0].ID)

	rates, err := GetProgressRates(db, 1, nil)
	require.NoError(t, err)
	require.NoError(t, SyncUserCourseRates(db, 1, rates))

	var uc courseModels.UserCourse
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, course.ID).First(&uc).Error)
	assert.Equal(t, 50, uc.ProgressRate)
	assert.Equal(t, courseModels.StatusInProgress, uc.LearningStatus)
}

func TestDecideLearningStatus(t *testing.T) {
	assert.Equal(t, courseModels.StatusNotStarted, DecideLearningStatus(0))
	assert.Equal(t, courseModels.StatusNotStarted, DecideLearningStatus(-5))
	assert.Equal(t, courseModels.StatusInProgress, DecideLearningStatus(1))
	assert.Equal(t, courseModels.StatusInProgress, DecideLearningStatus(99))
	assert.Equal(t, courseModels.StatusCompleted, DecideLearningStatus(100))
}
