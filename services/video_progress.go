package services

import (
	"errors"
	"log"

	courseModels "langit/models/course"

	"gorm.io/gorm"
)

// completeThreshold is the watched rate at which a video chapter counts as
// completed (80%).
const completeThreshold = 0.8

// Watch state labels returned by UpdateProgress.
const (
	WatchStatusLearning  = "learning"
	WatchStatusCompleted = "completed"
)

// CourseCompletedHook is invoked when an enrollment first transitions to
// completed. Wired to the webhook notifier in main; nil-safe.
var CourseCompletedHook func(userID, courseID uint)

// ResolveVideoForUser loads a video with its chapter and course and verifies
// the user's enrollment. Any failure is reported as ErrNotFound so callers
// cannot distinguish a missing video from a forbidden one.
func ResolveVideoForUser(db *gorm.DB, userID, videoID uint) (*courseModels.Video, *courseModels.Chapter, *courseModels.Course, error) {
	var video courseModels.Video
	if err := db.First(&video, videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrNotFound
		}
		return nil, nil, nil, err
	}

	var chapter courseModels.Chapter
	if err := db.First(&chapter, video.ChapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrNotFound
		}
		return nil, nil, nil, err
	}

	var course courseModels.Course
	if err := db.First(&course, chapter.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrNotFound
		}
		return nil, nil, nil, err
	}

	var enrolled int64
	if err := db.Model(&courseModels.UserCourse{}).
		Where("user_id = ? AND course_id = ?", userID, course.ID).
		Count(&enrolled).Error; err != nil {
		return nil, nil, nil, err
	}
	if enrolled == 0 {
		return nil, nil, nil, ErrNotFound
	}

	return &video, &chapter, &course, nil
}

// RecordEvent stores the position where the user last stopped (play / pause /
// seek). Last writer wins: unlike watch-time accumulation this is not a max.
func RecordEvent(db *gorm.DB, userID, videoID uint, position int) error {
	video, chapter, course, err := ResolveVideoForUser(db, userID, videoID)
	if err != nil {
		return err
	}

	if position < 0 {
		position = 0
	}
	if video.Duration > 0 && position > video.Duration {
		position = video.Duration
	}

	return db.Transaction(func(tx *gorm.DB) error {
		progress, err := progressRow(tx, userID, course.ID, chapter.ID)
		if err != nil {
			return err
		}
		progress.LastWatchPosition = position
		return tx.Save(progress).Error
	})
}

// UpdateProgress ingests an accumulated watch time for a video and returns
// the chapter watch status plus the stored watched rate.
//
// Watch metrics are monotonic: watched_seconds and watched_rate only ever
// grow, and completion is sticky once the 80% threshold is crossed.
func UpdateProgress(db *gorm.DB, userID, videoID uint, watchTime int) (string, float64, error) {
	if watchTime < 0 {
		return "", 0, invalidInput("watch_time must be 0 or greater")
	}

	video, chapter, course, err := ResolveVideoForUser(db, userID, videoID)
	if err != nil {
		return "", 0, err
	}

	duration := video.Duration
	if duration <= 0 {
		return "", 0, invalidInput("video has no duration")
	}

	// A watch time wildly beyond the video length is a client bug or abuse;
	// reject it and leave a trace for operators.
	if watchTime > duration*10 {
		log.Printf("video.watch_time.suspicious user_id=%d video_id=%d watch_time=%d duration=%d",
			userID, videoID, watchTime, duration)
		return "", 0, invalidInput("watch_time is implausibly large")
	}

	normalizedWatchTime := watchTime
	if normalizedWatchTime > duration {
		normalizedWatchTime = duration
	}
	watchedRate := float64(normalizedWatchTime) / float64(duration)
	if watchedRate > 1.0 {
		watchedRate = 1.0
	}

	var status string
	var storedRate float64

	err = db.Transaction(func(tx *gorm.DB) error {
		progress, err := progressRow(tx, userID, course.ID, chapter.ID)
		if err != nil {
			return err
		}

		// Clip stale seconds in case the video duration was shortened
		if progress.WatchedSeconds > duration {
			progress.WatchedSeconds = duration
		}

		if normalizedWatchTime > progress.WatchedSeconds {
			progress.WatchedSeconds = normalizedWatchTime
		}
		if watchedRate > progress.WatchedRate {
			progress.WatchedRate = watchedRate
		}

		if !progress.IsCompleted && progress.WatchedRate >= completeThreshold {
			progress.IsCompleted = true
		}

		if err := tx.Save(progress).Error; err != nil {
			return err
		}

		if err := RefreshUserCourseProgress(tx, userID, course.ID); err != nil {
			return err
		}

		storedRate = progress.WatchedRate
		status = WatchStatusLearning
		if progress.IsCompleted {
			status = WatchStatusCompleted
		}
		return nil
	})
	if err != nil {
		return "", 0, err
	}

	return status, storedRate, nil
}

// RefreshUserCourseProgress recomputes one enrollment's progress_rate and
// learning_status from chapter counts. Missing enrollments are left alone.
func RefreshUserCourseProgress(db *gorm.DB, userID, courseID uint) error {
	var totalChapters int64
	if err := db.Model(&courseModels.Chapter{}).
		Where("course_id = ?", courseID).
		Count(&totalChapters).Error; err != nil {
		return err
	}

	progressRate := 0
	if totalChapters > 0 {
		var completed int64
		if err := db.Model(&courseModels.Progress{}).
			Where("user_id = ? AND course_id = ? AND is_completed = ?", userID, courseID, true).
			Count(&completed).Error; err != nil {
			return err
		}
		progressRate = int(completed) * 100 / int(totalChapters)
	}
	status := DecideLearningStatus(progressRate)

	var userCourse courseModels.UserCourse
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&userCourse).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	firstCompletion := status == courseModels.StatusCompleted &&
		userCourse.LearningStatus != courseModels.StatusCompleted

	userCourse.ProgressRate = progressRate
	userCourse.LearningStatus = status
	if err := db.Save(&userCourse).Error; err != nil {
		return err
	}

	if firstCompletion && CourseCompletedHook != nil {
		CourseCompletedHook(userID, courseID)
	}
	return nil
}

// WatchStateFor reads the stored watch state for a chapter without creating
// anything; an absent row reads as all-zero state.
func WatchStateFor(db *gorm.DB, userID, courseID, chapterID uint) (*courseModels.Progress, error) {
	var progress courseModels.Progress
	err := db.Where("user_id = ? AND course_id = ? AND chapter_id = ?", userID, courseID, chapterID).
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &courseModels.Progress{UserID: userID, CourseID: courseID, ChapterID: chapterID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// progressRow loads or initializes the progress record for the natural key
// (user, course, chapter) inside the caller's transaction.
func progressRow(tx *gorm.DB, userID, courseID, chapterID uint) (*courseModels.Progress, error) {
	var progress courseModels.Progress
	err := tx.Where("user_id = ? AND course_id = ? AND chapter_id = ?", userID, courseID, chapterID).
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = courseModels.Progress{
			UserID:    userID,
			CourseID:  courseID,
			ChapterID: chapterID,
		}
		return &progress, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}
