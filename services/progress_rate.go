package services

import (
	courseModels "langit/models/course"

	"gorm.io/gorm"
)

// CourseProgressRate is one computed per-course completion percentage.
type CourseProgressRate struct {
	CourseID     uint `json:"course_id"`
	ProgressRate int  `json:"progress_rate"`
}

// GetProgressRates computes completion percentages from chapter counts and
// completed progress rows. Pure read: persisting the rates back onto
// user_courses is the caller's job (see SyncUserCourseRates).
//
// courseID restricts the result to one course; a course the user is not
// enrolled in (or that has no chapters) reports 0% rather than an error.
// With no courseID and no enrollments the result is empty.
func GetProgressRates(db *gorm.DB, userID uint, courseID *uint) ([]CourseProgressRate, error) {
	var enrolledIDs []uint
	if err := db.Model(&courseModels.UserCourse{}).
		Where("user_id = ?", userID).
		Pluck("course_id", &enrolledIDs).Error; err != nil {
		return nil, err
	}

	if len(enrolledIDs) == 0 {
		if courseID != nil {
			return []CourseProgressRate{{CourseID: *courseID, ProgressRate: 0}}, nil
		}
		return []CourseProgressRate{}, nil
	}

	var targetIDs []uint
	if courseID != nil {
		if !containsID(enrolledIDs, *courseID) {
			return []CourseProgressRate{{CourseID: *courseID, ProgressRate: 0}}, nil
		}
		targetIDs = []uint{*courseID}
	} else {
		targetIDs = enrolledIDs
	}

	type courseCount struct {
		CourseID uint
		Total    int
	}

	var chapterCounts []courseCount
	if err := db.Model(&courseModels.Chapter{}).
		Select("course_id, COUNT(*) as total").
		Where("course_id IN ?", targetIDs).
		Group("course_id").
		Scan(&chapterCounts).Error; err != nil {
		return nil, err
	}

	totalsByCourse := make(map[uint]int, len(chapterCounts))
	for _, cc := range chapterCounts {
		totalsByCourse[cc.CourseID] = cc.Total
	}

	// A requested course without chapters still reports 0%
	if courseID != nil && totalsByCourse[*courseID] == 0 {
		return []CourseProgressRate{{CourseID: *courseID, ProgressRate: 0}}, nil
	}

	var completedCounts []courseCount
	if err := db.Model(&courseModels.Progress{}).
		Select("course_id, COUNT(*) as total").
		Where("user_id = ? AND course_id IN ? AND is_completed = ?", userID, targetIDs, true).
		Group("course_id").
		Scan(&completedCounts).Error; err != nil {
		return nil, err
	}

	completedByCourse := make(map[uint]int, len(completedCounts))
	for _, cc := range completedCounts {
		completedByCourse[cc.CourseID] = cc.Total
	}

	rates := make([]CourseProgressRate, 0, len(chapterCounts))
	for _, cc := range chapterCounts {
		rates = append(rates, CourseProgressRate{
			CourseID:     cc.CourseID,
			ProgressRate: computeRate(completedByCourse[cc.CourseID], cc.Total),
		})
	}

	return rates, nil
}

// SyncUserCourseRates writes computed rates back onto the enrollment rows.
func SyncUserCourseRates(db *gorm.DB, userID uint, rates []CourseProgressRate) error {
	for _, r := range rates {
		err := db.Model(&courseModels.UserCourse{}).
			Where("user_id = ? AND course_id = ?", userID, r.CourseID).
			Updates(map[string]interface{}{
				"progress_rate":   r.ProgressRate,
				"learning_status": DecideLearningStatus(r.ProgressRate),
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// DecideLearningStatus maps a 0-100 rate onto the enrollment status label.
func DecideLearningStatus(progressRate int) string {
	if progressRate <= 0 {
		return courseModels.StatusNotStarted
	}
	if progressRate >= 100 {
		return courseModels.StatusCompleted
	}
	return courseModels.StatusInProgress
}

// computeRate floors completed*100/total; a chapterless course rates 0.
func computeRate(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return completed * 100 / total
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
