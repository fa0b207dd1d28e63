package test

import "gorm.io/gorm"

// TestResult is an immutable submission record. One row per scoring attempt;
// retries append rows, they never update existing ones.
type TestResult struct {
	gorm.Model
	ResultUID      string `json:"result_uid" gorm:"uniqueIndex;size:36"` // public reference for the frontend
	TestID         uint   `json:"test_id" gorm:"index;not null"`
	UserID         uint   `json:"user_id" gorm:"index;not null"`
	Score          int    `json:"score"` // 0-100
	IsPassed       bool   `json:"is_passed" gorm:"default:false"`
	ElapsedSeconds *int   `json:"elapsed_seconds"`
}

// TestAnswerDetail records one answered question of a result.
type TestAnswerDetail struct {
	gorm.Model
	TestResultID uint `json:"test_result_id" gorm:"index;not null"`
	QuestionID   uint `json:"question_id" gorm:"index;not null"`
	ChoiceID     uint `json:"choice_id" gorm:"not null"`
	IsCorrect    bool `json:"is_correct" gorm:"default:false"`
}
